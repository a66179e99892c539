package bot

import (
	"fmt"
	"strings"

	"github.com/Alias1177/CryptoPredict/internal/prompt"
	"github.com/Alias1177/CryptoPredict/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var formatConfidence = prompt.FormatConfidence

func settingsText(req models.PredictionRequest) string {
	return fmt.Sprintf("Current settings:\nAsset: %s\nTimeframe: %s\nConfidence threshold: %s%%\nUse /confidence <0-100> to change the threshold.",
		req.Symbol, timeframeLabel(req.Timeframe), formatConfidence(req.Confidence))
}

// FormatResult renders a prediction result as a Markdown chat message.
func FormatResult(r *models.PredictionResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s (%s) prediction*\n\n", r.Crypto.Name, r.Crypto.Symbol)
	fmt.Fprintf(&sb, "Current Price: $%s\n", r.CurrentPrice.StringFixed(2))
	fmt.Fprintf(&sb, "Forecast: %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, r.PredictedPrice))
	if f, ok := r.Forecast.(models.NumericForecast); ok {
		change := f.Value.Sub(r.CurrentPrice).Div(r.CurrentPrice).Shift(2)
		fmt.Fprintf(&sb, "Expected Change: %s%%\n", change.StringFixed(2))
	}
	fmt.Fprintf(&sb, "Timeframe: %s\n", timeframeLabel(r.Timeframe))
	fmt.Fprintf(&sb, "Confidence: %s%%\n", formatConfidence(r.Confidence))
	fmt.Fprintf(&sb, "Prediction Date: %s\n", r.PredictionDate)

	if r.Failed() {
		sb.WriteString("\n_The prediction service is unavailable right now._")
	}

	return sb.String()
}

// FormatHistory renders the newest results first, one line each.
func FormatHistory(results []models.PredictionResult) string {
	if len(results) == 0 {
		return "No predictions yet."
	}

	var sb strings.Builder
	sb.WriteString("Recent predictions:\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "%s %s %s: %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Crypto.Symbol, r.Timeframe, r.PredictedPrice)
	}
	return strings.TrimRight(sb.String(), "\n")
}
