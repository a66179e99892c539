// Package prompt builds the chat messages sent to the completions endpoint.
package prompt

import (
	"strconv"
	"strings"

	"github.com/Alias1177/CryptoPredict/models"
)

// SystemPrompt is the role description sent ahead of every user message.
const SystemPrompt = "You are a crypto prediction assistant."

// UserMessage interpolates the request into the fixed forecast sentence.
// Values are inserted verbatim; confidence uses its shortest decimal form.
func UserMessage(req models.PredictionRequest) string {
	var sb strings.Builder
	sb.WriteString("Predict the price trend for ")
	sb.WriteString(string(req.Symbol))
	sb.WriteString(" in the next ")
	sb.WriteString(string(req.Timeframe))
	sb.WriteString(". Confidence threshold: ")
	sb.WriteString(FormatConfidence(req.Confidence))
	sb.WriteString("%. Technical Indicators: ")
	sb.WriteString(strconv.FormatBool(req.TechnicalIndicators))
	sb.WriteString(". Sentiment Analysis: ")
	sb.WriteString(strconv.FormatBool(req.SentimentAnalysis))
	sb.WriteString(".")
	return sb.String()
}

// FormatConfidence renders 75 as "75" and 62.5 as "62.5".
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}
