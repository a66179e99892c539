package bot

import (
	"fmt"

	"github.com/Alias1177/CryptoPredict/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Select Crypto"),
			tgbotapi.NewKeyboardButton("Select Timeframe"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Run Prediction"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Settings"),
			tgbotapi.NewKeyboardButton("History"),
		),
	)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("← Back to Main Menu", "main_menu"))
}

// cryptoMenu lists the supported assets, two per row.
func cryptoMenu() tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, a := range models.Assets() {
		if i%2 == 0 && i > 0 {
			keyboard = append(keyboard, row)
			row = nil
		}
		label := fmt.Sprintf("%s (%s)", a.Name, a.Symbol)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "crypto_"+string(a.Symbol)))
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	keyboard = append(keyboard, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// timeframeMenu lists the supported timeframes, three per row.
func timeframeMenu() tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, tf := range models.Timeframes() {
		if i%3 == 0 && i > 0 {
			keyboard = append(keyboard, row)
			row = nil
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(tf.Label, "tf_"+string(tf.Value)))
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	keyboard = append(keyboard, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

func settingsMenu(req models.PredictionRequest) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Technical Indicators: "+onOff(req.TechnicalIndicators), "toggle_indicators"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Sentiment Analysis: "+onOff(req.SentimentAnalysis), "toggle_sentiment"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Run Prediction", "run_prediction"),
		),
		backRow(),
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func timeframeLabel(tf models.Timeframe) string {
	for _, opt := range models.Timeframes() {
		if opt.Value == tf {
			return opt.Label
		}
	}
	return string(tf)
}
