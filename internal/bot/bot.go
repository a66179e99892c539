// Package bot serves predictions over a Telegram chat.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Alias1177/CryptoPredict/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const historyLimit = 5

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Predictor produces one prediction result.
type Predictor interface {
	Predict(ctx context.Context, userID string, req models.PredictionRequest) (*models.PredictionResult, error)
}

// UserState holds one chat user's form selections.
type UserState struct {
	Request      models.PredictionRequest
	LastActivity time.Time
}

func newUserState(now time.Time) *UserState {
	return &UserState{
		Request: models.PredictionRequest{
			Symbol:              models.SymbolBTC,
			Timeframe:           models.Timeframe1M,
			Confidence:          75,
			TechnicalIndicators: true,
			SentimentAnalysis:   true,
		},
		LastActivity: now,
	}
}

// Bot routes Telegram updates to the predictor. Updates are handled one at a
// time, so a UserState is only touched by the goroutine running Run.
type Bot struct {
	api       Sender
	predictor Predictor
	history   models.HistoryStore
	logger    zerolog.Logger
	now       func() time.Time

	mu     sync.Mutex
	states map[int64]*UserState
}

// New creates a Bot. history may be nil.
func New(api Sender, predictor Predictor, history models.HistoryStore) *Bot {
	return &Bot{
		api:       api,
		predictor: predictor,
		history:   history,
		logger:    log.With().Str("component", "tgbot").Logger(),
		now:       time.Now,
		states:    make(map[int64]*UserState),
	}
}

// Run handles updates until ctx is done or the channel closes.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.HandleMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				b.HandleCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

// state returns the user's state, creating it with the form defaults.
func (b *Bot) state(userID int64, reset bool) *UserState {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.states[userID]
	if !ok || reset {
		s = newUserState(b.now())
		b.states[userID] = s
	}
	s.LastActivity = b.now()
	return s
}

// HandleMessage processes incoming text messages
func (b *Bot) HandleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	userID := message.From.ID
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	if text == "/start" {
		b.state(userID, true)
		b.reply(chatID, "Welcome to CryptoPredict! Pick an asset and a timeframe, then run a prediction.", mainMenuKeyboard())
		return
	}

	state := b.state(userID, false)

	switch {
	case text == "Main Menu":
		b.reply(chatID, "What would you like to do?", mainMenuKeyboard())
	case text == "Select Crypto":
		b.reply(chatID, "Select a cryptocurrency:", cryptoMenu())
	case text == "Select Timeframe":
		b.reply(chatID, "Select a timeframe:", timeframeMenu())
	case text == "Settings":
		b.reply(chatID, settingsText(state.Request), settingsMenu(state.Request))
	case text == "Run Prediction":
		b.runPrediction(ctx, userID, chatID, state.Request)
	case text == "History" || text == "/history":
		b.sendHistory(ctx, userID, chatID)
	case strings.HasPrefix(text, "/confidence"):
		b.setConfidence(chatID, state, strings.TrimSpace(strings.TrimPrefix(text, "/confidence")))
	default:
		b.reply(chatID, "Use the menu below to configure and run a prediction.", mainMenuKeyboard())
	}
}

// HandleCallback processes inline keyboard presses
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.From == nil || callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	data := callback.Data

	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Debug().Err(err).Msg("Failed to acknowledge callback")
	}

	state := b.state(userID, false)

	switch {
	case strings.HasPrefix(data, "crypto_"):
		asset, ok := models.LookupAsset(strings.TrimPrefix(data, "crypto_"))
		if !ok {
			b.reply(chatID, "Unknown asset.", nil)
			return
		}
		state.Request.Symbol = asset.Symbol
		b.reply(chatID, fmt.Sprintf("Selected %s (%s)\nNow select a timeframe.", asset.Name, asset.Symbol), timeframeMenu())
	case strings.HasPrefix(data, "tf_"):
		tf := strings.TrimPrefix(data, "tf_")
		if !models.IsValidTimeframe(tf) {
			b.reply(chatID, "Unknown timeframe.", nil)
			return
		}
		state.Request.Timeframe = models.Timeframe(tf)
		b.reply(chatID, fmt.Sprintf("Selected timeframe: %s\nYou can now run the prediction.", timeframeLabel(models.Timeframe(tf))), mainMenuKeyboard())
	case data == "toggle_indicators" || data == "toggle_sentiment":
		if data == "toggle_indicators" {
			state.Request.TechnicalIndicators = !state.Request.TechnicalIndicators
		} else {
			state.Request.SentimentAnalysis = !state.Request.SentimentAnalysis
		}
		b.reply(chatID, settingsText(state.Request), settingsMenu(state.Request))
	case data == "run_prediction":
		b.runPrediction(ctx, userID, chatID, state.Request)
	case data == "main_menu":
		b.reply(chatID, "What would you like to do?", mainMenuKeyboard())
	}
}

func (b *Bot) setConfidence(chatID int64, state *UserState, arg string) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || v < 0 || v > 100 {
		b.reply(chatID, "Usage: /confidence <0-100>", nil)
		return
	}
	state.Request.Confidence = v
	b.reply(chatID, fmt.Sprintf("Confidence threshold set to %s%%.", formatConfidence(v)), nil)
}

// runPrediction executes the prediction with selected parameters
func (b *Bot) runPrediction(ctx context.Context, userID, chatID int64, req models.PredictionRequest) {
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Running prediction for %s on %s timeframe...", req.Symbol, req.Timeframe)))
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send processing message")
	}

	result, err := b.predictor.Predict(ctx, telegramUserID(userID), req)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Prediction rejected")
		b.reply(chatID, "Sorry, that prediction request is not valid. Check your settings and try again.", nil)
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, FormatResult(result))
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send prediction result")
	}
}

func (b *Bot) sendHistory(ctx context.Context, userID, chatID int64) {
	if b.history == nil {
		b.reply(chatID, "History is not available.", nil)
		return
	}
	results, err := b.history.ListPredictions(ctx, telegramUserID(userID), historyLimit)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load history")
		b.reply(chatID, "Sorry, there was an error. Please try again later.", nil)
		return
	}
	b.reply(chatID, FormatHistory(results), nil)
}

func (b *Bot) reply(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func telegramUserID(id int64) string {
	return "tg-" + strconv.FormatInt(id, 10)
}
