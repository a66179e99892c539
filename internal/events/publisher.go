package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Alias1177/CryptoPredict/models"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// TypePredictionCompleted is the event type emitted after every prediction.
const TypePredictionCompleted = "prediction.completed"

// PredictionEvent is the JSON payload published for a completed prediction.
type PredictionEvent struct {
	Type           string           `json:"type"`
	ID             string           `json:"id"`
	UserID         string           `json:"user_id,omitempty"`
	Symbol         models.Symbol    `json:"symbol"`
	Timeframe      models.Timeframe `json:"timeframe"`
	Confidence     float64          `json:"confidence"`
	PredictedPrice string           `json:"predicted_price"`
	ForecastKind   string           `json:"forecast_kind"`
	Outcome        models.ErrorKind `json:"outcome,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewPredictionEvent builds the event for r.
func NewPredictionEvent(r *models.PredictionResult) PredictionEvent {
	kind := ""
	if r.Forecast != nil {
		kind = r.Forecast.Kind()
	}
	return PredictionEvent{
		Type:           TypePredictionCompleted,
		ID:             r.ID,
		UserID:         r.UserID,
		Symbol:         r.Crypto.Symbol,
		Timeframe:      r.Timeframe,
		Confidence:     r.Confidence,
		PredictedPrice: r.PredictedPrice,
		ForecastKind:   kind,
		Outcome:        r.Outcome,
		CreatedAt:      r.CreatedAt,
	}
}

// ProducerConfig holds Kafka writer settings.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	MaxAttempts  int
	WriteTimeout time.Duration
	BatchTimeout time.Duration
	// PublishTimeout bounds a synchronous publish, independent of the caller.
	PublishTimeout time.Duration
	// Async hands messages to a background batcher; failures are only logged.
	Async bool
}

// KafkaPublisher writes prediction events to a Kafka topic keyed by symbol.
type KafkaPublisher struct {
	writer  *kafka.Writer
	timeout time.Duration
}

// NewKafkaPublisher creates a publisher. Brokers and topic are required.
func NewKafkaPublisher(cfg ProducerConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 100 * time.Millisecond
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = 2 * time.Second
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		BatchTimeout: cfg.BatchTimeout,
		Async:        cfg.Async,
	}
	if cfg.Async {
		w.Completion = func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Str("topic", cfg.Topic).Msg("Failed to publish prediction events")
			}
		}
	}

	return &KafkaPublisher{writer: w, timeout: cfg.PublishTimeout}, nil
}

// PublishPrediction sends one event for r. The write ignores cancellation of
// ctx and is bounded by PublishTimeout instead.
func (p *KafkaPublisher) PublishPrediction(ctx context.Context, r *models.PredictionResult) error {
	value, err := json.Marshal(NewPredictionEvent(r))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(r.Crypto.Symbol),
		Value: value,
		Time:  r.CreatedAt,
	})
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop discards events.
type Noop struct{}

func (Noop) PublishPrediction(ctx context.Context, r *models.PredictionResult) error { return nil }
