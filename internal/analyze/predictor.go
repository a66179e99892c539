package analyze

import (
	"context"
	"fmt"
	"time"

	"github.com/Alias1177/CryptoPredict/internal/api/openai"
	"github.com/Alias1177/CryptoPredict/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Metrics records prediction outcomes.
type Metrics interface {
	ObservePrediction(symbol string, outcome models.ErrorKind, elapsed time.Duration)
}

// Predictor turns user selections into a PredictionResult.
type Predictor struct {
	client    models.PredictionClient
	history   models.HistoryStore
	publisher models.EventPublisher
	metrics   Metrics
	now       func() time.Time
	logger    zerolog.Logger
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithHistory persists every result to store.
func WithHistory(store models.HistoryStore) Option {
	return func(p *Predictor) { p.history = store }
}

// WithPublisher announces every result through pub.
func WithPublisher(pub models.EventPublisher) Option {
	return func(p *Predictor) { p.publisher = pub }
}

// WithMetrics records outcome counters and latency.
func WithMetrics(m Metrics) Option {
	return func(p *Predictor) { p.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Predictor) { p.now = now }
}

// NewPredictor creates a Predictor backed by client.
func NewPredictor(client models.PredictionClient, opts ...Option) *Predictor {
	p := &Predictor{
		client: client,
		now:    time.Now,
		logger: log.With().Str("component", "predictor").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict validates req, asks the client for forecast text and assembles the
// result record. The only error returned is a validation error; a failed
// completions call yields the fallback text with Outcome set to its kind.
func (p *Predictor) Predict(ctx context.Context, userID string, req models.PredictionRequest) (*models.PredictionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	asset, ok := models.LookupAsset(string(req.Symbol))
	if !ok {
		return nil, fmt.Errorf("%w: unsupported symbol %s", models.ErrInvalidRequest, req.Symbol)
	}

	start := p.now()
	text, err := p.client.Complete(ctx, req)
	outcome := openai.KindOf(err)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("symbol", string(req.Symbol)).
			Str("outcome", string(outcome)).
			Msg("Prediction fell back")
		text = models.FallbackText
	}
	elapsed := p.now().Sub(start)

	result := &models.PredictionResult{
		ID:     uuid.NewString(),
		UserID: userID,
		Crypto: models.CryptoInfo{
			Name:   asset.Name,
			Symbol: asset.Symbol,
			Icon:   asset.Icon,
		},
		CurrentPrice:   asset.CurrentPrice,
		PredictedPrice: text,
		Forecast:       models.ParseForecast(text),
		Confidence:     req.Confidence,
		Timeframe:      req.Timeframe,
		PredictionDate: start.Add(models.PredictionHorizon).Format(time.DateOnly),
		SupportFactors: []string{},
		Outcome:        outcome,
		CreatedAt:      start,
	}

	if p.metrics != nil {
		p.metrics.ObservePrediction(string(req.Symbol), outcome, elapsed)
	}
	p.record(ctx, result)

	p.logger.Info().
		Str("id", result.ID).
		Str("symbol", string(req.Symbol)).
		Str("timeframe", string(req.Timeframe)).
		Str("forecast", result.Forecast.Kind()).
		Dur("elapsed", elapsed).
		Msg("Prediction completed")

	return result, nil
}

// record stores and publishes the result. Failures never reach the caller.
func (p *Predictor) record(ctx context.Context, result *models.PredictionResult) {
	if p.history != nil {
		if err := p.history.SavePrediction(ctx, result); err != nil {
			p.logger.Error().Err(err).Str("id", result.ID).Msg("Failed to save prediction history")
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishPrediction(ctx, result); err != nil {
			p.logger.Error().Err(err).Str("id", result.ID).Msg("Failed to publish prediction event")
		}
	}
}
