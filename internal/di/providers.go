// Package di assembles the application from configuration.
package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alias1177/CryptoPredict/internal/analyze"
	"github.com/Alias1177/CryptoPredict/internal/api/openai"
	"github.com/Alias1177/CryptoPredict/internal/auth"
	"github.com/Alias1177/CryptoPredict/internal/config"
	"github.com/Alias1177/CryptoPredict/internal/database"
	"github.com/Alias1177/CryptoPredict/internal/events"
	"github.com/Alias1177/CryptoPredict/internal/handler"
	"github.com/Alias1177/CryptoPredict/internal/metrics"
	"github.com/Alias1177/CryptoPredict/internal/server"
	"github.com/Alias1177/CryptoPredict/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Core holds the services shared by the HTTP API and the bot.
type Core struct {
	Registry  *prometheus.Registry
	Metrics   *metrics.Recorder
	Predictor *analyze.Predictor
	Sessions  *auth.Service
	History   models.HistoryStore

	closers []func() error
}

// Close releases every connection opened by InitializeCore.
func (c *Core) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	return errors.Join(errs...)
}

// InitializeCore builds the prediction and session services. On error every
// resource opened so far is released.
func InitializeCore(ctx context.Context, cfg *config.Config) (core *Core, err error) {
	core = &Core{}
	defer func() {
		if err != nil {
			core.Close()
			core = nil
		}
	}()

	core.Registry = ProvideRegistry()
	core.Metrics = metrics.New(core.Registry)

	store, closeStore, err := ProvideSessionStore(ctx, cfg)
	if err != nil {
		return core, err
	}
	core.closers = append(core.closers, closeStore)

	history, closeHistory, err := ProvideHistory(ctx, cfg)
	if err != nil {
		return core, err
	}
	core.closers = append(core.closers, closeHistory)
	core.History = history

	publisher, closePublisher, err := ProvidePublisher(cfg)
	if err != nil {
		return core, err
	}
	core.closers = append(core.closers, closePublisher)

	core.Predictor = analyze.NewPredictor(ProvideCompletionsClient(cfg),
		analyze.WithHistory(history),
		analyze.WithPublisher(publisher),
		analyze.WithMetrics(core.Metrics),
	)
	core.Sessions = ProvideAuthService(cfg, store, core.Metrics)

	return core, nil
}

// ProvideRegistry creates the Prometheus registry with runtime collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideCompletionsClient creates the chat completions client.
func ProvideCompletionsClient(cfg *config.Config) *openai.Client {
	return openai.NewClient(openai.ClientOptions{
		Endpoint:       cfg.OpenAI.Endpoint,
		Model:          cfg.OpenAI.Model,
		SystemPrompt:   cfg.OpenAI.SystemPrompt,
		APIKeyEnv:      cfg.OpenAI.APIKeyEnv,
		RequestTimeout: cfg.OpenAI.RequestTimeout,
		RequestsPerSec: cfg.OpenAI.RequestsPerSec,
		MaxRetries:     cfg.OpenAI.MaxRetries,
	})
}

// ProvideSessionStore creates the memory or Redis session store.
func ProvideSessionStore(ctx context.Context, cfg *config.Config) (models.SessionStore, func() error, error) {
	if cfg.Auth.Backend != "redis" {
		return auth.NewMemoryStore(), noopClose, nil
	}

	store, err := auth.NewRedisStore(ctx, auth.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("session store: %w", err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Sessions stored in Redis")
	return store, store.Close, nil
}

// ProvideHistory creates the Postgres history store, or a memory one when the
// database is disabled.
func ProvideHistory(ctx context.Context, cfg *config.Config) (models.HistoryStore, func() error, error) {
	if !cfg.Database.Enabled {
		return database.NewMemoryHistory(cfg.History.MemoryLimit), noopClose, nil
	}

	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("history database: %w", err)
	}
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("Prediction history stored in Postgres")
	return db, db.Close, nil
}

// ProvidePublisher creates the Kafka publisher, or a no-op one when Kafka is disabled.
func ProvidePublisher(cfg *config.Config) (models.EventPublisher, func() error, error) {
	if !cfg.Kafka.Enabled {
		return events.Noop{}, noopClose, nil
	}

	pub, err := events.NewKafkaPublisher(events.ProducerConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		MaxAttempts:    cfg.Kafka.MaxAttempts,
		WriteTimeout:   cfg.Kafka.WriteTimeout,
		PublishTimeout: cfg.Kafka.PublishTimeout,
		Async:          cfg.Kafka.Async,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("kafka publisher: %w", err)
	}
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Prediction events published to Kafka")
	return pub, pub.Close, nil
}

// ProvideAuthService creates the session service.
func ProvideAuthService(cfg *config.Config, store models.SessionStore, m *metrics.Recorder) *auth.Service {
	return auth.NewService(store, auth.Options{
		SimulatedDelay: cfg.Auth.SimulatedDelay,
		SessionTTL:     cfg.Auth.SessionTTL,
		Metrics:        m,
	})
}

// ProvideHTTPServer creates the echo server with the API routes.
func ProvideHTTPServer(cfg *config.Config, core *Core) *server.Server {
	opts := []server.ServerOption{
		server.WithHost(cfg.Server.Host),
		server.WithPort(cfg.Server.Port),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		server.WithCORS(cfg.Server.CORS),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, server.WithMetrics(core.Metrics, cfg.Metrics.Path,
			promhttp.HandlerFor(core.Registry, promhttp.HandlerOpts{})))
	}

	h := handler.New(core.Predictor, core.Sessions, core.History)
	return server.NewServer([]server.Handler{h}, opts...)
}

func noopClose() error { return nil }
