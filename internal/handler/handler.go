// Package handler serves the prediction, asset and account routes.
package handler

import (
	"context"

	"github.com/Alias1177/CryptoPredict/models"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Predictor produces one prediction result.
type Predictor interface {
	Predict(ctx context.Context, userID string, req models.PredictionRequest) (*models.PredictionResult, error)
}

// Sessions is the account and session service.
type Sessions interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, name, email, password string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	Current(ctx context.Context, token string) (*models.Session, error)
	SaveResult(ctx context.Context, token string, r *models.PredictionResult) error
	LastResult(ctx context.Context, token string) (*models.PredictionResult, error)
}

// Handler holds the dependencies of the API routes.
type Handler struct {
	predictor Predictor
	sessions  Sessions
	history   models.HistoryStore
	logger    zerolog.Logger
}

// New creates a Handler. history may be nil.
func New(predictor Predictor, sessions Sessions, history models.HistoryStore) *Handler {
	return &Handler{
		predictor: predictor,
		sessions:  sessions,
		history:   history,
		logger:    log.With().Str("component", "handler").Logger(),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api/v1")
	api.GET("/assets", h.ListAssets)
	api.GET("/assets/:symbol", h.GetAsset)
	api.GET("/timeframes", h.ListTimeframes)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/register", h.Register)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.Me, h.RequireSession)

	predictions := api.Group("/predictions", h.RequireSession)
	predictions.POST("", h.CreatePrediction)
	predictions.GET("", h.ListPredictions)
	predictions.GET("/last", h.LastPrediction)
}
