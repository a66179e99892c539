package handler

import (
	"errors"
	"strconv"

	"github.com/Alias1177/CryptoPredict/internal/server"
	"github.com/Alias1177/CryptoPredict/models"
	"github.com/labstack/echo/v4"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// predictionRequest mirrors the prediction form. Pointer fields tell an
// explicit false or 0 apart from an absent field.
type predictionRequest struct {
	Crypto                     *string  `json:"crypto" default:"BTC" validate:"required,oneof=BTC ETH ADA SOL DOT"`
	Timeframe                  *string  `json:"timeframe" default:"1M" validate:"required,oneof=1D 1W 1M 3M 6M 1Y"`
	ConfidenceThreshold        *float64 `json:"confidenceThreshold" default:"75" validate:"required,gte=0,lte=100"`
	IncludeTechnicalIndicators *bool    `json:"includeTechnicalIndicators" default:"true"`
	IncludeSentimentAnalysis   *bool    `json:"includeSentimentAnalysis" default:"true"`
}

func (r predictionRequest) toModel() models.PredictionRequest {
	return models.PredictionRequest{
		Symbol:              models.Symbol(*r.Crypto),
		Timeframe:           models.Timeframe(*r.Timeframe),
		Confidence:          *r.ConfidenceThreshold,
		TechnicalIndicators: *r.IncludeTechnicalIndicators,
		SentimentAnalysis:   *r.IncludeSentimentAnalysis,
	}
}

// CreatePrediction runs a prediction and stores it as the session's last result.
func (h *Handler) CreatePrediction(c echo.Context) error {
	var req predictionRequest
	if errs := server.ReadAndValidateRequest(c, &req); errs != nil {
		return server.BadRequestResponse(c, errs)
	}

	ctx := c.Request().Context()
	sess := sessionFrom(c)

	result, err := h.predictor.Predict(ctx, sess.User.ID, req.toModel())
	if errors.Is(err, models.ErrInvalidRequest) {
		return server.BadRequestResponse(c, []server.ValidationError{{Code: "ERR_INVALID", Message: err.Error()}})
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Prediction failed")
		return server.InternalServerErrorResponse(c)
	}

	if err := h.sessions.SaveResult(ctx, sess.Token, result); err != nil {
		h.logger.Error().Err(err).Str("id", result.ID).Msg("Failed to store last result")
	}

	return server.SuccessResponse(c, result)
}

// LastPrediction returns the session's last result.
func (h *Handler) LastPrediction(c echo.Context) error {
	result, err := h.sessions.LastResult(c.Request().Context(), sessionFrom(c).Token)
	if errors.Is(err, models.ErrNotFound) {
		return server.AppErrorResponse(c, server.NotFoundError("No prediction yet"))
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load last result")
		return server.InternalServerErrorResponse(c)
	}
	return server.SuccessResponse(c, result)
}

// ListPredictions returns the user's recent predictions, newest first.
func (h *Handler) ListPredictions(c echo.Context) error {
	limit := defaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return server.BadRequestResponse(c, []server.ValidationError{{
				Code:    "ERR_GTE",
				Field:   "limit",
				Message: "limit must be a positive integer",
			}})
		}
		limit = min(n, maxListLimit)
	}

	if h.history == nil {
		return server.ListResponse(c, []models.PredictionResult{}, 0)
	}

	rows, err := h.history.ListPredictions(c.Request().Context(), sessionFrom(c).User.ID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list predictions")
		return server.InternalServerErrorResponse(c)
	}
	return server.ListResponse(c, rows, int64(len(rows)))
}
