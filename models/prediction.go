package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FallbackText is shown whenever the prediction service produced no usable text.
const FallbackText = "No prediction available."

// PredictionHorizon is how far ahead the prediction date is placed.
const PredictionHorizon = 30 * 24 * time.Hour

// ErrInvalidRequest wraps every validation failure of a PredictionRequest.
var ErrInvalidRequest = errors.New("invalid prediction request")

var validate = validator.New()

// ErrorKind classifies why a prediction call did not produce text.
type ErrorKind string

const (
	ErrorKindNone              ErrorKind = ""
	ErrorKindUnauthorized      ErrorKind = "unauthorized"
	ErrorKindRateLimited       ErrorKind = "rate_limited"
	ErrorKindUnreachable       ErrorKind = "unreachable"
	ErrorKindUpstream          ErrorKind = "upstream"
	ErrorKindMalformedResponse ErrorKind = "malformed_response"
	ErrorKindEmptyResponse     ErrorKind = "empty_response"
)

// PredictionRequest is the set of parameters a user submits for one prediction.
type PredictionRequest struct {
	Symbol              Symbol    `json:"crypto" validate:"required,oneof=BTC ETH ADA SOL DOT"`
	Timeframe           Timeframe `json:"timeframe" validate:"required,oneof=1D 1W 1M 3M 6M 1Y"`
	Confidence          float64   `json:"confidenceThreshold" validate:"gte=0,lte=100"`
	TechnicalIndicators bool      `json:"includeTechnicalIndicators"`
	SentimentAnalysis   bool      `json:"includeSentimentAnalysis"`
}

// Validate checks the request against the supported enumerations and bounds.
func (r PredictionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// CryptoInfo is the display identity of the predicted asset.
type CryptoInfo struct {
	Name   string `json:"name"`
	Symbol Symbol `json:"symbol"`
	Icon   string `json:"icon"`
}

// PredictionResult is the record shown to the user after a prediction.
//
// PredictedPrice holds the text returned by the model verbatim. Forecast is
// the same text classified as either a numeric price or advisory prose.
type PredictionResult struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId,omitempty"`
	Crypto         CryptoInfo      `json:"crypto"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	PredictedPrice string          `json:"predictedPrice"`
	Forecast       Forecast        `json:"forecast"`
	Confidence     float64         `json:"confidence"`
	Timeframe      Timeframe       `json:"timeframe"`
	PredictionDate string          `json:"predictionDate"`
	SupportFactors []string        `json:"supportFactors"`
	Outcome        ErrorKind       `json:"outcome,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Failed reports whether the predicted text is the fallback produced by an error.
func (r *PredictionResult) Failed() bool {
	return r.Outcome != ErrorKindNone
}

// UnmarshalJSON restores a stored result. Forecast is derived again from
// PredictedPrice since the interface value cannot be decoded directly.
func (r *PredictionResult) UnmarshalJSON(data []byte) error {
	type alias PredictionResult
	aux := struct {
		*alias
		Forecast json.RawMessage `json:"forecast"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Forecast = ParseForecast(r.PredictedPrice)
	return nil
}
