package models

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Forecast is either a NumericForecast or an AdvisoryForecast.
// Callers must switch on the concrete type instead of assuming a number.
type Forecast interface {
	forecast()
	Kind() string
}

// NumericForecast is a model answer that was a plain price.
type NumericForecast struct {
	Value    decimal.Decimal
	Currency string
}

// AdvisoryForecast is free-form model text that is not a price.
type AdvisoryForecast struct {
	Text string
}

func (NumericForecast) forecast()  {}
func (AdvisoryForecast) forecast() {}

func (NumericForecast) Kind() string  { return "numeric" }
func (AdvisoryForecast) Kind() string { return "advisory" }

func (f NumericForecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string          `json:"kind"`
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	}{f.Kind(), f.Value, f.Currency})
}

func (f AdvisoryForecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}{f.Kind(), f.Text})
}

// thousandsPattern accepts "," only as a three-digit group separator.
var thousandsPattern = regexp.MustCompile(`^\d{1,3}(,\d{3})*(\.\d+)?$`)

// ParseForecast classifies model text. Only text that is entirely a price,
// optionally prefixed by "$" or suffixed by "USD" and using "," as thousands
// separator, becomes numeric. Everything else stays advisory and unmodified.
func ParseForecast(text string) Forecast {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(strings.TrimSuffix(s, "USD"))
	s = strings.TrimPrefix(s, "$")
	if s == "" || strings.HasPrefix(s, "+") {
		return AdvisoryForecast{Text: text}
	}
	if strings.Contains(s, ",") {
		if !thousandsPattern.MatchString(s) {
			return AdvisoryForecast{Text: text}
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() || strings.ContainsAny(s, "eE") {
		return AdvisoryForecast{Text: text}
	}
	return NumericForecast{Value: v, Currency: "USD"}
}
