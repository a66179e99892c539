package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLookupAsset(t *testing.T) {
	tests := []struct {
		symbol   string
		name     string
		icon     string
		price    string
		expected bool
	}{
		{symbol: "BTC", name: "Bitcoin", icon: "logos:bitcoin", price: "65432.1", expected: true},
		{symbol: "eth", name: "Ethereum", icon: "logos:ethereum", price: "3521.45", expected: true},
		{symbol: "ADA", name: "Cardano", icon: "logos:cardano", price: "0.58", expected: true},
		{symbol: "SOL", name: "Solana", icon: "logos:solana", price: "142.32", expected: true},
		{symbol: " DOT ", name: "Polkadot", icon: "logos:polkadot", price: "7.92", expected: true},
		{symbol: "DOGE"},
		{symbol: ""},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			a, ok := LookupAsset(tt.symbol)
			if ok != tt.expected {
				t.Fatalf("LookupAsset(%q) ok = %v, want %v", tt.symbol, ok, tt.expected)
			}
			if !ok {
				return
			}
			if a.Name != tt.name || a.Icon != tt.icon {
				t.Errorf("LookupAsset(%q) = %+v", tt.symbol, a)
			}
			if !a.CurrentPrice.Equal(decimal.RequireFromString(tt.price)) {
				t.Errorf("CurrentPrice = %s, want %s", a.CurrentPrice, tt.price)
			}
		})
	}

	if n := len(Assets()); n != 5 {
		t.Errorf("len(Assets()) = %d, want 5", n)
	}
}

func TestAssetsReturnsCopy(t *testing.T) {
	list := Assets()
	list[0].Name = "changed"
	if a, _ := LookupAsset("BTC"); a.Name != "Bitcoin" {
		t.Errorf("asset table was mutated through Assets()")
	}
}

func TestPredictionRequestValidate(t *testing.T) {
	valid := PredictionRequest{Symbol: SymbolBTC, Timeframe: Timeframe1M, Confidence: 75}

	tests := []struct {
		name    string
		mutate  func(r *PredictionRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *PredictionRequest) {}},
		{name: "zero confidence", mutate: func(r *PredictionRequest) { r.Confidence = 0 }},
		{name: "full confidence", mutate: func(r *PredictionRequest) { r.Confidence = 100 }},
		{name: "confidence over 100", mutate: func(r *PredictionRequest) { r.Confidence = 100.5 }, wantErr: true},
		{name: "negative confidence", mutate: func(r *PredictionRequest) { r.Confidence = -1 }, wantErr: true},
		{name: "unknown symbol", mutate: func(r *PredictionRequest) { r.Symbol = "DOGE" }, wantErr: true},
		{name: "empty symbol", mutate: func(r *PredictionRequest) { r.Symbol = "" }, wantErr: true},
		{name: "unknown timeframe", mutate: func(r *PredictionRequest) { r.Timeframe = "ALL" }, wantErr: true},
		{name: "six months", mutate: func(r *PredictionRequest) { r.Timeframe = Timeframe6M }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Validate() error does not wrap ErrInvalidRequest: %v", err)
			}
		})
	}
}

func TestParseForecast(t *testing.T) {
	tests := []struct {
		text    string
		numeric string
	}{
		{text: "67000", numeric: "67000"},
		{text: "$67,250.50", numeric: "67250.5"},
		{text: " 3,600 USD ", numeric: "3600"},
		{text: "0.61", numeric: "0.61"},
		{text: "Bullish, +4% expected"},
		{text: "No prediction available."},
		{text: "-5"},
		{text: "1e6"},
		{text: ""},
		{text: "$"},
		{text: "1,2,3"},
		{text: ",5,"},
		{text: "+5"},
		{text: "12,34.5"},
		{text: "1,234,567.89", numeric: "1234567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := ParseForecast(tt.text)
			switch v := f.(type) {
			case NumericForecast:
				if tt.numeric == "" {
					t.Fatalf("ParseForecast(%q) = numeric %s, want advisory", tt.text, v.Value)
				}
				if !v.Value.Equal(decimal.RequireFromString(tt.numeric)) || v.Currency != "USD" {
					t.Errorf("ParseForecast(%q) = %s %s", tt.text, v.Value, v.Currency)
				}
			case AdvisoryForecast:
				if tt.numeric != "" {
					t.Fatalf("ParseForecast(%q) = advisory, want numeric", tt.text)
				}
				if v.Text != tt.text {
					t.Errorf("advisory text = %q, want %q", v.Text, tt.text)
				}
			default:
				t.Fatalf("unexpected forecast type %T", f)
			}
		})
	}
}

func TestPredictionResultJSONRoundTrip(t *testing.T) {
	in := PredictionResult{
		ID:             "p-1",
		Crypto:         CryptoInfo{Name: "Ethereum", Symbol: SymbolETH, Icon: "logos:ethereum"},
		CurrentPrice:   decimal.RequireFromString("3521.45"),
		PredictedPrice: "$3,700",
		Forecast:       ParseForecast("$3,700"),
		Confidence:     60,
		Timeframe:      Timeframe1W,
		SupportFactors: []string{},
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	b, err := json.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"forecast":{"kind":"numeric","value":3700,"currency":"USD"}`) {
		t.Errorf("marshalled forecast missing: %s", b)
	}
	if !strings.Contains(string(b), `"currentPrice":3521.45`) {
		t.Errorf("currentPrice should be a JSON number: %s", b)
	}
	if !strings.Contains(string(b), `"supportFactors":[]`) {
		t.Errorf("supportFactors should be an empty list: %s", b)
	}

	var out PredictionResult
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.PredictedPrice != in.PredictedPrice || out.Confidence != 60 || !out.CurrentPrice.Equal(in.CurrentPrice) {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if _, ok := out.Forecast.(NumericForecast); !ok {
		t.Errorf("Forecast = %T, want NumericForecast", out.Forecast)
	}
}
