package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Symbol is a supported cryptocurrency ticker.
type Symbol string

const (
	SymbolBTC Symbol = "BTC"
	SymbolETH Symbol = "ETH"
	SymbolADA Symbol = "ADA"
	SymbolSOL Symbol = "SOL"
	SymbolDOT Symbol = "DOT"
)

// Timeframe is a prediction horizon code.
type Timeframe string

const (
	Timeframe1D Timeframe = "1D"
	Timeframe1W Timeframe = "1W"
	Timeframe1M Timeframe = "1M"
	Timeframe3M Timeframe = "3M"
	Timeframe6M Timeframe = "6M"
	Timeframe1Y Timeframe = "1Y"
)

// TimeframeOption pairs a horizon code with its label.
type TimeframeOption struct {
	Value Timeframe `json:"value"`
	Label string    `json:"label"`
}

// Asset describes a cryptocurrency as shown next to a prediction.
// CurrentPrice is a fixed reference value, not live market data.
type Asset struct {
	Name         string          `json:"name"`
	Symbol       Symbol          `json:"symbol"`
	Icon         string          `json:"icon"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

var assets = []Asset{
	{Name: "Bitcoin", Symbol: SymbolBTC, Icon: "logos:bitcoin", CurrentPrice: decimal.RequireFromString("65432.1")},
	{Name: "Ethereum", Symbol: SymbolETH, Icon: "logos:ethereum", CurrentPrice: decimal.RequireFromString("3521.45")},
	{Name: "Cardano", Symbol: SymbolADA, Icon: "logos:cardano", CurrentPrice: decimal.RequireFromString("0.58")},
	{Name: "Solana", Symbol: SymbolSOL, Icon: "logos:solana", CurrentPrice: decimal.RequireFromString("142.32")},
	{Name: "Polkadot", Symbol: SymbolDOT, Icon: "logos:polkadot", CurrentPrice: decimal.RequireFromString("7.92")},
}

var timeframes = []TimeframeOption{
	{Value: Timeframe1D, Label: "1 Day"},
	{Value: Timeframe1W, Label: "1 Week"},
	{Value: Timeframe1M, Label: "1 Month"},
	{Value: Timeframe3M, Label: "3 Months"},
	{Value: Timeframe6M, Label: "6 Months"},
	{Value: Timeframe1Y, Label: "1 Year"},
}

// Assets returns the supported assets in display order.
func Assets() []Asset {
	out := make([]Asset, len(assets))
	copy(out, assets)
	return out
}

// LookupAsset finds an asset by symbol, case-insensitively.
func LookupAsset(symbol string) (Asset, bool) {
	s := Symbol(strings.ToUpper(strings.TrimSpace(symbol)))
	for _, a := range assets {
		if a.Symbol == s {
			return a, true
		}
	}
	return Asset{}, false
}

// Timeframes returns the supported horizons in display order.
func Timeframes() []TimeframeOption {
	out := make([]TimeframeOption, len(timeframes))
	copy(out, timeframes)
	return out
}

// IsValidTimeframe reports whether tf is one of the supported horizon codes.
func IsValidTimeframe(tf string) bool {
	for _, t := range timeframes {
		if string(t.Value) == tf {
			return true
		}
	}
	return false
}
