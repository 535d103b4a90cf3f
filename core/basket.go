package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// WeightTolerance is the allowed deviation of a side's weight sum from 1.0.
const WeightTolerance = 0.01

// BasketAsset is one leg of a basket order, serialized the way the positions
// endpoint expects it.
type BasketAsset struct {
	Symbol string  `json:"asset"`
	Weight float64 `json:"weight"`
}

// NormalizeSymbol strips any quote suffix ("BTC/USD" becomes "BTC"), trims
// whitespace and uppercases the ticker.
func NormalizeSymbol(symbol string) string {
	base, _, _ := strings.Cut(symbol, "/")
	return strings.ToUpper(strings.TrimSpace(base))
}

// NormalizeSide converts raw ticker strings into basket legs with equal
// weights. An empty input yields an empty side, which is valid as long as the
// other side is not empty too.
func NormalizeSide(symbols []string) []BasketAsset {
	assets := make([]BasketAsset, 0, len(symbols))
	if len(symbols) == 0 {
		return assets
	}
	weight := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(symbols))))
	for _, s := range symbols {
		assets = append(assets, BasketAsset{
			Symbol: NormalizeSymbol(s),
			Weight: weight.InexactFloat64(),
		})
	}
	return assets
}

// ValidateWeights checks that a non-empty side's weights sum to 1.0 within
// WeightTolerance. side names the basket side for error context.
func ValidateWeights(side string, assets []BasketAsset) error {
	if len(assets) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, a := range assets {
		sum = sum.Add(decimal.NewFromFloat(a.Weight))
	}
	deviation := sum.Sub(decimal.NewFromInt(1)).Abs()
	if deviation.GreaterThan(decimal.NewFromFloat(WeightTolerance)) {
		return fmt.Errorf("%s assets sum to %s: %w", side, sum.String(), ErrWeightSumInvalid)
	}
	return nil
}
