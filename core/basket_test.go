package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "BTC", NormalizeSymbol("BTC/USD"))
	assert.Equal(t, "ETH", NormalizeSymbol("eth/usdc"))
	assert.Equal(t, "SOL", NormalizeSymbol("  sol  "))
	assert.Equal(t, "DOGE", NormalizeSymbol("DOGE"))
}

func TestNormalizeSideEqualWeights(t *testing.T) {
	assets := NormalizeSide([]string{"BTC/USD", "eth/usdc"})
	require.Len(t, assets, 2)
	assert.Equal(t, BasketAsset{Symbol: "BTC", Weight: 0.5}, assets[0])
	assert.Equal(t, BasketAsset{Symbol: "ETH", Weight: 0.5}, assets[1])
}

func TestNormalizeSideEmpty(t *testing.T) {
	assets := NormalizeSide(nil)
	assert.NotNil(t, assets)
	assert.Empty(t, assets)
}

func TestValidateWeightsThreeWaySplit(t *testing.T) {
	assets := NormalizeSide([]string{"AI", "ML", "RNDR"})
	require.Len(t, assets, 3)
	assert.NoError(t, ValidateWeights("long", assets))
}

func TestValidateWeightsEmptySide(t *testing.T) {
	assert.NoError(t, ValidateWeights("short", nil))
}

func TestValidateWeightsRejectsBadSum(t *testing.T) {
	assets := []BasketAsset{
		{Symbol: "BTC", Weight: 0.25},
		{Symbol: "ETH", Weight: 0.25},
	}
	err := ValidateWeights("long", assets)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWeightSumInvalid))
	assert.Contains(t, err.Error(), "long")
	assert.Contains(t, err.Error(), "0.5")
}

func TestBasketTradeParamsEmpty(t *testing.T) {
	assert.True(t, BasketTradeParams{}.Empty())
	assert.False(t, BasketTradeParams{Long: []string{"SOL"}}.Empty())
	assert.False(t, BasketTradeParams{Short: []string{"ETH"}}.Empty())
}
