package core

// Execution types accepted by the positions endpoint.
const (
	ExecutionMarket = "MARKET"
	ExecutionTWAP   = "TWAP"
)

// BasketTradeParams selects the raw symbols for each side of a basket trade.
type BasketTradeParams struct {
	Long  []string `json:"long"`
	Short []string `json:"short"`
}

// Empty reports whether both sides are empty, which makes the trade invalid.
func (p BasketTradeParams) Empty() bool {
	return len(p.Long) == 0 && len(p.Short) == 0
}

// OrderRequest is the payload POSTed to the positions endpoint.
type OrderRequest struct {
	ExecutionType string        `json:"executionType"`
	Leverage      int           `json:"leverage"`
	UsdValue      float64       `json:"usdValue"`
	Slippage      float64       `json:"slippage"`
	LongAssets    []BasketAsset `json:"longAssets"`
	ShortAssets   []BasketAsset `json:"shortAssets"`
}

// TradeResult is the normalized outcome of a basket trade, flattened from the
// several response shapes the remote has been observed to return.
type TradeResult struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
