package service

import (
	"encoding/json"
	"strconv"

	"github.com/arbit-labs/arbit/core"
)

// parseTradeResult normalizes the remote's heterogeneous success shapes into
// one result. Identifier fields are probed in the order they have been
// observed, falling back to transaction-hash fields and finally "unknown".
func parseTradeResult(body []byte) core.TradeResult {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return core.TradeResult{OrderID: "unknown", Status: "submitted"}
	}

	orderID := firstField(raw, "orderId", "id", "order_id")
	if orderID == "" {
		orderID = firstField(raw, "txHash", "hash")
	}
	if orderID == "" {
		orderID = "unknown"
	}

	status := firstField(raw, "status", "state")
	if status == "" {
		status = "submitted"
	}

	message := firstField(raw, "message")
	if message == "" {
		message = "Trade executed successfully"
	}

	return core.TradeResult{OrderID: orderID, Status: status, Message: message}
}

func firstField(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
