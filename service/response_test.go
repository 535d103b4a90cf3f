package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arbit-labs/arbit/core"
)

func TestParseTradeResult(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantID    string
		wantState string
	}{
		{"orderId and status", `{"orderId":"abc123","status":"FILLED"}`, "abc123", "FILLED"},
		{"bare id", `{"id":"ord-9"}`, "ord-9", "submitted"},
		{"snake case id", `{"order_id":"ord-10","state":"PENDING"}`, "ord-10", "PENDING"},
		{"numeric id", `{"id":42}`, "42", "submitted"},
		{"tx hash fallback", `{"txHash":"0xfeed"}`, "0xfeed", "submitted"},
		{"hash fallback", `{"hash":"0xbeef"}`, "0xbeef", "submitted"},
		{"nothing recognizable", `{"ok":true}`, "unknown", "submitted"},
		{"not json", `accepted`, "unknown", "submitted"},
		{"empty body", ``, "unknown", "submitted"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := parseTradeResult([]byte(tc.body))
			assert.Equal(t, tc.wantID, result.OrderID)
			assert.Equal(t, tc.wantState, result.Status)
			assert.NotEmpty(t, result.Message)
		})
	}
}

func TestParseTradeResultKeepsRemoteMessage(t *testing.T) {
	result := parseTradeResult([]byte(`{"orderId":"x","message":"queued for execution"}`))
	assert.Equal(t, "queued for execution", result.Message)

	result = parseTradeResult([]byte(`{"orderId":"x"}`))
	assert.Equal(t, "Trade executed successfully", result.Message)
}

func TestInferRemoteCondition(t *testing.T) {
	cond := inferRemoteCondition([]byte(`{"message":"Body cannot be empty when content-type is application/json"}`))
	assert.ErrorIs(t, cond, core.ErrNeedsApproval)

	assert.Nil(t, inferRemoteCondition([]byte(`{"message":"internal error"}`)))
	assert.Nil(t, inferRemoteCondition(nil))
}
