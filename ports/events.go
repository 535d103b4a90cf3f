package ports

import (
	"context"

	"github.com/arbit-labs/arbit/core"
)

// EventPublisher notifies other components about trading activity. Publish
// failures are logged by callers, never surfaced to the trade path.
type EventPublisher interface {
	PublishTradeExecuted(ctx context.Context, address string, result core.TradeResult, order core.OrderRequest) error
	PublishLogout(ctx context.Context, address string) error
}
