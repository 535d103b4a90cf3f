package events

import (
	"context"

	"github.com/arbit-labs/arbit/core"
	"github.com/arbit-labs/arbit/ports"
)

// NopPublisher discards all events. Used when no message broker is configured.
type NopPublisher struct{}

// NewNopPublisher creates a publisher that drops everything.
func NewNopPublisher() ports.EventPublisher {
	return NopPublisher{}
}

func (NopPublisher) PublishTradeExecuted(context.Context, string, core.TradeResult, core.OrderRequest) error {
	return nil
}

func (NopPublisher) PublishLogout(context.Context, string) error {
	return nil
}
