package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/arbit-labs/arbit/core"
	"github.com/arbit-labs/arbit/ports"
)

// TradeExecutedEvent announces a basket order accepted by the remote.
type TradeExecutedEvent struct {
	Address     string             `json:"address"`
	OrderID     string             `json:"order_id"`
	Status      string             `json:"status"`
	UsdValue    float64            `json:"usd_value"`
	LongAssets  []core.BasketAsset `json:"long_assets"`
	ShortAssets []core.BasketAsset `json:"short_assets"`
}

// LogoutEvent announces that a session's tokens were dropped.
type LogoutEvent struct {
	Address string `json:"address"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher   message.Publisher
	tradeTopic  string
	logoutTopic string
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher:   publisher,
		tradeTopic:  "arbit.trade.executed",
		logoutTopic: "arbit.logout",
	}
}

// PublishTradeExecuted publishes a trade-executed event.
func (p *WatermillPublisher) PublishTradeExecuted(ctx context.Context, address string, result core.TradeResult, order core.OrderRequest) error {
	event := TradeExecutedEvent{
		Address:     address,
		OrderID:     result.OrderID,
		Status:      result.Status,
		UsdValue:    order.UsdValue,
		LongAssets:  order.LongAssets,
		ShortAssets: order.ShortAssets,
	}
	return p.publish(p.tradeTopic, event)
}

// PublishLogout publishes a logout event.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, address string) error {
	return p.publish(p.logoutTopic, LogoutEvent{Address: address})
}

func (p *WatermillPublisher) publish(topic string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
