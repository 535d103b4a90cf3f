package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbit-labs/arbit/core"
)

func TestPublishTradeExecuted(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubsub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pubsub.Subscribe(ctx, "arbit.trade.executed")
	require.NoError(t, err)

	pub := NewWatermillPublisher(pubsub)
	order := core.OrderRequest{
		ExecutionType: core.ExecutionMarket,
		Leverage:      1,
		UsdValue:      25,
		LongAssets:    []core.BasketAsset{{Symbol: "SOL", Weight: 1}},
		ShortAssets:   []core.BasketAsset{},
	}
	result := core.TradeResult{OrderID: "abc123", Status: "FILLED"}

	require.NoError(t, pub.PublishTradeExecuted(ctx, "0xabc", result, order))

	select {
	case msg := <-messages:
		var event TradeExecutedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, "0xabc", event.Address)
		assert.Equal(t, "abc123", event.OrderID)
		assert.Equal(t, "FILLED", event.Status)
		assert.Equal(t, float64(25), event.UsdValue)
		require.Len(t, event.LongAssets, 1)
		assert.Equal(t, "SOL", event.LongAssets[0].Symbol)
		assert.NotEmpty(t, msg.UUID)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no trade event received")
	}
}

func TestPublishLogout(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubsub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pubsub.Subscribe(ctx, "arbit.logout")
	require.NoError(t, err)

	pub := NewWatermillPublisher(pubsub)
	require.NoError(t, pub.PublishLogout(ctx, "0xabc"))

	select {
	case msg := <-messages:
		var event LogoutEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, "0xabc", event.Address)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no logout event received")
	}
}

func TestNopPublisher(t *testing.T) {
	pub := NewNopPublisher()
	assert.NoError(t, pub.PublishTradeExecuted(context.Background(), "0xabc", core.TradeResult{}, core.OrderRequest{}))
	assert.NoError(t, pub.PublishLogout(context.Background(), "0xabc"))
}
