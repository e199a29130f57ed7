package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	application "shopsync/contexts/community/chat-service/application"
	"shopsync/contexts/community/chat-service/ports"
)

const (
	cartEventsTopic          = "cart.events"
	defaultCartConsumerGroup = "chat-service-cart-events-cg"
)

// CartEventConsumer turns cart.item_added facts into system messages in the
// owning room or channel feed. Replay protection lives in the chat service,
// keyed on the envelope event id.
type CartEventConsumer struct {
	Subscriber    ports.EventSubscriber
	Chat          application.Service
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c CartEventConsumer) Start(ctx context.Context) error {
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultCartConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, cartEventsTopic, group, c.handleCartEvent)
}

func (c CartEventConsumer) handleCartEvent(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	if event.EventType != "cart.item_added" {
		logger.Debug("cart event skipped",
			"event", "chat_cart_event_skipped",
			"module", "community/chat-service",
			"layer", "worker",
			"event_type", event.EventType,
		)
		return nil
	}

	var payload struct {
		RoomID      string `json:"room_id"`
		ChannelID   string `json:"channel_id"`
		ProductName string `json:"product_name"`
		AddedByName string `json:"added_by_name"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode cart.item_added payload: %w", err)
	}

	err := c.Chat.HandleCartItemAdded(ctx, ports.CartItemAddedEvent{
		EventID:     event.EventID,
		RoomID:      payload.RoomID,
		ChannelID:   payload.ChannelID,
		ProductName: payload.ProductName,
		AddedByName: payload.AddedByName,
	})
	if err != nil {
		logger.Error("cart.item_added handling failed",
			"event", "chat_cart_event_failed",
			"module", "community/chat-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}
