package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "shopsync/contexts/community/room-service/application"
	domainerrors "shopsync/contexts/community/room-service/domain/errors"
	"shopsync/contexts/community/room-service/ports"
)

const (
	cartEventsTopic              = "cart.events"
	defaultActivityConsumerGroup = "room-service-cart-events-cg"
)

// CartActivityConsumer bumps room last-activity whenever a cart item lands in
// a room scoped cart. Replayed envelopes just re-stamp the same room, so the
// consumer runs without its own dedup store.
type CartActivityConsumer struct {
	Subscriber    ports.EventSubscriber
	Rooms         application.Service
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c CartActivityConsumer) Start(ctx context.Context) error {
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultActivityConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, cartEventsTopic, group, c.handleCartEvent)
}

func (c CartActivityConsumer) handleCartEvent(ctx context.Context, event ports.EventEnvelope) error {
	if event.EventType != "cart.item_added" {
		return nil
	}

	var payload struct {
		RoomID string `json:"room_id"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode cart.item_added payload: %w", err)
	}
	roomID := strings.TrimSpace(payload.RoomID)
	if roomID == "" {
		// Channel scoped carts carry no room id.
		return nil
	}

	if err := c.Rooms.TouchActivity(ctx, roomID); err != nil {
		if errors.Is(err, domainerrors.ErrRoomNotFound) {
			application.ResolveLogger(c.Logger).Debug("activity bump for unknown room dropped",
				"event", "room_activity_bump_dropped",
				"module", "community/room-service",
				"layer", "worker",
				"room_id", roomID,
			)
			return nil
		}
		application.ResolveLogger(c.Logger).Error("activity bump failed",
			"event", "room_activity_bump_failed",
			"module", "community/room-service",
			"layer", "worker",
			"room_id", roomID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}
