package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "shopsync/contexts/community/channel-service/application"
	domainerrors "shopsync/contexts/community/channel-service/domain/errors"
	"shopsync/contexts/community/channel-service/ports"
)

const (
	cartEventsTopic              = "cart.events"
	defaultTrendingConsumerGroup = "channel-service-cart-events-cg"
)

// CartTrendingConsumer counts channel scoped cart adds into the trending
// counter. A replayed envelope re-counts the same add, which is acceptable
// for a display-only popularity signal.
type CartTrendingConsumer struct {
	Subscriber    ports.EventSubscriber
	Channels      application.Service
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c CartTrendingConsumer) Start(ctx context.Context) error {
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultTrendingConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, cartEventsTopic, group, c.handleCartEvent)
}

func (c CartTrendingConsumer) handleCartEvent(ctx context.Context, event ports.EventEnvelope) error {
	if event.EventType != "cart.item_added" {
		return nil
	}

	var payload struct {
		ChannelID string `json:"channel_id"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode cart.item_added payload: %w", err)
	}
	channelID := strings.TrimSpace(payload.ChannelID)
	if channelID == "" {
		// Room scoped carts carry no channel id.
		return nil
	}

	if _, err := c.Channels.BumpTrending(ctx, channelID); err != nil {
		if errors.Is(err, domainerrors.ErrChannelNotFound) {
			application.ResolveLogger(c.Logger).Debug("trending bump for unknown channel dropped",
				"event", "channel_trending_bump_dropped",
				"module", "community/channel-service",
				"layer", "worker",
				"channel_id", channelID,
			)
			return nil
		}
		application.ResolveLogger(c.Logger).Error("trending bump failed",
			"event", "channel_trending_bump_failed",
			"module", "community/channel-service",
			"layer", "worker",
			"channel_id", channelID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}
