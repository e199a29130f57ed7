package workers

import (
	"context"
	"encoding/json"
	"testing"

	"shopsync/contexts/community/channel-service/adapters/memory"
	"shopsync/contexts/community/channel-service/application"
	"shopsync/contexts/community/channel-service/ports"
)

type fakeSubscriber struct {
	topic   string
	handler func(ctx context.Context, event ports.EventEnvelope) error
}

func (f *fakeSubscriber) Subscribe(
	_ context.Context,
	topic string,
	_ string,
	handler func(ctx context.Context, event ports.EventEnvelope) error,
) error {
	f.topic = topic
	f.handler = handler
	return nil
}

func cartItemAddedEnvelope(t *testing.T, eventID string, channelID string) ports.EventEnvelope {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"channel_id":   channelID,
		"product_name": "Desk Lamp",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return ports.EventEnvelope{
		EventID:   eventID,
		EventType: "cart.item_added",
		Data:      data,
	}
}

func TestCartTrendingConsumerBumpsChannel(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{Repo: store, Clock: store, IDGen: store}
	channel, err := service.CreateChannel(context.Background(), application.CreateChannelInput{
		Name:     "Nike",
		Category: "sportswear",
	})
	if err != nil {
		t.Fatalf("CreateChannel: %v", err)
	}

	subscriber := &fakeSubscriber{}
	consumer := CartTrendingConsumer{Subscriber: subscriber, Channels: service}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if subscriber.topic != "cart.events" {
		t.Fatalf("expected cart.events subscription, got %q", subscriber.topic)
	}

	for _, eventID := range []string{"evt-1", "evt-2"} {
		if err := subscriber.handler(context.Background(), cartItemAddedEnvelope(t, eventID, channel.ChannelID)); err != nil {
			t.Fatalf("handle event %s: %v", eventID, err)
		}
	}

	refreshed, err := service.GetChannel(context.Background(), channel.ChannelID)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if refreshed.TrendingCount != 2 {
		t.Fatalf("expected trending count 2, got %d", refreshed.TrendingCount)
	}
}

func TestCartTrendingConsumerIgnoresRoomScopedEvents(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{Repo: store, Clock: store, IDGen: store}

	subscriber := &fakeSubscriber{}
	consumer := CartTrendingConsumer{Subscriber: subscriber, Channels: service}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	data, err := json.Marshal(map[string]any{"room_id": "room-1"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	err = subscriber.handler(context.Background(), ports.EventEnvelope{
		EventID:   "evt-1",
		EventType: "cart.item_added",
		Data:      data,
	})
	if err != nil {
		t.Fatalf("room scoped event must be a no-op, got %v", err)
	}
}

func TestCartTrendingConsumerDropsUnknownChannel(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{Repo: store, Clock: store, IDGen: store}

	subscriber := &fakeSubscriber{}
	consumer := CartTrendingConsumer{Subscriber: subscriber, Channels: service}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	err := subscriber.handler(context.Background(), cartItemAddedEnvelope(t, "evt-1", "no-such-channel"))
	if err != nil {
		t.Fatalf("unknown channel must be dropped, got %v", err)
	}
}
