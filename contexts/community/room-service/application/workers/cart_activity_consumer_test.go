package workers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"shopsync/contexts/community/room-service/adapters/memory"
	"shopsync/contexts/community/room-service/application"
	"shopsync/contexts/community/room-service/ports"
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

func TestCartActivityConsumerTouchesRoom(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return base })

	service := application.Service{Repo: store, Clock: store, IDGen: store}
	room, err := service.CreateRoom(context.Background(), "Gift Hunt", "user-1")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	later := base.Add(45 * time.Minute)
	store.SetNow(func() time.Time { return later })

	subscriber := &fakeSubscriber{}
	consumer := CartActivityConsumer{Subscriber: subscriber, Rooms: service}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if subscriber.topic != "cart.events" {
		t.Fatalf("expected cart.events subscription, got %q", subscriber.topic)
	}

	data, err := json.Marshal(map[string]any{"room_id": room.RoomID, "product_name": "Desk Lamp"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	err = subscriber.handler(context.Background(), ports.EventEnvelope{
		EventID:   "evt-1",
		EventType: "cart.item_added",
		Data:      data,
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	refreshed, err := service.GetRoom(context.Background(), room.RoomID)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if !refreshed.LastActivityAt.Equal(later) {
		t.Fatalf("expected last activity %v, got %v", later, refreshed.LastActivityAt)
	}
}

func TestCartActivityConsumerIgnoresChannelScopedEvents(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{Repo: store, Clock: store, IDGen: store}

	subscriber := &fakeSubscriber{}
	consumer := CartActivityConsumer{Subscriber: subscriber, Rooms: service}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	data, err := json.Marshal(map[string]any{"channel_id": "ch-1", "product_name": "Desk Lamp"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	err = subscriber.handler(context.Background(), ports.EventEnvelope{
		EventID:   "evt-1",
		EventType: "cart.item_added",
		Data:      data,
	})
	if err != nil {
		t.Fatalf("channel scoped event must be a no-op, got %v", err)
	}
}

func TestCartActivityConsumerDropsUnknownRoom(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{Repo: store, Clock: store, IDGen: store}

	subscriber := &fakeSubscriber{}
	consumer := CartActivityConsumer{Subscriber: subscriber, Rooms: service}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	data, err := json.Marshal(map[string]any{"room_id": "no-such-room"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	err = subscriber.handler(context.Background(), ports.EventEnvelope{
		EventID:   "evt-1",
		EventType: "cart.item_added",
		Data:      data,
	})
	if err != nil {
		t.Fatalf("unknown room must be dropped, got %v", err)
	}
}
