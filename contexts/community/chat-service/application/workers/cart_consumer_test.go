package workers

import (
	"context"
	"encoding/json"
	"testing"

	"shopsync/contexts/community/chat-service/adapters/memory"
	"shopsync/contexts/community/chat-service/application"
	"shopsync/contexts/community/chat-service/ports"
)

type fakeSubscriber struct {
	topic   string
	group   string
	handler func(ctx context.Context, event ports.EventEnvelope) error
}

func (f *fakeSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(ctx context.Context, event ports.EventEnvelope) error,
) error {
	f.topic = topic
	f.group = consumerGroup
	f.handler = handler
	return nil
}

func cartItemAddedEnvelope(t *testing.T, eventID string) ports.EventEnvelope {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"cart_id":       "cart-1",
		"room_id":       "room-1",
		"product_id":    "p-1",
		"product_name":  "Desk Lamp",
		"added_by_name": "Sam",
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

func TestCartEventConsumerPostsSystemMessage(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{
		Repo:        store,
		Idempotency: store,
		EventDedup:  store,
		Clock:       store,
	}
	subscriber := &fakeSubscriber{}
	consumer := CartEventConsumer{Subscriber: subscriber, Chat: service}

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if subscriber.topic != "cart.events" {
		t.Fatalf("expected cart.events subscription, got %q", subscriber.topic)
	}
	if subscriber.group == "" {
		t.Fatal("expected a default consumer group")
	}

	envelope := cartItemAddedEnvelope(t, "evt-1")
	if err := subscriber.handler(context.Background(), envelope); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	// Redelivery of the same envelope must not post a second message.
	if err := subscriber.handler(context.Background(), envelope); err != nil {
		t.Fatalf("handle replayed event: %v", err)
	}

	messages, err := service.ListMessages(context.Background(), ports.ListMessagesInput{RoomID: "room-1", Limit: 10})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 system message, got %d", len(messages))
	}
	if messages[0].Kind != ports.KindSystem {
		t.Fatalf("expected system kind, got %q", messages[0].Kind)
	}
	if messages[0].Content != "Sam added Desk Lamp to the shared cart" {
		t.Fatalf("unexpected content %q", messages[0].Content)
	}
}

func TestCartEventConsumerIgnoresOtherEventTypes(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{
		Repo:        store,
		Idempotency: store,
		EventDedup:  store,
		Clock:       store,
	}
	subscriber := &fakeSubscriber{}
	consumer := CartEventConsumer{Subscriber: subscriber, Chat: service}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	err := subscriber.handler(context.Background(), ports.EventEnvelope{
		EventID:   "evt-2",
		EventType: "cart.snapshot_refreshed",
	})
	if err != nil {
		t.Fatalf("unrelated event must be skipped, got %v", err)
	}

	messages, err := service.ListMessages(context.Background(), ports.ListMessagesInput{RoomID: "room-1", Limit: 10})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(messages))
	}
}
