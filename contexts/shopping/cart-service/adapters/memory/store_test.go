package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"shopsync/contexts/shopping/cart-service/domain/cart"
	"shopsync/contexts/shopping/cart-service/ports"
)

func TestStoreSaveAssignsIDs(t *testing.T) {
	store := NewStore()

	saved, err := store.Save(context.Background(), cart.Cart{
		RoomID: "room-1",
		Items: []cart.LineItem{
			{Product: cart.Product{ProductID: "p-1", Name: "a", UnitPrice: 100}, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.CartID == "" {
		t.Fatal("expected a cart id to be assigned")
	}
	if saved.Items[0].ItemID == "" {
		t.Fatal("expected an item id to be assigned")
	}
}

func TestStoreGetByScopeReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if _, err := store.Save(ctx, cart.Cart{
		RoomID: "room-1",
		Items: []cart.LineItem{
			{ItemID: "item-1", Product: cart.Product{ProductID: "p-1", Name: "a", UnitPrice: 100}, Quantity: 1},
		},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found, err := store.GetByScope(ctx, ports.Scope{RoomID: "room-1"})
	if err != nil || !found {
		t.Fatalf("GetByScope: found=%v err=%v", found, err)
	}
	got.Items[0].Quantity = 99

	again, _, err := store.GetByScope(ctx, ports.Scope{RoomID: "room-1"})
	if err != nil {
		t.Fatalf("GetByScope: %v", err)
	}
	if again.Items[0].Quantity != 1 {
		t.Fatalf("expected stored snapshot to be isolated from callers, got quantity %d", again.Items[0].Quantity)
	}
}

func TestStoreScopesAreIndependent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if _, err := store.Save(ctx, cart.Cart{RoomID: "room-1"}); err != nil {
		t.Fatalf("Save room: %v", err)
	}
	if _, err := store.Save(ctx, cart.Cart{ChannelID: "room-1"}); err != nil {
		t.Fatalf("Save channel: %v", err)
	}

	roomCart, found, err := store.GetByScope(ctx, ports.Scope{RoomID: "room-1"})
	if err != nil || !found {
		t.Fatalf("room scope: found=%v err=%v", found, err)
	}
	channelCart, found, err := store.GetByScope(ctx, ports.Scope{ChannelID: "room-1"})
	if err != nil || !found {
		t.Fatalf("channel scope: found=%v err=%v", found, err)
	}
	if roomCart.CartID == channelCart.CartID {
		t.Fatal("expected room and channel scopes with the same id to hold separate carts")
	}
}

func TestStoreOutboxLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"evt-1", "evt-2", "evt-3"} {
		_, err := store.SaveWithOutbox(ctx, cart.Cart{RoomID: "room-1"}, ports.EventEnvelope{
			EventID:      id,
			EventType:    "cart.item_added",
			PartitionKey: "cart-1",
			OccurredAt:   base.Add(time.Duration(i) * time.Second),
			Data:         json.RawMessage(`{"product_id":"p-1"}`),
		})
		if err != nil {
			t.Fatalf("SaveWithOutbox(%s): %v", id, err)
		}
	}
	// Duplicate event ids are swallowed.
	if _, err := store.SaveWithOutbox(ctx, cart.Cart{RoomID: "room-1"}, ports.EventEnvelope{EventID: "evt-1", EventType: "cart.item_added", OccurredAt: base}); err != nil {
		t.Fatalf("SaveWithOutbox duplicate: %v", err)
	}

	if _, found, err := store.GetByScope(ctx, ports.Scope{RoomID: "room-1"}); err != nil || !found {
		t.Fatalf("expected the snapshot written alongside the events: found=%v err=%v", found, err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingOutbox: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending messages, got %d", len(pending))
	}
	if pending[0].OutboxID != "evt-1" || pending[2].OutboxID != "evt-3" {
		t.Fatalf("expected oldest-first ordering, got %s..%s", pending[0].OutboxID, pending[2].OutboxID)
	}

	if err := store.MarkOutboxPublished(ctx, "evt-1", base.Add(time.Minute)); err != nil {
		t.Fatalf("MarkOutboxPublished: %v", err)
	}
	pending, err = store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingOutbox: %v", err)
	}
	if len(pending) != 2 || pending[0].OutboxID != "evt-2" {
		t.Fatalf("expected evt-2 first after publishing evt-1, got %+v", pending)
	}
}

func TestStoreClockOverride(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return fixed })

	if !store.Now().Equal(fixed) {
		t.Fatalf("expected overridden clock, got %v", store.Now())
	}
}
