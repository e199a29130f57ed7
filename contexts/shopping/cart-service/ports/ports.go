package ports

import (
	"context"
	"time"

	"shopsync/contexts/shopping/cart-service/domain/cart"
	contractsv1 "shopsync/contracts/gen/events/v1"
)

// Scope names the single context that owns a cart: a private room or a
// public brand channel. Exactly one field is set.
type Scope struct {
	RoomID    string
	ChannelID string
}

// CartRepository persists whole cart snapshots. Writers replace the snapshot
// they fetched; the later write wins when two participants race, which is
// the accepted model for this storage collaborator.
type CartRepository interface {
	// GetByScope loads the cart owned by the scope, reporting found=false
	// when the scope has no cart yet.
	GetByScope(ctx context.Context, scope Scope) (cart.Cart, bool, error)
	// Save writes the snapshot back, assigning stable ItemIDs to line items
	// that do not have one yet.
	Save(ctx context.Context, snapshot cart.Cart) (cart.Cart, error)
}

// SnapshotCache is a read-through cache in front of the repository. A nil
// cache disables caching entirely.
type SnapshotCache interface {
	Get(ctx context.Context, scope Scope) (cart.Cart, bool, error)
	Put(ctx context.Context, scope Scope, snapshot cart.Cart) error
	Invalidate(ctx context.Context, scope Scope) error
}

// EventEnvelope is the canonical envelope carried through the outbox and
// the event bus.
type EventEnvelope = contractsv1.Envelope

// OutboxWriter persists a snapshot together with the domain event it
// produced. Both writes happen in one storage transaction so a crash can
// never save the cart and lose the event.
type OutboxWriter interface {
	SaveWithOutbox(ctx context.Context, snapshot cart.Cart, envelope EventEnvelope) (cart.Cart, error)
}

// EventPublisher pushes envelopes onto a named topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// OutboxMessage is a pending outbox row as seen by the relay.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository is the relay-side view of the outbox.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
