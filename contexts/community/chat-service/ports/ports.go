package ports

import (
	"context"
	"time"

	contractsv1 "shopsync/contracts/gen/events/v1"
)

// EventEnvelope is the canonical bus envelope shared across contexts.
type EventEnvelope = contractsv1.Envelope

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(ctx context.Context, event EventEnvelope) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type MessageKind string

const (
	KindText    MessageKind = "text"
	KindProduct MessageKind = "product"
	KindSystem  MessageKind = "system"
)

type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionHeart ReactionKind = "heart"
)

// ProductRef is the denormalized product card a product message carries.
type ProductRef struct {
	ProductID string
	Name      string
	Brand     string
	UnitPrice int64
	ImageURL  string
}

type Message struct {
	MessageID      string
	RoomID         string
	ChannelID      string
	UserID         string
	DisplayName    string
	Kind           MessageKind
	Content        string
	Product        *ProductRef
	Likes          int
	Hearts         int
	SequenceNumber int64
	CreatedAt      time.Time
}

type CreateMessageInput struct {
	RoomID      string
	ChannelID   string
	UserID      string
	DisplayName string
	Kind        MessageKind
	Content     string
	Product     *ProductRef
}

type ListMessagesInput struct {
	RoomID        string
	ChannelID     string
	AfterSequence int64
	Limit         int
}

// CartItemAddedEvent is the cart-service fact the chat consumer turns into
// a system message.
type CartItemAddedEvent struct {
	EventID     string
	RoomID      string
	ChannelID   string
	ProductName string
	AddedByName string
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

// EventDedupStore makes bus consumption idempotent per event id.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, expiresAt time.Time) (alreadySeen bool, err error)
}

type Repository interface {
	CreateMessage(ctx context.Context, input CreateMessageInput, now time.Time) (Message, error)
	ListMessages(ctx context.Context, input ListMessagesInput) ([]Message, error)
	AddReaction(ctx context.Context, messageID string, kind ReactionKind) (Message, error)
}
