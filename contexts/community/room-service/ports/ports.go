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

type Room struct {
	RoomID         string
	Code           string
	Name           string
	CreatedBy      string
	MemberIDs      []string
	CreatedAt      time.Time
	LastActivityAt time.Time
}

type Repository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, roomID string) (Room, error)
	GetRoomByCode(ctx context.Context, code string) (Room, error)
	SaveMembers(ctx context.Context, roomID string, memberIDs []string, now time.Time) (Room, error)
	ListRoomsForUser(ctx context.Context, userID string) ([]Room, error)
	TouchActivity(ctx context.Context, roomID string, now time.Time) error
}
