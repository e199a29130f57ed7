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

type Channel struct {
	ChannelID     string
	Name          string
	Logo          string
	Category      string
	Description   string
	MemberIDs     []string
	TrendingCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	CreateChannel(ctx context.Context, channel Channel) (Channel, error)
	GetChannel(ctx context.Context, channelID string) (Channel, error)
	SaveMembers(ctx context.Context, channelID string, memberIDs []string, now time.Time) (Channel, error)
	ListChannels(ctx context.Context, category string) ([]Channel, error)
	BumpTrending(ctx context.Context, channelID string, now time.Time) (Channel, error)
}
