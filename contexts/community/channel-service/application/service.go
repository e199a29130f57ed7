package application

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	domainerrors "shopsync/contexts/community/channel-service/domain/errors"
	"shopsync/contexts/community/channel-service/ports"
)

const maxChannelNameLength = 80

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

type CreateChannelInput struct {
	Name        string
	Logo        string
	Category    string
	Description string
}

func (s Service) CreateChannel(ctx context.Context, input CreateChannelInput) (ports.Channel, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxChannelNameLength {
		return ports.Channel{}, domainerrors.ErrInvalidRequest
	}
	channelID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Channel{}, err
	}
	now := s.now()
	channel, err := s.Repo.CreateChannel(ctx, ports.Channel{
		ChannelID:   channelID,
		Name:        name,
		Logo:        strings.TrimSpace(input.Logo),
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return ports.Channel{}, err
	}
	ResolveLogger(s.Logger).Info("channel created",
		"event", "channel_created",
		"module", "community/channel-service",
		"layer", "application",
		"channel_id", channel.ChannelID,
		"channel_name", channel.Name,
	)
	return channel, nil
}

func (s Service) GetChannel(ctx context.Context, channelID string) (ports.Channel, error) {
	if strings.TrimSpace(channelID) == "" {
		return ports.Channel{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetChannel(ctx, strings.TrimSpace(channelID))
}

// ListChannels returns channels ordered by member count, an optional
// category filter narrowing the list.
func (s Service) ListChannels(ctx context.Context, category string) ([]ports.Channel, error) {
	return s.Repo.ListChannels(ctx, strings.TrimSpace(category))
}

// JoinChannel is idempotent per user.
func (s Service) JoinChannel(ctx context.Context, channelID string, userID string) (ports.Channel, error) {
	channelID = strings.TrimSpace(channelID)
	userID = strings.TrimSpace(userID)
	if channelID == "" || userID == "" {
		return ports.Channel{}, domainerrors.ErrInvalidRequest
	}
	channel, err := s.Repo.GetChannel(ctx, channelID)
	if err != nil {
		return ports.Channel{}, err
	}
	if slices.Contains(channel.MemberIDs, userID) {
		return channel, nil
	}
	members := append(slices.Clone(channel.MemberIDs), userID)
	return s.Repo.SaveMembers(ctx, channelID, members, s.now())
}

func (s Service) LeaveChannel(ctx context.Context, channelID string, userID string) (ports.Channel, error) {
	channelID = strings.TrimSpace(channelID)
	userID = strings.TrimSpace(userID)
	if channelID == "" || userID == "" {
		return ports.Channel{}, domainerrors.ErrInvalidRequest
	}
	channel, err := s.Repo.GetChannel(ctx, channelID)
	if err != nil {
		return ports.Channel{}, err
	}
	if !slices.Contains(channel.MemberIDs, userID) {
		return channel, nil
	}
	members := slices.DeleteFunc(slices.Clone(channel.MemberIDs), func(id string) bool {
		return id == userID
	})
	return s.Repo.SaveMembers(ctx, channelID, members, s.now())
}

// BumpTrending increments the channel's share counter. Product shares in
// chat call this.
func (s Service) BumpTrending(ctx context.Context, channelID string) (ports.Channel, error) {
	if strings.TrimSpace(channelID) == "" {
		return ports.Channel{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.BumpTrending(ctx, strings.TrimSpace(channelID), s.now())
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
