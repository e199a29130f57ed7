package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "shopsync/contexts/community/channel-service/domain/errors"
	"shopsync/contexts/community/channel-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	channels map[string]ports.Channel
	byName   map[string]string
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		channels: make(map[string]ports.Channel),
		byName:   make(map[string]string),
	}
}

func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateChannel(_ context.Context, channel ports.Channel) (ports.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nameKey := strings.ToLower(channel.Name)
	if _, exists := s.byName[nameKey]; exists {
		return ports.Channel{}, domainerrors.ErrChannelExists
	}
	if strings.TrimSpace(channel.ChannelID) == "" {
		channel.ChannelID = uuid.NewString()
	}
	channel.MemberIDs = slices.Clone(channel.MemberIDs)
	s.channels[channel.ChannelID] = channel
	s.byName[nameKey] = channel.ChannelID
	return cloneChannel(channel), nil
}

func (s *Store) GetChannel(_ context.Context, channelID string) (ports.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, ok := s.channels[strings.TrimSpace(channelID)]
	if !ok {
		return ports.Channel{}, domainerrors.ErrChannelNotFound
	}
	return cloneChannel(channel), nil
}

func (s *Store) SaveMembers(_ context.Context, channelID string, memberIDs []string, now time.Time) (ports.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	channel, ok := s.channels[strings.TrimSpace(channelID)]
	if !ok {
		return ports.Channel{}, domainerrors.ErrChannelNotFound
	}
	channel.MemberIDs = slices.Clone(memberIDs)
	channel.UpdatedAt = now.UTC()
	s.channels[channel.ChannelID] = channel
	return cloneChannel(channel), nil
}

func (s *Store) ListChannels(_ context.Context, category string) ([]ports.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Channel, 0, len(s.channels))
	for _, channel := range s.channels {
		if category != "" && !strings.EqualFold(channel.Category, category) {
			continue
		}
		items = append(items, cloneChannel(channel))
	}
	sort.Slice(items, func(i, j int) bool {
		if len(items[i].MemberIDs) == len(items[j].MemberIDs) {
			return items[i].Name < items[j].Name
		}
		return len(items[i].MemberIDs) > len(items[j].MemberIDs)
	})
	return items, nil
}

func (s *Store) BumpTrending(_ context.Context, channelID string, now time.Time) (ports.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	channel, ok := s.channels[strings.TrimSpace(channelID)]
	if !ok {
		return ports.Channel{}, domainerrors.ErrChannelNotFound
	}
	channel.TrendingCount++
	channel.UpdatedAt = now.UTC()
	s.channels[channel.ChannelID] = channel
	return cloneChannel(channel), nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneChannel(channel ports.Channel) ports.Channel {
	channel.MemberIDs = slices.Clone(channel.MemberIDs)
	return channel
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
