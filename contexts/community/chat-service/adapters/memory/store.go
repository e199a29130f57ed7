package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainerrors "shopsync/contexts/community/chat-service/domain/errors"
	"shopsync/contexts/community/chat-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	messages    map[string]ports.Message
	byScope     map[string][]string
	sequences   map[string]int64
	idempotency map[string]ports.IdempotencyRecord
	seenEvents  map[string]time.Time

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		messages:    make(map[string]ports.Message),
		byScope:     make(map[string][]string),
		sequences:   make(map[string]int64),
		idempotency: make(map[string]ports.IdempotencyRecord),
		seenEvents:  make(map[string]time.Time),
	}
}

func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateMessage(_ context.Context, input ports.CreateMessageInput, now time.Time) (ports.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scopeKey(input.RoomID, input.ChannelID)
	s.sequences[key]++

	message := ports.Message{
		MessageID:      uuid.NewString(),
		RoomID:         strings.TrimSpace(input.RoomID),
		ChannelID:      strings.TrimSpace(input.ChannelID),
		UserID:         strings.TrimSpace(input.UserID),
		DisplayName:    strings.TrimSpace(input.DisplayName),
		Kind:           input.Kind,
		Content:        input.Content,
		SequenceNumber: s.sequences[key],
		CreatedAt:      now.UTC(),
	}
	if input.Product != nil {
		product := *input.Product
		message.Product = &product
	}
	s.messages[message.MessageID] = message
	s.byScope[key] = append(s.byScope[key], message.MessageID)
	return cloneMessage(message), nil
}

func (s *Store) ListMessages(_ context.Context, input ports.ListMessagesInput) ([]ports.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := scopeKey(input.RoomID, input.ChannelID)
	items := make([]ports.Message, 0)
	for _, messageID := range s.byScope[key] {
		message := s.messages[messageID]
		if message.SequenceNumber <= input.AfterSequence {
			continue
		}
		items = append(items, cloneMessage(message))
		if input.Limit > 0 && len(items) >= input.Limit {
			break
		}
	}
	return items, nil
}

func (s *Store) AddReaction(_ context.Context, messageID string, kind ports.ReactionKind) (ports.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[strings.TrimSpace(messageID)]
	if !ok {
		return ports.Message{}, domainerrors.ErrMessageNotFound
	}
	switch kind {
	case ports.ReactionLike:
		message.Likes++
	case ports.ReactionHeart:
		message.Hearts++
	default:
		return ports.Message{}, domainerrors.ErrInvalidReaction
	}
	s.messages[message.MessageID] = message
	return cloneMessage(message), nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.UTC().After(record.ExpiresAt.UTC()) {
		delete(s.idempotency, record.Key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[strings.TrimSpace(record.Key)] = record
	return nil
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.seenEvents[strings.TrimSpace(eventID)]; seen {
		return true, nil
	}
	s.seenEvents[strings.TrimSpace(eventID)] = expiresAt.UTC()
	return false, nil
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

func scopeKey(roomID string, channelID string) string {
	if strings.TrimSpace(roomID) != "" {
		return "room:" + strings.TrimSpace(roomID)
	}
	return "channel:" + strings.TrimSpace(channelID)
}

func cloneMessage(message ports.Message) ports.Message {
	if message.Product != nil {
		product := *message.Product
		message.Product = &product
	}
	return message
}

var _ ports.Repository = (*Store)(nil)
var _ ports.IdempotencyStore = (*Store)(nil)
var _ ports.EventDedupStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
