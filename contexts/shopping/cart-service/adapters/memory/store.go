package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"shopsync/contexts/shopping/cart-service/domain/cart"
	"shopsync/contexts/shopping/cart-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory reference adapter. It backs tests and local
// wiring, and doubles as Clock and IDGenerator so a module can run on a
// single store value.
type Store struct {
	mu sync.RWMutex

	carts  map[string]cart.Cart
	outbox map[string]outboxRecord

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		carts:  make(map[string]cart.Cart),
		outbox: make(map[string]outboxRecord),
	}
}

// SetNow overrides the clock for tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) GetByScope(_ context.Context, scope ports.Scope) (cart.Cart, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.carts[scopeKey(scope)]
	if !ok {
		return cart.Cart{}, false, nil
	}
	return snapshot.Clone(), true, nil
}

func (s *Store) Save(_ context.Context, snapshot cart.Cart) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(snapshot), nil
}

// SaveWithOutbox stores the snapshot and its event under one lock hold, the
// in-memory equivalent of the transactional write the durable adapter does.
// The marshal failure path runs before either map is touched, so a failed
// call leaves both untouched.
func (s *Store) SaveWithOutbox(_ context.Context, snapshot cart.Cart, envelope ports.EventEnvelope) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	payload, err := marshalEnvelope(envelope, outboxID)
	if err != nil {
		return cart.Cart{}, err
	}

	saved := s.saveLocked(snapshot)
	if _, exists := s.outbox[outboxID]; !exists {
		s.outbox[outboxID] = outboxRecord{
			message: ports.OutboxMessage{
				OutboxID:     outboxID,
				EventType:    envelope.EventType,
				PartitionKey: envelope.PartitionKey,
				Payload:      payload,
				CreatedAt:    envelope.OccurredAt.UTC(),
			},
		}
	}
	return saved, nil
}

func (s *Store) saveLocked(snapshot cart.Cart) cart.Cart {
	saved := snapshot.Clone()
	if strings.TrimSpace(saved.CartID) == "" {
		saved.CartID = uuid.NewString()
	}
	for i := range saved.Items {
		if strings.TrimSpace(saved.Items[i].ItemID) == "" {
			saved.Items[i].ItemID = uuid.NewString()
		}
	}
	s.carts[scopeKey(ports.Scope{RoomID: saved.RoomID, ChannelID: saved.ChannelID})] = saved.Clone()
	return saved
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		message := record.message
		message.Payload = append([]byte(nil), record.message.Payload...)
		items = append(items, message)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].OutboxID < items[j].OutboxID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return nil
	}
	record.published = true
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
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

func marshalEnvelope(envelope ports.EventEnvelope, outboxID string) ([]byte, error) {
	envelope.EventID = outboxID
	return json.Marshal(envelope)
}

func scopeKey(scope ports.Scope) string {
	if strings.TrimSpace(scope.RoomID) != "" {
		return "room:" + strings.TrimSpace(scope.RoomID)
	}
	return "channel:" + strings.TrimSpace(scope.ChannelID)
}

var _ ports.CartRepository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
