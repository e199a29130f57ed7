package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainerrors "shopsync/contexts/community/chat-service/domain/errors"
	"shopsync/contexts/community/chat-service/ports"
)

const maxContentLength = 2000

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	EventDedup     ports.EventDedupStore
	Clock          ports.Clock
	Logger         *slog.Logger
	IdempotencyTTL time.Duration
	DedupTTL       time.Duration
}

// PostMessage appends a message to the scope's stream. Retries with the same
// idempotency key replay the stored result instead of duplicating the message.
func (s Service) PostMessage(
	ctx context.Context,
	idempotencyKey string,
	input ports.CreateMessageInput,
) (ports.Message, error) {
	var out ports.Message
	if err := validateScope(input.RoomID, input.ChannelID); err != nil {
		return out, err
	}
	if strings.TrimSpace(input.UserID) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	switch input.Kind {
	case ports.KindText:
		if strings.TrimSpace(input.Content) == "" || len(input.Content) > maxContentLength {
			return out, domainerrors.ErrInvalidRequest
		}
	case ports.KindProduct:
		if input.Product == nil || strings.TrimSpace(input.Product.ProductID) == "" {
			return out, domainerrors.ErrInvalidRequest
		}
	default:
		// System messages enter through the event consumer only.
		return out, domainerrors.ErrInvalidKind
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	payload, _ := json.Marshal(input)
	requestHash := hashStrings("post_message", string(payload))
	err := s.runIdempotent(
		ctx,
		idempotencyKey,
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			result, err := s.Repo.CreateMessage(ctx, input, s.now())
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		},
	)
	return out, err
}

// ListMessages returns the scope's stream in insertion order, optionally
// resuming after a sequence number.
func (s Service) ListMessages(ctx context.Context, input ports.ListMessagesInput) ([]ports.Message, error) {
	if err := validateScope(input.RoomID, input.ChannelID); err != nil {
		return nil, err
	}
	if input.Limit <= 0 {
		input.Limit = 50
	}
	if input.Limit > 200 {
		input.Limit = 200
	}
	return s.Repo.ListMessages(ctx, input)
}

// ReactToMessage bumps a like/heart counter. Reactions are blind counters,
// the same no-dedup rule the cart uses; the idempotency key only shields
// transport retries.
func (s Service) ReactToMessage(
	ctx context.Context,
	idempotencyKey string,
	messageID string,
	kind ports.ReactionKind,
) (ports.Message, error) {
	var out ports.Message
	if strings.TrimSpace(messageID) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if kind != ports.ReactionLike && kind != ports.ReactionHeart {
		return out, domainerrors.ErrInvalidReaction
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	requestHash := hashStrings("react_to_message", messageID, string(kind))
	err := s.runIdempotent(
		ctx,
		idempotencyKey,
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			result, err := s.Repo.AddReaction(ctx, messageID, kind)
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		},
	)
	return out, err
}

// HandleCartItemAdded consumes a cart.item_added fact and posts the system
// message into the owning scope. Replayed envelopes are dropped on event id.
func (s Service) HandleCartItemAdded(ctx context.Context, event ports.CartItemAddedEvent) error {
	if strings.TrimSpace(event.EventID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	if err := validateScope(event.RoomID, event.ChannelID); err != nil {
		return err
	}

	now := s.now()
	alreadySeen, err := s.EventDedup.ReserveEvent(ctx, event.EventID, now.Add(s.dedupTTL()))
	if err != nil {
		return err
	}
	if alreadySeen {
		ResolveLogger(s.Logger).Debug("cart item event replay dropped",
			"event", "chat_cart_event_replay_dropped",
			"module", "community/chat-service",
			"layer", "application",
			"event_id", event.EventID,
		)
		return nil
	}

	actor := strings.TrimSpace(event.AddedByName)
	if actor == "" {
		actor = "Someone"
	}
	content := fmt.Sprintf("%s added %s to the shared cart", actor, strings.TrimSpace(event.ProductName))

	_, err = s.Repo.CreateMessage(ctx, ports.CreateMessageInput{
		RoomID:    event.RoomID,
		ChannelID: event.ChannelID,
		UserID:    "system",
		Kind:      ports.KindSystem,
		Content:   content,
	}, now)
	if err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("system message posted for cart item",
		"event", "chat_system_message_posted",
		"module", "community/chat-service",
		"layer", "application",
		"event_id", event.EventID,
		"room_id", event.RoomID,
		"channel_id", event.ChannelID,
	)
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) dedupTTL() time.Duration {
	if s.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.DedupTTL
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}

func validateScope(roomID string, channelID string) error {
	room := strings.TrimSpace(roomID)
	channel := strings.TrimSpace(channelID)
	if (room == "") == (channel == "") {
		return domainerrors.ErrInvalidScope
	}
	return nil
}
