package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"shopsync/contexts/shopping/cart-service/domain/cart"
	domainerrors "shopsync/contexts/shopping/cart-service/domain/errors"
	"shopsync/contexts/shopping/cart-service/ports"
)

// Service surrounds the pure engine with snapshot orchestration: fetch the
// cart for a scope, apply one transformation, persist the result. The engine
// never does I/O; the service never computes cart semantics itself.
type Service struct {
	Repo   ports.CartRepository
	Cache  ports.SnapshotCache
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// GetCart returns the scope's cart, materializing an empty one on first
// access. Reads are served from the snapshot cache when possible.
func (s Service) GetCart(ctx context.Context, scope ports.Scope) (cart.Cart, error) {
	if err := validateScope(scope); err != nil {
		return cart.Cart{}, err
	}
	if s.Cache != nil {
		if cached, found, err := s.Cache.Get(ctx, scope); err == nil && found {
			return cached, nil
		}
	}
	snapshot, err := s.loadOrCreate(ctx, scope)
	if err != nil {
		return cart.Cart{}, err
	}
	s.refreshCache(ctx, scope, snapshot)
	return snapshot, nil
}

// AddItem adds or increments a product in the scope's cart and emits a
// cart.item_added event for the chat system-message flow.
func (s Service) AddItem(
	ctx context.Context,
	scope ports.Scope,
	product cart.Product,
	addedBy *cart.Contributor,
) (cart.Cart, error) {
	if err := validateScope(scope); err != nil {
		return cart.Cart{}, err
	}
	snapshot, err := s.loadOrCreate(ctx, scope)
	if err != nil {
		return cart.Cart{}, err
	}

	next, err := cart.AddOrIncrement(snapshot, product, addedBy)
	if err != nil {
		ResolveLogger(s.Logger).Warn("cart add item rejected",
			"event", "cart_add_item_rejected",
			"module", "shopping/cart-service",
			"layer", "application",
			"product_id", strings.TrimSpace(product.ProductID),
			"error", err.Error(),
		)
		return cart.Cart{}, err
	}

	saved, err := s.persistWithItemAdded(ctx, scope, next, product, addedBy)
	if err != nil {
		return cart.Cart{}, err
	}

	ResolveLogger(s.Logger).Info("cart item added",
		"event", "cart_item_added",
		"module", "shopping/cart-service",
		"layer", "application",
		"cart_id", saved.CartID,
		"product_id", product.ProductID,
	)
	return saved, nil
}

// ChangeQuantity applies a signed quantity delta; items driven to zero or
// below disappear from the snapshot. Unknown item ids no-op.
func (s Service) ChangeQuantity(ctx context.Context, scope ports.Scope, itemID string, delta int) (cart.Cart, error) {
	return s.apply(ctx, scope, func(snapshot cart.Cart) cart.Cart {
		return cart.ChangeQuantity(snapshot, itemID, delta)
	})
}

// RemoveItem unconditionally deletes the named item.
func (s Service) RemoveItem(ctx context.Context, scope ports.Scope, itemID string) (cart.Cart, error) {
	return s.apply(ctx, scope, func(snapshot cart.Cart) cart.Cart {
		return cart.Remove(snapshot, itemID)
	})
}

// CastVote records one up/down vote per voter per direction; duplicates
// no-op. Switching direction is not auto-retracted here.
func (s Service) CastVote(
	ctx context.Context,
	scope ports.Scope,
	itemID string,
	direction cart.VoteDirection,
	voterID string,
) (cart.Cart, error) {
	if direction != cart.VoteUp && direction != cart.VoteDown {
		return cart.Cart{}, domainerrors.ErrInvalidVoteDirection
	}
	return s.apply(ctx, scope, func(snapshot cart.Cart) cart.Cart {
		return cart.CastVote(snapshot, itemID, direction, voterID)
	})
}

// RetractVote removes a previously cast vote, the hook callers use to make
// voting mutually exclusive per user if the product decides to.
func (s Service) RetractVote(
	ctx context.Context,
	scope ports.Scope,
	itemID string,
	direction cart.VoteDirection,
	voterID string,
) (cart.Cart, error) {
	if direction != cart.VoteUp && direction != cart.VoteDown {
		return cart.Cart{}, domainerrors.ErrInvalidVoteDirection
	}
	return s.apply(ctx, scope, func(snapshot cart.Cart) cart.Cart {
		return cart.RetractVote(snapshot, itemID, direction, voterID)
	})
}

// React bumps one reaction counter on an item. Reactions are repeatable;
// a missing item is a silent no-op like the other item mutations.
func (s Service) React(ctx context.Context, scope ports.Scope, itemID string, kind cart.ReactionKind) (cart.Cart, error) {
	if kind != cart.ReactionLike && kind != cart.ReactionHeart && kind != cart.ReactionFire {
		return cart.Cart{}, domainerrors.ErrInvalidReactionKind
	}
	return s.apply(ctx, scope, func(snapshot cart.Cart) cart.Cart {
		next := snapshot.Clone()
		for i, item := range next.Items {
			if item.ItemID == itemID {
				next.Items[i] = cart.AddReaction(item, kind)
				break
			}
		}
		return next
	})
}

// TopItems returns the limit highest-scored items, stable under ties.
func (s Service) TopItems(ctx context.Context, scope ports.Scope, limit int) ([]cart.LineItem, error) {
	snapshot, err := s.GetCart(ctx, scope)
	if err != nil {
		return nil, err
	}
	return cart.RankByScore(snapshot, limit)
}

// Totals recomputes the derived totals from the current snapshot.
func (s Service) Totals(ctx context.Context, scope ports.Scope) (cart.Totals, error) {
	snapshot, err := s.GetCart(ctx, scope)
	if err != nil {
		return cart.Totals{}, err
	}
	return cart.ComputeTotals(snapshot), nil
}

func (s Service) apply(
	ctx context.Context,
	scope ports.Scope,
	transform func(cart.Cart) cart.Cart,
) (cart.Cart, error) {
	if err := validateScope(scope); err != nil {
		return cart.Cart{}, err
	}
	snapshot, err := s.loadOrCreate(ctx, scope)
	if err != nil {
		return cart.Cart{}, err
	}
	return s.persist(ctx, scope, transform(snapshot))
}

// loadOrCreate reads the authoritative snapshot, materializing the cart on
// first access to a scope that has none yet.
func (s Service) loadOrCreate(ctx context.Context, scope ports.Scope) (cart.Cart, error) {
	snapshot, found, err := s.Repo.GetByScope(ctx, scope)
	if err != nil {
		return cart.Cart{}, err
	}
	if found {
		return snapshot, nil
	}

	now := s.now()
	created := cart.Cart{
		RoomID:    scope.RoomID,
		ChannelID: scope.ChannelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	saved, err := s.Repo.Save(ctx, created)
	if err != nil {
		return cart.Cart{}, err
	}
	ResolveLogger(s.Logger).Info("cart materialized for scope",
		"event", "cart_materialized",
		"module", "shopping/cart-service",
		"layer", "application",
		"cart_id", saved.CartID,
		"room_id", scope.RoomID,
		"channel_id", scope.ChannelID,
	)
	return saved, nil
}

func (s Service) persist(ctx context.Context, scope ports.Scope, snapshot cart.Cart) (cart.Cart, error) {
	saved, err := s.Repo.Save(ctx, s.stamp(snapshot))
	if err != nil {
		return cart.Cart{}, err
	}
	s.refreshCache(ctx, scope, saved)
	return saved, nil
}

// persistWithItemAdded saves the snapshot and its cart.item_added event
// through the outbox writer's single transaction. Without an outbox the
// snapshot is saved alone.
func (s Service) persistWithItemAdded(
	ctx context.Context,
	scope ports.Scope,
	snapshot cart.Cart,
	product cart.Product,
	addedBy *cart.Contributor,
) (cart.Cart, error) {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if s.Outbox == nil {
		return s.persist(ctx, scope, snapshot)
	}
	stamped := s.stamp(snapshot)
	envelope, err := s.itemAddedEnvelope(ctx, scope, stamped, product, addedBy)
	if err != nil {
		return cart.Cart{}, err
	}
	saved, err := s.Outbox.SaveWithOutbox(ctx, stamped, envelope)
	if err != nil {
		return cart.Cart{}, err
	}
	s.refreshCache(ctx, scope, saved)
	return saved, nil
}

func (s Service) stamp(snapshot cart.Cart) cart.Cart {
	now := s.now()
	snapshot.UpdatedAt = now
	for i := range snapshot.Items {
		if snapshot.Items[i].AddedAt.IsZero() {
			snapshot.Items[i].AddedAt = now
		}
	}
	return snapshot
}

func (s Service) refreshCache(ctx context.Context, scope ports.Scope, snapshot cart.Cart) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Put(ctx, scope, snapshot); err != nil {
		ResolveLogger(s.Logger).Warn("cart cache refresh failed",
			"event", "cart_cache_refresh_failed",
			"module", "shopping/cart-service",
			"layer", "application",
			"cart_id", snapshot.CartID,
			"error", err.Error(),
		)
	}
}

func (s Service) itemAddedEnvelope(
	ctx context.Context,
	scope ports.Scope,
	snapshot cart.Cart,
	product cart.Product,
	addedBy *cart.Contributor,
) (ports.EventEnvelope, error) {
	eventID, err := s.newID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	data := map[string]any{
		"cart_id":      snapshot.CartID,
		"room_id":      scope.RoomID,
		"channel_id":   scope.ChannelID,
		"product_id":   product.ProductID,
		"product_name": product.Name,
	}
	if addedBy != nil {
		data["added_by_id"] = addedBy.UserID
		data["added_by_name"] = addedBy.DisplayName
	}
	// Item events are partitioned by cart so scope-level consumers observe
	// additions in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        "cart.item_added",
		OccurredAt:       s.now(),
		SourceService:    "cart-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "cart_id",
		PartitionKey:     snapshot.CartID,
		Data:             payload,
	}, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// newID tolerates a nil generator; outbox adapters assign an id to
// envelopes that arrive without one.
func (s Service) newID(ctx context.Context) (string, error) {
	if s.IDGen == nil {
		return "", nil
	}
	return s.IDGen.NewID(ctx)
}

func validateScope(scope ports.Scope) error {
	room := strings.TrimSpace(scope.RoomID)
	channel := strings.TrimSpace(scope.ChannelID)
	if (room == "") == (channel == "") {
		return domainerrors.ErrInvalidScope
	}
	return nil
}
