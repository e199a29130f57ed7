package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"shopsync/contexts/shopping/cart-service/domain/cart"
	"shopsync/contexts/shopping/cart-service/ports"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 15 * time.Minute

// SnapshotCache keeps rendered cart snapshots hot so reads skip Postgres.
// The cache is strictly best-effort; the service treats misses and errors
// identically and falls through to the repository.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *SnapshotCache) Get(ctx context.Context, scope ports.Scope) (cart.Cart, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.Cart{}, false, nil
		}
		return cart.Cart{}, false, c.logError("cart_cache_get_failed", err, scope)
	}
	var snapshot cart.Cart
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// A corrupt entry is dropped so the next read repopulates it.
		_ = c.client.Del(ctx, cacheKey(scope)).Err()
		return cart.Cart{}, false, nil
	}
	return snapshot, true, nil
}

func (c *SnapshotCache) Put(ctx context.Context, scope ports.Scope, snapshot cart.Cart) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return c.logError("cart_cache_encode_failed", err, scope)
	}
	if err := c.client.Set(ctx, cacheKey(scope), raw, c.ttl).Err(); err != nil {
		return c.logError("cart_cache_put_failed", err, scope)
	}
	return nil
}

func (c *SnapshotCache) Invalidate(ctx context.Context, scope ports.Scope) error {
	if err := c.client.Del(ctx, cacheKey(scope)).Err(); err != nil {
		return c.logError("cart_cache_invalidate_failed", err, scope)
	}
	return nil
}

func (c *SnapshotCache) logError(event string, err error, scope ports.Scope) error {
	c.logger.Error("cart cache operation failed",
		"event", event,
		"module", "shopping/cart-service",
		"layer", "adapter",
		"error", err.Error(),
		"room_id", strings.TrimSpace(scope.RoomID),
		"channel_id", strings.TrimSpace(scope.ChannelID),
	)
	return err
}

func cacheKey(scope ports.Scope) string {
	if strings.TrimSpace(scope.RoomID) != "" {
		return "cart:room:" + strings.TrimSpace(scope.RoomID)
	}
	return "cart:channel:" + strings.TrimSpace(scope.ChannelID)
}

var _ ports.SnapshotCache = (*SnapshotCache)(nil)
