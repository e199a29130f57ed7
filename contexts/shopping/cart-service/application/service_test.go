package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"shopsync/contexts/shopping/cart-service/domain/cart"
	domainerrors "shopsync/contexts/shopping/cart-service/domain/errors"
	"shopsync/contexts/shopping/cart-service/ports"
)

type testRepo struct {
	carts map[string]cart.Cart
	saves int
}

func newTestRepo() *testRepo {
	return &testRepo{carts: make(map[string]cart.Cart)}
}

func (r *testRepo) key(scope ports.Scope) string {
	return scope.RoomID + "|" + scope.ChannelID
}

func (r *testRepo) GetByScope(_ context.Context, scope ports.Scope) (cart.Cart, bool, error) {
	snapshot, ok := r.carts[r.key(scope)]
	if !ok {
		return cart.Cart{}, false, nil
	}
	return snapshot.Clone(), true, nil
}

func (r *testRepo) Save(_ context.Context, snapshot cart.Cart) (cart.Cart, error) {
	r.saves++
	saved := snapshot.Clone()
	if saved.CartID == "" {
		saved.CartID = "cart-1"
	}
	for i := range saved.Items {
		if saved.Items[i].ItemID == "" {
			saved.Items[i].ItemID = "item-" + saved.Items[i].Product.ProductID
		}
	}
	r.carts[r.key(ports.Scope{RoomID: saved.RoomID, ChannelID: saved.ChannelID})] = saved.Clone()
	return saved, nil
}

// testOutbox mirrors the production writers: the snapshot and its envelope
// land together or not at all. A non-nil failWith rejects the whole write.
type testOutbox struct {
	repo      *testRepo
	envelopes []ports.EventEnvelope
	failWith  error
}

func (o *testOutbox) SaveWithOutbox(ctx context.Context, snapshot cart.Cart, envelope ports.EventEnvelope) (cart.Cart, error) {
	if o.failWith != nil {
		return cart.Cart{}, o.failWith
	}
	saved, err := o.repo.Save(ctx, snapshot)
	if err != nil {
		return cart.Cart{}, err
	}
	o.envelopes = append(o.envelopes, envelope)
	return saved, nil
}

type testCache struct {
	entries map[string]cart.Cart
	puts    int
}

func newTestCache() *testCache {
	return &testCache{entries: make(map[string]cart.Cart)}
}

func (c *testCache) key(scope ports.Scope) string {
	return scope.RoomID + "|" + scope.ChannelID
}

func (c *testCache) Get(_ context.Context, scope ports.Scope) (cart.Cart, bool, error) {
	snapshot, ok := c.entries[c.key(scope)]
	if !ok {
		return cart.Cart{}, false, nil
	}
	return snapshot.Clone(), true, nil
}

func (c *testCache) Put(_ context.Context, scope ports.Scope, snapshot cart.Cart) error {
	c.puts++
	c.entries[c.key(scope)] = snapshot.Clone()
	return nil
}

func (c *testCache) Invalidate(_ context.Context, scope ports.Scope) error {
	delete(c.entries, c.key(scope))
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	next int
}

func (g *sequenceIDs) NewID(_ context.Context) (string, error) {
	g.next++
	return "id-" + string(rune('0'+g.next)), nil
}

func newTestService(repo *testRepo, outbox *testOutbox, cache *testCache) Service {
	service := Service{
		Repo:  repo,
		Clock: fixedClock{now: time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)},
		IDGen: &sequenceIDs{},
	}
	// Assign the interface fields only for non-nil fakes; a typed nil would
	// defeat the service's nil checks.
	if cache != nil {
		service.Cache = cache
	}
	if outbox != nil {
		if outbox.repo == nil {
			outbox.repo = repo
		}
		service.Outbox = outbox
	}
	return service
}

func roomScope() ports.Scope {
	return ports.Scope{RoomID: "room-1"}
}

func TestGetCartMaterializesEmptyCart(t *testing.T) {
	service := newTestService(newTestRepo(), nil, nil)

	snapshot, err := service.GetCart(context.Background(), roomScope())
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if snapshot.RoomID != "room-1" {
		t.Fatalf("expected scope room id on the snapshot, got %q", snapshot.RoomID)
	}
	if len(snapshot.Items) != 0 {
		t.Fatalf("expected an empty materialized cart, got %d items", len(snapshot.Items))
	}
	if snapshot.CartID == "" {
		t.Fatal("expected the materialized cart to get an id")
	}
}

func TestGetCartRejectsAmbiguousScope(t *testing.T) {
	service := newTestService(newTestRepo(), nil, nil)

	_, err := service.GetCart(context.Background(), ports.Scope{RoomID: "room-1", ChannelID: "channel-1"})
	if !errors.Is(err, domainerrors.ErrInvalidScope) {
		t.Fatalf("expected ErrInvalidScope for room+channel scope, got %v", err)
	}
	_, err = service.GetCart(context.Background(), ports.Scope{})
	if !errors.Is(err, domainerrors.ErrInvalidScope) {
		t.Fatalf("expected ErrInvalidScope for empty scope, got %v", err)
	}
}

func TestAddItemPersistsAndEmitsEvent(t *testing.T) {
	repo := newTestRepo()
	outbox := &testOutbox{}
	service := newTestService(repo, outbox, nil)

	snapshot, err := service.AddItem(context.Background(), roomScope(), cart.Product{
		ProductID: "p-1",
		Name:      "Sneakers",
		UnitPrice: 499900,
	}, &cart.Contributor{UserID: "user-1", DisplayName: "Asha"})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(snapshot.Items) != 1 || snapshot.Items[0].Quantity != 1 {
		t.Fatalf("expected one item with quantity 1, got %+v", snapshot.Items)
	}

	if len(outbox.envelopes) != 1 {
		t.Fatalf("expected one outbox envelope, got %d", len(outbox.envelopes))
	}
	envelope := outbox.envelopes[0]
	if envelope.EventType != "cart.item_added" {
		t.Fatalf("expected cart.item_added, got %q", envelope.EventType)
	}
	var data map[string]any
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		t.Fatalf("decode event payload: %v", err)
	}
	if data["product_id"] != "p-1" {
		t.Fatalf("expected product id in the event payload, got %v", data)
	}
	if data["room_id"] != "room-1" {
		t.Fatalf("expected room id in the event payload, got %v", data)
	}
	if envelope.PartitionKey != snapshot.CartID {
		t.Fatalf("expected partition key %q, got %q", snapshot.CartID, envelope.PartitionKey)
	}
}

func TestAddItemFailedOutboxWriteSavesNothing(t *testing.T) {
	repo := newTestRepo()
	outbox := &testOutbox{failWith: errors.New("storage down")}
	service := newTestService(repo, outbox, nil)

	_, err := service.AddItem(context.Background(), roomScope(), cart.Product{
		ProductID: "p-1",
		Name:      "Sneakers",
		UnitPrice: 499900,
	}, nil)
	if err == nil {
		t.Fatal("expected the combined write failure to surface")
	}
	if len(outbox.envelopes) != 0 {
		t.Fatalf("expected no envelope after a failed write, got %d", len(outbox.envelopes))
	}

	// The materialized empty cart stays, but the item lands together with
	// its event or not at all.
	snapshot, found, err := repo.GetByScope(context.Background(), roomScope())
	if err != nil || !found {
		t.Fatalf("GetByScope: found=%v err=%v", found, err)
	}
	if len(snapshot.Items) != 0 {
		t.Fatalf("expected the item write to fail with the event, got %+v", snapshot.Items)
	}
}

func TestAddItemRejectsInvalidProduct(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, &testOutbox{}, nil)

	_, err := service.AddItem(context.Background(), roomScope(), cart.Product{UnitPrice: 100}, nil)
	if !errors.Is(err, domainerrors.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("expected only the materialized empty cart save, got %d saves", repo.saves)
	}
	snapshot, _, _ := repo.GetByScope(context.Background(), roomScope())
	if len(snapshot.Items) != 0 {
		t.Fatalf("expected the rejected item to stay out of the cart, got %+v", snapshot.Items)
	}
}

func TestCastVoteValidatesDirection(t *testing.T) {
	service := newTestService(newTestRepo(), nil, nil)

	_, err := service.CastVote(context.Background(), roomScope(), "item-1", cart.VoteDirection("sideways"), "user-1")
	if !errors.Is(err, domainerrors.ErrInvalidVoteDirection) {
		t.Fatalf("expected ErrInvalidVoteDirection, got %v", err)
	}
}

func TestReactValidatesKind(t *testing.T) {
	service := newTestService(newTestRepo(), nil, nil)

	_, err := service.React(context.Background(), roomScope(), "item-1", cart.ReactionKind("sparkle"))
	if !errors.Is(err, domainerrors.ErrInvalidReactionKind) {
		t.Fatalf("expected ErrInvalidReactionKind, got %v", err)
	}
}

func TestVoteFlowThroughService(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, &testOutbox{}, nil)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, roomScope(), cart.Product{ProductID: "p-1", Name: "Sneakers", UnitPrice: 100}, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	snapshot, err := service.CastVote(ctx, roomScope(), "item-p-1", cart.VoteUp, "user-1")
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if snapshot.Items[0].Votes.Up != 1 {
		t.Fatalf("expected one upvote, got %d", snapshot.Items[0].Votes.Up)
	}

	snapshot, err = service.CastVote(ctx, roomScope(), "item-p-1", cart.VoteUp, "user-1")
	if err != nil {
		t.Fatalf("CastVote repeat: %v", err)
	}
	if snapshot.Items[0].Votes.Up != 1 {
		t.Fatalf("expected duplicate vote to no-op, got %d", snapshot.Items[0].Votes.Up)
	}

	snapshot, err = service.RetractVote(ctx, roomScope(), "item-p-1", cart.VoteUp, "user-1")
	if err != nil {
		t.Fatalf("RetractVote: %v", err)
	}
	if snapshot.Items[0].Votes.Up != 0 {
		t.Fatalf("expected vote retracted, got %d", snapshot.Items[0].Votes.Up)
	}
}

func TestTopItemsAndTotals(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, &testOutbox{}, nil)
	ctx := context.Background()

	products := []cart.Product{
		{ProductID: "p-1", Name: "a", UnitPrice: 499},
		{ProductID: "p-2", Name: "b", UnitPrice: 999},
	}
	for _, product := range products {
		if _, err := service.AddItem(ctx, roomScope(), product, nil); err != nil {
			t.Fatalf("AddItem(%s): %v", product.ProductID, err)
		}
	}
	if _, err := service.AddItem(ctx, roomScope(), products[0], nil); err != nil {
		t.Fatalf("AddItem re-add: %v", err)
	}
	if _, err := service.CastVote(ctx, roomScope(), "item-p-2", cart.VoteUp, "user-1"); err != nil {
		t.Fatalf("CastVote: %v", err)
	}

	top, err := service.TopItems(ctx, roomScope(), 1)
	if err != nil {
		t.Fatalf("TopItems: %v", err)
	}
	if len(top) != 1 || top[0].Product.ProductID != "p-2" {
		t.Fatalf("expected p-2 to rank first, got %+v", top)
	}

	totals, err := service.Totals(ctx, roomScope())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.TotalValue != 1997 || totals.TotalItemCount != 3 || totals.DistinctProductCount != 2 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestMutationsRefreshCache(t *testing.T) {
	repo := newTestRepo()
	cache := newTestCache()
	service := newTestService(repo, &testOutbox{}, cache)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, roomScope(), cart.Product{ProductID: "p-1", Name: "a", UnitPrice: 100}, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if cache.puts == 0 {
		t.Fatal("expected the cache to be refreshed after a mutation")
	}

	cached, found, err := cache.Get(ctx, roomScope())
	if err != nil || !found {
		t.Fatalf("expected a cached snapshot, found=%v err=%v", found, err)
	}
	if len(cached.Items) != 1 {
		t.Fatalf("expected the cached snapshot to carry the item, got %d", len(cached.Items))
	}

	snapshot, err := service.GetCart(ctx, roomScope())
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(snapshot.Items) != 1 {
		t.Fatalf("expected the cached read to return the item, got %d", len(snapshot.Items))
	}
}
