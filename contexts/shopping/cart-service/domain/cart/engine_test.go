package cart

import (
	"errors"
	"testing"
	"time"

	domainerrors "shopsync/contexts/shopping/cart-service/domain/errors"
)

func testProduct(id string, price int64) Product {
	return Product{
		ProductID: id,
		Name:      "product " + id,
		Brand:     "brand",
		UnitPrice: price,
	}
}

func mustAdd(t *testing.T, c Cart, product Product, addedBy *Contributor) Cart {
	t.Helper()
	next, err := AddOrIncrement(c, product, addedBy)
	if err != nil {
		t.Fatalf("AddOrIncrement(%s): %v", product.ProductID, err)
	}
	return next
}

func TestAddOrIncrementAppendsNewItem(t *testing.T) {
	contributor := &Contributor{UserID: "user-1", DisplayName: "Asha"}
	next := mustAdd(t, Cart{}, testProduct("p-1", 499), contributor)

	if len(next.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(next.Items))
	}
	item := next.Items[0]
	if item.Quantity != 1 {
		t.Fatalf("expected quantity 1 for a fresh item, got %d", item.Quantity)
	}
	if item.AddedBy == nil || item.AddedBy.UserID != "user-1" {
		t.Fatalf("expected contributor to be recorded, got %+v", item.AddedBy)
	}
}

func TestAddOrIncrementDedupsByProductID(t *testing.T) {
	first := &Contributor{UserID: "user-1"}
	second := &Contributor{UserID: "user-2"}

	c := mustAdd(t, Cart{}, testProduct("p-1", 499), first)
	c = mustAdd(t, c, testProduct("p-1", 499), second)

	if len(c.Items) != 1 {
		t.Fatalf("expected duplicate add to merge, got %d items", len(c.Items))
	}
	if c.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 after re-add, got %d", c.Items[0].Quantity)
	}
	if c.Items[0].AddedBy.UserID != "user-1" {
		t.Fatalf("expected the original contributor to stick, got %q", c.Items[0].AddedBy.UserID)
	}
}

func TestAddOrIncrementRejectsInvalidProduct(t *testing.T) {
	cases := []struct {
		name    string
		product Product
	}{
		{name: "missing id", product: Product{Name: "x", UnitPrice: 100}},
		{name: "missing name", product: Product{ProductID: "p-1", UnitPrice: 100}},
		{name: "negative price", product: Product{ProductID: "p-1", Name: "x", UnitPrice: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AddOrIncrement(Cart{}, tc.product, nil)
			if !errors.Is(err, domainerrors.ErrInvalidProduct) {
				t.Fatalf("expected ErrInvalidProduct, got %v", err)
			}
		})
	}
}

func TestChangeQuantityRemovesAtZero(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 499), nil)
	c.Items[0].ItemID = "item-1"

	c = ChangeQuantity(c, "item-1", 2)
	if c.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", c.Items[0].Quantity)
	}

	c = ChangeQuantity(c, "item-1", -3)
	if len(c.Items) != 0 {
		t.Fatalf("expected item to drop out when quantity reaches zero, got %d items", len(c.Items))
	}
}

func TestChangeQuantityUnknownItemIsNoOp(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 499), nil)
	next := ChangeQuantity(c, "missing", 5)
	if len(next.Items) != 1 || next.Items[0].Quantity != 1 {
		t.Fatalf("expected unknown item id to leave the cart unchanged, got %+v", next.Items)
	}
}

func TestRemoveDropsOnlyTheNamedItem(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 499), nil)
	c = mustAdd(t, c, testProduct("p-2", 999), nil)
	c.Items[0].ItemID = "item-1"
	c.Items[1].ItemID = "item-2"

	c = Remove(c, "item-1")
	if len(c.Items) != 1 || c.Items[0].ItemID != "item-2" {
		t.Fatalf("expected only item-2 to remain, got %+v", c.Items)
	}

	c = Remove(c, "missing")
	if len(c.Items) != 1 {
		t.Fatalf("expected removing a missing item to be a no-op, got %d items", len(c.Items))
	}
}

func TestCastVoteDedupsPerDirection(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 499), nil)
	c.Items[0].ItemID = "item-1"

	c = CastVote(c, "item-1", VoteUp, "user-1")
	c = CastVote(c, "item-1", VoteUp, "user-1")
	if c.Items[0].Votes.Up != 1 {
		t.Fatalf("expected repeat upvote to be ignored, got %d", c.Items[0].Votes.Up)
	}

	c = CastVote(c, "item-1", VoteDown, "user-1")
	if c.Items[0].Votes.Down != 1 {
		t.Fatalf("expected downvote from the same user to land, got %d", c.Items[0].Votes.Down)
	}
	if c.Items[0].Score() != 0 {
		t.Fatalf("expected net score 0 with one up and one down, got %d", c.Items[0].Score())
	}
}

func TestRetractVoteRemovesVoterAndCount(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 499), nil)
	c.Items[0].ItemID = "item-1"

	c = CastVote(c, "item-1", VoteUp, "user-1")
	c = CastVote(c, "item-1", VoteUp, "user-2")
	c = RetractVote(c, "item-1", VoteUp, "user-1")

	item := c.Items[0]
	if item.Votes.Up != 1 {
		t.Fatalf("expected one upvote after retraction, got %d", item.Votes.Up)
	}
	if len(item.Votes.UpVoters) != 1 || item.Votes.UpVoters[0] != "user-2" {
		t.Fatalf("expected only user-2 to remain in the voter set, got %v", item.Votes.UpVoters)
	}

	c = RetractVote(c, "item-1", VoteUp, "user-1")
	if c.Items[0].Votes.Up != 1 {
		t.Fatalf("expected retracting an absent vote to be a no-op, got %d", c.Items[0].Votes.Up)
	}
}

func TestAddReactionIncrementsBlindly(t *testing.T) {
	item := LineItem{ItemID: "item-1", Quantity: 1}
	item = AddReaction(item, ReactionLike)
	item = AddReaction(item, ReactionLike)
	item = AddReaction(item, ReactionFire)

	if item.Reactions.Like != 2 {
		t.Fatalf("expected repeated likes to stack, got %d", item.Reactions.Like)
	}
	if item.Reactions.Fire != 1 {
		t.Fatalf("expected one fire reaction, got %d", item.Reactions.Fire)
	}
	if item.Reactions.Heart != 0 {
		t.Fatalf("expected hearts untouched, got %d", item.Reactions.Heart)
	}
}

func TestRankByScoreOrdersByNetVotes(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 100), nil)
	c = mustAdd(t, c, testProduct("p-2", 100), nil)
	c = mustAdd(t, c, testProduct("p-3", 100), nil)
	for i := range c.Items {
		c.Items[i].ItemID = c.Items[i].Product.ProductID
	}

	c = CastVote(c, "p-2", VoteUp, "user-1")
	c = CastVote(c, "p-2", VoteUp, "user-2")
	c = CastVote(c, "p-3", VoteUp, "user-1")
	c = CastVote(c, "p-1", VoteDown, "user-1")

	ranked, err := RankByScore(c, 0)
	if err != nil {
		t.Fatalf("RankByScore: %v", err)
	}
	got := []string{ranked[0].ItemID, ranked[1].ItemID, ranked[2].ItemID}
	want := []string{"p-2", "p-3", "p-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestRankByScoreTieBreaksByInsertionOrder(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 100), nil)
	c = mustAdd(t, c, testProduct("p-2", 100), nil)
	c = mustAdd(t, c, testProduct("p-3", 100), nil)
	for i := range c.Items {
		c.Items[i].ItemID = c.Items[i].Product.ProductID
	}

	c = CastVote(c, "p-1", VoteUp, "user-1")
	c = CastVote(c, "p-3", VoteUp, "user-1")

	ranked, err := RankByScore(c, 0)
	if err != nil {
		t.Fatalf("RankByScore: %v", err)
	}
	if ranked[0].ItemID != "p-1" || ranked[1].ItemID != "p-3" {
		t.Fatalf("expected ties to keep insertion order, got %s then %s", ranked[0].ItemID, ranked[1].ItemID)
	}
}

func TestRankByScoreLimit(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 100), nil)
	c = mustAdd(t, c, testProduct("p-2", 100), nil)

	ranked, err := RankByScore(c, 1)
	if err != nil {
		t.Fatalf("RankByScore: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected limit to truncate to 1, got %d", len(ranked))
	}

	ranked, err = RankByScore(c, 10)
	if err != nil {
		t.Fatalf("RankByScore: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected oversized limit to clamp to cart size, got %d", len(ranked))
	}

	ranked, err = RankByScore(c, 0)
	if err != nil {
		t.Fatalf("RankByScore: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected limit 0 to return every item, got %d", len(ranked))
	}

	if _, err := RankByScore(c, -1); !errors.Is(err, domainerrors.ErrNegativeLimit) {
		t.Fatalf("expected ErrNegativeLimit, got %v", err)
	}
}

func TestComputeTotals(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 499), nil)
	c = mustAdd(t, c, testProduct("p-1", 499), nil)
	c = mustAdd(t, c, testProduct("p-2", 999), nil)

	totals := ComputeTotals(c)
	if totals.TotalValue != 1997 {
		t.Fatalf("expected total value 1997, got %d", totals.TotalValue)
	}
	if totals.TotalItemCount != 3 {
		t.Fatalf("expected total item count 3, got %d", totals.TotalItemCount)
	}
	if totals.DistinctProductCount != 2 {
		t.Fatalf("expected 2 distinct products, got %d", totals.DistinctProductCount)
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(Cart{})
	if totals.TotalValue != 0 || totals.TotalItemCount != 0 || totals.DistinctProductCount != 0 {
		t.Fatalf("expected zero totals for an empty cart, got %+v", totals)
	}
}

func TestAddThenDecrementLeavesEmptyCart(t *testing.T) {
	c := mustAdd(t, Cart{}, testProduct("p-1", 499), nil)
	c.Items[0].ItemID = "item-1"
	c = ChangeQuantity(c, "item-1", -1)

	if len(c.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(c.Items))
	}
	totals := ComputeTotals(c)
	if totals.TotalValue != 0 {
		t.Fatalf("expected zero total after removal, got %d", totals.TotalValue)
	}
}

func TestOperationsDoNotMutateInput(t *testing.T) {
	base := mustAdd(t, Cart{}, testProduct("p-1", 499), &Contributor{UserID: "user-1"})
	base.Items[0].ItemID = "item-1"
	base.CreatedAt = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	_ = CastVote(base, "item-1", VoteUp, "user-2")
	_ = ChangeQuantity(base, "item-1", 5)
	_ = Remove(base, "item-1")
	_, _ = AddOrIncrement(base, testProduct("p-2", 100), nil)

	if len(base.Items) != 1 {
		t.Fatalf("expected input cart to keep one item, got %d", len(base.Items))
	}
	item := base.Items[0]
	if item.Quantity != 1 || item.Votes.Up != 0 || len(item.Votes.UpVoters) != 0 {
		t.Fatalf("expected input cart to be untouched, got %+v", item)
	}
}
