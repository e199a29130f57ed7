package cart

import (
	"sort"
	"strings"

	domainerrors "shopsync/contexts/shopping/cart-service/domain/errors"
)

// The engine is a set of pure transformations over Cart values. Every
// operation returns a new Cart; the input is never mutated. Concurrency and
// persistence are entirely the caller's concern.

// AddOrIncrement adds a product to the cart. An existing line item for the
// same product increments by one instead of producing a duplicate row, so no
// two items in a returned cart ever reference the same product.
func AddOrIncrement(c Cart, product Product, addedBy *Contributor) (Cart, error) {
	if err := validateProduct(product); err != nil {
		return Cart{}, err
	}

	next := c.Clone()
	for i, item := range next.Items {
		if item.Product.ProductID == product.ProductID {
			next.Items[i].Quantity++
			return next, nil
		}
	}

	item := LineItem{
		Product:  product,
		Quantity: 1,
	}
	if addedBy != nil {
		contributor := *addedBy
		item.AddedBy = &contributor
	}
	next.Items = append(next.Items, item)
	return next, nil
}

// ChangeQuantity applies a signed delta to the named item. A resulting
// quantity <= 0 removes the item entirely; quantity is never stored as zero
// or negative. An unknown itemID is a no-op so unreliable callers can retry
// safely.
func ChangeQuantity(c Cart, itemID string, delta int) Cart {
	next := c.Clone()
	for i, item := range next.Items {
		if item.ItemID != itemID {
			continue
		}
		if item.Quantity+delta <= 0 {
			next.Items = append(next.Items[:i], next.Items[i+1:]...)
		} else {
			next.Items[i].Quantity += delta
		}
		return next
	}
	return next
}

// Remove unconditionally deletes the named item if present.
func Remove(c Cart, itemID string) Cart {
	next := c.Clone()
	for i, item := range next.Items {
		if item.ItemID == itemID {
			next.Items = append(next.Items[:i], next.Items[i+1:]...)
			return next
		}
	}
	return next
}

// CastVote records one vote on an item. A voter already present in that
// direction's set is a no-op, so repeated clicks cannot inflate a side. The
// opposite direction is left untouched: a user may hold one up and one down
// vote at the same time, and retracting the prior direction on a switch is
// the caller's call (see RetractVote).
func CastVote(c Cart, itemID string, direction VoteDirection, voterID string) Cart {
	next := c.Clone()
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return next
	}
	for i, item := range next.Items {
		if item.ItemID != itemID {
			continue
		}
		if item.Votes.hasVoter(direction, voterID) {
			return next
		}
		if direction == VoteDown {
			next.Items[i].Votes.Down++
			next.Items[i].Votes.DownVoters = append(next.Items[i].Votes.DownVoters, voterID)
		} else {
			next.Items[i].Votes.Up++
			next.Items[i].Votes.UpVoters = append(next.Items[i].Votes.UpVoters, voterID)
		}
		return next
	}
	return next
}

// RetractVote removes a voter from one direction's set and decrements the
// counter. No-op when the voter never voted that way. Callers that want
// mutually exclusive voting retract the old direction before casting the
// new one.
func RetractVote(c Cart, itemID string, direction VoteDirection, voterID string) Cart {
	next := c.Clone()
	voterID = strings.TrimSpace(voterID)
	for i, item := range next.Items {
		if item.ItemID != itemID {
			continue
		}
		if !item.Votes.hasVoter(direction, voterID) {
			return next
		}
		if direction == VoteDown {
			next.Items[i].Votes.Down--
			next.Items[i].Votes.DownVoters = removeString(next.Items[i].Votes.DownVoters, voterID)
		} else {
			next.Items[i].Votes.Up--
			next.Items[i].Votes.UpVoters = removeString(next.Items[i].Votes.UpVoters, voterID)
		}
		return next
	}
	return next
}

// AddReaction bumps one reaction counter on a line item. Reactions are
// deliberately not deduplicated per user; they are lightweight, repeatable
// signals, unlike votes.
func AddReaction(item LineItem, kind ReactionKind) LineItem {
	next := cloneItem(item)
	switch kind {
	case ReactionHeart:
		next.Reactions.Heart++
	case ReactionFire:
		next.Reactions.Fire++
	default:
		next.Reactions.Like++
	}
	return next
}

// RankByScore returns the top limit items ordered by score descending.
// Limit 0 means no limit. Ties keep insertion order (first added wins), so
// output is deterministic across calls even with equal scores.
func RankByScore(c Cart, limit int) ([]LineItem, error) {
	if limit < 0 {
		return nil, domainerrors.ErrNegativeLimit
	}
	ranked := cloneItems(c.Items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ComputeTotals folds the line items into derived totals. All arithmetic is
// on integer minor units; currency never touches floating point.
func ComputeTotals(c Cart) Totals {
	totals := Totals{
		DistinctProductCount: len(c.Items),
	}
	for _, item := range c.Items {
		totals.TotalValue += item.Product.UnitPrice * int64(item.Quantity)
		totals.TotalItemCount += item.Quantity
	}
	return totals
}

func validateProduct(product Product) error {
	if strings.TrimSpace(product.ProductID) == "" ||
		strings.TrimSpace(product.Name) == "" ||
		product.UnitPrice < 0 {
		return domainerrors.ErrInvalidProduct
	}
	return nil
}

func removeString(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
