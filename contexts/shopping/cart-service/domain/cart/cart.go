package cart

import "time"

// VoteDirection is the typed vote axis. Raw transport strings are validated
// at the adapter boundary; the engine only ever sees these two values.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ReactionKind enumerates the lightweight product reactions. Unlike votes,
// reactions carry no per-user state and may repeat.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionHeart ReactionKind = "heart"
	ReactionFire  ReactionKind = "fire"
)

// Product is the external catalog reference a line item points at.
// UnitPrice is in integer minor currency units (paise); the engine never
// sees display-formatted price strings.
type Product struct {
	ProductID   string
	Name        string
	Brand       string
	UnitPrice   int64
	ImageURL    string
	PurchaseURL string
}

// Contributor identifies the user who added an item. Optional: community
// carts on public channels carry items with no known contributor.
type Contributor struct {
	UserID      string
	DisplayName string
	Avatar      string
}

// Votes holds the aggregate counters plus the voter sets that back the
// at-most-one-vote-per-user-per-direction rule.
type Votes struct {
	Up         int
	Down       int
	UpVoters   []string
	DownVoters []string
}

// Reactions are per-kind counters plus a read-only comment count that the
// engine passes through untouched.
type Reactions struct {
	Like     int
	Heart    int
	Fire     int
	Comments int
}

// LineItem is one distinct product entry in a cart. Quantity is >= 1 for as
// long as the item exists; a mutation that would drive it to zero removes
// the item instead.
type LineItem struct {
	ItemID    string
	Product   Product
	Quantity  int
	AddedBy   *Contributor
	Votes     Votes
	Reactions Reactions
	AddedAt   time.Time
}

// Score is up-votes minus down-votes, used only for ranking.
func (i LineItem) Score() int {
	return i.Votes.Up - i.Votes.Down
}

// Cart is the insertion-ordered line item collection for exactly one
// context: a private room or a public brand channel, never both.
type Cart struct {
	CartID    string
	RoomID    string
	ChannelID string
	Items     []LineItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Totals are derived values, recomputed from line items and never stored.
type Totals struct {
	TotalValue           int64
	TotalItemCount       int
	DistinctProductCount int
}

func (v Votes) hasVoter(direction VoteDirection, voterID string) bool {
	for _, id := range v.voters(direction) {
		if id == voterID {
			return true
		}
	}
	return false
}

func (v Votes) voters(direction VoteDirection) []string {
	if direction == VoteDown {
		return v.DownVoters
	}
	return v.UpVoters
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneVotes(v Votes) Votes {
	v.UpVoters = cloneStrings(v.UpVoters)
	v.DownVoters = cloneStrings(v.DownVoters)
	return v
}

func cloneItem(item LineItem) LineItem {
	item.Votes = cloneVotes(item.Votes)
	if item.AddedBy != nil {
		contributor := *item.AddedBy
		item.AddedBy = &contributor
	}
	return item
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = cloneItem(item)
	}
	return out
}

// Clone returns a deep copy of the cart. Engine operations work on copies so
// callers can treat carts as immutable values.
func (c Cart) Clone() Cart {
	c.Items = cloneItems(c.Items)
	return c
}
