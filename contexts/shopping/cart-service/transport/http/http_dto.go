package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ContributorDTO struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

type AddItemRequest struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	UnitPrice   int64  `json:"unit_price"`
	ImageURL    string `json:"image_url,omitempty"`
	PurchaseURL string `json:"purchase_url,omitempty"`
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

type VoteRequest struct {
	Direction string `json:"direction"`
}

type ReactionRequest struct {
	Kind string `json:"kind"`
}

type VotesDTO struct {
	Up         int      `json:"up"`
	Down       int      `json:"down"`
	UpVoters   []string `json:"up_voters,omitempty"`
	DownVoters []string `json:"down_voters,omitempty"`
}

type ReactionsDTO struct {
	Like     int `json:"like"`
	Heart    int `json:"heart"`
	Fire     int `json:"fire"`
	Comments int `json:"comments"`
}

type LineItemDTO struct {
	ItemID      string          `json:"item_id"`
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand,omitempty"`
	UnitPrice   int64           `json:"unit_price"`
	ImageURL    string          `json:"image_url,omitempty"`
	PurchaseURL string          `json:"purchase_url,omitempty"`
	Quantity    int             `json:"quantity"`
	AddedBy     *ContributorDTO `json:"added_by,omitempty"`
	Votes       VotesDTO        `json:"votes"`
	Reactions   ReactionsDTO    `json:"reactions"`
	Score       int             `json:"score"`
	AddedAt     string          `json:"added_at"`
}

type CartResponse struct {
	CartID    string        `json:"cart_id"`
	RoomID    string        `json:"room_id,omitempty"`
	ChannelID string        `json:"channel_id,omitempty"`
	Items     []LineItemDTO `json:"items"`
	UpdatedAt string        `json:"updated_at"`
}

type RankedItemsResponse struct {
	Items []LineItemDTO `json:"items"`
}

type TotalsResponse struct {
	TotalValue           int64 `json:"total_value"`
	TotalItemCount       int   `json:"total_item_count"`
	DistinctProductCount int   `json:"distinct_product_count"`
}
