package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ProductRefDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Brand     string `json:"brand,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	ImageURL  string `json:"image_url,omitempty"`
}

type PostMessageRequest struct {
	Kind    string         `json:"kind"`
	Content string         `json:"content,omitempty"`
	Product *ProductRefDTO `json:"product,omitempty"`
}

type ReactRequest struct {
	Kind string `json:"kind"`
}

type MessageResponse struct {
	MessageID      string         `json:"message_id"`
	RoomID         string         `json:"room_id,omitempty"`
	ChannelID      string         `json:"channel_id,omitempty"`
	UserID         string         `json:"user_id"`
	DisplayName    string         `json:"display_name,omitempty"`
	Kind           string         `json:"kind"`
	Content        string         `json:"content,omitempty"`
	Product        *ProductRefDTO `json:"product,omitempty"`
	Likes          int            `json:"likes"`
	Hearts         int            `json:"hearts"`
	SequenceNumber int64          `json:"sequence_number"`
	CreatedAt      string         `json:"created_at"`
}

type MessageListResponse struct {
	Items []MessageResponse `json:"items"`
}
