package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateChannelRequest struct {
	Name        string `json:"name"`
	Logo        string `json:"logo,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type ChannelResponse struct {
	ChannelID     string `json:"channel_id"`
	Name          string `json:"name"`
	Logo          string `json:"logo,omitempty"`
	Category      string `json:"category,omitempty"`
	Description   string `json:"description,omitempty"`
	MemberCount   int    `json:"member_count"`
	TrendingCount int    `json:"trending_count"`
	CreatedAt     string `json:"created_at"`
}

type ChannelListResponse struct {
	Items []ChannelResponse `json:"items"`
}
