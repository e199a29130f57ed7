package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	Code string `json:"code"`
}

type RoomResponse struct {
	RoomID         string   `json:"room_id"`
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	CreatedBy      string   `json:"created_by"`
	MemberIDs      []string `json:"member_ids"`
	MemberCount    int      `json:"member_count"`
	CreatedAt      string   `json:"created_at"`
	LastActivityAt string   `json:"last_activity_at"`
}

type RoomListResponse struct {
	Items []RoomResponse `json:"items"`
}
