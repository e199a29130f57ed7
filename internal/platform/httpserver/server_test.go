package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	channelservice "shopsync/contexts/community/channel-service"
	chatservice "shopsync/contexts/community/chat-service"
	roomservice "shopsync/contexts/community/room-service"
	userservice "shopsync/contexts/identity/user-service"
	cartservice "shopsync/contexts/shopping/cart-service"
	catalogservice "shopsync/contexts/shopping/catalog-service"
)

func newTestServer() *Server {
	return New(
		cartservice.NewInMemoryModule(slog.Default()),
		catalogservice.NewInMemoryModule(slog.Default()),
		roomservice.NewInMemoryModule(slog.Default()),
		channelservice.NewInMemoryModule(slog.Default()),
		chatservice.NewInMemoryModule(slog.Default()),
		userservice.NewInMemoryModule(slog.Default()),
		slog.Default(),
		":0",
	)
}

func TestAddCartItemRequiresUser(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"product_id":"p-1","name":"Desk Lamp","unit_price":2999}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/room-1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCartAddVoteAndTopInRoomScope(t *testing.T) {
	server := newTestServer()

	body := []byte(`{"product_id":"p-1","name":"Desk Lamp","unit_price":2999}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/room-1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")
	req.Header.Set("X-Display-Name", "Sam")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var cart struct {
		CartID string `json:"cart_id"`
		Items  []struct {
			ItemID    string `json:"item_id"`
			ProductID string `json:"product_id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p-1" {
		t.Fatalf("unexpected cart items: %+v", cart.Items)
	}
	itemID := cart.Items[0].ItemID

	voteBody := []byte(`{"direction":"up"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/rooms/room-1/cart/items/"+itemID+"/votes", bytes.NewReader(voteBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-2")

	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("vote: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/rooms/room-1/cart/top?limit=1", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("top: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var top struct {
		Items []struct {
			ItemID string `json:"item_id"`
			Score  int    `json:"score"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &top); err != nil {
		t.Fatalf("decode top: %v", err)
	}
	if len(top.Items) != 1 || top.Items[0].ItemID != itemID {
		t.Fatalf("unexpected top items: %+v", top.Items)
	}

	// Without an explicit limit the full ranking comes back.
	req = httptest.NewRequest(http.MethodGet, "/api/rooms/room-1/cart/top", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("top without limit: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	top.Items = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &top); err != nil {
		t.Fatalf("decode top: %v", err)
	}
	if len(top.Items) != 1 || top.Items[0].ItemID != itemID {
		t.Fatalf("expected the ranked item without a limit, got %+v", top.Items)
	}
}

func TestCastVoteRejectsUnknownDirection(t *testing.T) {
	server := newTestServer()

	body := []byte(`{"product_id":"p-1","name":"Desk Lamp","unit_price":2999}`)
	req := httptest.NewRequest(http.MethodPost, "/api/channels/ch-1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var cart struct {
		Items []struct {
			ItemID string `json:"item_id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}

	voteBody := []byte(`{"direction":"sideways"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/channels/ch-1/cart/items/"+cart.Items[0].ItemID+"/votes", bytes.NewReader(voteBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-2")

	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRoomCreateAndJoinByCode(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewReader([]byte(`{"name":"Gift Hunt"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create room: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var room struct {
		RoomID string `json:"room_id"`
		Code   string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &room); err != nil {
		t.Fatalf("decode room: %v", err)
	}
	if room.Code == "" {
		t.Fatal("expected a generated invite code")
	}

	joinBody, _ := json.Marshal(map[string]string{"code": room.Code})
	req = httptest.NewRequest(http.MethodPost, "/api/rooms/join", bytes.NewReader(joinBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-2")

	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("join room: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var joined struct {
		RoomID      string `json:"room_id"`
		MemberCount int    `json:"member_count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &joined); err != nil {
		t.Fatalf("decode joined room: %v", err)
	}
	if joined.RoomID != room.RoomID || joined.MemberCount != 2 {
		t.Fatalf("unexpected joined room: %+v", joined)
	}
}

func TestPostMessageRequiresIdempotencyKey(t *testing.T) {
	server := newTestServer()

	body := []byte(`{"kind":"text","content":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/room-1/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestChannelMessagesRoundTrip(t *testing.T) {
	server := newTestServer()

	body := []byte(`{"kind":"text","content":"anyone seen this jacket?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/channels/ch-9/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")
	req.Header.Set("X-Display-Name", "Sam")
	req.Header.Set("Idempotency-Key", "msg-key-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("post message: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/channels/ch-9/messages", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list messages: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var feed struct {
		Items []struct {
			Content        string `json:"content"`
			SequenceNumber int64  `json:"sequence_number"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].Content != "anyone seen this jacket?" {
		t.Fatalf("unexpected feed: %+v", feed.Items)
	}
	if feed.Items[0].SequenceNumber != 1 {
		t.Fatalf("expected sequence 1, got %d", feed.Items[0].SequenceNumber)
	}
}

func TestGetUnknownProductReturnsNotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/products/nope", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
