package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	channelservice "shopsync/contexts/community/channel-service"
	chatservice "shopsync/contexts/community/chat-service"
	roomservice "shopsync/contexts/community/room-service"
	userservice "shopsync/contexts/identity/user-service"
	cartservice "shopsync/contexts/shopping/cart-service"
	cartports "shopsync/contexts/shopping/cart-service/ports"
	catalogservice "shopsync/contexts/shopping/catalog-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "shopsync/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	carts    cartservice.Module
	catalog  catalogservice.Module
	rooms    roomservice.Module
	channels channelservice.Module
	chat     chatservice.Module
	users    userservice.Module
}

func New(
	carts cartservice.Module,
	catalog catalogservice.Module,
	rooms roomservice.Module,
	channels channelservice.Module,
	chat chatservice.Module,
	users userservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		carts:    carts,
		catalog:  catalog,
		rooms:    rooms,
		channels: channels,
		chat:     chat,
		users:    users,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/users", s.handleCreateUser)
	s.mux.HandleFunc("GET /api/users/{user_id}", s.handleGetUser)
	s.mux.HandleFunc("PATCH /api/users/{user_id}/display-name", s.handleUpdateDisplayName)

	s.mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	s.mux.HandleFunc("POST /api/rooms/join", s.handleJoinRoom)
	s.mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	s.mux.HandleFunc("GET /api/rooms/{room_id}", s.handleGetRoom)
	s.mux.HandleFunc("POST /api/rooms/{room_id}/leave", s.handleLeaveRoom)

	s.mux.HandleFunc("POST /api/channels", s.handleCreateChannel)
	s.mux.HandleFunc("GET /api/channels", s.handleListChannels)
	s.mux.HandleFunc("GET /api/channels/{channel_id}", s.handleGetChannel)
	s.mux.HandleFunc("POST /api/channels/{channel_id}/join", s.handleJoinChannel)
	s.mux.HandleFunc("POST /api/channels/{channel_id}/leave", s.handleLeaveChannel)

	s.mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	s.mux.HandleFunc("GET /api/products", s.handleListProducts)
	s.mux.HandleFunc("GET /api/products/{product_id}", s.handleGetProduct)
	s.mux.HandleFunc("POST /api/products/resolve", s.handleResolveShareURL)

	// The shared cart and the chat feed hang off both scope kinds, so the
	// same handlers are registered under rooms and channels.
	s.registerScopedRoutes("/api/rooms/{room_id}", func(r *http.Request) cartports.Scope {
		return cartports.Scope{RoomID: r.PathValue("room_id")}
	})
	s.registerScopedRoutes("/api/channels/{channel_id}", func(r *http.Request) cartports.Scope {
		return cartports.Scope{ChannelID: r.PathValue("channel_id")}
	})

	s.mux.HandleFunc("POST /api/messages/{message_id}/reactions", s.handleReactToMessage)
}

func (s *Server) registerScopedRoutes(prefix string, scopeOf func(*http.Request) cartports.Scope) {
	s.mux.HandleFunc("GET "+prefix+"/cart", s.handleGetCart(scopeOf))
	s.mux.HandleFunc("POST "+prefix+"/cart/items", s.handleAddCartItem(scopeOf))
	s.mux.HandleFunc("PATCH "+prefix+"/cart/items/{item_id}/quantity", s.handleChangeQuantity(scopeOf))
	s.mux.HandleFunc("DELETE "+prefix+"/cart/items/{item_id}", s.handleRemoveCartItem(scopeOf))
	s.mux.HandleFunc("POST "+prefix+"/cart/items/{item_id}/votes", s.handleCastVote(scopeOf))
	s.mux.HandleFunc("POST "+prefix+"/cart/items/{item_id}/votes/retract", s.handleRetractVote(scopeOf))
	s.mux.HandleFunc("POST "+prefix+"/cart/items/{item_id}/reactions", s.handleCartReaction(scopeOf))
	s.mux.HandleFunc("GET "+prefix+"/cart/top", s.handleTopItems(scopeOf))
	s.mux.HandleFunc("GET "+prefix+"/cart/totals", s.handleCartTotals(scopeOf))

	s.mux.HandleFunc("POST "+prefix+"/messages", s.handlePostMessage(scopeOf))
	s.mux.HandleFunc("GET "+prefix+"/messages", s.handleListMessages(scopeOf))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

func resolveDisplayName(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Display-Name"))
}
