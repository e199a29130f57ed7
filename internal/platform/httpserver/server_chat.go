package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chatdomainerrors "shopsync/contexts/community/chat-service/domain/errors"
	chathttp "shopsync/contexts/community/chat-service/transport/http"
	cartports "shopsync/contexts/shopping/cart-service/ports"
)

func (s *Server) handlePostMessage(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			writeChatError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
			return
		}

		var req chathttp.PostMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeChatError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}

		scope := scopeOf(r)
		resp, err := s.chat.Handler.PostMessageHandler(
			r.Context(),
			scope.RoomID,
			scope.ChannelID,
			userID,
			resolveDisplayName(r),
			r.Header.Get("Idempotency-Key"),
			req,
		)
		if err != nil {
			writeChatDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func (s *Server) handleListMessages(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var afterSequence int64
		if raw := query.Get("after_sequence"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeChatError(w, http.StatusBadRequest, "invalid_after_sequence", "after_sequence must be an integer")
				return
			}
			afterSequence = parsed
		}

		limit := 0
		if raw := query.Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeChatError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
				return
			}
			limit = parsed
		}

		scope := scopeOf(r)
		resp, err := s.chat.Handler.ListMessagesHandler(r.Context(), scope.RoomID, scope.ChannelID, afterSequence, limit)
		if err != nil {
			writeChatDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleReactToMessage(w http.ResponseWriter, r *http.Request) {
	var req chathttp.ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.chat.Handler.ReactHandler(
		r.Context(),
		r.PathValue("message_id"),
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeChatDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatdomainerrors.ErrInvalidRequest),
		errors.Is(err, chatdomainerrors.ErrInvalidScope),
		errors.Is(err, chatdomainerrors.ErrInvalidKind),
		errors.Is(err, chatdomainerrors.ErrInvalidReaction):
		writeChatError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, chatdomainerrors.ErrIdempotencyKeyRequired):
		writeChatError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, chatdomainerrors.ErrIdempotencyConflict):
		writeChatError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, chatdomainerrors.ErrMessageNotFound):
		writeChatError(w, http.StatusNotFound, "message_not_found", err.Error())
	default:
		writeChatError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeChatError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, chathttp.ErrorResponse{Code: code, Message: message})
}
