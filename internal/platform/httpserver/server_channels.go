package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	channeldomainerrors "shopsync/contexts/community/channel-service/domain/errors"
	channelhttp "shopsync/contexts/community/channel-service/transport/http"
)

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var req channelhttp.CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChannelError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.channels.Handler.CreateChannelHandler(r.Context(), req)
	if err != nil {
		writeChannelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	resp, err := s.channels.Handler.GetChannelHandler(r.Context(), r.PathValue("channel_id"))
	if err != nil {
		writeChannelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	resp, err := s.channels.Handler.ListChannelsHandler(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeChannelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJoinChannel(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)
	if userID == "" {
		writeChannelError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.channels.Handler.JoinChannelHandler(r.Context(), r.PathValue("channel_id"), userID)
	if err != nil {
		writeChannelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaveChannel(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)
	if userID == "" {
		writeChannelError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.channels.Handler.LeaveChannelHandler(r.Context(), r.PathValue("channel_id"), userID)
	if err != nil {
		writeChannelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeChannelDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, channeldomainerrors.ErrInvalidRequest):
		writeChannelError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, channeldomainerrors.ErrChannelNotFound):
		writeChannelError(w, http.StatusNotFound, "channel_not_found", err.Error())
	case errors.Is(err, channeldomainerrors.ErrChannelExists):
		writeChannelError(w, http.StatusConflict, "channel_exists", err.Error())
	default:
		writeChannelError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeChannelError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, channelhttp.ErrorResponse{Code: code, Message: message})
}
