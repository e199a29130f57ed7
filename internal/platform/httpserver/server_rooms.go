package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	roomdomainerrors "shopsync/contexts/community/room-service/domain/errors"
	roomhttp "shopsync/contexts/community/room-service/transport/http"
)

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireRoomUser(w, r)
	if !ok {
		return
	}

	var req roomhttp.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoomError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.rooms.Handler.CreateRoomHandler(r.Context(), userID, req)
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireRoomUser(w, r)
	if !ok {
		return
	}

	var req roomhttp.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoomError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.rooms.Handler.JoinRoomHandler(r.Context(), userID, req)
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireRoomUser(w, r)
	if !ok {
		return
	}

	resp, err := s.rooms.Handler.LeaveRoomHandler(r.Context(), r.PathValue("room_id"), userID)
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	resp, err := s.rooms.Handler.GetRoomHandler(r.Context(), r.PathValue("room_id"))
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireRoomUser(w, r)
	if !ok {
		return
	}

	resp, err := s.rooms.Handler.ListRoomsHandler(r.Context(), userID)
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireRoomUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := resolveUserID(r)
	if userID == "" {
		writeRoomError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func writeRoomDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roomdomainerrors.ErrInvalidRequest):
		writeRoomError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, roomdomainerrors.ErrRoomNotFound):
		writeRoomError(w, http.StatusNotFound, "room_not_found", err.Error())
	case errors.Is(err, roomdomainerrors.ErrCodeExhausted):
		writeRoomError(w, http.StatusConflict, "room_code_exhausted", err.Error())
	default:
		writeRoomError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRoomError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, roomhttp.ErrorResponse{Code: code, Message: message})
}
