package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	userdomainerrors "shopsync/contexts/identity/user-service/domain/errors"
	userhttp "shopsync/contexts/identity/user-service/transport/http"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userhttp.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeUserError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.users.Handler.CreateUserHandler(r.Context(), req)
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.users.Handler.GetUserHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	var req userhttp.UpdateDisplayNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeUserError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.users.Handler.UpdateDisplayNameHandler(r.Context(), r.PathValue("user_id"), req)
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeUserDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userdomainerrors.ErrInvalidRequest):
		writeUserError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, userdomainerrors.ErrUserNotFound):
		writeUserError(w, http.StatusNotFound, "user_not_found", err.Error())
	default:
		writeUserError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeUserError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, userhttp.ErrorResponse{Code: code, Message: message})
}
