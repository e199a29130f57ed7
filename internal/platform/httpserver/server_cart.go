package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	cartdomainerrors "shopsync/contexts/shopping/cart-service/domain/errors"
	cartports "shopsync/contexts/shopping/cart-service/ports"
	carthttp "shopsync/contexts/shopping/cart-service/transport/http"
)

func (s *Server) handleGetCart(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := s.carts.Handler.GetCartHandler(r.Context(), scopeOf(r))
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleAddCartItem(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			writeCartError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
			return
		}

		var req carthttp.AddItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeCartError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}

		resp, err := s.carts.Handler.AddItemHandler(r.Context(), scopeOf(r), userID, resolveDisplayName(r), req)
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleChangeQuantity(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req carthttp.ChangeQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeCartError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}

		resp, err := s.carts.Handler.ChangeQuantityHandler(r.Context(), scopeOf(r), r.PathValue("item_id"), req)
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleRemoveCartItem(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := s.carts.Handler.RemoveItemHandler(r.Context(), scopeOf(r), r.PathValue("item_id"))
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleCastVote(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			writeCartError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
			return
		}

		var req carthttp.VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeCartError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}

		resp, err := s.carts.Handler.CastVoteHandler(r.Context(), scopeOf(r), r.PathValue("item_id"), userID, req)
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleRetractVote(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			writeCartError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
			return
		}

		var req carthttp.VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeCartError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}

		resp, err := s.carts.Handler.RetractVoteHandler(r.Context(), scopeOf(r), r.PathValue("item_id"), userID, req)
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleCartReaction(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req carthttp.ReactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeCartError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}

		resp, err := s.carts.Handler.ReactHandler(r.Context(), scopeOf(r), r.PathValue("item_id"), req)
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleTopItems(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if limitRaw := r.URL.Query().Get("limit"); limitRaw != "" {
			parsed, err := strconv.Atoi(limitRaw)
			if err != nil {
				writeCartError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
				return
			}
			limit = parsed
		}

		resp, err := s.carts.Handler.TopItemsHandler(r.Context(), scopeOf(r), limit)
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleCartTotals(scopeOf func(*http.Request) cartports.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := s.carts.Handler.TotalsHandler(r.Context(), scopeOf(r))
		if err != nil {
			writeCartDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeCartDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cartdomainerrors.ErrInvalidScope):
		writeCartError(w, http.StatusBadRequest, "invalid_scope", err.Error())
	case errors.Is(err, cartdomainerrors.ErrInvalidProduct):
		writeCartError(w, http.StatusUnprocessableEntity, "invalid_product", err.Error())
	case errors.Is(err, cartdomainerrors.ErrInvalidVoteDirection):
		writeCartError(w, http.StatusBadRequest, "invalid_vote_direction", err.Error())
	case errors.Is(err, cartdomainerrors.ErrInvalidReactionKind):
		writeCartError(w, http.StatusBadRequest, "invalid_reaction_kind", err.Error())
	case errors.Is(err, cartdomainerrors.ErrNegativeLimit):
		writeCartError(w, http.StatusBadRequest, "invalid_limit", err.Error())
	case errors.Is(err, cartdomainerrors.ErrCartNotFound):
		writeCartError(w, http.StatusNotFound, "cart_not_found", err.Error())
	case errors.Is(err, cartdomainerrors.ErrConflict):
		writeCartError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeCartError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCartError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, carthttp.ErrorResponse{Code: code, Message: message})
}
