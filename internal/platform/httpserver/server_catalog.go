package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	catalogdomainerrors "shopsync/contexts/shopping/catalog-service/domain/errors"
	cataloghttp "shopsync/contexts/shopping/catalog-service/transport/http"
)

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.CreateProductHandler(r.Context(), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetProductHandler(r.Context(), r.PathValue("product_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeCatalogError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.catalog.Handler.ListProductsHandler(r.Context(), query.Get("brand"), query.Get("category"), limit)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveShareURL(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.ResolveShareURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.ResolveShareURLHandler(r.Context(), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogdomainerrors.ErrInvalidRequest):
		writeCatalogError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, catalogdomainerrors.ErrMalformedPrice):
		writeCatalogError(w, http.StatusUnprocessableEntity, "malformed_price", err.Error())
	case errors.Is(err, catalogdomainerrors.ErrProductNotFound):
		writeCatalogError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, catalogdomainerrors.ErrUnknownHost):
		writeCatalogError(w, http.StatusUnprocessableEntity, "unknown_host", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{Code: code, Message: message})
}
