// Package transport provides HTTP handlers for the metadata domain.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mintdesk/mintdesk/internal/metadata/domain"
	"github.com/mintdesk/mintdesk/internal/observability/metrics"
)

// Service defines the metadata service interface for HTTP transport.
type Service interface {
	Get(ctx context.Context, network, address string) (*domain.TokenMetadata, error)
	Upsert(ctx context.Context, network, address string, req domain.UpsertRequest) (*domain.TokenMetadata, error)
	Delete(ctx context.Context, network, address string) error
	List(ctx context.Context, filter domain.ListFilter, pagination domain.PaginationParams) (*domain.ListResult, error)
}

// Handler handles HTTP requests for token metadata.
type Handler struct {
	svc Service
}

// NewHandler creates a new metadata HTTP handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterReadRoutes registers read-only metadata routes (no auth required).
func (h *Handler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{network}/{address}", h.handleGet)
}

// RegisterWriteRoutes registers write metadata routes (auth required).
func (h *Handler) RegisterWriteRoutes(r chi.Router) {
	r.Put("/{network}/{address}", h.handleUpsert)
	r.Delete("/{network}/{address}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	result, err := h.svc.List(r.Context(), domain.ListFilter{
		Network: r.URL.Query().Get("network"),
		Tag:     r.URL.Query().Get("tag"),
	}, domain.PaginationParams{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list metadata")
		return
	}

	data := make([]MetadataResponse, len(result.Records))
	for i, record := range result.Records {
		data[i] = toMetadataResponse(&record)
	}

	writeJSON(w, http.StatusOK, MetadataListResponse{
		Data: data,
		Pagination: Pagination{
			Limit:      limit,
			HasMore:    result.HasMore,
			NextCursor: result.NextCursor,
		},
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	network := chi.URLParam(r, "network")
	address := chi.URLParam(r, "address")

	record, err := h.svc.Get(r.Context(), network, address)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			metrics.MetadataFetch("miss")
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Metadata not found")
		case errors.Is(err, domain.ErrUnknownNetwork):
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		default:
			metrics.MetadataFetch("error")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get metadata")
		}
		return
	}

	metrics.MetadataFetch("hit")
	writeJSON(w, http.StatusOK, toMetadataResponse(record))
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	network := chi.URLParam(r, "network")
	address := chi.URLParam(r, "address")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	var req domain.UpsertRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON")
		return
	}

	record, err := h.svc.Upsert(r.Context(), network, address, req)
	if err != nil {
		metrics.MetadataUpsert(network, "error")
		switch {
		case errors.Is(err, domain.ErrUnknownNetwork),
			errors.Is(err, domain.ErrInvalidAddress),
			errors.Is(err, domain.ErrInvalidMetadata):
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save metadata")
		}
		return
	}

	metrics.MetadataUpsert(network, "success")
	writeJSON(w, http.StatusOK, toMetadataResponse(record))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	network := chi.URLParam(r, "network")
	address := chi.URLParam(r, "address")

	if err := h.svc.Delete(r.Context(), network, address); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Metadata not found")
		case errors.Is(err, domain.ErrUnknownNetwork):
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		default:
			metrics.MetadataDelete("error")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete metadata")
		}
		return
	}

	metrics.MetadataDelete("success")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Metadata deleted successfully"})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}
