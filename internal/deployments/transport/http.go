// Package transport provides HTTP handlers for the deployments domain.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mintdesk/mintdesk/internal/deployments/domain"
	"github.com/mintdesk/mintdesk/internal/observability/metrics"
)

// Service defines the deployments service interface for HTTP transport.
type Service interface {
	Record(ctx context.Context, req domain.RecordRequest) (*domain.Deployment, error)
	Get(ctx context.Context, network, address string) (*domain.Deployment, error)
	List(ctx context.Context, filter domain.ListFilter, pagination domain.PaginationParams) (*domain.ListResult, error)
}

// Handler handles HTTP requests for deployments.
type Handler struct {
	svc Service
}

// NewHandler creates a new deployments HTTP handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterReadRoutes registers read-only deployment routes (no auth required).
func (h *Handler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{network}/{address}", h.handleGet)
}

// RegisterWriteRoutes registers write deployment routes (auth required).
func (h *Handler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.handleRecord)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	result, err := h.svc.List(r.Context(), domain.ListFilter{
		Network:  r.URL.Query().Get("network"),
		Deployer: r.URL.Query().Get("deployer"),
	}, domain.PaginationParams{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list deployments")
		return
	}

	data := make([]DeploymentItem, len(result.Deployments))
	for i, d := range result.Deployments {
		data[i] = DeploymentItem{
			Network:     d.Network,
			Address:     d.Address,
			TokenName:   d.TokenName,
			TokenSymbol: d.TokenSymbol,
			TxHash:      d.TxHash,
			CreatedAt:   formatTime(d.CreatedAt),
		}
	}

	writeJSON(w, http.StatusOK, DeploymentListResponse{
		Data: data,
		Pagination: Pagination{
			Limit:      limit,
			HasMore:    result.HasMore,
			NextCursor: result.NextCursor,
		},
	})
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	var req domain.RecordRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON")
		return
	}

	deployment, err := h.svc.Record(r.Context(), req)
	if err != nil {
		metrics.DeploymentRecord(req.Network, "error")
		switch {
		case errors.Is(err, domain.ErrAlreadyRecorded):
			writeError(w, http.StatusConflict, "CONFLICT", "Deployment already recorded")
		case errors.Is(err, domain.ErrUnknownNetwork),
			errors.Is(err, domain.ErrInvalidAddress),
			errors.Is(err, domain.ErrInvalidTxHash),
			errors.Is(err, domain.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record deployment")
		}
		return
	}

	metrics.DeploymentRecord(req.Network, "success")
	writeJSON(w, http.StatusCreated, RecordResponse{
		ID:      deployment.ID,
		Network: deployment.Network,
		Address: deployment.Address,
		Message: "Deployment recorded successfully",
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	network := chi.URLParam(r, "network")
	address := chi.URLParam(r, "address")

	deployment, err := h.svc.Get(r.Context(), network, address)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			metrics.DeploymentFetch("miss")
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Deployment not found")
		case errors.Is(err, domain.ErrUnknownNetwork):
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		default:
			metrics.DeploymentFetch("error")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get deployment")
		}
		return
	}

	metrics.DeploymentFetch("hit")
	writeJSON(w, http.StatusOK, toDeploymentResponse(deployment))
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
