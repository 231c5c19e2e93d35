package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mintdesk/mintdesk/internal/metadata/domain"
)

type mockService struct {
	getFunc    func(ctx context.Context, network, address string) (*domain.TokenMetadata, error)
	upsertFunc func(ctx context.Context, network, address string, req domain.UpsertRequest) (*domain.TokenMetadata, error)
	deleteFunc func(ctx context.Context, network, address string) error
	listFunc   func(ctx context.Context, filter domain.ListFilter, pagination domain.PaginationParams) (*domain.ListResult, error)
}

func (m *mockService) Get(ctx context.Context, network, address string) (*domain.TokenMetadata, error) {
	return m.getFunc(ctx, network, address)
}

func (m *mockService) Upsert(ctx context.Context, network, address string, req domain.UpsertRequest) (*domain.TokenMetadata, error) {
	return m.upsertFunc(ctx, network, address, req)
}

func (m *mockService) Delete(ctx context.Context, network, address string) error {
	return m.deleteFunc(ctx, network, address)
}

func (m *mockService) List(ctx context.Context, filter domain.ListFilter, pagination domain.PaginationParams) (*domain.ListResult, error) {
	return m.listFunc(ctx, filter, pagination)
}

func newTestRouter(svc Service) *chi.Mux {
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Route("/metadata", func(r chi.Router) {
		h.RegisterReadRoutes(r)
		h.RegisterWriteRoutes(r)
	})
	return r
}

func sampleMetadata() *domain.TokenMetadata {
	return &domain.TokenMetadata{
		Network:     "ethereum",
		Address:     "0x1111111111111111111111111111111111111111",
		Name:        "Test Token",
		Symbol:      "TEST",
		LogoURL:     "https://cdn.example.com/test.png",
		Description: "A test token.",
		Tags:        []string{"defi"},
		Links:       map[string]string{"website": "https://test.example.com"},
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandleGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockService{
			getFunc: func(ctx context.Context, network, address string) (*domain.TokenMetadata, error) {
				return sampleMetadata(), nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/metadata/ethereum/0x1111111111111111111111111111111111111111", nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var resp MetadataResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if resp.Symbol != "TEST" {
			t.Errorf("symbol = %q, want TEST", resp.Symbol)
		}
		if resp.UpdatedAt != "2026-03-02T12:00:00Z" {
			t.Errorf("updatedAt = %q", resp.UpdatedAt)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockService{
			getFunc: func(ctx context.Context, network, address string) (*domain.TokenMetadata, error) {
				return nil, domain.ErrNotFound
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/metadata/ethereum/0x9999999999999999999999999999999999999999", nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if resp.Error.Code != "NOT_FOUND" {
			t.Errorf("error code = %q, want NOT_FOUND", resp.Error.Code)
		}
	})
}

func TestHandleUpsert(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &mockService{
			upsertFunc: func(ctx context.Context, network, address string, req domain.UpsertRequest) (*domain.TokenMetadata, error) {
				if req.Name != "Test Token" {
					t.Errorf("name = %q, want Test Token", req.Name)
				}
				return sampleMetadata(), nil
			},
		}

		body, _ := json.Marshal(map[string]any{
			"name":   "Test Token",
			"symbol": "TEST",
			"tags":   []string{"defi"},
		})

		req := httptest.NewRequest(http.MethodPut, "/metadata/ethereum/0x1111111111111111111111111111111111111111", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &mockService{
			upsertFunc: func(ctx context.Context, network, address string, req domain.UpsertRequest) (*domain.TokenMetadata, error) {
				return nil, domain.ErrInvalidMetadata
			},
		}

		body, _ := json.Marshal(map[string]any{"name": ""})

		req := httptest.NewRequest(http.MethodPut, "/metadata/ethereum/0x1111111111111111111111111111111111111111", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		svc := &mockService{}

		req := httptest.NewRequest(http.MethodPut, "/metadata/ethereum/0x1111111111111111111111111111111111111111", bytes.NewReader([]byte("nope")))
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestHandleDelete(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &mockService{
			deleteFunc: func(ctx context.Context, network, address string) error {
				return nil
			},
		}

		req := httptest.NewRequest(http.MethodDelete, "/metadata/ethereum/0x1111111111111111111111111111111111111111", nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockService{
			deleteFunc: func(ctx context.Context, network, address string) error {
				return domain.ErrNotFound
			},
		}

		req := httptest.NewRequest(http.MethodDelete, "/metadata/ethereum/0x1111111111111111111111111111111111111111", nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestHandleList(t *testing.T) {
	svc := &mockService{
		listFunc: func(ctx context.Context, filter domain.ListFilter, pagination domain.PaginationParams) (*domain.ListResult, error) {
			if filter.Tag != "defi" {
				t.Errorf("filter.Tag = %q, want defi", filter.Tag)
			}
			return &domain.ListResult{
				Records: []domain.TokenMetadata{*sampleMetadata()},
				HasMore: false,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/metadata/?tag=defi", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp MetadataListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(resp.Data))
	}
	if resp.Data[0].Name != "Test Token" {
		t.Errorf("name = %q, want Test Token", resp.Data[0].Name)
	}
}
