// Package domain contains the business logic for token metadata management.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mintdesk/mintdesk/internal/networks"
	"github.com/mintdesk/mintdesk/internal/storage"
	"github.com/mintdesk/mintdesk/internal/validation"
)

// maxDescriptionLength bounds the free-form description field.
const maxDescriptionLength = 1024

// Common errors returned by the metadata service.
var (
	ErrNotFound        = errors.New("metadata not found")
	ErrUnknownNetwork  = errors.New("unknown network")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidMetadata = errors.New("invalid metadata")
)

// Service defines the metadata service interface.
type Service interface {
	// Get retrieves the metadata record for a token. Returns ErrNotFound
	// when no record exists; absence is not an error condition for callers
	// that render an empty panel.
	Get(ctx context.Context, network, address string) (*TokenMetadata, error)

	// Upsert creates or fully replaces the metadata record for a token.
	Upsert(ctx context.Context, network, address string, req UpsertRequest) (*TokenMetadata, error)

	// Delete removes the metadata record for a token.
	Delete(ctx context.Context, network, address string) error

	// List lists metadata records with filtering and pagination.
	List(ctx context.Context, filter ListFilter, pagination PaginationParams) (*ListResult, error)
}

// service implements the Service interface.
type service struct {
	store    storage.MetadataStore
	registry *networks.Registry
}

// NewService creates a new metadata service.
func NewService(store storage.MetadataStore, registry *networks.Registry) Service {
	return &service{store: store, registry: registry}
}

// Get retrieves the metadata record for a token.
func (s *service) Get(ctx context.Context, network, address string) (*TokenMetadata, error) {
	if _, ok := s.registry.Get(network); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}

	record, err := s.store.GetMetadata(ctx, network, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting metadata: %w", err)
	}

	return toMetadata(record), nil
}

// Upsert creates or fully replaces the metadata record for a token.
func (s *service) Upsert(ctx context.Context, network, address string, req UpsertRequest) (*TokenMetadata, error) {
	net, ok := s.registry.Get(network)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}

	if err := validation.ValidateAddress(net.Kind, address); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if err := validation.ValidateTokenName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	if err := validation.ValidateSymbol(req.Symbol); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	if req.LogoURL != "" {
		if err := validation.ValidateLogoURL(req.LogoURL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
		}
	}
	if len(req.Description) > maxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalidMetadata, maxDescriptionLength)
	}
	if err := validation.ValidateTags(req.Tags); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	if err := validation.ValidateLinks(req.Links); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	record := &storage.TokenMetadata{
		Network:     network,
		Address:     address,
		Name:        req.Name,
		Symbol:      req.Symbol,
		LogoURL:     req.LogoURL,
		Description: req.Description,
		Tags:        req.Tags,
		Links:       req.Links,
	}

	if err := s.store.UpsertMetadata(ctx, record); err != nil {
		return nil, fmt.Errorf("upserting metadata: %w", err)
	}

	stored, err := s.store.GetMetadata(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("reading back metadata: %w", err)
	}

	return toMetadata(stored), nil
}

// Delete removes the metadata record for a token.
func (s *service) Delete(ctx context.Context, network, address string) error {
	if _, ok := s.registry.Get(network); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}

	if err := s.store.DeleteMetadata(ctx, network, address); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting metadata: %w", err)
	}

	return nil
}

// List lists metadata records with filtering and pagination.
func (s *service) List(ctx context.Context, filter ListFilter, pagination PaginationParams) (*ListResult, error) {
	result, err := s.store.ListMetadata(ctx, storage.MetadataFilter{
		Network: filter.Network,
		Tag:     filter.Tag,
	}, storage.PaginationParams{
		Limit:  pagination.Limit,
		Cursor: pagination.Cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("listing metadata: %w", err)
	}

	records := make([]TokenMetadata, len(result.Data))
	for i, m := range result.Data {
		records[i] = *toMetadata(&m)
	}

	return &ListResult{
		Records:    records,
		HasMore:    result.HasMore,
		NextCursor: result.NextCursor,
	}, nil
}

func toMetadata(m *storage.TokenMetadata) *TokenMetadata {
	return &TokenMetadata{
		Network:     m.Network,
		Address:     m.Address,
		Name:        m.Name,
		Symbol:      m.Symbol,
		LogoURL:     m.LogoURL,
		Description: m.Description,
		Tags:        m.Tags,
		Links:       m.Links,
		CreatedAt:   parseTime(m.CreatedAt),
		UpdatedAt:   parseTime(m.UpdatedAt),
	}
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	// SQLite datetime format; Postgres rows come back in RFC 3339-ish form
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, value)
	}
	return t
}
