// Package domain contains the business logic for deployment result management.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mintdesk/mintdesk/internal/networks"
	"github.com/mintdesk/mintdesk/internal/storage"
	"github.com/mintdesk/mintdesk/internal/validation"
)

// Common errors returned by the deployments service.
var (
	ErrNotFound        = errors.New("deployment not found")
	ErrAlreadyRecorded = errors.New("deployment already recorded")
	ErrUnknownNetwork  = errors.New("unknown network")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidTxHash   = errors.New("invalid transaction hash")
	ErrInvalidToken    = errors.New("invalid token parameters")
)

// Service defines the deployments service interface.
type Service interface {
	// Record records a new deployment result. Records are immutable.
	Record(ctx context.Context, req RecordRequest) (*Deployment, error)

	// Get retrieves a deployment by network and address.
	Get(ctx context.Context, network, address string) (*Deployment, error)

	// List lists deployments with filtering and pagination.
	List(ctx context.Context, filter ListFilter, pagination PaginationParams) (*ListResult, error)
}

// service implements the Service interface.
type service struct {
	store    storage.DeploymentStore
	registry *networks.Registry
}

// NewService creates a new deployments service.
func NewService(store storage.DeploymentStore, registry *networks.Registry) Service {
	return &service{store: store, registry: registry}
}

// Record records a new deployment result.
func (s *service) Record(ctx context.Context, req RecordRequest) (*Deployment, error) {
	network, ok := s.registry.Get(req.Network)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, req.Network)
	}

	if err := validation.ValidateAddress(network.Kind, req.Address); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if req.TxHash != "" {
		if err := validation.ValidateTxHash(network.Kind, req.TxHash); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTxHash, err)
		}
	}
	if req.Deployer != "" {
		if err := validation.ValidateAddress(network.Kind, req.Deployer); err != nil {
			return nil, fmt.Errorf("%w: deployer: %v", ErrInvalidAddress, err)
		}
	}
	if err := validation.ValidateTokenName(req.TokenName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := validation.ValidateSymbol(req.TokenSymbol); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := validation.ValidateDecimals(network.Kind, req.TokenDecimals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := validation.ValidateCost(req.Cost); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	record := &storage.Deployment{
		ID:            uuid.New().String(),
		Network:       req.Network,
		Address:       req.Address,
		TxHash:        req.TxHash,
		Deployer:      req.Deployer,
		TokenName:     req.TokenName,
		TokenSymbol:   req.TokenSymbol,
		TokenDecimals: req.TokenDecimals,
		GasUsed:       req.GasUsed,
		Cost:          validation.NormalizeCost(req.Cost),
		BlockNumber:   req.BlockNumber,
	}

	if err := s.store.RecordDeployment(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrAlreadyRecorded
		}
		return nil, fmt.Errorf("recording deployment: %w", err)
	}

	return s.toDeployment(record), nil
}

// Get retrieves a deployment by network and address.
func (s *service) Get(ctx context.Context, network, address string) (*Deployment, error) {
	if _, ok := s.registry.Get(network); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}

	record, err := s.store.GetDeployment(ctx, network, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting deployment: %w", err)
	}

	return s.toDeployment(record), nil
}

// List lists deployments with filtering and pagination.
func (s *service) List(ctx context.Context, filter ListFilter, pagination PaginationParams) (*ListResult, error) {
	result, err := s.store.ListDeployments(ctx, storage.DeploymentFilter{
		Network:  filter.Network,
		Deployer: filter.Deployer,
	}, storage.PaginationParams{
		Limit:  pagination.Limit,
		Cursor: pagination.Cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("listing deployments: %w", err)
	}

	deployments := make([]Deployment, len(result.Data))
	for i, d := range result.Data {
		deployments[i] = *s.toDeployment(&d)
	}

	return &ListResult{
		Deployments: deployments,
		HasMore:     result.HasMore,
		NextCursor:  result.NextCursor,
	}, nil
}

func (s *service) toDeployment(d *storage.Deployment) *Deployment {
	var createdAt time.Time
	if d.CreatedAt != "" {
		// SQLite datetime format; Postgres rows come back in RFC 3339-ish form
		createdAt, _ = time.Parse("2006-01-02 15:04:05", d.CreatedAt)
		if createdAt.IsZero() {
			createdAt, _ = time.Parse(time.RFC3339, d.CreatedAt)
		}
	}

	out := &Deployment{
		ID:            d.ID,
		Network:       d.Network,
		Address:       d.Address,
		TxHash:        d.TxHash,
		Deployer:      d.Deployer,
		TokenName:     d.TokenName,
		TokenSymbol:   d.TokenSymbol,
		TokenDecimals: d.TokenDecimals,
		GasUsed:       d.GasUsed,
		Cost:          d.Cost,
		BlockNumber:   d.BlockNumber,
		CreatedAt:     createdAt,
	}

	if network, ok := s.registry.Get(d.Network); ok {
		out.NetworkName = network.DisplayName
		out.CostSymbol = network.Symbol
		out.ExplorerTxURL = network.TxURL(d.TxHash)
		out.ExplorerURL = network.TokenURL(d.Address)
	}

	return out
}
