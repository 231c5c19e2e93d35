package domain

import (
	"context"
	"log/slog"
	"time"
)

// loggingService is the interface required for logging middleware.
type loggingService interface {
	Get(ctx context.Context, network, address string) (*TokenMetadata, error)
	Upsert(ctx context.Context, network, address string, req UpsertRequest) (*TokenMetadata, error)
	Delete(ctx context.Context, network, address string) error
	List(ctx context.Context, filter ListFilter, pagination PaginationParams) (*ListResult, error)
}

// LoggingMiddleware returns a service middleware that logs all operations.
func LoggingMiddleware(logger *slog.Logger) func(loggingService) *loggingMiddleware {
	return func(next loggingService) *loggingMiddleware {
		return &loggingMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

type loggingMiddleware struct {
	next   loggingService
	logger *slog.Logger
}

func (m *loggingMiddleware) Get(ctx context.Context, network, address string) (*TokenMetadata, error) {
	start := time.Now()
	record, err := m.next.Get(ctx, network, address)
	m.logger.Debug("Get",
		"network", network,
		"address", address,
		"duration", time.Since(start),
		"error", err,
	)
	return record, err
}

func (m *loggingMiddleware) Upsert(ctx context.Context, network, address string, req UpsertRequest) (*TokenMetadata, error) {
	start := time.Now()
	record, err := m.next.Upsert(ctx, network, address, req)
	m.logger.Info("Upsert",
		"network", network,
		"address", address,
		"symbol", req.Symbol,
		"tags", len(req.Tags),
		"duration", time.Since(start),
		"error", err,
	)
	return record, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, network, address string) error {
	start := time.Now()
	err := m.next.Delete(ctx, network, address)
	m.logger.Info("Delete",
		"network", network,
		"address", address,
		"duration", time.Since(start),
		"error", err,
	)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context, filter ListFilter, pagination PaginationParams) (*ListResult, error) {
	start := time.Now()
	result, err := m.next.List(ctx, filter, pagination)
	m.logger.Debug("List",
		"filter", filter,
		"limit", pagination.Limit,
		"duration", time.Since(start),
		"error", err,
	)
	return result, err
}
