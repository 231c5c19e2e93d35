package domain

import (
	"context"
	"log/slog"
	"time"
)

// loggingService is the interface required for logging middleware.
type loggingService interface {
	Record(ctx context.Context, req RecordRequest) (*Deployment, error)
	Get(ctx context.Context, network, address string) (*Deployment, error)
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

func (m *loggingMiddleware) Record(ctx context.Context, req RecordRequest) (*Deployment, error) {
	start := time.Now()
	deployment, err := m.next.Record(ctx, req)
	m.logger.Info("Record",
		"network", req.Network,
		"address", req.Address,
		"tokenSymbol", req.TokenSymbol,
		"duration", time.Since(start),
		"error", err,
	)
	return deployment, err
}

func (m *loggingMiddleware) Get(ctx context.Context, network, address string) (*Deployment, error) {
	start := time.Now()
	deployment, err := m.next.Get(ctx, network, address)
	m.logger.Debug("Get",
		"network", network,
		"address", address,
		"duration", time.Since(start),
		"error", err,
	)
	return deployment, err
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
