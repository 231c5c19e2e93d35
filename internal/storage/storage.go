package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mintdesk/mintdesk/internal/config"
)

// DeploymentStore handles deployment result records
type DeploymentStore interface {
	RecordDeployment(ctx context.Context, d *Deployment) error
	GetDeployment(ctx context.Context, network, address string) (*Deployment, error)
	ListDeployments(ctx context.Context, filter DeploymentFilter, pagination PaginationParams) (*PaginatedResult[Deployment], error)
}

// MetadataStore handles token metadata records
type MetadataStore interface {
	UpsertMetadata(ctx context.Context, m *TokenMetadata) error
	GetMetadata(ctx context.Context, network, address string) (*TokenMetadata, error)
	DeleteMetadata(ctx context.Context, network, address string) error
	ListMetadata(ctx context.Context, filter MetadataFilter, pagination PaginationParams) (*PaginatedResult[TokenMetadata], error)
}

// APIKeyStore handles API key operations
type APIKeyStore interface {
	CreateAPIKey(ctx context.Context, name string) (key string, err error)
	ValidateAPIKey(ctx context.Context, key string) (*APIKey, error)
	ListAPIKeys(ctx context.Context) ([]APIKey, error)
	RevokeAPIKey(ctx context.Context, id string) error
}

// Store combines all storage interfaces with lifecycle methods.
// Domain services define their own minimal interfaces based on their actual usage.
type Store interface {
	DeploymentStore
	MetadataStore
	APIKeyStore

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// Deployment is a recorded token deployment result. Records are immutable
// once written.
type Deployment struct {
	ID            string
	Network       string
	Address       string
	TxHash        string
	Deployer      string
	TokenName     string
	TokenSymbol   string
	TokenDecimals uint8
	GasUsed       uint64
	Cost          string // native units, canonical decimal string
	BlockNumber   int64
	CreatedAt     string
}

// TokenMetadata is an editable metadata record keyed by (network, address).
type TokenMetadata struct {
	Network     string
	Address     string
	Name        string
	Symbol      string
	LogoURL     string
	Description string
	Tags        []string
	Links       map[string]string
	CreatedAt   string
	UpdatedAt   string
}

// APIKey represents an API key
type APIKey struct {
	ID         string
	Name       string
	KeyHash    string
	CreatedAt  string
	LastUsedAt string
	RevokedAt  string
}

// DeploymentFilter contains filter options for listing deployments
type DeploymentFilter struct {
	Network  string
	Deployer string
}

// MetadataFilter contains filter options for listing metadata records
type MetadataFilter struct {
	Network string
	Tag     string
}

// PaginationParams contains pagination options
type PaginationParams struct {
	Limit  int
	Cursor string
}

// PaginatedResult contains paginated results
type PaginatedResult[T any] struct {
	Data       []T
	HasMore    bool
	NextCursor string
}

// New creates a new store based on configuration
func New(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLiteStore(cfg.SQLite.Path, logger)
	case "postgres":
		return NewPostgresStore(cfg.Postgres.URL, logger)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
