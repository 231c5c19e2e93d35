package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a new Postgres store
func NewPostgresStore(url string, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *PostgresStore) Migrate(ctx context.Context) error {
	schema := `
	-- Deployment results (immutable once recorded)
	CREATE TABLE IF NOT EXISTS deployments (
		id UUID PRIMARY KEY,
		network TEXT NOT NULL,
		address TEXT NOT NULL,
		tx_hash TEXT,
		deployer TEXT,
		token_name TEXT NOT NULL,
		token_symbol TEXT NOT NULL,
		token_decimals SMALLINT NOT NULL,
		gas_used BIGINT DEFAULT 0,
		cost TEXT,
		block_number BIGINT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(network, address)
	);

	-- Token metadata (editable, keyed by network + address)
	CREATE TABLE IF NOT EXISTS token_metadata (
		network TEXT NOT NULL,
		address TEXT NOT NULL,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		logo_url TEXT,
		description TEXT,
		tags JSONB,
		links JSONB,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		PRIMARY KEY(network, address)
	);

	-- API keys
	CREATE TABLE IF NOT EXISTS api_keys (
		id UUID PRIMARY KEY,
		key_hash TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		last_used_at TIMESTAMPTZ,
		revoked_at TIMESTAMPTZ
	);

	-- Indexes
	CREATE INDEX IF NOT EXISTS idx_deployments_lookup ON deployments(network, address);
	CREATE INDEX IF NOT EXISTS idx_deployments_deployer ON deployments(deployer);
	CREATE INDEX IF NOT EXISTS idx_token_metadata_network ON token_metadata(network);
	CREATE INDEX IF NOT EXISTS idx_token_metadata_tags ON token_metadata USING GIN(tags);
	`

	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	s.logger.Info("database migrations complete")
	return nil
}

// RecordDeployment records a deployment result. Duplicate (network,
// address) pairs are rejected by the UNIQUE constraint, so concurrent
// writers cannot both succeed.
func (s *PostgresStore) RecordDeployment(ctx context.Context, d *Deployment) error {
	query := `
		INSERT INTO deployments (id, network, address, tx_hash, deployer, token_name, token_symbol, token_decimals, gas_used, cost, block_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`
	_, err := s.db.ExecContext(ctx, query, d.ID, d.Network, d.Address, d.TxHash, d.Deployer, d.TokenName, d.TokenSymbol, int16(d.TokenDecimals), int64(d.GasUsed), d.Cost, d.BlockNumber)
	if isPgUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

// 23505 is unique_violation.
func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GetDeployment retrieves a deployment by network and address
func (s *PostgresStore) GetDeployment(ctx context.Context, network, address string) (*Deployment, error) {
	query := `
		SELECT id, network, address, tx_hash, deployer, token_name, token_symbol, token_decimals, gas_used, cost, block_number, created_at::text
		FROM deployments
		WHERE network = $1 AND address = $2
	`
	d, err := scanDeployment(s.db.QueryRowContext(ctx, query, network, address))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return d, err
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDeployment(row scanner) (*Deployment, error) {
	var d Deployment
	var txHash, deployer, cost sql.NullString
	var blockNumber sql.NullInt64
	var decimals int16
	var gasUsed int64
	err := row.Scan(&d.ID, &d.Network, &d.Address, &txHash, &deployer, &d.TokenName, &d.TokenSymbol, &decimals, &gasUsed, &cost, &blockNumber, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.TxHash = txHash.String
	d.Deployer = deployer.String
	d.Cost = cost.String
	d.BlockNumber = blockNumber.Int64
	d.TokenDecimals = uint8(decimals)
	d.GasUsed = uint64(gasUsed)
	return &d, nil
}

// ListDeployments lists deployments with filtering and cursor pagination.
// Results are ordered newest first; the cursor is the last row's ID.
func (s *PostgresStore) ListDeployments(ctx context.Context, filter DeploymentFilter, pagination PaginationParams) (*PaginatedResult[Deployment], error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Network != "" {
		conds = append(conds, "network = "+arg(filter.Network))
	}
	if filter.Deployer != "" {
		conds = append(conds, "deployer = "+arg(filter.Deployer))
	}
	if pagination.Cursor != "" {
		conds = append(conds, "(created_at, id) < (SELECT created_at, id FROM deployments WHERE id = "+arg(pagination.Cursor)+"::uuid)")
	}

	query := `SELECT id, network, address, tx_hash, deployer, token_name, token_symbol, token_decimals, gas_used, cost, block_number, created_at::text FROM deployments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT " + arg(pagination.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deployments []Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, *d)
	}

	hasMore := len(deployments) > pagination.Limit
	if hasMore {
		deployments = deployments[:pagination.Limit]
	}
	var nextCursor string
	if hasMore && len(deployments) > 0 {
		nextCursor = deployments[len(deployments)-1].ID
	}

	return &PaginatedResult[Deployment]{Data: deployments, HasMore: hasMore, NextCursor: nextCursor}, rows.Err()
}

// UpsertMetadata creates or updates a token metadata record
func (s *PostgresStore) UpsertMetadata(ctx context.Context, m *TokenMetadata) error {
	query := `
		INSERT INTO token_metadata (network, address, name, symbol, logo_url, description, tags, links, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, NOW(), NOW())
		ON CONFLICT(network, address) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			logo_url = EXCLUDED.logo_url,
			description = EXCLUDED.description,
			tags = EXCLUDED.tags,
			links = EXCLUDED.links,
			updated_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query, m.Network, m.Address, m.Name, m.Symbol, m.LogoURL, m.Description, marshalJSON(m.Tags), marshalJSON(m.Links))
	return err
}

// GetMetadata retrieves a token metadata record
func (s *PostgresStore) GetMetadata(ctx context.Context, network, address string) (*TokenMetadata, error) {
	query := `
		SELECT network, address, name, symbol, logo_url, description, tags::text, links::text, created_at::text, updated_at::text
		FROM token_metadata
		WHERE network = $1 AND address = $2
	`
	m, err := scanMetadata(s.db.QueryRowContext(ctx, query, network, address))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return m, err
}

func scanMetadata(row scanner) (*TokenMetadata, error) {
	var m TokenMetadata
	var logoURL, description, tags, links sql.NullString
	err := row.Scan(&m.Network, &m.Address, &m.Name, &m.Symbol, &logoURL, &description, &tags, &links, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.LogoURL = logoURL.String
	m.Description = description.String
	m.Tags = unmarshalTags(tags.String)
	m.Links = unmarshalLinks(links.String)
	return &m, nil
}

// DeleteMetadata removes a token metadata record
func (s *PostgresStore) DeleteMetadata(ctx context.Context, network, address string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM token_metadata WHERE network = $1 AND address = $2", network, address)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMetadata lists metadata records ordered by network then address.
// The cursor is "network/address" of the last row.
func (s *PostgresStore) ListMetadata(ctx context.Context, filter MetadataFilter, pagination PaginationParams) (*PaginatedResult[TokenMetadata], error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Network != "" {
		conds = append(conds, "network = "+arg(filter.Network))
	}
	if filter.Tag != "" {
		conds = append(conds, "tags @> "+arg(marshalJSON([]string{filter.Tag}))+"::jsonb")
	}
	if pagination.Cursor != "" {
		if network, address, ok := strings.Cut(pagination.Cursor, "/"); ok {
			conds = append(conds, fmt.Sprintf("(network, address) > (%s, %s)", arg(network), arg(address)))
		}
	}

	query := `SELECT network, address, name, symbol, logo_url, description, tags::text, links::text, created_at::text, updated_at::text FROM token_metadata`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY network, address LIMIT " + arg(pagination.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TokenMetadata
	for rows.Next() {
		m, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *m)
	}

	hasMore := len(records) > pagination.Limit
	if hasMore {
		records = records[:pagination.Limit]
	}
	var nextCursor string
	if hasMore && len(records) > 0 {
		last := records[len(records)-1]
		nextCursor = last.Network + "/" + last.Address
	}

	return &PaginatedResult[TokenMetadata]{Data: records, HasMore: hasMore, NextCursor: nextCursor}, rows.Err()
}

// CreateAPIKey creates a new API key
func (s *PostgresStore) CreateAPIKey(ctx context.Context, name string) (string, error) {
	key := generateAPIKey()
	hash := hashAPIKey(key)
	id := generateID()
	_, err := s.db.ExecContext(ctx, "INSERT INTO api_keys (id, key_hash, name, created_at) VALUES ($1, $2, $3, NOW())", id, hash, name)
	if err != nil {
		return "", err
	}
	return key, nil
}

// ValidateAPIKey validates an API key
func (s *PostgresStore) ValidateAPIKey(ctx context.Context, key string) (*APIKey, error) {
	hash := hashAPIKey(key)
	var ak APIKey
	err := s.db.QueryRowContext(ctx, "SELECT id, key_hash, name, created_at::text FROM api_keys WHERE key_hash = $1 AND revoked_at IS NULL", hash).Scan(
		&ak.ID, &ak.KeyHash, &ak.Name, &ak.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// Update last used
	_, _ = s.db.ExecContext(ctx, "UPDATE api_keys SET last_used_at = NOW() WHERE id = $1", ak.ID)
	return &ak, nil
}

// ListAPIKeys lists all API keys
func (s *PostgresStore) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at::text, last_used_at::text FROM api_keys WHERE revoked_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		var k APIKey
		var lastUsed sql.NullString
		if err := rows.Scan(&k.ID, &k.Name, &k.CreatedAt, &lastUsed); err != nil {
			return nil, err
		}
		if lastUsed.Valid {
			k.LastUsedAt = lastUsed.String
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// RevokeAPIKey revokes an API key
func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE api_keys SET revoked_at = NOW() WHERE id = $1", id)
	return err
}
