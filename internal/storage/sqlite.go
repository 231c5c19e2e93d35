package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	schema := `
	-- Deployment results (immutable once recorded)
	CREATE TABLE IF NOT EXISTS deployments (
		id TEXT PRIMARY KEY,
		network TEXT NOT NULL,
		address TEXT NOT NULL,
		tx_hash TEXT,
		deployer TEXT,
		token_name TEXT NOT NULL,
		token_symbol TEXT NOT NULL,
		token_decimals INTEGER NOT NULL,
		gas_used INTEGER DEFAULT 0,
		cost TEXT,
		block_number INTEGER,
		created_at TEXT DEFAULT (datetime('now')),
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
		tags TEXT,
		links TEXT,
		created_at TEXT DEFAULT (datetime('now')),
		updated_at TEXT DEFAULT (datetime('now')),
		PRIMARY KEY(network, address)
	);

	-- API keys
	CREATE TABLE IF NOT EXISTS api_keys (
		id TEXT PRIMARY KEY,
		key_hash TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now')),
		last_used_at TEXT,
		revoked_at TEXT
	);

	-- Indexes
	CREATE INDEX IF NOT EXISTS idx_deployments_lookup ON deployments(network, address);
	CREATE INDEX IF NOT EXISTS idx_deployments_deployer ON deployments(deployer);
	CREATE INDEX IF NOT EXISTS idx_token_metadata_network ON token_metadata(network);
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
func (s *SQLiteStore) RecordDeployment(ctx context.Context, d *Deployment) error {
	query := `
		INSERT INTO deployments (id, network, address, tx_hash, deployer, token_name, token_symbol, token_decimals, gas_used, cost, block_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	`
	_, err := s.db.ExecContext(ctx, query, d.ID, d.Network, d.Address, d.TxHash, d.Deployer, d.TokenName, d.TokenSymbol, d.TokenDecimals, d.GasUsed, d.Cost, d.BlockNumber)
	if isSQLiteUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// GetDeployment retrieves a deployment by network and address
func (s *SQLiteStore) GetDeployment(ctx context.Context, network, address string) (*Deployment, error) {
	query := `
		SELECT id, network, address, tx_hash, deployer, token_name, token_symbol, token_decimals, gas_used, cost, block_number, created_at
		FROM deployments
		WHERE network = ? AND address = ?
	`
	var d Deployment
	var txHash, deployer, cost sql.NullString
	var blockNumber sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, network, address).Scan(
		&d.ID, &d.Network, &d.Address, &txHash, &deployer, &d.TokenName, &d.TokenSymbol, &d.TokenDecimals, &d.GasUsed, &cost, &blockNumber, &d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	d.TxHash = txHash.String
	d.Deployer = deployer.String
	d.Cost = cost.String
	d.BlockNumber = blockNumber.Int64
	return &d, err
}

// ListDeployments lists deployments with filtering and cursor pagination.
// Results are ordered newest first; the cursor is the last row's ID.
func (s *SQLiteStore) ListDeployments(ctx context.Context, filter DeploymentFilter, pagination PaginationParams) (*PaginatedResult[Deployment], error) {
	var conds []string
	var args []any

	if filter.Network != "" {
		conds = append(conds, "network = ?")
		args = append(args, filter.Network)
	}
	if filter.Deployer != "" {
		conds = append(conds, "deployer = ?")
		args = append(args, filter.Deployer)
	}
	if pagination.Cursor != "" {
		conds = append(conds, "(created_at, id) < (SELECT created_at, id FROM deployments WHERE id = ?)")
		args = append(args, pagination.Cursor)
	}

	query := `SELECT id, network, address, tx_hash, deployer, token_name, token_symbol, token_decimals, gas_used, cost, block_number, created_at FROM deployments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, pagination.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deployments []Deployment
	for rows.Next() {
		var d Deployment
		var txHash, deployer, cost sql.NullString
		var blockNumber sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Network, &d.Address, &txHash, &deployer, &d.TokenName, &d.TokenSymbol, &d.TokenDecimals, &d.GasUsed, &cost, &blockNumber, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.TxHash = txHash.String
		d.Deployer = deployer.String
		d.Cost = cost.String
		d.BlockNumber = blockNumber.Int64
		deployments = append(deployments, d)
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
func (s *SQLiteStore) UpsertMetadata(ctx context.Context, m *TokenMetadata) error {
	query := `
		INSERT INTO token_metadata (network, address, name, symbol, logo_url, description, tags, links, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))
		ON CONFLICT(network, address) DO UPDATE SET
			name = excluded.name,
			symbol = excluded.symbol,
			logo_url = excluded.logo_url,
			description = excluded.description,
			tags = excluded.tags,
			links = excluded.links,
			updated_at = datetime('now')
	`
	_, err := s.db.ExecContext(ctx, query, m.Network, m.Address, m.Name, m.Symbol, m.LogoURL, m.Description, marshalJSON(m.Tags), marshalJSON(m.Links))
	return err
}

// GetMetadata retrieves a token metadata record
func (s *SQLiteStore) GetMetadata(ctx context.Context, network, address string) (*TokenMetadata, error) {
	query := `
		SELECT network, address, name, symbol, logo_url, description, tags, links, created_at, updated_at
		FROM token_metadata
		WHERE network = ? AND address = ?
	`
	var m TokenMetadata
	var logoURL, description, tags, links sql.NullString
	err := s.db.QueryRowContext(ctx, query, network, address).Scan(
		&m.Network, &m.Address, &m.Name, &m.Symbol, &logoURL, &description, &tags, &links, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	m.LogoURL = logoURL.String
	m.Description = description.String
	m.Tags = unmarshalTags(tags.String)
	m.Links = unmarshalLinks(links.String)
	return &m, err
}

// DeleteMetadata removes a token metadata record
func (s *SQLiteStore) DeleteMetadata(ctx context.Context, network, address string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM token_metadata WHERE network = ? AND address = ?", network, address)
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
func (s *SQLiteStore) ListMetadata(ctx context.Context, filter MetadataFilter, pagination PaginationParams) (*PaginatedResult[TokenMetadata], error) {
	var conds []string
	var args []any

	if filter.Network != "" {
		conds = append(conds, "network = ?")
		args = append(args, filter.Network)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array; match the quoted element.
		conds = append(conds, "tags LIKE ?")
		args = append(args, `%"`+filter.Tag+`"%`)
	}
	if pagination.Cursor != "" {
		network, address, ok := strings.Cut(pagination.Cursor, "/")
		if ok {
			conds = append(conds, "(network, address) > (?, ?)")
			args = append(args, network, address)
		}
	}

	query := `SELECT network, address, name, symbol, logo_url, description, tags, links, created_at, updated_at FROM token_metadata`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY network, address LIMIT ?"
	args = append(args, pagination.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TokenMetadata
	for rows.Next() {
		var m TokenMetadata
		var logoURL, description, tags, links sql.NullString
		if err := rows.Scan(&m.Network, &m.Address, &m.Name, &m.Symbol, &logoURL, &description, &tags, &links, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.LogoURL = logoURL.String
		m.Description = description.String
		m.Tags = unmarshalTags(tags.String)
		m.Links = unmarshalLinks(links.String)
		records = append(records, m)
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
func (s *SQLiteStore) CreateAPIKey(ctx context.Context, name string) (string, error) {
	key := generateAPIKey()
	hash := hashAPIKey(key)
	id := generateID()
	_, err := s.db.ExecContext(ctx, "INSERT INTO api_keys (id, key_hash, name, created_at) VALUES (?, ?, ?, datetime('now'))", id, hash, name)
	if err != nil {
		return "", err
	}
	return key, nil
}

// ValidateAPIKey validates an API key
func (s *SQLiteStore) ValidateAPIKey(ctx context.Context, key string) (*APIKey, error) {
	hash := hashAPIKey(key)
	var ak APIKey
	err := s.db.QueryRowContext(ctx, "SELECT id, key_hash, name, created_at FROM api_keys WHERE key_hash = ? AND revoked_at IS NULL", hash).Scan(
		&ak.ID, &ak.KeyHash, &ak.Name, &ak.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	// Update last used
	_, _ = s.db.ExecContext(ctx, "UPDATE api_keys SET last_used_at = datetime('now') WHERE id = ?", ak.ID)
	return &ak, err
}

// ListAPIKeys lists all API keys
func (s *SQLiteStore) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at, last_used_at FROM api_keys WHERE revoked_at IS NULL")
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
func (s *SQLiteStore) RevokeAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE api_keys SET revoked_at = datetime('now') WHERE id = ?", id)
	return err
}
