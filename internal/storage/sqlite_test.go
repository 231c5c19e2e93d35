package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"log/slog"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mintdesk-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	store, err := NewSQLiteStore(dbPath, logger)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

func TestSQLiteDeployments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d := &Deployment{
		ID:            "11111111-1111-1111-1111-111111111111",
		Network:       "ethereum",
		Address:       "0xdac17f958d2ee523a2206206994597c13d831ec7",
		TxHash:        "0xab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12",
		Deployer:      "0x1111111111111111111111111111111111111111",
		TokenName:     "Demo Token",
		TokenSymbol:   "DEMO",
		TokenDecimals: 18,
		GasUsed:       1234567,
		Cost:          "0.0042",
		BlockNumber:   19000000,
	}

	t.Run("RecordAndGet", func(t *testing.T) {
		if err := store.RecordDeployment(ctx, d); err != nil {
			t.Fatalf("RecordDeployment() error = %v", err)
		}

		got, err := store.GetDeployment(ctx, d.Network, d.Address)
		if err != nil {
			t.Fatalf("GetDeployment() error = %v", err)
		}
		if got.TokenSymbol != "DEMO" {
			t.Errorf("TokenSymbol = %v, want DEMO", got.TokenSymbol)
		}
		if got.GasUsed != 1234567 {
			t.Errorf("GasUsed = %v, want 1234567", got.GasUsed)
		}
		if got.Cost != "0.0042" {
			t.Errorf("Cost = %v, want 0.0042", got.Cost)
		}
		if got.CreatedAt == "" {
			t.Error("CreatedAt not set")
		}
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		dup := *d
		dup.ID = "22222222-2222-2222-2222-222222222222"
		if err := store.RecordDeployment(ctx, &dup); !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("RecordDeployment() error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := store.GetDeployment(ctx, "ethereum", "0x0000000000000000000000000000000000000000")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetDeployment() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListWithFilter", func(t *testing.T) {
		other := &Deployment{
			ID:            "33333333-3333-3333-3333-333333333333",
			Network:       "solana",
			Address:       "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			TokenName:     "Sol Token",
			TokenSymbol:   "SOLT",
			TokenDecimals: 9,
		}
		if err := store.RecordDeployment(ctx, other); err != nil {
			t.Fatalf("RecordDeployment() error = %v", err)
		}

		result, err := store.ListDeployments(ctx, DeploymentFilter{Network: "solana"}, PaginationParams{Limit: 10})
		if err != nil {
			t.Fatalf("ListDeployments() error = %v", err)
		}
		if len(result.Data) != 1 {
			t.Fatalf("ListDeployments() returned %d rows, want 1", len(result.Data))
		}
		if result.Data[0].Network != "solana" {
			t.Errorf("Network = %v, want solana", result.Data[0].Network)
		}
		if result.HasMore {
			t.Error("HasMore = true, want false")
		}
	})

	t.Run("ListPagination", func(t *testing.T) {
		result, err := store.ListDeployments(ctx, DeploymentFilter{}, PaginationParams{Limit: 1})
		if err != nil {
			t.Fatalf("ListDeployments() error = %v", err)
		}
		if len(result.Data) != 1 {
			t.Fatalf("ListDeployments() returned %d rows, want 1", len(result.Data))
		}
		if !result.HasMore {
			t.Fatal("HasMore = false, want true")
		}
		if result.NextCursor == "" {
			t.Fatal("NextCursor empty")
		}

		next, err := store.ListDeployments(ctx, DeploymentFilter{}, PaginationParams{Limit: 1, Cursor: result.NextCursor})
		if err != nil {
			t.Fatalf("ListDeployments(cursor) error = %v", err)
		}
		if len(next.Data) != 1 {
			t.Fatalf("second page returned %d rows, want 1", len(next.Data))
		}
		if next.Data[0].ID == result.Data[0].ID {
			t.Error("second page repeated the first page's row")
		}
	})
}

func TestSQLiteMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := &TokenMetadata{
		Network:     "ethereum",
		Address:     "0xdac17f958d2ee523a2206206994597c13d831ec7",
		Name:        "Demo Token",
		Symbol:      "DEMO",
		LogoURL:     "https://cdn.example.com/demo.png",
		Description: "A demonstration token",
		Tags:        []string{"defi", "demo"},
		Links:       map[string]string{"website": "https://demo.example.com"},
	}

	t.Run("UpsertAndGet", func(t *testing.T) {
		if err := store.UpsertMetadata(ctx, m); err != nil {
			t.Fatalf("UpsertMetadata() error = %v", err)
		}

		got, err := store.GetMetadata(ctx, m.Network, m.Address)
		if err != nil {
			t.Fatalf("GetMetadata() error = %v", err)
		}
		if got.Name != "Demo Token" {
			t.Errorf("Name = %v, want Demo Token", got.Name)
		}
		if len(got.Tags) != 2 || got.Tags[0] != "defi" {
			t.Errorf("Tags = %v, want [defi demo]", got.Tags)
		}
		if got.Links["website"] != "https://demo.example.com" {
			t.Errorf("Links = %v", got.Links)
		}
	})

	t.Run("UpsertUpdates", func(t *testing.T) {
		updated := *m
		updated.Description = "Updated description"
		updated.Tags = []string{"meme"}
		if err := store.UpsertMetadata(ctx, &updated); err != nil {
			t.Fatalf("UpsertMetadata() error = %v", err)
		}

		got, err := store.GetMetadata(ctx, m.Network, m.Address)
		if err != nil {
			t.Fatalf("GetMetadata() error = %v", err)
		}
		if got.Description != "Updated description" {
			t.Errorf("Description = %v", got.Description)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "meme" {
			t.Errorf("Tags = %v, want [meme]", got.Tags)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := store.GetMetadata(ctx, "ethereum", "0x0000000000000000000000000000000000000000")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetMetadata() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListByTag", func(t *testing.T) {
		second := &TokenMetadata{
			Network: "solana",
			Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			Name:    "Sol Token",
			Symbol:  "SOLT",
			Tags:    []string{"gaming"},
		}
		if err := store.UpsertMetadata(ctx, second); err != nil {
			t.Fatalf("UpsertMetadata() error = %v", err)
		}

		result, err := store.ListMetadata(ctx, MetadataFilter{Tag: "gaming"}, PaginationParams{Limit: 10})
		if err != nil {
			t.Fatalf("ListMetadata() error = %v", err)
		}
		if len(result.Data) != 1 {
			t.Fatalf("ListMetadata(tag=gaming) returned %d rows, want 1", len(result.Data))
		}
		if result.Data[0].Symbol != "SOLT" {
			t.Errorf("Symbol = %v, want SOLT", result.Data[0].Symbol)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.DeleteMetadata(ctx, m.Network, m.Address); err != nil {
			t.Fatalf("DeleteMetadata() error = %v", err)
		}
		if _, err := store.GetMetadata(ctx, m.Network, m.Address); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetMetadata() after delete error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteMetadata(ctx, m.Network, m.Address); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteMetadata() twice error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteAPIKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.CreateAPIKey(ctx, "ci")
	if err != nil {
		t.Fatalf("CreateAPIKey() error = %v", err)
	}
	if key == "" {
		t.Fatal("CreateAPIKey() returned empty key")
	}

	ak, err := store.ValidateAPIKey(ctx, key)
	if err != nil {
		t.Fatalf("ValidateAPIKey() error = %v", err)
	}
	if ak.Name != "ci" {
		t.Errorf("Name = %v, want ci", ak.Name)
	}

	if _, err := store.ValidateAPIKey(ctx, "md_key_bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ValidateAPIKey(bogus) error = %v, want ErrNotFound", err)
	}

	keys, err := store.ListAPIKeys(ctx)
	if err != nil {
		t.Fatalf("ListAPIKeys() error = %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("ListAPIKeys() returned %d keys, want 1", len(keys))
	}

	if err := store.RevokeAPIKey(ctx, ak.ID); err != nil {
		t.Fatalf("RevokeAPIKey() error = %v", err)
	}
	if _, err := store.ValidateAPIKey(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("ValidateAPIKey() after revoke error = %v, want ErrNotFound", err)
	}
}
