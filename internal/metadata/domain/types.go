package domain

import (
	"time"
)

// TokenMetadata is an editable metadata record for a deployed token, keyed
// by (network, address).
type TokenMetadata struct {
	Network     string
	Address     string
	Name        string
	Symbol      string
	LogoURL     string
	Description string
	Tags        []string
	Links       map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpsertRequest is the request to create or replace a metadata record.
type UpsertRequest struct {
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	LogoURL     string            `json:"logoUrl,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
}

// ListFilter contains filter options for listing metadata records.
type ListFilter struct {
	Network string
	Tag     string
}

// PaginationParams contains pagination options.
type PaginationParams struct {
	Limit  int
	Cursor string
}

// ListResult contains paginated list results.
type ListResult struct {
	Records    []TokenMetadata
	HasMore    bool
	NextCursor string
}
