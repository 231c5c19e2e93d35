package transport

import (
	"time"

	"github.com/mintdesk/mintdesk/internal/metadata/domain"
)

// MetadataResponse is the metadata representation returned over HTTP.
type MetadataResponse struct {
	Network     string            `json:"network"`
	Address     string            `json:"address"`
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	LogoURL     string            `json:"logoUrl,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// MetadataListResponse is the paginated list response.
type MetadataListResponse struct {
	Data       []MetadataResponse `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

// Pagination contains pagination metadata.
type Pagination struct {
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toMetadataResponse(m *domain.TokenMetadata) MetadataResponse {
	return MetadataResponse{
		Network:     m.Network,
		Address:     m.Address,
		Name:        m.Name,
		Symbol:      m.Symbol,
		LogoURL:     m.LogoURL,
		Description: m.Description,
		Tags:        m.Tags,
		Links:       m.Links,
		CreatedAt:   formatTime(m.CreatedAt),
		UpdatedAt:   formatTime(m.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
