package domain

import (
	"time"
)

// Deployment is a recorded token deployment result, enriched with the
// explorer URLs for its network.
type Deployment struct {
	ID            string
	Network       string
	NetworkName   string
	Address       string
	TxHash        string
	Deployer      string
	TokenName     string
	TokenSymbol   string
	TokenDecimals uint8
	GasUsed       uint64
	Cost          string
	CostSymbol    string // native currency symbol of the network
	BlockNumber   int64
	ExplorerTxURL string
	ExplorerURL   string // token page on the explorer
	CreatedAt     time.Time
}

// RecordRequest is the request to record a new deployment result.
type RecordRequest struct {
	Network       string `json:"network"`
	Address       string `json:"address"`
	TxHash        string `json:"txHash,omitempty"`
	Deployer      string `json:"deployer,omitempty"`
	TokenName     string `json:"tokenName"`
	TokenSymbol   string `json:"tokenSymbol"`
	TokenDecimals uint8  `json:"tokenDecimals"`
	GasUsed       uint64 `json:"gasUsed,omitempty"`
	Cost          string `json:"cost,omitempty"`
	BlockNumber   int64  `json:"blockNumber,omitempty"`
}

// ListFilter contains filter options for listing deployments.
type ListFilter struct {
	Network  string
	Deployer string
}

// PaginationParams contains pagination options.
type PaginationParams struct {
	Limit  int
	Cursor string
}

// ListResult contains paginated list results.
type ListResult struct {
	Deployments []Deployment
	HasMore     bool
	NextCursor  string
}
