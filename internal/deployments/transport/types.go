package transport

import (
	"time"

	"github.com/mintdesk/mintdesk/internal/deployments/domain"
)

// DeploymentResponse is the full deployment representation returned by GET.
type DeploymentResponse struct {
	ID            string `json:"id"`
	Network       string `json:"network"`
	NetworkName   string `json:"networkName"`
	Address       string `json:"address"`
	TxHash        string `json:"txHash"`
	Deployer      string `json:"deployer"`
	TokenName     string `json:"tokenName"`
	TokenSymbol   string `json:"tokenSymbol"`
	TokenDecimals uint8  `json:"tokenDecimals"`
	GasUsed       uint64 `json:"gasUsed,omitempty"`
	Cost          string `json:"cost,omitempty"`
	CostSymbol    string `json:"costSymbol,omitempty"`
	BlockNumber   int64  `json:"blockNumber,omitempty"`
	ExplorerTxURL string `json:"explorerTxUrl,omitempty"`
	ExplorerURL   string `json:"explorerUrl,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// DeploymentItem is a compact deployment representation used in lists.
type DeploymentItem struct {
	Network     string `json:"network"`
	Address     string `json:"address"`
	TokenName   string `json:"tokenName"`
	TokenSymbol string `json:"tokenSymbol"`
	TxHash      string `json:"txHash"`
	CreatedAt   string `json:"createdAt"`
}

// DeploymentListResponse is the paginated list response.
type DeploymentListResponse struct {
	Data       []DeploymentItem `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// Pagination contains pagination metadata.
type Pagination struct {
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// RecordResponse is returned after a successful record.
type RecordResponse struct {
	ID      string `json:"id"`
	Network string `json:"network"`
	Address string `json:"address"`
	Message string `json:"message"`
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

func toDeploymentResponse(d *domain.Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:            d.ID,
		Network:       d.Network,
		NetworkName:   d.NetworkName,
		Address:       d.Address,
		TxHash:        d.TxHash,
		Deployer:      d.Deployer,
		TokenName:     d.TokenName,
		TokenSymbol:   d.TokenSymbol,
		TokenDecimals: d.TokenDecimals,
		GasUsed:       d.GasUsed,
		Cost:          d.Cost,
		CostSymbol:    d.CostSymbol,
		BlockNumber:   d.BlockNumber,
		ExplorerTxURL: d.ExplorerTxURL,
		ExplorerURL:   d.ExplorerURL,
		CreatedAt:     formatTime(d.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
