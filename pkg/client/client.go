// Package client provides a Go client for the Mintdesk API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a Mintdesk API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// New creates a new Mintdesk client
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Deployment is a recorded token deployment
type Deployment struct {
	ID            string `json:"id"`
	Network       string `json:"network"`
	NetworkName   string `json:"networkName,omitempty"`
	Address       string `json:"address"`
	TxHash        string `json:"txHash,omitempty"`
	Deployer      string `json:"deployer,omitempty"`
	TokenName     string `json:"tokenName"`
	TokenSymbol   string `json:"tokenSymbol"`
	TokenDecimals uint8  `json:"tokenDecimals"`
	GasUsed       uint64 `json:"gasUsed,omitempty"`
	Cost          string `json:"cost,omitempty"`
	CostSymbol    string `json:"costSymbol,omitempty"`
	BlockNumber   int64  `json:"blockNumber,omitempty"`
	ExplorerTxURL string `json:"explorerTxUrl,omitempty"`
	ExplorerURL   string `json:"explorerUrl,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// RecordDeploymentRequest is the request for recording a deployment
type RecordDeploymentRequest struct {
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

// Metadata is a token metadata record
type Metadata struct {
	Network     string            `json:"network"`
	Address     string            `json:"address"`
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	LogoURL     string            `json:"logoUrl,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

// MetadataRequest is the request body for saving metadata
type MetadataRequest struct {
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	LogoURL     string            `json:"logoUrl,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
}

// Network is a catalog entry
type Network struct {
	Key             string `json:"key"`
	DisplayName     string `json:"displayName"`
	Kind            string `json:"kind"`
	ChainID         int64  `json:"chainId,omitempty"`
	Symbol          string `json:"symbol"`
	DefaultDecimals uint8  `json:"defaultDecimals"`
	ExplorerURL     string `json:"explorerUrl"`
	Testnet         bool   `json:"testnet"`
}

// Health is the server health response
type Health struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion"`
}

// Pagination contains pagination info
type Pagination struct {
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ListDeploymentsResponse is the response for listing deployments
type ListDeploymentsResponse struct {
	Data       []Deployment `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// ListMetadataResponse is the response for listing metadata records
type ListMetadataResponse struct {
	Data       []Metadata `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListOptions filters list requests
type ListOptions struct {
	Network  string
	Deployer string
	Tag      string
	Limit    int
	Cursor   string
}

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Health checks server health and reports its versions
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var resp Health
	if err := c.get(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListNetworks lists the supported network catalog
func (c *Client) ListNetworks(ctx context.Context) ([]Network, error) {
	var resp struct {
		Data []Network `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/networks", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetDeployment gets a deployment by network and token address
func (c *Client) GetDeployment(ctx context.Context, network, address string) (*Deployment, error) {
	var resp Deployment
	path := fmt.Sprintf("/api/v1/deployments/%s/%s", url.PathEscape(network), url.PathEscape(address))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDeployments lists deployments
func (c *Client) ListDeployments(ctx context.Context, opts ListOptions) (*ListDeploymentsResponse, error) {
	var resp ListDeploymentsResponse
	if err := c.get(ctx, "/api/v1/deployments"+opts.query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordDeployment records a new deployment (requires an API key)
func (c *Client) RecordDeployment(ctx context.Context, req RecordDeploymentRequest) error {
	return c.send(ctx, http.MethodPost, "/api/v1/deployments", req, nil)
}

// GetMetadata gets the metadata record for a token
func (c *Client) GetMetadata(ctx context.Context, network, address string) (*Metadata, error) {
	var resp Metadata
	path := fmt.Sprintf("/api/v1/metadata/%s/%s", url.PathEscape(network), url.PathEscape(address))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PutMetadata creates or replaces a token's metadata (requires an API key)
func (c *Client) PutMetadata(ctx context.Context, network, address string, req MetadataRequest) (*Metadata, error) {
	var resp Metadata
	path := fmt.Sprintf("/api/v1/metadata/%s/%s", url.PathEscape(network), url.PathEscape(address))
	if err := c.send(ctx, http.MethodPut, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteMetadata removes a token's metadata (requires an API key)
func (c *Client) DeleteMetadata(ctx context.Context, network, address string) error {
	path := fmt.Sprintf("/api/v1/metadata/%s/%s", url.PathEscape(network), url.PathEscape(address))
	return c.send(ctx, http.MethodDelete, path, nil, nil)
}

// ListMetadata lists metadata records
func (c *Client) ListMetadata(ctx context.Context, opts ListOptions) (*ListMetadataResponse, error) {
	var resp ListMetadataResponse
	if err := c.get(ctx, "/api/v1/metadata"+opts.query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Network != "" {
		q.Set("network", o.Network)
	}
	if o.Deployer != "" {
		q.Set("deployer", o.Deployer)
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", o.Limit))
	}
	if o.Cursor != "" {
		q.Set("cursor", o.Cursor)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	return c.do(req, result)
}

func (c *Client) send(ctx context.Context, method, path string, body, result any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.parseError(resp)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}

func (c *Client) parseError(resp *http.Response) error {
	var errResp struct {
		Error APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return &errResp.Error
}
