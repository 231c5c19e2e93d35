// Package networks provides the catalog of blockchain networks tokens can
// be deployed to, along with explorer URL construction for each.
package networks

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the address/asset family of a network.
type Kind string

const (
	KindEVM    Kind = "evm"
	KindSolana Kind = "solana"
)

// WatchAssetType returns the wallet_watchAsset asset type for this kind.
func (k Kind) WatchAssetType() string {
	switch k {
	case KindSolana:
		return "SPL"
	default:
		return "ERC20"
	}
}

// Network describes a supported blockchain network.
type Network struct {
	Key             string // catalog key, e.g. "ethereum", "solana-devnet"
	DisplayName     string // "Ethereum Mainnet"
	Kind            Kind
	ChainID         int64  // EVM chain ID; 0 for non-EVM networks
	Symbol          string // native currency symbol
	DefaultDecimals uint8  // default token decimals for this network
	ExplorerURL     string // explorer base URL, no trailing slash
	Testnet         bool
}

// TxURL returns the explorer URL for a transaction.
func (n Network) TxURL(hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(n.ExplorerURL, "/"), hash) + n.clusterSuffix()
}

// AddressURL returns the explorer URL for an account or contract address.
func (n Network) AddressURL(address string) string {
	if address == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s", strings.TrimRight(n.ExplorerURL, "/"), address) + n.clusterSuffix()
}

// TokenURL returns the explorer URL for a token page. EVM explorers use
// /token/{address}; Solana explorers show tokens on the address page.
func (n Network) TokenURL(address string) string {
	if address == "" {
		return ""
	}
	if n.Kind == KindSolana {
		return n.AddressURL(address)
	}
	return fmt.Sprintf("%s/token/%s", strings.TrimRight(n.ExplorerURL, "/"), address)
}

// Solana explorers distinguish clusters by query parameter rather than host.
func (n Network) clusterSuffix() string {
	if n.Kind == KindSolana && n.Testnet {
		return "?cluster=devnet"
	}
	return ""
}

// Registry holds the known networks.
type Registry struct {
	networks map[string]Network
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{networks: make(map[string]Network)}
}

// Register adds a network to the registry, replacing any existing entry
// with the same key.
func (r *Registry) Register(n Network) {
	r.networks[n.Key] = n
}

// Get retrieves a network by key.
func (r *Registry) Get(key string) (Network, bool) {
	n, ok := r.networks[key]
	return n, ok
}

// List returns all networks sorted by key.
func (r *Registry) List() []Network {
	list := make([]Network, 0, len(r.networks))
	for _, n := range r.networks {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

// DefaultRegistry returns a registry preloaded with the built-in networks.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, n := range builtin {
		r.Register(n)
	}
	return r
}

var builtin = []Network{
	{
		Key:             "ethereum",
		DisplayName:     "Ethereum Mainnet",
		Kind:            KindEVM,
		ChainID:         1,
		Symbol:          "ETH",
		DefaultDecimals: 18,
		ExplorerURL:     "https://etherscan.io",
	},
	{
		Key:             "sepolia",
		DisplayName:     "Ethereum Sepolia",
		Kind:            KindEVM,
		ChainID:         11155111,
		Symbol:          "ETH",
		DefaultDecimals: 18,
		ExplorerURL:     "https://sepolia.etherscan.io",
		Testnet:         true,
	},
	{
		Key:             "polygon",
		DisplayName:     "Polygon PoS",
		Kind:            KindEVM,
		ChainID:         137,
		Symbol:          "POL",
		DefaultDecimals: 18,
		ExplorerURL:     "https://polygonscan.com",
	},
	{
		Key:             "bsc",
		DisplayName:     "BNB Smart Chain",
		Kind:            KindEVM,
		ChainID:         56,
		Symbol:          "BNB",
		DefaultDecimals: 18,
		ExplorerURL:     "https://bscscan.com",
	},
	{
		Key:             "arbitrum",
		DisplayName:     "Arbitrum One",
		Kind:            KindEVM,
		ChainID:         42161,
		Symbol:          "ETH",
		DefaultDecimals: 18,
		ExplorerURL:     "https://arbiscan.io",
	},
	{
		Key:             "base",
		DisplayName:     "Base",
		Kind:            KindEVM,
		ChainID:         8453,
		Symbol:          "ETH",
		DefaultDecimals: 18,
		ExplorerURL:     "https://basescan.org",
	},
	{
		Key:             "solana",
		DisplayName:     "Solana Mainnet",
		Kind:            KindSolana,
		Symbol:          "SOL",
		DefaultDecimals: 9,
		ExplorerURL:     "https://explorer.solana.com",
	},
	{
		Key:             "solana-devnet",
		DisplayName:     "Solana Devnet",
		Kind:            KindSolana,
		Symbol:          "SOL",
		DefaultDecimals: 9,
		ExplorerURL:     "https://explorer.solana.com",
		Testnet:         true,
	},
}
