package networks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	eth, ok := r.Get("ethereum")
	require.True(t, ok)
	assert.Equal(t, KindEVM, eth.Kind)
	assert.Equal(t, int64(1), eth.ChainID)
	assert.Equal(t, uint8(18), eth.DefaultDecimals)

	sol, ok := r.Get("solana")
	require.True(t, ok)
	assert.Equal(t, KindSolana, sol.Kind)
	assert.Equal(t, uint8(9), sol.DefaultDecimals)

	_, ok = r.Get("dogechain")
	assert.False(t, ok)
}

func TestListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(Network{Key: "zeta"})
	r.Register(Network{Key: "alpha"})
	r.Register(Network{Key: "mu"})

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Key)
	assert.Equal(t, "mu", list[1].Key)
	assert.Equal(t, "zeta", list[2].Key)
}

func TestExplorerURLs(t *testing.T) {
	r := DefaultRegistry()

	eth, _ := r.Get("ethereum")
	assert.Equal(t, "https://etherscan.io/tx/0xabc", eth.TxURL("0xabc"))
	assert.Equal(t, "https://etherscan.io/address/0xdef", eth.AddressURL("0xdef"))
	assert.Equal(t, "https://etherscan.io/token/0xdef", eth.TokenURL("0xdef"))

	// Solana devnet appends the cluster query param
	dev, _ := r.Get("solana-devnet")
	assert.Equal(t, "https://explorer.solana.com/tx/5sig?cluster=devnet", dev.TxURL("5sig"))
	assert.Equal(t, "https://explorer.solana.com/address/So111?cluster=devnet", dev.TokenURL("So111"))

	// Empty values produce no URL
	assert.Equal(t, "", eth.TxURL(""))
	assert.Equal(t, "", eth.AddressURL(""))
}

func TestWatchAssetType(t *testing.T) {
	assert.Equal(t, "ERC20", KindEVM.WatchAssetType())
	assert.Equal(t, "SPL", KindSolana.WatchAssetType())
}
