package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mintdesk/mintdesk/internal/networks"
	"github.com/mintdesk/mintdesk/internal/wallet"
	"github.com/mintdesk/mintdesk/pkg/client"
)

func createWatchCmd() *cobra.Command {
	var walletRPC string

	cmd := &cobra.Command{
		Use:   "watch <network> <address>",
		Short: "Suggest a token to your wallet",
		Long: `Ask a wallet to track a token via wallet_watchAsset.

The wallet is reached over JSON-RPC. Configure the endpoint with
--wallet-rpc, the MINTDESK_WALLET_RPC environment variable, or the
wallet_rpc setting in mintdesk.toml.

EXAMPLES:
  mintdesk watch ethereum 0xdAC17F958D2ee523a2206206994597C13D831ec7 \
    --wallet-rpc http://localhost:8545
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], args[1], walletRPC)
		},
	}

	cmd.Flags().StringVar(&walletRPC, "wallet-rpc", "", "JSON-RPC endpoint of the wallet provider")

	return cmd
}

func runWatch(networkKey, address, walletRPC string) error {
	network, ok := networks.DefaultRegistry().Get(networkKey)
	if !ok {
		return fmt.Errorf("unknown network: %s", networkKey)
	}

	c := client.New(getServer(), getAPIKey())
	ctx := context.Background()

	// The recorded deployment contributes symbol and decimals; an
	// unrecorded token is still watchable with the defaults.
	dep := &client.Deployment{Network: networkKey, Address: address}
	if got, err := c.GetDeployment(ctx, networkKey, address); err == nil {
		dep = got
	} else {
		fmt.Fprintf(os.Stderr, "Warning: deployment not found in registry, using defaults: %v\n", err)
	}

	var provider wallet.Provider
	if rpcURL := getWalletRPC(walletRPC); rpcURL != "" {
		provider = wallet.NewHTTPProvider(rpcURL)
	}

	p := newPanel(c, dep, network, provider)
	p.Mount(ctx)
	p.WatchAsset(ctx)

	if provider != nil {
		fmt.Printf("Asked wallet to watch %s\n", address)
	}
	return nil
}
