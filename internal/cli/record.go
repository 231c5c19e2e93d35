package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mintdesk/mintdesk/pkg/client"
)

func createRecordCmd() *cobra.Command {
	var req client.RecordDeploymentRequest
	var decimals int

	cmd := &cobra.Command{
		Use:   "record <address>",
		Short: "Record a token deployment",
		Long: `Record a deployed token contract in the registry.

Requires authentication. Run 'mintdesk auth login' first, or pass --api-key.

EXAMPLES:
  # Record a deployment on the default network
  mintdesk record 0xdAC17F958D2ee523a2206206994597C13D831ec7 \
    --name "Tether USD" --symbol USDT --decimals 6 \
    --tx-hash 0x2f1c5c2b44f771e942a8506148e256f94f1a464babc938ae0690c6e34cd79190

  # Record on a specific network
  mintdesk record 0x... --network sepolia --name "Test Token" --symbol TST
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Address = args[0]
			if req.Network == "" {
				req.Network = getDefaultNetwork()
			}
			if req.Network == "" {
				return fmt.Errorf("no network specified (use --network or set one in mintdesk.toml)")
			}
			if decimals < 0 || decimals > 255 {
				return fmt.Errorf("decimals must be between 0 and 255")
			}
			req.TokenDecimals = uint8(decimals)
			return runRecord(req)
		},
	}

	cmd.Flags().StringVar(&req.Network, "network", "", "network the token was deployed to")
	cmd.Flags().StringVar(&req.TokenName, "name", "", "token name")
	cmd.Flags().StringVar(&req.TokenSymbol, "symbol", "", "token symbol")
	cmd.Flags().IntVar(&decimals, "decimals", 18, "token decimals")
	cmd.Flags().StringVar(&req.TxHash, "tx-hash", "", "deployment transaction hash")
	cmd.Flags().StringVar(&req.Deployer, "deployer", "", "deployer address")
	cmd.Flags().Uint64Var(&req.GasUsed, "gas-used", 0, "gas used by the deployment")
	cmd.Flags().StringVar(&req.Cost, "cost", "", "deployment cost in the network's native currency")
	cmd.Flags().Int64Var(&req.BlockNumber, "block", 0, "block number of the deployment")

	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("symbol")

	return cmd
}

func runRecord(req client.RecordDeploymentRequest) error {
	key := getAPIKey()
	if key == "" {
		return fmt.Errorf("no API key configured (run 'mintdesk auth login' or pass --api-key)")
	}

	c := client.New(getServer(), key)
	ctx := context.Background()
	warnIfIncompatible(ctx, c)

	if err := c.RecordDeployment(ctx, req); err != nil {
		return fmt.Errorf("failed to record deployment: %w", err)
	}

	fmt.Printf("Recorded %s (%s) on %s\n", req.TokenName, req.TokenSymbol, req.Network)
	fmt.Printf("  Address: %s\n", req.Address)
	fmt.Println()
	fmt.Printf("View it:  mintdesk show %s %s\n", req.Network, req.Address)

	return nil
}
