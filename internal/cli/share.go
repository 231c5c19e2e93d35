package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mintdesk/mintdesk/internal/networks"
	"github.com/mintdesk/mintdesk/pkg/client"
)

func createShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share <network> <address>",
		Short: "Print a shareable explorer link",
		Long: `Share the block explorer URL for a recorded deployment. On a
terminal the share sheet is stdout.

Prefers the transaction URL when a transaction hash was recorded,
falling back to the contract address page.

EXAMPLES:
  mintdesk share ethereum 0xdAC17F958D2ee523a2206206994597C13D831ec7
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShare(args[0], args[1])
		},
	}

	return cmd
}

func runShare(networkKey, address string) error {
	network, ok := networks.DefaultRegistry().Get(networkKey)
	if !ok {
		return fmt.Errorf("unknown network: %s", networkKey)
	}

	c := client.New(getServer(), getAPIKey())
	ctx := context.Background()

	dep, err := c.GetDeployment(ctx, networkKey, address)
	if err != nil {
		return fmt.Errorf("failed to get deployment: %w", err)
	}

	p := newPanel(c, dep, network, nil)
	p.Share(ctx)
	return nil
}
