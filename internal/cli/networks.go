package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mintdesk/mintdesk/pkg/client"
)

func createNetworksCmd() *cobra.Command {
	var jsonOutput bool
	var includeTestnets bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List supported networks",
		Long: `List the networks the server accepts deployments for.

EXAMPLES:
  # List mainnet networks
  mintdesk networks

  # Include testnets
  mintdesk networks --testnets
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNetworks(jsonOutput, includeTestnets)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&includeTestnets, "testnets", false, "include test networks")

	return cmd
}

func runNetworks(jsonOutput, includeTestnets bool) error {
	c := client.New(getServer(), getAPIKey())

	all, err := c.ListNetworks(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list networks: %w", err)
	}

	var nets []client.Network
	for _, n := range all {
		if n.Testnet && !includeTestnets {
			continue
		}
		nets = append(nets, n)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(nets)
	}

	if len(nets) == 0 {
		fmt.Println("No networks available")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tKIND\tSYMBOL\tDECIMALS\tTESTNET")
	for _, n := range nets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\n", n.Key, n.DisplayName, n.Kind, n.Symbol, n.DefaultDecimals, n.Testnet)
	}
	w.Flush()

	return nil
}
