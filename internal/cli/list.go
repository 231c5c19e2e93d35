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

func createListCmd() *cobra.Command {
	var opts client.ListOptions
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded deployments",
		Long: `List token deployments recorded in the registry.

EXAMPLES:
  # List recent deployments
  mintdesk list

  # Filter by network
  mintdesk list --network ethereum

  # Filter by deployer address
  mintdesk list --deployer 0x36928500bc1dcd7af6a2b4008875cc336b927d57

  # Output as JSON
  mintdesk list --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&opts.Network, "network", "", "filter by network")
	cmd.Flags().StringVar(&opts.Deployer, "deployer", "", "filter by deployer address")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of deployments to show")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "pagination cursor from a previous page")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func runList(opts client.ListOptions, jsonOutput bool) error {
	c := client.New(getServer(), getAPIKey())
	ctx := context.Background()

	resp, err := c.ListDeployments(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list deployments: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(resp.Data) == 0 {
		fmt.Println("No deployments found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NETWORK\tADDRESS\tNAME\tSYMBOL\tRECORDED")
	for _, d := range resp.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Network, d.Address, d.TokenName, d.TokenSymbol, d.CreatedAt)
	}
	w.Flush()

	if resp.Pagination.HasMore {
		fmt.Printf("\n(more available, pass --cursor %s)\n", resp.Pagination.NextCursor)
	}

	return nil
}
