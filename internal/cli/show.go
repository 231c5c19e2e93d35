package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mintdesk/mintdesk/internal/networks"
	"github.com/mintdesk/mintdesk/internal/panel"
	"github.com/mintdesk/mintdesk/pkg/client"
)

func createShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <network> <address>",
		Short: "Show deployment details",
		Long: `Display a recorded token deployment along with its metadata, if any.

EXAMPLES:
  # Show a deployment
  mintdesk show ethereum 0xdAC17F958D2ee523a2206206994597C13D831ec7

  # Output as JSON
  mintdesk show ethereum 0xdAC17F958D2ee523a2206206994597C13D831ec7 --json
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], args[1], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func runShow(networkKey, address string, jsonOutput bool) error {
	c := client.New(getServer(), getAPIKey())
	ctx := context.Background()
	warnIfIncompatible(ctx, c)

	dep, err := c.GetDeployment(ctx, networkKey, address)
	if err != nil {
		return fmt.Errorf("failed to get deployment: %w", err)
	}

	if jsonOutput {
		// Metadata is optional; absence is not an error
		meta, err := c.GetMetadata(ctx, networkKey, address)
		if err != nil {
			var apiErr *client.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != "NOT_FOUND" {
				fmt.Fprintf(os.Stderr, "Warning: failed to fetch metadata: %v\n", err)
			}
			meta = nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"deployment": dep,
			"metadata":   meta,
		})
	}

	network, _ := networks.DefaultRegistry().Get(networkKey)
	p := newPanel(c, dep, network, nil)
	p.Mount(ctx)

	renderDeployment(os.Stdout, p)
	fmt.Println()
	renderMetadata(os.Stdout, p)

	return nil
}

func renderDeployment(out io.Writer, p *panel.Panel) {
	dep := p.Deployment()
	networkName := dep.NetworkName
	if networkName == "" {
		networkName = dep.Network
	}

	fmt.Fprintln(out, "Deployment")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Token:\t%s (%s)\n", dep.TokenName, dep.TokenSymbol)
	fmt.Fprintf(w, "  Network:\t%s\n", networkName)
	fmt.Fprintf(w, "  Address:\t%s\n", dep.Address)
	if dep.TxHash != "" {
		fmt.Fprintf(w, "  Tx Hash:\t%s\n", p.DisplayTxHash())
	}
	if dep.Deployer != "" {
		fmt.Fprintf(w, "  Deployer:\t%s\n", dep.Deployer)
	}
	fmt.Fprintf(w, "  Decimals:\t%d\n", dep.TokenDecimals)
	if dep.GasUsed > 0 {
		fmt.Fprintf(w, "  Gas Used:\t%d\n", dep.GasUsed)
	}
	if dep.Cost != "" {
		fmt.Fprintf(w, "  Cost:\t%s %s\n", dep.Cost, dep.CostSymbol)
	}
	if dep.BlockNumber > 0 {
		fmt.Fprintf(w, "  Block:\t%d\n", dep.BlockNumber)
	}
	if !dep.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Recorded:\t%s\n", dep.CreatedAt.Format(time.RFC3339))
	}
	if dep.ExplorerTxURL != "" {
		fmt.Fprintf(w, "  Explorer:\t%s\n", dep.ExplorerTxURL)
	} else if dep.ExplorerURL != "" {
		fmt.Fprintf(w, "  Explorer:\t%s\n", dep.ExplorerURL)
	}
	w.Flush()
}

func renderMetadata(out io.Writer, p *panel.Panel) {
	meta := p.Metadata()
	if p.State() != panel.StateReady || meta == nil {
		fmt.Fprintln(out, "Metadata: (none)")
		fmt.Fprintln(out, "  Run 'mintdesk metadata set' to add metadata for this token.")
		return
	}

	fmt.Fprintln(out, "Metadata")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Name:\t%s\n", meta.Name)
	fmt.Fprintf(w, "  Symbol:\t%s\n", meta.Symbol)
	if meta.LogoURL != "" {
		fmt.Fprintf(w, "  Logo:\t%s\n", meta.LogoURL)
	}
	if meta.Description != "" {
		fmt.Fprintf(w, "  About:\t%s\n", meta.Description)
	}
	if len(meta.Tags) > 0 {
		fmt.Fprintf(w, "  Tags:\t%v\n", meta.Tags)
	}
	for platform, url := range meta.Links {
		fmt.Fprintf(w, "  %s:\t%s\n", platform, url)
	}
	if !meta.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "  Updated:\t%s\n", meta.UpdatedAt.Format(time.RFC3339))
	}
	w.Flush()
}
