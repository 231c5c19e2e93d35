package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/mintdesk/mintdesk/pkg/client"
)

func createMetadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Manage token metadata",
		Long: `Get, set, or remove the metadata record attached to a deployment.

Metadata describes the token for listing surfaces: display name, symbol,
logo, description, tags, and social links.
`,
	}

	cmd.AddCommand(createMetadataGetCmd())
	cmd.AddCommand(createMetadataSetCmd())
	cmd.AddCommand(createMetadataRmCmd())

	return cmd
}

func createMetadataGetCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <network> <address>",
		Short: "Show token metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(getServer(), getAPIKey())
			ctx := context.Background()

			meta, err := c.GetMetadata(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get metadata: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(meta)
			}

			printMetadataRecord(os.Stdout, meta)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func createMetadataSetCmd() *cobra.Command {
	var req client.MetadataRequest
	var links []string
	var fromFile string

	cmd := &cobra.Command{
		Use:   "set <network> <address>",
		Short: "Create or replace token metadata",
		Long: `Create or replace the metadata record for a deployment.

Requires authentication. The record is replaced wholesale, so include
every field you want to keep.

EXAMPLES:
  # Set metadata from flags
  mintdesk metadata set ethereum 0xdAC17F958D2ee523a2206206994597C13D831ec7 \
    --name "Tether USD" --symbol USDT \
    --tag stablecoin --link website=https://tether.to

  # Load metadata from a TOML file
  mintdesk metadata set ethereum 0xdAC1...1ec7 --file usdt.toml
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile != "" {
				loaded, err := loadMetadataFile(fromFile)
				if err != nil {
					return err
				}
				req = *loaded
			}
			if len(links) > 0 {
				parsed, err := parseLinks(links)
				if err != nil {
					return err
				}
				req.Links = parsed
			}
			return runMetadataSet(args[0], args[1], req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "token display name")
	cmd.Flags().StringVar(&req.Symbol, "symbol", "", "token symbol")
	cmd.Flags().StringVar(&req.LogoURL, "logo", "", "logo URL (https)")
	cmd.Flags().StringVar(&req.Description, "description", "", "token description")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringSliceVar(&links, "link", nil, "social link as platform=url (repeatable)")
	cmd.Flags().StringVar(&fromFile, "file", "", "load metadata from a TOML file instead of flags")

	return cmd
}

func createMetadataRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <network> <address>",
		Short: "Remove token metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := getAPIKey()
			if key == "" {
				return fmt.Errorf("no API key configured (run 'mintdesk auth login' or pass --api-key)")
			}

			c := client.New(getServer(), key)
			if err := c.DeleteMetadata(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to delete metadata: %w", err)
			}

			fmt.Printf("Deleted metadata for %s on %s\n", args[1], args[0])
			return nil
		},
	}

	return cmd
}

func runMetadataSet(network, address string, req client.MetadataRequest) error {
	key := getAPIKey()
	if key == "" {
		return fmt.Errorf("no API key configured (run 'mintdesk auth login' or pass --api-key)")
	}

	c := client.New(getServer(), key)
	ctx := context.Background()
	warnIfIncompatible(ctx, c)

	meta, err := c.PutMetadata(ctx, network, address, req)
	if err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	fmt.Printf("Saved metadata for %s (%s)\n", meta.Name, meta.Symbol)
	return nil
}

// metadataFile is the TOML shape accepted by 'metadata set --file'
type metadataFile struct {
	Name        string            `toml:"name"`
	Symbol      string            `toml:"symbol"`
	LogoURL     string            `toml:"logo_url"`
	Description string            `toml:"description"`
	Tags        []string          `toml:"tags"`
	Links       map[string]string `toml:"links"`
}

func loadMetadataFile(path string) (*client.MetadataRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var file metadataFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	return &client.MetadataRequest{
		Name:        file.Name,
		Symbol:      file.Symbol,
		LogoURL:     file.LogoURL,
		Description: file.Description,
		Tags:        file.Tags,
		Links:       file.Links,
	}, nil
}

func printMetadataRecord(out io.Writer, meta *client.Metadata) {
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
	if meta.UpdatedAt != "" {
		fmt.Fprintf(w, "  Updated:\t%s\n", meta.UpdatedAt)
	}
	w.Flush()
}

// parseLinks parses repeated platform=url flag values into a map
func parseLinks(pairs []string) (map[string]string, error) {
	links := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		platform, url, ok := strings.Cut(pair, "=")
		if !ok || platform == "" || url == "" {
			return nil, fmt.Errorf("invalid link %q: expected platform=url", pair)
		}
		links[platform] = url
	}
	return links, nil
}
