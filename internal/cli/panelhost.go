package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	deploydomain "github.com/mintdesk/mintdesk/internal/deployments/domain"
	metadomain "github.com/mintdesk/mintdesk/internal/metadata/domain"
	"github.com/mintdesk/mintdesk/internal/networks"
	"github.com/mintdesk/mintdesk/internal/panel"
	"github.com/mintdesk/mintdesk/internal/wallet"
	"github.com/mintdesk/mintdesk/pkg/client"
)

// newPanel mounts a deployment panel on the terminal: the share sheet is
// stdout, alerts go to stderr, and the clipboard is the system clipboard
// utility when one is installed.
func newPanel(c *client.Client, dep *client.Deployment, network networks.Network, provider wallet.Provider) *panel.Panel {
	return panel.New(toDomainDeployment(dep), network, panel.Options{
		Clipboard: systemClipboard{},
		Sharer:    terminalSharer{out: os.Stdout},
		Alerter:   terminalAlerter{out: os.Stderr},
		Provider:  provider,
		Metadata:  metadataClient{c: c},
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	})
}

// terminalSharer prints the shared URL on its writer. The title is
// dropped so the output stays pipeable.
type terminalSharer struct {
	out io.Writer
}

func (s terminalSharer) Share(_ context.Context, _, url string) error {
	_, err := fmt.Fprintln(s.out, url)
	return err
}

// terminalAlerter surfaces blocking messages on its writer.
type terminalAlerter struct {
	out io.Writer
}

func (a terminalAlerter) Alert(message string) {
	fmt.Fprintln(a.out, message)
}

// clipboardCommands are tried in order; the first one on PATH wins.
var clipboardCommands = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// systemClipboard copies text through the host's clipboard utility.
type systemClipboard struct{}

func (systemClipboard) WriteText(ctx context.Context, text string) error {
	for _, argv := range clipboardCommands {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("running %s: %w", argv[0], err)
		}
		return nil
	}
	return errors.New("no clipboard utility found")
}

// metadataClient exposes the metadata API through the panel's
// capability interface.
type metadataClient struct {
	c *client.Client
}

func (m metadataClient) Get(ctx context.Context, network, address string) (*metadomain.TokenMetadata, error) {
	meta, err := m.c.GetMetadata(ctx, network, address)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Code == "NOT_FOUND" {
			return nil, metadomain.ErrNotFound
		}
		return nil, err
	}
	return toDomainMetadata(meta), nil
}

func (m metadataClient) Upsert(ctx context.Context, network, address string, req metadomain.UpsertRequest) (*metadomain.TokenMetadata, error) {
	meta, err := m.c.PutMetadata(ctx, network, address, client.MetadataRequest{
		Name:        req.Name,
		Symbol:      req.Symbol,
		LogoURL:     req.LogoURL,
		Description: req.Description,
		Tags:        req.Tags,
		Links:       req.Links,
	})
	if err != nil {
		return nil, err
	}
	return toDomainMetadata(meta), nil
}

func toDomainMetadata(meta *client.Metadata) *metadomain.TokenMetadata {
	return &metadomain.TokenMetadata{
		Network:     meta.Network,
		Address:     meta.Address,
		Name:        meta.Name,
		Symbol:      meta.Symbol,
		LogoURL:     meta.LogoURL,
		Description: meta.Description,
		Tags:        meta.Tags,
		Links:       meta.Links,
		CreatedAt:   parseAPITime(meta.CreatedAt),
		UpdatedAt:   parseAPITime(meta.UpdatedAt),
	}
}

func toDomainDeployment(dep *client.Deployment) deploydomain.Deployment {
	return deploydomain.Deployment{
		ID:            dep.ID,
		Network:       dep.Network,
		NetworkName:   dep.NetworkName,
		Address:       dep.Address,
		TxHash:        dep.TxHash,
		Deployer:      dep.Deployer,
		TokenName:     dep.TokenName,
		TokenSymbol:   dep.TokenSymbol,
		TokenDecimals: dep.TokenDecimals,
		GasUsed:       dep.GasUsed,
		Cost:          dep.Cost,
		CostSymbol:    dep.CostSymbol,
		BlockNumber:   dep.BlockNumber,
		ExplorerTxURL: dep.ExplorerTxURL,
		ExplorerURL:   dep.ExplorerURL,
		CreatedAt:     parseAPITime(dep.CreatedAt),
	}
}

// parseAPITime tolerates the timestamp formats the server emits; an
// unparseable value becomes the zero time.
func parseAPITime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
