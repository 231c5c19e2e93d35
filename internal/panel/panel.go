// Package panel implements the deployment result, token metadata, and
// action panels as a state machine over injected capabilities. All
// external effects (clipboard, share sheet, wallet provider, metadata
// service) are interfaces so the panel can run against any host.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	deploydomain "github.com/mintdesk/mintdesk/internal/deployments/domain"
	metadomain "github.com/mintdesk/mintdesk/internal/metadata/domain"
	"github.com/mintdesk/mintdesk/internal/networks"
	"github.com/mintdesk/mintdesk/internal/wallet"
)

// copyExpiry is how long a copy confirmation stays visible.
const copyExpiry = 2000 * time.Millisecond

// Defaults for wallet_watchAsset when the deployment record lacks them.
const (
	defaultWatchSymbol   = "TOKEN"
	defaultWatchDecimals = 18
)

// State is the metadata panel state.
type State int

const (
	// StateLoading means the initial metadata fetch has not settled yet.
	StateLoading State = iota
	// StateEmpty means no metadata record exists for the token.
	StateEmpty
	// StateReady means a metadata record is loaded and shown read-only.
	StateReady
	// StateEditing means the edit form is open.
	StateEditing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	case StateEditing:
		return "editing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Field identifies a copyable value on the panel.
type Field string

const (
	FieldNone     Field = ""
	FieldAddress  Field = "address"
	FieldTxHash   Field = "txHash"
	FieldDeployer Field = "deployer"
	// FieldShare is the confirmation flag set by the share fallback.
	FieldShare Field = "share"
)

// Clipboard writes text to the host clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Sharer invokes the host share capability.
type Sharer interface {
	Share(ctx context.Context, title, url string) error
}

// Alerter surfaces a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// Metadata is the slice of the metadata service the panel uses.
type Metadata interface {
	Get(ctx context.Context, network, address string) (*metadomain.TokenMetadata, error)
	Upsert(ctx context.Context, network, address string, req metadomain.UpsertRequest) (*metadomain.TokenMetadata, error)
}

// Options carries the panel's injected capabilities. Any of them may be
// nil; the corresponding action degrades as the operation docs describe.
type Options struct {
	Clipboard  Clipboard
	Sharer     Sharer
	Alerter    Alerter
	Provider   wallet.Provider
	Metadata   Metadata
	Logger     *slog.Logger
	OnStartNew func()

	// After schedules fn after d. Defaults to time.AfterFunc; tests
	// inject a manual scheduler so expiry is deterministic.
	After func(d time.Duration, fn func())
}

// Panel holds one mounted panel instance. Each instance owns its own
// ephemeral state; nothing is shared across panels.
type Panel struct {
	deployment deploydomain.Deployment
	network    networks.Network

	clipboard  Clipboard
	sharer     Sharer
	alerter    Alerter
	provider   wallet.Provider
	metaSvc    Metadata
	logger     *slog.Logger
	onStartNew func()
	after      func(d time.Duration, fn func())

	mu      sync.Mutex
	state   State
	meta    *metadomain.TokenMetadata
	copied  Field
	copyGen uint64
}

// New creates a panel for a deployment result. The panel starts in
// StateLoading until Mount settles it.
func New(deployment deploydomain.Deployment, network networks.Network, opts Options) *Panel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	after := opts.After
	if after == nil {
		after = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	return &Panel{
		deployment: deployment,
		network:    network,
		clipboard:  opts.Clipboard,
		sharer:     opts.Sharer,
		alerter:    opts.Alerter,
		provider:   opts.Provider,
		metaSvc:    opts.Metadata,
		logger:     logger,
		onStartNew: opts.OnStartNew,
		after:      after,
		state:      StateLoading,
	}
}

// Mount fetches the token's metadata record and settles the panel state.
// A fetch failure never fails Mount: the error is logged and the panel
// lands in StateEmpty.
func (p *Panel) Mount(ctx context.Context) {
	if p.metaSvc == nil {
		p.setState(StateEmpty, nil)
		return
	}

	record, err := p.metaSvc.Get(ctx, p.deployment.Network, p.deployment.Address)
	if err != nil {
		if !errors.Is(err, metadomain.ErrNotFound) {
			p.logger.Error("metadata fetch failed",
				"network", p.deployment.Network,
				"address", p.deployment.Address,
				"error", err,
			)
		}
		p.setState(StateEmpty, nil)
		return
	}

	p.setState(StateReady, record)
}

// State returns the current panel state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Metadata returns the loaded metadata record, or nil.
func (p *Panel) Metadata() *metadomain.TokenMetadata {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.meta
}

// CopiedField returns the field whose copy confirmation is active, or
// FieldNone.
func (p *Panel) CopiedField() Field {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copied
}

// Deployment returns the immutable deployment result the panel renders.
func (p *Panel) Deployment() deploydomain.Deployment {
	return p.deployment
}

// DisplayTxHash returns the transaction hash as rendered on the panel.
func (p *Panel) DisplayTxHash() string {
	return TruncateHash(p.deployment.TxHash)
}

// TruncateHash shortens a hash for display: longer than 20 characters
// becomes the first 20 followed by an ellipsis.
func TruncateHash(hash string) string {
	runes := []rune(hash)
	if len(runes) <= 20 {
		return hash
	}
	return string(runes[:20]) + "…"
}

// Copy copies the field's value to the clipboard and raises its
// confirmation flag for 2 seconds. A newer copy supersedes the pending
// expiry of the previous one; at most one flag is active at a time.
func (p *Panel) Copy(ctx context.Context, field Field) error {
	value, err := p.fieldValue(field)
	if err != nil {
		return err
	}
	if p.clipboard == nil {
		return errors.New("no clipboard capability")
	}
	if err := p.clipboard.WriteText(ctx, value); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}

	p.setCopied(field)
	return nil
}

func (p *Panel) fieldValue(field Field) (string, error) {
	switch field {
	case FieldAddress:
		return p.deployment.Address, nil
	case FieldTxHash:
		return p.deployment.TxHash, nil
	case FieldDeployer:
		return p.deployment.Deployer, nil
	default:
		return "", fmt.Errorf("unknown field %q", field)
	}
}

// setCopied raises the confirmation flag for field and schedules its
// expiry. The generation counter keeps a stale expiry from clearing a
// newer flag.
func (p *Panel) setCopied(field Field) {
	p.mu.Lock()
	p.copied = field
	p.copyGen++
	gen := p.copyGen
	p.mu.Unlock()

	p.after(copyExpiry, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.copyGen == gen {
			p.copied = FieldNone
		}
	})
}

// Share offers the explorer transaction URL through the share
// capability. When the capability is absent or fails, the URL is copied
// to the clipboard instead and the share confirmation flag is raised.
// The fallback is silent; Share never reports an error.
func (p *Panel) Share(ctx context.Context) {
	url := p.explorerTxURL()
	title := p.deployment.TokenName + " deployment"

	if p.sharer != nil {
		if err := p.sharer.Share(ctx, title, url); err == nil {
			return
		}
	}

	if p.clipboard == nil {
		return
	}
	if err := p.clipboard.WriteText(ctx, url); err != nil {
		p.logger.Error("share fallback copy failed", "error", err)
		return
	}
	p.setCopied(FieldShare)
}

// explorerTxURL prefers the transaction page; a deployment recorded
// without a transaction hash shares the token page instead.
func (p *Panel) explorerTxURL() string {
	if p.deployment.ExplorerTxURL != "" {
		return p.deployment.ExplorerTxURL
	}
	if p.deployment.TxHash != "" {
		return p.network.TxURL(p.deployment.TxHash)
	}
	if p.deployment.ExplorerURL != "" {
		return p.deployment.ExplorerURL
	}
	return p.network.TokenURL(p.deployment.Address)
}

// WatchAsset asks the wallet to track the deployed token. Without a
// provider it alerts the user and issues no request. Provider errors,
// including a user decline, are logged and swallowed.
func (p *Panel) WatchAsset(ctx context.Context) {
	if p.provider == nil {
		if p.alerter != nil {
			p.alerter.Alert("No wallet provider detected. Install a wallet extension to watch this token.")
		}
		return
	}

	symbol := p.deployment.TokenSymbol
	if symbol == "" {
		symbol = defaultWatchSymbol
	}
	decimals := p.deployment.TokenDecimals
	if decimals == 0 {
		decimals = defaultWatchDecimals
	}
	var image string
	if meta := p.Metadata(); meta != nil {
		image = meta.LogoURL
	}

	err := wallet.WatchAsset(ctx, p.provider, wallet.Asset{
		Type:     p.network.Kind.WatchAssetType(),
		Address:  p.deployment.Address,
		Symbol:   symbol,
		Decimals: decimals,
		Image:    image,
	})
	if err != nil {
		p.logger.Error("watch asset failed",
			"network", p.deployment.Network,
			"address", p.deployment.Address,
			"error", err,
		)
	}
}

// StartEdit opens the edit form. Valid from StateReady and StateEmpty.
func (p *Panel) StartEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateReady || p.state == StateEmpty {
		p.state = StateEditing
	}
}

// CancelEdit closes the edit form without saving.
func (p *Panel) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateEditing {
		return
	}
	if p.meta != nil {
		p.state = StateReady
	} else {
		p.state = StateEmpty
	}
}

// SaveMetadata persists the edited record and transitions to StateReady.
// Save failures are returned to the caller; the panel stays in
// StateEditing so the form can retry.
func (p *Panel) SaveMetadata(ctx context.Context, req metadomain.UpsertRequest) error {
	if p.metaSvc == nil {
		return errors.New("no metadata capability")
	}

	record, err := p.metaSvc.Upsert(ctx, p.deployment.Network, p.deployment.Address, req)
	if err != nil {
		return err
	}

	p.setState(StateReady, record)
	return nil
}

// StartNew invokes the host's start-new-deployment callback, if any.
func (p *Panel) StartNew() {
	if p.onStartNew != nil {
		p.onStartNew()
	}
}

func (p *Panel) setState(state State, meta *metadomain.TokenMetadata) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
	p.meta = meta
}
