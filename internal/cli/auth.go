package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/mintdesk/mintdesk/pkg/client"
)

// errInvalidAPIKey means the server rejected the key outright.
var errInvalidAPIKey = errors.New("invalid API key")

// Credentials stores API keys per server, keyed by normalized URL.
type Credentials struct {
	Servers map[string]ServerCredential `yaml:"servers"`
}

// ServerCredential is one saved login.
type ServerCredential struct {
	APIKey  string `yaml:"api_key"`
	Network string `yaml:"network,omitempty"` // default network for this server
}

func createAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(createAuthLoginCmd())
	cmd.AddCommand(createAuthLogoutCmd())
	cmd.AddCommand(createAuthStatusCmd())

	return cmd
}

func createAuthLoginCmd() *cobra.Command {
	var serverFlag string
	var apiKeyFlag string
	var networkFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a server",
		Long: `Save an API key for a Mintdesk server.

The key is checked against the server before it is saved to
~/.mintdesk/credentials. A default network saved alongside the key is
used by record and metadata commands when no project config names one.

EXAMPLES:
  # Interactive login (prompts for the API key)
  mintdesk auth login

  # Login to a specific server with a default network
  mintdesk auth login --server https://mintdesk.example.com --network sepolia

  # Non-interactive login (for CI)
  mintdesk auth login --api-key $MINTDESK_API_KEY
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogin(serverFlag, apiKeyFlag, networkFlag)
		},
	}

	cmd.Flags().StringVar(&serverFlag, "server", "", "server URL (default from config)")
	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "API key (prompts if not provided)")
	cmd.Flags().StringVar(&networkFlag, "network", "", "default network for this server")

	return cmd
}

func createAuthLogoutCmd() *cobra.Command {
	var serverFlag string
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear credentials",
		Long: `Remove saved credentials for a server.

EXAMPLES:
  # Logout from the default server
  mintdesk auth logout

  # Logout from a specific server
  mintdesk auth logout --server https://mintdesk.example.com

  # Clear all credentials
  mintdesk auth logout --all
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogout(serverFlag, allFlag)
		},
	}

	cmd.Flags().StringVar(&serverFlag, "server", "", "server URL (default from config)")
	cmd.Flags().BoolVar(&allFlag, "all", false, "clear all credentials")

	return cmd
}

func createAuthStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long: `List the servers with saved credentials.

EXAMPLES:
  mintdesk auth status
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthStatus()
		},
	}

	return cmd
}

func runAuthLogin(serverURL, apiKeyInput, network string) error {
	if serverURL == "" {
		serverURL = getServer()
	}
	serverURL = normalizeServerURL(serverURL)

	apiKey := apiKeyInput
	if apiKey == "" {
		key, err := promptAPIKey(serverURL)
		if err != nil {
			return err
		}
		apiKey = key
	}
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	fmt.Printf("Validating credentials with %s...\n", serverURL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := validateAPIKey(ctx, serverURL, apiKey); err != nil {
		if errors.Is(err, errInvalidAPIKey) {
			return errInvalidAPIKey
		}
		return fmt.Errorf("failed to validate credentials: %w", err)
	}

	if err := saveCredential(serverURL, apiKey, network); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Printf("Authenticated to %s (key: %s)\n", serverURL, maskAPIKey(apiKey))
	fmt.Printf("Credentials saved to %s\n", credentialsFilePath())

	return nil
}

// promptAPIKey reads the key from the terminal without echo, or from
// piped stdin.
func promptAPIKey(serverURL string) (string, error) {
	fmt.Printf("Enter API key for %s: ", serverURL)

	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		byteKey, err := term.ReadPassword(stdinFd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return strings.TrimSpace(string(byteKey)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	key, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(key), nil
}

func runAuthLogout(serverURL string, all bool) error {
	if all {
		path := credentialsFilePath()
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove credentials: %w", err)
		}
		fmt.Println("All credentials cleared")
		return nil
	}

	if serverURL == "" {
		serverURL = getServer()
	}
	serverURL = normalizeServerURL(serverURL)

	creds, err := loadCredentials()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No credentials found for %s\n", serverURL)
			return nil
		}
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	if _, exists := creds.Servers[serverURL]; !exists {
		fmt.Printf("No credentials found for %s\n", serverURL)
		return nil
	}

	delete(creds.Servers, serverURL)

	if err := writeCredentials(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Printf("Logged out from %s\n", serverURL)
	return nil
}

func runAuthStatus() error {
	creds, err := loadCredentials()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	if creds == nil || len(creds.Servers) == 0 {
		fmt.Println("Not authenticated to any servers")
		fmt.Println("\nRun 'mintdesk auth login' to authenticate")
		return nil
	}

	servers := make([]string, 0, len(creds.Servers))
	for server := range creds.Servers {
		servers = append(servers, server)
	}
	sort.Strings(servers)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVER\tNETWORK\tKEY")
	for _, server := range servers {
		cred := creds.Servers[server]
		network := cred.Network
		if network == "" {
			network = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", server, network, maskAPIKey(cred.APIKey))
	}
	return w.Flush()
}

// validateAPIKey checks the key against the server. Reads are public,
// so the check issues a metadata delete on a sentinel address that
// cannot have a record: a bad key stops at the auth middleware with
// UNAUTHORIZED, a good key reaches the handler and comes back
// NOT_FOUND without touching anything.
func validateAPIKey(ctx context.Context, serverURL, apiKey string) error {
	c := client.New(serverURL, apiKey)

	if _, err := c.Health(ctx); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	err := c.DeleteMetadata(ctx, "ethereum", "credential-check")
	if err == nil {
		return nil
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == "UNAUTHORIZED" {
			return errInvalidAPIKey
		}
		return nil
	}
	return err
}

// normalizeServerURL keeps credential lookups stable across trailing
// slashes.
func normalizeServerURL(serverURL string) string {
	return strings.TrimRight(serverURL, "/")
}

// Credential file helpers

func credentialsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mintdesk"
	}
	return filepath.Join(home, ".mintdesk")
}

func credentialsFilePath() string {
	return filepath.Join(credentialsDir(), "credentials")
}

func loadCredentials() (*Credentials, error) {
	path := credentialsFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	if creds.Servers == nil {
		creds.Servers = make(map[string]ServerCredential)
	}

	return &creds, nil
}

func writeCredentials(creds *Credentials) error {
	dir := credentialsDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}

	path := credentialsFilePath()
	return os.WriteFile(path, data, 0600)
}

func saveCredential(serverURL, apiKey, network string) error {
	creds, err := loadCredentials()
	if err != nil {
		if os.IsNotExist(err) {
			creds = &Credentials{Servers: make(map[string]ServerCredential)}
		} else {
			return err
		}
	}

	creds.Servers[normalizeServerURL(serverURL)] = ServerCredential{APIKey: apiKey, Network: network}
	return writeCredentials(creds)
}

func getCredential(serverURL string) string {
	if cred, ok := lookupCredential(serverURL); ok {
		return cred.APIKey
	}
	return ""
}

func lookupCredential(serverURL string) (ServerCredential, bool) {
	creds, err := loadCredentials()
	if err != nil {
		return ServerCredential{}, false
	}
	cred, ok := creds.Servers[normalizeServerURL(serverURL)]
	return cred, ok
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
