package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	server  string
	apiKey  string
)

// Execute runs the CLI
func Execute(version string) error {
	rootCmd := &cobra.Command{
		Use:     "mintdesk",
		Short:   "Token deployment registry CLI",
		Long:    `Mintdesk is a CLI for recording, inspecting, and sharing token deployments and their metadata.`,
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: mintdesk.toml or md.toml)")
	rootCmd.PersistentFlags().StringVar(&server, "server", "", "server URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")

	// Add subcommands
	rootCmd.AddCommand(createShowCmd())
	rootCmd.AddCommand(createRecordCmd())
	rootCmd.AddCommand(createListCmd())
	rootCmd.AddCommand(createMetadataCmd())
	rootCmd.AddCommand(createWatchCmd())
	rootCmd.AddCommand(createShareCmd())
	rootCmd.AddCommand(createNetworksCmd())
	rootCmd.AddCommand(createAuthCmd())
	rootCmd.AddCommand(createConfigCmd())

	return rootCmd.Execute()
}

// getServer returns the server URL from flag, env, config file, or credentials
func getServer() string {
	// 1. Command line flag
	if server != "" {
		return server
	}

	// 2. Environment variable
	if env := os.Getenv("MINTDESK_SERVER"); env != "" {
		return env
	}

	// 3. Project config file (TOML)
	if config := loadProjectConfigSilent(); config != nil && config.Server != "" {
		return config.Server
	}

	// 4. Default
	return "http://localhost:8080"
}

// getAPIKey returns the API key from flag, env, config, or credentials file
func getAPIKey() string {
	// 1. Command line flag
	if apiKey != "" {
		return apiKey
	}

	// 2. Environment variable
	if env := os.Getenv("MINTDESK_API_KEY"); env != "" {
		return env
	}

	// 3. Credentials file (keyed by server URL)
	serverURL := getServer()
	if cred := getCredential(serverURL); cred != "" {
		return cred
	}

	return ""
}

// getWalletRPC returns the wallet RPC endpoint from flag value, env, or project config.
// An empty return means no wallet provider is configured.
func getWalletRPC(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("MINTDESK_WALLET_RPC"); env != "" {
		return env
	}
	if config := loadProjectConfigSilent(); config != nil && config.WalletRPC != "" {
		return config.WalletRPC
	}
	return ""
}

// getDefaultNetwork returns the network from project config, falling
// back to the one saved at login for the current server.
func getDefaultNetwork() string {
	if config := loadProjectConfigSilent(); config != nil && config.Network != "" {
		return config.Network
	}
	if cred, ok := lookupCredential(getServer()); ok {
		return cred.Network
	}
	return ""
}
