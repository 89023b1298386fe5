package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	gatewayAddr string
	gatewayPath string
	verbose     bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rts",
		Short: "RTS CLI - Interact with the battle simulation daemon",
		Long: `RTS CLI provides commands to inspect and drive the battle simulation.
The CLI communicates with the daemon over its websocket gateway.

Examples:
  rts building place --type POWER_SPIRE --team 1 --x 24 --z -8
  rts building damage power-spire-a1b2c3d4 --amount 150
  rts building list --team 1
  rts economy show --team 1
  rts watch
  rts status`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&gatewayAddr, "gateway", getDefaultGatewayAddr(),
		"Daemon gateway address (host:port)")
	rootCmd.PersistentFlags().StringVar(&gatewayPath, "path", getDefaultGatewayPath(),
		"Daemon gateway websocket path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewBuildingCommand())
	rootCmd.AddCommand(NewEconomyCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// getDefaultGatewayAddr returns the default gateway address
func getDefaultGatewayAddr() string {
	if addr := os.Getenv("RTS_GATEWAY_ADDRESS"); addr != "" {
		return addr
	}
	return "127.0.0.1:7777"
}

// getDefaultGatewayPath returns the default gateway websocket path
func getDefaultGatewayPath() string {
	if path := os.Getenv("RTS_GATEWAY_PATH"); path != "" {
		return path
	}
	return "/ws"
}

// connectDaemon dials the gateway using the global flags
func connectDaemon() (*DaemonClient, error) {
	client, err := NewDaemonClient(gatewayAddr, gatewayPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return client, nil
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
