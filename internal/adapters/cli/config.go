package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alanli-ML/ai-rts-sub008/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect daemon configuration",
		Long: `Inspect the daemon configuration the CLI environment resolves.

Configuration is loaded from multiple sources with priority:
1. Environment variables (RTS_* prefix)
2. Config file (config.yaml)
3. Default values

Example:
  rts config show`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Display the configuration the daemon would load in this environment.

Example:
  rts config show --config ./configs/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			fmt.Println("DAEMON CONFIGURATION")
			fmt.Printf("  Database:          %s\n", cfg.Database.Type)
			if cfg.Database.URL != "" {
				fmt.Printf("  Database URL:      %s\n", redactDatabaseURL(cfg.Database.URL))
			}
			if cfg.Database.Type == "sqlite" {
				fmt.Printf("  Database Path:     %s\n", cfg.Database.Path)
			}
			fmt.Printf("  Gateway:           %s%s\n", cfg.Gateway.Address, cfg.Gateway.Path)
			fmt.Printf("  Max Clients:       %d\n", cfg.Gateway.MaxClients)
			fmt.Printf("  Tick Interval:     %s\n", cfg.Simulation.TickInterval)
			fmt.Printf("  Teams:             %v\n", cfg.Economy.Teams)
			fmt.Printf("  Starting Energy:   %.0f\n", cfg.Economy.StartingEnergy)
			fmt.Printf("  Starting Minerals: %.0f\n", cfg.Economy.StartingMinerals)
			fmt.Printf("  Persist Interval:  %s\n", cfg.Economy.PersistInterval)
			fmt.Printf("  Metrics Enabled:   %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Metrics Endpoint:  %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}
			fmt.Printf("  Log Level:         %s\n", cfg.Logging.Level)
			fmt.Printf("  PID File:          %s\n", cfg.Daemon.PIDFile)
			if len(cfg.Balance.Buildings) > 0 {
				fmt.Printf("  Balance Overrides: %d building types\n", len(cfg.Balance.Buildings))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")

	return cmd
}

// redactDatabaseURL hides credentials in a connection string
func redactDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}
