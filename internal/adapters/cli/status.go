package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check daemon status",
		Long:  `Verify that the daemon is running and summarize the world it drives.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			buildings, err := client.ListBuildings(ctx, nil)
			if err != nil {
				return fmt.Errorf("status check failed: %w", err)
			}
			teams, err := client.ListTeamEconomies(ctx)
			if err != nil {
				return fmt.Errorf("status check failed: %w", err)
			}

			var constructing, active, inactive int
			for _, b := range buildings {
				switch {
				case !b.IsConstructed:
					constructing++
				case b.IsActive:
					active++
				default:
					inactive++
				}
			}

			fmt.Println("✓ Daemon is running")
			fmt.Printf("  Gateway:     %s\n", gatewayAddr)
			fmt.Printf("  Teams:       %d\n", len(teams))
			fmt.Printf("  Structures:  %d total (%d constructing, %d active, %d inactive)\n",
				len(buildings), constructing, active, inactive)

			return nil
		},
	}

	return cmd
}
