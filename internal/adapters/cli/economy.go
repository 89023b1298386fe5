package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewEconomyCommand creates the economy command with subcommands
func NewEconomyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "economy",
		Short: "Team resource economy reports",
		Long: `View team resource stocks and the power rates feeding them.

Stocks accrue continuously at each team's net rate: active generators add,
active consumers drain, and energy clamps at zero rather than going
negative.

Examples:
  rts economy show --team 1
  rts economy list`,
	}

	// Add subcommands
	cmd.AddCommand(newEconomyShowCommand())
	cmd.AddCommand(newEconomyListCommand())

	return cmd
}

// newEconomyShowCommand creates the economy show subcommand
func newEconomyShowCommand() *cobra.Command {
	var teamID int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one team's stocks and rates",
		Long: `Show one team's resource stocks, rate totals and source counts.

Example:
  rts economy show --team 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			team, err := client.TeamEconomy(ctx, teamID)
			if err != nil {
				return err
			}

			printTeamEconomy(team)
			return nil
		},
	}

	cmd.Flags().IntVar(&teamID, "team", 0, "Team ID [required]")
	cmd.MarkFlagRequired("team")

	return cmd
}

// newEconomyListCommand creates the economy list subcommand
func newEconomyListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show every team's economy",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			teams, err := client.ListTeamEconomies(ctx)
			if err != nil {
				return err
			}

			for i, team := range teams {
				if i > 0 {
					fmt.Println()
				}
				printTeamEconomy(team)
			}
			return nil
		},
	}

	return cmd
}
