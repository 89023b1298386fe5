package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/gateway"
)

// NewBuildingCommand creates the building command with subcommands
func NewBuildingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "building",
		Short: "Building lifecycle operations",
		Long: `Place, damage, demolish and inspect structures on the battlefield.

Placement charges the owning team's mineral stock and starts server-side
construction. Completed structures activate automatically and feed their
power rates into the team economy.

Building types:
  POWER_SPIRE    - Energy generator
  DEFENSE_TOWER  - Energy consumer, defensive
  RELAY_PAD      - Energy consumer, logistics

Examples:
  rts building place --type POWER_SPIRE --team 1 --x 24 --z -8
  rts building damage power-spire-a1b2c3d4 --amount 150
  rts building demolish power-spire-a1b2c3d4
  rts building deactivate defense-tower-e5f6a7b8
  rts building list --team 1
  rts building inspect power-spire-a1b2c3d4
  rts building history --team 1 --limit 20
  rts building can-place --type RELAY_PAD --x 10 --z 30`,
	}

	// Add subcommands
	cmd.AddCommand(newBuildingPlaceCommand())
	cmd.AddCommand(newBuildingDamageCommand())
	cmd.AddCommand(newBuildingDemolishCommand())
	cmd.AddCommand(newBuildingActivateCommand())
	cmd.AddCommand(newBuildingDeactivateCommand())
	cmd.AddCommand(newBuildingSelectCommand())
	cmd.AddCommand(newBuildingDeselectCommand())
	cmd.AddCommand(newBuildingListCommand())
	cmd.AddCommand(newBuildingInspectCommand())
	cmd.AddCommand(newBuildingHistoryCommand())
	cmd.AddCommand(newBuildingCanPlaceCommand())

	return cmd
}

// newBuildingPlaceCommand creates the building place subcommand
func newBuildingPlaceCommand() *cobra.Command {
	var (
		buildingType string
		teamID       int
		owner        string
		buildingID   string
		x, y, z      float64
		rotation     float64
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place a new structure",
		Long: `Place a new structure at a grid position.

The owning team pays the type's mineral cost up front. Placement fails if
the team cannot afford it or the footprint overlaps an existing structure.

Example:
  rts building place --type POWER_SPIRE --team 1 --x 24 --z -8 --rotation 90`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			placed, err := client.PlaceBuilding(ctx, gateway.PlaceBuildingParams{
				BuildingID:    buildingID,
				BuildingType:  buildingType,
				TeamID:        teamID,
				OwnerPlayerID: owner,
				Position:      [3]float64{x, y, z},
				RotationY:     rotation,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Placed %s\n", placed.ID)
			printBuilding(placed)
			return nil
		},
	}

	cmd.Flags().StringVar(&buildingType, "type", "", "Building type [required]")
	cmd.Flags().IntVar(&teamID, "team", 0, "Owning team ID [required]")
	cmd.Flags().StringVar(&owner, "owner", "", "Owning player ID")
	cmd.Flags().StringVar(&buildingID, "id", "", "Explicit building ID (generated if omitted)")
	cmd.Flags().Float64Var(&x, "x", 0, "Grid X coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "Grid Y coordinate")
	cmd.Flags().Float64Var(&z, "z", 0, "Grid Z coordinate")
	cmd.Flags().Float64Var(&rotation, "rotation", 0, "Y-axis rotation in degrees")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("team")

	return cmd
}

// newBuildingDamageCommand creates the building damage subcommand
func newBuildingDamageCommand() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "damage BUILDING_ID",
		Short: "Apply damage to a structure",
		Long: `Apply damage to a structure.

Health clamps at zero; a structure whose health reaches zero is destroyed
and removed from the grid after a short grace period.

Example:
  rts building damage power-spire-a1b2c3d4 --amount 150`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			result, err := client.DamageBuilding(ctx, args[0], amount)
			if err != nil {
				return err
			}

			if result.Destroyed {
				fmt.Printf("✗ %s destroyed\n", result.Building.ID)
			} else {
				fmt.Printf("✓ %s at %.0f/%.0f health\n",
					result.Building.ID, result.Building.Health, result.Building.MaxHealth)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Damage amount [required]")
	cmd.MarkFlagRequired("amount")

	return cmd
}

// newBuildingDemolishCommand creates the building demolish subcommand
func newBuildingDemolishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demolish BUILDING_ID",
		Short: "Demolish a structure",
		Long: `Demolish a structure regardless of its remaining health.

Demolition runs the same destruction path as lethal damage: rates
unregister, subscribers are notified and the wreck is removed after the
grace period.

Example:
  rts building demolish power-spire-a1b2c3d4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			demolished, err := client.DemolishBuilding(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("✗ %s demolished\n", demolished.ID)
			return nil
		},
	}

	return cmd
}

// newBuildingActivateCommand creates the building activate subcommand
func newBuildingActivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate BUILDING_ID",
		Short: "Activate a constructed structure",
		Long: `Activate a constructed structure so its power rates count again.

Example:
  rts building activate defense-tower-e5f6a7b8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetActive(args[0], true)
		},
	}

	return cmd
}

// newBuildingDeactivateCommand creates the building deactivate subcommand
func newBuildingDeactivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate BUILDING_ID",
		Short: "Deactivate a structure",
		Long: `Deactivate a structure, removing its power rates from the team economy.

Example:
  rts building deactivate defense-tower-e5f6a7b8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetActive(args[0], false)
		},
	}

	return cmd
}

// runSetActive executes activate and deactivate
func runSetActive(buildingID string, active bool) error {
	client, err := connectDaemon()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updated, err := client.SetBuildingActive(ctx, buildingID, active)
	if err != nil {
		return err
	}

	state := "deactivated"
	if updated.IsActive {
		state = "activated"
	}
	fmt.Printf("✓ %s %s\n", updated.ID, state)
	return nil
}

// newBuildingSelectCommand creates the building select subcommand
func newBuildingSelectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select BUILDING_ID",
		Short: "Select a structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			selected, err := client.SelectBuilding(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("✓ %s selected\n", selected.ID)
			printBuilding(selected)
			return nil
		},
	}

	return cmd
}

// newBuildingDeselectCommand creates the building deselect subcommand
func newBuildingDeselectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deselect BUILDING_ID",
		Short: "Deselect a structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			deselected, err := client.DeselectBuilding(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("✓ %s deselected\n", deselected.ID)
			return nil
		},
	}

	return cmd
}

// newBuildingListCommand creates the building list subcommand
func newBuildingListCommand() *cobra.Command {
	var teamID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List structures",
		Long: `List structures in placement order, optionally filtered to one team.

Examples:
  rts building list
  rts building list --team 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			var filter *int
			if cmd.Flags().Changed("team") {
				filter = &teamID
			}

			buildings, err := client.ListBuildings(ctx, filter)
			if err != nil {
				return err
			}

			if len(buildings) == 0 {
				fmt.Println("No structures placed")
				return nil
			}
			printBuildingTable(buildings)
			return nil
		},
	}

	cmd.Flags().IntVar(&teamID, "team", 0, "Filter by team ID")

	return cmd
}

// newBuildingInspectCommand creates the building inspect subcommand
func newBuildingInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect BUILDING_ID",
		Short: "Show one structure in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			b, err := client.GetBuilding(ctx, args[0])
			if err != nil {
				return err
			}

			printBuilding(b)
			return nil
		},
	}

	return cmd
}

// newBuildingHistoryCommand creates the building history subcommand
func newBuildingHistoryCommand() *cobra.Command {
	var (
		teamID int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history [BUILDING_ID]",
		Short: "Show the persisted lifecycle log",
		Long: `Show persisted lifecycle events for one structure or one team, newest
first. The log survives daemon restarts, so destroyed structures keep
their history.

Examples:
  rts building history power-spire-a1b2c3d4
  rts building history --team 1 --limit 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var buildingID string
			if len(args) == 1 {
				buildingID = args[0]
			}
			if buildingID != "" && teamID != 0 {
				return fmt.Errorf("provide a building ID or --team, not both")
			}
			if buildingID == "" && teamID == 0 {
				return fmt.Errorf("provide a building ID or --team")
			}

			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			entries, err := client.BuildingEvents(ctx, buildingID, teamID, limit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No events recorded")
				return nil
			}
			printEventLog(entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&teamID, "team", 0, "Show events for every structure of this team")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to return (daemon default if 0)")

	return cmd
}

// newBuildingCanPlaceCommand creates the building can-place subcommand
func newBuildingCanPlaceCommand() *cobra.Command {
	var (
		buildingType string
		x, y, z      float64
	)

	cmd := &cobra.Command{
		Use:   "can-place",
		Short: "Preview whether a position is free",
		Long: `Check placement without spending resources or mutating the world.

Example:
  rts building can-place --type RELAY_PAD --x 10 --z 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			canPlace, err := client.CanPlaceBuilding(ctx, buildingType, [3]float64{x, y, z})
			if err != nil {
				return err
			}

			if canPlace {
				fmt.Printf("✓ %s fits at (%.1f, %.1f, %.1f)\n", buildingType, x, y, z)
			} else {
				fmt.Printf("✗ position (%.1f, %.1f, %.1f) is blocked\n", x, y, z)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&buildingType, "type", "", "Building type [required]")
	cmd.Flags().Float64Var(&x, "x", 0, "Grid X coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "Grid Y coordinate")
	cmd.Flags().Float64Var(&z, "z", 0, "Grid Z coordinate")
	cmd.MarkFlagRequired("type")

	return cmd
}
