package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
)

// displayStatus renders a snapshot's lifecycle state for humans
func displayStatus(b building.Snapshot) string {
	switch {
	case b.Health <= 0:
		return "destroyed"
	case !b.IsConstructed:
		return fmt.Sprintf("constructing %3.0f%%", b.ConstructionProgress*100)
	case b.IsActive:
		return "active"
	default:
		return "inactive"
	}
}

// formatRate renders a power rate with its sign
func formatRate(rate float64) string {
	if rate == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.1f/s", rate)
}

// printBuilding prints one structure in detail
func printBuilding(b building.Snapshot) {
	fmt.Printf("  ID:           %s\n", b.ID)
	fmt.Printf("  Type:         %s\n", b.Type)
	fmt.Printf("  Team:         %d\n", b.TeamID)
	fmt.Printf("  Status:       %s\n", displayStatus(b))
	fmt.Printf("  Health:       %.0f/%.0f\n", b.Health, b.MaxHealth)
	fmt.Printf("  Position:     (%.1f, %.1f, %.1f)\n", b.Position[0], b.Position[1], b.Position[2])
	fmt.Printf("  Rotation:     %.0f°\n", b.RotationY)
	if b.PowerGeneration > 0 {
		fmt.Printf("  Generation:   %s\n", formatRate(b.PowerGeneration))
	}
	if b.PowerConsumption > 0 {
		fmt.Printf("  Consumption:  %s\n", formatRate(-b.PowerConsumption))
	}
}

// printBuildingTable prints structures as an aligned table
func printBuildingTable(buildings []building.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTEAM\tSTATUS\tHEALTH\tPOSITION")
	for _, b := range buildings {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.0f/%.0f\t(%.1f, %.1f, %.1f)\n",
			b.ID, b.Type, b.TeamID, displayStatus(b),
			b.Health, b.MaxHealth,
			b.Position[0], b.Position[1], b.Position[2])
	}
	w.Flush()
	fmt.Printf("\nTotal: %d structures\n", len(buildings))
}

// printEventLog prints persisted lifecycle entries, newest first
func printEventLog(entries []building.EventLogEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if verbose {
		fmt.Fprintln(w, "TIME\tEVENT\tBUILDING\tTEAM\tDETAIL")
	} else {
		fmt.Fprintln(w, "TIME\tEVENT\tBUILDING\tTEAM")
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Kind, e.BuildingID, e.TeamID)
		if verbose {
			fmt.Fprintf(w, "\t%s", formatPayload(e.Payload))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	fmt.Printf("\nTotal: %d events\n", len(entries))
}

// formatPayload renders an event payload as compact JSON
func formatPayload(payload map[string]interface{}) string {
	if len(payload) == 0 {
		return "-"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "-"
	}
	return string(data)
}

// printTeamEconomy prints one team's stocks and rates
func printTeamEconomy(team appEconomy.TeamEconomySnapshot) {
	fmt.Printf("TEAM %d ECONOMY\n", team.TeamID)
	fmt.Printf("  Generators: %d  Consumers: %d\n\n", team.GeneratorCount, team.ConsumerCount)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  RESOURCE\tSTOCK\tGENERATION\tCONSUMPTION\tNET")
	for _, kind := range sortedResourceKinds(team.Stocks) {
		fmt.Fprintf(w, "  %s\t%.1f\t%s\t%s\t%s\n",
			kind,
			team.Stocks[kind],
			formatRate(team.GenerationRates[kind]),
			formatRate(-team.ConsumptionRates[kind]),
			formatRate(team.NetRates[kind]))
	}
	w.Flush()
}

// sortedResourceKinds returns stock keys in stable order
func sortedResourceKinds(stocks map[economy.ResourceKind]float64) []economy.ResourceKind {
	kinds := make([]economy.ResourceKind, 0, len(stocks))
	for kind := range stocks {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
