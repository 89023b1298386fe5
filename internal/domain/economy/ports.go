package economy

import "context"

// RateSource is anything that contributes continuous resource flow to a team.
// Operational buildings implement this; a source whose building is inactive
// reports empty rate maps, so roster membership alone never moves stocks.
type RateSource interface {
	SourceID() string
	GenerationRates() RateMap
	ConsumptionRates() RateMap
}

// Ledger is the team resource economy consumed by the building lifecycle.
// Registration is idempotent per source: a duplicate register or an
// unregister for an unknown source is a safe no-op, never a fault.
type Ledger interface {
	RegisterGenerator(teamID int, source RateSource)
	RegisterConsumer(teamID int, source RateSource)
	UnregisterGenerator(teamID int, source RateSource)
	UnregisterConsumer(teamID int, source RateSource)

	// HasSufficientResources reports whether the team can afford the cost
	// without spending anything
	HasSufficientResources(teamID int, cost CostMap) bool

	// ConsumeResources atomically deducts the cost if affordable.
	// Returns false and leaves stocks untouched otherwise.
	ConsumeResources(teamID int, cost CostMap) bool
}

// StockRepository persists team stock balances across daemon restarts
type StockRepository interface {
	SaveStocks(ctx context.Context, teamID int, stocks map[ResourceKind]float64) error
	LoadAllStocks(ctx context.Context) (map[int]map[ResourceKind]float64, error)
}
