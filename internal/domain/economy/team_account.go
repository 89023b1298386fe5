package economy

import "fmt"

// TeamAccount is the per-team resource aggregate: current stocks plus the
// rosters of registered rate sources. Stocks move only through Consume and
// Accrue; generation and consumption totals are always computed live from
// the rosters, never cached.
//
// Not safe for concurrent use. The application-layer ledger service owns
// the locking discipline.
type TeamAccount struct {
	teamID     int
	stocks     map[ResourceKind]float64
	generators map[string]RateSource
	consumers  map[string]RateSource
}

// NewTeamAccount creates an account with the given starting stocks.
// Missing kinds start at zero.
func NewTeamAccount(teamID int, starting map[ResourceKind]float64) *TeamAccount {
	stocks := make(map[ResourceKind]float64, len(Kinds()))
	for _, kind := range Kinds() {
		stocks[kind] = starting[kind]
	}
	return &TeamAccount{
		teamID:     teamID,
		stocks:     stocks,
		generators: make(map[string]RateSource),
		consumers:  make(map[string]RateSource),
	}
}

func (a *TeamAccount) TeamID() int { return a.teamID }

// Stock returns the current balance for one resource kind
func (a *TeamAccount) Stock(kind ResourceKind) float64 {
	return a.stocks[kind]
}

// Stocks returns a copy of all balances
func (a *TeamAccount) Stocks() map[ResourceKind]float64 {
	out := make(map[ResourceKind]float64, len(a.stocks))
	for kind, amount := range a.stocks {
		out[kind] = amount
	}
	return out
}

// SetStock overwrites a balance. Used when restoring persisted state.
func (a *TeamAccount) SetStock(kind ResourceKind, amount float64) {
	if amount < 0 {
		amount = 0
	}
	a.stocks[kind] = amount
}

// Roster management. Each source is keyed by its ID, so registering the
// same source twice leaves a single roster entry and unregistering an
// unknown source changes nothing.

func (a *TeamAccount) RegisterGenerator(source RateSource) bool {
	if source == nil {
		return false
	}
	if _, exists := a.generators[source.SourceID()]; exists {
		return false
	}
	a.generators[source.SourceID()] = source
	return true
}

func (a *TeamAccount) UnregisterGenerator(sourceID string) bool {
	if _, exists := a.generators[sourceID]; !exists {
		return false
	}
	delete(a.generators, sourceID)
	return true
}

func (a *TeamAccount) RegisterConsumer(source RateSource) bool {
	if source == nil {
		return false
	}
	if _, exists := a.consumers[source.SourceID()]; exists {
		return false
	}
	a.consumers[source.SourceID()] = source
	return true
}

func (a *TeamAccount) UnregisterConsumer(sourceID string) bool {
	if _, exists := a.consumers[sourceID]; !exists {
		return false
	}
	delete(a.consumers, sourceID)
	return true
}

func (a *TeamAccount) GeneratorCount() int { return len(a.generators) }
func (a *TeamAccount) ConsumerCount() int  { return len(a.consumers) }

// GenerationRates rolls up the live per-second output of all generators
func (a *TeamAccount) GenerationRates() RateMap {
	total := make(RateMap)
	for _, source := range a.generators {
		total.Add(source.GenerationRates())
	}
	return total
}

// ConsumptionRates rolls up the live per-second drain of all consumers
func (a *TeamAccount) ConsumptionRates() RateMap {
	total := make(RateMap)
	for _, source := range a.consumers {
		total.Add(source.ConsumptionRates())
	}
	return total
}

// NetRates returns generation minus consumption per resource kind
func (a *TeamAccount) NetRates() RateMap {
	net := a.GenerationRates()
	for kind, rate := range a.ConsumptionRates() {
		net[kind] -= rate
	}
	return net
}

// HasSufficient reports whether current stocks cover the cost
func (a *TeamAccount) HasSufficient(cost CostMap) bool {
	for kind, amount := range cost {
		if amount <= 0 {
			continue
		}
		if a.stocks[kind] < float64(amount) {
			return false
		}
	}
	return true
}

// Consume deducts the cost if affordable. All-or-nothing: when any
// component is short, no stock changes.
func (a *TeamAccount) Consume(cost CostMap) bool {
	if !a.HasSufficient(cost) {
		return false
	}
	for kind, amount := range cost {
		if amount <= 0 {
			continue
		}
		a.stocks[kind] -= float64(amount)
	}
	return true
}

// Accrue applies net rates over the elapsed interval. Stocks floor at
// zero: a team drawing more than it generates stalls rather than going
// into debt.
func (a *TeamAccount) Accrue(deltaSeconds float64) {
	if deltaSeconds <= 0 {
		return
	}
	for kind, rate := range a.NetRates() {
		next := a.stocks[kind] + rate*deltaSeconds
		if next < 0 {
			next = 0
		}
		a.stocks[kind] = next
	}
}

func (a *TeamAccount) String() string {
	return fmt.Sprintf("TeamAccount[team=%d, generators=%d, consumers=%d]",
		a.teamID, len(a.generators), len(a.consumers))
}
