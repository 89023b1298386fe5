package economy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
)

type stubSource struct {
	id          string
	generation  economy.RateMap
	consumption economy.RateMap
}

func (s *stubSource) SourceID() string                  { return s.id }
func (s *stubSource) GenerationRates() economy.RateMap  { return s.generation }
func (s *stubSource) ConsumptionRates() economy.RateMap { return s.consumption }

func generatorOf(id string, rate float64) *stubSource {
	return &stubSource{id: id, generation: economy.RateMap{economy.ResourceEnergy: rate}}
}

func consumerOf(id string, rate float64) *stubSource {
	return &stubSource{id: id, consumption: economy.RateMap{economy.ResourceEnergy: rate}}
}

func newLedger() *appEconomy.LedgerService {
	return appEconomy.NewLedgerService([]int{1, 2}, map[economy.ResourceKind]float64{
		economy.ResourceEnergy:   1000,
		economy.ResourceMinerals: 500,
	})
}

func TestLedgerService_SeedsTeamsWithStartingStocks(t *testing.T) {
	// Arrange & Act
	ledger := newLedger()

	// Assert
	assert.Equal(t, []int{1, 2}, ledger.TeamIDs())

	snapshot, err := ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, snapshot.Stocks[economy.ResourceEnergy])
	assert.Equal(t, 500.0, snapshot.Stocks[economy.ResourceMinerals])
	assert.Equal(t, 0, snapshot.GeneratorCount)
	assert.Equal(t, 0, snapshot.ConsumerCount)
}

func TestLedgerService_UnknownTeamIsSafe(t *testing.T) {
	// Arrange
	ledger := newLedger()
	cost := economy.CostMap{economy.ResourceMinerals: 10}

	// Act & Assert - unknown teams afford nothing and queries fail explicitly
	assert.False(t, ledger.HasSufficientResources(99, cost))
	assert.False(t, ledger.ConsumeResources(99, cost))

	_, err := ledger.TeamEconomy(99)
	assert.ErrorContains(t, err, "unknown team: 99")

	// Registration against an unknown team is a no-op, not a panic
	ledger.RegisterGenerator(99, generatorOf("bld-1", 50))
	ledger.UnregisterGenerator(99, generatorOf("bld-1", 50))
}

func TestLedgerService_RegistrationRollsUpLiveRates(t *testing.T) {
	// Arrange
	ledger := newLedger()

	// Act
	ledger.RegisterGenerator(1, generatorOf("bld-1", 50))
	ledger.RegisterGenerator(1, generatorOf("bld-2", 50))
	ledger.RegisterConsumer(1, consumerOf("bld-3", 10))

	// Assert
	snapshot, err := ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.GeneratorCount)
	assert.Equal(t, 1, snapshot.ConsumerCount)
	assert.Equal(t, 100.0, snapshot.GenerationRates[economy.ResourceEnergy])
	assert.Equal(t, 10.0, snapshot.ConsumptionRates[economy.ResourceEnergy])
	assert.Equal(t, 90.0, snapshot.NetRates[economy.ResourceEnergy])

	// Rosters are team-scoped
	other, err := ledger.TeamEconomy(2)
	require.NoError(t, err)
	assert.Equal(t, 0, other.GeneratorCount)
}

func TestLedgerService_DuplicateRegistrationIsNoOp(t *testing.T) {
	// Arrange
	ledger := newLedger()
	source := generatorOf("bld-1", 50)

	// Act
	ledger.RegisterGenerator(1, source)
	ledger.RegisterGenerator(1, source)

	// Assert
	snapshot, err := ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.GeneratorCount)
	assert.Equal(t, 50.0, snapshot.GenerationRates[economy.ResourceEnergy])
}

func TestLedgerService_UnregisterStopsContribution(t *testing.T) {
	// Arrange
	ledger := newLedger()
	source := generatorOf("bld-1", 50)
	ledger.RegisterGenerator(1, source)

	// Act
	ledger.UnregisterGenerator(1, source)
	ledger.UnregisterGenerator(1, source)

	// Assert
	snapshot, err := ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.GeneratorCount)
	assert.Empty(t, snapshot.GenerationRates)
}

func TestLedgerService_ConsumeIsAllOrNothing(t *testing.T) {
	// Arrange
	ledger := newLedger()

	// Act & Assert - unaffordable cost leaves every stock untouched
	tooMuch := economy.CostMap{economy.ResourceMinerals: 600}
	assert.False(t, ledger.ConsumeResources(1, tooMuch))

	snapshot, _ := ledger.TeamEconomy(1)
	assert.Equal(t, 500.0, snapshot.Stocks[economy.ResourceMinerals])

	// Affordable cost deducts exactly once
	assert.True(t, ledger.ConsumeResources(1, economy.CostMap{economy.ResourceMinerals: 150}))
	snapshot, _ = ledger.TeamEconomy(1)
	assert.Equal(t, 350.0, snapshot.Stocks[economy.ResourceMinerals])
}

func TestLedgerService_AccrueAppliesNetRatePerTeam(t *testing.T) {
	// Arrange
	ledger := newLedger()
	ledger.RegisterGenerator(1, generatorOf("bld-1", 50))
	ledger.RegisterConsumer(1, consumerOf("bld-2", 10))
	ledger.RegisterConsumer(2, consumerOf("bld-3", 40))

	// Act - half-second tick
	ledger.Accrue(0.5)

	// Assert
	team1, _ := ledger.TeamEconomy(1)
	assert.InDelta(t, 1020.0, team1.Stocks[economy.ResourceEnergy], 1e-9)

	team2, _ := ledger.TeamEconomy(2)
	assert.InDelta(t, 980.0, team2.Stocks[economy.ResourceEnergy], 1e-9)
}

func TestLedgerService_RestoreStocksOverwritesKnownTeams(t *testing.T) {
	// Arrange
	ledger := newLedger()

	// Act
	ledger.RestoreStocks(map[int]map[economy.ResourceKind]float64{
		1:  {economy.ResourceEnergy: 250},
		99: {economy.ResourceEnergy: 777},
	})

	// Assert
	snapshot, _ := ledger.TeamEconomy(1)
	assert.Equal(t, 250.0, snapshot.Stocks[economy.ResourceEnergy])
	assert.Equal(t, 500.0, snapshot.Stocks[economy.ResourceMinerals])

	_, err := ledger.TeamEconomy(99)
	assert.Error(t, err)
}

type recordingStockRepo struct {
	saved map[int]map[economy.ResourceKind]float64
}

func (r *recordingStockRepo) SaveStocks(ctx context.Context, teamID int, stocks map[economy.ResourceKind]float64) error {
	if r.saved == nil {
		r.saved = make(map[int]map[economy.ResourceKind]float64)
	}
	r.saved[teamID] = stocks
	return nil
}

func (r *recordingStockRepo) LoadAllStocks(ctx context.Context) (map[int]map[economy.ResourceKind]float64, error) {
	return r.saved, nil
}

func TestLedgerService_PersistStocksWritesEveryTeam(t *testing.T) {
	// Arrange
	ledger := newLedger()
	repo := &recordingStockRepo{}

	// Act
	err := ledger.PersistStocks(context.Background(), repo)

	// Assert
	require.NoError(t, err)
	require.Len(t, repo.saved, 2)
	assert.Equal(t, 1000.0, repo.saved[1][economy.ResourceEnergy])
	assert.Equal(t, 500.0, repo.saved[2][economy.ResourceMinerals])
}
