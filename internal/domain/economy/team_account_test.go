package economy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
)

// stubSource is a fixed-rate RateSource for roster tests
type stubSource struct {
	id          string
	generation  economy.RateMap
	consumption economy.RateMap
}

func (s *stubSource) SourceID() string                 { return s.id }
func (s *stubSource) GenerationRates() economy.RateMap { return s.generation }
func (s *stubSource) ConsumptionRates() economy.RateMap {
	return s.consumption
}

func generatorOf(id string, energyPerSecond float64) *stubSource {
	return &stubSource{
		id:         id,
		generation: economy.RateMap{economy.ResourceEnergy: energyPerSecond},
	}
}

func consumerOf(id string, energyPerSecond float64) *stubSource {
	return &stubSource{
		id:          id,
		consumption: economy.RateMap{economy.ResourceEnergy: energyPerSecond},
	}
}

func TestTeamAccount_StartingStocks(t *testing.T) {
	account := economy.NewTeamAccount(1, map[economy.ResourceKind]float64{
		economy.ResourceMinerals: 500,
	})

	assert.Equal(t, 500.0, account.Stock(economy.ResourceMinerals))
	assert.Equal(t, 0.0, account.Stock(economy.ResourceEnergy))
}

func TestTeamAccount_RegisterGeneratorIsIdempotent(t *testing.T) {
	account := economy.NewTeamAccount(1, nil)
	source := generatorOf("spire-1", 50)

	assert.True(t, account.RegisterGenerator(source))
	assert.False(t, account.RegisterGenerator(source), "duplicate register must be a no-op")
	assert.Equal(t, 1, account.GeneratorCount())

	assert.Equal(t, 50.0, account.GenerationRates()[economy.ResourceEnergy])
}

func TestTeamAccount_UnregisterUnknownSourceIsNoOp(t *testing.T) {
	account := economy.NewTeamAccount(1, nil)

	assert.False(t, account.UnregisterGenerator("never-registered"))
	assert.False(t, account.UnregisterConsumer("never-registered"))
	assert.Equal(t, 0, account.GeneratorCount())
	assert.Equal(t, 0, account.ConsumerCount())
}

func TestTeamAccount_NetRates(t *testing.T) {
	account := economy.NewTeamAccount(1, nil)
	account.RegisterGenerator(generatorOf("spire-1", 50))
	account.RegisterGenerator(generatorOf("spire-2", 50))
	account.RegisterConsumer(consumerOf("tower-1", 10))

	net := account.NetRates()
	assert.Equal(t, 90.0, net[economy.ResourceEnergy])

	require.True(t, account.UnregisterGenerator("spire-2"))
	assert.Equal(t, 40.0, account.NetRates()[economy.ResourceEnergy])
}

func TestTeamAccount_ConsumeIsAllOrNothing(t *testing.T) {
	account := economy.NewTeamAccount(1, map[economy.ResourceKind]float64{
		economy.ResourceMinerals: 100,
		economy.ResourceEnergy:   10,
	})

	cost := economy.CostMap{
		economy.ResourceMinerals: 50,
		economy.ResourceEnergy:   20, // short by 10
	}

	assert.False(t, account.HasSufficient(cost))
	assert.False(t, account.Consume(cost))
	assert.Equal(t, 100.0, account.Stock(economy.ResourceMinerals), "partial deduction must not happen")

	affordable := economy.CostMap{economy.ResourceMinerals: 100}
	assert.True(t, account.Consume(affordable))
	assert.Equal(t, 0.0, account.Stock(economy.ResourceMinerals))
	assert.False(t, account.Consume(affordable), "empty stock cannot be spent again")
}

func TestTeamAccount_AccrueFloorsAtZero(t *testing.T) {
	account := economy.NewTeamAccount(1, map[economy.ResourceKind]float64{
		economy.ResourceEnergy: 5,
	})
	account.RegisterConsumer(consumerOf("tower-1", 10))

	account.Accrue(2.0) // drain of 20 against stock of 5

	assert.Equal(t, 0.0, account.Stock(economy.ResourceEnergy))
}

func TestTeamAccount_AccrueAppliesNetRateOverInterval(t *testing.T) {
	account := economy.NewTeamAccount(1, nil)
	account.RegisterGenerator(generatorOf("spire-1", 50))
	account.RegisterConsumer(consumerOf("tower-1", 10))

	account.Accrue(0.5)

	assert.InDelta(t, 20.0, account.Stock(economy.ResourceEnergy), 1e-9)
}

func TestTeamAccount_InactiveSourceContributesZero(t *testing.T) {
	account := economy.NewTeamAccount(1, nil)
	source := &stubSource{id: "spire-1", generation: economy.RateMap{}}
	account.RegisterGenerator(source)

	account.Accrue(10)

	assert.Equal(t, 0.0, account.Stock(economy.ResourceEnergy))
	assert.Equal(t, 1, account.GeneratorCount(), "roster membership is independent of live rate")
}
