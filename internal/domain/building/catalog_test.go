package building_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
)

func TestCatalog_LookupKnownType(t *testing.T) {
	// Arrange
	catalog := building.NewCatalog()

	// Act
	config, usedFallback := catalog.Lookup(building.BuildingTypeDefenseTower)

	// Assert
	assert.False(t, usedFallback)
	assert.Equal(t, 400.0, config.MaxHealth)
	assert.Equal(t, 20.0, config.ConstructionTime)
	assert.Equal(t, 150, config.ConstructionCost)
	assert.Equal(t, 0.0, config.PowerGeneration)
	assert.Equal(t, 10.0, config.PowerConsumption)
}

func TestCatalog_UnknownTypeResolvesToFallback(t *testing.T) {
	// Arrange
	catalog := building.NewCatalog()

	// Act
	config, usedFallback := catalog.Lookup(building.BuildingType("bunker"))

	// Assert - serves the PowerSpire entry, never an error
	assert.True(t, usedFallback)
	assert.Equal(t, 500.0, config.MaxHealth)
	assert.Equal(t, 30.0, config.ConstructionTime)
	assert.Equal(t, 50.0, config.PowerGeneration)
}

func TestCatalog_OverridesAdjustKnownTypes(t *testing.T) {
	// Arrange
	maxHealth := 800.0
	cost := 120
	catalog := building.NewCatalogWithOverrides(map[building.BuildingType]building.ConfigOverride{
		building.BuildingTypePowerSpire: {
			MaxHealth:        &maxHealth,
			ConstructionCost: &cost,
		},
	})

	// Act
	config, usedFallback := catalog.Lookup(building.BuildingTypePowerSpire)

	// Assert - overridden fields change, the rest keep their defaults
	assert.False(t, usedFallback)
	assert.Equal(t, 800.0, config.MaxHealth)
	assert.Equal(t, 120, config.ConstructionCost)
	assert.Equal(t, 30.0, config.ConstructionTime)
	assert.Equal(t, 50.0, config.PowerGeneration)
}

func TestCatalog_InvalidOverrideKeepsDefaults(t *testing.T) {
	// Arrange
	badTime := -5.0
	catalog := building.NewCatalogWithOverrides(map[building.BuildingType]building.ConfigOverride{
		building.BuildingTypeRelayPad: {ConstructionTime: &badTime},
	})

	// Act
	config, _ := catalog.Lookup(building.BuildingTypeRelayPad)

	// Assert
	assert.Equal(t, 15.0, config.ConstructionTime)
}

func TestCatalog_OverrideForUnknownTypeIsIgnored(t *testing.T) {
	// Arrange
	maxHealth := 999.0
	catalog := building.NewCatalogWithOverrides(map[building.BuildingType]building.ConfigOverride{
		building.BuildingType("bunker"): {MaxHealth: &maxHealth},
	})

	// Act - unknown keys still resolve to the untouched fallback entry
	config, usedFallback := catalog.Lookup(building.BuildingType("bunker"))

	// Assert
	assert.True(t, usedFallback)
	assert.Equal(t, 500.0, config.MaxHealth)
}

func TestBuildingConfig_Cost(t *testing.T) {
	// Arrange
	catalog := building.NewCatalog()
	config, _ := catalog.Lookup(building.BuildingTypePowerSpire)

	// Act
	cost := config.Cost()

	// Assert
	require.Len(t, cost, 1)
	assert.Equal(t, 100, cost[economy.ResourceMinerals])

	free := building.BuildingConfig{}.Cost()
	assert.True(t, free.IsFree())
}

func TestCatalog_TypesOrderIsStable(t *testing.T) {
	// Arrange
	catalog := building.NewCatalog()

	// Act
	types := catalog.Types()

	// Assert
	assert.Equal(t, []building.BuildingType{
		building.BuildingTypePowerSpire,
		building.BuildingTypeDefenseTower,
		building.BuildingTypeRelayPad,
	}, types)
}
