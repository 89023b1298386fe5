package building

import (
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
)

// BuildingType identifies a structure archetype
type BuildingType string

const (
	// BuildingTypePowerSpire generates energy for its team while operational
	BuildingTypePowerSpire BuildingType = "POWER_SPIRE"

	// BuildingTypeDefenseTower drains energy while operational (targeting logic lives elsewhere)
	BuildingTypeDefenseTower BuildingType = "DEFENSE_TOWER"

	// BuildingTypeRelayPad drains energy while operational (teleport logic lives elsewhere)
	BuildingTypeRelayPad BuildingType = "RELAY_PAD"
)

// FallbackType is the archetype whose config is served for unknown type keys.
// Lookup never fails: a miss resolves here and is reported to the caller so it
// can be logged once at placement time.
const FallbackType = BuildingTypePowerSpire

// BuildingConfig holds the balance parameters for one archetype.
// Values are copied into each Building at creation, so later catalog
// changes never affect structures already placed.
type BuildingConfig struct {
	MaxHealth        float64 // hit points when fully built
	ConstructionTime float64 // seconds from start to completion
	ConstructionCost int     // minerals consumed at placement
	PowerGeneration  float64 // energy per second while operational
	PowerConsumption float64 // energy per second while operational
	PlacementRadius  float64 // overlap-check sphere radius in grid units
}

// Cost returns the placement cost as a resource mapping.
func (c BuildingConfig) Cost() economy.CostMap {
	if c.ConstructionCost <= 0 {
		return economy.CostMap{}
	}
	return economy.CostMap{economy.ResourceMinerals: c.ConstructionCost}
}

// IsValid reports whether the config satisfies the catalog constraints.
func (c BuildingConfig) IsValid() bool {
	return c.MaxHealth > 0 &&
		c.ConstructionTime > 0 &&
		c.ConstructionCost >= 0 &&
		c.PowerGeneration >= 0 &&
		c.PowerConsumption >= 0 &&
		c.PlacementRadius > 0
}

// ConfigOverride carries optional balance adjustments for one archetype.
// Nil fields keep the built-in default.
type ConfigOverride struct {
	MaxHealth        *float64
	ConstructionTime *float64
	ConstructionCost *int
	PowerGeneration  *float64
	PowerConsumption *float64
	PlacementRadius  *float64
}

func (o ConfigOverride) apply(base BuildingConfig) BuildingConfig {
	if o.MaxHealth != nil {
		base.MaxHealth = *o.MaxHealth
	}
	if o.ConstructionTime != nil {
		base.ConstructionTime = *o.ConstructionTime
	}
	if o.ConstructionCost != nil {
		base.ConstructionCost = *o.ConstructionCost
	}
	if o.PowerGeneration != nil {
		base.PowerGeneration = *o.PowerGeneration
	}
	if o.PowerConsumption != nil {
		base.PowerConsumption = *o.PowerConsumption
	}
	if o.PlacementRadius != nil {
		base.PlacementRadius = *o.PlacementRadius
	}
	return base
}

// Catalog is an immutable lookup from archetype to balance config.
// Safe to share across goroutines without synchronization once built.
type Catalog struct {
	entries map[BuildingType]BuildingConfig
}

// defaultEntries returns the built-in balance table.
func defaultEntries() map[BuildingType]BuildingConfig {
	return map[BuildingType]BuildingConfig{
		BuildingTypePowerSpire: {
			MaxHealth:        500,
			ConstructionTime: 30,
			ConstructionCost: 100,
			PowerGeneration:  50,
			PowerConsumption: 0,
			PlacementRadius:  2.5,
		},
		BuildingTypeDefenseTower: {
			MaxHealth:        400,
			ConstructionTime: 20,
			ConstructionCost: 150,
			PowerGeneration:  0,
			PowerConsumption: 10,
			PlacementRadius:  2.0,
		},
		BuildingTypeRelayPad: {
			MaxHealth:        300,
			ConstructionTime: 15,
			ConstructionCost: 75,
			PowerGeneration:  0,
			PowerConsumption: 5,
			PlacementRadius:  2.0,
		},
	}
}

// NewCatalog creates a catalog with the built-in balance table.
func NewCatalog() *Catalog {
	return &Catalog{entries: defaultEntries()}
}

// NewCatalogWithOverrides creates a catalog with per-type balance overrides
// applied on top of the built-in table. Overrides for unknown types are
// ignored, and overrides producing an invalid config fall back to the
// built-in entry for that type.
func NewCatalogWithOverrides(overrides map[BuildingType]ConfigOverride) *Catalog {
	entries := defaultEntries()
	for buildingType, override := range overrides {
		base, known := entries[buildingType]
		if !known {
			continue
		}
		adjusted := override.apply(base)
		if !adjusted.IsValid() {
			continue
		}
		entries[buildingType] = adjusted
	}
	return &Catalog{entries: entries}
}

// Lookup resolves the config for a type key. Unknown keys resolve to the
// fallback entry; usedFallback reports that so callers can log the miss.
// Lookup never fails.
func (c *Catalog) Lookup(typeKey BuildingType) (config BuildingConfig, usedFallback bool) {
	if entry, ok := c.entries[typeKey]; ok {
		return entry, false
	}
	return c.entries[FallbackType], true
}

// Types returns the known archetypes in a stable order.
func (c *Catalog) Types() []BuildingType {
	return []BuildingType{
		BuildingTypePowerSpire,
		BuildingTypeDefenseTower,
		BuildingTypeRelayPad,
	}
}
