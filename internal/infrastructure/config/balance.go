package config

// BalanceConfig carries optional per-archetype tuning applied on top of the
// built-in building catalog at startup
type BalanceConfig struct {
	// Keyed by archetype name, e.g. "POWER_SPIRE"
	Buildings map[string]BuildingBalance `mapstructure:"buildings"`
}

// BuildingBalance overrides individual balance values for one archetype.
// Nil fields keep the catalog default.
type BuildingBalance struct {
	MaxHealth        *float64 `mapstructure:"max_health" validate:"omitempty,gt=0"`
	ConstructionTime *float64 `mapstructure:"construction_time" validate:"omitempty,gt=0"`
	ConstructionCost *int     `mapstructure:"construction_cost" validate:"omitempty,min=0"`
	PowerGeneration  *float64 `mapstructure:"power_generation" validate:"omitempty,min=0"`
	PowerConsumption *float64 `mapstructure:"power_consumption" validate:"omitempty,min=0"`
	PlacementRadius  *float64 `mapstructure:"placement_radius" validate:"omitempty,gt=0"`
}
