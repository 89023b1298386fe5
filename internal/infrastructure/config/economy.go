package config

import "time"

// EconomyConfig holds team provisioning and resource seeding configuration
type EconomyConfig struct {
	// Teams provisioned with a ledger account at startup
	Teams []int `mapstructure:"teams" validate:"min=1,dive,min=0"`

	// Opening balances for each provisioned team
	StartingEnergy   float64 `mapstructure:"starting_energy" validate:"min=0"`
	StartingMinerals float64 `mapstructure:"starting_minerals" validate:"min=0"`

	// How often team stocks are flushed to the database (0 disables the
	// periodic flush; stocks are still persisted on shutdown)
	PersistInterval time.Duration `mapstructure:"persist_interval"`
}
