package config

import "time"

// SimulationConfig holds the simulation loop configuration
type SimulationConfig struct {
	// Wall-clock interval between world ticks
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`
}
