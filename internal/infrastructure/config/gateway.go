package config

import "time"

// GatewayConfig holds the websocket gateway configuration
type GatewayConfig struct {
	// TCP listen address for the websocket endpoint (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// HTTP path clients connect to
	Path string `mapstructure:"path"`

	// Maximum simultaneous client connections (0 = unlimited)
	MaxClients int `mapstructure:"max_clients" validate:"min=0"`

	// Maximum inbound message size in bytes
	MaxMessageBytes int64 `mapstructure:"max_message_bytes" validate:"min=0"`

	// How long a single outbound write may block before the client is dropped
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// Interval between keepalive pings
	PingInterval time.Duration `mapstructure:"ping_interval"`

	// Per-connection inbound command rate limit
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds token-bucket limits applied to each client connection
type RateLimitConfig struct {
	// Sustained commands per second (0 disables limiting)
	CommandsPerSecond float64 `mapstructure:"commands_per_second" validate:"min=0"`

	// Burst capacity above the sustained rate
	Burst int `mapstructure:"burst" validate:"min=0"`
}
