package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile           string        `mapstructure:"log_file" yaml:"log_file"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`

	Room      Room      `mapstructure:"room" yaml:"room"`
	RateLimit RateLimit `mapstructure:"rate_limit" yaml:"rate_limit"`
	Admin     Admin     `mapstructure:"admin" yaml:"admin"`
}

// Room bounds the world and its timers.
type Room struct {
	Capacity     int           `mapstructure:"capacity" yaml:"capacity"`
	TickInterval time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
	StaleTimeout time.Duration `mapstructure:"stale_timeout" yaml:"stale_timeout"`
}

// RateLimit configures the per-connection message budget.
type RateLimit struct {
	Window       time.Duration `mapstructure:"window" yaml:"window"`
	MaxPerWindow int           `mapstructure:"max_per_window" yaml:"max_per_window"`
}

// Admin configures the operator API. Disabled unless a password hash is
// set; the hash is bcrypt, never a plaintext password.
type Admin struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	PasswordHash string        `mapstructure:"password_hash" yaml:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "cellsync.db",
		Room: Room{
			Capacity:     20,
			TickInterval: 50 * time.Millisecond,
			StaleTimeout: 10 * time.Second,
		},
		RateLimit: RateLimit{
			Window:       time.Second,
			MaxPerWindow: 60,
		},
		Admin: Admin{
			TokenTTL: time.Hour,
		},
	}
}
