// Package config loads sqlnorm's configuration from file, environment
// variables, and CLI flags.
package config

// Default configuration values.
const (
	DefaultFormat        = "table"
	DefaultServerHost    = "127.0.0.1"
	DefaultServerPort    = 8135
	DefaultMaxBodyBytes  = int64(1 << 20) // 1 MiB per request
	DefaultMaxStatements = 500
	DefaultWatchOutDir   = "normalized"
)

// Config is the resolved configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
type Config struct {
	// Dialect pins the SQL dialect instead of auto-detecting. Empty means
	// detect per input.
	Dialect string `koanf:"dialect"`
	// Format selects CLI output rendering: table, json, or yaml.
	Format  string `koanf:"format"`
	Verbose bool   `koanf:"verbose"`

	Server ServerConfig `koanf:"server"`
	Watch  WatchConfig  `koanf:"watch"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	// MaxBodyBytes caps a request body; larger bodies are rejected.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
	// MaxStatements caps how many statements one request may carry.
	MaxStatements int `koanf:"max_statements"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// OutDir receives the normalized copies of changed .sql files.
	OutDir string `koanf:"out_dir"`
}
