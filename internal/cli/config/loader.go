package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/spf13/pflag"
)

var configFileUsed string

// ConfigFileName is the name of the config file.
const ConfigFileName = "sqlnorm.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "sqlnorm.yml"

// findConfigFileIn finds the config file in the given directory.
// Returns empty string if not found.
func findConfigFileIn(dir string) string {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}

	ymlPath := filepath.Join(dir, ConfigFileNameAlt)
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}

	return ""
}

// findConfigFile finds the config file to use. An explicit path always wins;
// otherwise the working directory and its ancestors are searched so commands
// run from a subdirectory still pick up the project's config.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if path := findConfigFileIn(dir); path != "" {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":               "",
		"format":                DefaultFormat,
		"verbose":               false,
		"server.host":           DefaultServerHost,
		"server.port":           DefaultServerPort,
		"server.max_body_bytes": DefaultMaxBodyBytes,
		"server.max_statements": DefaultMaxStatements,
		"watch.out_dir":         DefaultWatchOutDir,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, when one exists.
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables (SQLNORM_ prefix).
	// Transform: SQLNORM_SERVER_PORT -> server.port
	if err := k.Load(env.Provider("SQLNORM_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "SQLNORM_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority). Only explicitly set flags override.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "."), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the commands cannot act on.
func Validate(cfg *Config) error {
	if cfg.Dialect != "" {
		if _, ok := dialect.Parse(cfg.Dialect); !ok {
			return fmt.Errorf("unknown dialect %q (known: %s)", cfg.Dialect, strings.Join(dialectNames(), ", "))
		}
	}
	switch cfg.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", cfg.Format)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", cfg.Server.Port)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server max_body_bytes must be positive, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Server.MaxStatements <= 0 {
		return fmt.Errorf("server max_statements must be positive, got %d", cfg.Server.MaxStatements)
	}
	return nil
}

// ResolveDialect parses the configured dialect name, treating empty as
// Unknown (auto-detect).
func (c *Config) ResolveDialect() (dialect.ID, error) {
	if c.Dialect == "" {
		return dialect.Unknown, nil
	}
	d, ok := dialect.Parse(c.Dialect)
	if !ok {
		return dialect.Unknown, fmt.Errorf("unknown dialect %q", c.Dialect)
	}
	return d, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

func dialectNames() []string {
	all := dialect.All()
	names := make([]string, 0, len(all))
	for _, d := range all {
		names = append(names, string(d))
	}
	return names
}
