// Package config loads the liteddl CLI configuration.
//
// Precedence (highest to lowest): flags > LITEDDL_* environment variables >
// config file (liteddl.yaml) > defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default values.
const (
	DefaultDatabase  = "liteddl.db"
	DefaultSchema    = "schema.yaml"
	DefaultInspector = InspectorPragma
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	EnvPrefix        = "LITEDDL_"
)

// Inspector names.
const (
	InspectorPragma = "pragma"
	InspectorAtlas  = "atlas"
)

// configFiles are looked up in the working directory, in order.
var configFiles = []string{"liteddl.yaml", "liteddl.yml"}

// Config holds the CLI configuration.
type Config struct {
	Database  string `koanf:"database"`
	Schema    string `koanf:"schema"`
	Inspector string `koanf:"inspector"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	Verbose   bool   `koanf:"verbose"`
	Tx        bool   `koanf:"tx"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Load loads the configuration. cfgFile may be empty, in which case the
// default config files are used when present. Only flags that were
// explicitly set override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"database":   DefaultDatabase,
		"schema":     DefaultSchema,
		"inspector":  DefaultInspector,
		"log_level":  DefaultLogLevel,
		"log_format": DefaultLogFormat,
		"verbose":    false,
		"tx":         true,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: LITEDDL_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Inspector {
	case InspectorPragma, InspectorAtlas:
	default:
		return fmt.Errorf("invalid inspector %q, must be one of: %s, %s", c.Inspector, InspectorPragma, InspectorAtlas)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q, must be one of: text, json", c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level of LogLevel. Verbose forces debug.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
