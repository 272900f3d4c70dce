// Package config provides configuration management for the enginespec CLI.
//
// Configuration is layered with koanf (defaults, enginespec.yaml,
// ENGINESPEC_ environment variables, explicitly set flags) and decoded once
// per invocation into an immutable Config that commands receive from their
// context.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	Engine       string            `koanf:"engine"`
	Output       string            `koanf:"output"`
	LogLevel     string            `koanf:"log_level"`
	Verbose      bool              `koanf:"verbose"`
	Features     map[string]bool   `koanf:"features"`
	ErrorContext map[string]string `koanf:"error_context"`
	Cache        CacheConfig       `koanf:"cache"`
	Presto       PrestoConfig      `koanf:"presto"`
	Target       *TargetConfig     `koanf:"target"`

	// FileUsed is the config file that was read, empty when none was found.
	FileUsed string `koanf:"-"`
}

// CacheConfig controls the introspection cache.
type CacheConfig struct {
	TTL string `koanf:"ttl"`
}

// PrestoConfig holds Presto specific settings.
type PrestoConfig struct {
	// Version is the server version; it selects partition syntax.
	Version string `koanf:"version"`
}

// TargetConfig describes the database commands connect to.
type TargetConfig struct {
	Type     string            `koanf:"type"`
	DSN      string            `koanf:"dsn"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Schema   string            `koanf:"schema"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Options  map[string]string `koanf:"options"`
}

// Output formats.
const (
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputYAML     = "yaml"
	OutputMarkdown = "markdown"
)

// Default configuration values.
const (
	DefaultOutput   = OutputTable
	DefaultLogLevel = "warn"
	DefaultCacheTTL = "10m"
	ConfigFileName  = "enginespec.yaml"
	EnvPrefix       = "ENGINESPEC_"
)

// Outputs lists the accepted output formats.
func Outputs() []string {
	return []string{OutputTable, OutputJSON, OutputYAML, OutputMarkdown}
}

// HasTarget reports whether a database target is configured.
func (c *Config) HasTarget() bool {
	return c.Target != nil && c.Target.Type != ""
}

// AdapterConfig converts the target section to an adapter configuration.
func (c *Config) AdapterConfig() core.AdapterConfig {
	if c.Target == nil {
		return core.AdapterConfig{}
	}
	t := c.Target
	return core.AdapterConfig{
		Type:     strings.ToLower(t.Type),
		DSN:      t.DSN,
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Schema:   t.Schema,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
	}
}

// FeatureFlags returns the configured feature flags keyed by upper-cased
// name.
func (c *Config) FeatureFlags() core.Flags {
	flags := core.Flags{}
	for name, on := range c.Features {
		flags[strings.ToUpper(name)] = on
	}
	return flags
}

// CacheTTL returns the parsed cache TTL. Validate guarantees it parses.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0
	}
	return d
}

// SlogLevel maps log_level (and --verbose) to a slog level.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
