package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when present; it never overrides variables that are
// already set in the environment.
const DefaultEnvFile = ".env"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config  *Config
	envFile string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config:  NewConfig(),
		envFile: DefaultEnvFile,
	}
}

// WithEnvFile sets the dotenv file to read. An empty path disables it.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Read the .env file into the environment
// 3. Override with environment variables
// 4. Overlay the layout file
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithOverrides(nil)
}

// LoadWithOverrides loads configuration and applies command line overrides
// before the layout file is read, so a --layout flag takes effect.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Field: "env_file", Message: err.Error()}
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	// Apply command line overrides
	if overrides != nil {
		l.applyOverrides(l.config, overrides)
	}

	if err := l.config.LoadLayout(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Store overrides
	Store         *string
	Workbook      *string
	SpreadsheetID *string
	LayoutFile    *string

	// Server overrides
	Host *string
	Port *int

	// Ledger overrides
	Ledger     *bool
	LedgerPath *string

	// Application overrides
	Timezone *string
	Timeout  *time.Duration
	Verbose  *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Store overrides
	if overrides.Store != nil {
		config.Store.Backend = strings.ToLower(*overrides.Store)
	}
	if overrides.Workbook != nil {
		config.Store.WorkbookPath = *overrides.Workbook
	}
	if overrides.SpreadsheetID != nil {
		config.Sheets.SpreadsheetID = *overrides.SpreadsheetID
	}
	if overrides.LayoutFile != nil {
		config.Store.LayoutFile = *overrides.LayoutFile
	}

	// Server overrides
	if overrides.Host != nil {
		config.Server.Host = *overrides.Host
	}
	if overrides.Port != nil {
		config.Server.Port = *overrides.Port
	}

	// Ledger overrides
	if overrides.Ledger != nil {
		config.Ledger.Enabled = *overrides.Ledger
	}
	if overrides.LedgerPath != nil {
		config.Ledger.Path = *overrides.LedgerPath
	}

	// Application overrides
	if overrides.Timezone != nil {
		config.Application.Timezone = *overrides.Timezone
	}
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}

// SplitList splits a comma-separated value, dropping blank items
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}
