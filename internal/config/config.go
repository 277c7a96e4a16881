package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vila-timesheet/internal/layout"
)

// Store backends selectable with VILA_STORE.
const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
	BackendMemory = "memory"
)

// Config holds all configuration options for the timesheet service
type Config struct {
	Sheets      SheetsConfig
	Store       StoreConfig
	Server      ServerConfig
	Auth        AuthConfig
	Ledger      LedgerConfig
	Application ApplicationConfig
	// Layout is the grid layout, the defaults overlaid with Store.LayoutFile.
	Layout layout.Layout
}

// SheetsConfig holds Google Sheets configuration
type SheetsConfig struct {
	SpreadsheetID   string `env:"GOOGLE_SHEET_ID"`
	CredentialsJSON string `env:"SERVICE_ACCOUNT_JSON"`
	CredentialsFile string `env:"SERVICE_ACCOUNT_FILE"`
}

// StoreConfig selects the spreadsheet backend
type StoreConfig struct {
	Backend      string `env:"VILA_STORE"`
	WorkbookPath string `env:"VILA_WORKBOOK"`
	LayoutFile   string `env:"VILA_LAYOUT_FILE"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT"`
	FrontendURL     string        `env:"FRONTEND_URL"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `env:"VILA_REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration
}

// AuthConfig holds manager authentication configuration
type AuthConfig struct {
	ManagerPassword string        `env:"MANAGER_PASSWORD"`
	TokenSecret     string        `env:"VILA_TOKEN_SECRET"`
	TokenTTL        time.Duration `env:"VILA_TOKEN_TTL"`
}

// LedgerConfig holds configuration of the optional SQLite ledger
type LedgerConfig struct {
	Enabled        bool   `env:"VILA_LEDGER"`
	Path           string `env:"VILA_LEDGER_PATH"`
	DirPermissions uint32
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timezone string        `env:"VILA_TIMEZONE"`
	Timeout  time.Duration `env:"VILA_APP_TIMEOUT"`
	Verbose  bool
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultLedgerPath := filepath.Join(homeDir, ".vila", "ledger.db")

	return &Config{
		Store: StoreConfig{
			Backend:      BackendSheets,
			WorkbookPath: "vila-timesheet.xlsx",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			FrontendURL:     "http://localhost:3000",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
		Ledger: LedgerConfig{
			Enabled:        false,
			Path:           defaultLedgerPath,
			DirPermissions: 0755,
		},
		Application: ApplicationConfig{
			Timezone: "UTC",
			Timeout:  60 * time.Second,
		},
		Layout: layout.Default(),
	}
}

// Address returns the host:port the HTTP server listens on
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// GetAllowedOrigins returns the frontend URL followed by any extra origins
func (c *Config) GetAllowedOrigins() []string {
	origins := make([]string, 0, len(c.Server.AllowedOrigins)+1)
	if c.Server.FrontendURL != "" {
		origins = append(origins, c.Server.FrontendURL)
	}
	return append(origins, c.Server.AllowedOrigins...)
}

// GetLocation returns the business time zone
func (c *Config) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Application.Timezone)
}

// GetCredentials returns the service account key, read from
// SERVICE_ACCOUNT_FILE when the inline JSON is not set.
func (c *Config) GetCredentials() ([]byte, error) {
	if c.Sheets.CredentialsJSON != "" {
		return []byte(c.Sheets.CredentialsJSON), nil
	}
	if c.Sheets.CredentialsFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Sheets.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	return data, nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Google Sheets configuration
	if id := os.Getenv("GOOGLE_SHEET_ID"); id != "" {
		c.Sheets.SpreadsheetID = id
	}
	if creds := os.Getenv("SERVICE_ACCOUNT_JSON"); creds != "" {
		c.Sheets.CredentialsJSON = creds
	}
	if file := os.Getenv("SERVICE_ACCOUNT_FILE"); file != "" {
		c.Sheets.CredentialsFile = file
	}

	// Store configuration
	if backend := os.Getenv("VILA_STORE"); backend != "" {
		c.Store.Backend = strings.ToLower(backend)
	}
	if path := os.Getenv("VILA_WORKBOOK"); path != "" {
		c.Store.WorkbookPath = path
	}
	if path := os.Getenv("VILA_LAYOUT_FILE"); path != "" {
		c.Store.LayoutFile = path
	}

	// Server configuration
	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = ParseIntWithFallback(port, c.Server.Port)
	}
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		c.Server.FrontendURL = url
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = SplitList(origins)
	}
	if timeout := os.Getenv("VILA_REQUEST_TIMEOUT"); timeout != "" {
		c.Server.RequestTimeout = ParseDurationWithFallback(timeout, c.Server.RequestTimeout)
	}

	// Auth configuration
	if password := os.Getenv("MANAGER_PASSWORD"); password != "" {
		c.Auth.ManagerPassword = password
	}
	if secret := os.Getenv("VILA_TOKEN_SECRET"); secret != "" {
		c.Auth.TokenSecret = secret
	}
	if ttl := os.Getenv("VILA_TOKEN_TTL"); ttl != "" {
		c.Auth.TokenTTL = ParseDurationWithFallback(ttl, c.Auth.TokenTTL)
	}

	// Ledger configuration
	if enabled := os.Getenv("VILA_LEDGER"); enabled != "" {
		c.Ledger.Enabled = ParseBoolWithFallback(enabled, c.Ledger.Enabled)
	}
	if path := os.Getenv("VILA_LEDGER_PATH"); path != "" {
		c.Ledger.Path = path
	}

	// Application configuration
	if tz := os.Getenv("VILA_TIMEZONE"); tz != "" {
		c.Application.Timezone = tz
	}
	if timeout := os.Getenv("VILA_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}

	return nil
}

// LoadLayout overlays the layout file, when one is configured, on the defaults
func (c *Config) LoadLayout() error {
	if c.Store.LayoutFile == "" {
		return nil
	}
	l, err := layout.LoadFile(c.Store.LayoutFile)
	if err != nil {
		return &ConfigError{Field: "store.layout_file", Message: err.Error()}
	}
	c.Layout = l
	return nil
}

// Validate validates the configuration and returns any errors. Backend
// credentials are checked separately by ValidateStore.
func (c *Config) Validate() error {
	// Validate store configuration
	switch c.Store.Backend {
	case BackendSheets, BackendXLSX, BackendMemory:
	default:
		return &ConfigError{Field: "store.backend", Message: fmt.Sprintf("unknown store %q, expected sheets, xlsx or memory", c.Store.Backend)}
	}
	if err := c.Layout.Validate(); err != nil {
		return &ConfigError{Field: "layout", Message: err.Error()}
	}

	// Validate server configuration
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 1 and 65535"}
	}
	if c.Server.RequestTimeout <= 0 {
		return &ConfigError{Field: "server.request_timeout", Message: "request timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validate auth configuration
	if c.Auth.TokenTTL <= 0 {
		return &ConfigError{Field: "auth.token_ttl", Message: "token TTL must be positive"}
	}

	// Validate ledger configuration
	if c.Ledger.Enabled && c.Ledger.Path == "" {
		return &ConfigError{Field: "ledger.path", Message: "ledger path cannot be empty when the ledger is enabled"}
	}

	// Validate application configuration
	if _, err := c.GetLocation(); err != nil {
		return &ConfigError{Field: "application.timezone", Message: err.Error()}
	}
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ValidateStore checks what the selected backend needs to connect
func (c *Config) ValidateStore() error {
	switch c.Store.Backend {
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			return &ConfigError{Field: "sheets.spreadsheet_id", Message: "GOOGLE_SHEET_ID is required for the sheets store"}
		}
		if c.Sheets.CredentialsJSON == "" && c.Sheets.CredentialsFile == "" {
			return &ConfigError{Field: "sheets.credentials", Message: "SERVICE_ACCOUNT_JSON or SERVICE_ACCOUNT_FILE is required for the sheets store"}
		}
		if c.Sheets.CredentialsJSON != "" && !json.Valid([]byte(c.Sheets.CredentialsJSON)) {
			return &ConfigError{Field: "sheets.credentials", Message: "SERVICE_ACCOUNT_JSON must be valid JSON"}
		}
	case BackendXLSX:
		if c.Store.WorkbookPath == "" {
			return &ConfigError{Field: "store.workbook_path", Message: "workbook path cannot be empty"}
		}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
