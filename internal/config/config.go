// Package config loads the stargate configuration from .stargate/config.json
// and STARGATE_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/stargate/internal/db"
)

// CurrentVersion is the config file format version written by SaveConfig.
const CurrentVersion = "1"

// Environment variables overriding the config file.
const (
	EnvStorageDriver = "STARGATE_STORAGE_DRIVER"
	EnvSQLitePath    = "STARGATE_SQLITE_PATH"
	EnvPostgresDSN   = "STARGATE_POSTGRES_DSN"
	EnvHTTPAddr      = "STARGATE_HTTP_ADDR"
	EnvCORSOrigins   = "STARGATE_CORS_ORIGINS"
	EnvLogLevel      = "STARGATE_LOG_LEVEL"
	EnvLogFormat     = "STARGATE_LOG_FORMAT"
)

// DefaultCORSOrigins are the local frontend dev servers.
var DefaultCORSOrigins = []string{"http://localhost:4200", "http://localhost:5500"}

// Config represents the stargate configuration
type Config struct {
	Version string        `json:"version"`
	Storage StorageConfig `json:"storage"`
	HTTP    HTTPConfig    `json:"http"`
	Log     LogConfig     `json:"log"`
}

// StorageConfig selects the database.
type StorageConfig struct {
	Driver      string `json:"driver"`                 // sqlite3, sqlite or postgres
	SQLitePath  string `json:"sqlite_path,omitempty"`  // used by both sqlite drivers
	PostgresDSN string `json:"postgres_dsn,omitempty"` // used by postgres
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr        string   `json:"addr"`
	CORSOrigins []string `json:"cors_origins,omitempty"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text or json
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	sqlitePath, err := db.DefaultSQLitePath()
	if err != nil {
		sqlitePath = filepath.Join(".stargate", "stargate.db")
	}
	return &Config{
		Version: CurrentVersion,
		Storage: StorageConfig{
			Driver:     db.DriverSQLite3,
			SQLitePath: sqlitePath,
		},
		HTTP: HTTPConfig{
			Addr:        ":8080",
			CORSOrigins: append([]string(nil), DefaultCORSOrigins...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Path returns the config file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, ".stargate", "config.json")
}

// LoadConfig reads .stargate/config.json from the specified directory.
// A missing file yields the defaults; fields absent from the file keep their defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	stargateDir := filepath.Dir(Path(dir))
	if err := os.MkdirAll(stargateDir, 0755); err != nil {
		return fmt.Errorf("failed to create .stargate dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from STARGATE_* environment variables that are set.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvStorageDriver); ok {
		c.Storage.Driver = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvSQLitePath); ok {
		c.Storage.SQLitePath = v
	}
	if v, ok := os.LookupEnv(EnvPostgresDSN); ok {
		c.Storage.PostgresDSN = v
	}
	if v, ok := os.LookupEnv(EnvHTTPAddr); ok {
		c.HTTP.Addr = v
	}
	if v, ok := os.LookupEnv(EnvCORSOrigins); ok {
		c.HTTP.CORSOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.Log.Format = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := db.DialectFor(c.Storage.Driver); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case db.DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the %s driver", c.Storage.Driver)
		}
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("http.addr must not be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (expected text or json)", c.Log.Format)
	}
	return nil
}

// DBOptions converts the storage section into database open options.
func (c *Config) DBOptions() db.Options {
	return db.Options{
		Driver:      c.Storage.Driver,
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
