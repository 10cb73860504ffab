// Package config provides configuration management for the sheet sync tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no -config flag is given and the file exists.
const DefaultConfigPath = "configs/sheetsync.yaml"

// DefaultCredentialsFile is the service account file looked up in the working
// directory when neither a credentials file nor inline JSON is configured.
const DefaultCredentialsFile = "service_account.json"

// State store backends.
const (
	StateBackendFile   = "file"
	StateBackendSQLite = "sqlite"
	StateBackendRedis  = "redis"
)

// Source kinds.
const (
	SourceKindSheets = "sheets"
	SourceKindCSV    = "csv"
)

// Configuration validation errors.
var (
	ErrInvalidSourceKind     = errors.New("source.kind must be 'sheets' or 'csv'")
	ErrMissingSheetID        = errors.New("source.sheet_id is required for the sheets source")
	ErrMissingCSVFile        = errors.New("source.csv_file is required for the csv source")
	ErrWorksheetConflict     = errors.New("source.worksheet_name and source.worksheet_index are mutually exclusive")
	ErrInvalidWorksheetIndex = errors.New("source.worksheet_index is 1-based and must be >= 0")
	ErrInvalidTimeout        = errors.New("source.timeout_sec must be at least 1")
	ErrMissingDataDir        = errors.New("output.data_dir is required")
	ErrMissingManifestPath   = errors.New("output.manifest_path is required")
	ErrInvalidStateBackend   = errors.New("state.backend must be one of: file, sqlite, redis")
	ErrMissingStatePath      = errors.New("state.path is required for file and sqlite backends")
	ErrMissingRedisURL       = errors.New("state.redis_url is required for the redis backend")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat      = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete sync configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	State   StateConfig   `yaml:"state"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig selects and configures the tabular data source.
type SourceConfig struct {
	Kind            string `yaml:"kind"`
	SheetID         string `yaml:"sheet_id"`
	WorksheetName   string `yaml:"worksheet_name"`
	CredentialsFile string `yaml:"credentials_file"`
	CredentialsJSON string `yaml:"-"`
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	CSVFile         string `yaml:"csv_file"`
	WorksheetIndex  int    `yaml:"worksheet_index"`
	TimeoutSec      int    `yaml:"timeout_sec"`
}

// OutputConfig defines where generated files go.
type OutputConfig struct {
	DataDir      string `yaml:"data_dir"`
	ManifestPath string `yaml:"manifest_path"`
	PruneStale   bool   `yaml:"prune_stale"`
}

// StateConfig defines where the sync state is persisted.
type StateConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	Key      string `yaml:"key"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:            SourceKindSheets,
			BaseURL:         "https://sheets.googleapis.com",
			TimeoutSec:      30,
		},
		Output: OutputConfig{
			DataDir:      "frontend/src/data",
			ManifestPath: "frontend/src/utils/songManifest.ts",
		},
		State: StateConfig{
			Backend: StateBackendFile,
			Path:    ".sync_state.json",
			Key:     "sheetsync:state",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults,
// then applies environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	return LoadConfigWithEnv(path, os.LookupEnv)
}

// LoadConfigWithEnv is LoadConfig with an explicit environment lookup.
func LoadConfigWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	setString("GOOGLE_SHEET_ID", &c.Source.SheetID)
	setString("GOOGLE_SHEET_WORKSHEET_NAME", &c.Source.WorksheetName)
	setString("GOOGLE_SERVICE_ACCOUNT_JSON_FILE", &c.Source.CredentialsFile)
	setString("GOOGLE_SERVICE_ACCOUNT_JSON", &c.Source.CredentialsJSON)
	setString("GOOGLE_API_KEY", &c.Source.APIKey)
	setString("FRONTEND_DATA_DIR", &c.Output.DataDir)
	setString("SONG_MANIFEST_PATH", &c.Output.ManifestPath)
	setString("SYNC_STATE_REDIS_URL", &c.State.RedisURL)

	if v, ok := lookup("GOOGLE_SHEET_WORKSHEET_INDEX"); ok && v != "" {
		idx, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid GOOGLE_SHEET_WORKSHEET_INDEX %q: %w", v, err)
		}

		c.Source.WorksheetIndex = idx
	}

	return nil
}

// configHeader is written above a saved configuration.
const configHeader = "# sheetsync configuration. Environment variables override these values.\n"

// SaveConfig writes the configuration as YAML, creating the parent directory.
// Inline credentials are never written.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceKindSheets:
		if c.Source.SheetID == "" {
			return ErrMissingSheetID
		}
	case SourceKindCSV:
		if c.Source.CSVFile == "" {
			return ErrMissingCSVFile
		}
	default:
		return ErrInvalidSourceKind
	}

	if c.Source.WorksheetName != "" && c.Source.WorksheetIndex != 0 {
		return ErrWorksheetConflict
	}

	if c.Source.WorksheetIndex < 0 {
		return ErrInvalidWorksheetIndex
	}

	if c.Source.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Output.DataDir == "" {
		return ErrMissingDataDir
	}

	if c.Output.ManifestPath == "" {
		return ErrMissingManifestPath
	}

	switch c.State.Backend {
	case StateBackendFile, StateBackendSQLite:
		if c.State.Path == "" {
			return ErrMissingStatePath
		}
	case StateBackendRedis:
		if c.State.RedisURL == "" {
			return ErrMissingRedisURL
		}
	default:
		return ErrInvalidStateBackend
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetTimeout returns the source request timeout.
func (s *SourceConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}
