// ABOUTME: Routine tracker configuration management with backend selection
// ABOUTME: Handles the XDG config file, environment overrides, validation, and storage factory

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hariviapak/routine-tracker/internal/logger"
	"github.com/hariviapak/routine-tracker/internal/storage"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// DefaultListenAddr is where the HTTP API listens unless configured otherwise.
const DefaultListenAddr = "127.0.0.1:8080"

const (
	sqliteFilename = "routine.db"
	badgerDirname  = "badger"
)

// Config stores routine tracker configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts routine.db here; badger uses the badger/ subdirectory.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/routine.
	DataDir string `json:"data_dir,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	// ListenAddr is the HTTP API address used by `routine serve`.
	ListenAddr string `json:"listen_addr,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetListenAddr returns the HTTP listen address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// LoggerConfig returns the logging settings with defaults applied.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.Config{Level: c.LogLevel, Format: c.LogFormat}
	if cfg.Level == "" {
		cfg.Level = "warn"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	return cfg
}

// defaultDataDir returns the default XDG data directory for routine.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "routine")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ApplyEnv overrides fields from ROUTINE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ROUTINE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("ROUTINE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("ROUTINE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ROUTINE_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("ROUTINE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.GetBackend() {
	case BackendSQLite, BackendBadger:
	default:
		problems = append(problems, fmt.Sprintf("backend must be one of: sqlite, badger, got: %s", c.Backend))
	}

	if c.LogLevel != "" && !logger.ValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("log_level must be one of: %s, got: %s",
			strings.Join(logger.Levels, ", "), c.LogLevel))
	}
	if c.LogFormat != "" && !logger.ValidFormat(c.LogFormat) {
		problems = append(problems, fmt.Sprintf("log_format must be one of: %s, got: %s",
			strings.Join(logger.Formats, ", "), c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// StoragePath returns where the given backend keeps its data.
func (c *Config) StoragePath(backend string) (string, error) {
	switch strings.ToLower(backend) {
	case BackendSQLite:
		return filepath.Join(c.GetDataDir(), sqliteFilename), nil
	case BackendBadger:
		return filepath.Join(c.GetDataDir(), badgerDirname), nil
	default:
		return "", fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenStorage creates the Store for the configured backend.
func (c *Config) OpenStorage(log *logger.Logger) (storage.Store, error) {
	return c.OpenBackend(c.GetBackend(), log)
}

// OpenBackend creates the Store for a named backend under the configured data directory.
func (c *Config) OpenBackend(backend string, log *logger.Logger) (storage.Store, error) {
	path, err := c.StoragePath(backend)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}

	switch strings.ToLower(backend) {
	case BackendSQLite:
		return storage.NewSQLiteDB(path)
	default:
		return storage.NewBadgerStore(path, storage.BadgerOptions{
			Logger: log.WithComponent("badger").Logger,
		})
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "routine", "config.json")
}

// Load reads config from disk, creating a default file on first run,
// then applies environment overrides.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg := &Config{Backend: BackendSQLite}
		if saveErr := cfg.Save(); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
		}
		cfg.ApplyEnv()
		return cfg, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyEnv()
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(GetConfigPath(), data)
}

// atomicWrite writes data to a temp file beside path and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user config directory
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}
