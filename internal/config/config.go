// Package config loads and saves bfsc's TOML configuration file, following
// lookbusy1344's config package: a nested struct per concern, a compiled-in
// default, and a platform-specific default path under the user's config
// directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds bfsc's persistent settings.
type Config struct {
	// Compile settings
	Compile struct {
		TapeSize   int  `toml:"tape_size"`
		Debug      bool `toml:"debug"`
		EmitSource bool `toml:"emit_source"`
	} `toml:"compile"`

	// Fuzz settings
	Fuzz struct {
		Workers      int    `toml:"workers"`
		MaxStmts     int    `toml:"max_statements"`
		Seed         int64  `toml:"seed"`
		ReportFile   string `toml:"report_file"`
		CheckpointAt string `toml:"checkpoint_file"`
	} `toml:"fuzz"`

	// Logging settings
	Logging struct {
		Verbosity int `toml:"verbosity"`
	} `toml:"logging"`
}

// DefaultConfig returns a Config with bfsc's compiled-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Compile.TapeSize = 30000
	cfg.Compile.Debug = false
	cfg.Compile.EmitSource = true

	cfg.Fuzz.Workers = 4
	cfg.Fuzz.MaxStmts = 24
	cfg.Fuzz.Seed = 1
	cfg.Fuzz.ReportFile = "mismatches.json"
	cfg.Fuzz.CheckpointAt = "fuzz.checkpoint"

	cfg.Logging.Verbosity = 0

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "bfsc")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "bfsc")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults if the
// file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
