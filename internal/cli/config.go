package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the optional on-disk CLI configuration. Flags win over
// config values, config values win over defaults.
type Config struct {
	DataDir string `yaml:"dataDir"`
	Format  string `yaml:"format"`
}

// DefaultConfigPath returns the conventional config location,
// $XDG_CONFIG_HOME/folio/config.yaml (or the OS equivalent). Empty if
// the user config dir cannot be determined.
func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "folio", "config.yaml")
}

// DefaultDataDir returns the data directory used when neither flag nor
// config names one.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".folio"
	}
	return filepath.Join(home, ".folio")
}

// LoadConfig reads a YAML config file. A missing file at the default
// path is not an error; an explicitly named path must exist.
func LoadConfig(path string, explicit bool) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
