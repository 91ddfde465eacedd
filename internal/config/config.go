package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/shelfmap/internal/util"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shelfmap", "config.yml")
}

// Path returns the config file in use: SHELFMAP_CONFIG if set, else the
// default.
func Path() string {
	if p := os.Getenv("SHELFMAP_CONFIG"); p != "" {
		return p
	}
	return DefaultPath()
}

// Load reads the config from Path (or env). A missing file yields the
// defaults.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config from configPath, layered over the defaults and
// SHELFMAP_* environment variables.
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("catalog.path", defaultCatalogPath())
	v.SetDefault("catalog.schema", "holdings")
	v.SetDefault("catalog.tag_delimiter", "|")
	v.SetDefault("snapshot.path", defaultSnapshotPath())
	v.SetDefault("log.level", "warn")

	v.SetEnvPrefix("SHELFMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// Not finding the config file is fine; defaults apply.
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if len(cfg.Libraries) == 0 {
		cfg.Libraries = DefaultLibraries()
	}

	cfg.Catalog.Path = util.ExpandHome(cfg.Catalog.Path)
	cfg.Snapshot.Path = util.ExpandHome(cfg.Snapshot.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to Path.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config as YAML to path.
func SaveFile(path string, cfg *Config) error {
	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return util.WriteFileAtomic(path, []byte(buf.String()), 0644)
}

func defaultCatalogPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "shelfmap", "catalog.csv")
}

func defaultSnapshotPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "shelfmap", "snapshot.yml")
}
