package config

import (
	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/layout"
)

// Config is the top-level shelfmap configuration.
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog" yaml:"catalog"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot" yaml:"snapshot"`
	Libraries []LibraryConfig `mapstructure:"libraries" yaml:"libraries"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// CatalogConfig locates the CSV catalog and selects its schema variant.
type CatalogConfig struct {
	Path         string `mapstructure:"path" yaml:"path"`
	Schema       string `mapstructure:"schema" yaml:"schema"` // "holdings" or "simple"
	TagDelimiter string `mapstructure:"tag_delimiter" yaml:"tag_delimiter"`
}

// SnapshotConfig locates the persisted layout snapshot.
type SnapshotConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LibraryConfig defines a library created on first import.
type LibraryConfig struct {
	ID                string `mapstructure:"id" yaml:"id"`
	Name              string `mapstructure:"name" yaml:"name"`
	CategorizeField   string `mapstructure:"categorize_field" yaml:"categorize_field,omitempty"`
	MultiCategoryMode string `mapstructure:"multi_category_mode" yaml:"multi_category_mode,omitempty"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultLibraries is the library set used when the config names none: the
// physical arrangement recorded in the CSV, and a by-tag view.
func DefaultLibraries() []LibraryConfig {
	return []LibraryConfig{
		{ID: "physical", Name: "Physical", CategorizeField: "locationBookcase"},
		{ID: "tags", Name: "By tag", CategorizeField: "tags", MultiCategoryMode: "duplicate"},
	}
}

// Definition converts a library entry to a layout definition.
func (l LibraryConfig) Definition() layout.Definition {
	return layout.Definition{
		ID:                l.ID,
		Name:              l.Name,
		CategorizeField:   l.CategorizeField,
		MultiCategoryMode: layout.Mode(l.MultiCategoryMode),
	}
}

// Definitions returns the configured libraries as layout definitions.
func (c *Config) Definitions() []layout.Definition {
	defs := make([]layout.Definition, 0, len(c.Libraries))
	for _, l := range c.Libraries {
		defs = append(defs, l.Definition())
	}
	return defs
}

// LibraryByID returns the library config with the given id, or nil.
func (c *Config) LibraryByID(id string) *LibraryConfig {
	for i := range c.Libraries {
		if c.Libraries[i].ID == id {
			return &c.Libraries[i]
		}
	}
	return nil
}

// Schema resolves the configured CSV schema variant.
func (c *Config) Schema() (catalog.Schema, error) {
	s, ok := catalog.SchemaByName(c.Catalog.Schema, c.Catalog.TagDelimiter)
	if !ok {
		return catalog.Schema{}, errors.New(errors.CodeInvalidInput, "unknown catalog schema %q", c.Catalog.Schema)
	}
	return s, nil
}

// LogLevel parses the configured log level, defaulting to warn.
func (c *Config) LogLevel() log.Level {
	if c.Log.Level == "" {
		return log.WarnLevel
	}
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Validate checks the config for problems that would fail later.
func (c *Config) Validate() error {
	if _, err := c.Schema(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Libraries))
	for i, l := range c.Libraries {
		if l.ID == "" || l.Name == "" {
			return errors.New(errors.CodeInvalidInput, "libraries[%d]: id and name are required", i)
		}
		if seen[l.ID] {
			return errors.New(errors.CodeInvalidInput, "libraries[%d]: duplicate id %q", i, l.ID)
		}
		seen[l.ID] = true
		switch layout.Mode(l.MultiCategoryMode) {
		case "", layout.ModeDuplicate, layout.ModeFirst, layout.ModeSplit:
		default:
			return errors.New(errors.CodeInvalidInput, "libraries[%d]: unknown multi_category_mode %q", i, l.MultiCategoryMode)
		}
	}
	return nil
}
