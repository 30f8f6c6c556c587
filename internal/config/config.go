package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"itemlist/internal/domain"
)

// DefaultFileName is the config file looked up in the working directory
const DefaultFileName = ".itemlist.toml"

// Config represents the application configuration
type Config struct {
	Version  int          `toml:"version" yaml:"version" validate:"min=1"`
	Title    string       `toml:"title" yaml:"title"`
	Selected []string     `toml:"selected" yaml:"selected"` // ids selected on startup
	Items    []ItemConfig `toml:"items" yaml:"items" validate:"dive"`
	UI       UISettings   `toml:"ui" yaml:"ui"`
}

// ItemConfig is one item entry of the config file
type ItemConfig struct {
	ID    string `toml:"id" yaml:"id" validate:"required"`
	Label string `toml:"label" yaml:"label"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowHelp       bool   `toml:"show_help" yaml:"show_help"`
	ActiveMarker   string `toml:"active_marker" yaml:"active_marker" validate:"max=8"`
	InactiveMarker string `toml:"inactive_marker" yaml:"inactive_marker" validate:"max=8"`
}

// DomainItems converts the configured items
func (c *Config) DomainItems() []domain.Item {
	items := make([]domain.Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, domain.Item{ID: it.ID, Label: it.Label})
	}
	return items
}

// SetSelected stores the ids of items as the startup selection
func (c *Config) SetSelected(items []domain.Item) {
	c.Selected = domain.IDs(items)
}

// Service handles configuration management
type Service interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// service is the concrete implementation
type service struct {
	filePath string
}

// NewService creates a config service bound to filePath.
// An empty path means DefaultFileName in the working directory.
func NewService(filePath string) Service {
	if filePath == "" {
		filePath = DefaultFileName
	}
	return &service{filePath: filePath}
}

func (cs *service) Path() string {
	return cs.filePath
}

// Load loads the configuration, returning defaults if the file does not exist
func (cs *service) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to the service's file
func (cs *service) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path.
// The format follows the file extension, see FormatFor.
func (cs *service) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so missing keys keep sensible values
	cfg := DefaultConfig()
	if err := FormatFor(path).unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *service) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := FormatFor(path).marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Title:    "Select items",
		Selected: []string{},
		Items:    []ItemConfig{},
		UI: UISettings{
			ShowHelp:       true,
			ActiveMarker:   "[x]",
			InactiveMarker: "[ ]",
		},
	}
}
