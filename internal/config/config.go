// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/woozymasta/geofieldmap/internal/geo"
	"github.com/woozymasta/geofieldmap/internal/mapsettings"

	"gopkg.in/yaml.v3"
)

// DefaultIconSize is the longest side of a processed marker icon, in pixels.
const DefaultIconSize = 64

// Config represents the root configuration file structure.
type Config struct {
	// Settings overrides the built-in defaults for every display.
	Settings yaml.Node `yaml:"settings,omitempty"`

	GmapAPIKey        string    `yaml:"gmap_api_key,omitempty"`
	BaseURL           string    `yaml:"base_url,omitempty"`
	APIKeyDisplayName string    `yaml:"apikey_display_name,omitempty"`
	Displays          []Display `yaml:"displays"`
	IconSize          int       `yaml:"icon_size,omitempty"`

	path string
	mu   sync.Mutex
}

// Display is a single map with its geofield values.
type Display struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// partial map settings on top of the global ones
	Settings yaml.Node `yaml:"settings,omitempty" json:"-"`
	// shared by all features as properties.data
	Data any `yaml:"data,omitempty" json:"-"`

	Name         string    `yaml:"name"                   json:"name"`
	Title        string    `yaml:"title,omitempty"        json:"title,omitempty"`
	ItemsURL     string    `yaml:"items_url,omitempty"    json:"-"`
	Aliases      []string  `yaml:"aliases,omitempty"      json:"-"`
	Items        geo.Items `yaml:"items,omitempty"        json:"-"`
	Descriptions []string  `yaml:"descriptions,omitempty" json:"-"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.path = path

	if cfg.IconSize <= 0 {
		cfg.IconSize = DefaultIconSize
	}

	return &cfg, nil
}

// MapSettings merges the defaults, the global overrides and the display
// overrides, then validates the result.
func (c *Config) MapSettings(d Display) (mapsettings.Settings, error) {
	s, err := mapsettings.Overlay(mapsettings.Defaults(), &c.Settings)
	if err != nil {
		return mapsettings.Settings{}, fmt.Errorf("global settings: %w", err)
	}

	s, err = mapsettings.Overlay(s, &d.Settings)
	if err != nil {
		return mapsettings.Settings{}, fmt.Errorf("display %s: %w", d.Name, err)
	}

	if err := s.Validate(); err != nil {
		return mapsettings.Settings{}, fmt.Errorf("display %s: %w", d.Name, err)
	}

	return s, nil
}

// APIKey returns the stored Google Maps API key.
func (c *Config) APIKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.GmapAPIKey
}

// SetAPIKey stores the key and writes it back to the configuration file,
// keeping the rest of the document (comments included) untouched.
func (c *Config) SetAPIKey(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.GmapAPIKey = key
	if c.path == "" {
		return nil
	}

	return setRootKey(c.path, "gmap_api_key", key)
}

func setRootKey(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("%s: root is not a mapping", path)
	}

	root := doc.Content[0]
	updated := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1].SetString(value)
			updated = true
			break
		}
	}
	if !updated {
		k := &yaml.Node{}
		k.SetString(key)
		v := &yaml.Node{}
		v.SetString(value)
		root.Content = append([]*yaml.Node{k, v}, root.Content...)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	return os.WriteFile(path, out, info.Mode().Perm())
}

// Layout of generated files: <dir>/<display>/<file>.
const (
	DefaultDataDir = "maps"
	FeaturesFile   = "features.geojson"
	IconFile       = "icon.webp"
)
