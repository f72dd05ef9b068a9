// Package config loads colorgraph settings from TOML or YAML files.
//
// Config file locations (priority order):
//  1. $COLORGRAPH_CONFIG
//  2. ./colorgraph.toml, ./colorgraph.yaml, ./colorgraph.yml
//  3. ~/.config/colorgraph/config.toml (or .yaml)
//
// Command-line flags override file values.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/generate"
	"github.com/matzehuels/colorgraph/pkg/layout"
	"github.com/matzehuels/colorgraph/pkg/palette"
	"github.com/matzehuels/colorgraph/pkg/scheduler"
)

// EnvPath names the environment variable holding an explicit config path.
const EnvPath = "COLORGRAPH_CONFIG"

// Defaults not owned by another package.
const (
	DefaultNodeRadius = 15.0
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
)

// Config is the complete set of file-configurable settings.
type Config struct {
	Layout    layout.Options  `toml:"layout" yaml:"layout"`
	Scheduler SchedulerConfig `toml:"scheduler" yaml:"scheduler"`
	Render    RenderConfig    `toml:"render" yaml:"render"`
	Generate  GenerateConfig  `toml:"generate" yaml:"generate"`
}

// SchedulerConfig configures the task loop.
type SchedulerConfig struct {
	FPS int `toml:"fps" yaml:"fps"`
}

// RenderConfig configures the renderer.
type RenderConfig struct {
	NodeRadius float64 `toml:"node_radius" yaml:"node_radius"`
	Width      float64 `toml:"width" yaml:"width"`
	Height     float64 `toml:"height" yaml:"height"`
	Palette    string  `toml:"palette" yaml:"palette"`
}

// GenerateConfig configures random graph generation.
type GenerateConfig struct {
	Nodes        int    `toml:"nodes" yaml:"nodes"`
	MinNeighbors int    `toml:"min_neighbors" yaml:"min_neighbors"`
	MaxNeighbors int    `toml:"max_neighbors" yaml:"max_neighbors"`
	Seed         uint64 `toml:"seed" yaml:"seed"`
}

// Default returns a config with every field at its default.
func Default() *Config {
	c := &Config{
		Generate: GenerateConfig{
			Nodes:        generate.DefaultNodes,
			MinNeighbors: generate.DefaultMinNeighbors,
			MaxNeighbors: generate.DefaultMaxNeighbors,
		},
	}
	c.applyDefaults()
	return c
}

// Find returns the first existing config file, or "" if there is none.
func Find() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	candidates := []string{"colorgraph.toml", "colorgraph.yaml", "colorgraph.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		base := filepath.Join(dir, "colorgraph")
		candidates = append(candidates,
			filepath.Join(base, "config.toml"),
			filepath.Join(base, "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadDefault loads the file found by Find, or returns defaults if there is
// none. It also returns the path it loaded.
func LoadDefault() (*Config, string, error) {
	path := Find()
	if path == "" {
		return Default(), "", nil
	}
	c, err := Load(path)
	return c, path, err
}

// Load reads a config file. The format follows the extension: .toml, .yaml
// or .yml. Missing fields take defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext (with or without the dot).
// Keys absent from data keep their defaults.
func Parse(data []byte, ext string) (*Config, error) {
	c := Default()
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse TOML config")
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse YAML config")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml or .yaml)", ext)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes c in the format named by ext.
func (c *Config) Encode(ext string) ([]byte, error) {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode TOML config")
		}
		return buf.Bytes(), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode YAML config")
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml or .yaml)", ext)
}

// Save writes c to path in the format its extension names, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	data, err := c.Encode(filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write config %s", path)
	}
	return nil
}

// applyDefaults replaces zero values. Generation counts are left alone
// because zero is meaningful there.
func (c *Config) applyDefaults() {
	c.Layout.SetDefaults()
	if c.Scheduler.FPS == 0 {
		c.Scheduler.FPS = scheduler.DefaultFPS
	}
	if c.Render.NodeRadius == 0 {
		c.Render.NodeRadius = DefaultNodeRadius
	}
	if c.Render.Width == 0 {
		c.Render.Width = DefaultWidth
	}
	if c.Render.Height == 0 {
		c.Render.Height = DefaultHeight
	}
	if c.Render.Palette == "" {
		c.Render.Palette = palette.NameHue
	}
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if err := errors.ValidateFPS(c.Scheduler.FPS); err != nil {
		return err
	}
	if err := errors.ValidateSize(c.Render.Width, c.Render.Height); err != nil {
		return err
	}
	if c.Render.NodeRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node radius must be positive, got %g", c.Render.NodeRadius)
	}
	if _, err := palette.Lookup(c.Render.Palette); err != nil {
		return err
	}
	return errors.ValidateNeighborRange(c.Generate.Nodes, c.Generate.MinNeighbors, c.Generate.MaxNeighbors)
}
