// Package config loads forcefield.toml: server settings, graph caps, and
// named parameter presets for the layout engine.
//
// Configuration is optional. Every value has a built-in default, a
// missing file is not an error, and a file only overrides the keys it
// mentions. Presets are merged by name: a preset defined in the file
// replaces the built-in of the same name wholly rather than field by
// field.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/imran31415/forcefield/pkg/errors"
	"github.com/imran31415/forcefield/pkg/layout"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "forcefield.toml"

// Default server settings.
const (
	DefaultListenAddr = "localhost:8080"
	DefaultSessionTTL = 24 * time.Hour
)

// Config is the top-level configuration.
type Config struct {
	Server  Server            `toml:"server"`
	Limits  Limits            `toml:"limits"`
	Presets map[string]Preset `toml:"presets"`
}

// Server configures the HTTP facade.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Limits caps graph size before layout.
type Limits struct {
	MaxNodes int `toml:"max_nodes"`
	MaxEdges int `toml:"max_edges"`
}

// Preset is a named parameter bundle selected by display mode. Zero
// fields inherit the engine defaults, so a preset states only what it
// changes.
type Preset struct {
	Repulsion       float64 `toml:"repulsion"`
	Attraction      float64 `toml:"attraction"`
	CenterPull      float64 `toml:"center_pull"`
	Friction        float64 `toml:"friction"`
	Iterations      int     `toml:"iterations"`
	IdealEdgeLength float64 `toml:"ideal_edge_length"`
	MinDistance     float64 `toml:"min_distance"`
	Padding         float64 `toml:"padding"`
}

// Params converts the preset into layout parameters. Viewport dimensions
// are not part of a preset; callers supply them per request.
func (p Preset) Params() layout.Params {
	return layout.Params{
		Repulsion:       p.Repulsion,
		Attraction:      p.Attraction,
		CenterPull:      p.CenterPull,
		Friction:        p.Friction,
		Iterations:      p.Iterations,
		IdealEdgeLength: p.IdealEdgeLength,
		MinDistance:     p.MinDistance,
		Padding:         p.Padding,
	}
}

// Duration wraps time.Duration for TOML decoding from strings like "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = dur
	return nil
}

// Default returns the built-in configuration: local server address,
// engine cap defaults, and the two display-mode presets. The compact
// preset trades iterations and spread for speed on preview surfaces;
// detailed runs longer and spaces nodes generously for full-size views.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:       DefaultListenAddr,
			SessionTTL: Duration{DefaultSessionTTL},
		},
		Limits: Limits{
			MaxNodes: layout.DefaultMaxNodes,
			MaxEdges: layout.DefaultMaxEdges,
		},
		Presets: map[string]Preset{
			"compact": {
				Repulsion:       3000,
				Iterations:      60,
				IdealEdgeLength: 90,
				MinDistance:     60,
			},
			"detailed": {
				Repulsion:       6000,
				Iterations:      150,
				IdealEdgeLength: 150,
			},
		},
	}
}

// Load reads configuration from path, falling back to DefaultPath when
// path is empty. A missing file yields the defaults; a present file is
// decoded over them and validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := errors.ValidateListenAddr(c.Server.Addr); err != nil {
		return err
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "session_ttl must be positive, got %v", c.Server.SessionTTL.Duration)
	}
	if c.Limits.MaxNodes < 0 || c.Limits.MaxEdges < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "limits must not be negative, got %d nodes / %d edges", c.Limits.MaxNodes, c.Limits.MaxEdges)
	}

	for name, preset := range c.Presets {
		if err := errors.ValidatePresetName(name); err != nil {
			return err
		}
		p := preset.Params()
		if err := p.ValidateAndSetDefaults(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPreset, err, "preset %q", name)
		}
	}
	return nil
}

// PresetParams resolves a preset by name into validated layout
// parameters. An empty name selects the engine defaults.
func (c *Config) PresetParams(name string) (layout.Params, error) {
	return c.PresetParamsWithViewport(name, 0, 0)
}

// PresetParamsWithViewport resolves a preset and applies a viewport
// override before validation, so dimension errors are caught here. Zero
// dimensions keep the defaults.
func (c *Config) PresetParamsWithViewport(name string, width, height float64) (layout.Params, error) {
	var p layout.Params
	if name != "" {
		preset, ok := c.Presets[name]
		if !ok {
			return layout.Params{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q", name)
		}
		p = preset.Params()
	}

	p.Width = width
	p.Height = height
	if err := p.ValidateAndSetDefaults(); err != nil {
		return layout.Params{}, err
	}
	return p, nil
}
