// Package config loads eventdash configuration from YAML.
//
// A config file is first validated against the embedded CUE schema, then
// decoded with unknown-field checking. Command-line flags override file
// values; built-in defaults fill whatever neither sets.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
	"github.com/roach88/eventdash/internal/session"
	"github.com/roach88/eventdash/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// DefaultListen is the default HTTP listen address.
const DefaultListen = ":1234"

// Config is the full eventdash configuration.
type Config struct {
	Data        Data        `yaml:"data"`
	Server      Server      `yaml:"server"`
	Charts      Charts      `yaml:"charts"`
	Interaction Interaction `yaml:"interaction"`
}

// Data locates the input table.
type Data struct {
	Path      string `yaml:"path"`
	KeyColumn string `yaml:"key_column"`
	Table     string `yaml:"table"`
}

// Server configures the HTTP API.
type Server struct {
	Listen string `yaml:"listen"`
	Debug  bool   `yaml:"debug"`
}

// Charts configures the recomputation rules.
type Charts struct {
	Bins              int          `yaml:"bins"`
	HeatmapColorScale string       `yaml:"heatmap_color_scale"`
	DrillColor        string       `yaml:"drill_color"`
	DrillColorScale   string       `yaml:"drill_color_scale"`
	Palette           []string     `yaml:"palette"`
	DefaultCurve      int          `yaml:"default_curve"`
	Proportions       []Proportion `yaml:"proportions"`
}

// Proportion declares one static pie.
type Proportion struct {
	Name   string   `yaml:"name"`
	Column string   `yaml:"column"`
	Colors []string `yaml:"colors"`
}

// Interaction configures session behavior.
type Interaction struct {
	Trigger  string      `yaml:"trigger"`
	Defaults ir.Controls `yaml:"defaults"`
}

// Error reports an invalid configuration file.
type Error struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if err is (or wraps) a *Error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data: Data{
			KeyColumn: store.DefaultKeyColumn,
			Table:     store.DefaultTable,
		},
		Server: Server{Listen: DefaultListen},
		Charts: Charts{
			Bins:              engine.DefaultBins,
			HeatmapColorScale: engine.DefaultHeatmapColorScale,
			DrillColorScale:   engine.DefaultDrillColorScale,
		},
		Interaction: Interaction{Trigger: string(ir.PointerClick)},
	}
}

// Load reads the config at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &Error{Path: path, Message: "file not found", Err: err}
	}
	if err != nil {
		return nil, &Error{Path: path, Message: "cannot read file", Err: err}
	}
	if err := Parse(path, data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse validates data against the schema and decodes it into cfg.
// Fields absent from data keep their value in cfg.
func Parse(path string, data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := validate(path, data); err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return &Error{Path: path, Message: "decode failed", Err: err}
	}
	return nil
}

// validate checks data against #Config in the embedded schema.
func validate(path string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &Error{Path: path, Message: "schema failed to compile", Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return &Error{Path: path, Message: "invalid YAML", Err: err}
	}
	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return &Error{Path: path, Message: "invalid YAML", Err: err}
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &Error{Path: path, Message: "schema violation", Err: errors.New(cueerrors.Details(err, nil))}
	}
	return nil
}

// StoreOptions returns the table load options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{KeyColumn: c.Data.KeyColumn, Table: c.Data.Table}
}

// EngineOptions returns the graph options.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.Options{
		Bins:              c.Charts.Bins,
		HeatmapColorScale: c.Charts.HeatmapColorScale,
		Palette:           c.Charts.Palette,
		DrillColor:        c.Charts.DrillColor,
		DrillColorScale:   c.Charts.DrillColorScale,
		DefaultCurve:      c.Charts.DefaultCurve,
	}
	if c.Charts.Proportions != nil {
		opts.Proportions = make([]engine.Proportion, len(c.Charts.Proportions))
		for i, p := range c.Charts.Proportions {
			opts.Proportions[i] = engine.Proportion{Name: p.Name, Column: p.Column, Colors: p.Colors}
		}
	}
	return opts
}

// SessionOptions returns the session manager options.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Trigger:  ir.PointerKind(c.Interaction.Trigger),
		Defaults: c.Interaction.Defaults,
	}
}
