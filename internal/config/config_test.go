package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eventdash/internal/engine"
	"github.com/roach88/eventdash/internal/ir"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 40, cfg.Charts.Bins)
	assert.Equal(t, "Blues", cfg.Charts.HeatmapColorScale)
	assert.Equal(t, "click", cfg.Interaction.Trigger)
	assert.Equal(t, ":1234", cfg.Server.Listen)
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
data:
  path: dielectron.csv
  key_column: Run
  table: events
server:
  listen: "127.0.0.1:8080"
  debug: true
charts:
  bins: 20
  heatmap_color_scale: Viridis
  drill_color: Event
  palette: ["#112233", "#445566"]
  default_curve: 1
  proportions:
    - name: energy
      column: E1
      colors: ["#bad6eb"]
interaction:
  trigger: hover
  defaults:
    x: px1
    z: M
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dielectron.csv", cfg.Data.Path)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Listen)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, 20, cfg.Charts.Bins)
	assert.Equal(t, "Plasma", cfg.Charts.DrillColorScale, "unset fields keep defaults")

	eo := cfg.EngineOptions()
	assert.Equal(t, []engine.Proportion{{Name: "energy", Column: "E1", Colors: []string{"#bad6eb"}}}, eo.Proportions)
	assert.Equal(t, 1, eo.DefaultCurve)

	so := cfg.SessionOptions()
	assert.Equal(t, ir.PointerHover, so.Trigger)
	assert.Equal(t, ir.Controls{X: "px1", Z: "M"}, so.Defaults)

	assert.Equal(t, "events", cfg.StoreOptions().Table)
}

func TestLoad_NoProportionsKeepsNil(t *testing.T) {
	cfg, err := Load(writeConfig(t, "charts:\n  bins: 10\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.EngineOptions().Proportions)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown top-level field", "colour: red\n"},
		{"unknown nested field", "charts:\n  binz: 10\n"},
		{"bins too small", "charts:\n  bins: 0\n"},
		{"bins not int", "charts:\n  bins: many\n"},
		{"bad trigger", "interaction:\n  trigger: drag\n"},
		{"bad color", "charts:\n  palette: [\"blue\"]\n"},
		{"empty palette", "charts:\n  palette: []\n"},
		{"negative curve", "charts:\n  default_curve: -1\n"},
		{"bad table name", "data:\n  table: \"events; drop\"\n"},
		{"proportion missing column", "charts:\n  proportions:\n    - name: pie\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.data))
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "file not found")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "charts: [\n"))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}
