package engine

// Artifact names registered by New.
const (
	ArtifactScatter   = "scatter"
	ArtifactDrill     = "drill"
	ArtifactHistogram = "histogram"
	ArtifactHeatmap   = "heatmap"
)

// Defaults for Options.
const (
	DefaultBins              = 40
	DefaultHeatmapColorScale = "Blues"
	DefaultDrillColorScale   = "Plasma"
	DefaultDrillColor        = "Event"
)

// DefaultPalette is the qualitative palette for per-run series.
var DefaultPalette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// DefaultPieColors colors the proportion slices in turn.
var DefaultPieColors = []string{"#bad6eb", "#2b7bba"}

// Proportion declares one static pie artifact.
type Proportion struct {
	// Name is the artifact name.
	Name string

	// Column is the numeric column summed per run.
	Column string

	// Colors cycle over slices. Empty means DefaultPieColors.
	Colors []string
}

// DefaultProportions are the two energy pies.
func DefaultProportions() []Proportion {
	return []Proportion{
		{Name: "pie", Column: "E1"},
		{Name: "pie2", Column: "E2"},
	}
}

// Options configures a Graph. Zero values select the defaults.
type Options struct {
	// Bins is the histogram bin count.
	Bins int

	// HeatmapColorScale names the heatmap color scale.
	HeatmapColorScale string

	// Palette colors scatter series, cycling when runs outnumber colors.
	Palette []string

	// Proportions declares the static pies. Nil selects DefaultProportions,
	// skipping any whose column the table lacks.
	Proportions []Proportion

	// DrillColor is the column coloring the drill-down. Empty selects
	// DefaultDrillColor when the table has it. "None" disables coloring.
	DrillColor string

	// DrillColorScale names the continuous scale for a numeric DrillColor.
	DrillColorScale string

	// DefaultCurve is the run index drilled into before any pointer event.
	DefaultCurve int
}
