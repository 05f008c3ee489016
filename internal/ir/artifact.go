package ir

// ArtifactKind is the chart type of an artifact.
type ArtifactKind string

const (
	KindScatter2D ArtifactKind = "scatter2d"
	KindScatter3D ArtifactKind = "scatter3d"
	KindHistogram ArtifactKind = "histogram"
	KindHeatmap   ArtifactKind = "heatmap"
	KindPie       ArtifactKind = "pie"
)

// Artifact is a declarative chart description.
// It is regenerated from scratch on every recomputation; nothing but the
// name carries over between versions.
type Artifact struct {
	Name  string       `json:"name"`
	Kind  ArtifactKind `json:"kind"`
	Title string       `json:"title"`

	// Key fingerprints the inputs this artifact was computed from.
	Key string `json:"key"`

	// Rows is the size of the row set the rule operated on.
	Rows int `json:"rows"`

	// Omitted counts rows dropped because a plotted value was missing.
	Omitted int `json:"omitted,omitempty"`

	Axes      *Axes      `json:"axes,omitempty"`
	Series    []Series   `json:"series,omitempty"`
	Histogram *Histogram `json:"histogram,omitempty"`
	Heatmap   *Heatmap   `json:"heatmap,omitempty"`
	Slices    []Slice    `json:"slices,omitempty"`
}

// Points returns the number of plotted points across all series.
func (a *Artifact) Points() int {
	n := 0
	for _, s := range a.Series {
		n += len(s.X)
	}
	return n
}

// Axes describes the column encoding of a scatter artifact.
// Categories are set when an axis column is text: the plotted value is the
// index into the category list.
type Axes struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Z     string `json:"z,omitempty"`
	Color string `json:"color"`

	XCategories []string `json:"x_categories,omitempty"`
	YCategories []string `json:"y_categories,omitempty"`
	ZCategories []string `json:"z_categories,omitempty"`
}

// Series is one trace of a scatter artifact.
type Series struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`

	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z,omitempty"`

	// ColorValues carries a continuous color encoding, one per point.
	ColorValues []float64 `json:"color_values,omitempty"`
	ColorScale  string    `json:"color_scale,omitempty"`

	// RowIndex maps each point back to its table row.
	RowIndex []int `json:"row_index"`
}

// Histogram holds equal-width bin counts.
// len(Edges) == len(Counts)+1.
type Histogram struct {
	Column  string    `json:"column"`
	Edges   []float64 `json:"edges"`
	Counts  []int     `json:"counts"`
	Missing int       `json:"missing,omitempty"`
}

// Total returns the sum of all bin counts.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Heatmap holds a symmetric correlation matrix.
type Heatmap struct {
	Labels     []string    `json:"labels"`
	Values     [][]float64 `json:"values"`
	ZMin       float64     `json:"zmin"`
	ZMax       float64     `json:"zmax"`
	ColorScale string      `json:"color_scale"`

	// Degenerate lists columns whose correlation is undefined (zero variance
	// or fewer than two complete pairs). Their off-diagonal cells are 0.
	Degenerate []string `json:"degenerate,omitempty"`
}

// Slice is one wedge of a pie artifact.
type Slice struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Proportion float64 `json:"proportion"`
	Color      string  `json:"color,omitempty"`
}
