package domain

// ChartKind defines the visual form of a chart
type ChartKind string

const (
	ChartKindBar       ChartKind = "bar"
	ChartKindLine      ChartKind = "line"
	ChartKindPie       ChartKind = "pie"
	ChartKindHistogram ChartKind = "histogram"
	ChartKindBox       ChartKind = "box"
)

// ChartSpec is a render-ready chart description handed to a renderer.
// Renderers decide how it is displayed; the spec carries the data only.
type ChartSpec struct {
	ID         string        `json:"id"`
	Kind       ChartKind     `json:"kind"`
	Title      string        `json:"title"`
	XField     string        `json:"x_field,omitempty"`
	YField     string        `json:"y_field,omitempty"`
	ColorField string        `json:"color_field,omitempty"`
	Series     []ChartSeries `json:"series"`
}

// ChartSeries is one named data series
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint is one labelled value. Histogram and box series carry raw
// observations with an empty label.
type ChartPoint struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
}

// PointCount returns the total number of points across all series
func (c ChartSpec) PointCount() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Points)
	}
	return n
}
