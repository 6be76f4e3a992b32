package models

// ChartKind enumerates the chart families the builder can request.
type ChartKind string

const (
	ChartScatter    ChartKind = "scatter"
	ChartBox        ChartKind = "box"
	ChartTimeSeries ChartKind = "timeseries"
	ChartLine       ChartKind = "line"
)

// SeriesSpec binds one plotted series to result columns.
type SeriesSpec struct {
	X    string `json:"x"`
	Y    string `json:"y"`
	Role string `json:"role"`
}

// ChartSpec describes what to render; rendering itself is out of scope.
type ChartSpec struct {
	Kind   ChartKind    `json:"kind"`
	Title  string       `json:"title"`
	Series []SeriesSpec `json:"series"`
}

// ChartView bundles the preferred spec with alternate renderings of the
// same analysis result.
type ChartView struct {
	Primary    ChartSpec   `json:"primary"`
	Alternates []ChartSpec `json:"alternates,omitempty"`
}
