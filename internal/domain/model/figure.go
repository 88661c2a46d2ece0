package model

import (
	"github.com/paulmach/orb/geojson"
)

type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Series is one trace. TextFormat, when set, is a d3-format string for a
// value label drawn on every point.
type Series struct {
	Name       string  `json:"name"`
	Points     []Point `json:"points"`
	Markers    bool    `json:"markers,omitempty"`
	TextFormat string  `json:"text_format,omitempty"`
}

type Axis struct {
	Title      string      `json:"title"`
	Categories []string    `json:"categories,omitempty"`
	Range      *[2]float64 `json:"range,omitempty"`
	TickAngle  float64     `json:"tick_angle,omitempty"`
}

type MapViewport struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      float64 `json:"zoom"`
	Opacity   float64 `json:"opacity"`
	Style     string  `json:"style"`
}

// MapLayer carries a choropleth's shapes. Locations and Values are parallel
// to each other, one entry per boundary record; Features holds only the
// records that have a geometry. A nil value marks a shape without data.
type MapLayer struct {
	FeatureIDKey string                     `json:"featureidkey"`
	Features     *geojson.FeatureCollection `json:"geojson"`
	Locations    []string                   `json:"locations"`
	Values       []*float64                 `json:"values"`
	Viewport     MapViewport                `json:"viewport"`
}

// FigureSpec is the renderer-independent description of a chart.
type FigureSpec struct {
	Kind        ChartKind   `json:"kind"`
	Title       string      `json:"title"`
	XAxis       Axis        `json:"x_axis"`
	YAxis       Axis        `json:"y_axis"`
	LegendTitle string      `json:"legend_title"`
	ColorScale  string      `json:"color_scale,omitempty"`
	ColorRange  *[2]float64 `json:"color_range,omitempty"`
	Series      []Series    `json:"series,omitempty"`
	Map         *MapLayer   `json:"map,omitempty"`
	Empty       bool        `json:"empty"`
}
