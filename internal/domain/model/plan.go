package model

type ChartKind string

const (
	ChartChoropleth ChartKind = "choropleth"
	ChartBar        ChartKind = "bar"
	ChartGroupedBar ChartKind = "grouped_bar"
	ChartLine       ChartKind = "line"
)

type AggFunc string

const AggMean AggFunc = "mean"

// RangeMode decides how the colour or value axis range is derived.
type RangeMode string

const (
	// RangeFixed uses Min and Max verbatim.
	RangeFixed RangeMode = "fixed"
	// RangeObserved spans the observed minimum and maximum.
	RangeObserved RangeMode = "observed"
	// RangeZeroToMax spans zero to the observed maximum.
	RangeZeroToMax RangeMode = "zero_max"
)

type RangePolicy struct {
	Mode RangeMode `json:"mode"`
	Min  float64   `json:"min,omitempty"`
	Max  float64   `json:"max,omitempty"`
}

func FixedRange(min, max float64) RangePolicy {
	return RangePolicy{Mode: RangeFixed, Min: min, Max: max}
}

func ObservedRange() RangePolicy {
	return RangePolicy{Mode: RangeObserved}
}

func ZeroToMaxRange() RangePolicy {
	return RangePolicy{Mode: RangeZeroToMax}
}

type AxisLabels struct {
	Title  string `json:"title"`
	X      string `json:"x"`
	Y      string `json:"y"`
	Legend string `json:"legend"`
}

// AggregationPlan describes which observations to keep and how to group them.
// An empty GeoFilter keeps every geography type.
type AggregationPlan struct {
	Metric           string  `json:"metric"`
	GeoFilter        GeoType `json:"geo_filter,omitempty"`
	GroupKeys        []Field `json:"group_keys"`
	AggFn            AggFunc `json:"agg_fn"`
	OrderByPlaceMean bool    `json:"order_by_place_mean"`
}

// ChartPlan is the resolved recipe for one figure. CategoryOrder is filled in
// after aggregation when the plan orders places by mean.
type ChartPlan struct {
	Category      string          `json:"category"`
	Content       string          `json:"content"`
	Kind          ChartKind       `json:"kind"`
	Geometry      GeometrySource  `json:"geometry,omitempty"`
	CategoryOrder []string        `json:"category_order,omitempty"`
	ColorScale    string          `json:"color_scale,omitempty"`
	ValueRange    RangePolicy     `json:"value_range"`
	Labels        AxisLabels      `json:"labels"`
	Aggregation   AggregationPlan `json:"aggregation"`
}
