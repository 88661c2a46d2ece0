package core

import (
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"strings"
)

type ChartCategory int

const (
	CategoryByYear ChartCategory = iota + 1
	CategoryBySeason
	CategoryByBorough
	CategoryByBoroughByYear
	CategoryByUHF42
)

var categoryOrder = []ChartCategory{
	CategoryByYear,
	CategoryBySeason,
	CategoryByBorough,
	CategoryByBoroughByYear,
	CategoryByUHF42,
}

func (c ChartCategory) String() string {
	switch c {
	case CategoryByYear:
		return "By Year"
	case CategoryBySeason:
		return "By Season"
	case CategoryByBorough:
		return "By Borough"
	case CategoryByBoroughByYear:
		return "By Borough By Year"
	case CategoryByUHF42:
		return "By UHF42"
	}
	return fmt.Sprintf("ChartCategory(%d)", int(c))
}

// ParseCategory maps a category name to its variant. "Relevant Factor By Year"
// is accepted as another name for "By Year".
func ParseCategory(name string) (ChartCategory, bool) {
	name = strings.TrimSpace(name)
	if name == "Relevant Factor By Year" {
		return CategoryByYear, true
	}
	for _, c := range categoryOrder {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// Content labels offered per category. The part after the first ") " is the
// unit shown on axes and legends.
var (
	pollutantContents = []string{
		"Nitrogen dioxide (NO2) ppb",
		"Fine particles (PM 2.5) mcg/m3",
		"Ozone (O3) ppb",
	}
	seasonalContents = []string{
		"Nitrogen dioxide (NO2) ppb",
		"Fine particles (PM 2.5) mcg/m3",
	}
	healthContents = []string{
		"Asthma emergency department visits due to PM2.5",
		"Deaths due to PM2.5",
		"Cardiovascular hospitalizations due to PM2.5 (age 40+)",
		"Respiratory hospitalizations due to PM2.5 (age 20+)",
		"Boiler Emissions- Total PM2.5 Emissions",
	}
)

type ContentOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type resolver func(metric, display string) model.ChartPlan

type variant struct {
	contents []string
	resolve  resolver
}

// Selector turns a (category, content) pair into a ChartPlan.
type Selector struct {
	variants     map[ChartCategory]variant
	boroughRange model.RangePolicy
	colorScale   string
}

type SelectorOption func(*Selector)

// WithBoroughRange overrides the colour range of the borough map.
func WithBoroughRange(policy model.RangePolicy) SelectorOption {
	return func(s *Selector) {
		s.boroughRange = policy
	}
}

func WithColorScale(name string) SelectorOption {
	return func(s *Selector) {
		if name != "" {
			s.colorScale = name
		}
	}
}

func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		boroughRange: model.FixedRange(0, 50),
		colorScale:   "Viridis",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.variants = map[ChartCategory]variant{
		CategoryByYear:          {contents: healthContents, resolve: s.resolveByYear},
		CategoryBySeason:        {contents: seasonalContents, resolve: s.resolveBySeason},
		CategoryByBorough:       {contents: pollutantContents, resolve: s.resolveByBorough},
		CategoryByBoroughByYear: {contents: pollutantContents, resolve: s.resolveByBoroughByYear},
		CategoryByUHF42:         {contents: pollutantContents, resolve: s.resolveByUHF42},
	}
	return s
}

// Categories lists the canonical category names in menu order.
func (s *Selector) Categories() []string {
	names := make([]string, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		names = append(names, c.String())
	}
	return names
}

func (s *Selector) ListContents(category string) ([]ContentOption, error) {
	c, ok := ParseCategory(category)
	if !ok {
		return nil, &model.SelectionError{Category: category, Err: model.ErrUnknownCategory}
	}
	contents := s.variants[c].contents
	options := make([]ContentOption, 0, len(contents))
	for _, label := range contents {
		options = append(options, ContentOption{Label: label, Value: label})
	}
	return options, nil
}

func (s *Selector) Resolve(category, content string) (model.ChartPlan, error) {
	c, ok := ParseCategory(category)
	if !ok {
		return model.ChartPlan{}, &model.SelectionError{Category: category, Content: content, Err: model.ErrUnknownCategory}
	}
	v := s.variants[c]
	if !contains(v.contents, content) {
		return model.ChartPlan{}, &model.SelectionError{Category: category, Content: content, Err: model.ErrUnknownSelection}
	}

	metric, display := SplitLabel(content)
	plan := v.resolve(metric, display)
	plan.Category = c.String()
	plan.Content = content
	plan.Aggregation.Metric = metric
	plan.Aggregation.AggFn = model.AggMean
	return plan, nil
}

func (s *Selector) resolveByYear(metric, display string) model.ChartPlan {
	return model.ChartPlan{
		Kind:       model.ChartBar,
		ValueRange: model.ZeroToMaxRange(),
		Labels: model.AxisLabels{
			Title:  fmt.Sprintf("Average %s by Year in NYC", metric),
			X:      "Year",
			Y:      display,
			Legend: display,
		},
		Aggregation: model.AggregationPlan{
			GroupKeys: []model.Field{model.FieldYear},
		},
	}
}

func (s *Selector) resolveBySeason(metric, display string) model.ChartPlan {
	return model.ChartPlan{
		Kind:       model.ChartGroupedBar,
		ValueRange: model.ZeroToMaxRange(),
		Labels: model.AxisLabels{
			Title:  fmt.Sprintf("Average %s Levels by Season and Borough in NYC", metric),
			X:      "Borough",
			Y:      display,
			Legend: display,
		},
		Aggregation: model.AggregationPlan{
			GeoFilter:        model.GeoTypeBorough,
			GroupKeys:        []model.Field{model.FieldSeason, model.FieldPlace},
			OrderByPlaceMean: true,
		},
	}
}

func (s *Selector) resolveByBorough(metric, display string) model.ChartPlan {
	return model.ChartPlan{
		Kind:       model.ChartChoropleth,
		Geometry:   model.GeometryBorough,
		ColorScale: s.colorScale,
		ValueRange: s.boroughRange,
		Labels: model.AxisLabels{
			Title:  fmt.Sprintf("Average %s Levels by Borough in NYC", metric),
			X:      "Longitude",
			Y:      "Latitude",
			Legend: display,
		},
		Aggregation: model.AggregationPlan{
			GeoFilter: model.GeoTypeBorough,
			GroupKeys: []model.Field{model.FieldPlace},
		},
	}
}

func (s *Selector) resolveByBoroughByYear(metric, display string) model.ChartPlan {
	return model.ChartPlan{
		Kind:       model.ChartLine,
		ValueRange: model.ObservedRange(),
		Labels: model.AxisLabels{
			Title:  fmt.Sprintf("Average %s Levels by Year and Borough in NYC", metric),
			X:      "Year",
			Y:      display,
			Legend: display,
		},
		Aggregation: model.AggregationPlan{
			GeoFilter:        model.GeoTypeBorough,
			GroupKeys:        []model.Field{model.FieldYear, model.FieldPlace},
			OrderByPlaceMean: true,
		},
	}
}

func (s *Selector) resolveByUHF42(metric, display string) model.ChartPlan {
	return model.ChartPlan{
		Kind:       model.ChartChoropleth,
		Geometry:   model.GeometryUHF42,
		ColorScale: s.colorScale,
		ValueRange: model.ObservedRange(),
		Labels: model.AxisLabels{
			Title:  fmt.Sprintf("Average %s Levels by UHF42 Area in NYC", metric),
			X:      "Longitude",
			Y:      "Latitude",
			Legend: display,
		},
		Aggregation: model.AggregationPlan{
			GeoFilter: model.GeoTypeUHF42,
			GroupKeys: []model.Field{model.FieldPlace},
		},
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
