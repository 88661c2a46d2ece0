package core

import (
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/gonum/floats"
)

const valueProperty = "value"

// Grouped bars carry their value above each bar and slanted borough ticks.
const (
	barTextFormat    = ".2f"
	groupedTickAngle = 45
)

// FigureData is what BuildFigure renders: the aggregated table and, for maps,
// the joined geometry.
type FigureData struct {
	Table model.AggregateTable
	Join  *JoinResult
}

// BuildFigure turns a plan and its data into a FigureSpec. Neither argument is
// modified.
func BuildFigure(plan model.ChartPlan, data FigureData) (*model.FigureSpec, error) {
	fig := &model.FigureSpec{
		Kind:        plan.Kind,
		Title:       plan.Labels.Title,
		XAxis:       model.Axis{Title: plan.Labels.X},
		YAxis:       model.Axis{Title: plan.Labels.Y},
		LegendTitle: plan.Labels.Legend,
		ColorScale:  plan.ColorScale,
	}

	if plan.Kind == model.ChartChoropleth && data.Join == nil {
		return nil, fmt.Errorf("build %s figure: %w", plan.Kind, model.ErrMissingGeometry)
	}
	if data.Table.Empty() {
		fig.Empty = true
		if plan.Kind == model.ChartChoropleth {
			buildChoropleth(fig, plan, data.Join)
		}
		return fig, nil
	}

	switch plan.Kind {
	case model.ChartChoropleth:
		buildChoropleth(fig, plan, data.Join)
	case model.ChartBar, model.ChartGroupedBar:
		buildBars(fig, plan, data.Table)
	case model.ChartLine:
		if err := buildLines(fig, plan, data.Table); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("build figure: unknown chart kind %q", plan.Kind)
	}
	return fig, nil
}

// =============================================================================
// CHOROPLETH
// =============================================================================

func buildChoropleth(fig *model.FigureSpec, plan model.ChartPlan, join *JoinResult) {
	features := geojson.NewFeatureCollection()
	locations := make([]string, 0, len(join.Rows))
	values := make([]*float64, 0, len(join.Rows))
	var observed []float64

	for _, row := range join.Rows {
		if row.Boundary != nil {
			f := geojson.NewFeature(row.Boundary)
			f.Properties[join.KeyField] = row.PlaceKey
			if row.Value != nil {
				f.Properties[valueProperty] = *row.Value
			} else {
				f.Properties[valueProperty] = nil
			}
			features.Append(f)
		}
		locations = append(locations, row.PlaceKey)
		if row.Value == nil {
			values = append(values, nil)
			continue
		}
		v := *row.Value
		values = append(values, &v)
		observed = append(observed, v)
	}

	fig.ColorRange = valueRange(plan.ValueRange, observed)
	fig.Map = &model.MapLayer{
		FeatureIDKey: "properties." + join.KeyField,
		Features:     features,
		Locations:    locations,
		Values:       values,
		Viewport:     Viewport(join.Rows),
	}
}

// =============================================================================
// BARS
// =============================================================================

// buildBars puts group_keys[0] on the category axis of a bar chart and
// group_keys[-1] on that of a grouped bar chart; a second key becomes one
// series per value.
func buildBars(fig *model.FigureSpec, plan model.ChartPlan, table model.AggregateTable) {
	keys := table.GroupKeys
	catKey := keys[0]
	var hueKey model.Field
	if plan.Kind == model.ChartGroupedBar {
		catKey = keys[len(keys)-1]
	}
	if len(keys) > 1 {
		for _, k := range keys {
			if k != catKey {
				hueKey = k
				break
			}
		}
	}

	categories := categoryAxis(plan, table, catKey)
	fig.XAxis.Categories = categories
	if plan.Kind == model.ChartGroupedBar {
		fig.XAxis.TickAngle = groupedTickAngle
	}

	if hueKey == "" {
		fig.Series = []model.Series{seriesFor(plan.Labels.Legend, table.Rows, catKey, categories, nil)}
	} else {
		hues := distinctKeys(table.Rows, hueKey)
		if hueKey == model.FieldSeason {
			SortSeasons(hues)
		}
		for _, hue := range hues {
			match := func(row model.AggregateRow) bool { return row.Key(hueKey) == hue }
			s := seriesFor(hue, table.Rows, catKey, categories, match)
			s.TextFormat = barTextFormat
			fig.Series = append(fig.Series, s)
		}
	}
	fig.YAxis.Range = valueRange(plan.ValueRange, means(table.Rows))
}

// =============================================================================
// LINES
// =============================================================================

// buildLines draws year on the x axis with one line per value of the second
// group key, or a single line when there is none.
func buildLines(fig *model.FigureSpec, plan model.ChartPlan, table model.AggregateTable) error {
	keys := table.GroupKeys
	if keys[0] != model.FieldYear {
		return fmt.Errorf("build line figure: first group key is %q, want %q", keys[0], model.FieldYear)
	}

	years := distinctKeys(table.Rows, model.FieldYear)
	sortYears(years)
	fig.XAxis.Categories = years

	if len(keys) == 1 {
		s := seriesFor(plan.Labels.Legend, table.Rows, model.FieldYear, years, nil)
		s.Markers = true
		fig.Series = []model.Series{s}
	} else {
		lineKey := keys[1]
		lines := categoryAxis(plan, table, lineKey)
		for _, name := range lines {
			match := func(row model.AggregateRow) bool { return row.Key(lineKey) == name }
			s := seriesFor(name, table.Rows, model.FieldYear, years, match)
			s.Markers = true
			fig.Series = append(fig.Series, s)
		}
	}
	fig.YAxis.Range = valueRange(plan.ValueRange, means(table.Rows))
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// categoryAxis uses the plan's explicit order when one is set, keeping only
// values present in the table, and otherwise the table's own order.
func categoryAxis(plan model.ChartPlan, table model.AggregateTable, key model.Field) []string {
	present := distinctKeys(table.Rows, key)
	if key == model.FieldYear {
		sortYears(present)
	}
	if key != model.FieldPlace || len(plan.CategoryOrder) == 0 {
		return present
	}
	inTable := make(map[string]bool, len(present))
	for _, p := range present {
		inTable[p] = true
	}
	ordered := make([]string, 0, len(present))
	for _, p := range plan.CategoryOrder {
		if inTable[p] {
			ordered = append(ordered, p)
			delete(inTable, p)
		}
	}
	for _, p := range present {
		if inTable[p] {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// seriesFor emits one point per category that has a row; missing
// combinations are left out rather than drawn as zero.
func seriesFor(name string, rows []model.AggregateRow, catKey model.Field, categories []string, match func(model.AggregateRow) bool) model.Series {
	byCategory := make(map[string]float64)
	for _, row := range rows {
		if match != nil && !match(row) {
			continue
		}
		byCategory[row.Key(catKey)] = row.Mean
	}
	s := model.Series{Name: name, Points: []model.Point{}}
	for _, c := range categories {
		if v, ok := byCategory[c]; ok {
			s.Points = append(s.Points, model.Point{X: c, Y: v})
		}
	}
	return s
}

func means(rows []model.AggregateRow) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Mean)
	}
	return out
}

func valueRange(policy model.RangePolicy, values []float64) *[2]float64 {
	switch policy.Mode {
	case model.RangeFixed:
		return &[2]float64{policy.Min, policy.Max}
	case model.RangeObserved:
		if len(values) == 0 {
			return nil
		}
		return &[2]float64{floats.Min(values), floats.Max(values)}
	case model.RangeZeroToMax:
		if len(values) == 0 {
			return nil
		}
		return &[2]float64{0, max(0, floats.Max(values))}
	}
	return nil
}
