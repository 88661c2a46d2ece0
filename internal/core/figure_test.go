package core

import (
	"encoding/json"
	"errors"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"reflect"
	"strings"
	"testing"
)

func TestBuildChoroplethMarksMissing(t *testing.T) {
	plan, _ := NewSelector().Resolve("By Borough", "Nitrogen dioxide (NO2) ppb")
	table := model.AggregateTable{
		GroupKeys: []model.Field{model.FieldPlace},
		Rows:      []model.AggregateRow{{Place: "Bronx", Mean: 22.5, Count: 2}},
	}
	join, err := Join(table, boroughCollection("Bronx", "Queens"), model.BoroughKeyField)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	fig, err := BuildFigure(plan, FigureData{Table: table, Join: join})
	if err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	if fig.Kind != model.ChartChoropleth || fig.Map == nil {
		t.Fatalf("kind = %s map = %v", fig.Kind, fig.Map)
	}
	if fig.LegendTitle != "ppb" || fig.ColorScale != "Viridis" {
		t.Errorf("legend = %q scale = %q", fig.LegendTitle, fig.ColorScale)
	}
	if fig.ColorRange == nil || *fig.ColorRange != [2]float64{0, 50} {
		t.Errorf("color range = %v, want [0 50]", fig.ColorRange)
	}
	if got := fig.Map.Locations; !reflect.DeepEqual(got, []string{"Bronx", "Queens"}) {
		t.Errorf("locations = %v", got)
	}
	if fig.Map.Values[0] == nil || *fig.Map.Values[0] != 22.5 || fig.Map.Values[1] != nil {
		t.Errorf("values = %v", fig.Map.Values)
	}
	if fig.Map.FeatureIDKey != "properties.name" {
		t.Errorf("featureidkey = %q", fig.Map.FeatureIDKey)
	}
	if len(fig.Map.Features.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(fig.Map.Features.Features))
	}

	raw, err := json.Marshal(fig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"values":[22.5,null]`) {
		t.Errorf("missing value not encoded as null: %s", raw)
	}
}

func TestBuildChoroplethObservedRange(t *testing.T) {
	plan, _ := NewSelector().Resolve("By UHF42", "Ozone (O3) ppb")
	table := model.AggregateTable{
		GroupKeys: []model.Field{model.FieldPlace},
		Rows: []model.AggregateRow{
			{Place: "A", Mean: 28},
			{Place: "B", Mean: 31},
		},
	}
	coll := model.GeometryCollection{Name: "uhf42", KeyField: model.UHF42KeyField, Fields: []string{model.UHF42KeyField}}
	for i, n := range []string{"A", "B", "C"} {
		coll.Records = append(coll.Records, model.GeometryRecord{PlaceKey: n, Boundary: square(float64(i), 0), Attributes: map[string]string{model.UHF42KeyField: n}})
	}
	join, _ := Join(table, coll, model.UHF42KeyField)
	fig, err := BuildFigure(plan, FigureData{Table: table, Join: join})
	if err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	if fig.ColorRange == nil || *fig.ColorRange != [2]float64{28, 31} {
		t.Fatalf("color range = %v, want [28 31]", fig.ColorRange)
	}
	if fig.Map.FeatureIDKey != "properties.GEONAME" {
		t.Errorf("featureidkey = %q", fig.Map.FeatureIDKey)
	}
}

func TestBuildChoroplethEmptyTableDrawsEveryShape(t *testing.T) {
	plan, _ := NewSelector().Resolve("By UHF42", "Ozone (O3) ppb")
	table := model.AggregateTable{GroupKeys: plan.Aggregation.GroupKeys}
	coll := boroughCollection("Bronx", "Queens")
	join, err := Join(table, coll, model.BoroughKeyField)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	fig, err := BuildFigure(plan, FigureData{Table: table, Join: join})
	if err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	if !fig.Empty || fig.Map == nil {
		t.Fatalf("empty = %v map = %v", fig.Empty, fig.Map)
	}
	if len(fig.Map.Locations) != coll.Len() || len(fig.Map.Features.Features) != coll.Len() {
		t.Fatalf("locations = %d features = %d, want %d", len(fig.Map.Locations), len(fig.Map.Features.Features), coll.Len())
	}
	for i, v := range fig.Map.Values {
		if v != nil {
			t.Errorf("value %d = %v, want nil", i, *v)
		}
	}
	if fig.ColorRange != nil {
		t.Errorf("color range = %v, want nil", *fig.ColorRange)
	}
}

func TestBuildChoroplethRecordWithoutBoundary(t *testing.T) {
	plan, _ := NewSelector().Resolve("By Borough", "Nitrogen dioxide (NO2) ppb")
	table := model.AggregateTable{
		GroupKeys: []model.Field{model.FieldPlace},
		Rows:      []model.AggregateRow{{Place: "Queens", Mean: 18, Count: 1}},
	}
	coll := boroughCollection("Bronx", "Queens")
	coll.Records[1].Boundary = nil
	join, err := Join(table, coll, model.BoroughKeyField)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	fig, err := BuildFigure(plan, FigureData{Table: table, Join: join})
	if err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	if len(fig.Map.Locations) != 2 || len(fig.Map.Values) != 2 {
		t.Fatalf("locations = %v values = %d", fig.Map.Locations, len(fig.Map.Values))
	}
	if fig.Map.Locations[1] != "Queens" || fig.Map.Values[1] == nil || *fig.Map.Values[1] != 18 {
		t.Errorf("Queens entry = %q %v", fig.Map.Locations[1], fig.Map.Values[1])
	}
	if n := len(fig.Map.Features.Features); n != 1 {
		t.Errorf("features = %d, want 1", n)
	}
}

func TestBuildChoroplethRequiresGeometry(t *testing.T) {
	plan, _ := NewSelector().Resolve("By Borough", "Ozone (O3) ppb")
	_, err := BuildFigure(plan, FigureData{Table: model.AggregateTable{GroupKeys: []model.Field{model.FieldPlace}}})
	if !errors.Is(err, model.ErrMissingGeometry) {
		t.Fatalf("err = %v, want ErrMissingGeometry", err)
	}
}

func TestBuildBarByYear(t *testing.T) {
	plan, _ := NewSelector().Resolve("By Year", "Deaths due to PM2.5")
	table := model.AggregateTable{
		GroupKeys: []model.Field{model.FieldYear},
		Rows: []model.AggregateRow{
			{Year: 2005, Mean: 110},
			{Year: 2015, Mean: 80},
		},
	}
	fig, err := BuildFigure(plan, FigureData{Table: table})
	if err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	if fig.XAxis.Title != "Year" || fig.YAxis.Title != "Deaths due to PM2.5" {
		t.Errorf("axes = %q / %q", fig.XAxis.Title, fig.YAxis.Title)
	}
	if !reflect.DeepEqual(fig.XAxis.Categories, []string{"2005", "2015"}) {
		t.Errorf("categories = %v", fig.XAxis.Categories)
	}
	want := []model.Series{{Name: "Deaths due to PM2.5", Points: []model.Point{{X: "2005", Y: 110}, {X: "2015", Y: 80}}}}
	if !reflect.DeepEqual(fig.Series, want) {
		t.Errorf("series = %+v, want %+v", fig.Series, want)
	}
	if fig.YAxis.Range == nil || *fig.YAxis.Range != [2]float64{0, 110} {
		t.Errorf("y range = %v", fig.YAxis.Range)
	}
}

func TestBuildGroupedBarUsesCategoryOrderWithoutZeroFill(t *testing.T) {
	plan, _ := NewSelector().Resolve("By Season", "Nitrogen dioxide (NO2) ppb")
	plan.CategoryOrder = []string{"Bronx", "Queens"}
	table := model.AggregateTable{
		GroupKeys: []model.Field{model.FieldSeason, model.FieldPlace},
		Rows: []model.AggregateRow{
			{Season: model.SeasonSummer, Place: "Bronx", Mean: 20},
			{Season: model.SeasonWinter, Place: "Bronx", Mean: 30},
			{Season: model.SeasonWinter, Place: "Queens", Mean: 25},
		},
	}
	fig, err := BuildFigure(plan, FigureData{Table: table})
	if err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	if !reflect.DeepEqual(fig.XAxis.Categories, []string{"Bronx", "Queens"}) {
		t.Errorf("categories = %v", fig.XAxis.Categories)
	}
	want := []model.Series{
		{Name: "Winter", Points: []model.Point{{X: "Bronx", Y: 30}, {X: "Queens", Y: 25}}, TextFormat: ".2f"},
		{Name: "Summer", Points: []model.Point{{X: "Bronx", Y: 20}}, TextFormat: ".2f"},
	}
	if !reflect.DeepEqual(fig.Series, want) {
		t.Errorf("series = %+v, want %+v", fig.Series, want)
	}
	if fig.XAxis.TickAngle != 45 {
		t.Errorf("tick angle = %v, want 45", fig.XAxis.TickAngle)
	}
}

func TestBuildLineSeriesPerPlace(t *testing.T) {
	plan, _ := NewSelector().Resolve("By Borough By Year", "Ozone (O3) ppb")
	plan.CategoryOrder = []string{"Queens", "Bronx"}
	table := model.AggregateTable{
		GroupKeys: []model.Field{model.FieldYear, model.FieldPlace},
		Rows: []model.AggregateRow{
			{Year: 2015, Place: "Bronx", Mean: 20},
			{Year: 2015, Place: "Queens", Mean: 40},
			{Year: 2016, Place: "Bronx", Mean: 30},
		},
	}
	fig, err := BuildFigure(plan, FigureData{Table: table})
	if err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	want := []model.Series{
		{Name: "Queens", Points: []model.Point{{X: "2015", Y: 40}}, Markers: true},
		{Name: "Bronx", Points: []model.Point{{X: "2015", Y: 20}, {X: "2016", Y: 30}}, Markers: true},
	}
	if !reflect.DeepEqual(fig.Series, want) {
		t.Errorf("series = %+v, want %+v", fig.Series, want)
	}
	if fig.YAxis.Range == nil || *fig.YAxis.Range != [2]float64{20, 40} {
		t.Errorf("y range = %v", fig.YAxis.Range)
	}
}

func TestBuildEmptyKeepsTitles(t *testing.T) {
	plan, _ := NewSelector().Resolve("By Borough By Year", "Ozone (O3) ppb")
	table := model.AggregateTable{GroupKeys: plan.Aggregation.GroupKeys}
	fig, err := BuildFigure(plan, FigureData{Table: table})
	if err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	if !fig.Empty || len(fig.Series) != 0 {
		t.Fatalf("empty = %v series = %d", fig.Empty, len(fig.Series))
	}
	if fig.Title != plan.Labels.Title || fig.XAxis.Title != "Year" || fig.YAxis.Title != "ppb" {
		t.Errorf("titles not kept: %+v", fig)
	}
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	plan, _ := NewSelector().Resolve("By Borough By Year", "Ozone (O3) ppb")
	plan.CategoryOrder = []string{"Bronx"}
	table := model.AggregateTable{
		GroupKeys: []model.Field{model.FieldYear, model.FieldPlace},
		Rows:      []model.AggregateRow{{Year: 2016, Place: "Bronx", Mean: 3}, {Year: 2015, Place: "Bronx", Mean: 2}},
	}
	before := append([]model.AggregateRow(nil), table.Rows...)
	if _, err := BuildFigure(plan, FigureData{Table: table}); err != nil {
		t.Fatalf("BuildFigure: %v", err)
	}
	if !reflect.DeepEqual(before, table.Rows) {
		t.Fatalf("rows mutated: %+v", table.Rows)
	}
}
