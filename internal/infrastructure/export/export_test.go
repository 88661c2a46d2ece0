package export

import (
	"bytes"
	"errors"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/xuri/excelize/v2"
	"reflect"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func seasonFigure() *model.FigureSpec {
	return &model.FigureSpec{
		Kind:  model.ChartGroupedBar,
		Title: "Average Nitrogen dioxide (NO2) Levels by Season and Borough in NYC",
		XAxis: model.Axis{Title: "Borough", Categories: []string{"Bronx", "Queens"}},
		Series: []model.Series{
			{Name: "Winter", Points: []model.Point{{X: "Bronx", Y: 30}, {X: "Queens", Y: 25.5}}},
			{Name: "Summer", Points: []model.Point{{X: "Bronx", Y: 20}}},
		},
	}
}

func TestWriteCSVSeries(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, seasonFigure()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "Borough,Winter,Summer\nBronx,30,20\nQueens,25.5,\n"
	if buf.String() != want {
		t.Fatalf("csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVMap(t *testing.T) {
	fig := &model.FigureSpec{
		Kind:        model.ChartChoropleth,
		LegendTitle: "ppb",
		Map: &model.MapLayer{
			Locations: []string{"Bronx", "Queens"},
			Values:    []*float64{ptr(22.5), nil},
		},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, fig); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if want := "Place,ppb\nBronx,22.5\nQueens,\n"; buf.String() != want {
		t.Fatalf("csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, seasonFigure()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Data")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{
		{"Borough", "Winter", "Summer"},
		{"Bronx", "30", "20"},
		{"Queens", "25.5"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
}

func TestExportNilFigure(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); !errors.Is(err, ErrNoFigure) {
		t.Fatalf("err = %v, want ErrNoFigure", err)
	}
	if err := WriteXLSX(&buf, nil); !errors.Is(err, ErrNoFigure) {
		t.Fatalf("err = %v, want ErrNoFigure", err)
	}
}
