// Package export flattens a FigureSpec into a table and writes it as CSV or
// XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/xuri/excelize/v2"
	"io"
	"strconv"
)

const sheetName = "Data"

var ErrNoFigure = errors.New("no figure to export")

// Table is a header plus rows. A nil cell is a missing value.
type Table struct {
	Header []string
	Rows   [][]*float64
	Labels []string
}

// Flatten produces one row per map location or x-axis category. Series
// charts get one column per series.
func Flatten(fig *model.FigureSpec) (Table, error) {
	if fig == nil {
		return Table{}, ErrNoFigure
	}
	if fig.Kind == model.ChartChoropleth {
		return flattenMap(fig), nil
	}

	t := Table{Header: []string{fig.XAxis.Title}}
	lookup := make([]map[string]float64, len(fig.Series))
	for i, s := range fig.Series {
		t.Header = append(t.Header, s.Name)
		lookup[i] = make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			lookup[i][p.X] = p.Y
		}
	}
	for _, x := range fig.XAxis.Categories {
		row := make([]*float64, len(fig.Series))
		for i := range fig.Series {
			if v, ok := lookup[i][x]; ok {
				row[i] = &v
			}
		}
		t.Labels = append(t.Labels, x)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func flattenMap(fig *model.FigureSpec) Table {
	t := Table{Header: []string{"Place", fig.LegendTitle}}
	if fig.Map == nil {
		return t
	}
	for i, loc := range fig.Map.Locations {
		var v *float64
		if i < len(fig.Map.Values) {
			v = fig.Map.Values[i]
		}
		t.Labels = append(t.Labels, loc)
		t.Rows = append(t.Rows, []*float64{v})
	}
	return t
}

func WriteCSV(w io.Writer, fig *model.FigureSpec) error {
	t, err := Flatten(fig)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, t.Labels[i])
		for _, v := range row {
			record = append(record, formatValue(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a single "Data" sheet.
func WriteXLSX(w io.Writer, fig *model.FigureSpec) error {
	t, err := Flatten(fig)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := setCell(f, 1, i+2, t.Labels[i]); err != nil {
			return err
		}
		for j, v := range row {
			if v == nil {
				continue
			}
			if err := setCell(f, j+2, i+2, *v); err != nil {
				return err
			}
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: fig.Title, Creator: "airq"}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}
	return f.Write(w)
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("write %s: %w", cell, err)
	}
	return nil
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
