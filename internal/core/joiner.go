package core

import (
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
)

// JoinResult is the geometry side of a choropleth: one row per shape.
type JoinResult struct {
	Collection string
	KeyField   string
	Rows       []model.JoinedRow
}

// Join attaches aggregated means to every record of coll whose keyField
// property equals the row's place name. Every shape is kept; shapes without a
// match get a nil value and aggregate rows without a shape are dropped.
func Join(table model.AggregateTable, coll model.GeometryCollection, keyField string) (*JoinResult, error) {
	if keyField == "" || !coll.HasField(keyField) {
		return nil, fmt.Errorf("join %s on %q: %w", coll.Name, keyField, model.ErrInvalidJoinKey)
	}
	if len(table.GroupKeys) != 1 || table.GroupKeys[0] != model.FieldPlace {
		return nil, fmt.Errorf("join %s: table grouped by %v, want [%s]: %w", coll.Name, table.GroupKeys, model.FieldPlace, model.ErrInvalidJoinKey)
	}

	means := make(map[string]float64, len(table.Rows))
	for _, row := range table.Rows {
		means[row.Place] = row.Mean
	}

	rows := make([]model.JoinedRow, 0, coll.Len())
	for _, rec := range coll.Records {
		key, ok := rec.Attributes[keyField]
		if !ok && keyField == coll.KeyField {
			key = rec.PlaceKey
		}
		joined := model.JoinedRow{PlaceKey: key, Boundary: rec.Boundary}
		if v, found := means[key]; found {
			joined.Value = &v
		}
		rows = append(rows, joined)
	}
	return &JoinResult{Collection: coll.Name, KeyField: keyField, Rows: rows}, nil
}

// Matched counts the shapes that received a value.
func (r *JoinResult) Matched() int {
	n := 0
	for _, row := range r.Rows {
		if row.Value != nil {
			n++
		}
	}
	return n
}
