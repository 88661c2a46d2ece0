package model

import (
	"github.com/paulmach/orb"
)

// GeometrySource selects which boundary collection a chart joins against.
type GeometrySource string

const (
	GeometryNone    GeometrySource = ""
	GeometryBorough GeometrySource = "borough"
	GeometryUHF42   GeometrySource = "uhf42"
)

// Join keys used by the NYC boundary files.
const (
	BoroughKeyField = "name"
	UHF42KeyField   = "GEONAME"
)

type GeometryRecord struct {
	PlaceKey   string
	Boundary   orb.Geometry
	Attributes map[string]string
}

// GeometryCollection is a set of named shapes plus the property schema they
// were loaded with. KeyField is the property holding each shape's place name.
type GeometryCollection struct {
	Name     string
	KeyField string
	Fields   []string
	Records  []GeometryRecord
}

func (c GeometryCollection) HasField(name string) bool {
	for _, f := range c.Fields {
		if f == name {
			return true
		}
	}
	return false
}

func (c GeometryCollection) Len() int {
	return len(c.Records)
}

// JoinedRow is one geometry with its aggregated value. Value is nil when no
// aggregate matched the shape's key.
type JoinedRow struct {
	PlaceKey string       `json:"place_key"`
	Boundary orb.Geometry `json:"-"`
	Value    *float64     `json:"value"`
}
