package model

import (
	"strconv"
	"strings"
)

type GeoType string

const (
	GeoTypeBorough  GeoType = "Borough"
	GeoTypeUHF42    GeoType = "UHF42"
	GeoTypeCitywide GeoType = "Citywide"
)

// ParseGeoType keeps unknown spellings (UHF34, CD, ...) as-is; they load but
// are never selected by any chart.
func ParseGeoType(raw string) GeoType {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "citywide") || strings.EqualFold(raw, "city wide") {
		return GeoTypeCitywide
	}
	return GeoType(raw)
}

type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// ParseSeason accepts bare names and period labels such as "Winter 2008-09".
// Anything else reports false and the observation carries no season.
func ParseSeason(raw string) (Season, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", false
	}
	switch strings.ToLower(fields[0]) {
	case "winter":
		return SeasonWinter, true
	case "spring":
		return SeasonSpring, true
	case "summer":
		return SeasonSummer, true
	case "fall", "autumn":
		return SeasonFall, true
	}
	return "", false
}

// Observation is one row of the cleaned air-quality dataset.
type Observation struct {
	MetricName   string  `json:"metric_name"`
	GeoType      GeoType `json:"geo_type"`
	GeoPlaceName string  `json:"geo_place_name"`
	Year         int     `json:"year"`
	Season       Season  `json:"season,omitempty"`
	Value        float64 `json:"value"`
}

func (o Observation) HasSeason() bool {
	return o.Season != ""
}

// Field names a group key of an aggregation.
type Field string

const (
	FieldPlace  Field = "geo_place_name"
	FieldYear   Field = "year"
	FieldSeason Field = "season"
)

// AggregateRow holds one group. Only the fields listed in the owning table's
// GroupKeys are meaningful.
type AggregateRow struct {
	Place  string  `json:"geo_place_name,omitempty"`
	Year   int     `json:"year,omitempty"`
	Season Season  `json:"season,omitempty"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
}

// Key renders the row's value for a group key as a string.
func (r AggregateRow) Key(f Field) string {
	switch f {
	case FieldPlace:
		return r.Place
	case FieldYear:
		return strconv.Itoa(r.Year)
	case FieldSeason:
		return string(r.Season)
	}
	return ""
}

type AggregateTable struct {
	Metric    string         `json:"metric"`
	GroupKeys []Field        `json:"group_keys"`
	Rows      []AggregateRow `json:"rows"`
}

func (t AggregateTable) Empty() bool {
	return len(t.Rows) == 0
}

func (t AggregateTable) HasKey(f Field) bool {
	for _, k := range t.GroupKeys {
		if k == f {
			return true
		}
	}
	return false
}
