package core

import (
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"gonum.org/v1/gonum/stat"
	"sort"
)

type groupKey struct {
	place  string
	year   int
	season model.Season
}

// Aggregate filters observations to plan.Metric (and plan.GeoFilter when set),
// groups them by plan.GroupKeys and averages each group. Combinations with no
// observations are absent from the result. Rows are ordered by their key tuple:
// places and seasons lexically, years numerically.
func Aggregate(observations []model.Observation, plan model.AggregationPlan) (model.AggregateTable, error) {
	if plan.AggFn != "" && plan.AggFn != model.AggMean {
		return model.AggregateTable{}, fmt.Errorf("aggregate: unsupported function %q", plan.AggFn)
	}
	if err := validateGroupKeys(plan.GroupKeys); err != nil {
		return model.AggregateTable{}, err
	}

	var byPlace, byYear, bySeason bool
	for _, k := range plan.GroupKeys {
		switch k {
		case model.FieldPlace:
			byPlace = true
		case model.FieldYear:
			byYear = true
		case model.FieldSeason:
			bySeason = true
		}
	}

	groups := make(map[groupKey][]float64)
	for _, o := range observations {
		if o.MetricName != plan.Metric {
			continue
		}
		if plan.GeoFilter != "" && o.GeoType != plan.GeoFilter {
			continue
		}
		if bySeason && !o.HasSeason() {
			continue
		}
		var k groupKey
		if byPlace {
			k.place = o.GeoPlaceName
		}
		if byYear {
			k.year = o.Year
		}
		if bySeason {
			k.season = o.Season
		}
		groups[k] = append(groups[k], o.Value)
	}

	rows := make([]model.AggregateRow, 0, len(groups))
	for k, values := range groups {
		rows = append(rows, model.AggregateRow{
			Place:  k.place,
			Year:   k.year,
			Season: k.season,
			Count:  len(values),
			Mean:   stat.Mean(values, nil),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return lessRow(rows[i], rows[j], plan.GroupKeys)
	})

	keys := make([]model.Field, len(plan.GroupKeys))
	copy(keys, plan.GroupKeys)
	return model.AggregateTable{Metric: plan.Metric, GroupKeys: keys, Rows: rows}, nil
}

// PlaceOrderByMean ranks places by the mean of their group means, highest
// first. Equal means fall back to lexical order. A table without a place key
// yields nil.
func PlaceOrderByMean(table model.AggregateTable) []string {
	if !table.HasKey(model.FieldPlace) {
		return nil
	}
	means := make(map[string][]float64)
	for _, row := range table.Rows {
		means[row.Place] = append(means[row.Place], row.Mean)
	}

	places := make([]string, 0, len(means))
	overall := make(map[string]float64, len(means))
	for place, values := range means {
		places = append(places, place)
		overall[place] = stat.Mean(values, nil)
	}
	sort.Slice(places, func(i, j int) bool {
		a, b := overall[places[i]], overall[places[j]]
		if a != b {
			return a > b
		}
		return places[i] < places[j]
	})
	return places
}

func validateGroupKeys(keys []model.Field) error {
	if len(keys) == 0 {
		return fmt.Errorf("aggregate: no group keys")
	}
	seen := make(map[model.Field]bool, len(keys))
	for _, k := range keys {
		switch k {
		case model.FieldPlace, model.FieldYear, model.FieldSeason:
		default:
			return fmt.Errorf("aggregate: unknown group key %q", k)
		}
		if seen[k] {
			return fmt.Errorf("aggregate: duplicate group key %q", k)
		}
		seen[k] = true
	}
	return nil
}

func lessRow(a, b model.AggregateRow, keys []model.Field) bool {
	for _, k := range keys {
		switch k {
		case model.FieldYear:
			if a.Year != b.Year {
				return a.Year < b.Year
			}
		case model.FieldPlace:
			if a.Place != b.Place {
				return a.Place < b.Place
			}
		case model.FieldSeason:
			if a.Season != b.Season {
				return a.Season < b.Season
			}
		}
	}
	return false
}
