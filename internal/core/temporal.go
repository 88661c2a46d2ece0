package core

import (
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"sort"
	"strconv"
)

// seasonRank orders seasons through the calendar year.
var seasonRank = map[model.Season]int{
	model.SeasonWinter: 0,
	model.SeasonSpring: 1,
	model.SeasonSummer: 2,
	model.SeasonFall:   3,
}

// SortSeasons orders season names Winter through Fall. Unknown names go last,
// lexically.
func SortSeasons(seasons []string) {
	sort.SliceStable(seasons, func(i, j int) bool {
		ri, iok := seasonRank[model.Season(seasons[i])]
		rj, jok := seasonRank[model.Season(seasons[j])]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return seasons[i] < seasons[j]
	})
}

// sortYears orders year labels numerically.
func sortYears(years []string) {
	sort.SliceStable(years, func(i, j int) bool {
		a, aerr := strconv.Atoi(years[i])
		b, berr := strconv.Atoi(years[j])
		if aerr != nil || berr != nil {
			return years[i] < years[j]
		}
		return a < b
	})
}

// distinctKeys lists the values of field in order of first appearance.
func distinctKeys(rows []model.AggregateRow, field model.Field) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range rows {
		k := row.Key(field)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
