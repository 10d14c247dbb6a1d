package chart

import (
	"sort"
	"strconv"
	"strings"

	"github.com/insightxpress/server/internal/dataset"
)

// group is one category with the summed numeric value of its rows.
type group struct {
	Label string
	Value float64
}

// aggregate sums the numeric column per category and orders the result
// descending by value (ties broken by label for determinism). Rows whose
// numeric cell does not parse are skipped.
func aggregate(tbl *dataset.Table, cat, val string) []group {
	ci, vi := tbl.ColumnIndex(cat), tbl.ColumnIndex(val)
	if ci < 0 || vi < 0 {
		return nil
	}

	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, row := range tbl.Rows {
		var label, raw string
		if ci < len(row) {
			label = strings.TrimSpace(row[ci])
		}
		if vi < len(row) {
			raw = strings.TrimSpace(row[vi])
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if _, ok := sums[label]; !ok {
			order = append(order, label)
		}
		sums[label] += v
	}

	groups := make([]group, 0, len(order))
	for _, label := range order {
		groups = append(groups, group{Label: label, Value: sums[label]})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Value != groups[j].Value {
			return groups[i].Value > groups[j].Value
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}

// topGroups returns at most n groups, keeping the descending value order.
func topGroups(groups []group, n int) []group {
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// byLabel re-sorts groups ascending by category, the order line charts use.
func byLabel(groups []group) []group {
	out := make([]group, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// pieSlices keeps the top pieTopGroups groups and, when more exist, folds
// the remainder into a synthesized "Outros" bucket summing their values.
func pieSlices(groups []group) []group {
	if len(groups) <= pieTopGroups {
		return groups
	}
	slices := make([]group, 0, pieTopGroups+1)
	slices = append(slices, groups[:pieTopGroups]...)
	var rest float64
	for _, g := range groups[pieTopGroups:] {
		rest += g.Value
	}
	return append(slices, group{Label: othersLabel, Value: rest})
}
