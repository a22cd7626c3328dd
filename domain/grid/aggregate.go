package grid

import (
	"sort"
	"strings"

	"sheetdash/internal/errors"
)

// Frequency counts the distinct trimmed values of column and returns the
// topN most frequent, descending. Blank values are ignored. Ties keep the
// order in which the values first appeared. Passing a column that is not
// part of rs is a caller bug and returns an unknown-column error.
func Frequency(rs RecordSet, column string, topN int) (AggregationResult, error) {
	if !rs.HasColumn(column) {
		return nil, errors.UnknownColumn(column)
	}
	if topN < 1 {
		return nil, errors.InvalidInput("topN must be positive")
	}

	counts := make(map[string]float64)
	var order []string
	for _, record := range rs.Records {
		value := strings.TrimSpace(record[column])
		if value == "" {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	return rank(order, counts, topN), nil
}

// GroupedSum sums numericColumn per trimmed categoricalColumn key and
// returns the topN largest groups, descending. Records with a blank group
// key are skipped; cells that do not parse as numbers contribute 0. Unknown
// columns are caller bugs and return an unknown-column error.
func GroupedSum(rs RecordSet, numericColumn, categoricalColumn string, topN int) (AggregationResult, error) {
	if !rs.HasColumn(numericColumn) {
		return nil, errors.UnknownColumn(numericColumn)
	}
	if !rs.HasColumn(categoricalColumn) {
		return nil, errors.UnknownColumn(categoricalColumn)
	}
	if topN < 1 {
		return nil, errors.InvalidInput("topN must be positive")
	}

	sums := make(map[string]float64)
	var order []string
	for _, record := range rs.Records {
		key := strings.TrimSpace(record[categoricalColumn])
		if key == "" {
			continue
		}
		value, ok := parseFinite(record[numericColumn])
		if !ok {
			value = 0
		}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += value
	}

	return rank(order, sums, topN), nil
}

// rank turns first-appearance-ordered labels and their values into a
// descending result truncated to topN. The stable sort preserves the
// first-appearance order among equal values.
func rank(order []string, values map[string]float64, topN int) AggregationResult {
	result := make(AggregationResult, 0, len(order))
	for _, label := range order {
		result = append(result, AggregateEntry{Label: label, Value: values[label]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value > result[j].Value
	})
	if len(result) > topN {
		result = result[:topN]
	}
	return result
}
