package grid

import (
	"strings"

	"github.com/montanaflynn/stats"
)

// ColumnSummary describes one column's observed content. The numeric
// fields are only meaningful for numeric columns and cover the cells that
// actually parse.
type ColumnSummary struct {
	Column   string     `json:"column"`
	Kind     ColumnKind `json:"kind"`
	Count    int        `json:"count"`
	Missing  int        `json:"missing"`
	Distinct int        `json:"distinct"`
	Mean     float64    `json:"mean,omitempty"`
	Median   float64    `json:"median,omitempty"`
	StdDev   float64    `json:"std_dev,omitempty"`
	Min      float64    `json:"min,omitempty"`
	Max      float64    `json:"max,omitempty"`
}

// Summaries profiles every column of rs: non-blank counts, missing counts,
// distinct values, and descriptive statistics for numeric columns.
func Summaries(rs RecordSet, c Classification) []ColumnSummary {
	summaries := make([]ColumnSummary, 0, len(rs.Columns))
	for _, column := range rs.Columns {
		summary := ColumnSummary{Column: column, Kind: c.KindOf(column)}

		distinct := make(map[string]struct{})
		for _, record := range rs.Records {
			value := strings.TrimSpace(record[column])
			if value == "" {
				summary.Missing++
				continue
			}
			summary.Count++
			distinct[value] = struct{}{}
		}
		summary.Distinct = len(distinct)

		if summary.Kind == KindNumeric {
			fillNumericStats(&summary, numericValues(rs, column))
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func fillNumericStats(summary *ColumnSummary, values []float64) {
	if len(values) == 0 {
		return
	}
	// The stats helpers only error on empty input, which is guarded above.
	summary.Mean, _ = stats.Mean(values)
	summary.Median, _ = stats.Median(values)
	summary.StdDev, _ = stats.StandardDeviation(values)
	summary.Min, _ = stats.Min(values)
	summary.Max, _ = stats.Max(values)
}

// numericValues collects the cells of column that parse as finite numbers
func numericValues(rs RecordSet, column string) []float64 {
	values := make([]float64, 0, len(rs.Records))
	for _, record := range rs.Records {
		if f, ok := parseFinite(record[column]); ok {
			values = append(values, f)
		}
	}
	return values
}

// KPI is one headline metric for the dashboard's top row
type KPI struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// KPIRow builds the dashboard headline: total records, then the mean of the
// first numeric column, the max of the second and the sum of the third,
// each present only when that column exists.
func KPIRow(rs RecordSet, c Classification) []KPI {
	kpis := []KPI{{Label: "Total Records", Value: float64(rs.Len())}}

	if len(c.Numeric) > 0 {
		if mean, err := stats.Mean(numericValues(rs, c.Numeric[0])); err == nil {
			kpis = append(kpis, KPI{Label: "Avg " + c.Numeric[0], Value: mean})
		}
	}
	if len(c.Numeric) > 1 {
		if max, err := stats.Max(numericValues(rs, c.Numeric[1])); err == nil {
			kpis = append(kpis, KPI{Label: "Max " + c.Numeric[1], Value: max})
		}
	}
	if len(c.Numeric) > 2 {
		if sum, err := stats.Sum(numericValues(rs, c.Numeric[2])); err == nil {
			kpis = append(kpis, KPI{Label: "Total " + c.Numeric[2], Value: sum})
		}
	}
	return kpis
}
