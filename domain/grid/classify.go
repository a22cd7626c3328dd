package grid

import (
	"math"
	"strconv"
	"strings"
)

// Classify partitions a RecordSet's columns into numeric, categorical and
// empty. A column is numeric as soon as one cell parses as a finite number;
// it is categorical when it is not numeric but holds at least one non-blank
// value; columns with neither are empty. The result is deterministic for a
// fixed input and is meant to be computed once per RecordSet and cached by
// the caller, not re-derived per chart.
func Classify(rs RecordSet) Classification {
	kinds := make(map[string]ColumnKind, len(rs.Columns))

	// First pass: a single finite cell makes the column numeric.
	for _, column := range rs.Columns {
		for _, record := range rs.Records {
			if _, ok := parseFinite(record[column]); ok {
				kinds[column] = KindNumeric
				break
			}
		}
	}

	// Second pass: any non-blank value makes a non-numeric column categorical.
	for _, column := range rs.Columns {
		if kinds[column] == KindNumeric {
			continue
		}
		for _, record := range rs.Records {
			if strings.TrimSpace(record[column]) != "" {
				kinds[column] = KindCategorical
				break
			}
		}
	}

	c := Classification{Kinds: kinds}
	for _, column := range rs.Columns {
		switch kinds[column] {
		case KindNumeric:
			c.Numeric = append(c.Numeric, column)
		case KindCategorical:
			c.Categorical = append(c.Categorical, column)
		}
	}
	return c
}

// parseFinite parses a cell as a finite decimal number. Surrounding
// whitespace is tolerated; NaN and infinities are rejected.
func parseFinite(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
