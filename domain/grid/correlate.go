package grid

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix holds pairwise Pearson correlations for the numeric
// columns of one sheet. Cells that could not be computed (fewer than two
// paired observations, or zero variance) hold NaN; use Cell to read safely.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// Cell returns the correlation between columns i and j and whether it was
// computable.
func (m CorrelationMatrix) Cell(i, j int) (float64, bool) {
	if i < 0 || j < 0 || i >= len(m.Values) || j >= len(m.Values) {
		return 0, false
	}
	v := m.Values[i][j]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Correlations computes the Pearson matrix over the classification's
// numeric columns. Each pair uses only the records where both cells parse;
// rows that fail either parse are skipped pairwise, so every pair sees its
// own largest usable subset.
func Correlations(rs RecordSet, c Classification) CorrelationMatrix {
	columns := c.Numeric
	if len(columns) < 2 {
		return CorrelationMatrix{}
	}

	values := make([][]float64, len(columns))
	for i := range values {
		values[i] = make([]float64, len(columns))
	}

	for i := 0; i < len(columns); i++ {
		for j := i; j < len(columns); j++ {
			r := pairCorrelation(rs, columns[i], columns[j])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return CorrelationMatrix{Columns: columns, Values: values}
}

func pairCorrelation(rs RecordSet, colA, colB string) float64 {
	var xs, ys []float64
	for _, record := range rs.Records {
		a, okA := parseFinite(record[colA])
		b, okB := parseFinite(record[colB])
		if okA && okB {
			xs = append(xs, a)
			ys = append(ys, b)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
