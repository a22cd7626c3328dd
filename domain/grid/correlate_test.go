package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationsPerfectPair(t *testing.T) {
	rs := Normalize(RawSheet{
		{"X", "Y"},
		{"1", "2"},
		{"2", "4"},
		{"3", "6"},
	})
	m := Correlations(rs, Classify(rs))

	require.Equal(t, []string{"X", "Y"}, m.Columns)

	r, ok := m.Cell(0, 1)
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)

	self, ok := m.Cell(0, 0)
	require.True(t, ok)
	assert.InDelta(t, 1.0, self, 1e-9)
}

func TestCorrelationsNegativePair(t *testing.T) {
	rs := Normalize(RawSheet{
		{"X", "Y"},
		{"1", "9"},
		{"2", "6"},
		{"3", "3"},
	})
	m := Correlations(rs, Classify(rs))

	r, ok := m.Cell(0, 1)
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-9)
}

func TestCorrelationsSymmetric(t *testing.T) {
	rs := Normalize(RawSheet{
		{"A", "B", "C"},
		{"1", "5", "2"},
		{"2", "3", "8"},
		{"3", "8", "5"},
		{"4", "1", "9"},
	})
	m := Correlations(rs, Classify(rs))

	require.Len(t, m.Columns, 3)
	for i := range m.Columns {
		for j := range m.Columns {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}
}

func TestCorrelationsSkipUnparseableRowsPairwise(t *testing.T) {
	rs := Normalize(RawSheet{
		{"X", "Y"},
		{"1", "2"},
		{"n/a", "5"},
		{"2", "4"},
		{"3", ""},
		{"3", "6"},
	})
	m := Correlations(rs, Classify(rs))

	r, ok := m.Cell(0, 1)
	require.True(t, ok, "The parseable rows alone carry the pair")
	assert.InDelta(t, 1.0, r, 1e-9)
}

func TestCorrelationsNeedTwoNumericColumns(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name", "Score"},
		{"a", "1"},
		{"b", "2"},
	})
	m := Correlations(rs, Classify(rs))

	assert.Empty(t, m.Columns)
	assert.Empty(t, m.Values)
}

func TestCorrelationCellUncomputable(t *testing.T) {
	rs := Normalize(RawSheet{
		{"X", "Y"},
		{"1", "n/a"},
		{"2", "n/a"},
		{"n/a", "3"},
	})
	m := Correlations(rs, Classify(rs))

	_, ok := m.Cell(0, 1)
	assert.False(t, ok, "Fewer than two paired observations cannot correlate")

	_, ok = m.Cell(0, 9)
	assert.False(t, ok, "Out-of-range cells read as uncomputable")
}
