package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdash/internal/errors"
)

func sequenceSheet(n int) RecordSet {
	raw := RawSheet{{"ID"}}
	for i := 1; i <= n; i++ {
		raw = append(raw, []string{fmt.Sprintf("%d", i)})
	}
	return Normalize(raw)
}

func TestSearchMatchesAnyColumnCaseInsensitive(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name", "Dept"},
		{"Ana", "Eng"},
		{"Bo", "Sales"},
		{"Engel", "Ops"},
	})

	result := Search(rs, "ENG")

	require.Len(t, result.Records, 2)
	assert.Equal(t, "Ana", result.Records[0]["Name"], "Order must follow the input")
	assert.Equal(t, "Engel", result.Records[1]["Name"])
}

func TestSearchBlankTermPassesThrough(t *testing.T) {
	rs := sequenceSheet(4)

	for _, term := range []string{"", "   ", "\t"} {
		result := Search(rs, term)
		assert.Equal(t, rs.Records, result.Records, "Blank term %q must keep every record", term)
	}
}

func TestSearchNoMatches(t *testing.T) {
	rs := sequenceSheet(3)

	result := Search(rs, "zzz")

	assert.Equal(t, rs.Columns, result.Columns)
	assert.Empty(t, result.Records)
}

func TestSearchDoesNotModifyInput(t *testing.T) {
	rs := sequenceSheet(5)

	_ = Search(rs, "3")

	assert.Equal(t, 5, rs.Len())
	assert.Equal(t, "1", rs.Records[0]["ID"])
}

func TestSortNumericWhenAllCellsParse(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Score"},
		{"100"},
		{"9"},
		{"80"},
	})

	sorted, err := Sort(rs, SortSpec{Column: "Score"})

	require.NoError(t, err)
	assert.Equal(t, []string{"9", "80", "100"}, columnValues(sorted, "Score"),
		"Numeric cells must not sort lexicographically")
}

func TestSortDescending(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Score"},
		{"100"},
		{"9"},
		{"80"},
	})

	sorted, err := Sort(rs, SortSpec{Column: "Score", Descending: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"100", "80", "9"}, columnValues(sorted, "Score"))
}

func TestSortLexicographic(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name"},
		{"cherry"},
		{"apple"},
		{"Banana"},
	})

	sorted, err := Sort(rs, SortSpec{Column: "Name"})

	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "Banana", "cherry"}, columnValues(sorted, "Name"),
		"Collation orders by letter before case, unlike byte order")
}

func TestSortMixedColumnFallsBackToText(t *testing.T) {
	rs := Normalize(RawSheet{
		{"V"},
		{"beta"},
		{"10"},
		{"2"},
	})

	sorted, err := Sort(rs, SortSpec{Column: "V"})

	require.NoError(t, err)
	// 10 and 2 still compare numerically against each other; either compares
	// as text against beta, and digits collate before letters.
	assert.Equal(t, []string{"2", "10", "beta"}, columnValues(sorted, "V"))
}

func TestSortIsStable(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Dept", "Name"},
		{"Eng", "first"},
		{"Ops", "x"},
		{"Eng", "second"},
		{"Eng", "third"},
	})

	sorted, err := Sort(rs, SortSpec{Column: "Dept"})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third", "x"}, columnValues(sorted, "Name"),
		"Equal keys must keep their input order")
}

func TestSortDoesNotModifyInput(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Score"},
		{"3"},
		{"1"},
		{"2"},
	})

	_, err := Sort(rs, SortSpec{Column: "Score"})

	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2"}, columnValues(rs, "Score"))
}

func TestSortUnknownColumn(t *testing.T) {
	_, err := Sort(sequenceSheet(2), SortSpec{Column: "Nope"})

	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownColumn, errors.GetCode(err))
}

func TestPaginateWindows(t *testing.T) {
	rs := sequenceSheet(25)

	page1, err := Paginate(rs, 10, 1)
	require.NoError(t, err)
	require.Len(t, page1, 10)
	assert.Equal(t, "1", page1[0]["ID"])
	assert.Equal(t, "10", page1[9]["ID"])

	page3, err := Paginate(rs, 10, 3)
	require.NoError(t, err)
	require.Len(t, page3, 5, "The last page holds the remainder")
	assert.Equal(t, "21", page3[0]["ID"])
	assert.Equal(t, "25", page3[4]["ID"])

	page4, err := Paginate(rs, 10, 4)
	require.NoError(t, err)
	assert.Empty(t, page4, "Past the end is an empty page, not an error")
}

func TestPaginateRejectsNonPositiveArguments(t *testing.T) {
	rs := sequenceSheet(5)

	_, err := Paginate(rs, 0, 1)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = Paginate(rs, 10, 0)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 3, TotalPages(30, 10))
	assert.Equal(t, 4, TotalPages(31, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestApplyViewComposesSearchSortPaginate(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name", "Dept", "Score"},
		{"Ana", "Eng", "85"},
		{"Bo", "Sales", "91"},
		{"Cy", "Eng", "72"},
		{"Di", "Eng", "88"},
	})

	view := NewViewState("staff", 2).
		WithSearch("eng").
		WithSort("Score")

	table, err := ApplyView(rs, view)

	require.NoError(t, err)
	assert.Equal(t, 3, table.TotalRows, "Totals reflect the filtered set, not the page")
	assert.Equal(t, 2, table.TotalPages)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "Cy", table.Records[0]["Name"])
	assert.Equal(t, "Ana", table.Records[1]["Name"])

	table2, err := ApplyView(rs, view.WithPage(2))
	require.NoError(t, err)
	require.Len(t, table2.Records, 1)
	assert.Equal(t, "Di", table2.Records[0]["Name"])
}

func TestApplyViewColumnSelection(t *testing.T) {
	rs := Normalize(RawSheet{
		{"Name", "Dept", "Score"},
		{"Ana", "Eng", "85"},
	})

	table, err := ApplyView(rs, NewViewState("staff", 10).WithColumns([]string{"Name", "Score"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Score"}, table.Columns)

	table, err = ApplyView(rs, NewViewState("staff", 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Dept", "Score"}, table.Columns, "No selection means every column")

	_, err = ApplyView(rs, NewViewState("staff", 10).WithColumns([]string{"Nope"}))
	assert.Equal(t, errors.CodeUnknownColumn, errors.GetCode(err))
}

func columnValues(rs RecordSet, column string) []string {
	out := make([]string, 0, rs.Len())
	for _, record := range rs.Records {
		out = append(out, record[column])
	}
	return out
}
