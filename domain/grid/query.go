package grid

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"sheetdash/internal/errors"
)

// Search keeps the records whose values contain the trimmed term as a
// case-insensitive substring, in any column. A blank term passes every
// record through. Order is preserved; the input is never modified.
func Search(rs RecordSet, term string) RecordSet {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return rs
	}

	matched := make([]Record, 0, len(rs.Records))
	for _, record := range rs.Records {
		for _, column := range rs.Columns {
			if strings.Contains(strings.ToLower(record[column]), needle) {
				matched = append(matched, record)
				break
			}
		}
	}
	return RecordSet{Columns: rs.Columns, Records: matched}
}

// Sort returns a reordered copy of rs. When both compared cells parse as
// finite numbers they compare numerically, otherwise as case-sensitive
// collated strings. The sort is stable in both directions. Sorting by a
// column rs does not have is a caller bug and returns an unknown-column
// error.
func Sort(rs RecordSet, spec SortSpec) (RecordSet, error) {
	if !rs.HasColumn(spec.Column) {
		return RecordSet{}, errors.UnknownColumn(spec.Column)
	}

	records := make([]Record, len(rs.Records))
	copy(records, rs.Records)

	collator := collate.New(language.Und)
	sort.SliceStable(records, func(i, j int) bool {
		cmp := compareCells(collator, records[i][spec.Column], records[j][spec.Column])
		if spec.Descending {
			return cmp > 0
		}
		return cmp < 0
	})

	return RecordSet{Columns: rs.Columns, Records: records}, nil
}

// compareCells orders two cells: numerically when both parse as finite
// numbers, by collation otherwise.
func compareCells(collator *collate.Collator, a, b string) int {
	fa, oka := parseFinite(a)
	fb, okb := parseFinite(b)
	if oka && okb {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return collator.CompareString(a, b)
}

// Paginate returns the 1-indexed page [(pageIndex-1)*pageSize,
// pageIndex*pageSize) of rs. A start past the end yields an empty page, not
// an error. pageSize and pageIndex below 1 are caller bugs.
func Paginate(rs RecordSet, pageSize, pageIndex int) ([]Record, error) {
	if pageSize < 1 {
		return nil, errors.InvalidInput("pageSize must be positive")
	}
	if pageIndex < 1 {
		return nil, errors.InvalidInput("pageIndex must be positive")
	}

	start := (pageIndex - 1) * pageSize
	if start >= len(rs.Records) {
		return []Record{}, nil
	}
	end := start + pageSize
	if end > len(rs.Records) {
		end = len(rs.Records)
	}
	return rs.Records[start:end], nil
}

// TotalPages reports how many pages of pageSize cover totalRows
func TotalPages(totalRows, pageSize int) int {
	if pageSize < 1 || totalRows < 1 {
		return 0
	}
	return (totalRows + pageSize - 1) / pageSize
}

// ApplyView composes the engine for one render: search, then sort, then
// paginate, with the totals computed on the filtered set. Column selections
// are validated against rs; an empty selection means all columns.
func ApplyView(rs RecordSet, view ViewState) (TableView, error) {
	filtered := Search(rs, view.Search)

	if view.Sort != nil {
		sorted, err := Sort(filtered, *view.Sort)
		if err != nil {
			return TableView{}, err
		}
		filtered = sorted
	}

	records, err := Paginate(filtered, view.PageSize, view.Page)
	if err != nil {
		return TableView{}, err
	}

	columns := rs.Columns
	if len(view.Columns) > 0 {
		for _, column := range view.Columns {
			if !rs.HasColumn(column) {
				return TableView{}, errors.UnknownColumn(column)
			}
		}
		columns = view.Columns
	}

	return TableView{
		Columns:    columns,
		Records:    records,
		TotalRows:  filtered.Len(),
		TotalPages: TotalPages(filtered.Len(), view.PageSize),
		Page:       view.Page,
		PageSize:   view.PageSize,
	}, nil
}
