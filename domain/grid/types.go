package grid

// RawSheet is the decoder's view of one sheet: the first row holds the
// header labels, every following row is one data row, positionally aligned.
type RawSheet [][]string

// Workbook maps sheet names to raw sheets while preserving the sheet order
// of the source file. It is built once per successful decode and replaced
// in full; nothing mutates it afterwards.
type Workbook struct {
	names  []string
	sheets map[string]RawSheet
}

// NewWorkbook creates an empty workbook
func NewWorkbook() *Workbook {
	return &Workbook{sheets: make(map[string]RawSheet)}
}

// Add appends a sheet. Adding an existing name replaces the sheet without
// changing its position.
func (w *Workbook) Add(name string, sheet RawSheet) {
	if _, ok := w.sheets[name]; !ok {
		w.names = append(w.names, name)
	}
	w.sheets[name] = sheet
}

// Sheet returns the raw sheet for name
func (w *Workbook) Sheet(name string) (RawSheet, bool) {
	s, ok := w.sheets[name]
	return s, ok
}

// Names returns the sheet names in source order
func (w *Workbook) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Len returns the number of sheets
func (w *Workbook) Len() int {
	return len(w.names)
}

// Record is one logical data row: column name to cell value. Values stay
// strings at ingestion; numeric parsing happens on demand.
type Record map[string]string

// RecordSet is the ordered collection of Records for one sheet plus the
// column order that defines display. Every Record carries a value, possibly
// empty, for every column.
type RecordSet struct {
	Columns []string
	Records []Record
}

// Len returns the number of records
func (rs RecordSet) Len() int {
	return len(rs.Records)
}

// IsEmpty reports whether the set holds no records
func (rs RecordSet) IsEmpty() bool {
	return len(rs.Records) == 0
}

// HasColumn reports whether name is one of the set's columns
func (rs RecordSet) HasColumn(name string) bool {
	for _, c := range rs.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnKind is the classifier's verdict for one column
type ColumnKind int

const (
	// KindEmpty marks a column with no usable values. It is the zero value
	// so an unclassified lookup reads as empty, never as numeric.
	KindEmpty ColumnKind = iota
	KindNumeric
	KindCategorical
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "empty"
	}
}

// MarshalJSON renders the kind as its string form
func (k ColumnKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Classification partitions a RecordSet's columns by kind. Numeric and
// Categorical keep column order and are disjoint.
type Classification struct {
	Kinds       map[string]ColumnKind
	Numeric     []string
	Categorical []string
}

// KindOf returns the kind for column, KindEmpty when the column was never
// classified.
func (c Classification) KindOf(column string) ColumnKind {
	return c.Kinds[column]
}

// AggregateEntry is one ranked (label, value) pair
type AggregateEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// AggregationResult is sorted descending by value, ties in first-appearance
// order, truncated to the caller's topN.
type AggregationResult []AggregateEntry

// SortSpec is the single active sort key
type SortSpec struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

// ViewState is the immutable view selection threaded through the query
// engine. With* methods return modified copies; the engine itself holds no
// session state.
type ViewState struct {
	Sheet    string
	Search   string
	Sort     *SortSpec
	Page     int
	PageSize int
	Columns  []string
}

// NewViewState starts a view on sheet at page 1
func NewViewState(sheet string, pageSize int) ViewState {
	return ViewState{Sheet: sheet, Page: 1, PageSize: pageSize}
}

// WithSheet switches sheets. Sort and column selections are sheet-scoped so
// they are cleared; the search term survives and the page resets to 1.
func (v ViewState) WithSheet(sheet string) ViewState {
	if sheet == v.Sheet {
		return v
	}
	v.Sheet = sheet
	v.Sort = nil
	v.Columns = nil
	v.Page = 1
	return v
}

// WithSearch sets the search term and resets the page to 1
func (v ViewState) WithSearch(term string) ViewState {
	v.Search = term
	v.Page = 1
	return v
}

// WithSort selects a sort column. Re-selecting the active column flips the
// direction; a new column starts ascending.
func (v ViewState) WithSort(column string) ViewState {
	if v.Sort != nil && v.Sort.Column == column {
		v.Sort = &SortSpec{Column: column, Descending: !v.Sort.Descending}
		return v
	}
	v.Sort = &SortSpec{Column: column}
	return v
}

// WithPage moves to page, 1-indexed
func (v ViewState) WithPage(page int) ViewState {
	v.Page = page
	return v
}

// WithPageSize sets the page size
func (v ViewState) WithPageSize(size int) ViewState {
	v.PageSize = size
	return v
}

// WithColumns restricts the view to the given columns
func (v ViewState) WithColumns(columns []string) ViewState {
	v.Columns = columns
	return v
}

// TableView is the query engine's composed output for one render: the page
// of records plus the totals the table chrome needs.
type TableView struct {
	Columns    []string
	Records    []Record
	TotalRows  int
	TotalPages int
	Page       int
	PageSize   int
}
