package ui

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sheetdash/app"
	"sheetdash/domain/grid"
	"sheetdash/models"
)

// pageLinkLimit caps the numbered page buttons; beyond it the fragment
// falls back to prev/next only.
const pageLinkLimit = 12

// columnHeader is one sortable table header. SortURL already encodes the
// toggled direction for the active column.
type columnHeader struct {
	Name       string
	SortURL    string
	Active     bool
	Descending bool
}

type tableFragment struct {
	Sheet    string
	Search   string
	Table    grid.TableView
	Columns  []columnHeader
	Rows     [][]string
	PrevURL  string
	NextURL  string
	PageURLs []string
	CSVURL   string
	JSONURL  string
}

// handleTableFragment returns the table panel for HTMX swaps
func (a *App) handleTableFragment(w http.ResponseWriter, r *http.Request) {
	view, err := buildView(r.URL.Query(), a.service, a.cfg.Data)
	if err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}

	table, err := a.service.Table(view)
	if err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}

	a.renderPartial(w, "table.html", newTableFragment(view, table))
}

func newTableFragment(view grid.ViewState, table grid.TableView) tableFragment {
	f := tableFragment{
		Sheet:   view.Sheet,
		Search:  view.Search,
		Table:   table,
		CSVURL:  exportURL(view, grid.FormatCSV),
		JSONURL: exportURL(view, grid.FormatJSON),
	}

	base := viewQuery(view)
	for _, column := range table.Columns {
		header := columnHeader{Name: column}
		if view.Sort != nil && view.Sort.Column == column {
			header.Active = true
			header.Descending = view.Sort.Descending
		}

		link := cloneValues(base)
		link.Set("sort", column)
		link.Del("dir")
		if header.Active && !header.Descending {
			link.Set("dir", "desc")
		}
		header.SortURL = "/fragments/table?" + link.Encode()
		f.Columns = append(f.Columns, header)
	}

	for _, record := range table.Records {
		row := make([]string, len(table.Columns))
		for i, column := range table.Columns {
			row[i] = record[column]
		}
		f.Rows = append(f.Rows, row)
	}

	if table.Page > 1 {
		f.PrevURL = pageURL(base, table.Page-1)
	}
	if table.Page < table.TotalPages {
		f.NextURL = pageURL(base, table.Page+1)
	}
	if table.TotalPages > 1 && table.TotalPages <= pageLinkLimit {
		for page := 1; page <= table.TotalPages; page++ {
			f.PageURLs = append(f.PageURLs, pageURL(base, page))
		}
	}

	return f
}

// viewQuery encodes the view back into query parameters, the inverse of
// buildView. Page is left out; pagination links add their own.
func viewQuery(view grid.ViewState) url.Values {
	values := url.Values{}
	values.Set("sheet", view.Sheet)
	values.Set("size", strconv.Itoa(view.PageSize))
	if view.Search != "" {
		values.Set("q", view.Search)
	}
	if view.Sort != nil {
		values.Set("sort", view.Sort.Column)
		if view.Sort.Descending {
			values.Set("dir", "desc")
		}
	}
	if len(view.Columns) > 0 {
		values.Set("columns", strings.Join(view.Columns, ","))
	}
	return values
}

func pageURL(base url.Values, page int) string {
	link := cloneValues(base)
	link.Set("page", strconv.Itoa(page))
	return "/fragments/table?" + link.Encode()
}

func exportURL(view grid.ViewState, format string) string {
	values := url.Values{}
	values.Set("sheet", view.Sheet)
	values.Set("format", format)
	if len(view.Columns) > 0 {
		values.Set("columns", strings.Join(view.Columns, ","))
	}
	return "/export?" + values.Encode()
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, vals := range values {
		out[key] = append([]string(nil), vals...)
	}
	return out
}

type kpiCard struct {
	Label   string
	Display string
}

// barRow is one horizontal bar. Share is the value's fraction of the
// largest bar, 0..1.
type barRow struct {
	Label   string
	Display string
	Share   float64
}

type summaryRow struct {
	Column   string
	Kind     string
	Count    int
	Missing  int
	Distinct int
	Mean     string
	Median   string
	StdDev   string
	Min      string
	Max      string
}

type corrCell struct {
	Display string
	Class   string
}

type corrRow struct {
	Name  string
	Cells []corrCell
}

type overviewFragment struct {
	Sheet        string
	KPIs         []kpiCard
	StatusColumn string
	StatusBars   []barRow
	GroupColumn  string
	ValueColumn  string
	GroupBars    []barRow
	Summaries    []summaryRow
	CorrColumns  []string
	CorrRows     []corrRow
}

// handleOverviewFragment returns the KPI and chart panel for HTMX swaps
func (a *App) handleOverviewFragment(w http.ResponseWriter, r *http.Request) {
	sheet, err := resolveSheet(r.URL.Query(), a.service)
	if err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}

	overview, err := a.service.Overview(sheet)
	if err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}

	a.renderPartial(w, "overview.html", newOverviewFragment(overview))
}

func newOverviewFragment(o *app.SheetOverview) overviewFragment {
	f := overviewFragment{
		Sheet:        o.Sheet,
		StatusColumn: o.StatusColumn,
		StatusBars:   barRows(o.StatusCounts),
		GroupColumn:  o.GroupColumn,
		ValueColumn:  o.ValueColumn,
		GroupBars:    barRows(o.GroupTotals),
	}

	for _, kpi := range o.KPIs {
		f.KPIs = append(f.KPIs, kpiCard{Label: kpi.Label, Display: formatValue(kpi.Value)})
	}

	for _, s := range o.Summaries {
		row := summaryRow{
			Column:   s.Column,
			Kind:     s.Kind.String(),
			Count:    s.Count,
			Missing:  s.Missing,
			Distinct: s.Distinct,
			Mean:     "—",
			Median:   "—",
			StdDev:   "—",
			Min:      "—",
			Max:      "—",
		}
		if s.Kind == grid.KindNumeric {
			row.Mean = formatValue(s.Mean)
			row.Median = formatValue(s.Median)
			row.StdDev = formatValue(s.StdDev)
			row.Min = formatValue(s.Min)
			row.Max = formatValue(s.Max)
		}
		f.Summaries = append(f.Summaries, row)
	}

	f.CorrColumns = o.Correlations.Columns
	for i, name := range o.Correlations.Columns {
		row := corrRow{Name: name}
		for j := range o.Correlations.Columns {
			cell := corrCell{Display: "—", Class: "corr-none"}
			if v, ok := o.Correlations.Cell(i, j); ok {
				cell.Display = strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
				cell.Class = corrClass(v)
			}
			row.Cells = append(row.Cells, cell)
		}
		f.CorrRows = append(f.CorrRows, row)
	}

	return f
}

func barRows(entries grid.AggregationResult) []barRow {
	if len(entries) == 0 {
		return nil
	}
	top := entries[0].Value
	for _, entry := range entries[1:] {
		if entry.Value > top {
			top = entry.Value
		}
	}

	rows := make([]barRow, 0, len(entries))
	for _, entry := range entries {
		row := barRow{Label: entry.Label, Display: formatValue(entry.Value)}
		if top > 0 {
			row.Share = entry.Value / top
		}
		rows = append(rows, row)
	}
	return rows
}

func corrClass(v float64) string {
	switch abs := math.Abs(v); {
	case abs >= 0.7:
		return "corr-strong"
	case abs >= 0.4:
		return "corr-mid"
	default:
		return "corr-weak"
	}
}

// formatValue rounds to two decimals and drops trailing zeros, so counts
// stay integral and means stay short.
func formatValue(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// handleHistoryFragment returns the recent load history panel
func (a *App) handleHistoryFragment(w http.ResponseWriter, r *http.Request) {
	limit := clampInt(queryInt(r.URL.Query(), "limit", 20), 1, maxHistoryRows)

	snapshots, err := a.service.History(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), httpStatus(err))
		return
	}

	a.renderPartial(w, "history.html", map[string]interface{}{
		"Entries": models.NewHistoryEntries(snapshots),
	})
}
