package models

import (
	"sheetdash/app"
	"sheetdash/domain/grid"
	"sheetdash/ports"
)

// ChartPoint is one labeled value in a chart series
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SortState mirrors the active sort for the client
type SortState struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

// TableResponse is the JSON shape of one table render
type TableResponse struct {
	Sheet      string              `json:"sheet"`
	Columns    []string            `json:"columns"`
	Records    []map[string]string `json:"records"`
	TotalRows  int                 `json:"total_rows"`
	TotalPages int                 `json:"total_pages"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Search     string              `json:"search,omitempty"`
	Sort       *SortState          `json:"sort,omitempty"`
}

// NewTableResponse converts a table view, restricting each record to the
// projected columns so the payload carries nothing the client will not show.
func NewTableResponse(view grid.ViewState, table grid.TableView) TableResponse {
	records := make([]map[string]string, 0, len(table.Records))
	for _, record := range table.Records {
		row := make(map[string]string, len(table.Columns))
		for _, column := range table.Columns {
			row[column] = record[column]
		}
		records = append(records, row)
	}

	resp := TableResponse{
		Sheet:      view.Sheet,
		Columns:    table.Columns,
		Records:    records,
		TotalRows:  table.TotalRows,
		TotalPages: table.TotalPages,
		Page:       table.Page,
		PageSize:   table.PageSize,
		Search:     view.Search,
	}
	if view.Sort != nil {
		resp.Sort = &SortState{Column: view.Sort.Column, Descending: view.Sort.Descending}
	}
	return resp
}

// SummaryView is the JSON shape of one column profile. The statistics are
// pointers so non-numeric columns omit them instead of sending zeros.
type SummaryView struct {
	Column   string   `json:"column"`
	Kind     string   `json:"kind"`
	Count    int      `json:"count"`
	Missing  int      `json:"missing"`
	Distinct int      `json:"distinct"`
	Mean     *float64 `json:"mean,omitempty"`
	Median   *float64 `json:"median,omitempty"`
	StdDev   *float64 `json:"std_dev,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// NewSummaryViews converts column summaries for the API
func NewSummaryViews(summaries []grid.ColumnSummary) []SummaryView {
	views := make([]SummaryView, 0, len(summaries))
	for _, s := range summaries {
		view := SummaryView{
			Column:   s.Column,
			Kind:     s.Kind.String(),
			Count:    s.Count,
			Missing:  s.Missing,
			Distinct: s.Distinct,
		}
		if s.Kind == grid.KindNumeric {
			mean, median, stddev, min, max := s.Mean, s.Median, s.StdDev, s.Min, s.Max
			view.Mean, view.Median, view.StdDev = &mean, &median, &stddev
			view.Min, view.Max = &min, &max
		}
		views = append(views, view)
	}
	return views
}

// CorrelationView is the JSON shape of the correlation matrix. Uncomputable
// cells are null rather than NaN, which JSON cannot carry.
type CorrelationView struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// NewCorrelationView converts the matrix, or returns nil when there is none
func NewCorrelationView(m grid.CorrelationMatrix) *CorrelationView {
	if len(m.Columns) == 0 {
		return nil
	}
	values := make([][]*float64, len(m.Columns))
	for i := range m.Columns {
		values[i] = make([]*float64, len(m.Columns))
		for j := range m.Columns {
			if v, ok := m.Cell(i, j); ok {
				cell := v
				values[i][j] = &cell
			}
		}
	}
	return &CorrelationView{Columns: m.Columns, Values: values}
}

// OverviewResponse is the JSON shape of a sheet's dashboard payload
type OverviewResponse struct {
	Sheet        string           `json:"sheet"`
	KPIs         []ChartPoint     `json:"kpis"`
	StatusColumn string           `json:"status_column,omitempty"`
	StatusCounts []ChartPoint     `json:"status_counts,omitempty"`
	GroupColumn  string           `json:"group_column,omitempty"`
	ValueColumn  string           `json:"value_column,omitempty"`
	GroupTotals  []ChartPoint     `json:"group_totals,omitempty"`
	KeyColumns   grid.KeyColumns  `json:"key_columns"`
	Summaries    []SummaryView    `json:"summaries"`
	Correlations *CorrelationView `json:"correlations,omitempty"`
}

// NewOverviewResponse converts the service overview for the API
func NewOverviewResponse(o *app.SheetOverview) OverviewResponse {
	return OverviewResponse{
		Sheet:        o.Sheet,
		KPIs:         kpiPoints(o.KPIs),
		StatusColumn: o.StatusColumn,
		StatusCounts: aggregatePoints(o.StatusCounts),
		GroupColumn:  o.GroupColumn,
		ValueColumn:  o.ValueColumn,
		GroupTotals:  aggregatePoints(o.GroupTotals),
		KeyColumns:   o.KeyColumns,
		Summaries:    NewSummaryViews(o.Summaries),
		Correlations: NewCorrelationView(o.Correlations),
	}
}

func kpiPoints(kpis []grid.KPI) []ChartPoint {
	points := make([]ChartPoint, 0, len(kpis))
	for _, kpi := range kpis {
		points = append(points, ChartPoint{Label: kpi.Label, Value: kpi.Value})
	}
	return points
}

func aggregatePoints(entries grid.AggregationResult) []ChartPoint {
	if len(entries) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(entries))
	for _, entry := range entries {
		points = append(points, ChartPoint{Label: entry.Label, Value: entry.Value})
	}
	return points
}

// SheetListResponse lists the loaded sheets plus the one to open first
type SheetListResponse struct {
	Source       string          `json:"source"`
	LoadedAt     string          `json:"loaded_at,omitempty"`
	PrimarySheet string          `json:"primary_sheet,omitempty"`
	Sheets       []app.SheetInfo `json:"sheets"`
}

// UploadResponse confirms an accepted workbook
type UploadResponse struct {
	Source string          `json:"source"`
	Sheets []app.SheetInfo `json:"sheets"`
}

// HistoryEntry is one recorded workbook load
type HistoryEntry struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	SheetCount int    `json:"sheet_count"`
	RowCount   int    `json:"row_count"`
	LoadedAt   string `json:"loaded_at"`
}

// NewHistoryEntries converts snapshots for the API
func NewHistoryEntries(snapshots []*ports.Snapshot) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(snapshots))
	for _, snap := range snapshots {
		entries = append(entries, HistoryEntry{
			ID:         snap.ID.String(),
			Source:     snap.Source,
			SheetCount: snap.SheetCount,
			RowCount:   snap.RowCount,
			LoadedAt:   snap.LoadedAt.String(),
		})
	}
	return entries
}

// BriefResponse carries the markdown data brief
type BriefResponse struct {
	Source    string `json:"source"`
	Generated string `json:"generated"`
	Markdown  string `json:"markdown"`
}

// ErrorResponse is the uniform JSON error body
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
