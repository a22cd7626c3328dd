package ui

import (
	"net/http"

	"sheetdash/internal/errors"
	"sheetdash/models"
)

// handleSheetsJSON lists the loaded sheets
func (a *App) handleSheetsJSON(w http.ResponseWriter, r *http.Request) {
	resp := models.SheetListResponse{
		Source: a.service.Source(),
		Sheets: a.service.Sheets(),
	}
	if a.service.HasData() {
		resp.LoadedAt = a.service.LoadedAt().String()
	}
	if primary, ok := a.service.PrimarySheet(); ok {
		resp.PrimarySheet = primary
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTableJSON returns one table page as JSON
func (a *App) handleTableJSON(w http.ResponseWriter, r *http.Request) {
	view, err := buildView(r.URL.Query(), a.service, a.cfg.Data)
	if err != nil {
		writeError(w, err)
		return
	}

	table, err := a.service.Table(view)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewTableResponse(view, table))
}

// handleOverviewJSON returns a sheet's dashboard payload as JSON
func (a *App) handleOverviewJSON(w http.ResponseWriter, r *http.Request) {
	sheet, err := resolveSheet(r.URL.Query(), a.service)
	if err != nil {
		writeError(w, err)
		return
	}

	overview, err := a.service.Overview(sheet)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewOverviewResponse(overview))
}

// handleFrequencyJSON counts a column's values
func (a *App) handleFrequencyJSON(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	column := query.Get("column")
	if column == "" {
		writeError(w, errors.InvalidInput("column parameter is required"))
		return
	}

	sheet, err := resolveSheet(query, a.service)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := a.service.Frequency(sheet, column, queryInt(query, "top", a.cfg.Data.DefaultTopN))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sheet":   sheet,
		"column":  column,
		"entries": result,
	})
}

// handleGroupedSumJSON sums a numeric column per category
func (a *App) handleGroupedSumJSON(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	value := query.Get("value")
	group := query.Get("group")
	if value == "" || group == "" {
		writeError(w, errors.InvalidInput("value and group parameters are required"))
		return
	}

	sheet, err := resolveSheet(query, a.service)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := a.service.GroupedSum(sheet, value, group, queryInt(query, "top", a.cfg.Data.DefaultTopN))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sheet":   sheet,
		"value":   value,
		"group":   group,
		"entries": result,
	})
}

// handleBriefJSON returns the markdown brief as JSON
func (a *App) handleBriefJSON(w http.ResponseWriter, r *http.Request) {
	b, err := a.service.Brief()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.BriefResponse{
		Source:    b.Source,
		Generated: b.Generated.String(),
		Markdown:  b.Markdown(),
	})
}

// handleHistoryJSON lists recent workbook loads
func (a *App) handleHistoryJSON(w http.ResponseWriter, r *http.Request) {
	limit := clampInt(queryInt(r.URL.Query(), "limit", 20), 1, maxHistoryRows)

	snapshots, err := a.service.History(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewHistoryEntries(snapshots))
}
