package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sheetdash/app"
	"sheetdash/domain/grid"
	"sheetdash/internal/config"
	"sheetdash/internal/errors"
	"sheetdash/models"
)

const (
	maxPageSize    = 200
	maxHistoryRows = 100
)

// buildView assembles a grid.ViewState from request query parameters. Every
// request carries its full view in the query string; the server keeps no
// per-session state.
func buildView(query url.Values, service *app.DashboardService, data config.DataConfig) (grid.ViewState, error) {
	sheet, err := resolveSheet(query, service)
	if err != nil {
		return grid.ViewState{}, err
	}

	size := clampInt(queryInt(query, "size", data.DefaultPageSize), 1, maxPageSize)
	view := grid.NewViewState(sheet, size)

	if q := strings.TrimSpace(query.Get("q")); q != "" {
		view = view.WithSearch(q)
	}
	if column := query.Get("sort"); column != "" {
		view = view.WithSort(column)
		if query.Get("dir") == "desc" {
			view.Sort.Descending = true
		}
	}
	if page := queryInt(query, "page", 1); page > 1 {
		view = view.WithPage(page)
	}
	if columns := splitColumns(query.Get("columns")); len(columns) > 0 {
		view = view.WithColumns(columns)
	}
	return view, nil
}

// resolveSheet returns the requested sheet, falling back to the workbook's
// primary sheet when the parameter is absent.
func resolveSheet(query url.Values, service *app.DashboardService) (string, error) {
	if sheet := query.Get("sheet"); sheet != "" {
		return sheet, nil
	}
	primary, ok := service.PrimarySheet()
	if !ok {
		return "", errors.NotFound("workbook")
	}
	return primary, nil
}

func queryInt(query url.Values, key string, fallback int) int {
	raw := query.Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func clampInt(n, low, high int) int {
	if n < low {
		return low
	}
	if n > high {
		return high
	}
	return n
}

// splitColumns parses a comma-separated column selection, dropping empty
// entries so trailing commas are harmless.
func splitColumns(raw string) []string {
	if raw == "" {
		return nil
	}
	var columns []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			columns = append(columns, trimmed)
		}
	}
	return columns
}

// httpStatus maps application error codes onto HTTP statuses
func httpStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeSheetNotFound, errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeUnknownColumn, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeDecodeFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, httpStatus(err), models.ErrorResponse{Error: err.Error(), Code: errors.GetCode(err)})
}
