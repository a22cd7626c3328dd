package ui

import (
	"fmt"
	"io"
	"net/http"

	"sheetdash/domain/grid"
	"sheetdash/internal/errors"
	"sheetdash/models"
)

// handleUpload accepts a workbook file and makes it the active dataset.
// Decode failures leave the previous workbook in place.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.Data.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.cfg.Data.MaxUploadBytes); err != nil {
		writeError(w, errors.InvalidInput("upload rejected: too large or malformed"))
		return
	}

	file, header, err := r.FormFile("workbook")
	if err != nil {
		writeError(w, errors.InvalidInput("missing workbook file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to read upload"))
		return
	}

	if err := a.service.LoadBytes(r.Context(), header.Filename, data); err != nil {
		writeError(w, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Header.Get("Accept") != "application/json" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	writeJSON(w, http.StatusOK, models.UploadResponse{
		Source: a.service.Source(),
		Sheets: a.service.Sheets(),
	})
}

// handleSample swaps in the built-in demo workbook
func (a *App) handleSample(w http.ResponseWriter, r *http.Request) {
	if err := a.service.LoadSample(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Header.Get("Accept") != "application/json" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	writeJSON(w, http.StatusOK, models.UploadResponse{
		Source: a.service.Source(),
		Sheets: a.service.Sheets(),
	})
}

// handleExport streams a sheet as a CSV or JSON download
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sheet, err := resolveSheet(query, a.service)
	if err != nil {
		writeError(w, err)
		return
	}

	format := query.Get("format")
	if format == "" {
		format = grid.FormatCSV
	}
	columns := splitColumns(query.Get("columns"))

	filename, content, err := a.service.Export(sheet, columns, format)
	if err != nil {
		writeError(w, err)
		return
	}

	contentType := "text/csv"
	if format == grid.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	fmt.Fprint(w, content)
}

// handleRefresh re-reads the watched file, or re-derives the in-memory
// state when no file is configured.
func (a *App) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if a.cfg.Data.File != "" {
		reloaded, err := a.service.LoadFileIfChanged(r.Context(), a.cfg.Data.File)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"reloaded": reloaded})
		return
	}

	if err := a.service.Rebuild(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reloaded": true})
}
