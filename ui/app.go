package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sheetdash/app"
	"sheetdash/internal/config"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App represents the HTMX dashboard application
type App struct {
	router    *chi.Mux
	service   *app.DashboardService
	cfg       *config.Config
	templates *template.Template
}

// NewApp creates the dashboard application around a loaded service
func NewApp(service *app.DashboardService, cfg *config.Config) (*App, error) {
	// Parse templates (including fragments)
	funcMap := template.FuncMap{
		"mul": func(a, b float64) float64 { return a * b },
		"add": func(a, b int) int { return a + b },
		"max": func(a, b float64) float64 {
			if a > b {
				return a
			}
			return b
		},
		"until": func(n int) []int {
			res := make([]int, n)
			for i := range res {
				res[i] = i
			}
			return res
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		cfg:       cfg,
		templates: templates,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Main pages
	a.router.Get("/", a.handleIndex)
	a.router.Get("/brief", a.handleBrief)

	// HTMX fragment endpoints
	a.router.Get("/fragments/table", a.handleTableFragment)
	a.router.Get("/fragments/overview", a.handleOverviewFragment)
	a.router.Get("/fragments/history", a.handleHistoryFragment)

	// Downloads
	a.router.Get("/export", a.handleExport)

	// API endpoints
	a.router.Get("/api/sheets", a.handleSheetsJSON)
	a.router.Get("/api/table", a.handleTableJSON)
	a.router.Get("/api/overview", a.handleOverviewJSON)
	a.router.Get("/api/frequency", a.handleFrequencyJSON)
	a.router.Get("/api/groupedsum", a.handleGroupedSumJSON)
	a.router.Get("/api/brief", a.handleBriefJSON)
	a.router.Get("/api/history", a.handleHistoryJSON)
	a.router.Post("/api/workbooks/upload", a.handleUpload)
	a.router.Post("/api/workbooks/sample", a.handleSample)
	a.router.Post("/api/refresh", a.handleRefresh)
}

// Handler exposes the router so callers can wrap it in an http.Server
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	log.Printf("Starting SheetDash UI on http://%s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// HTMX helpers
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func (a *App) renderPartial(w http.ResponseWriter, templateName string, data interface{}) {
	a.renderTemplate(w, templateName, data)
}
