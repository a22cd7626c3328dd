package ui

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetdash/app"
	"sheetdash/domain/grid"
	"sheetdash/internal/config"
	"sheetdash/internal/errors"
	"sheetdash/models"
)

// Server is the headless JSON API. It serves the same service as the
// dashboard App but renders nothing; clients consume the models package
// shapes directly.
type Server struct {
	router  *gin.Engine
	service *app.DashboardService
	cfg     *config.Config
}

// NewServer creates the API server around a loaded service
func NewServer(service *app.DashboardService, cfg *config.Config) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:  gin.Default(),
		service: service,
		cfg:     cfg,
	}
	s.router.MaxMultipartMemory = cfg.Data.MaxUploadBytes

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	s.router.GET("/api/sheets", s.handleSheets)
	s.router.GET("/api/table", s.handleTable)
	s.router.GET("/api/overview", s.handleOverview)
	s.router.GET("/api/frequency", s.handleFrequency)
	s.router.GET("/api/groupedsum", s.handleGroupedSum)
	s.router.GET("/api/export", s.handleExport)
	s.router.GET("/api/brief", s.handleBrief)
	s.router.GET("/api/history", s.handleHistory)
	s.router.POST("/api/workbooks/upload", s.handleUpload)
	s.router.POST("/api/workbooks/sample", s.handleSample)
	s.router.POST("/api/refresh", s.handleRefresh)
}

// Handler exposes the router so callers can wrap it in an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	log.Printf("Starting SheetDash API on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) abortError(c *gin.Context, err error) {
	c.JSON(httpStatus(err), models.ErrorResponse{Error: err.Error(), Code: errors.GetCode(err)})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"hasData": s.service.HasData(),
		"source":  s.service.Source(),
	})
}

func (s *Server) handleSheets(c *gin.Context) {
	resp := models.SheetListResponse{
		Source: s.service.Source(),
		Sheets: s.service.Sheets(),
	}
	if s.service.HasData() {
		resp.LoadedAt = s.service.LoadedAt().String()
	}
	if primary, ok := s.service.PrimarySheet(); ok {
		resp.PrimarySheet = primary
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTable(c *gin.Context) {
	view, err := buildView(c.Request.URL.Query(), s.service, s.cfg.Data)
	if err != nil {
		s.abortError(c, err)
		return
	}

	table, err := s.service.Table(view)
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewTableResponse(view, table))
}

func (s *Server) handleOverview(c *gin.Context) {
	sheet, err := resolveSheet(c.Request.URL.Query(), s.service)
	if err != nil {
		s.abortError(c, err)
		return
	}

	overview, err := s.service.Overview(sheet)
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewOverviewResponse(overview))
}

func (s *Server) handleFrequency(c *gin.Context) {
	query := c.Request.URL.Query()
	column := c.Query("column")
	if column == "" {
		s.abortError(c, errors.InvalidInput("column parameter is required"))
		return
	}

	sheet, err := resolveSheet(query, s.service)
	if err != nil {
		s.abortError(c, err)
		return
	}

	result, err := s.service.Frequency(sheet, column, queryInt(query, "top", s.cfg.Data.DefaultTopN))
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sheet": sheet, "column": column, "entries": result})
}

func (s *Server) handleGroupedSum(c *gin.Context) {
	query := c.Request.URL.Query()
	value := c.Query("value")
	group := c.Query("group")
	if value == "" || group == "" {
		s.abortError(c, errors.InvalidInput("value and group parameters are required"))
		return
	}

	sheet, err := resolveSheet(query, s.service)
	if err != nil {
		s.abortError(c, err)
		return
	}

	result, err := s.service.GroupedSum(sheet, value, group, queryInt(query, "top", s.cfg.Data.DefaultTopN))
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sheet": sheet, "value": value, "group": group, "entries": result})
}

func (s *Server) handleExport(c *gin.Context) {
	query := c.Request.URL.Query()

	sheet, err := resolveSheet(query, s.service)
	if err != nil {
		s.abortError(c, err)
		return
	}

	format := c.DefaultQuery("format", grid.FormatCSV)
	columns := splitColumns(c.Query("columns"))

	filename, content, err := s.service.Export(sheet, columns, format)
	if err != nil {
		s.abortError(c, err)
		return
	}

	contentType := "text/csv"
	if format == grid.FormatJSON {
		contentType = "application/json"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, []byte(content))
}

func (s *Server) handleBrief(c *gin.Context) {
	b, err := s.service.Brief()
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BriefResponse{
		Source:    b.Source,
		Generated: b.Generated.String(),
		Markdown:  b.Markdown(),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := clampInt(queryInt(c.Request.URL.Query(), "limit", 20), 1, maxHistoryRows)

	snapshots, err := s.service.History(c.Request.Context(), limit)
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewHistoryEntries(snapshots))
}

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("workbook")
	if err != nil {
		s.abortError(c, errors.InvalidInput("missing workbook file field"))
		return
	}
	if header.Size > s.cfg.Data.MaxUploadBytes {
		s.abortError(c, errors.InvalidInput("upload exceeds size limit"))
		return
	}

	file, err := header.Open()
	if err != nil {
		s.abortError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.abortError(c, errors.Wrap(err, "failed to read upload"))
		return
	}

	if err := s.service.LoadBytes(c.Request.Context(), header.Filename, data); err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Source: s.service.Source(),
		Sheets: s.service.Sheets(),
	})
}

func (s *Server) handleSample(c *gin.Context) {
	if err := s.service.LoadSample(c.Request.Context()); err != nil {
		s.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.UploadResponse{
		Source: s.service.Source(),
		Sheets: s.service.Sheets(),
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	if s.cfg.Data.File != "" {
		reloaded, err := s.service.LoadFileIfChanged(c.Request.Context(), s.cfg.Data.File)
		if err != nil {
			s.abortError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reloaded": reloaded})
		return
	}

	if err := s.service.Rebuild(c.Request.Context()); err != nil {
		s.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reloaded": true})
}
