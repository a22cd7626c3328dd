package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"sheetdash/domain/brief"
	"sheetdash/domain/core"
	"sheetdash/domain/grid"
	"sheetdash/internal"
	"sheetdash/internal/config"
	"sheetdash/internal/errors"
	"sheetdash/internal/sample"
	"sheetdash/ports"
)

// rebuildConcurrency caps the parallel per-sheet derivation fan-out
const rebuildConcurrency = 4

// sheetState is the cached derivation for one sheet
type sheetState struct {
	records grid.RecordSet
	kinds   grid.Classification
}

// DashboardService owns the live workbook and the per-sheet derived state
// the dashboard reads. Every successful load replaces the whole state at
// once; a failed decode leaves the previous workbook serving.
type DashboardService struct {
	decoder   ports.WorkbookDecoder
	snapshots ports.SnapshotRepository
	cfg       config.DataConfig
	logger    *internal.Logger

	mu       sync.RWMutex
	source   string
	workbook *grid.Workbook
	sheets   map[string]*sheetState
	hash     core.ContentHash
	loadedAt core.Timestamp
}

// SheetInfo describes one sheet for the dashboard's sheet switcher
type SheetInfo struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// SheetOverview is the aggregate payload behind the dashboard's chart area
type SheetOverview struct {
	Sheet        string
	KPIs         []grid.KPI
	KeyColumns   grid.KeyColumns
	StatusColumn string
	StatusCounts grid.AggregationResult
	GroupColumn  string
	ValueColumn  string
	GroupTotals  grid.AggregationResult
	Summaries    []grid.ColumnSummary
	Correlations grid.CorrelationMatrix
}

// NewDashboardService creates the dashboard service
func NewDashboardService(decoder ports.WorkbookDecoder, snapshots ports.SnapshotRepository, cfg config.DataConfig) *DashboardService {
	return &DashboardService{
		decoder:   decoder,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    internal.DefaultLogger,
		sheets:    make(map[string]*sheetState),
	}
}

// LoadFile reads and installs the workbook at path
func (s *DashboardService) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.DecodeFailed(path, err)
	}
	return s.LoadBytes(ctx, filepath.Base(path), data)
}

// LoadBytes decodes and installs uploaded workbook content. On a decode
// failure the current workbook keeps serving and the error goes back to the
// caller.
func (s *DashboardService) LoadBytes(ctx context.Context, filename string, data []byte) error {
	wb, err := s.decoder.Decode(filename, data)
	if err != nil {
		s.logger.Warn("Decode of %s failed, keeping current workbook: %v", filename, err)
		return err
	}
	return s.install(ctx, filename, wb, core.NewContentHash(data))
}

// LoadSample installs the built-in demo workbook
func (s *DashboardService) LoadSample(ctx context.Context) error {
	return s.install(ctx, "sample", sample.Workbook(), "")
}

// LoadFileIfChanged re-reads path and installs it only when its content
// hash differs from the currently loaded one. Returns whether a reload
// happened.
func (s *DashboardService) LoadFileIfChanged(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.DecodeFailed(path, err)
	}

	hash := core.NewContentHash(data)
	s.mu.RLock()
	unchanged := !s.hash.IsEmpty() && s.hash.Equals(hash)
	s.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	if err := s.LoadBytes(ctx, filepath.Base(path), data); err != nil {
		return false, err
	}
	return true, nil
}

// Rebuild re-derives the per-sheet state from the current workbook. The
// refresh scheduler calls this every tick so classification and aggregates
// never drift from the data.
func (s *DashboardService) Rebuild(ctx context.Context) error {
	s.mu.RLock()
	wb := s.workbook
	s.mu.RUnlock()
	if wb == nil {
		return nil
	}

	sheets, err := deriveSheets(ctx, wb)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.workbook == wb {
		s.sheets = sheets
	}
	s.mu.Unlock()
	return nil
}

// install derives the per-sheet state and swaps everything in atomically
func (s *DashboardService) install(ctx context.Context, source string, wb *grid.Workbook, hash core.ContentHash) error {
	sheets, err := deriveSheets(ctx, wb)
	if err != nil {
		return err
	}

	rowCount := 0
	for _, state := range sheets {
		rowCount += state.records.Len()
	}

	s.mu.Lock()
	s.source = source
	s.workbook = wb
	s.sheets = sheets
	s.hash = hash
	s.loadedAt = core.Now()
	s.mu.Unlock()

	s.logger.Info("Workbook %s loaded (%d sheets, %d records)", source, wb.Len(), rowCount)
	s.recordSnapshot(ctx, source, hash, wb.Len(), rowCount)
	return nil
}

// deriveSheets normalizes and classifies every sheet, fanned out across a
// bounded worker group.
func deriveSheets(ctx context.Context, wb *grid.Workbook) (map[string]*sheetState, error) {
	names := wb.Names()
	states := make([]*sheetState, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, _ := wb.Sheet(name)
			records := grid.Normalize(raw)
			states[i] = &sheetState{
				records: records,
				kinds:   grid.Classify(records),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sheets := make(map[string]*sheetState, len(names))
	for i, name := range names {
		sheets[name] = states[i]
	}
	return sheets, nil
}

// recordSnapshot writes the load-history entry. History is best effort; a
// store failure never takes the freshly loaded workbook down with it.
func (s *DashboardService) recordSnapshot(ctx context.Context, source string, hash core.ContentHash, sheetCount, rowCount int) {
	if s.snapshots == nil {
		return
	}
	snap := &ports.Snapshot{
		ID:         core.NewSnapshotID(),
		Source:     source,
		Hash:       hash,
		SheetCount: sheetCount,
		RowCount:   rowCount,
		LoadedAt:   core.Now(),
	}
	if err := s.snapshots.Record(ctx, snap); err != nil {
		s.logger.Warn("Failed to record load snapshot: %v", err)
	}
}

// HasData reports whether a workbook is loaded
func (s *DashboardService) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workbook != nil
}

// Source returns the name of the loaded workbook source
func (s *DashboardService) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// LoadedAt returns when the current workbook was installed
func (s *DashboardService) LoadedAt() core.Timestamp {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Sheets lists the loaded sheets in workbook order
func (s *DashboardService) Sheets() []SheetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.workbook == nil {
		return nil
	}
	infos := make([]SheetInfo, 0, s.workbook.Len())
	for _, name := range s.workbook.Names() {
		info := SheetInfo{Name: name}
		if state, ok := s.sheets[name]; ok {
			info.Rows = state.records.Len()
			info.Columns = len(state.records.Columns)
		}
		infos = append(infos, info)
	}
	return infos
}

// PrimarySheet picks the sheet the dashboard opens on
func (s *DashboardService) PrimarySheet() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.workbook == nil {
		return "", false
	}
	return grid.PrimarySheet(s.workbook)
}

// state returns the derived state for sheet. Callers treat the returned
// record set as read-only; every domain operation copies before reordering.
func (s *DashboardService) state(sheet string) (*sheetState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sheets[sheet]
	if !ok {
		return nil, errors.SheetNotFound(sheet)
	}
	return state, nil
}

// Records returns the normalized record set for sheet
func (s *DashboardService) Records(sheet string) (grid.RecordSet, error) {
	state, err := s.state(sheet)
	if err != nil {
		return grid.RecordSet{}, err
	}
	return state.records, nil
}

// Kinds returns the cached column classification for sheet
func (s *DashboardService) Kinds(sheet string) (grid.Classification, error) {
	state, err := s.state(sheet)
	if err != nil {
		return grid.Classification{}, err
	}
	return state.kinds, nil
}

// Table runs the query pipeline for one render. A missing page size falls
// back to the configured default, and wide sheets with no explicit column
// selection are trimmed to the leading columns.
func (s *DashboardService) Table(view grid.ViewState) (grid.TableView, error) {
	state, err := s.state(view.Sheet)
	if err != nil {
		return grid.TableView{}, err
	}

	if view.PageSize < 1 {
		view = view.WithPageSize(s.cfg.DefaultPageSize)
	}
	if view.Page < 1 {
		view = view.WithPage(1)
	}
	if len(view.Columns) == 0 {
		view = view.WithColumns(s.defaultColumns(state.records))
	}

	return grid.ApplyView(state.records, view)
}

// Frequency counts the top values of a column. topN below 1 uses the
// configured default.
func (s *DashboardService) Frequency(sheet, column string, topN int) (grid.AggregationResult, error) {
	state, err := s.state(sheet)
	if err != nil {
		return nil, err
	}
	if topN < 1 {
		topN = s.cfg.DefaultTopN
	}
	return grid.Frequency(state.records, column, topN)
}

// GroupedSum totals a numeric column per category. topN below 1 uses the
// configured default.
func (s *DashboardService) GroupedSum(sheet, numericColumn, categoricalColumn string, topN int) (grid.AggregationResult, error) {
	state, err := s.state(sheet)
	if err != nil {
		return nil, err
	}
	if topN < 1 {
		topN = s.cfg.DefaultTopN
	}
	return grid.GroupedSum(state.records, numericColumn, categoricalColumn, topN)
}

// Overview assembles the dashboard payload for one sheet: KPIs, the status
// chart, the grouped totals chart, per-column summaries and the correlation
// matrix. An empty sheet yields empty parts, not an error.
func (s *DashboardService) Overview(sheet string) (*SheetOverview, error) {
	state, err := s.state(sheet)
	if err != nil {
		return nil, err
	}

	rs, kinds := state.records, state.kinds
	overview := &SheetOverview{
		Sheet:        sheet,
		KPIs:         grid.KPIRow(rs, kinds),
		KeyColumns:   grid.IdentifyKeyColumns(rs.Columns),
		Summaries:    grid.Summaries(rs, kinds),
		Correlations: grid.Correlations(rs, kinds),
	}

	statusColumn, ok := grid.PipelineColumn(rs.Columns)
	if !ok && len(kinds.Categorical) > 0 {
		statusColumn = kinds.Categorical[0]
		ok = true
	}
	if ok {
		if counts, err := grid.Frequency(rs, statusColumn, s.cfg.DefaultTopN); err == nil {
			overview.StatusColumn = statusColumn
			overview.StatusCounts = counts
		}
	}

	if len(kinds.Numeric) > 0 && len(kinds.Categorical) > 0 {
		value, group := kinds.Numeric[0], kinds.Categorical[0]
		if totals, err := grid.GroupedSum(rs, value, group, s.cfg.DefaultTopN); err == nil {
			overview.ValueColumn = value
			overview.GroupColumn = group
			overview.GroupTotals = totals
		}
	}

	return overview, nil
}

// Brief builds the markdown data brief for the loaded workbook
func (s *DashboardService) Brief() (brief.Brief, error) {
	s.mu.RLock()
	source, wb := s.source, s.workbook
	s.mu.RUnlock()

	if wb == nil {
		return brief.Brief{}, errors.NotFound("no workbook loaded")
	}
	return brief.Build(source, wb), nil
}

// Export serializes a sheet for download and returns the filename alongside
// the content. An empty column selection exports the leading columns of
// wide sheets, all columns otherwise.
func (s *DashboardService) Export(sheet string, columns []string, format string) (string, string, error) {
	state, err := s.state(sheet)
	if err != nil {
		return "", "", err
	}
	if len(columns) == 0 {
		columns = s.defaultColumns(state.records)
	}

	var content string
	switch format {
	case grid.FormatCSV:
		content, err = grid.ToDelimitedText(state.records, columns)
	case grid.FormatJSON:
		content, err = grid.ToStructuredText(state.records, columns)
	default:
		return "", "", errors.InvalidInput("unsupported export format: " + format)
	}
	if err != nil {
		return "", "", err
	}
	return grid.ExportFilename(sheet, format), content, nil
}

// History lists recent load snapshots, newest first
func (s *DashboardService) History(ctx context.Context, limit int) ([]*ports.Snapshot, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	return s.snapshots.List(ctx, limit)
}

// defaultColumns trims wide sheets to their leading columns. Explicit
// selections from the caller bypass this entirely.
func (s *DashboardService) defaultColumns(rs grid.RecordSet) []string {
	if len(rs.Columns) <= s.cfg.MaxExportCols {
		return nil
	}
	return rs.Columns[:s.cfg.MaxExportCols]
}
