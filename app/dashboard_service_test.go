package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdash/adapters/memory"
	"sheetdash/domain/grid"
	"sheetdash/internal/config"
	"sheetdash/internal/errors"
)

// fakeDecoder returns a canned workbook, or a canned error, regardless of
// the bytes it is handed.
type fakeDecoder struct {
	mu      sync.Mutex
	wb      *grid.Workbook
	err     error
	decodes int
}

func (d *fakeDecoder) Decode(filename string, data []byte) (*grid.Workbook, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.decodes++
	if d.err != nil {
		return nil, d.err
	}
	return d.wb, nil
}

func (d *fakeDecoder) DecodeFile(path string) (*grid.Workbook, error) {
	return d.Decode(filepath.Base(path), nil)
}

func (d *fakeDecoder) decodeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.decodes
}

func (d *fakeDecoder) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func staffWorkbook() *grid.Workbook {
	wb := grid.NewWorkbook()
	wb.Add("staff", grid.RawSheet{
		{"Name", "Dept", "Status", "Score"},
		{"Ana", "Eng", "Active", "85"},
		{"Bo", "Eng", "Active", "91"},
		{"Cy", "Sales", "Paused", "72"},
	})
	return wb
}

func testDataConfig() config.DataConfig {
	return config.DataConfig{
		RefreshInterval: time.Second,
		MaxUploadBytes:  1 << 20,
		DefaultPageSize: 10,
		DefaultTopN:     5,
		MaxExportCols:   3,
	}
}

func newTestService(wb *grid.Workbook) (*DashboardService, *fakeDecoder) {
	decoder := &fakeDecoder{wb: wb}
	svc := NewDashboardService(decoder, memory.NewSnapshotRepository(), testDataConfig())
	return svc, decoder
}

func TestLoadBytesInstallsWorkbook(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())

	require.False(t, svc.HasData())
	require.NoError(t, svc.LoadBytes(context.Background(), "staff.xlsx", []byte("content")))

	assert.True(t, svc.HasData())
	assert.Equal(t, "staff.xlsx", svc.Source())
	assert.False(t, svc.LoadedAt().IsZero())

	infos := svc.Sheets()
	require.Len(t, infos, 1)
	assert.Equal(t, SheetInfo{Name: "staff", Rows: 3, Columns: 4}, infos[0])

	rs, err := svc.Records("staff")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Len())

	kinds, err := svc.Kinds("staff")
	require.NoError(t, err)
	assert.Equal(t, []string{"Score"}, kinds.Numeric)
}

func TestDecodeFailureKeepsPreviousWorkbook(t *testing.T) {
	svc, decoder := newTestService(staffWorkbook())
	ctx := context.Background()

	require.NoError(t, svc.LoadBytes(ctx, "good.xlsx", []byte("v1")))

	decoder.setErr(errors.DecodeFailed("bad.xlsx", fmt.Errorf("truncated")))
	err := svc.LoadBytes(ctx, "bad.xlsx", []byte("v2"))

	require.Error(t, err)
	assert.Equal(t, errors.CodeDecodeFailed, errors.GetCode(err))
	assert.Equal(t, "good.xlsx", svc.Source(), "The failed load must not disturb the served workbook")

	rs, err := svc.Records("staff")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Len())
}

func TestUnknownSheet(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())
	require.NoError(t, svc.LoadBytes(context.Background(), "staff.xlsx", nil))

	_, err := svc.Records("payroll")
	assert.Equal(t, errors.CodeSheetNotFound, errors.GetCode(err))

	_, err = svc.Overview("payroll")
	assert.Equal(t, errors.CodeSheetNotFound, errors.GetCode(err))
}

func TestTableDefaults(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())
	require.NoError(t, svc.LoadBytes(context.Background(), "staff.xlsx", nil))

	table, err := svc.Table(grid.ViewState{Sheet: "staff"})

	require.NoError(t, err)
	assert.Equal(t, 10, table.PageSize, "Missing page size falls back to the config default")
	assert.Equal(t, 1, table.Page)
	assert.Equal(t, []string{"Name", "Dept", "Status"}, table.Columns,
		"Wide sheets project to the leading columns when nothing is selected")

	table, err = svc.Table(grid.NewViewState("staff", 2).WithColumns([]string{"Score"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Score"}, table.Columns, "Explicit selections bypass the projection")
	assert.Equal(t, 2, len(table.Records))
	assert.Equal(t, 2, table.TotalPages)
}

func TestOverview(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())
	require.NoError(t, svc.LoadBytes(context.Background(), "staff.xlsx", nil))

	overview, err := svc.Overview("staff")

	require.NoError(t, err)
	assert.Equal(t, "staff", overview.Sheet)
	require.NotEmpty(t, overview.KPIs)
	assert.Equal(t, grid.KPI{Label: "Total Records", Value: 3}, overview.KPIs[0])

	assert.Equal(t, "Status", overview.StatusColumn)
	require.NotEmpty(t, overview.StatusCounts)
	assert.Equal(t, grid.AggregateEntry{Label: "Active", Value: 2}, overview.StatusCounts[0])

	assert.Equal(t, "Score", overview.ValueColumn)
	assert.Equal(t, "Name", overview.GroupColumn)
	assert.Len(t, overview.Summaries, 4)
	assert.Contains(t, overview.KeyColumns.TagPipeline, "Status")
}

func TestExportFormats(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())
	require.NoError(t, svc.LoadBytes(context.Background(), "staff.xlsx", nil))

	name, content, err := svc.Export("staff", []string{"Name", "Score"}, grid.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "staff_data.csv", name)
	assert.Equal(t, "Name,Score\nAna,85\nBo,91\nCy,72\n", content)

	name, content, err = svc.Export("staff", []string{"Name"}, grid.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "staff_data.json", name)
	assert.Contains(t, content, `"Name": "Ana"`)

	_, _, err = svc.Export("staff", nil, "xml")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestExportDefaultsToLeadingColumns(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())
	require.NoError(t, svc.LoadBytes(context.Background(), "staff.xlsx", nil))

	_, content, err := svc.Export("staff", nil, grid.FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "Name,Dept,Status\nAna,Eng,Active\nBo,Eng,Active\nCy,Sales,Paused\n", content)
}

func TestBrief(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())

	_, err := svc.Brief()
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	require.NoError(t, svc.LoadBytes(context.Background(), "staff.xlsx", nil))

	b, err := svc.Brief()
	require.NoError(t, err)
	assert.Equal(t, "staff.xlsx", b.Source)
	require.Len(t, b.Sheets, 1)
	assert.Equal(t, 3, b.Sheets[0].Rows)
}

func TestHistoryRecordsLoads(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())
	ctx := context.Background()

	require.NoError(t, svc.LoadBytes(ctx, "first.xlsx", []byte("v1")))
	require.NoError(t, svc.LoadBytes(ctx, "second.xlsx", []byte("v2")))

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second.xlsx", history[0].Source)
	assert.Equal(t, 1, history[0].SheetCount)
	assert.Equal(t, 3, history[0].RowCount)
}

func TestLoadSample(t *testing.T) {
	svc, _ := newTestService(nil)

	require.NoError(t, svc.LoadSample(context.Background()))

	assert.Equal(t, "sample", svc.Source())
	name, ok := svc.PrimarySheet()
	require.True(t, ok)
	assert.Equal(t, "Dashboard Data", name)
}

func TestLoadFileIfChanged(t *testing.T) {
	svc, decoder := newTestService(staffWorkbook())
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "watch.csv")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	reloaded, err := svc.LoadFileIfChanged(ctx, path)
	require.NoError(t, err)
	assert.True(t, reloaded, "First sight of the file loads it")

	reloaded, err = svc.LoadFileIfChanged(ctx, path)
	require.NoError(t, err)
	assert.False(t, reloaded, "Unchanged content skips the reload")
	assert.Equal(t, 1, decoder.decodeCount())

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	reloaded, err = svc.LoadFileIfChanged(ctx, path)
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, 2, decoder.decodeCount())
}

func TestRebuildKeepsServing(t *testing.T) {
	svc, _ := newTestService(staffWorkbook())
	ctx := context.Background()
	require.NoError(t, svc.LoadBytes(ctx, "staff.xlsx", nil))

	require.NoError(t, svc.Rebuild(ctx))

	rs, err := svc.Records("staff")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Len())

	kinds, err := svc.Kinds("staff")
	require.NoError(t, err)
	assert.Equal(t, []string{"Score"}, kinds.Numeric, "Classification is re-derived, not lost")
}

func TestRebuildWithoutWorkbookIsNoOp(t *testing.T) {
	svc, _ := newTestService(nil)

	assert.NoError(t, svc.Rebuild(context.Background()))
	assert.False(t, svc.HasData())
}
