package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdash/adapters/memory"
	"sheetdash/internal/config"
)

func TestSchedulerReloadsChangedWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.csv")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	decoder := &fakeDecoder{wb: staffWorkbook()}
	cfg := testDataConfig()
	cfg.RefreshInterval = 20 * time.Millisecond
	cfg.File = path
	svc := NewDashboardService(decoder, memory.NewSnapshotRepository(), cfg)

	scheduler := NewRefreshScheduler(svc, cfg)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	assert.Eventually(t, func() bool {
		return decoder.decodeCount() == 1 && svc.HasData()
	}, 2*time.Second, 10*time.Millisecond, "The first tick loads the watch file")

	// Let a few unchanged ticks pass; the content hash short-circuits them.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, decoder.decodeCount())

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	assert.Eventually(t, func() bool {
		return decoder.decodeCount() == 2
	}, 2*time.Second, 10*time.Millisecond, "A content change triggers exactly one reload")
}

func TestSchedulerRebuildsWithoutWatchFile(t *testing.T) {
	decoder := &fakeDecoder{wb: staffWorkbook()}
	cfg := testDataConfig()
	cfg.RefreshInterval = 10 * time.Millisecond
	svc := NewDashboardService(decoder, memory.NewSnapshotRepository(), cfg)
	require.NoError(t, svc.LoadBytes(context.Background(), "staff.xlsx", nil))

	scheduler := NewRefreshScheduler(svc, cfg)
	scheduler.Start(context.Background())

	time.Sleep(50 * time.Millisecond)
	scheduler.Stop()

	rs, err := svc.Records("staff")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Len(), "Ticks re-derive state without dropping it")
	assert.Equal(t, 1, decoder.decodeCount(), "No watch file means no re-decoding")
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	scheduler := NewRefreshScheduler(nil, config.DataConfig{RefreshInterval: time.Second})

	assert.NotPanics(t, func() { scheduler.Stop() })
}

func TestSchedulerStopCancelsPromptly(t *testing.T) {
	decoder := &fakeDecoder{wb: staffWorkbook()}
	cfg := testDataConfig()
	cfg.RefreshInterval = time.Hour
	svc := NewDashboardService(decoder, memory.NewSnapshotRepository(), cfg)

	scheduler := NewRefreshScheduler(svc, cfg)
	scheduler.Start(context.Background())

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return while the ticker was idle")
	}
}
