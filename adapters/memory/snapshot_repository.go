package memory

import (
	"context"
	"sync"

	"sheetdash/internal/errors"
	"sheetdash/ports"
)

// snapshotRepository keeps load history in memory. It backs deployments
// without a database; history then lives as long as the process.
type snapshotRepository struct {
	mu        sync.RWMutex
	snapshots []*ports.Snapshot
}

// NewSnapshotRepository creates an in-memory snapshot repository
func NewSnapshotRepository() ports.SnapshotRepository {
	return &snapshotRepository{}
}

// Record stores a snapshot
func (r *snapshotRepository) Record(_ context.Context, snap *ports.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *snap
	// Newest first, matching the repository's read ordering.
	r.snapshots = append([]*ports.Snapshot{&copied}, r.snapshots...)
	return nil
}

// Latest returns the most recent snapshot
func (r *snapshotRepository) Latest(_ context.Context) (*ports.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.snapshots) == 0 {
		return nil, errors.NotFound("no snapshots recorded")
	}
	copied := *r.snapshots[0]
	return &copied, nil
}

// List returns snapshots newest first, capped at limit
func (r *snapshotRepository) List(_ context.Context, limit int) ([]*ports.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.snapshots)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*ports.Snapshot, 0, n)
	for _, snap := range r.snapshots[:n] {
		copied := *snap
		out = append(out, &copied)
	}
	return out, nil
}

// Prune drops everything but the newest keep snapshots
func (r *snapshotRepository) Prune(_ context.Context, keep int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	if len(r.snapshots) > keep {
		r.snapshots = r.snapshots[:keep]
	}
	return nil
}
