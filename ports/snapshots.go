package ports

import (
	"context"

	"sheetdash/domain/core"
)

// Snapshot records one successful workbook load: where it came from, what it
// contained, and when it landed.
type Snapshot struct {
	ID         core.SnapshotID
	Source     string
	Hash       core.ContentHash
	SheetCount int
	RowCount   int
	LoadedAt   core.Timestamp
}

// SnapshotRepository defines the interface for load-history storage
type SnapshotRepository interface {
	// Record stores a snapshot
	Record(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or NotFound when none exist
	Latest(ctx context.Context) (*Snapshot, error)

	// List returns snapshots newest first, capped at limit
	List(ctx context.Context, limit int) ([]*Snapshot, error)

	// Prune deletes everything but the newest keep snapshots
	Prune(ctx context.Context, keep int) error
}
