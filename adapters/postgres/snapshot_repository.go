package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sheetdash/domain/core"
	"sheetdash/internal/errors"
	"sheetdash/ports"
)

// snapshotRepository implements the SnapshotRepository interface
type snapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sqlx.DB) ports.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Record inserts a snapshot into the database
func (r *snapshotRepository) Record(ctx context.Context, snap *ports.Snapshot) error {
	query := `INSERT INTO snapshots (
		id, source, content_hash, sheet_count, row_count, loaded_at
	) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		snap.ID, snap.Source, snap.Hash, snap.SheetCount, snap.RowCount, snap.LoadedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}
	return nil
}

// Latest retrieves the most recent snapshot
func (r *snapshotRepository) Latest(ctx context.Context) (*ports.Snapshot, error) {
	query := `SELECT
		id, source, COALESCE(content_hash, '') as content_hash,
		COALESCE(sheet_count, 0) as sheet_count, COALESCE(row_count, 0) as row_count, loaded_at
	FROM snapshots
	ORDER BY loaded_at DESC
	LIMIT 1`

	snap, err := scanSnapshot(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("no snapshots recorded")
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return snap, nil
}

// List retrieves snapshots newest first
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*ports.Snapshot, error) {
	query := `SELECT
		id, source, COALESCE(content_hash, '') as content_hash,
		COALESCE(sheet_count, 0) as sheet_count, COALESCE(row_count, 0) as row_count, loaded_at
	FROM snapshots
	ORDER BY loaded_at DESC
	LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*ports.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// Prune deletes everything but the newest keep snapshots
func (r *snapshotRepository) Prune(ctx context.Context, keep int) error {
	query := `DELETE FROM snapshots WHERE id NOT IN (
		SELECT id FROM snapshots ORDER BY loaded_at DESC LIMIT $1
	)`

	if _, err := r.db.ExecContext(ctx, query, keep); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (*ports.Snapshot, error) {
	var snap ports.Snapshot
	var loadedAt time.Time

	err := row.Scan(
		&snap.ID, &snap.Source, &snap.Hash, &snap.SheetCount, &snap.RowCount, &loadedAt,
	)
	if err != nil {
		return nil, err
	}
	snap.LoadedAt = core.NewTimestamp(loadedAt)
	return &snap, nil
}
