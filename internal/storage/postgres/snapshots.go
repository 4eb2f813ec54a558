package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/metascrub-app/core/internal/models"
)

// WriteSnapshot stores the user collection as a jsonb document in the
// backups table, keyed by the snapshot id.
func (d *Driver) WriteSnapshot(ctx context.Context, snap models.Snapshot) error {
	users := snap.Users
	if users == nil {
		users = []models.User{}
	}

	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode snapshot users: %w", err)
	}

	query :=
		`INSERT INTO backups (id, operation, taken_at, users)
		 VALUES ($1, $2, $3, $4::jsonb)
		 `

	if _, err := d.db.ExecContext(ctx, query, snap.ID, snap.Operation, snap.TakenAt, string(data)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListSnapshots returns snapshot metadata, newest first. The user count
// comes straight from jsonb_array_length so the documents stay unread.
func (d *Driver) ListSnapshots(ctx context.Context) ([]models.SnapshotInfo, error) {
	query :=
		`SELECT id::text, operation, taken_at, jsonb_array_length(users)
		 FROM backups
		 ORDER BY taken_at DESC, id DESC
		 `

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	infos := []models.SnapshotInfo{}
	for rows.Next() {
		var info models.SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Operation, &info.TakenAt, &info.UserCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return infos, nil
}
