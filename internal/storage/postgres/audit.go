package postgres

import (
	"context"
	"fmt"

	"github.com/metascrub-app/core/internal/models"
)

// AppendAudit adds one entry to the audit_log table.
func (d *Driver) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	query :=
		`INSERT INTO audit_log (ts, action, username, details)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := d.db.ExecContext(ctx, query, entry.Timestamp, entry.Action, entry.Username, entry.Details)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ReadAudit returns the trail in append order (by insertion id).
func (d *Driver) ReadAudit(ctx context.Context) ([]models.AuditEntry, error) {
	query :=
		`SELECT ts, action, username, details
		 FROM audit_log
		 ORDER BY id
		 `

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.Timestamp, &e.Action, &e.Username, &e.Details); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}
