package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/metascrub-app/core/internal/models"
)

const (
	insertSnapshotQ = `(?s)^INSERT\s+INTO\s+backups\s*\(id,\s*operation,\s*taken_at,\s*users\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4::jsonb\)\s*$`
	selectInfosQ    = `(?s)^SELECT\s+id::text,\s*operation,\s*taken_at,\s*jsonb_array_length\(users\)\s+FROM\s+backups\s+ORDER\s+BY\s+taken_at\s+DESC,\s*id\s+DESC\s*$`
)

func TestWriteSnapshot(t *testing.T) {
	d, mock, db := newDriverWithMock(t)
	defer db.Close()

	at := time.Date(2025, 8, 1, 14, 0, 0, 0, time.UTC)
	alice := testUser("alice")
	snap := models.Snapshot{
		ID:        "1a2b3c4d-0000-0000-0000-000000000000",
		Operation: models.SnapshotAdd,
		TakenAt:   at,
		Users:     []models.User{alice},
	}

	usersJSON, err := json.Marshal(snap.Users)
	if err != nil {
		t.Fatalf("marshal users: %v", err)
	}

	mock.ExpectExec(insertSnapshotQ).
		WithArgs(snap.ID, snap.Operation, snap.TakenAt, string(usersJSON)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := d.WriteSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("WriteSnapshot error: %v", err)
	}
}

func TestWriteSnapshot_NilUsersStoredAsEmptyArray(t *testing.T) {
	d, mock, db := newDriverWithMock(t)
	defer db.Close()

	at := time.Date(2025, 8, 1, 14, 0, 0, 0, time.UTC)
	snap := models.Snapshot{
		ID:        "1a2b3c4d-0000-0000-0000-000000000000",
		Operation: models.SnapshotSave,
		TakenAt:   at,
	}

	mock.ExpectExec(insertSnapshotQ).
		WithArgs(snap.ID, snap.Operation, snap.TakenAt, "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := d.WriteSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("WriteSnapshot error: %v", err)
	}
}

func TestListSnapshots_NewestFirst(t *testing.T) {
	d, mock, db := newDriverWithMock(t)
	defer db.Close()

	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "operation", "taken_at", "jsonb_array_length"}).
		AddRow("bbbbbbbb-0000-0000-0000-000000000000", models.SnapshotDelete, base.Add(time.Hour), 2).
		AddRow("aaaaaaaa-0000-0000-0000-000000000000", models.SnapshotAdd, base, 1)
	mock.ExpectQuery(selectInfosQ).WillReturnRows(rows)

	infos, err := d.ListSnapshots(context.Background())
	if err != nil {
		t.Fatalf("ListSnapshots error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("unexpected infos: %+v", infos)
	}
	if infos[0].Operation != models.SnapshotDelete || infos[0].UserCount != 2 {
		t.Fatalf("unexpected first info: %+v", infos[0])
	}
	if infos[1].Operation != models.SnapshotAdd || infos[1].UserCount != 1 {
		t.Fatalf("unexpected second info: %+v", infos[1])
	}
}
