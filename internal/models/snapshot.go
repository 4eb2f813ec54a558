package models

import "time"

// Snapshot operation tags. A snapshot is written immediately before the
// mutation it protects commits, so the tag names the operation about to run.
const (
	SnapshotAdd    = "add"
	SnapshotUpdate = "update"
	SnapshotDelete = "delete"
	SnapshotSave   = "save"
	SnapshotImport = "import"
	SnapshotManual = "manual"
)

// Snapshot is a point-in-time copy of the entire user collection. Snapshots
// are retained indefinitely; the core never prunes them.
type Snapshot struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	TakenAt   time.Time `json:"takenAt"`
	Users     []User    `json:"users"`
}

// SnapshotInfo describes a stored snapshot without its payload.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	TakenAt   time.Time `json:"takenAt"`
	UserCount int       `json:"userCount"`
}

// Info returns the metadata view of the snapshot.
func (s Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		ID:        s.ID,
		Operation: s.Operation,
		TakenAt:   s.TakenAt,
		UserCount: len(s.Users),
	}
}
