package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/metascrub-app/core/internal/filex"
	"github.com/metascrub-app/core/internal/models"
)

const snapshotTimeLayout = "20060102-150405"

func (d *Driver) backupsPath() string {
	return filepath.Join(d.dataDir, backupsDir)
}

func snapshotFileName(snap models.Snapshot) string {
	id := snap.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("users-%s-%s-%s.json",
		snap.TakenAt.UTC().Format(snapshotTimeLayout), snap.Operation, id)
}

// WriteSnapshot stores the snapshot as its own JSON file under backups/.
// The name embeds timestamp, operation, and a short id so a directory
// listing already tells the story.
func (d *Driver) WriteSnapshot(ctx context.Context, snap models.Snapshot) error {
	if _, err := filex.EnsureDir(d.dataDir, backupsDir); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	path := filepath.Join(d.backupsPath(), snapshotFileName(snap))
	if err := filex.WriteFileAtomic(path, append(data, '\n'), filePerm); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}

// ListSnapshots reads every snapshot file under backups/ and returns the
// metadata, newest first. Files that no longer decode are skipped.
func (d *Driver) ListSnapshots(ctx context.Context) ([]models.SnapshotInfo, error) {
	entries, err := os.ReadDir(d.backupsPath())
	if os.IsNotExist(err) {
		return []models.SnapshotInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}

	infos := []models.SnapshotInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(d.backupsPath(), entry.Name()))
		if err != nil {
			continue
		}

		var snap models.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		infos = append(infos, snap.Info())
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].TakenAt.Equal(infos[j].TakenAt) {
			return infos[i].TakenAt.After(infos[j].TakenAt)
		}
		return infos[i].ID > infos[j].ID
	})

	return infos, nil
}
