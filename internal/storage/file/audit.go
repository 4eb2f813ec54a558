package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/metascrub-app/core/internal/models"
)

func (d *Driver) auditPath() string {
	return filepath.Join(d.dataDir, auditFile)
}

// AppendAudit writes one JSON line to audit.log. The file is opened in
// append mode so entries from earlier runs are never rewritten.
func (d *Driver) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	f, err := os.OpenFile(d.auditPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append audit entry: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}

	return nil
}

// ReadAudit returns all decodable entries in append order. Lines that no
// longer parse (partial writes, manual edits) are skipped so one bad line
// cannot hide the rest of the trail.
func (d *Driver) ReadAudit(ctx context.Context) ([]models.AuditEntry, error) {
	f, err := os.Open(d.auditPath())
	if errors.Is(err, fs.ErrNotExist) {
		return []models.AuditEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	entries := []models.AuditEntry{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry models.AuditEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}

	return entries, nil
}
