package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/metascrub-app/core/internal/filex"
	"github.com/metascrub-app/core/internal/models"
)

const (
	exportsDir       = "exports"
	exportTimeLayout = "20060102-150405"
)

// ExportOptions controls what an export contains. Password hashes stay
// out of the document unless explicitly requested; a hash-less account
// cannot authenticate after re-import until its password is reset.
type ExportOptions struct {
	IncludePasswordHashes bool
}

// ExportResult reports where the document went and how many records it
// carries.
type ExportResult struct {
	Path  string
	Count int
}

// ImportMode selects how ImportUserData treats the existing collection.
type ImportMode string

const (
	// ImportReplace swaps the whole collection for the incoming one.
	ImportReplace ImportMode = "replace"
	// ImportMerge adds incoming records, keeping existing ones on
	// username collisions.
	ImportMerge ImportMode = "merge"
)

// ImportResult reports what an import changed. Conflicts lists the
// usernames kept as-is in merge mode.
type ImportResult struct {
	Imported  int
	Conflicts []string
}

// ParseExportDocument decodes the raw serialized form accepted by
// ImportUserData.
func ParseExportDocument(data []byte) (*models.ExportDocument, error) {
	doc := &models.ExportDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse export document: %w", err)
	}
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	return doc, nil
}

// ExportUserData writes the full collection plus export metadata to path.
// An empty path picks <dataDir>/exports/users-export-<timestamp>.json.
func (a *Adapter) ExportUserData(ctx context.Context, path string, opts ExportOptions) (ExportResult, error) {
	if err := a.ensureInitialized(); err != nil {
		return ExportResult{}, err
	}

	users, err := a.driver.Load(ctx)
	if err != nil {
		return ExportResult{}, err
	}

	exported := make([]models.User, len(users))
	copy(exported, users)
	if !opts.IncludePasswordHashes {
		for i := range exported {
			exported[i].PasswordHash = ""
		}
	}

	doc := models.ExportDocument{
		ExportedAt:     a.now().UTC(),
		SourceMode:     a.driver.Mode(),
		IncludesHashes: opts.IncludePasswordHashes,
		Users:          exported,
	}

	if path == "" {
		dir, err := filex.EnsureDir(a.dataDir, exportsDir)
		if err != nil {
			return ExportResult{}, fmt.Errorf("ensure exports dir: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("users-export-%s.json", doc.ExportedAt.Format(exportTimeLayout)))
	} else if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return ExportResult{}, fmt.Errorf("ensure export dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("encode export document: %w", err)
	}

	if err := filex.WriteFileAtomic(path, append(data, '\n'), 0o660); err != nil {
		return ExportResult{}, fmt.Errorf("write export document: %w", err)
	}

	a.auditBestEffort(ctx, models.ActionExport, "",
		fmt.Sprintf("path=%s users=%d hashes=%t", path, len(exported), opts.IncludePasswordHashes))

	return ExportResult{Path: path, Count: len(exported)}, nil
}

// ImportUserData applies an export document to the collection.
//
// In replace mode the incoming set swaps in wholesale after a uniqueness
// check. In merge mode incoming records are added; a colliding username
// keeps the existing record and is reported in Conflicts. A merge that
// adds nothing leaves the store untouched.
func (a *Adapter) ImportUserData(ctx context.Context, doc *models.ExportDocument, mode ImportMode) (ImportResult, error) {
	if err := a.ensureInitialized(); err != nil {
		return ImportResult{}, err
	}
	if doc == nil {
		return ImportResult{}, fmt.Errorf("nil export document")
	}

	incoming := doc.Users
	if incoming == nil {
		incoming = []models.User{}
	}

	switch mode {
	case ImportReplace:
		if err := validateUnique(incoming); err != nil {
			return ImportResult{}, err
		}

		if _, err := a.takeSnapshot(ctx, models.SnapshotImport); err != nil {
			return ImportResult{}, err
		}
		if err := a.driver.Save(ctx, incoming); err != nil {
			return ImportResult{}, err
		}

		a.auditBestEffort(ctx, models.ActionImport, "", fmt.Sprintf("mode=replace imported=%d", len(incoming)))
		return ImportResult{Imported: len(incoming)}, nil

	case ImportMerge:
		existing, err := a.driver.Load(ctx)
		if err != nil {
			return ImportResult{}, err
		}

		seen := make(map[string]struct{}, len(existing))
		for _, u := range existing {
			seen[u.Username] = struct{}{}
		}

		merged := existing
		res := ImportResult{}
		for _, u := range incoming {
			if _, ok := seen[u.Username]; ok {
				res.Conflicts = append(res.Conflicts, u.Username)
				continue
			}
			seen[u.Username] = struct{}{}
			merged = append(merged, u)
			res.Imported++
		}

		if res.Imported == 0 {
			a.auditBestEffort(ctx, models.ActionImport, "", fmt.Sprintf("mode=merge imported=0 conflicts=%d", len(res.Conflicts)))
			return res, nil
		}

		if _, err := a.takeSnapshot(ctx, models.SnapshotImport); err != nil {
			return ImportResult{}, err
		}
		if err := a.driver.Save(ctx, merged); err != nil {
			return ImportResult{}, err
		}

		a.auditBestEffort(ctx, models.ActionImport, "",
			fmt.Sprintf("mode=merge imported=%d conflicts=%d", res.Imported, len(res.Conflicts)))
		return res, nil

	default:
		return ImportResult{}, fmt.Errorf("unknown import mode %q", mode)
	}
}
