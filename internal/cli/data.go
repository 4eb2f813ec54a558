package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/metascrub-app/core/internal/persistence"
)

// Export writes the collection to args[0], or to a generated path under
// the data directory when no path is given. Passing "with-hashes" keeps
// password hashes in the document.
func (a *App) Export(ctx context.Context, args []string) error {
	opts := persistence.ExportOptions{}
	path := ""
	for _, arg := range args {
		if arg == "with-hashes" {
			opts.IncludePasswordHashes = true
			continue
		}
		path = arg
	}

	res, err := a.data.ExportUserData(ctx, path, opts)
	if err != nil {
		printlnFn("Export failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Exported %d accounts to %s", res.Count, res.Path))
	return nil
}

// Import loads an export document from args[0] and applies it with the
// mode in args[1]. Merge is the default; replace swaps the whole
// collection.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: import <path> [replace|merge]")
		return nil
	}

	mode := persistence.ImportMerge
	if len(args) > 1 {
		mode = persistence.ImportMode(args[1])
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		printlnFn("Import failed:", err)
		return err
	}
	doc, err := persistence.ParseExportDocument(data)
	if err != nil {
		printlnFn("Import failed:", err)
		return err
	}

	res, err := a.data.ImportUserData(ctx, doc, mode)
	if err != nil {
		printlnFn("Import failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Imported %d accounts", res.Imported))
	for _, name := range res.Conflicts {
		printlnFn("Kept existing record for:", name)
	}
	return nil
}

// Backup takes a snapshot of the current collection on demand.
func (a *App) Backup(ctx context.Context) error {
	info, err := a.data.CreateBackup(ctx, "")
	if err != nil {
		printlnFn("Backup failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Backup %s taken (%d accounts)", info.ID, info.UserCount))
	return nil
}

// Backups lists stored snapshots, newest first.
func (a *App) Backups(ctx context.Context) error {
	infos, err := a.data.ListBackups(ctx)
	if err != nil {
		printlnFn("Listing failed:", err)
		return err
	}
	if len(infos) == 0 {
		printlnFn("No backups")
		return nil
	}

	for _, info := range infos {
		printlnFn(fmt.Sprintf("%s  %-7s %3d accounts  %s",
			info.TakenAt.Format(time.RFC3339), info.Operation, info.UserCount, info.ID))
	}
	return nil
}

// Audit prints the audit trail in insertion order.
func (a *App) Audit(ctx context.Context) error {
	entries, err := a.ids.AuditLog(ctx)
	if err != nil {
		printlnFn("Audit read failed:", err)
		return err
	}
	if len(entries) == 0 {
		printlnFn("Audit trail is empty")
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-24s %s", e.Timestamp.Format(time.RFC3339), e.Action, e.Username)
		if e.Details != "" {
			line += "  " + e.Details
		}
		printlnFn(line)
	}
	return nil
}
