package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths describes the on-disk layout under a single root directory:
//
//	root/db.json      canonical database file
//	root/documents/   managed copies of imported PDFs, <contentHash>.pdf
//	root/exports/     reserved for export features
//	root/backups/     reserved for backup features
type Paths struct {
	Root string
}

// DatabaseFile returns the canonical database file path.
func (p Paths) DatabaseFile() string { return filepath.Join(p.Root, "db.json") }

// DocumentsDir returns the managed-documents directory.
func (p Paths) DocumentsDir() string { return filepath.Join(p.Root, "documents") }

// ExportsDir returns the exports directory.
func (p Paths) ExportsDir() string { return filepath.Join(p.Root, "exports") }

// BackupsDir returns the backups directory.
func (p Paths) BackupsDir() string { return filepath.Join(p.Root, "backups") }

// DocumentFile returns the managed path for an imported document id.
func (p Paths) DocumentFile(id string) string {
	return filepath.Join(p.DocumentsDir(), id+".pdf")
}

// Provision ensures the root and its subdirectories exist.
// Idempotent - safe to call multiple times.
func (p Paths) Provision() error {
	dirs := []string{p.Root, p.DocumentsDir(), p.ExportsDir(), p.BackupsDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("provision %s: %w", dir, err)
		}
	}
	return nil
}
