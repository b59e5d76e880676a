package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/roach88/folio/internal/library"
)

// Engine owns the single JSON database file: atomic load/save plus
// corruption quarantine. Every loaded value and every value about to be
// written passes through full normalization; that is the only schema
// mechanism the file has.
//
// The engine does no locking. The single-process, single-writer contract
// is made explicit by Queue; see queue.go.
type Engine struct {
	paths Paths
	log   *slog.Logger
}

// NewEngine creates an engine over a provisioned directory layout. If the
// database file is absent it is seeded with the canonical empty database
// before NewEngine returns.
func NewEngine(paths Paths, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := paths.Provision(); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &Engine{paths: paths, log: logger}

	if _, err := os.Stat(paths.DatabaseFile()); os.IsNotExist(err) {
		if err := e.writeAtomic(library.EmptyDatabase()); err != nil {
			return nil, fmt.Errorf("seed database: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}

	return e, nil
}

// Paths returns the engine's directory layout.
func (e *Engine) Paths() Paths { return e.paths }

// Load reads and normalizes the database. Corruption (unreadable bytes or a
// non-object root) is recovered locally: the raw bytes are quarantined, the
// file is reset to the canonical empty database, and the empty database is
// returned. The caller never sees a corruption error.
func (e *Engine) Load(ctx context.Context) (library.Database, error) {
	if err := ctx.Err(); err != nil {
		return library.Database{}, err
	}

	raw, err := os.ReadFile(e.paths.DatabaseFile())
	if os.IsNotExist(err) {
		db := library.EmptyDatabase()
		if err := e.writeAtomic(db); err != nil {
			return library.Database{}, fmt.Errorf("reseed database: %w", err)
		}
		return db, nil
	}
	if err != nil {
		return library.Database{}, fmt.Errorf("read database: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return e.quarantine(raw, fmt.Sprintf("parse: %v", err))
	}
	db, ok := library.DecodeDatabase(parsed)
	if !ok {
		return e.quarantine(raw, "root is not an object")
	}
	return db, nil
}

// Save re-normalizes and atomically replaces the database file. In-memory
// mutations are never trusted; the written shape always comes out of
// NormalizeDatabase.
func (e *Engine) Save(ctx context.Context, db library.Database) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.writeAtomic(library.NormalizeDatabase(db)); err != nil {
		return fmt.Errorf("save database: %w", err)
	}
	return nil
}

// quarantine copies the unreadable bytes aside and resets the main file.
// The loss of prior data is observable only through the quarantine file and
// the log; callers get a working empty database.
func (e *Engine) quarantine(raw []byte, reason string) (library.Database, error) {
	quarantinePath := fmt.Sprintf("%s.corrupt.%d", e.paths.DatabaseFile(), time.Now().UnixNano())
	if err := os.WriteFile(quarantinePath, raw, 0o644); err != nil {
		return library.Database{}, fmt.Errorf("quarantine database: %w", err)
	}

	e.log.Warn("database file corrupt, quarantined and reset",
		"reason", reason,
		"quarantine", quarantinePath,
	)

	db := library.EmptyDatabase()
	if err := e.writeAtomic(db); err != nil {
		return library.Database{}, fmt.Errorf("reset database: %w", err)
	}
	return db, nil
}

// writeAtomic serializes to pretty JSON, writes a uniquely-named temp file
// in the same directory, then renames it over the destination. A crash at
// any step leaves the previous file intact; a half-written file is never
// visible at the canonical path.
func (e *Engine) writeAtomic(db library.Database) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal database: %w", err)
	}
	data = append(data, '\n')

	dst := e.paths.DatabaseFile()
	tmp := fmt.Sprintf("%s.%d.%d.tmp", dst, os.Getpid(), time.Now().UnixNano())

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}
