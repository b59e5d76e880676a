package store

import (
	"context"
	"log/slog"
	"sort"

	"github.com/roach88/folio/internal/library"
)

// Store is the entity-level persistence API: documents, highlights,
// bookmarks, collections, settings and the reading log, all backed by one
// JSON database file.
//
// Every mutating call is one load, an in-memory edit, and one save. The
// store keeps no cache; each call re-reads the file, so it always reflects
// the latest on-disk truth, including externally-quarantined files.
//
// The store accepts and returns plain data values only - callers never get
// references into internal state.
//
// Mutating calls must be serialized by the caller (see Queue); two
// interleaved load-mutate-save cycles lose one of the two mutations.
type Store struct {
	engine *Engine
	hasher Hasher
	log    *slog.Logger
}

// Options configures optional Store collaborators.
type Options struct {
	// Hasher computes content-addressed document ids. Defaults to SHA256Hasher.
	Hasher Hasher

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Open provisions the directory layout under root and returns a Store.
func Open(root string, opts Options) (*Store, error) {
	if opts.Hasher == nil {
		opts.Hasher = SHA256Hasher{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	engine, err := NewEngine(Paths{Root: root}, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Store{engine: engine, hasher: opts.Hasher, log: opts.Logger}, nil
}

// Paths returns the store's directory layout.
func (s *Store) Paths() Paths { return s.engine.Paths() }

// enrich recomputes the derived highlight/bookmark counts for a document.
// Counts are derived at read time and never persisted.
func enrich(d library.Document, db *library.Database) library.Document {
	for _, h := range db.Highlights {
		if h.DocumentID == d.ID {
			d.HighlightsCount++
		}
	}
	for _, b := range db.Bookmarks {
		if b.DocumentID == d.ID {
			d.BookmarksCount++
		}
	}
	return d
}

// recency returns the instant used for document ordering:
// lastOpenedAt, falling back to createdAt.
func recency(d library.Document) string {
	if d.LastOpenedAt != "" {
		return d.LastOpenedAt
	}
	return d.CreatedAt
}

// sortDocuments orders pinned documents first, then by most recently
// opened (createdAt for never-opened documents). Ties keep insertion order.
func sortDocuments(docs []library.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].IsPinned != docs[j].IsPinned {
			return docs[i].IsPinned
		}
		// Canonical instants sort lexicographically.
		return recency(docs[i]) > recency(docs[j])
	})
}

func findDocument(db *library.Database, id string) int {
	for i := range db.Documents {
		if db.Documents[i].ID == id {
			return i
		}
	}
	return -1
}

func findCollection(db *library.Database, id string) int {
	for i := range db.Collections {
		if db.Collections[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) load(ctx context.Context) (library.Database, error) {
	return s.engine.Load(ctx)
}

func (s *Store) save(ctx context.Context, db library.Database) error {
	return s.engine.Save(ctx, db)
}
