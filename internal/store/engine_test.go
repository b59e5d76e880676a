package store

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/folio/internal/library"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Paths{Root: t.TempDir()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return e
}

func quarantineFiles(t *testing.T, e *Engine) []string {
	t.Helper()
	matches, err := filepath.Glob(e.Paths().DatabaseFile() + ".corrupt.*")
	require.NoError(t, err)
	return matches
}

func TestEngine_LoadEmpty(t *testing.T) {
	e := testEngine(t)
	db, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, library.EmptyDatabase(), db)
}

func TestEngine_SaveLoadRoundTrip(t *testing.T) {
	e := testEngine(t)

	db := library.EmptyDatabase()
	db.Documents = append(db.Documents, library.Document{
		ID: "doc-1", Title: "Round Trip", FilePath: "/data/documents/doc-1.pdf",
		CreatedAt: "2026-08-29T10:00:00Z", LastReadPageIndex: 3, MaxReadPageIndex: 8,
		LastReadTotalPages: 40, LastReadScale: 1.25, TotalReadingSeconds: 60,
	})
	db.ReadingLog["2026-08-29"] = library.LogEntry{Pages: 4, Seconds: 60}

	require.NoError(t, e.Save(context.Background(), db))

	loaded, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, library.NormalizeDatabase(db), loaded)
}

func TestEngine_SaveIsAtomicReplace(t *testing.T) {
	e := testEngine(t)
	require.NoError(t, e.Save(context.Background(), library.EmptyDatabase()))

	// No temp files survive a completed save.
	tmp, err := filepath.Glob(e.Paths().DatabaseFile() + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, tmp)
}

func TestEngine_CorruptFileQuarantinedAndReset(t *testing.T) {
	e := testEngine(t)
	garbage := []byte("{ this is not json")
	require.NoError(t, os.WriteFile(e.Paths().DatabaseFile(), garbage, 0o644))

	db, err := e.Load(context.Background())
	require.NoError(t, err, "corruption never propagates to the caller")
	assert.Equal(t, library.EmptyDatabase(), db)

	// Quarantine file holds the original bytes verbatim.
	files := quarantineFiles(t, e)
	require.Len(t, files, 1)
	kept, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, garbage, kept)

	// The reset file loads cleanly without quarantining again.
	_, err = e.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, quarantineFiles(t, e), 1)
}

func TestEngine_NonObjectRootQuarantined(t *testing.T) {
	e := testEngine(t)
	require.NoError(t, os.WriteFile(e.Paths().DatabaseFile(), []byte(`[1,2,3]`), 0o644))

	db, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, library.EmptyDatabase(), db)
	assert.Len(t, quarantineFiles(t, e), 1)
}

func TestEngine_LoadSelfHeals(t *testing.T) {
	e := testEngine(t)

	// Parseable but sloppy legacy content: wrong types, broken records,
	// unknown fields. Loading repairs it without quarantining.
	legacy := map[string]any{
		"documents": []any{
			map[string]any{
				"id": "doc-1", "title": "  Legacy  Doc ", "filePath": "/f.pdf",
				"createdAt": "2026-08-29 10:00:00", "lastReadPageIndex": "9",
				"someFutureField": true,
			},
			map[string]any{"id": "", "title": "broken"},
		},
		"settings": map[string]any{"theme": "disco"},
	}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.Paths().DatabaseFile(), raw, 0o644))

	db, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, quarantineFiles(t, e))
	require.Len(t, db.Documents, 1)
	assert.Equal(t, "Legacy Doc", db.Documents[0].Title)
	assert.Equal(t, "2026-08-29T10:00:00Z", db.Documents[0].CreatedAt)
	assert.Equal(t, 9, db.Documents[0].LastReadPageIndex)
	assert.Equal(t, library.ThemeLight, db.Settings.Theme)
}

func TestEngine_SaveRenormalizes(t *testing.T) {
	e := testEngine(t)

	db := library.EmptyDatabase()
	// An in-memory mutation that violates the invariants: save must not
	// trust it.
	db.Documents = append(db.Documents, library.Document{
		ID: "doc-1", Title: "T", FilePath: "/f.pdf",
		CreatedAt: "2026-08-29T10:00:00Z",
		LastReadPageIndex: 99, LastReadTotalPages: 10,
	})
	require.NoError(t, e.Save(context.Background(), db))

	loaded, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Documents[0].LastReadPageIndex)
}
