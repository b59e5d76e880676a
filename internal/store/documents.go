package store

import (
	"context"
	"os"
	"time"

	"github.com/roach88/folio/internal/library"
)

// ListDocuments returns all documents with derived counts, pinned first,
// then most recently opened.
func (s *Store) ListDocuments(ctx context.Context) ([]library.Document, error) {
	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]library.Document, 0, len(db.Documents))
	for _, d := range db.Documents {
		docs = append(docs, enrich(d, &db))
	}
	sortDocuments(docs)
	return docs, nil
}

// GetDocument returns one document with derived counts.
func (s *Store) GetDocument(ctx context.Context, id string) (library.Document, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Document{}, err
	}
	i := findDocument(&db, id)
	if i < 0 {
		return library.Document{}, NewNotFoundError("document", id)
	}
	return enrich(db.Documents[i], &db), nil
}

// UpsertDocument normalizes the input and inserts or merges it. An existing
// record keeps its original createdAt; everything else is taken from the
// input. Returns the stored document with derived counts.
func (s *Store) UpsertDocument(ctx context.Context, doc library.Document) (library.Document, error) {
	doc = library.NormalizeDocument(doc)
	if doc.ID == "" || doc.Title == "" || doc.FilePath == "" {
		return library.Document{}, NewInvalidInputError("document", "id, title and filePath are required")
	}

	db, err := s.load(ctx)
	if err != nil {
		return library.Document{}, err
	}

	if i := findDocument(&db, doc.ID); i >= 0 {
		doc.CreatedAt = db.Documents[i].CreatedAt
		db.Documents[i] = doc
	} else {
		db.Documents = append(db.Documents, doc)
	}

	if err := s.save(ctx, db); err != nil {
		return library.Document{}, err
	}
	return enrich(doc, &db), nil
}

// DocumentMetaUpdate is a patch for pin state and collection assignment.
// Nil fields keep the stored value.
type DocumentMetaUpdate struct {
	IsPinned *bool

	// CollectionID assigns the document to a collection. An id that does
	// not reference an existing collection clears the association; an
	// empty string clears it explicitly.
	CollectionID *string
}

// UpdateDocumentMeta applies a meta patch to an existing document.
func (s *Store) UpdateDocumentMeta(ctx context.Context, id string, patch DocumentMetaUpdate) (library.Document, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Document{}, err
	}
	i := findDocument(&db, id)
	if i < 0 {
		return library.Document{}, NewNotFoundError("document", id)
	}

	doc := db.Documents[i]
	if patch.IsPinned != nil {
		doc.IsPinned = *patch.IsPinned
	}
	if patch.CollectionID != nil {
		doc.CollectionID = ""
		if *patch.CollectionID != "" && findCollection(&db, *patch.CollectionID) >= 0 {
			doc.CollectionID = *patch.CollectionID
		}
	}
	db.Documents[i] = doc

	if err := s.save(ctx, db); err != nil {
		return library.Document{}, err
	}
	return enrich(doc, &db), nil
}

// ReadingStateUpdate carries one viewer progress report.
type ReadingStateUpdate struct {
	// PageIndex is the 0-based page the viewer is on. Nil keeps the
	// stored position.
	PageIndex *int

	// TotalPages replaces the stored page count when positive.
	TotalPages int

	// Scale replaces the stored render scale when positive.
	Scale float64

	// AllowFirstPage disables the page-0 regression guard for deliberate
	// jumps back to the first page.
	AllowFirstPage bool

	// OpenedAt overrides the lastOpenedAt instant; empty means now.
	OpenedAt string

	// ReadingSeconds is a non-negative reading-time delta to accumulate.
	ReadingSeconds int

	// PagesDelta is the number of pages read in this report, accrued into
	// the daily reading log.
	PagesDelta int
}

// UpdateReadingState applies one progress report to a document. Page
// position clamps into the known page range; maxReadPageIndex only grows;
// reading time only accumulates. A page-0 report against a document that
// has advanced past page 0 is treated as a spurious viewer re-init and
// ignored unless AllowFirstPage is set.
func (s *Store) UpdateReadingState(ctx context.Context, id string, upd ReadingStateUpdate) (library.Document, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Document{}, err
	}
	i := findDocument(&db, id)
	if i < 0 {
		return library.Document{}, NewNotFoundError("document", id)
	}
	doc := db.Documents[i]

	total := doc.LastReadTotalPages
	if upd.TotalPages > 0 {
		total = upd.TotalPages
	}

	page := doc.LastReadPageIndex
	if upd.PageIndex != nil {
		page = *upd.PageIndex
	}
	if page < 0 {
		page = 0
	}
	if total > 0 && page > total-1 {
		page = total - 1
	}

	// Viewer re-initialization often reports page 0 transiently; do not
	// let it reset real progress.
	if page == 0 && doc.MaxReadPageIndex > 0 && !upd.AllowFirstPage {
		page = maxOf(doc.LastReadPageIndex, doc.MaxReadPageIndex)
		if total > 0 && page > total-1 {
			page = total - 1
		}
	}

	doc.LastReadPageIndex = page
	doc.LastReadTotalPages = total
	doc.MaxReadPageIndex = maxOf(doc.MaxReadPageIndex, page)
	if total > 0 && doc.MaxReadPageIndex > total-1 {
		doc.MaxReadPageIndex = total - 1
	}

	if scale := library.NormalizeScale(upd.Scale); scale > 0 {
		doc.LastReadScale = scale
	}

	openedAt := library.NormalizeInstant(upd.OpenedAt)
	if openedAt == "" {
		openedAt = library.CanonicalInstant(time.Now())
	}
	doc.LastOpenedAt = openedAt

	if upd.ReadingSeconds > 0 {
		doc.TotalReadingSeconds += upd.ReadingSeconds
	}

	// Accrue the daily log additively; entries for other dates stay put.
	if upd.ReadingSeconds > 0 || upd.PagesDelta > 0 {
		day := openedAt[:len("2006-01-02")]
		entry := db.ReadingLog[day]
		if upd.PagesDelta > 0 {
			entry.Pages += upd.PagesDelta
		}
		if upd.ReadingSeconds > 0 {
			entry.Seconds += upd.ReadingSeconds
		}
		db.ReadingLog[day] = entry
	}

	db.Documents[i] = doc
	if err := s.save(ctx, db); err != nil {
		return library.Document{}, err
	}
	return enrich(doc, &db), nil
}

// ResetReadingState zeroes the page position and clears total pages, scale,
// last-opened and the reading-time accumulator for one document. The daily
// reading log is untouched.
func (s *Store) ResetReadingState(ctx context.Context, id string) (library.Document, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Document{}, err
	}
	i := findDocument(&db, id)
	if i < 0 {
		return library.Document{}, NewNotFoundError("document", id)
	}

	doc := db.Documents[i]
	doc.LastReadPageIndex = 0
	doc.MaxReadPageIndex = 0
	doc.LastReadTotalPages = 0
	doc.LastReadScale = 0
	doc.LastOpenedAt = ""
	doc.TotalReadingSeconds = 0
	db.Documents[i] = doc

	if err := s.save(ctx, db); err != nil {
		return library.Document{}, err
	}
	return enrich(doc, &db), nil
}

// DeleteDocumentResult reports what a document delete cascaded to.
type DeleteDocumentResult struct {
	RemovedHighlightsCount int `json:"removedHighlightsCount"`
	RemovedBookmarksCount  int `json:"removedBookmarksCount"`
}

// DeleteDocument removes a document, cascades to its highlights and
// bookmarks, and best-effort unlinks the managed file. The database record
// is the source of truth; a file that cannot be unlinked is recoverable
// garbage, not a consistency violation, so unlink failures are only logged.
func (s *Store) DeleteDocument(ctx context.Context, id string) (DeleteDocumentResult, error) {
	db, err := s.load(ctx)
	if err != nil {
		return DeleteDocumentResult{}, err
	}
	i := findDocument(&db, id)
	if i < 0 {
		return DeleteDocumentResult{}, NewNotFoundError("document", id)
	}
	filePath := db.Documents[i].FilePath
	db.Documents = append(db.Documents[:i], db.Documents[i+1:]...)

	var res DeleteDocumentResult
	kept := db.Highlights[:0]
	for _, h := range db.Highlights {
		if h.DocumentID == id {
			res.RemovedHighlightsCount++
			continue
		}
		kept = append(kept, h)
	}
	db.Highlights = kept

	keptB := db.Bookmarks[:0]
	for _, b := range db.Bookmarks {
		if b.DocumentID == id {
			res.RemovedBookmarksCount++
			continue
		}
		keptB = append(keptB, b)
	}
	db.Bookmarks = keptB

	if err := s.save(ctx, db); err != nil {
		return DeleteDocumentResult{}, err
	}

	if filePath != "" {
		go func() {
			if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
				s.log.Debug("could not unlink document file", "path", filePath, "error", err)
			}
		}()
	}

	return res, nil
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
