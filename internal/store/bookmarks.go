package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/roach88/folio/internal/library"
)

// ListBookmarks returns all bookmarks, optionally filtered by document.
func (s *Store) ListBookmarks(ctx context.Context, documentID string) ([]library.Bookmark, error) {
	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]library.Bookmark, 0, len(db.Bookmarks))
	for _, b := range db.Bookmarks {
		if documentID == "" || b.DocumentID == documentID {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBookmark returns one bookmark by id.
func (s *Store) GetBookmark(ctx context.Context, id string) (library.Bookmark, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Bookmark{}, err
	}
	for _, b := range db.Bookmarks {
		if b.ID == id {
			return b, nil
		}
	}
	return library.Bookmark{}, NewNotFoundError("bookmark", id)
}

// AddBookmark stores a new bookmark for an existing document.
// A missing id is generated.
func (s *Store) AddBookmark(ctx context.Context, b library.Bookmark) (library.Bookmark, error) {
	b = library.NormalizeBookmark(b)
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.DocumentID == "" {
		return library.Bookmark{}, NewInvalidInputError("bookmark", "documentId is required")
	}

	db, err := s.load(ctx)
	if err != nil {
		return library.Bookmark{}, err
	}
	if findDocument(&db, b.DocumentID) < 0 {
		return library.Bookmark{}, NewNotFoundError("document", b.DocumentID)
	}

	db.Bookmarks = append(db.Bookmarks, b)
	if err := s.save(ctx, db); err != nil {
		return library.Bookmark{}, err
	}
	return b, nil
}

// BookmarkPatch is a patch-merge update: nil fields keep the stored value.
type BookmarkPatch struct {
	PageIndex *int
	Label     *string
}

// UpdateBookmark merges a patch over an existing bookmark.
func (s *Store) UpdateBookmark(ctx context.Context, id string, patch BookmarkPatch) (library.Bookmark, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Bookmark{}, err
	}

	i := -1
	for j := range db.Bookmarks {
		if db.Bookmarks[j].ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		return library.Bookmark{}, NewNotFoundError("bookmark", id)
	}

	prev := db.Bookmarks[i]
	next := prev
	if patch.PageIndex != nil {
		next.PageIndex = *patch.PageIndex
	}
	if patch.Label != nil {
		next.Label = *patch.Label
	}
	next = library.NormalizeBookmark(next)
	next.ID = prev.ID
	next.DocumentID = prev.DocumentID
	next.CreatedAt = prev.CreatedAt

	db.Bookmarks[i] = next
	if err := s.save(ctx, db); err != nil {
		return library.Bookmark{}, err
	}
	return next, nil
}

// DeleteBookmark removes one bookmark by id.
func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	n, err := s.DeleteBookmarks(ctx, []string{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return NewNotFoundError("bookmark", id)
	}
	return nil
}

// DeleteBookmarks removes a batch of bookmarks by id. Input ids are
// deduplicated; the returned count is the number actually removed, and a
// count of 0 is not an error.
func (s *Store) DeleteBookmarks(ctx context.Context, ids []string) (int, error) {
	db, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			want[id] = true
		}
	}

	removed := 0
	kept := db.Bookmarks[:0]
	for _, b := range db.Bookmarks {
		if want[b.ID] {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	if removed == 0 {
		return 0, nil
	}
	db.Bookmarks = kept

	if err := s.save(ctx, db); err != nil {
		return 0, err
	}
	return removed, nil
}
