package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/roach88/folio/internal/library"
)

// ListHighlights returns all highlights, optionally filtered by document.
func (s *Store) ListHighlights(ctx context.Context, documentID string) ([]library.Highlight, error) {
	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]library.Highlight, 0, len(db.Highlights))
	for _, h := range db.Highlights {
		if documentID == "" || h.DocumentID == documentID {
			out = append(out, h)
		}
	}
	return out, nil
}

// GetHighlight returns one highlight by id.
func (s *Store) GetHighlight(ctx context.Context, id string) (library.Highlight, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Highlight{}, err
	}
	for _, h := range db.Highlights {
		if h.ID == id {
			return h, nil
		}
	}
	return library.Highlight{}, NewNotFoundError("highlight", id)
}

// AddHighlight validates and stores a new highlight. The owning document
// must exist; the normalized selection must keep non-empty text and at
// least one rectangle of non-zero area, otherwise nothing is written.
// A missing id is generated.
func (s *Store) AddHighlight(ctx context.Context, h library.Highlight) (library.Highlight, error) {
	h = library.NormalizeHighlight(h)
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.DocumentID == "" {
		return library.Highlight{}, NewInvalidInputError("highlight", "documentId is required")
	}
	if h.SelectedText == "" {
		return library.Highlight{}, NewInvalidInputError("highlight", "selected text is empty after normalization")
	}
	if len(h.Rects) == 0 {
		return library.Highlight{}, NewInvalidInputError("highlight", "no valid selection rectangles")
	}

	db, err := s.load(ctx)
	if err != nil {
		return library.Highlight{}, err
	}
	if findDocument(&db, h.DocumentID) < 0 {
		return library.Highlight{}, NewNotFoundError("document", h.DocumentID)
	}

	db.Highlights = append(db.Highlights, h)
	if err := s.save(ctx, db); err != nil {
		return library.Highlight{}, err
	}
	return h, nil
}

// HighlightPatch is a patch-merge update: nil fields keep the stored value.
type HighlightPatch struct {
	PageIndex        *int
	Rects            *[]library.Rect
	SelectedText     *string
	SelectedRichText *string
	Color            *library.HighlightColor
	Note             *string
	Tags             *[]string

	ReviewCount        *int
	ReviewIntervalDays *int
	LastReviewedAt     *string
	NextReviewAt       *string
	ReviewLastGrade    *library.ReviewGrade
}

// UpdateHighlight merges a patch over an existing highlight. An update
// never degrades a highlight to an invalid state: if the merge would leave
// empty text or zero rectangles, the previous values are restored.
func (s *Store) UpdateHighlight(ctx context.Context, id string, patch HighlightPatch) (library.Highlight, error) {
	db, err := s.load(ctx)
	if err != nil {
		return library.Highlight{}, err
	}

	i := -1
	for j := range db.Highlights {
		if db.Highlights[j].ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		return library.Highlight{}, NewNotFoundError("highlight", id)
	}

	prev := db.Highlights[i]
	next := prev
	if patch.PageIndex != nil {
		next.PageIndex = *patch.PageIndex
	}
	if patch.Rects != nil {
		next.Rects = *patch.Rects
	}
	if patch.SelectedText != nil {
		next.SelectedText = *patch.SelectedText
	}
	if patch.SelectedRichText != nil {
		next.SelectedRichText = *patch.SelectedRichText
	}
	if patch.Color != nil {
		next.Color = *patch.Color
	}
	if patch.Note != nil {
		next.Note = *patch.Note
	}
	if patch.Tags != nil {
		next.Tags = *patch.Tags
	}
	if patch.ReviewCount != nil {
		next.ReviewCount = *patch.ReviewCount
	}
	if patch.ReviewIntervalDays != nil {
		next.ReviewIntervalDays = *patch.ReviewIntervalDays
	}
	if patch.LastReviewedAt != nil {
		next.LastReviewedAt = *patch.LastReviewedAt
	}
	if patch.NextReviewAt != nil {
		next.NextReviewAt = *patch.NextReviewAt
	}
	if patch.ReviewLastGrade != nil {
		next.ReviewLastGrade = *patch.ReviewLastGrade
	}

	next = library.NormalizeHighlight(next)
	next.ID = prev.ID
	next.DocumentID = prev.DocumentID
	next.CreatedAt = prev.CreatedAt
	if next.SelectedText == "" {
		next.SelectedText = prev.SelectedText
		next.SelectedRichText = prev.SelectedRichText
	}
	if len(next.Rects) == 0 {
		next.Rects = prev.Rects
	}

	db.Highlights[i] = next
	if err := s.save(ctx, db); err != nil {
		return library.Highlight{}, err
	}
	return next, nil
}

// DeleteHighlight removes one highlight by id.
func (s *Store) DeleteHighlight(ctx context.Context, id string) error {
	n, err := s.DeleteHighlights(ctx, []string{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return NewNotFoundError("highlight", id)
	}
	return nil
}

// DeleteHighlights removes a batch of highlights by id. Input ids are
// deduplicated; the returned count is the number actually removed, and a
// count of 0 is not an error.
func (s *Store) DeleteHighlights(ctx context.Context, ids []string) (int, error) {
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
	kept := db.Highlights[:0]
	for _, h := range db.Highlights {
		if want[h.ID] {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	if removed == 0 {
		return 0, nil
	}
	db.Highlights = kept

	if err := s.save(ctx, db); err != nil {
		return 0, err
	}
	return removed, nil
}
