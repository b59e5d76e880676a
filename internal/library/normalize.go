package library

import (
	"math"
	"net/url"
	"time"
)

// Instant layouts accepted on input. Canonical output is always
// UTC RFC 3339 with second precision.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

// NormalizeInstant parses a timestamp in any accepted layout and
// re-serializes it to the canonical form. Unparseable input yields "".
func NormalizeInstant(s string) string {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CanonicalInstant(t)
		}
	}
	return ""
}

// CanonicalInstant formats a time in the canonical stored form.
func CanonicalInstant(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// NormalizeDateKey validates a YYYY-MM-DD reading-log key. Go's parser
// tolerates unpadded components, so the re-formatted string must equal the
// input exactly. Invalid keys yield "".
func NormalizeDateKey(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil || t.Format("2006-01-02") != s {
		return ""
	}
	return s
}

// NormalizePositiveInt truncates toward zero and floors at 0.
// Non-finite input yields the fallback.
func NormalizePositiveInt(v float64, fallback int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	n := int(math.Trunc(v))
	if n < 0 {
		return 0
	}
	return n
}

// NormalizeScale accepts only finite positive values, floored at MinScale.
// Anything else is unset (0).
func NormalizeScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	if v < MinScale {
		return MinScale
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NormalizeRects clamps each rectangle into the unit square and drops
// rectangles with zero width or height.
func NormalizeRects(rects []Rect) []Rect {
	out := make([]Rect, 0, len(rects))
	for _, r := range rects {
		r = Rect{X: clamp01(r.X), Y: clamp01(r.Y), W: clamp01(r.W), H: clamp01(r.H)}
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// NormalizeTags trims, caps at MaxTagLen runes, drops empties and
// deduplicates by exact match, preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = truncateRunes(NormalizeText(tag), MaxTagLen)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// NormalizeHTTPURL keeps only parseable http/https URLs; everything else
// becomes the empty string.
func NormalizeHTTPURL(raw string) string {
	raw = NormalizeText(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return raw
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func normalizeColor(c HighlightColor) HighlightColor {
	switch c {
	case ColorYellow, ColorGreen, ColorPink:
		return c
	}
	return ColorYellow
}

func normalizeGrade(g ReviewGrade) ReviewGrade {
	switch g {
	case GradeHard, GradeGood, GradeEasy:
		return g
	}
	return ""
}

func normalizeTheme(t Theme) Theme {
	switch t {
	case ThemeLight, ThemeSepia, ThemeContrast:
		return t
	}
	return ThemeLight
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// NormalizeDocument produces the canonical form of a document. Derived
// counts are cleared; they are recomputed on read, never stored.
func NormalizeDocument(d Document) Document {
	d.ID = NormalizeText(d.ID)
	d.Title = NormalizeText(d.Title)
	d.CreatedAt = NormalizeInstant(d.CreatedAt)
	if d.CreatedAt == "" {
		d.CreatedAt = CanonicalInstant(time.Now())
	}
	d.LastOpenedAt = NormalizeInstant(d.LastOpenedAt)

	if d.LastReadPageIndex < 0 {
		d.LastReadPageIndex = 0
	}
	if d.MaxReadPageIndex < 0 {
		d.MaxReadPageIndex = 0
	}
	if d.LastReadTotalPages < 1 {
		d.LastReadTotalPages = 0
	}
	if d.LastReadTotalPages > 0 {
		if d.LastReadPageIndex > d.LastReadTotalPages-1 {
			d.LastReadPageIndex = d.LastReadTotalPages - 1
		}
		if d.MaxReadPageIndex > d.LastReadTotalPages-1 {
			d.MaxReadPageIndex = d.LastReadTotalPages - 1
		}
	}
	d.MaxReadPageIndex = maxInt(d.MaxReadPageIndex, d.LastReadPageIndex)

	d.LastReadScale = NormalizeScale(d.LastReadScale)
	if d.TotalReadingSeconds < 0 {
		d.TotalReadingSeconds = 0
	}
	d.CollectionID = NormalizeText(d.CollectionID)
	d.HighlightsCount = 0
	d.BookmarksCount = 0
	return d
}

// NormalizeHighlight produces the canonical form of a highlight. Validity
// (non-empty text, at least one rect) is the store's concern; normalization
// only shapes the fields.
func NormalizeHighlight(h Highlight) Highlight {
	h.ID = NormalizeText(h.ID)
	h.DocumentID = NormalizeText(h.DocumentID)
	if h.PageIndex < 0 {
		h.PageIndex = 0
	}
	h.Rects = NormalizeRects(h.Rects)
	h.SelectedText = RepairExtractedText(h.SelectedText)
	h.SelectedRichText = truncateRunes(h.SelectedRichText, MaxRichTextLen)
	if h.SelectedText == "" && h.SelectedRichText != "" {
		h.SelectedText = StripRichText(h.SelectedRichText)
	}
	h.Color = normalizeColor(h.Color)
	h.Note = NormalizeText(h.Note)
	h.Tags = NormalizeTags(h.Tags)

	if h.ReviewCount < 0 {
		h.ReviewCount = 0
	}
	if h.ReviewIntervalDays < 0 {
		h.ReviewIntervalDays = 0
	}
	h.LastReviewedAt = NormalizeInstant(h.LastReviewedAt)
	h.NextReviewAt = NormalizeInstant(h.NextReviewAt)
	h.ReviewLastGrade = normalizeGrade(h.ReviewLastGrade)

	h.CreatedAt = NormalizeInstant(h.CreatedAt)
	if h.CreatedAt == "" {
		h.CreatedAt = CanonicalInstant(time.Now())
	}
	return h
}

// NormalizeBookmark produces the canonical form of a bookmark.
func NormalizeBookmark(b Bookmark) Bookmark {
	b.ID = NormalizeText(b.ID)
	b.DocumentID = NormalizeText(b.DocumentID)
	if b.PageIndex < 0 {
		b.PageIndex = 0
	}
	b.Label = NormalizeText(b.Label)
	b.CreatedAt = NormalizeInstant(b.CreatedAt)
	if b.CreatedAt == "" {
		b.CreatedAt = CanonicalInstant(time.Now())
	}
	return b
}

// NormalizeCollection produces the canonical form of a collection.
func NormalizeCollection(c Collection) Collection {
	c.ID = NormalizeText(c.ID)
	c.Name = truncateRunes(NormalizeText(c.Name), MaxCollectionNameLen)
	c.CreatedAt = NormalizeInstant(c.CreatedAt)
	if c.CreatedAt == "" {
		c.CreatedAt = CanonicalInstant(time.Now())
	}
	return c
}

// NormalizeSettings produces the canonical settings shape. The weekly goal
// never drops below the daily goal.
func NormalizeSettings(s Settings) Settings {
	s.Theme = normalizeTheme(s.Theme)

	if s.Goals.PagesPerDay < 1 {
		s.Goals.PagesPerDay = DefaultGoals.PagesPerDay
	}
	if s.Goals.PagesPerWeek < 1 {
		s.Goals.PagesPerWeek = DefaultGoals.PagesPerWeek
	}
	s.Goals.PagesPerWeek = maxInt(s.Goals.PagesPerWeek, s.Goals.PagesPerDay)

	s.Updates.ManifestURL = NormalizeHTTPURL(s.Updates.ManifestURL)

	seen := make(map[string]bool, len(s.SavedHighlightQueries))
	queries := make([]SavedQuery, 0, len(s.SavedHighlightQueries))
	for _, q := range s.SavedHighlightQueries {
		q.ID = NormalizeText(q.ID)
		q.Name = truncateRunes(NormalizeText(q.Name), MaxQueryNameLen)
		q.Query = truncateRunes(NormalizeText(q.Query), MaxQueryLen)
		q.CreatedAt = NormalizeInstant(q.CreatedAt)
		if q.ID == "" || q.Query == "" || seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		queries = append(queries, q)
		if len(queries) == MaxSavedQueries {
			break
		}
	}
	s.SavedHighlightQueries = queries
	return s
}

// NormalizeReadingLog drops invalid date keys and negative counters.
func NormalizeReadingLog(log ReadingLog) ReadingLog {
	out := make(ReadingLog, len(log))
	for key, entry := range log {
		if NormalizeDateKey(key) == "" {
			continue
		}
		if entry.Pages < 0 {
			entry.Pages = 0
		}
		if entry.Seconds < 0 {
			entry.Seconds = 0
		}
		out[key] = entry
	}
	return out
}

// Minimal-validity predicates: records failing these are dropped from the
// database entirely, so the persisted file never contains structurally
// broken entries.

func validDocument(d Document) bool { return d.ID != "" && d.Title != "" && d.FilePath != "" }

func validHighlight(h Highlight) bool { return h.ID != "" && h.DocumentID != "" }

func validBookmark(b Bookmark) bool { return b.ID != "" && b.DocumentID != "" }

func validCollection(c Collection) bool { return c.ID != "" && c.Name != "" }

// NormalizeDatabase produces the canonical whole-database value. It is
// idempotent: normalizing an already-normalized database yields an equal
// value. Called after every parse and before every write; there is no other
// schema-migration mechanism.
func NormalizeDatabase(db Database) Database {
	out := EmptyDatabase()

	for _, d := range db.Documents {
		if d = NormalizeDocument(d); validDocument(d) {
			out.Documents = append(out.Documents, d)
		}
	}
	for _, h := range db.Highlights {
		if h = NormalizeHighlight(h); validHighlight(h) {
			out.Highlights = append(out.Highlights, h)
		}
	}
	for _, b := range db.Bookmarks {
		if b = NormalizeBookmark(b); validBookmark(b) {
			out.Bookmarks = append(out.Bookmarks, b)
		}
	}
	for _, c := range db.Collections {
		if c = NormalizeCollection(c); validCollection(c) {
			out.Collections = append(out.Collections, c)
		}
	}

	// Dangling collection references are pruned to unset.
	ids := make(map[string]bool, len(out.Collections))
	for _, c := range out.Collections {
		ids[c.ID] = true
	}
	for i := range out.Documents {
		if out.Documents[i].CollectionID != "" && !ids[out.Documents[i].CollectionID] {
			out.Documents[i].CollectionID = ""
		}
	}

	out.Settings = NormalizeSettings(db.Settings)
	out.ReadingLog = NormalizeReadingLog(db.ReadingLog)
	return out
}
