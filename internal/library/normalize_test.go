package library

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeInstant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical passes through", "2026-08-29T10:00:00Z", "2026-08-29T10:00:00Z"},
		{"offset converted to utc", "2026-08-29T12:00:00+02:00", "2026-08-29T10:00:00Z"},
		{"subseconds truncated", "2026-08-29T10:00:00.789Z", "2026-08-29T10:00:00Z"},
		{"space separated legacy", "2026-08-29 10:00:00", "2026-08-29T10:00:00Z"},
		{"garbage unset", "not a date", ""},
		{"empty unset", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInstant(tt.input))
		})
	}
}

func TestNormalizeDateKey(t *testing.T) {
	assert.Equal(t, "2026-08-29", NormalizeDateKey("2026-08-29"))
	assert.Equal(t, "", NormalizeDateKey("2026-8-29"))
	assert.Equal(t, "", NormalizeDateKey("2026-13-01"))
	assert.Equal(t, "", NormalizeDateKey("yesterday"))
	assert.Equal(t, "", NormalizeDateKey(""))
}

func TestNormalizePositiveInt(t *testing.T) {
	assert.Equal(t, 3, NormalizePositiveInt(3.9, 7))
	assert.Equal(t, 0, NormalizePositiveInt(-2.5, 7))
	assert.Equal(t, 7, NormalizePositiveInt(math.NaN(), 7))
	assert.Equal(t, 7, NormalizePositiveInt(math.Inf(1), 7))
}

func TestNormalizeScale(t *testing.T) {
	assert.Equal(t, 1.5, NormalizeScale(1.5))
	assert.Equal(t, MinScale, NormalizeScale(0.01))
	assert.Equal(t, 0.0, NormalizeScale(0))
	assert.Equal(t, 0.0, NormalizeScale(-2))
	assert.Equal(t, 0.0, NormalizeScale(math.NaN()))
	assert.Equal(t, 0.0, NormalizeScale(math.Inf(1)))
}

func TestNormalizeRects(t *testing.T) {
	rects := NormalizeRects([]Rect{
		{X: 0.1, Y: 0.2, W: 0.3, H: 0.4},
		{X: -1, Y: 2, W: 0.5, H: 0.5},   // clamps into the unit square
		{X: 0.1, Y: 0.1, W: 0, H: 0.5},  // zero width dropped
		{X: 0.1, Y: 0.1, W: 0.5, H: -1}, // zero height after clamp dropped
	})
	require.Len(t, rects, 2)
	assert.Equal(t, Rect{X: 0.1, Y: 0.2, W: 0.3, H: 0.4}, rects[0])
	assert.Equal(t, Rect{X: 0, Y: 1, W: 0.5, H: 0.5}, rects[1])
}

func TestNormalizeTags(t *testing.T) {
	long := make([]rune, MaxTagLen+10)
	for i := range long {
		long[i] = 'x'
	}
	tags := NormalizeTags([]string{" go ", "go", "Go", "", string(long)})
	require.Len(t, tags, 3)
	assert.Equal(t, "go", tags[0])
	assert.Equal(t, "Go", tags[1]) // dedup is case-sensitive
	assert.Len(t, tags[2], MaxTagLen)
}

func TestNormalizeHTTPURL(t *testing.T) {
	assert.Equal(t, "https://example.com/manifest.json", NormalizeHTTPURL("https://example.com/manifest.json"))
	assert.Equal(t, "http://example.com", NormalizeHTTPURL("http://example.com"))
	assert.Equal(t, "", NormalizeHTTPURL("ftp://example.com"))
	assert.Equal(t, "", NormalizeHTTPURL("javascript:alert(1)"))
	assert.Equal(t, "", NormalizeHTTPURL("not a url"))
	assert.Equal(t, "", NormalizeHTTPURL(""))
}

func TestNormalizeDocument_PageInvariants(t *testing.T) {
	d := NormalizeDocument(Document{
		ID:                  "doc-1",
		Title:               "  A   Title ",
		FilePath:            "/data/documents/doc-1.pdf",
		CreatedAt:           "2026-08-29T10:00:00Z",
		LastReadPageIndex:   80,
		MaxReadPageIndex:    5,
		LastReadTotalPages:  50,
		LastReadScale:       0.01,
		TotalReadingSeconds: -10,
	})
	assert.Equal(t, "A Title", d.Title)
	assert.Equal(t, 49, d.LastReadPageIndex, "page clamps to total-1")
	assert.Equal(t, 49, d.MaxReadPageIndex, "max never below lastRead")
	assert.Equal(t, MinScale, d.LastReadScale)
	assert.Equal(t, 0, d.TotalReadingSeconds)
	assert.GreaterOrEqual(t, d.MaxReadPageIndex, d.LastReadPageIndex)
}

func TestNormalizeDocument_ClearsDerivedCounts(t *testing.T) {
	d := NormalizeDocument(Document{
		ID: "doc-1", Title: "T", FilePath: "/f.pdf",
		CreatedAt:       "2026-08-29T10:00:00Z",
		HighlightsCount: 4,
		BookmarksCount:  2,
	})
	assert.Zero(t, d.HighlightsCount)
	assert.Zero(t, d.BookmarksCount)
}

func TestNormalizeHighlight_Defaults(t *testing.T) {
	h := NormalizeHighlight(Highlight{
		ID:           "h-1",
		DocumentID:   "doc-1",
		PageIndex:    -3,
		Rects:        []Rect{{X: 0.1, Y: 0.1, W: 0.2, H: 0.1}},
		SelectedText: "  some   text ",
		Color:        "purple",
		Tags:         []string{" a ", "a"},
		ReviewCount:  -1,
		CreatedAt:    "2026-08-29T10:00:00Z",
	})
	assert.Equal(t, 0, h.PageIndex)
	assert.Equal(t, "some text", h.SelectedText)
	assert.Equal(t, ColorYellow, h.Color, "invalid color defaults to yellow")
	assert.Equal(t, []string{"a"}, h.Tags)
	assert.Equal(t, 0, h.ReviewCount)
	assert.Equal(t, ReviewGrade(""), h.ReviewLastGrade)
}

func TestNormalizeHighlight_PlainTextFromRichText(t *testing.T) {
	h := NormalizeHighlight(Highlight{
		ID:               "h-1",
		DocumentID:       "doc-1",
		SelectedRichText: "<p>rich <b>content</b></p>",
		CreatedAt:        "2026-08-29T10:00:00Z",
	})
	assert.Equal(t, "rich content", h.SelectedText)
}

func TestNormalizeSettings(t *testing.T) {
	s := NormalizeSettings(Settings{
		Theme:   "neon",
		Goals:   Goals{PagesPerDay: 20, PagesPerWeek: 5},
		Updates: Updates{ManifestURL: "ftp://nope"},
		SavedHighlightQueries: []SavedQuery{
			{ID: "q1", Name: "first", Query: "tag:go", CreatedAt: "2026-08-29T10:00:00Z"},
			{ID: "q1", Name: "dup", Query: "tag:dup"},
			{ID: "q2", Name: "emptied", Query: "   "},
			{ID: "", Name: "no id", Query: "x"},
		},
	})
	assert.Equal(t, ThemeLight, s.Theme)
	assert.Equal(t, 20, s.Goals.PagesPerDay)
	assert.Equal(t, 20, s.Goals.PagesPerWeek, "weekly goal raised to daily goal")
	assert.Equal(t, "", s.Updates.ManifestURL)
	require.Len(t, s.SavedHighlightQueries, 1)
	assert.Equal(t, "q1", s.SavedHighlightQueries[0].ID)
}

func TestNormalizeSettings_QueryCap(t *testing.T) {
	var queries []SavedQuery
	for i := 0; i < MaxSavedQueries+5; i++ {
		queries = append(queries, SavedQuery{
			ID:    string(rune('a' + i)),
			Query: "q",
		})
	}
	s := NormalizeSettings(Settings{SavedHighlightQueries: queries})
	assert.Len(t, s.SavedHighlightQueries, MaxSavedQueries)
}

func TestNormalizeReadingLog(t *testing.T) {
	log := NormalizeReadingLog(ReadingLog{
		"2026-08-29": {Pages: 5, Seconds: 120},
		"2026-8-29":  {Pages: 1, Seconds: 1},
		"nonsense":   {Pages: 1, Seconds: 1},
		"2026-08-28": {Pages: -3, Seconds: -1},
	})
	require.Len(t, log, 2)
	assert.Equal(t, LogEntry{Pages: 5, Seconds: 120}, log["2026-08-29"])
	assert.Equal(t, LogEntry{}, log["2026-08-28"])
}

func TestNormalizeDatabase_DropsBrokenRecords(t *testing.T) {
	db := NormalizeDatabase(Database{
		Documents: []Document{
			{ID: "doc-1", Title: "Kept", FilePath: "/f.pdf", CreatedAt: "2026-08-29T10:00:00Z"},
			{ID: "", Title: "No id", FilePath: "/g.pdf"},
			{ID: "doc-3", Title: "", FilePath: "/h.pdf"},
		},
		Highlights: []Highlight{
			{ID: "h-1", DocumentID: "doc-1", SelectedText: "t", CreatedAt: "2026-08-29T10:00:00Z"},
			{ID: "h-2", DocumentID: ""},
		},
		Bookmarks: []Bookmark{
			{ID: "b-1", DocumentID: "doc-1", CreatedAt: "2026-08-29T10:00:00Z"},
			{ID: "", DocumentID: "doc-1"},
		},
		Collections: []Collection{
			{ID: "c-1", Name: "Research", CreatedAt: "2026-08-29T10:00:00Z"},
			{ID: "c-2", Name: "   "},
		},
	})
	assert.Len(t, db.Documents, 1)
	assert.Len(t, db.Highlights, 1)
	assert.Len(t, db.Bookmarks, 1)
	assert.Len(t, db.Collections, 1)
}

func TestNormalizeDatabase_PrunesDanglingCollectionRefs(t *testing.T) {
	db := NormalizeDatabase(Database{
		Documents: []Document{
			{ID: "doc-1", Title: "T", FilePath: "/f.pdf", CreatedAt: "2026-08-29T10:00:00Z", CollectionID: "ghost"},
			{ID: "doc-2", Title: "U", FilePath: "/g.pdf", CreatedAt: "2026-08-29T10:00:00Z", CollectionID: "c-1"},
		},
		Collections: []Collection{
			{ID: "c-1", Name: "Real", CreatedAt: "2026-08-29T10:00:00Z"},
		},
	})
	assert.Equal(t, "", db.Documents[0].CollectionID)
	assert.Equal(t, "c-1", db.Documents[1].CollectionID)
}

func TestNormalizeDatabase_Idempotent(t *testing.T) {
	messy := Database{
		Documents: []Document{
			{ID: " doc-1 ", Title: "  A  Title ", FilePath: "/f.pdf",
				CreatedAt: "2026-08-29T12:00:00+02:00", LastReadPageIndex: 9,
				LastReadTotalPages: 5, LastReadScale: 0.02},
		},
		Highlights: []Highlight{
			{ID: "h-1", DocumentID: "doc-1", SelectedText: "a  b", Color: "mauve",
				Rects:     []Rect{{X: 2, Y: -1, W: 0.5, H: 0.5}, {W: 0, H: 1}},
				CreatedAt: "2026-08-29T10:00:00Z"},
		},
		Settings:   Settings{Theme: "odd", Goals: Goals{PagesPerDay: 3}},
		ReadingLog: ReadingLog{"bad key": {Pages: 1}, "2026-08-29": {Pages: 2, Seconds: 30}},
	}

	once := NormalizeDatabase(messy)
	twice := NormalizeDatabase(once)

	onceJSON, err := json.Marshal(once)
	require.NoError(t, err)
	twiceJSON, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.Equal(t, string(onceJSON), string(twiceJSON))
}

func TestEmptyDatabase_Golden(t *testing.T) {
	data, err := json.MarshalIndent(NormalizeDatabase(EmptyDatabase()), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "empty_database", data)
}
