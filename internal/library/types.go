package library

// HighlightColor is the fixed palette for highlight markers.
type HighlightColor string

const (
	ColorYellow HighlightColor = "yellow"
	ColorGreen  HighlightColor = "green"
	ColorPink   HighlightColor = "pink"
)

// ReviewGrade is the spaced-repetition grade assigned at review time.
type ReviewGrade string

const (
	GradeHard ReviewGrade = "hard"
	GradeGood ReviewGrade = "good"
	GradeEasy ReviewGrade = "easy"
)

// Theme is the reader color theme.
type Theme string

const (
	ThemeLight    Theme = "light"
	ThemeSepia    Theme = "sepia"
	ThemeContrast Theme = "contrast"
)

// Limits applied during normalization.
const (
	MaxRichTextLen       = 24000
	MaxTagLen            = 40
	MaxCollectionNameLen = 80
	MaxQueryNameLen      = 80
	MaxQueryLen          = 320
	MaxSavedQueries      = 30

	// MinScale is the floor for a valid render scale; anything below is unset.
	MinScale = 0.1
)

// Document is a tracked PDF file. The ID is the sha-256 of the file bytes,
// so identical content always maps to the same document.
//
// Optional scalars use the zero value for "unset": a valid scale is >= 0.1
// and a valid total-pages count is >= 1, so zero is unambiguous.
type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	FilePath  string `json:"filePath"`
	CreatedAt string `json:"createdAt"`

	LastReadPageIndex  int     `json:"lastReadPageIndex"`
	MaxReadPageIndex   int     `json:"maxReadPageIndex"`
	LastReadTotalPages int     `json:"lastReadTotalPages,omitempty"`
	LastReadScale      float64 `json:"lastReadScale,omitempty"`
	LastOpenedAt       string  `json:"lastOpenedAt,omitempty"`

	TotalReadingSeconds int    `json:"totalReadingSeconds"`
	CollectionID        string `json:"collectionId,omitempty"`
	IsPinned            bool   `json:"isPinned"`

	// Derived at read time from the highlight/bookmark lists.
	// Normalization clears both so they are never persisted.
	HighlightsCount int `json:"highlightsCount,omitempty"`
	BookmarksCount  int `json:"bookmarksCount,omitempty"`
}

// Rect is a selection rectangle normalized to page coordinates in [0,1].
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Highlight is a saved text selection inside a document.
// A highlight is only valid with non-empty SelectedText and at least one
// rectangle of non-zero area.
type Highlight struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	PageIndex  int    `json:"pageIndex"`
	Rects      []Rect `json:"rects"`

	SelectedText     string         `json:"selectedText"`
	SelectedRichText string         `json:"selectedRichText,omitempty"`
	Color            HighlightColor `json:"color"`
	Note             string         `json:"note,omitempty"`
	Tags             []string       `json:"tags,omitempty"`

	ReviewCount        int         `json:"reviewCount"`
	ReviewIntervalDays int         `json:"reviewIntervalDays"`
	LastReviewedAt     string      `json:"lastReviewedAt,omitempty"`
	NextReviewAt       string      `json:"nextReviewAt,omitempty"`
	ReviewLastGrade    ReviewGrade `json:"reviewLastGrade,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// Bookmark marks a page in a document.
type Bookmark struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	PageIndex  int    `json:"pageIndex"`
	Label      string `json:"label,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// Collection groups documents. Names are unique case-insensitively.
type Collection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// Goals holds daily/weekly reading targets.
type Goals struct {
	PagesPerDay  int `json:"pagesPerDay"`
	PagesPerWeek int `json:"pagesPerWeek"`
}

// Updates holds update-check settings. ManifestURL is empty or a valid
// http(s) URL; the environment default applies when empty.
type Updates struct {
	ManifestURL string `json:"manifestUrl"`
	AutoCheck   bool   `json:"autoCheck"`
}

// SavedQuery is a stored highlight-search preset.
type SavedQuery struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Query     string `json:"query"`
	CreatedAt string `json:"createdAt"`
}

// Settings is the singleton user-settings record.
type Settings struct {
	Theme                 Theme        `json:"theme"`
	FocusMode             bool         `json:"focusMode"`
	Goals                 Goals        `json:"goals"`
	Updates               Updates      `json:"updates"`
	SavedHighlightQueries []SavedQuery `json:"savedHighlightQueries"`
}

// LogEntry accumulates reading activity for one calendar day.
type LogEntry struct {
	Pages   int `json:"pages"`
	Seconds int `json:"seconds"`
}

// ReadingLog maps YYYY-MM-DD date keys to accumulated activity.
type ReadingLog map[string]LogEntry

// Database is the whole canonical database value: everything the store
// persists lives in this one shape.
type Database struct {
	Documents   []Document   `json:"documents"`
	Highlights  []Highlight  `json:"highlights"`
	Bookmarks   []Bookmark   `json:"bookmarks"`
	Collections []Collection `json:"collections"`
	Settings    Settings     `json:"settings"`
	ReadingLog  ReadingLog   `json:"readingLog"`
}

// DefaultGoals are the default-backed reading targets.
var DefaultGoals = Goals{PagesPerDay: 10, PagesPerWeek: 50}

// EmptyDatabase returns the canonical empty database shape.
func EmptyDatabase() Database {
	return Database{
		Documents:   []Document{},
		Highlights:  []Highlight{},
		Bookmarks:   []Bookmark{},
		Collections: []Collection{},
		Settings: Settings{
			Theme:                 ThemeLight,
			Goals:                 DefaultGoals,
			SavedHighlightQueries: []SavedQuery{},
		},
		ReadingLog: ReadingLog{},
	}
}
