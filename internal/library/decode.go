package library

import (
	"math"
	"strconv"
)

// Lenient decoding of a parsed JSON value (any) into the typed database
// shape. The file on disk may carry legacy or damaged records: a
// wrong-typed field degrades to its zero value instead of failing the
// record, and a wrong-typed record is skipped instead of failing the file.
// The result is always passed through NormalizeDatabase, so decoding only
// has to be shape-tolerant, not canonical.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true"
	case float64:
		return val != 0
	}
	return false
}

// asFloat coerces numbers and number-ish strings. Anything else is NaN so
// the numeric normalizers can apply their fallback.
func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func asInt(v any, fallback int) int {
	return NormalizePositiveInt(asFloat(v), fallback)
}

func asStrings(v any) []string {
	raw := asSlice(v)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeRects(v any) []Rect {
	raw := asSlice(v)
	out := make([]Rect, 0, len(raw))
	for _, item := range raw {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		out = append(out, Rect{
			X: asFloat(m["x"]),
			Y: asFloat(m["y"]),
			W: asFloat(m["w"]),
			H: asFloat(m["h"]),
		})
	}
	return out
}

func decodeDocument(m map[string]any) Document {
	return Document{
		ID:                  asString(m["id"]),
		Title:               asString(m["title"]),
		FilePath:            asString(m["filePath"]),
		CreatedAt:           asString(m["createdAt"]),
		LastReadPageIndex:   asInt(m["lastReadPageIndex"], 0),
		MaxReadPageIndex:    asInt(m["maxReadPageIndex"], 0),
		LastReadTotalPages:  asInt(m["lastReadTotalPages"], 0),
		LastReadScale:       NormalizeScale(asFloat(m["lastReadScale"])),
		LastOpenedAt:        asString(m["lastOpenedAt"]),
		TotalReadingSeconds: asInt(m["totalReadingSeconds"], 0),
		CollectionID:        asString(m["collectionId"]),
		IsPinned:            asBool(m["isPinned"]),
	}
}

func decodeHighlight(m map[string]any) Highlight {
	return Highlight{
		ID:                 asString(m["id"]),
		DocumentID:         asString(m["documentId"]),
		PageIndex:          asInt(m["pageIndex"], 0),
		Rects:              decodeRects(m["rects"]),
		SelectedText:       asString(m["selectedText"]),
		SelectedRichText:   asString(m["selectedRichText"]),
		Color:              HighlightColor(asString(m["color"])),
		Note:               asString(m["note"]),
		Tags:               asStrings(m["tags"]),
		ReviewCount:        asInt(m["reviewCount"], 0),
		ReviewIntervalDays: asInt(m["reviewIntervalDays"], 0),
		LastReviewedAt:     asString(m["lastReviewedAt"]),
		NextReviewAt:       asString(m["nextReviewAt"]),
		ReviewLastGrade:    ReviewGrade(asString(m["reviewLastGrade"])),
		CreatedAt:          asString(m["createdAt"]),
	}
}

func decodeBookmark(m map[string]any) Bookmark {
	return Bookmark{
		ID:         asString(m["id"]),
		DocumentID: asString(m["documentId"]),
		PageIndex:  asInt(m["pageIndex"], 0),
		Label:      asString(m["label"]),
		CreatedAt:  asString(m["createdAt"]),
	}
}

func decodeCollection(m map[string]any) Collection {
	return Collection{
		ID:        asString(m["id"]),
		Name:      asString(m["name"]),
		CreatedAt: asString(m["createdAt"]),
	}
}

func decodeSettings(v any) Settings {
	m, ok := asMap(v)
	if !ok {
		return EmptyDatabase().Settings
	}
	s := Settings{
		Theme:     Theme(asString(m["theme"])),
		FocusMode: asBool(m["focusMode"]),
	}
	if goals, ok := asMap(m["goals"]); ok {
		s.Goals.PagesPerDay = asInt(goals["pagesPerDay"], 0)
		s.Goals.PagesPerWeek = asInt(goals["pagesPerWeek"], 0)
	}
	if updates, ok := asMap(m["updates"]); ok {
		s.Updates.ManifestURL = asString(updates["manifestUrl"])
		s.Updates.AutoCheck = asBool(updates["autoCheck"])
	}
	for _, item := range asSlice(m["savedHighlightQueries"]) {
		qm, ok := asMap(item)
		if !ok {
			continue
		}
		s.SavedHighlightQueries = append(s.SavedHighlightQueries, SavedQuery{
			ID:        asString(qm["id"]),
			Name:      asString(qm["name"]),
			Query:     asString(qm["query"]),
			CreatedAt: asString(qm["createdAt"]),
		})
	}
	return s
}

func decodeReadingLog(v any) ReadingLog {
	m, ok := asMap(v)
	if !ok {
		return ReadingLog{}
	}
	log := make(ReadingLog, len(m))
	for key, raw := range m {
		em, ok := asMap(raw)
		if !ok {
			continue
		}
		log[key] = LogEntry{
			Pages:   asInt(em["pages"], 0),
			Seconds: asInt(em["seconds"], 0),
		}
	}
	return log
}

// DecodeDatabase converts a parsed JSON value into the canonical database.
// The value must be an object at the top level; reportable corruption
// (non-object roots, unparseable bytes) is the persistence engine's
// concern, so ok=false only for that case.
func DecodeDatabase(v any) (Database, bool) {
	root, isObj := asMap(v)
	if !isObj {
		return Database{}, false
	}

	var db Database
	for _, item := range asSlice(root["documents"]) {
		if m, ok := asMap(item); ok {
			db.Documents = append(db.Documents, decodeDocument(m))
		}
	}
	for _, item := range asSlice(root["highlights"]) {
		if m, ok := asMap(item); ok {
			db.Highlights = append(db.Highlights, decodeHighlight(m))
		}
	}
	for _, item := range asSlice(root["bookmarks"]) {
		if m, ok := asMap(item); ok {
			db.Bookmarks = append(db.Bookmarks, decodeBookmark(m))
		}
	}
	for _, item := range asSlice(root["collections"]) {
		if m, ok := asMap(item); ok {
			db.Collections = append(db.Collections, decodeCollection(m))
		}
	}
	db.Settings = decodeSettings(root["settings"])
	db.ReadingLog = decodeReadingLog(root["readingLog"])

	return NormalizeDatabase(db), true
}
