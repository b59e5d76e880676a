package library

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var wsRun = regexp.MustCompile(`\s+`)

// NormalizeText collapses internal whitespace runs to single spaces and trims.
func NormalizeText(s string) string {
	return strings.TrimSpace(wsRun.ReplaceAllString(s, " "))
}

var (
	// Zero-width characters and the BOM that PDF extraction leaves behind.
	invisibleChars = strings.NewReplacer(
		"​", "", // zero-width space
		"‌", "", // zero-width non-joiner
		"‍", "", // zero-width joiner
		"\uFEFF", "", // BOM / zero-width no-break space
	)

	// Soft hyphen, optionally followed by a line break: the word continues.
	softHyphenBreak = regexp.MustCompile("­[\r\n]*")

	// Explicit hyphen at a line wrap: "cam-\nera" -> "camera".
	hyphenWrap = regexp.MustCompile(`(\p{L})-[\r\n]+(\p{L})`)

	// A word broken across a wrap onto a Cyrillic capital: some fonts make
	// PDF extractors emit the continuation with a capital glyph, as in
	// "сло\nВо". Rejoin and lower the stray capital.
	cyrillicBreak = regexp.MustCompile(`(\p{Ll})[\r\n]+([\x{0410}-\x{042F}\x{0401}])(\p{Ll})`)

	spaceBeforePunct = regexp.MustCompile(`\s+([.,;:!?)\]»])`)
	spaceAfterOpen   = regexp.MustCompile(`([(\[«])\s+`)
)

// RepairExtractedText repairs text coming straight out of PDF extraction
// before normal whitespace normalization. Raw extraction routinely inserts
// soft hyphens, spurious breaks and non-breaking spaces that make a
// highlight unreadable.
func RepairExtractedText(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = invisibleChars.Replace(s)
	s = strings.ReplaceAll(s, " ", " ")
	s = softHyphenBreak.ReplaceAllString(s, "")
	s = hyphenWrap.ReplaceAllString(s, "$1$2")
	s = cyrillicBreak.ReplaceAllStringFunc(s, func(m string) string {
		sub := cyrillicBreak.FindStringSubmatch(m)
		return sub[1] + strings.ToLower(sub[2]) + sub[3]
	})
	s = NormalizeText(s)
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = spaceAfterOpen.ReplaceAllString(s, "$1")
	return s
}

var (
	blockBoundary = regexp.MustCompile(`(?i)<\s*(?:br\s*/?|/p|/div)\s*>`)
	anyTag        = regexp.MustCompile(`<[^>]*>`)

	htmlEntities = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
	)
)

// StripRichText converts constrained HTML-like rich text to plain text:
// paragraph/div/br boundaries become newlines, every other tag is dropped,
// a fixed set of entities is decoded, then the result is repaired like any
// extracted highlight text.
func StripRichText(s string) string {
	if s == "" {
		return ""
	}
	s = blockBoundary.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = htmlEntities.Replace(s)
	return RepairExtractedText(s)
}
