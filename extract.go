package linkopp

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SnippetContext is the number of characters a snippet may use beyond the
// length of its anchor.
const SnippetContext = 40

const (
	emOpen  = "<em>"
	emClose = "</em>"
)

// tagRe matches an HTML-like tag, or an unterminated one running to the end
// of the text.
var tagRe = regexp.MustCompile(`</?[^>]+(>|$)`)

// Extract builds the Opportunity presented for row.
func Extract(row *Row) *Opportunity {
	anchor := row.Anchor
	if anchor == "" {
		anchor = ExtractAnchor(row.MatchingText)
	}

	typ := row.Type
	if typ == "" {
		typ = DefaultType
	}

	return &Opportunity{
		Target:          row.TargetPageURL,
		Accepted:        row.Status,
		Anchor:          anchor,
		MatchedSentence: Snippet(row.MatchingText, SnippetContext+utf8.RuneCountInString(anchor)),
		Status:          row.InjectionStatus,
		Type:            typ,
		ID:              RowID(row),
	}
}

// RowID returns the explicit row ID, or derives one from the row's source
// page, target page and explicit anchor.
func RowID(row *Row) string {
	if row.ID != "" {
		return row.ID
	}
	sum := md5.Sum([]byte(row.SourcePageURL + row.TargetPageURL + row.Anchor))
	return hex.EncodeToString(sum[:])
}

// ExtractAnchor returns the tag-stripped text between the first <em> and the
// first </em> of text. Markers are matched case-sensitively. Returns an empty
// string if either marker is missing. When </em> comes first, the text
// between the two markers is used all the same.
func ExtractAnchor(text string) string {
	start := strings.Index(text, emOpen)
	end := strings.Index(text, emClose)
	if start == -1 || end == -1 {
		return ""
	}
	if end < start+len(emOpen) {
		return StripTags(text[end : start+len(emOpen)])
	}
	return StripTags(text[start+len(emOpen) : end])
}

// StripTags removes every HTML-like tag from s.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// Snippet returns the sentences around the emphasized span of text, limited
// to roughly limit characters, with tags stripped.
//
// Sentences are delimited by '.' only. The widest of previous+current+next,
// previous+current and current+next that fits within limit wins; the
// current sentence alone is returned when none fit. Without an emphasized
// span the whole text is returned.
func Snippet(text string, limit int) string {
	return StripTags(limitedSnippet(text, limit))
}

func limitedSnippet(text string, limit int) string {
	// Markers are located case-insensitively here, unlike ExtractAnchor.
	lower := asciiLower(text)
	emStart := strings.Index(lower, emOpen)
	if emStart == -1 {
		return text
	}
	closeAt := strings.Index(lower[emStart:], emClose)
	if closeAt == -1 {
		return text
	}
	emEnd := emStart + closeAt + len(emClose)

	start := lastDot(text, emStart) + 1
	end := sentenceEnd(text, emEnd)
	prevStart := lastDot(text, start-2) + 1
	nextEnd := sentenceEnd(text, end)

	prev, cur, next := text[prevStart:start], text[start:end], text[end:nextEnd]
	for _, candidate := range []string{prev + cur + next, prev + cur, cur + next} {
		if utf8.RuneCountInString(candidate) <= limit {
			return strings.TrimSpace(candidate)
		}
	}
	return strings.TrimSpace(cur)
}

// lastDot returns the index of the last '.' at or before from, or -1.
// A negative from is treated as 0.
func lastDot(s string, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= len(s) {
		from = len(s) - 1
	}
	if from < 0 {
		return -1
	}
	return strings.LastIndexByte(s[:from+1], '.')
}

// sentenceEnd returns the index just past the first '.' at or after from,
// or len(s) if there is none.
func sentenceEnd(s string, from int) int {
	if from >= len(s) {
		return len(s)
	}
	i := strings.IndexByte(s[from:], '.')
	if i == -1 {
		return len(s)
	}
	return from + i + 1
}

// asciiLower lowercases ASCII letters only, so byte offsets into the result
// are valid offsets into s.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
