package corpus

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kalkulator/blogbuilder/internal/markdown"
)

const (
	// DefaultExcerptLength is the excerpt budget in runes.
	DefaultExcerptLength = 160
	// WordsPerMinute is the reading speed behind ReadTime.
	WordsPerMinute = 200

	ellipsis = "..."
)

// Excerpt returns description when it fits in limit runes; otherwise the body's plain text
// cut at a word boundary and suffixed with "...", never longer than limit runes.
func Excerpt(description, body string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLength
	}
	if utf8.RuneCountInString(description) <= limit {
		return description
	}
	return Truncate(markdown.PlainText([]byte(body)), limit)
}

// Truncate shortens text to at most limit runes, preferring the last word boundary.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	budget := limit - utf8.RuneCountInString(ellipsis)
	if budget <= 0 {
		return string(runes[:limit])
	}

	cut := runes[:budget]
	// A cut that lands exactly before a space keeps the whole last word.
	if !unicode.IsSpace(runes[budget]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == ':'
	}) + ellipsis
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

// ReadTime estimates reading minutes for a markdown body, never less than one.
func ReadTime(body string) int {
	words := markdown.WordCount(markdown.PlainText([]byte(body)))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return max(1, minutes)
}
