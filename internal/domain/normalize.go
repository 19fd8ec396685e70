package domain

import (
	"strings"
)

// NormalizeWord prepares one line of a word-list file for upload:
//   - strips carriage returns
//   - replaces double and single quotes with a backtick
//   - trims surrounding whitespace
//   - converts to lowercase
//
// An empty result means the line carries no word.
func NormalizeWord(line string) string {
	line = strings.ReplaceAll(line, "\r", "")
	line = strings.NewReplacer(`"`, "`", `'`, "`").Replace(line)
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return strings.ToLower(line)
}

// NormalizeSearch prepares free-text search input for a prefix filter.
func NormalizeSearch(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
