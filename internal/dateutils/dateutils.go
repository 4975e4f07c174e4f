// Package dateutils provides the date parsing used by both pipelines.
package dateutils

import (
	"regexp"
	"strings"
	"time"
)

// Layouts tried in order when parsing a transaction date.
const (
	LayoutISO      = "2006-01-02"
	LayoutEuropean = "02.01.2006"
	LayoutSlash    = "02/01/2006"
)

// formats is the ordered chain of parse attempts: full ISO-8601 first,
// then the bare date shapes bank exports actually use.
var formats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	LayoutISO,
	LayoutEuropean,
	LayoutSlash,
}

var spaceRun = regexp.MustCompile(`\s+`)

// Parse attempts each known format in order. The boolean reports whether
// any format matched.
func Parse(dateStr string) (time.Time, bool) {
	dateStr = Clean(dateStr)
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Clean trims and collapses internal whitespace in a date string.
func Clean(dateStr string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
