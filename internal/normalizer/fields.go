package normalizer

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// M/D/YYYY or M-D-YYYY.
	reMonthFirstDate = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	// YYYY-M-D.
	reISODate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	// YYYYMMDD.
	reCompactDate = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
)

// SplitList splits a comma separated cell into trimmed, non-empty items.
// Order is preserved and duplicates are kept. The result is never nil.
func SplitList(value string) []string {
	items := []string{}

	for part := range strings.SplitSeq(value, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// NormalizeDate canonicalizes a release date to YYYY-MM-DD.
//
// The second return value is false when the value is not in a recognized
// shape; the trimmed input is then returned unchanged. An empty value is
// returned as "" and counts as recognized.
func NormalizeDate(value string) (string, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return "", true
	}

	if m := reMonthFirstDate.FindStringSubmatch(s); m != nil {
		return formatDate(m[3], m[1], m[2]), true
	}

	if m := reISODate.FindStringSubmatch(s); m != nil {
		return formatDate(m[1], m[2], m[3]), true
	}

	if m := reCompactDate.FindStringSubmatch(s); m != nil {
		return formatDate(m[1], m[2], m[3]), true
	}

	return s, false
}

func formatDate(year, month, day string) string {
	return fmt.Sprintf("%s-%s-%s", year, zeroPad(month), zeroPad(day))
}

func zeroPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}

	return s
}

// ResolveLink prefers the hyperlink behind a cell over its display text.
func ResolveLink(c Cell) string {
	if link := strings.TrimSpace(c.Link); link != "" {
		return link
	}

	return strings.TrimSpace(c.Text)
}
