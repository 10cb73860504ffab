package utils

import (
	"strings"
	"unicode"
)

// Slugify converts text into a lowercase, file-name safe identifier.
//
// Letters, digits, underscores, whitespace and hyphens are kept (Unicode
// aware, so non-Latin titles survive); everything else is dropped. Runs of
// whitespace and hyphens collapse into one hyphen, and leading or trailing
// hyphens are trimmed.
func Slugify(text string) string {
	var sb strings.Builder

	pendingSep := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r) || r == '-':
			pendingSep = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('-')
			}

			pendingSep = false

			sb.WriteRune(r)
		}
	}

	return sb.String()
}
