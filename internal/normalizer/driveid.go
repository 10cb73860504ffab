package normalizer

import (
	"fmt"
	"strings"
)

// MinDriveIDLength is the shortest string accepted as a Drive file ID.
const MinDriveIDLength = 20

// ExtractDriveID returns the Google Drive file ID held by value.
//
// value may be a bare ID or a URL of the form .../d/<ID>/... or ...?id=<ID>&...
// The ID must be at least MinDriveIDLength characters of [A-Za-z0-9_-].
func ExtractDriveID(value string) (string, bool) {
	id := strings.TrimSpace(value)
	if id == "" {
		return "", false
	}

	if looksLikeURL(id) {
		switch {
		case strings.Contains(id, "/d/"):
			_, after, _ := strings.Cut(id, "/d/")
			id = cutAny(after, "/?#")
		case strings.Contains(id, "id="):
			_, after, _ := strings.Cut(id, "id=")
			id = cutAny(after, "&#")
		}
	}

	if !isValidDriveID(id) {
		return "", false
	}

	return id, true
}

// DriveViewURL builds the canonical viewer URL for a Drive file ID.
func DriveViewURL(id string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", id)
}

// ResolveAttachment returns the Drive ID of an attachment cell. The hyperlink
// is used when it holds a valid ID, otherwise the display text is tried.
func ResolveAttachment(c Cell) (string, bool) {
	if id, ok := ExtractDriveID(c.Link); ok {
		return id, true
	}

	return ExtractDriveID(c.Text)
}

func looksLikeURL(s string) bool {
	return strings.Contains(s, "://") || strings.Contains(s, "google.com")
}

func cutAny(s, chars string) string {
	if i := strings.IndexAny(s, chars); i >= 0 {
		return s[:i]
	}

	return s
}

func isValidDriveID(id string) bool {
	if len(id) < MinDriveIDLength {
		return false
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}

	return true
}
