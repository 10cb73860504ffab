// Package fingerprint computes content digests used for change detection.
//
// A fingerprint is a comparison key, not an integrity check: equal inputs
// always produce equal fingerprints, and any change to a cell or link
// produces a different one.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"sheetsync/internal/models"
)

// Records computes the fingerprint of an ordered record sequence.
//
// Each record is encoded as {"cells":{...},"links":{...}}; encoding/json
// writes map keys in sorted order so the encoding is deterministic. Row
// numbers are not part of the fingerprint.
func Records(records []models.RawRecord) (string, error) {
	canonical := make([]models.RawRecord, len(records))

	for i, rec := range records {
		canonical[i] = models.RawRecord{
			Cells: nonNil(rec.Cells),
			Links: nonNil(rec.Links),
		}
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(canonical); err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}

	return Bytes(buf.Bytes()), nil
}

// Bytes computes the hex-encoded SHA-256 digest of data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// Short returns the first 12 characters of a fingerprint for log output.
func Short(fp string) string {
	if len(fp) <= 12 {
		return fp
	}

	return fp[:12]
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}
