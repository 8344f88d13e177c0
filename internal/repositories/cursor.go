package repository

import (
	"encoding/base64"
	"time"
)

// A cursor opaquely encodes the created_at of the last task on the previous
// page. Clients must not depend on the encoding.
func encodeCursor(t time.Time) string {
	return base64.StdEncoding.EncodeToString([]byte(t.UTC().Format(time.RFC3339Nano)))
}

// decodeCursor reports ok=false for malformed cursors; listing then degrades
// to the first page instead of failing.
func decodeCursor(cursor string) (time.Time, bool) {
	if cursor == "" {
		return time.Time{}, false
	}

	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
