package storage

import (
	"fmt"
	"time"
)

// timestampFormats lists the accepted input formats for TIMESTAMP values,
// tried in order. All parsed times are converted to UTC.
var timestampFormats = []string{
	"2006-01-02 15:04:05.999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s into a time.Time in UTC, trying each of
// timestampFormats in turn.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
