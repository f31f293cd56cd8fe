package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampAcceptsRFC3339(t *testing.T) {
	ts, err := ParseTimestamp("2026-03-05T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
}

func TestParseTimestampAcceptsDateOnly(t *testing.T) {
	ts, err := ParseTimestamp("2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, 3, int(ts.Month()))
	assert.Equal(t, 5, ts.Day())
}

func TestParseTimestampAcceptsSpaceSeparated(t *testing.T) {
	ts, err := ParseTimestamp("2026-03-05 12:30:00")
	require.NoError(t, err)
	assert.Equal(t, 12, ts.Hour())
	assert.Equal(t, 30, ts.Minute())
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp("not a timestamp")
	assert.Error(t, err)
}
