package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeValueRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	cases := []any{
		nil,
		int64(42),
		"hello",
		true,
		false,
		3.14,
		ts,
	}

	for _, v := range cases {
		buf := encodeValue(nil, v)
		got, rest, err := decodeValue(buf)
		require.NoError(t, err)
		assert.Empty(t, rest)
		if ts, ok := v.(time.Time); ok {
			assert.True(t, ts.Equal(got.(time.Time)))
		} else {
			assert.Equal(t, v, got)
		}
	}
}

func TestDecodeValueTruncatedIsError(t *testing.T) {
	_, _, err := decodeValue([]byte{tagInteger, 1, 2})
	assert.Error(t, err)
}

func TestDecodeValueUnknownTagIsError(t *testing.T) {
	_, _, err := decodeValue([]byte{99})
	assert.Error(t, err)
}

func TestEncodeDecodeRowRoundTrip(t *testing.T) {
	cols := []string{"id", "name", "active"}
	row := Row{"id": int64(1), "name": "Alice", "active": true}

	encoded := EncodeRow(cols, row)
	decoded, err := DecodeRow(encoded)
	require.NoError(t, err)

	assert.Equal(t, row, decoded)
}

func TestEncodeRowMissingColumnEncodesNull(t *testing.T) {
	cols := []string{"id", "name"}
	row := Row{"id": int64(1)}

	encoded := EncodeRow(cols, row)
	decoded, err := DecodeRow(encoded)
	require.NoError(t, err)

	assert.Equal(t, int64(1), decoded["id"])
	assert.Nil(t, decoded["name"])
}
