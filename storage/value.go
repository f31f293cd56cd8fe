package storage

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Value encoding: 1-byte type tag followed by type-specific data.
//
//	tagNull      (0): no data
//	tagInteger   (1): 8 bytes int64 big-endian
//	tagText      (2): uint16 length + bytes
//	tagBoolean   (3): 1 byte (0=false, 1=true)
//	tagTimestamp (4): 8 bytes int64 unix-micro big-endian
//	tagDecimal   (5): 8 bytes float64 bits big-endian
const (
	tagNull      byte = 0
	tagInteger   byte = 1
	tagText      byte = 2
	tagBoolean   byte = 3
	tagTimestamp byte = 4
	tagDecimal   byte = 5
)

// encodeValue appends the binary encoding of v to buf.
func encodeValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case nil:
		return append(buf, tagNull)
	case int64:
		buf = append(buf, tagInteger)
		return binary.BigEndian.AppendUint64(buf, uint64(val))
	case string:
		buf = append(buf, tagText)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(val)))
		return append(buf, val...)
	case bool:
		buf = append(buf, tagBoolean)
		if val {
			return append(buf, 1)
		}
		return append(buf, 0)
	case time.Time:
		buf = append(buf, tagTimestamp)
		usec := val.UnixMicro()
		return binary.BigEndian.AppendUint64(buf, uint64(usec))
	case float64:
		buf = append(buf, tagDecimal)
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(val))
	default:
		return append(buf, tagNull)
	}
}

// decodeValue reads one value from data, returning the value and the
// remaining bytes.
func decodeValue(data []byte) (any, []byte, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("empty value data")
	}
	tag := data[0]
	data = data[1:]

	switch tag {
	case tagNull:
		return nil, data, nil
	case tagInteger:
		if len(data) < 8 {
			return nil, nil, fmt.Errorf("truncated integer value")
		}
		v := int64(binary.BigEndian.Uint64(data[:8]))
		return v, data[8:], nil
	case tagText:
		if len(data) < 2 {
			return nil, nil, fmt.Errorf("truncated text length")
		}
		n := binary.BigEndian.Uint16(data[:2])
		data = data[2:]
		if len(data) < int(n) {
			return nil, nil, fmt.Errorf("truncated text value")
		}
		return string(data[:n]), data[n:], nil
	case tagBoolean:
		if len(data) < 1 {
			return nil, nil, fmt.Errorf("truncated boolean value")
		}
		return data[0] != 0, data[1:], nil
	case tagTimestamp:
		if len(data) < 8 {
			return nil, nil, fmt.Errorf("truncated timestamp value")
		}
		usec := int64(binary.BigEndian.Uint64(data[:8]))
		return time.UnixMicro(usec).UTC(), data[8:], nil
	case tagDecimal:
		if len(data) < 8 {
			return nil, nil, fmt.Errorf("truncated decimal value")
		}
		bits := binary.BigEndian.Uint64(data[:8])
		return math.Float64frombits(bits), data[8:], nil
	default:
		return nil, nil, fmt.Errorf("unknown value tag %d", tag)
	}
}

// encodeString appends a uint16-length-prefixed string.
func encodeString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}

// decodeString reads a uint16-length-prefixed string.
func decodeString(data []byte) (string, []byte, error) {
	if len(data) < 2 {
		return "", nil, fmt.Errorf("truncated string length")
	}
	n := binary.BigEndian.Uint16(data[:2])
	data = data[2:]
	if len(data) < int(n) {
		return "", nil, fmt.Errorf("truncated string data")
	}
	return string(data[:n]), data[n:], nil
}

// EncodeRow serializes row as a count-prefixed sequence of (column
// name, value) pairs, in the order given by cols. A column named in
// cols but absent from row encodes as Null.
func EncodeRow(cols []string, row Row) []byte {
	buf := binary.BigEndian.AppendUint16(nil, uint16(len(cols)))
	for _, c := range cols {
		buf = encodeString(buf, c)
		buf = encodeValue(buf, row[c])
	}
	return buf
}

// DecodeRow reverses EncodeRow.
func DecodeRow(data []byte) (Row, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("truncated row column count")
	}
	count := binary.BigEndian.Uint16(data[:2])
	data = data[2:]

	row := make(Row, count)
	for i := uint16(0); i < count; i++ {
		var (
			name string
			val  any
			err  error
		)
		name, data, err = decodeString(data)
		if err != nil {
			return nil, fmt.Errorf("row column[%d] name: %w", i, err)
		}
		val, data, err = decodeValue(data)
		if err != nil {
			return nil, fmt.Errorf("row column %q: %w", name, err)
		}
		row[name] = val
	}
	return row, nil
}
