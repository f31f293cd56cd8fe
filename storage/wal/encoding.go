package wal

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ridgedb/storage"
)

// encodeEntry serializes an Entry's id, timestamp, op tag and payload.
// Layout: [16 bytes id][8 bytes unix-nano timestamp][1 byte op][payload].
func encodeEntry(e Entry) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, e.ID[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(e.Timestamp.UnixNano()))
	buf = append(buf, byte(e.Op))

	switch e.Op {
	case OpCreateTable:
		buf = encodeSchema(buf, e.Schema)
	case OpInsert:
		buf = encodeString(buf, e.Table)
		buf = encodeString(buf, e.Key)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(e.RowData)))
		buf = append(buf, e.RowData...)
	}
	return buf
}

func decodeEntry(data []byte) (Entry, error) {
	if len(data) < 16+8+1 {
		return Entry{}, fmt.Errorf("truncated entry header")
	}
	var e Entry
	copy(e.ID[:], data[:16])
	data = data[16:]

	nanos := int64(binary.BigEndian.Uint64(data[:8]))
	e.Timestamp = time.Unix(0, nanos).UTC()
	data = data[8:]

	e.Op = OpType(data[0])
	data = data[1:]

	var err error
	switch e.Op {
	case OpCreateTable:
		e.Schema, data, err = decodeSchema(data)
		if err != nil {
			return Entry{}, fmt.Errorf("create-table payload: %w", err)
		}
	case OpInsert:
		e.Table, data, err = decodeString(data)
		if err != nil {
			return Entry{}, fmt.Errorf("insert table: %w", err)
		}
		e.Key, data, err = decodeString(data)
		if err != nil {
			return Entry{}, fmt.Errorf("insert key: %w", err)
		}
		if len(data) < 4 {
			return Entry{}, fmt.Errorf("truncated row length")
		}
		n := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		if uint32(len(data)) < n {
			return Entry{}, fmt.Errorf("truncated row data")
		}
		e.RowData = append([]byte(nil), data[:n]...)
	default:
		return Entry{}, fmt.Errorf("unknown WAL op tag %d", e.Op)
	}
	return e, nil
}

// encodeSchema appends a TableSchema: name, then column count, then
// each column's name/type/length/precision/scale/nullable/primary-key.
func encodeSchema(buf []byte, s *storage.TableSchema) []byte {
	buf = encodeString(buf, s.Name)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s.Columns)))
	for _, c := range s.Columns {
		buf = encodeString(buf, c.Name)
		buf = append(buf, byte(c.DataType))
		buf = binary.BigEndian.AppendUint32(buf, uint32(c.Length))
		buf = append(buf, byte(c.Precision), byte(c.Scale))
		buf = append(buf, boolByte(c.Nullable), boolByte(c.PrimaryKey))
	}
	return buf
}

func decodeSchema(data []byte) (*storage.TableSchema, []byte, error) {
	name, data, err := decodeString(data)
	if err != nil {
		return nil, nil, fmt.Errorf("schema name: %w", err)
	}
	if len(data) < 2 {
		return nil, nil, fmt.Errorf("truncated column count")
	}
	count := binary.BigEndian.Uint16(data[:2])
	data = data[2:]

	cols := make([]storage.ColumnDef, count)
	for i := range cols {
		var colName string
		colName, data, err = decodeString(data)
		if err != nil {
			return nil, nil, fmt.Errorf("column[%d] name: %w", i, err)
		}
		if len(data) < 1+4+1+1+1+1 {
			return nil, nil, fmt.Errorf("truncated column[%d] body", i)
		}
		dt := storage.DataType(data[0])
		data = data[1:]
		length := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		precision := data[0]
		scale := data[1]
		nullable := data[2] != 0
		primaryKey := data[3] != 0
		data = data[4:]

		cols[i] = storage.ColumnDef{
			Name:       colName,
			DataType:   dt,
			Length:     int(length),
			Precision:  int(precision),
			Scale:      int(scale),
			Nullable:   nullable,
			PrimaryKey: primaryKey,
		}
	}
	return &storage.TableSchema{Name: name, Columns: cols}, data, nil
}

func encodeString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}

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

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// NewID generates a fresh random 128-bit entry id.
func NewID() uuid.UUID {
	return uuid.New()
}
