// Package storage holds the data types shared by the index, the WAL,
// and the SQL engine: column/schema definitions and the tagged-scalar
// Value encoding used for every row persisted under a key.
package storage

// DataType identifies a column's declared SQL type.
type DataType uint8

const (
	TypeInteger DataType = iota
	TypeVarchar
	TypeDecimal
	TypeBoolean
	TypeTimestamp
)

func (d DataType) String() string {
	switch d {
	case TypeInteger:
		return "INTEGER"
	case TypeVarchar:
		return "VARCHAR"
	case TypeDecimal:
		return "DECIMAL"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// ColumnDef describes one column of a table. Length, Precision and
// Scale are nominal-only: VARCHAR(n) and DECIMAL(10,2) track their
// declared size but nothing in this system enforces it at write time.
type ColumnDef struct {
	Name       string
	DataType   DataType
	Length     int
	Precision  int
	Scale      int
	Nullable   bool
	PrimaryKey bool
}

// TableSchema is the name plus ordered column list of a table. Schemas
// live only in memory and are rebuilt from the WAL on every startup.
type TableSchema struct {
	Name    string
	Columns []ColumnDef
}

// Row is a mapping from column name to a tagged scalar value. A column
// absent from the map renders as NULL on read-back.
type Row map[string]any
