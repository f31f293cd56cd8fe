package sqlengine

import (
	"fmt"
	"strconv"
	"time"

	"ridgedb/parser"
	"ridgedb/storage"
)

// convertDataType maps the parser's raw column-type keyword to a
// storage.DataType. Anything else fails at CREATE TABLE time, per the
// type conversion rule: "All others fail."
func convertDataType(name string) (storage.DataType, error) {
	switch name {
	case "INTEGER":
		return storage.TypeInteger, nil
	case "VARCHAR":
		return storage.TypeVarchar, nil
	case "DECIMAL":
		return storage.TypeDecimal, nil
	case "BOOLEAN":
		return storage.TypeBoolean, nil
	case "TIMESTAMP":
		return storage.TypeTimestamp, nil
	default:
		return 0, fmt.Errorf("unsupported data type %q", name)
	}
}

func buildSchema(stmt *parser.CreateTableStmt) (*storage.TableSchema, error) {
	cols := make([]storage.ColumnDef, len(stmt.Columns))
	for i, c := range stmt.Columns {
		dt, err := convertDataType(c.DataType)
		if err != nil {
			return nil, &storage.SchemaError{Detail: err.Error()}
		}
		length := c.Length
		precision, scale := 0, 0
		if dt == storage.TypeVarchar && length == 0 {
			length = 255
		}
		if dt == storage.TypeDecimal {
			precision, scale = 10, 2
		}
		cols[i] = storage.ColumnDef{
			Name:       c.Name,
			DataType:   dt,
			Length:     length,
			Precision:  precision,
			Scale:      scale,
			Nullable:   c.Nullable,
			PrimaryKey: c.PrimaryKey,
		}
	}
	return &storage.TableSchema{Name: stmt.Name, Columns: cols}, nil
}

// literalValue converts a parsed literal expression into the Go value
// representation a storage.Row holds for it. When col is non-nil and
// declares TIMESTAMP, a string literal is parsed as a timestamp rather
// than stored as Varchar text.
func literalValue(e parser.Expr, col *storage.ColumnDef) (any, error) {
	switch lit := e.(type) {
	case *parser.IntegerLit:
		return lit.Value, nil
	case *parser.DecimalLit:
		return lit.Value, nil
	case *parser.BoolLit:
		return lit.Value, nil
	case *parser.NullLit:
		return nil, nil
	case *parser.StringLit:
		if col != nil && col.DataType == storage.TypeTimestamp {
			t, err := storage.ParseTimestamp(lit.Value)
			if err != nil {
				return nil, err
			}
			return t, nil
		}
		return lit.Value, nil
	default:
		return nil, fmt.Errorf("unsupported literal expression %T", e)
	}
}

// stringifyKeyValue renders a primary-key value as the stable string
// suffix used to build the index key.
func stringifyKeyValue(v any) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func columnByName(schema *storage.TableSchema, name string) *storage.ColumnDef {
	for i := range schema.Columns {
		if schema.Columns[i].Name == name {
			return &schema.Columns[i]
		}
	}
	return nil
}
