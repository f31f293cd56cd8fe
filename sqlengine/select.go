package sqlengine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ridgedb/parser"
	"ridgedb/storage"
)

// execSelect looks up the schema, prefix-scans the index for the
// table's rows, and formats them as a tab-separated text table.
// WHERE and ORDER BY are parsed but evaluated as identity — an
// explicit, current limitation of this engine, not invented
// semantics. LIMIT, when a bare integer literal, does truncate the
// result set, since that is the one clause the dispatch table asks to
// actually apply.
func (e *Engine) execSelect(s *parser.SelectStmt) (string, error) {
	schema, ok := e.tables[s.From]
	if !ok {
		return "", &storage.TableNotFoundError{Name: s.From}
	}

	cols, err := selectedColumns(s.Columns, schema)
	if err != nil {
		return "", err
	}

	keys := e.index.ScanPrefix(s.From + ":")
	rows := make([]storage.Row, 0, len(keys))
	for _, k := range keys {
		data, ok := e.index.Get(k)
		if !ok {
			continue
		}
		row, err := storage.DecodeRow(data)
		if err != nil {
			return "", &storage.StorageError{Detail: fmt.Sprintf("decoding row %q", k), Err: err}
		}
		rows = append(rows, row)
	}

	// Filter (identity) and ORDER BY (identity) intentionally do
	// nothing to rows here: s.Where and s.OrderBy are parsed and
	// available, but this engine does not yet evaluate them.

	if s.Limit != nil && *s.Limit >= 0 && *s.Limit < int64(len(rows)) {
		rows = rows[:*s.Limit]
	}

	return formatTable(cols, rows), nil
}

func selectedColumns(exprs []parser.Expr, schema *storage.TableSchema) ([]string, error) {
	if len(exprs) == 1 {
		if _, ok := exprs[0].(*parser.StarExpr); ok {
			return schemaColumnNames(schema), nil
		}
	}
	cols := make([]string, len(exprs))
	for i, e := range exprs {
		ref, ok := e.(*parser.ColumnRef)
		if !ok {
			return nil, &storage.ParseError{Detail: "SELECT projection must be * or column names"}
		}
		cols[i] = ref.Name
	}
	return cols, nil
}

func formatTable(cols []string, rows []storage.Row) string {
	var b strings.Builder

	b.WriteString(strings.Join(cols, "\t"))
	b.WriteByte('\n')

	dashes := make([]string, len(cols))
	for i, c := range cols {
		dashes[i] = strings.Repeat("-", len(c))
	}
	b.WriteString(strings.Join(dashes, "\t"))
	b.WriteByte('\n')

	for _, row := range rows {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = formatValue(row[c])
		}
		b.WriteString(strings.Join(vals, "\t"))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "(%d rows)", len(rows))
	return b.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
