// Package sqlengine ties parsing, the schema catalog, WAL durability,
// and index mutation into the single atomic-per-statement pipeline
// described for the core SQL engine: parse, derive WAL record(s),
// append+fsync, mutate storage, return.
package sqlengine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ridgedb/parser"
	"ridgedb/storage"
	"ridgedb/storage/index"
	"ridgedb/storage/wal"
)

// Engine owns the in-memory schema catalog and drives the index and
// WAL directly. The catalog is never persisted on its own — it is a
// deterministic projection of the WAL, rebuilt by ApplyEntry during
// replay.
type Engine struct {
	tables map[string]*storage.TableSchema
	index  *index.BTree
	log    *wal.WAL
}

// New constructs an Engine over an already-open index and WAL. The
// caller (the db façade) is responsible for replaying the WAL into
// both before serving statements.
func New(idx *index.BTree, log *wal.WAL) *Engine {
	return &Engine{
		tables: make(map[string]*storage.TableSchema),
		index:  idx,
		log:    log,
	}
}

// ApplyEntry re-executes a replayed WAL entry against the in-memory
// catalog and index: CreateTable populates the catalog (no tree
// mutation); Insert writes directly into the index. This is the
// apply_wal_entry contract, realized at the engine layer — which
// already owns both the catalog and the index handle — rather than as
// a storage/index method, so storage/index never needs to import
// storage/wal.
func (e *Engine) ApplyEntry(entry wal.Entry) error {
	switch entry.Op {
	case wal.OpCreateTable:
		if entry.Schema == nil {
			return fmt.Errorf("create-table entry missing schema")
		}
		e.tables[entry.Schema.Name] = entry.Schema
		return nil
	case wal.OpInsert:
		e.index.Insert(entry.Key, entry.RowData)
		return nil
	default:
		return fmt.Errorf("unknown WAL op %d during replay", entry.Op)
	}
}

// Execute parses one SQL statement and dispatches it, returning the
// formatted result text.
func (e *Engine) Execute(sql string) (string, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return "", &storage.ParseError{Detail: err.Error()}
	}

	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return e.execCreateTable(s)
	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect(s)
	default:
		return "", &storage.UnsupportedStatementError{}
	}
}

func (e *Engine) execCreateTable(s *parser.CreateTableStmt) (string, error) {
	if _, exists := e.tables[s.Name]; exists {
		return "", &storage.TableExistsError{Name: s.Name}
	}
	schema, err := buildSchema(s)
	if err != nil {
		return "", err
	}

	entry := wal.Entry{ID: uuid.New(), Timestamp: time.Now().UTC(), Op: wal.OpCreateTable, Schema: schema}
	if err := e.log.Append(entry); err != nil {
		return "", &storage.DurabilityError{Op: "CREATE TABLE", Err: err}
	}

	e.tables[s.Name] = schema
	return fmt.Sprintf("Table '%s' created successfully", s.Name), nil
}

func (e *Engine) execInsert(s *parser.InsertStmt) (string, error) {
	schema, ok := e.tables[s.Table]
	if !ok {
		return "", &storage.TableNotFoundError{Name: s.Table}
	}

	cols := s.Columns
	if cols == nil {
		cols = make([]string, len(schema.Columns))
		for i, c := range schema.Columns {
			cols[i] = c.Name
		}
	}

	var entries []wal.Entry
	for _, tuple := range s.Values {
		if len(tuple) > len(cols) {
			return "", &storage.SchemaError{Detail: fmt.Sprintf(
				"INSERT has more values (%d) than columns (%d)", len(tuple), len(cols))}
		}

		row := make(storage.Row, len(tuple))
		for i, expr := range tuple {
			col := columnByName(schema, cols[i])
			val, err := literalValue(expr, col)
			if err != nil {
				return "", &storage.ParseError{Detail: err.Error()}
			}
			row[cols[i]] = val
		}

		key := deriveKey(s.Table, schema, row)
		rowData := storage.EncodeRow(schemaColumnNames(schema), row)

		entries = append(entries, wal.Entry{ID: uuid.New(), Timestamp: time.Now().UTC(), Op: wal.OpInsert, Table: s.Table, Key: key, RowData: rowData})
	}

	for _, entry := range entries {
		if err := e.log.Append(entry); err != nil {
			return "", &storage.DurabilityError{Op: "INSERT", Err: err}
		}
	}
	for _, entry := range entries {
		e.index.Insert(entry.Key, entry.RowData)
	}

	return fmt.Sprintf("%d row(s) inserted", len(entries)), nil
}

// deriveKey implements the key-derivation rule from the data model:
// the first declared primary-key column whose value is present in row
// supplies the suffix; otherwise a fresh uuid does.
func deriveKey(table string, schema *storage.TableSchema, row storage.Row) string {
	for _, c := range schema.Columns {
		if !c.PrimaryKey {
			continue
		}
		if v, ok := row[c.Name]; ok && v != nil {
			return table + ":" + stringifyKeyValue(v)
		}
	}
	return table + ":" + uuid.New().String()
}

func schemaColumnNames(schema *storage.TableSchema) []string {
	names := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		names[i] = c.Name
	}
	return names
}

// ShouldCheckpoint exposes the index's operation counter so the
// façade can decide when to snapshot and truncate the WAL.
func (e *Engine) ShouldCheckpoint() bool {
	return e.index.ShouldCheckpoint()
}

// ResetOperationCount clears the index's operation counter, normally
// called right after a checkpoint snapshot is written.
func (e *Engine) ResetOperationCount() {
	e.index.ResetOperationCount()
}
