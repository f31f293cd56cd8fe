package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(100), bio VARCHAR, active BOOLEAN NULL)")
	require.NoError(t, err)

	ct, ok := stmt.(*CreateTableStmt)
	require.True(t, ok)
	assert.Equal(t, "users", ct.Name)
	require.Len(t, ct.Columns, 4)

	assert.Equal(t, ColumnDef{Name: "id", DataType: "INTEGER", PrimaryKey: true}, ct.Columns[0])
	assert.Equal(t, ColumnDef{Name: "name", DataType: "VARCHAR", Length: 100}, ct.Columns[1])
	assert.Equal(t, ColumnDef{Name: "bio", DataType: "VARCHAR", Length: 255}, ct.Columns[2])
	assert.Equal(t, ColumnDef{Name: "active", DataType: "BOOLEAN", Nullable: true}, ct.Columns[3])
}

func TestParseCreateTableDecimalWithScale(t *testing.T) {
	stmt, err := Parse("CREATE TABLE prices (amount DECIMAL(10,2))")
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	assert.Equal(t, "DECIMAL", ct.Columns[0].DataType)
}

func TestParseCreateTableRejectsUnknownType(t *testing.T) {
	_, err := Parse("CREATE TABLE t (x FROBNICATE)")
	assert.Error(t, err)
}

func TestParseInsertWithColumnsMultiRow(t *testing.T) {
	stmt, err := Parse("INSERT INTO users (id, name) VALUES (1, 'Alice'), (2, 'Bob')")
	require.NoError(t, err)

	ins, ok := stmt.(*InsertStmt)
	require.True(t, ok)
	assert.Equal(t, "users", ins.Table)
	assert.Equal(t, []string{"id", "name"}, ins.Columns)
	require.Len(t, ins.Values, 2)
	assert.Equal(t, &IntegerLit{Value: 1}, ins.Values[0][0])
	assert.Equal(t, &StringLit{Value: "Alice"}, ins.Values[0][1])
	assert.Equal(t, &IntegerLit{Value: 2}, ins.Values[1][0])
}

func TestParseInsertWithoutColumnList(t *testing.T) {
	stmt, err := Parse("INSERT INTO t VALUES (1, 2.5, TRUE, NULL)")
	require.NoError(t, err)
	ins := stmt.(*InsertStmt)
	assert.Nil(t, ins.Columns)
	require.Len(t, ins.Values[0], 4)
	assert.Equal(t, &DecimalLit{Value: 2.5}, ins.Values[0][1])
	assert.Equal(t, &BoolLit{Value: true}, ins.Values[0][2])
	assert.Equal(t, &NullLit{}, ins.Values[0][3])
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users")
	require.NoError(t, err)
	sel := stmt.(*SelectStmt)
	assert.Equal(t, []Expr{&StarExpr{}}, sel.Columns)
	assert.Equal(t, "users", sel.From)
	assert.Nil(t, sel.Where)
	assert.Nil(t, sel.Limit)
}

func TestParseSelectWithWhereOrderByLimit(t *testing.T) {
	stmt, err := Parse("SELECT id, name FROM users WHERE id = 1 AND name != 'x' ORDER BY name DESC LIMIT 10")
	require.NoError(t, err)

	sel := stmt.(*SelectStmt)
	assert.Equal(t, []Expr{&ColumnRef{Name: "id"}, &ColumnRef{Name: "name"}}, sel.Columns)
	require.NotNil(t, sel.Where)

	where, ok := sel.Where.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "AND", where.Op)

	require.Len(t, sel.OrderBy, 1)
	assert.True(t, sel.OrderBy[0].Desc)

	require.NotNil(t, sel.Limit)
	assert.Equal(t, int64(10), *sel.Limit)
}

func TestParseUnsupportedStatement(t *testing.T) {
	_, err := Parse("DROP TABLE users")
	assert.Error(t, err)
}
