package sqlengine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridgedb/storage"
	"ridgedb/storage/index"
	"ridgedb/storage/wal"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	w, err := wal.Open(filepath.Join(t.TempDir(), "wal.log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return New(index.New(), w)
}

func TestCreateTableThenDuplicateFails(t *testing.T) {
	e := newTestEngine(t)
	out, err := e.Execute("CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(100))")
	require.NoError(t, err)
	assert.Contains(t, out, "Table 'users' created successfully")

	_, err = e.Execute("CREATE TABLE users (id INTEGER PRIMARY KEY)")
	require.Error(t, err)
	assert.IsType(t, &storage.TableExistsError{}, err)
}

func TestInsertAndSelect(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Execute("CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(100))")
	require.NoError(t, err)

	out, err := e.Execute("INSERT INTO users (id, name) VALUES (1, 'Alice')")
	require.NoError(t, err)
	assert.Equal(t, "1 row(s) inserted", out)

	out, err = e.Execute("SELECT * FROM users")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "(1 rows)")
}

func TestSelectFromMissingTable(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Execute("SELECT * FROM missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestInsertTooManyValuesIsSchemaErrorNoMutation(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	_, err = e.Execute("INSERT INTO t (id) VALUES (1, 2)")
	require.Error(t, err)

	out, err := e.Execute("SELECT * FROM t")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 rows)")
}

func TestInsertOrderingByKeyAscending(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	_, err = e.Execute("INSERT INTO t (id) VALUES (2), (1), (3)")
	require.NoError(t, err)

	keys := e.index.ScanPrefix("t:")
	assert.Equal(t, []string{"t:1", "t:2", "t:3"}, keys)
}

func TestSelectLimitTruncates(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = e.Execute("INSERT INTO t (id) VALUES (1), (2), (3)")
	require.NoError(t, err)

	out, err := e.Execute("SELECT * FROM t LIMIT 2")
	require.NoError(t, err)
	assert.Contains(t, out, "(2 rows)")
}

func TestUnsupportedStatement(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Execute("DROP TABLE t")
	assert.Error(t, err)
}

func TestApplyEntryReplaysCreateTableAndInsert(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = e.Execute("INSERT INTO t (id) VALUES (1)")
	require.NoError(t, err)

	fresh := New(index.New(), nil)
	entries, err := e.log.Replay()
	require.NoError(t, err)
	for _, entry := range entries {
		require.NoError(t, fresh.ApplyEntry(entry))
	}

	out, err := fresh.Execute("SELECT * FROM t")
	require.NoError(t, err)
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "(1 rows)")
}
