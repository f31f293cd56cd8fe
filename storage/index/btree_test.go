package index

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBTreeGetEmpty(t *testing.T) {
	tr := New()
	_, ok := tr.Get("missing")
	assert.False(t, ok)
}

func TestBTreeInsertAndGet(t *testing.T) {
	tr := New()
	tr.Insert("b", []byte("2"))
	tr.Insert("a", []byte("1"))
	tr.Insert("c", []byte("3"))

	v, ok := tr.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	v, ok = tr.Get("b")
	require.True(t, ok)
	assert.Equal(t, []byte("2"), v)

	_, ok = tr.Get("z")
	assert.False(t, ok)
}

func TestBTreeInsertOverwrites(t *testing.T) {
	tr := New()
	tr.Insert("k", []byte("first"))
	tr.Insert("k", []byte("second"))

	v, ok := tr.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), v)
}

func TestBTreeSplitsOnOverflow(t *testing.T) {
	tr := New()
	for i := 0; i < nodeCapacity+50; i++ {
		key := fmt.Sprintf("key-%05d", i)
		tr.Insert(key, []byte(key))
	}

	assert.Greater(t, len(tr.nodes), 1, "inserting past capacity must split the root")

	for i := 0; i < nodeCapacity+50; i++ {
		key := fmt.Sprintf("key-%05d", i)
		v, ok := tr.Get(key)
		require.True(t, ok, "key %s should be found after splits", key)
		assert.Equal(t, key, string(v))
	}
}

func TestBTreeSplitsExactlyAtCapacityBoundary(t *testing.T) {
	tr := New()
	for i := 0; i < nodeCapacity-1; i++ {
		key := fmt.Sprintf("key-%05d", i)
		tr.Insert(key, []byte(key))
	}
	assert.Len(t, tr.nodes, 1, "a node holding capacity-1 keys must not have split yet")

	tr.Insert(fmt.Sprintf("key-%05d", nodeCapacity-1), []byte("x"))
	assert.Len(t, tr.nodes, 3, "reaching capacity keys must split immediately, not wait for capacity+1 (two leaves plus a new root)")
}

func TestBTreeScanPrefix(t *testing.T) {
	tr := New()
	keys := []string{"users:1", "users:2", "users:30", "orders:1", "users:4"}
	for _, k := range keys {
		tr.Insert(k, []byte(k))
	}

	got := tr.ScanPrefix("users:")
	assert.Equal(t, []string{"users:1", "users:2", "users:30", "users:4"}, got)
}

func TestBTreeScanPrefixAcrossLeafSplits(t *testing.T) {
	tr := New()
	for i := 0; i < nodeCapacity*3; i++ {
		tr.Insert(fmt.Sprintf("t:%05d", i), []byte{byte(i)})
	}
	tr.Insert("u:1", []byte("x"))

	got := tr.ScanPrefix("t:")
	assert.Len(t, got, nodeCapacity*3)
	for i, k := range got {
		assert.Equal(t, fmt.Sprintf("t:%05d", i), k)
	}
}

func TestBTreeScanPrefixEmpty(t *testing.T) {
	tr := New()
	assert.Nil(t, tr.ScanPrefix("anything"))
}

func TestBTreeCheckpointThreshold(t *testing.T) {
	tr := New()
	assert.False(t, tr.ShouldCheckpoint())

	for i := 0; i < checkpointThreshold; i++ {
		tr.Insert(fmt.Sprintf("k%d", i), []byte("v"))
	}
	assert.True(t, tr.ShouldCheckpoint())

	tr.ResetOperationCount()
	assert.False(t, tr.ShouldCheckpoint())
}

func TestBTreeSaveAndLoadRoundTrip(t *testing.T) {
	tr := New()
	for i := 0; i < nodeCapacity*2; i++ {
		key := fmt.Sprintf("key-%05d", i)
		tr.Insert(key, []byte(key))
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.db")
	require.NoError(t, tr.SaveToDisk(path))

	loaded := New()
	require.NoError(t, loaded.LoadFromDisk(path))

	for i := 0; i < nodeCapacity*2; i++ {
		key := fmt.Sprintf("key-%05d", i)
		v, ok := loaded.Get(key)
		require.True(t, ok)
		assert.Equal(t, key, string(v))
	}

	got := loaded.ScanPrefix("key-")
	assert.Len(t, got, nodeCapacity*2)
}

func TestBTreeLoadFromDiskMissingFile(t *testing.T) {
	tr := New()
	err := tr.LoadFromDisk(filepath.Join(t.TempDir(), "does-not-exist.db"))
	assert.True(t, os.IsNotExist(err))
}
