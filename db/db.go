// Package db is the database façade: it owns exactly one B+ tree
// index, one WAL, and one SQL engine, and exposes the two operations
// everything else in the system calls through — ExecuteSQL and
// Shutdown.
package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ridgedb/sqlengine"
	"ridgedb/storage/index"
	"ridgedb/storage/wal"
)

const (
	walFileName      = "wal.log"
	snapshotFileName = "storage.db"
)

// Database is the single coarse-locked entry point into the storage
// stack. Every ExecuteSQL call holds the lock for its full duration —
// write-exclusive even for SELECT — which keeps WAL order, storage
// order and observable order identical and makes crash recovery
// correct by construction. Refining this into per-table or
// reader/writer locking is a deliberate non-goal of this repo.
type Database struct {
	mu      sync.Mutex
	dataDir string
	index   *index.BTree
	log     *wal.WAL
	engine  *sqlengine.Engine
}

// Open opens (or creates) a database rooted at dataDir. On
// construction the WAL is replayed to reconstruct the index and
// catalog, then a snapshot is loaded on top if present — snapshot load
// failure (including a simply-missing file, i.e. first run) is logged
// and otherwise ignored, per the documented best-effort lifecycle.
func Open(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("db: create data directory: %w", err)
	}

	w, err := wal.Open(filepath.Join(dataDir, walFileName))
	if err != nil {
		return nil, fmt.Errorf("db: open WAL: %w", err)
	}

	idx := index.New()
	eng := sqlengine.New(idx, w)

	entries, err := w.Replay()
	if err != nil {
		log.Printf("db: WAL replay error, continuing with what was recovered: %v", err)
	}
	for _, entry := range entries {
		if err := eng.ApplyEntry(entry); err != nil {
			log.Printf("db: skipping unreplayable WAL entry %s: %v", entry.ID, err)
		}
	}

	snapshotPath := filepath.Join(dataDir, snapshotFileName)
	if err := idx.LoadFromDisk(snapshotPath); err != nil {
		if os.IsNotExist(err) {
			log.Printf("db: no snapshot at %s, starting from WAL replay only", snapshotPath)
		} else {
			log.Printf("db: snapshot load failed, continuing with WAL-replayed state: %v", err)
		}
	}

	return &Database{dataDir: dataDir, index: idx, log: w, engine: eng}, nil
}

// ExecuteSQL parses and executes a single SQL statement under the
// database's single write lock.
func (d *Database) ExecuteSQL(sql string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.engine.Execute(sql)
	if err != nil {
		return "", err
	}

	if d.engine.ShouldCheckpoint() {
		if err := d.checkpointLocked(); err != nil {
			log.Printf("db: checkpoint failed, WAL retained for next startup: %v", err)
		}
	}

	return result, nil
}

// checkpointLocked snapshots the index to disk, truncates the WAL,
// appends the CreateTable records again (the catalog is rebuilt from
// them on the next startup), and resets the operation counter.
// Callers must hold d.mu.
func (d *Database) checkpointLocked() error {
	snapshotPath := filepath.Join(d.dataDir, snapshotFileName)
	if err := d.index.SaveToDisk(snapshotPath); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	var schemas []wal.Entry
	for _, e := range d.log.GetEntriesSince(time.Time{}) {
		if e.Op == wal.OpCreateTable {
			schemas = append(schemas, e)
		}
	}
	if err := d.log.Truncate(); err != nil {
		return fmt.Errorf("truncate WAL: %w", err)
	}
	for _, e := range schemas {
		if err := d.log.Append(e); err != nil {
			return fmt.Errorf("re-append schema to WAL: %w", err)
		}
	}
	d.engine.ResetOperationCount()
	return nil
}

// Shutdown flushes a final snapshot, truncates the WAL, and closes the
// underlying file.
func (d *Database) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkpointLocked(); err != nil {
		log.Printf("db: shutdown checkpoint failed: %v", err)
	}
	return d.log.Close()
}
