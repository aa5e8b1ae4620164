// Package firedb persists fire detection clusters produced by repeated
// satellite scans and serves range queries over them. One DB owns one store
// file; it expects a single logical writer and performs no internal locking.
package firedb

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// busyTimeoutMs bounds how long a statement waits on a locked database
// before failing. Five seconds of contention on a single-writer store means
// something has already gone badly wrong, so the failure surfaces instead of
// being retried.
const busyTimeoutMs = 5000

// DB owns the connections to one cluster store. Writes go through a single
// read-write connection; cursors use a separate lazily opened read-only
// connection so long scans do not starve the writer.
type DB struct {
	path string

	writeDB *sql.DB

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// Open opens or creates the cluster store at path and applies the schema.
// The DDL is idempotent: opening an existing store and a fresh one leave the
// identical layout behind. Any failure here is fatal to Open and no handle
// is returned.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on", path, busyTimeoutMs)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening write connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &DB{path: path, writeDB: db}, nil
}

func (d *DB) getReadDB() (*sql.DB, error) {
	d.readDBOnce.Do(func() {
		dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=%d", d.path, busyTimeoutMs)
		db, err := sql.Open("sqlite3", dsn)
		if err != nil {
			d.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		d.readDB = db
	})

	return d.readDB, d.readDBErr
}

// Close releases both connections. Closing a nil or already closed DB is a
// no-op.
func (d *DB) Close() error {
	if d == nil {
		return nil
	}

	d.closeOnce.Do(func() {
		var writeErr, readErr error

		if d.writeDB != nil {
			writeErr = d.writeDB.Close()
			d.writeDB = nil
		}

		if d.readDB != nil {
			readErr = d.readDB.Close()
			d.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			d.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			d.closeErr = writeErr
		case readErr != nil:
			d.closeErr = readErr
		}
	})

	return d.closeErr
}
