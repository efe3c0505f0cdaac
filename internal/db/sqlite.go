// Package db opens the SQLite control-plane store and applies its migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
)

// Mode selects how a SQLite pool is configured.
type Mode string

// Pool modes accepted by OpenSQLite.
const (
	// ModeWrite is the single-connection writer pool of the control plane.
	ModeWrite Mode = "write"
	// ModeRead is the concurrent reader pool of the control plane.
	ModeRead Mode = "read"
	// ModeQueryOnly opens someone else's database file for metadata reads.
	// It never changes the journal mode and rejects writes.
	ModeQueryOnly Mode = "query_only"
)

// SQLite DSN parameters for production hardening.
const (
	defaultBusyTimeout = "5000" // 5 seconds
	defaultSynchronous = "NORMAL"
	defaultJournalMode = "WAL"
	defaultReadMaxOpen = 4
)

// OpenSQLite opens a *sql.DB pool for the given SQLite file path.
//
// mode controls write-safety and pool sizing:
//   - ModeWrite: MaxOpenConns=1, _txlock=immediate, WAL journal
//   - ModeRead: MaxOpenConns=maxOpen (0 means 4), WAL journal
//   - ModeQueryOnly: MaxOpenConns=maxOpen (0 means 4), _query_only, journal untouched
//
// All modes set busy_timeout=5000ms. Control-plane modes also enable
// foreign keys and synchronous=NORMAL.
func OpenSQLite(path string, mode Mode, maxOpen int) (*sql.DB, error) {
	switch mode {
	case ModeWrite, ModeRead, ModeQueryOnly:
	default:
		return nil, fmt.Errorf("invalid SQLite mode %q: must be %q, %q or %q", mode, ModeRead, ModeWrite, ModeQueryOnly)
	}

	db, err := sql.Open("sqlite3", buildDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	if mode == ModeWrite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		if maxOpen <= 0 {
			maxOpen = defaultReadMaxOpen
		}
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
	}
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}

	return db, nil
}

// OpenSQLitePair opens both a write pool (MaxOpenConns=1) and a read pool
// for the same SQLite file. readMaxOpen controls the read pool size
// (0 defaults to 4).
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = OpenSQLite(path, ModeWrite, 0)
	if err != nil {
		return nil, nil, err
	}

	readDB, err = OpenSQLite(path, ModeRead, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}

	return writeDB, readDB, nil
}

func buildDSN(path string, mode Mode) string {
	params := url.Values{}
	params.Set("_busy_timeout", defaultBusyTimeout)

	switch mode {
	case ModeQueryOnly:
		params.Set("_query_only", "true")
	case ModeWrite:
		params.Set("_txlock", "immediate")
		fallthrough
	default:
		params.Set("_journal_mode", defaultJournalMode)
		params.Set("_synchronous", defaultSynchronous)
		params.Set("_foreign_keys", "on")
	}

	return path + "?" + params.Encode()
}
