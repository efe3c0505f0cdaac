package db

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	t.Run("write", func(t *testing.T) {
		dsn := buildDSN("/tmp/meta.sqlite", ModeWrite)
		assert.True(t, strings.HasPrefix(dsn, "/tmp/meta.sqlite?"))
		assert.Contains(t, dsn, "_journal_mode=WAL")
		assert.Contains(t, dsn, "_busy_timeout=5000")
		assert.Contains(t, dsn, "_synchronous=NORMAL")
		assert.Contains(t, dsn, "_foreign_keys=on")
		assert.Contains(t, dsn, "_txlock=immediate")
	})

	t.Run("read", func(t *testing.T) {
		dsn := buildDSN("/tmp/meta.sqlite", ModeRead)
		assert.Contains(t, dsn, "_journal_mode=WAL")
		assert.Contains(t, dsn, "_foreign_keys=on")
		assert.NotContains(t, dsn, "_txlock")
	})

	t.Run("query only", func(t *testing.T) {
		dsn := buildDSN("/data/other.db", ModeQueryOnly)
		assert.Contains(t, dsn, "_query_only=true")
		assert.Contains(t, dsn, "_busy_timeout=5000")
		assert.NotContains(t, dsn, "_journal_mode")
		assert.NotContains(t, dsn, "_txlock")
	})
}

func TestOpenSQLite_InvalidMode(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), "invalid", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite mode")
}

func TestOpenSQLite_Write(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), ModeWrite, 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", strings.ToLower(journalMode))

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpenSQLite_QueryOnlyRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.db")
	wdb, err := OpenSQLite(path, ModeWrite, 0)
	require.NoError(t, err)
	_, err = wdb.Exec("CREATE TABLE t (id INTEGER)")
	require.NoError(t, err)
	require.NoError(t, wdb.Close())

	db, err := OpenSQLite(path, ModeQueryOnly, 2)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM t").Scan(&n))
	_, err = db.Exec("INSERT INTO t (id) VALUES (1)")
	require.Error(t, err)
	assert.Equal(t, 2, db.Stats().MaxOpenConnections)
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	_, err := OpenSQLite("/nonexistent/dir/test.db", ModeWrite, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping sqlite")
}

func TestOpenSQLitePair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	writeDB, readDB, err := OpenSQLitePair(path, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		writeDB.Close()
		readDB.Close()
	})

	assert.Equal(t, 1, writeDB.Stats().MaxOpenConnections)
	assert.Equal(t, 4, readDB.Stats().MaxOpenConnections)

	_, err = writeDB.Exec("CREATE TABLE nums (n INTEGER)")
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		_, err = writeDB.Exec("INSERT INTO nums (n) VALUES (?)", i)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			var count int
			errs[idx] = readDB.QueryRow("SELECT count(*) FROM nums").Scan(&count)
		}(i)
	}
	wg.Wait()
	for i, e := range errs {
		assert.NoError(t, e, "reader %d failed", i)
	}
}

func TestRunMigrations(t *testing.T) {
	writeDB, _ := OpenTestSQLite(t)

	for _, table := range []string{"integrations", "projects", "project_objects"} {
		var name string
		err := writeDB.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	v, err := SchemaVersion(writeDB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// Idempotent.
	require.NoError(t, RunMigrations(writeDB))
}
