package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"fedcat/internal/db/crypto"
)

// TestEncryptionKey is a fixed AES-256 key for tests.
const TestEncryptionKey = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

// OpenTestEncryptor returns an Encryptor for TestEncryptionKey.
func OpenTestEncryptor(t *testing.T) *crypto.Encryptor {
	t.Helper()
	enc, err := crypto.NewEncryptor(TestEncryptionKey)
	if err != nil {
		t.Fatalf("create encryptor: %v", err)
	}
	return enc
}

// OpenTestSQLite returns a migrated control-plane database in t.TempDir().
// The second pool is read-only over the same file; repositories only need
// the first.
func OpenTestSQLite(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	writeDB, readDB, err := OpenSQLitePair(filepath.Join(t.TempDir(), "fedcat_meta.sqlite"), 2)
	if err != nil {
		t.Fatalf("open control plane: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})
	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("migrate control plane: %v", err)
	}
	return writeDB, readDB
}
