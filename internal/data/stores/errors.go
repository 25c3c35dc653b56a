package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/calm/internal/data/db"
)

// IsBusyError reports whether err is SQLITE_BUSY or one of its extended
// codes.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsCorruptionError reports whether err means the database file is unusable.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CANTOPEN:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// IsNotFoundError reports whether err is sql.ErrNoRows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// RecoverFromCorruption moves the database file and its WAL/SHM siblings
// aside so the next Open starts from an empty schema. It returns the path
// of the backup, or "" when there was no database to move.
func RecoverFromCorruption(dataDir string, now time.Time) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, now.Format("20060102-150405"))

	if err := os.Rename(dbPath, backup); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("backup corrupted database: %w", err)
		}
		backup = ""
	}

	// Orphaned WAL/SHM files would be replayed against the fresh database.
	for _, suffix := range []string{"-wal", "-shm"} {
		src := dbPath + suffix
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if backup != "" && os.Rename(src, backup+suffix) == nil {
			continue
		}
		if err := os.Remove(src); err != nil {
			return backup, fmt.Errorf("remove %s file: %w", suffix, err)
		}
	}

	return backup, nil
}
