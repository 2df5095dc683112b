package journal

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	"github.com/roach88/uniflow/internal/sqlitedb"
)

//go:embed schema.sql
var schemaSQL string

// currentSchemaVersion is stamped into PRAGMA user_version.
// 1: transitions table with flow index.
const currentSchemaVersion = 1

// Journal is an append-only transition log backed by SQLite.
type Journal struct {
	db *sql.DB

	mu      sync.Mutex
	lastErr error
}

// Open creates or opens the journal at path and brings its schema up to
// date. A journal stamped by a newer schema is refused.
func Open(path string) (*Journal, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database connection. Idempotent.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// SchemaVersion returns the journal's user_version.
func (j *Journal) SchemaVersion() (int, error) {
	return userVersion(j.db)
}

func migrate(db *sql.DB) error {
	version, err := userVersion(db)
	if err != nil {
		return err
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("journal schema v%d is newer than supported v%d", version, currentSchemaVersion)
	}
	if version == currentSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if _, err := tx.Exec("PRAGMA user_version = " + strconv.Itoa(currentSchemaVersion)); err != nil {
		return fmt.Errorf("stamp v%d: %w", currentSchemaVersion, err)
	}
	return tx.Commit()
}

func userVersion(db *sql.DB) (int, error) {
	raw, err := sqlitedb.Pragma(db, "user_version")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}
