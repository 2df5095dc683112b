// Package sqlitedb opens SQLite databases with the connection settings
// shared by the settings store and the transition journal.
package sqlitedb

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

// Connection pragmas, applied by the driver on every new connection:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
var pragmas = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
	"_busy_timeout": {"5000"},
}

// Open creates or opens the database at path and checks that it is
// reachable. The pool is limited to one connection since SQLite allows a
// single writer.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?"+pragmas.Encode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// Pragma reads the current value of a pragma.
func Pragma(db *sql.DB, name string) (string, error) {
	var value string
	if err := db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
