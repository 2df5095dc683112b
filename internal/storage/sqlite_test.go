package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/uniflow/internal/sqlitedb"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		version, dirty, err := s.SchemaVersion()
		if err != nil {
			t.Fatalf("SchemaVersion() failed: %v", err)
		}
		if version != 1 || dirty {
			t.Errorf("schema version = %d dirty=%t, want 1 clean", version, dirty)
		}
		s.Close()
	}
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		got, err := sqlitedb.Pragma(s.db, tt.name)
		if err != nil {
			t.Fatalf("Pragma(%s) failed: %v", tt.name, err)
		}
		if got != tt.expected {
			t.Errorf("%s = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	if err := s1.Set(ctx, "counter", []byte("41")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s1.Set(ctx, "counter", []byte("42")); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}
	s1.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Get(ctx, "counter")
	if err != nil || !ok {
		t.Fatalf("Get() = %q, %t, %v", got, ok, err)
	}
	if string(got) != "42" {
		t.Errorf("Get() = %q, want %q", got, "42")
	}

	var rows int
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&rows); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("settings rows = %d, want 1", rows)
	}
}
