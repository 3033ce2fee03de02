// Package testutil provides reusable test fixtures for sgq tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/subhero24/sql-graph-query/internal/store"
)

// TestDB is a throwaway SQLite database seeded with fixture SQL.
type TestDB struct {
	DB      *sql.DB
	Dialect store.Dialect
	// DSN is ":memory:" unless OnDisk was requested.
	DSN string

	t      *testing.T
	seed   []string
	onDisk bool
}

// NewTestDB creates a new test database builder.
// Call Build() to open the database and run the seed SQL.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	return &TestDB{t: t}
}

// WithSQL appends fixture statements; several may be separated by semicolons.
func (d *TestDB) WithSQL(sql string) *TestDB {
	d.seed = append(d.seed, sql)
	return d
}

// OnDisk stores the database in a temp file so another process can open it.
func (d *TestDB) OnDisk() *TestDB {
	d.onDisk = true
	return d
}

// Build opens the database and runs the fixture SQL. The database is closed
// when the test ends.
func (d *TestDB) Build() *TestDB {
	d.t.Helper()

	d.DSN = ":memory:"
	if d.onDisk {
		d.DSN = filepath.Join(d.t.TempDir(), "test.db")
	}

	db, dialect, err := store.Open(context.Background(), "sqlite", d.DSN)
	if err != nil {
		d.t.Fatalf("failed to open test database: %v", err)
	}
	d.t.Cleanup(func() { db.Close() })
	d.DB = db
	d.Dialect = dialect

	for _, stmt := range d.seed {
		d.Exec(stmt)
	}
	return d
}

// Exec runs SQL against the database and fails the test on error.
func (d *TestDB) Exec(sql string, args ...any) {
	d.t.Helper()
	if strings.TrimSpace(sql) == "" {
		return
	}
	if _, err := d.DB.Exec(sql, args...); err != nil {
		d.t.Fatalf("failed to execute fixture SQL: %v\n%s", err, sql)
	}
}

// Adapter returns a store adapter over the database.
func (d *TestDB) Adapter() *store.SQLAdapter {
	return store.NewSQLAdapter(d.DB, d.Dialect)
}

// AssertCount fails the test if table does not hold exactly n rows.
func (d *TestDB) AssertCount(table string, n int) {
	d.t.Helper()
	var got int
	if err := d.DB.QueryRow(`SELECT COUNT(*) FROM ` + d.Dialect.Quote(table)).Scan(&got); err != nil {
		d.t.Fatalf("failed to count %s: %v", table, err)
	}
	if got != n {
		d.t.Errorf("expected %d rows in %s, got %d", n, table, got)
	}
}
