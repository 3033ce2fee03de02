package store

import (
	"context"
	"database/sql"
	"fmt"

	// Database drivers register themselves with database/sql.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open opens a database handle for the named driver and verifies the
// connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := LookupDialect(driver)
	if err != nil {
		return nil, Dialect{}, err
	}
	if dsn == "" {
		return nil, Dialect{}, fmt.Errorf("no data source configured for %s", dialect.Name)
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, Dialect{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect.Name == SQLite.Name {
		// :memory: databases and PRAGMAs are per connection.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, Dialect{}, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, dialect, nil
}
