package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/subhero24/sql-graph-query/internal/sqlutil"
)

// DB is the subset of database/sql used by SQLAdapter. *sql.DB, *sql.Conn
// and *sql.Tx all satisfy it.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// SQLAdapter implements Adapter over database/sql.
type SQLAdapter struct {
	db      DB
	dialect Dialect
}

// NewSQLAdapter creates an adapter for db speaking the given dialect.
func NewSQLAdapter(db DB, dialect Dialect) *SQLAdapter {
	return &SQLAdapter{db: db, dialect: dialect}
}

// Dialect returns the adapter's dialect.
func (a *SQLAdapter) Dialect() Dialect {
	return a.dialect
}

type sqlStatement struct {
	stmt   *sql.Stmt
	query  string
	closed bool
}

func (s *sqlStatement) SQL() string { return s.query }

// All executes query and returns every row.
func (a *SQLAdapter) All(ctx context.Context, query string, args ...any) ([]*Row, error) {
	rows, err := a.db.QueryContext(ctx, a.dialect.Bind(query), args...)
	if err != nil {
		return nil, err
	}
	return scanAll(rows)
}

// Prepare compiles query for repeated execution.
func (a *SQLAdapter) Prepare(ctx context.Context, query string) (Statement, error) {
	stmt, err := a.db.PrepareContext(ctx, a.dialect.Bind(query))
	if err != nil {
		return nil, err
	}
	return &sqlStatement{stmt: stmt, query: query}, nil
}

// RunAll executes a prepared statement and returns every row.
func (a *SQLAdapter) RunAll(ctx context.Context, stmt Statement, args ...any) ([]*Row, error) {
	s, err := a.statement(stmt)
	if err != nil {
		return nil, err
	}
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	return scanAll(rows)
}

// RunOne executes a prepared statement and returns the first row, or nil.
func (a *SQLAdapter) RunOne(ctx context.Context, stmt Statement, args ...any) (*Row, error) {
	s, err := a.statement(stmt)
	if err != nil {
		return nil, err
	}
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRow(rows, columns)
}

// Finalize closes the prepared statement. Closing twice is a no-op.
func (a *SQLAdapter) Finalize(stmt Statement) error {
	s, ok := stmt.(*sqlStatement)
	if !ok {
		return fmt.Errorf("statement %T was not prepared by this adapter", stmt)
	}
	if s.closed {
		return nil
	}
	s.closed = true
	return s.stmt.Close()
}

func (a *SQLAdapter) statement(stmt Statement) (*sqlStatement, error) {
	s, ok := stmt.(*sqlStatement)
	if !ok {
		return nil, fmt.Errorf("statement %T was not prepared by this adapter", stmt)
	}
	if s.closed {
		return nil, fmt.Errorf("statement already finalized: %s", s.query)
	}
	return s, nil
}

func scanAll(rows *sql.Rows) ([]*Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (*Row, error) {
		return scanRow(rows, columns)
	})
}

func scanRow(rows *sql.Rows, columns []string) (*Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := NewRow()
	for i, column := range columns {
		row.Set(column, normalize(values[i]))
	}
	return row, nil
}

// normalize turns driver byte slices into strings so text columns compare
// and decode the same way across drivers.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
