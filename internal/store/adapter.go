// Package store defines the storage adapter contract the query executor runs
// against, and its database/sql implementation.
package store

import "context"

// Statement is a prepared statement handle owned by an Adapter.
type Statement interface {
	// SQL returns the statement text as it was prepared.
	SQL() string
}

// Adapter executes SQL against a relational store. Placeholders are written
// as "?"; adapters translate them for their driver.
//
// The executor never issues two calls concurrently, and a Statement is reused
// across many RunAll/RunOne calls before Finalize releases it.
type Adapter interface {
	// All executes query and returns every row.
	All(ctx context.Context, query string, args ...any) ([]*Row, error)
	// Prepare compiles query for repeated execution.
	Prepare(ctx context.Context, query string) (Statement, error)
	// RunAll executes a prepared statement and returns every row.
	RunAll(ctx context.Context, stmt Statement, args ...any) ([]*Row, error)
	// RunOne executes a prepared statement and returns the first row, or nil
	// when there is none.
	RunOne(ctx context.Context, stmt Statement, args ...any) (*Row, error)
	// Finalize releases a prepared statement. Releasing twice is a no-op.
	Finalize(stmt Statement) error
}
