// Package sqlgraph compiles nested graph queries into SQL and reassembles
// the rows into a tree shaped like the query.
//
// A query is written as literal segments with values between them, the way
// a tagged template reads:
//
//	rows, err := sqlgraph.Query(ctx, adapter, sqlgraph.SQLite,
//		[]string{"users WHERE name = ", " {\n\tname\n\tcars {\n\t\tlicense\n\t}\n}"},
//		"John")
//
// Each value becomes a bound placeholder; slices expand to a comma-separated
// list of placeholders.
package sqlgraph

import (
	"context"
	"database/sql"

	"github.com/go-kit/log"

	"github.com/subhero24/sql-graph-query/internal/executor"
	"github.com/subhero24/sql-graph-query/internal/query"
	"github.com/subhero24/sql-graph-query/internal/schema"
	"github.com/subhero24/sql-graph-query/internal/store"
)

type (
	// Relation is a parsed query node.
	Relation = query.Relation
	// Template is a query as literal segments and interpolated values.
	Template = query.Template
	// ParseError reports malformed query text.
	ParseError = query.ParseError
	// RelationError reports a relation no foreign key resolves.
	RelationError = schema.RelationError

	Adapter   = store.Adapter
	Statement = store.Statement
	Row       = store.Row
	Dialect   = store.Dialect
	Executor  = executor.Executor
)

var (
	SQLite   = store.SQLite
	Postgres = store.Postgres
	MySQL    = store.MySQL
)

// Errors for errors.Is.
var (
	ErrRelationNotFound     = schema.ErrRelationNotFound
	ErrRelationAmbiguous    = schema.ErrRelationAmbiguous
	ErrNoAttributes         = executor.ErrNoAttributes
	ErrReturningUnsupported = executor.ErrReturningUnsupported
)

// Parse parses the query formed by segments with values interpolated
// between them.
func Parse(segments []string, values ...any) (*Relation, error) {
	return query.Parse(query.New(segments, values...))
}

// ParseString parses a query with no interpolated values.
func ParseString(s string) (*Relation, error) {
	return query.ParseString(s)
}

// NewExecutor returns an executor running queries through adapter. A nil
// logger discards diagnostics.
func NewExecutor(adapter Adapter, dialect Dialect, logger log.Logger) *Executor {
	return executor.New(adapter, dialect, logger)
}

// Execute resolves a parsed query.
func Execute(ctx context.Context, adapter Adapter, dialect Dialect, root *Relation) (any, error) {
	return executor.New(adapter, dialect, nil).Execute(ctx, root)
}

// Query parses and runs a query in one step. The result is the rows
// returned by a root mutation, the value of a lone top-level relation, or a
// row keyed by relation type when the query has several.
func Query(ctx context.Context, adapter Adapter, dialect Dialect, segments []string, values ...any) (any, error) {
	root, err := Parse(segments, values...)
	if err != nil {
		return nil, err
	}
	return Execute(ctx, adapter, dialect, root)
}

// Open connects to a database with one of the registered drivers: sqlite,
// postgres or mysql.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	return store.Open(ctx, driver, dsn)
}

// NewSQLAdapter adapts a database/sql handle. *sql.DB, *sql.Conn and
// *sql.Tx are all accepted.
func NewSQLAdapter(db store.DB, dialect Dialect) *store.SQLAdapter {
	return store.NewSQLAdapter(db, dialect)
}

// Public converts a result into plain maps and slices, dropping the join
// columns that were selected only to resolve relations.
func Public(v any) any {
	return store.PublicValue(v)
}
