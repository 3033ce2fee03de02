package store

import (
	"fmt"
	"strings"

	"github.com/subhero24/sql-graph-query/internal/sqlutil"
)

// Dialect captures the per-database differences the compiler cares about.
type Dialect struct {
	// Name is the canonical dialect name ("sqlite", "postgres", "mysql").
	Name string
	// Driver is the database/sql driver name registered for the dialect.
	Driver string
	// IdentQuote is the identifier quote character.
	IdentQuote byte
	// Numbered is true when the driver expects $1, $2... placeholders.
	Numbered bool
	// Returning is true when INSERT/UPDATE/REPLACE accept a RETURNING clause.
	Returning bool
}

var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite", IdentQuote: '"', Returning: true}
	Postgres = Dialect{Name: "postgres", Driver: "postgres", IdentQuote: '"', Numbered: true, Returning: true}
	MySQL    = Dialect{Name: "mysql", Driver: "mysql", IdentQuote: '`'}
)

// LookupDialect resolves a dialect by name or common alias.
func LookupDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unknown driver %q (expected sqlite, postgres or mysql)", name)
	}
}

// Quote quotes an identifier for the dialect.
func (d Dialect) Quote(ident string) string {
	quote := d.IdentQuote
	if quote == 0 {
		quote = '"'
	}
	return sqlutil.QuoteIdent(ident, quote)
}

// Bind rewrites "?" placeholders into the dialect's native form.
func (d Dialect) Bind(query string) string {
	if d.Numbered {
		return sqlutil.Rebind(query)
	}
	return query
}
