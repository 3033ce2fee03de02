package executor

import (
	"errors"
	"strings"

	"github.com/subhero24/sql-graph-query/internal/query"
	"github.com/subhero24/sql-graph-query/internal/schema"
	"github.com/subhero24/sql-graph-query/internal/store"
)

// ErrNoAttributes is returned when a relation selects nothing.
var ErrNoAttributes = errors.New("relation selects no attributes")

// Projection is the select list for one relation level.
type Projection struct {
	SQL string
	// Shadow lists join columns fetched only to correlate child relations.
	Shadow []string
}

// Plan builds the projection for rel over the given table columns.
//
// Join columns come first: a JSON child selects the text column named after
// it; a table child selects <type>Id when the table has it and id otherwise,
// hidden unless rel requested it. The requested attributes follow; known
// columns are quoted and anything else is passed through as an expression.
func Plan(d store.Dialect, columns []schema.Column, rel *query.Relation) (Projection, error) {
	known := make(map[string]schema.Column, len(columns))
	for _, c := range columns {
		known[c.Name] = c
	}

	var (
		items  []string
		picked = make(map[string]bool)
		proj   Projection
	)
	pick := func(name string) {
		if picked[name] {
			return
		}
		picked[name] = true
		if _, ok := known[name]; ok {
			name = d.Quote(name)
		}
		items = append(items, name)
	}

	for _, child := range rel.Relations {
		if c, ok := known[child.Type]; ok && c.Text {
			pick(child.Type)
			continue
		}

		column := "id"
		if _, ok := known[child.Type+"Id"]; ok {
			column = child.Type + "Id"
		}
		if !rel.HasAttribute(column) && !contains(proj.Shadow, column) {
			proj.Shadow = append(proj.Shadow, column)
		}
		if !picked[column] {
			picked[column] = true
			items = append(items, d.Quote(column))
		}
	}

	for _, attr := range rel.Attributes {
		pick(attr)
	}

	if len(items) == 0 {
		return Projection{}, ErrNoAttributes
	}
	proj.SQL = strings.Join(items, ",")
	return proj, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
