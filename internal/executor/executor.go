// Package executor runs a parsed query tree against a store and assembles
// the nested result.
//
// Each relation level is one prepared statement, executed once per parent
// row:
//
//	WITH temp AS (SELECT * FROM "cars" WHERE "userId" = ?) SELECT "id","brand" FROM temp ORDER BY brand
//
// Children are resolved depth first before they are attached to their
// parents. JSON sub-documents already present on the parent are decoded and
// filtered in memory instead.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"

	"github.com/subhero24/sql-graph-query/internal/query"
	"github.com/subhero24/sql-graph-query/internal/schema"
	"github.com/subhero24/sql-graph-query/internal/store"
)

// ErrReturningUnsupported is returned for a root mutation on a dialect
// without RETURNING.
var ErrReturningUnsupported = errors.New("mutations require RETURNING support")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Executor resolves query trees. It is not safe for concurrent use.
type Executor struct {
	adapter      store.Adapter
	introspector *schema.Introspector
	dialect      store.Dialect
	logger       log.Logger
}

// New creates an executor. Catalog queries go through the same adapter as
// data queries. A nil logger discards output.
func New(adapter store.Adapter, dialect store.Dialect, logger log.Logger) *Executor {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Executor{
		adapter:      adapter,
		introspector: schema.NewIntrospector(adapter, schema.CatalogFor(dialect)),
		dialect:      dialect,
		logger:       logger,
	}
}

// Execute runs root and returns the shaped result: the returned rows of a
// root mutation, the value of a lone top-level relation, or a row keyed by
// relation type when there are several.
func (e *Executor) Execute(ctx context.Context, root *query.Relation) (any, error) {
	if root.IsMutation() {
		rows, err := e.mutate(ctx, root)
		if err != nil {
			return nil, err
		}
		return rows, nil
	}

	parent := store.NewRow()
	if err := e.resolve(ctx, root, "", []*store.Row{parent}); err != nil {
		return nil, err
	}

	if len(root.Relations) == 1 {
		v, _ := parent.Get(root.Relations[0].Type)
		return v, nil
	}
	return parent, nil
}

// mutate runs the root statement with a RETURNING clause and resolves the
// children against the returned rows.
func (e *Executor) mutate(ctx context.Context, root *query.Relation) ([]*store.Row, error) {
	if !e.dialect.Returning {
		return nil, fmt.Errorf("%s: %w", e.dialect.Name, ErrReturningUnsupported)
	}

	var columns []schema.Column
	if root.Table != "" {
		var err error
		columns, err = e.introspector.Columns(ctx, root.Table)
		if err != nil {
			return nil, err
		}
	}
	proj, err := Plan(e.dialect, columns, root)
	if err != nil {
		return nil, err
	}

	text := root.SQL + " RETURNING " + proj.SQL
	level.Debug(e.logger).Log("msg", "running mutation", "table", root.Table, "sql", text)
	rows, err := e.adapter.All(ctx, text, root.Variables...)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		row.Hide(proj.Shadow...)
	}

	if err := e.resolve(ctx, root, root.Table, rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*store.Row{}
	}
	return rows, nil
}

// resolve attaches every child of rel to each parent row. Parents are rows
// of table; an empty table means the parents are not scoped to any table
// and children select their whole table.
func (e *Executor) resolve(ctx context.Context, rel *query.Relation, table string, parents []*store.Row) error {
	if len(parents) == 0 {
		return nil
	}

	for _, child := range rel.Relations {
		if parents[0].Has(child.Type) {
			if err := e.filterJSON(child, parents); err != nil {
				return err
			}
			continue
		}
		if err := e.join(ctx, table, child, parents); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) filterJSON(child *query.Relation, parents []*store.Row) error {
	level.Debug(e.logger).Log("msg", "filtering json relation", "relation", child.Type, "parents", len(parents))

	for _, parent := range parents {
		v, _ := parent.Get(child.Type)

		var doc any
		switch v := v.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
			d, err := decodeDocument([]byte(v))
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", child.Type, err)
			}
			doc = d
		case []byte:
			if len(v) == 0 {
				continue
			}
			d, err := decodeDocument(v)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", child.Type, err)
			}
			doc = d
		default:
			doc = v
		}
		parent.Set(child.Type, Filter(doc, child))
	}
	return nil
}

// join resolves a table child for every parent with one prepared statement.
func (e *Executor) join(ctx context.Context, table string, child *query.Relation, parents []*store.Row) (err error) {
	column := child.Type + "Id"
	singular := parents[0].Has(column)
	scoped := table != ""

	target := schema.Join{Table: child.Type}
	if scoped {
		if singular {
			target, err = e.introspector.Singular(ctx, table, child.Type)
		} else {
			target, err = e.introspector.Plural(ctx, table, child.Type)
		}
		if err != nil {
			return err
		}
	}

	columns, err := e.introspector.Columns(ctx, target.Table)
	if err != nil {
		return err
	}
	proj, err := Plan(e.dialect, columns, child)
	if err != nil {
		return fmt.Errorf("%s: %w", child.Type, err)
	}

	text := "WITH temp AS (SELECT * FROM " + e.dialect.Quote(target.Table)
	if scoped {
		text += " WHERE " + e.dialect.Quote(target.Key) + " = ?"
	}
	text += ") SELECT " + proj.SQL + " FROM temp"
	if child.SQL != "" {
		text += " " + child.SQL
	}

	stmt, err := e.adapter.Prepare(ctx, text)
	if err != nil {
		return err
	}
	defer func() {
		if ferr := e.adapter.Finalize(stmt); ferr != nil && err == nil {
			err = ferr
		}
	}()
	level.Debug(e.logger).Log("msg", "prepared relation", "relation", child.Type, "table", target.Table,
		"singular", singular, "parents", len(parents), "sql", text)

	key := "id"
	if singular {
		key = column
	}
	for _, parent := range parents {
		args := make([]any, 0, len(child.Variables)+1)
		if scoped {
			v, _ := parent.Get(key)
			args = append(args, v)
		}
		args = append(args, child.Variables...)

		if singular {
			row, err := e.adapter.RunOne(ctx, stmt, args...)
			if err != nil {
				return err
			}
			if row == nil {
				parent.Set(child.Type, nil)
				continue
			}
			row.Hide(proj.Shadow...)
			if err := e.resolve(ctx, child, target.Table, []*store.Row{row}); err != nil {
				return err
			}
			parent.Set(child.Type, row)
			continue
		}

		rows, err := e.adapter.RunAll(ctx, stmt, args...)
		if err != nil {
			return err
		}
		for _, row := range rows {
			row.Hide(proj.Shadow...)
		}
		if err := e.resolve(ctx, child, target.Table, rows); err != nil {
			return err
		}
		if rows == nil {
			rows = []*store.Row{}
		}
		parent.Set(child.Type, rows)
	}
	return nil
}
