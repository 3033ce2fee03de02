package schema

import (
	"context"
	"fmt"

	"github.com/subhero24/sql-graph-query/internal/store"
)

// Column is a table column as declared in the store.
type Column struct {
	Name string
	Type string
	// Text is true when the column can hold a JSON document as text.
	Text bool
}

// ForeignKey is one column of a foreign key declared on a table: From on the
// declaring table references To on Table. To is empty when the store leaves
// the referenced column implicit.
type ForeignKey struct {
	From  string
	Table string
	To    string
}

// Join scopes a child query: rows of Table whose Key column equals the
// parent's join value.
type Join struct {
	Table string
	Key   string
}

// Introspector queries column and foreign key metadata through an adapter.
// Nothing is cached; every call goes to the store.
type Introspector struct {
	adapter store.Adapter
	catalog Catalog
}

// NewIntrospector creates an introspector issuing catalog queries through
// adapter.
func NewIntrospector(adapter store.Adapter, catalog Catalog) *Introspector {
	return &Introspector{adapter: adapter, catalog: catalog}
}

// Columns returns the columns of table in declaration order. An unknown
// table yields no columns.
func (in *Introspector) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := in.adapter.All(ctx, in.catalog.Columns, table)
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(rows))
	for _, row := range rows {
		typ := stringValue(row, "type")
		columns = append(columns, Column{
			Name: stringValue(row, "name"),
			Type: typ,
			Text: in.catalog.isText(typ),
		})
	}
	return columns, nil
}

// ForeignKeys returns the foreign key columns declared on table.
func (in *Introspector) ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := in.adapter.All(ctx, in.catalog.ForeignKeys, table)
	if err != nil {
		return nil, err
	}

	keys := make([]ForeignKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, ForeignKey{
			From:  stringValue(row, "from"),
			Table: stringValue(row, "table"),
			To:    stringValue(row, "to"),
		})
	}
	return keys, nil
}

// Singular resolves a has-one child: the foreign key on parentTable whose
// source column is childType+"Id". The child rows come from the referenced
// table, keyed on the referenced column.
func (in *Introspector) Singular(ctx context.Context, parentTable, childType string) (Join, error) {
	keys, err := in.ForeignKeys(ctx, parentTable)
	if err != nil {
		return Join{}, err
	}

	column := childType + "Id"
	for _, fk := range keys {
		if fk.From != column {
			continue
		}
		key := fk.To
		if key == "" {
			key = "id"
		}
		return Join{Table: fk.Table, Key: key}, nil
	}
	return Join{}, &RelationError{Kind: NotFound, From: parentTable, To: childType}
}

// Plural resolves a has-many child: the single foreign key on childTable
// referencing parentTable. The child rows are keyed on its source column.
func (in *Introspector) Plural(ctx context.Context, parentTable, childTable string) (Join, error) {
	keys, err := in.ForeignKeys(ctx, childTable)
	if err != nil {
		return Join{}, err
	}

	var matches []ForeignKey
	for _, fk := range keys {
		if fk.Table == parentTable {
			matches = append(matches, fk)
		}
	}

	switch len(matches) {
	case 0:
		return Join{}, &RelationError{Kind: NotFound, From: childTable, To: parentTable}
	case 1:
		return Join{Table: childTable, Key: matches[0].From}, nil
	default:
		candidates := make([]string, len(matches))
		for i, fk := range matches {
			candidates[i] = fk.From
		}
		return Join{}, &RelationError{Kind: Ambiguous, From: childTable, To: parentTable, Candidates: candidates}
	}
}

func stringValue(row *store.Row, key string) string {
	v, ok := row.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
