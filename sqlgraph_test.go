package sqlgraph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	sqlgraph "github.com/subhero24/sql-graph-query"
	"github.com/subhero24/sql-graph-query/internal/testutil"
)

type obj = map[string]any
type arr = []any

func TestQuery(t *testing.T) {
	db := testutil.NewTestDB(t).WithSQL(testutil.GarageSQL).Build()
	ctx := context.Background()

	got, err := sqlgraph.Query(ctx, db.Adapter(), db.Dialect,
		[]string{"users WHERE name = ", " {\n\tname\n\tcars WHERE id IN (", ") {\n\t\tlicense\n\t\tbrand {\n\t\t\tname\n\t\t}\n\t}\n}"},
		"John", []string{"2"})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}

	want := arr{obj{
		"name": "John",
		"cars": arr{obj{"license": "XYZ-987", "brand": obj{"name": "Volkswagen"}}},
	}}
	if diff := cmp.Diff(want, sqlgraph.Public(got)); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryMutation(t *testing.T) {
	db := testutil.NewTestDB(t).WithSQL(testutil.GarageSQL).Build()

	got, err := sqlgraph.Query(context.Background(), db.Adapter(), db.Dialect,
		[]string{"UPDATE cars SET license = ", " WHERE id = ", " {\n\tlicense\n\tuser {\n\t\tname\n\t}\n}"},
		"NEW-001", "1")
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}

	want := arr{obj{"license": "NEW-001", "user": obj{"name": "John"}}}
	if diff := cmp.Diff(want, sqlgraph.Public(got)); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryErrors(t *testing.T) {
	db := testutil.NewTestDB(t).WithSQL(testutil.GarageSQL).Build()
	ctx := context.Background()

	_, err := sqlgraph.Query(ctx, db.Adapter(), db.Dialect, []string{"users {\n\tname\n"})
	var parseErr *sqlgraph.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected ParseError, got %v", err)
	}

	_, err = sqlgraph.Query(ctx, db.Adapter(), db.Dialect, []string{"brands {\n\tusers {\n\t\tname\n\t}\n}"})
	if !errors.Is(err, sqlgraph.ErrRelationNotFound) {
		t.Errorf("expected ErrRelationNotFound, got %v", err)
	}
}

func TestParseAndExecute(t *testing.T) {
	db := testutil.NewTestDB(t).WithSQL(testutil.GarageSQL).Build()

	root, err := sqlgraph.ParseString("users ORDER BY name {\n\tname\n}\nbrands ORDER BY name {\n\tname\n}")
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	got, err := sqlgraph.Execute(context.Background(), db.Adapter(), db.Dialect, root)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := obj{
		"users":  arr{obj{"name": "John"}, obj{"name": "Peter"}},
		"brands": arr{obj{"name": "Chevrolet"}, obj{"name": "Volkswagen"}},
	}
	if diff := cmp.Diff(want, sqlgraph.Public(got)); diff != "" {
		t.Errorf("Execute() mismatch (-want +got):\n%s", diff)
	}
}
