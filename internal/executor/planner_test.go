package executor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/subhero24/sql-graph-query/internal/query"
	"github.com/subhero24/sql-graph-query/internal/schema"
	"github.com/subhero24/sql-graph-query/internal/store"
)

func TestPlan(t *testing.T) {
	cars := []schema.Column{
		{Name: "id", Type: "TEXT", Text: true},
		{Name: "license", Type: "TEXT", Text: true},
		{Name: "brandId", Type: "TEXT", Text: true},
		{Name: "specs", Type: "TEXT", Text: true},
		{Name: "year", Type: "INTEGER"},
	}

	tests := []struct {
		name    string
		dialect store.Dialect
		rel     *query.Relation
		want    Projection
	}{
		{
			name:    "plain columns",
			dialect: store.SQLite,
			rel:     &query.Relation{Attributes: []string{"license", "year"}},
			want:    Projection{SQL: `"license","year"`},
		},
		{
			name:    "expressions pass through",
			dialect: store.SQLite,
			rel:     &query.Relation{Attributes: []string{"COUNT(*) AS length", "license"}},
			want:    Projection{SQL: `COUNT(*) AS length,"license"`},
		},
		{
			name:    "singular join column is shadowed",
			dialect: store.SQLite,
			rel: &query.Relation{
				Attributes: []string{"license"},
				Relations:  []*query.Relation{{Type: "brand"}},
			},
			want: Projection{SQL: `"brandId","license"`, Shadow: []string{"brandId"}},
		},
		{
			name:    "plural join column falls back to id",
			dialect: store.SQLite,
			rel: &query.Relation{
				Attributes: []string{"license"},
				Relations:  []*query.Relation{{Type: "owners"}, {Type: "drivers"}},
			},
			want: Projection{SQL: `"id","license"`, Shadow: []string{"id"}},
		},
		{
			name:    "requested join column is not shadowed",
			dialect: store.SQLite,
			rel: &query.Relation{
				Attributes: []string{"license", "id"},
				Relations:  []*query.Relation{{Type: "owners"}},
			},
			want: Projection{SQL: `"id","license"`},
		},
		{
			name:    "json column",
			dialect: store.SQLite,
			rel: &query.Relation{
				Attributes: []string{"specs"},
				Relations:  []*query.Relation{{Type: "specs", Attributes: []string{"*"}}},
			},
			want: Projection{SQL: `"specs"`},
		},
		{
			name:    "non text column is not json",
			dialect: store.SQLite,
			rel: &query.Relation{
				Relations: []*query.Relation{{Type: "year"}},
			},
			want: Projection{SQL: `"id"`, Shadow: []string{"id"}},
		},
		{
			name:    "mysql quoting",
			dialect: store.MySQL,
			rel: &query.Relation{
				Attributes: []string{"license"},
				Relations:  []*query.Relation{{Type: "brand"}},
			},
			want: Projection{SQL: "`brandId`,`license`", Shadow: []string{"brandId"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.dialect, cars, tt.rel)
			if err != nil {
				t.Fatalf("Plan() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanEmpty(t *testing.T) {
	_, err := Plan(store.SQLite, nil, &query.Relation{Type: "users"})
	if !errors.Is(err, ErrNoAttributes) {
		t.Errorf("expected ErrNoAttributes, got %v", err)
	}
}
