package audit

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/subhero24/sql-graph-query/internal/query"
)

func TestLogMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "audit.log")
	logger := New(path)

	root, err := query.Parse(query.New([]string{"INSERT INTO brands (id, name) VALUES (", ", ", ") {\n\tid\n}"}, "3", "Tesla"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := logger.LogMutation(root, 1); err != nil {
		t.Fatalf("LogMutation() error: %v", err)
	}

	list, err := query.ParseString("brands {\n\tid\n}")
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	if err := logger.LogMutation(list, 2); err != nil {
		t.Fatalf("LogMutation() error: %v", err)
	}

	entries, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	want := []Entry{{
		Operation: "insert",
		Table:     "brands",
		SQL:       "INSERT INTO brands (id, name) VALUES (?, ?)",
		Args:      []any{"3", "Tesla"},
		Rows:      1,
	}}
	if diff := cmp.Diff(want, entries, cmpopts.IgnoreFields(Entry{}, "Timestamp")); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestDisabledLogger(t *testing.T) {
	logger := New("  ")
	if logger.Enabled() {
		t.Fatal("expected logger to be disabled")
	}
	if err := logger.Log(Entry{Operation: "update"}); err != nil {
		t.Fatalf("Log() error: %v", err)
	}
}

func TestReadMissing(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "audit.log"))
	if err != nil || entries != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", entries, err)
	}
}
