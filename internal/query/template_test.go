package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTemplateInterpolations(t *testing.T) {
	tpl := New([]string{"users WHERE id = ", " AND name = ", " {\n\tid\n}"}, 1, "John")

	if got, want := tpl.Literal(), "users WHERE id =  AND name =  {\n\tid\n}"; got != want {
		t.Fatalf("Literal() = %q, want %q", got, want)
	}

	got, err := tpl.Interpolations()
	if err != nil {
		t.Fatalf("Interpolations() error: %v", err)
	}
	want := []Interpolation{
		{Value: 1, Offset: 17},
		{Value: "John", Offset: 29},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Interpolations() mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateInterpolationsMismatch(t *testing.T) {
	tpl := Template{Segments: []string{"a"}, Values: []any{1, 2}}
	if _, err := tpl.Interpolations(); err == nil {
		t.Fatal("expected error for segment/value mismatch")
	}
}

func TestSplit(t *testing.T) {
	tpl, err := Split("users WHERE id = ${} {\nid\n}", "", "1")
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if len(tpl.Segments) != 2 || tpl.Segments[0] != "users WHERE id = " {
		t.Errorf("unexpected segments %q", tpl.Segments)
	}

	if _, err := Split("users WHERE id = ${} {\n}", "", "1", "2"); err == nil {
		t.Error("expected error when values outnumber markers")
	}

	tpl, err = Split("users WHERE id = :: {\n}", "::", 7)
	if err != nil {
		t.Fatalf("Split() with custom marker error: %v", err)
	}
	if got := tpl.Values; len(got) != 1 || got[0] != 7 {
		t.Errorf("Values = %v, want [7]", got)
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []any
		ok   bool
	}{
		{name: "nil", in: nil, ok: false},
		{name: "string", in: "abc", ok: false},
		{name: "bytes", in: []byte("abc"), ok: false},
		{name: "int slice", in: []int{1, 2}, want: []any{1, 2}, ok: true},
		{name: "any slice", in: []any{"a", 2}, want: []any{"a", 2}, ok: true},
		{name: "array", in: [2]string{"a", "b"}, want: []any{"a", "b"}, ok: true},
		{name: "empty slice", in: []string{}, want: []any{}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sequence(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("sequence() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
