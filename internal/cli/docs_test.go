package cli

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestListDocsTopics(t *testing.T) {
	fsys := fstest.MapFS{
		"b.md":      {Data: []byte("intro\n# Second topic\n")},
		"a.md":      {Data: []byte("# First topic\n\nbody\n")},
		"plain.md":  {Data: []byte("no heading\n")},
		"notes.txt": {Data: []byte("# ignored\n")},
	}

	got, err := listDocsTopics(fsys)
	if err != nil {
		t.Fatalf("listDocsTopics() error: %v", err)
	}
	want := []docsTopic{
		{ID: "a", Title: "First topic", Path: "a.md"},
		{ID: "b", Title: "Second topic", Path: "b.md"},
		{ID: "plain", Title: "plain", Path: "plain.md"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listDocsTopics() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := findDocsTopic(got, " B.md "); !ok {
		t.Error("expected topic lookup to ignore case and extension")
	}
}

func TestDocsCommand(t *testing.T) {
	flags := []string{"--config", writeConfig(t, "")}

	env := mustSucceed(t, runJSON(t, append(flags, "docs")...))
	if env.Meta == nil || env.Meta.Count == 0 {
		t.Fatalf("expected bundled topics, got %+v", env.Meta)
	}

	env = mustSucceed(t, runJSON(t, append(flags, "docs", "relations")...))
	content, _ := env.Data.(obj)["content"].(string)
	if !strings.HasPrefix(content, "# Relations") {
		t.Errorf("unexpected content:\n%s", content)
	}

	mustFail(t, runJSON(t, append(flags, "docs", "missing")...), ErrInvalidInput)
}
