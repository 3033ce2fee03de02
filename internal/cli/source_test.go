package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractCodeBlocks(t *testing.T) {
	doc := "# Fleet\n\nIntro text.\n\n```sgq\nusers {\n\tname\n}\n```\n\n```sql\nSELECT 1;\n```\n\nMore text.\n\n~~~SGQ\ncars {\n\tlicense\n}\n~~~\n"

	got := extractCodeBlocks([]byte(doc), codeBlockLanguage)
	want := []string{
		"users {\n\tname\n}\n",
		"cars {\n\tlicense\n}\n",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("extractCodeBlocks() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCodeBlocksNone(t *testing.T) {
	if got := extractCodeBlocks([]byte("no code here\n"), codeBlockLanguage); len(got) != 0 {
		t.Errorf("expected no blocks, got %q", got)
	}
}

func TestIsMarkdown(t *testing.T) {
	tests := map[string]bool{
		"report.md":       true,
		"REPORT.MARKDOWN": true,
		"query.sgq":       false,
		"notes":           false,
	}
	for path, want := range tests {
		if got := isMarkdown(path); got != want {
			t.Errorf("isMarkdown(%q) = %v, want %v", path, got, want)
		}
	}
}
