package cli

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/subhero24/sql-graph-query/internal/store"
)

// writeYAML writes v as a YAML document. Rows keep their column order and
// hide shadow columns.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// countResult returns how many top-level items a query result holds.
func countResult(v any) int {
	switch v := v.(type) {
	case nil:
		return 0
	case []*store.Row:
		return len(v)
	case []any:
		return len(v)
	default:
		return 1
	}
}
