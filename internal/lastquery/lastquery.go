// Package lastquery remembers the most recent query run so it can be run
// again with 'sgq query --last'.
package lastquery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/subhero24/sql-graph-query/internal/atomicfile"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileName is the state file written next to the config file.
const FileName = "last-query.json"

// LastQuery is the query text and raw values of the most recent run.
type LastQuery struct {
	// Source names where the query came from: "inline", "stdin", a file
	// path or a saved query name.
	Source    string    `json:"source"`
	Blocks    []string  `json:"blocks"`
	Args      []string  `json:"args,omitempty"`
	Marker    string    `json:"marker,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrNoLastQuery is returned by Read when nothing has been recorded.
var ErrNoLastQuery = errors.New("no last query available")

// Path returns the path of the state file in dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Write records lq in dir, replacing the previous one.
func Write(dir string, lq *LastQuery) error {
	if lq.Timestamp.IsZero() {
		lq.Timestamp = time.Now().UTC()
	}

	data, err := json.MarshalIndent(lq, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last query: %w", err)
	}
	if err := atomicfile.WriteFile(Path(dir), data, 0o600); err != nil {
		return fmt.Errorf("failed to write last query: %w", err)
	}
	return nil
}

// Read loads the query recorded in dir.
func Read(dir string) (*LastQuery, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLastQuery
		}
		return nil, fmt.Errorf("failed to read last query: %w", err)
	}

	var lq LastQuery
	if err := json.Unmarshal(data, &lq); err != nil {
		return nil, fmt.Errorf("failed to parse last query: %w", err)
	}
	if len(lq.Blocks) == 0 {
		return nil, ErrNoLastQuery
	}
	return &lq, nil
}
