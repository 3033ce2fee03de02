// Package audit provides an append-only log of the mutations sgq runs.
package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/subhero24/sql-graph-query/internal/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is one executed mutation.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Operation string    `json:"op"` // insert, update or replace
	Table     string    `json:"table,omitempty"`
	SQL       string    `json:"sql"`
	Args      []any     `json:"args,omitempty"`
	Rows      int       `json:"rows"`
}

// Logger appends entries to a JSON lines file.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New creates a logger writing to path. An empty path disables logging.
func New(path string) *Logger {
	path = strings.TrimSpace(path)
	return &Logger{path: path, enabled: path != ""}
}

// Enabled reports whether entries are written anywhere.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Log appends entry, stamping it with the current time if unset.
func (l *Logger) Log(entry Entry) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// LogMutation records a root mutation and the number of rows it returned.
// Other queries are ignored.
func (l *Logger) LogMutation(root *query.Relation, rows int) error {
	if !root.IsMutation() {
		return nil
	}

	op := root.SQL
	if i := strings.IndexFunc(op, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }); i >= 0 {
		op = op[:i]
	}
	return l.Log(Entry{
		Operation: strings.ToLower(op),
		Table:     root.Table,
		SQL:       root.SQL,
		Args:      root.Variables,
		Rows:      rows,
	})
}

// Read returns every entry in the log at path, oldest first. A missing log
// has no entries.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		if len(strings.TrimSpace(scanner.Text())) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("audit log line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return entries, nil
}
