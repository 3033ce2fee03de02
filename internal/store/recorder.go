package store

import "context"

// Recorded is one store call captured by a Recorder.
type Recorded struct {
	Kind string // "all", "prepare", "run" or "finalize"
	SQL  string
	Args []any
}

// Recorder wraps an Adapter and records every call made through it.
type Recorder struct {
	Adapter
	Calls []Recorded
}

// NewRecorder wraps adapter.
func NewRecorder(adapter Adapter) *Recorder {
	return &Recorder{Adapter: adapter}
}

func (r *Recorder) All(ctx context.Context, query string, args ...any) ([]*Row, error) {
	r.record("all", query, args)
	return r.Adapter.All(ctx, query, args...)
}

func (r *Recorder) Prepare(ctx context.Context, query string) (Statement, error) {
	r.record("prepare", query, nil)
	return r.Adapter.Prepare(ctx, query)
}

func (r *Recorder) RunAll(ctx context.Context, stmt Statement, args ...any) ([]*Row, error) {
	r.record("run", stmt.SQL(), args)
	return r.Adapter.RunAll(ctx, stmt, args...)
}

func (r *Recorder) RunOne(ctx context.Context, stmt Statement, args ...any) (*Row, error) {
	r.record("run", stmt.SQL(), args)
	return r.Adapter.RunOne(ctx, stmt, args...)
}

func (r *Recorder) Finalize(stmt Statement) error {
	r.record("finalize", stmt.SQL(), nil)
	return r.Adapter.Finalize(stmt)
}

// Count returns how many calls of the given kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) record(kind, query string, args []any) {
	r.Calls = append(r.Calls, Recorded{Kind: kind, SQL: query, Args: append([]any(nil), args...)})
}
