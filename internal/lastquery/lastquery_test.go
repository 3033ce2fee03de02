package lastquery

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()

	lq := &LastQuery{
		Source:    "reports/owners",
		Blocks:    []string{"users WHERE name = ${} {\n\tname\n}\n"},
		Args:      []string{"John"},
		Marker:    "${}",
		Timestamp: time.Date(2026, 1, 25, 9, 30, 0, 0, time.UTC),
	}
	if err := Write(dir, lq); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if diff := cmp.Diff(lq, got); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSetsTimestamp(t *testing.T) {
	dir := t.TempDir()
	before := time.Now().UTC().Add(-time.Second)

	if err := Write(dir, &LastQuery{Source: "inline", Blocks: []string{"users {\n\tid\n}"}}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got.Timestamp.Before(before) {
		t.Errorf("timestamp %v not set on write", got.Timestamp)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(t.TempDir()); !errors.Is(err, ErrNoLastQuery) {
		t.Fatalf("expected ErrNoLastQuery, got %v", err)
	}
}

func TestReadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Read(dir)
	if err == nil || errors.Is(err, ErrNoLastQuery) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
