package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `driver = "postgres"
dsn = "postgres://localhost/garage"
log_level = "debug"
audit_log = "mutations.log"

[queries]
"Active Users" = "users {\n\tname\n}"

[ui]
accent = "39"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	want := &Config{
		Driver:   "postgres",
		DSN:      "postgres://localhost/garage",
		LogLevel: "debug",
		AuditLog: "mutations.log",
		Queries:  map[string]string{"Active Users": "users {\n\tname\n}"},
		UI:       UIConfig{Accent: "39"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadFrom() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("driver = "), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSavedQuery(t *testing.T) {
	cfg := &Config{Queries: map[string]string{
		"Active Users":       "users { name }",
		"reports/car_owners": "cars { license }",
	}}

	tests := []struct {
		name   string
		lookup string
		want   string
		found  bool
	}{
		{name: "exact key", lookup: "Active Users", want: "users { name }", found: true},
		{name: "slug form", lookup: "active-users", want: "users { name }", found: true},
		{name: "underscores", lookup: "active_users", want: "users { name }", found: true},
		{name: "grouped", lookup: "Reports/Car Owners", want: "cars { license }", found: true},
		{name: "file extension", lookup: "reports/car-owners.sgq", want: "cars { license }", found: true},
		{name: "missing", lookup: "nope", found: false},
		{name: "empty", lookup: "  ", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cfg.SavedQuery(tt.lookup)
			if ok != tt.found {
				t.Fatalf("SavedQuery(%q) found = %v, want %v", tt.lookup, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("SavedQuery(%q) = %q, want %q", tt.lookup, got, tt.want)
			}
		})
	}

	if diff := cmp.Diff([]string{"active-users", "reports/car-owners"}, cfg.QueryNames()); diff != "" {
		t.Errorf("QueryNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetAndDeleteQuery(t *testing.T) {
	cfg := &Config{Queries: map[string]string{"Active Users": "old"}}

	if err := cfg.SetQuery("active_users", "new"); err != nil {
		t.Fatalf("SetQuery() error: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"active-users": "new"}, cfg.Queries); diff != "" {
		t.Errorf("Queries mismatch (-want +got):\n%s", diff)
	}

	if err := cfg.SetQuery("///", "x"); err == nil {
		t.Error("expected error for empty name")
	}

	if !cfg.DeleteQuery("Active Users") {
		t.Error("DeleteQuery() = false, want true")
	}
	if cfg.DeleteQuery("Active Users") {
		t.Error("second DeleteQuery() = true, want false")
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath(" /tmp/sgq.toml "); got != "/tmp/sgq.toml" {
		t.Errorf("ResolveConfigPath() = %q", got)
	}
	if got := ResolveConfigPath(""); got != DefaultPath() {
		t.Errorf("ResolveConfigPath(\"\") = %q, want default %q", got, DefaultPath())
	}
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	created, err := CreateDefault(path)
	if err != nil {
		t.Fatalf("CreateDefault() error: %v", err)
	}
	if !created {
		t.Fatal("CreateDefault() created = false on first call")
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	if cfg.Driver != "sqlite" {
		t.Errorf("Driver = %q, want sqlite", cfg.Driver)
	}

	created, err = CreateDefault(path)
	if err != nil || created {
		t.Errorf("second CreateDefault() = %v, %v; want false, nil", created, err)
	}
}
