package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/subhero24/sql-graph-query/internal/config"
)

func TestConfigInitCreatesConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	env := mustSucceed(t, runJSON(t, "--config", cfgPath, "config", "init"))
	if diff := cmp.Diff(obj{"config_path": cfgPath, "created": true}, env.Data); diff != "" {
		t.Errorf("init data mismatch (-want +got):\n%s", diff)
	}

	content, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to read created config: %v", err)
	}
	if !strings.Contains(string(content), "# sgq configuration") {
		t.Fatalf("expected default config header in file, got:\n%s", string(content))
	}

	env = mustSucceed(t, runJSON(t, "--config", cfgPath, "config", "init"))
	if created := env.Data.(obj)["created"]; created != false {
		t.Errorf("second init created = %v, want false", created)
	}
}

func TestConfigPath(t *testing.T) {
	out, err := runCLI(t, "", "--config", "/tmp/sgq-test.toml", "config", "path")
	if err != nil {
		t.Fatalf("config path returned error: %v", err)
	}
	if strings.TrimSpace(out) != "/tmp/sgq-test.toml" {
		t.Errorf("config path = %q", out)
	}
}

func TestConfigSaveAndRemove(t *testing.T) {
	cfgPath := writeConfig(t, "driver = \"sqlite\"\n")
	text := "cars WHERE license = ${} {\n\tid\n}\n"

	mustSucceed(t, runJSON(t, "--config", cfgPath, "config", "save", "Car By License", text))

	saved, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"car-by-license": text}, saved.Queries); diff != "" {
		t.Errorf("saved queries mismatch (-want +got):\n%s", diff)
	}
	if saved.Driver != "sqlite" {
		t.Errorf("driver lost on save: %q", saved.Driver)
	}

	mustFail(t, runJSON(t, "--config", cfgPath, "config", "save", "broken", "cars {\n\tid\n"), ErrQueryInvalid)

	mustSucceed(t, runJSON(t, "--config", cfgPath, "config", "remove", "car_by_license"))
	mustFail(t, runJSON(t, "--config", cfgPath, "config", "remove", "car_by_license"), ErrQueryNotFound)

	saved, err = config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if len(saved.Queries) != 0 {
		t.Errorf("expected no saved queries, got %v", saved.Queries)
	}
}

func TestInvalidConfigReported(t *testing.T) {
	cfgPath := writeConfig(t, "driver = ")
	mustFail(t, runJSON(t, "--config", cfgPath, "query", "users {\n\tid\n}"), ErrConfigInvalid)
}

func TestInvalidLogLevelReported(t *testing.T) {
	cfgPath := writeConfig(t, "")
	mustFail(t, runJSON(t, "--config", cfgPath, "--log-level", "loud", "parse", "users {\n\tid\n}"), ErrInvalidInput)
}
