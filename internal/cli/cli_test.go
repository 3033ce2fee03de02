package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/subhero24/sql-graph-query/internal/testutil"
)

// envelope mirrors Response with untyped data for assertions.
type envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data"`
	Error *ErrorInfo `json:"error"`
	Meta  *Meta      `json:"meta"`
}

// resetCLIState restores every flag and package-level value a previous
// command may have set.
func resetCLIState() {
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.PersistentFlags(), c.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Value.Type() != "stringArray" {
					_ = f.Value.Set(f.DefValue)
				}
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)

	queryArgs = nil
	cfg = nil
	resolvedConfigPath = ""
	logger = log.NewNopLogger()
}

// runCLI executes the root command in-process and returns what it wrote to
// stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetCLIState()
	t.Cleanup(resetCLIState)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// runJSON runs a command with --json and decodes the envelope.
func runJSON(t *testing.T, args ...string) envelope {
	t.Helper()
	out, _ := runCLI(t, "", append([]string{"--json"}, args...)...)

	var env envelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("failed to decode JSON output: %v\n%s", err, out)
	}
	return env
}

// garage creates an on-disk garage database and an empty config file, and
// returns the global flags pointing at both.
func garage(t *testing.T) (*testutil.TestDB, []string) {
	t.Helper()
	db := testutil.NewTestDB(t).WithSQL(testutil.GarageSQL).OnDisk().Build()
	return db, []string{"--config", writeConfig(t, ""), "--driver", "sqlite", "--dsn", db.DSN}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func mustSucceed(t *testing.T, env envelope) envelope {
	t.Helper()
	if !env.OK {
		msg := "unknown error"
		if env.Error != nil {
			msg = env.Error.Code + ": " + env.Error.Message
		}
		t.Fatalf("expected command to succeed, got %s", msg)
	}
	return env
}

func mustFail(t *testing.T, env envelope, code string) envelope {
	t.Helper()
	if env.OK {
		t.Fatalf("expected command to fail with %s, but it succeeded", code)
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("expected error code %s, got %+v", code, env.Error)
	}
	return env
}
