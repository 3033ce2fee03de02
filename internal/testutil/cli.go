package testutil

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// binaryPath caches the path to the built sgq binary.
	binaryPath string
	buildMu    sync.Mutex
	buildErr   error
)

// CLIResult is the decoded JSON envelope of one sgq invocation.
type CLIResult struct {
	OK       bool
	Data     any
	Error    *CLIError
	Meta     *CLIMeta
	RawJSON  string
	ExitCode int
}

// CLIError represents a structured error from the CLI.
type CLIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CLIMeta contains metadata from the response.
type CLIMeta struct {
	Count       int   `json:"count,omitempty"`
	Statements  int   `json:"statements,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

// BuildCLI builds the sgq binary once per test process and returns its
// path.
func BuildCLI(t *testing.T) string {
	t.Helper()

	buildMu.Lock()
	defer buildMu.Unlock()

	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err == nil {
			return binaryPath
		}
		binaryPath = ""
		buildErr = nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		buildErr = err
	} else if tmpDir, err := os.MkdirTemp("", "sgq-cli-bin-*"); err != nil {
		buildErr = err
	} else {
		binName := "sgq"
		if runtime.GOOS == "windows" {
			binName = "sgq.exe"
		}
		binaryPath = filepath.Join(tmpDir, binName)
		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/sgq")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			buildErr = &BuildError{Output: string(output), Err: err}
			binaryPath = ""
		}
	}

	if buildErr != nil {
		t.Fatalf("failed to build CLI: %v", buildErr)
	}
	return binaryPath
}

// BuildError represents an error building the CLI binary.
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return e.Err.Error() + "\n" + e.Output
}

// findProjectRoot walks up the directory tree to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// RunCLI runs sgq against the database with --json and an empty config
// file, and decodes the response. The database must be built OnDisk.
func (d *TestDB) RunCLI(args ...string) *CLIResult {
	d.t.Helper()
	return d.RunCLIWithStdin("", args...)
}

// RunCLIWithStdin is RunCLI with stdin input.
func (d *TestDB) RunCLIWithStdin(stdin string, args ...string) *CLIResult {
	d.t.Helper()

	binary := BuildCLI(d.t)

	configPath := filepath.Join(d.t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, nil, 0o644); err != nil {
		d.t.Fatalf("failed to write config: %v", err)
	}

	cmdArgs := []string{"--config", configPath, "--driver", d.Dialect.Name, "--dsn", d.DSN, "--json"}
	cmd := exec.Command(binary, append(cmdArgs, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	output, err := cmd.Output()

	result := &CLIResult{RawJSON: string(output)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	var resp struct {
		OK    bool      `json:"ok"`
		Data  any       `json:"data,omitempty"`
		Error *CLIError `json:"error,omitempty"`
		Meta  *CLIMeta  `json:"meta,omitempty"`
	}
	if err := json.Unmarshal(output, &resp); err != nil {
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse JSON output: " + err.Error() + "\n" + string(output),
		}
		return result
	}

	result.OK = resp.OK
	result.Data = resp.Data
	result.Error = resp.Error
	result.Meta = resp.Meta
	return result
}

// MustSucceed fails the test if the CLI command did not succeed.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		errMsg := "unknown error"
		if r.Error != nil {
			errMsg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got error: %s\nRaw output: %s", errMsg, r.RawJSON)
	}
	return r
}

// MustFail fails the test if the CLI command did not fail with the expected
// code and a non-zero exit status.
func (r *CLIResult) MustFail(t *testing.T, expectedCode string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail with code %s, but it succeeded\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error == nil || r.Error.Code != expectedCode {
		t.Fatalf("expected error code %s, got %+v\nRaw output: %s", expectedCode, r.Error, r.RawJSON)
	}
	if r.ExitCode == 0 {
		t.Fatalf("expected non-zero exit code for %s", expectedCode)
	}
	return r
}
