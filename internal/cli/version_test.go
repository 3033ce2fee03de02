package cli

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/subhero24/sql-graph-query/internal/buildinfo"
)

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	prevRead := readBuildInfo
	t.Cleanup(func() {
		readBuildInfo = prevRead
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.23.4",
			Main: debug.Module{
				Path:    "github.com/subhero24/sql-graph-query",
				Version: "v0.3.0",
			},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	info := currentVersionInfo()

	if info.Version != "v0.3.0" {
		t.Fatalf("Version = %q, want %q", info.Version, "v0.3.0")
	}
	if info.Commit != "abc123" {
		t.Fatalf("Commit = %q, want %q", info.Commit, "abc123")
	}
	if info.CommitTime != "2026-02-14T17:00:00Z" {
		t.Fatalf("CommitTime = %q, want %q", info.CommitTime, "2026-02-14T17:00:00Z")
	}
	if !info.Modified {
		t.Fatal("Modified = false, want true")
	}
	if info.GoVersion != "go1.23.4" {
		t.Fatalf("GoVersion = %q, want %q", info.GoVersion, "go1.23.4")
	}
}

func TestCurrentVersionInfoFallsBackToLdflags(t *testing.T) {
	prevRead := readBuildInfo
	prevVersion, prevCommit := buildinfo.Version, buildinfo.Commit
	t.Cleanup(func() {
		readBuildInfo = prevRead
		buildinfo.Version, buildinfo.Commit = prevVersion, prevCommit
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return nil, false
	}
	buildinfo.Version = "v1.0.0"
	buildinfo.Commit = "def456"

	info := currentVersionInfo()

	if info.Version != "v1.0.0" {
		t.Fatalf("Version = %q, want %q", info.Version, "v1.0.0")
	}
	if info.Commit != "def456" {
		t.Fatalf("Commit = %q, want %q", info.Commit, "def456")
	}
	if info.ModulePath != defaultModulePath {
		t.Fatalf("ModulePath = %q, want %q", info.ModulePath, defaultModulePath)
	}
	if info.GoVersion != runtime.Version() {
		t.Fatalf("GoVersion = %q, want runtime %q", info.GoVersion, runtime.Version())
	}
}

func TestVersionCommandJSON(t *testing.T) {
	env := mustSucceed(t, runJSON(t, "version"))
	if _, ok := env.Data.(obj)["version"].(string); !ok {
		t.Errorf("expected version string, got %v", env.Data)
	}
}
