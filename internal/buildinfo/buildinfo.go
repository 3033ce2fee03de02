// Package buildinfo holds release metadata stamped at link time:
//
//	go build -ldflags "-X github.com/subhero24/sql-graph-query/internal/buildinfo.Version=v0.3.0"
package buildinfo

// Empty for local builds; the version command then falls back to the
// module build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
