// Package buildinfo holds the version stamped into a release binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/treetable/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/treetable/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/treetable/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/treetable
package buildinfo

import "fmt"

var (
	// Version is the semantic version, "dev" for local builds.
	Version = "dev"

	Commit = "none"    // git SHA
	Date   = "unknown" // RFC 3339 build time
)

// Template is the cobra version template, e.g.
// "treetable v0.3.0 (commit 1a2b3c4, built 2026-01-02T03:04:05Z)".
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}

// Short returns the version with the abbreviated commit, e.g. "v0.3.0+1a2b3c4".
// Local builds without ldflags report "dev".
func Short() string {
	if Commit == "none" || Commit == "" {
		return Version
	}
	c := Commit
	if len(c) > 7 {
		c = c[:7]
	}
	return Version + "+" + c
}
