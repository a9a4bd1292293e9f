// Package version exposes build metadata stamped in via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/teranos/chimera/version.Version=v0.3.0 \
//	    -X github.com/teranos/chimera/version.CommitHash=$(git rev-parse HEAD) \
//	    -X github.com/teranos/chimera/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

// Info is the build metadata reported by the version command and the
// server's health endpoint.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current build's metadata.
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders a one-line description with an abbreviated commit.
func (i Info) String() string {
	commit := i.CommitHash
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("chimera %s (commit %s, built %s)", i.Version, commit, i.BuildTime)
}
