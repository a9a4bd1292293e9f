package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestStringAbbreviatesCommit(t *testing.T) {
	info := Info{Version: "v0.3.0", CommitHash: "0123456789abcdef", BuildTime: "2026-08-26T00:00:00Z"}
	assert.Equal(t, "chimera v0.3.0 (commit 0123456, built 2026-08-26T00:00:00Z)", info.String())

	dev := Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}
	assert.Equal(t, "chimera dev (commit dev, built unknown)", dev.String())
}
