package version

import (
	"regexp"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_FollowsSemverOrDev(t *testing.T) {
	require.NotEmpty(t, Version)
	if Version == "dev" {
		return
	}
	semverRegex := regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	assert.True(t, semverRegex.MatchString(Version), "Version should follow semver format, got: %s", Version)
}

func TestString_IncludesBuildInfo(t *testing.T) {
	// Given: injected build info
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = "1.2.3", "abc1234", "2026-01-01T00:00:00Z"

	// When/Then: the usage line carries every field
	assert.Equal(t,
		"sniff 1.2.3 (commit: abc1234, built: 2026-01-01T00:00:00Z, go: "+runtime.Version()+")",
		String())
	assert.Equal(t, "1.2.3", Short())
}
