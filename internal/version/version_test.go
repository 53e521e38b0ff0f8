package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	s := String()
	require.Contains(t, s, "blogbuilder v1.2.3")
	require.Contains(t, s, "commit "+GitCommit)
}

func TestBuildInfoInitialized(t *testing.T) {
	require.NotEmpty(t, Version)
	require.NotEmpty(t, BuildTime)
	require.NotEmpty(t, GitCommit)
}
