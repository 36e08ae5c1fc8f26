package target_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packager-dev/updater/internal/target"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	id, err := target.Format("linux", "amd64")
	require.NoError(t, err)
	require.Equal(t, "linux-x86_64", id)

	id, err = target.Format("darwin", "arm64")
	require.NoError(t, err)
	require.Equal(t, "darwin-aarch64", id)

	id, err = target.Format("windows", "x86_64")
	require.NoError(t, err)
	require.Equal(t, "windows-x86_64", id)

	_, err = target.Format("linux", "not-an-arch")
	require.Error(t, err)
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	id, err := target.Current()
	require.NoError(t, err)

	goos, arch, err := target.Parse(id)
	require.NoError(t, err)
	require.NotEmpty(t, goos)
	require.NotEmpty(t, arch)
	require.True(t, strings.HasPrefix(id, goos+"-"))
}

func TestParse(t *testing.T) {
	t.Parallel()

	goos, arch, err := target.Parse("windows-x86_64")
	require.NoError(t, err)
	require.Equal(t, "windows", goos)
	require.Equal(t, "x86_64", arch)

	for _, id := range []string{"", "linux", "-x86_64", "linux-"} {
		_, _, err = target.Parse(id)
		require.ErrorIs(t, err, target.ErrInvalidTarget, id)
	}
}
