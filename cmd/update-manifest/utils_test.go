package main

import (
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/require"

	"github.com/packager-dev/updater/api/release"
	"github.com/packager-dev/updater/internal/target"
)

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "latest.json")

	err := writeOutput(path, func(w io.Writer) error {
		_, err := w.Write([]byte("{}"))

		return err
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{}", string(content))

	// Failed writes don't leave partial files behind.
	failed := filepath.Join(t.TempDir(), "failed.json")

	err = writeOutput(failed, func(w io.Writer) error {
		_, _ = w.Write([]byte("{"))

		return errors.New("boom")
	})
	require.Error(t, err)
	require.NoFileExists(t, failed)
}

func TestNormalizeTarget(t *testing.T) {
	t.Parallel()

	identifier, err := normalizeTarget("linux-amd64")
	require.NoError(t, err)
	require.Equal(t, "linux-x86_64", identifier)

	identifier, err = normalizeTarget("darwin-aarch64")
	require.NoError(t, err)
	require.Equal(t, "darwin-aarch64", identifier)

	_, err = normalizeTarget("linux")
	require.ErrorIs(t, err, target.ErrInvalidTarget)
}

func TestSelectTarget(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("https://example.com/app.tar.gz")
	require.NoError(t, err)

	r := release.Release{
		Version: semver.MustParse("1.0.0"),
		Distribution: release.PerPlatform{Platforms: map[string]release.Platform{
			"linux-x86_64": {URL: u, Signature: "sig", Format: release.UpdateFormatArchiveUpdate},
		}},
	}

	selected, err := selectTarget(r, "linux-x86_64")
	require.NoError(t, err)
	require.Nil(t, selected.Targets())

	artifact, err := selected.Artifact("anything")
	require.NoError(t, err)
	require.Equal(t, "sig", artifact.Signature)

	_, err = selectTarget(r, "windows-x86_64")
	require.ErrorIs(t, err, release.ErrTargetNotFound)
}

func TestFormatSection(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Description:\n  a\n\n  b\n\n", formatSection("Description", "a\n\nb"))
	require.Equal(t, "  a", formatSection("", "a"))
}
