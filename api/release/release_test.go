package release_test

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/require"

	"github.com/packager-dev/updater/api/release"
)

func TestArtifact(t *testing.T) {
	t.Parallel()

	r := platformsRelease(t)

	p, err := r.Artifact("windows-x86_64")
	require.NoError(t, err)
	require.Equal(t, release.UpdateFormatNSIS, p.Format)

	_, err = r.Artifact("darwin-aarch64")
	require.ErrorIs(t, err, release.ErrTargetNotFound)

	// A single artifact serves every target.
	s := singleRelease(t)

	p, err = s.Artifact("darwin-aarch64")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a.pkg", p.URL.String())
	require.Nil(t, s.Targets())

	// No distribution at all.
	empty := release.Release{Version: semver.MustParse("1.0.0")}

	_, err = empty.Artifact("linux-x86_64")
	require.ErrorIs(t, err, release.ErrTargetNotFound)
}

func TestUpdateFormat(t *testing.T) {
	t.Parallel()

	var f release.UpdateFormat

	err := f.UnmarshalText([]byte("wix"))
	require.NoError(t, err)
	require.Equal(t, release.UpdateFormatWiX, f)
	require.True(t, f.IsKnown())

	err = f.UnmarshalText([]byte("msix"))
	require.NoError(t, err)
	require.Equal(t, "msix", f.String())
	require.False(t, f.IsKnown())

	err = f.UnmarshalText(nil)
	require.Error(t, err)
}

func TestPlatformJSON(t *testing.T) {
	t.Parallel()

	var p release.Platform

	err := p.UnmarshalJSON([]byte(`{"url":"https://example.com/app.dmg","signature":"abc","format":"dmg","size":12}`))
	require.NoError(t, err)
	require.Equal(t, release.UpdateFormatDMG, p.Format)

	content, err := p.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"url":"https://example.com/app.dmg","signature":"abc","format":"dmg"}`, string(content))

	err = p.UnmarshalJSON([]byte(`{"url":"https://example.com/app.dmg"}`))
	require.ErrorIs(t, err, release.ErrIncompleteDistribution)
}
