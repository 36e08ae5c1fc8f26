package manifests_test

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/packager-dev/updater/api/release"
	"github.com/packager-dev/updater/internal/manifests"
)

var goldDescription = `version: 1.4.0
notes: |
  Faster startup.
pub_date: 2024-06-01T08:00:00Z
platforms:
  linux-x86_64:
    url: https://example.com/app_1.4.0_amd64.AppImage.tar.gz
    signature_file: linux.sig
    format: app-image
  darwin-aarch64:
    url: https://example.com/app_1.4.0_aarch64.app.tar.gz
    signature: c2lnLWRhcndpbg==
    format: archive-update
`

func testRelease(t *testing.T) release.Release {
	t.Helper()

	u, err := url.Parse("https://example.com/app_1.4.0_amd64.AppImage.tar.gz")
	require.NoError(t, err)

	return release.Release{
		Version:     semver.MustParse("1.4.0"),
		Notes:       "Faster startup.\n",
		PublishedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		Distribution: release.PerPlatform{Platforms: map[string]release.Platform{
			"linux-x86_64": {URL: u, Signature: "c2lnLWxpbnV4", Format: release.UpdateFormatAppImage},
		}},
	}
}

func TestReadWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"latest.json", "latest.json.gz", "latest.json.zst"} {
		path := filepath.Join(dir, name)

		err := manifests.WriteFile(path, testRelease(t))
		require.NoError(t, err, name)

		r, err := manifests.ReadFile(path)
		require.NoError(t, err, name)
		require.Equal(t, testRelease(t).Distribution, r.Distribution, name)
		require.Equal(t, testRelease(t).Version, r.Version, name)
	}

	// Compressed files don't start with the JSON document.
	content, err := os.ReadFile(filepath.Join(dir, "latest.json.gz"))
	require.NoError(t, err)
	require.NotEqual(t, byte('{'), content[0])

	content, err = os.ReadFile(filepath.Join(dir, "latest.json"))
	require.NoError(t, err)
	require.Equal(t, byte('{'), content[0])
}

func TestCompressionFromPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, manifests.CompressionGzip, manifests.CompressionFromPath("a/latest.json.GZ"))
	require.Equal(t, manifests.CompressionZstd, manifests.CompressionFromPath("latest.json.zst"))
	require.Equal(t, manifests.CompressionNone, manifests.CompressionFromPath("latest.json"))
}

func TestWriteManifestLayout(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)

	err := manifests.Write(buf, testRelease(t), manifests.CompressionNone)
	require.NoError(t, err)
	require.JSONEq(t, `{
  "name": "v1.4.0",
  "notes": "Faster startup.\n",
  "pub_date": "2024-06-01T08:00:00Z",
  "platforms": {"linux-x86_64": {"url": "https://example.com/app_1.4.0_amd64.AppImage.tar.gz", "signature": "c2lnLWxpbnV4", "format": "app-image"}},
  "url": null,
  "signature": null,
  "format": null
}`, buf.String())
}

func TestLoadDescription(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "release.yaml"), []byte(goldDescription), 0o600)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(dir, "linux.sig"), []byte("c2lnLWxpbnV4\n"), 0o600)
	require.NoError(t, err)

	d, err := manifests.LoadDescription(filepath.Join(dir, "release.yaml"))
	require.NoError(t, err)
	require.Equal(t, "c2lnLWxpbnV4", d.Platforms["linux-x86_64"].Signature)

	r, err := d.Release()
	require.NoError(t, err)
	require.Equal(t, semver.MustParse("1.4.0"), r.Version)
	require.Equal(t, "Faster startup.\n", r.Notes)
	require.True(t, r.PublishedAt.Equal(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)))
	require.Equal(t, []string{"darwin-aarch64", "linux-x86_64"}, r.Targets())

	// Back to a description and through YAML again.
	content, err := yaml.Marshal(manifests.FromRelease(r))
	require.NoError(t, err)

	var d2 manifests.Description

	err = yaml.Unmarshal(content, &d2)
	require.NoError(t, err)

	r2, err := d2.Release()
	require.NoError(t, err)
	require.Equal(t, r.Distribution, r2.Distribution)
	require.True(t, r.PublishedAt.Equal(r2.PublishedAt))
}

func TestDescriptionErrors(t *testing.T) {
	t.Parallel()

	d := manifests.Description{
		Version:   "2.0.0",
		Platforms: map[string]manifests.DescriptionArtifact{},
		DescriptionArtifact: manifests.DescriptionArtifact{
			URL: "https://example.com/a.pkg",
		},
	}

	_, err := d.Release()
	require.ErrorIs(t, err, release.ErrAmbiguousDistribution)

	d.Platforms = nil

	_, err = d.Release()
	require.ErrorIs(t, err, release.ErrIncompleteDistribution)

	d.Signature = "sig"
	d.Format = "nsis"

	r, err := d.Release()
	require.NoError(t, err)
	require.Nil(t, r.Targets())

	_, err = manifests.LoadDescription(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	prior := testRelease(t)

	changes := manifests.Diff(prior, prior)
	require.True(t, changes.IsEmpty())

	current := testRelease(t)
	current.Version = semver.MustParse("1.5.0")

	u, err := url.Parse("https://example.com/app_1.5.0_x64-setup.exe")
	require.NoError(t, err)

	linux := prior.Distribution.(release.PerPlatform).Platforms["linux-x86_64"]
	linux.Signature = "bmV3"

	current.Distribution = release.PerPlatform{Platforms: map[string]release.Platform{
		"linux-x86_64":   linux,
		"windows-x86_64": {URL: u, Signature: "d2lu", Format: release.UpdateFormatNSIS},
	}}

	changes = manifests.Diff(prior, current)
	require.False(t, changes.IsEmpty())
	require.Equal(t, "1.4.0", changes.PriorVersion)
	require.Equal(t, "1.5.0", changes.CurrentVersion)
	require.Equal(t, []string{"windows-x86_64"}, changes.Added)
	require.Equal(t, []string{"linux-x86_64"}, changes.Updated)
	require.Empty(t, changes.Removed)

	// Switching to a single artifact.
	single := release.Release{
		Version:      semver.MustParse("1.5.0"),
		Distribution: release.SinglePlatform{Platform: linux},
	}

	changes = manifests.Diff(current, single)
	require.Equal(t, []string{"*"}, changes.Added)
	require.Equal(t, []string{"linux-x86_64", "windows-x86_64"}, changes.Removed)
}
