package publisher

import (
	"strings"

	"github.com/packager-dev/updater/api/release"
	"github.com/packager-dev/updater/internal/target"
)

// assetSuffixes maps asset name suffixes to the update format and, when implied, the OS.
// Longer suffixes must come first.
var assetSuffixes = []struct {
	suffix string
	format release.UpdateFormat
	goos   string
}{
	{suffix: ".appimage.tar.gz", format: release.UpdateFormatAppImage, goos: "linux"},
	{suffix: ".app.tar.gz", format: release.UpdateFormatArchiveUpdate, goos: "darwin"},
	{suffix: ".nsis.zip", format: release.UpdateFormatNSIS, goos: "windows"},
	{suffix: "-setup.exe", format: release.UpdateFormatNSIS, goos: "windows"},
	{suffix: ".msi.zip", format: release.UpdateFormatWiX, goos: "windows"},
	{suffix: ".msi", format: release.UpdateFormatWiX, goos: "windows"},
	{suffix: ".appimage", format: release.UpdateFormatAppImage, goos: "linux"},
	{suffix: ".dmg", format: release.UpdateFormatDMG, goos: "darwin"},
	{suffix: ".tar.gz", format: release.UpdateFormatArchiveUpdate},
	{suffix: ".tar.zst", format: release.UpdateFormatArchiveUpdate},
	{suffix: ".zip", format: release.UpdateFormatArchiveUpdate},
}

var osNames = map[string]string{
	"linux":   "linux",
	"darwin":  "darwin",
	"macos":   "darwin",
	"osx":     "darwin",
	"windows": "windows",
	"win":     "windows",
	"win64":   "windows",
	"freebsd": "freebsd",
}

// Architecture spellings osarch doesn't know about.
var archAliases = map[string]string{
	"x64":    "amd64",
	"x86_64": "amd64",
	"x86-64": "amd64",
}

// platformFromAsset derives the platform identifier and update format from an asset name such as
// "app_1.2.3_linux_amd64.AppImage.tar.gz" or "App-1.2.3-x64-setup.exe".
func platformFromAsset(name string) (string, release.UpdateFormat, bool) {
	lower := strings.ToLower(name)

	var (
		format release.UpdateFormat
		goos   string
		stem   string
	)

	for _, s := range assetSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			format = s.format
			goos = s.goos
			stem = strings.TrimSuffix(lower, s.suffix)

			break
		}
	}

	if format == release.UpdateFormatUndefined {
		return "", "", false
	}

	// Protect multi-part architecture names from the tokenizer.
	for alias, arch := range archAliases {
		stem = strings.ReplaceAll(stem, alias, arch)
	}

	tokens := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})

	var arch string

	for _, token := range tokens {
		name, ok := osNames[token]
		if ok && (goos == "" || goos == name) {
			goos = name

			continue
		}

		if arch != "" {
			continue
		}

		normalized, err := target.Architecture(token)
		if err == nil {
			arch = normalized
		}
	}

	if goos == "" || arch == "" {
		return "", "", false
	}

	return goos + "-" + arch, format, true
}
