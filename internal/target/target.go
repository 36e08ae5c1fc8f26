// Package target computes the platform identifiers used as keys of a manifest's platforms table.
package target

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/lxc/incus/v6/shared/osarch"
)

// ErrInvalidTarget is returned when a platform identifier can't be split into OS and architecture.
var ErrInvalidTarget = errors.New("invalid target")

// Current returns the platform identifier of the running system, e.g. "linux-x86_64".
func Current() (string, error) {
	return Format(runtime.GOOS, runtime.GOARCH)
}

// Format builds a platform identifier from Go's OS and architecture names.
func Format(goos string, goarch string) (string, error) {
	arch, err := Architecture(goarch)
	if err != nil {
		return "", err
	}

	return goos + "-" + arch, nil
}

// Architecture converts an architecture name or alias (amd64, arm64, ...) into the name used in
// platform identifiers (x86_64, aarch64, ...).
func Architecture(name string) (string, error) {
	archID, err := osarch.ArchitectureID(name)
	if err != nil {
		return "", err
	}

	return osarch.ArchitectureName(archID)
}

// Parse splits a platform identifier into its OS and architecture.
func Parse(identifier string) (string, string, error) {
	goos, arch, ok := strings.Cut(identifier, "-")
	if !ok || goos == "" || arch == "" {
		return "", "", fmt.Errorf("%w %q", ErrInvalidTarget, identifier)
	}

	return goos, arch, nil
}
