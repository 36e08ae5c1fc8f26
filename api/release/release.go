// Package release defines the update manifest and its JSON encoding.
package release

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/blang/semver/v4"
)

// Release represents the latest release advertised to update clients.
type Release struct {
	Version semver.Version

	// Notes is empty when the release has no notes.
	Notes string

	// PublishedAt is the zero time when the publication date is unknown.
	PublishedAt time.Time

	Distribution Distribution
}

// Distribution is either a PerPlatform table or a SinglePlatform artifact.
type Distribution interface {
	distribution()
}

// PerPlatform distributes one artifact per platform identifier (e.g. "linux-x86_64").
type PerPlatform struct {
	Platforms map[string]Platform
}

func (PerPlatform) distribution() {}

// SinglePlatform distributes a single artifact, resolved for the requesting platform by the server.
type SinglePlatform struct {
	Platform
}

func (SinglePlatform) distribution() {}

// Artifact returns the artifact that should be installed on the given target.
func (r *Release) Artifact(target string) (Platform, error) {
	switch d := distributionValue(r.Distribution).(type) {
	case SinglePlatform:
		return d.Platform, nil
	case PerPlatform:
		return d.artifact(target)
	}

	return Platform{}, ErrTargetNotFound
}

// distributionValue dereferences pointer variants, a nil pointer becomes a nil Distribution.
func distributionValue(d Distribution) Distribution {
	switch v := d.(type) {
	case *SinglePlatform:
		if v == nil {
			return nil
		}

		return *v
	case *PerPlatform:
		if v == nil {
			return nil
		}

		return *v
	}

	return d
}

func (d PerPlatform) artifact(target string) (Platform, error) {
	p, ok := d.Platforms[target]
	if !ok {
		return Platform{}, ErrTargetNotFound
	}

	return p, nil
}

// Targets returns the sorted platform identifiers of a per-platform release, nil otherwise.
func (r *Release) Targets() []string {
	var platforms map[string]Platform

	switch d := distributionValue(r.Distribution).(type) {
	case PerPlatform:
		platforms = d.Platforms
	default:
		return nil
	}

	targets := make([]string, 0, len(platforms))
	for target := range platforms {
		targets = append(targets, target)
	}

	slices.Sort(targets)

	return targets
}

// MarshalJSON implements the json.Marshaler interface.
func (r Release) MarshalJSON() ([]byte, error) {
	return json.Marshal(Encode(r))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *Release) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}

	*r = decoded

	return nil
}

// FormatVersion renders a version the way manifests carry it, e.g. "v1.2.3".
func FormatVersion(v semver.Version) string {
	return "v" + v.String()
}

// ParseVersion parses a manifest version, with or without a leading "v" or "V".
func ParseVersion(name string) (semver.Version, error) {
	if strings.HasPrefix(name, "v") || strings.HasPrefix(name, "V") {
		name = name[1:]
	}

	return semver.Parse(name)
}
