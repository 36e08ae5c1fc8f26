package manifests

import (
	"slices"

	"github.com/packager-dev/updater/api/release"
)

// Changes lists what differs between two releases.
type Changes struct {
	PriorVersion   string   `json:"prior_version"     yaml:"prior_version"`
	CurrentVersion string   `json:"current_version"   yaml:"current_version"`
	Added          []string `json:"added,omitempty"   yaml:"added,omitempty"`
	Updated        []string `json:"updated,omitempty" yaml:"updated,omitempty"`
	Removed        []string `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// IsEmpty returns true if both releases are identical.
func (c Changes) IsEmpty() bool {
	return c.PriorVersion == c.CurrentVersion && len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// singleTarget is the key under which a single artifact release is compared.
const singleTarget = "*"

// Diff compares the artifacts of two releases.
//
// Single artifact releases are compared as a table with one "*" entry, so switching between
// distribution models shows up as additions and removals.
func Diff(prior release.Release, current release.Release) Changes {
	ret := Changes{
		PriorVersion:   prior.Version.String(),
		CurrentVersion: current.Version.String(),
	}

	previous := artifacts(prior)
	next := artifacts(current)

	// Check for removed or updated artifacts.
	for _, target := range sortedTargets(previous) {
		p := previous[target]

		n, ok := next[target]
		if !ok {
			// The artifact was removed from the current release.
			ret.Removed = append(ret.Removed, target)

			continue
		}

		if !sameArtifact(p, n) {
			// The artifact was replaced.
			ret.Updated = append(ret.Updated, target)
		}
	}

	// Check for added artifacts.
	for _, target := range sortedTargets(next) {
		_, ok := previous[target]
		if !ok {
			ret.Added = append(ret.Added, target)
		}
	}

	return ret
}

func artifacts(r release.Release) map[string]release.Platform {
	targets := r.Targets()
	if targets == nil {
		p, err := r.Artifact(singleTarget)
		if err != nil {
			return map[string]release.Platform{}
		}

		return map[string]release.Platform{singleTarget: p}
	}

	ret := make(map[string]release.Platform, len(targets))

	for _, target := range targets {
		p, err := r.Artifact(target)
		if err != nil {
			continue
		}

		ret[target] = p
	}

	return ret
}

func sortedTargets(artifacts map[string]release.Platform) []string {
	targets := make([]string, 0, len(artifacts))
	for target := range artifacts {
		targets = append(targets, target)
	}

	slices.Sort(targets)

	return targets
}

func sameArtifact(a release.Platform, b release.Platform) bool {
	if a.Signature != b.Signature || a.Format != b.Format {
		return false
	}

	if a.URL == nil || b.URL == nil {
		return a.URL == b.URL
	}

	return a.URL.String() == b.URL.String()
}
