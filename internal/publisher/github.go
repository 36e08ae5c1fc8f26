// Package publisher builds releases from the artifacts attached to a GitHub release.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	ghapi "github.com/google/go-github/v72/github"
	"golang.org/x/sync/errgroup"

	"github.com/packager-dev/updater/api/release"
)

// ErrNoArtifacts is returned when a GitHub release has no usable signed artifact.
var ErrNoArtifacts = errors.New("no signed artifacts found in release")

// ErrRateLimited is returned when the GitHub API refuses further requests.
var ErrRateLimited = errors.New("github rate limit exceeded")

// Upper bound on the size of a signature asset.
const maxSignatureSize = 64 * 1024

// GitHub reads releases from a GitHub repository.
type GitHub struct {
	client       *ghapi.Client
	organization string
	repository   string

	// HTTPClient follows asset download redirects, http.DefaultClient when nil.
	HTTPClient *http.Client

	// Workers limits the number of concurrent signature downloads.
	Workers int
}

// NewGitHub returns a publisher for the given repository.
//
// An empty token results in anonymous (rate limited) access.
func NewGitHub(token string, organization string, repository string) *GitHub {
	client := ghapi.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return NewGitHubWithClient(client, organization, repository)
}

// NewGitHubWithClient returns a publisher using an existing API client.
func NewGitHubWithClient(client *ghapi.Client, organization string, repository string) *GitHub {
	return &GitHub{
		client:       client,
		organization: organization,
		repository:   repository,
		Workers:      4,
	}
}

// Latest builds a release from the latest published GitHub release.
func (p *GitHub) Latest(ctx context.Context) (release.Release, error) {
	rel, _, err := p.client.Repositories.GetLatestRelease(ctx, p.organization, p.repository)
	if err != nil {
		return release.Release{}, p.checkLimit(err)
	}

	return p.convert(ctx, rel)
}

// ByTag builds a release from the GitHub release with the given tag.
func (p *GitHub) ByTag(ctx context.Context, tag string) (release.Release, error) {
	rel, _, err := p.client.Repositories.GetReleaseByTag(ctx, p.organization, p.repository, tag)
	if err != nil {
		return release.Release{}, p.checkLimit(err)
	}

	return p.convert(ctx, rel)
}

func (*GitHub) checkLimit(err error) error {
	var rateErr *ghapi.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	return err
}

func (p *GitHub) convert(ctx context.Context, rel *ghapi.RepositoryRelease) (release.Release, error) {
	version, err := release.ParseVersion(rel.GetTagName())
	if err != nil {
		return release.Release{}, &release.DecodeError{Kind: release.ErrMalformedVersion, Field: "name", Err: err}
	}

	slog.InfoContext(ctx, "Found release", "tag", rel.GetTagName(), "assets", len(rel.Assets))

	// Index the assets by name so signatures can be matched up.
	assets := make(map[string]*ghapi.ReleaseAsset, len(rel.Assets))
	for _, asset := range rel.Assets {
		assets[asset.GetName()] = asset
	}

	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}

	slices.Sort(names)

	var muPlatforms sync.Mutex

	platforms := map[string]release.Platform{}

	claimed := map[string]string{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Workers, 1))

	for _, name := range names {
		if strings.HasSuffix(name, ".sig") {
			continue
		}

		target, format, ok := platformFromAsset(name)
		if !ok {
			slog.DebugContext(ctx, "Ignoring asset", "name", name)

			continue
		}

		sigAsset, ok := assets[name+".sig"]
		if !ok {
			slog.WarnContext(ctx, "Skipping unsigned asset", "name", name)

			continue
		}

		first, exists := claimed[target]
		if exists {
			slog.WarnContext(ctx, "Multiple assets for the same target, keeping the first one", "target", target, "kept", first, "name", name)

			continue
		}

		claimed[target] = name

		assetURL, err := release.ParseURL(assets[name].GetBrowserDownloadURL())
		if err != nil {
			_ = g.Wait()

			return release.Release{}, &release.DecodeError{Kind: release.ErrMalformedURL, Field: name, Err: err}
		}

		g.Go(func() error {
			signature, err := p.downloadSignature(gctx, sigAsset.GetID())
			if err != nil {
				return fmt.Errorf("unable to download signature %q: %w", sigAsset.GetName(), err)
			}

			muPlatforms.Lock()
			defer muPlatforms.Unlock()

			platforms[target] = release.Platform{URL: assetURL, Signature: signature, Format: format}

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return release.Release{}, err
	}

	if len(platforms) == 0 {
		return release.Release{}, ErrNoArtifacts
	}

	ret := release.Release{
		Version:      version,
		Notes:        rel.GetBody(),
		Distribution: release.PerPlatform{Platforms: platforms},
	}

	if rel.PublishedAt != nil {
		ret.PublishedAt = rel.PublishedAt.UTC()
	}

	return ret, nil
}

func (p *GitHub) downloadSignature(ctx context.Context, assetID int64) (string, error) {
	httpClient := p.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// Get a reader for the release asset.
	rc, _, err := p.client.Repositories.DownloadReleaseAsset(ctx, p.organization, p.repository, assetID, httpClient)
	if err != nil {
		return "", p.checkLimit(err)
	}

	defer func() { _ = rc.Close() }()

	content, err := io.ReadAll(io.LimitReader(rc, maxSignatureSize))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}
