package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packager-dev/updater/api/release"
	"github.com/packager-dev/updater/internal/manifests"
	"github.com/packager-dev/updater/internal/signing"
	"github.com/packager-dev/updater/internal/target"
)

type cmdDecode struct {
	global *cmdGlobal

	flagCA     string
	flagFormat string
	flagTarget string
}

func (c *cmdDecode) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "decode <manifest>"
	cmd.Short = "Validate and show a manifest"
	cmd.Long = formatSection("Description",
		`Validate and show a manifest

The manifest may be plain JSON, gzip (.gz) or zstd (.zst) compressed,
or a PKCS#7 signed envelope (.p7m). Signed manifests are verified
against the CA certificate given with --ca or SIG_CA.

When --target is set, only the artifact for that platform identifier
is shown. Use "current" for the running system.
`)
	cmd.RunE = c.run

	cmd.Flags().StringVar(&c.flagCA, "ca", "", "CA certificate used to verify signed manifests (defaults to SIG_CA)")
	cmd.Flags().StringVarP(&c.flagFormat, "format", "f", "yaml", "Output format: 'yaml' or 'json'")
	cmd.Flags().StringVarP(&c.flagTarget, "target", "t", "", "Only show the artifact for this platform identifier")

	return cmd
}

func (c *cmdDecode) run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	if c.flagFormat != "yaml" && c.flagFormat != "json" {
		return fmt.Errorf("invalid output format %q", c.flagFormat)
	}

	caPath := c.flagCA
	if caPath == "" {
		caPath = os.Getenv("SIG_CA")
	}

	r, err := loadManifest(args[0], caPath)
	if err != nil {
		return err
	}

	if c.flagTarget != "" {
		r, err = selectTarget(r, c.flagTarget)
		if err != nil {
			return err
		}
	}

	if c.flagFormat == "json" {
		return manifests.Write(os.Stdout, r, manifests.CompressionNone)
	}

	return writeYAML(os.Stdout, manifests.FromRelease(r))
}

// selectTarget reduces a release to the artifact of a single platform.
func selectTarget(r release.Release, identifier string) (release.Release, error) {
	if identifier == "current" {
		current, err := target.Current()
		if err != nil {
			return release.Release{}, err
		}

		identifier = current
	}

	artifact, err := r.Artifact(identifier)
	if err != nil {
		return release.Release{}, err
	}

	r.Distribution = release.SinglePlatform{Platform: artifact}

	return r, nil
}

// loadManifest reads a manifest from disk, verifying it first if it's signed.
func loadManifest(path string, caPath string) (release.Release, error) {
	if !strings.HasSuffix(path, ".p7m") {
		return manifests.ReadFile(path)
	}

	if caPath == "" {
		return release.Release{}, fmt.Errorf("a CA certificate is required to verify %q", path)
	}

	// #nosec G304
	signed, err := os.ReadFile(path)
	if err != nil {
		return release.Release{}, err
	}

	// #nosec G304
	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return release.Release{}, err
	}

	content, err := signing.Verify(signed, caPEM)
	if err != nil {
		return release.Release{}, err
	}

	return manifests.Read(bytes.NewReader(content), manifests.CompressionFromPath(strings.TrimSuffix(path, ".p7m")))
}

// readInput reads a file, or standard input when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	// #nosec G304
	return os.ReadFile(path)
}
