package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packager-dev/updater/api/release"
	"github.com/packager-dev/updater/internal/manifests"
	"github.com/packager-dev/updater/internal/publisher"
)

type cmdGitHub struct {
	global *cmdGlobal

	flagOutput  string
	flagWorkers int
}

func (c *cmdGitHub) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "github <organization>/<repository> [<tag>]"
	cmd.Short = "Generate a manifest from a GitHub release"
	cmd.Long = formatSection("Description",
		`Generate a manifest from a GitHub release

Every release asset with a matching ".sig" asset becomes an artifact of
the manifest. The platform and update format are derived from the
asset name, for example "app_1.2.0_linux_amd64.AppImage.tar.gz".

The latest release is used unless a tag is provided. Set GH_TOKEN to
avoid anonymous rate limits.
`)
	cmd.RunE = c.run

	cmd.Flags().StringVarP(&c.flagOutput, "output", "o", "", "Write the manifest to a file instead of standard output")
	cmd.Flags().IntVar(&c.flagWorkers, "workers", 4, "Number of concurrent signature downloads")

	return cmd
}

func (c *cmdGitHub) run(cmd *cobra.Command, args []string) error {
	ctx := context.TODO()

	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 2)
	if exit {
		return err
	}

	organization, repository, ok := strings.Cut(args[0], "/")
	if !ok || organization == "" || repository == "" {
		return fmt.Errorf("invalid repository %q, expected <organization>/<repository>", args[0])
	}

	p := publisher.NewGitHub(os.Getenv("GH_TOKEN"), organization, repository)
	p.Workers = c.flagWorkers

	var r release.Release

	if len(args) > 1 {
		r, err = p.ByTag(ctx, args[1])
	} else {
		r, err = p.Latest(ctx)
	}

	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Generated manifest", "version", r.Version.String(), "targets", strings.Join(r.Targets(), ","))

	return writeOutput(c.flagOutput, func(w io.Writer) error {
		return manifests.Write(w, r, manifests.CompressionFromPath(c.flagOutput))
	})
}
