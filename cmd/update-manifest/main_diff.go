package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/packager-dev/updater/internal/manifests"
)

type cmdDiff struct {
	global *cmdGlobal

	flagCA string
}

func (c *cmdDiff) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "diff <prior> <current>"
	cmd.Short = "Compare two manifests"
	cmd.Long = formatSection("Description",
		`Compare two manifests

Lists the platforms added, updated or removed between two manifests.
A manifest with a single artifact is shown under the "*" platform.
`)
	cmd.RunE = c.run

	cmd.Flags().StringVar(&c.flagCA, "ca", "", "CA certificate used to verify signed manifests (defaults to SIG_CA)")

	return cmd
}

func (c *cmdDiff) run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	caPath := c.flagCA
	if caPath == "" {
		caPath = os.Getenv("SIG_CA")
	}

	prior, err := loadManifest(args[0], caPath)
	if err != nil {
		return err
	}

	current, err := loadManifest(args[1], caPath)
	if err != nil {
		return err
	}

	return writeYAML(os.Stdout, manifests.Diff(prior, current))
}
