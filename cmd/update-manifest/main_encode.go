package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/packager-dev/updater/internal/manifests"
)

type cmdEncode struct {
	global *cmdGlobal

	flagStamp bool
}

func (c *cmdEncode) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "encode <description.yaml> [<output>]"
	cmd.Short = "Generate a manifest from a release description"
	cmd.Long = formatSection("Description",
		`Generate a manifest from a release description

The YAML release description is validated using the same rules as the
manifest itself and then rendered as JSON. Output files ending in .gz
or .zst are compressed accordingly.

Without an output path, the manifest is written to standard output.
`)
	cmd.RunE = c.run

	cmd.Flags().BoolVar(&c.flagStamp, "stamp", false, "Set the publication date to the current time when missing")

	return cmd
}

func (c *cmdEncode) run(cmd *cobra.Command, args []string) error {
	ctx := context.TODO()

	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 2)
	if exit {
		return err
	}

	d, err := manifests.LoadDescription(args[0])
	if err != nil {
		return err
	}

	r, err := d.Release()
	if err != nil {
		return err
	}

	if c.flagStamp && r.PublishedAt.IsZero() {
		r.PublishedAt = time.Now().UTC().Truncate(time.Second)
	}

	output := ""
	if len(args) > 1 {
		output = args[1]
	}

	err = writeOutput(output, func(w io.Writer) error {
		return manifests.Write(w, r, manifests.CompressionFromPath(output))
	})
	if err != nil {
		return err
	}

	if output != "" {
		slog.InfoContext(ctx, "Wrote manifest", "version", r.Version.String(), "targets", len(r.Targets()), "path", output)
	}

	return nil
}
