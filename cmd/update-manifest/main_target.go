package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packager-dev/updater/internal/target"
)

type cmdTarget struct {
	global *cmdGlobal
}

func (c *cmdTarget) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "target [<identifier>]"
	cmd.Short = "Show a platform identifier"
	cmd.Long = formatSection("Description",
		`Show a platform identifier

Without argument, prints the platform identifier of the running system.
Otherwise the provided identifier is normalized, turning "linux-amd64"
into "linux-x86_64".
`)
	cmd.RunE = c.run

	return cmd
}

func (c *cmdTarget) run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 1)
	if exit {
		return err
	}

	var identifier string

	if len(args) == 0 {
		identifier, err = target.Current()
	} else {
		identifier, err = normalizeTarget(args[0])
	}

	if err != nil {
		return err
	}

	_, _ = fmt.Println(identifier) //nolint:forbidigo

	return nil
}

func normalizeTarget(identifier string) (string, error) {
	goos, arch, err := target.Parse(identifier)
	if err != nil {
		return "", err
	}

	return target.Format(goos, arch)
}
