package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/packager-dev/updater/api/release"
	"github.com/packager-dev/updater/internal/signing"
)

type cmdSign struct {
	global *cmdGlobal
}

func (c *cmdSign) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "sign <manifest> <output>"
	cmd.Short = "Sign a manifest"
	cmd.Long = formatSection("Description",
		`Sign a manifest

Wraps the manifest into a PKCS#7 signed envelope using the PEM
certificate chain from SIG_CERTIFICATE and the PEM private key from
SIG_KEY. The manifest is validated before being signed.
`)
	cmd.RunE = c.run

	return cmd
}

func (c *cmdSign) run(cmd *cobra.Command, args []string) error {
	ctx := context.TODO()

	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	if os.Getenv("SIG_CERTIFICATE") == "" || os.Getenv("SIG_KEY") == "" {
		return errors.New("SIG_CERTIFICATE and SIG_KEY must be set")
	}

	content, err := readInput(args[0])
	if err != nil {
		return err
	}

	// Refuse to sign anything that isn't a valid manifest.
	r, err := release.Decode(content)
	if err != nil {
		return err
	}

	// #nosec G304
	certPEM, err := os.ReadFile(os.Getenv("SIG_CERTIFICATE"))
	if err != nil {
		return err
	}

	// #nosec G304
	keyPEM, err := os.ReadFile(os.Getenv("SIG_KEY"))
	if err != nil {
		return err
	}

	signed, err := signing.Sign(content, certPEM, keyPEM)
	if err != nil {
		return err
	}

	err = writeOutput(args[1], func(w io.Writer) error {
		_, err := w.Write(signed)

		return err
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Signed manifest", "version", r.Version.String(), "path", args[1])

	return nil
}

type cmdVerify struct {
	global *cmdGlobal
}

func (c *cmdVerify) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "verify <signed> <ca>"
	cmd.Short = "Verify a signed manifest"
	cmd.Long = formatSection("Description",
		`Verify a signed manifest

Checks the PKCS#7 envelope against the given PEM CA certificate and
prints the enclosed manifest once it has been validated.
`)
	cmd.RunE = c.run

	return cmd
}

func (c *cmdVerify) run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	signed, err := readInput(args[0])
	if err != nil {
		return err
	}

	// #nosec G304
	caPEM, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	content, err := signing.Verify(signed, caPEM)
	if err != nil {
		return err
	}

	_, err = release.Decode(content)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(content)

	return err
}
