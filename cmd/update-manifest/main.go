// Package main is used for the update manifest tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

type cmdGlobal struct {
	flagHelp    bool
	flagVersion bool
	flagDebug   bool
}

func main() {
	// Global flags.
	globalCmd := cmdGlobal{}

	app := &cobra.Command{
		Use:   "update-manifest",
		Short: "Application update manifest tool",
		Long: formatSection("Description",
			"Application update manifest tool\n\nThis tool builds, inspects, compares and signs the update manifests served to application updaters."),
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRun:  globalCmd.preRun,
		RunE:              globalCmd.run,
	}

	app.PersistentFlags().BoolVarP(&globalCmd.flagHelp, "help", "h", false, "Print help command")
	app.PersistentFlags().BoolVarP(&globalCmd.flagVersion, "version", "v", false, "Print binary version")
	app.PersistentFlags().BoolVarP(&globalCmd.flagDebug, "debug", "d", false, "Show debug messages")

	// encode sub-command.
	encodeCmd := cmdEncode{global: &globalCmd}
	app.AddCommand(encodeCmd.command())

	// decode sub-command.
	decodeCmd := cmdDecode{global: &globalCmd}
	app.AddCommand(decodeCmd.command())

	// diff sub-command.
	diffCmd := cmdDiff{global: &globalCmd}
	app.AddCommand(diffCmd.command())

	// sign sub-command.
	signCmd := cmdSign{global: &globalCmd}
	app.AddCommand(signCmd.command())

	// verify sub-command.
	verifyCmd := cmdVerify{global: &globalCmd}
	app.AddCommand(verifyCmd.command())

	// github sub-command.
	githubCmd := cmdGitHub{global: &globalCmd}
	app.AddCommand(githubCmd.command())

	// target sub-command.
	targetCmd := cmdTarget{global: &globalCmd}
	app.AddCommand(targetCmd.command())

	// Help handling.
	app.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	// Run the main command and handle errors.
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func (c *cmdGlobal) preRun(_ *cobra.Command, _ []string) {
	if !c.flagDebug {
		return
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func (c *cmdGlobal) run(cmd *cobra.Command, _ []string) error {
	if c.flagVersion {
		_, _ = fmt.Println("update-manifest version " + version) //nolint:forbidigo

		return nil
	}

	return cmd.Help()
}
