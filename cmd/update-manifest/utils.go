package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/lxc/incus/v6/shared/revert"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// CheckArgs validates the number of arguments, showing the help when they don't match.
func (*cmdGlobal) CheckArgs(cmd *cobra.Command, args []string, minArgs int, maxArgs int) (bool, error) {
	if len(args) < minArgs || (maxArgs != -1 && len(args) > maxArgs) {
		_ = cmd.Help()

		if len(args) == 0 {
			return true, nil
		}

		return true, errors.New("invalid number of arguments")
	}

	return false, nil
}

func formatSection(header string, content string) string {
	var out strings.Builder

	// Add section header
	if header != "" {
		_, _ = out.WriteString(header + ":\n")
	}

	// Indent the content
	for line := range strings.SplitSeq(content, "\n") {
		if line != "" {
			_, _ = out.WriteString("  ")
		}

		_, _ = out.WriteString(line + "\n")
	}

	if header != "" {
		// Section separator (when rendering a full section
		_, _ = out.WriteString("\n")

		return out.String()
	}

	// Remove last newline when rendering partial section
	return strings.TrimSuffix(out.String(), "\n")
}

// writeYAML renders an object as YAML on the given writer.
func writeYAML(w io.Writer, obj any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(obj)
	if err != nil {
		return err
	}

	return enc.Close()
}

// writeOutput writes content to path, or to stdout when path is empty or "-".
// A partially written file is removed on failure.
func writeOutput(path string, write func(w io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}

	reverter := revert.New()
	defer reverter.Fail()

	// #nosec G304
	fd, err := os.Create(path)
	if err != nil {
		return err
	}

	reverter.Add(func() {
		_ = fd.Close()
		_ = os.Remove(path)
	})

	err = write(fd)
	if err != nil {
		return err
	}

	err = fd.Close()
	if err != nil {
		return err
	}

	reverter.Success()

	return nil
}
