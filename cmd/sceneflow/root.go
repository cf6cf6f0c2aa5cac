package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/constants"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
	Format     string // "text" | "json"
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sceneflow",
		Short: "Replay scene navigation scripts",
		Long: `sceneflow drives a scene flow manager from a YAML script and prints
every notification, hook call and error it produces, in order.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return newExitError(exitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, validFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", os.Getenv(constants.ConfigEnvVar), "path to a sceneflow TOML config")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newTransitionsCommand(opts))

	return cmd
}
