package main

import (
	"encoding/json"
	"fmt"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow"
	"github.com/spf13/cobra"
)

type transitionInfo struct {
	Name     string `json:"name"`
	Enter    string `json:"enter,omitempty"`
	Exit     string `json:"exit,omitempty"`
	Duration string `json:"duration,omitempty"`
	Default  bool   `json:"default,omitempty"`
}

func newTransitionsCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "transitions",
		Short:         "List the configured transitions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTransitions(rootOpts, cmd)
		},
	}
}

func listTransitions(opts *rootOptions, cmd *cobra.Command) error {
	cfg, err := sceneflow.LoadConfig(opts.ConfigPath)
	if err != nil {
		return wrapExitError(exitCommandError, "failed to load config", err)
	}
	flowOpts, err := cfg.Options()
	if err != nil {
		return wrapExitError(exitCommandError, "invalid transitions", err)
	}

	library := flowOpts.Transitions
	infos := []transitionInfo{}
	for _, name := range library.Names() {
		d := library.Get(name)
		info := transitionInfo{
			Name:    d.Name,
			Enter:   d.EnterID,
			Exit:    d.ExitID,
			Default: name == library.Default(),
		}
		if d.Duration > 0 {
			info.Duration = d.Duration.String()
		}
		infos = append(infos, info)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, "no transitions configured")
		return nil
	}
	for _, info := range infos {
		line := info.Name
		if info.Enter != "" {
			line += " enter=" + info.Enter
		}
		if info.Exit != "" {
			line += " exit=" + info.Exit
		}
		if info.Duration != "" {
			line += " duration=" + info.Duration
		}
		if info.Default {
			line += " (default)"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
