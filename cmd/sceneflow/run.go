package main

import (
	"fmt"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/loader"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/transition"
	"github.com/spf13/cobra"
)

// runOptions holds flags for the run command.
type runOptions struct {
	*rootOptions
	Strict bool
}

func newRunCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Replay a navigation script",
		Long: `Replay a navigation script against a flow manager.

Scenes named in the script are registered as stub scenes and loaded
through a staged backend, so async loads report progress over the
configured number of stages. Transitions come from the config file and
are timed by tick steps.

Examples:
  sceneflow run testdata/scripts/tour.yaml
  sceneflow run --config flow.toml --format json tour.yaml
  sceneflow run --strict tour.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit non-zero if any navigation is rejected")

	return cmd
}

func runScript(opts *runOptions, cmd *cobra.Command, path string) error {
	cfg, err := sceneflow.LoadConfig(opts.ConfigPath)
	if err != nil {
		return wrapExitError(exitCommandError, "failed to load config", err)
	}
	s, err := loadScript(path)
	if err != nil {
		return wrapExitError(exitCommandError, "failed to load script", err)
	}
	flowOpts, err := cfg.Options()
	if err != nil {
		return wrapExitError(exitCommandError, "invalid transitions", err)
	}

	registry := s.registry()
	defer registry.Close()

	tr := newTracer(cmd.OutOrStdout(), opts.Format)
	flowOpts.Player = transition.NewTimedPlayer()
	flowOpts.Saver = tr
	flowOpts.Checkpoint = tr
	flowOpts.Publisher = tr
	flowOpts.Logger = sceneflow.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	flow := sceneflow.New(loader.NewStagedBackend(registry, cfg.LoadStages), flowOpts)
	defer flow.Close()
	tr.flow = flow
	flow.AddListener(tr)

	rejected := 0
	for _, st := range s.Steps {
		tr.step(st)
		if err := apply(flow, st); err != nil {
			rejected++
		}
	}
	tr.final()

	if tr.err != nil {
		return wrapExitError(exitCommandError, "failed to write trace", tr.err)
	}
	if opts.Strict && rejected > 0 {
		return newExitError(exitFailure, fmt.Sprintf("%d navigation(s) rejected", rejected))
	}
	return nil
}

// apply performs one step. Rejected navigations are returned but have
// already been reported to listeners.
func apply(flow *sceneflow.Manager, st step) error {
	var navOpts []sceneflow.NavOption
	if st.Transition != "" {
		navOpts = append(navOpts, sceneflow.WithTransition(st.Transition))
	}

	switch st.Op {
	case opPush:
		return flow.PushScene(st.Scene, st.Data, st.Metadata, navOpts...)
	case opReplace:
		return flow.ReplaceScene(st.Scene, st.Data, st.Metadata, navOpts...)
	case opPop:
		return flow.PopScene(st.Data, st.Metadata, navOpts...)
	case opPushAsync:
		return flow.PushSceneAsync(st.Scene, st.Data, st.Metadata, navOpts...)
	case opReplaceAsync:
		return flow.ReplaceSceneAsync(st.Scene, st.Data, st.Metadata, navOpts...)
	case opCancel:
		flow.CancelPendingLoad()
	case opTick:
		for range st.Count {
			flow.Update(st.delta)
		}
	}
	return nil
}
