// Package sceneflow provides scene navigation and asynchronous content
// loading for games: a stack of active scenes, synchronous and asynchronous
// push/replace/pop, enter/exit transitions around every change, and
// checkpoint, save and analytics hooks at the boundaries.
//
// A Manager is built explicitly and driven by the game loop:
//
//	reg := router.NewRegistry()
//	reg.RegisterFactory("Title", newTitleScene)
//	reg.RegisterFactory("Level1", newLevelScene)
//
//	flow := sceneflow.New(loader.NewStagedBackend(reg, 0), sceneflow.Options{
//	    Transitions: library,
//	    Player:      transition.NewTimedPlayer(),
//	})
//
//	flow.PushScene("Title", nil, nil)
//	flow.PushSceneAsync("Level1", LevelInput{Seed: 7}, nil, sceneflow.WithTransition("fade"))
//
//	for running {
//	    flow.Update(frameTime)
//	}
//
// Nothing runs in the background. Loads advance, transitions finish and
// notifications fire only from inside Update or the navigation calls.
package sceneflow

import (
	"io"
	"log/slog"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/internal"
)

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
// Call before the first Manager is created to take effect.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the package logger used when Options.Logger is nil.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// NewLogger builds a JSON logger writing to w at the named level, for
// callers that want manager logs away from the package logger's stdout.
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: internal.ParseLevel(level)})
	return slog.New(handler).With("component", "sceneflow")
}

// SetLogLevel sets the minimum log level for the package logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

// CloseLog closes the log file, if one was opened.
func CloseLog() {
	internal.CloseLogger()
}
