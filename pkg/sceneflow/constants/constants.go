// Package constants defines shared constants, types, and configuration values
// used throughout the sceneflow navigation engine.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read by the config loader and the CLI.
const (
	LogLevelEnvVar = "SCENEFLOW_LOG_LEVEL" // Overrides the configured log level
	LogPathEnvVar  = "SCENEFLOW_LOG_PATH"  // Overrides the configured log file path
	ConfigEnvVar   = "SCENEFLOW_CONFIG"    // Default config file for the CLI
	LocaleEnvVar   = "SCENEFLOW_LOCALE"    // Overrides the configured message locale
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// Defaults applied when the corresponding option is left empty.
const (
	DefaultSaveSlot          = "autosave" // Slot passed to the save hook before each navigation
	DefaultLocale            = "en"       // Locale for scene_error messages
	DefaultResourceCacheSize = 8          // Resolved resources kept by a Registry
	DefaultLoadStages        = 4          // Progress stages reported by a StagedBackend

	DefaultTransitionDuration = 250 * time.Millisecond // Used by TimedPlayer when a descriptor has no hint
)

// Analytics topics published by the flow manager.
const (
	TopicPush    = "scene_flow/push"
	TopicReplace = "scene_flow/replace"
	TopicPop     = "scene_flow/pop"
	TopicError   = "scene_flow/error"
)

// MetaDirection is the metadata key carrying "enter" or "exit" on
// transition_complete notifications.
const MetaDirection = "direction"

// MetaTransition is the metadata key carrying the transition name on
// transition_complete notifications.
const MetaTransition = "transition"
