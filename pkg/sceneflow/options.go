package sceneflow

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/constants"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/internal"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/transition"
	"github.com/BurntSushi/toml"
)

// Options configures a Manager. Every collaborator is optional; leaving one
// nil disables the behavior it provides.
type Options struct {
	Transitions *transition.Library // Named transitions; nil skips every transition
	Player      transition.Player   // Renders transitions; nil completes them instantly
	Checkpoint  Checkpointer        // Notified after every committed mutation
	Saver       Saver               // Called with SaveSlot before every navigation
	Publisher   Publisher           // Analytics bus, best effort
	SaveSlot    string              // Slot name handed to Saver (default: constants.DefaultSaveSlot)
	Locale      string              // Locale for scene_error messages (default: constants.DefaultLocale)
	Logger      *slog.Logger        // Defaults to the package logger
}

// NavOption customizes a single navigation.
type NavOption func(*navOptions)

type navOptions struct {
	transition string
}

// WithTransition plays the named transition around the navigation: exit on
// the outgoing scene, enter on the incoming one. Unknown names fall back to
// the library default.
func WithTransition(name string) NavOption {
	return func(o *navOptions) {
		o.transition = name
	}
}

func collectNavOptions(opts []NavOption) navOptions {
	var o navOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Config is the file form of the manager settings.
//
//	save_slot = "autosave"
//	locale = "en"
//	log_level = "info"
//	load_stages = 4
//
//	[transitions]
//	default = "fade"
//
//	[[transitions.transition]]
//	name = "fade"
//	enter = "fade_in"
//	exit = "fade_out"
//	duration = "300ms"
type Config struct {
	SaveSlot    string                   `toml:"save_slot"`
	Locale      string                   `toml:"locale"`
	LogLevel    string                   `toml:"log_level"`
	LogPath     string                   `toml:"log_path"`
	LoadStages  int                      `toml:"load_stages"`
	Transitions transition.LibraryConfig `toml:"transitions"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		SaveSlot:   constants.DefaultSaveSlot,
		Locale:     constants.DefaultLocale,
		LogLevel:   "error",
		LoadStages: constants.DefaultLoadStages,
	}
}

// ParseConfig decodes TOML on top of DefaultConfig. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("sceneflow: decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("sceneflow: unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadConfig reads a TOML config file and applies environment overrides
// (SCENEFLOW_LOG_LEVEL, SCENEFLOW_LOG_PATH, SCENEFLOW_LOCALE). An empty path
// yields DefaultConfig with overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("sceneflow: read config %s: %w", path, err)
		}
		if cfg, err = ParseConfig(data); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv(constants.LogLevelEnvVar); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(constants.LogPathEnvVar); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv(constants.LocaleEnvVar); v != "" {
		cfg.Locale = v
	}
	if constants.IsDevMode() && os.Getenv(constants.LogLevelEnvVar) == "" {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// ApplyLogging configures the package logger from the config.
// Call before the first Manager is created for the log path to take effect.
func (c Config) ApplyLogging() {
	if c.LogPath != "" {
		internal.SetLogPath(c.LogPath)
	}
	if c.LogLevel != "" {
		internal.SetRawLogLevel(c.LogLevel)
	}
}

// Options builds manager Options from the config. Runtime collaborators
// (player, hooks, publisher) are left for the caller to fill in.
func (c Config) Options() (Options, error) {
	library, err := c.Transitions.Build()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Transitions: library,
		SaveSlot:    c.SaveSlot,
		Locale:      c.Locale,
	}, nil
}
