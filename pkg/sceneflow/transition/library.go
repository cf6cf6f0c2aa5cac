package transition

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Library holds descriptors by name with an optional default.
type Library struct {
	descriptors map[string]Descriptor
	fallback    string
}

// NewLibrary creates a Library from descriptors. Later duplicates win.
func NewLibrary(descriptors ...Descriptor) *Library {
	l := &Library{descriptors: make(map[string]Descriptor)}
	for _, d := range descriptors {
		l.Add(d)
	}
	return l
}

// Add registers or replaces a descriptor.
func (l *Library) Add(d Descriptor) *Library {
	l.descriptors[d.Name] = d
	return l
}

// SetDefault names the descriptor used when a lookup misses.
// The name does not need to be registered yet.
func (l *Library) SetDefault(name string) *Library {
	l.fallback = name
	return l
}

// Default returns the configured default name.
func (l *Library) Default() string {
	return l.fallback
}

// Get returns the descriptor named name, else the default descriptor,
// else nil. A nil result means "no transition" and is not an error.
func (l *Library) Get(name string) *Descriptor {
	if l == nil {
		return nil
	}
	if d, ok := l.descriptors[name]; ok {
		return &d
	}
	if d, ok := l.descriptors[l.fallback]; ok {
		return &d
	}
	return nil
}

// Names returns the registered names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.descriptors))
	for name := range l.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LibraryConfig is the file representation of a Library.
//
//	default = "fade"
//
//	[[transition]]
//	name = "fade"
//	enter = "fade_in"
//	exit = "fade_out"
//	duration = "300ms"
type LibraryConfig struct {
	Default     string             `toml:"default" yaml:"default"`
	Transitions []DescriptorConfig `toml:"transition" yaml:"transitions"`
}

// DescriptorConfig is the file representation of a Descriptor.
// Duration uses Go duration syntax.
type DescriptorConfig struct {
	Name     string `toml:"name" yaml:"name"`
	Enter    string `toml:"enter" yaml:"enter"`
	Exit     string `toml:"exit" yaml:"exit"`
	Duration string `toml:"duration" yaml:"duration"`
}

// Build validates the config and returns the Library it describes.
func (c LibraryConfig) Build() (*Library, error) {
	l := NewLibrary()
	for i, dc := range c.Transitions {
		if dc.Name == "" {
			return nil, fmt.Errorf("transition: entry %d has no name", i)
		}
		var d time.Duration
		if dc.Duration != "" {
			var err error
			d, err = time.ParseDuration(dc.Duration)
			if err != nil {
				return nil, fmt.Errorf("transition: %q: duration: %w", dc.Name, err)
			}
			if d < 0 {
				return nil, fmt.Errorf("transition: %q: negative duration %s", dc.Name, dc.Duration)
			}
		}
		l.Add(Descriptor{Name: dc.Name, EnterID: dc.Enter, ExitID: dc.Exit, Duration: d})
	}
	if c.Default != "" {
		if _, ok := l.descriptors[c.Default]; !ok {
			return nil, fmt.Errorf("transition: default %q is not defined", c.Default)
		}
		l.SetDefault(c.Default)
	}
	return l, nil
}

// ParseLibraryTOML decodes a TOML library.
func ParseLibraryTOML(data []byte) (*Library, error) {
	var cfg LibraryConfig
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("transition: decode toml: %w", err)
	}
	return cfg.Build()
}

// ParseLibraryYAML decodes a YAML library.
func ParseLibraryYAML(data []byte) (*Library, error) {
	var cfg LibraryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("transition: decode yaml: %w", err)
	}
	return cfg.Build()
}

// LoadLibraryTOML reads a TOML library from path.
func LoadLibraryTOML(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transition: read %s: %w", path, err)
	}
	return ParseLibraryTOML(data)
}

// LoadLibraryYAML reads a YAML library from path.
func LoadLibraryYAML(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transition: read %s: %w", path, err)
	}
	return ParseLibraryYAML(data)
}
