package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
	"gopkg.in/yaml.v3"
)

// Script step operations.
const (
	opPush         = "push"
	opReplace      = "replace"
	opPop          = "pop"
	opPushAsync    = "push_async"
	opReplaceAsync = "replace_async"
	opCancel       = "cancel"
	opTick         = "tick"
)

// script is a navigation scenario.
//
//	scenes: [Title, Level1]
//	broken: [Credits]
//	steps:
//	  - op: push
//	    scene: Title
//	  - op: push_async
//	    scene: Level1
//	    transition: fade
//	  - op: tick
//	    delta: 16ms
//	    count: 10
type script struct {
	Scenes []string `yaml:"scenes"` // Registered as working stub scenes
	Broken []string `yaml:"broken"` // Registered, but fail to instantiate
	Steps  []step   `yaml:"steps"`
}

type step struct {
	Op         string          `yaml:"op"`
	Scene      string          `yaml:"scene"`
	Data       any             `yaml:"data"`
	Metadata   router.Metadata `yaml:"metadata"`
	Transition string          `yaml:"transition"`
	Delta      string          `yaml:"delta"`
	Count      int             `yaml:"count"`

	delta time.Duration
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseScript(data)
}

func parseScript(data []byte) (*script, error) {
	var s script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *script) validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("script has no steps")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		switch st.Op {
		case opPush, opReplace, opPushAsync, opReplaceAsync:
			if st.Scene == "" {
				return fmt.Errorf("step %d: %s needs a scene", i+1, st.Op)
			}
		case opPop, opCancel:
		case opTick:
			if st.Delta == "" {
				return fmt.Errorf("step %d: tick needs a delta", i+1)
			}
			d, err := time.ParseDuration(st.Delta)
			if err != nil {
				return fmt.Errorf("step %d: delta: %w", i+1, err)
			}
			if d < 0 {
				return fmt.Errorf("step %d: negative delta %s", i+1, st.Delta)
			}
			st.delta = d
			if st.Count <= 0 {
				st.Count = 1
			}
		default:
			return fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
	}
	return nil
}

type stubScene struct{}

func (stubScene) Enter(router.Payload) {}
func (stubScene) Suspend()             {}
func (stubScene) Release()             {}

// registry registers the script's stub scenes.
func (s *script) registry() *router.Registry {
	reg := router.NewRegistry()
	for _, name := range s.Scenes {
		reg.RegisterFactory(name, func() (router.Instance, error) {
			return stubScene{}, nil
		})
	}
	for _, name := range s.Broken {
		reg.RegisterFactory(name, func() (router.Instance, error) {
			return nil, fmt.Errorf("stub scene %q is broken", name)
		})
	}
	return reg
}
