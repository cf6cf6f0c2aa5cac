// Package testutil provides deterministic collaborators for sceneflow tests.
package testutil

import (
	"fmt"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/loader"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
)

// Journal collects lifecycle calls from recorded instances in order.
type Journal struct {
	Calls    []string
	Payloads map[string][]router.Payload
}

func NewJournal() *Journal {
	return &Journal{Payloads: make(map[string][]router.Payload)}
}

func (j *Journal) record(call string) {
	j.Calls = append(j.Calls, call)
}

// Instance records Enter/Suspend/Release into a Journal.
type Instance struct {
	Scene    string
	journal  *Journal
	Released bool
}

func (i *Instance) Enter(p router.Payload) {
	i.journal.record(i.Scene + ".enter")
	i.journal.Payloads[i.Scene] = append(i.journal.Payloads[i.Scene], p)
}

func (i *Instance) Suspend() { i.journal.record(i.Scene + ".suspend") }

func (i *Instance) Release() {
	if i.Released {
		panic(fmt.Sprintf("%s released twice", i.Scene))
	}
	i.Released = true
	i.journal.record(i.Scene + ".release")
}

// Resource instantiates recorded instances for one scene.
func (j *Journal) Resource(scene string) router.Resource {
	return router.ResourceFunc(func() (router.Instance, error) {
		j.record(scene + ".instantiate")
		return &Instance{Scene: scene, journal: j}, nil
	})
}

// Backend is a scripted loader.Backend.
//
// Resolve succeeds for every scene in Scenes. Async loads report the
// progress values listed in Progress for that scene, one per Advance; a
// value >= 1 (or running out of values) resolves the scene. Fail makes
// the final resolution fail with the given error.
type Backend struct {
	Scenes   map[string]router.Resource
	Progress map[string][]float64
	Fail     map[string]error
	BeginErr map[string]error

	Begun    []string
	Aborted  []string
	Advances int
}

type request struct {
	scene string
	next  int
}

func NewBackend(j *Journal, scenes ...string) *Backend {
	b := &Backend{
		Scenes:   make(map[string]router.Resource),
		Progress: make(map[string][]float64),
		Fail:     make(map[string]error),
		BeginErr: make(map[string]error),
	}
	for _, s := range scenes {
		b.Scenes[s] = j.Resource(s)
	}
	return b
}

func (b *Backend) Resolve(scene string) (router.Resource, error) {
	if err, ok := b.Fail[scene]; ok {
		return nil, err
	}
	res, ok := b.Scenes[scene]
	if !ok {
		return nil, fmt.Errorf("testutil: %q: %w", scene, router.ErrSceneNotFound)
	}
	return res, nil
}

func (b *Backend) BeginAsync(scene string) (loader.Request, error) {
	if err, ok := b.BeginErr[scene]; ok {
		return nil, err
	}
	b.Begun = append(b.Begun, scene)
	return &request{scene: scene}, nil
}

func (b *Backend) Advance(req loader.Request) loader.Step {
	b.Advances++
	r := req.(*request)
	script := b.Progress[r.scene]
	if r.next < len(script) {
		p := script[r.next]
		r.next++
		if p < 1 {
			return loader.Step{Progress: p}
		}
	}
	res, err := b.Resolve(r.scene)
	if err != nil {
		return loader.Step{Err: err}
	}
	return loader.Step{Progress: 1, Resource: res}
}

func (b *Backend) Abort(req loader.Request) {
	b.Aborted = append(b.Aborted, req.(*request).scene)
}
