package loader

import (
	"fmt"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/constants"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
)

// Request is a backend-specific token for one in-flight load.
type Request any

// Step is the outcome of advancing a request by one poll.
type Step struct {
	Progress float64         // Fraction complete; values >= 1 finish the load
	Resource router.Resource // Set when the load finished
	Err      error           // Set when the load failed
}

// Resolver turns an identifier into a resource synchronously.
// router.Registry implements it.
type Resolver interface {
	Resolve(scene string) (router.Resource, error)
}

// Backend is the resource-loading collaborator behind the Loader.
type Backend interface {
	Resolver
	// BeginAsync starts loading scene. An error fails the request at once.
	BeginAsync(scene string) (Request, error)
	// Advance moves the request forward by one poll.
	Advance(req Request) Step
	// Abort stops the request. It is never advanced afterwards.
	Abort(req Request)
}

// StagedBackend adapts a Resolver into a Backend that reports progress in
// equal stages and resolves the scene on the last one. It lets synchronous
// registries drive loading screens with deterministic progress.
type StagedBackend struct {
	resolver Resolver
	stages   int
}

type stagedRequest struct {
	scene   string
	stage   int
	aborted bool
}

// NewStagedBackend creates a StagedBackend reporting progress over stages polls.
// A non-positive stages uses constants.DefaultLoadStages.
func NewStagedBackend(resolver Resolver, stages int) *StagedBackend {
	if stages <= 0 {
		stages = constants.DefaultLoadStages
	}
	return &StagedBackend{resolver: resolver, stages: stages}
}

func (b *StagedBackend) Resolve(scene string) (router.Resource, error) {
	return b.resolver.Resolve(scene)
}

func (b *StagedBackend) BeginAsync(scene string) (Request, error) {
	if scene == "" {
		return nil, fmt.Errorf("loader: empty identifier: %w", router.ErrSceneNotFound)
	}
	return &stagedRequest{scene: scene}, nil
}

func (b *StagedBackend) Advance(req Request) Step {
	r, ok := req.(*stagedRequest)
	if !ok {
		return Step{Err: fmt.Errorf("loader: foreign request %T", req)}
	}
	if r.aborted {
		return Step{Err: fmt.Errorf("loader: %q: request aborted", r.scene)}
	}

	r.stage++
	if r.stage < b.stages {
		return Step{Progress: float64(r.stage) / float64(b.stages)}
	}

	res, err := b.resolver.Resolve(r.scene)
	if err != nil {
		return Step{Err: err}
	}
	return Step{Progress: 1, Resource: res}
}

func (b *StagedBackend) Abort(req Request) {
	if r, ok := req.(*stagedRequest); ok {
		r.aborted = true
	}
}
