package router

import (
	"fmt"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/constants"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/internal"
)

// LoadFunc produces the resource for a scene identifier.
// It is called at most once per identifier while the result stays cached.
type LoadFunc func(scene string) (Resource, error)

// Registry resolves scene identifiers to resources.
// Scenes are registered with their load functions and resolved resources
// are kept in a small LRU cache so repeated navigation to the same scene
// does not reload it.
//
// A resource implementing Releaser is released once it has left the cache
// and every instance it produced has been released. A resource that was
// resolved but never instantiated after eviction is held until Close.
type Registry struct {
	scenes  map[string]LoadFunc
	cache   *internal.ResourceCache[*trackedResource]
	retired map[*trackedResource]struct{}
}

// NewRegistry creates a Registry with the default cache size.
func NewRegistry() *Registry {
	return NewRegistryWithCacheSize(constants.DefaultResourceCacheSize)
}

// NewRegistryWithCacheSize creates a Registry keeping at most size resolved resources.
func NewRegistryWithCacheSize(size int) *Registry {
	r := &Registry{
		scenes:  make(map[string]LoadFunc),
		retired: make(map[*trackedResource]struct{}),
	}
	r.cache = internal.NewResourceCache(size, func(_ string, t *trackedResource) {
		r.retire(t)
	})
	return r
}

// Register adds a scene to the registry.
func (r *Registry) Register(scene string, load LoadFunc) *Registry {
	r.scenes[scene] = load
	return r
}

// RegisterFactory adds a scene whose resource is a plain constructor.
func (r *Registry) RegisterFactory(scene string, fn ResourceFunc) *Registry {
	return r.Register(scene, func(string) (Resource, error) {
		return fn, nil
	})
}

// Has reports whether a scene is registered.
func (r *Registry) Has(scene string) bool {
	_, ok := r.scenes[scene]
	return ok
}

// Resolve returns the resource for a scene identifier.
// Unknown identifiers wrap ErrSceneNotFound.
func (r *Registry) Resolve(scene string) (Resource, error) {
	if t, ok := r.cache.Get(scene); ok {
		return t, nil
	}

	load, ok := r.scenes[scene]
	if !ok {
		return nil, fmt.Errorf("router: %q: %w", scene, ErrSceneNotFound)
	}

	res, err := load(scene)
	if err != nil {
		return nil, fmt.Errorf("router: load %q: %w", scene, err)
	}
	if res == nil {
		return nil, fmt.Errorf("router: load %q returned no resource: %w", scene, ErrSceneNotFound)
	}

	t := &trackedResource{Resource: res, registry: r}
	r.cache.Set(scene, t)
	return t, nil
}

// Close releases every resource the registry still holds, in use or not.
// Call it after the scenes built from them have been released.
func (r *Registry) Close() {
	r.cache.Destroy()
	for t := range r.retired {
		t.release()
	}
}

func (r *Registry) retire(t *trackedResource) {
	t.retired = true
	if t.instantiated && t.live == 0 {
		t.release()
		return
	}
	r.retired[t] = struct{}{}
}

// trackedResource counts the live instances of a cached resource.
type trackedResource struct {
	Resource
	registry     *Registry
	live         int
	instantiated bool
	retired      bool
	released     bool
}

func (t *trackedResource) Instantiate() (Instance, error) {
	inst, err := t.Resource.Instantiate()
	if err != nil || inst == nil {
		return inst, err
	}
	t.live++
	t.instantiated = true
	return &trackedInstance{Instance: inst, owner: t}, nil
}

func (t *trackedResource) instanceReleased() {
	t.live--
	if t.retired && t.live == 0 {
		t.release()
	}
}

func (t *trackedResource) release() {
	if t.released {
		return
	}
	t.released = true
	delete(t.registry.retired, t)
	if rel, ok := t.Resource.(Releaser); ok {
		rel.Release()
	}
}

type trackedInstance struct {
	Instance
	owner    *trackedResource
	released bool
}

func (i *trackedInstance) Release() {
	if i.released {
		return
	}
	i.released = true
	i.Instance.Release()
	i.owner.instanceReleased()
}
