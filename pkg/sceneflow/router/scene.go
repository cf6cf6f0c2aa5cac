package router

import "errors"

// ErrSceneNotFound is returned when a scene identifier cannot be resolved
// to an instantiable resource.
var ErrSceneNotFound = errors.New("scene not found")

// ErrStackBottom is returned when popping would remove the bottom-most entry.
var ErrStackBottom = errors.New("cannot pop the bottom scene")

// Metadata is free-form data attached to a navigation request.
type Metadata map[string]any

// Clone returns a shallow copy of the metadata. A nil receiver yields an
// empty, non-nil map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// With returns a copy of the metadata with key set to value.
func (m Metadata) With(key string, value any) Metadata {
	out := m.Clone()
	out[key] = value
	return out
}

// Payload is what an activated scene receives: the caller's data and
// metadata plus the identifier of the scene that triggered the navigation.
type Payload struct {
	Data     any
	Metadata Metadata
	Source   string // "" when the entry was the first on the stack
}

// Instance is a live, instantiated scene owned by a stack entry.
type Instance interface {
	// Enter attaches the scene and makes it visible with the given payload.
	// Called on activation and again when the scene is revealed by a pop.
	Enter(payload Payload)
	// Suspend hides the scene while it is retained beneath a new top.
	Suspend()
	// Release discards the scene. It is never called twice.
	Release()
}

// Resource is a resolved, instantiable scene.
type Resource interface {
	Instantiate() (Instance, error)
}

// ResourceFunc adapts a constructor function to Resource.
type ResourceFunc func() (Instance, error)

// Instantiate implements Resource.
func (f ResourceFunc) Instantiate() (Instance, error) {
	return f()
}

// Releaser is implemented by resources that hold memory of their own
// (decoded assets, templates) and want to be told when a cache drops them.
type Releaser interface {
	Release()
}
