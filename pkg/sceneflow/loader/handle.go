package loader

import (
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a load request.
type Status int

const (
	StatusLoading   Status = iota // Request is in flight
	StatusLoaded                  // Result holds the resolved resource
	StatusFailed                  // Err holds the reason
	StatusCancelled               // Request was aborted before it finished
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Handle tracks one asynchronous load request.
//
// A Handle is created Loading by Loader.Start and only the Loader mutates
// it. Once it reaches a terminal status it never changes again.
type Handle struct {
	id       uuid.UUID
	scene    string
	metadata router.Metadata

	status   Status
	progress float64
	err      error
	result   router.Resource

	request Request
}

func newHandle(scene string, metadata router.Metadata) *Handle {
	return &Handle{
		id:       uuid.Must(uuid.NewV7()),
		scene:    scene,
		metadata: metadata,
		status:   StatusLoading,
	}
}

// ID is a time-ordered identifier for log correlation.
func (h *Handle) ID() uuid.UUID { return h.id }

// Scene is the identifier being loaded.
func (h *Handle) Scene() string { return h.scene }

// Metadata is the metadata the request was started with.
func (h *Handle) Metadata() router.Metadata { return h.metadata }

// Status returns the current status.
func (h *Handle) Status() Status { return h.status }

// Progress returns a value in [0,1].
func (h *Handle) Progress() float64 { return h.progress }

// Err is the failure reason. Nil unless the handle is Failed.
func (h *Handle) Err() error { return h.err }

// Result is the resolved resource. Nil unless the handle is Loaded.
func (h *Handle) Result() router.Resource { return h.result }

// Terminal reports whether the handle has finished, one way or another.
func (h *Handle) Terminal() bool { return h.status != StatusLoading }

func (h *Handle) advance(progress float64) {
	if progress > 1 {
		progress = 1
	}
	if progress > h.progress {
		h.progress = progress
	}
}

func (h *Handle) finish(result router.Resource) {
	h.progress = 1
	h.result = result
	h.status = StatusLoaded
	h.request = nil
}

func (h *Handle) fail(err error) {
	h.err = err
	h.status = StatusFailed
	h.request = nil
}

func (h *Handle) cancel() {
	h.status = StatusCancelled
	h.request = nil
}
