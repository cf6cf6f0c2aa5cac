// Package loader implements cooperative asynchronous scene loading.
//
// Nothing here runs in the background. The owner calls Poll once per tick
// and observes progress and completion through the Handle.
package loader

import (
	"fmt"
	"log/slog"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/internal"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
)

// Loader drives load requests against a Backend. Every failure is recorded
// on the Handle; no method returns an error or panics on backend failure.
type Loader struct {
	backend Backend
	pending map[*Handle]struct{}
	logger  *slog.Logger
}

// New creates a Loader. A nil logger uses the package logger.
func New(backend Backend, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = internal.GetLogger()
	}
	return &Loader{
		backend: backend,
		pending: make(map[*Handle]struct{}),
		logger:  logger,
	}
}

// Start begins loading scene and returns its handle with progress 0.
// If the backend refuses the request the handle is already Failed.
func (l *Loader) Start(scene string, metadata router.Metadata) *Handle {
	h := newHandle(scene, metadata)

	req, err := l.begin(scene)
	if err != nil {
		h.fail(err)
		l.logger.Debug("Load request refused", "scene", scene, "load_id", h.id, "error", err)
		return h
	}

	h.request = req
	l.pending[h] = struct{}{}
	l.logger.Debug("Load request started", "scene", scene, "load_id", h.id)
	return h
}

// Poll advances h by one step. Polling a terminal handle does nothing.
func (l *Loader) Poll(h *Handle) {
	if h == nil || h.Terminal() {
		return
	}

	step, err := l.advance(h.request)
	switch {
	case err != nil:
		h.fail(err)
	case step.Err != nil:
		h.fail(step.Err)
	case step.Progress >= 1 && step.Resource == nil:
		h.fail(fmt.Errorf("loader: %q finished without a resource: %w", h.scene, router.ErrSceneNotFound))
	case step.Progress >= 1:
		h.finish(step.Resource)
	default:
		h.advance(step.Progress)
	}

	if h.Terminal() {
		delete(l.pending, h)
		l.logger.Debug("Load request finished", "scene", h.scene, "load_id", h.id, "status", h.status.String(), "error", h.err)
	}
}

// Cancel aborts h. The handle is Cancelled when Cancel returns.
// Cancelling a terminal handle does nothing.
func (l *Loader) Cancel(h *Handle) {
	if h == nil || h.Terminal() {
		return
	}
	l.abort(h.request)
	h.cancel()
	delete(l.pending, h)
	l.logger.Debug("Load request cancelled", "scene", h.scene, "load_id", h.id)
}

// HasPendingRequests reports whether any started handle is still Loading.
func (l *Loader) HasPendingRequests() bool {
	return len(l.pending) > 0
}

// Resolve resolves a scene synchronously through the backend.
func (l *Loader) Resolve(scene string) (router.Resource, error) {
	return l.backend.Resolve(scene)
}

// The backend is a collaborator; a panic inside it becomes a failure on the handle.

func (l *Loader) begin(scene string) (req Request, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader: begin %q panicked: %v", scene, r)
		}
	}()
	return l.backend.BeginAsync(scene)
}

func (l *Loader) advance(req Request) (step Step, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader: advance panicked: %v", r)
		}
	}()
	return l.backend.Advance(req), nil
}

func (l *Loader) abort(req Request) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("Backend abort panicked", "panic", r)
		}
	}()
	l.backend.Abort(req)
}
