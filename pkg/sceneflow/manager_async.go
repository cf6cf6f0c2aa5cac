package sceneflow

import (
	"fmt"
	"time"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/loader"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
)

// loadSlot is either idleLoad or *pendingLoad.
type loadSlot interface {
	isLoadSlot()
}

type idleLoad struct{}

func (idleLoad) isLoadSlot() {}

type pendingLoad struct {
	op           Operation
	handle       *loader.Handle
	data         any
	transition   string
	lastProgress float64
}

func (*pendingLoad) isLoadSlot() {}

// PushSceneAsync starts loading scene and pushes it once loaded. Progress and
// the outcome arrive through listeners on later Update calls.
// Only one load may be pending; a second request fails with CodeLoadPending.
func (m *Manager) PushSceneAsync(scene string, data any, metadata router.Metadata, opts ...NavOption) error {
	return m.startLoad(OpPush, scene, data, metadata, opts)
}

// ReplaceSceneAsync is the asynchronous form of ReplaceScene.
func (m *Manager) ReplaceSceneAsync(scene string, data any, metadata router.Metadata, opts ...NavOption) error {
	return m.startLoad(OpReplace, scene, data, metadata, opts)
}

func (m *Manager) startLoad(op Operation, scene string, data any, metadata router.Metadata, opts []NavOption) error {
	switch slot := m.load.(type) {
	case *pendingLoad:
		return m.fail(op, scene, CodeLoadPending, fmt.Errorf("%w: %q", ErrLoadPending, slot.handle.Scene()))
	case idleLoad:
	}

	o := collectNavOptions(opts)
	m.load = &pendingLoad{
		op:         op,
		handle:     m.loader.Start(scene, metadata),
		data:       data,
		transition: o.transition,
	}
	m.hasPending.Store(true)
	m.settleState()
	return nil
}

// HasPendingLoad reports whether an async navigation is waiting on its load.
// Safe from any goroutine.
func (m *Manager) HasPendingLoad() bool {
	return m.hasPending.Load()
}

// CancelPendingLoad cancels the pending load, if any. The stack is left as
// it is and listeners receive LoadingCancelled before this returns. A
// navigation that already committed is not affected.
//
// A load that has already finished is no longer cancellable: a Loaded
// scene still commits on the next idle Update and a failure is still
// reported.
func (m *Manager) CancelPendingLoad() {
	p, ok := m.load.(*pendingLoad)
	if !ok || p.handle.Terminal() {
		return
	}
	m.loader.Cancel(p.handle)
	m.settleCancelled(p)
}

// Update advances transitions and the pending load by one tick. At most one
// mutation commits per call; a loaded scene waits for a tick in which
// nothing else committed.
func (m *Manager) Update(delta time.Duration) {
	m.tickCommitted = false
	m.transitions.Update(delta)

	p, ok := m.load.(*pendingLoad)
	if !ok {
		return
	}

	m.loader.Poll(p.handle)
	h := p.handle

	switch h.Status() {
	case loader.StatusLoading:
		if h.Progress() > p.lastProgress {
			p.lastProgress = h.Progress()
			m.emit(func(l Listener) { l.LoadingProgress(h.Scene(), h.Progress(), h.Metadata()) })
		}

	case loader.StatusLoaded:
		if m.nav != nil || m.tickCommitted {
			return
		}
		m.clearLoad()
		m.emit(func(l Listener) { l.LoadingFinished(h.Scene(), h) })

		inst, err := m.instantiate(h.Result())
		if err != nil {
			m.rollBack()
			m.fail(p.op, h.Scene(), CodeInstantiateFailed, err)
			return
		}
		m.begin(&navigation{
			op:         p.op,
			scene:      h.Scene(),
			data:       p.data,
			metadata:   h.Metadata(),
			transition: p.transition,
			instance:   inst,
		})

	case loader.StatusFailed:
		m.clearLoad()
		m.rollBack()
		m.fail(p.op, h.Scene(), classify(h.Err()), h.Err())

	case loader.StatusCancelled:
		m.settleCancelled(p)
	}
}

func (m *Manager) settleCancelled(p *pendingLoad) {
	m.clearLoad()
	m.rollBack()
	m.logger.Info("Scene load cancelled", "scene", p.handle.Scene(), "load_id", p.handle.ID())
	m.emit(func(l Listener) { l.LoadingCancelled(p.handle.Scene(), p.handle) })
}

func (m *Manager) clearLoad() {
	m.load = idleLoad{}
	m.hasPending.Store(false)
}

// rollBack records that a load ended without applying anything.
func (m *Manager) rollBack() {
	if m.nav == nil {
		m.setState(StateRolledBack)
	}
	m.settleState()
}
