package sceneflow

import (
	"fmt"
	"log/slog"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/constants"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/internal"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/loader"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/transition"
	"go.uber.org/atomic"
)

// Manager owns the scene stack and the single pending load, and sequences
// every navigation as save -> exit transition -> mutation -> checkpoint ->
// enter transition.
//
// A Manager is not safe for concurrent use. Drive it from one goroutine;
// HasPendingLoad and Busy may be read from anywhere.
type Manager struct {
	loader      *loader.Loader
	stack       *router.Stack
	transitions *transition.Coordinator
	checkpoint  Checkpointer
	saver       Saver
	publisher   Publisher
	messages    *Messages
	saveSlot    string
	logger      *slog.Logger

	listeners []*listenerSlot
	state     State
	nav       *navigation
	load      loadSlot

	hasPending *atomic.Bool
	busy       *atomic.Bool

	// tickCommitted is set by commit and cleared at the start of Update.
	tickCommitted bool
}

type listenerSlot struct {
	listener Listener
}

// navigation is one committed-path operation moving through the exit,
// mutate and enter steps.
type navigation struct {
	op         Operation
	scene      string
	data       any
	metadata   router.Metadata
	transition string
	instance   router.Instance // acquired before the exit step; nil for pop
	outgoing   *router.Entry
	committed  bool
}

// New creates a Manager loading scenes through backend.
func New(backend loader.Backend, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = internal.GetLogger()
	}

	m := &Manager{
		loader:      loader.New(backend, logger),
		stack:       router.NewStack(),
		transitions: transition.NewCoordinator(opts.Transitions, opts.Player, logger),
		checkpoint:  opts.Checkpoint,
		saver:       opts.Saver,
		publisher:   opts.Publisher,
		saveSlot:    opts.SaveSlot,
		logger:      logger,
		state:       StateIdle,
		load:        idleLoad{},
		hasPending:  atomic.NewBool(false),
		busy:        atomic.NewBool(false),
	}

	if m.checkpoint == nil {
		m.checkpoint = noopCheckpointer{}
	}
	if m.saver == nil {
		m.saver = noopSaver{}
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if m.saveSlot == "" {
		m.saveSlot = constants.DefaultSaveSlot
	}

	locale := opts.Locale
	if locale == "" {
		locale = constants.DefaultLocale
	}
	messages, err := NewMessages(locale, constants.DefaultLocale)
	if err != nil {
		logger.Warn("Localized messages unavailable", "locale", locale, "error", err)
	}
	m.messages = messages

	return m
}

// AddListener subscribes l to every notification. The returned function
// unsubscribes it.
func (m *Manager) AddListener(l Listener) (remove func()) {
	slot := &listenerSlot{listener: l}
	m.listeners = append(m.listeners, slot)
	return func() {
		for i, s := range m.listeners {
			if s == slot {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// PushScene activates scene on top of the current one, which is kept
// suspended beneath it.
func (m *Manager) PushScene(scene string, data any, metadata router.Metadata, opts ...NavOption) error {
	return m.navigate(OpPush, scene, data, metadata, opts)
}

// ReplaceScene activates scene in place of the current one, which is released.
func (m *Manager) ReplaceScene(scene string, data any, metadata router.Metadata, opts ...NavOption) error {
	return m.navigate(OpReplace, scene, data, metadata, opts)
}

// PopScene releases the current scene and re-enters the one beneath it
// with a payload of data and metadata. The bottom scene cannot be popped.
func (m *Manager) PopScene(data any, metadata router.Metadata, opts ...NavOption) error {
	top := ""
	if e := m.stack.Peek(); e != nil {
		top = e.Scene
	}
	if m.nav != nil {
		return m.fail(OpPop, top, CodeBusy, ErrBusy)
	}
	if m.stack.Len() < 2 {
		return m.fail(OpPop, top, CodeStackBottom, ErrStackBottom)
	}

	o := collectNavOptions(opts)
	m.begin(&navigation{
		op:         OpPop,
		scene:      m.stack.Below().Scene,
		data:       data,
		metadata:   metadata,
		transition: o.transition,
	})
	return nil
}

func (m *Manager) navigate(op Operation, scene string, data any, metadata router.Metadata, opts []NavOption) error {
	if m.nav != nil {
		return m.fail(op, scene, CodeBusy, ErrBusy)
	}

	res, err := m.resolve(scene)
	if err != nil {
		return m.fail(op, scene, classify(err), err)
	}
	inst, err := m.instantiate(res)
	if err != nil {
		return m.fail(op, scene, CodeInstantiateFailed, err)
	}

	o := collectNavOptions(opts)
	m.begin(&navigation{
		op:         op,
		scene:      scene,
		data:       data,
		metadata:   metadata,
		transition: o.transition,
		instance:   inst,
	})
	return nil
}

// begin runs the save hook and the exit step. The mutation happens once
// the exit step completes, which may be right away.
func (m *Manager) begin(nav *navigation) {
	m.nav = nav
	m.busy.Store(true)
	nav.outgoing = m.stack.Peek()

	m.save()
	m.setState(StateExitTransitionPlaying)

	if nav.transition == "" || nav.outgoing == nil {
		m.commit(nav)
		return
	}
	m.transitions.Play(m.transitions.Get(nav.transition), transition.DirectionExit, func(*transition.Descriptor, transition.Direction) {
		if m.nav != nav {
			return
		}
		m.transitionComplete(nav.outgoing.Scene, nav, transition.DirectionExit)
		if m.nav != nav {
			return
		}
		m.commit(nav)
	})
}

// commit applies the mutation. A listener may Close the manager from any
// notification; commit stops as soon as nav is no longer current.
func (m *Manager) commit(nav *navigation) {
	m.setState(StateMutating)
	m.emit(func(l Listener) { l.AboutToChange(nav.scene, nav.outgoing) })
	if m.nav != nav {
		return
	}
	nav.committed = true
	m.tickCommitted = true

	var entry *router.Entry
	payload := map[string]any{"operation": nav.op.String()}

	switch nav.op {
	case OpPush:
		if nav.outgoing != nil {
			m.suspend(nav.outgoing)
		}
		entry = m.stack.Push(nav.scene, nav.data, nav.metadata)
		entry.Instance = nav.instance
		payload["scene"] = entry.Scene
		payload["source"] = entry.Payload.Source

	case OpReplace:
		replaced, e := m.stack.Replace(nav.scene, nav.data, nav.metadata)
		entry = e
		entry.Instance = nav.instance
		if replaced != nil {
			m.release(replaced)
		}
		payload["scene"] = entry.Scene
		payload["source"] = entry.Payload.Source

	case OpPop:
		popped, err := m.stack.Pop(nav.data, nav.metadata)
		if err != nil {
			// Only reachable if the stack was changed outside the manager.
			m.logger.Error("Pop lost its target", "error", err)
			m.finish()
			return
		}
		m.release(popped)
		entry = m.stack.Peek()
		payload["scene"] = entry.Scene
		payload["popped"] = popped.Scene
	}

	m.enter(entry)
	m.notifyCheckpoint(nav.op, entry.Scene)
	m.logger.Info("Scene changed", "operation", nav.op.String(), "scene", entry.Scene, "source", entry.Payload.Source, "depth", m.stack.Len())
	m.emit(func(l Listener) { l.SceneChanged(entry.Scene, entry) })
	if m.nav != nav {
		return
	}
	m.publish(topicFor(nav.op), payload)

	m.setState(StateEnterTransitionPlaying)
	if nav.transition == "" {
		m.finish()
		return
	}
	m.transitions.Play(m.transitions.Get(nav.transition), transition.DirectionEnter, func(*transition.Descriptor, transition.Direction) {
		if m.nav != nav {
			return
		}
		m.transitionComplete(entry.Scene, nav, transition.DirectionEnter)
		m.finish()
	})
}

func (m *Manager) finish() {
	m.nav = nil
	m.busy.Store(false)
	m.settleState()
}

// settleState moves to Idle, or back to AsyncLoading while a load is pending.
func (m *Manager) settleState() {
	if m.nav != nil {
		return
	}
	if _, ok := m.load.(*pendingLoad); ok {
		m.setState(StateAsyncLoading)
		return
	}
	m.setState(StateIdle)
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	m.logger.Debug("Flow state", "from", m.state.String(), "to", s.String())
	m.state = s
}

func (m *Manager) fail(op Operation, scene string, code Code, err error) error {
	navErr := &NavigationError{Op: op, Scene: scene, Code: code, Err: err}
	m.logger.Error("Scene navigation failed", "operation", op.String(), "scene", scene, "code", code.String(), "error", err)

	msg := m.messages.Describe(code, scene, err)
	m.emit(func(l Listener) { l.SceneError(scene, code, msg) })
	m.publish(constants.TopicError, map[string]any{
		"operation": op.String(),
		"scene":     scene,
		"code":      code.String(),
		"message":   msg,
	})
	return navErr
}

func (m *Manager) transitionComplete(scene string, nav *navigation, dir transition.Direction) {
	meta := nav.metadata.
		With(constants.MetaDirection, dir.String()).
		With(constants.MetaTransition, nav.transition)
	m.emit(func(l Listener) { l.TransitionComplete(scene, meta) })
}

// State returns the manager's position in the navigation state machine.
func (m *Manager) State() State {
	return m.state
}

// Busy reports whether a navigation is between its exit and enter steps.
// Safe from any goroutine.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// Peek returns the visible entry, or nil before the first push.
func (m *Manager) Peek() *router.Entry {
	return m.stack.Peek()
}

// Len returns the number of scenes on the stack.
func (m *Manager) Len() int {
	return m.stack.Len()
}

// Entries returns the stack bottom to top.
func (m *Manager) Entries() []*router.Entry {
	return m.stack.Entries()
}

// Close cancels any pending load and releases every scene, top first.
// A navigation caught mid-transition is abandoned.
func (m *Manager) Close() {
	m.CancelPendingLoad()
	if p, ok := m.load.(*pendingLoad); ok {
		// Already terminal, so not cancellable; drop it unapplied.
		m.logger.Info("Dropping finished scene load", "scene", p.handle.Scene(), "status", p.handle.Status().String())
		m.clearLoad()
	}

	if m.nav != nil && !m.nav.committed && m.nav.instance != nil {
		m.guard("instance release", m.nav.instance.Release)
	}
	m.nav = nil
	m.busy.Store(false)

	entries := m.stack.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		m.release(entries[i])
	}
	m.stack.Clear()
	m.setState(StateIdle)
}

func topicFor(op Operation) string {
	switch op {
	case OpReplace:
		return constants.TopicReplace
	case OpPop:
		return constants.TopicPop
	default:
		return constants.TopicPush
	}
}

// Collaborators and scene code are outside the manager's control. Their
// panics and failures are logged and never stop a navigation.

func (m *Manager) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("Collaborator panicked", "collaborator", what, "panic", r)
		}
	}()
	fn()
}

func (m *Manager) resolve(scene string) (res router.Resource, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sceneflow: resolve %q panicked: %v", scene, r)
		}
	}()
	return m.loader.Resolve(scene)
}

func (m *Manager) instantiate(res router.Resource) (inst router.Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sceneflow: instantiate panicked: %v", r)
		}
	}()
	if res == nil {
		return nil, fmt.Errorf("sceneflow: nil resource: %w", ErrSceneNotFound)
	}
	inst, err = res.Instantiate()
	if err == nil && inst == nil {
		err = fmt.Errorf("sceneflow: resource produced no instance")
	}
	return inst, err
}

func (m *Manager) enter(e *router.Entry) {
	if e.Instance != nil {
		m.guard("instance enter", func() { e.Instance.Enter(e.Payload) })
	}
}

func (m *Manager) suspend(e *router.Entry) {
	if e.Instance != nil {
		m.guard("instance suspend", e.Instance.Suspend)
	}
}

func (m *Manager) release(e *router.Entry) {
	if e.Instance != nil {
		inst := e.Instance
		e.Instance = nil
		m.guard("instance release", inst.Release)
	}
}

func (m *Manager) save() {
	ok := true
	m.guard("saver", func() { ok = m.saver.Save(m.saveSlot) })
	if !ok {
		m.logger.Warn("Save hook reported failure", "slot", m.saveSlot)
	}
}

func (m *Manager) notifyCheckpoint(op Operation, scene string) {
	m.guard("checkpoint", func() {
		m.checkpoint.OnSceneTransition(CheckpointPayload{Operation: op, Scene: scene})
	})
}

func (m *Manager) publish(topic string, payload map[string]any) {
	m.guard("publisher", func() {
		if err := m.publisher.Publish(topic, payload); err != nil {
			m.logger.Warn("Analytics publish failed", "topic", topic, "error", err)
		}
	})
}

func (m *Manager) emit(fn func(Listener)) {
	listeners := make([]*listenerSlot, len(m.listeners))
	copy(listeners, m.listeners)
	for _, s := range listeners {
		m.guard("listener", func() { fn(s.listener) })
	}
}
