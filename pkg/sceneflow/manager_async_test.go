package sceneflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/transition"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

func TestPushSceneAsync_ProgressThenCommit(t *testing.T) {
	f := newFixture(t, sceneflow.Options{}, "Alpha", "Beta")
	f.seed(t, "Alpha")
	f.backend.Progress["Beta"] = []float64{0.5, 1.0}

	require.NoError(t, f.flow.PushSceneAsync("Beta", "save-3", router.Metadata{"from": "menu"}))
	assert.True(t, f.flow.HasPendingLoad())
	assert.Equal(t, sceneflow.StateAsyncLoading, f.flow.State())
	assert.Empty(t, f.journal.Calls, "nothing is instantiated before the load resolves")

	f.flow.Update(frame)
	assert.Equal(t, "Alpha", f.flow.Peek().Scene)
	assert.True(t, f.flow.HasPendingLoad())

	f.flow.Update(frame)
	assert.False(t, f.flow.HasPendingLoad())
	assert.Equal(t, sceneflow.StateIdle, f.flow.State())

	want := []string{
		"progress:Beta:0.5",
		"finished:Beta:loaded",
		"about:Beta",
		"changed:Beta",
	}
	if diff := cmp.Diff(want, f.rec.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	top := f.flow.Peek()
	assert.Equal(t, "Beta", top.Scene)
	assert.Equal(t, "save-3", top.Payload.Data)
	assert.Equal(t, router.Metadata{"from": "menu"}, top.Payload.Metadata)
	assert.Equal(t, "Alpha", top.Payload.Source)
	assert.Equal(t, []string{"Beta.instantiate", "Alpha.suspend", "Beta.enter"}, f.journal.Calls)

	f.flow.Update(frame)
	assert.Len(t, f.rec.events, 4, "a finished load reports nothing further")
}

func TestPushSceneAsync_ProgressOnlyWhenIncreasing(t *testing.T) {
	f := newFixture(t, sceneflow.Options{}, "Alpha", "Beta")
	f.seed(t, "Alpha")
	f.backend.Progress["Beta"] = []float64{0.3, 0.3, 0.2, 0.6, 1}

	require.NoError(t, f.flow.PushSceneAsync("Beta", nil, nil))
	for range 5 {
		f.flow.Update(frame)
	}

	assert.Equal(t, []string{
		"progress:Beta:0.3",
		"progress:Beta:0.6",
		"finished:Beta:loaded",
		"about:Beta",
		"changed:Beta",
	}, f.rec.events)
}

func TestAsyncLoad_FailureLeavesStack(t *testing.T) {
	tests := []struct {
		name  string
		start func(*sceneflow.Manager) error
		scene string
		setup func(*fixture)
		code  sceneflow.Code
	}{
		{
			name:  "push unknown scene",
			start: func(m *sceneflow.Manager) error { return m.PushSceneAsync("Missing", nil, nil) },
			scene: "Missing",
			code:  sceneflow.CodeSceneNotFound,
		},
		{
			name:  "replace with corrupt data",
			start: func(m *sceneflow.Manager) error { return m.ReplaceSceneAsync("Beta", nil, nil) },
			scene: "Beta",
			setup: func(f *fixture) { f.backend.Fail["Beta"] = errors.New("corrupt pak") },
			code:  sceneflow.CodeLoadFailed,
		},
		{
			name:  "backend refuses request",
			start: func(m *sceneflow.Manager) error { return m.PushSceneAsync("Beta", nil, nil) },
			scene: "Beta",
			setup: func(f *fixture) { f.backend.BeginErr["Beta"] = errors.New("queue full") },
			code:  sceneflow.CodeLoadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, sceneflow.Options{}, "Alpha", "Beta")
			f.seed(t, "Alpha")
			if tt.setup != nil {
				tt.setup(f)
			}
			before := f.flow.Peek()

			require.NoError(t, tt.start(f.flow), "failures are reported through listeners")
			f.flow.Update(frame)

			assert.Same(t, before, f.flow.Peek())
			assert.Equal(t, 1, f.flow.Len())
			assert.False(t, f.flow.HasPendingLoad())
			assert.Equal(t, sceneflow.StateIdle, f.flow.State())
			assert.Empty(t, f.journal.Calls)

			require.Len(t, f.rec.errors, 1)
			assert.Equal(t, tt.scene, f.rec.errors[0].scene)
			assert.Equal(t, tt.code, f.rec.errors[0].code)
			assert.Equal(t, []string{"error:" + tt.scene + ":" + tt.code.String()}, f.rec.events)
		})
	}
}

func TestAsyncLoad_InstantiateFailure(t *testing.T) {
	f := newFixture(t, sceneflow.Options{}, "Alpha")
	f.seed(t, "Alpha")
	f.backend.Scenes["Beta"] = router.ResourceFunc(func() (router.Instance, error) {
		panic("shader compile")
	})

	require.NoError(t, f.flow.PushSceneAsync("Beta", nil, nil))
	f.flow.Update(frame)

	assert.Equal(t, []string{"finished:Beta:loaded", "error:Beta:instantiate_failed"}, f.rec.events)
	assert.Equal(t, []string{"Alpha"}, f.stackIDs())
	assert.Equal(t, sceneflow.StateIdle, f.flow.State())
}

func TestCancelPendingLoad(t *testing.T) {
	f := newFixture(t, sceneflow.Options{}, "Alpha", "Beta")
	f.seed(t, "Alpha")
	f.backend.Progress["Beta"] = []float64{0.2, 0.4, 0.8}

	require.NoError(t, f.flow.PushSceneAsync("Beta", nil, nil))
	f.flow.Update(frame)
	f.flow.CancelPendingLoad()

	assert.False(t, f.flow.HasPendingLoad())
	assert.Equal(t, sceneflow.StateIdle, f.flow.State())
	assert.Equal(t, []string{"Beta"}, f.backend.Aborted)

	for range 3 {
		f.flow.Update(frame)
	}
	assert.Equal(t, []string{"progress:Beta:0.2", "cancelled:Beta"}, f.rec.events)
	assert.Equal(t, []string{"Alpha"}, f.stackIDs())
	assert.Empty(t, f.journal.Calls)

	// Nothing pending: cancelling again is a no-op.
	f.flow.CancelPendingLoad()
	assert.Equal(t, 1, f.rec.count("cancelled:"))
}

func TestPushSceneAsync_SecondRequestRejected(t *testing.T) {
	f := newFixture(t, sceneflow.Options{}, "Alpha", "Beta", "Gamma")
	f.seed(t, "Alpha")
	f.backend.Progress["Beta"] = []float64{0.5}

	require.NoError(t, f.flow.PushSceneAsync("Beta", nil, nil))
	err := f.flow.ReplaceSceneAsync("Gamma", nil, nil)

	assert.ErrorIs(t, err, sceneflow.ErrLoadPending)
	assert.Equal(t, sceneflow.CodeLoadPending, sceneflow.CodeOf(err))
	assert.Equal(t, []string{"error:Gamma:load_pending"}, f.rec.events)
	assert.Equal(t, []string{"Beta"}, f.backend.Begun)

	f.flow.Update(frame)
	f.flow.Update(frame)
	assert.Equal(t, []string{"Alpha", "Beta"}, f.stackIDs())
}

func TestAsyncLoad_WaitsForNavigationInFlight(t *testing.T) {
	f := newFixture(t, sceneflow.Options{
		Transitions: transition.NewLibrary(transition.Descriptor{Name: "fade", Duration: 100 * time.Millisecond}),
		Player:      transition.NewTimedPlayer(),
	}, "Alpha", "Beta", "Gamma")
	f.seed(t, "Alpha")

	require.NoError(t, f.flow.PushScene("Beta", nil, nil, sceneflow.WithTransition("fade")))
	require.NoError(t, f.flow.PushSceneAsync("Gamma", nil, nil))

	f.flow.Update(10 * time.Millisecond)
	assert.True(t, f.flow.HasPendingLoad(), "loaded scene waits for the exit step")

	f.flow.Update(100 * time.Millisecond)
	assert.Equal(t, sceneflow.StateEnterTransitionPlaying, f.flow.State())
	assert.True(t, f.flow.HasPendingLoad(), "and for the enter step")

	f.flow.Update(100 * time.Millisecond)
	assert.False(t, f.flow.HasPendingLoad())
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, f.stackIDs())

	want := []string{
		"transition:Alpha:exit",
		"about:Beta",
		"changed:Beta",
		"transition:Beta:enter",
		"finished:Gamma:loaded",
		"about:Gamma",
		"changed:Gamma",
	}
	if diff := cmp.Diff(want, f.rec.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPushSceneAsync_WithTransition(t *testing.T) {
	f := newFixture(t, sceneflow.Options{
		Transitions: transition.NewLibrary(transition.Descriptor{Name: "wipe", Duration: 50 * time.Millisecond}),
		Player:      transition.NewTimedPlayer(),
	}, "Alpha", "Beta")
	f.seed(t, "Alpha")

	require.NoError(t, f.flow.ReplaceSceneAsync("Beta", nil, nil, sceneflow.WithTransition("wipe")))
	f.flow.Update(frame)
	assert.Equal(t, sceneflow.StateExitTransitionPlaying, f.flow.State())
	assert.Equal(t, "Alpha", f.flow.Peek().Scene)

	f.flow.Update(50 * time.Millisecond)
	f.flow.Update(50 * time.Millisecond)

	assert.Equal(t, []string{"Beta"}, f.stackIDs())
	assert.Equal(t, sceneflow.StateIdle, f.flow.State())
	assert.Equal(t, 2, f.rec.count("transition:"))
	assert.Equal(t, []string{"Beta.instantiate", "Alpha.release", "Beta.enter"}, f.journal.Calls)
}

func TestSyncNavigation_AllowedWhileLoadPending(t *testing.T) {
	f := newFixture(t, sceneflow.Options{}, "Alpha", "Beta", "Gamma")
	f.seed(t, "Alpha")
	f.backend.Progress["Gamma"] = []float64{0.5}

	require.NoError(t, f.flow.PushSceneAsync("Gamma", nil, nil))
	require.NoError(t, f.flow.PushScene("Beta", nil, nil))
	assert.Equal(t, sceneflow.StateAsyncLoading, f.flow.State())

	f.flow.Update(frame)
	f.flow.Update(frame)

	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, f.stackIDs())
	assert.Equal(t, "Beta", f.flow.Peek().Payload.Source)
}

// slowExitPlayer finishes exit steps on the next tick and enter steps at once.
type slowExitPlayer struct {
	exit func()
}

func (p *slowExitPlayer) Play(_ transition.Descriptor, dir transition.Direction, done func()) {
	if dir == transition.DirectionExit {
		p.exit = done
		return
	}
	done()
}

func (p *slowExitPlayer) Update(time.Duration) {
	if done := p.exit; done != nil {
		p.exit = nil
		done()
	}
}

func TestAsyncLoad_OneCommitPerUpdate(t *testing.T) {
	f := newFixture(t, sceneflow.Options{
		Transitions: transition.NewLibrary(transition.Descriptor{Name: "fade"}),
		Player:      &slowExitPlayer{},
	}, "Alpha", "Beta", "Gamma")
	f.seed(t, "Alpha")

	require.NoError(t, f.flow.PushScene("Beta", nil, nil, sceneflow.WithTransition("fade")))
	require.NoError(t, f.flow.PushSceneAsync("Gamma", nil, nil))

	f.flow.Update(frame)
	assert.Equal(t, []string{"Alpha", "Beta"}, f.stackIDs())
	assert.True(t, f.flow.HasPendingLoad(), "loaded scene waits for the next tick")
	assert.Equal(t, sceneflow.StateAsyncLoading, f.flow.State())
	assert.Equal(t, 1, f.rec.count("changed:"))

	f.flow.Update(frame)
	assert.False(t, f.flow.HasPendingLoad())
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, f.stackIDs())

	want := []string{
		"transition:Alpha:exit",
		"about:Beta",
		"changed:Beta",
		"transition:Beta:enter",
		"finished:Gamma:loaded",
		"about:Gamma",
		"changed:Gamma",
	}
	if diff := cmp.Diff(want, f.rec.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelPendingLoad_FinishedLoadIsKept(t *testing.T) {
	f := newFixture(t, sceneflow.Options{
		Transitions: transition.NewLibrary(transition.Descriptor{Name: "fade", Duration: 100 * time.Millisecond}),
		Player:      transition.NewTimedPlayer(),
	}, "Alpha", "Beta", "Gamma")
	f.seed(t, "Alpha")

	require.NoError(t, f.flow.PushScene("Beta", nil, nil, sceneflow.WithTransition("fade")))
	require.NoError(t, f.flow.PushSceneAsync("Gamma", nil, nil))
	f.flow.Update(10 * time.Millisecond)

	f.flow.CancelPendingLoad()
	assert.True(t, f.flow.HasPendingLoad())
	assert.Empty(t, f.backend.Aborted)
	assert.Zero(t, f.rec.count("cancelled:"))

	f.flow.Update(100 * time.Millisecond)
	f.flow.Update(100 * time.Millisecond)

	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, f.stackIDs())
	assert.Equal(t, 1, f.rec.count("finished:Gamma:loaded"))
	assert.Zero(t, f.rec.count("cancelled:"))
}

func TestClose_DropsFinishedLoad(t *testing.T) {
	f := newFixture(t, sceneflow.Options{
		Transitions: transition.NewLibrary(transition.Descriptor{Name: "fade", Duration: 100 * time.Millisecond}),
		Player:      transition.NewTimedPlayer(),
	}, "Alpha", "Beta", "Gamma")
	f.seed(t, "Alpha")

	require.NoError(t, f.flow.PushScene("Beta", nil, nil, sceneflow.WithTransition("fade")))
	require.NoError(t, f.flow.PushSceneAsync("Gamma", nil, nil))
	f.flow.Update(10 * time.Millisecond)
	require.True(t, f.flow.HasPendingLoad())

	f.flow.Close()
	f.flow.Update(time.Second)

	assert.False(t, f.flow.HasPendingLoad())
	assert.Equal(t, sceneflow.StateIdle, f.flow.State())
	assert.Equal(t, 0, f.flow.Len())
	assert.NotContains(t, f.journal.Calls, "Gamma.instantiate")
	assert.Zero(t, f.rec.count("finished:"))
	assert.Zero(t, f.rec.count("cancelled:"))
}
