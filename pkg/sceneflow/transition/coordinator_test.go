package transition

import (
	"testing"
	"time"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/constants"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	name string
	dir  Direction
}

func record(steps *[]step) func(*Descriptor, Direction) {
	return func(d *Descriptor, dir Direction) {
		name := ""
		if d != nil {
			name = d.Name
		}
		*steps = append(*steps, step{name, dir})
	}
}

func TestCoordinator_NilDescriptorCompletesImmediately(t *testing.T) {
	c := NewCoordinator(NewLibrary(), NewTimedPlayer(), internal.DiscardLogger())

	var steps []step
	c.Play(c.Get("missing"), DirectionExit, record(&steps))

	assert.Equal(t, []step{{"", DirectionExit}}, steps)
	assert.False(t, c.Playing())
}

func TestCoordinator_NoPlayerCompletesImmediately(t *testing.T) {
	c := NewCoordinator(NewLibrary(Descriptor{Name: "fade"}), nil, internal.DiscardLogger())

	var steps []step
	c.Play(c.Get("fade"), DirectionEnter, record(&steps))
	c.Update(time.Second)

	assert.Equal(t, []step{{"fade", DirectionEnter}}, steps)
}

func TestCoordinator_TimedPlayerCompletesOnTicks(t *testing.T) {
	player := NewTimedPlayer()
	var frames []float64
	player.OnFrame = func(_ Descriptor, _ Direction, t float64) { frames = append(frames, t) }

	c := NewCoordinator(NewLibrary(Descriptor{Name: "fade", Duration: 100 * time.Millisecond}), player, internal.DiscardLogger())

	var steps []step
	c.Play(c.Get("fade"), DirectionExit, record(&steps))
	assert.True(t, c.Playing())
	assert.Empty(t, steps)

	c.Update(50 * time.Millisecond)
	assert.Empty(t, steps)

	c.Update(50 * time.Millisecond)
	assert.Equal(t, []step{{"fade", DirectionExit}}, steps)
	assert.False(t, c.Playing())
	assert.Equal(t, []float64{0, 0.5, 1}, frames)
}

func TestCoordinator_DoneFiresOnce(t *testing.T) {
	var finish func()
	player := PlayerFunc(func(_ Descriptor, _ Direction, done func()) {
		finish = done
	})
	c := NewCoordinator(NewLibrary(Descriptor{Name: "fade"}), player, internal.DiscardLogger())

	var steps []step
	c.Play(c.Get("fade"), DirectionEnter, record(&steps))
	require.NotNil(t, finish)

	finish()
	finish()

	assert.Len(t, steps, 1)
}

func TestCoordinator_PanickingPlayerDoesNotStall(t *testing.T) {
	player := PlayerFunc(func(Descriptor, Direction, func()) { panic("gpu lost") })
	c := NewCoordinator(NewLibrary(Descriptor{Name: "fade"}), player, internal.DiscardLogger())

	var steps []step
	require.NotPanics(t, func() {
		c.Play(c.Get("fade"), DirectionEnter, record(&steps))
	})

	assert.Equal(t, []step{{"fade", DirectionEnter}}, steps)
	assert.False(t, c.Playing())
}

func TestTimedPlayer_PlaySkipsRunningTransition(t *testing.T) {
	p := NewTimedPlayer()
	var done []string

	p.Play(Descriptor{Name: "a"}, DirectionExit, func() { done = append(done, "a") })
	p.Play(Descriptor{Name: "b"}, DirectionEnter, func() { done = append(done, "b") })

	assert.Equal(t, []string{"a"}, done)
	assert.True(t, p.Active())

	p.Update(constants.DefaultTransitionDuration)
	assert.Equal(t, []string{"a", "b"}, done)
	assert.False(t, p.Active())
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "exit", DirectionExit.String())
	assert.Equal(t, "enter", DirectionEnter.String())
	assert.Equal(t, "fade_in", Descriptor{EnterID: "fade_in", ExitID: "fade_out"}.EffectID(DirectionEnter))
	assert.Equal(t, "fade_out", Descriptor{EnterID: "fade_in", ExitID: "fade_out"}.EffectID(DirectionExit))
}
