package transition

import (
	"time"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/constants"
)

// TimedPlayer completes each transition after its duration has elapsed in
// ticks. OnFrame, if set, receives the normalized time of every frame,
// which is where a renderer would draw the effect.
type TimedPlayer struct {
	OnFrame func(d Descriptor, dir Direction, t float64)

	active *timedPlay
}

type timedPlay struct {
	descriptor Descriptor
	direction  Direction
	duration   time.Duration
	elapsed    time.Duration
	done       func()
}

// NewTimedPlayer creates a TimedPlayer.
func NewTimedPlayer() *TimedPlayer {
	return &TimedPlayer{}
}

// Play starts d. A transition still running is finished first.
func (p *TimedPlayer) Play(d Descriptor, dir Direction, done func()) {
	p.Skip()

	duration := d.Duration
	if duration <= 0 {
		duration = constants.DefaultTransitionDuration
	}
	p.active = &timedPlay{
		descriptor: d,
		direction:  dir,
		duration:   duration,
		done:       done,
	}
	p.frame(0)
}

// Update advances the running transition by delta.
func (p *TimedPlayer) Update(delta time.Duration) {
	if p.active == nil {
		return
	}
	p.active.elapsed += delta

	t := float64(p.active.elapsed) / float64(p.active.duration)
	if t >= 1 {
		p.Skip()
		return
	}
	p.frame(t)
}

// Skip finishes the running transition immediately.
func (p *TimedPlayer) Skip() {
	if p.active == nil {
		return
	}
	p.frame(1)
	done := p.active.done
	p.active = nil
	done()
}

// Active reports whether a transition is running.
func (p *TimedPlayer) Active() bool {
	return p.active != nil
}

func (p *TimedPlayer) frame(t float64) {
	if p.OnFrame != nil {
		p.OnFrame(p.active.descriptor, p.active.direction, t)
	}
}
