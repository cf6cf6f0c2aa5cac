package transition

import (
	"log/slog"
	"time"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/internal"
	"go.uber.org/atomic"
)

// Player renders transitions. Play starts the effect for one direction and
// calls done exactly once when it has finished, either synchronously or
// from a later Update.
type Player interface {
	Play(d Descriptor, dir Direction, done func())
}

// Ticker is implemented by players that advance on the owner's tick.
type Ticker interface {
	Update(delta time.Duration)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(d Descriptor, dir Direction, done func())

// Play implements Player.
func (f PlayerFunc) Play(d Descriptor, dir Direction, done func()) {
	f(d, dir, done)
}

// Coordinator resolves descriptors and plays them through a Player.
// Either collaborator may be nil, in which case every step completes
// immediately.
type Coordinator struct {
	library *Library
	player  Player
	playing *atomic.Bool
	logger  *slog.Logger
}

// NewCoordinator creates a Coordinator. A nil logger uses the package logger.
func NewCoordinator(library *Library, player Player, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = internal.GetLogger()
	}
	return &Coordinator{
		library: library,
		player:  player,
		playing: atomic.NewBool(false),
		logger:  logger,
	}
}

// Get resolves a transition name through the library.
func (c *Coordinator) Get(name string) *Descriptor {
	return c.library.Get(name)
}

// Playing reports whether a transition is in flight. Safe from any goroutine.
func (c *Coordinator) Playing() bool {
	return c.playing.Load()
}

// Play runs one direction of d and calls done(d, dir) exactly once.
// A nil descriptor or missing player completes before Play returns.
func (c *Coordinator) Play(d *Descriptor, dir Direction, done func(*Descriptor, Direction)) {
	if d == nil || c.player == nil {
		done(d, dir)
		return
	}

	fired := false
	complete := func() {
		if fired {
			return
		}
		fired = true
		c.playing.Store(false)
		done(d, dir)
	}

	c.playing.Store(true)
	c.logger.Debug("Playing transition", "transition", d.Name, "direction", dir.String(), "effect", d.EffectID(dir))

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Transition player panicked, skipping step", "transition", d.Name, "panic", r)
			complete()
		}
	}()
	c.player.Play(*d, dir, complete)
}

// Update forwards the tick to the player if it is a Ticker.
func (c *Coordinator) Update(delta time.Duration) {
	if t, ok := c.player.(Ticker); ok {
		t.Update(delta)
	}
}
