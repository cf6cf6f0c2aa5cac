// Package transition provides named enter/exit transition descriptors and
// the coordinator that plays them around scene changes.
package transition

import "time"

// Direction tells a player which half of a transition to play.
type Direction int

const (
	DirectionExit  Direction = iota // Outgoing scene leaves
	DirectionEnter                  // Incoming scene arrives
)

func (d Direction) String() string {
	switch d {
	case DirectionExit:
		return "exit"
	case DirectionEnter:
		return "enter"
	default:
		return ""
	}
}

// Descriptor names the visual effects a player runs for one transition.
type Descriptor struct {
	Name     string
	EnterID  string        // Effect played on the incoming scene
	ExitID   string        // Effect played on the outgoing scene
	Duration time.Duration // Hint for players; zero lets the player pick
}

// EffectID returns the effect for a direction.
func (d Descriptor) EffectID(dir Direction) string {
	if dir == DirectionEnter {
		return d.EnterID
	}
	return d.ExitID
}
