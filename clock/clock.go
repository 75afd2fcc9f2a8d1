// Package clock implements the system clock: a monotonic tick counter with
// a Low/High half-phase, driving sequential gates' ClockUp/ClockDown edges.
package clock

import "fmt"

// Phase is one of the two half-phases of a clock cycle.
type Phase int

const (
	// Low is the half-phase preceding a ClockUp (rising) edge.
	Low Phase = iota
	// High is the half-phase preceding a ClockDown (falling) edge.
	High
)

func (p Phase) String() string {
	if p == High {
		return "High"
	}
	return "Low"
}

// Edge identifies which transition a Tick just performed.
type Edge int

const (
	// NoEdge means no observer callbacks should fire (unused by Tick, kept
	// for callers building their own Edge-keyed dispatch).
	NoEdge Edge = iota
	// Up is the Low->High edge: observers receive ClockUp.
	Up
	// Down is the High->Low edge: observers receive ClockDown.
	Down
)

// Observer is anything that reacts to clock edges, implemented by every
// sequential gate instance and by composites that contain one.
type Observer interface {
	ClockUp()
	ClockDown()
}

// PhaseViolationError describes a half-phase handler about to run twice in
// a row without the opposite phase in between. Nothing in this package
// returns it: Tick always alternates phases.
type PhaseViolationError struct {
	Phase Phase
}

func (e *PhaseViolationError) Error() string {
	return fmt.Sprintf("clock: phase violation, already in %s phase", e.Phase)
}

// Clock is a tick counter with half-phase state and a configurable rate.
// New (or Reset) puts it in its initial state: value -1 ("not yet ticked")
// and phase Low. The zero value has value 0 and rate 0 until Reset is
// called.
type Clock struct {
	rate  int
	value int64
	phase Phase
}

// New returns a Clock with the given rate (cycles per second), reset to its
// initial state.
func New(rate int) *Clock {
	c := &Clock{}
	c.Reset()
	c.SetRate(rate)
	return c
}

// SetRate sets the cycle rate in Hz. Non-positive rates are ignored, per the
// invariant that rate is always positive.
func (c *Clock) SetRate(hz int) {
	if hz > 0 {
		c.rate = hz
	}
}

// GetRate returns the current rate in Hz.
func (c *Clock) GetRate() int {
	return c.rate
}

// Value returns the current tick index (-1 before the first tick).
func (c *Clock) Value() int64 {
	return c.value
}

// PhaseState returns the current half-phase.
func (c *Clock) PhaseState() Phase {
	return c.phase
}

// Reset returns the clock to its initial state: value -1, phase Low.
func (c *Clock) Reset() {
	c.value = -1
	c.phase = Low
	if c.rate == 0 {
		c.rate = 1
	}
}

// Tick advances the clock by one half-phase and notifies obs of the edge it
// just crossed. A full cycle is Low->High->Low; value increments on the
// Low->High edge (the point at which a new cycle begins).
func (c *Clock) Tick(obs ...Observer) Edge {
	var edge Edge
	if c.phase == Low {
		c.phase = High
		c.value++
		edge = Up
	} else {
		c.phase = Low
		edge = Down
	}
	for _, o := range obs {
		if o == nil {
			continue
		}
		if edge == Up {
			o.ClockUp()
		} else {
			o.ClockDown()
		}
	}
	return edge
}

// SystemClock is the process-wide shared clock instance that
// circuit.Instance.Tick drives. Tests should prefer an isolated *Clock via
// New instead of touching this singleton.
var SystemClock = New(1)
