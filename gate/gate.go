// Package gate implements the built-in gate registry (combinational and
// sequential primitives) that the composite linker and evaluator bind HDL
// parts to.
package gate

import (
	"fmt"

	"hdlsim/clock"
	"hdlsim/pin"
	"hdlsim/word"
)

// Spec is the immutable specification record for a gate class: its name,
// pinout, human-readable description, and (for combinational gates) its
// canonical truth table.
type Spec struct {
	Name        string
	Description string
	Inputs      []pin.Spec
	Outputs     []pin.Spec
	TruthTable  []Row // a curated sample for sequential gates and gates above the enumeration cap
	Sampled     bool  // true when TruthTable is a curated sample, not exhaustive
}

// Row is one row of a truth table or of execOnData stimulus: a mapping from
// pin name to value.
type Row map[string]word.Word

// PinSpec looks up an input or output pin spec by name.
func (s Spec) PinSpec(name string) (pin.Spec, bool) {
	for _, p := range s.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range s.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return pin.Spec{}, false
}

// IsInput reports whether name is one of the gate's declared inputs.
func (s Spec) IsInput(name string) bool {
	for _, p := range s.Inputs {
		if p.Name == name {
			return true
		}
	}
	return false
}

// IsOutput reports whether name is one of the gate's declared outputs.
func (s Spec) IsOutput(name string) bool {
	for _, p := range s.Outputs {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ClockPhaseViolationError is returned when a sequential gate's half-phase
// handler is invoked out of Low/High order.
type ClockPhaseViolationError struct {
	Gate  string
	Phase clock.Phase
}

func (e *ClockPhaseViolationError) Error() string {
	return fmt.Sprintf("%s: clock phase violation calling handler while already past %s", e.Gate, e.Phase)
}

// Instance is a live instantiation of a built-in gate: a pin map plus its
// behavior functions. Sequential instances additionally hold shadow state
// and track half-phase ordering to surface ClockPhaseViolationError.
type Instance struct {
	class *Class
	pins  map[string]*pin.Pin
	state map[string]word.Word // shadow/internal state for sequential gates
	mem   []word.Word          // backing storage for RAM/ROM-family gates
	aux   any                  // nested sub-instances for composite-as-builtin gates (CPU/Memory/Computer)

	phase       clock.Phase
	phaseInited bool
	lastErr     error
}

// Class is the built-in gate class record: spec plus constructor and
// behavior functions. Classes are immutable after registration.
type Class struct {
	Spec       Spec
	Sequential bool
	MemSize    int // > 0 for RAM/ROM-family gates: number of addressable cells
	build      func(i *Instance) // optional extra setup, e.g. nested children
	evaluate   func(i *Instance)
	clockUp    func(i *Instance)
	clockDown  func(i *Instance)
}

// New creates a fresh Instance of the class with all pins at zero.
func (c *Class) New() *Instance {
	inst := &Instance{
		class: c,
		pins:  make(map[string]*pin.Pin),
		state: make(map[string]word.Word),
	}
	if c.MemSize > 0 {
		inst.mem = make([]word.Word, c.MemSize)
	}
	for _, p := range c.Spec.Inputs {
		inst.pins[p.Name] = pin.New(p)
	}
	for _, p := range c.Spec.Outputs {
		inst.pins[p.Name] = pin.New(p)
	}
	if c.build != nil {
		c.build(inst)
	}
	return inst
}

// Mem exposes the raw backing storage of a RAM/ROM-family instance, used by
// a loader to preload ROM32K contents or tests to seed/inspect RAM state.
func (i *Instance) Mem() []word.Word { return i.mem }

// Class returns the instance's gate class.
func (i *Instance) Class() *Class { return i.class }

// SetInput sets an input pin's value. evaluate() treats any pin never set
// as zero, so this is the only way stimulus reaches a gate.
func (i *Instance) SetInput(name string, w word.Word) bool {
	p, ok := i.pins[name]
	if !ok || !i.class.Spec.IsInput(name) {
		return false
	}
	p.SetValue(w)
	return true
}

// Output returns an output pin's current value.
func (i *Instance) Output(name string) (word.Word, bool) {
	p, ok := i.pins[name]
	if !ok || !i.class.Spec.IsOutput(name) {
		return 0, false
	}
	return p.Value(), true
}

// Pin exposes the raw Pin for a declared input or output, for reading or
// writing its sub-buses directly.
func (i *Instance) Pin(name string) (*pin.Pin, bool) {
	p, ok := i.pins[name]
	return p, ok
}

// Evaluate runs the gate's pure combinational function. evaluate() is
// total: it never fails, it only ever reads the pins currently set.
func (i *Instance) Evaluate() {
	if i.class.evaluate != nil {
		i.class.evaluate(i)
	}
}

// ClockUp runs the rising-edge handler of a sequential gate. It is a no-op
// for combinational gates.
func (i *Instance) ClockUp() {
	if i.class.clockUp == nil {
		return
	}
	if i.phaseInited && i.phase == clock.High {
		i.lastErr = &ClockPhaseViolationError{Gate: i.class.Spec.Name, Phase: i.phase}
		return
	}
	i.phase, i.phaseInited = clock.High, true
	i.class.clockUp(i)
}

// ClockDown runs the falling-edge handler of a sequential gate. It is a
// no-op for combinational gates.
func (i *Instance) ClockDown() {
	if i.class.clockDown == nil {
		return
	}
	if i.phaseInited && i.phase == clock.Low {
		i.lastErr = &ClockPhaseViolationError{Gate: i.class.Spec.Name, Phase: i.phase}
		return
	}
	i.phase, i.phaseInited = clock.Low, true
	i.class.clockDown(i)
}

// LastError returns the most recent ClockPhaseViolationError raised by this
// instance's ClockUp/ClockDown, if any, and clears it.
func (i *Instance) LastError() error {
	err := i.lastErr
	i.lastErr = nil
	return err
}

// IsSequential reports whether this class has clock handlers.
func (c *Class) IsSequential() bool { return c.Sequential }

// HasEvaluate reports whether Evaluate actually does anything for this
// class. DFF-family classes (DFF, Bit, Register, ARegister, DRegister, PC)
// have none: their output only ever changes on ClockDown, so a composite
// containing one can treat its inputs as creating no same-pass dependency
// edge, which is what lets such gates legitimately break a combinational
// cycle.
func (c *Class) HasEvaluate() bool { return c.evaluate != nil }
