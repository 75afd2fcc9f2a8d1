package circuit

import (
	"hdlsim/clock"
	"hdlsim/pin"
	"hdlsim/word"
)

// evaluable is satisfied by both gate.Instance and circuit.Instance, which
// is what lets a composite part be either a built-in primitive or another,
// previously-linked composite.
type evaluable interface {
	SetInput(name string, w word.Word) bool
	Output(name string) (word.Word, bool)
	Evaluate()
	ClockUp()
	ClockDown()
}

// resolvedRef is the linked, run-time form of a parser.Ref, expressed over
// pin.Ref (the package this module uses for the wiring reference algebra):
// either a (possibly sliced) reference into the composite's net-value
// table, or a constant. width is the bound part-pin's width, needed to
// expand a Const reference to its all-ones/all-zeros value.
type resolvedRef struct {
	pinRef pin.Ref
	width  int
}

// binding ties one argument of one part to a resolvedRef: isOutput marks
// whether the part writes (true) or reads (false) pinName across this
// binding during Evaluate.
type binding struct {
	partIdx  int
	pinName  string
	isOutput bool
	ref      resolvedRef
}

// Class is a linked composite gate: its own pinout, the nets its parts
// communicate over, and the parts themselves in evaluation order.
type Class struct {
	Name    string
	Inputs  []pin.Spec
	Outputs []pin.Spec

	netWidths map[string]int // every net (input, output, or internal) by width
	bindings  []binding

	partNames     []string
	partFactories []func() evaluable
	order         []int // indices into partNames/partFactories, evaluation order

	sequential bool
}

// IsSequential reports whether any part (transitively) has clock behavior.
func (c *Class) IsSequential() bool { return c.sequential }

// New instantiates the composite: one fresh evaluable per part, plus a
// zeroed value for every declared net.
func (c *Class) New() *Instance {
	inst := &Instance{
		class:  c,
		values: make(map[string]word.Word, len(c.netWidths)),
		parts:  make([]evaluable, len(c.partFactories)),
	}
	for name := range c.netWidths {
		inst.values[name] = 0
	}
	for i, f := range c.partFactories {
		inst.parts[i] = f()
	}
	return inst
}

// Row is one row of stimulus or result values, keyed by pin name.
type Row map[string]word.Word

// Conflict records that, within a single Evaluate pass, two or more parts
// wrote differing values into overlapping bits of the same net.
type Conflict struct {
	Net     string
	Writers []string
}

// Result is the outcome of running a composite over a table of stimulus
// rows: the composite's output values for each row, plus any conflicts
// detected along the way.
type Result struct {
	Rows      []Row
	Conflicts []Conflict
}

// Instance is a live instantiation of a linked composite: the current
// value of every net (inputs, outputs, and internal wires alike), the
// instantiated parts, and the conflicts observed on the most recent
// Evaluate.
type Instance struct {
	class     *Class
	values    map[string]word.Word
	parts     []evaluable
	conflicts []Conflict
}

// SetInput sets a top-level input net's value.
func (i *Instance) SetInput(name string, w word.Word) bool {
	if !i.class.isDeclaredInput(name) {
		return false
	}
	size := i.class.netWidths[name]
	i.values[name] = word.Slice(w, 0, size-1)
	return true
}

// Output returns a top-level output net's current value.
func (i *Instance) Output(name string) (word.Word, bool) {
	if !i.class.isDeclaredOutput(name) {
		return 0, false
	}
	return i.values[name], true
}

// SetPinValues bulk-sets input nets from a Row, ignoring keys that are not
// declared inputs.
func (i *Instance) SetPinValues(row Row) {
	for name, v := range row {
		i.SetInput(name, v)
	}
}

// GetPinValues reads every declared output net into a Row.
func (i *Instance) GetPinValues() Row {
	row := make(Row, len(i.class.Outputs))
	for _, p := range i.class.Outputs {
		row[p.Name] = i.values[p.Name]
	}
	return row
}

// Conflicts returns the conflicts detected during the most recent Evaluate.
func (i *Instance) Conflicts() []Conflict { return i.conflicts }

func (c *Class) isDeclaredInput(name string) bool {
	for _, p := range c.Inputs {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (c *Class) isDeclaredOutput(name string) bool {
	for _, p := range c.Outputs {
		if p.Name == name {
			return true
		}
	}
	return false
}

// clock.Observer is satisfied via ClockUp/ClockDown in evaluator.go, which
// is what lets a composite nest inside another composite or be driven
// directly by a clock.Clock.
var _ clock.Observer = (*Instance)(nil)
