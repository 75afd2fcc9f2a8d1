package circuit

import (
	"fmt"
	"sort"

	"hdlsim/clock"
	"hdlsim/pin"
	"hdlsim/word"
)

// topoFailure carries the combinational-loop failure detail (which parts
// never became ready) back to Link, which translates indices to names.
type topoFailure struct {
	remaining []int
}

// topoSort orders parts so that every part reading a net appears after
// every part writing that net, except where the writer is a part whose
// class has no live Evaluate (a DFF-family sequential primitive) — such a
// part's output only changes on ClockDown, so depending on it does not
// create a same-pass ordering constraint and it may legitimately close a
// cycle. A nested composite always counts as having a live Evaluate, even
// when its only parts are DFF-family primitives.
func topoSort(specs []partSpec, bindings []binding, n int) ([]int, *topoFailure) {
	// writer[net] = set of part indices that write net as an output.
	writer := make(map[string][]int)
	for _, b := range bindings {
		if b.isOutput && b.ref.pinRef.Kind != pin.Const {
			writer[b.ref.pinRef.Name] = append(writer[b.ref.pinRef.Name], b.partIdx)
		}
	}

	// deps[p] = set of part indices p must follow, derived from the nets p
	// reads as inputs, excluding writers whose class has no live Evaluate.
	deps := make([]map[int]bool, n)
	for i := range deps {
		deps[i] = make(map[int]bool)
	}
	for _, b := range bindings {
		if b.isOutput || b.ref.pinRef.Kind == pin.Const {
			continue
		}
		for _, w := range writer[b.ref.pinRef.Name] {
			if w == b.partIdx {
				continue
			}
			if !specs[w].hasEvaluate {
				continue
			}
			deps[b.partIdx][w] = true
		}
	}

	var order []int
	done := make([]bool, n)
	for len(order) < n {
		progressed := false
		for i := 0; i < n; i++ {
			if done[i] {
				continue
			}
			ready := true
			for dep := range deps[i] {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				order = append(order, i)
				done[i] = true
				progressed = true
			}
		}
		if !progressed {
			var remaining []int
			for i := 0; i < n; i++ {
				if !done[i] {
					remaining = append(remaining, i)
				}
			}
			sort.Ints(remaining)
			return nil, &topoFailure{remaining: remaining}
		}
	}
	return order, nil
}

// writeEvent records one write made to a net during a single Evaluate pass,
// used to detect conflicting overlapping writes while still honoring
// last-writer-wins for the final value.
type writeEvent struct {
	from, to int
	value    word.Word
	writer   string
}

// Evaluate runs every part once, in linked topological order, propagating
// values through the composite's nets. Overlapping writes to the same net
// with differing values are recorded as Conflicts; the net's final value
// always reflects the last writer in evaluation order.
func (i *Instance) Evaluate() {
	i.conflicts = nil
	writeLog := make(map[string][]writeEvent)

	readInto := func(partIdx int) {
		p := i.class
		part := i.parts[partIdx]
		for _, b := range p.bindings {
			if b.isOutput || b.partIdx != partIdx {
				continue
			}
			part.SetInput(b.pinName, i.resolveValue(b.ref))
		}
	}
	writeFrom := func(partIdx int) {
		p := i.class
		part := i.parts[partIdx]
		for _, b := range p.bindings {
			if !b.isOutput || b.partIdx != partIdx {
				continue
			}
			v, ok := part.Output(b.pinName)
			if !ok {
				continue
			}
			i.applyWrite(writeLog, b.ref, v, fmt.Sprintf("%s#%d", p.partNames[partIdx], partIdx))
		}
	}

	for _, partIdx := range i.class.order {
		readInto(partIdx)
		i.parts[partIdx].Evaluate()
		writeFrom(partIdx)
	}
}

// resolveValue reads a resolvedRef's current value out of the composite's
// net table (or expands its constant to ref.width bits).
func (i *Instance) resolveValue(ref resolvedRef) word.Word {
	switch ref.pinRef.Kind {
	case pin.Const:
		if ref.pinRef.Value {
			return word.AllOnes(ref.width)
		}
		return 0
	case pin.SliceRef:
		return word.Slice(i.values[ref.pinRef.Name], ref.pinRef.From, ref.pinRef.To)
	default:
		return i.values[ref.pinRef.Name]
	}
}

// applyWrite stores value into the bits of ref's net, recording a
// writeEvent for conflict detection. Overlapping bit ranges written with
// differing values are reported as a Conflict once per net, listing every
// distinct writer involved; the net's stored value always ends up as
// whatever the last write (in evaluation order) produced.
func (i *Instance) applyWrite(log map[string][]writeEvent, ref resolvedRef, value word.Word, writer string) {
	name := ref.pinRef.Name
	from, to := 0, i.class.netWidths[name]-1
	if ref.pinRef.Kind == pin.SliceRef {
		from, to = ref.pinRef.From, ref.pinRef.To
	}
	ev := writeEvent{from: from, to: to, value: value, writer: writer}

	for _, prior := range log[name] {
		if overlaps(prior, ev) && prior.value != ev.value {
			i.recordConflict(name, prior.writer, writer)
		}
	}
	log[name] = append(log[name], ev)

	if ref.pinRef.Kind == pin.SliceRef {
		i.values[name] = word.SetSlice(i.values[name], from, to, value)
	} else {
		i.values[name] = value
	}
}

func overlaps(a, b writeEvent) bool {
	return a.from <= b.to && b.from <= a.to
}

func (i *Instance) recordConflict(net, a, b string) {
	for idx := range i.conflicts {
		if i.conflicts[idx].Net != net {
			continue
		}
		if !containsStr(i.conflicts[idx].Writers, a) {
			i.conflicts[idx].Writers = append(i.conflicts[idx].Writers, a)
		}
		if !containsStr(i.conflicts[idx].Writers, b) {
			i.conflicts[idx].Writers = append(i.conflicts[idx].Writers, b)
		}
		return
	}
	i.conflicts = append(i.conflicts, Conflict{Net: net, Writers: []string{a, b}})
}

func containsStr(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// ExecOnData evaluates rows one at a time, setting each row's values as
// inputs, running Evaluate, and collecting the resulting outputs plus any
// conflicts observed across the whole run.
func (i *Instance) ExecOnData(rows []Row) Result {
	result := Result{Rows: make([]Row, len(rows))}
	for idx, row := range rows {
		i.SetPinValues(row)
		i.Evaluate()
		result.Rows[idx] = i.GetPinValues()
		result.Conflicts = append(result.Conflicts, i.conflicts...)
	}
	return result
}

// Step evaluates a single stimulus row and returns its outputs and any
// conflicts, without retaining history.
func (i *Instance) Step(row Row) (map[string]word.Word, []Conflict) {
	i.SetPinValues(row)
	i.Evaluate()
	return i.GetPinValues(), i.conflicts
}

// ClockUp fans the rising edge out to every part, satisfying
// clock.Observer so a composite can itself be driven by a Clock or nest
// inside another composite as a sequential part.
func (i *Instance) ClockUp() {
	for _, part := range i.parts {
		part.ClockUp()
	}
}

// ClockDown fans the falling edge out to every part.
func (i *Instance) ClockDown() {
	for _, part := range i.parts {
		part.ClockDown()
	}
}

// Tick advances the shared system clock by one half-phase, drives this
// instance's corresponding edge, and re-evaluates so that combinational
// outputs reflect the sequential parts' new state.
func (i *Instance) Tick() clock.Edge {
	edge := clock.SystemClock.Tick(i)
	i.Evaluate()
	return edge
}
