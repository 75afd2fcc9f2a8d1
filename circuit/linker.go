// Package circuit binds a parsed HDL chip against the built-in gate
// registry (or recursively against further HDL sources via a Loader),
// producing a linked Class that can be instantiated and evaluated —
// combinationally, over a table of stimulus rows, or across clock ticks.
package circuit

import (
	"fmt"

	"github.com/pkg/errors"

	"hdlsim/gate"
	"hdlsim/parser"
	"hdlsim/pin"
)

// Loader resolves a part name that is absent from the registry to a parsed
// chip definition, e.g. by reading name+".hdl" from a directory. A nil
// Loader means only registry-resolvable parts are accepted.
type Loader func(name string) (*parser.Chip, error)

// UnknownGateError is returned when a part name resolves neither against
// the registry nor (if provided) the Loader.
type UnknownGateError struct {
	Name string
}

func (e *UnknownGateError) Error() string {
	return fmt.Sprintf("circuit: unknown gate %q", e.Name)
}

// PinNotDeclaredError is returned when an argument name is neither an
// input nor an output pin of the part it is bound to.
type PinNotDeclaredError struct {
	Part string
	Pin  string
}

func (e *PinNotDeclaredError) Error() string {
	return fmt.Sprintf("circuit: %q is not a declared pin of part %q", e.Pin, e.Part)
}

// WidthMismatchError is returned when a bound pin reference's width does
// not match the part-side pin's declared width.
type WidthMismatchError struct {
	Part string
	Pin  string
	Want int
	Got  int
}

func (e *WidthMismatchError) Error() string {
	return fmt.Sprintf("circuit: part %q pin %q expects width %d, got %d", e.Part, e.Pin, e.Want, e.Got)
}

// SliceOutOfRangeError is returned when a `name[from..to]` reference's
// bounds exceed the named pin or net's declared size.
type SliceOutOfRangeError struct {
	Name string
	From int
	To   int
	Size int
}

func (e *SliceOutOfRangeError) Error() string {
	return fmt.Sprintf("circuit: slice %s[%d..%d] out of range for size %d", e.Name, e.From, e.To, e.Size)
}

// CombinationalLoopError is returned when the topological sort cannot make
// progress because of a cycle with no sequential primitive (DFF-family)
// breaking it. Parts lists every part left unordered: those on the cycle
// and those downstream of it.
type CombinationalLoopError struct {
	Parts []string
}

func (e *CombinationalLoopError) Error() string {
	return fmt.Sprintf("circuit: combinational loop among parts %v", e.Parts)
}

// LinkError wraps one of the structured error kinds above with call-site
// context; errors.Cause unwraps back to the structured value.
type LinkError struct {
	err error
}

func (e *LinkError) Error() string { return e.err.Error() }
func (e *LinkError) Unwrap() error { return e.err }
func (e *LinkError) Cause() error  { return e.err }

func linkErr(cause error, format string, args ...any) *LinkError {
	return &LinkError{err: errors.Wrapf(cause, format, args...)}
}

// partSpec is the uniform view of a part's pinout the linker needs,
// whether the part resolves to a built-in gate.Class or a nested,
// recursively-linked circuit.Class.
type partSpec struct {
	name        string
	inputs      []pin.Spec
	outputs     []pin.Spec
	sequential  bool
	hasEvaluate bool
	factory     func() evaluable
}

func (s partSpec) isInput(name string) bool {
	for _, p := range s.inputs {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (s partSpec) isOutput(name string) bool {
	for _, p := range s.outputs {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (s partSpec) pinSize(name string) (int, bool) {
	for _, p := range s.inputs {
		if p.Name == name {
			return p.Size, true
		}
	}
	for _, p := range s.outputs {
		if p.Name == name {
			return p.Size, true
		}
	}
	return 0, false
}

func resolvePart(name string, reg *gate.Registry, loader Loader) (partSpec, *LinkError) {
	if cls, ok := reg.Get(name); ok {
		cls := cls // capture a stable copy for the closure below
		return partSpec{
			name:        name,
			inputs:      cls.Spec.Inputs,
			outputs:     cls.Spec.Outputs,
			sequential:  cls.Sequential,
			hasEvaluate: cls.HasEvaluate(),
			factory:     func() evaluable { return cls.New() },
		}, nil
	}
	if loader == nil {
		return partSpec{}, linkErr(&UnknownGateError{Name: name}, "resolving part %q", name)
	}
	chip, err := loader(name)
	if err != nil || chip == nil {
		return partSpec{}, linkErr(&UnknownGateError{Name: name}, "resolving part %q via loader", name)
	}
	nested, lerr := Link(chip, reg, loader)
	if lerr != nil {
		return partSpec{}, linkErr(lerr, "linking nested chip %q", name)
	}
	return partSpec{
		name:        name,
		inputs:      nested.Inputs,
		outputs:     nested.Outputs,
		sequential:  nested.sequential,
		hasEvaluate: true,
		factory:     func() evaluable { return nested.New() },
	}, nil
}

// Link resolves ast's parts against reg (falling back to loader for names
// reg does not recognize), validates width/slice invariants, and produces
// a linked Class ready to be instantiated with New.
func Link(ast *parser.Chip, reg *gate.Registry, loader Loader) (*Class, *LinkError) {
	class := &Class{
		Name:      ast.Name,
		Inputs:    toPinSpecs(ast.Inputs),
		Outputs:   toPinSpecs(ast.Outputs),
		netWidths: make(map[string]int),
	}
	for _, p := range class.Inputs {
		class.netWidths[p.Name] = p.Size
	}
	for _, p := range class.Outputs {
		class.netWidths[p.Name] = p.Size
	}

	specs := make([]partSpec, len(ast.Parts))
	for i, call := range ast.Parts {
		spec, lerr := resolvePart(call.Name, reg, loader)
		if lerr != nil {
			return nil, lerr
		}
		specs[i] = spec
		class.partNames = append(class.partNames, call.Name)
		class.partFactories = append(class.partFactories, spec.factory)
		class.sequential = class.sequential || spec.sequential
	}

	// Pass 1: register/validate every destination net's width before any
	// source reference is width-checked, since a part can read a net that a
	// later part (in source order) writes.
	for i, call := range ast.Parts {
		spec := specs[i]
		for _, arg := range call.Arguments {
			if spec.isInput(arg.Name) {
				continue
			}
			if !spec.isOutput(arg.Name) {
				return nil, linkErr(&PinNotDeclaredError{Part: call.Name, Pin: arg.Name}, "binding part %q argument %q", call.Name, arg.Name)
			}
			pinWidth, _ := spec.pinSize(arg.Name)
			if err := class.registerDestination(arg.Value, pinWidth); err != nil {
				return nil, err
			}
		}
	}

	// Pass 2: bind every argument to a resolvedRef, validating widths.
	for i, call := range ast.Parts {
		spec := specs[i]
		for _, arg := range call.Arguments {
			isOutput := spec.isOutput(arg.Name)
			pinWidth, _ := spec.pinSize(arg.Name)
			ref, err := class.resolveRef(call.Name, arg.Name, arg.Value, pinWidth, isOutput)
			if err != nil {
				return nil, err
			}
			class.bindings = append(class.bindings, binding{
				partIdx:  i,
				pinName:  arg.Name,
				isOutput: isOutput,
				ref:      ref,
			})
		}
	}

	order, failure := topoSort(specs, class.bindings, len(ast.Parts))
	if failure != nil {
		names := make([]string, len(failure.remaining))
		for i, idx := range failure.remaining {
			names[i] = class.partNames[idx]
		}
		return nil, linkErr(&CombinationalLoopError{Parts: names}, "linking chip %q", ast.Name)
	}
	class.order = order
	return class, nil
}

func toPinSpecs(decls []parser.PinSpec) []pin.Spec {
	out := make([]pin.Spec, len(decls))
	for i, d := range decls {
		out[i] = pin.Spec{Name: d.Name, Size: d.Size}
	}
	return out
}

// registerDestination records or validates the net width implied by
// writing a part's output-side pin (of pinWidth bits) into ref.
func (c *Class) registerDestination(ref parser.Ref, pinWidth int) *LinkError {
	switch ref.Kind {
	case parser.RefConst:
		return linkErr(&WidthMismatchError{Pin: "true/false", Want: pinWidth, Got: -1}, "cannot write to a constant")
	case parser.RefSlice:
		if existing, ok := c.netWidths[ref.Name]; ok {
			if ref.To >= existing {
				return linkErr(&SliceOutOfRangeError{Name: ref.Name, From: ref.From, To: ref.To, Size: existing}, "binding destination slice %s[%d..%d]", ref.Name, ref.From, ref.To)
			}
			return nil
		}
		c.netWidths[ref.Name] = ref.To + 1
		return nil
	default: // RefSimple
		if existing, ok := c.netWidths[ref.Name]; ok {
			if existing != pinWidth {
				return linkErr(&WidthMismatchError{Pin: ref.Name, Want: existing, Got: pinWidth}, "binding destination %s", ref.Name)
			}
			return nil
		}
		c.netWidths[ref.Name] = pinWidth
		return nil
	}
}

// resolveRef turns an AST-level Ref into the resolvedRef the evaluator
// consults at run time, expressed over pin.Ref, validating its width
// against the part-side pin.
func (c *Class) resolveRef(partName, argName string, ref parser.Ref, pinWidth int, isOutput bool) (resolvedRef, *LinkError) {
	switch ref.Kind {
	case parser.RefConst:
		return resolvedRef{pinRef: pin.NewConst(ref.Const), width: pinWidth}, nil
	case parser.RefSlice:
		size, ok := c.netWidths[ref.Name]
		if !ok {
			return resolvedRef{}, linkErr(&WidthMismatchError{Part: partName, Pin: argName, Want: pinWidth, Got: 0}, "net %q is never declared or written", ref.Name)
		}
		if ref.From < 0 || ref.To >= size {
			return resolvedRef{}, linkErr(&SliceOutOfRangeError{Name: ref.Name, From: ref.From, To: ref.To, Size: size}, "binding %s argument %s", partName, argName)
		}
		width := ref.To - ref.From + 1
		if width != pinWidth {
			return resolvedRef{}, linkErr(&WidthMismatchError{Part: partName, Pin: argName, Want: pinWidth, Got: width}, "binding %s argument %s", partName, argName)
		}
		return resolvedRef{pinRef: pin.NewSlice(ref.Name, ref.From, ref.To), width: pinWidth}, nil
	default: // RefSimple
		size, ok := c.netWidths[ref.Name]
		if !ok {
			return resolvedRef{}, linkErr(&WidthMismatchError{Part: partName, Pin: argName, Want: pinWidth, Got: 0}, "net %q is never declared or written", ref.Name)
		}
		if !isOutput && size != pinWidth {
			return resolvedRef{}, linkErr(&WidthMismatchError{Part: partName, Pin: argName, Want: pinWidth, Got: size}, "binding %s argument %s", partName, argName)
		}
		return resolvedRef{pinRef: pin.NewSimple(ref.Name), width: pinWidth}, nil
	}
}
