// Package pin implements the pin/bus model: named, bit-widthed signals and
// the sub-bus reference algebra used to wire gates together.
package pin

import (
	"fmt"

	"github.com/pkg/errors"
	"hdlsim/word"
)

// Spec describes a declared pin: a name and a bit width in [1, 16].
type Spec struct {
	Name string
	Size int
}

// Pin is a single named signal: a Word value masked to its declared size.
type Pin struct {
	Spec  Spec
	value word.Word
}

// New creates a Pin with the given spec, defaulting Size to 1 when 0.
func New(spec Spec) *Pin {
	if spec.Size == 0 {
		spec.Size = 1
	}
	return &Pin{Spec: spec}
}

// Value returns the pin's current value, masked to its size.
func (p *Pin) Value() word.Word {
	return word.Slice(p.value, 0, p.Spec.Size-1)
}

// SetValue masks w to the pin's size and stores it.
func (p *Pin) SetValue(w word.Word) {
	p.value = word.Slice(w, 0, p.Spec.Size-1)
}

// Bits returns the inclusive sub-range [from, to] of the pin's value.
func (p *Pin) Bits(from, to int) word.Word {
	return word.Slice(p.value, from, to)
}

// SetBits writes value into the inclusive sub-range [from, to], leaving
// untouched bits of the pin as they were.
func (p *Pin) SetBits(from, to int, value word.Word) {
	p.value = word.SetSlice(p.value, from, to, value)
}

// SliceOutOfRangeError is returned when a sub-bus reference's bounds exceed
// the owning pin's declared size.
type SliceOutOfRangeError struct {
	Pin      string
	From, To int
	Size     int
}

func (e *SliceOutOfRangeError) Error() string {
	return fmt.Sprintf("slice [%d..%d] of pin %q exceeds its declared size %d", e.From, e.To, e.Pin, e.Size)
}

// CheckRange validates that 0 <= from <= to < size.
func CheckRange(name string, from, to, size int) error {
	if from < 0 || to < from || to >= size {
		return errors.WithStack(&SliceOutOfRangeError{Pin: name, From: from, To: to, Size: size})
	}
	return nil
}
