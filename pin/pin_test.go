package pin

import (
	"testing"

	"hdlsim/word"
)

func TestPinDefaultSize(t *testing.T) {
	p := New(Spec{Name: "sel"})
	if p.Spec.Size != 1 {
		t.Errorf("Size = %d, want 1", p.Spec.Size)
	}
}

func TestPinSetValueMasks(t *testing.T) {
	p := New(Spec{Name: "a", Size: 4})
	p.SetValue(0xFFFF)
	if p.Value() != 0xF {
		t.Errorf("Value() = %#x, want 0xF", p.Value())
	}
}

func TestPinSetBitsPreservesOthers(t *testing.T) {
	p := New(Spec{Name: "bus", Size: 8})
	p.SetValue(0b11110000)
	p.SetBits(0, 3, 0b1010)
	if p.Value() != word.Word(0b11111010) {
		t.Errorf("Value() = %#b, want 0b11111010", p.Value())
	}
}

func TestCheckRange(t *testing.T) {
	cases := []struct {
		from, to, size int
		wantErr        bool
	}{
		{0, 3, 8, false},
		{0, 7, 8, false},
		{3, 2, 8, true},
		{-1, 2, 8, true},
		{0, 8, 8, true},
	}
	for _, c := range cases {
		err := CheckRange("bus", c.from, c.to, c.size)
		if (err != nil) != c.wantErr {
			t.Errorf("CheckRange(%d,%d,%d) error = %v, wantErr %v", c.from, c.to, c.size, err, c.wantErr)
		}
	}
}

func TestRefEqual(t *testing.T) {
	a := NewSlice("bus", 0, 3)
	b := NewSlice("bus", 0, 3)
	c := NewSlice("bus", 1, 3)
	if !Equal(a, b) {
		t.Errorf("expected %v == %v", a, b)
	}
	if Equal(a, c) {
		t.Errorf("expected %v != %v", a, c)
	}
	if !Equal(NewConst(true), NewConst(true)) {
		t.Error("expected true == true")
	}
}

func TestRefString(t *testing.T) {
	cases := []struct {
		r    Ref
		want string
	}{
		{NewSimple("a"), "a"},
		{NewSlice("bus", 2, 2), "bus[2]"},
		{NewSlice("bus", 0, 3), "bus[0..3]"},
		{NewConst(true), "true"},
		{NewConst(false), "false"},
	}
	for _, c := range cases {
		if got := c.r.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
