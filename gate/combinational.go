package gate

import (
	"hdlsim/pin"
	"hdlsim/word"
)

// bus16 declares one 16-bit pin per name, the common bus pinout shared by
// most wide gates.
func bus16(names ...string) []pin.Spec {
	specs := make([]pin.Spec, len(names))
	for i, n := range names {
		specs[i] = pin.Spec{Name: n, Size: 16}
	}
	return specs
}

func bit(names ...string) []pin.Spec {
	specs := make([]pin.Spec, len(names))
	for i, n := range names {
		specs[i] = pin.Spec{Name: n, Size: 1}
	}
	return specs
}

// rd reads an input pin's value directly (works for any registered pin).
func rd(i *Instance, name string) word.Word {
	if p, ok := i.pins[name]; ok {
		return p.Value()
	}
	return 0
}

func wr(i *Instance, name string, v word.Word) {
	if p, ok := i.pins[name]; ok {
		p.SetValue(v)
	}
}

func newCombinational(spec Spec, fn func(i *Instance)) *Class {
	return &Class{Spec: spec, evaluate: fn}
}

var nand = newCombinational(Spec{
	Name: "Nand", Description: "out = !(a && b)",
	Inputs: bit("a", "b"), Outputs: bit("out"),
}, func(i *Instance) {
	a, b := rd(i, "a"), rd(i, "b")
	out := word.Word(0)
	if a&1 == 0 || b&1 == 0 {
		out = 1
	}
	wr(i, "out", out)
})

var not = newCombinational(Spec{
	Name: "Not", Description: "out = !in",
	Inputs: bit("in"), Outputs: bit("out"),
}, func(i *Instance) {
	wr(i, "out", 1-(rd(i, "in")&1))
})

var and = newCombinational(Spec{
	Name: "And", Description: "out = a && b",
	Inputs: bit("a", "b"), Outputs: bit("out"),
}, func(i *Instance) {
	wr(i, "out", rd(i, "a")&rd(i, "b")&1)
})

var or = newCombinational(Spec{
	Name: "Or", Description: "out = a || b",
	Inputs: bit("a", "b"), Outputs: bit("out"),
}, func(i *Instance) {
	a, b := rd(i, "a")&1, rd(i, "b")&1
	if a != 0 || b != 0 {
		wr(i, "out", 1)
	} else {
		wr(i, "out", 0)
	}
})

var xor = newCombinational(Spec{
	Name: "Xor", Description: "out = (a && !b) || (!a && b)",
	Inputs: bit("a", "b"), Outputs: bit("out"),
}, func(i *Instance) {
	a, b := rd(i, "a")&1, rd(i, "b")&1
	wr(i, "out", a^b)
})

var mux = newCombinational(Spec{
	Name: "Mux", Description: "out = sel ? b : a",
	Inputs: bit("a", "b", "sel"), Outputs: bit("out"),
}, func(i *Instance) {
	if rd(i, "sel")&1 != 0 {
		wr(i, "out", rd(i, "b")&1)
	} else {
		wr(i, "out", rd(i, "a")&1)
	}
})

var dmux = newCombinational(Spec{
	Name: "DMux", Description: "a,b = sel ? (0,in) : (in,0)",
	Inputs: bit("in", "sel"), Outputs: bit("a", "b"),
}, func(i *Instance) {
	v := rd(i, "in") & 1
	if rd(i, "sel")&1 != 0 {
		wr(i, "a", 0)
		wr(i, "b", v)
	} else {
		wr(i, "a", v)
		wr(i, "b", 0)
	}
})

var and16 = newCombinational(Spec{
	Name: "And16", Description: "out[16] = a[16] & b[16]",
	Inputs: bus16("a", "b"), Outputs: bus16("out"),
}, func(i *Instance) { wr(i, "out", rd(i, "a")&rd(i, "b")) })

var or16 = newCombinational(Spec{
	Name: "Or16", Description: "out[16] = a[16] | b[16]",
	Inputs: bus16("a", "b"), Outputs: bus16("out"),
}, func(i *Instance) { wr(i, "out", rd(i, "a")|rd(i, "b")) })

var not16 = newCombinational(Spec{
	Name: "Not16", Description: "out[16] = ^in[16]",
	Inputs: bus16("in"), Outputs: bus16("out"),
}, func(i *Instance) { wr(i, "out", ^rd(i, "in")) })

var mux16 = newCombinational(Spec{
	Name: "Mux16", Description: "out[16] = sel ? b[16] : a[16]",
	Inputs: append(bus16("a", "b"), pin.Spec{Name: "sel", Size: 1}), Outputs: bus16("out"),
}, func(i *Instance) {
	if rd(i, "sel")&1 != 0 {
		wr(i, "out", rd(i, "b"))
	} else {
		wr(i, "out", rd(i, "a"))
	}
})

var or8way = newCombinational(Spec{
	Name: "Or8Way", Description: "out = in[0] || in[1] || ... || in[7]",
	Inputs: bus16N("in", 8), Outputs: bit("out"),
}, func(i *Instance) {
	v := rd(i, "in")
	if v&0xFF != 0 {
		wr(i, "out", 1)
	} else {
		wr(i, "out", 0)
	}
})

// bus16N declares a single pin of the given bit width (used for narrower
// "ways" selectors and in-buses that are not full 16 bits wide).
func bus16N(name string, size int) []pin.Spec {
	return []pin.Spec{{Name: name, Size: size}}
}

var mux4way16 = newCombinational(Spec{
	Name:        "Mux4Way16",
	Description: "out[16] = {a,b,c,d}[16][sel], sel[0] is the low-order bit",
	Inputs:      append(bus16("a", "b", "c", "d"), pin.Spec{Name: "sel", Size: 2}),
	Outputs:     bus16("out"),
}, func(i *Instance) {
	names := []string{"a", "b", "c", "d"}
	wr(i, "out", rd(i, names[rd(i, "sel")&0x3]))
})

var mux8way16 = newCombinational(Spec{
	Name:        "Mux8Way16",
	Description: "out[16] = {a..h}[16][sel], sel[0] is the low-order bit",
	Inputs:      append(bus16("a", "b", "c", "d", "e", "f", "g", "h"), pin.Spec{Name: "sel", Size: 3}),
	Outputs:     bus16("out"),
}, func(i *Instance) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	wr(i, "out", rd(i, names[rd(i, "sel")&0x7]))
})

var dmux4way = newCombinational(Spec{
	Name:        "DMux4Way",
	Description: "a,b,c,d = in routed by sel, others 0",
	Inputs:      append(bit("in"), pin.Spec{Name: "sel", Size: 2}),
	Outputs:     bit("a", "b", "c", "d"),
}, func(i *Instance) {
	names := []string{"a", "b", "c", "d"}
	v := rd(i, "in") & 1
	s := rd(i, "sel") & 0x3
	for idx, n := range names {
		if word.Word(idx) == s {
			wr(i, n, v)
		} else {
			wr(i, n, 0)
		}
	}
})

var dmux8way = newCombinational(Spec{
	Name:        "DMux8Way",
	Description: "a..h = in routed by sel, others 0",
	Inputs:      append(bit("in"), pin.Spec{Name: "sel", Size: 3}),
	Outputs:     bit("a", "b", "c", "d", "e", "f", "g", "h"),
}, func(i *Instance) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	v := rd(i, "in") & 1
	s := rd(i, "sel") & 0x7
	for idx, n := range names {
		if word.Word(idx) == s {
			wr(i, n, v)
		} else {
			wr(i, n, 0)
		}
	}
})

var halfAdder = newCombinational(Spec{
	Name: "HalfAdder", Description: "sum,carry = a + b",
	Inputs: bit("a", "b"), Outputs: bit("sum", "carry"),
}, func(i *Instance) {
	a, b := rd(i, "a")&1, rd(i, "b")&1
	wr(i, "sum", a^b)
	wr(i, "carry", a&b)
})

var fullAdder = newCombinational(Spec{
	Name: "FullAdder", Description: "sum,carry = a + b + c",
	Inputs: bit("a", "b", "c"), Outputs: bit("sum", "carry"),
}, func(i *Instance) {
	a, b, c := rd(i, "a")&1, rd(i, "b")&1, rd(i, "c")&1
	s := a + b + c
	wr(i, "sum", s&1)
	if s >= 2 {
		wr(i, "carry", 1)
	} else {
		wr(i, "carry", 0)
	}
})

var add16 = newCombinational(Spec{
	Name: "Add16", Description: "out[16] = a[16] + b[16] (mod 2^16)",
	Inputs: bus16("a", "b"), Outputs: bus16("out"),
}, func(i *Instance) { wr(i, "out", rd(i, "a")+rd(i, "b")) })

var inc16 = newCombinational(Spec{
	Name: "Inc16", Description: "out[16] = in[16] + 1",
	Inputs: bus16("in"), Outputs: bus16("out"),
}, func(i *Instance) { wr(i, "out", rd(i, "in")+1) })
