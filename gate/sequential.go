package gate

import (
	"hdlsim/pin"
	"hdlsim/word"
)

func newSequential(spec Spec, clockUp, clockDown func(i *Instance)) *Class {
	return &Class{Spec: spec, Sequential: true, clockUp: clockUp, clockDown: clockDown}
}

var dff = newSequential(Spec{
	Name: "DFF", Description: "clockUp: shadow<-in; clockDown: out<-shadow",
	Inputs: bit("in"), Outputs: bit("out"),
}, func(i *Instance) {
	i.state["shadow"] = rd(i, "in") & 1
}, func(i *Instance) {
	wr(i, "out", i.state["shadow"])
})

var bitGate = newSequential(Spec{
	Name: "Bit", Description: "clockUp: if load, shadow<-in; clockDown: out<-shadow",
	Inputs: bit("in", "load"), Outputs: bit("out"),
}, func(i *Instance) {
	if rd(i, "load")&1 != 0 {
		i.state["shadow"] = rd(i, "in") & 1
	} else {
		i.state["shadow"] = i.state["out"]
	}
}, func(i *Instance) {
	i.state["out"] = i.state["shadow"]
	wr(i, "out", i.state["shadow"])
})

func newRegister16(name, description string) *Class {
	return newSequential(Spec{
		Name: name, Description: description,
		Inputs: append(bus16("in"), pin.Spec{Name: "load", Size: 1}), Outputs: bus16("out"),
	}, func(i *Instance) {
		if rd(i, "load")&1 != 0 {
			i.state["shadow"] = rd(i, "in")
		} else {
			i.state["shadow"] = i.state["out"]
		}
	}, func(i *Instance) {
		i.state["out"] = i.state["shadow"]
		wr(i, "out", i.state["shadow"])
	})
}

var register = newRegister16("Register", "16-bit register with load")
var aRegister = newRegister16("ARegister", "16-bit address register with load")
var dRegister = newRegister16("DRegister", "16-bit data register with load")

var pc = newSequential(Spec{
	Name:        "PC",
	Description: "priority reset > load > inc > hold; 16-bit counter",
	Inputs: append(bus16("in"), pin.Spec{Name: "load", Size: 1},
		pin.Spec{Name: "inc", Size: 1}, pin.Spec{Name: "reset", Size: 1}),
	Outputs: bus16("out"),
}, func(i *Instance) {
	cur := i.state["out"]
	var next word.Word
	switch {
	case rd(i, "reset")&1 != 0:
		next = 0
	case rd(i, "load")&1 != 0:
		next = rd(i, "in")
	case rd(i, "inc")&1 != 0:
		next = cur + 1
	default:
		next = cur
	}
	i.state["shadow"] = next
}, func(i *Instance) {
	i.state["out"] = i.state["shadow"]
	wr(i, "out", i.state["shadow"])
})

// newRAM builds a RAM_n gate class for the given address width. out is the
// asynchronous read at address; a write (load=1) commits on the falling
// edge, per spec.md's clocked-execution semantics for the RAM family.
func newRAM(name string, addressBits int) *Class {
	size := 1 << uint(addressBits)
	c := &Class{
		Spec: Spec{
			Name:        name,
			Description: "out = mem[address]; clockUp+load stages a write; clockDown commits it",
			Inputs: append(bus16("in"), pin.Spec{Name: "load", Size: 1},
				pin.Spec{Name: "address", Size: addressBits}),
			Outputs: bus16("out"),
		},
		Sequential: true,
		MemSize:    size,
	}
	c.evaluate = func(i *Instance) {
		addr := rd(i, "address")
		wr(i, "out", i.mem[addr])
	}
	c.clockUp = func(i *Instance) {
		if rd(i, "load")&1 != 0 {
			i.state["pendingAddr"] = rd(i, "address")
			i.state["pendingVal"] = rd(i, "in")
			i.state["pending"] = 1
		} else {
			i.state["pending"] = 0
		}
	}
	c.clockDown = func(i *Instance) {
		if i.state["pending"] != 0 {
			i.mem[i.state["pendingAddr"]] = i.state["pendingVal"]
		}
	}
	return c
}

var ram8 = newRAM("RAM8", 3)
var ram64 = newRAM("RAM64", 6)
var ram512 = newRAM("RAM512", 9)
var ram4k = newRAM("RAM4K", 12)
var ram16k = newRAM("RAM16K", 14)

// rom32k is read-only: no load pin, no clock handlers. Its contents are
// preloaded via the instance's Mem() slice by a loader.
var rom32k = &Class{
	Spec: Spec{
		Name:        "ROM32K",
		Description: "out = mem[address], preloaded externally",
		Inputs:      []pin.Spec{{Name: "address", Size: 15}},
		Outputs:     bus16("out"),
	},
	MemSize: 1 << 15,
	evaluate: func(i *Instance) {
		wr(i, "out", i.mem[rd(i, "address")])
	},
}

// screen is an 8K x 16-bit memory-mapped, writable display buffer.
var screen = newRAM("Screen", 13)

// keyboard has no inputs: a single 16-bit register whose value is set
// externally via Instance.Mem()[0].
var keyboard = &Class{
	Spec: Spec{
		Name:        "Keyboard",
		Description: "out = currently pressed key's scancode, 0 if none",
		Outputs:     bus16("out"),
	},
	MemSize: 1,
	evaluate: func(i *Instance) {
		wr(i, "out", i.mem[0])
	},
}
