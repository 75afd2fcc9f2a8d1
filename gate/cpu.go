package gate

import (
	"hdlsim/pin"
	"hdlsim/word"
)

// cInstr is the decoded field layout of a C-instruction (instruction[15]=1).
// Field names mirror the Hack instruction mnemonic: comp bits zx/nx/zy/ny/f/no
// plus the a-bit selecting A vs inM, dest bits d1/d2/d3 (A/D/M), and jump
// bits j1/j2/j3 (negative/zero/positive).
type cInstr struct {
	aBit                  bool
	zx, nx, zy, ny, f, no bool
	d1, d2, d3            bool
	j1, j2, j3            bool
}

func decodeC(instr word.Word) cInstr {
	return cInstr{
		aBit: instr&0x1000 != 0,
		zx:   instr&0x0800 != 0, nx: instr&0x0400 != 0,
		zy: instr&0x0200 != 0, ny: instr&0x0100 != 0,
		f: instr&0x0080 != 0, no: instr&0x0040 != 0,
		d1: instr&0x0020 != 0, d2: instr&0x0010 != 0, d3: instr&0x0008 != 0,
		j1: instr&0x0004 != 0, j2: instr&0x0002 != 0, j3: instr&0x0001 != 0,
	}
}

func jumps(c cInstr, zr, ng bool) bool {
	pos := !ng && !zr
	return (ng && c.j1) || (zr && c.j2) || (pos && c.j3)
}

// cpu is the canonical Hack CPU: reads inM/instruction/reset, drives
// outM/writeM/addressM/pc. Its A/D/PC registers are committed state that
// Evaluate only reads, never writes, so addressM and pc depend only on that
// state. Because the class has an Evaluate, the composite linker still
// treats every CPU output as a same-pass dependency: a composite cycle
// through the CPU is rejected as combinational, unlike one through DFF.
var cpu = &Class{
	Spec: Spec{
		Name:        "CPU",
		Description: "canonical Hack CPU: A/D/PC registers, ALU-driven comp/dest/jump decode",
		Inputs:      append(bus16("inM", "instruction"), pin.Spec{Name: "reset", Size: 1}),
		Outputs: append(bus16("outM"),
			pin.Spec{Name: "writeM", Size: 1}, pin.Spec{Name: "addressM", Size: 15}, pin.Spec{Name: "pc", Size: 15}),
	},
	Sequential: true,
	evaluate: func(i *Instance) {
		instr := rd(i, "instruction")
		A, PC := i.state["A"], i.state["PC"]

		wr(i, "addressM", A&0x7FFF)
		wr(i, "pc", PC&0x7FFF)

		if instr&0x8000 == 0 {
			wr(i, "outM", 0)
			wr(i, "writeM", 0)
			return
		}
		c := decodeC(instr)
		y := A
		if c.aBit {
			y = rd(i, "inM")
		}
		out, _, _ := compute(i.state["D"], y, c.zx, c.nx, c.zy, c.ny, c.f, c.no)
		wr(i, "outM", out)
		wr(i, "writeM", b2w(c.d3))
	},
	clockUp: func(i *Instance) {
		instr := rd(i, "instruction")
		reset := rd(i, "reset")&1 != 0
		A, D, PC := i.state["A"], i.state["D"], i.state["PC"]

		nextA, nextD := A, D
		jump := false
		if instr&0x8000 == 0 {
			nextA = instr & 0x7FFF
		} else {
			c := decodeC(instr)
			y := A
			if c.aBit {
				y = rd(i, "inM")
			}
			out, zr, ng := compute(D, y, c.zx, c.nx, c.zy, c.ny, c.f, c.no)
			if c.d1 {
				nextA = out
			}
			if c.d2 {
				nextD = out
			}
			jump = jumps(c, zr, ng)
		}

		var nextPC word.Word
		switch {
		case reset:
			nextPC = 0
		case jump:
			nextPC = A
		default:
			nextPC = PC + 1
		}
		i.state["shadowA"], i.state["shadowD"], i.state["shadowPC"] = nextA, nextD, nextPC
	},
	clockDown: func(i *Instance) {
		i.state["A"] = i.state["shadowA"]
		i.state["D"] = i.state["shadowD"]
		i.state["PC"] = i.state["shadowPC"]
	},
}

// newMemory builds the Memory class: a 32K-word flat address space covering
// RAM16K (0-16383), Screen (16384-24575) and Keyboard (24576), matching
// canonical Hack memory mapping. Writes below 24576 stage on ClockUp and
// commit on ClockDown, mirroring the RAM family; Keyboard is read-only from
// the CPU's perspective and is instead seeded externally via Mem().
func newMemory() *Class {
	c := &Class{
		Spec: Spec{
			Name:        "Memory",
			Description: "out = mem[address]; writes below 24576 stage on clockUp and commit on clockDown",
			Inputs:      append(bus16("in"), pin.Spec{Name: "load", Size: 1}, pin.Spec{Name: "address", Size: 15}),
			Outputs:     bus16("out"),
		},
		Sequential: true,
		MemSize:    1 << 15,
	}
	c.evaluate = func(i *Instance) {
		wr(i, "out", i.mem[rd(i, "address")&0x7FFF])
	}
	c.clockUp = func(i *Instance) {
		addr := rd(i, "address") & 0x7FFF
		if rd(i, "load")&1 != 0 && addr < 24576 {
			i.state["pendingAddr"] = addr
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

var memory = newMemory()

// computerAux holds the Computer's nested CPU/Memory/ROM32K sub-instances.
type computerAux struct {
	cpu *Instance
	mem *Instance
	rom *Instance
}

// computer is the top-level Hack machine: ROM32K feeds instructions at the
// CPU's committed pc, Memory is addressed by the CPU's committed A register,
// and the CPU's outM/writeM drive Memory's write port. Because addressM and
// pc are read off committed register state rather than this cycle's inputs,
// wiring them here cannot introduce a combinational-loop dependency back
// into the CPU itself.
var computer = &Class{
	Spec: Spec{
		Name:        "Computer",
		Description: "ROM32K+CPU+Memory wired per the canonical Hack computer; reset drives CPU.reset",
		Inputs:      []pin.Spec{{Name: "reset", Size: 1}},
	},
	Sequential: true,
	build: func(i *Instance) {
		i.aux = &computerAux{cpu: cpu.New(), mem: memory.New(), rom: rom32k.New()}
	},
	evaluate: func(i *Instance) {
		a := i.aux.(*computerAux)

		a.rom.SetInput("address", a.cpu.state["PC"]&0x7FFF)
		a.rom.Evaluate()
		instr, _ := a.rom.Output("out")

		a.mem.SetInput("address", a.cpu.state["A"]&0x7FFF)
		a.mem.Evaluate()
		inM, _ := a.mem.Output("out")

		a.cpu.SetInput("instruction", instr)
		a.cpu.SetInput("inM", inM)
		a.cpu.SetInput("reset", rd(i, "reset"))
		a.cpu.Evaluate()

		outM, _ := a.cpu.Output("outM")
		writeM, _ := a.cpu.Output("writeM")
		a.mem.SetInput("in", outM)
		a.mem.SetInput("load", writeM)
	},
	clockUp: func(i *Instance) {
		a := i.aux.(*computerAux)
		a.cpu.ClockUp()
		a.mem.ClockUp()
	},
	clockDown: func(i *Instance) {
		a := i.aux.(*computerAux)
		a.cpu.ClockDown()
		a.mem.ClockDown()
	},
}

// LoadROM preloads a Computer instance's ROM32K with a program image. It
// reports false if i is not a Computer instance.
func (i *Instance) LoadROM(program []word.Word) bool {
	a, ok := i.aux.(*computerAux)
	if !ok {
		return false
	}
	copy(a.rom.mem, program)
	return true
}

// Children exposes a Computer instance's CPU, Memory and ROM32K
// sub-instances for inspection by tests and by a debugger CLI. It reports
// false if i is not a Computer instance.
func (i *Instance) Children() (cpuInst, memInst, romInst *Instance, ok bool) {
	a, isComputer := i.aux.(*computerAux)
	if !isComputer {
		return nil, nil, nil, false
	}
	return a.cpu, a.mem, a.rom, true
}
