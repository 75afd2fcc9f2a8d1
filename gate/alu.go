package gate

import (
	"hdlsim/pin"
	"hdlsim/word"
)

// compute implements the canonical Hack ALU: zx/nx/zy/ny pre-modifiers,
// f selects x+y (1) or x&y (0), no post-inverts the result. zr/ng are
// derived from the 16-bit result, not computed independently.
func compute(x, y word.Word, zx, nx, zy, ny, f, no bool) (out word.Word, zr, ng bool) {
	if zx {
		x = 0
	}
	if nx {
		x = ^x
	}
	if zy {
		y = 0
	}
	if ny {
		y = ^y
	}
	if f {
		out = x + y
	} else {
		out = x & y
	}
	if no {
		out = ^out
	}
	zr = out == 0
	ng = word.Signed(out) < 0
	return out, zr, ng
}

func flagBit(i *Instance, name string) bool {
	return rd(i, name)&1 != 0
}

var alu = newCombinational(Spec{
	Name:        "ALU",
	Description: "out,zr,ng = compute(x,y,zx,nx,zy,ny,f,no)",
	Inputs: append(bus16("x", "y"),
		pin.Spec{Name: "zx", Size: 1}, pin.Spec{Name: "nx", Size: 1},
		pin.Spec{Name: "zy", Size: 1}, pin.Spec{Name: "ny", Size: 1},
		pin.Spec{Name: "f", Size: 1}, pin.Spec{Name: "no", Size: 1}),
	Outputs: append(bus16("out"), pin.Spec{Name: "zr", Size: 1}, pin.Spec{Name: "ng", Size: 1}),
}, func(i *Instance) {
	out, zr, ng := compute(rd(i, "x"), rd(i, "y"),
		flagBit(i, "zx"), flagBit(i, "nx"), flagBit(i, "zy"), flagBit(i, "ny"),
		flagBit(i, "f"), flagBit(i, "no"))
	wr(i, "out", out)
	wr(i, "zr", b2w(zr))
	wr(i, "ng", b2w(ng))
})

func b2w(b bool) word.Word {
	if b {
		return 1
	}
	return 0
}
