package gate

import "testing"

func TestALUZero(t *testing.T) {
	// comp "0": zx=1 nx=0 zy=1 ny=0 f=1 no=0 -> out = 0+0 = 0
	inst := alu.New()
	inst.SetInput("x", 17)
	inst.SetInput("y", 42)
	inst.SetInput("zx", 1)
	inst.SetInput("zy", 1)
	inst.SetInput("f", 1)
	inst.Evaluate()

	if out, _ := inst.Output("out"); out != 0 {
		t.Fatalf("comp 0: out=%d, want 0", out)
	}
	if zr, _ := inst.Output("zr"); zr != 1 {
		t.Fatalf("comp 0: zr=%d, want 1", zr)
	}
	if ng, _ := inst.Output("ng"); ng != 0 {
		t.Fatalf("comp 0: ng=%d, want 0", ng)
	}
}

func TestALUNegate(t *testing.T) {
	// comp "-x": zx=0 nx=0 zy=1 ny=1 f=1 no=1 -> out = -x
	inst := alu.New()
	inst.SetInput("x", 5)
	inst.SetInput("zy", 1)
	inst.SetInput("ny", 1)
	inst.SetInput("f", 1)
	inst.SetInput("no", 1)
	inst.Evaluate()

	out, _ := inst.Output("out")
	if int16(out) != -5 {
		t.Fatalf("comp -x: out=%d, want -5", int16(out))
	}
	if ng, _ := inst.Output("ng"); ng != 1 {
		t.Fatalf("comp -x: ng=%d, want 1", ng)
	}
}

func TestALUAdd(t *testing.T) {
	// comp "x+y": zx=0 nx=0 zy=0 ny=0 f=1 no=0
	inst := alu.New()
	inst.SetInput("x", 20)
	inst.SetInput("y", 22)
	inst.SetInput("f", 1)
	inst.Evaluate()

	if out, _ := inst.Output("out"); out != 42 {
		t.Fatalf("comp x+y: out=%d, want 42", out)
	}
	if zr, _ := inst.Output("zr"); zr != 0 {
		t.Fatalf("comp x+y: zr=%d, want 0", zr)
	}
}

func TestComputeOverflowWraps(t *testing.T) {
	out, zr, ng := compute(0xFFFF, 1, false, false, false, false, true, false)
	if out != 0 {
		t.Fatalf("0xFFFF+1 should wrap to 0, got %d", out)
	}
	if !zr {
		t.Fatal("wrapped sum of 0 should report zr=true")
	}
	if ng {
		t.Fatal("0 should not report ng=true")
	}
}
