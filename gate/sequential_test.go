package gate

import (
	"testing"

	"hdlsim/word"
)

func TestDFFHoldsUntilClockDown(t *testing.T) {
	inst := dff.New()
	inst.SetInput("in", 1)
	inst.ClockUp()
	if out, _ := inst.Output("out"); out != 0 {
		t.Fatalf("before clockDown: out=%d, want 0 (unchanged)", out)
	}
	inst.ClockDown()
	if out, _ := inst.Output("out"); out != 1 {
		t.Fatalf("after clockDown: out=%d, want 1", out)
	}
}

func TestClockedRegisterLoadGating(t *testing.T) {
	inst := register.New()

	inst.SetInput("in", 0x1234)
	inst.SetInput("load", 0)
	inst.ClockUp()
	inst.ClockDown()
	if out, _ := inst.Output("out"); out != 0 {
		t.Fatalf("load=0: out=%d, want 0 (register must not latch)", out)
	}

	inst.SetInput("in", 0x1234)
	inst.SetInput("load", 1)
	inst.ClockUp()
	inst.ClockDown()
	if out, _ := inst.Output("out"); out != 0x1234 {
		t.Fatalf("load=1: out=%04X, want 1234", out)
	}

	// Changing "in" without re-asserting load must not disturb the held value.
	inst.SetInput("in", 0xBEEF)
	inst.SetInput("load", 0)
	inst.ClockUp()
	inst.ClockDown()
	if out, _ := inst.Output("out"); out != 0x1234 {
		t.Fatalf("load=0 after prior latch: out=%04X, want held value 1234", out)
	}
}

func TestClockPhaseViolation(t *testing.T) {
	inst := dff.New()
	inst.ClockUp()
	inst.ClockUp()
	if err := inst.LastError(); err == nil {
		t.Fatal("calling ClockUp twice without an intervening ClockDown should raise a phase violation")
	}
	if err := inst.LastError(); err != nil {
		t.Fatalf("LastError should clear after being read, got %v", err)
	}
}

func TestPCPriorityResetLoadIncHold(t *testing.T) {
	inst := pc.New()

	tick := func() word.Word {
		inst.ClockUp()
		inst.ClockDown()
		out, _ := inst.Output("out")
		return out
	}

	inst.SetInput("inc", 1)
	if v := tick(); v != 1 {
		t.Fatalf("inc: pc=%d, want 1", v)
	}
	if v := tick(); v != 2 {
		t.Fatalf("inc again: pc=%d, want 2", v)
	}

	inst.SetInput("load", 1)
	inst.SetInput("in", 100)
	if v := tick(); v != 100 {
		t.Fatalf("load takes priority over inc: pc=%d, want 100", v)
	}

	inst.SetInput("reset", 1)
	if v := tick(); v != 0 {
		t.Fatalf("reset takes priority over load and inc: pc=%d, want 0", v)
	}

	inst.SetInput("reset", 0)
	inst.SetInput("load", 0)
	inst.SetInput("inc", 0)
	if v := tick(); v != 0 {
		t.Fatalf("hold: pc=%d, want 0 (unchanged)", v)
	}
}

func TestRAMAsyncReadStagedWrite(t *testing.T) {
	inst := ram8.New()

	inst.SetInput("address", 3)
	inst.Evaluate()
	if out, _ := inst.Output("out"); out != 0 {
		t.Fatalf("unwritten cell: out=%d, want 0", out)
	}

	inst.SetInput("in", 77)
	inst.SetInput("load", 1)
	inst.ClockUp()
	if out, _ := inst.Output("out"); out != 0 {
		t.Fatalf("write staged but not yet committed: out=%d, want 0 (unchanged until clockDown)", out)
	}
	inst.ClockDown()

	inst.Evaluate()
	if out, _ := inst.Output("out"); out != 77 {
		t.Fatalf("after clockDown commit: out=%d, want 77", out)
	}

	// A different address must read back zero; RAM cells are independent.
	inst.SetInput("address", 5)
	inst.Evaluate()
	if out, _ := inst.Output("out"); out != 0 {
		t.Fatalf("address 5 should be untouched, out=%d, want 0", out)
	}
}
