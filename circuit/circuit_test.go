package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdlsim/gate"
	"hdlsim/parser"
	"hdlsim/word"
)

const muxHDL = `
CHIP Mux {
    IN a, b, sel;
    OUT out;
    PARTS:
    Not(in=sel, out=nsel);
    And(a=a, b=nsel, out=w1);
    And(a=b, b=sel, out=w2);
    Or(a=w1, b=w2, out=out);
}
`

func mustParse(t *testing.T, src string) *parser.Chip {
	t.Helper()
	chip, err := parser.Parse([]byte(src))
	require.Nil(t, err)
	return chip
}

func TestLinkAndEvaluateMux(t *testing.T) {
	reg := gate.NewRegistry()
	chip := mustParse(t, muxHDL)
	class, lerr := Link(chip, reg, nil)
	require.Nil(t, lerr)

	rows := []Row{
		{"a": 1, "b": 0, "sel": 0},
		{"a": 0, "b": 1, "sel": 1},
		{"a": 1, "b": 1, "sel": 0},
	}
	inst := class.New()
	result := inst.ExecOnData(rows)
	require.Len(t, result.Rows, 3)
	assert.Empty(t, result.Conflicts)
	assert.Equal(t, word.Word(1), result.Rows[0]["out"]) // sel=0 selects a=1
	assert.Equal(t, word.Word(1), result.Rows[1]["out"]) // sel=1 selects b=1
	assert.Equal(t, word.Word(1), result.Rows[2]["out"]) // a=b=1, sel=0 selects a=1
}

func TestEvaluateDetectsConflictingWrites(t *testing.T) {
	const src = `
CHIP Bad {
    IN a, b;
    OUT out;
    PARTS:
    Nand(a=a, b=a, out=out);
    Nand(a=b, b=b, out=out);
}
`
	reg := gate.NewRegistry()
	chip := mustParse(t, src)
	class, lerr := Link(chip, reg, nil)
	require.Nil(t, lerr)

	inst := class.New()
	inst.SetInput("a", 0)
	inst.SetInput("b", 1)
	inst.Evaluate()

	require.Len(t, inst.Conflicts(), 1)
	assert.Equal(t, "out", inst.Conflicts()[0].Net)
	assert.Len(t, inst.Conflicts()[0].Writers, 2)
}

func TestLinkRejectsCombinationalLoop(t *testing.T) {
	const src = `
CHIP Loopy {
    IN in;
    OUT out;
    PARTS:
    And(a=in, b=w2, out=w1);
    And(a=w1, b=in, out=w2);
    Not(in=w2, out=out);
}
`
	reg := gate.NewRegistry()
	chip := mustParse(t, src)
	_, lerr := Link(chip, reg, nil)
	require.NotNil(t, lerr)

	var loopErr *CombinationalLoopError
	require.ErrorAs(t, lerr, &loopErr)
	assert.ElementsMatch(t, []string{"And", "And", "Not"}, loopErr.Parts)
}

func TestLinkRejectsUnknownGate(t *testing.T) {
	const src = `CHIP X { IN a; OUT out; PARTS: Frobnicate(a=a, out=out); }`
	reg := gate.NewRegistry()
	chip := mustParse(t, src)
	_, lerr := Link(chip, reg, nil)
	require.NotNil(t, lerr)

	var unknown *UnknownGateError
	require.ErrorAs(t, lerr, &unknown)
	assert.Equal(t, "Frobnicate", unknown.Name)
}

func TestLinkRejectsWidthMismatch(t *testing.T) {
	const src = `CHIP X { IN a[16]; OUT out; PARTS: Not(in=a, out=out); }`
	reg := gate.NewRegistry()
	chip := mustParse(t, src)
	_, lerr := Link(chip, reg, nil)
	require.NotNil(t, lerr)

	var mismatch *WidthMismatchError
	require.ErrorAs(t, lerr, &mismatch)
}

func TestLinkUsesLoaderForUnresolvedParts(t *testing.T) {
	const andSrc = `CHIP MyAnd { IN a, b; OUT out; PARTS: And(a=a, b=b, out=out); }`
	const topSrc = `CHIP Top { IN a, b; OUT out; PARTS: MyAnd(a=a, b=b, out=out); }`

	reg := gate.NewRegistry()
	loader := func(name string) (*parser.Chip, error) {
		if name == "MyAnd" {
			return mustParse(t, andSrc), nil
		}
		return nil, nil
	}
	chip := mustParse(t, topSrc)
	class, lerr := Link(chip, reg, loader)
	require.Nil(t, lerr)

	inst := class.New()
	out, conflicts := inst.Step(Row{"a": 1, "b": 1})
	assert.Empty(t, conflicts)
	assert.Equal(t, word.Word(1), out["out"])
}

func TestTickDrivesNestedBit(t *testing.T) {
	const src = `
CHIP Latch {
    IN in, load;
    OUT out;
    PARTS:
    Bit(in=in, load=load, out=out);
}
`
	reg := gate.NewRegistry()
	chip := mustParse(t, src)
	class, lerr := Link(chip, reg, nil)
	require.Nil(t, lerr)
	require.True(t, class.IsSequential())

	inst := class.New()
	inst.SetInput("in", 1)
	inst.SetInput("load", 1)
	inst.Evaluate()
	out, _ := inst.Output("out")
	assert.Equal(t, word.Word(0), out, "latch output must not move before a clock edge")

	inst.Tick() // rising edge: latches shadow value
	inst.Tick() // falling edge: commits to out
	out, _ = inst.Output("out")
	assert.Equal(t, word.Word(1), out)
}
