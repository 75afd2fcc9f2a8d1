package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestParseMuxChip(t *testing.T) {
	chip, err := Parse([]byte(muxHDL))
	require.Nil(t, err)
	require.NotNil(t, chip)

	assert.Equal(t, "Mux", chip.Name)
	assert.Equal(t, []PinSpec{{Name: "a", Size: 1}, {Name: "b", Size: 1}, {Name: "sel", Size: 1}}, chip.Inputs)
	assert.Equal(t, []PinSpec{{Name: "out", Size: 1}}, chip.Outputs)
	require.Len(t, chip.Parts, 4)
	assert.Equal(t, "Not", chip.Parts[0].Name)
	assert.Equal(t, Argument{Name: "in", Value: Ref{Kind: RefSimple, Name: "sel"}}, chip.Parts[0].Arguments[0])
}

func TestParsePinWidths(t *testing.T) {
	chip, err := Parse([]byte(`CHIP Wide { IN a[16], sel[2]; OUT out[16]; PARTS: }`))
	require.Nil(t, err)
	assert.Equal(t, []PinSpec{{Name: "a", Size: 16}, {Name: "sel", Size: 2}}, chip.Inputs)
	assert.Equal(t, []PinSpec{{Name: "out", Size: 16}}, chip.Outputs)
}

func TestParseSliceRefsBothForms(t *testing.T) {
	chip, err := Parse([]byte(`CHIP S { IN a[16]; OUT out; PARTS: Not(in=a[3], out=out); Not(in=a[3..7], out=out); }`))
	require.Nil(t, err)
	require.Len(t, chip.Parts, 2)
	assert.Equal(t, Ref{Kind: RefSlice, Name: "a", From: 3, To: 3}, chip.Parts[0].Arguments[0].Value)
	assert.Equal(t, Ref{Kind: RefSlice, Name: "a", From: 3, To: 7}, chip.Parts[1].Arguments[0].Value)
}

func TestParseConstRefs(t *testing.T) {
	chip, err := Parse([]byte(`CHIP C { OUT out; PARTS: Not(in=true, out=out); }`))
	require.Nil(t, err)
	assert.Equal(t, Ref{Kind: RefConst, Const: true}, chip.Parts[0].Arguments[0].Value)
}

func TestParseSkipsComments(t *testing.T) {
	src := `
// leading comment
CHIP A { // trailing
    IN a; /* block
    comment */
    OUT out;
    PARTS:
    Not(in=a, out=out); // part comment
}
`
	chip, err := Parse([]byte(src))
	require.Nil(t, err)
	assert.Equal(t, "A", chip.Name)
	require.Len(t, chip.Parts, 1)
}

func TestParseErrorLocation(t *testing.T) {
	_, err := Parse([]byte(`CHIP Foo { IN a IN b; }`))
	require.NotNil(t, err)
	assert.Equal(t, 1, err.Line)
	assert.Equal(t, 17, err.Column)
	assert.Equal(t, `CHIP Foo { IN a IN b; }`, err.SourceLine)
}

func TestRoundTripPrintThenParse(t *testing.T) {
	original, err := Parse([]byte(muxHDL))
	require.Nil(t, err)

	printed := Print(original)
	reparsed, err2 := Parse([]byte(printed))
	require.Nil(t, err2)

	assert.Equal(t, original, reparsed)
}

func TestParseRejectsNegativeSliceRange(t *testing.T) {
	_, err := Parse([]byte(`CHIP S { IN a[16]; OUT out; PARTS: Not(in=a[7..3], out=out); }`))
	require.NotNil(t, err)
}

func TestParseRejectsMissingSemicolon(t *testing.T) {
	_, err := Parse([]byte(`CHIP Foo { IN a; OUT out PARTS: }`))
	require.NotNil(t, err)
}
