package word

import "testing"

func TestSliceAndSetSlice(t *testing.T) {
	w := Word(0b1100_1010)
	if got := Slice(w, 0, 3); got != 0b1010 {
		t.Errorf("Slice(0,3) = %04b, want 1010", got)
	}
	if got := Slice(w, 4, 7); got != 0b1100 {
		t.Errorf("Slice(4,7) = %04b, want 1100", got)
	}
	got := SetSlice(w, 0, 3, 0b0001)
	if got != 0b1100_0001 {
		t.Errorf("SetSlice = %08b, want 11000001", got)
	}
}

func TestBitAndSetBit(t *testing.T) {
	w := Word(0)
	w = SetBit(w, 3, true)
	if !Bit(w, 3) {
		t.Error("expected bit 3 set")
	}
	w = SetBit(w, 3, false)
	if Bit(w, 3) {
		t.Error("expected bit 3 clear")
	}
}

func TestAllOnes(t *testing.T) {
	if AllOnes(1) != 1 {
		t.Errorf("AllOnes(1) = %d, want 1", AllOnes(1))
	}
	if AllOnes(16) != 0xFFFF {
		t.Errorf("AllOnes(16) = %#x, want 0xFFFF", AllOnes(16))
	}
}

func TestSigned(t *testing.T) {
	if Signed(0xFFFF) != -1 {
		t.Errorf("Signed(0xFFFF) = %d, want -1", Signed(0xFFFF))
	}
	if Signed(0x0001) != 1 {
		t.Errorf("Signed(0x0001) = %d, want 1", Signed(0x0001))
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		w     Word
		radix int
		want  string
	}{
		{0x0001, Binary, "0000000000000001"},
		{0x00FF, Hex, "00FF"},
		{0xFFFF, Decimal, "-1"},
		{0x0010, Decimal, "16"},
	}
	for _, c := range cases {
		got, err := Format(c.w, c.radix)
		if err != nil {
			t.Fatalf("Format error: %v", err)
		}
		if got != c.want {
			t.Errorf("Format(%#x, %d) = %q, want %q", c.w, c.radix, got, c.want)
		}
	}
}

func TestFormatWidth(t *testing.T) {
	if got := FormatWidth(0b101, Binary, 4); got != "0101" {
		t.Errorf("FormatWidth = %q, want 0101", got)
	}
	if got := FormatWidth(0xA, Hex, 2); got != "0A" {
		t.Errorf("FormatWidth = %q, want 0A", got)
	}
}

func TestParseLiteral(t *testing.T) {
	v, err := ParseLiteral("1010", Binary)
	if err != nil || v != 0b1010 {
		t.Errorf("ParseLiteral(1010, 2) = %v, %v", v, err)
	}
	v, err = ParseLiteral("FF", Hex)
	if err != nil || v != 0xFF {
		t.Errorf("ParseLiteral(FF, 16) = %v, %v", v, err)
	}
	v, err = ParseLiteral("-1", Decimal)
	if err != nil || v != 0xFFFF {
		t.Errorf("ParseLiteral(-1, 10) = %#x, %v", v, err)
	}
	if _, err := ParseLiteral("1FFFF", Hex); err == nil {
		t.Error("expected InvalidLiteralError for out-of-range hex literal")
	}
	if _, err := ParseLiteral("40000", Decimal); err == nil {
		t.Error("expected InvalidLiteralError for out-of-range decimal literal")
	}
}
