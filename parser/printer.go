package parser

import (
	"fmt"
	"strings"
)

// Print renders chip back to canonical HDL source: one IN line and one OUT
// line listing all their pins, one part per PARTS line, no comments. Parse(Print(ast)) yields an
// AST structurally equal to ast, modulo the comments and whitespace the
// original source may have carried.
func Print(chip *Chip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CHIP %s {\n", chip.Name)
	if len(chip.Inputs) > 0 {
		fmt.Fprintf(&b, "    IN %s;\n", printPinDecls(chip.Inputs))
	}
	if len(chip.Outputs) > 0 {
		fmt.Fprintf(&b, "    OUT %s;\n", printPinDecls(chip.Outputs))
	}
	if len(chip.Parts) > 0 {
		b.WriteString("    PARTS:\n")
		for _, part := range chip.Parts {
			fmt.Fprintf(&b, "    %s;\n", printPart(part))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func printPinDecls(decls []PinSpec) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		if d.Size == 1 {
			parts[i] = d.Name
		} else {
			parts[i] = fmt.Sprintf("%s[%d]", d.Name, d.Size)
		}
	}
	return strings.Join(parts, ", ")
}

func printPart(part ChipCall) string {
	args := make([]string, len(part.Arguments))
	for i, a := range part.Arguments {
		args[i] = fmt.Sprintf("%s=%s", a.Name, printRef(a.Value))
	}
	return fmt.Sprintf("%s(%s)", part.Name, strings.Join(args, ", "))
}

func printRef(ref Ref) string {
	switch ref.Kind {
	case RefConst:
		if ref.Const {
			return "true"
		}
		return "false"
	case RefSlice:
		if ref.From == ref.To {
			return fmt.Sprintf("%s[%d]", ref.Name, ref.From)
		}
		return fmt.Sprintf("%s[%d..%d]", ref.Name, ref.From, ref.To)
	default:
		return ref.Name
	}
}
