// hdlrun is a thin demonstration driver over the gate/parser/circuit/clock
// libraries: load a built-in gate or an HDL file, describe or list it,
// evaluate it against literal stimulus rows, or run its clock.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"hdlsim/circuit"
	"hdlsim/clock"
	"hdlsim/gate"
	"hdlsim/parser"
	"hdlsim/pin"
	"hdlsim/word"
)

const (
	exitOK = iota
	exitUnknownGate
	exitParseError
	exitLinkError
)

func main() {
	gateFlag := flag.String("gate", "", "built-in gate name, or path to an .hdl file")
	listFlag := flag.Bool("list", false, "list every built-in gate name")
	describeFlag := flag.Bool("describe", false, "print the pinout of the selected gate")
	parseFlag := flag.Bool("parse", false, "parse (and, for a chip, link) the selected gate, then exit")
	execOnData := flag.String("exec-on-data", "", `literal stimulus rows, e.g. "a=1,b=0;a=0,b=1"`)
	formatFlag := flag.String("format", "dec", "output radix for exec-on-data/run: bin|hex|dec")
	runFlag := flag.Int("run", 0, "number of clock ticks to run before printing output state")
	clockRate := flag.Int("clock-rate", 1, "clock rate in Hz, set on the shared system clock; -run does not pace ticks by it")
	step := flag.Bool("step", false, "pause for a keypress between clock ticks during -run")
	flag.Parse()

	reg := gate.NewRegistry()

	if *listFlag {
		for _, name := range reg.List() {
			fmt.Println(name)
		}
		os.Exit(exitOK)
	}

	if *gateFlag == "" {
		log.Fatal("hdlrun: -gate is required (a built-in name, or a path to an .hdl file)")
	}

	radix, err := radixFromFlag(*formatFlag)
	if err != nil {
		log.Fatal(err)
	}

	class := resolveGate(*gateFlag, reg)
	clock.SystemClock.SetRate(*clockRate)

	if *describeFlag {
		describeGate(*gateFlag, class.Inputs, class.Outputs)
	}
	if *parseFlag {
		fmt.Printf("%s: ok (%d input(s), %d output(s))\n", *gateFlag, len(class.Inputs), len(class.Outputs))
	}

	if *execOnData == "" && *runFlag == 0 {
		os.Exit(exitOK)
	}

	inst := class.New()

	if *execOnData != "" {
		rows, err := parseLiteralRows(*execOnData, radix)
		if err != nil {
			log.Fatal(err)
		}
		printResult(inst.ExecOnData(rows), class.Outputs, radix)
	}

	if *runFlag > 0 {
		runTicks(inst, *runFlag, class.Outputs, radix, *step)
	}
}

// resolveGate loads gateFlag either as a built-in registry name, wrapped in
// a synthetic single-part composite so the rest of the CLI only ever deals
// with circuit.Class, or as HDL source linked against reg directly. It
// exits with exitUnknownGate/exitParseError/exitLinkError on failure,
// matching the specified exit-code contract.
func resolveGate(name string, reg *gate.Registry) *circuit.Class {
	if cls, ok := reg.Get(name); ok {
		chip, perr := parser.Parse([]byte(wrapperHDL(name, cls.Spec.Inputs, cls.Spec.Outputs)))
		if perr != nil {
			// A generated wrapper never fails to parse; a failure here is a
			// bug in wrapperHDL, not user input.
			log.Fatalf("hdlrun: internal wrapper for %q failed to parse: %v", name, perr)
		}
		linked, lerr := circuit.Link(chip, reg, nil)
		if lerr != nil {
			log.Fatalf("hdlrun: internal wrapper for %q failed to link: %v", name, lerr)
		}
		return linked
	}

	src, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hdlrun: unknown gate %q: not a built-in and not a readable file\n", name)
		os.Exit(exitUnknownGate)
	}

	chip, perr := parser.Parse(src)
	if perr != nil {
		fmt.Fprintln(os.Stderr, perr.Error())
		fmt.Fprintln(os.Stderr, perr.SourceLine)
		fmt.Fprintln(os.Stderr, perr.Caret())
		os.Exit(exitParseError)
	}

	loader := fileLoader{dir: dirOf(name)}.load
	linked, lerr := circuit.Link(chip, reg, loader)
	if lerr != nil {
		fmt.Fprintln(os.Stderr, lerr.Error())
		os.Exit(exitLinkError)
	}
	return linked
}

// wrapperHDL renders a chip whose pinout mirrors a built-in gate's and whose
// single part forwards every pin straight through, letting a built-in be
// driven via the same circuit.Class/Instance API as any composite chip.
func wrapperHDL(name string, inputs, outputs []pin.Spec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CHIP Wrapper { ")
	if len(inputs) > 0 {
		fmt.Fprintf(&b, "IN %s; ", joinPinDecls(inputs))
	}
	if len(outputs) > 0 {
		fmt.Fprintf(&b, "OUT %s; ", joinPinDecls(outputs))
	}
	b.WriteString("PARTS: ")
	fmt.Fprintf(&b, "%s(%s);", name, joinIdentityArgs(inputs, outputs))
	b.WriteString(" }")
	return b.String()
}

func joinPinDecls(specs []pin.Spec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		if s.Size == 1 {
			parts[i] = s.Name
		} else {
			parts[i] = fmt.Sprintf("%s[%d]", s.Name, s.Size)
		}
	}
	return strings.Join(parts, ", ")
}

func joinIdentityArgs(inputs, outputs []pin.Spec) string {
	var args []string
	for _, s := range inputs {
		args = append(args, fmt.Sprintf("%s=%s", s.Name, s.Name))
	}
	for _, s := range outputs {
		args = append(args, fmt.Sprintf("%s=%s", s.Name, s.Name))
	}
	return strings.Join(args, ", ")
}

// fileLoader resolves a part name absent from the registry by reading
// <dir>/<name>.hdl, the file-discovery convention spec.md leaves as a CLI
// concern rather than a library one.
type fileLoader struct{ dir string }

func (l fileLoader) load(name string) (*parser.Chip, error) {
	src, err := os.ReadFile(l.dir + string(os.PathSeparator) + name + ".hdl")
	if err != nil {
		return nil, err
	}
	chip, perr := parser.Parse(src)
	if perr != nil {
		return nil, perr
	}
	return chip, nil
}

func dirOf(path string) string {
	idx := strings.LastIndexByte(path, os.PathSeparator)
	if idx < 0 {
		return "."
	}
	return path[:idx]
}

func radixFromFlag(s string) (int, error) {
	switch s {
	case "bin":
		return word.Binary, nil
	case "hex":
		return word.Hex, nil
	case "dec", "":
		return word.Decimal, nil
	default:
		return 0, fmt.Errorf("hdlrun: unknown -format %q, want bin|hex|dec", s)
	}
}

func parseLiteralRows(spec string, radix int) ([]circuit.Row, error) {
	var rows []circuit.Row
	for _, rowText := range strings.Split(spec, ";") {
		rowText = strings.TrimSpace(rowText)
		if rowText == "" {
			continue
		}
		row := circuit.Row{}
		for _, pair := range strings.Split(rowText, ",") {
			name, lit, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("hdlrun: malformed stimulus pair %q", pair)
			}
			v, err := word.ParseLiteral(strings.TrimSpace(lit), radix)
			if err != nil {
				v, err = word.ParseLiteral(strings.TrimSpace(lit), word.Decimal)
				if err != nil {
					return nil, err
				}
			}
			row[strings.TrimSpace(name)] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func printResult(result circuit.Result, outputs []pin.Spec, radix int) {
	names := make([]string, len(outputs))
	for i, p := range outputs {
		names[i] = p.Name
	}
	sort.Strings(names)
	for _, row := range result.Rows {
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s=%s", name, word.FormatWidth(row[name], radix, widthOf(outputs, name)))
		}
		fmt.Println(strings.Join(parts, " "))
	}
	for _, c := range result.Conflicts {
		fmt.Fprintf(os.Stderr, "conflict on %s: writers %v\n", c.Net, c.Writers)
	}
}

func widthOf(specs []pin.Spec, name string) int {
	for _, s := range specs {
		if s.Name == name {
			return s.Size
		}
	}
	return 1
}

// runTicks drives inst.Tick() n times. With step, it puts the terminal in
// raw mode and waits for one keypress per tick; Ctrl+C aborts.
func runTicks(inst *circuit.Instance, n int, outputs []pin.Spec, radix int, step bool) {
	if step {
		restore := enterRawMode()
		defer restore()
	}
	for i := 0; i < n; i++ {
		if step {
			waitForKeypress()
		}
		inst.Tick()
	}
	printResult(circuit.Result{Rows: []circuit.Row{circuit.Row(inst.GetPinValues())}}, outputs, radix)
}

func enterRawMode() func() {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Printf("hdlrun: could not enter raw terminal mode: %v", err)
		return func() {}
	}
	return func() { _ = term.Restore(fd, oldState) }
}

func waitForKeypress() {
	_, key, err := keyboard.GetSingleKey()
	if err != nil {
		log.Fatalf("hdlrun: reading keypress: %v", err)
	}
	if key == keyboard.KeyCtrlC {
		log.Fatal("hdlrun: interrupted")
	}
}

func describeGate(name string, inputs, outputs []pin.Spec) {
	fmt.Printf("%s\n", name)
	fmt.Printf("  in:  %s\n", joinPinDecls(inputs))
	fmt.Printf("  out: %s\n", joinPinDecls(outputs))
}
