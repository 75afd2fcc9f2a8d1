package parser

import "strconv"

// parser is a recursive-descent parser over a single token of lookahead.
// Per the redesign away from accumulating into module-level variables, all
// state lives on this value and Parse returns a freshly built Chip for
// every call.
type parser struct {
	src []byte
	lex *lexer
	cur token
}

// Parse tokenizes and parses src into a Chip AST. On any syntax violation
// it returns a nil Chip and a *ParseError describing the failure location.
func Parse(src []byte) (*Chip, *ParseError) {
	p := &parser{src: src, lex: newLexer(src)}
	p.cur = p.lex.next()

	var chip *Chip
	var perr *ParseError
	func() {
		defer func() {
			if r := recover(); r != nil {
				if pe, ok := r.(*ParseError); ok {
					perr = pe
					return
				}
				panic(r)
			}
		}()
		chip = p.parseChip()
	}()
	if perr != nil {
		return nil, perr
	}
	return chip, nil
}

func (p *parser) advance() {
	p.cur = p.lex.next()
}

// expect consumes the current token if it matches kind, else panics with a
// *ParseError (caught by Parse's recover).
func (p *parser) expect(kind tokenKind, what string) token {
	if p.cur.kind != kind {
		panic(p.errorf(p.cur, "expected %s, got %q", what, p.describe(p.cur)))
	}
	t := p.cur
	p.advance()
	return t
}

func (p *parser) describe(t token) string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return t.lit
}

func (p *parser) fail(format string, args ...any) {
	panic(p.errorf(p.cur, format, args...))
}

func (p *parser) parseChip() *Chip {
	p.expect(tokKeywordCHIP, "'CHIP'")
	name := p.expect(tokIdent, "chip name").lit
	p.expect(tokLBrace, "'{'")

	chip := &Chip{Name: name}
	seenParts := false
	for p.cur.kind != tokRBrace {
		switch p.cur.kind {
		case tokKeywordIN:
			if seenParts {
				p.fail("IN section must precede PARTS")
			}
			p.advance()
			chip.Inputs = append(chip.Inputs, p.parsePinDecls()...)
			p.expect(tokSemicolon, "';'")
		case tokKeywordOUT:
			if seenParts {
				p.fail("OUT section must precede PARTS")
			}
			p.advance()
			chip.Outputs = append(chip.Outputs, p.parsePinDecls()...)
			p.expect(tokSemicolon, "';'")
		case tokKeywordPARTS:
			p.advance()
			p.expect(tokColon, "':'")
			seenParts = true
			for p.cur.kind == tokIdent {
				chip.Parts = append(chip.Parts, p.parsePart())
			}
		case tokEOF:
			p.fail("unexpected end of input, expected '}'")
		default:
			p.fail("expected 'IN', 'OUT', 'PARTS', or '}', got %q", p.describe(p.cur))
		}
	}
	p.expect(tokRBrace, "'}'")
	return chip
}

func (p *parser) parsePinDecls() []PinSpec {
	var decls []PinSpec
	decls = append(decls, p.parsePinDecl())
	for p.cur.kind == tokComma {
		p.advance()
		decls = append(decls, p.parsePinDecl())
	}
	return decls
}

func (p *parser) parsePinDecl() PinSpec {
	name := p.expect(tokIdent, "pin name").lit
	size := 1
	if p.cur.kind == tokLBracket {
		p.advance()
		n := p.expect(tokNumber, "pin width").lit
		v, err := strconv.Atoi(n)
		if err != nil || v < 1 || v > 16 {
			p.fail("invalid pin width %q", n)
		}
		size = v
		p.expect(tokRBracket, "']'")
	}
	return PinSpec{Name: name, Size: size}
}

func (p *parser) parsePart() ChipCall {
	name := p.expect(tokIdent, "part name").lit
	p.expect(tokLParen, "'('")
	var args []Argument
	if p.cur.kind != tokRParen {
		args = append(args, p.parseArg())
		for p.cur.kind == tokComma {
			p.advance()
			args = append(args, p.parseArg())
		}
	}
	p.expect(tokRParen, "')'")
	p.expect(tokSemicolon, "';'")
	return ChipCall{Name: name, Arguments: args}
}

func (p *parser) parseArg() Argument {
	name := p.expect(tokIdent, "argument name").lit
	p.expect(tokEquals, "'='")
	ref := p.parseRef()
	return Argument{Name: name, Value: ref}
}

func (p *parser) parseRef() Ref {
	switch p.cur.kind {
	case tokKeywordTrue:
		p.advance()
		return Ref{Kind: RefConst, Const: true}
	case tokKeywordFalse:
		p.advance()
		return Ref{Kind: RefConst, Const: false}
	case tokIdent:
		name := p.cur.lit
		p.advance()
		if p.cur.kind != tokLBracket {
			return Ref{Kind: RefSimple, Name: name}
		}
		p.advance()
		from := p.parseNumber("slice index")
		if p.cur.kind == tokDotDot {
			p.advance()
			to := p.parseNumber("slice upper bound")
			p.expect(tokRBracket, "']'")
			if to < from {
				p.fail("slice upper bound %d is less than lower bound %d", to, from)
			}
			return Ref{Kind: RefSlice, Name: name, From: from, To: to}
		}
		p.expect(tokRBracket, "']'")
		return Ref{Kind: RefSlice, Name: name, From: from, To: from}
	default:
		p.fail("expected a pin reference, 'true', or 'false', got %q", p.describe(p.cur))
		return Ref{}
	}
}

func (p *parser) parseNumber(what string) int {
	t := p.expect(tokNumber, what)
	v, err := strconv.Atoi(t.lit)
	if err != nil {
		p.fail("invalid %s %q", what, t.lit)
	}
	return v
}
