// Package parser recognizes the HDL chip-definition grammar and produces an
// AST for the composite linker: tokenizer, recursive-descent parser, a
// canonical printer for the round-trip property, and structured parse
// errors with source location.
package parser

import (
	"strings"
)

// tokenKind classifies a lexed token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokSemicolon
	tokColon
	tokEquals
	tokDotDot
	tokKeywordCHIP
	tokKeywordIN
	tokKeywordOUT
	tokKeywordPARTS
	tokKeywordTrue
	tokKeywordFalse
)

var keywords = map[string]tokenKind{
	"CHIP":  tokKeywordCHIP,
	"IN":    tokKeywordIN,
	"OUT":   tokKeywordOUT,
	"PARTS": tokKeywordPARTS,
	"true":  tokKeywordTrue,
	"false": tokKeywordFalse,
}

// token is one lexical unit plus its source position (1-based line/column,
// 0-based byte offset).
type token struct {
	kind   tokenKind
	lit    string
	offset int
	line   int
	column int
}

// lexer scans HDL source into tokens, skipping whitespace and both comment
// forms (`//` and non-nested `/* */`).
type lexer struct {
	src    []byte
	pos    int
	line   int
	column int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, pos: 0, line: 1, column: 1}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return b
}

func (l *lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		switch {
		case isSpace(l.peekByte()):
			l.advance()
		case l.peekByte() == '/' && l.peekByteAt(1) == '/':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case l.peekByte() == '/' && l.peekByteAt(1) == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

// next returns the next token, or a tokEOF token once the source is
// exhausted. An unrecognized byte is also returned as a tokEOF token, with
// that byte as its literal.
func (l *lexer) next() token {
	l.skipWhitespaceAndComments()
	start := l.pos
	line, col := l.line, l.column
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: start, line: line, column: col}
	}

	b := l.peekByte()
	switch {
	case b == '{':
		l.advance()
		return token{kind: tokLBrace, lit: "{", offset: start, line: line, column: col}
	case b == '}':
		l.advance()
		return token{kind: tokRBrace, lit: "}", offset: start, line: line, column: col}
	case b == '(':
		l.advance()
		return token{kind: tokLParen, lit: "(", offset: start, line: line, column: col}
	case b == ')':
		l.advance()
		return token{kind: tokRParen, lit: ")", offset: start, line: line, column: col}
	case b == '[':
		l.advance()
		return token{kind: tokLBracket, lit: "[", offset: start, line: line, column: col}
	case b == ']':
		l.advance()
		return token{kind: tokRBracket, lit: "]", offset: start, line: line, column: col}
	case b == ',':
		l.advance()
		return token{kind: tokComma, lit: ",", offset: start, line: line, column: col}
	case b == ';':
		l.advance()
		return token{kind: tokSemicolon, lit: ";", offset: start, line: line, column: col}
	case b == ':':
		l.advance()
		return token{kind: tokColon, lit: ":", offset: start, line: line, column: col}
	case b == '=':
		l.advance()
		return token{kind: tokEquals, lit: "=", offset: start, line: line, column: col}
	case b == '.' && l.peekByteAt(1) == '.':
		l.advance()
		l.advance()
		return token{kind: tokDotDot, lit: "..", offset: start, line: line, column: col}
	case isDigit(b):
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			l.advance()
		}
		lit := string(l.src[start:l.pos])
		return token{kind: tokNumber, lit: lit, offset: start, line: line, column: col}
	case isIdentStart(b):
		for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
			l.advance()
		}
		lit := string(l.src[start:l.pos])
		if kw, ok := keywords[lit]; ok {
			return token{kind: kw, lit: lit, offset: start, line: line, column: col}
		}
		return token{kind: tokIdent, lit: lit, offset: start, line: line, column: col}
	default:
		l.advance()
		return token{kind: tokEOF, lit: string(b), offset: start, line: line, column: col}
	}
}

// sourceLineAt returns the given 1-based line of src, for use in a
// ParseError's sourceLine/caret fields.
func sourceLineAt(src []byte, line int) string {
	lines := strings.Split(string(src), "\n")
	if line-1 < 0 || line-1 >= len(lines) {
		return ""
	}
	return lines[line-1]
}
