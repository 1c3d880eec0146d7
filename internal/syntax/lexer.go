// Package syntax parses VHDL source into the AST consumed by the search
// engine. The native path is a hand-written lexer and recursive-descent
// parser covering the modeled subset of the language; a Tree-sitter path can
// be enabled by supplying a grammar (see sitter.go). The parser is tolerant:
// constructs outside the subset are skipped to a synchronizing token rather
// than reported as errors.
package syntax

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokNumber
	tokString
	tokCharacter
	tokPunct
)

// token is one lexical element. Word tokens keep their original spelling in
// Text; Lower carries the case-folded form used for keyword checks (VHDL
// identifiers and keywords are case-insensitive).
type token struct {
	Kind  tokenKind
	Text  string
	Lower string
	Pos   ast.SrcPos
}

// lexer produces tokens from VHDL source, skipping comments and whitespace.
type lexer struct {
	source ast.Source
	src    string
	offset int
	line   int
	column int
}

func newLexer(source ast.Source, src string) *lexer {
	return &lexer{source: source, src: src, line: 1}
}

// multi-character punctuation, longest first
var punct2 = []string{"<=", ":=", "=>", "/=", ">=", "**", "<>"}

func (l *lexer) lex() []token {
	var tokens []token
	for {
		l.skipBlanks()
		if l.offset >= len(l.src) {
			tokens = append(tokens, token{Kind: tokEOF, Pos: l.pos(l.position(), l.position())})
			return tokens
		}

		start := l.position()
		c := l.src[l.offset]
		switch {
		case isIdentStart(c):
			text := l.takeWhile(isIdentPart)
			tokens = append(tokens, token{
				Kind:  tokWord,
				Text:  text,
				Lower: strings.ToLower(text),
				Pos:   l.pos(start, l.position()),
			})
		case c >= '0' && c <= '9':
			text := l.takeWhile(isNumberPart)
			tokens = append(tokens, token{Kind: tokNumber, Text: text, Pos: l.pos(start, l.position())})
		case c == '"':
			text := l.takeString()
			tokens = append(tokens, token{Kind: tokString, Text: text, Pos: l.pos(start, l.position())})
		case c == '\'' && l.isCharacterLiteral():
			text := l.src[l.offset : l.offset+3]
			l.advance(3)
			tokens = append(tokens, token{Kind: tokCharacter, Text: text, Pos: l.pos(start, l.position())})
		default:
			text := l.takePunct()
			tokens = append(tokens, token{Kind: tokPunct, Text: text, Lower: text, Pos: l.pos(start, l.position())})
		}
	}
}

func (l *lexer) skipBlanks() {
	for l.offset < len(l.src) {
		c := l.src[l.offset]
		if c == '-' && l.offset+1 < len(l.src) && l.src[l.offset+1] == '-' {
			for l.offset < len(l.src) && l.src[l.offset] != '\n' {
				l.advance(1)
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			l.advance(1)
			continue
		}
		return
	}
}

func (l *lexer) takeWhile(pred func(byte) bool) string {
	start := l.offset
	for l.offset < len(l.src) && pred(l.src[l.offset]) {
		l.advance(1)
	}
	return l.src[start:l.offset]
}

func (l *lexer) takeString() string {
	start := l.offset
	l.advance(1)
	for l.offset < len(l.src) {
		if l.src[l.offset] == '"' {
			l.advance(1)
			// doubled quote escapes a quote
			if l.offset < len(l.src) && l.src[l.offset] == '"' {
				l.advance(1)
				continue
			}
			break
		}
		l.advance(1)
	}
	return l.src[start:l.offset]
}

func (l *lexer) takePunct() string {
	rest := l.src[l.offset:]
	for _, p := range punct2 {
		if strings.HasPrefix(rest, p) {
			l.advance(len(p))
			return p
		}
	}
	p := l.src[l.offset : l.offset+1]
	l.advance(1)
	return p
}

// isCharacterLiteral distinguishes 'x' from the attribute tick in foo'event.
func (l *lexer) isCharacterLiteral() bool {
	return l.offset+2 < len(l.src) && l.src[l.offset+2] == '\''
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.offset < len(l.src); i++ {
		if l.src[l.offset] == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		l.offset++
	}
}

func (l *lexer) position() ast.Position {
	return ast.Position{Line: l.line, Column: l.column}
}

func (l *lexer) pos(start, end ast.Position) ast.SrcPos {
	return ast.SrcPos{Source: l.source, Range: ast.Range{Start: start, End: end}}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isNumberPart(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		c == '_' || c == '.' || c == '#' || c == 'x' || c == 'X'
}
