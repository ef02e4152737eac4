package lexer

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-mf6io/internal/token"
)

// Lexer holds the state for tokenizing MF6 input source.
//
// The input language is line oriented: comments introduced by "//", "#"
// or "!" run to the end of the line, commas separate words like spaces
// do, and every line break is reported as a NEWLINE token.
type Lexer struct {
	r      *bufio.Reader
	buf    bytes.Buffer
	ch     rune
	line   int
	column int
}

// New creates and returns a new Lexer.
func New(r io.Reader) *Lexer {
	l := &Lexer{
		r:      bufio.NewReader(r),
		line:   1,
		column: 1,
	}
	l.readRune()
	return l
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	if l.atComment() {
		l.skipComment()
	}
	tok := token.Token{Line: l.line, Column: l.column}
	switch l.ch {
	case -1: // Corresponds to io.EOF
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	case '\n':
		tok.Type = token.NEWLINE
		tok.Literal = "\n"
		l.advance()
		return tok
	}
	if l.ch == utf8.RuneError {
		tok.Type = token.ILLEGAL
		tok.Literal = "invalid utf-8"
		l.advance()
		return tok
	}
	tok.Literal = l.readWord()
	tok.Type = Classify(tok.Literal)
	return tok
}

// Classify returns the token type of a bare word: a number, a keyword
// of the input language, or a plain word.
func Classify(word string) token.Type {
	if typ, ok := ParseAsNumber(word); ok {
		return typ
	}
	return token.LookupWord(word)
}

func (l *Lexer) readRune() {
	r, _, err := l.r.ReadRune()
	if err != nil {
		l.ch = -1
		return
	}
	l.ch = r
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.readRune()
	l.column++
}

func (l *Lexer) skipWhitespace() {
	for isSeparator(l.ch) {
		l.advance()
	}
}

func (l *Lexer) atComment() bool {
	return l.ch == '#' || l.ch == '!' || (l.ch == '/' && l.peekRune() == '/')
}

// skipComment consumes everything up to, but not including, the line break.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != -1 {
		l.advance()
	}
}

func (l *Lexer) readWord() string {
	l.buf.Reset()
	for l.ch != -1 && l.ch != '\n' && !isSeparator(l.ch) && !l.atComment() {
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	return l.buf.String()
}

func (l *Lexer) peekRune() rune {
	// Prioritize the returned slice, as Peek can return both bytes and an error
	bytes, _ := l.r.Peek(utf8.UTFMax)
	if len(bytes) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(bytes)
	return r
}

func isSeparator(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == ','
}

// ParseAsNumber reports whether s is an integer or floating point literal
// of the input language. Fortran double precision exponents ("1.0D-3")
// are accepted.
func ParseAsNumber(s string) (token.Type, bool) {
	if s == "" {
		return token.ILLEGAL, false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return token.INT, true
	}
	if _, err := ParseFloat(s); err == nil {
		return token.FLOAT, true
	}
	return token.ILLEGAL, false
}

// ParseFloat parses a floating point literal of the input language.
// Words such as "inf" or "nan" and hexadecimal forms are not numbers.
func ParseFloat(s string) (float64, error) {
	if s == "" || !isNumberStart(s[0]) || strings.ContainsAny(s, "xX_") {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}
	s = strings.Map(func(r rune) rune {
		if r == 'd' || r == 'D' {
			return 'e'
		}
		return r
	}, s)
	return strconv.ParseFloat(s, 64)
}

func isNumberStart(c byte) bool {
	return ('0' <= c && c <= '9') || c == '-' || c == '+' || c == '.'
}
