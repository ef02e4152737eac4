package lexer

import (
	"bufio"
	"io"
	"strings"

	"github.com/KimNorgaard/go-mf6io/internal/token"
)

// DFNLexer tokenizes DFN specification text. Each attribute line yields a
// WORD token for its key, a TEXT token with the remainder of the line
// (when not empty) and a NEWLINE. Runs of empty lines collapse into a
// single BLANK token. Lines starting with '#' are skipped entirely.
type DFNLexer struct {
	r       *bufio.Reader
	line    int
	pending []token.Token
	blank   bool
	done    bool
}

// NewDFN creates a lexer for DFN specification text.
func NewDFN(r io.Reader) *DFNLexer {
	return &DFNLexer{r: bufio.NewReader(r)}
}

// NextToken returns the next token of the DFN text.
func (l *DFNLexer) NextToken() token.Token {
	for len(l.pending) == 0 {
		if l.done {
			return token.Token{Type: token.EOF, Line: l.line + 1, Column: 1}
		}
		l.scanLine()
	}
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok
}

func (l *DFNLexer) scanLine() {
	raw, err := l.r.ReadString('\n')
	if err != nil {
		l.done = true
		if raw == "" {
			return
		}
	}
	l.line++
	text := strings.TrimRight(raw, "\r\n")
	trimmed := strings.TrimLeft(text, " \t")
	switch {
	case strings.TrimSpace(trimmed) == "":
		if !l.blank {
			l.blank = true
			l.pending = append(l.pending, token.Token{Type: token.BLANK, Literal: "", Line: l.line, Column: 1})
		}
		return
	case strings.HasPrefix(trimmed, "#"):
		return
	}
	l.blank = false

	col := len(text) - len(trimmed) + 1
	key, rest := trimmed, ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		key, rest = trimmed[:i], trimmed[i+1:]
	}
	l.pending = append(l.pending, token.Token{Type: token.WORD, Literal: key, Line: l.line, Column: col})
	if value := strings.TrimSpace(rest); value != "" {
		valueCol := col + len(key) + strings.Index(rest, value) + 1
		l.pending = append(l.pending, token.Token{Type: token.TEXT, Literal: value, Line: l.line, Column: valueCol})
	}
	l.pending = append(l.pending, token.Token{Type: token.NEWLINE, Literal: "\n", Line: l.line, Column: len(text) + 1})
}
