package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-mf6io/errors"
	"github.com/KimNorgaard/go-mf6io/internal/ast"
	"github.com/KimNorgaard/go-mf6io/internal/lexer"
	"github.com/KimNorgaard/go-mf6io/internal/token"
)

// Grammar lists the blocks that take part in structured parsing and, per
// block, which parameter names introduce arrays and filename lines.
// Everything else in a recognized block is kept as a plain line.
type Grammar struct {
	Blocks map[string]*BlockGrammar
}

// BlockGrammar holds the structured parameter names of one block.
type BlockGrammar struct {
	Arrays    map[string]bool
	Filenames map[string]bool
}

// NewGrammar returns an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{Blocks: make(map[string]*BlockGrammar)}
}

// Block returns the grammar of the named block, adding it when missing.
func (g *Grammar) Block(name string) *BlockGrammar {
	name = strings.ToLower(name)
	if bg, ok := g.Blocks[name]; ok {
		return bg
	}
	bg := &BlockGrammar{Arrays: make(map[string]bool), Filenames: make(map[string]bool)}
	g.Blocks[name] = bg
	return bg
}

// AddArray marks name as an array parameter of the block.
func (bg *BlockGrammar) AddArray(name string) { bg.Arrays[strings.ToLower(name)] = true }

// AddFilename marks name as a filename parameter of the block.
func (bg *BlockGrammar) AddFilename(name string) { bg.Filenames[strings.ToLower(name)] = true }

// Parser holds the state of the input file parser. It works one line at
// a time with a single line of lookahead.
type Parser struct {
	l       *lexer.Lexer
	grammar *Grammar
	errors  errors.ParseErrors

	cur  []token.Token
	peek []token.Token
	eof  token.Token
}

// New creates a new parser. A nil grammar keeps every block and parses
// each of its lines as a plain line.
func New(l *lexer.Lexer, g *Grammar) *Parser {
	p := &Parser{
		l:       l,
		grammar: g,
	}

	// Read two lines, so cur and peek are both set.
	p.nextLine()
	p.nextLine()

	return p
}

// Errors returns the syntax errors encountered during parsing.
func (p *Parser) Errors() errors.ParseErrors {
	return p.errors
}

// Parse parses the input file and returns the root AST node.
func (p *Parser) Parse() *ast.File {
	file := &ast.File{}
	for p.cur != nil {
		if p.cur[0].Type != token.BEGIN {
			p.errorf(p.cur[0], "unexpected %q outside of a block", p.cur[0].Literal)
			p.nextLine()
			continue
		}
		if b := p.parseBlock(); b != nil {
			file.Blocks = append(file.Blocks, b)
		}
	}
	return file
}

func (p *Parser) nextLine() {
	p.cur = p.peek
	p.peek = p.readLine()
}

// readLine returns the tokens of the next non-empty line, or nil at EOF.
func (p *Parser) readLine() []token.Token {
	var line []token.Token
	for {
		tok := p.l.NextToken()
		switch tok.Type {
		case token.EOF:
			p.eof = tok
			return line
		case token.NEWLINE:
			if len(line) > 0 {
				return line
			}
		case token.ILLEGAL:
			p.errorf(tok, "illegal token: %s", tok.Literal)
		default:
			line = append(line, tok)
		}
	}
}

func (p *Parser) parseBlock() *ast.Block {
	header := p.cur
	begin := header[0]
	if len(header) < 2 {
		p.errorf(begin, "missing block name after BEGIN")
		p.nextLine()
		p.skipToEnd()
		return nil
	}

	block := &ast.Block{Token: begin, Name: strings.ToLower(header[1].Literal)}
	if len(header) > 2 {
		idx := header[2]
		n, err := strconv.Atoi(idx.Literal)
		if idx.Type != token.INT || err != nil || n <= 0 {
			p.errorf(idx, "invalid index %q for block %q: expected a positive integer", idx.Literal, block.Name)
		} else {
			block.Index = n
			block.HasIndex = true
		}
		if len(header) > 3 {
			p.errorf(header[3], "unexpected %q after block header", header[3].Literal)
		}
	}

	var bg *BlockGrammar
	if p.grammar != nil {
		var ok bool
		if bg, ok = p.grammar.Blocks[block.Name]; !ok {
			block.Skipped = true
		}
	}

	p.nextLine()
	for {
		if p.cur == nil {
			p.errorf(p.eof, "unexpected end of input: block %q opened at line %d is not closed", block.Name, begin.Line)
			return nil
		}
		first := p.cur[0]
		switch first.Type {
		case token.END:
			p.parseEnd(block)
			return block
		case token.BEGIN:
			p.errorf(first, "BEGIN inside block %q opened at line %d", block.Name, begin.Line)
			return nil
		}
		if block.Skipped {
			p.nextLine()
			continue
		}
		if stmt := p.parseStatement(bg); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
}

func (p *Parser) parseEnd(block *ast.Block) {
	end := p.cur
	switch {
	case len(end) < 2:
		p.errorf(end[0], "missing block name after END, expected END %s", strings.ToUpper(block.Name))
	case !strings.EqualFold(end[1].Literal, block.Name):
		p.errorf(end[1], "END %s does not match BEGIN %s", end[1].Literal, strings.ToUpper(block.Name))
	case len(end) > 2:
		p.errorf(end[2], "unexpected %q after END %s", end[2].Literal, end[1].Literal)
	}
	p.nextLine()
}

// skipToEnd discards lines up to and including the next END line.
func (p *Parser) skipToEnd() {
	for p.cur != nil && p.cur[0].Type != token.BEGIN {
		isEnd := p.cur[0].Type == token.END
		p.nextLine()
		if isEnd {
			return
		}
	}
}

func (p *Parser) parseStatement(bg *BlockGrammar) ast.Statement {
	if bg != nil {
		name := strings.ToLower(p.cur[0].Literal)
		switch {
		case bg.Arrays[name]:
			return p.parseArray()
		case bg.Filenames[name]:
			return p.parseFilename()
		}
	}
	stmt := &ast.LineStatement{Words: p.cur}
	p.nextLine()
	return stmt
}

func (p *Parser) parseFilename() ast.Statement {
	line := p.cur
	p.nextLine()
	if len(line) != 3 {
		p.errorf(line[0], "%s: expected NAME FILEIN|FILEOUT PATH, got %d words", line[0].Literal, len(line))
		return nil
	}
	if line[1].Type != token.FILEIN && line[1].Type != token.FILEOUT {
		p.errorf(line[1], "%s: expected FILEIN or FILEOUT, got %q", line[0].Literal, line[1].Literal)
		return nil
	}
	return &ast.FilenameStatement{
		Token: line[0],
		Name:  strings.ToLower(line[0].Literal),
		Mode:  line[1],
		Path:  line[2],
	}
}

func (p *Parser) parseArray() ast.Statement {
	line := p.cur
	stmt := &ast.ArrayStatement{Token: line[0], Name: strings.ToLower(line[0].Literal)}
	rest := line[1:]
	if len(rest) > 0 && rest[0].Type == token.LAYERED {
		stmt.Layered = true
		rest = rest[1:]
	}
	p.nextLine()

	if len(rest) > 0 {
		// The first control record shares the line with the name.
		if !isControl(rest[0]) {
			p.errorf(rest[0], "array %s: unexpected %q after array name", stmt.Name, rest[0].Literal)
			return nil
		}
		c := p.parseControl(stmt.Name, rest)
		if c == nil {
			return nil
		}
		stmt.Controls = append(stmt.Controls, c)
		if !stmt.Layered {
			return stmt
		}
	}

	for p.cur != nil && isControl(p.cur[0]) {
		words := p.cur
		p.nextLine()
		c := p.parseControl(stmt.Name, words)
		if c == nil {
			return nil
		}
		stmt.Controls = append(stmt.Controls, c)
		if !stmt.Layered {
			break
		}
	}

	if len(stmt.Controls) == 0 {
		tok := stmt.Token
		if p.cur != nil {
			tok = p.cur[0]
		}
		p.errorf(tok, "array %s: expected CONSTANT, INTERNAL or OPEN/CLOSE", stmt.Name)
		return nil
	}
	return stmt
}

// parseControl parses one control record. For INTERNAL records the data
// lines following it are consumed while every token on them is numeric.
func (p *Parser) parseControl(name string, words []token.Token) *ast.ArrayControl {
	c := &ast.ArrayControl{Token: words[0], How: words[0].Type}
	rest := words[1:]

	switch c.How {
	case token.CONSTANT:
		if len(rest) == 0 || !rest[0].IsNumber() {
			p.errorf(words[0], "array %s: CONSTANT requires a numeric value", name)
			return nil
		}
		c.Value = rest[0]
		rest = rest[1:]
	case token.OPENCLOSE:
		if len(rest) == 0 {
			p.errorf(words[0], "array %s: OPEN/CLOSE requires a file path", name)
			return nil
		}
		c.Path = rest[0]
		rest = rest[1:]
	}

	for len(rest) > 0 {
		tok := rest[0]
		switch {
		case tok.Type == token.FACTOR:
			if len(rest) < 2 || !rest[1].IsNumber() {
				p.errorf(tok, "array %s: FACTOR requires a numeric value", name)
				return nil
			}
			c.Factor = &rest[1]
			rest = rest[2:]
		case tok.Type == token.IPRN:
			if len(rest) < 2 || rest[1].Type != token.INT {
				p.errorf(tok, "array %s: IPRN requires an integer value", name)
				return nil
			}
			c.Iprn = &rest[1]
			rest = rest[2:]
		case c.How == token.INTERNAL && allNumbers(rest):
			c.Data = append(c.Data, rest...)
			rest = nil
		default:
			p.errorf(tok, "array %s: unexpected %q in %s record", name, tok.Literal, c.How)
			return nil
		}
	}

	if c.How == token.INTERNAL {
		for p.cur != nil && allNumbers(p.cur) {
			c.Data = append(c.Data, p.cur...)
			p.nextLine()
		}
	}
	return c
}

func isControl(tok token.Token) bool {
	switch tok.Type {
	case token.CONSTANT, token.INTERNAL, token.OPENCLOSE:
		return true
	}
	return false
}

func allNumbers(toks []token.Token) bool {
	for _, t := range toks {
		if !t.IsNumber() {
			return false
		}
	}
	return len(toks) > 0
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, errors.ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
		Text:    tok.Literal,
	})
}
