package parser

import (
	"fmt"
	"strings"

	"github.com/KimNorgaard/go-mf6io/errors"
	"github.com/KimNorgaard/go-mf6io/internal/ast"
	"github.com/KimNorgaard/go-mf6io/internal/lexer"
	"github.com/KimNorgaard/go-mf6io/internal/token"
)

// attributes is the closed set of attribute keys a DFN parameter may carry
// after its block and name head.
var attributes = map[string]bool{
	"type":                   true,
	"reader":                 true,
	"optional":               true,
	"shape":                  true,
	"tagged":                 true,
	"in_record":              true,
	"layered":                true,
	"repeating":              true,
	"longname":               true,
	"description":            true,
	"default_value":          true,
	"deprecated":             true,
	"numeric_index":          true,
	"preserve_case":          true,
	"valid":                  true,
	"mf6internal":            true,
	"other_names":            true,
	"time_series":            true,
	"support_negative_index": true,
	"jagged_array":           true,
	"just_data":              true,
	"block_variable":         true,
	"removed":                true,
}

// IsAttribute reports whether key is a recognized DFN attribute key.
func IsAttribute(key string) bool {
	return attributes[strings.ToLower(key)]
}

// DFNParser parses DFN specification text into an *ast.Spec.
type DFNParser struct {
	l      *lexer.DFNLexer
	errors errors.ParseErrors

	curToken  token.Token
	peekToken token.Token

	param *ast.Param
	// named is false between a `block` line and its `name` line.
	named bool
}

// NewDFN creates a new DFN parser.
func NewDFN(l *lexer.DFNLexer) *DFNParser {
	p := &DFNParser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the syntax errors encountered during parsing.
func (p *DFNParser) Errors() errors.ParseErrors {
	return p.errors
}

// Parse parses the DFN text and returns the root AST node.
func (p *DFNParser) Parse() *ast.Spec {
	spec := &ast.Spec{}
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.BLANK:
			p.closeParam()
			p.nextToken()
		case token.WORD:
			if param := p.parseLine(); param != nil {
				spec.Params = append(spec.Params, param)
			}
		default:
			p.nextToken()
		}
	}
	p.closeParam()
	return spec
}

// parseLine handles one `<key> [value]` line. It returns a parameter
// when the line completes a head.
func (p *DFNParser) parseLine() *ast.Param {
	key := p.curToken
	p.nextToken()
	var value token.Token
	if p.curTokenIs(token.TEXT) {
		value = p.curToken
		p.nextToken()
	} else {
		value = token.Token{Type: token.TEXT, Line: key.Line, Column: key.Column + len(key.Literal) + 1}
	}
	if p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}

	switch strings.ToLower(key.Literal) {
	case "block":
		if p.param != nil {
			if !p.named {
				p.errorf(key, "missing name after block %q", p.param.Block.Literal)
			} else {
				p.errorf(key, "block declared inside parameter %q; parameters are separated by a blank line", p.param.Name.Literal)
			}
		}
		if value.Literal == "" {
			p.errorf(key, "missing block name")
		}
		p.param = &ast.Param{Block: value}
		p.named = false
		return nil
	case "name":
		switch {
		case p.param == nil:
			p.errorf(key, "name declared before block")
			return nil
		case p.named:
			p.errorf(key, "parameter %q already has a name", p.param.Name.Literal)
			return nil
		case value.Literal == "":
			p.errorf(key, "missing parameter name")
			return nil
		}
		p.param.Name = value
		p.named = true
		return p.param
	}

	switch {
	case p.param == nil:
		p.errorf(key, "attribute %q before parameter head (block, name)", key.Literal)
	case !p.named:
		p.errorf(key, "missing name after block %q", p.param.Block.Literal)
	case !IsAttribute(key.Literal):
		p.errorf(key, "unknown attribute %q in parameter %q", key.Literal, p.param.Name.Literal)
	default:
		p.param.Attrs = append(p.param.Attrs, &ast.Attribute{Key: key, Value: value})
	}
	return nil
}

func (p *DFNParser) closeParam() {
	if p.param != nil && !p.named {
		p.errorf(p.param.Block, "missing name after block %q", p.param.Block.Literal)
	}
	p.param = nil
	p.named = false
}

func (p *DFNParser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *DFNParser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *DFNParser) errorf(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, errors.ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
		Text:    tok.Literal,
	})
}
