package ast

import (
	"bytes"

	"github.com/KimNorgaard/go-mf6io/internal/token"
)

// Spec is the root node of a DFN specification file.
type Spec struct {
	Params []*Param
}

// TokenLiteral returns the literal value of the token associated with the node.
func (s *Spec) TokenLiteral() string {
	if len(s.Params) > 0 {
		return s.Params[0].TokenLiteral()
	}
	return ""
}

// String returns a string representation of the node.
func (s *Spec) String() string {
	var out bytes.Buffer
	for i, p := range s.Params {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(p.String())
	}
	return out.String()
}

// Param is one parameter record: its block and name head followed by
// attribute lines.
type Param struct {
	Block token.Token // the block name
	Name  token.Token // the parameter name
	Attrs []*Attribute
}

func (p *Param) TokenLiteral() string { return p.Name.Literal }
func (p *Param) String() string {
	var out bytes.Buffer
	out.WriteString("block " + p.Block.Literal + "\n")
	out.WriteString("name " + p.Name.Literal + "\n")
	for _, a := range p.Attrs {
		out.WriteString(a.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Attribute is a single `<key> <value>` line.
type Attribute struct {
	Key   token.Token
	Value token.Token // TEXT; empty literal when the line has no value
}

func (a *Attribute) TokenLiteral() string { return a.Key.Literal }
func (a *Attribute) String() string {
	if a.Value.Literal == "" {
		return a.Key.Literal
	}
	return a.Key.Literal + " " + a.Value.Literal
}
