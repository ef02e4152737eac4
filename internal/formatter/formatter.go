// Package formatter writes an MF6 input AST as text.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/KimNorgaard/go-mf6io/internal/ast"
	"github.com/KimNorgaard/go-mf6io/internal/token"
)

const (
	defaultIndent    = 2
	defaultSeparator = " "
)

// Formatter writes an MF6 input AST to an output stream.
type Formatter struct {
	w      io.Writer
	indent string
	sep    string
	depth  int
}

// New returns a new formatter that writes to w. A nil indentSpaces uses
// the default of two spaces; an empty sep uses a single space.
func New(w io.Writer, indentSpaces *int, sep string) *Formatter {
	spaces := defaultIndent
	if indentSpaces != nil {
		spaces = *indentSpaces
	}
	var indentStr string
	if spaces > 0 {
		indentStr = strings.Repeat(" ", spaces)
	}
	if sep == "" {
		sep = defaultSeparator
	}
	return &Formatter{w: w, indent: indentStr, sep: sep}
}

// Format writes the text form of node to the writer.
func (f *Formatter) Format(node ast.Node) error {
	return f.writeNode(node)
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) writeIndent() error {
	if f.indent == "" {
		return nil
	}
	for i := 0; i < f.depth; i++ {
		if err := f.write(f.indent); err != nil {
			return err
		}
	}
	return nil
}

// writeLine writes one indented line of words.
func (f *Formatter) writeLine(words ...string) error {
	return f.writeJoined(f.sep, words)
}

// writeHeader writes a BEGIN or END line. Its words are always separated
// by a single space.
func (f *Formatter) writeHeader(words ...string) error {
	return f.writeJoined(" ", words)
}

func (f *Formatter) writeJoined(sep string, words []string) error {
	if err := f.writeIndent(); err != nil {
		return err
	}
	if err := f.write(strings.Join(words, sep)); err != nil {
		return err
	}
	return f.write("\n")
}

func (f *Formatter) writeNode(node ast.Node) error {
	switch n := node.(type) {
	case *ast.File:
		for i, b := range n.Blocks {
			if i > 0 {
				if err := f.write("\n"); err != nil {
					return err
				}
			}
			if err := f.writeNode(b); err != nil {
				return err
			}
		}
		return nil

	case *ast.Block:
		name := strings.ToUpper(n.Name)
		head := []string{"BEGIN", name}
		if n.HasIndex {
			head = append(head, fmt.Sprint(n.Index))
		}
		if err := f.writeHeader(head...); err != nil {
			return err
		}
		f.depth++
		for _, s := range n.Statements {
			if err := f.writeNode(s); err != nil {
				return err
			}
		}
		f.depth--
		return f.writeHeader("END", name)

	case *ast.LineStatement:
		return f.writeLine(literals(n.Words)...)

	case *ast.FilenameStatement:
		return f.writeLine(n.Token.Literal, strings.ToUpper(n.Mode.Literal), n.Path.Literal)

	case *ast.ArrayStatement:
		head := []string{n.Token.Literal}
		if n.Layered {
			head = append(head, "LAYERED")
		}
		if err := f.writeLine(head...); err != nil {
			return err
		}
		f.depth++
		defer func() { f.depth-- }()
		for _, c := range n.Controls {
			if err := f.writeControl(c); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("formatter: unsupported node type %T", node)
}

func (f *Formatter) writeControl(c *ast.ArrayControl) error {
	words := []string{string(c.How)}
	switch c.How {
	case token.CONSTANT:
		words = append(words, c.Value.Literal)
	case token.OPENCLOSE:
		words = append(words, c.Path.Literal)
	}
	if c.Factor != nil {
		words = append(words, "FACTOR", c.Factor.Literal)
	}
	if c.Iprn != nil {
		words = append(words, "IPRN", c.Iprn.Literal)
	}
	if err := f.writeLine(words...); err != nil {
		return err
	}
	if len(c.Data) == 0 {
		return nil
	}

	// Data tokens keep the line structure they carry: a new output line
	// starts whenever the source line changes, and skipped source lines
	// become a single blank line.
	f.depth++
	defer func() { f.depth-- }()
	start := 0
	for i := 1; i <= len(c.Data); i++ {
		if i < len(c.Data) && c.Data[i].Line == c.Data[start].Line {
			continue
		}
		if err := f.writeLine(literals(c.Data[start:i])...); err != nil {
			return err
		}
		if i < len(c.Data) && c.Data[i].Line > c.Data[i-1].Line+1 {
			if err := f.write("\n"); err != nil {
				return err
			}
		}
		start = i
	}
	return nil
}

func literals(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Literal
	}
	return out
}
