package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-mf6io/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal value of the token associated with the node.
	TokenLiteral() string
	// String returns a string representation of the node.
	String() string
}

// Statement is a node that represents one logical statement inside a block.
type Statement interface {
	Node
	statementNode()
	// Line returns the source line the statement starts on.
	Line() int
}

// File is the root node of an MF6 input file.
type File struct {
	Blocks []*Block
}

// TokenLiteral returns the literal value of the token associated with the node.
func (f *File) TokenLiteral() string {
	if len(f.Blocks) > 0 {
		return f.Blocks[0].TokenLiteral()
	}
	return ""
}

// String returns a string representation of the node.
func (f *File) String() string {
	var out bytes.Buffer
	for _, b := range f.Blocks {
		out.WriteString(b.String())
	}
	return out.String()
}

// Block is a BEGIN/END delimited block.
type Block struct {
	Token      token.Token // the BEGIN token
	Name       string      // lower-cased block name
	Index      int
	HasIndex   bool
	Statements []Statement
	// Skipped is set when the block is not part of the grammar and its
	// lines were discarded.
	Skipped bool
}

func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string {
	var out bytes.Buffer
	name := strings.ToUpper(b.Name)
	out.WriteString("BEGIN " + name)
	if b.HasIndex {
		out.WriteString(" " + strconv.Itoa(b.Index))
	}
	out.WriteString("\n")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	out.WriteString("END " + name + "\n")
	return out.String()
}

// LineStatement is a line of words; its meaning is decided by the decoder.
type LineStatement struct {
	Words []token.Token
}

func (ls *LineStatement) statementNode() {}
func (ls *LineStatement) TokenLiteral() string {
	if len(ls.Words) == 0 {
		return ""
	}
	return ls.Words[0].Literal
}
func (ls *LineStatement) Line() int {
	if len(ls.Words) == 0 {
		return 0
	}
	return ls.Words[0].Line
}
func (ls *LineStatement) String() string {
	return joinLiterals(ls.Words)
}

// FilenameStatement represents `NAME FILEIN|FILEOUT PATH`.
type FilenameStatement struct {
	Token token.Token // the name token
	Name  string
	Mode  token.Token // FILEIN or FILEOUT
	Path  token.Token
}

func (fs *FilenameStatement) statementNode()       {}
func (fs *FilenameStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *FilenameStatement) Line() int            { return fs.Token.Line }
func (fs *FilenameStatement) String() string {
	return fs.Token.Literal + " " + fs.Mode.Literal + " " + fs.Path.Literal
}

// ArrayStatement represents an array parameter and its control records.
// A layered array carries one control per layer.
type ArrayStatement struct {
	Token    token.Token // the name token
	Name     string
	Layered  bool
	Controls []*ArrayControl
}

func (as *ArrayStatement) statementNode()       {}
func (as *ArrayStatement) TokenLiteral() string { return as.Token.Literal }
func (as *ArrayStatement) Line() int            { return as.Token.Line }
func (as *ArrayStatement) String() string {
	var out bytes.Buffer
	out.WriteString(as.Token.Literal)
	if as.Layered {
		out.WriteString(" LAYERED")
	}
	for _, c := range as.Controls {
		out.WriteString("\n")
		out.WriteString(c.String())
	}
	return out.String()
}

// ArrayControl is one CONSTANT, INTERNAL or OPEN/CLOSE record.
type ArrayControl struct {
	Token  token.Token // the control keyword
	How    token.Type  // token.CONSTANT, token.INTERNAL or token.OPENCLOSE
	Value  token.Token // constant value
	Path   token.Token // external file
	Factor *token.Token
	Iprn   *token.Token
	Data   []token.Token // internal values in file order
}

func (ac *ArrayControl) TokenLiteral() string { return ac.Token.Literal }
func (ac *ArrayControl) Line() int            { return ac.Token.Line }
func (ac *ArrayControl) String() string {
	var out bytes.Buffer
	out.WriteString(string(ac.How))
	switch ac.How {
	case token.CONSTANT:
		out.WriteString(" " + ac.Value.Literal)
	case token.OPENCLOSE:
		out.WriteString(" " + ac.Path.Literal)
	}
	if ac.Factor != nil {
		out.WriteString(" FACTOR " + ac.Factor.Literal)
	}
	if ac.Iprn != nil {
		out.WriteString(" IPRN " + ac.Iprn.Literal)
	}
	if len(ac.Data) > 0 {
		out.WriteString("\n")
		out.WriteString(joinLiterals(ac.Data))
	}
	return out.String()
}

func joinLiterals(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Literal
	}
	return strings.Join(parts, " ")
}
