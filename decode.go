package mf6io

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-mf6io/internal/ast"
	"github.com/KimNorgaard/go-mf6io/internal/lexer"
	"github.com/KimNorgaard/go-mf6io/internal/parser"
	"github.com/KimNorgaard/go-mf6io/internal/token"
	"github.com/KimNorgaard/go-mf6io/spec"
)

// Unmarshal decodes an MF6 input file of the component comp. A nil comp
// decodes the file without a specification: every block is kept with
// its lines in order (Block.Lines), and Get finds the value of the last
// line starting with a name.
func Unmarshal(data []byte, comp *spec.Component, opts ...Option) (*Document, error) {
	return NewDecoder(bytes.NewReader(data), comp, opts...).Decode()
}

// ReadFile decodes the input file at path. Relative OPEN/CLOSE paths are
// resolved against the directory of the file unless BaseDir says
// otherwise.
func ReadFile(path string, comp *spec.Component, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mf6io: %w", err)
	}
	defer f.Close()
	opts = append([]Option{BaseDir(filepath.Dir(path))}, opts...)
	return NewDecoder(f, comp, opts...).Decode()
}

// A Decoder reads and decodes MF6 input from an input stream.
type Decoder struct {
	r    io.Reader
	comp *spec.Component
	opts []Option
	dims Dimensions
}

// NewDecoder returns a new decoder that reads input of the component
// comp from r.
func NewDecoder(r io.Reader, comp *spec.Component, opts ...Option) *Decoder {
	return &Decoder{r: r, comp: comp, opts: opts}
}

// Decode reads the whole input and returns the decoded document. Syntax
// errors are returned together as ParseErrors; any other error stops the
// decoding and no document is returned.
func (d *Decoder) Decode() (*Document, error) {
	o, err := newOptions(d.opts)
	if err != nil {
		return nil, err
	}

	p := parser.New(lexer.New(d.r), grammarFor(d.comp))
	file := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs
	}

	ds := &decodeState{comp: d.comp, opts: o, dims: o.dims, log: o.logger}
	doc, err := ds.decodeFile(file)
	if err != nil {
		return nil, err
	}
	d.dims = ds.dims
	return doc, nil
}

// Dimensions returns the scope left by the last successful Decode: the
// dimensions passed with WithDimensions plus every extent the input
// declared. It can seed the decoding of a dependent file.
func (d *Decoder) Dimensions() Dimensions { return d.dims }

// grammarFor tells the parser which names in each block are arrays or
// filenames. A nil component yields a nil grammar.
func grammarFor(comp *spec.Component) *parser.Grammar {
	if comp == nil {
		return nil
	}
	g := parser.NewGrammar()
	for _, b := range comp.Blocks {
		bg := g.Block(b.Name)
		for _, p := range b.Params {
			switch p.Kind {
			case spec.Array:
				bg.AddArray(p.Name)
			case spec.Filename:
				bg.AddFilename(p.Name)
			}
		}
	}
	return g
}

type decodeState struct {
	comp *spec.Component
	opts *options
	dims Dimensions
	log  *slog.Logger
}

func (s *decodeState) decodeFile(file *ast.File) (*Document, error) {
	var name string
	if s.comp != nil {
		name = s.comp.Name
	}
	doc := NewDocument(name)

	for _, ab := range file.Blocks {
		if ab.Skipped {
			if s.opts.disallowUnknown {
				return nil, &UnknownParameterError{Block: ab.Name, Line: ab.Token.Line}
			}
			s.log.Debug("skipping unknown block", "block", ab.Name, "line", ab.Token.Line)
			continue
		}
		if s.comp == nil {
			s.decodeLooseBlock(doc, ab)
			continue
		}

		bs := s.comp.Block(ab.Name)
		if err := checkIndex(doc, bs, ab); err != nil {
			return nil, err
		}
		b := doc.AddBlock(ab.Name, ab.Index)
		if err := s.decodeBlock(bs, ab, b); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func checkIndex(doc *Document, bs *spec.Block, ab *ast.Block) error {
	switch {
	case bs.Indexed && !ab.HasIndex:
		return parseErrorf(ab.Token, "block %q requires an index", ab.Name)
	case !bs.Indexed && ab.HasIndex:
		return parseErrorf(ab.Token, "block %q does not take an index", ab.Name)
	case doc.BlockAt(ab.Name, ab.Index) != nil:
		if ab.HasIndex {
			return parseErrorf(ab.Token, "duplicate block %q %d", ab.Name, ab.Index)
		}
		return parseErrorf(ab.Token, "duplicate block %q", ab.Name)
	}
	return nil
}

func (s *decodeState) decodeBlock(bs *spec.Block, ab *ast.Block, b *Block) error {
	for _, stmt := range ab.Statements {
		var err error
		switch st := stmt.(type) {
		case *ast.ArrayStatement:
			err = s.decodeArray(bs, b, st)
		case *ast.FilenameStatement:
			err = s.decodeFilename(bs, b, st)
		case *ast.LineStatement:
			err = s.decodeLine(bs, b, st.Words)
		}
		if err != nil {
			return err
		}
	}
	s.fillDefaults(bs, b)
	return nil
}

// decodeLine dispatches one line: a parameter named by the first word,
// a record led by it, a keystring alternative, a table row, or else an
// unknown line.
func (s *decodeState) decodeLine(bs *spec.Block, b *Block, words []token.Token) error {
	first := words[0]
	if p := bs.Param(first.Literal); p != nil && !p.IsComposite() {
		return s.decodeParamLine(b, p, words)
	}
	if p := matchRecord(bs, words); p != nil {
		rec, n, err := s.decodeRecord(p, words, words[len(words)-1])
		if err != nil {
			return err
		}
		if n < len(words) {
			return parseErrorf(words[n], "record %s: unexpected %q", p.Name, words[n].Literal)
		}
		return s.store(bs, b, p, first, rec)
	}
	if p := matchKeystring(bs, first.Literal); p != nil {
		n, v, _, err := s.decodeKeystring(p, words, true, words[len(words)-1])
		if err != nil {
			return err
		}
		if n < len(words) {
			return parseErrorf(words[n], "%s: unexpected %q", p.Name, words[n].Literal)
		}
		return s.store(bs, b, p, first, v.(Record))
	}
	if p := bs.Table(); p != nil {
		return s.decodeRow(b, p, words)
	}

	if s.opts.disallowUnknown {
		return &UnknownParameterError{Block: bs.Name, Name: strings.ToLower(first.Literal), Line: first.Line}
	}
	s.log.Debug("skipping unknown line", "block", bs.Name, "name", first.Literal, "line", first.Line)
	return nil
}

func (s *decodeState) decodeParamLine(b *Block, p *spec.Param, words []token.Token) error {
	head, args := words[0], words[1:]
	var v any
	switch {
	case p.Kind == spec.Keyword:
		if len(args) > 0 {
			return parseErrorf(args[0], "keyword %s takes no value, got %q", p.Name, args[0].Literal)
		}
		v = true
	case p.IsList():
		if len(args) == 0 {
			return parseErrorf(head, "%s: expected at least one value", p.Name)
		}
		if shape, err := p.Shape.Resolve(s.dims); err == nil {
			if n := product(shape); n != len(args) {
				return &ShapeMismatchError{Name: p.Name, Want: []int{n}, Got: []int{len(args)}, Line: head.Line}
			}
		}
		var err error
		if _, v, err = s.decodeValue(p, args, true, head); err != nil {
			return err
		}
	case p.Kind == spec.Integer || p.Kind == spec.Double || p.Kind == spec.String:
		if len(args) != 1 {
			return parseErrorf(head, "%s: expected a single value, got %d", p.Name, len(args))
		}
		var err error
		if v, err = s.scalar(p, p.Kind, args[0]); err != nil {
			return err
		}
	default:
		return parseErrorf(head, "%s %s cannot be given on a single line", p.Kind, p.Name)
	}
	return s.set(b, p, head, v)
}

func (s *decodeState) decodeFilename(bs *spec.Block, b *Block, st *ast.FilenameStatement) error {
	p := bs.Param(st.Name)
	f := File{Mode: FileIn, Path: st.Path.Literal}
	if st.Mode.Type == token.FILEOUT {
		f.Mode = FileOut
	}
	return s.set(b, p, st.Token, f)
}

// set stores a non-repeating value, rejecting duplicates. Integers join
// the dimension scope.
func (s *decodeState) set(b *Block, p *spec.Param, tok token.Token, v any) error {
	if _, ok := b.Get(p.Name); ok {
		return parseErrorf(tok, "duplicate parameter %q in block %q", p.Name, b.Name)
	}
	b.Set(p.Name, v)
	if n, ok := v.(int); ok {
		s.dims = s.dims.With(p.Name, n)
	}
	return nil
}

// store saves a record or keystring value. Repeating parameters and
// parameters of indexed blocks collect their lines into a []Record.
func (s *decodeState) store(bs *spec.Block, b *Block, p *spec.Param, tok token.Token, rec Record) error {
	if !p.Repeating && !bs.Indexed {
		return s.set(b, p, tok, rec)
	}
	prev, _ := b.Get(p.Name)
	list, _ := prev.([]Record)
	b.Set(p.Name, append(list, rec))
	return nil
}

// fillDefaults sets absent keywords to false and absent scalars with a
// declared default to that default.
func (s *decodeState) fillDefaults(bs *spec.Block, b *Block) {
	for _, p := range bs.Params {
		if _, ok := b.Get(p.Name); ok {
			continue
		}
		switch {
		case p.Kind == spec.Keyword:
			b.Set(p.Name, false)
		case p.Default != nil && !p.IsList() && (p.Kind == spec.Integer || p.Kind == spec.Double || p.Kind == spec.String):
			b.Set(p.Name, p.Default)
			if n, ok := p.Default.(int); ok {
				s.dims = s.dims.With(p.Name, n)
			}
		}
	}
}

// scalar converts one token to a value of kind k.
func (s *decodeState) scalar(p *spec.Param, k spec.Kind, tok token.Token) (any, error) {
	switch k {
	case spec.Integer:
		if tok.Type != token.INT {
			return nil, parseErrorf(tok, "%s: expected an integer, got %q", p.Name, tok.Literal)
		}
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, parseErrorf(tok, "%s: integer %q out of range", p.Name, tok.Literal)
		}
		return n, nil
	case spec.Double:
		f, err := lexer.ParseFloat(tok.Literal)
		if err != nil {
			return nil, parseErrorf(tok, "%s: expected a number, got %q", p.Name, tok.Literal)
		}
		return f, nil
	}
	v := tok.Literal
	if !p.PreserveCase {
		v = strings.ToLower(v)
	}
	if !p.IsValid(v) {
		return nil, parseErrorf(tok, "invalid value %q for %s, expected one of %s", v, p.Name, strings.Join(p.Valid, ", "))
	}
	return v, nil
}

// listValues converts tokens to a []int, []float64 or []string.
func (s *decodeState) listValues(p *spec.Param, toks []token.Token) (any, error) {
	switch p.Elem {
	case spec.Integer:
		out := make([]int, len(toks))
		for i, t := range toks {
			v, err := s.scalar(p, spec.Integer, t)
			if err != nil {
				return nil, err
			}
			out[i] = v.(int)
		}
		return out, nil
	case spec.Double:
		out := make([]float64, len(toks))
		for i, t := range toks {
			v, err := s.scalar(p, spec.Double, t)
			if err != nil {
				return nil, err
			}
			out[i] = v.(float64)
		}
		return out, nil
	}
	out := make([]string, len(toks))
	for i, t := range toks {
		v, err := s.scalar(p, spec.String, t)
		if err != nil {
			return nil, err
		}
		out[i] = v.(string)
	}
	return out, nil
}

// resolve resolves the shape of p in the current scope.
func (s *decodeState) resolve(p *spec.Param, line int) ([]int, error) {
	shape, err := p.Shape.Resolve(s.dims)
	var ude *UnresolvedDimensionError
	if errors.As(err, &ude) {
		ude.Name = p.Name
		ude.Line = line
	}
	return shape, err
}

// registerLen binds the single symbolic dimension of an unresolved list
// shape to the number of values read, as in `auxiliary (naux)`.
func (s *decodeState) registerLen(p *spec.Param, n int) {
	if len(p.Shape) != 1 || !p.Shape[0].IsSymbolic() || !isIdent(p.Shape[0].Name) {
		return
	}
	if _, ok := s.dims.Lookup(p.Shape[0].Name); ok {
		return
	}
	s.dims = s.dims.With(p.Shape[0].Name, n)
}

func (s *decodeState) decodeLooseBlock(doc *Document, ab *ast.Block) {
	b := doc.AddBlock(ab.Name, ab.Index)
	for _, stmt := range ab.Statements {
		ls, ok := stmt.(*ast.LineStatement)
		if !ok {
			continue
		}
		line := Line{Head: native(ls.Words[0]), Value: looseValue(ls.Words[1:])}
		if k := line.key(); k != "" {
			if _, dup := b.Get(k); dup {
				s.log.Debug("repeated name, Get returns the last line", "block", ab.Name, "name", k, "line", ls.Line())
			}
		}
		b.AddLine(line)
	}
}

func looseValue(toks []token.Token) any {
	switch {
	case len(toks) == 0:
		return true
	case len(toks) == 1:
		return native(toks[0])
	case len(toks) == 2 && (toks[0].Type == token.FILEIN || toks[0].Type == token.FILEOUT):
		f := File{Mode: FileIn, Path: toks[1].Literal}
		if toks[0].Type == token.FILEOUT {
			f.Mode = FileOut
		}
		return f
	}
	out := make([]any, len(toks))
	for i, t := range toks {
		out[i] = native(t)
	}
	return out
}

func native(tok token.Token) any {
	switch tok.Type {
	case token.INT:
		if n, err := strconv.Atoi(tok.Literal); err == nil {
			return n
		}
		fallthrough
	case token.FLOAT:
		if f, err := lexer.ParseFloat(tok.Literal); err == nil {
			return f
		}
	}
	return tok.Literal
}

func parseErrorf(tok token.Token, format string, args ...any) error {
	return ParseError{Message: fmt.Sprintf(format, args...), Line: tok.Line, Column: tok.Column}
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func isIdent(s string) bool {
	for _, r := range s {
		if r != '_' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return s != ""
}
