package mf6io

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/KimNorgaard/go-mf6io/array"
	"github.com/KimNorgaard/go-mf6io/internal/ast"
	"github.com/KimNorgaard/go-mf6io/internal/formatter"
	"github.com/KimNorgaard/go-mf6io/internal/token"
	"github.com/KimNorgaard/go-mf6io/spec"
)

// Marshal returns the MF6 input text of doc. A nil comp encodes a
// document decoded without a specification.
func Marshal(doc *Document, comp *spec.Component, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, comp, opts...).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// An Encoder writes MF6 input to an output stream.
type Encoder struct {
	w    io.Writer
	comp *spec.Component
	opts []Option
}

// NewEncoder returns a new encoder that writes documents of the component
// comp to w.
func NewEncoder(w io.Writer, comp *spec.Component, opts ...Option) *Encoder {
	return &Encoder{w: w, comp: comp, opts: opts}
}

// Encode writes doc to the stream. Blocks are written in document order
// and parameters in declaration order. Nothing is written when doc holds
// a value its specification cannot express.
func (e *Encoder) Encode(doc *Document) error {
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("mf6io: cannot encode a nil document")
	}
	es := &encodeState{comp: e.comp}
	file, err := es.encodeDocument(doc)
	if err != nil {
		return err
	}
	return formatter.New(e.w, o.indent, o.separator).Format(file)
}

type encodeState struct {
	comp *spec.Component
}

func (es *encodeState) encodeDocument(doc *Document) (*ast.File, error) {
	file := &ast.File{}
	for _, b := range doc.Blocks() {
		ab, err := es.encodeBlock(b)
		if err != nil {
			return nil, err
		}
		file.Blocks = append(file.Blocks, ab)
	}
	return file, nil
}

func (es *encodeState) encodeBlock(b *Block) (*ast.Block, error) {
	ab := &ast.Block{Name: b.Name, Index: b.Index, HasIndex: b.Index > 0}
	if es.comp == nil {
		return ab, es.encodeLooseBlock(b, ab)
	}

	bs := es.comp.Block(b.Name)
	if bs == nil {
		return nil, &UnknownParameterError{Block: b.Name}
	}
	if bs.Indexed != ab.HasIndex {
		if bs.Indexed {
			return nil, fmt.Errorf("mf6io: block %s requires a positive index", b.Name)
		}
		return nil, fmt.Errorf("mf6io: block %s does not take an index", b.Name)
	}
	for _, name := range b.Names() {
		if bs.Param(name) == nil {
			return nil, &UnknownParameterError{Block: b.Name, Name: name}
		}
	}

	for _, p := range bs.Params {
		v, ok := b.Get(p.Name)
		if !ok {
			continue
		}
		stmts, err := es.encodeParam(p, v)
		if err != nil {
			return nil, &EncodeError{Block: b.Name, Name: p.Name, Err: err}
		}
		ab.Statements = append(ab.Statements, stmts...)
	}
	return ab, nil
}

func (es *encodeState) encodeParam(p *spec.Param, v any) ([]ast.Statement, error) {
	name := strings.ToUpper(p.Name)
	switch p.Kind {
	case spec.Keyword:
		on, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("cannot encode %T as keyword", v)
		}
		if !on {
			return nil, nil
		}
		return lines([]string{name}), nil

	case spec.Integer, spec.Double, spec.String:
		var words []string
		var err error
		if p.IsList() {
			words, err = formatList(p.Elem, v)
		} else {
			var w string
			w, err = formatScalar(p.Kind, v)
			words = []string{w}
		}
		if err != nil {
			return nil, err
		}
		return lines(append([]string{name}, choiceCase(p, words)...)), nil

	case spec.Filename:
		f, ok := v.(File)
		if !ok {
			return nil, fmt.Errorf("cannot encode %T as filename", v)
		}
		path, err := word(f.Path)
		if err != nil {
			return nil, err
		}
		mode := token.Token{Type: token.FILEIN, Literal: f.Mode.String()}
		if f.Mode == FileOut {
			mode.Type = token.FILEOUT
		}
		return []ast.Statement{&ast.FilenameStatement{
			Token: wordToken(name),
			Name:  p.Name,
			Mode:  mode,
			Path:  wordToken(path),
		}}, nil

	case spec.Array:
		a, ok := v.(*array.Array)
		if !ok {
			return nil, fmt.Errorf("cannot encode %T as array", v)
		}
		st, err := encodeArray(name, p.Layered, a)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{st}, nil

	case spec.Record, spec.Keystring:
		var recs []Record
		switch x := v.(type) {
		case Record:
			recs = []Record{x}
		case []Record:
			recs = x
		default:
			return nil, fmt.Errorf("cannot encode %T as %s", v, p.Kind)
		}
		var out [][]string
		for _, rec := range recs {
			var words []string
			var err error
			if p.Kind == spec.Record {
				words, err = recordWords(p, rec)
			} else {
				words, err = keystringWords(p, rec)
			}
			if err != nil {
				return nil, err
			}
			out = append(out, words)
		}
		return lines(out...), nil

	case spec.Table:
		t, ok := v.(*Table)
		if !ok {
			return nil, fmt.Errorf("cannot encode %T as recarray", v)
		}
		return tableLines(p, t)
	}
	return nil, fmt.Errorf("cannot encode parameter of kind %s", p.Kind)
}

// recordWords writes the components of rec in declared order. Absent
// components are skipped when they are optional.
func recordWords(p *spec.Param, rec Record) ([]string, error) {
	var out []string
	for _, c := range p.Components {
		v, ok := rec[c.Name]
		if !ok || v == nil {
			if !c.Optional {
				return nil, fmt.Errorf("record %s: missing %s", p.Name, c.Name)
			}
			continue
		}
		words, err := componentWords(c, v)
		if err != nil {
			return nil, err
		}
		out = append(out, words...)
	}
	return out, nil
}

// keystringWords writes the one alternative held by rec.
func keystringWords(p *spec.Param, rec Record) ([]string, error) {
	if len(rec) != 1 {
		return nil, fmt.Errorf("keystring %s needs exactly one alternative, got %d", p.Name, len(rec))
	}
	for k, v := range rec {
		alt := p.Component(k)
		if alt == nil {
			return nil, fmt.Errorf("keystring %s has no alternative %q", p.Name, k)
		}
		switch alt.Kind {
		case spec.Keyword:
			if on, ok := v.(bool); !ok || !on {
				return nil, fmt.Errorf("keystring %s: alternative %s must be true", p.Name, alt.Name)
			}
			return []string{strings.ToUpper(alt.Name)}, nil
		case spec.Record:
			r, ok := v.(Record)
			if !ok {
				return nil, fmt.Errorf("cannot encode %T as record", v)
			}
			return recordWords(alt, r)
		}
		words, err := valueWords(alt, v)
		if err != nil {
			return nil, err
		}
		return append([]string{strings.ToUpper(alt.Name)}, words...), nil
	}
	return nil, nil
}

func componentWords(c *spec.Param, v any) ([]string, error) {
	switch c.Kind {
	case spec.Keyword:
		on, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("cannot encode %T as keyword", v)
		}
		if on {
			return []string{strings.ToUpper(c.Name)}, nil
		}
		return nil, nil
	case spec.Keystring:
		rec, ok := v.(Record)
		if !ok {
			return nil, fmt.Errorf("cannot encode %T as keystring", v)
		}
		return keystringWords(c, rec)
	case spec.Record:
		rec, ok := v.(Record)
		if !ok {
			return nil, fmt.Errorf("cannot encode %T as record", v)
		}
		return recordWords(c, rec)
	case spec.Filename:
		switch f := v.(type) {
		case File:
			w, err := word(f.Path)
			return []string{w}, err
		case string:
			w, err := word(f)
			return []string{w}, err
		}
		return nil, fmt.Errorf("cannot encode %T as filename", v)
	}

	words, err := valueWords(c, v)
	if err != nil {
		return nil, err
	}
	if c.Tagged {
		words = append([]string{strings.ToUpper(c.Name)}, words...)
	}
	return words, nil
}

func valueWords(c *spec.Param, v any) ([]string, error) {
	if c.IsList() {
		words, err := formatList(c.Elem, v)
		return choiceCase(c, words), err
	}
	if c.Kind != spec.Integer && c.Kind != spec.Double && c.Kind != spec.String {
		return nil, fmt.Errorf("%s %s cannot be written inside a composite", c.Kind, c.Name)
	}
	w, err := formatScalar(c.Kind, v)
	if err != nil {
		return nil, err
	}
	return choiceCase(c, []string{w}), nil
}

// choiceCase upper-cases the values of string parameters restricted to a
// list of choices, which read like keywords.
func choiceCase(p *spec.Param, words []string) []string {
	if len(p.Valid) == 0 || p.PreserveCase || (p.Kind != spec.String && p.Elem != spec.String) {
		return words
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return words
}

func tableLines(p *spec.Param, t *Table) ([]ast.Statement, error) {
	if len(t.Columns) != len(p.Components) {
		return nil, fmt.Errorf("table has %d columns, %s declares %d", len(t.Columns), p.Name, len(p.Components))
	}
	for i, c := range p.Components {
		if !strings.EqualFold(t.Columns[i], c.Name) {
			return nil, fmt.Errorf("table column %d is %q, want %q", i+1, t.Columns[i], c.Name)
		}
	}
	var out [][]string
	for i, row := range t.Rows {
		if len(row) != len(p.Components) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i+1, len(row), len(p.Components))
		}
		var words []string
		for j, c := range p.Components {
			if row[j] == nil {
				if !c.Optional {
					return nil, fmt.Errorf("row %d: missing %s", i+1, c.Name)
				}
				continue
			}
			w, err := componentWords(c, row[j])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			words = append(words, w...)
		}
		out = append(out, words)
	}
	return lines(out...), nil
}

// encodeLooseBlock writes a block of a document decoded without a
// specification. A block holding lines is written line by line, in
// order; a block built with Set alone is written from its values.
func (es *encodeState) encodeLooseBlock(b *Block, ab *ast.Block) error {
	if b.lines != nil {
		for _, l := range b.lines {
			head, err := formatLoose(l.Head)
			if err != nil || len(head) != 1 {
				return &EncodeError{Block: b.Name, Name: fmt.Sprint(l.Head), Err: fmt.Errorf("cannot encode %T as the first word of a line", l.Head)}
			}
			sts, err := looseStatements(head[0], l.Value)
			if err != nil {
				return &EncodeError{Block: b.Name, Name: head[0], Err: err}
			}
			ab.Statements = append(ab.Statements, sts...)
		}
		return nil
	}
	for _, name := range b.Names() {
		v, _ := b.Get(name)
		sts, err := looseStatements(strings.ToUpper(name), v)
		if err != nil {
			return &EncodeError{Block: b.Name, Name: name, Err: err}
		}
		ab.Statements = append(ab.Statements, sts...)
	}
	return nil
}

// looseStatements renders one loose value under head. A false keyword
// is left out.
func looseStatements(head string, v any) ([]ast.Statement, error) {
	if a, ok := v.(*array.Array); ok {
		st, err := encodeArray(head, true, a)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{st}, nil
	}
	if on, ok := v.(bool); ok && !on {
		return nil, nil
	}
	words, err := formatLoose(v)
	if err != nil {
		return nil, err
	}
	return lines(append([]string{head}, words...)), nil
}

func lines(rows ...[]string) []ast.Statement {
	out := make([]ast.Statement, len(rows))
	for i, words := range rows {
		toks := make([]token.Token, len(words))
		for j, w := range words {
			toks[j] = wordToken(w)
		}
		out[i] = &ast.LineStatement{Words: toks}
	}
	return out
}

func wordToken(s string) token.Token {
	return token.Token{Type: token.WORD, Literal: s}
}
