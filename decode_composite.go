package mf6io

import (
	"fmt"
	"strings"

	"github.com/KimNorgaard/go-mf6io/internal/token"
	"github.com/KimNorgaard/go-mf6io/spec"
)

// matchRecord returns the record of bs whose leading keyword is the first
// word. Records sharing a leading keyword are told apart by the keyword
// components at fixed positions.
func matchRecord(bs *spec.Block, words []token.Token) *spec.Param {
	var candidates []*spec.Param
	for _, p := range bs.Params {
		if p.Kind == spec.Record && strings.EqualFold(p.LeadKeyword(), words[0].Literal) {
			candidates = append(candidates, p)
		}
	}
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}
	for _, p := range candidates {
		if fixedKeywordsMatch(p, words) {
			return p
		}
	}
	return candidates[0]
}

// fixedKeywordsMatch checks every keyword component that sits at a known
// position, that is before the first component of variable width.
func fixedKeywordsMatch(p *spec.Param, words []token.Token) bool {
	pos := 0
	for _, c := range p.Components {
		if pos >= len(words) {
			return true
		}
		switch {
		case c.Kind == spec.Keyword:
			if !strings.EqualFold(words[pos].Literal, c.Name) {
				return false
			}
			pos++
		case c.IsList():
			return true
		case c.Kind == spec.Integer || c.Kind == spec.Double || c.Kind == spec.String:
			pos++
			if c.Tagged {
				pos++
			}
		case c.Kind == spec.Filename:
			pos++
		default:
			return true
		}
	}
	return true
}

// matchKeystring returns the keystring parameter of bs with an
// alternative introduced by name.
func matchKeystring(bs *spec.Block, name string) *spec.Param {
	for _, p := range bs.Params {
		if p.Kind != spec.Keystring {
			continue
		}
		for _, alt := range p.Components {
			if strings.EqualFold(alternativeName(alt), name) {
				return p
			}
		}
	}
	return nil
}

// alternativeName is the word that selects a keystring alternative.
func alternativeName(alt *spec.Param) string {
	if lk := alt.LeadKeyword(); lk != "" {
		return lk
	}
	return alt.Name
}

// decodeRecord decodes the components of p from words, left to right.
// It returns the number of words consumed. at positions errors about
// missing trailing components.
func (s *decodeState) decodeRecord(p *spec.Param, words []token.Token, at token.Token) (Record, int, error) {
	rec := Record{}
	pos := 0
	for i, c := range p.Components {
		last := i == len(p.Components)-1
		n, v, ok, err := s.decodeComponent(c, words[pos:], last, at)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			if !c.Optional {
				return nil, 0, parseErrorf(tokenAt(words, pos, at), "record %s: missing %s", p.Name, c.Name)
			}
			continue
		}
		rec[c.Name] = v
		pos += n
	}
	return rec, pos, nil
}

// decodeComponent decodes one composite component from the front of
// rest. ok is false when the component is absent.
func (s *decodeState) decodeComponent(c *spec.Param, rest []token.Token, last bool, at token.Token) (n int, v any, ok bool, err error) {
	if len(rest) == 0 {
		return 0, nil, false, nil
	}
	switch c.Kind {
	case spec.Keyword:
		if !strings.EqualFold(rest[0].Literal, c.Name) {
			return 0, nil, false, nil
		}
		return 1, true, true, nil
	case spec.Keystring:
		return s.decodeKeystring(c, rest, last, at)
	case spec.Record:
		rec, n, err := s.decodeRecord(c, rest, at)
		return n, rec, err == nil, err
	case spec.Filename:
		return 1, File{Mode: FileIn, Path: rest[0].Literal}, true, nil
	case spec.Array, spec.Table:
		return 0, nil, false, parseErrorf(rest[0], "%s %s cannot be read inside a composite", c.Kind, c.Name)
	}

	start := 0
	if c.Tagged {
		if !strings.EqualFold(rest[0].Literal, c.Name) {
			return 0, nil, false, nil
		}
		start = 1
	}
	n, v, err = s.decodeValue(c, rest[start:], last, rest[0])
	if err != nil {
		return 0, nil, false, err
	}
	return start + n, v, true, nil
}

// decodeKeystring decodes the one alternative of p selected by the first
// word. The value is a Record with that alternative as its only entry.
func (s *decodeState) decodeKeystring(p *spec.Param, rest []token.Token, last bool, at token.Token) (int, any, bool, error) {
	if len(rest) == 0 {
		return 0, nil, false, nil
	}
	for _, alt := range p.Components {
		if !strings.EqualFold(rest[0].Literal, alternativeName(alt)) {
			continue
		}
		var (
			n   int
			v   any
			err error
		)
		switch alt.Kind {
		case spec.Keyword:
			n, v = 1, true
		case spec.Record:
			v, n, err = s.decodeRecord(alt, rest, at)
		default:
			// The alternative's name always introduces its value.
			n, v, err = s.decodeValue(alt, rest[1:], last, rest[0])
			n++
		}
		if err != nil {
			return 0, nil, false, err
		}
		return n, Record{alt.Name: v}, true, nil
	}
	return 0, nil, false, &CompositeExpansionError{
		Name: p.Name,
		Msg:  fmt.Sprintf("no alternative matches %q", rest[0].Literal),
		Line: rest[0].Line,
	}
}

// decodeValue reads the value of a scalar or list component from toks.
// A list takes as many values as its shape resolves to; a final list
// with an unresolved shape takes the rest of the line.
func (s *decodeState) decodeValue(c *spec.Param, toks []token.Token, last bool, at token.Token) (int, any, error) {
	if !c.IsList() {
		if len(toks) == 0 {
			return 0, nil, parseErrorf(at, "%s: missing value", c.Name)
		}
		v, err := s.scalar(c, c.Kind, toks[0])
		return 1, v, err
	}

	shape, err := s.resolve(c, at.Line)
	switch {
	case err == nil:
		n := product(shape)
		if len(toks) < n {
			return 0, nil, &ShapeMismatchError{Name: c.Name, Want: []int{n}, Got: []int{len(toks)}, Line: at.Line}
		}
		toks = toks[:n]
	case !last:
		return 0, nil, err
	}
	if len(toks) == 0 {
		return 0, nil, parseErrorf(at, "%s: expected at least one value", c.Name)
	}
	v, err := s.listValues(c, toks)
	if err != nil {
		return 0, nil, err
	}
	s.registerLen(c, len(toks))
	return len(toks), v, nil
}

// decodeRow appends one row to the table p of block b. A list column
// whose shape cannot be resolved is absent when it is declared optional
// and is not the final column.
func (s *decodeState) decodeRow(b *Block, p *spec.Param, words []token.Token) error {
	at := words[len(words)-1]
	row := make([]any, len(p.Components))
	pos := 0
	for i, c := range p.Components {
		last := i == len(p.Components)-1
		if c.IsList() && c.Attrs["optional"] == true && !last {
			if _, err := c.Shape.Resolve(s.dims); err != nil {
				continue
			}
		}
		n, v, ok, err := s.decodeComponent(c, words[pos:], last, at)
		if err != nil {
			return err
		}
		if !ok {
			if !c.Optional {
				return parseErrorf(tokenAt(words, pos, at), "%s: row is missing %s", p.Name, c.Name)
			}
			continue
		}
		row[i] = v
		pos += n
	}
	if pos < len(words) {
		return parseErrorf(words[pos], "%s: unexpected %q in row", p.Name, words[pos].Literal)
	}

	var t *Table
	if v, ok := b.Get(p.Name); ok {
		t = v.(*Table)
	} else {
		cols := make([]string, len(p.Components))
		for i, c := range p.Components {
			cols[i] = c.Name
		}
		t = NewTable(cols...)
		b.Set(p.Name, t)
	}
	return t.Append(row...)
}

func tokenAt(words []token.Token, i int, fallback token.Token) token.Token {
	if i < len(words) {
		return words[i]
	}
	return fallback
}
