package spec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-mf6io/errors"
	"github.com/KimNorgaard/go-mf6io/internal/ast"
	"github.com/KimNorgaard/go-mf6io/internal/lexer"
)

// declaration is a parameter record as written in the DFN, before
// composite expansion.
type declaration struct {
	block  string
	name   string
	line   int
	column int
	text   map[string]string
	attrs  map[string]any
}

// coerce converts a DFN attribute value to bool, int, float64 or string.
func coerce(v string) any {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if isDigits(v) {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func newDeclaration(p *ast.Param) *declaration {
	d := &declaration{
		block:  strings.ToLower(p.Block.Literal),
		name:   strings.ToLower(p.Name.Literal),
		line:   p.Name.Line,
		column: p.Name.Column,
		text:   make(map[string]string, len(p.Attrs)),
		attrs:  make(map[string]any, len(p.Attrs)),
	}
	for _, a := range p.Attrs {
		key := strings.ToLower(a.Key.Literal)
		d.text[key] = a.Value.Literal
		d.attrs[key] = coerce(a.Value.Literal)
	}
	return d
}

func (d *declaration) parseError(format string, args ...any) error {
	return errors.ParseErrors{{
		Message: fmt.Sprintf(format, args...),
		Line:    d.line,
		Column:  d.column,
		Text:    d.name,
	}}
}

func (d *declaration) flag(key string, def bool) (bool, error) {
	v, ok := d.attrs[key]
	if !ok || d.text[key] == "" {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, d.parseError("parameter %q: attribute %s must be true or false, got %q", d.name, key, d.text[key])
	}
	return b, nil
}

// typeWords returns the lower-cased words of the type declaration.
func (d *declaration) typeWords() []string {
	return strings.Fields(strings.ToLower(d.text["type"]))
}

// param builds the parameter from its declaration, without components.
func (d *declaration) param() (*Param, error) {
	words := d.typeWords()
	if len(words) == 0 {
		return nil, d.parseError("parameter %q has no type", d.name)
	}
	reader, err := ParseReader(d.text["reader"])
	if err != nil {
		return nil, d.parseError("parameter %q: %v", d.name, err)
	}

	p := &Param{
		Block:       d.block,
		Name:        d.name,
		Type:        strings.Join(words, " "),
		Longname:    d.text["longname"],
		Description: d.text["description"],
		Reader:      reader,
		Shape:       ParseShape(d.text["shape"]),
		Valid:       strings.Fields(d.text["valid"]),
		Deprecated:  d.text["deprecated"],
		Removed:     d.text["removed"],
		Attrs:       d.attrs,
		Line:        d.line,
	}

	switch words[0] {
	case "recarray":
		p.Kind = Table
	case "record":
		p.Kind = Record
	case "keystring":
		p.Kind = Keystring
	case "keyword":
		p.Kind = Keyword
	case "integer":
		p.Kind, p.Elem = Integer, Integer
	case "double":
		p.Kind, p.Elem = Double, Double
	case "string":
		p.Kind, p.Elem = String, String
	case "filename":
		p.Kind = Filename
	default:
		return nil, d.parseError("parameter %q: unknown type %q", d.name, d.text["type"])
	}
	if reader == ReadArray && (p.Kind == Integer || p.Kind == Double) {
		p.Kind = Array
	}

	flags := []struct {
		key string
		def bool
		dst *bool
	}{
		{"optional", true, &p.Optional},
		{"tagged", true, &p.Tagged},
		{"repeating", false, &p.Repeating},
		{"layered", false, &p.Layered},
		{"in_record", false, &p.InRecord},
		{"preserve_case", false, &p.PreserveCase},
		{"block_variable", false, &p.BlockVariable},
	}
	for _, f := range flags {
		if *f.dst, err = d.flag(f.key, f.def); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(d.text["default_value"]); v != "" {
		if p.Default, err = defaultValue(p, v); err != nil {
			return nil, d.parseError("parameter %q: invalid default_value %q: %v", d.name, v, err)
		}
	}
	return p, nil
}

func defaultValue(p *Param, v string) (any, error) {
	kind := p.Kind
	if kind == Array {
		kind = p.Elem
	}
	switch kind {
	case Keyword:
		return strconv.ParseBool(strings.ToLower(v))
	case Integer:
		return strconv.Atoi(v)
	case Double:
		return lexer.ParseFloat(v)
	}
	return v, nil
}

// expander performs composite expansion over the declarations of one
// block.
type expander struct {
	block string
	decls []*declaration
	index map[string]int

	done     map[int]*Param
	after    map[int]int
	busy     map[int]bool
	consumed map[int]bool
}

func newExpander(block string, decls []*declaration) (*expander, error) {
	e := &expander{
		block:    block,
		decls:    decls,
		index:    make(map[string]int, len(decls)),
		done:     make(map[int]*Param),
		after:    make(map[int]int),
		busy:     make(map[int]bool),
		consumed: make(map[int]bool),
	}
	for i, d := range decls {
		if _, dup := e.index[d.name]; dup {
			return nil, d.parseError("duplicate parameter %q in block %q", d.name, block)
		}
		e.index[d.name] = i
	}
	return e, nil
}

// run expands the block and returns its specification.
func (e *expander) run() (*Block, error) {
	b := &Block{Name: e.block}
	for i, d := range e.decls {
		if e.consumed[i] {
			continue
		}
		if v, _ := d.flag("block_variable", false); v {
			b.Indexed = true
			b.IndexName = d.name
			continue
		}
		p, _, err := e.expand(i)
		if err != nil {
			return nil, err
		}
		if p.InRecord {
			continue
		}
		b.Params = append(b.Params, p)
	}
	return b, nil
}

// expand builds the parameter declared at i. Composite heads consume the
// immediately following declarations named in their type, up to the last
// named one. It returns the index of the first declaration not consumed.
func (e *expander) expand(i int) (*Param, int, error) {
	if p, ok := e.done[i]; ok {
		return p, e.after[i], nil
	}
	d := e.decls[i]
	if e.busy[i] {
		return nil, 0, e.compositeError(d, "composite refers to itself")
	}
	p, err := d.param()
	if err != nil {
		return nil, 0, err
	}
	if !p.IsComposite() {
		e.done[i], e.after[i] = p, i+1
		return p, i + 1, nil
	}

	e.busy[i] = true
	defer delete(e.busy, i)

	members := d.typeWords()[1:]
	if len(members) == 0 {
		return nil, 0, e.compositeError(d, "no constituents declared")
	}
	named := make(map[string]bool, len(members))
	for _, m := range members {
		named[m] = true
	}
	terminal := members[len(members)-1]

	found := make(map[string]*Param, len(members))
	next := i + 1
	for next < len(e.decls) {
		name := e.decls[next].name
		if !named[name] || found[name] != nil {
			break
		}
		child, n, err := e.expand(next)
		if err != nil {
			return nil, 0, err
		}
		for k := next; k < n; k++ {
			e.consumed[k] = true
		}
		found[name] = child
		next = n
		if name == terminal {
			break
		}
	}

	// Constituents shared with another composite are declared once,
	// elsewhere in the block.
	for _, m := range members {
		if found[m] != nil {
			continue
		}
		j, ok := e.index[m]
		if !ok || j == i {
			return nil, 0, e.compositeError(d, fmt.Sprintf("constituent %q is not declared in block %q", m, e.block))
		}
		child, _, err := e.expand(j)
		if err != nil {
			return nil, 0, err
		}
		found[m] = child
	}

	p.Components = make([]*Param, len(members))
	for k, m := range members {
		p.Components[k] = found[m]
	}
	if err := e.check(d, p); err != nil {
		return nil, 0, err
	}

	e.done[i], e.after[i] = p, next
	return p, next, nil
}

// check enforces the component layout rules of composite kinds.
func (e *expander) check(d *declaration, p *Param) error {
	for k, c := range p.Components {
		final := k == len(p.Components)-1
		switch {
		case c.Kind == Table:
			return e.compositeError(d, fmt.Sprintf("component %q: a %s cannot be nested", c.Name, c.Kind))
		case p.Kind == Record && !final && (c.IsList() || c.Kind == Array):
			return e.compositeError(d, fmt.Sprintf("component %q: only the final component of a record may be a list or array", c.Name))
		case p.Kind == Table && c.Kind == Array:
			return e.compositeError(d, fmt.Sprintf("component %q: a table column cannot be an array", c.Name))
		}
	}
	return nil
}

func (e *expander) compositeError(d *declaration, msg string) error {
	return &errors.CompositeExpansionError{Block: e.block, Name: d.name, Msg: msg, Line: d.line}
}

// build transforms a parsed DFN into a component specification.
func build(name string, tree *ast.Spec) (*Component, error) {
	c := &Component{Name: name}
	var order []string
	byBlock := make(map[string][]*declaration)
	for _, p := range tree.Params {
		d := newDeclaration(p)
		if _, ok := byBlock[d.block]; !ok {
			order = append(order, d.block)
		}
		byBlock[d.block] = append(byBlock[d.block], d)
	}
	for _, blockName := range order {
		e, err := newExpander(blockName, byBlock[blockName])
		if err != nil {
			return nil, err
		}
		b, err := e.run()
		if err != nil {
			return nil, err
		}
		c.Blocks = append(c.Blocks, b)
	}
	return c, nil
}
