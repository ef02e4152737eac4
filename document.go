package mf6io

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/KimNorgaard/go-mf6io/array"
	"github.com/KimNorgaard/go-mf6io/internal/mapper"
)

// FileMode tells whether a filename parameter is read or written by the
// simulation.
type FileMode int

const (
	FileIn FileMode = iota
	FileOut
)

func (m FileMode) String() string {
	if m == FileOut {
		return "FILEOUT"
	}
	return "FILEIN"
}

// File is the value of a filename parameter.
type File struct {
	Mode FileMode
	Path string
}

func (f File) String() string { return f.Mode.String() + " " + f.Path }

// Record holds the components of a record, or the single chosen
// alternative of a keystring, by name.
type Record map[string]any

// Bind copies the components of r into the struct or map pointed to by
// v, like Block.Bind.
func (r Record) Bind(v any) error { return mapper.Map(r, v) }

// Document is the decoded content of one MF6 input file.
type Document struct {
	// Component is the name of the specification the document was decoded
	// with, e.g. gwf-ic. It is empty for documents decoded without one.
	Component string
	blocks    []*Block
}

// NewDocument returns an empty document for the named component.
func NewDocument(component string) *Document {
	return &Document{Component: component}
}

// AddBlock appends a block instance. index is 0 for blocks that are not
// indexed.
func (d *Document) AddBlock(name string, index int) *Block {
	b := &Block{Name: strings.ToLower(name), Index: index, values: make(map[string]any)}
	d.blocks = append(d.blocks, b)
	return b
}

// Block returns the first instance of the named block, or nil.
func (d *Document) Block(name string) *Block {
	for _, b := range d.blocks {
		if strings.EqualFold(b.Name, name) {
			return b
		}
	}
	return nil
}

// BlockAt returns the instance of the named block with the given index,
// or nil.
func (d *Document) BlockAt(name string, index int) *Block {
	for _, b := range d.blocks {
		if b.Index == index && strings.EqualFold(b.Name, name) {
			return b
		}
	}
	return nil
}

// Blocks returns every block instance in document order.
func (d *Document) Blocks() []*Block { return slices.Clone(d.blocks) }

// Instances returns every instance of the named block in document order.
func (d *Document) Instances(name string) []*Block {
	var out []*Block
	for _, b := range d.blocks {
		if strings.EqualFold(b.Name, name) {
			out = append(out, b)
		}
	}
	return out
}

// Equal reports whether d and o hold the same blocks with equal values.
// Arrays are compared by shape and materialized values.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Component != o.Component || len(d.blocks) != len(o.blocks) {
		return false
	}
	for i, b := range d.blocks {
		if !b.Equal(o.blocks[i]) {
			return false
		}
	}
	return true
}

// Block is one block instance of a document.
type Block struct {
	Name   string
	Index  int
	values map[string]any
	order  []string
	lines  []Line
}

// A Line is one line of a block decoded without a specification. Head
// is the first word as a string, int or float64. Value is decoded from
// the rest of the line like a loose value: true when the line is a
// single word, a scalar, a File or a []any tuple.
type Line struct {
	Head  any
	Value any
}

// Words returns the words of the line as native values.
func (l Line) Words() []any {
	words := []any{l.Head}
	switch v := l.Value.(type) {
	case bool:
		if !v {
			return nil
		}
	case File:
		words = append(words, v.Mode.String(), v.Path)
	case []any:
		words = append(words, v...)
	default:
		words = append(words, v)
	}
	return words
}

// key returns the name the line is found under, or "" for a line that
// does not start with a name, such as a row of numbers.
func (l Line) key() string {
	if s, ok := l.Head.(string); ok {
		return strings.ToLower(s)
	}
	return ""
}

// Get returns the value stored under name.
func (b *Block) Get(name string) (any, bool) {
	v, ok := b.values[strings.ToLower(name)]
	return v, ok
}

// Set stores v under name, replacing any earlier value. In a block
// holding lines, every line starting with name is replaced by a single
// line at the position of the first one.
func (b *Block) Set(name string, v any) {
	name = strings.ToLower(name)
	b.put(name, v)
	if b.lines == nil {
		return
	}
	at := slices.IndexFunc(b.lines, func(l Line) bool { return l.key() == name })
	b.removeLines(name)
	line := Line{Head: strings.ToUpper(name), Value: v}
	if at < 0 {
		b.lines = append(b.lines, line)
		return
	}
	b.lines = slices.Insert(b.lines, at, line)
}

func (b *Block) put(name string, v any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	if _, ok := b.values[name]; !ok {
		b.order = append(b.order, name)
	}
	b.values[name] = v
}

// Delete removes name from the block, together with every line starting
// with it.
func (b *Block) Delete(name string) {
	name = strings.ToLower(name)
	b.removeLines(name)
	if _, ok := b.values[name]; !ok {
		return
	}
	delete(b.values, name)
	b.order = slices.DeleteFunc(b.order, func(s string) bool { return s == name })
}

func (b *Block) removeLines(name string) {
	if b.lines != nil {
		b.lines = slices.DeleteFunc(b.lines, func(l Line) bool { return l.key() == name })
	}
}

// AddLine appends a line to the block. A line starting with a name also
// becomes the value found under that name, so Get sees the last such
// line. Once a block holds lines it is encoded from them, in order.
func (b *Block) AddLine(l Line) {
	if b.lines == nil {
		b.lines = make([]Line, 0, 8)
	}
	b.lines = append(b.lines, l)
	if k := l.key(); k != "" {
		b.put(k, l.Value)
	}
}

// Lines returns the lines of a block decoded without a specification,
// in input order. Repeated names, array control lines and data rows are
// all kept.
func (b *Block) Lines() []Line { return slices.Clone(b.lines) }

// Names returns the stored names in insertion order.
func (b *Block) Names() []string { return slices.Clone(b.order) }

// Len returns the number of stored values.
func (b *Block) Len() int { return len(b.order) }

// Bind copies the block's values into the struct or map pointed to by v.
// Struct fields are matched by an `mf6:"name"` tag or by field name,
// ignoring case:
//
//	var dims struct {
//		NLay int `mf6:"nlay"`
//		NRow int `mf6:"nrow"`
//		NCol int `mf6:"ncol"`
//	}
//	err := doc.Block("dimensions").Bind(&dims)
//
// Integers bind to any integer or float field, records to structs or
// maps, lists and repeated records to slices.
func (b *Block) Bind(v any) error { return mapper.Map(b.values, v) }

// Equal reports whether b and o have the same name, index, values and
// lines. The insertion order of values is not compared.
func (b *Block) Equal(o *Block) bool {
	if b.Name != o.Name || b.Index != o.Index || len(b.values) != len(o.values) {
		return false
	}
	if !slices.EqualFunc(b.lines, o.lines, func(x, y Line) bool {
		return valueEqual(x.Head, y.Head) && valueEqual(x.Value, y.Value)
	}) {
		return false
	}
	for k, v := range b.values {
		w, ok := o.values[k]
		if !ok || !valueEqual(v, w) {
			return false
		}
	}
	return true
}

func (b *Block) String() string {
	if b.Index > 0 {
		return fmt.Sprintf("%s %d", b.Name, b.Index)
	}
	return b.Name
}

func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case *array.Array:
		y, ok := b.(*array.Array)
		return ok && x.Equal(y)
	case *Table:
		y, ok := b.(*Table)
		return ok && x.Equal(y)
	case Record:
		y, ok := b.(Record)
		return ok && recordEqual(x, y)
	case []Record:
		y, ok := b.([]Record)
		return ok && slices.EqualFunc(x, y, recordEqual)
	case []int:
		y, ok := b.([]int)
		return ok && slices.Equal(x, y)
	case []float64:
		y, ok := b.([]float64)
		return ok && slices.Equal(x, y)
	case []string:
		y, ok := b.([]string)
		return ok && slices.Equal(x, y)
	case []any:
		y, ok := b.([]any)
		return ok && slices.EqualFunc(x, y, valueEqual)
	}
	return reflect.DeepEqual(a, b)
}

func recordEqual(a, b Record) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !valueEqual(v, w) {
			return false
		}
	}
	return true
}
