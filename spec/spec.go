// Package spec models MODFLOW 6 input definitions (DFN files): the
// components, blocks and parameters an input file may contain.
//
// Specifications are loaded once with Load, LoadFile or LoadDir and are
// read-only afterwards. They drive the decoder and encoder of package
// mf6io.
package spec

import "strings"

// Param describes one input parameter.
type Param struct {
	Block       string
	Name        string
	Kind        Kind
	Type        string // the raw DFN type declaration
	Elem        Kind   // element kind of arrays and lists
	Longname    string
	Description string

	Optional      bool
	Repeating     bool
	Tagged        bool
	Layered       bool
	InRecord      bool
	PreserveCase  bool
	BlockVariable bool

	Reader  Reader
	Shape   Shape
	Default any // nil when the DFN declares no default
	Valid   []string

	Deprecated string
	Removed    string

	// Attrs holds every declared attribute, coerced to bool, int,
	// float64 or string.
	Attrs map[string]any

	// Components are the ordered constituents of composite kinds.
	Components []*Param

	// Line is the DFN line declaring the parameter name.
	Line int
}

// IsList reports whether the parameter is a scalar kind with a shape,
// read as a list of values from a single line.
func (p *Param) IsList() bool {
	switch p.Kind {
	case Integer, Double, String:
		return len(p.Shape) > 0
	}
	return false
}

// IsComposite reports whether the parameter carries components.
func (p *Param) IsComposite() bool { return p.Kind.IsComposite() }

// Component returns the named component, ignoring case.
func (p *Param) Component(name string) *Param {
	for _, c := range p.Components {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// LeadKeyword returns the name of the leading keyword component of a
// record, or the empty string when the record does not start with one.
func (p *Param) LeadKeyword() string {
	if p.Kind != Record || len(p.Components) == 0 {
		return ""
	}
	if first := p.Components[0]; first.Kind == Keyword {
		return first.Name
	}
	return ""
}

// IsValid reports whether v is allowed by the parameter's valid list.
// Parameters without a valid list accept anything.
func (p *Param) IsValid(v string) bool {
	if len(p.Valid) == 0 {
		return true
	}
	for _, s := range p.Valid {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// Block is the specification of one input block.
type Block struct {
	Name string
	// Indexed blocks may occur several times, each instance carrying an
	// integer index (BEGIN PERIOD 3).
	Indexed   bool
	IndexName string
	Params    []*Param
}

// Param returns the named top-level parameter, ignoring case.
func (b *Block) Param(name string) *Param {
	for _, p := range b.Params {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Table returns the block's tabular parameter, if any.
func (b *Block) Table() *Param {
	for _, p := range b.Params {
		if p.Kind == Table {
			return p
		}
	}
	return nil
}

// Component is the specification of one input file type, e.g. gwf-ic.
type Component struct {
	Name   string
	Blocks []*Block
}

// Block returns the named block, ignoring case.
func (c *Component) Block(name string) *Block {
	for _, b := range c.Blocks {
		if strings.EqualFold(b.Name, name) {
			return b
		}
	}
	return nil
}
