// Package errors defines the error kinds reported while reading DFN
// specifications and MF6 input files.
package errors

import (
	"fmt"
	"strings"
)

// ParseError represents a single error that occurred during parsing.
// It includes the position of the error and, when available, the text
// of the offending line.
type ParseError struct {
	Message string
	Line    int
	Column  int
	Text    string
}

func (e ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mf6io: parsing error at line %d", e.Line)
	if e.Column > 0 {
		fmt.Fprintf(&b, ", column %d", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Text != "" {
		fmt.Fprintf(&b, " (%q)", e.Text)
	}
	return b.String()
}

// ParseErrors is a slice of ParseError that implements the error interface.
// This allows returning all syntax errors found during parsing at once.
type ParseErrors []ParseError

func (p ParseErrors) Error() string {
	if len(p) == 0 {
		return ""
	}
	// The collection reports the first error; the rest are available
	// by ranging over the slice.
	return p[0].Error()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (p ParseErrors) Unwrap() []error {
	errs := make([]error, len(p))
	for i, e := range p {
		errs[i] = e
	}
	return errs
}

// UnknownParameterError is reported when input references a block or
// parameter the specification does not declare and unknown names are
// not tolerated.
type UnknownParameterError struct {
	Block string
	Name  string // empty when the whole block is unknown
	Line  int
}

func (e *UnknownParameterError) Error() string {
	var b strings.Builder
	b.WriteString("mf6io: ")
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Name == "" {
		fmt.Fprintf(&b, "unknown block %q", e.Block)
	} else {
		fmt.Fprintf(&b, "unknown parameter %q in block %q", e.Name, e.Block)
	}
	return b.String()
}

// ShapeMismatchError is reported when the number of array elements does
// not match the declared shape, or when array layers disagree in shape.
type ShapeMismatchError struct {
	Name string
	Want []int
	Got  []int
	Line int
	Msg  string
}

func (e *ShapeMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("mf6io: ")
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, "array %q: ", e.Name)
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
		return b.String()
	}
	fmt.Fprintf(&b, "shape mismatch: want %v, got %v", e.Want, e.Got)
	return b.String()
}

// UnresolvedDimensionError is reported when a symbolic shape dimension
// has not been resolved in the current or an ancestor scope.
type UnresolvedDimensionError struct {
	Name string
	Dim  string
	Line int
}

func (e *UnresolvedDimensionError) Error() string {
	return fmt.Sprintf("mf6io: line %d: parameter %q: unresolved dimension %q", e.Line, e.Name, e.Dim)
}

// CompositeExpansionError is reported for a composite parameter with no
// constituents, a constituent that cannot be found, or a keystring
// alternative that matches none of the declared components.
type CompositeExpansionError struct {
	Block string
	Name  string
	Msg   string
	Line  int
}

func (e *CompositeExpansionError) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("mf6io: line %d: composite %q in block %q: %s", e.Line, e.Name, e.Block, e.Msg)
	}
	return fmt.Sprintf("mf6io: line %d: composite %q: %s", e.Line, e.Name, e.Msg)
}

// RepresentationViolationError is reported when an operation would break
// the constant or layered array invariants.
type RepresentationViolationError struct {
	Op  string
	Msg string
}

func (e *RepresentationViolationError) Error() string {
	if e.Op == "" {
		return "mf6io: " + e.Msg
	}
	return "mf6io: " + e.Op + ": " + e.Msg
}
