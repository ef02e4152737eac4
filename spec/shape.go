package spec

import (
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-mf6io/errors"
)

// Dim is one shape entry: a literal extent or a symbolic dimension name.
type Dim struct {
	Extent int
	Name   string
}

// IsSymbolic reports whether the dimension must be resolved by name.
func (d Dim) IsSymbolic() bool { return d.Name != "" }

func (d Dim) String() string {
	if d.Name != "" {
		return d.Name
	}
	return strconv.Itoa(d.Extent)
}

// Shape is a declared array or list shape such as (nlay, nrow, ncol).
type Shape []Dim

// ParseShape parses a DFN shape expression. Parentheses are optional and
// entries are separated by commas or spaces. An empty expression yields a
// nil shape.
func ParseShape(s string) Shape {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	shape := make(Shape, 0, len(fields))
	for _, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			shape = append(shape, Dim{Extent: n})
			continue
		}
		shape = append(shape, Dim{Name: strings.ToLower(f)})
	}
	return shape
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Resolver looks up the value of a named dimension.
type Resolver interface {
	Lookup(name string) (int, bool)
}

// Resolve returns the concrete extents of the shape. The first symbolic
// dimension the resolver does not know is reported as an
// *errors.UnresolvedDimensionError with only Dim set.
func (s Shape) Resolve(r Resolver) ([]int, error) {
	out := make([]int, len(s))
	for i, d := range s {
		if !d.IsSymbolic() {
			out[i] = d.Extent
			continue
		}
		var (
			n  int
			ok bool
		)
		if r != nil {
			n, ok = r.Lookup(d.Name)
		}
		if !ok {
			return nil, &errors.UnresolvedDimensionError{Dim: d.Name}
		}
		out[i] = n
	}
	return out, nil
}
