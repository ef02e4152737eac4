// Package array implements the numeric array values of MF6 input files.
//
// An Array is stored in one of three representations: a single constant
// value with a logical shape, an internal buffer, or a buffer loaded from
// an external file. A layered array is a sequence of same-shaped layers,
// each with its own representation. Operations return new arrays and
// never silently turn a constant into a full buffer; call Materialize to
// do that explicitly.
package array

import (
	"fmt"
	"math"
	"slices"

	"github.com/KimNorgaard/go-mf6io/errors"
	"gonum.org/v1/gonum/floats"
)

// How is the storage representation of an array.
type How int

const (
	Internal How = iota
	Constant
	External
)

func (h How) String() string {
	switch h {
	case Internal:
		return "INTERNAL"
	case Constant:
		return "CONSTANT"
	case External:
		return "OPEN/CLOSE"
	}
	return fmt.Sprintf("How(%d)", int(h))
}

// DType is the element type of an array.
type DType int

const (
	Float64 DType = iota
	Int
)

func (d DType) String() string {
	if d == Int {
		return "int"
	}
	return "float64"
}

// Array is an immutable n-dimensional numeric array.
type Array struct {
	how   How
	dtype DType
	shape []int

	factor   float64
	print    int
	hasPrint bool
	path     string

	value  float64   // constant
	data   []float64 // internal and external, already multiplied by factor
	layers []*Array
}

// NewConstant returns a constant array of the given shape.
func NewConstant(v float64, shape ...int) *Array {
	return &Array{how: Constant, shape: slices.Clone(shape), factor: 1, value: v}
}

// FromValues builds a constant array from a buffer whose elements are
// all equal. Any other buffer is rejected with a
// *errors.RepresentationViolationError.
func FromValues(values []float64, shape ...int) (*Array, error) {
	if err := checkCount(len(values), shape); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return NewConstant(0, shape...), nil
	}
	v := values[0]
	for _, x := range values[1:] {
		if x != v && !(math.IsNaN(x) && math.IsNaN(v)) {
			return nil, &errors.RepresentationViolationError{Op: "constant", Msg: "values are not constant"}
		}
	}
	return NewConstant(v, shape...), nil
}

// NewInternal returns an array holding data in row-major order. The
// number of elements must match the shape.
func NewInternal(data []float64, shape ...int) (*Array, error) {
	if err := checkCount(len(data), shape); err != nil {
		return nil, err
	}
	return &Array{how: Internal, shape: slices.Clone(shape), factor: 1, data: slices.Clone(data)}, nil
}

// NewExternal returns an array whose data was read from the file at path.
func NewExternal(path string, data []float64, shape ...int) (*Array, error) {
	a, err := NewInternal(data, shape...)
	if err != nil {
		return nil, err
	}
	a.how = External
	a.path = path
	return a, nil
}

// NewLayered stacks layers into an array whose leading dimension is the
// layer count. Layers must share one shape of rank at most 2.
func NewLayered(layers ...*Array) (*Array, error) {
	if len(layers) == 0 {
		return nil, &errors.ShapeMismatchError{Msg: "layered array needs at least one layer"}
	}
	first := layers[0].shape
	dtype := layers[0].dtype
	for i, l := range layers {
		if l.Layered() {
			return nil, &errors.ShapeMismatchError{Msg: fmt.Sprintf("layer %d is itself layered", i+1)}
		}
		if len(l.shape) > 2 {
			return nil, &errors.ShapeMismatchError{Msg: fmt.Sprintf("layer %d has rank %d, layers may have at most 2 dimensions", i+1, len(l.shape))}
		}
		if !slices.Equal(l.shape, first) {
			return nil, &errors.ShapeMismatchError{Want: slices.Clone(first), Got: slices.Clone(l.shape), Msg: fmt.Sprintf("layer %d has shape %v, layer 1 has shape %v", i+1, l.shape, first)}
		}
		if l.dtype != dtype {
			dtype = Float64
		}
	}
	shape := append([]int{len(layers)}, first...)
	return &Array{how: Internal, dtype: dtype, shape: shape, factor: 1, layers: cloneLayers(layers)}, nil
}

// Shape returns the dimensions of the array.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Size returns the number of elements in the array.
func (a *Array) Size() int { return product(a.shape) }

// How returns the representation of the array. A layered array reports
// Constant or External when every layer does, and Internal otherwise.
func (a *Array) How() How {
	if !a.Layered() {
		return a.how
	}
	how := a.layers[0].how
	for _, l := range a.layers[1:] {
		if l.how != how {
			return Internal
		}
	}
	return how
}

// DType returns the element type.
func (a *Array) DType() DType { return a.dtype }

// Factor returns the multiplier that was applied to the stored values.
func (a *Array) Factor() float64 { return a.factor }

// Print returns the IPRN print code, if one was set.
func (a *Array) Print() (int, bool) { return a.print, a.hasPrint }

// Path returns the external file path of an External array.
func (a *Array) Path() string { return a.path }

// Constant returns the value of a constant array. ok is false when the
// array is not constant.
func (a *Array) Constant() (v float64, ok bool) {
	if a.Layered() || a.how != Constant {
		return 0, false
	}
	return a.value, true
}

// Layered reports whether the array is made of layers.
func (a *Array) Layered() bool { return a.layers != nil }

// NLay returns the number of layers, or 0 for an array that is not layered.
func (a *Array) NLay() int { return len(a.layers) }

// Layer returns layer i, counting from zero.
func (a *Array) Layer(i int) *Array { return a.layers[i] }

// Layers returns the layers of a layered array.
func (a *Array) Layers() []*Array { return cloneLayers(a.layers) }

// Values returns the materialized values in row-major order.
func (a *Array) Values() []float64 {
	switch {
	case a.Layered():
		out := make([]float64, 0, a.Size())
		for _, l := range a.layers {
			out = append(out, l.Values()...)
		}
		return out
	case a.how == Constant:
		out := make([]float64, a.Size())
		for i := range out {
			out[i] = a.value
		}
		return out
	}
	return slices.Clone(a.data)
}

// Raw returns the values as they are written in an input file, that is
// divided by the factor.
func (a *Array) Raw() []float64 {
	if a.Layered() {
		out := make([]float64, 0, a.Size())
		for _, l := range a.layers {
			out = append(out, l.Raw()...)
		}
		return out
	}
	values := a.Values()
	if a.factor == 0 || a.factor == 1 || a.how == Constant {
		return values
	}
	for i := range values {
		values[i] /= a.factor
	}
	return values
}

// At returns the element at the given row-major index.
func (a *Array) At(idx ...int) float64 {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("array: At called with %d indices on an array of rank %d", len(idx), len(a.shape)))
	}
	if a.Layered() {
		return a.layers[idx[0]].At(idx[1:]...)
	}
	if a.how == Constant {
		return a.value
	}
	off := 0
	for i, n := range idx {
		if n < 0 || n >= a.shape[i] {
			panic(fmt.Sprintf("array: index %d out of range [0, %d)", n, a.shape[i]))
		}
		off = off*a.shape[i] + n
	}
	return a.data[off]
}

// WithFactor returns a copy of a that records f as the factor applied to
// its raw values.
func (a *Array) WithFactor(f float64) *Array {
	b := a.copy()
	b.factor = f
	return b
}

// WithPrint returns a copy of a with the IPRN print code set.
func (a *Array) WithPrint(code int) *Array {
	b := a.copy()
	b.print, b.hasPrint = code, true
	return b
}

// WithDType returns a copy of a with element type d. Layers are
// converted too.
func (a *Array) WithDType(d DType) *Array {
	b := a.copy()
	b.dtype = d
	for i, l := range b.layers {
		b.layers[i] = l.WithDType(d)
	}
	return b
}

// Equal reports whether a and b have the same shape and the same
// materialized values.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !slices.Equal(a.shape, b.shape) {
		return false
	}
	return floats.Equal(a.Values(), b.Values())
}

func (a *Array) String() string {
	if a.Layered() {
		return fmt.Sprintf("array(%v, %d layers)", a.shape, len(a.layers))
	}
	if a.how == Constant {
		return fmt.Sprintf("array(%v, CONSTANT %v)", a.shape, a.value)
	}
	return fmt.Sprintf("array(%v, %s)", a.shape, a.how)
}

func (a *Array) copy() *Array {
	b := *a
	b.shape = slices.Clone(a.shape)
	b.data = slices.Clone(a.data)
	b.layers = cloneLayers(a.layers)
	return &b
}

func checkCount(n int, shape []int) error {
	if want := product(shape); n != want {
		return &errors.ShapeMismatchError{
			Want: slices.Clone(shape),
			Got:  []int{n},
			Msg:  fmt.Sprintf("shape %v needs %d values, got %d", shape, want, n),
		}
	}
	return nil
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func cloneLayers(s []*Array) []*Array {
	if s == nil {
		return nil
	}
	return append([]*Array(nil), s...)
}
