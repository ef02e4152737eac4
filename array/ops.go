package array

import (
	"fmt"
	"math"
	"slices"

	"github.com/KimNorgaard/go-mf6io/errors"
	"gonum.org/v1/gonum/floats"
)

// Map applies fn to every element. A constant array stays constant and
// layered arrays are mapped layer by layer. Values of an Int array that
// become non-integral turn the result into a Float64 array. The result
// of mapping an external array is internal.
func (a *Array) Map(fn func(float64) float64) *Array {
	if a.Layered() {
		layers := make([]*Array, len(a.layers))
		for i, l := range a.layers {
			layers[i] = l.Map(fn)
		}
		return a.withLayers(layers)
	}
	b := a.copy()
	if a.how == Constant {
		b.value = fn(a.value)
		b.dtype = resultType(a.dtype, b.value)
		return b
	}
	for i, v := range b.data {
		b.data[i] = fn(v)
	}
	b.toInternal()
	b.dtype = resultType(a.dtype, b.data...)
	return b
}

// Scale multiplies every element by c.
func (a *Array) Scale(c float64) *Array {
	if a.Layered() || a.how == Constant {
		return a.Map(func(v float64) float64 { return v * c })
	}
	b := a.copy()
	floats.Scale(c, b.data)
	b.toInternal()
	b.dtype = resultType(a.dtype, b.data...)
	return b
}

// Add adds c to every element.
func (a *Array) Add(c float64) *Array {
	if a.Layered() || a.how == Constant {
		return a.Map(func(v float64) float64 { return v + c })
	}
	b := a.copy()
	floats.AddConst(c, b.data)
	b.toInternal()
	b.dtype = resultType(a.dtype, b.data...)
	return b
}

// Combine applies fn elementwise to a and o, which must have the same
// shape. A constant combined with anything but a constant does not stay
// constant and is rejected with a *errors.RepresentationViolationError;
// Materialize it first. When a is layered the operation is applied per
// layer.
func (a *Array) Combine(o *Array, fn func(x, y float64) float64) (*Array, error) {
	if !slices.Equal(a.shape, o.shape) {
		return nil, &errors.ShapeMismatchError{
			Want: a.Shape(),
			Got:  o.Shape(),
			Msg:  fmt.Sprintf("cannot combine arrays of shape %v and %v", a.shape, o.shape),
		}
	}
	if a.Layered() {
		layers := make([]*Array, len(a.layers))
		for i, l := range a.layers {
			other, err := o.layerView(i)
			if err != nil {
				return nil, err
			}
			if layers[i], err = l.Combine(other, fn); err != nil {
				return nil, err
			}
		}
		return a.withLayers(layers), nil
	}

	if a.how == Constant {
		ov, ok := o.Constant()
		if !ok {
			return nil, &errors.RepresentationViolationError{Op: "combine", Msg: "result of a constant array is not constant; materialize it first"}
		}
		b := a.copy()
		b.value = fn(a.value, ov)
		b.dtype = resultType(joinTypes(a.dtype, o.dtype), b.value)
		return b, nil
	}

	b := a.copy()
	other := o.Values()
	for i := range b.data {
		b.data[i] = fn(b.data[i], other[i])
	}
	b.toInternal()
	b.dtype = resultType(joinTypes(a.dtype, o.dtype), b.data...)
	return b, nil
}

// Materialize returns a with every constant representation replaced by
// an internal buffer of the same values.
func (a *Array) Materialize() *Array {
	if a.Layered() {
		layers := make([]*Array, len(a.layers))
		for i, l := range a.layers {
			layers[i] = l.Materialize()
		}
		return a.withLayers(layers)
	}
	b := a.copy()
	if a.how == Constant {
		b.data = a.Values()
		b.value = 0
		b.how = Internal
	}
	return b
}

// Min returns the smallest element.
func (a *Array) Min() float64 {
	if v, ok := a.Constant(); ok {
		return v
	}
	return floats.Min(a.Values())
}

// Max returns the largest element.
func (a *Array) Max() float64 {
	if v, ok := a.Constant(); ok {
		return v
	}
	return floats.Max(a.Values())
}

// Sum returns the sum of all elements.
func (a *Array) Sum() float64 {
	if v, ok := a.Constant(); ok {
		return v * float64(a.Size())
	}
	return floats.Sum(a.Values())
}

// layerView returns layer i of a, slicing a non-layered array along its
// leading dimension.
func (a *Array) layerView(i int) (*Array, error) {
	if a.Layered() {
		return a.layers[i], nil
	}
	shape := a.shape[1:]
	if v, ok := a.Constant(); ok {
		return NewConstant(v, shape...).WithDType(a.dtype), nil
	}
	n := product(shape)
	l, err := NewInternal(a.data[i*n:(i+1)*n], shape...)
	if err != nil {
		return nil, err
	}
	return l.WithDType(a.dtype), nil
}

func (a *Array) withLayers(layers []*Array) *Array {
	b := a.copy()
	b.layers = layers
	b.dtype = layers[0].dtype
	for _, l := range layers[1:] {
		b.dtype = joinTypes(b.dtype, l.dtype)
	}
	return b
}

// toInternal marks a buffer whose values no longer match its source.
func (a *Array) toInternal() {
	a.how = Internal
	a.path = ""
	a.factor = 1
}

func joinTypes(a, b DType) DType {
	if a == Int && b == Int {
		return Int
	}
	return Float64
}

func resultType(d DType, values ...float64) DType {
	if d != Int {
		return d
	}
	for _, v := range values {
		if v != math.Trunc(v) {
			return Float64
		}
	}
	return Int
}
