package mf6io

import (
	"fmt"
	"strconv"

	"github.com/KimNorgaard/go-mf6io/array"
	"github.com/KimNorgaard/go-mf6io/internal/ast"
	"github.com/KimNorgaard/go-mf6io/internal/token"
)

// encodeArray writes a as the array statement name. Layered arrays get a
// LAYERED tag and one control record per layer.
func encodeArray(name string, layered bool, a *array.Array) (*ast.ArrayStatement, error) {
	if a == nil {
		return nil, fmt.Errorf("cannot encode a nil array")
	}
	st := &ast.ArrayStatement{Token: wordToken(name), Name: name}
	if !a.Layered() {
		st.Controls = []*ast.ArrayControl{control(a)}
		return st, nil
	}
	if !layered {
		return nil, fmt.Errorf("array is layered but %s is not declared layered", name)
	}
	st.Layered = true
	for _, l := range a.Layers() {
		st.Controls = append(st.Controls, control(l))
	}
	return st, nil
}

// control writes the control record of a non-layered array. INTERNAL data
// is laid out by rank: one line for a vector, one line per row, and
// blank-line separated planes above rank 2.
func control(a *array.Array) *ast.ArrayControl {
	num := formatDouble
	if a.DType() == array.Int {
		num = formatInteger
	}
	c := &ast.ArrayControl{}
	switch a.How() {
	case array.Constant:
		v, _ := a.Constant()
		c.How = token.CONSTANT
		c.Value = numberToken(num(v))
		return c
	case array.External:
		c.How = token.OPENCLOSE
		c.Path = wordToken(a.Path())
	default:
		c.How = token.INTERNAL
		c.Data = dataTokens(a.Raw(), a.Shape(), num)
	}
	if f := a.Factor(); f != 1 {
		t := numberToken(num(f))
		c.Factor = &t
	}
	if code, ok := a.Print(); ok {
		t := token.Token{Type: token.INT, Literal: strconv.Itoa(code)}
		c.Iprn = &t
	}
	return c
}

// dataTokens assigns each value the output line it belongs on.
func dataTokens(values []float64, shape []int, num func(float64) string) []token.Token {
	ncol, nrow := len(values), 1
	if len(shape) >= 2 {
		ncol, nrow = shape[len(shape)-1], shape[len(shape)-2]
	}
	toks := make([]token.Token, len(values))
	for i, v := range values {
		line := 1
		if ncol > 0 {
			row := i / ncol
			// Each plane of nrow rows is followed by one spare line.
			line = row + row/nrow + 1
		}
		toks[i] = numberToken(num(v))
		toks[i].Line = line
	}
	return toks
}

func numberToken(s string) token.Token {
	return token.Token{Type: token.FLOAT, Literal: s}
}
