package mf6io

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/KimNorgaard/go-mf6io/array"
	"github.com/KimNorgaard/go-mf6io/internal/ast"
	"github.com/KimNorgaard/go-mf6io/internal/lexer"
	"github.com/KimNorgaard/go-mf6io/internal/token"
	"github.com/KimNorgaard/go-mf6io/spec"
	"gonum.org/v1/gonum/floats"
)

// decodeArray reads an array parameter. Its shape is resolved against the
// scope at the moment the array is read. A LAYERED array carries one
// control record per layer, the layer count being the leading dimension.
func (s *decodeState) decodeArray(bs *spec.Block, b *Block, st *ast.ArrayStatement) error {
	p := bs.Param(st.Name)
	shape, err := s.resolve(p, st.Token.Line)
	if err != nil {
		return err
	}
	dtype := array.Float64
	if p.Elem == spec.Integer {
		dtype = array.Int
	}

	if !st.Layered {
		a, err := s.readControl(p, st.Controls[0], shape, dtype)
		if err != nil {
			return err
		}
		return s.set(b, p, st.Token, a)
	}

	if !p.Layered {
		return parseErrorf(st.Token, "array %s is not layered", p.Name)
	}
	if len(shape) == 0 {
		return parseErrorf(st.Token, "array %s has no shape to split into layers", p.Name)
	}
	if nlay := shape[0]; len(st.Controls) != nlay {
		return &ShapeMismatchError{
			Name: p.Name,
			Want: []int{nlay},
			Got:  []int{len(st.Controls)},
			Line: st.Token.Line,
			Msg:  fmt.Sprintf("LAYERED array needs %d control records, got %d", nlay, len(st.Controls)),
		}
	}
	layers := make([]*array.Array, len(st.Controls))
	for i, c := range st.Controls {
		if layers[i], err = s.readControl(p, c, shape[1:], dtype); err != nil {
			return err
		}
	}
	a, err := array.NewLayered(layers...)
	if err != nil {
		return annotate(err, p.Name, st.Token.Line)
	}
	return s.set(b, p, st.Token, a)
}

// readControl builds one array, or one layer, from a control record. The
// stored values have the factor applied.
func (s *decodeState) readControl(p *spec.Param, c *ast.ArrayControl, shape []int, dtype array.DType) (*array.Array, error) {
	factor := 1.0
	if c.Factor != nil {
		f, err := s.number(p, array.Float64, *c.Factor)
		if err != nil {
			return nil, err
		}
		if dtype == array.Int && f != math.Trunc(f) {
			return nil, parseErrorf(*c.Factor, "integer array %s: non-integral factor %q", p.Name, c.Factor.Literal)
		}
		factor = f
	}

	var a *array.Array
	switch c.How {
	case token.CONSTANT:
		v, err := s.number(p, dtype, c.Value)
		if err != nil {
			return nil, err
		}
		return array.NewConstant(v*factor, shape...).WithDType(dtype), nil

	case token.INTERNAL:
		values, err := s.numbers(p, dtype, c.Data)
		if err != nil {
			return nil, err
		}
		if err := checkCount(p, shape, len(values), c.Token.Line); err != nil {
			return nil, err
		}
		scale(factor, values)
		if a, err = array.NewInternal(values, shape...); err != nil {
			return nil, annotate(err, p.Name, c.Token.Line)
		}

	case token.OPENCLOSE:
		values, err := s.readExternal(p, dtype, c.Path.Literal)
		if err != nil {
			return nil, err
		}
		if err := checkCount(p, shape, len(values), c.Token.Line); err != nil {
			return nil, err
		}
		scale(factor, values)
		if a, err = array.NewExternal(c.Path.Literal, values, shape...); err != nil {
			return nil, annotate(err, p.Name, c.Token.Line)
		}

	default:
		return nil, parseErrorf(c.Token, "array %s: unexpected control %q", p.Name, c.Token.Literal)
	}

	a = a.WithDType(dtype)
	if c.Factor != nil {
		a = a.WithFactor(factor)
	}
	if c.Iprn != nil {
		code, err := strconv.Atoi(c.Iprn.Literal)
		if err != nil {
			return nil, parseErrorf(*c.Iprn, "array %s: invalid IPRN %q", p.Name, c.Iprn.Literal)
		}
		a = a.WithPrint(code)
	}
	return a, nil
}

// readExternal reads every number of an OPEN/CLOSE file. The file is
// closed before returning.
func (s *decodeState) readExternal(p *spec.Param, dtype array.DType, path string) ([]float64, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.opts.baseDir, full)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("mf6io: array %s: %w", p.Name, err)
	}
	defer f.Close()

	l := lexer.New(f)
	var values []float64
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		if tok.Type == token.NEWLINE {
			continue
		}
		if !tok.IsNumber() {
			return nil, parseErrorf(tok, "array %s: external file %s: unexpected %q", p.Name, path, tok.Literal)
		}
		v, err := s.number(p, dtype, tok)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	s.log.Debug("loaded external array", "name", p.Name, "path", full, "values", len(values))
	return values, nil
}

func (s *decodeState) numbers(p *spec.Param, dtype array.DType, toks []token.Token) ([]float64, error) {
	values := make([]float64, len(toks))
	for i, tok := range toks {
		v, err := s.number(p, dtype, tok)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (s *decodeState) number(p *spec.Param, dtype array.DType, tok token.Token) (float64, error) {
	v, err := lexer.ParseFloat(tok.Literal)
	if err != nil {
		return 0, parseErrorf(tok, "array %s: invalid number %q", p.Name, tok.Literal)
	}
	if dtype == array.Int && v != math.Trunc(v) {
		return 0, parseErrorf(tok, "integer array %s: non-integral value %q", p.Name, tok.Literal)
	}
	return v, nil
}

func checkCount(p *spec.Param, shape []int, n, line int) error {
	if want := product(shape); n != want {
		return &ShapeMismatchError{
			Name: p.Name,
			Want: shape,
			Got:  []int{n},
			Line: line,
			Msg:  fmt.Sprintf("shape %v needs %d values, got %d", shape, want, n),
		}
	}
	return nil
}

func scale(f float64, values []float64) {
	if f != 1 {
		floats.Scale(f, values)
	}
}

// annotate fills in the array name and line of a shape error raised by
// package array.
func annotate(err error, name string, line int) error {
	if sm, ok := err.(*ShapeMismatchError); ok {
		sm.Name = name
		sm.Line = line
	}
	return err
}
