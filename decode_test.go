package mf6io_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-mf6io"
	"github.com/KimNorgaard/go-mf6io/array"
	"github.com/KimNorgaard/go-mf6io/internal/testutil"
	"github.com/KimNorgaard/go-mf6io/spec"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// loadComponent loads an embedded DFN file, named after its stem.
func loadComponent(t *testing.T, file string) *spec.Component {
	t.Helper()
	data, err := testutil.ReadTestData(file)
	require.NoError(t, err)
	comp, err := spec.Load(bytes.NewReader(data), strings.TrimSuffix(file, ".dfn"))
	require.NoError(t, err)
	return comp
}

// inlineComponent builds a component from DFN text.
func inlineComponent(t *testing.T, dfn string) *spec.Component {
	t.Helper()
	comp, err := spec.Load(strings.NewReader(dfn), "test")
	require.NoError(t, err)
	return comp
}

func readInput(t *testing.T, name string) []byte {
	t.Helper()
	data, err := testutil.ReadTestData(name)
	require.NoError(t, err)
	return data
}

func get(t *testing.T, b *mf6io.Block, name string) any {
	t.Helper()
	require.NotNil(t, b)
	v, ok := b.Get(name)
	require.True(t, ok, "block %s has no %s", b.Name, name)
	return v
}

// discretization decodes the embedded DIS file, whose idomain array is
// read from a copy of idomain.txt in a temporary directory.
func discretization(t *testing.T) (*mf6io.Document, mf6io.Dimensions, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, testutil.CopyTestData(dir, "idomain.txt"))
	dec := mf6io.NewDecoder(bytes.NewReader(readInput(t, "model.dis")), loadComponent(t, "gwf-dis.dfn"), mf6io.BaseDir(dir))
	doc, err := dec.Decode()
	require.NoError(t, err)
	return doc, dec.Dimensions(), dir
}

const scalarsDFN = `block options
name k
type keyword

block options
name i
type integer

block options
name d
type double precision

block options
name s
type string

block options
name f
type filename
`

func TestDecodeScalars(t *testing.T) {
	input := "BEGIN OPTIONS\n  K\n  I 1\n  D 1.0\n  S value\n  F FILEIN /tmp/x\nEND OPTIONS\n"
	doc, err := mf6io.Unmarshal([]byte(input), inlineComponent(t, scalarsDFN))
	require.NoError(t, err)

	b := doc.Block("options")
	require.Equal(t, true, get(t, b, "k"))
	require.Equal(t, 1, get(t, b, "i"))
	require.Equal(t, 1.0, get(t, b, "d"))
	require.Equal(t, "value", get(t, b, "s"))
	require.Equal(t, mf6io.File{Mode: mf6io.FileIn, Path: "/tmp/x"}, get(t, b, "f"))
	require.Equal(t, []string{"k", "i", "d", "s", "f"}, b.Names())
}

func TestDecodeAbsentKeywordIsFalse(t *testing.T) {
	doc, err := mf6io.Unmarshal([]byte("BEGIN OPTIONS\n  I 2\nEND OPTIONS\n"), inlineComponent(t, scalarsDFN))
	require.NoError(t, err)
	b := doc.Block("options")
	require.Equal(t, false, get(t, b, "k"))
	_, ok := b.Get("d")
	require.False(t, ok, "no default declared")
}

func TestDecodeInternalArray(t *testing.T) {
	input := "BEGIN GRIDDATA\nA\n  INTERNAL\n  1.0 2.0 3.0\nEND GRIDDATA\n"
	dfn := func(shape string) string {
		return "block griddata\nname a\ntype double precision\nreader readarray\nshape " + shape + "\n"
	}

	doc, err := mf6io.Unmarshal([]byte(input), inlineComponent(t, dfn("(3)")))
	require.NoError(t, err)
	a := get(t, doc.Block("griddata"), "a").(*array.Array)
	require.Equal(t, array.Internal, a.How())
	require.Equal(t, []int{3}, a.Shape())
	require.Equal(t, []float64{1, 2, 3}, a.Values())

	_, err = mf6io.Unmarshal([]byte(input), inlineComponent(t, dfn("(2)")))
	var sm *mf6io.ShapeMismatchError
	require.ErrorAs(t, err, &sm)
	require.Equal(t, "a", sm.Name)
	require.Equal(t, []int{2}, sm.Want)
	require.Equal(t, []int{3}, sm.Got)
	require.Equal(t, 3, sm.Line)
}

func TestDecodeLayeredConstants(t *testing.T) {
	comp := inlineComponent(t, "block griddata\nname a\ntype double precision\nreader readarray\nshape (3)\nlayered true\n")
	input := "BEGIN GRIDDATA\nA  LAYERED\n  CONSTANT 3.0\n  CONSTANT 2.0\n  CONSTANT 1.0\nEND GRIDDATA\n"

	doc, err := mf6io.Unmarshal([]byte(input), comp)
	require.NoError(t, err)
	a := get(t, doc.Block("griddata"), "a").(*array.Array)
	require.True(t, a.Layered())
	require.Equal(t, 3, a.NLay())
	require.Equal(t, []float64{3, 2, 1}, a.Values())
	for i, want := range []float64{3, 2, 1} {
		v, ok := a.Layer(i).Constant()
		require.True(t, ok, "layer %d", i+1)
		require.Equal(t, want, v)
	}

	_, err = mf6io.Unmarshal([]byte("BEGIN GRIDDATA\nA LAYERED\n  CONSTANT 3.0\n  CONSTANT 2.0\nEND GRIDDATA\n"), comp)
	var sm *mf6io.ShapeMismatchError
	require.ErrorAs(t, err, &sm)
	require.EqualError(t, err, `mf6io: line 2: array "a": LAYERED array needs 3 control records, got 2`)
}

func TestDecodeResolvesDimensionsInOrder(t *testing.T) {
	dfn := `block dimensions
name nodes
type integer

block griddata
name k
type double precision
reader readarray
shape (nodes)
`
	comp := inlineComponent(t, dfn)

	doc, err := mf6io.Unmarshal([]byte("BEGIN DIMENSIONS\n  NODES 4\nEND DIMENSIONS\nBEGIN GRIDDATA\n  K\n    CONSTANT 1.5\nEND GRIDDATA\n"), comp)
	require.NoError(t, err)
	require.Equal(t, []int{4}, get(t, doc.Block("griddata"), "k").(*array.Array).Shape())

	_, err = mf6io.Unmarshal([]byte("BEGIN GRIDDATA\n  K\n    CONSTANT 1.5\nEND GRIDDATA\nBEGIN DIMENSIONS\n  NODES 4\nEND DIMENSIONS\n"), comp)
	var ude *mf6io.UnresolvedDimensionError
	require.ErrorAs(t, err, &ude)
	require.Equal(t, "nodes", ude.Dim)
	require.Equal(t, "k", ude.Name)
	require.Equal(t, 2, ude.Line)

	doc, err = mf6io.Unmarshal([]byte("BEGIN GRIDDATA\n  K\n    CONSTANT 1.5\nEND GRIDDATA\n"), comp,
		mf6io.WithDimensions(mf6io.NewDimensions(map[string]int{"nodes": 2})))
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 1.5}, get(t, doc.Block("griddata"), "k").(*array.Array).Values())
}

func TestDecodeDiscretization(t *testing.T) {
	doc, dims, _ := discretization(t)
	require.Equal(t, "gwf-dis", doc.Component)

	opts := doc.Block("options")
	require.Equal(t, "meters", get(t, opts, "length_units"))
	require.Equal(t, false, get(t, opts, "nogrb"))
	require.Equal(t, 100.0, get(t, opts, "xorigin"))
	require.Equal(t, 0.0, get(t, opts, "yorigin"), "declared default")
	_, ok := opts.Get("angrot")
	require.False(t, ok)

	dim := doc.Block("dimensions")
	require.Equal(t, 2, get(t, dim, "nlay"))
	require.Equal(t, 3, get(t, dim, "nrow"))
	require.Equal(t, 4, get(t, dim, "ncol"))

	grid := doc.Block("griddata")
	delr := get(t, grid, "delr").(*array.Array)
	v, ok := delr.Constant()
	require.True(t, ok)
	require.Equal(t, 10.0, v)
	require.Equal(t, []int{4}, delr.Shape())

	delc := get(t, grid, "delc").(*array.Array)
	require.Equal(t, []float64{10, 10, 5}, delc.Values())
	require.Equal(t, []float64{5, 5, 2.5}, delc.Raw())
	require.Equal(t, 2.0, delc.Factor())

	top := get(t, grid, "top").(*array.Array)
	require.Equal(t, []int{3, 4}, top.Shape())
	require.Equal(t, 11.0, top.At(1, 2))
	code, ok := top.Print()
	require.True(t, ok)
	require.Equal(t, 1, code)

	botm := get(t, grid, "botm").(*array.Array)
	require.Equal(t, []int{2, 3, 4}, botm.Shape())
	require.Equal(t, -10.0, botm.At(1, 2, 3))
	require.Equal(t, array.Constant, botm.How())

	idomain := get(t, grid, "idomain").(*array.Array)
	require.Equal(t, array.External, idomain.How())
	require.Equal(t, array.Int, idomain.DType())
	require.Equal(t, "idomain.txt", idomain.Path())
	require.Equal(t, 0.0, idomain.At(0, 2, 3))
	require.Equal(t, 21.0, idomain.Sum())

	n, ok := dims.Lookup("nodes")
	require.True(t, ok)
	require.Equal(t, 24, n)
}

func TestDecodeInitialConditions(t *testing.T) {
	comp := loadComponent(t, "gwf-ic.dfn")
	input := readInput(t, "model.ic")

	_, err := mf6io.Unmarshal(input, comp)
	var ude *mf6io.UnresolvedDimensionError
	require.ErrorAs(t, err, &ude)
	require.Equal(t, "nodes", ude.Dim)

	_, dims, _ := discretization(t)
	doc, err := mf6io.Unmarshal(input, comp, mf6io.WithDimensions(dims))
	require.NoError(t, err)
	require.Equal(t, true, get(t, doc.Block("options"), "export_array_ascii"))
	strt := get(t, doc.Block("griddata"), "strt").(*array.Array)
	require.Equal(t, []int{24}, strt.Shape())
	require.Equal(t, 240.0, strt.Sum())
}

func TestDecodeOutputControl(t *testing.T) {
	doc, err := mf6io.Unmarshal(readInput(t, "model.oc"), loadComponent(t, "gwf-oc.dfn"))
	require.NoError(t, err)

	opts := doc.Block("options")
	want := mf6io.Record{"budget": true, "fileout": true, "budgetfile": "Model.cbc"}
	if diff := cmp.Diff(want, get(t, opts, "budget_filerecord")); diff != "" {
		t.Errorf("budget_filerecord mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "Model.hds", get(t, opts, "head_filerecord").(mf6io.Record)["headfile"])

	require.Len(t, doc.Instances("period"), 2)
	require.Nil(t, doc.BlockAt("period", 2))

	p1 := doc.BlockAt("period", 1)
	wantSave := []mf6io.Record{
		{"save": true, "rtype": "head", "ocsetting": mf6io.Record{"all": true}},
		{"save": true, "rtype": "budget", "ocsetting": mf6io.Record{"last": true}},
	}
	if diff := cmp.Diff(wantSave, get(t, p1, "saverecord")); diff != "" {
		t.Errorf("saverecord mismatch (-want +got):\n%s", diff)
	}
	wantPrint := []mf6io.Record{
		{"print": true, "rtype": "budget", "ocsetting": mf6io.Record{"frequency": 2}},
	}
	if diff := cmp.Diff(wantPrint, get(t, p1, "printrecord")); diff != "" {
		t.Errorf("printrecord mismatch (-want +got):\n%s", diff)
	}

	p3 := doc.BlockAt("period", 3)
	save := get(t, p3, "saverecord").([]mf6io.Record)
	require.Equal(t, mf6io.Record{"steps": []int{1, 4, 7}}, save[0]["ocsetting"])
	_, ok := p3.Get("printrecord")
	require.False(t, ok)
}

func TestDecodeKeystringTakesOneAlternative(t *testing.T) {
	comp := loadComponent(t, "gwf-oc.dfn")
	tests := []struct {
		line string
		want mf6io.Record
	}{
		{"SAVE HEAD ALL", mf6io.Record{"all": true}},
		{"SAVE HEAD FIRST", mf6io.Record{"first": true}},
		{"SAVE HEAD LAST", mf6io.Record{"last": true}},
		{"SAVE HEAD FREQUENCY 5", mf6io.Record{"frequency": 5}},
		{"SAVE HEAD STEPS 2 3", mf6io.Record{"steps": []int{2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			doc, err := mf6io.Unmarshal([]byte("BEGIN PERIOD 1\n  "+tt.line+"\nEND PERIOD\n"), comp)
			require.NoError(t, err)
			rec := get(t, doc.BlockAt("period", 1), "saverecord").([]mf6io.Record)[0]
			setting := rec["ocsetting"].(mf6io.Record)
			require.Len(t, setting, 1)
			require.Equal(t, tt.want, setting)
		})
	}

	_, err := mf6io.Unmarshal([]byte("BEGIN PERIOD 1\n  SAVE HEAD SOMETIMES\nEND PERIOD\n"), comp)
	var ce *mf6io.CompositeExpansionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "ocsetting", ce.Name)
	require.Equal(t, 2, ce.Line)
}

func TestDecodeConstantHead(t *testing.T) {
	comp := loadComponent(t, "gwf-chd.dfn")
	dims := mf6io.NewDimensions(map[string]int{"ncelldim": 3})
	dec := mf6io.NewDecoder(bytes.NewReader(readInput(t, "model.chd")), comp, mf6io.WithDimensions(dims))
	doc, err := dec.Decode()
	require.NoError(t, err)

	opts := doc.Block("options")
	require.Equal(t, []string{"conc"}, get(t, opts, "auxiliary"))
	require.Equal(t, true, get(t, opts, "boundnames"))
	require.Equal(t, false, get(t, opts, "print_input"))
	require.Equal(t, mf6io.Record{"ts6": true, "filein": true, "ts6_filename": "chd.ts"}, get(t, opts, "ts_filerecord"))

	naux, ok := dec.Dimensions().Lookup("naux")
	require.True(t, ok)
	require.Equal(t, 1, naux)
	_, ok = dims.Lookup("naux")
	require.False(t, ok, "the seeded scope is not modified")

	spd := get(t, doc.BlockAt("period", 1), "stress_period_data").(*mf6io.Table)
	want := &mf6io.Table{
		Columns: []string{"cellid", "head", "aux", "boundname"},
		Rows: [][]any{
			{[]int{1, 1, 1}, 10.0, []float64{0.5}, "west"},
			{[]int{2, 3, 4}, 5.0, []float64{0.0}, "east"},
		},
	}
	if diff := cmp.Diff(want, spd); diff != "" {
		t.Errorf("stress_period_data mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []any{"west", "east"}, spd.Column("boundname"))
}

func TestDecodeTableOptionalColumns(t *testing.T) {
	comp := loadComponent(t, "gwf-chd.dfn")
	input := "BEGIN PERIOD 2\n  1 2 3 4.0\n  3 2 1 1.0 well\nEND PERIOD\n"
	doc, err := mf6io.Unmarshal([]byte(input), comp,
		mf6io.WithDimensions(mf6io.NewDimensions(map[string]int{"ncelldim": 3})))
	require.NoError(t, err)

	spd := get(t, doc.BlockAt("period", 2), "stress_period_data").(*mf6io.Table)
	require.Equal(t, 2, spd.Len())
	require.Equal(t, []any{[]int{1, 2, 3}, 4.0, nil, nil}, spd.Row(0))
	require.Equal(t, []any{[]int{3, 2, 1}, 1.0, nil, "well"}, spd.Row(1))

	_, err = mf6io.Unmarshal([]byte(input), comp)
	var ude *mf6io.UnresolvedDimensionError
	require.ErrorAs(t, err, &ude)
	require.Equal(t, "ncelldim", ude.Dim)
	require.Equal(t, "cellid", ude.Name)
}

func TestDecodeExternalFile(t *testing.T) {
	comp := inlineComponent(t, "block griddata\nname k\ntype double precision\nreader readarray\nshape (2, 2)\n")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "k.txt"), []byte("1.0 2.0\n3.0 4.0 # trailing comment\n"), 0o644))
	input := []byte("BEGIN GRIDDATA\n  K\n    OPEN/CLOSE k.txt FACTOR 0.5\nEND GRIDDATA\n")

	doc, err := mf6io.Unmarshal(input, comp, mf6io.BaseDir(dir))
	require.NoError(t, err)
	k := get(t, doc.Block("griddata"), "k").(*array.Array)
	require.Equal(t, []float64{0.5, 1, 1.5, 2}, k.Values())
	require.Equal(t, "k.txt", k.Path())

	abs := []byte("BEGIN GRIDDATA\n  K\n    EXTERNAL " + filepath.Join(dir, "k.txt") + "\nEND GRIDDATA\n")
	doc, err = mf6io.Unmarshal(abs, comp)
	require.NoError(t, err)
	require.Equal(t, 10.0, get(t, doc.Block("griddata"), "k").(*array.Array).Sum())

	_, err = mf6io.Unmarshal(input, comp, mf6io.BaseDir(t.TempDir()))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "k.txt"), []byte("1.0 2.0 3.0\n"), 0o644))
	_, err = mf6io.Unmarshal(input, comp, mf6io.BaseDir(dir))
	var sm *mf6io.ShapeMismatchError
	require.ErrorAs(t, err, &sm)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "k.txt"), []byte("1.0 two 3.0 4.0\n"), 0o644))
	_, err = mf6io.Unmarshal(input, comp, mf6io.BaseDir(dir))
	require.ErrorContains(t, err, `array k: external file k.txt: unexpected "two"`)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, testutil.CopyTestData(dir, "model.dis", "idomain.txt"))
	doc, err := mf6io.ReadFile(filepath.Join(dir, "model.dis"), loadComponent(t, "gwf-dis.dfn"))
	require.NoError(t, err)
	require.Equal(t, array.External, get(t, doc.Block("griddata"), "idomain").(*array.Array).How())

	_, err = mf6io.ReadFile(filepath.Join(dir, "missing.dis"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeUnknownNames(t *testing.T) {
	comp := inlineComponent(t, scalarsDFN)
	input := []byte("BEGIN OPTIONS\n  K\n  COLOUR blue\nEND OPTIONS\nBEGIN EXTRAS\n  X 1\nEND EXTRAS\n")

	doc, err := mf6io.Unmarshal(input, comp)
	require.NoError(t, err)
	require.Len(t, doc.Blocks(), 1)
	_, ok := doc.Block("options").Get("colour")
	require.False(t, ok)

	_, err = mf6io.Unmarshal(input, comp, mf6io.DisallowUnknown())
	var up *mf6io.UnknownParameterError
	require.ErrorAs(t, err, &up)
	require.Equal(t, "colour", up.Name)
	require.EqualError(t, err, `mf6io: line 3: unknown parameter "colour" in block "options"`)

	_, err = mf6io.Unmarshal([]byte("BEGIN EXTRAS\n  X 1\nEND EXTRAS\n"), comp, mf6io.DisallowUnknown())
	require.EqualError(t, err, `mf6io: line 1: unknown block "extras"`)
}

func TestDecodeErrors(t *testing.T) {
	dis := loadComponent(t, "gwf-dis.dfn")
	oc := loadComponent(t, "gwf-oc.dfn")
	scalars := inlineComponent(t, scalarsDFN)
	dims := mf6io.WithDimensions(mf6io.NewDimensions(map[string]int{"nlay": 1, "nrow": 1, "ncol": 2}))

	tests := []struct {
		name    string
		comp    *spec.Component
		input   string
		message string
	}{
		{"duplicate parameter", scalars, "BEGIN OPTIONS\n  I 1\n  I 2\nEND OPTIONS\n", `duplicate parameter "i" in block "options"`},
		{"keyword with value", scalars, "BEGIN OPTIONS\n  K yes\nEND OPTIONS\n", `keyword k takes no value, got "yes"`},
		{"integer expected", scalars, "BEGIN OPTIONS\n  I 1.5\nEND OPTIONS\n", `i: expected an integer, got "1.5"`},
		{"number expected", scalars, "BEGIN OPTIONS\n  D abc\nEND OPTIONS\n", `d: expected a number, got "abc"`},
		{"too many values", scalars, "BEGIN OPTIONS\n  S a b\nEND OPTIONS\n", `s: expected a single value, got 2`},
		{"invalid choice", dis, "BEGIN OPTIONS\n  LENGTH_UNITS furlongs\nEND OPTIONS\n", `invalid value "furlongs" for length_units, expected one of feet, meters, centimeters, unknown`},
		{"missing index", oc, "BEGIN PERIOD\n  SAVE HEAD ALL\nEND PERIOD\n", `block "period" requires an index`},
		{"unexpected index", oc, "BEGIN OPTIONS 2\nEND OPTIONS\n", `block "options" does not take an index`},
		{"duplicate block", oc, "BEGIN PERIOD 1\nEND PERIOD\nBEGIN PERIOD 1\nEND PERIOD\n", `duplicate block "period" 1`},
		{"invalid record value", oc, "BEGIN PERIOD 1\n  SAVE DRAWDOWN ALL\nEND PERIOD\n", `invalid value "drawdown" for rtype, expected one of budget, head`},
		{"record leftovers", oc, "BEGIN OPTIONS\n  BUDGET FILEOUT a.cbc extra\nEND OPTIONS\n", `record budget_filerecord: unexpected "extra"`},
		{"record missing component", oc, "BEGIN OPTIONS\n  BUDGET FILEOUT\nEND OPTIONS\n", `record budget_filerecord: missing budgetfile`},
		{"non-integral integer array", dis, "BEGIN GRIDDATA\n  IDOMAIN\n    INTERNAL\n      1 0.5\nEND GRIDDATA\n", `integer array idomain: non-integral value "0.5"`},
		{"not layered", dis, "BEGIN GRIDDATA\n  TOP LAYERED\n    CONSTANT 1.0\nEND GRIDDATA\n", `array top is not layered`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mf6io.Unmarshal([]byte(tt.input), tt.comp, dims)
			var pe mf6io.ParseError
			require.ErrorAs(t, err, &pe)
			require.Equal(t, tt.message, pe.Message)
		})
	}
}

func TestDecodeSyntaxErrors(t *testing.T) {
	_, err := mf6io.Unmarshal([]byte("BEGIN OPTIONS\n  K\nEND DIMENSIONS\nstray\n"), inlineComponent(t, scalarsDFN))
	var errs mf6io.ParseErrors
	require.ErrorAs(t, err, &errs)
	require.GreaterOrEqual(t, len(errs), 2)
	require.Equal(t, "END DIMENSIONS does not match BEGIN OPTIONS", errs[0].Message)
}

func TestDecodeLoose(t *testing.T) {
	input := "BEGIN OPTIONS\n  SAVE_FLOWS\n  XORIGIN 1.5\n  NAME Well-1\n  TDIS6 FILEIN sim.tdis\n  AUX a b 3\nEND OPTIONS\nBEGIN PERIOD 2\n  NLAY 4\nEND PERIOD\n"
	doc, err := mf6io.Unmarshal([]byte(input), nil)
	require.NoError(t, err)
	require.Equal(t, "", doc.Component)

	opts := doc.Block("options")
	require.Equal(t, []string{"save_flows", "xorigin", "name", "tdis6", "aux"}, opts.Names())
	require.Equal(t, true, get(t, opts, "save_flows"))
	require.Equal(t, 1.5, get(t, opts, "xorigin"))
	require.Equal(t, "Well-1", get(t, opts, "name"))
	require.Equal(t, mf6io.File{Mode: mf6io.FileIn, Path: "sim.tdis"}, get(t, opts, "tdis6"))
	require.Equal(t, []any{"a", "b", 3}, get(t, opts, "aux"))

	p := doc.BlockAt("period", 2)
	require.Equal(t, 4, get(t, p, "nlay"))
	require.Equal(t, []mf6io.Line{{Head: "NLAY", Value: 4}}, p.Lines())
}

func TestDecodeLooseRepeatedWords(t *testing.T) {
	input := `BEGIN PERIOD 1
  SAVE HEAD ALL
  SAVE BUDGET LAST
  1 2 3 -4.5
  1 2 4 -4.0
END PERIOD
`
	doc, err := mf6io.Unmarshal([]byte(input), nil)
	require.NoError(t, err)

	p := doc.BlockAt("period", 1)
	require.Equal(t, []mf6io.Line{
		{Head: "SAVE", Value: []any{"HEAD", "ALL"}},
		{Head: "SAVE", Value: []any{"BUDGET", "LAST"}},
		{Head: 1, Value: []any{2, 3, -4.5}},
		{Head: 1, Value: []any{2, 4, -4.0}},
	}, p.Lines())
	require.Equal(t, []string{"save"}, p.Names())
	require.Equal(t, []any{"BUDGET", "LAST"}, get(t, p, "save"))

	out, err := mf6io.Marshal(doc, nil)
	require.NoError(t, err)
	require.Equal(t, `BEGIN PERIOD 1
  SAVE HEAD ALL
  SAVE BUDGET LAST
  1 2 3 -4.5
  1 2 4 -4.0
END PERIOD
`, string(out))
}

func TestDecodeInvalidOption(t *testing.T) {
	_, err := mf6io.Unmarshal([]byte(""), nil, mf6io.Logger(nil))
	require.EqualError(t, err, "mf6io: logger must not be nil")
}
