/*
Package mf6io reads and writes MODFLOW 6 input files.

An MF6 input file is a sequence of BEGIN/END blocks holding keywords,
scalars, filenames, records, tables and numeric arrays. What a block may
contain is described by a DFN definition file, loaded with package spec.
The decoder is driven entirely by that specification: the same code reads
every component, e.g. gwf-dis, gwf-ic or gwf-chd.

Decoding

	comp, err := spec.LoadFile("dfn/gwf-dis.dfn")
	if err != nil {
		// handle error
	}
	doc, err := mf6io.Unmarshal(data, comp)
	if err != nil {
		// handle error
	}
	nlay, _ := doc.Block("dimensions").Get("nlay") // int

Values are typed by their declared kind: bool for keywords, int, float64
and string for scalars, File for filenames, *array.Array for arrays,
Record for records and keystrings and *Table for recarrays. Repeating
records and the records of indexed blocks such as PERIOD are collected
into a []Record.

Array shapes may name dimensions such as nlay or nodes. They are resolved
against a Dimensions scope holding the integers decoded so far, plus any
scope passed in with WithDimensions:

	dec := mf6io.NewDecoder(disFile, dis)
	if _, err := dec.Decode(); err != nil {
		// handle error
	}
	ic, err := mf6io.ReadFile("model.ic", icSpec, mf6io.WithDimensions(dec.Dimensions()))

Encoding

Marshal writes a document back as input text. Decoding the output yields a
document equal to the one encoded:

	out, err := mf6io.Marshal(doc, comp, mf6io.Indent(4))

A nil specification decodes and encodes files generically, keeping every
line under its first word.
*/
package mf6io
