// Package marshaler converts decoded documents and component
// specifications into plain trees of maps, slices and scalars, and writes
// those trees as JSON, YAML or TOML.
package marshaler

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/KimNorgaard/go-mf6io"
	"github.com/KimNorgaard/go-mf6io/array"
	"github.com/KimNorgaard/go-mf6io/spec"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is an output format for plain trees.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ParseFormat returns the format named s, ignoring case. "yml" is
// accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", fmt.Errorf("mf6io: unknown output format %q, expected json, yaml or toml", s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string { return string(f) }

// Write encodes tree to w in format f.
func Write(w io.Writer, f Format, tree any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(tree)
	}
	return fmt.Errorf("mf6io: unknown output format %q", f)
}

// Document returns the plain tree of doc. Blocks are listed in document
// order, each with its name, its index when it has one, and its values.
// Blocks decoded without a specification also list their lines, each as
// a list of words.
func Document(doc *mf6io.Document) map[string]any {
	blocks := make([]any, 0, len(doc.Blocks()))
	for _, b := range doc.Blocks() {
		values := make(map[string]any, b.Len())
		for _, name := range b.Names() {
			v, _ := b.Get(name)
			values[name] = Value(v)
		}
		m := map[string]any{"name": b.Name, "values": values}
		if b.Index > 0 {
			m["index"] = b.Index
		}
		if lines := b.Lines(); lines != nil {
			words := make([]any, 0, len(lines))
			for _, l := range lines {
				if w := l.Words(); w != nil {
					words = append(words, w)
				}
			}
			m["lines"] = words
		}
		blocks = append(blocks, m)
	}
	out := map[string]any{"blocks": blocks}
	if doc.Component != "" {
		out["component"] = doc.Component
	}
	return out
}

// Value returns the plain form of a document value. Absent optional
// table cells are left out of their row.
func Value(v any) any {
	switch x := v.(type) {
	case bool, int, float64, string, []int, []float64, []string:
		return x
	case mf6io.File:
		return map[string]any{"mode": x.Mode.String(), "path": x.Path}
	case mf6io.Record:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = Value(e)
		}
		return m
	case []mf6io.Record:
		out := make([]any, len(x))
		for i, r := range x {
			out[i] = Value(r)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Value(e)
		}
		return out
	case *mf6io.Table:
		rows := make([]any, len(x.Rows))
		for i, row := range x.Rows {
			m := make(map[string]any, len(row))
			for j, cell := range row {
				if cell != nil {
					m[x.Columns[j]] = Value(cell)
				}
			}
			rows[i] = m
		}
		return map[string]any{"columns": x.Columns, "rows": rows}
	case *array.Array:
		return arrayTree(x)
	}
	return fmt.Sprint(v)
}

func arrayTree(a *array.Array) map[string]any {
	m := map[string]any{"shape": a.Shape(), "dtype": a.DType().String()}
	if a.Layered() {
		layers := make([]any, a.NLay())
		for i, l := range a.Layers() {
			layers[i] = arrayTree(l)
		}
		m["layers"] = layers
		return m
	}
	m["how"] = a.How().String()
	if v, ok := a.Constant(); ok {
		m["value"] = number(a.DType(), v)
		return m
	}
	if a.How() == array.External {
		m["path"] = a.Path()
	}
	if f := a.Factor(); f != 1 {
		m["factor"] = f
	}
	if code, ok := a.Print(); ok {
		m["iprn"] = code
	}
	values := a.Values()
	if a.DType() == array.Int {
		ints := make([]int, len(values))
		for i, v := range values {
			ints[i] = int(v)
		}
		m["values"] = ints
	} else {
		m["values"] = values
	}
	return m
}

func number(d array.DType, v float64) any {
	if d == array.Int {
		return int(v)
	}
	return v
}

// Component returns the plain tree of a specification: block name to
// parameter name to declared attributes. Composite parameters carry
// their constituents under "components".
func Component(c *spec.Component) map[string]any {
	out := make(map[string]any, len(c.Blocks))
	for _, b := range c.Blocks {
		params := make(map[string]any, len(b.Params)+1)
		if b.Indexed {
			params[b.IndexName] = map[string]any{"type": "integer", "block_variable": true}
		}
		for _, p := range b.Params {
			params[p.Name] = param(p)
		}
		out[b.Name] = params
	}
	return out
}

func param(p *spec.Param) map[string]any {
	m := make(map[string]any, len(p.Attrs)+1)
	maps.Copy(m, p.Attrs)
	delete(m, "name")
	delete(m, "block")
	if len(p.Components) > 0 {
		comps := make(map[string]any, len(p.Components))
		for _, c := range p.Components {
			comps[c.Name] = param(c)
		}
		m["components"] = comps
	}
	return m
}

// Combined nests specifications by model or package prefix and
// subcomponent, so gwf-dis is found under gwf then dis. A name without
// a dash is kept at the top level.
func Combined(components []*spec.Component) map[string]any {
	out := make(map[string]any)
	for _, c := range components {
		prefix, sub, ok := strings.Cut(c.Name, "-")
		if !ok {
			out[c.Name] = Component(c)
			continue
		}
		group, _ := out[prefix].(map[string]any)
		if group == nil {
			group = make(map[string]any)
			out[prefix] = group
		}
		group[sub] = Component(c)
	}
	return out
}
