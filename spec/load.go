package spec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KimNorgaard/go-mf6io/internal/lexer"
	"github.com/KimNorgaard/go-mf6io/internal/parser"
)

// commonDFN holds shared description substitutions rather than parameters.
const commonDFN = "common.dfn"

// Load reads DFN text from r and returns the specification of the named
// component. Syntax errors are returned as errors.ParseErrors.
func Load(r io.Reader, name string) (*Component, error) {
	p := parser.NewDFN(lexer.NewDFN(r))
	tree := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs
	}
	return build(name, tree)
}

// LoadFile loads a single DFN file. The component is named after the
// file, without its extension (gwf-ic.dfn is component "gwf-ic").
func LoadFile(path string) (*Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	c, err := Load(f, name)
	if err != nil {
		return nil, fmt.Errorf("mf6io: loading %s: %w", path, err)
	}
	return c, nil
}

// LoadDir loads every *.dfn file in dir, except common.dfn, into a Set.
// Components are added in file name order.
func LoadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".dfn") || strings.EqualFold(name, commonDFN) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)

	set := NewSet()
	for _, path := range paths {
		c, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := set.Add(c); err != nil {
			return nil, err
		}
	}
	return set, nil
}
