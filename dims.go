package mf6io

import (
	"maps"
	"slices"
	"strings"
)

// Dimensions is an immutable set of named extents used to resolve
// symbolic array and list shapes. With returns a new value and leaves the
// receiver untouched, so a scope can be handed to several decoders.
//
// The zero value is an empty scope.
type Dimensions struct {
	m map[string]int
}

// NewDimensions returns a scope holding the given extents.
func NewDimensions(extents map[string]int) Dimensions {
	d := Dimensions{m: make(map[string]int, len(extents))}
	for k, v := range extents {
		d.m[strings.ToLower(k)] = v
	}
	return d
}

// With returns a copy of d with name bound to v.
func (d Dimensions) With(name string, v int) Dimensions {
	m := make(map[string]int, len(d.m)+1)
	maps.Copy(m, d.m)
	m[strings.ToLower(name)] = v
	return Dimensions{m: m}
}

// Lookup returns the extent bound to name. The grid extents ncpl and
// nodes are derived from nrow, ncol and nlay when they are not bound
// directly.
func (d Dimensions) Lookup(name string) (int, bool) {
	name = strings.ToLower(name)
	if v, ok := d.m[name]; ok {
		return v, true
	}
	switch name {
	case "ncpl":
		nrow, ok1 := d.m["nrow"]
		ncol, ok2 := d.m["ncol"]
		if ok1 && ok2 {
			return nrow * ncol, true
		}
	case "nodes":
		nlay, ok := d.m["nlay"]
		if !ok {
			return 0, false
		}
		if ncpl, ok := d.Lookup("ncpl"); ok {
			return nlay * ncpl, true
		}
	}
	return 0, false
}

// Names returns the bound names in sorted order.
func (d Dimensions) Names() []string {
	return slices.Sorted(maps.Keys(d.m))
}

// Len returns the number of bound names.
func (d Dimensions) Len() int { return len(d.m) }
