package mapper

import (
	"reflect"
	"strings"
	"sync"
)

// field is a cached struct field.
type field struct {
	name string
	idx  []int
}

// fieldCache maps a struct type to its bindable fields.
var fieldCache sync.Map

// cachedFields returns the exported fields of t keyed by lower-cased
// parameter name. The name comes from the `mf6` tag, falling back to the
// field name. Fields tagged `mf6:"-"` and embedded fields are skipped.
func cachedFields(t reflect.Type) map[string]field {
	if f, ok := fieldCache.Load(t); ok {
		return f.(map[string]field)
	}

	fields := make(map[string]field)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("mf6")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}
		name = strings.ToLower(name)
		fields[name] = field{name: name, idx: sf.Index}
	}

	f, _ := fieldCache.LoadOrStore(t, fields)
	return f.(map[string]field)
}
