// Package mapper copies decoded block values into Go structs and maps.
package mapper

import (
	"fmt"
	"reflect"
	"strings"
)

// Map copies values into the struct or map pointed to by v. Struct
// fields are matched by their `mf6` tag or, without one, by their name,
// ignoring case. Values without a matching field are ignored.
func Map(values map[string]any, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("mf6io: Bind(non-pointer %T or nil)", v)
	}
	var err error
	switch dst := rv.Elem(); dst.Kind() {
	case reflect.Struct:
		err = assignStruct(reflect.ValueOf(values), dst)
	case reflect.Map:
		err = assignMap(reflect.ValueOf(values), dst)
	default:
		return fmt.Errorf("mf6io: Bind(%T), want a pointer to a struct or map", v)
	}
	if err != nil {
		return fmt.Errorf("mf6io: %w", err)
	}
	return nil
}

// assign stores val in rv, converting between the value types of a
// decoded document and compatible Go types.
func assign(val any, rv reflect.Value) error {
	if !rv.CanSet() {
		return fmt.Errorf("cannot set value of type %s", rv.Type())
	}
	if val == nil {
		rv.SetZero()
		return nil
	}
	src := reflect.ValueOf(val)
	if src.Type().AssignableTo(rv.Type()) {
		rv.Set(src)
		return nil
	}

	switch src.Kind() {
	case reflect.Int:
		n := src.Int()
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.OverflowInt(n) {
				return fmt.Errorf("integer value %d overflows Go value of type %s", n, rv.Type())
			}
			rv.SetInt(n)
			return nil
		case reflect.Float32, reflect.Float64:
			rv.SetFloat(float64(n))
			return nil
		}
	case reflect.Float64:
		if rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
			rv.SetFloat(src.Float())
			return nil
		}
	case reflect.String:
		if rv.Kind() == reflect.String {
			rv.SetString(src.String())
			return nil
		}
	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			rv.SetBool(src.Bool())
			return nil
		}
	case reflect.Slice:
		if rv.Kind() == reflect.Slice {
			return assignSlice(src, rv)
		}
	case reflect.Map:
		if src.Type().Key().Kind() != reflect.String {
			break
		}
		switch rv.Kind() {
		case reflect.Struct:
			return assignStruct(src, rv)
		case reflect.Map:
			return assignMap(src, rv)
		case reflect.Pointer:
			if rv.Type().Elem().Kind() == reflect.Struct {
				p := reflect.New(rv.Type().Elem())
				if err := assignStruct(src, p.Elem()); err != nil {
					return err
				}
				rv.Set(p)
				return nil
			}
		}
	}
	return fmt.Errorf("cannot bind %T to Go value of type %s", val, rv.Type())
}

func assignSlice(src, rv reflect.Value) error {
	out := reflect.MakeSlice(rv.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		if err := assign(src.Index(i).Interface(), out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func assignMap(src, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("cannot bind to map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(mapType, src.Len()))
	}
	iter := src.MapRange()
	for iter.Next() {
		elem := reflect.New(mapType.Elem()).Elem()
		if err := assign(iter.Value().Interface(), elem); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(iter.Key().String()).Convert(mapType.Key()), elem)
	}
	return nil
}

func assignStruct(src, rv reflect.Value) error {
	fields := cachedFields(rv.Type())
	iter := src.MapRange()
	for iter.Next() {
		name := strings.ToLower(iter.Key().String())
		f, ok := fields[name]
		if !ok {
			continue
		}
		if err := assign(iter.Value().Interface(), rv.FieldByIndex(f.idx)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
