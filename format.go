package mf6io

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-mf6io/spec"
)

// formatDouble writes v so that it always reads back as a double: the
// text carries a decimal point or an exponent.
func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// formatInteger writes an integral float64 without a fraction.
func formatInteger(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatScalar renders v as the single word of a scalar of kind k.
func formatScalar(k spec.Kind, v any) (string, error) {
	switch k {
	case spec.Integer:
		if n, ok := v.(int); ok {
			return strconv.Itoa(n), nil
		}
	case spec.Double:
		if f, ok := v.(float64); ok {
			return formatDouble(f), nil
		}
	case spec.String:
		if s, ok := v.(string); ok {
			return word(s)
		}
	}
	return "", fmt.Errorf("cannot encode %T as %s", v, k)
}

// formatList renders a list value of element kind k.
func formatList(k spec.Kind, v any) ([]string, error) {
	var out []string
	switch x := v.(type) {
	case []int:
		if k != spec.Integer {
			break
		}
		for _, n := range x {
			out = append(out, strconv.Itoa(n))
		}
		return out, nil
	case []float64:
		if k != spec.Double {
			break
		}
		for _, f := range x {
			out = append(out, formatDouble(f))
		}
		return out, nil
	case []string:
		if k != spec.String {
			break
		}
		for _, s := range x {
			w, err := word(s)
			if err != nil {
				return nil, err
			}
			out = append(out, w)
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot encode %T as a list of %s", v, k)
}

// formatLoose renders a value of a document decoded without a
// specification.
func formatLoose(v any) ([]string, error) {
	switch x := v.(type) {
	case bool:
		return nil, nil
	case int:
		return []string{strconv.Itoa(x)}, nil
	case float64:
		return []string{formatDouble(x)}, nil
	case string:
		w, err := word(x)
		if err != nil {
			return nil, err
		}
		return []string{w}, nil
	case File:
		return []string{x.Mode.String(), x.Path}, nil
	case []any:
		var out []string
		for _, e := range x {
			words, err := formatLoose(e)
			if err != nil {
				return nil, err
			}
			out = append(out, words...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot encode %T", v)
}

// word checks that s survives tokenization as a single word.
func word(s string) (string, error) {
	if s == "" || strings.ContainsAny(s, " \t\r\n,#!") || strings.Contains(s, "//") {
		return "", fmt.Errorf("string %q cannot be written as a single word", s)
	}
	return s, nil
}
