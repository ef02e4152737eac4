package spec

import (
	"fmt"
	"strings"
)

// Kind is the kind of value a parameter holds.
type Kind int

const (
	Invalid Kind = iota
	Keyword
	Integer
	Double
	String
	Filename
	Record
	Keystring
	Array
	Table
)

var kindNames = [...]string{
	Invalid:   "invalid",
	Keyword:   "keyword",
	Integer:   "integer",
	Double:    "double precision",
	String:    "string",
	Filename:  "filename",
	Record:    "record",
	Keystring: "keystring",
	Array:     "array",
	Table:     "recarray",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsComposite reports whether parameters of this kind carry components.
func (k Kind) IsComposite() bool {
	return k == Record || k == Keystring || k == Table
}

// Reader is the MF6 reading routine declared for a parameter.
type Reader int

const (
	URWord Reader = iota
	U1DDbl
	U1DInt
	ReadArray
)

func (r Reader) String() string {
	switch r {
	case URWord:
		return "urword"
	case U1DDbl:
		return "u1ddbl"
	case U1DInt:
		return "u1dint"
	case ReadArray:
		return "readarray"
	}
	return fmt.Sprintf("reader(%d)", int(r))
}

// ParseReader returns the Reader named s. An empty string is urword.
func ParseReader(s string) (Reader, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "urword":
		return URWord, nil
	case "u1ddbl", "u1dbl":
		return U1DDbl, nil
	case "u1dint":
		return U1DInt, nil
	case "readarray":
		return ReadArray, nil
	}
	return URWord, fmt.Errorf("unknown reader %q", s)
}
