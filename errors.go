package mf6io

import "github.com/KimNorgaard/go-mf6io/errors"

// Error kinds reported by the decoder and encoder. They are defined in
// package errors and repeated here for convenience.
type (
	ParseError                   = errors.ParseError
	ParseErrors                  = errors.ParseErrors
	UnknownParameterError        = errors.UnknownParameterError
	ShapeMismatchError           = errors.ShapeMismatchError
	UnresolvedDimensionError     = errors.UnresolvedDimensionError
	CompositeExpansionError      = errors.CompositeExpansionError
	RepresentationViolationError = errors.RepresentationViolationError
)

// An EncodeError reports a document value that cannot be written as the
// kind its parameter declares.
type EncodeError struct {
	Block string
	Name  string
	Err   error
}

func (e *EncodeError) Error() string {
	return "mf6io: block " + e.Block + ": parameter " + e.Name + ": " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error { return e.Err }
