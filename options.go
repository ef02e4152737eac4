package mf6io

import (
	"fmt"
	"log/slog"
	"strings"
)

// Option configures a Decoder or an Encoder. Options that do not apply to
// one of them are ignored there.
type Option func(*options) error

type options struct {
	indent          *int
	separator       string
	dims            Dimensions
	baseDir         string
	logger          *slog.Logger
	disallowUnknown bool
}

func newOptions(opts []Option) (*options, error) {
	o := &options{separator: " "}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o, nil
}

// Indent sets the number of spaces per nesting level used by the encoder.
// The default is 2; 0 disables indentation.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("mf6io: indent must not be negative, got %d", n)
		}
		o.indent = &n
		return nil
	}
}

// Separator sets the text written between the words of a line. It must
// be made of spaces, tabs or commas.
func Separator(s string) Option {
	return func(o *options) error {
		if s == "" || strings.Trim(s, " \t,") != "" {
			return fmt.Errorf("mf6io: separator %q must consist of spaces, tabs or commas", s)
		}
		o.separator = s
		return nil
	}
}

// WithDimensions seeds the decoder with dimensions declared by an
// enclosing scope, such as the discretization package of a model.
func WithDimensions(d Dimensions) Option {
	return func(o *options) error {
		o.dims = d
		return nil
	}
}

// BaseDir sets the directory relative OPEN/CLOSE paths are resolved
// against. The default is the current directory.
func BaseDir(dir string) Option {
	return func(o *options) error {
		o.baseDir = dir
		return nil
	}
}

// Logger sets the logger receiving debug events. By default nothing is
// logged.
func Logger(l *slog.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return fmt.Errorf("mf6io: logger must not be nil")
		}
		o.logger = l
		return nil
	}
}

// DisallowUnknown makes the decoder fail on blocks and lines the
// specification does not declare instead of skipping them.
func DisallowUnknown() Option {
	return func(o *options) error {
		o.disallowUnknown = true
		return nil
	}
}
