package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at the named level. The
// charmbracelet logger is also an slog.Handler, which is how the library
// receives it.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "mf6io",
		Level:  lvl,
	}), nil
}

func slogger(l *log.Logger) *slog.Logger {
	return slog.New(l)
}
