package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/KimNorgaard/go-mf6io"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		scope    scopeFlags
		watch    bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that input files decode against their components",
		Long: `validate decodes each file and reports "ok" or the errors found. It fails
when any file is invalid. With --watch the files are checked again whenever
they change, until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			check := func(paths []string) int {
				dims, err := a.dimensions(scope.dis, scope.dims)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", scope.dis, err)
					return len(paths)
				}
				failed := 0
				for _, path := range paths {
					if !a.validate(out, path, scope.component, dims) {
						failed++
					}
				}
				return failed
			}

			if !watch {
				if n := check(args); n > 0 {
					return fmt.Errorf("%d of %d files are invalid", n, len(args))
				}
				return nil
			}

			w, err := newFileWatcher(args, debounce, a.logger)
			if err != nil {
				return err
			}
			check(args)
			return w.run(cmd.Context(), func(changed []string) { check(changed) })
		},
	}
	scope.register(cmd)
	flags := cmd.Flags()
	flags.BoolVar(&watch, "watch", false, "check the files again when they change")
	flags.DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before a changed file is checked")
	return cmd
}

// validate reports on one file and tells whether it is valid. Parse
// errors are listed one per line.
func (a *app) validate(out io.Writer, path, component string, dims mf6io.Dimensions) bool {
	_, _, err := a.readFile(path, component, dims)
	if err == nil {
		fmt.Fprintf(out, "%s: ok\n", path)
		return true
	}
	var perrs mf6io.ParseErrors
	if errors.As(err, &perrs) {
		for _, pe := range perrs {
			fmt.Fprintf(out, "%s: %v\n", path, pe)
		}
		return false
	}
	fmt.Fprintf(out, "%s: %v\n", path, err)
	return false
}
