package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KimNorgaard/go-mf6io"
	"github.com/KimNorgaard/go-mf6io/spec"
	"github.com/spf13/cobra"
)

func newFmtCmd(a *app) *cobra.Command {
	var (
		scope scopeFlags
		write bool
	)
	cmd := &cobra.Command{
		Use:   "fmt FILE...",
		Short: "Rewrite input files in canonical form",
		Long: `fmt decodes each file and encodes it again. Names are written upper-case,
blocks are indented and separated by a blank line, and comments are dropped.
With -w the result replaces the file when it differs. A file is only
rewritten when the result reads back to the same content.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, err := a.dimensions(scope.dis, scope.dims)
			if err != nil {
				return err
			}
			for _, path := range args {
				doc, comp, err := a.readFile(path, scope.component, dims)
				if err != nil {
					return err
				}
				out, err := mf6io.Marshal(doc, comp, a.encodeOptions()...)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if !write {
					if _, err := cmd.OutOrStdout().Write(out); err != nil {
						return err
					}
					continue
				}
				if err := a.checkRewrite(path, doc, comp, out, dims); err != nil {
					return err
				}
				if err := rewrite(path, out); err != nil {
					return err
				}
				a.logger.Info("formatted", "file", path)
			}
			return nil
		},
	}
	scope.register(cmd)
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result to the file instead of stdout")
	return cmd
}

// checkRewrite decodes the formatted text out again and compares it
// with doc, the decoded content of path.
func (a *app) checkRewrite(path string, doc *mf6io.Document, comp *spec.Component, out []byte, dims mf6io.Dimensions) error {
	opts := append([]mf6io.Option{mf6io.BaseDir(filepath.Dir(path))}, a.decodeOptions(dims)...)
	again, err := mf6io.Unmarshal(out, comp, opts...)
	if err == nil && doc.Equal(again) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: not rewritten, the formatted text does not read back: %w", path, err)
	}
	return fmt.Errorf("%s: not rewritten, the formatted text reads back with different content", path)
}

// rewrite replaces the content of path with data, keeping its mode. An
// unchanged file is not touched.
func rewrite(path string, data []byte) error {
	old, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if bytes.Equal(old, data) {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}
