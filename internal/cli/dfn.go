package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KimNorgaard/go-mf6io/internal/marshaler"
	"github.com/KimNorgaard/go-mf6io/spec"
	"github.com/spf13/cobra"
)

func newDFNCmd(a *app) *cobra.Command {
	var (
		format   string
		outDir   string
		combined bool
	)
	cmd := &cobra.Command{
		Use:   "dfn [PATH]",
		Short: "Convert DFN definition files to TOML, YAML or JSON",
		Long: `dfn loads a DFN file, or every DFN file in a directory, and writes the
parsed specification. PATH defaults to the configured DFN directory.

With --out DIR each component is written to DIR/<component>.<format>. With
--combined all components are written as one tree nested by model prefix.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := marshaler.ParseFormat(format)
			if err != nil {
				return err
			}
			path := a.cfg.DFN.Dir
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no DFN path given and no DFN directory configured")
			}
			comps, err := loadComponents(path)
			if err != nil {
				return err
			}
			a.logger.Debug("loaded definitions", "path", path, "components", len(comps))

			switch {
			case combined && outDir != "":
				return writeTree(filepath.Join(outDir, "spec."+f.Ext()), f, marshaler.Combined(comps))
			case combined:
				return marshaler.Write(cmd.OutOrStdout(), f, marshaler.Combined(comps))
			case outDir != "":
				for _, c := range comps {
					if err := writeTree(filepath.Join(outDir, c.Name+"."+f.Ext()), f, marshaler.Component(c)); err != nil {
						return err
					}
				}
				return nil
			case len(comps) == 1:
				return marshaler.Write(cmd.OutOrStdout(), f, marshaler.Component(comps[0]))
			}
			tree := make(map[string]any, len(comps))
			for _, c := range comps {
				tree[c.Name] = marshaler.Component(c)
			}
			return marshaler.Write(cmd.OutOrStdout(), f, tree)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "toml", "output format: toml, yaml or json")
	flags.StringVarP(&outDir, "out", "o", "", "directory to write one file per component to")
	flags.BoolVar(&combined, "combined", false, "write all components as one nested tree")
	return cmd
}

func loadComponents(path string) ([]*spec.Component, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		c, err := spec.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return []*spec.Component{c}, nil
	}
	set, err := spec.LoadDir(path)
	if err != nil {
		return nil, err
	}
	return set.Components(), nil
}

func writeTree(path string, f marshaler.Format, tree any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := marshaler.Write(out, f, tree); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}
