// Package cli implements the mf6io command line tool.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KimNorgaard/go-mf6io"
	"github.com/KimNorgaard/go-mf6io/spec"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *Config
	logger *log.Logger
	specs  *spec.Set
}

// NewRootCmd returns the mf6io root command.
func NewRootCmd() *cobra.Command {
	a := &app{v: newViper()}
	var cfgFile string

	root := &cobra.Command{
		Use:   "mf6io",
		Short: "Read, format and validate MODFLOW 6 input files",
		Long: `mf6io reads MODFLOW 6 input files as described by DFN definition files.

Components are loaded from the DFN directory given with --dfn, the dfn.dir
configuration key or MF6IO_DFN_DIR. Without one, files are read without a
specification.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.v, cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger, err = newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./mf6io.toml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("dfn", "", "directory holding DFN definition files")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("dfn.dir", flags.Lookup("dfn"))

	root.AddCommand(
		newDecodeCmd(a),
		newFmtCmd(a),
		newValidateCmd(a),
		newDFNCmd(a),
	)
	return root
}

// loadSpecs loads the DFN directory once per invocation. It returns nil
// when no directory is configured.
func (a *app) loadSpecs() (*spec.Set, error) {
	if a.specs != nil || a.cfg.DFN.Dir == "" {
		return a.specs, nil
	}
	set, err := spec.LoadDir(a.cfg.DFN.Dir)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded definitions", "dir", a.cfg.DFN.Dir, "components", set.Len())
	a.specs = set
	return set, nil
}

// component picks the specification of the file at path. An explicit
// name wins; otherwise the file extension is matched against the
// subcomponent part of the loaded names, so model.dis finds gwf-dis when
// no other component ends in dis. A nil component means the file is read
// without a specification.
func (a *app) component(name, path string) (*spec.Component, error) {
	set, err := a.loadSpecs()
	if err != nil {
		return nil, err
	}
	if set == nil {
		if name != "" {
			return nil, fmt.Errorf("component %q requested but no DFN directory is configured", name)
		}
		a.logger.Warn("no DFN directory configured, reading without a specification", "file", path)
		return nil, nil
	}
	if name != "" {
		c, ok := set.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown component %q", name)
		}
		return c, nil
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	var matches []*spec.Component
	for _, c := range set.Components() {
		n := strings.ToLower(c.Name)
		if n == ext || strings.HasSuffix(n, "-"+ext) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no component matches %s, use --component", path)
	}
	names := make([]string, len(matches))
	for i, c := range matches {
		names[i] = c.Name
	}
	return nil, fmt.Errorf("%s matches several components (%s), use --component", path, strings.Join(names, ", "))
}

// decodeOptions returns the library options derived from the
// configuration. dims seeds the dimension scope.
func (a *app) decodeOptions(dims mf6io.Dimensions) []mf6io.Option {
	opts := []mf6io.Option{mf6io.Logger(a.slog())}
	if a.cfg.Decode.DisallowUnknown {
		opts = append(opts, mf6io.DisallowUnknown())
	}
	if a.cfg.Decode.BaseDir != "" {
		opts = append(opts, mf6io.BaseDir(a.cfg.Decode.BaseDir))
	}
	if dims.Len() > 0 {
		opts = append(opts, mf6io.WithDimensions(dims))
	}
	return opts
}

func (a *app) encodeOptions() []mf6io.Option {
	return []mf6io.Option{
		mf6io.Indent(a.cfg.Encode.Indent),
		mf6io.Separator(a.cfg.Encode.Separator),
	}
}

func (a *app) slog() *slog.Logger { return slogger(a.logger) }

// readFile decodes the file at path. ReadFile resolves external arrays
// next to the file unless a base directory is configured.
func (a *app) readFile(path, component string, dims mf6io.Dimensions) (*mf6io.Document, *spec.Component, error) {
	comp, err := a.component(component, path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := mf6io.ReadFile(path, comp, a.decodeOptions(dims)...)
	if err != nil {
		return nil, nil, err
	}
	return doc, comp, nil
}

// dimensions builds the scope a file is decoded in: the dimensions of
// the discretization file dis, when given, overridden by extents.
func (a *app) dimensions(dis string, extents map[string]int) (mf6io.Dimensions, error) {
	var dims mf6io.Dimensions
	if dis != "" {
		comp, err := a.component("", dis)
		if err != nil {
			return dims, err
		}
		f, err := os.Open(dis)
		if err != nil {
			return dims, err
		}
		defer f.Close()
		opts := append([]mf6io.Option{mf6io.BaseDir(filepath.Dir(dis))}, a.decodeOptions(dims)...)
		dec := mf6io.NewDecoder(f, comp, opts...)
		if _, err := dec.Decode(); err != nil {
			return dims, fmt.Errorf("%s: %w", dis, err)
		}
		dims = dec.Dimensions()
	}
	for name, v := range extents {
		dims = dims.With(name, v)
	}
	return dims, nil
}
