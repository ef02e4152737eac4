package cli

import (
	"github.com/KimNorgaard/go-mf6io/internal/marshaler"
	"github.com/spf13/cobra"
)

// scopeFlags are the flags shared by commands that decode input files.
type scopeFlags struct {
	component string
	dis       string
	dims      map[string]int
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.component, "component", "c", "", "component name, such as gwf-dis (default: matched by file extension)")
	flags.StringVar(&f.dis, "dis", "", "discretization file whose dimensions seed the scope")
	flags.StringToIntVar(&f.dims, "dim", nil, "dimension extents, such as --dim nodes=24,ncelldim=3")
}

func newDecodeCmd(a *app) *cobra.Command {
	var (
		scope  scopeFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode an input file and print it as JSON, YAML or TOML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := marshaler.ParseFormat(format)
			if err != nil {
				return err
			}
			dims, err := a.dimensions(scope.dis, scope.dims)
			if err != nil {
				return err
			}
			doc, _, err := a.readFile(args[0], scope.component, dims)
			if err != nil {
				return err
			}
			return marshaler.Write(cmd.OutOrStdout(), f, marshaler.Document(doc))
		},
	}
	scope.register(cmd)
	cmd.Flags().StringVarP(&format, "output", "o", "json", "output format: json, yaml or toml")
	return cmd
}
