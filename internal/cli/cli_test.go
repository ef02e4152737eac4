package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KimNorgaard/go-mf6io"
	"github.com/KimNorgaard/go-mf6io/internal/testutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var fixtures = []string{
	"common.dfn", "gwf-chd.dfn", "gwf-dis.dfn", "gwf-ic.dfn", "gwf-oc.dfn",
	"idomain.txt", "model.chd", "model.dis", "model.ic", "model.oc",
}

// workspace copies the DFN files and input files into a temporary
// directory and returns it.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, testutil.CopyTestData(dir, fixtures...))
	return dir
}

// run executes the root command with args and returns what it wrote to
// stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeCmd(t *testing.T) {
	dir := workspace(t)

	out, err := run(t, "--dfn", dir, "decode", filepath.Join(dir, "model.dis"))
	require.NoError(t, err)

	var doc struct {
		Component string `json:"component"`
		Blocks    []struct {
			Name   string         `json:"name"`
			Values map[string]any `json:"values"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "gwf-dis", doc.Component)
	require.Len(t, doc.Blocks, 3)
	require.Equal(t, "meters", doc.Blocks[0].Values["length_units"])
	require.Equal(t, 3.0, doc.Blocks[1].Values["nrow"])

	idomain := doc.Blocks[2].Values["idomain"].(map[string]any)
	require.Equal(t, "OPEN/CLOSE", idomain["how"])
	require.Equal(t, "idomain.txt", idomain["path"])
}

func TestDecodeCmdScope(t *testing.T) {
	dir := workspace(t)
	ic := filepath.Join(dir, "model.ic")

	_, err := run(t, "--dfn", dir, "decode", ic)
	require.Error(t, err)
	require.Contains(t, err.Error(), "nodes")

	out, err := run(t, "--dfn", dir, "decode", ic, "--dis", filepath.Join(dir, "model.dis"), "-o", "yaml")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Equal(t, "gwf-ic", doc["component"])

	out, err = run(t, "--dfn", dir, "decode", ic, "--dim", "nodes=5", "-o", "toml")
	require.NoError(t, err)
	var tdoc map[string]any
	require.NoError(t, toml.Unmarshal([]byte(out), &tdoc))
	require.Equal(t, "gwf-ic", tdoc["component"])
	require.Contains(t, out, "shape = [5]")
}

func TestDecodeCmdErrors(t *testing.T) {
	dir := workspace(t)
	dis := filepath.Join(dir, "model.dis")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"--dfn", dir, "decode", dis, "-o", "xml"}, `unknown output format "xml"`},
		{"unknown component", []string{"--dfn", dir, "decode", dis, "-c", "gwf-npf"}, `unknown component "gwf-npf"`},
		{"no match", []string{"--dfn", dir, "decode", filepath.Join(dir, "idomain.txt")}, "no component matches"},
		{"no dfn dir", []string{"decode", dis, "-c", "gwf-dis"}, "no DFN directory is configured"},
		{"missing file", []string{"--dfn", dir, "decode", filepath.Join(dir, "model.npf"), "-c", "gwf-dis"}, "no such file"},
		{"bad log level", []string{"--log-level", "loud", "decode", dis}, `invalid log level "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeCmdLoose(t *testing.T) {
	dir := workspace(t)
	out, err := run(t, "decode", filepath.Join(dir, "model.oc"))
	require.NoError(t, err)
	require.Contains(t, out, `"budget"`)
	require.NotContains(t, out, `"component"`)
}

func TestFmtCmd(t *testing.T) {
	dir := workspace(t)
	oc := filepath.Join(dir, "model.oc")
	want, err := os.ReadFile(oc)
	require.NoError(t, err)

	out, err := run(t, "--dfn", dir, "fmt", oc)
	require.NoError(t, err)
	require.Equal(t, string(want), out)

	messy := "# output control\n" + strings.ReplaceAll(string(want), "  ", "      ")
	require.NoError(t, os.WriteFile(oc, []byte(messy), 0o600))
	out, err = run(t, "--dfn", dir, "fmt", "-w", oc)
	require.NoError(t, err)
	require.Empty(t, out)

	got, err := os.ReadFile(oc)
	require.NoError(t, err)
	require.Equal(t, string(want), string(got))
	info, err := os.Stat(oc)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFmtCmdConfig(t *testing.T) {
	dir := workspace(t)
	cfg := filepath.Join(dir, "mf6io.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[encode]\nindent = 4\n\n[dfn]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0o644))

	out, err := run(t, "--config", cfg, "fmt", filepath.Join(dir, "model.oc"))
	require.NoError(t, err)
	require.Contains(t, out, "\n    BUDGET FILEOUT Model.cbc\n")

	t.Setenv("MF6IO_ENCODE_SEPARATOR", "\t")
	out, err = run(t, "--config", cfg, "fmt", filepath.Join(dir, "model.oc"))
	require.NoError(t, err)
	require.Contains(t, out, "\n    BUDGET\tFILEOUT\tModel.cbc\n")

	require.NoError(t, os.WriteFile(cfg, []byte("[encode]\nindent = -1\n"), 0o644))
	_, err = run(t, "--config", cfg, "fmt", filepath.Join(dir, "model.oc"))
	require.EqualError(t, err, "invalid config: encode.indent must not be negative, got -1")

	_, err = run(t, "--config", filepath.Join(dir, "missing.toml"), "fmt", filepath.Join(dir, "model.oc"))
	require.ErrorContains(t, err, "failed to read config")
}

func TestValidateCmd(t *testing.T) {
	dir := workspace(t)
	dis := filepath.Join(dir, "model.dis")
	oc := filepath.Join(dir, "model.oc")
	chd := filepath.Join(dir, "model.chd")
	ic := filepath.Join(dir, "model.ic")

	out, err := run(t, "--dfn", dir, "validate", "--dim", "ncelldim=3", dis, oc, chd)
	require.NoError(t, err)
	require.Equal(t, dis+": ok\n"+oc+": ok\n"+chd+": ok\n", out)

	out, err = run(t, "--dfn", dir, "validate", oc, ic)
	require.EqualError(t, err, "1 of 2 files are invalid")
	require.Contains(t, out, oc+": ok\n")
	require.Contains(t, out, ic+": ")
	require.Contains(t, out, "nodes")

	out, err = run(t, "--dfn", dir, "validate", "--dis", dis, ic)
	require.NoError(t, err)
	require.Equal(t, ic+": ok\n", out)

	bad := filepath.Join(dir, "bad.oc")
	require.NoError(t, os.WriteFile(bad, []byte("BEGIN OPTIONS\n  BUDGET FILEOUT\nEND PERIOD\n"), 0o644))
	out, err = run(t, "--dfn", dir, "validate", bad)
	require.Error(t, err)
	require.Contains(t, out, bad+": mf6io: parsing error at line")
}

func TestDFNCmd(t *testing.T) {
	dir := workspace(t)

	out, err := run(t, "dfn", filepath.Join(dir, "gwf-ic.dfn"))
	require.NoError(t, err)
	var ic map[string]any
	require.NoError(t, toml.Unmarshal([]byte(out), &ic))
	require.Contains(t, ic, "options")
	require.Contains(t, ic, "griddata")

	out, err = run(t, "--dfn", dir, "dfn", "-f", "json", "--combined")
	require.NoError(t, err)
	var all map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	require.Len(t, all["gwf"], 4)
	require.Contains(t, all["gwf"], "dis")

	outDir := filepath.Join(dir, "toml")
	out, err = run(t, "dfn", dir, "-o", outDir, "-f", "yaml")
	require.NoError(t, err)
	require.Empty(t, out)
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"gwf-chd.yaml", "gwf-dis.yaml", "gwf-ic.yaml", "gwf-oc.yaml"}, names)

	_, err = run(t, "dfn")
	require.EqualError(t, err, "no DFN path given and no DFN directory configured")
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "model.ic")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(target, []byte("BEGIN OPTIONS\nEND OPTIONS\n"), 0o644))

	logger, err := newLogger(&bytes.Buffer{}, "debug")
	require.NoError(t, err)
	w, err := newFileWatcher([]string{target}, 20*time.Millisecond, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, func(changed []string) { changes <- changed }) }()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("BEGIN OPTIONS\n"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("BEGIN OPTIONS\nEND OPTIONS\n"), 0o644))

	select {
	case changed := <-changes:
		require.Equal(t, []string{target}, changed)
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestFmtCmdWithoutComponent(t *testing.T) {
	dir := workspace(t)
	dis := filepath.Join(dir, "model.dis")

	before, err := run(t, "--dfn", dir, "decode", dis)
	require.NoError(t, err)

	_, err = run(t, "fmt", "-w", dis)
	require.NoError(t, err)

	got, err := os.ReadFile(dis)
	require.NoError(t, err)
	require.Contains(t, string(got), "  delr\n  CONSTANT 10.0\n  delc\n  INTERNAL FACTOR 2.0\n  5.0 5.0 2.5\n")
	require.Contains(t, string(got), "  botm LAYERED\n  CONSTANT 0.0\n  CONSTANT -10.0\n")
	require.NotContains(t, string(got), "# Discretization")

	after, err := run(t, "--dfn", dir, "decode", dis)
	require.NoError(t, err)
	require.JSONEq(t, before, after)
}

func TestCheckRewrite(t *testing.T) {
	dir := workspace(t)
	logger, err := newLogger(&bytes.Buffer{}, "warn")
	require.NoError(t, err)
	cfg := DefaultConfig()
	a := &app{v: newViper(), cfg: &cfg, logger: logger}

	path := filepath.Join(dir, "model.oc")
	doc, comp, err := a.readFile(path, "", mf6io.Dimensions{})
	require.NoError(t, err)
	require.Nil(t, comp)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, a.checkRewrite(path, doc, nil, data, mf6io.Dimensions{}))

	err = a.checkRewrite(path, doc, nil, []byte("BEGIN OPTIONS\nEND OPTIONS\n"), mf6io.Dimensions{})
	require.EqualError(t, err, path+": not rewritten, the formatted text reads back with different content")

	err = a.checkRewrite(path, doc, nil, []byte("BEGIN OPTIONS\n"), mf6io.Dimensions{})
	require.ErrorContains(t, err, path+": not rewritten, the formatted text does not read back")
}
