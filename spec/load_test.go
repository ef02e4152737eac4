package spec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KimNorgaard/go-mf6io/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, testutil.CopyTestData(dir, "gwf-oc.dfn", "gwf-ic.dfn", "gwf-dis.dfn", "gwf-chd.dfn", "common.dfn"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a dfn"), 0o644))

	set, err := LoadDir(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"gwf-chd", "gwf-dis", "gwf-ic", "gwf-oc"}, set.Names())
	require.Equal(t, 4, set.Len())

	ic, ok := set.Get("GWF-IC")
	require.True(t, ok)
	require.NotNil(t, ic.Block("griddata"))
	_, ok = set.Get("common")
	require.False(t, ok)
}

func TestLoadDirReportsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.dfn")
	require.NoError(t, os.WriteFile(path, []byte("type keyword\n"), 0o644))

	_, err := LoadDir(dir)
	require.ErrorContains(t, err, "loading "+path)
	require.ErrorContains(t, err, `attribute "type" before parameter head (block, name)`)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.dfn"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSet(t *testing.T) {
	a := &Component{Name: "gwf-ic"}
	b := &Component{Name: "gwf-dis"}
	set := NewSet(a, b)

	require.Equal(t, []string{"gwf-ic", "gwf-dis"}, set.Names())
	require.Equal(t, []*Component{a, b}, set.Components())

	got, ok := set.Get("gwf-dis")
	require.True(t, ok)
	require.Same(t, b, got)

	err := set.Add(&Component{Name: "GWF-IC"})
	require.EqualError(t, err, `mf6io: duplicate component "GWF-IC"`)
	require.Panics(t, func() { NewSet(a, a) })
}
