package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// TestdataFS holds the embedded test data files: DFN specifications and
// MF6 input files.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData reads and returns the content of an embedded test file.
func ReadTestData(name string) ([]byte, error) {
	path := fmt.Sprintf("testdata/%s", name)
	data, err := fs.ReadFile(TestdataFS, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// CopyTestData writes the named embedded files into dir, so code that
// reads from the file system can be pointed at them.
func CopyTestData(dir string, names ...string) error {
	for _, name := range names {
		data, err := ReadTestData(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write test data file '%s': %w", name, err)
		}
	}
	return nil
}
