//go:build integration

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// GetTestdataPath returns the absolute path of a file under integration/testdata
func GetTestdataPath(t *testing.T, rel string) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "testdata", rel)
}

// ReplaceFile overwrites dst with the content of the testdata file src,
// keeping mode.
func ReplaceFile(t *testing.T, src, dst string, mode os.FileMode) {
	t.Helper()
	data, err := os.ReadFile(GetTestdataPath(t, src))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	if err := os.WriteFile(dst, data, mode); err != nil {
		t.Fatalf("failed to write %s: %v", dst, err)
	}
	if err := os.Chmod(dst, mode); err != nil {
		t.Fatalf("failed to chmod %s: %v", dst, err)
	}
}
