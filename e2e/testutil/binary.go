//go:build e2e

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// BuildTestBinary builds the binary for testing and returns its path
func BuildTestBinary(t *testing.T) string {
	t.Helper()

	binDir := t.TempDir()
	binPath := filepath.Join(binDir, "patch-yamls")

	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = filepath.Join(GetProjectRoot(t), "cmd")

	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build test binary: %v\nOutput: %s", err, output)
	}

	return binPath
}

// GetProjectRoot returns the project root directory
func GetProjectRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	// From e2e/ directory, go up one level
	return filepath.Dir(wd)
}

// CopyFixtures copies the shared manifest fixtures into a temp dir laid out
// as the binary expects (./yamls, ./yamls/backup) and returns it.
func CopyFixtures(t *testing.T) string {
	t.Helper()

	src := filepath.Join(GetProjectRoot(t), "internal", "testutil", "testdata")
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		t.Fatalf("Failed to copy fixtures: %v", err)
	}
	return dst
}
