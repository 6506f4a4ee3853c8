//go:build !e2e

package testutil

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/scottrigby/patch-yamls/pkg/config"
)

//go:embed testdata
var fixtures embed.FS

// Env is a complete configuration used across tests.
var Env = map[string]string{
	config.DockerRegistry: "registry.example.com",
	config.DockerRepo:     "citacloud",
	config.NewNodeSC:      "local-ssd",
	config.ShareSC:        "nfs-share",
	config.BackupNode:     "node3",
	config.NewNode:        "node5",
	config.STSName:        "mychain",
	config.Args:           "backup --height 100",
}

// Values returns Env as config.Values.
func Values() config.Values {
	return config.New(Env)
}

// SetupEnv exports Env for the duration of the test and clears every other
// recognised key.
func SetupEnv(t *testing.T) {
	t.Helper()
	for _, k := range config.Keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	for k, v := range Env {
		t.Setenv(k, v)
	}
}

// Manifests returns the fixture manifests keyed by slash path, e.g.
// "yamls/backup/backup_job.yaml".
func Manifests(t *testing.T) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := fs.WalkDir(fixtures, "testdata", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fixtures.ReadFile(p)
		if err != nil {
			return err
		}
		rel := p[len("testdata/"):]
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read fixtures: %v", err)
	}
	return out
}

// Manifest returns a single fixture by slash path.
func Manifest(t *testing.T, rel string) string {
	t.Helper()
	data, err := fixtures.ReadFile(path.Join("testdata", rel))
	if err != nil {
		t.Fatalf("no fixture %s: %v", rel, err)
	}
	return string(data)
}

// CopyManifests writes the fixtures under a fresh temp dir and returns it.
// The layout matches what the binary expects below its working directory.
func CopyManifests(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for rel, data := range Manifests(t) {
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(dst, []byte(data), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
	}
	return dir
}

// Chdir switches the working directory for the duration of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
