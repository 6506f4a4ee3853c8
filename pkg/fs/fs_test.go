package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestOSFileSystem verifies that OSFileSystem implements FileSystem interface
func TestOSFileSystem(t *testing.T) {
	var fsys FileSystem = OSFileSystem{}

	path := filepath.Join(t.TempDir(), "node_pvc.yaml")
	if err := fsys.WriteFile(path, []byte("kind: PersistentVolumeClaim\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "kind: PersistentVolumeClaim\n" {
		t.Errorf("ReadFile returned %q", string(data))
	}
	if _, err := fsys.Stat(path); err != nil {
		t.Errorf("Stat failed for existing file: %v", err)
	}
}

func TestMemFileSystem(t *testing.T) {
	var fsys FileSystem = NewMemFileSystem(map[string]string{
		"yamls/backup_pvc.yaml": "kind: PersistentVolumeClaim\n",
	})
	mem := fsys.(*MemFileSystem)

	data, err := fsys.ReadFile("yamls/backup_pvc.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	// returned slices must not alias the stored content
	data[0] = 'X'
	again, _ := fsys.ReadFile("yamls/backup_pvc.yaml")
	if string(again) != "kind: PersistentVolumeClaim\n" {
		t.Errorf("stored content was modified through ReadFile result: %q", again)
	}

	if err := fsys.WriteFile("yamls/node_pvc.yaml", []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if got := mem.Writes("yamls/node_pvc.yaml"); got != 1 {
		t.Errorf("Writes = %d, want 1", got)
	}
	if got := mem.Paths(); len(got) != 2 || got[0] != "yamls/backup_pvc.yaml" {
		t.Errorf("Paths = %v", got)
	}

	if _, err := fsys.Stat("/non/existent"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat should fail with ErrNotExist, got %v", err)
	}
	if _, err := fsys.ReadFile("/non/existent"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile should fail with ErrNotExist, got %v", err)
	}
}
