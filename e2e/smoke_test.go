//go:build e2e

package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scottrigby/patch-yamls/e2e/testutil"
)

var env = []string{
	"DOCKER_REGISTRY=registry.example.com",
	"DOCKER_REPO=citacloud",
	"NEW_NODE_SC=local-ssd",
	"SHARE_SC=nfs-share",
	"BACKUP_NODE=node3",
	"NEW_NODE=node5",
	"STS_NAME=mychain",
	"ARGS=backup --height 100",
}

// TestBinaryBuildsAndRuns verifies the binary builds and executes
func TestBinaryBuildsAndRuns(t *testing.T) {
	binPath := testutil.BuildTestBinary(t)

	tests := []struct {
		name string
		args []string
	}{
		{"help", []string{"--help"}},
		{"update help", []string{"update", "--help"}},
		{"backup help", []string{"backup", "--help"}},
		{"plan command", []string{"plan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			output, err := cmd.CombinedOutput()
			if err != nil {
				t.Fatalf("%v failed: %v\nOutput: %s", tt.args, err, output)
			}
			if len(output) == 0 {
				t.Error("Expected output from command")
			}
		})
	}
}

// TestBinaryPatchesManifests runs check, update and backup against a copy of
// the fixtures and verifies the files on disk.
func TestBinaryPatchesManifests(t *testing.T) {
	binPath := testutil.BuildTestBinary(t)
	dir := testutil.CopyFixtures(t)

	for _, args := range [][]string{
		{"check"},
		{"update", "--strict", "--validate"},
		{"backup", "--strict", "--validate"},
	} {
		cmd := exec.Command(binPath, args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), env...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("%v failed: %v\nOutput: %s", args, err, output)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "yamls", "backup", "backup_job.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "cloud-op backup --height 100") {
		t.Errorf("backup job not patched:\n%s", data)
	}
}

// TestBinaryExitCode verifies a failed run exits non-zero
func TestBinaryExitCode(t *testing.T) {
	binPath := testutil.BuildTestBinary(t)
	dir := testutil.CopyFixtures(t)
	if err := os.WriteFile(filepath.Join(dir, "yamls", "node_pvc.yaml"), []byte("spec: [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(binPath, "update")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	exitErr, ok := err.(*exec.ExitError)
	if !ok || exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "yaml parse error") {
		t.Errorf("expected parse error in output: %s", output)
	}
}
