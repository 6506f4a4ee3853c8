//go:build integration

package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/scottrigby/patch-yamls/integration/testutil"
	internaltestutil "github.com/scottrigby/patch-yamls/internal/testutil"
	"github.com/scottrigby/patch-yamls/pkg/catalog"
	"github.com/scottrigby/patch-yamls/pkg/fs"
	"github.com/scottrigby/patch-yamls/pkg/patcher"
	"github.com/scottrigby/patch-yamls/pkg/transform"
)

// TestCommentedManifestOnDisk patches a hand-maintained manifest on the real
// filesystem and checks that everything outside the rewritten scalars
// survives.
func TestCommentedManifestOnDisk(t *testing.T) {
	dir := internaltestutil.CopyManifests(t)
	jobPath := filepath.Join(dir, "yamls", "backup_job.yaml")
	testutil.ReplaceFile(t, "backup_job_commented.yaml", jobPath, 0600)

	p := patcher.New(fs.OSFileSystem{}, log.New(io.Discard))
	opts := patcher.Options{Dir: filepath.Join(dir, "yamls"), Validate: true, Strict: true}

	results, err := p.Run(context.Background(), catalog.Update, internaltestutil.Values(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !results[1].Written {
		t.Fatalf("backup_job.yaml was not written")
	}

	data, err := os.ReadFile(jobPath)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"# Backup job for a single chain node.",
		"# Regenerated by patch-yamls; edit the fields below freely.",
		"# never retry, a partial backup is useless",
		"# pushed by the release pipeline",
		"# replaced per run",
		"# end of manifest",
		"&labels",
		"*labels",
		"image: registry.example.com/citacloud/cloud-op:latest",
		"- /bin/sh",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"v0.1.0", "datadir-node0", "{limits:", `["/bin/sh"`} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output still contains %q:\n%s", unwanted, out)
		}
	}

	doc, err := transform.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	cpu, err := transform.Lookup(doc, transform.MustParsePath("spec.template.spec.containers[0].resources.limits.cpu"))
	if err != nil {
		t.Fatal(err)
	}
	if cpu.Value != "2" || cpu.Tag != "!!str" {
		t.Errorf("cpu limit = %s %q, want !!str \"2\"", cpu.Tag, cpu.Value)
	}

	fi, err := os.Stat(jobPath)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", fi.Mode().Perm())
	}

	// Second run is a no-op.
	results, err = p.Run(context.Background(), catalog.Update, internaltestutil.Values(), opts)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	for _, r := range results {
		if r.Written {
			t.Errorf("%s rewritten on second run", r.Path)
		}
	}
	again, _ := os.ReadFile(jobPath)
	if string(again) != out {
		t.Errorf("second run changed the file")
	}
}
