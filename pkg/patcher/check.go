package patcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scottrigby/patch-yamls/pkg/catalog"
	"github.com/scottrigby/patch-yamls/pkg/k8s"
	"github.com/scottrigby/patch-yamls/pkg/transform"
)

var ErrCheckFailed = errors.New("manifest check failed")

// Finding lists the problems found in one manifest. A file with no
// problems has an empty Problems slice.
type Finding struct {
	File     string
	Path     string
	Problems []string
}

// OK reports whether the file passed every check.
func (f Finding) OK() bool { return len(f.Problems) == 0 }

// Check verifies, without writing, that every selected file of set exists,
// parses, declares the expected apiVersion/kind, and that each catalog path
// exists in the file as a scalar and in the Kubernetes schema.
func (p *Patcher) Check(ctx context.Context, set catalog.Set, opts Options) ([]Finding, error) {
	files, err := Select(set, opts.Only)
	if err != nil {
		return nil, err
	}
	dir := opts.Dir
	if dir == "" {
		dir = set.Dir
	}

	var findings []Finding
	failed := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return findings, err
		}
		fd := p.checkFile(filepath.Join(dir, f.Path), f)
		if !fd.OK() {
			failed++
			p.log.Error("check failed", "file", fd.Path, "problems", len(fd.Problems))
		}
		findings = append(findings, fd)
	}
	if failed > 0 {
		return findings, fmt.Errorf("%w: %d of %d files", ErrCheckFailed, failed, len(files))
	}
	return findings, nil
}

func (p *Patcher) checkFile(path string, f catalog.File) Finding {
	fd := Finding{File: f.Name, Path: path}
	addf := func(format string, args ...interface{}) {
		fd.Problems = append(fd.Problems, fmt.Sprintf(format, args...))
	}

	data, err := p.fs.ReadFile(path)
	if err != nil {
		addf("%v", err)
		return fd
	}
	doc, err := transform.Parse(data)
	if err != nil {
		addf("%v: %v", ErrParse, err)
		return fd
	}

	tm, err := k8s.TypeMetaOf(data)
	if err != nil {
		addf("%v", err)
	} else if tm.APIVersion != f.APIVersion || tm.Kind != f.Kind {
		addf("manifest is %s %s, expected %s %s", tm.APIVersion, tm.Kind, f.APIVersion, f.Kind)
	}

	for _, a := range f.Assignments {
		if _, err := k8s.CheckPath(f.APIVersion, f.Kind, a.Path); err != nil {
			addf("%v", err)
		}
		n, err := transform.Lookup(doc, a.Path)
		if err != nil {
			addf("%v", err)
			continue
		}
		if n.Kind != yaml.ScalarNode {
			addf("%s: %v", a.Path, k8s.ErrNotScalar)
		}
	}
	return fd
}
