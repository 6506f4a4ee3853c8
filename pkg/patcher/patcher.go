// Package patcher rewrites the manifests of a catalog.Set in place.
//
// Files are handled one at a time in catalog order: read, parse, assign,
// encode, write. The first failure stops the run; files already written stay
// written.
package patcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/scottrigby/patch-yamls/pkg/catalog"
	"github.com/scottrigby/patch-yamls/pkg/config"
	"github.com/scottrigby/patch-yamls/pkg/fs"
	"github.com/scottrigby/patch-yamls/pkg/k8s"
	"github.com/scottrigby/patch-yamls/pkg/transform"
)

var (
	ErrParse         = errors.New("yaml parse error")
	ErrEncode        = errors.New("yaml encode error")
	ErrInvalid       = errors.New("patched manifest is invalid")
	ErrMissingValues = errors.New("configuration values not set")
	ErrNoMatch       = errors.New("pattern matches no file")
)

const filePerm = 0644

// Options holds configuration for a patch run
type Options struct {
	Dir       string // set directory; empty means the set's default
	DryRun    bool   // render without writing
	BackupExt string // when set, the original bytes are saved to <file><BackupExt> before overwriting
	Validate  bool   // decode the result into the typed Kubernetes object and validate names/images
	Strict    bool   // refuse to start when a value the set uses is unset or invalid
	Only      string // doublestar pattern matched against the file path relative to Dir
}

// Result describes what happened to one file
type Result struct {
	File    string // catalog file name
	Path    string
	Changes []transform.Change
	Written bool
	Output  []byte // rendered manifest
}

// Changed reports whether any assignment altered the file.
func (r Result) Changed() bool {
	for _, c := range r.Changes {
		if c.Changed() {
			return true
		}
	}
	return false
}

// FileError ties an error to the manifest being processed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// Patcher applies catalog sets to manifests on a FileSystem.
type Patcher struct {
	fs  fs.FileSystem
	log *log.Logger
}

// New returns a Patcher; a nil logger uses the charmbracelet default.
func New(fsys fs.FileSystem, logger *log.Logger) *Patcher {
	if fsys == nil {
		fsys = fs.OSFileSystem{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Patcher{fs: fsys, log: logger}
}

// Run patches every selected file of set, in order.
func (p *Patcher) Run(ctx context.Context, set catalog.Set, vals config.Values, opts Options) ([]Result, error) {
	files, err := Select(set, opts.Only)
	if err != nil {
		return nil, err
	}

	if opts.Strict {
		if err := Preflight(files, vals); err != nil {
			return nil, err
		}
	} else if missing := vals.Missing(set.Keys()...); len(missing) > 0 {
		p.log.Warn("configuration values not set, writing empty values", "set", set.Name, "keys", missing)
	}

	dir := opts.Dir
	if dir == "" {
		dir = set.Dir
	}

	results := make([]Result, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := p.PatchFile(filepath.Join(dir, f.Path), f, vals, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// PatchFile runs one read-modify-write cycle on path.
func (p *Patcher) PatchFile(path string, f catalog.File, vals config.Values, opts Options) (Result, error) {
	res := Result{File: f.Name, Path: path}
	logger := p.log.With("file", path)

	original, err := p.fs.ReadFile(path)
	if err != nil {
		return res, &FileError{Path: path, Err: err}
	}

	doc, err := transform.Parse(original)
	if err != nil {
		return res, &FileError{Path: path, Err: fmt.Errorf("%w: %w", ErrParse, err)}
	}

	res.Changes, err = transform.Apply(doc, f.Edits(vals))
	if err != nil {
		return res, &FileError{Path: path, Err: err}
	}
	for _, c := range res.Changes {
		logger.Debug("assign", "path", c.Path, "old", c.Old, "new", c.New)
	}

	out, err := transform.Encode(doc)
	if err != nil {
		return res, &FileError{Path: path, Err: fmt.Errorf("%w: %w", ErrEncode, err)}
	}
	res.Output = out

	if opts.Validate {
		obj, err := k8s.DecodeStrict(out, f.APIVersion, f.Kind)
		if err == nil {
			err = k8s.ValidateObject(obj)
		}
		if err != nil {
			return res, &FileError{Path: path, Err: fmt.Errorf("%w: %w", ErrInvalid, err)}
		}
	}

	if opts.DryRun {
		logger.Info("dry run, not writing", "changed", res.Changed())
		return res, nil
	}

	if bytes.Equal(original, out) {
		logger.Debug("file does not need to be written")
		return res, nil
	}

	if opts.BackupExt != "" {
		if err := p.fs.WriteFile(path+opts.BackupExt, original, filePerm); err != nil {
			return res, &FileError{Path: path, Err: fmt.Errorf("writing backup: %w", err)}
		}
	}
	if err := p.fs.WriteFile(path, out, perm(p.fs, path)); err != nil {
		return res, &FileError{Path: path, Err: err}
	}
	res.Written = true
	logger.Info("patched", "assignments", len(res.Changes))
	return res, nil
}

// Select returns the files of set whose relative path matches pattern.
// An empty pattern selects every file.
func Select(set catalog.Set, pattern string) ([]catalog.File, error) {
	if pattern == "" {
		return set.Files, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid --only pattern %q", pattern)
	}
	var files []catalog.File
	for _, f := range set.Files {
		if ok, _ := doublestar.Match(pattern, f.Path); ok || pattern == f.Name {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %q in set %q", ErrNoMatch, pattern, set.Name)
	}
	return files, nil
}

// Preflight fails when a value used by files is unset or would write an
// invalid name or image reference.
func Preflight(files []catalog.File, vals config.Values) error {
	var keys []string
	for _, f := range files {
		keys = append(keys, f.Keys()...)
	}
	if missing := vals.Missing(keys...); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingValues, missing)
	}

	var errs []error
	for _, f := range files {
		for _, e := range f.Edits(vals) {
			if err := k8s.ValidateField(e.Path, e.Value.S); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// perm keeps the mode of an existing file.
func perm(fsys fs.FileSystem, path string) os.FileMode {
	if fi, err := fsys.Stat(path); err == nil && fi != nil {
		return fi.Mode().Perm()
	}
	return filePerm
}
