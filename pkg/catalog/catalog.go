// Package catalog declares which manifest fields are rewritten and how each
// new value is derived from the configuration.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scottrigby/patch-yamls/pkg/config"
	"github.com/scottrigby/patch-yamls/pkg/transform"
)

// Derivation computes the value written by an Assignment.
type Derivation struct {
	Keys   []string // configuration keys the value depends on
	Format string   // human readable form, e.g. "datadir-{BACKUP_NODE}"
	derive func(config.Values) transform.Value
}

// Derive computes the value for vals.
func (d Derivation) Derive(vals config.Values) transform.Value {
	return d.derive(vals)
}

// Direct writes the value of key unchanged. An unset key writes null.
func Direct(key string) Derivation {
	return Derivation{
		Keys:   []string{key},
		Format: "{" + key + "}",
		derive: func(vals config.Values) transform.Value {
			s, ok := vals.Lookup(key)
			if !ok {
				return transform.Null()
			}
			return transform.String(s)
		},
	}
}

// Template substitutes {KEY} placeholders in format. Unset keys substitute "".
func Template(format string, keys ...string) Derivation {
	return Derivation{
		Keys:   keys,
		Format: format,
		derive: func(vals config.Values) transform.Value {
			pairs := make([]string, 0, 2*len(keys))
			for _, k := range keys {
				pairs = append(pairs, "{"+k+"}", vals.Get(k))
			}
			return transform.String(strings.NewReplacer(pairs...).Replace(format))
		},
	}
}

// Assignment overwrites the scalar at Path.
type Assignment struct {
	Path  transform.Path
	Value Derivation
}

// Assign builds an Assignment from a dotted path.
func Assign(path string, d Derivation) Assignment {
	return Assignment{Path: transform.MustParsePath(path), Value: d}
}

// File is one manifest of a Set.
type File struct {
	Name        string // short name, e.g. backup_job
	Path        string // relative to the set directory
	APIVersion  string
	Kind        string
	Assignments []Assignment
}

// Edits resolves every assignment against vals.
func (f File) Edits(vals config.Values) []transform.Edit {
	edits := make([]transform.Edit, 0, len(f.Assignments))
	for _, a := range f.Assignments {
		edits = append(edits, transform.Edit{Path: a.Path, Value: a.Value.Derive(vals)})
	}
	return edits
}

// Keys returns the configuration keys the file depends on.
func (f File) Keys() []string {
	return uniq(func(yield func(string)) {
		for _, a := range f.Assignments {
			for _, k := range a.Value.Keys {
				yield(k)
			}
		}
	})
}

// Set is an ordered group of files patched together.
type Set struct {
	Name        string
	Description string
	Dir         string // default directory, relative to the working directory
	Files       []File
}

// Keys returns the configuration keys any file of the set depends on.
func (s Set) Keys() []string {
	return uniq(func(yield func(string)) {
		for _, f := range s.Files {
			for _, k := range f.Keys() {
				yield(k)
			}
		}
	})
}

// File looks up a file by name.
func (s Set) File(name string) (File, bool) {
	for _, f := range s.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

var sets = map[string]Set{}

func register(s Set) Set {
	sets[s.Name] = s
	return s
}

// Lookup returns the set registered under name.
func Lookup(name string) (Set, error) {
	s, ok := sets[name]
	if !ok {
		return Set{}, fmt.Errorf("unknown manifest set %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// Names lists registered set names, sorted.
func Names() []string {
	names := make([]string, 0, len(sets))
	for n := range sets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every registered set in name order.
func All() []Set {
	var out []Set
	for _, n := range Names() {
		out = append(out, sets[n])
	}
	return out
}

func uniq(each func(yield func(string))) []string {
	seen := make(map[string]bool)
	var out []string
	each(func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	})
	sort.Strings(out)
	return out
}
