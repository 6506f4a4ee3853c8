package main

import (
	"fmt"
	"io"

	"github.com/scottrigby/patch-yamls/pkg/catalog"
	"github.com/scottrigby/patch-yamls/pkg/config"
	"github.com/scottrigby/patch-yamls/pkg/patcher"
)

// values reads the configuration from the environment, falling back to the
// --config file.
func (a *app) values() (config.Values, error) {
	vals, err := config.Load(a.v)
	if err != nil {
		return config.Values{}, fmt.Errorf("loading configuration: %w", err)
	}
	return vals, nil
}

// resolveSets maps set names to catalog sets; no names means every set.
func resolveSets(names []string) ([]catalog.Set, error) {
	if len(names) == 0 {
		return catalog.All(), nil
	}
	sets := make([]catalog.Set, 0, len(names))
	for _, n := range names {
		s, err := catalog.Lookup(n)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

func printManifest(w io.Writer, r patcher.Result) {
	fmt.Fprintf(w, "# %s\n", r.Path)
	for _, c := range r.Changes {
		if c.Changed() {
			fmt.Fprintf(w, "# %s: %s -> %s\n", c.Path, quote(c.Old), quote(c.New))
		}
	}
	fmt.Fprintf(w, "---\n%s", r.Output)
}
