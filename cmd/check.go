package main

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/scottrigby/patch-yamls/pkg/fs"
	"github.com/scottrigby/patch-yamls/pkg/patcher"
)

func (a *app) newCheckCmd() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [set...]",
		Short: "Verify the manifests can be patched, without writing",
		Long: heredoc.Doc(`
			Verify that every file of each set exists, parses as YAML, declares the
			expected apiVersion and kind, and that every field the set rewrites exists
			in the file as a scalar and in the Kubernetes API schema.

			Nothing is written. Without arguments every set is checked in its default
			directory.
		`),
		Example: heredoc.Doc(`
			$ patch-yamls check
			$ patch-yamls check backup --dir ./other/backup
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Sets = args
			return a.runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory holding the manifests (only with a single set)")
	cmd.Flags().StringVar(&opts.Only, "only", "", "only check files whose relative path matches this glob")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	sets, err := resolveSets(opts.Sets)
	if err != nil {
		return err
	}
	if opts.Dir != "" && len(sets) != 1 {
		return fmt.Errorf("--dir needs exactly one set, got %d", len(sets))
	}

	p := patcher.New(fs.OSFileSystem{}, a.logger)
	var errs []error
	matched := 0
	for _, set := range sets {
		findings, err := p.Check(cmd.Context(), set, patcher.Options{Dir: opts.Dir, Only: opts.Only})
		if errors.Is(err, patcher.ErrNoMatch) && len(sets) > 1 {
			a.logger.Debug("no file matches, skipping set", "set", set.Name, "only", opts.Only)
			continue
		}
		matched++
		for _, f := range findings {
			status := "ok"
			if !f.OK() {
				status = "FAIL"
			}
			fmt.Fprintf(a.out, "%-4s %s\n", status, f.Path)
			for _, problem := range f.Problems {
				fmt.Fprintf(a.out, "     - %s\n", problem)
			}
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", set.Name, err))
		}
	}
	if matched == 0 {
		return fmt.Errorf("%w: %q in any set", patcher.ErrNoMatch, opts.Only)
	}
	return errors.Join(errs...)
}
