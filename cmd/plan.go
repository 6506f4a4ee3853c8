package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/scottrigby/patch-yamls/pkg/catalog"
	"github.com/scottrigby/patch-yamls/pkg/transform"
)

func (a *app) newPlanCmd() *cobra.Command {
	opts := &PlanOptions{}

	cmd := &cobra.Command{
		Use:   "plan [set...]",
		Short: "Show which fields each set rewrites and the values it would write",
		Long: heredoc.Doc(`
			Print the catalog of files and fields for each manifest set together with the
			value every field would receive from the current configuration. No file is
			read or written. Without arguments every set is shown.
		`),
		Example: heredoc.Doc(`
			$ patch-yamls plan
			$ NEW_NODE=node5 patch-yamls plan update
		`),
		ValidArgs: catalog.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Sets = args
			return a.runPlan(opts)
		},
	}
	return cmd
}

func (a *app) runPlan(opts *PlanOptions) error {
	sets, err := resolveSets(opts.Sets)
	if err != nil {
		return err
	}
	vals, err := a.values()
	if err != nil {
		return err
	}

	for i, set := range sets {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		fmt.Fprintf(a.out, "%s (%s): %s\n", set.Name, set.Dir, set.Description)
		for _, f := range set.Files {
			fmt.Fprintf(a.out, "  %s (%s %s)\n", f.Path, f.APIVersion, f.Kind)
			for _, as := range f.Assignments {
				fmt.Fprintf(a.out, "    %s = %s  # %s\n", as.Path, quote(as.Value.Derive(vals)), as.Value.Format)
			}
		}
		if missing := vals.Missing(set.Keys()...); len(missing) > 0 {
			fmt.Fprintf(a.out, "  unset: %v\n", missing)
		}
	}
	return nil
}

func quote(v transform.Value) string {
	if v.Null {
		return v.String()
	}
	return fmt.Sprintf("%q", v.S)
}
