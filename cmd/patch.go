package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/scottrigby/patch-yamls/pkg/catalog"
	"github.com/scottrigby/patch-yamls/pkg/fs"
	"github.com/scottrigby/patch-yamls/pkg/patcher"
)

// newPatchCmd builds the command that patches set, named after it.
func (a *app) newPatchCmd(set catalog.Set) *cobra.Command {
	opts := &PatchOptions{}

	cmd := &cobra.Command{
		Use:   set.Name,
		Short: "Patch the " + set.Description,
		Long: heredoc.Docf(`
			Patch the %s.

			Files are read from %s (override with --dir) and rewritten in place, one
			at a time. The run stops at the first file that cannot be read, parsed or
			patched; files already written stay written. Files whose content would
			not change are left untouched.
		`, set.Description, set.Dir),
		Example: heredoc.Docf(`
			$ patch-yamls %[1]s
			$ patch-yamls %[1]s --strict --validate
			$ patch-yamls %[1]s --dry-run --only '*_pvc.yaml'
			$ patch-yamls %[1]s --backup-ext .orig
		`, set.Name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPatch(cmd, set, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", fmt.Sprintf("directory holding the manifests (default %q)", set.Dir))
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the patched manifests instead of writing them")
	cmd.Flags().StringVar(&opts.BackupExt, "backup-ext", "", "save the original of each rewritten file with this extension (e.g. .orig)")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "decode each patched manifest into its Kubernetes type and check names and images")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail before writing anything if a value is unset or not a valid name or image")
	cmd.Flags().StringVar(&opts.Only, "only", "", "only patch files whose relative path matches this glob")

	return cmd
}

func (a *app) runPatch(cmd *cobra.Command, set catalog.Set, opts *PatchOptions) error {
	vals, err := a.values()
	if err != nil {
		return err
	}
	a.logger.Debug("configuration", "values", vals.String())

	p := patcher.New(fs.OSFileSystem{}, a.logger)
	results, err := p.Run(cmd.Context(), set, vals, patcher.Options{
		Dir:       opts.Dir,
		DryRun:    opts.DryRun,
		BackupExt: opts.BackupExt,
		Validate:  opts.Validate,
		Strict:    opts.Strict,
		Only:      opts.Only,
	})
	if opts.DryRun {
		for _, r := range results {
			printManifest(a.out, r)
		}
	}
	if err != nil {
		return err
	}

	written := 0
	for _, r := range results {
		if r.Written {
			written++
		}
	}
	if !opts.DryRun {
		fmt.Fprintf(a.out, "%s: %d of %d files written\n", set.Name, written, len(results))
	}
	return nil
}
