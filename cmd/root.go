package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scottrigby/patch-yamls/pkg/catalog"
	"github.com/scottrigby/patch-yamls/pkg/config"
)

// app carries the state shared by every subcommand.
type app struct {
	v      *viper.Viper
	out    io.Writer
	logger *log.Logger
}

func newRootCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      v,
		out:    stdout,
		logger: log.NewWithOptions(stderr, log.Options{Prefix: "patch-yamls"}),
	}

	cmd := &cobra.Command{
		Use:   "patch-yamls <command> [flags]",
		Short: "Rewrite node recovery and backup manifests from environment values",
		Long: heredoc.Docf(`
			Rewrite the Kubernetes manifests used to back up and recover a chain node.

			Each command patches a fixed set of fields in a fixed set of files. The new
			values are derived from these environment variables:

			  %s

			Values may also come from a YAML file passed with --config; the environment
			wins over the file. Comments, key order and untouched fields are kept.
		`, strings.Join(config.Keys, ", ")),
		Example: heredoc.Doc(`
			$ export DOCKER_REGISTRY=registry.example.com DOCKER_REPO=citacloud
			$ patch-yamls update --strict
			$ patch-yamls backup --dry-run
			$ patch-yamls plan update
			$ patch-yamls check
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(v.GetString("log-level"))
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			a.logger.SetLevel(level)

			if file := v.GetString("config"); file != "" {
				v.SetConfigFile(file)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config %s: %w", file, err)
				}
				a.logger.Debug("loaded config", "file", v.ConfigFileUsed())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().String("log-level", "info", "Set the logging level (debug, info, warn, error)")
	_ = v.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindEnv("log-level", "PATCH_YAMLS_LOG_LEVEL")

	cmd.PersistentFlags().String("config", "", "YAML file with fallback values for the environment variables")
	_ = v.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	cmd.AddCommand(a.newPatchCmd(catalog.Update))
	cmd.AddCommand(a.newPatchCmd(catalog.Backup))
	cmd.AddCommand(a.newPlanCmd())
	cmd.AddCommand(a.newCheckCmd())

	return cmd
}
