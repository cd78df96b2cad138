package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpcf/ngsyntax/config"
	"github.com/cpcf/ngsyntax/engine"
	"github.com/cpcf/ngsyntax/write"
)

type batchOptions struct {
	config       string
	out          string
	dryRun       bool
	skipExisting bool
	format       string
	explain      bool
}

func newBatchCmd(global *globalOptions) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate every request listed in a YAML batch file",
		Example: `  ngsyntax batch --config batch.yaml
  ngsyntax batch -c batch.yaml --out ./tmp --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatText, formatJSON:
			default:
				return fmt.Errorf("unknown format %q", opts.format)
			}

			b, err := config.LoadBatch(opts.config)
			if err != nil {
				return err
			}
			if opts.out != "" {
				b.Output = opts.out
			}
			if opts.skipExisting {
				b.SkipExisting = true
			}

			engineOpts := append(b.Options(), engine.WithLogger(global.logger))
			var dryRun *write.DryRunWriter
			if opts.dryRun {
				dryRun = write.NewDryRunWriter()
				engineOpts = append(engineOpts, engine.WithWriter(dryRun))
			}

			global.logger.Debug("running batch", "config", opts.config, "requests", len(b.Requests), "output", b.OutputDir(), "mode", b.Mode())

			results, summary, err := engine.New(engineOpts...).Run(cmd.Context(), b.Requests)
			for _, result := range results {
				if result != nil {
					reportDiagnostics(cmd.ErrOrStderr(), result, result.Request.Directive, opts.explain)
				}
			}

			if dryRun != nil {
				printChanges(cmd.OutOrStdout(), dryRun.GetChanges())
			} else if summary != nil {
				if perr := printSummary(cmd.OutOrStdout(), opts.format, summary); perr != nil {
					return perr
				}
			}

			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "", "path to the batch YAML file")
	flags.StringVarP(&opts.out, "out", "o", "", "override the output directory from the batch file")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "report what would be written")
	flags.BoolVar(&opts.skipExisting, "skip-existing", false, "leave artifacts that already exist untouched")
	flags.StringVarP(&opts.format, "format", "f", formatText, "summary format: text or json")
	flags.BoolVar(&opts.explain, "explain", false, "show where each binding error occurs and how to fix it")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
