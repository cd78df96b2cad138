package main

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	verbose bool
	logJSON bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{logger: slog.New(slog.DiscardHandler)}

	cmd := &cobra.Command{
		Use:   "ngsyntax",
		Short: "Generate template skeletons and directive stubs from micro-syntax bindings",
		Long: `ngsyntax reads the binding expression of a structural directive, such as
"let item of items; let i = index", and produces two artifacts:

  - the desugared <ng-template> skeleton wrapping an empty host element
  - a TypeScript directive with a typed context interface and @Input fields

Parse errors and warnings are reported on stderr.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.verbose, opts.logJSON)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "emit logs as JSON")

	cmd.AddCommand(
		newRenderCmd(opts),
		newBatchCmd(opts),
		newLinkCmd(),
	)

	return cmd
}

// newLogger returns a slog logger backed by a charm logger writing to w.
func newLogger(w io.Writer, verbose, asJSON bool) *slog.Logger {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}

	logger := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	if asJSON {
		logger.SetFormatter(charmlog.JSONFormatter)
	} else {
		logger.SetFormatter(charmlog.TextFormatter)
	}

	return slog.New(logger)
}
