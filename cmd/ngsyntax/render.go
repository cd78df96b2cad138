package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/tools/txtar"

	"github.com/cpcf/ngsyntax/debug"
	"github.com/cpcf/ngsyntax/engine"
	"github.com/cpcf/ngsyntax/generate"
	"github.com/cpcf/ngsyntax/postprocess"
	"github.com/cpcf/ngsyntax/processors"
	"github.com/cpcf/ngsyntax/query"
	"github.com/cpcf/ngsyntax/write"
)

const (
	formatText  = "text"
	formatTxtar = "txtar"
	formatJSON  = "json"
)

type renderOptions struct {
	tag          string
	directive    string
	binding      string
	query        string
	out          string
	dryRun       bool
	skipExisting bool
	banner       bool
	format       string
	explain      bool
}

func newRenderCmd(global *globalOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the skeleton and directive for one binding",
		Long: `Render the template skeleton and directive source for one binding.

Without --out both artifacts are printed. With --out they are written to
<out>/<directive>/ together with a manifest. Inputs may come from a permalink
query string (--query); explicit flags take precedence.`,
		Example: `  ngsyntax render --tag li --directive ngFor --binding "let item of items; let i = index"
  ngsyntax render --query "?tagName=div&directive=ngIf&binding=cond%20as%20x" --format txtar
  ngsyntax render --directive ngFor --binding "let item of items" --out ./generated --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(cmd)
			if err != nil {
				return err
			}
			if opts.out != "" {
				return runRenderToDisk(cmd, global, opts, req)
			}
			return runRenderToStdout(cmd, global, opts, req)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.tag, "tag", "", "host element tag name")
	flags.StringVarP(&opts.directive, "directive", "d", "", "directive name, e.g. ngFor")
	flags.StringVarP(&opts.binding, "binding", "b", "", "binding expression")
	flags.StringVarP(&opts.query, "query", "q", "", "permalink query string or URL to read inputs from")
	flags.StringVarP(&opts.out, "out", "o", "", "write artifacts under this directory instead of printing them")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "with --out, report what would be written")
	flags.BoolVar(&opts.skipExisting, "skip-existing", false, "with --out, leave artifacts that already exist untouched")
	flags.BoolVar(&opts.banner, "banner", false, "prefix artifacts with a generated-file banner")
	flags.StringVarP(&opts.format, "format", "f", formatText, "output format: text, txtar or json")
	flags.BoolVar(&opts.explain, "explain", false, "show where each binding error occurs and how to fix it")

	return cmd
}

// request assembles the request from --query and the explicit flags.
func (o *renderOptions) request(cmd *cobra.Command) (generate.Request, error) {
	var req generate.Request
	if o.query != "" {
		decoded, err := query.Decode(o.query)
		if err != nil {
			return req, err
		}
		req = decoded
	}

	flags := cmd.Flags()
	if flags.Changed("tag") {
		req.TagName = o.tag
	}
	if flags.Changed("directive") {
		req.Directive = o.directive
	}
	if flags.Changed("binding") {
		req.Binding = o.binding
	}

	switch o.format {
	case formatText, formatTxtar, formatJSON:
	default:
		return req, fmt.Errorf("unknown format %q", o.format)
	}
	if o.dryRun && o.out == "" {
		return req, errors.New("--dry-run requires --out")
	}
	if o.skipExisting && o.out == "" {
		return req, errors.New("--skip-existing requires --out")
	}

	return req, generate.ValidateDirectiveName(req.Directive)
}

func runRenderToStdout(cmd *cobra.Command, global *globalOptions, opts *renderOptions, req generate.Request) error {
	eng := engine.New(engine.WithLogger(global.logger))
	result, err := eng.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	result.Artifacts, err = postProcess(req.Directive, result.Artifacts, postprocess.NewChain(processors.Default(opts.banner)...))
	if err != nil {
		return err
	}

	reportDiagnostics(cmd.ErrOrStderr(), result, "", opts.explain)

	if err := printResult(cmd.OutOrStdout(), opts.format, result); err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("%s: %w", req.Directive, engine.ErrInvalidBinding)
	}
	return nil
}

func runRenderToDisk(cmd *cobra.Command, global *globalOptions, opts *renderOptions, req generate.Request) error {
	engineOpts := []engine.Option{
		engine.WithLogger(global.logger),
		engine.WithOutputRoot(opts.out),
		engine.WithPostProcessors(processors.Default(opts.banner)...),
		engine.WithSkipExisting(opts.skipExisting),
	}

	var dryRun *write.DryRunWriter
	if opts.dryRun {
		dryRun = write.NewDryRunWriter()
		engineOpts = append(engineOpts, engine.WithWriter(dryRun))
	}

	results, summary, err := engine.New(engineOpts...).Run(cmd.Context(), []generate.Request{req})
	for _, result := range results {
		if result != nil {
			reportDiagnostics(cmd.ErrOrStderr(), result, "", opts.explain)
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
}

// postProcess applies chain to both artifacts under the paths they would be
// written to.
func postProcess(directive string, artifacts generate.Artifacts, chain *postprocess.Chain) (generate.Artifacts, error) {
	templatePath, sourcePath := engine.ArtifactPaths(directive)

	skeleton, err := chain.Process(templatePath, []byte(artifacts.Skeleton))
	if err != nil {
		return artifacts, err
	}
	source, err := chain.Process(sourcePath, []byte(artifacts.Directive))
	if err != nil {
		return artifacts, err
	}

	return generate.Artifacts{Skeleton: string(skeleton), Directive: string(source)}, nil
}

// reportDiagnostics prints the parse errors and warnings of result. A
// non-empty label prefixes every line; explain prints each error with its
// location and suggestions instead.
func reportDiagnostics(w io.Writer, result *engine.Result, label string, explain bool) {
	if label != "" {
		label += ": "
	}

	if explain {
		for _, ee := range debug.Explain(result.Request.Directive, result.Request.Binding, result.Errors) {
			fmt.Fprintln(w, ee.FormatDetailed())
		}
	} else {
		for _, msg := range result.Errors {
			fmt.Fprintf(w, "%serror: %s\n", label, msg)
		}
	}
	for _, msg := range result.Warnings {
		fmt.Fprintf(w, "%swarning: %s\n", label, msg)
	}
}

func printResult(w io.Writer, format string, result *engine.Result) error {
	templatePath, sourcePath := engine.ArtifactPaths(result.Request.Directive)

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case formatTxtar:
		archive := &txtar.Archive{
			Comment: []byte(result.Query + "\n"),
			Files: []txtar.File{
				{Name: filepath.ToSlash(templatePath), Data: []byte(result.Artifacts.Skeleton)},
				{Name: filepath.ToSlash(sourcePath), Data: []byte(result.Artifacts.Directive)},
			},
		}
		_, err := w.Write(txtar.Format(archive))
		return err
	default:
		_, err := fmt.Fprintf(w, "%s\n%s", result.Artifacts.Skeleton, result.Artifacts.Directive)
		return err
	}
}

func printChanges(w io.Writer, changes []write.Change) {
	for _, c := range changes {
		fmt.Fprintf(w, "%-9s %s (%d bytes)\n", c.Action, c.Path, c.Size)
	}
}

func printSummary(w io.Writer, format string, summary *engine.RunSummary) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	for _, f := range summary.Files {
		fmt.Fprintf(w, "wrote %s (%d bytes)\n", f.Path, f.Size)
	}
	for _, p := range summary.Unchanged {
		fmt.Fprintf(w, "unchanged %s\n", p)
	}
	for _, d := range summary.Skipped {
		fmt.Fprintf(w, "skipped %s\n", d)
	}
	for _, p := range summary.Modified {
		fmt.Fprintf(w, "overwrote edited %s\n", p)
	}
	for _, p := range summary.Stale {
		fmt.Fprintf(w, "stale %s\n", p)
	}
	return nil
}
