// Package engine drives generation: it parses each request's binding,
// renders both artifacts, post-processes them and writes them together with
// a manifest.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/cpcf/ngsyntax/binding"
	"github.com/cpcf/ngsyntax/generate"
	"github.com/cpcf/ngsyntax/postprocess"
	"github.com/cpcf/ngsyntax/query"
	"github.com/cpcf/ngsyntax/write"
)

// ErrInvalidBinding marks a request whose binding expression has parse
// errors. Such requests render but are not written.
var ErrInvalidBinding = errors.New("binding expression has errors")

type Engine struct {
	logger         *slog.Logger
	outputRoot     string
	failMode       FailureMode
	concurrency    int
	parser         binding.Parser
	cache          *ParseCache
	writer         write.Writer
	writeOptions   write.WriteOptions
	postprocessors *postprocess.Chain
	manifest       bool
	skipExisting   bool
	renderer       *Renderer
}

type FailureMode int

const (
	FailFast FailureMode = iota
	FailAtEnd
	BestEffort
)

func (m FailureMode) String() string {
	switch m {
	case FailFast:
		return "fail_fast"
	case FailAtEnd:
		return "fail_at_end"
	case BestEffort:
		return "best_effort"
	default:
		return fmt.Sprintf("FailureMode(%d)", int(m))
	}
}

// ParseFailureMode accepts the names printed by FailureMode.String, with
// dashes allowed in place of underscores. The empty string is FailFast.
func ParseFailureMode(s string) (FailureMode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "", "fail_fast":
		return FailFast, nil
	case "fail_at_end":
		return FailAtEnd, nil
	case "best_effort":
		return BestEffort, nil
	}
	return FailFast, fmt.Errorf("unknown failure mode %q", s)
}

// Result is the outcome of one request. Parser problems are reported in
// Errors and Warnings; the artifacts are rendered from whatever bindings the
// parser produced.
type Result struct {
	Request   generate.Request   `json:"request"`
	Errors    []string           `json:"errors"`
	Warnings  []string           `json:"warnings"`
	Artifacts generate.Artifacts `json:"artifacts"`
	Query     string             `json:"query"`
	Bindings  []binding.Binding  `json:"bindings"`
}

// HasErrors reports whether the binding failed to parse cleanly.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

func New(opts ...Option) *Engine {
	e := &Engine{
		logger:         slog.Default(),
		outputRoot:     "./out",
		failMode:       FailFast,
		concurrency:    runtime.NumCPU(),
		parser:         binding.NewParser(),
		cache:          NewParseCache(),
		writer:         write.NewBaseWriter(),
		writeOptions:   write.ArtifactOptions(),
		postprocessors: postprocess.NewChain(),
		manifest:       true,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.writer = write.NewLoggingWriter(e.writer, e.logger)

	artifactWriter := e.writer
	if e.skipExisting {
		artifactWriter = write.NewSkipIfExistsWriter(e.writer)
	}
	e.renderer = NewRenderer(e.logger, artifactWriter, e.writeOptions, e.postprocessors)

	return e
}

// Generate parses and renders one request. It fails only for an invalid
// directive name or a cancelled context.
func (e *Engine) Generate(ctx context.Context, req generate.Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := generate.ValidateDirectiveName(req.Directive); err != nil {
		return nil, &GenerationError{Path: req.Directive, Message: "invalid request", Err: err}
	}

	e.logger.Debug("generating", "directive", req.Directive, "tag", req.TagName, "binding", req.Binding)

	parsed := e.cache.Get(e.parser, req.Directive, req.Binding)
	result := &Result{
		Request:   req,
		Errors:    parsed.ErrorMessages(),
		Warnings:  append([]string{}, parsed.Warnings...),
		Artifacts: generate.Render(req.Directive, req.TagName, parsed.Bindings),
		Query:     query.Encode(req),
		Bindings:  parsed.Bindings,
	}

	for _, w := range result.Warnings {
		e.logger.Warn("binding warning", "directive", req.Directive, "warning", w)
	}
	if result.HasErrors() {
		e.logger.Debug("binding has errors", "directive", req.Directive, "count", len(result.Errors))
	}

	return result, nil
}

// Run generates every request and writes the artifacts under the output
// root. Under FailFast nothing is written when generation fails.
func (e *Engine) Run(ctx context.Context, reqs []generate.Request) ([]*Result, *RunSummary, error) {
	results, genErr := e.GenerateAll(ctx, reqs)
	if genErr != nil && (e.failMode == FailFast || ctx.Err() != nil) {
		return results, nil, genErr
	}

	summary, writeErr := e.Write(ctx, results)
	return results, summary, merge(genErr, writeErr)
}

// AddPostProcessor appends a processor applied to every artifact before it
// is written.
func (e *Engine) AddPostProcessor(processor postprocess.Processor) {
	e.postprocessors.Add(processor)
}

func (e *Engine) AddPostProcessorFunc(fn func(filePath string, content []byte) ([]byte, error)) {
	e.postprocessors.AddFunc(fn)
}

// Cache exposes the parse cache, mainly for inspection.
func (e *Engine) Cache() *ParseCache {
	return e.cache
}
