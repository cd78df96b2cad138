package engine

import (
	"log/slog"

	"github.com/cpcf/ngsyntax/binding"
	"github.com/cpcf/ngsyntax/postprocess"
	"github.com/cpcf/ngsyntax/write"
)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithOutputRoot(root string) Option {
	return func(e *Engine) {
		e.outputRoot = root
	}
}

func WithFailureMode(mode FailureMode) Option {
	return func(e *Engine) {
		e.failMode = mode
	}
}

// WithConcurrency bounds how many requests GenerateAll works on at once.
// Values below one keep the default.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithParser replaces the built-in micro-syntax parser.
func WithParser(parser binding.Parser) Option {
	return func(e *Engine) {
		e.parser = parser
	}
}

// WithWriter sets where artifacts go, for example a write.DryRunWriter.
func WithWriter(writer write.Writer) Option {
	return func(e *Engine) {
		e.writer = writer
	}
}

func WithWriteOptions(options write.WriteOptions) Option {
	return func(e *Engine) {
		e.writeOptions = options
	}
}

func WithPostProcessors(processors ...postprocess.Processor) Option {
	return func(e *Engine) {
		for _, p := range processors {
			e.postprocessors.Add(p)
		}
	}
}

// WithManifest controls whether Write records a manifest in the output root.
func WithManifest(enabled bool) Option {
	return func(e *Engine) {
		e.manifest = enabled
	}
}

// WithSkipExisting leaves artifacts that already exist on disk untouched.
// The manifest is still rewritten.
func WithSkipExisting(enabled bool) Option {
	return func(e *Engine) {
		e.skipExisting = enabled
	}
}
