package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cpcf/ngsyntax/engine"
	"github.com/cpcf/ngsyntax/generate"
	"github.com/cpcf/ngsyntax/processors"
)

// DefaultOutput is used when a batch file does not name an output directory.
const DefaultOutput = "./generated"

// Batch is a generation plan read from YAML:
//
//	output: ./generated
//	failure_mode: fail_at_end
//	concurrency: 4
//	banner: true
//	skip_existing: true
//	requests:
//	  - tag: li
//	    directive: ngFor
//	    binding: "let item of items; let i = index"
type Batch struct {
	Output       string             `yaml:"output"`
	FailureMode  string             `yaml:"failure_mode"`
	Concurrency  int                `yaml:"concurrency"`
	Banner       bool               `yaml:"banner"`
	Manifest     *bool              `yaml:"manifest"`
	SkipExisting bool               `yaml:"skip_existing"`
	Requests     []generate.Request `yaml:"requests"`
}

// Validate checks the failure mode, the concurrency and every request's
// directive name. All problems are reported together.
func (b *Batch) Validate() error {
	var errs []error

	if _, err := engine.ParseFailureMode(b.FailureMode); err != nil {
		errs = append(errs, err)
	}
	if b.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", b.Concurrency))
	}
	if len(b.Requests) == 0 {
		errs = append(errs, errors.New("no requests"))
	}
	for i, req := range b.Requests {
		if err := generate.ValidateDirectiveName(req.Directive); err != nil {
			errs = append(errs, fmt.Errorf("requests[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// Mode returns the parsed failure mode. It assumes Validate passed.
func (b *Batch) Mode() engine.FailureMode {
	mode, _ := engine.ParseFailureMode(b.FailureMode)
	return mode
}

// OutputDir returns the output directory, defaulting to DefaultOutput.
func (b *Batch) OutputDir() string {
	if b.Output == "" {
		return DefaultOutput
	}
	return b.Output
}

// Options translates the batch settings into engine options.
func (b *Batch) Options() []engine.Option {
	opts := []engine.Option{
		engine.WithOutputRoot(b.OutputDir()),
		engine.WithFailureMode(b.Mode()),
		engine.WithConcurrency(b.Concurrency),
		engine.WithPostProcessors(processors.Default(b.Banner)...),
	}
	if b.Manifest != nil {
		opts = append(opts, engine.WithManifest(*b.Manifest))
	}
	if b.SkipExisting {
		opts = append(opts, engine.WithSkipExisting(true))
	}
	return opts
}

// LoadBatch reads a batch file. A relative output directory is resolved
// against the directory holding the file.
func LoadBatch(path string) (*Batch, error) {
	var b Batch
	if err := LoadYAML(path, &b); err != nil {
		return nil, err
	}

	if out := b.OutputDir(); !filepath.IsAbs(out) {
		b.Output = filepath.Join(filepath.Dir(path), out)
	}
	return &b, nil
}
