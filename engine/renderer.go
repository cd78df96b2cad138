package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cpcf/ngsyntax/generate"
	"github.com/cpcf/ngsyntax/postprocess"
	"github.com/cpcf/ngsyntax/state"
	"github.com/cpcf/ngsyntax/write"
)

const (
	templateSuffix  = ".template.html"
	directiveSuffix = ".directive.ts"
)

// ArtifactPaths returns where the two artifacts of directive are written,
// relative to the output root.
func ArtifactPaths(directive string) (template, source string) {
	return filepath.Join(directive, directive+templateSuffix),
		filepath.Join(directive, directive+directiveSuffix)
}

// WrittenFile describes one artifact handed to the writer.
type WrittenFile struct {
	Path      string           `json:"path"`
	Kind      postprocess.Kind `json:"kind"`
	Size      int              `json:"size"`
	Directive string           `json:"directive"`
}

// RunSummary reports what Write did.
type RunSummary struct {
	RunID     string          `json:"run_id"`
	Files     []WrittenFile   `json:"files"`
	Skipped   []string        `json:"skipped,omitempty"`
	Unchanged []string        `json:"unchanged,omitempty"`
	Modified  []string        `json:"modified,omitempty"`
	Stale     []string        `json:"stale,omitempty"`
	Manifest  *state.Manifest `json:"-"`
}

// Renderer post-processes artifacts and hands them to a writer.
type Renderer struct {
	logger         *slog.Logger
	writer         write.Writer
	options        write.WriteOptions
	postprocessors *postprocess.Chain
}

func NewRenderer(logger *slog.Logger, writer write.Writer, options write.WriteOptions, postprocessors *postprocess.Chain) *Renderer {
	return &Renderer{
		logger:         logger,
		writer:         writer,
		options:        options,
		postprocessors: postprocessors,
	}
}

// renderFile runs the post-processors on content and writes it to
// outputPath unless the writer reports that no write is needed, for example
// because the file already holds the same bytes. The returned content always
// ends in a single newline; written reports whether the writer was called.
func (r *Renderer) renderFile(outputPath string, content []byte) (_ []byte, written bool, _ error) {
	if r.postprocessors.HasProcessors() {
		processed, err := r.postprocessors.Process(outputPath, content)
		if err != nil {
			r.logger.Warn("post-processing failed", "path", outputPath, "error", err)
		} else {
			content = processed
		}
	}

	content = append(bytes.TrimRight(content, "\n"), '\n')

	needed, err := r.writer.NeedsWrite(outputPath, content)
	if err != nil {
		return nil, false, fmt.Errorf("failed to compare output file %s: %w", outputPath, err)
	}
	if !needed {
		r.logger.Debug("artifact left as is", "output", outputPath)
		return content, false, nil
	}

	if !r.writer.CanWrite(outputPath) {
		return nil, false, fmt.Errorf("cannot write %s", outputPath)
	}
	if err := r.writer.Write(outputPath, content, r.options); err != nil {
		return nil, false, fmt.Errorf("failed to write output file %s: %w", outputPath, err)
	}

	r.logger.Debug("rendered artifact", "output", outputPath, "bytes", len(content))
	return content, true, nil
}

// Write stores the artifacts of every result under the output root and,
// unless disabled, a manifest of what was written. Nil results are ignored.
// Directive names are validated again since they become path segments.
// Results with binding errors are not written and count as failures under
// the engine's failure mode.
func (e *Engine) Write(ctx context.Context, results []*Result) (*RunSummary, error) {
	mm := state.NewManifestManager(e.outputRoot)
	previous, err := mm.LoadManifest()
	if err != nil {
		e.logger.Warn("ignoring unreadable manifest", "path", mm.Path(), "error", err)
		previous = nil
	}

	manifest := mm.NewManifest()
	summary := &RunSummary{RunID: manifest.RunID, Manifest: manifest}
	var multiErr MultiError

	fail := func(err *GenerationError) error {
		switch e.failMode {
		case FailFast:
			return err
		case FailAtEnd:
			multiErr.Errors = append(multiErr.Errors, err)
		default:
			e.logger.Error("skipping directive", "directive", err.Path, "error", err.Err)
		}
		return nil
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		directive := result.Request.Directive
		if err := generate.ValidateDirectiveName(directive); err != nil {
			summary.Skipped = append(summary.Skipped, directive)
			if ferr := fail(&GenerationError{Path: directive, Message: "invalid request", Err: err}); ferr != nil {
				return summary, ferr
			}
			continue
		}
		if result.HasErrors() {
			summary.Skipped = append(summary.Skipped, directive)
			err := &GenerationError{
				Path:    directive,
				Message: "not written",
				Err:     fmt.Errorf("%w: %s", ErrInvalidBinding, strings.Join(result.Errors, "; ")),
			}
			if ferr := fail(err); ferr != nil {
				return summary, ferr
			}
			continue
		}

		templatePath, sourcePath := ArtifactPaths(directive)
		artifacts := []struct {
			rel     string
			content string
		}{
			{templatePath, result.Artifacts.Skeleton},
			{sourcePath, result.Artifacts.Directive},
		}

		for _, a := range artifacts {
			modified, err := mm.IsModified(previous, a.rel)
			modified = err == nil && modified

			outputPath := filepath.Join(e.outputRoot, a.rel)
			content, written, err := e.renderer.renderFile(outputPath, []byte(a.content))
			if err != nil {
				if ferr := fail(&GenerationError{Path: outputPath, Message: "write failed", Err: err}); ferr != nil {
					return summary, ferr
				}
				continue
			}

			mm.AddEntry(manifest, a.rel, content, result.Request)
			if !written {
				summary.Unchanged = append(summary.Unchanged, a.rel)
				continue
			}
			if modified {
				e.logger.Warn("overwrote file edited since it was generated", "path", a.rel)
				summary.Modified = append(summary.Modified, a.rel)
			}
			summary.Files = append(summary.Files, WrittenFile{
				Path:      outputPath,
				Kind:      postprocess.KindOf(outputPath),
				Size:      len(content),
				Directive: directive,
			})
		}

		e.logger.Info("generated directive", "directive", directive, "output", filepath.Join(e.outputRoot, directive))
	}

	summary.Stale = state.Stale(previous, manifest)
	for _, path := range summary.Stale {
		e.logger.Info("file from a previous run was not regenerated", "path", path)
	}

	if e.manifest && len(manifest.Entries) > 0 {
		data, err := state.Encode(manifest)
		if err == nil {
			err = e.writer.Write(mm.Path(), data, e.writeOptions)
		}
		if err != nil {
			if ferr := fail(&GenerationError{Path: mm.Path(), Message: "manifest not written", Err: err}); ferr != nil {
				return summary, ferr
			}
		}
	}

	return summary, multiErr.ErrorOrNil()
}
