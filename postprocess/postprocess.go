// Package postprocess applies transformations to rendered artifacts after
// generation and before they are written.
//
// Processors see the destination path, so a processor meant for one kind of
// artifact can leave the others untouched:
//
//	chain := postprocess.NewChain()
//	chain.Add(postprocess.ForKind(postprocess.KindDirective, myTSFormatter))
//	chain.Add(processors.NewFinalNewline())
package postprocess

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Processor transforms the content of one artifact. Implementations should be
// stateless and safe for concurrent use, and return content unchanged for
// paths they do not apply to.
type Processor interface {
	ProcessContent(filePath string, content []byte) ([]byte, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(filePath string, content []byte) ([]byte, error)

func (f ProcessorFunc) ProcessContent(filePath string, content []byte) ([]byte, error) {
	return f(filePath, content)
}

// Kind identifies which of the two generated artifacts a path holds.
type Kind int

const (
	KindOther Kind = iota
	// KindTemplate is the <ng-template> skeleton (.html).
	KindTemplate
	// KindDirective is the directive class source (.ts).
	KindDirective
)

func (k Kind) String() string {
	switch k {
	case KindTemplate:
		return "template"
	case KindDirective:
		return "directive"
	default:
		return "other"
	}
}

// KindOf classifies filePath by extension.
func KindOf(filePath string) Kind {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".html", ".htm":
		return KindTemplate
	case ".ts":
		return KindDirective
	default:
		return KindOther
	}
}

// ForKind restricts p to artifacts of the given kind.
func ForKind(kind Kind, p Processor) Processor {
	return ProcessorFunc(func(filePath string, content []byte) ([]byte, error) {
		if KindOf(filePath) != kind {
			return content, nil
		}
		return p.ProcessContent(filePath, content)
	})
}

// Chain runs processors in the order they were added.
type Chain struct {
	processors []Processor
}

func NewChain(processors ...Processor) *Chain {
	c := &Chain{processors: make([]Processor, 0, len(processors))}
	for _, p := range processors {
		c.Add(p)
	}
	return c
}

// Add appends processor. Nil processors are ignored.
func (c *Chain) Add(processor Processor) {
	if processor == nil {
		return
	}
	c.processors = append(c.processors, processor)
}

func (c *Chain) AddFunc(fn func(filePath string, content []byte) ([]byte, error)) {
	c.Add(ProcessorFunc(fn))
}

// Process runs every processor on content. The first failure stops the
// chain and is returned with the processor's position.
func (c *Chain) Process(filePath string, content []byte) ([]byte, error) {
	result := content
	for i, processor := range c.processors {
		processed, err := processor.ProcessContent(filePath, result)
		if err != nil {
			return nil, fmt.Errorf("processor %d failed for %s: %w", i, filePath, err)
		}
		result = processed
	}
	return result, nil
}

func (c *Chain) HasProcessors() bool {
	return len(c.processors) > 0
}

func (c *Chain) Len() int {
	return len(c.processors)
}

func (c *Chain) Clear() {
	c.processors = c.processors[:0]
}
