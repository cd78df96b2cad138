// Package processors provides built-in post-processors for generated
// templates and directive sources.
package processors

import (
	"bytes"
	"strings"

	"github.com/cpcf/ngsyntax/postprocess"
)

// FinalNewline makes content end with exactly one line break. Empty content
// stays empty.
type FinalNewline struct{}

func NewFinalNewline() *FinalNewline {
	return &FinalNewline{}
}

func (FinalNewline) ProcessContent(_ string, content []byte) ([]byte, error) {
	trimmed := bytes.TrimRight(content, "\r\n")
	if len(trimmed) == 0 {
		return trimmed, nil
	}
	out := make([]byte, 0, len(trimmed)+1)
	out = append(out, trimmed...)
	return append(out, '\n'), nil
}

// TrimTrailingSpace removes spaces and tabs at the end of every line.
type TrimTrailingSpace struct{}

func NewTrimTrailingSpace() *TrimTrailingSpace {
	return &TrimTrailingSpace{}
}

func (TrimTrailingSpace) ProcessContent(_ string, content []byte) ([]byte, error) {
	lines := bytes.Split(content, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimRight(line, " \t")
	}
	return bytes.Join(lines, []byte("\n")), nil
}

// Banner prepends a "generated, do not edit" notice in the comment syntax of
// the artifact: // for directives and <!-- --> for templates. Other files and
// files that already start with the notice are left alone.
type Banner struct {
	Text string
}

// DefaultBannerText is used when Banner.Text is empty.
const DefaultBannerText = "Generated by ngsyntax. DO NOT EDIT."

func NewBanner(text string) *Banner {
	return &Banner{Text: text}
}

func (b *Banner) ProcessContent(filePath string, content []byte) ([]byte, error) {
	text := b.Text
	if text == "" {
		text = DefaultBannerText
	}

	var line string
	switch postprocess.KindOf(filePath) {
	case postprocess.KindDirective:
		line = "// " + text
	case postprocess.KindTemplate:
		line = "<!-- " + text + " -->"
	default:
		return content, nil
	}

	if strings.HasPrefix(string(content), line+"\n") {
		return content, nil
	}

	out := make([]byte, 0, len(line)+2+len(content))
	out = append(out, line...)
	out = append(out, "\n\n"...)
	return append(out, content...), nil
}

// Default returns the processors applied to every artifact: trailing space
// removal followed by final newline normalisation, plus the banner when
// banner is true.
func Default(banner bool) []postprocess.Processor {
	ps := []postprocess.Processor{NewTrimTrailingSpace()}
	if banner {
		ps = append(ps, NewBanner(""))
	}
	return append(ps, NewFinalNewline())
}
