// Package textblock builds multi-line source text from indented literal fragments.
//
// Generators write their output as indented blocks that line up with the Go
// code around them. Format joins the fragments with the interpolated values,
// removes the common indentation and trims the result, so the emitted text
// starts at column zero regardless of how deeply the literal was nested.
package textblock

import (
	"math"
	"regexp"
	"strings"
)

var (
	continuation = regexp.MustCompile(`\\\n[ \t]*`)
	indented     = regexp.MustCompile(`^(\s+)\S`)
)

// Format concatenates fragments and values in order (fragments[0], values[0],
// fragments[1], ...) and normalises the indentation of the result.
//
// Literal fragments may use a backslash at the end of a line to continue on
// the next one without the line break and the following indentation
// appearing in the output, and may escape backticks as \`. Neither rule is
// applied to values. After dedenting and trimming, every two-character
// sequence \n becomes a line break.
//
// Extra values without a preceding fragment are ignored.
func Format(fragments []string, values ...string) string {
	var b strings.Builder
	for i, fragment := range fragments {
		fragment = continuation.ReplaceAllString(fragment, "")
		b.WriteString(strings.ReplaceAll(fragment, "\\`", "`"))
		if i < len(values) {
			b.WriteString(values[i])
		}
	}

	result := b.String()
	lines := strings.Split(result, "\n")

	if indent := minIndent(lines); indent > 0 {
		for i, line := range lines {
			if !strings.HasPrefix(line, " ") {
				continue
			}
			if len(line) <= indent {
				lines[i] = ""
			} else {
				lines[i] = line[indent:]
			}
		}
		result = strings.Join(lines, "\n")
	}

	return strings.ReplaceAll(strings.TrimSpace(result), `\n`, "\n")
}

// Unpad formats a single literal with no interpolated values.
func Unpad(text string) string {
	return Format([]string{text})
}

// minIndent returns the shortest leading whitespace run among lines that
// start with whitespace followed by content. Unindented lines and blank
// lines do not take part; when no line qualifies the result is zero.
func minIndent(lines []string) int {
	indent := math.MaxInt
	for _, line := range lines {
		m := indented.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent = min(indent, len(m[1]))
	}
	if indent == math.MaxInt {
		return 0
	}
	return indent
}
