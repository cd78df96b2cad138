// Package debug explains binding expression errors: it locates the offending
// column in the input and suggests likely fixes.
package debug

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

type ErrorContext struct {
	Directive   string   `json:"directive"`
	Input       string   `json:"input"`
	Offset      int      `json:"offset"`
	AtEnd       bool     `json:"at_end,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// EnhancedError is a parser or lexer message with its position in the input
// resolved.
type EnhancedError struct {
	originalError error
	context       *ErrorContext
}

var (
	parserColumn = regexp.MustCompile(`^Parser Error: .* at column (\d+) in \[`)
	lexerColumn  = regexp.MustCompile(`^Lexer Error: .* at column (\d+) in expression \[`)
)

// NewEnhancedError wraps err, a message produced while parsing input for
// directive. It returns nil for a nil error.
func NewEnhancedError(err error, directive, input string) *EnhancedError {
	if err == nil {
		return nil
	}

	offset, atEnd := locate(err.Error(), input)
	ctx := &ErrorContext{
		Directive:   directive,
		Input:       input,
		Offset:      offset,
		AtEnd:       atEnd,
		Suggestions: Suggest(err.Error()),
	}

	return &EnhancedError{originalError: err, context: ctx}
}

// Explain wraps every message in messages. Messages are the strings found in
// engine results and parse results.
func Explain(directive, input string, messages []string) []*EnhancedError {
	explained := make([]*EnhancedError, 0, len(messages))
	for _, msg := range messages {
		explained = append(explained, NewEnhancedError(messageError(msg), directive, input))
	}
	return explained
}

type messageError string

func (m messageError) Error() string { return string(m) }

func (ee *EnhancedError) Error() string {
	return ee.originalError.Error()
}

func (ee *EnhancedError) Unwrap() error {
	return ee.originalError
}

func (ee *EnhancedError) WithSuggestion(suggestion string) *EnhancedError {
	ee.context.Suggestions = append(ee.context.Suggestions, suggestion)
	return ee
}

func (ee *EnhancedError) GetContext() *ErrorContext {
	return ee.context
}

// FormatDetailed renders the error with the input and a caret under the
// offending column, followed by suggestions.
func (ee *EnhancedError) FormatDetailed() string {
	var builder strings.Builder

	ee.writeBasicInfo(&builder)
	ee.writeLocationInfo(&builder)
	ee.writeSuggestions(&builder)

	return builder.String()
}

func (ee *EnhancedError) writeBasicInfo(builder *strings.Builder) {
	fmt.Fprintf(builder, "Error: %s\n", ee.originalError.Error())
	if ee.context.Directive != "" {
		fmt.Fprintf(builder, "Directive: %s\n", ee.context.Directive)
	}
}

func (ee *EnhancedError) writeLocationInfo(builder *strings.Builder) {
	input := ee.context.Input
	if input == "" || strings.ContainsAny(input, "\r\n") {
		return
	}

	offset := min(ee.context.Offset, len(input))
	width := utf8.RuneCountInString(input[:offset])

	builder.WriteString("\n  " + input + "\n")
	builder.WriteString("  " + strings.Repeat(" ", width) + "^\n")
}

func (ee *EnhancedError) writeSuggestions(builder *strings.Builder) {
	if len(ee.context.Suggestions) == 0 {
		return
	}

	builder.WriteString("\nSuggestions:\n")
	for _, suggestion := range ee.context.Suggestions {
		builder.WriteString("  - " + suggestion + "\n")
	}
}

// locate returns the byte offset msg refers to. Parser columns are 1-based
// and lexer columns 0-based; anything unrecognised points past the end.
func locate(msg, input string) (offset int, atEnd bool) {
	if m := parserColumn.FindStringSubmatch(msg); m != nil {
		if col, err := strconv.Atoi(m[1]); err == nil && col >= 1 && col-1 <= len(input) {
			return col - 1, false
		}
	}
	if m := lexerColumn.FindStringSubmatch(msg); m != nil {
		if col, err := strconv.Atoi(m[1]); err == nil && col <= len(input) {
			return col, false
		}
	}
	return len(input), true
}

// Suggest returns likely fixes for a parser or lexer message.
func Suggest(msg string) []string {
	lower := strings.ToLower(msg)
	var suggestions []string

	switch {
	case strings.Contains(lower, "unterminated quote"):
		suggestions = append(suggestions, "Close the string literal with the quote it was opened with")
	case strings.Contains(lower, "missing expected"):
		suggestions = append(suggestions, "Close every (, [ and { opened in the expression")
	case strings.Contains(lower, "unexpected token ')'"),
		strings.Contains(lower, "unexpected token ']'"),
		strings.Contains(lower, "unexpected token '}'"):
		suggestions = append(suggestions, "Remove the closing bracket that has no matching opener")
	case strings.Contains(lower, "expected identifier, keyword, or string"):
		suggestions = append(suggestions, "Name the variable after let, as in: let item")
		suggestions = append(suggestions, "Use let name = key to bind a named context property")
	case strings.Contains(lower, "unexpected end of expression"):
		suggestions = append(suggestions, "Complete the expression or remove the trailing operator")
	case strings.Contains(lower, "unexpected character"):
		suggestions = append(suggestions, "Remove the character or quote it inside a string literal")
	case strings.Contains(lower, "empty key"):
		suggestions = append(suggestions, "Give the binding a key before its value, as in: trackBy: fn")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Bindings look like: expr; let name = key; key expr as alias")
	}

	return suggestions
}
