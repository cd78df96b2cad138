package debug

import (
	"errors"
	"strings"
	"testing"

	"github.com/cpcf/ngsyntax/binding"
)

func TestNewEnhancedError(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		input     string
		offset    int
		atEnd     bool
		suggested string
	}{
		{
			name:      "parser column is 1-based",
			msg:       "Parser Error: Unexpected token ')' at column 18 in [let item of items)] in ngFor",
			input:     "let item of items)",
			offset:    17,
			suggested: "no matching opener",
		},
		{
			name:      "lexer column is 0-based",
			msg:       "Lexer Error: Unterminated quote at column 12 in expression [let item of 'abc]",
			input:     "let item of 'abc",
			offset:    12,
			suggested: "Close the string literal",
		},
		{
			name:      "end of expression",
			msg:       "Parser Error: Missing expected ) at the end of the expression [let x of fn(a]",
			input:     "let x of fn(a",
			offset:    13,
			atEnd:     true,
			suggested: "Close every (",
		},
		{
			name:      "unknown message",
			msg:       "something else",
			input:     "abc",
			offset:    3,
			atEnd:     true,
			suggested: "Bindings look like",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ee := NewEnhancedError(errors.New(tt.msg), "ngFor", tt.input)
			if ee == nil {
				t.Fatal("Expected non-nil enhanced error")
			}

			ctx := ee.GetContext()
			if ctx.Offset != tt.offset || ctx.AtEnd != tt.atEnd {
				t.Errorf("location = (%d, %v), want (%d, %v)", ctx.Offset, ctx.AtEnd, tt.offset, tt.atEnd)
			}
			if len(ctx.Suggestions) == 0 || !strings.Contains(ctx.Suggestions[0], tt.suggested) {
				t.Errorf("suggestions %q do not mention %q", ctx.Suggestions, tt.suggested)
			}
			if ee.Error() != tt.msg {
				t.Errorf("Error() = %q, want %q", ee.Error(), tt.msg)
			}
		})
	}
}

func TestNewEnhancedErrorNil(t *testing.T) {
	if ee := NewEnhancedError(nil, "ngFor", "x"); ee != nil {
		t.Errorf("Expected nil, got %v", ee)
	}
}

func TestEnhancedErrorUnwrap(t *testing.T) {
	original := &binding.ParseError{Message: "Parser Error: boom at the end of the expression [x]"}
	ee := NewEnhancedError(original, "appX", "x")

	var pe *binding.ParseError
	if !errors.As(ee, &pe) || pe != original {
		t.Error("EnhancedError should unwrap to the parse error")
	}
}

func TestFormatDetailed(t *testing.T) {
	ee := NewEnhancedError(
		errors.New("Parser Error: Unexpected token ')' at column 18 in [let item of items)] in ngFor"),
		"ngFor",
		"let item of items)",
	).WithSuggestion("Check the ngFor documentation")

	want := "Error: Parser Error: Unexpected token ')' at column 18 in [let item of items)] in ngFor\n" +
		"Directive: ngFor\n" +
		"\n" +
		"  let item of items)\n" +
		"                   ^\n" +
		"\n" +
		"Suggestions:\n" +
		"  - Remove the closing bracket that has no matching opener\n" +
		"  - Check the ngFor documentation\n"

	if got := ee.FormatDetailed(); got != want {
		t.Errorf("FormatDetailed mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatDetailedCountsRunes(t *testing.T) {
	ee := NewEnhancedError(errors.New("Lexer Error: Unexpected character [@] at column 7 in expression [let é @]"), "", "let é @")

	lines := strings.Split(ee.FormatDetailed(), "\n")
	var caret string
	for _, line := range lines {
		if strings.HasSuffix(line, "^") {
			caret = line
		}
	}
	if caret != "        ^" {
		t.Errorf("caret line = %q", caret)
	}
}

func TestExplainWithParser(t *testing.T) {
	input := "let item of items; let"
	result := binding.NewParser().ParseTemplateBindings("ngFor", input, "")
	if len(result.Errors) == 0 {
		t.Fatal("expected parse errors")
	}

	explained := Explain("ngFor", input, result.ErrorMessages())
	if len(explained) != len(result.Errors) {
		t.Fatalf("Explain returned %d errors, want %d", len(explained), len(result.Errors))
	}
	ctx := explained[0].GetContext()
	if !ctx.AtEnd || ctx.Offset != len(input) {
		t.Errorf("expected the error at the end of the input, got %+v", ctx)
	}
	if !strings.Contains(ctx.Suggestions[0], "let item") {
		t.Errorf("unexpected suggestions %q", ctx.Suggestions)
	}
}
