package postprocess

import (
	"errors"
	"strings"
	"testing"
)

// prefixer marks content with its name so ordering is visible.
type prefixer struct {
	name      string
	transform func(string, []byte) ([]byte, error)
}

func (p *prefixer) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if p.transform != nil {
		return p.transform(filePath, content)
	}
	return []byte(p.name + ":" + string(content)), nil
}

func TestNewChain(t *testing.T) {
	chain := NewChain(&prefixer{name: "A"}, nil, &prefixer{name: "B"})
	if chain.Len() != 2 {
		t.Errorf("nil processors should be skipped, got length %d", chain.Len())
	}

	if NewChain().HasProcessors() {
		t.Error("an empty chain should report no processors")
	}
}

func TestChain_Process(t *testing.T) {
	failing := &prefixer{
		name: "error",
		transform: func(string, []byte) ([]byte, error) {
			return nil, errors.New("processor error")
		},
	}

	tests := []struct {
		name        string
		processors  []Processor
		input       string
		expected    string
		shouldError bool
	}{
		{
			name:     "empty chain",
			input:    "<li></li>",
			expected: "<li></li>",
		},
		{
			name:       "processors run in order",
			processors: []Processor{&prefixer{name: "A"}, &prefixer{name: "B"}},
			input:      "x",
			expected:   "B:A:x",
		},
		{
			name:        "failure stops the chain",
			processors:  []Processor{failing, &prefixer{name: "B"}},
			input:       "x",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewChain(tt.processors...)
			result, err := chain.Process("ngFor/ngFor.directive.ts", []byte(tt.input))

			if tt.shouldError {
				if err == nil {
					t.Fatal("Expected error, got none")
				}
				if !strings.Contains(err.Error(), "processor 0 failed for ngFor/ngFor.directive.ts") {
					t.Errorf("error should name the processor and path: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

func TestChain_Clear(t *testing.T) {
	chain := NewChain(&prefixer{name: "a"}, &prefixer{name: "b"})
	chain.Clear()

	if chain.Len() != 0 || chain.HasProcessors() {
		t.Errorf("Expected an empty chain after clear, got %d", chain.Len())
	}
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"out/ngFor/ngFor.template.html": KindTemplate,
		"out/ngFor/ngFor.directive.ts":  KindDirective,
		"OUT/X.HTML":                    KindTemplate,
		"out/.ngsyntax.manifest.json":   KindOther,
		"README":                        KindOther,
	}

	for path, expected := range tests {
		if got := KindOf(path); got != expected {
			t.Errorf("KindOf(%q) = %v, want %v", path, got, expected)
		}
	}
}

func TestForKind(t *testing.T) {
	upper := ProcessorFunc(func(_ string, content []byte) ([]byte, error) {
		return []byte(strings.ToUpper(string(content))), nil
	})
	chain := NewChain()
	chain.Add(ForKind(KindDirective, upper))

	ts, err := chain.Process("a.directive.ts", []byte("export class a {}"))
	if err != nil {
		t.Fatal(err)
	}
	if string(ts) != "EXPORT CLASS A {}" {
		t.Errorf("directive should be processed, got %q", ts)
	}

	html, err := chain.Process("a.template.html", []byte("<li></li>"))
	if err != nil {
		t.Fatal(err)
	}
	if string(html) != "<li></li>" {
		t.Errorf("template should be untouched, got %q", html)
	}
}
