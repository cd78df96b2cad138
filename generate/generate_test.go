package generate

import (
	"errors"
	"strings"
	"testing"

	"github.com/cpcf/ngsyntax/binding"
)

func expr(source string) *binding.Expression {
	return &binding.Expression{Source: source}
}

var ngForBindings = []binding.Binding{
	{Key: "ngFor"},
	{Key: "item", Name: binding.Implicit, KeyIsVar: true},
	{Key: "ngForOf", Expression: expr("items")},
	{Key: "i", Name: "index", KeyIsVar: true},
}

func TestRenderSkeleton(t *testing.T) {
	tests := []struct {
		name     string
		tagName  string
		bindings []binding.Binding
		expected string
	}{
		{
			name:     "ngFor with index",
			tagName:  "li",
			bindings: ngForBindings,
			expected: "<ng-template [ngFor] let-item [ngForOf]=\"items\" let-i=\"index\">\n  <li></li>\n</ng-template>",
		},
		{
			name:    "implicit variable and input",
			tagName: "li",
			bindings: []binding.Binding{
				{Key: "ngFor", Name: binding.Implicit, KeyIsVar: true},
				{Key: "ngForOf", Expression: expr("items")},
			},
			expected: "<ng-template let-ngFor [ngForOf]=\"items\">\n  <li></li>\n</ng-template>",
		},
		{
			name:     "no bindings",
			tagName:  "li",
			expected: "<ng-template>\n  <li></li>\n</ng-template>",
		},
		{
			name:     "flag only",
			tagName:  "div",
			bindings: []binding.Binding{{Key: "ngIf"}},
			expected: "<ng-template [ngIf]>\n  <div></div>\n</ng-template>",
		},
		{
			name:     "expression source is trimmed",
			tagName:  "p",
			bindings: []binding.Binding{{Key: "ngIf", Expression: expr("  user$ | async ")}},
			expected: "<ng-template [ngIf]=\"user$ | async\">\n  <p></p>\n</ng-template>",
		},
		{
			name:    "attributes keep binding order",
			tagName: "tr",
			bindings: []binding.Binding{
				{Key: "b", Expression: expr("2")},
				{Key: "x", Name: "y", KeyIsVar: true},
				{Key: "a", Expression: expr("1")},
			},
			expected: "<ng-template [b]=\"2\" let-x=\"y\" [a]=\"1\">\n  <tr></tr>\n</ng-template>",
		},
		{
			name:     "multi-line expression does not block dedenting",
			tagName:  "li",
			bindings: []binding.Binding{{Key: "ngIf", Expression: expr("a &&\nb")}},
			expected: "<ng-template [ngIf]=\"a &&\nb\">\n  <li></li>\n</ng-template>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderSkeleton(tt.tagName, tt.bindings)
			if got != tt.expected {
				t.Errorf("RenderSkeleton() mismatch.\nExpected: %q\nGot: %q", tt.expected, got)
			}
		})
	}
}

func TestRenderDirective(t *testing.T) {
	tests := []struct {
		name      string
		directive string
		bindings  []binding.Binding
		expected  string
	}{
		{
			name:      "variables and inputs",
			directive: "ngFor",
			bindings:  ngForBindings,
			expected: `import { Directive, Input, TemplateRef } from '@angular/core'

export interface NgForContext {
  $implicit: any;
  index: any;
}

@Directive({
  selector: '[ngFor]'
})
export class NgFor {
  @Input() ngForOf: any = null;

  constructor(templateRef: TemplateRef<NgForContext>) {}
}`,
		},
		{
			name:      "inputs only",
			directive: "ngIf",
			bindings: []binding.Binding{
				{Key: "ngIf", Expression: expr("cond")},
				{Key: "ngIfElse", Expression: expr("other")},
			},
			expected: `import { Directive, Input, TemplateRef } from '@angular/core'

@Directive({
  selector: '[ngIf]'
})
export class NgIf {
  @Input() ngIf: any = null;
  @Input() ngIfElse: any = null;

  constructor(templateRef: TemplateRef<any>) {}
}`,
		},
		{
			name:      "variables only",
			directive: "appLet",
			bindings:  []binding.Binding{{Key: "v", Name: "value", KeyIsVar: true}},
			expected: `import { Directive, Input, TemplateRef } from '@angular/core'

export interface AppLetContext {
  value: any;
}

@Directive({
  selector: '[appLet]'
})
export class AppLet {
  constructor(templateRef: TemplateRef<AppLetContext>) {}
}`,
		},
		{
			name:      "no bindings",
			directive: "ngFor",
			expected: `import { Directive, Input, TemplateRef } from '@angular/core'

@Directive({
  selector: '[ngFor]'
})
export class NgFor {
  constructor(templateRef: TemplateRef<any>) {}
}`,
		},
		{
			name:      "flag only contributes nothing",
			directive: "ngIf",
			bindings:  []binding.Binding{{Key: "ngIf"}},
			expected: `import { Directive, Input, TemplateRef } from '@angular/core'

@Directive({
  selector: '[ngIf]'
})
export class NgIf {
  constructor(templateRef: TemplateRef<any>) {}
}`,
		},
		{
			name:      "duplicate variable names pass through",
			directive: "x",
			bindings: []binding.Binding{
				{Key: "a", Name: "index", KeyIsVar: true},
				{Key: "b", Name: "index", KeyIsVar: true},
			},
			expected: `import { Directive, Input, TemplateRef } from '@angular/core'

export interface XContext {
  index: any;
  index: any;
}

@Directive({
  selector: '[x]'
})
export class X {
  constructor(templateRef: TemplateRef<XContext>) {}
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderDirective(tt.directive, "li", tt.bindings)
			if got != tt.expected {
				t.Errorf("RenderDirective() mismatch.\nExpected:\n%s\nGot:\n%s", tt.expected, got)
			}
		})
	}
}

func TestRenderDirectiveIgnoresTagName(t *testing.T) {
	if a, b := RenderDirective("ngFor", "li", ngForBindings), RenderDirective("ngFor", "tr", ngForBindings); a != b {
		t.Errorf("tag name changed the directive source:\n%s\n---\n%s", a, b)
	}
}

func TestRenderDoesNotMutateBindings(t *testing.T) {
	bindings := []binding.Binding{
		{Key: "ngIf", Expression: expr(" cond ")},
		{Key: "x", Name: "ngIf", KeyIsVar: true},
	}

	Render("ngIf", "div", bindings)

	if bindings[0].Expression.Source != " cond " || bindings[1].Key != "x" {
		t.Errorf("bindings were modified: %+v", bindings)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	first := Render("ngFor", "li", ngForBindings)
	for range 10 {
		if got := Render("ngFor", "li", ngForBindings); got != first {
			t.Fatalf("Render output changed between calls:\n%+v\n%+v", first, got)
		}
	}
}

func TestRenderedLinesHaveNoTrailingIndentation(t *testing.T) {
	a := Render("ngFor", "li", ngForBindings)
	for _, text := range []string{a.Skeleton, a.Directive} {
		if text != strings.TrimSpace(text) {
			t.Errorf("output is not trimmed: %q", text)
		}
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) == "" && line != "" {
				t.Errorf("whitespace-only line in %q", text)
			}
		}
	}
}

func TestClassName(t *testing.T) {
	tests := map[string]string{
		"ngFor":  "NgFor",
		"NgIf":   "NgIf",
		"x":      "X",
		"":       "",
		"élan":   "Élan",
		"1thing": "1thing",
	}

	for in, expected := range tests {
		if got := ClassName(in); got != expected {
			t.Errorf("ClassName(%q) = %q, want %q", in, got, expected)
		}
	}
}

func TestValidateDirectiveName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "valid", input: "ngFor"},
		{name: "unicode letter", input: "éx"},
		{name: "empty", input: "", expected: ErrEmptyDirectiveName},
		{name: "digit", input: "1x", expected: ErrInvalidDirectiveName},
		{name: "symbol", input: "$x", expected: ErrInvalidDirectiveName},
		{name: "dashes digits and dollars", input: "app-list_2$"},
		{name: "path separator", input: "a/b", expected: ErrInvalidDirectiveName},
		{name: "quote", input: "x']", expected: ErrInvalidDirectiveName},
		{name: "space", input: "ng For", expected: ErrInvalidDirectiveName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDirectiveName(tt.input)
			if !errors.Is(err, tt.expected) {
				t.Errorf("ValidateDirectiveName(%q) = %v, want %v", tt.input, err, tt.expected)
			}
			if tt.expected == ErrInvalidDirectiveName && !strings.Contains(err.Error(), tt.input) {
				t.Errorf("error %q does not name the input", err)
			}
		})
	}
}
