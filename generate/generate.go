// Package generate renders the two artifacts derived from a structural
// directive's bindings: the explicit <ng-template> skeleton and the
// TypeScript source of a directive class implementing the bindings.
//
// The render functions are pure and total. Input validation lives in
// ValidateDirectiveName and is applied by callers at the boundary.
package generate

import (
	"strings"

	"github.com/cpcf/ngsyntax/binding"
	"github.com/cpcf/ngsyntax/textblock"
)

const imports = `import { Directive, Input, TemplateRef } from '@angular/core'`

// Request is one generation input as typed by a user.
type Request struct {
	TagName   string `yaml:"tag" json:"tagName"`
	Directive string `yaml:"directive" json:"directive"`
	Binding   string `yaml:"binding" json:"binding"`
}

// Artifacts holds the rendered output for one set of bindings.
type Artifacts struct {
	Skeleton  string `json:"skeleton"`
	Directive string `json:"directive"`
}

// Render produces both artifacts for bindings.
func Render(directiveName, tagName string, bindings []binding.Binding) Artifacts {
	return Artifacts{
		Skeleton:  RenderSkeleton(tagName, bindings),
		Directive: RenderDirective(directiveName, tagName, bindings),
	}
}

// RenderSkeleton renders bindings as attributes of an <ng-template> wrapping
// an empty tagName element.
func RenderSkeleton(tagName string, bindings []binding.Binding) string {
	attrs := make([]string, 0, len(bindings))
	for _, b := range bindings {
		attrs = append(attrs, attribute(b))
	}

	var joined string
	if len(attrs) > 0 {
		joined = " " + strings.Join(attrs, " ")
	}

	return textblock.Format([]string{`
    <ng-template`, `>
      <`, `></`, `>
    </ng-template>
  `}, joined, tagName, tagName)
}

func attribute(b binding.Binding) string {
	switch {
	case b.IsImplicit():
		return "let-" + b.Key
	case b.KeyIsVar:
		return "let-" + b.Key + `="` + b.Name + `"`
	case b.Expression != nil:
		return "[" + b.Key + `]="` + strings.TrimSpace(b.Expression.Source) + `"`
	default:
		return "[" + b.Key + "]"
	}
}

// RenderDirective renders the TypeScript source of a directive class for
// directiveName. A context interface is emitted only when the bindings
// declare variables, and input fields only when they carry expressions.
//
// tagName does not appear in the output; it is accepted so both renderers
// share a signature shape.
func RenderDirective(directiveName, tagName string, bindings []binding.Binding) string {
	className := ClassName(directiveName)
	c := binding.Classify(bindings)

	var context, inputs string
	templateType := "any"
	if c.HasVariables {
		context = "\n    " + renderContext(className, c.Variables)
		templateType = className + "Context"
	}
	if c.HasInputs {
		inputs = "\n" + renderInputs(c.Inputs) + "\n    "
	}

	return textblock.Format([]string{`
    `, ``, `

    @Directive({
      selector: '[`, `]'
    })
    export class `, ` {`, `
      constructor(templateRef: TemplateRef<`, `>) {}
    }
  `}, imports, context, directiveName, className, inputs, templateType)
}

// renderContext renders the <className>Context interface with one field per
// variable, indented to sit in the RenderDirective layout. Repeated names are
// emitted as they are.
func renderContext(className string, variables []binding.Binding) string {
	fields := make([]string, 0, len(variables))
	for _, v := range variables {
		fields = append(fields, "      "+v.Name+": any;")
	}

	return "\n    export interface " + className + "Context {\n" + strings.Join(fields, "\n") + "\n    }"
}

// renderInputs renders one @Input() field per input binding, indented to sit
// in the class body of the RenderDirective layout.
func renderInputs(inputs []binding.Binding) string {
	fields := make([]string, 0, len(inputs))
	for _, in := range inputs {
		fields = append(fields, "      @Input() "+in.Key+": any = null;")
	}
	return strings.Join(fields, "\n")
}
