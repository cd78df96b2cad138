// Package binding models the bindings of a structural directive micro-syntax
// expression such as `let item of items; let i = index`.
//
// A Parser turns the raw expression into an ordered list of Binding values.
// Classify partitions that list into the context variables and input
// expressions the generators need.
package binding

// Implicit is the declared name of a variable bound to the template context's
// primary value (`let item` with no right-hand side).
const Implicit = "$implicit"

// Span is a half-open byte range into the parsed expression.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Expression is the right-hand side of an input binding.
type Expression struct {
	// Source is the expression text as written. It may carry trailing
	// whitespace up to the next token.
	Source string `json:"source"`
	Span   Span   `json:"span"`
}

// Binding is a single unit of a micro-syntax expression: either a local
// template variable declaration or an input assignment.
type Binding struct {
	Key        string      `json:"key"`
	Name       string      `json:"name,omitempty"`
	KeyIsVar   bool        `json:"keyIsVar"`
	Expression *Expression `json:"expression,omitempty"`
}

// IsImplicit reports whether b declares the implicit context variable.
func (b Binding) IsImplicit() bool {
	return b.KeyIsVar && b.Name == Implicit
}

// IsInput reports whether b supplies an input expression.
func (b Binding) IsInput() bool {
	return !b.KeyIsVar && b.Expression != nil
}

// IsFlag reports whether b is a bare key with neither a variable nor a value.
func (b Binding) IsFlag() bool {
	return !b.KeyIsVar && b.Expression == nil
}

// Classification partitions a binding list. Every binding lands in exactly
// one of Variables, Inputs or Flags, in its original order.
type Classification struct {
	Variables    []Binding
	Inputs       []Binding
	Flags        []Binding
	HasVariables bool
	HasInputs    bool
}

// Classify partitions bindings without modifying them. Repeated variable
// names are kept as they are.
func Classify(bindings []Binding) Classification {
	var c Classification
	for _, b := range bindings {
		switch {
		case b.KeyIsVar:
			c.Variables = append(c.Variables, b)
		case b.Expression != nil:
			c.Inputs = append(c.Inputs, b)
		default:
			c.Flags = append(c.Flags, b)
		}
	}
	c.HasVariables = len(c.Variables) > 0
	c.HasInputs = len(c.Inputs) > 0
	return c
}
