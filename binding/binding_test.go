package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func expr(source string) *Expression {
	return &Expression{Source: source}
}

func TestClassify(t *testing.T) {
	bindings := []Binding{
		{Key: "ngFor"},
		{Key: "item", Name: Implicit, KeyIsVar: true},
		{Key: "ngForOf", Expression: expr("items")},
		{Key: "i", Name: "index", KeyIsVar: true},
		{Key: "ngForTrackBy", Expression: expr("byId")},
	}

	c := Classify(bindings)

	if diff := cmp.Diff([]Binding{bindings[1], bindings[3]}, c.Variables); diff != "" {
		t.Errorf("Variables mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Binding{bindings[2], bindings[4]}, c.Inputs); diff != "" {
		t.Errorf("Inputs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Binding{bindings[0]}, c.Flags); diff != "" {
		t.Errorf("Flags mismatch (-want +got):\n%s", diff)
	}
	if !c.HasVariables || !c.HasInputs {
		t.Errorf("expected HasVariables and HasInputs, got %v and %v", c.HasVariables, c.HasInputs)
	}
	if got := len(c.Variables) + len(c.Inputs) + len(c.Flags); got != len(bindings) {
		t.Errorf("partition covers %d bindings, want %d", got, len(bindings))
	}
}

func TestClassifyEmpty(t *testing.T) {
	c := Classify(nil)
	if c.HasVariables || c.HasInputs {
		t.Errorf("empty list should have no variables or inputs: %+v", c)
	}
	if len(c.Variables)+len(c.Inputs)+len(c.Flags) != 0 {
		t.Errorf("empty list should produce empty partitions: %+v", c)
	}
}

func TestClassifyKeepsDuplicateNames(t *testing.T) {
	bindings := []Binding{
		{Key: "a", Name: "index", KeyIsVar: true},
		{Key: "b", Name: "index", KeyIsVar: true},
	}

	c := Classify(bindings)
	if diff := cmp.Diff(bindings, c.Variables); diff != "" {
		t.Errorf("duplicate variables should pass through (-want +got):\n%s", diff)
	}
}

func TestClassifyDoesNotMutate(t *testing.T) {
	bindings := []Binding{
		{Key: "ngIf", Expression: expr("cond ")},
		{Key: "ref", Name: "ngIf", KeyIsVar: true},
	}
	snapshot := append([]Binding(nil), bindings...)

	Classify(bindings)

	if diff := cmp.Diff(snapshot, bindings); diff != "" {
		t.Errorf("Classify modified its input (-before +after):\n%s", diff)
	}
}

func TestBindingPredicates(t *testing.T) {
	tests := []struct {
		name     string
		binding  Binding
		implicit bool
		input    bool
		flag     bool
	}{
		{"implicit variable", Binding{Key: "item", Name: Implicit, KeyIsVar: true}, true, false, false},
		{"named variable", Binding{Key: "i", Name: "index", KeyIsVar: true}, false, false, false},
		{"input", Binding{Key: "ngForOf", Expression: expr("items")}, false, true, false},
		{"flag", Binding{Key: "ngFor"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.IsImplicit(); got != tt.implicit {
				t.Errorf("IsImplicit() = %v, want %v", got, tt.implicit)
			}
			if got := tt.binding.IsInput(); got != tt.input {
				t.Errorf("IsInput() = %v, want %v", got, tt.input)
			}
			if got := tt.binding.IsFlag(); got != tt.flag {
				t.Errorf("IsFlag() = %v, want %v", got, tt.flag)
			}
		})
	}
}
