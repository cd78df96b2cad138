package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cpcf/ngsyntax/generate"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		req      generate.Request
		expected string
	}{
		{
			name:     "spaces and separators",
			req:      generate.Request{TagName: "li", Directive: "ngFor", Binding: "let item of items; let i = index"},
			expected: "?tagName=li&directive=ngFor&binding=let%20item%20of%20items%3B%20let%20i%20%3D%20index",
		},
		{
			name:     "empty fields",
			expected: "?tagName=&directive=&binding=",
		},
		{
			name:     "unreserved marks stay literal",
			req:      generate.Request{Binding: "fn('a')!*~"},
			expected: "?tagName=&directive=&binding=fn('a')!*~",
		},
		{
			name:     "plus and ampersand are escaped",
			req:      generate.Request{Binding: "a + b && c"},
			expected: "?tagName=&directive=&binding=a%20%2B%20b%20%26%26%20c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.req); got != tt.expected {
				t.Errorf("Encode() mismatch.\nExpected: %q\nGot: %q", tt.expected, got)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	want := generate.Request{TagName: "li", Directive: "ngFor", Binding: "let item of items"}

	inputs := []string{
		"?tagName=li&directive=ngFor&binding=let%20item%20of%20items",
		"tagName=li&directive=ngFor&binding=let+item+of+items",
		"https://example.com/tool/?binding=let%20item%20of%20items&directive=ngFor&tagName=li#top",
		"  ?directive=ngFor&tagName=li&binding=let%20item%20of%20items\n",
	}

	for _, in := range inputs {
		got, err := Decode(in)
		if err != nil {
			t.Errorf("Decode(%q) failed: %v", in, err)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Decode(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestDecodeMissingKeys(t *testing.T) {
	got, err := Decode("?directive=ngIf")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(generate.Request{Directive: "ngIf"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got, err = Decode("https://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(generate.Request{}, got); diff != "" {
		t.Errorf("a link without a query should decode to an empty request (-want +got):\n%s", diff)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode("?binding=%zz"); err == nil {
		t.Error("expected an error for a malformed escape")
	}
}

func TestRoundTrip(t *testing.T) {
	reqs := []generate.Request{
		{TagName: "li", Directive: "ngFor", Binding: "let item of items; trackBy: byId"},
		{TagName: "my-el", Directive: "appX", Binding: "a?.b ?? 'c d' + \"e\" # % & = ?"},
		{TagName: "p", Directive: "ngIf", Binding: "café ✓"},
		{},
	}

	for _, req := range reqs {
		got, err := Decode(Encode(req))
		if err != nil {
			t.Fatalf("Decode(Encode(%+v)) failed: %v", req, err)
		}
		if diff := cmp.Diff(req, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestLink(t *testing.T) {
	req := generate.Request{TagName: "li", Directive: "ngFor", Binding: "x"}
	got := Link("https://example.com/tool/?old=1#frag", req)
	expected := "https://example.com/tool/?tagName=li&directive=ngFor&binding=x"
	if got != expected {
		t.Errorf("Link() = %q, want %q", got, expected)
	}
}
