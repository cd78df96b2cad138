// Package query converts a generation request to and from the query string
// of a shareable link.
package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cpcf/ngsyntax/generate"
)

const (
	KeyTagName   = "tagName"
	KeyDirective = "directive"
	KeyBinding   = "binding"
)

var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent escapes s the way a URI component is escaped in a
// browser: everything except letters, digits and -_.!~*'() is
// percent-encoded and spaces become %20.
func EscapeComponent(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}

// Encode returns the query string for req, including the leading '?'. The
// keys always appear in the order tagName, directive, binding.
func Encode(req generate.Request) string {
	return "?" + KeyTagName + "=" + EscapeComponent(req.TagName) +
		"&" + KeyDirective + "=" + EscapeComponent(req.Directive) +
		"&" + KeyBinding + "=" + EscapeComponent(req.Binding)
}

// Decode reads a request from a query string with or without the leading
// '?', or from a full link. Missing keys leave the field empty; '+' is read
// as a space.
func Decode(s string) (generate.Request, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[i+1:]
	} else if strings.Contains(s, "://") {
		s = ""
	}

	values, err := url.ParseQuery(s)
	if err != nil {
		return generate.Request{}, fmt.Errorf("invalid query %q: %w", s, err)
	}

	return generate.Request{
		TagName:   values.Get(KeyTagName),
		Directive: values.Get(KeyDirective),
		Binding:   values.Get(KeyBinding),
	}, nil
}

// Link joins base and the encoded request. Any query or fragment already on
// base is replaced.
func Link(base string, req generate.Request) string {
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return base + Encode(req)
}
