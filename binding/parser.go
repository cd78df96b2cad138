package binding

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DeprecatedHashWarning is reported when a variable is declared with `#x`
// instead of `let x`.
const DeprecatedHashWarning = `"#" inside of expressions is deprecated. Use "let" instead!`

// ParseError is a human-readable problem found in a binding expression.
type ParseError struct {
	Message string
	// Index is the byte offset the error refers to, or the input length when
	// the problem is at the end of the expression.
	Index int
}

func (e *ParseError) Error() string {
	return e.Message
}

// ParseResult is everything a Parser found in one expression. Bindings are
// returned even when Errors is not empty.
type ParseResult struct {
	Bindings []Binding
	Errors   []*ParseError
	Warnings []string
}

// ErrorMessages returns the messages of r.Errors in order.
func (r *ParseResult) ErrorMessages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		messages = append(messages, err.Message)
	}
	return messages
}

// Parser turns a directive micro-syntax expression into bindings.
// directive is the directive's attribute name (ngFor), value the expression
// (let item of items) and location an optional label used in error messages.
type Parser interface {
	ParseTemplateBindings(directive, value, location string) *ParseResult
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(directive, value, location string) *ParseResult

func (f ParserFunc) ParseTemplateBindings(directive, value, location string) *ParseResult {
	return f(directive, value, location)
}

// MicroSyntaxParser is the built-in Parser. It is stateless and safe for
// concurrent use.
type MicroSyntaxParser struct{}

// NewParser returns the built-in micro-syntax parser.
func NewParser() *MicroSyntaxParser {
	return &MicroSyntaxParser{}
}

// ParseTemplateBindings parses value as the micro-syntax of directive.
//
// The first binding is always keyed by the directive itself. Following keys
// are prefixed with the directive name (`of` becomes `ngForOf`) unless they
// declare a variable with `let`, `#` or `as`.
func (p *MicroSyntaxParser) ParseTemplateBindings(directive, value, location string) *ParseResult {
	ps := &parseState{
		input:    value,
		location: location,
		tokens:   Tokenize(value),
	}
	return ps.parseTemplateBindings(directive)
}

type parseState struct {
	input    string
	location string
	tokens   []Token
	index    int
	bindings []Binding
	errors   []*ParseError
	warnings []string
}

var eof = Token{Index: -1, End: -1, Type: TokenCharacter}

func (p *parseState) next() Token {
	return p.peek(0)
}

func (p *parseState) peek(offset int) Token {
	if i := p.index + offset; i < len(p.tokens) {
		return p.tokens[i]
	}
	return eof
}

func (p *parseState) atEOF() bool {
	return p.index >= len(p.tokens)
}

func (p *parseState) advance() {
	p.index++
}

// inputIndex is the offset of the next token, or the input length at EOF.
func (p *parseState) inputIndex() int {
	if p.atEOF() {
		return len(p.input)
	}
	return p.next().Index
}

func (p *parseState) optionalCharacter(c byte) bool {
	if p.next().IsCharacter(c) {
		p.advance()
		return true
	}
	return false
}

func (p *parseState) optionalOperator(op string) bool {
	if p.next().IsOperator(op) {
		p.advance()
		return true
	}
	return false
}

func (p *parseState) peekKeywordLet() bool {
	return p.next().IsKeyword("let")
}

func (p *parseState) peekKeywordAs() bool {
	return p.next().IsKeyword("as")
}

func (p *parseState) parseTemplateBindings(directive string) *ParseResult {
	for first := true; ; first = false {
		start := p.index
		p.parseBinding(directive, first)

		if !p.optionalCharacter(';') {
			p.optionalCharacter(',')
		}
		if p.atEOF() {
			break
		}
		if p.index == start && !first {
			// Nothing was consumed; report the stray token and move past it.
			p.error(fmt.Sprintf("Unexpected token '%s'", p.next()), p.index)
			p.advance()
		}
	}

	return &ParseResult{
		Bindings: p.bindings,
		Errors:   p.errors,
		Warnings: p.warnings,
	}
}

func (p *parseState) parseBinding(directive string, first bool) {
	var (
		rawKey string
		key    string
		isVar  bool
		ok     bool
	)

	if first {
		rawKey, key = directive, directive
	} else {
		switch {
		case p.peekKeywordLet():
			p.advance()
			isVar = true
		case p.optionalOperator("#"):
			isVar = true
			p.warnings = append(p.warnings, DeprecatedHashWarning)
		}
		if rawKey, ok = p.expectTemplateBindingKey(); !ok {
			return
		}
		key = rawKey
		if !isVar {
			key = directive + capitalize(rawKey)
		}
		p.optionalCharacter(':')
	}

	b := Binding{Key: key, KeyIsVar: isVar}
	switch {
	case isVar:
		b.Name = Implicit
		if p.optionalOperator("=") {
			if b.Name, ok = p.expectTemplateBindingKey(); !ok {
				return
			}
		}
	case p.peekKeywordAs():
		p.advance()
		if b.Key, ok = p.expectTemplateBindingKey(); !ok {
			return
		}
		b.Name = rawKey
		b.KeyIsVar = true
	case !p.atEOF() && !p.peekKeywordLet() && !p.next().IsOperator("#") && !p.atTerminator():
		b.Expression = p.parseExpression()
	}
	p.bindings = append(p.bindings, b)

	if !b.KeyIsVar && p.peekKeywordAs() {
		p.advance()
		alias, ok := p.expectTemplateBindingKey()
		if !ok {
			return
		}
		p.bindings = append(p.bindings, Binding{Key: alias, Name: key, KeyIsVar: true})
	}
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func (p *parseState) atTerminator() bool {
	n := p.next()
	return n.IsCharacter(';') || n.IsCharacter(',')
}

// expectTemplateBindingKey reads a key such as `ngFor`, `trackBy` or a
// dash-joined `data-index`.
func (p *parseState) expectTemplateBindingKey() (string, bool) {
	var b strings.Builder
	for {
		n := p.next()
		switch n.Type {
		case TokenIdentifier, TokenKeyword, TokenString:
			b.WriteString(n.Text)
			p.advance()
		case TokenError:
			p.errors = append(p.errors, &ParseError{Message: n.Text, Index: n.Index})
			p.skip()
			return "", false
		default:
			if p.atEOF() {
				p.error("Unexpected end of input, expected identifier, keyword, or string", p.index)
			} else {
				p.error(fmt.Sprintf("Unexpected token %s, expected identifier, keyword, or string", n), p.index)
			}
			p.skip()
			return "", false
		}
		if !p.optionalOperator("-") {
			break
		}
		b.WriteByte('-')
	}
	if b.Len() == 0 {
		p.error("Unexpected empty key", p.index)
		p.skip()
		return "", false
	}
	return b.String(), true
}

// parseExpression consumes one bound expression and returns its source text.
//
// Nested brackets are balanced and skipped over. At the top level the
// expression ends at `;`, `,`, `as`, `let` or wherever a new operand starts
// directly after a complete one, as in `items trackBy: fn`. A top-level `:`
// belongs to the expression only as a pipe argument separator or as the
// second half of a `?` conditional; otherwise it ends the expression.
func (p *parseState) parseExpression() *Expression {
	start := p.inputIndex()
	var (
		closers   []byte
		complete  bool
		consumed  int
		ternaries int
		piped     bool
	)

loop:
	for !p.atEOF() {
		n := p.next()

		if n.Type == TokenError {
			p.errors = append(p.errors, &ParseError{Message: n.Text, Index: n.Index})
			p.skip()
			return nil
		}

		if len(closers) > 0 {
			switch {
			case isOpener(n):
				closers = append(closers, closerFor(n.Text[0]))
			case isCloser(n):
				if n.Text[0] != closers[len(closers)-1] {
					p.error(fmt.Sprintf("Missing expected %c", closers[len(closers)-1]), p.index)
					p.skip()
					return nil
				}
				closers = closers[:len(closers)-1]
				complete = len(closers) == 0
			case n.IsCharacter(';'):
				p.error(fmt.Sprintf("Missing expected %c", closers[len(closers)-1]), p.index)
				p.skip()
				return nil
			}
			p.advance()
			consumed++
			continue
		}

		switch {
		case n.IsCharacter(';'), n.IsCharacter(','), n.IsKeyword("as"), n.IsKeyword("let"), n.IsOperator("#"):
			break loop
		case isCloser(n):
			p.error(fmt.Sprintf("Unexpected token '%s'", n), p.index)
			p.skip()
			return nil
		case isOpener(n):
			closers = append(closers, closerFor(n.Text[0]))
			complete = false
		case startsOperand(n):
			if complete {
				break loop
			}
			complete = !n.IsKeyword("typeof") && !n.IsKeyword("void")
		case n.IsOperator("!") && complete:
			// Non-null assertion keeps the operand complete.
		case consumed == 0 && !isPrefixOperator(n):
			p.error(fmt.Sprintf("Unexpected token '%s'", n), p.index)
			p.skip()
			return nil
		case n.IsOperator("?"):
			ternaries++
			complete = false
		case n.IsCharacter(':'):
			if ternaries > 0 {
				ternaries--
			} else if !piped {
				break loop
			}
			complete = false
		case n.IsOperator("|"):
			piped = true
			complete = false
		default:
			complete = false
		}
		p.advance()
		consumed++
	}

	if len(closers) > 0 {
		p.error(fmt.Sprintf("Missing expected %c", closers[len(closers)-1]), p.index)
		return nil
	}
	if !complete {
		p.error("Unexpected end of expression: "+p.input, p.index)
		return nil
	}

	end := p.inputIndex()
	return &Expression{
		Source: p.input[start:end],
		Span:   Span{Start: start, End: end},
	}
}

// skip discards tokens up to the next top-level `;` or `,`.
func (p *parseState) skip() {
	for !p.atEOF() && !p.atTerminator() {
		p.advance()
	}
}

func (p *parseState) error(message string, index int) {
	location := "at the end of the expression"
	offset := len(p.input)
	if index < len(p.tokens) {
		offset = p.tokens[index].Index
		location = fmt.Sprintf("at column %d in", offset+1)
	}

	msg := fmt.Sprintf("Parser Error: %s %s [%s]", message, location, p.input)
	if p.location != "" {
		msg += " in " + p.location
	}
	p.errors = append(p.errors, &ParseError{Message: msg, Index: offset})
}

func isOpener(t Token) bool {
	return t.IsCharacter('(') || t.IsCharacter('[') || t.IsCharacter('{')
}

func isCloser(t Token) bool {
	return t.IsCharacter(')') || t.IsCharacter(']') || t.IsCharacter('}')
}

func closerFor(c byte) byte {
	switch c {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func startsOperand(t Token) bool {
	switch t.Type {
	case TokenIdentifier, TokenString, TokenNumber:
		return true
	case TokenKeyword:
		return !t.IsKeyword("in")
	}
	return false
}

func isPrefixOperator(t Token) bool {
	return t.IsOperator("-") || t.IsOperator("+") || t.IsOperator("!")
}
