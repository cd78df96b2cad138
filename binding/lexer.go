package binding

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// TokenType classifies a lexed token.
type TokenType int

const (
	TokenCharacter TokenType = iota
	TokenIdentifier
	TokenKeyword
	TokenString
	TokenOperator
	TokenNumber
	TokenError
)

var keywords = map[string]bool{
	"var":       true,
	"let":       true,
	"as":        true,
	"null":      true,
	"undefined": true,
	"true":      true,
	"false":     true,
	"if":        true,
	"else":      true,
	"this":      true,
	"typeof":    true,
	"void":      true,
	"in":        true,
}

// Token is a lexed unit of a binding expression. Index and End are byte
// offsets into the input. Text holds the identifier, keyword, operator or
// character text, the unquoted string value, or the error message.
type Token struct {
	Index int
	End   int
	Type  TokenType
	Text  string
}

func (t Token) IsCharacter(c byte) bool {
	return t.Type == TokenCharacter && t.Text == string(c)
}

func (t Token) IsOperator(op string) bool {
	return t.Type == TokenOperator && t.Text == op
}

func (t Token) IsKeyword(kw string) bool {
	return t.Type == TokenKeyword && t.Text == kw
}

func (t Token) String() string {
	switch t.Type {
	case TokenString:
		return strconv.Quote(t.Text)
	default:
		return t.Text
	}
}

// Tokenize splits a binding expression into tokens. Lexing never fails;
// malformed input produces TokenError entries carrying the message and
// lexing resumes after the offending character.
func Tokenize(input string) []Token {
	s := &scanner{input: input}
	var tokens []Token
	for {
		tok, ok := s.scanToken()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

type scanner struct {
	input string
	index int
}

func (s *scanner) peek() byte {
	if s.index >= len(s.input) {
		return 0
	}
	return s.input[s.index]
}

func (s *scanner) scanToken() (Token, bool) {
	for s.index < len(s.input) && isWhitespace(s.input[s.index]) {
		s.index++
	}
	if s.index >= len(s.input) {
		return Token{}, false
	}

	start := s.index
	c := s.input[start]

	switch {
	case isIdentifierStart(c):
		return s.scanIdentifier(), true
	case isDigit(c):
		return s.scanNumber(start), true
	}

	switch c {
	case '.':
		s.index++
		if isDigit(s.peek()) {
			return s.scanNumber(start), true
		}
		return s.character(start), true
	case '(', ')', '[', ']', '{', '}', ',', ':', ';':
		s.index++
		return s.character(start), true
	case '\'', '"':
		return s.scanString(), true
	case '#', '+', '-', '*', '/', '%', '^':
		s.index++
		return s.operator(start), true
	case '?':
		s.index++
		if s.peek() == '.' || s.peek() == '?' {
			s.index++
		}
		return s.operator(start), true
	case '<', '>':
		return s.scanComplexOperator(start, '=', 0), true
	case '!', '=':
		return s.scanComplexOperator(start, '=', '='), true
	case '&':
		return s.scanComplexOperator(start, '&', 0), true
	case '|':
		return s.scanComplexOperator(start, '|', 0), true
	}

	r, size := utf8.DecodeRuneInString(s.input[start:])
	s.index += size
	return s.error(start, "Unexpected character ["+string(r)+"]"), true
}

func (s *scanner) character(start int) Token {
	return Token{Index: start, End: s.index, Type: TokenCharacter, Text: s.input[start:s.index]}
}

func (s *scanner) operator(start int) Token {
	return Token{Index: start, End: s.index, Type: TokenOperator, Text: s.input[start:s.index]}
}

// scanComplexOperator consumes the operator character at start, then an
// optional second and third character.
func (s *scanner) scanComplexOperator(start int, two, three byte) Token {
	s.index++
	if two != 0 && s.peek() == two {
		s.index++
		if three != 0 && s.peek() == three {
			s.index++
		}
	}
	return s.operator(start)
}

func (s *scanner) scanIdentifier() Token {
	start := s.index
	s.index++
	for isIdentifierPart(s.peek()) {
		s.index++
	}
	text := s.input[start:s.index]
	if keywords[text] {
		return Token{Index: start, End: s.index, Type: TokenKeyword, Text: text}
	}
	return Token{Index: start, End: s.index, Type: TokenIdentifier, Text: text}
}

func (s *scanner) scanNumber(start int) Token {
	for {
		c := s.peek()
		switch {
		case isDigit(c), c == '.', c == '_':
			s.index++
		case c == 'e' || c == 'E':
			s.index++
			if s.peek() == '+' || s.peek() == '-' {
				s.index++
			}
			if !isDigit(s.peek()) {
				return s.error(start, "Invalid exponent")
			}
		default:
			return Token{Index: start, End: s.index, Type: TokenNumber, Text: s.input[start:s.index]}
		}
	}
}

func (s *scanner) scanString() Token {
	start := s.index
	quote := s.input[start]
	s.index++

	var b strings.Builder
	for {
		if s.index >= len(s.input) {
			return s.error(start, "Unterminated quote")
		}
		c := s.input[s.index]
		switch c {
		case quote:
			s.index++
			return Token{Index: start, End: s.index, Type: TokenString, Text: b.String()}
		case '\\':
			s.index++
			if s.index >= len(s.input) {
				return s.error(start, "Unterminated quote")
			}
			b.WriteByte(unescape(s.input[s.index]))
			s.index++
		default:
			b.WriteByte(c)
			s.index++
		}
	}
}

func (s *scanner) error(start int, message string) Token {
	return Token{
		Index: start,
		End:   s.index,
		Type:  TokenError,
		Text:  "Lexer Error: " + message + " at column " + strconv.Itoa(start) + " in expression [" + s.input + "]",
	}
}

func isWhitespace(c byte) bool {
	return c <= ' '
}

func isIdentifierStart(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_' || c == '$'
}

func isIdentifierPart(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'f':
		return '\f'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	default:
		return c
	}
}
