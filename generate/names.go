package generate

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var (
	ErrEmptyDirectiveName   = errors.New("directive name is empty")
	ErrInvalidDirectiveName = errors.New("directive name must start with a letter and contain only letters, digits, '-', '_' or '$'")
)

// ClassName upper-cases the first rune of directiveName and keeps the rest.
// An empty name yields an empty class name.
func ClassName(directiveName string) string {
	r, size := utf8.DecodeRuneInString(directiveName)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + directiveName[size:]
}

// ValidateDirectiveName checks the precondition RenderDirective relies on to
// produce a usable class name. Valid names are also safe as a single path
// segment.
func ValidateDirectiveName(directiveName string) error {
	if directiveName == "" {
		return ErrEmptyDirectiveName
	}
	for i, r := range directiveName {
		if i == 0 && !unicode.IsLetter(r) {
			return fmt.Errorf("%w: %q", ErrInvalidDirectiveName, directiveName)
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '$' {
			return fmt.Errorf("%w: %q", ErrInvalidDirectiveName, directiveName)
		}
	}
	return nil
}
