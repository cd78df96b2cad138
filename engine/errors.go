package engine

import (
	"errors"
	"fmt"
	"strings"
)

// GenerationError ties a failure to the directive or file it concerns.
type GenerationError struct {
	Path    string
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// MultiError collects the failures of a batch run in FailAtEnd mode.
type MultiError struct {
	Errors []*GenerationError
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var msgs []string
	for _, err := range m.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("multiple errors:\n%s", strings.Join(msgs, "\n"))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	errs := make([]error, len(m.Errors))
	for i, err := range m.Errors {
		errs[i] = err
	}
	return errs
}

func (m *MultiError) Add(path, message string, err error) {
	m.Errors = append(m.Errors, &GenerationError{
		Path:    path,
		Message: message,
		Err:     err,
	})
}

// AddError appends err, keeping it as is when it already is a
// GenerationError.
func (m *MultiError) AddError(path string, err error) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		m.Errors = append(m.Errors, genErr)
		return
	}
	m.Add(path, "generation failed", err)
}

func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ErrorOrNil returns m when it holds errors and nil otherwise.
func (m *MultiError) ErrorOrNil() error {
	if m == nil || !m.HasErrors() {
		return nil
	}
	return m
}

// merge combines the errors of two stages, flattening MultiErrors.
func merge(a, b error) error {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	var ma, mb *MultiError
	if errors.As(a, &ma) && errors.As(b, &mb) {
		return &MultiError{Errors: append(append([]*GenerationError{}, ma.Errors...), mb.Errors...)}
	}
	return errors.Join(a, b)
}
