package core

import (
	"strings"

	"github.com/pkg/errors"
)

// FieldError is the problem with one input field, as shown next to the field in the dashboard.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is rejected input: one overall problem (Err), a list of field problems, or both.
// Operations returning one have written nothing.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// InvalidField reports a single invalid input field.
func InvalidField(field, problem string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Error: problem}}}
}

// FieldMap returns the field problems keyed by field. The first problem of a field wins.
func (err ValidationError) FieldMap() map[string]string {
	if err.Fields == nil {
		return nil
	}
	res := make(map[string]string, len(err.Fields))
	for _, fErr := range err.Fields {
		if _, ok := res[fErr.Field]; !ok {
			res[fErr.Field] = fErr.Error
		}
	}
	return res
}

// Error is Err's message when set, the field problems as `field: problem; ...` otherwise.
func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	parts := make([]string, 0, len(err.Fields))
	for _, fErr := range err.Fields {
		parts = append(parts, fErr.Field+": "+fErr.Error)
	}
	return strings.Join(parts, "; ")
}

// IsValidationError reports whether the cause of err is a *ValidationError.
func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

// shutdown asks the API process to stop once the current request is answered.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
