package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime    Category = "runtime"
	CategoryHydration  Category = "hydration"
	CategoryProtocol   Category = "protocol"
	CategoryValidation Category = "validation"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// MorphError is a structured error carrying a code, the place in the host
// tree where it happened, and a hint on how to fix it.
type MorphError struct {
	// Code is a unique error identifier (e.g., "E002").
	Code string

	// Category is the error type (runtime, hydration, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Target names where the error occurred: a selector, a path id or a
	// config file.
	Target string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is code showing the correct approach.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *MorphError) Error() string {
	msg := e.Message
	if e.Target != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Target)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *MorphError) Unwrap() error {
	return e.Wrapped
}

// Is matches another MorphError with the same code, so callers can test
// errors.Is(err, errors.New("E002")).
func (e *MorphError) Is(target error) bool {
	t, ok := target.(*MorphError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithTarget records where the error occurred.
func (e *MorphError) WithTarget(target string) *MorphError {
	e.Target = target
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *MorphError) WithSuggestion(s string) *MorphError {
	e.Suggestion = s
	return e
}

// WithExample adds a code example to the error.
func (e *MorphError) WithExample(ex string) *MorphError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *MorphError) WithDetail(d string) *MorphError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *MorphError) Wrap(err error) *MorphError {
	e.Wrapped = err
	return e
}

// New creates a MorphError from a registered error code.
func New(code string) *MorphError {
	template, ok := registry[code]
	if !ok {
		return &MorphError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &MorphError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new MorphError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *MorphError {
	return &MorphError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a MorphError.
func FromError(err error, code string) *MorphError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MorphError); ok {
		return me
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first MorphError in err's chain.
func CodeOf(err error) string {
	for err != nil {
		if me, ok := err.(*MorphError); ok {
			return me.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
