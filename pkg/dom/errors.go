package dom

import (
	"errors"
	"fmt"
)

// Sentinel host errors, named after their DOM exception counterparts.
var (
	ErrInvalidCharacter = errors.New("invalid character")
	ErrHierarchyRequest = errors.New("hierarchy request")
	ErrNotFound         = errors.New("not found")
	ErrSyntax           = errors.New("syntax error")
)

// DOMError reports a failed host operation.
type DOMError struct {
	Err   error  // one of the sentinel errors
	Op    string // operation, e.g. "createElement"
	Name  string // offending name or selector, if any
	Cause error  // underlying error, if any
}

func (e *DOMError) Error() string {
	msg := fmt.Sprintf("dom: %s: %v", e.Op, e.Err)
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap supports errors.Is against the sentinels.
func (e *DOMError) Unwrap() error {
	return e.Err
}
