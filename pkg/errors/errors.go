package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DuplicateNameError indicates two units claimed the same name within one
// registry category. Raised at mount time, before any publish runs.
type DuplicateNameError struct {
	Name     string
	Category string
}

// NewDuplicateNameError constructs a DuplicateNameError.
func NewDuplicateNameError(name, category string) error {
	return &DuplicateNameError{Name: name, Category: category}
}

func (e *DuplicateNameError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("duplicate unit name %q in category %q", e.Name, e.Category)
}

// DoubleSignalError indicates a unit settled its completion signal more than
// once within a single publish cycle. It points at a leaking async path in
// the unit, so it aborts the run instead of being folded into the result.
type DoubleSignalError struct {
	Unit string
}

// NewDoubleSignalError constructs a DoubleSignalError.
func NewDoubleSignalError(unit string) error {
	return &DoubleSignalError{Unit: unit}
}

func (e *DoubleSignalError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unit %q signaled completion more than once in the same publish cycle", e.Unit)
}

// UnitError carries a failure reported by a unit during a publish cycle. The
// publish engine never raises it; it travels as data in the cycle result.
type UnitError struct {
	Unit    string
	Message string
	Err     error
}

// NewUnitError constructs a UnitError for the named unit.
func NewUnitError(unit string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &UnitError{Unit: unit, Message: message, Err: err}
}

func (e *UnitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Unit != "" {
		return fmt.Sprintf("unit error [%s]: %s", e.Unit, e.Message)
	}
	return fmt.Sprintf("unit error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *UnitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
