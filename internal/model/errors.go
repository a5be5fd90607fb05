package model

import "fmt"

// ParseError represents a structural failure while reading a CII document
type ParseError struct {
	Section string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Section, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Section, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(section, message string, cause error) *ParseError {
	return &ParseError{
		Section: section,
		Message: message,
		Cause:   cause,
	}
}

// GenerateError reports that generation was attempted on an invoice
// that does not satisfy the mandatory business rules
type GenerateError struct {
	Errors []string
}

func (e *GenerateError) Error() string {
	if len(e.Errors) == 0 {
		return "invoice failed validation"
	}
	return fmt.Sprintf("invoice failed validation: %d error(s), first: %s", len(e.Errors), e.Errors[0])
}

// ValidationResult is the structured outcome of business-rule validation
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
