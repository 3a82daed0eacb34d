// Package domainerrors defines the closed set of failure signals raised by the
// registration domain. Every signal is a *Error carrying a Code; the HTTP
// boundary switches over Code to pick a status and a stable error code.
//
// Stores never return these directly. They return pkg/platform/sentinel errors
// and services translate them here.
package domainerrors

import (
	"errors"
	"maps"
)

// Code identifies the kind of failure.
type Code string

const (
	// CodeValidation reports structural violations (shape, presence, format).
	CodeValidation Code = "validation_error"
	// CodeMalformedInput reports a payload that could not be decoded.
	CodeMalformedInput Code = "malformed_input"
	// CodeRuleAgeMin reports an applicant younger than the minimum age.
	CodeRuleAgeMin Code = "rule_age_min"
	// CodeRuleCountryFR reports an applicant not residing in France.
	CodeRuleCountryFR Code = "rule_country_fr"
	// CodeConflict reports a username that is already registered.
	CodeConflict Code = "conflict"
	// CodeNotFound reports an unknown username.
	CodeNotFound Code = "not_found"
	// CodeInternal covers everything unanticipated.
	CodeInternal Code = "internal_error"
)

// Error is a domain signal. Message is safe to show to callers except for
// CodeInternal, whose message never crosses the boundary.
type Error struct {
	Code       Code
	Message    string
	Identifier string
	Fields     map[string]string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a signal with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// NewWithIdentifier creates a signal that names the offending identifier
// (the username for conflict and not-found signals).
func NewWithIdentifier(code Code, msg, identifier string) *Error {
	return &Error{Code: code, Message: msg, Identifier: identifier}
}

// NewValidation creates a validation signal carrying a field→message map.
func NewValidation(msg string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Fields: maps.Clone(fields)}
}

// As extracts the outermost *Error from err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeInternal when err is not a signal.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err is a signal with the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}
