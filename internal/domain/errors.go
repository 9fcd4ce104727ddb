package domain

import "errors"

// Code classifies a domain failure. The domain never formats user-facing
// messages; callers translate codes at the edge.
type Code string

const (
	CodeNotFound            Code = "not_found"
	CodeInvalidState        Code = "invalid_state"
	CodeUnauthorized        Code = "unauthorized"
	CodeDuplicateConstraint Code = "duplicate_constraint"
)

type Error struct {
	Code   Code
	Reason string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Reason
}

// E builds a classified domain error with a diagnostic reason.
func E(code Code, reason string) error {
	return &Error{Code: code, Reason: reason}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the classification of err, or "" for non-domain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
