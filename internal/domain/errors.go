package domain

import (
	"errors"
	"fmt"
)

// Kind classifies domain errors for propagation decisions.
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindValidation      Kind = "validation"
	KindSession         Kind = "session"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindRepository      Kind = "repository"
	KindNotFound        Kind = "not_found"
	KindInvalidInput    Kind = "invalid_input"
	KindConflict        Kind = "conflict"
)

// Error is a domain error. Code is the stable suffix of its "errors.<code>" message key.
type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, msg: msg}
}

// Domain errors.
var (
	ErrMeetingNotFound    = newError(KindNotFound, "meeting_not_found", "meeting not found")
	ErrMeetingNotOpen     = newError(KindConfiguration, "meeting_not_open", "meeting is not open")
	ErrNoQuestions        = newError(KindConfiguration, "no_questions", "meeting has no questions")
	ErrEmptyOptions       = newError(KindConfiguration, "empty_options", "choice question has no options")
	ErrNoActiveFill       = newError(KindSession, "no_active_fill", "no survey in progress")
	ErrMeetingUnavailable = newError(KindSession, "meeting_unavailable", "meeting vanished or closed during the fill")
	ErrUnauthenticated    = newError(KindUnauthenticated, "unauthenticated", "not logged in")
	ErrForbidden          = newError(KindForbidden, "forbidden", "insufficient role")
	ErrInvalidCredentials = newError(KindUnauthenticated, "invalid_credentials", "invalid username or password")
	ErrRepository         = newError(KindRepository, "storage_unavailable", "storage unavailable")
	ErrUserNotFound       = newError(KindNotFound, "user_not_found", "user not found")
	ErrUserExists         = newError(KindConflict, "user_exists", "username already taken")
	ErrRoleNotFound       = newError(KindNotFound, "role_not_found", "role not found")
	ErrRoleExists         = newError(KindConflict, "role_exists", "role already exists")
	ErrRoleInUse          = newError(KindConflict, "role_in_use", "role is still assigned to users")
	ErrResponseNotFound   = newError(KindNotFound, "response_not_found", "response not found")
	ErrInvalidInput       = newError(KindInvalidInput, "invalid_input", "invalid input")
)

// Repository marks err as a storage failure. It keeps err in the chain.
func Repository(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRepository, err)
}

// Invalid wraps a parse/validation failure of an administrative input.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidationError is returned when an answer does not fit its question type.
type ValidationError struct {
	Code    string
	Allowed []string // accepted values, when the domain is enumerable
}

func (e *ValidationError) Error() string {
	return "invalid answer: " + e.Code
}

// Validation codes.
const (
	CodeExpectedText     = "expected_text"
	CodeExpectedInt      = "expected_int"
	CodeExpectedBool     = "expected_bool"
	CodeExpectedOption   = "expected_option"
	CodeSelectAtLeastOne = "select_at_least_one"
)

// KindOf returns the kind of the first domain error found in err's chain.
func KindOf(err error) Kind {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return ""
}

// Code returns the message code carried by err, or "" for non-domain errors.
func Code(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Code
	}
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return ""
}

// EndsFill reports whether err terminates the current fill.
func EndsFill(err error) bool {
	switch KindOf(err) {
	case KindConfiguration, KindSession:
		return true
	default:
		return false
	}
}
