package message

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindTimestampUnavailable means "now" could not be derived as a protocol
	// timestamp. It is an environment fault and is not worth retrying.
	KindTimestampUnavailable Kind = "TimestampUnavailable"
	// KindTimestampRange means a conversion input is outside the calendar range.
	KindTimestampRange Kind = "TimestampRange"
	KindEncoding       Kind = "Encoding"
	KindInvalidBody    Kind = "InvalidBody"
	KindSigning        Kind = "Signing"

	// Validation rejections. TimestampInFuture is recoverable by rebuilding
	// with a fresh timestamp; the others indicate malformed or adversarial input.
	KindTimestampInFuture  Kind = "TimestampInFuture"
	KindInvalidNetwork     Kind = "InvalidNetwork"
	KindInvalidMessageType Kind = "InvalidMessageType"

	KindVerification Kind = "Verification"
	KindInternal     Kind = "Internal"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. HUB-VAL-101) naming the violated rule.
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
