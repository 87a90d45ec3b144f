package vers

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindUnknownVersion reports a version tag outside the declared set.
	// Never coerced to a default variant; the caller decides whether it is fatal.
	KindUnknownVersion Kind = "UnknownVersion"
	// KindFormat reports a decode-stage failure. The format adapter's own
	// error is preserved as the Cause, untouched.
	KindFormat Kind = "Format"
	// KindDeclare reports an invalid schema declaration.
	KindDeclare Kind = "Declare"
	// KindPayload reports an envelope whose payload does not match the
	// declared variant type for its tag. Unreachable under correct
	// construction, still checked.
	KindPayload Kind = "Payload"
	// KindManifest reports a violation of a committed schema manifest.
	KindManifest Kind = "Manifest"
	// KindCrypto reports a manifest signature failure.
	KindCrypto   Kind = "Crypto"
	KindInternal Kind = "Internal"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g. VERS-TAG-001, VERS-FMT-003) that names
// the violated invariant. Tag is set for version-related failures.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Tag     Tag
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError constructs a structured error. Exported so format adapters can
// participate in the same taxonomy.
func NewError(kind Kind, ruleID, msg string) *Error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError constructs a structured error preserving cause for errors.Is/As.
func WrapError(kind Kind, ruleID, msg string, cause error) *Error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// NewUnknownVersion constructs the canonical unknown-tag error.
func NewUnknownVersion(tag Tag) *Error {
	return &Error{
		Kind:    KindUnknownVersion,
		RuleID:  "VERS-TAG-001",
		Tag:     tag,
		Message: "unknown schema version " + string(tag),
	}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// IsUnknownVersion reports whether err is an unknown-version dispatch failure.
func IsUnknownVersion(err error) bool { return IsKind(err, KindUnknownVersion) }

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

// ErrorTag returns the version tag attached to a structured error, or "".
func ErrorTag(err error) Tag {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Tag
}
