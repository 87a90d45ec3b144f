// Package codec defines the format-adapter contract binding the version
// engine to concrete byte formats, plus helpers shared by the adapters in
// its subpackages.
package codec

import (
	"fmt"
	"strconv"

	"xdao.co/vers/vers"
)

// Field is the flattened discriminant key. It sits beside the payload's own
// fields in one record; adapters read it before any payload field.
const Field = "version"

// Adapter serializes Envelopes to and from one byte format.
//
// Contract:
//   - Encode MUST write the version tag under Field, flattened into the same
//     record as the payload fields, and MUST reject payloads that declare a
//     field of that name themselves.
//   - Decode MUST surface an unrecognized discriminant as an error (never
//     default to some variant) and MUST accept any declared historical
//     shape, including ones in which newer fields are simply absent.
type Adapter interface {
	// Name returns the adapter identifier used for diagnostics.
	Name() string
	Encode(env vers.Envelope) ([]byte, error)
	Decode(data []byte) (vers.Envelope, error)
}

// Peeker reads a record's discriminant without decoding the payload.
// Adapters in this repository all implement it.
type Peeker interface {
	Peek(data []byte) (vers.Tag, error)
}

// TagFromScalar normalizes a decoded discriminant value to a Tag. Adapters
// write tags as strings, but inputs produced elsewhere may carry a bare
// number ({"version": 2}); both spell the same tag.
func TagFromScalar(v any) (vers.Tag, bool) {
	switch n := v.(type) {
	case string:
		if n == "" {
			return "", false
		}
		return vers.Tag(n), true
	case int:
		return vers.Tag(strconv.Itoa(n)), true
	case int64:
		return vers.Tag(strconv.FormatInt(n, 10)), true
	case uint64:
		return vers.Tag(strconv.FormatUint(n, 10)), true
	case float64:
		// JSON numbers arrive as float64; only integral tags are meaningful.
		if n != float64(int64(n)) {
			return "", false
		}
		return vers.Tag(strconv.FormatInt(int64(n), 10)), true
	default:
		return "", false
	}
}

// MissingDiscriminant constructs the shared missing-version decode error.
func MissingDiscriminant(name string) *vers.Error {
	return vers.NewError(vers.KindFormat, "VERS-FMT-003",
		fmt.Sprintf("%s: record carries no %q discriminant", name, Field))
}

// DiscriminantCollision constructs the shared encode-side collision error.
func DiscriminantCollision(name string, tag vers.Tag) *vers.Error {
	return &vers.Error{
		Kind:    vers.KindFormat,
		RuleID:  "VERS-FMT-004",
		Tag:     tag,
		Message: fmt.Sprintf("%s: payload declares its own %q field; cannot flatten discriminant", name, Field),
	}
}
