package vers

import (
	"errors"
	"fmt"
	"reflect"
)

// Variant is the conversion capability a declared schema shape must supply:
// a total, pure upgrade into the current schema C. Missing newer fields are
// backfilled with author-chosen defaults inside Upgrade; there is no failure
// channel. The current schema type itself implements Variant with the
// identity upgrade.
type Variant[C any] interface {
	Upgrade() C
}

// Decl binds one version tag to one historical shape. Build declarations
// with V and pass them to New in oldest-to-current order.
type Decl[C any] struct {
	tag     Tag
	typ     reflect.Type
	proto   func() any
	decode  func(unmarshal func(dst any) error) (any, error)
	upgrade func(payload any) (C, bool)
}

// V declares that records tagged tag were persisted with shape P.
//
//	vers.V[User, UserV1]("1")
//
// The compiler enforces that P carries an upgrade into C; a shape without a
// conversion cannot be declared at all.
func V[C any, P Variant[C]](tag Tag) Decl[C] {
	return Decl[C]{
		tag:   tag,
		typ:   reflect.TypeOf((*P)(nil)).Elem(),
		proto: func() any { var p P; return p },
		decode: func(unmarshal func(dst any) error) (any, error) {
			var p P
			if err := unmarshal(&p); err != nil {
				return nil, err
			}
			return p, nil
		},
		upgrade: func(payload any) (C, bool) {
			p, ok := payload.(P)
			if !ok {
				var zero C
				return zero, false
			}
			return p.Upgrade(), true
		},
	}
}

// Schema is the declared version set for one current type C, plus the
// dispatch over it. Immutable after New; safe for concurrent use.
type Schema[C any] struct {
	decls []Decl[C]
	byTag map[Tag]int
}

// New builds a Schema from declarations listed oldest to current.
// The final declaration must be C itself (the identity upgrade), so that
// decoding the latest version and decoding any older version are handled
// uniformly.
func New[C any](decls ...Decl[C]) (*Schema[C], error) {
	if len(decls) == 0 {
		return nil, NewError(KindDeclare, "VERS-DECL-001", "no schema versions declared")
	}
	byTag := make(map[Tag]int, len(decls))
	for i, d := range decls {
		if d.tag == "" {
			return nil, NewError(KindDeclare, "VERS-DECL-002", fmt.Sprintf("empty tag at position %d", i))
		}
		if d.decode == nil || d.upgrade == nil {
			return nil, NewError(KindDeclare, "VERS-DECL-005", fmt.Sprintf("declaration %q not built with V", d.tag))
		}
		if prev, dup := byTag[d.tag]; dup {
			return nil, NewError(KindDeclare, "VERS-DECL-003",
				fmt.Sprintf("tag %q declared at positions %d and %d", d.tag, prev, i))
		}
		byTag[d.tag] = i
	}
	last := decls[len(decls)-1]
	if last.typ != reflect.TypeOf((*C)(nil)).Elem() {
		return nil, NewError(KindDeclare, "VERS-DECL-004",
			fmt.Sprintf("last declaration %q has shape %s, want current type %s",
				last.tag, last.typ, reflect.TypeOf((*C)(nil)).Elem()))
	}
	return &Schema[C]{decls: decls, byTag: byTag}, nil
}

// MustNew is like New but panics on error. Intended for package-level schema
// variables, where a declaration mistake should fail at program start.
func MustNew[C any](decls ...Decl[C]) *Schema[C] {
	s, err := New(decls...)
	if err != nil {
		panic(err)
	}
	return s
}

// Latest returns the current schema's tag.
func (s *Schema[C]) Latest() Tag { return s.decls[len(s.decls)-1].tag }

// Tags returns all declared tags in declaration order (oldest first).
func (s *Schema[C]) Tags() []Tag {
	out := make([]Tag, len(s.decls))
	for i, d := range s.decls {
		out[i] = d.tag
	}
	return out
}

// Has reports whether tag is declared.
func (s *Schema[C]) Has(tag Tag) bool {
	_, ok := s.byTag[tag]
	return ok
}

// Prototype returns a zero value of the shape declared for tag.
func (s *Schema[C]) Prototype(tag Tag) (any, bool) {
	i, ok := s.byTag[tag]
	if !ok {
		return nil, false
	}
	return s.decls[i].proto(), true
}

// ToVersion wraps a current value in an Envelope tagged with the latest
// version. Pure; no failure mode.
func (s *Schema[C]) ToVersion(v C) Envelope {
	return Envelope{tag: s.Latest(), payload: v}
}

// FromVersion selects the upgrade declared for the envelope's tag and runs
// it, yielding the current value. Undeclared tags are reported, never
// defaulted.
func (s *Schema[C]) FromVersion(env Envelope) (C, error) {
	var zero C
	i, ok := s.byTag[env.tag]
	if !ok {
		return zero, NewUnknownVersion(env.tag)
	}
	v, ok := s.decls[i].upgrade(env.payload)
	if !ok {
		return zero, &Error{
			Kind:    KindPayload,
			RuleID:  "VERS-PAYLOAD-001",
			Tag:     env.tag,
			Message: fmt.Sprintf("envelope payload %T does not match shape declared for tag %q", env.payload, env.tag),
		}
	}
	return v, nil
}

// ToFormat wraps v at the latest version and hands the Envelope to encode.
// The encoder's error is propagated unchanged.
func (s *Schema[C]) ToFormat(v C, encode EncodeFunc) ([]byte, error) {
	return encode(s.ToVersion(v))
}

// FromFormat decodes bytes into an Envelope and upgrades it. A decode-stage
// failure surfaces as KindFormat (or as the adapter's own structured error,
// passed through) so callers can tell "not valid data" apart from "valid
// data from an unsupported version".
func (s *Schema[C]) FromFormat(data []byte, decode DecodeFunc) (C, error) {
	env, err := decode(data)
	if err != nil {
		var zero C
		var se *Error
		if errors.As(err, &se) {
			return zero, err
		}
		return zero, WrapError(KindFormat, "VERS-FMT-001", "record decode failed", err)
	}
	return s.FromVersion(env)
}

// DecodePayload instantiates the shape declared for tag, fills it through
// unmarshal, and returns the resulting Envelope. This is the hook format
// adapters call after reading the discriminant.
func (s *Schema[C]) DecodePayload(tag Tag, unmarshal func(dst any) error) (Envelope, error) {
	i, ok := s.byTag[tag]
	if !ok {
		return Envelope{}, NewUnknownVersion(tag)
	}
	payload, err := s.decls[i].decode(unmarshal)
	if err != nil {
		return Envelope{}, &Error{
			Kind:    KindFormat,
			RuleID:  "VERS-FMT-002",
			Tag:     tag,
			Message: fmt.Sprintf("cannot decode payload for version %q", tag),
			Cause:   err,
		}
	}
	return Envelope{tag: tag, payload: payload}, nil
}

// Registry is the non-generic view of a Schema used by format adapters and
// manifest tooling, which do not care about the current type.
type Registry interface {
	Latest() Tag
	Tags() []Tag
	Has(Tag) bool
	Prototype(Tag) (any, bool)
	DecodePayload(Tag, func(dst any) error) (Envelope, error)
}

var _ Registry = (*Schema[struct{}])(nil)
