// Package verstest provides the canonical example schema and a conformance
// suite that every format adapter is expected to pass.
package verstest

import (
	"reflect"
	"testing"

	"xdao.co/vers/codec"
	"xdao.co/vers/vers"
)

// User is the current schema in the canonical example.
type User struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Age  int    `json:"age" yaml:"age" toml:"age"`
}

func (u User) Upgrade() User { return u }

// UserV1 is the shape User records had before the age field existed.
type UserV1 struct {
	Name string `json:"name" yaml:"name" toml:"name"`
}

// Upgrade backfills the missing age with 0, the example's chosen default.
func (u UserV1) Upgrade() User { return User{Name: u.Name, Age: 0} }

// clash is a shape whose own field collides with the flattened discriminant.
type clash struct {
	Version string `json:"version" yaml:"version" toml:"version"`
	Name    string `json:"name" yaml:"name" toml:"name"`
}

func (c clash) Upgrade() User { return User{Name: c.Name} }

// NewSchema declares the example: V1{name} superseded by User{name,age}.
func NewSchema() *vers.Schema[User] {
	return vers.MustNew[User](
		vers.V[User, UserV1]("1"),
		vers.V[User, User]("2"),
	)
}

// NewAdapter constructs a fresh adapter bound to reg.
type NewAdapter func(reg vers.Registry) codec.Adapter

// RunAdapterConformance exercises the versioning contract against one
// format adapter. Missing-discriminant and malformed-bytes behavior is
// format-specific and covered by each adapter's own tests.
func RunAdapterConformance(t *testing.T, newAdapter NewAdapter) {
	t.Helper()

	schema := NewSchema()
	adapter := newAdapter(schema)

	t.Run("RoundTripLatest", func(t *testing.T) {
		want := User{Name: "David", Age: 35}
		b, err := schema.ToFormat(want, adapter.Encode)
		if err != nil {
			t.Fatalf("ToFormat: %v", err)
		}
		got, err := schema.FromFormat(b, adapter.Decode)
		if err != nil {
			t.Fatalf("FromFormat: %v", err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
		}
	})

	t.Run("OutboundTagIsLatest", func(t *testing.T) {
		b, err := schema.ToFormat(User{Name: "Frank", Age: 40}, adapter.Encode)
		if err != nil {
			t.Fatalf("ToFormat: %v", err)
		}
		pk, ok := adapter.(codec.Peeker)
		if !ok {
			t.Skipf("%s adapter does not implement Peeker", adapter.Name())
		}
		tag, err := pk.Peek(b)
		if err != nil {
			t.Fatalf("Peek: %v", err)
		}
		if tag != schema.Latest() {
			t.Fatalf("expected tag %q, got %q", schema.Latest(), tag)
		}
	})

	t.Run("OldVersionUpgrade", func(t *testing.T) {
		b, err := adapter.Encode(vers.NewEnvelope("1", UserV1{Name: "Eve"}))
		if err != nil {
			t.Fatalf("Encode v1: %v", err)
		}
		got, err := schema.FromFormat(b, adapter.Decode)
		if err != nil {
			t.Fatalf("FromFormat: %v", err)
		}
		if (got != User{Name: "Eve", Age: 0}) {
			t.Fatalf("expected {Eve 0}, got %+v", got)
		}
	})

	t.Run("UnknownTagRejected", func(t *testing.T) {
		b, err := adapter.Encode(vers.NewEnvelope("9", UserV1{Name: "X"}))
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		_, err = schema.FromFormat(b, adapter.Decode)
		if !vers.IsUnknownVersion(err) {
			t.Fatalf("expected KindUnknownVersion, got %v", err)
		}
		if vers.ErrorTag(err) != "9" {
			t.Fatalf("expected tag 9, got %q", vers.ErrorTag(err))
		}
	})

	t.Run("NilPayloadRejected", func(t *testing.T) {
		_, err := adapter.Encode(vers.NewEnvelope("2", nil))
		if err == nil {
			t.Fatal("expected error for nil payload")
		}
		if !vers.IsKind(err, vers.KindFormat) {
			t.Fatalf("expected KindFormat, got %v", err)
		}
	})

	t.Run("DiscriminantCollisionRejected", func(t *testing.T) {
		_, err := adapter.Encode(vers.NewEnvelope("1", clash{Version: "x", Name: "Y"}))
		if err == nil {
			t.Fatal("expected collision error")
		}
		if vers.RuleID(err) != "VERS-FMT-004" {
			t.Fatalf("expected VERS-FMT-004, got %v", err)
		}
	})

	t.Run("EnvelopeRoundTrip", func(t *testing.T) {
		in := vers.NewEnvelope("1", UserV1{Name: "Grace"})
		b, err := adapter.Encode(in)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		out, err := adapter.Decode(b)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if out.Version() != in.Version() {
			t.Fatalf("tag mismatch: got %q want %q", out.Version(), in.Version())
		}
		if !reflect.DeepEqual(out.Payload(), in.Payload()) {
			t.Fatalf("payload mismatch: got %#v want %#v", out.Payload(), in.Payload())
		}
	})
}
