// Package tomlcodec adapts the version engine to TOML records.
package tomlcodec

import (
	"github.com/pelletier/go-toml/v2"

	"xdao.co/vers/codec"
	"xdao.co/vers/vers"
)

// Adapter encodes and decodes Envelopes as flat TOML records, e.g.
//
//	version = "2"
//	name = "David"
//	age = 35
type Adapter struct {
	schema vers.Registry
}

func New(schema vers.Registry) *Adapter { return &Adapter{schema: schema} }

func (a *Adapter) Name() string { return "toml" }

func (a *Adapter) Encode(env vers.Envelope) ([]byte, error) {
	b, err := toml.Marshal(env.Payload())
	if err != nil {
		return nil, vers.WrapError(vers.KindFormat, "VERS-FMT-005", "toml: cannot marshal payload", err)
	}
	var fields map[string]any
	if err := toml.Unmarshal(b, &fields); err != nil {
		return nil, vers.WrapError(vers.KindFormat, "VERS-FMT-006", "toml: payload is not a flat record", err)
	}
	if fields == nil {
		// Payloads that flatten to no record at all, e.g. nil.
		return nil, vers.NewError(vers.KindFormat, "VERS-FMT-006", "toml: payload is not a flat record")
	}
	if _, exists := fields[codec.Field]; exists {
		return nil, codec.DiscriminantCollision(a.Name(), env.Version())
	}
	fields[codec.Field] = string(env.Version())
	return toml.Marshal(fields)
}

func (a *Adapter) Peek(data []byte) (vers.Tag, error) { return Peek(data) }

// Peek reads the version discriminant without decoding the payload.
func Peek(data []byte) (vers.Tag, error) {
	var head map[string]any
	if err := toml.Unmarshal(data, &head); err != nil {
		return "", vers.WrapError(vers.KindFormat, "VERS-FMT-007", "toml: malformed record", err)
	}
	raw, ok := head[codec.Field]
	if !ok {
		return "", codec.MissingDiscriminant("toml")
	}
	tag, ok := codec.TagFromScalar(raw)
	if !ok {
		return "", codec.MissingDiscriminant("toml")
	}
	return tag, nil
}

func (a *Adapter) Decode(data []byte) (vers.Envelope, error) {
	tag, err := a.Peek(data)
	if err != nil {
		return vers.Envelope{}, err
	}
	return a.schema.DecodePayload(tag, func(dst any) error {
		return toml.Unmarshal(data, dst)
	})
}
