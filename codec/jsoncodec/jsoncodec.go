// Package jsoncodec adapts the version engine to JSON records.
package jsoncodec

import (
	"encoding/json"

	"xdao.co/vers/codec"
	"xdao.co/vers/vers"
)

// Adapter encodes and decodes Envelopes as flat JSON records, e.g.
//
//	{"version":"2","name":"David","age":35}
type Adapter struct {
	schema vers.Registry
}

func New(schema vers.Registry) *Adapter { return &Adapter{schema: schema} }

func (a *Adapter) Name() string { return "json" }

func (a *Adapter) Encode(env vers.Envelope) ([]byte, error) {
	b, err := json.Marshal(env.Payload())
	if err != nil {
		return nil, vers.WrapError(vers.KindFormat, "VERS-FMT-005", "json: cannot marshal payload", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, vers.WrapError(vers.KindFormat, "VERS-FMT-006", "json: payload is not a flat record", err)
	}
	if fields == nil {
		// A nil payload marshals to "null", which unmarshals to a nil map.
		return nil, vers.NewError(vers.KindFormat, "VERS-FMT-006", "json: payload is not a flat record")
	}
	if _, exists := fields[codec.Field]; exists {
		return nil, codec.DiscriminantCollision(a.Name(), env.Version())
	}
	tag, err := json.Marshal(string(env.Version()))
	if err != nil {
		return nil, vers.WrapError(vers.KindFormat, "VERS-FMT-005", "json: cannot marshal tag", err)
	}
	fields[codec.Field] = tag
	return json.Marshal(fields)
}

func (a *Adapter) Peek(data []byte) (vers.Tag, error) { return Peek(data) }

// Peek reads the version discriminant without decoding the payload.
func Peek(data []byte) (vers.Tag, error) {
	var head map[string]any
	if err := json.Unmarshal(data, &head); err != nil {
		return "", vers.WrapError(vers.KindFormat, "VERS-FMT-007", "json: malformed record", err)
	}
	raw, ok := head[codec.Field]
	if !ok {
		return "", codec.MissingDiscriminant("json")
	}
	tag, ok := codec.TagFromScalar(raw)
	if !ok {
		return "", codec.MissingDiscriminant("json")
	}
	return tag, nil
}

func (a *Adapter) Decode(data []byte) (vers.Envelope, error) {
	tag, err := a.Peek(data)
	if err != nil {
		return vers.Envelope{}, err
	}
	return a.schema.DecodePayload(tag, func(dst any) error {
		return json.Unmarshal(data, dst)
	})
}
