// Package yamlcodec adapts the version engine to YAML records.
package yamlcodec

import (
	"gopkg.in/yaml.v3"

	"xdao.co/vers/codec"
	"xdao.co/vers/vers"
)

// Adapter encodes and decodes Envelopes as flat YAML records: the version
// key sits at the same nesting level as the payload's own keys.
type Adapter struct {
	schema vers.Registry
}

func New(schema vers.Registry) *Adapter { return &Adapter{schema: schema} }

func (a *Adapter) Name() string { return "yaml" }

func (a *Adapter) Encode(env vers.Envelope) ([]byte, error) {
	b, err := yaml.Marshal(env.Payload())
	if err != nil {
		return nil, vers.WrapError(vers.KindFormat, "VERS-FMT-005", "yaml: cannot marshal payload", err)
	}
	var fields map[string]any
	if err := yaml.Unmarshal(b, &fields); err != nil {
		return nil, vers.WrapError(vers.KindFormat, "VERS-FMT-006", "yaml: payload is not a flat record", err)
	}
	if fields == nil {
		// A nil payload marshals to "null", which unmarshals to a nil map.
		return nil, vers.NewError(vers.KindFormat, "VERS-FMT-006", "yaml: payload is not a flat record")
	}
	if _, exists := fields[codec.Field]; exists {
		return nil, codec.DiscriminantCollision(a.Name(), env.Version())
	}
	fields[codec.Field] = string(env.Version())
	return yaml.Marshal(fields)
}

func (a *Adapter) Peek(data []byte) (vers.Tag, error) { return Peek(data) }

// Peek reads the version discriminant without decoding the payload.
func Peek(data []byte) (vers.Tag, error) {
	var head map[string]any
	if err := yaml.Unmarshal(data, &head); err != nil {
		return "", vers.WrapError(vers.KindFormat, "VERS-FMT-007", "yaml: malformed record", err)
	}
	raw, ok := head[codec.Field]
	if !ok {
		return "", codec.MissingDiscriminant("yaml")
	}
	tag, ok := codec.TagFromScalar(raw)
	if !ok {
		return "", codec.MissingDiscriminant("yaml")
	}
	return tag, nil
}

func (a *Adapter) Decode(data []byte) (vers.Envelope, error) {
	tag, err := a.Peek(data)
	if err != nil {
		return vers.Envelope{}, err
	}
	return a.schema.DecodePayload(tag, func(dst any) error {
		return yaml.Unmarshal(data, dst)
	})
}
