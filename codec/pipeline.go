package codec

import "xdao.co/vers/vers"

// Pipeline binds one Schema to one Adapter for persisted round-trips.
//
// This is intentionally layered on top of Schema.ToFormat/FromFormat so the
// engine itself stays codec-agnostic; a Pipeline is just the common pairing
// made convenient.
type Pipeline[C any] struct {
	schema  *vers.Schema[C]
	adapter Adapter
}

func NewPipeline[C any](schema *vers.Schema[C], adapter Adapter) *Pipeline[C] {
	return &Pipeline[C]{schema: schema, adapter: adapter}
}

// Encode serializes v tagged with the latest version.
func (p *Pipeline[C]) Encode(v C) ([]byte, error) {
	return p.schema.ToFormat(v, p.adapter.Encode)
}

// Decode reads a record persisted under any declared version and upgrades
// it to the current schema.
func (p *Pipeline[C]) Decode(data []byte) (C, error) {
	return p.schema.FromFormat(data, p.adapter.Decode)
}

// Rewrite upgrades a record's bytes in place: whatever version the input
// declared, the output is encoded at the latest version.
func (p *Pipeline[C]) Rewrite(data []byte) ([]byte, error) {
	v, err := p.Decode(data)
	if err != nil {
		return nil, err
	}
	return p.Encode(v)
}

// Tag reports the version a record's bytes declare, without upgrading it.
func (p *Pipeline[C]) Tag(data []byte) (vers.Tag, error) {
	if pk, ok := p.adapter.(Peeker); ok {
		return pk.Peek(data)
	}
	env, err := p.adapter.Decode(data)
	if err != nil {
		return "", err
	}
	return env.Version(), nil
}
