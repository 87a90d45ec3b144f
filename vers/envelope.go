package vers

// Tag identifies one declared schema shape. Tags are opaque tokens ("1",
// "2", ...): unique within a schema's declared set, never reassigned to a
// different shape, and ordered only by declaration position. The last
// declared tag denotes the current schema.
type Tag string

// Envelope carries a value of one declared schema shape together with the
// tag that selects it.
//
// Invariants: exactly one payload is carried and the tag always matches it.
// Envelopes are normally constructed by Schema.ToVersion (tag = latest) or
// by decoding bytes (tag = whatever the bytes declared); NewEnvelope exists
// for format adapters assembling an Envelope from external input, which is
// exactly why FromVersion still checks the tag.
type Envelope struct {
	tag     Tag
	payload any
}

// NewEnvelope wraps payload under tag. It performs no membership check;
// dispatch rejects undeclared tags.
func NewEnvelope(tag Tag, payload any) Envelope {
	return Envelope{tag: tag, payload: payload}
}

// Version returns the discriminant tag.
func (e Envelope) Version() Tag { return e.tag }

// Payload returns the carried value.
func (e Envelope) Payload() any { return e.payload }

// EncodeFunc serializes an Envelope with the discriminant flattened beside
// the payload fields.
type EncodeFunc func(Envelope) ([]byte, error)

// DecodeFunc reads the discriminant before any payload field and
// reconstructs the Envelope for whatever version the bytes declared.
type DecodeFunc func([]byte) (Envelope, error)
