// Package vers implements version tagging and conversion dispatch for
// long-lived records.
//
// A program declares the ordered set of schema shapes its data has ever been
// persisted under. Each historical shape supplies a total upgrade into the
// current shape, and the current shape supplies the identity upgrade. The
// Schema built from those declarations wraps outbound values in an Envelope
// tagged with the newest version and upgrades inbound Envelopes from whatever
// version their bytes declared.
//
// Byte-level encoding is supplied by the caller as plain encode/decode
// functions (see the codec packages for ready-made JSON, YAML and TOML
// adapters). The engine imposes no wire format beyond the flattened
// discriminant discipline: the version tag travels as a field beside the
// payload's own fields and is read before any of them.
//
// All operations are pure and stateless; a Schema is immutable after New and
// safe for concurrent use.
package vers
