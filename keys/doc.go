// Package keys provides signing helpers for manifest attestation.
//
// Stable:
//   - Pure, deterministic primitives for signer-key formatting, message
//     digesting, and role-seed derivation.
//
// Experimental:
//   - Filesystem-backed key storage (KeyStore and related functions). These
//     are local-first CLI conveniences and not part of the long-term API.
package keys
