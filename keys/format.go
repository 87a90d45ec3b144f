package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// FormatPublicKey encodes an Ed25519 public key as a signer-key string.
func FormatPublicKey(pub ed25519.PublicKey) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return "ed25519:" + base64.StdEncoding.EncodeToString(pub), nil
}

// FormatDilithium3PublicKey encodes a Dilithium3 public key as a signer-key
// string.
func FormatDilithium3PublicKey(pub *mode3.PublicKey) (string, error) {
	if pub == nil {
		return "", fmt.Errorf("missing public key")
	}
	raw, err := pub.MarshalBinary()
	if err != nil {
		return "", err
	}
	return "dilithium3:" + base64.StdEncoding.EncodeToString(raw), nil
}

// ParsePublicKey splits a signer-key string into its algorithm name and raw
// key bytes. Supported algorithms: ed25519, dilithium3.
func ParsePublicKey(key string) (alg string, raw []byte, err error) {
	alg, b64, ok := strings.Cut(key, ":")
	if !ok {
		return "", nil, fmt.Errorf("signer key must be of the form <alg>:<base64>")
	}
	raw, err = base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 in signer key: %w", err)
	}
	switch alg {
	case "ed25519":
		if len(raw) != ed25519.PublicKeySize {
			return "", nil, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
		}
	case "dilithium3":
		if len(raw) != mode3.PublicKeySize {
			return "", nil, fmt.Errorf("dilithium3 public key must be %d bytes, got %d", mode3.PublicKeySize, len(raw))
		}
	default:
		return "", nil, fmt.Errorf("unsupported signer key algorithm: %q", alg)
	}
	return alg, raw, nil
}

// ParseDilithium3PublicKey decodes a "dilithium3:" signer-key string.
func ParseDilithium3PublicKey(key string) (*mode3.PublicKey, error) {
	alg, raw, err := ParsePublicKey(key)
	if err != nil {
		return nil, err
	}
	if alg != "dilithium3" {
		return nil, fmt.Errorf("expected dilithium3 signer key, got %q", alg)
	}
	pub := new(mode3.PublicKey)
	if err := pub.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return pub, nil
}

// ParseEd25519PublicKey decodes an "ed25519:" signer-key string.
func ParseEd25519PublicKey(key string) (ed25519.PublicKey, error) {
	alg, raw, err := ParsePublicKey(key)
	if err != nil {
		return nil, err
	}
	if alg != "ed25519" {
		return nil, fmt.Errorf("expected ed25519 signer key, got %q", alg)
	}
	return ed25519.PublicKey(raw), nil
}
