package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
)

// DigestFor hashes message with the named algorithm.
// hashAlg must be one of: sha256, sha512, sha3-256.
func DigestFor(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// SignEd25519 returns a base64 Ed25519 signature over hash(message).
func SignEd25519(message []byte, hashAlg string, privateKey ed25519.PrivateKey) (string, error) {
	digest, err := DigestFor(hashAlg, message)
	if err != nil {
		return "", err
	}
	sig := ed25519.Sign(privateKey, digest)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyEd25519 reports whether sigB64 is a valid Ed25519 signature over
// hash(message).
func VerifyEd25519(message []byte, hashAlg, sigB64 string, publicKey ed25519.PublicKey) (bool, error) {
	digest, err := DigestFor(hashAlg, message)
	if err != nil {
		return false, err
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false, fmt.Errorf("invalid base64 signature: %w", err)
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return false, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey))
	}
	return ed25519.Verify(publicKey, digest, sig), nil
}

// SignDilithium3 returns a base64 dilithium3 signature over hash(message).
// hashAlg must be one of: sha256, sha512, sha3-256.
func SignDilithium3(message []byte, hashAlg string, privateKey *mode3.PrivateKey) (string, error) {
	if privateKey == nil {
		return "", fmt.Errorf("missing private key")
	}
	digest, err := DigestFor(hashAlg, message)
	if err != nil {
		return "", err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(privateKey, digest, sig)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyDilithium3 reports whether sigB64 is a valid dilithium3 signature
// over hash(message).
func VerifyDilithium3(message []byte, hashAlg, sigB64 string, publicKey *mode3.PublicKey) (bool, error) {
	if publicKey == nil {
		return false, fmt.Errorf("missing public key")
	}
	digest, err := DigestFor(hashAlg, message)
	if err != nil {
		return false, err
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false, fmt.Errorf("invalid base64 signature: %w", err)
	}
	if len(sig) != mode3.SignatureSize {
		return false, fmt.Errorf("dilithium3 signature must be %d bytes, got %d", mode3.SignatureSize, len(sig))
	}
	return mode3.Verify(publicKey, digest, sig), nil
}

// GenerateDilithium3Keypair returns a new Dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}

// Dilithium3KeypairFromSeed derives a Dilithium3 keypair from a stored
// 32-byte seed. The same seed that backs an ed25519 signer key yields a
// stable Dilithium3 keypair, so one stored key serves both algorithms.
func Dilithium3KeypairFromSeed(seed []byte) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	if len(seed) != mode3.SeedSize {
		return nil, nil, fmt.Errorf("dilithium3 seed must be %d bytes, got %d", mode3.SeedSize, len(seed))
	}
	var s [mode3.SeedSize]byte
	copy(s[:], seed)
	pub, priv := mode3.NewKeyFromSeed(&s)
	return pub, priv, nil
}
