package manifest

import (
	"crypto/ed25519"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/vers/keys"
	"xdao.co/vers/vers"
)

// Signature is a detached attestation over the canonical manifest bytes.
type Signature struct {
	Alg     string
	HashAlg string
	Sig     string
}

// String renders the sidecar form "alg:hashalg:base64".
func (s Signature) String() string {
	return s.Alg + ":" + s.HashAlg + ":" + s.Sig
}

// ParseSignature parses the sidecar form produced by String.
func ParseSignature(raw string) (Signature, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Signature{}, vers.NewError(vers.KindCrypto, "VERS-SIG-001", "signature must be of the form <alg>:<hashalg>:<base64>")
	}
	return Signature{Alg: parts[0], HashAlg: parts[1], Sig: parts[2]}, nil
}

// SignEd25519 signs the canonical manifest bytes with an Ed25519 key.
func (mf Manifest) SignEd25519(hashAlg string, priv ed25519.PrivateKey) (Signature, error) {
	msg, err := mf.Bytes()
	if err != nil {
		return Signature{}, err
	}
	sig, err := keys.SignEd25519(msg, hashAlg, priv)
	if err != nil {
		return Signature{}, vers.WrapError(vers.KindCrypto, "VERS-SIG-002", "manifest signing failed", err)
	}
	return Signature{Alg: "ed25519", HashAlg: hashAlg, Sig: sig}, nil
}

// SignDilithium3 signs the canonical manifest bytes with a Dilithium3 key.
func (mf Manifest) SignDilithium3(hashAlg string, priv *mode3.PrivateKey) (Signature, error) {
	msg, err := mf.Bytes()
	if err != nil {
		return Signature{}, err
	}
	sig, err := keys.SignDilithium3(msg, hashAlg, priv)
	if err != nil {
		return Signature{}, vers.WrapError(vers.KindCrypto, "VERS-SIG-002", "manifest signing failed", err)
	}
	return Signature{Alg: "dilithium3", HashAlg: hashAlg, Sig: sig}, nil
}

// VerifySignature checks a detached signature against the manifest using a
// signer-key string ("ed25519:<base64>" or "dilithium3:<base64>").
func (mf Manifest) VerifySignature(sig Signature, signerKey string) error {
	msg, err := mf.Bytes()
	if err != nil {
		return err
	}
	keyAlg, _, err := keys.ParsePublicKey(signerKey)
	if err != nil {
		return vers.WrapError(vers.KindCrypto, "VERS-SIG-001", "invalid signer key", err)
	}
	if keyAlg != sig.Alg {
		return vers.NewError(vers.KindCrypto, "VERS-SIG-003", "signature algorithm "+sig.Alg+" does not match signer key algorithm "+keyAlg)
	}

	var ok bool
	switch sig.Alg {
	case "ed25519":
		pub, perr := keys.ParseEd25519PublicKey(signerKey)
		if perr != nil {
			return vers.WrapError(vers.KindCrypto, "VERS-SIG-001", "invalid signer key", perr)
		}
		ok, err = keys.VerifyEd25519(msg, sig.HashAlg, sig.Sig, pub)
	case "dilithium3":
		pub, perr := keys.ParseDilithium3PublicKey(signerKey)
		if perr != nil {
			return vers.WrapError(vers.KindCrypto, "VERS-SIG-001", "invalid signer key", perr)
		}
		ok, err = keys.VerifyDilithium3(msg, sig.HashAlg, sig.Sig, pub)
	default:
		return vers.NewError(vers.KindCrypto, "VERS-SIG-002", "unsupported signature algorithm: "+sig.Alg)
	}
	if err != nil {
		return vers.WrapError(vers.KindCrypto, "VERS-SIG-002", "signature check failed", err)
	}
	if !ok {
		return vers.NewError(vers.KindCrypto, "VERS-SIG-004", "manifest signature did not verify")
	}
	return nil
}
