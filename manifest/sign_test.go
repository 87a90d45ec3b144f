package manifest_test

import (
	"crypto/ed25519"
	"testing"

	"xdao.co/vers/keys"
	"xdao.co/vers/manifest"
	"xdao.co/vers/vers"
	"xdao.co/vers/verstest"
)

type countingReader struct{ b byte }

func (r *countingReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func testManifest(t *testing.T) manifest.Manifest {
	t.Helper()
	mf, err := manifest.Snapshot(verstest.NewSchema())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return mf
}

func TestSignVerifyEd25519(t *testing.T) {
	mf := testManifest(t)

	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	signerKey := keys.GenerateSignerKeyFromSeed(seed)

	sig, err := mf.SignEd25519("sha256", priv)
	if err != nil {
		t.Fatalf("SignEd25519: %v", err)
	}
	if sig.Alg != "ed25519" || sig.HashAlg != "sha256" {
		t.Fatalf("unexpected signature header: %+v", sig)
	}
	if err := mf.VerifySignature(sig, signerKey); err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}

	tampered := append(manifest.Manifest{}, mf...)
	tampered[0].Shape = "bafkreialtered"
	err = tampered.VerifySignature(sig, signerKey)
	if vers.RuleID(err) != "VERS-SIG-004" {
		t.Fatalf("want VERS-SIG-004 for tampered manifest, got %v", err)
	}
}

func TestSignVerifyDilithium3(t *testing.T) {
	mf := testManifest(t)

	pub, priv, err := keys.GenerateDilithium3Keypair(&countingReader{})
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair: %v", err)
	}
	signerKey, err := keys.FormatDilithium3PublicKey(pub)
	if err != nil {
		t.Fatalf("FormatDilithium3PublicKey: %v", err)
	}

	sig, err := mf.SignDilithium3("sha3-256", priv)
	if err != nil {
		t.Fatalf("SignDilithium3: %v", err)
	}
	if err := mf.VerifySignature(sig, signerKey); err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
}

func TestVerifySignatureAlgMismatch(t *testing.T) {
	mf := testManifest(t)

	seed := make([]byte, ed25519.SeedSize)
	priv := ed25519.NewKeyFromSeed(seed)
	sig, err := mf.SignEd25519("sha512", priv)
	if err != nil {
		t.Fatalf("SignEd25519: %v", err)
	}

	pub, _, err := keys.GenerateDilithium3Keypair(&countingReader{})
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair: %v", err)
	}
	dilKey, err := keys.FormatDilithium3PublicKey(pub)
	if err != nil {
		t.Fatalf("FormatDilithium3PublicKey: %v", err)
	}

	err = mf.VerifySignature(sig, dilKey)
	if vers.RuleID(err) != "VERS-SIG-003" {
		t.Fatalf("want VERS-SIG-003 for algorithm mismatch, got %v", err)
	}
}

func TestSignatureSidecarFormat(t *testing.T) {
	sig := manifest.Signature{Alg: "ed25519", HashAlg: "sha256", Sig: "QUJD"}
	if sig.String() != "ed25519:sha256:QUJD" {
		t.Fatalf("unexpected sidecar form: %q", sig.String())
	}

	parsed, err := manifest.ParseSignature(" ed25519:sha256:QUJD\n")
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if parsed != sig {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}

	for _, bad := range []string{"", "ed25519", "ed25519:sha256", "ed25519::QUJD"} {
		if _, err := manifest.ParseSignature(bad); vers.RuleID(err) != "VERS-SIG-001" {
			t.Fatalf("want VERS-SIG-001 for %q, got %v", bad, err)
		}
	}
}
