package localfs

import (
	"os"
	"testing"

	"xdao.co/vers/fingerprint"
	"xdao.co/vers/store"
	"xdao.co/vers/store/testkit"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) store.Store {
		t.Helper()
		dir := t.TempDir()
		s, err := New(dir)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return s
	})
}

func TestLocalFS_RejectMutationByOverwrite(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	orig := []byte("original")
	id, err := s.Put(orig)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Corrupt the stored record out-of-band.
	path := s.pathFor(id)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("corrupted"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Get must detect hash mismatch.
	_, err = s.Get(id)
	if err != store.ErrCIDMismatch {
		t.Fatalf("Get mismatch: got %v want %v", err, store.ErrCIDMismatch)
	}

	// Put must not "repair" or overwrite the corrupted record.
	_, err = s.Put(orig)
	if err != store.ErrImmutable {
		t.Fatalf("Put after corruption: got %v want %v", err, store.ErrImmutable)
	}

	// Sanity: the CID is still the CID of the original bytes.
	wantID, err := fingerprint.CIDv1RawSHA256CID(orig)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}
	if id != wantID {
		t.Fatalf("unexpected CID: got %s want %s", id, wantID)
	}
}

func TestNewRequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
