package mem

import (
	"testing"

	"xdao.co/vers/store"
	"xdao.co/vers/store/testkit"
)

func TestMem_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) store.Store {
		t.Helper()
		return New()
	})
}

func TestMem_GetReturnsCopy(t *testing.T) {
	s := New()
	id, err := s.Put([]byte("record"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got[0] = 'X'

	again, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(again) != "record" {
		t.Fatalf("stored bytes were mutated through a Get result: %q", again)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}
