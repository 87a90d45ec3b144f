package store_test

import (
	"testing"

	"xdao.co/vers/store"
	"xdao.co/vers/store/mem"
	"xdao.co/vers/store/testkit"
)

func TestMulti_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) store.Store {
		t.Helper()
		return store.Multi{Stores: []store.Store{mem.New(), mem.New()}}
	})
}

func TestReplicating_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) store.Store {
		t.Helper()
		return store.Replicating{Backends: []store.Named{
			{Name: "a", Store: mem.New()},
			{Name: "b", Store: mem.New()},
		}}
	})
}

func TestMultiFallbackRead(t *testing.T) {
	primary := mem.New()
	secondary := mem.New()
	id, err := secondary.Put([]byte("only in secondary"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	m := store.Multi{Stores: []store.Store{primary, secondary}}
	got, err := m.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "only in secondary" {
		t.Fatalf("unexpected bytes: %q", got)
	}
	if !m.Has(id) {
		t.Fatalf("Has should see the secondary record")
	}
	if primary.Has(id) {
		t.Fatalf("fallback read must not copy into the primary")
	}
}

func TestReplicatingPutAllWritesEverywhere(t *testing.T) {
	a := mem.New()
	b := mem.New()
	r := store.Replicating{Backends: []store.Named{
		{Name: "a", Store: a},
		{Name: "b", Store: b},
	}}

	id, perBackend, err := r.PutAll([]byte("replicated"))
	if err != nil {
		t.Fatalf("PutAll failed: %v", err)
	}
	if len(perBackend) != 2 {
		t.Fatalf("expected 2 backend CIDs, got %d", len(perBackend))
	}
	for name, got := range perBackend {
		if got != id {
			t.Fatalf("backend %q returned CID %s, want %s", name, got, id)
		}
	}
	if !a.Has(id) || !b.Has(id) {
		t.Fatalf("record missing from a backend after PutAll")
	}
}
