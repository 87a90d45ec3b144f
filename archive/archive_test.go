package archive_test

import (
	"testing"

	"xdao.co/vers/archive"
	"xdao.co/vers/codec/jsoncodec"
	"xdao.co/vers/fingerprint"
	"xdao.co/vers/store"
	"xdao.co/vers/store/localfs"
	"xdao.co/vers/store/mem"
	"xdao.co/vers/verstest"
)

func newArchive(t *testing.T, s store.Store) *archive.Archive[verstest.User] {
	t.Helper()
	schema := verstest.NewSchema()
	return archive.New(schema, jsoncodec.New(schema), s)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) store.Store{
		"mem": func(t *testing.T) store.Store { return mem.New() },
		"localfs": func(t *testing.T) store.Store {
			s, err := localfs.New(t.TempDir())
			if err != nil {
				t.Fatalf("localfs.New: %v", err)
			}
			return s
		},
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			a := newArchive(t, newStore(t))

			want := verstest.User{Name: "David", Age: 35}
			id, err := a.Save(want)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if !a.Has(id) {
				t.Fatalf("Has(%s) = false after Save", id)
			}

			got, err := a.Load(id)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != want {
				t.Fatalf("Load = %+v, want %+v", got, want)
			}

			tag, err := a.Tag(id)
			if err != nil {
				t.Fatalf("Tag: %v", err)
			}
			if tag != "2" {
				t.Fatalf("Tag = %q, want \"2\"", tag)
			}
		})
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	a := newArchive(t, mem.New())
	u := verstest.User{Name: "Frank", Age: 52}

	id1, err := a.Save(u)
	if err != nil {
		t.Fatalf("Save(1): %v", err)
	}
	id2, err := a.Save(u)
	if err != nil {
		t.Fatalf("Save(2): %v", err)
	}
	if id1 != id2 {
		t.Fatalf("Save not deterministic: %s vs %s", id1, id2)
	}
}

func TestLoadUpgradesOldRecords(t *testing.T) {
	s := mem.New()
	a := newArchive(t, s)

	old := []byte(`{"name":"Eve","version":"1"}`)
	id, err := s.Put(old)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := a.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := verstest.User{Name: "Eve", Age: 0}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}

	tag, err := a.Tag(id)
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if tag != "1" {
		t.Fatalf("Tag = %q, want the stored version \"1\"", tag)
	}
}

func TestLoadMissingRecord(t *testing.T) {
	a := newArchive(t, mem.New())
	id, err := fingerprint.CIDv1RawSHA256CID([]byte("never stored"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	_, err = a.Load(id)
	if !store.IsNotFound(err) {
		t.Fatalf("Load missing: got %v, want ErrNotFound", err)
	}
}
