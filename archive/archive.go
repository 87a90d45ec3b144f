// Package archive persists versioned records in a content-addressable store.
//
// An Archive binds a schema, a format adapter, and a store. Save encodes the
// current version and writes the canonical bytes; Load reads any stored
// version and upgrades it to the current one. Old records stay readable for
// as long as their version remains declared.
package archive

import (
	"github.com/ipfs/go-cid"

	"xdao.co/vers/codec"
	"xdao.co/vers/store"
	"xdao.co/vers/vers"
)

// Archive reads and writes versioned records of the current type C.
type Archive[C any] struct {
	schema  *vers.Schema[C]
	adapter codec.Adapter
	store   store.Store
}

// New binds a schema, a format adapter, and a store.
func New[C any](schema *vers.Schema[C], adapter codec.Adapter, s store.Store) *Archive[C] {
	return &Archive[C]{schema: schema, adapter: adapter, store: s}
}

// Save encodes v at the current version and stores the bytes.
func (a *Archive[C]) Save(v C) (cid.Cid, error) {
	data, err := a.adapter.Encode(a.schema.ToVersion(v))
	if err != nil {
		return cid.Undef, err
	}
	return a.store.Put(data)
}

// Load reads the record at id and upgrades it to the current version.
func (a *Archive[C]) Load(id cid.Cid) (C, error) {
	var zero C
	data, err := a.store.Get(id)
	if err != nil {
		return zero, err
	}
	env, err := a.adapter.Decode(data)
	if err != nil {
		return zero, err
	}
	return a.schema.FromVersion(env)
}

// Has reports whether the store holds a record for id.
func (a *Archive[C]) Has(id cid.Cid) bool {
	return a.store.Has(id)
}

// Tag reports the stored (pre-upgrade) version of the record at id.
// The adapter must support discriminant peeking.
func (a *Archive[C]) Tag(id cid.Cid) (vers.Tag, error) {
	data, err := a.store.Get(id)
	if err != nil {
		return "", err
	}
	p, ok := a.adapter.(codec.Peeker)
	if !ok {
		return "", vers.NewError(vers.KindFormat, "VERS-FMT-008", "adapter "+a.adapter.Name()+" cannot peek version tags")
	}
	return p.Peek(data)
}
