package store

import "github.com/ipfs/go-cid"

// Store is a minimal content-addressable record store.
//
// Contract:
// - Put MUST be idempotent.
// - Stored records MUST be immutable.
// - CIDs MUST be derived from the bytes written (callers are responsible for supplying canonical bytes).
// - Get MUST return ErrNotFound when the CID is absent.
type Store interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
