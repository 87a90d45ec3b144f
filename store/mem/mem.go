// Package mem provides an in-memory record store, primarily for tests and
// ephemeral daemons.
package mem

import (
	"sync"

	"github.com/ipfs/go-cid"

	"xdao.co/vers/fingerprint"
	"xdao.co/vers/store"
)

// Store keeps records in process memory, keyed by CID.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[cid.Cid][]byte
}

func New() *Store {
	return &Store{records: map[cid.Cid][]byte{}}
}

func (s *Store) Put(bytes []byte) (cid.Cid, error) {
	id, err := fingerprint.CIDv1RawSHA256CID(bytes)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, store.ErrInvalidCID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[id]; ok {
		if string(existing) != string(bytes) {
			return cid.Undef, store.ErrImmutable
		}
		return id, nil
	}
	cp := make([]byte, len(bytes))
	copy(cp, bytes)
	s.records[id] = cp
	return id, nil
}

func (s *Store) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, store.ErrInvalidCID
	}
	s.mu.RLock()
	b, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (s *Store) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	s.mu.RLock()
	_, ok := s.records[id]
	s.mu.RUnlock()
	return ok
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
