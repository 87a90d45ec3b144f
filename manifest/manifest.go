// Package manifest records the declared version history of a schema so that
// drift between releases can be detected and attested.
//
// A manifest is an ordered list of entries, one per declared version tag,
// oldest first. The last entry always describes the current version. Each
// entry carries a content fingerprint of the version's record shape, so a
// recorded manifest pins both the tag set and the field layout of every
// version it covers.
package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"

	"github.com/ipfs/go-cid"

	"xdao.co/vers/fingerprint"
	"xdao.co/vers/vers"
)

// Entry describes one declared version of a schema.
type Entry struct {
	Tag   vers.Tag `json:"tag"`
	Type  string   `json:"type"`
	Shape string   `json:"shape"`
}

// Manifest is the ordered version history of one schema, oldest first.
// The last entry is the current version.
type Manifest []Entry

// Snapshot builds the manifest for a schema's current declaration set.
func Snapshot(reg vers.Registry) (Manifest, error) {
	tags := reg.Tags()
	mf := make(Manifest, 0, len(tags))
	for _, tag := range tags {
		proto, ok := reg.Prototype(tag)
		if !ok {
			return nil, vers.NewError(vers.KindInternal, "VERS-MAN-000", "registry returned a tag without a prototype: "+string(tag))
		}
		shape, err := fingerprint.ShapeCID(proto)
		if err != nil {
			return nil, vers.WrapError(vers.KindManifest, "VERS-MAN-005", "cannot fingerprint shape for tag "+string(tag), err)
		}
		mf = append(mf, Entry{
			Tag:   tag,
			Type:  reflect.TypeOf(proto).String(),
			Shape: shape,
		})
	}
	return mf, nil
}

// Read returns a manifest read from r or an error.
// Manifests are read as a JSON stream of entry objects.
func Read(r io.Reader) (Manifest, error) {
	dec := json.NewDecoder(r)
	var mf Manifest
	for {
		var e Entry
		err := dec.Decode(&e)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, vers.WrapError(vers.KindManifest, "VERS-MAN-006", "manifest decode failed", err)
		}
		mf = append(mf, e)
	}
	return mf, nil
}

// WriteTo writes the manifest to w and returns the written bytes or an error.
// Manifests are written as a JSON stream of entry objects, one per line.
func (mf Manifest) WriteTo(w io.Writer) (nn int64, err error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range mf {
		err = enc.Encode(e)
		if err != nil {
			return nn, err
		}
		n, err := buf.WriteTo(w)
		nn += n
		if err != nil {
			return nn, err
		}
	}
	return nn, nil
}

// Bytes returns the canonical serialized form of the manifest. This is the
// message that gets signed and verified.
func (mf Manifest) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := mf.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Current returns the entry for the current version, if any.
func (mf Manifest) Current() (Entry, bool) {
	if len(mf) == 0 {
		return Entry{}, false
	}
	return mf[len(mf)-1], true
}

// Get returns the entry for tag or false if the manifest does not record it.
func (mf Manifest) Get(tag vers.Tag) (Entry, bool) {
	for _, e := range mf {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Validate checks the manifest's structural invariants without reference to
// a schema: entries are complete, tags are unique, and shape fingerprints
// parse as CIDs.
func (mf Manifest) Validate() error {
	if len(mf) == 0 {
		return vers.NewError(vers.KindManifest, "VERS-MAN-007", "manifest has no entries")
	}
	seen := make(map[vers.Tag]bool, len(mf))
	for _, e := range mf {
		if e.Tag == "" {
			return vers.NewError(vers.KindManifest, "VERS-MAN-008", "manifest entry has an empty tag")
		}
		if seen[e.Tag] {
			return vers.NewError(vers.KindManifest, "VERS-MAN-009", "manifest records version "+string(e.Tag)+" more than once")
		}
		seen[e.Tag] = true
		if e.Shape == "" {
			return vers.NewError(vers.KindManifest, "VERS-MAN-010", "manifest entry "+string(e.Tag)+" has no shape fingerprint")
		}
		if _, err := cid.Decode(e.Shape); err != nil {
			return vers.WrapError(vers.KindManifest, "VERS-MAN-010", "manifest entry "+string(e.Tag)+" has an invalid shape fingerprint", err)
		}
	}
	return nil
}

// Verify checks a schema's current declaration set against a recorded
// manifest. It returns nil when the declared history matches the record
// exactly: same tags, same order, same shape fingerprints.
func Verify(reg vers.Registry, recorded Manifest) error {
	declared, err := Snapshot(reg)
	if err != nil {
		return err
	}
	return Compare(declared, recorded)
}

// Compare checks a current manifest against a recorded one entry by entry.
// It returns nil when the histories match exactly: same tags, same order,
// same shape fingerprints. This is the drift check between two manifest
// files; it needs no schema.
func Compare(current, recorded Manifest) error {
	for _, d := range current {
		if _, ok := recorded.Get(d.Tag); !ok {
			return vers.NewError(vers.KindManifest, "VERS-MAN-001", "declared version "+string(d.Tag)+" is not recorded in the manifest")
		}
	}
	for _, r := range recorded {
		if _, ok := current.Get(r.Tag); !ok {
			return vers.NewError(vers.KindManifest, "VERS-MAN-002", "manifest records version "+string(r.Tag)+" which is no longer declared")
		}
	}
	for i, d := range current {
		r := recorded[i]
		if d.Tag != r.Tag {
			return vers.NewError(vers.KindManifest, "VERS-MAN-004", "version order changed: declared "+string(d.Tag)+" at position where manifest records "+string(r.Tag))
		}
		if d.Shape != r.Shape {
			return vers.NewError(vers.KindManifest, "VERS-MAN-003", "shape of version "+string(d.Tag)+" drifted from the recorded fingerprint")
		}
	}
	return nil
}
