package fingerprint

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ShapeSpec names the canonical shape text format.
const ShapeSpec = "vers-shape-1"

// Shape renders the canonical shape text of a record type: the type name
// plus one line per serialized field, sorted by wire name. Two renderings
// are byte-identical iff the declared field set and field types are
// identical, which is exactly the "stable once assigned" property schema
// manifests record.
//
// Wire names follow the json struct tag when present, the Go field name
// otherwise. Unexported and json:"-" fields do not serialize and are not
// part of the shape. Nested types contribute their type string only; this
// library does not migrate values inside containers, so deep shapes are
// out of scope.
//
// Output is UTF-8 with LF line endings and no trailing newline.
func Shape(v any) ([]byte, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fingerprint: shape requires a struct type, got %T", v)
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	type field struct{ name, typ string }
	fields := make([]field, 0, t.NumField())
	seen := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		wire := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			head, _, _ := strings.Cut(tag, ",")
			if head == "-" {
				continue
			}
			if head != "" {
				wire = head
			}
		}
		if seen[wire] {
			return nil, fmt.Errorf("fingerprint: duplicate wire name %q in %s", wire, name)
		}
		seen[wire] = true
		fields = append(fields, field{name: wire, typ: f.Type.String()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })

	var sb strings.Builder
	sb.WriteString(ShapeSpec)
	sb.WriteString("\nrecord: ")
	sb.WriteString(name)
	for _, f := range fields {
		sb.WriteString("\nfield ")
		sb.WriteString(f.name)
		sb.WriteString(": ")
		sb.WriteString(f.typ)
	}
	return []byte(sb.String()), nil
}

// ShapeCID returns the content identifier of a record type's canonical
// shape text.
func ShapeCID(v any) (string, error) {
	b, err := Shape(v)
	if err != nil {
		return "", err
	}
	return CIDv1RawSHA256(b), nil
}
