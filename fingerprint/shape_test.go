package fingerprint

import (
	"strings"
	"testing"
)

type orderRecord struct {
	Zeta  string `json:"zeta"`
	Alpha int    `json:"alpha"`
}

type taggedRecord struct {
	Name     string `json:"name"`
	Age      int    `json:"age,omitempty"`
	Ignored  string `json:"-"`
	NoTag    bool
	internal string
}

func TestShapeCanonicalText(t *testing.T) {
	b, err := Shape(orderRecord{})
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	want := "vers-shape-1\nrecord: orderRecord\nfield alpha: int\nfield zeta: string"
	if string(b) != want {
		t.Fatalf("shape mismatch:\ngot:  %q\nwant: %q", b, want)
	}
}

func TestShapeFieldSelection(t *testing.T) {
	b, err := Shape(&taggedRecord{internal: "x"})
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "field age: int") || !strings.Contains(s, "field name: string") {
		t.Fatalf("tagged fields missing: %q", s)
	}
	if !strings.Contains(s, "field NoTag: bool") {
		t.Fatalf("untagged exported field must use its Go name: %q", s)
	}
	if strings.Contains(s, "Ignored") || strings.Contains(s, "internal") {
		t.Fatalf("non-serialized fields leaked into shape: %q", s)
	}
	if strings.HasSuffix(s, "\n") {
		t.Fatal("trailing newline not allowed")
	}
}

func TestShapeDeterministic(t *testing.T) {
	a, err := Shape(taggedRecord{})
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	b, err := Shape(taggedRecord{Name: "values", Age: 9})
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("shape must depend on the type, not the value")
	}
}

func TestShapeRejectsNonStruct(t *testing.T) {
	if _, err := Shape(42); err == nil {
		t.Fatal("expected error for non-struct")
	}
	if _, err := Shape(nil); err == nil {
		t.Fatal("expected error for nil")
	}
}

func TestShapeCIDDistinguishesShapes(t *testing.T) {
	a, err := ShapeCID(orderRecord{})
	if err != nil {
		t.Fatalf("ShapeCID: %v", err)
	}
	b, err := ShapeCID(taggedRecord{})
	if err != nil {
		t.Fatalf("ShapeCID: %v", err)
	}
	if a == b {
		t.Fatal("different shapes must not share a CID")
	}
}
