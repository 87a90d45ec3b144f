package jsoncodec

import (
	"encoding/json"
	"testing"

	"xdao.co/vers/codec"
	"xdao.co/vers/vers"
	"xdao.co/vers/verstest"
)

func TestAdapterConformance(t *testing.T) {
	verstest.RunAdapterConformance(t, func(reg vers.Registry) codec.Adapter {
		return New(reg)
	})
}

func TestDecodeCurrentRecord(t *testing.T) {
	schema := verstest.NewSchema()
	got, err := schema.FromFormat([]byte(`{"version":"2","name":"David","age":35}`), New(schema).Decode)
	if err != nil {
		t.Fatalf("FromFormat: %v", err)
	}
	if (got != verstest.User{Name: "David", Age: 35}) {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeHistoricalRecordBackfillsDefaults(t *testing.T) {
	schema := verstest.NewSchema()
	got, err := schema.FromFormat([]byte(`{"version":"1","name":"Eve"}`), New(schema).Decode)
	if err != nil {
		t.Fatalf("FromFormat: %v", err)
	}
	if (got != verstest.User{Name: "Eve", Age: 0}) {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeUnknownVersion(t *testing.T) {
	schema := verstest.NewSchema()
	_, err := schema.FromFormat([]byte(`{"version":"9","name":"X"}`), New(schema).Decode)
	if !vers.IsUnknownVersion(err) {
		t.Fatalf("expected KindUnknownVersion, got %v", err)
	}
	if vers.ErrorTag(err) != "9" {
		t.Fatalf("expected tag 9, got %q", vers.ErrorTag(err))
	}
}

func TestDecodeMissingDiscriminant(t *testing.T) {
	schema := verstest.NewSchema()
	_, err := New(schema).Decode([]byte(`{"name":"Zoe"}`))
	if !vers.IsKind(err, vers.KindFormat) {
		t.Fatalf("expected KindFormat, got %v", err)
	}
	if vers.RuleID(err) != "VERS-FMT-003" {
		t.Fatalf("expected VERS-FMT-003, got %s", vers.RuleID(err))
	}
}

func TestDecodeMalformedBytes(t *testing.T) {
	schema := verstest.NewSchema()
	_, err := New(schema).Decode([]byte(`{"version":`))
	if !vers.IsKind(err, vers.KindFormat) {
		t.Fatalf("expected KindFormat, got %v", err)
	}
	if vers.RuleID(err) != "VERS-FMT-007" {
		t.Fatalf("expected VERS-FMT-007, got %s", vers.RuleID(err))
	}
}

func TestDecodeNumericDiscriminant(t *testing.T) {
	schema := verstest.NewSchema()
	got, err := schema.FromFormat([]byte(`{"version":1,"name":"Eve"}`), New(schema).Decode)
	if err != nil {
		t.Fatalf("FromFormat: %v", err)
	}
	if got.Name != "Eve" || got.Age != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestEncodeNilPayloadRejected(t *testing.T) {
	schema := verstest.NewSchema()
	_, err := New(schema).Encode(vers.NewEnvelope("2", nil))
	if err == nil {
		t.Fatal("expected error for nil payload")
	}
	if vers.RuleID(err) != "VERS-FMT-006" {
		t.Fatalf("expected VERS-FMT-006, got %v", err)
	}
}

func TestEncodeFlattensDiscriminant(t *testing.T) {
	schema := verstest.NewSchema()
	b, err := schema.ToFormat(verstest.User{Name: "Frank", Age: 40}, New(schema).Encode)
	if err != nil {
		t.Fatalf("ToFormat: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(b, &flat); err != nil {
		t.Fatalf("output is not a flat JSON record: %v", err)
	}
	if flat["version"] != "2" || flat["name"] != "Frank" || flat["age"] != float64(40) {
		t.Fatalf("unexpected record %v", flat)
	}
}
