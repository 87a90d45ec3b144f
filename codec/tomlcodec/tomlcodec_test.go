package tomlcodec

import (
	"testing"

	"github.com/pelletier/go-toml/v2"

	"xdao.co/vers/codec"
	"xdao.co/vers/vers"
	"xdao.co/vers/verstest"
)

func TestAdapterConformance(t *testing.T) {
	verstest.RunAdapterConformance(t, func(reg vers.Registry) codec.Adapter {
		return New(reg)
	})
}

func TestDecodeHistoricalRecordBackfillsDefaults(t *testing.T) {
	schema := verstest.NewSchema()
	in := []byte("version = \"1\"\nname = \"Henry\"\n")
	got, err := schema.FromFormat(in, New(schema).Decode)
	if err != nil {
		t.Fatalf("FromFormat: %v", err)
	}
	if (got != verstest.User{Name: "Henry", Age: 0}) {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeUnknownVersion(t *testing.T) {
	schema := verstest.NewSchema()
	_, err := schema.FromFormat([]byte("version = \"9\"\nname = \"X\"\n"), New(schema).Decode)
	if !vers.IsUnknownVersion(err) {
		t.Fatalf("expected KindUnknownVersion, got %v", err)
	}
	if vers.ErrorTag(err) != "9" {
		t.Fatalf("expected tag 9, got %q", vers.ErrorTag(err))
	}
}

func TestDecodeIntegerDiscriminant(t *testing.T) {
	schema := verstest.NewSchema()
	got, err := schema.FromFormat([]byte("version = 1\nname = \"Iris\"\n"), New(schema).Decode)
	if err != nil {
		t.Fatalf("FromFormat: %v", err)
	}
	if got.Name != "Iris" || got.Age != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeMissingDiscriminant(t *testing.T) {
	schema := verstest.NewSchema()
	_, err := New(schema).Decode([]byte("name = \"Zoe\"\n"))
	if vers.RuleID(err) != "VERS-FMT-003" {
		t.Fatalf("expected VERS-FMT-003, got %v", err)
	}
}

func TestDecodeMalformedBytes(t *testing.T) {
	schema := verstest.NewSchema()
	_, err := New(schema).Decode([]byte("version = = \"1\""))
	if !vers.IsKind(err, vers.KindFormat) {
		t.Fatalf("expected KindFormat, got %v", err)
	}
}

func TestEncodeFlattensDiscriminant(t *testing.T) {
	schema := verstest.NewSchema()
	b, err := schema.ToFormat(verstest.User{Name: "Iris", Age: 33}, New(schema).Encode)
	if err != nil {
		t.Fatalf("ToFormat: %v", err)
	}
	var flat map[string]any
	if err := toml.Unmarshal(b, &flat); err != nil {
		t.Fatalf("output is not a flat TOML record: %v", err)
	}
	if flat["version"] != "2" || flat["name"] != "Iris" || flat["age"] != int64(33) {
		t.Fatalf("unexpected record %v", flat)
	}
}
