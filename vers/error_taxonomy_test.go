package vers

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_StructuredExtraction(t *testing.T) {
	s := userSchema(t)
	_, err := s.FromVersion(NewEnvelope("42", nil))
	if err == nil {
		t.Fatal("expected error")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured *vers.Error, got %T", err)
	}
	if e.Kind != KindUnknownVersion {
		t.Fatalf("expected KindUnknownVersion, got %s", e.Kind)
	}
	if e.Tag != "42" {
		t.Fatalf("expected Tag 42, got %q", e.Tag)
	}
}

func TestError_SurvivesWrapping(t *testing.T) {
	base := NewUnknownVersion("7")
	wrapped := fmt.Errorf("loading record: %w", base)

	if !IsUnknownVersion(wrapped) {
		t.Fatal("IsUnknownVersion must see through fmt wrapping")
	}
	if ErrorTag(wrapped) != "7" {
		t.Fatalf("ErrorTag: got %q", ErrorTag(wrapped))
	}
	if RuleID(wrapped) != "VERS-TAG-001" {
		t.Fatalf("RuleID: got %s", RuleID(wrapped))
	}
}

func TestError_NilAndUnknownHelpers(t *testing.T) {
	if IsKind(nil, KindFormat) {
		t.Fatal("IsKind(nil) must be false")
	}
	plain := errors.New("plain")
	if IsKind(plain, KindFormat) || RuleID(plain) != "" || ErrorTag(plain) != "" {
		t.Fatal("helpers must ignore non-structured errors")
	}
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := errors.New("io gone")
	err := WrapError(KindFormat, "VERS-FMT-001", "decode failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if WrapError(KindFormat, "VERS-FMT-001", "msg", nil).Cause != nil {
		t.Fatal("nil cause must stay nil")
	}
}
