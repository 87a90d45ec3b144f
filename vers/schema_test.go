package vers

import (
	"reflect"
	"testing"
)

func TestNewRejectsEmptyDeclarationSet(t *testing.T) {
	_, err := New[user]()
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsKind(err, KindDeclare) || RuleID(err) != "VERS-DECL-001" {
		t.Fatalf("expected VERS-DECL-001, got %v", err)
	}
}

func TestNewRejectsEmptyTag(t *testing.T) {
	_, err := New[user](
		V[user, userV1](""),
		V[user, user]("2"),
	)
	if RuleID(err) != "VERS-DECL-002" {
		t.Fatalf("expected VERS-DECL-002, got %v", err)
	}
}

func TestNewRejectsDuplicateTag(t *testing.T) {
	_, err := New[user](
		V[user, userV1]("1"),
		V[user, user]("1"),
	)
	if RuleID(err) != "VERS-DECL-003" {
		t.Fatalf("expected VERS-DECL-003, got %v", err)
	}
}

func TestNewRequiresCurrentTypeLast(t *testing.T) {
	// A declaration set whose newest shape is not the current type would
	// leave the dispatcher without an identity arm.
	_, err := New[user](
		V[user, user]("1"),
		V[user, userV1]("2"),
	)
	if RuleID(err) != "VERS-DECL-004" {
		t.Fatalf("expected VERS-DECL-004, got %v", err)
	}
}

func TestNewRejectsZeroDecl(t *testing.T) {
	_, err := New[user](Decl[user]{tag: "1"}, V[user, user]("2"))
	if RuleID(err) != "VERS-DECL-005" {
		t.Fatalf("expected VERS-DECL-005, got %v", err)
	}
}

func TestMustNewPanicsOnBadDeclaration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustNew[user](V[user, userV1]("1"))
}

func TestSchemaIntrospection(t *testing.T) {
	s := userSchema(t)

	if got := s.Latest(); got != "2" {
		t.Fatalf("Latest: got %q", got)
	}
	if got := s.Tags(); !reflect.DeepEqual(got, []Tag{"1", "2"}) {
		t.Fatalf("Tags: got %v", got)
	}
	if !s.Has("1") || !s.Has("2") || s.Has("9") {
		t.Fatalf("Has misreports membership")
	}

	proto, ok := s.Prototype("1")
	if !ok {
		t.Fatal("Prototype(1): not found")
	}
	if _, ok := proto.(userV1); !ok {
		t.Fatalf("Prototype(1): got %T", proto)
	}
	if _, ok := s.Prototype("9"); ok {
		t.Fatal("Prototype(9): expected miss")
	}
}

func TestTagsReturnsCopy(t *testing.T) {
	s := userSchema(t)
	tags := s.Tags()
	tags[0] = "mutated"
	if s.Tags()[0] != "1" {
		t.Fatal("Tags must not expose internal state")
	}
}
