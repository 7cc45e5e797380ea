package corrid

import (
	"context"
	"regexp"
	"testing"
)

func TestNew_CanonicalUUIDFormat(t *testing.T) {
	t.Parallel()

	id := New()
	s := id.String()

	if len(s) != 36 {
		t.Fatalf("expected id len=36, got %d (%q)", len(s), s)
	}

	re := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	if !re.MatchString(s) {
		t.Fatalf("expected canonical v7 uuid format, got %q", s)
	}
}

func TestNew_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[ID]struct{}, 1000)
	for range 1000 {
		id := New()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestChild_AppendsIndex(t *testing.T) {
	t.Parallel()

	parent := ID("aaaa")
	if got := parent.Child(2); got != "aaaa:2" {
		t.Fatalf("Child(2) = %q, want %q", got, "aaaa:2")
	}
	if got := parent.Child(2).Child(0); got != "aaaa:2:0" {
		t.Fatalf("nested Child = %q, want %q", got, "aaaa:2:0")
	}
}

func TestRoot_StripsChildSuffixes(t *testing.T) {
	t.Parallel()

	id := ID("aaaa").Child(7).Child(3)
	if got := id.Root(); got != "aaaa" {
		t.Fatalf("Root() = %q, want %q", got, "aaaa")
	}
	if got := ID("aaaa").Root(); got != "aaaa" {
		t.Fatalf("Root() on root id = %q, want %q", got, "aaaa")
	}
}

func TestContext_RoundTrip(t *testing.T) {
	t.Parallel()

	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no id on empty context")
	}

	ctx := NewContext(context.Background(), ID("root-1"))
	id, ok := FromContext(ctx)
	if !ok || id != "root-1" {
		t.Fatalf("FromContext = (%q, %v), want (root-1, true)", id, ok)
	}
}

func TestEnsureContext_PreservesExisting(t *testing.T) {
	t.Parallel()

	ctx := NewContext(context.Background(), ID("keep-me"))
	ctx2, id := EnsureContext(ctx)
	if id != "keep-me" {
		t.Fatalf("EnsureContext replaced existing id: %q", id)
	}
	if ctx2 != ctx {
		t.Fatal("EnsureContext should return the same context when id present")
	}

	_, fresh := EnsureContext(context.Background())
	if fresh == "" {
		t.Fatal("EnsureContext should mint an id when none present")
	}
}
