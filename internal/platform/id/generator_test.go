package id

import "testing"

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()

	first, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	second, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
	if !Valid(first) {
		t.Fatalf("expected %q to be a valid uuid", first)
	}
	if Valid("not-a-session") {
		t.Fatalf("expected garbage to be rejected")
	}
}
