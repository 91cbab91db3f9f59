package ident

import (
	"regexp"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !regexp.MustCompile(`^\d{13,}-[0-9a-f]{8}$`).MatchString(id) {
		t.Fatalf("expected <unix-ms>-<hex8>, got %q", id)
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate ID after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
