package registry

import (
	"testing"
	"time"
)

func TestRegisterLookupUnregister(t *testing.T) {
	r := New()

	base := time.UnixMilli(1700000000000)
	current := base
	r.SetClock(func() time.Time { return current })

	r.Register("a1", "sisyphus")
	if got := r.Count(); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}

	entry, ok := r.Lookup("a1")
	if !ok {
		t.Fatal("expected a1 to be registered")
	}
	if entry.AgentType != "sisyphus" {
		t.Fatalf("agentType = %q, want %q", entry.AgentType, "sisyphus")
	}

	current = base.Add(2500 * time.Millisecond)
	if got := r.Unregister("a1"); got != 2500*time.Millisecond {
		t.Fatalf("duration = %v, want 2.5s", got)
	}
	if got := r.Count(); got != 0 {
		t.Fatalf("count after unregister = %d, want 0", got)
	}
	if _, ok := r.Lookup("a1"); ok {
		t.Fatal("a1 still present after unregister")
	}
}

func TestUnregisterUnknownReturnsZero(t *testing.T) {
	r := New()
	if got := r.Unregister("never-spawned"); got != 0 {
		t.Fatalf("duration = %v, want 0", got)
	}
}

func TestActiveOrderedByStartTime(t *testing.T) {
	r := New()

	current := time.UnixMilli(1700000000000)
	r.SetClock(func() time.Time { return current })

	r.Register("later", "oracle")
	current = current.Add(time.Second)
	r.Register("earliest", "sisyphus")

	// Same instant as "later": ties break by id.
	r.SetClock(func() time.Time { return time.UnixMilli(1700000000000) })
	r.Register("also-first", "metis")

	active := r.Active()
	if len(active) != 3 {
		t.Fatalf("len = %d, want 3", len(active))
	}
	got := []string{active[0].ID, active[1].ID, active[2].ID}
	want := []string{"also-first", "later", "earliest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDurationCoversWallTime(t *testing.T) {
	r := New()
	r.Register("a1", "explore")
	time.Sleep(10 * time.Millisecond)
	if got := r.Unregister("a1"); got < 10*time.Millisecond {
		t.Fatalf("duration = %v, want >= 10ms", got)
	}
}
