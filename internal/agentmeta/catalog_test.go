package agentmeta

import "testing"

func TestInfoForKnown(t *testing.T) {
	info := InfoFor("sisyphus")
	if info.Name != "Sisyphus" {
		t.Fatalf("name = %q, want %q", info.Name, "Sisyphus")
	}
	if info.Category != CategoryOrchestrator {
		t.Fatalf("category = %q, want %q", info.Category, CategoryOrchestrator)
	}
	if info.Ring != 0 {
		t.Fatalf("ring = %d, want 0", info.Ring)
	}
}

func TestInfoForNormalizesCase(t *testing.T) {
	if got := InfoFor("  Oracle "); got.Name != "Oracle" {
		t.Fatalf("name = %q, want %q", got.Name, "Oracle")
	}
}

func TestInfoForUnknownFallback(t *testing.T) {
	info := InfoFor("mystery-agent")
	if info.Name != "mystery-agent" {
		t.Fatalf("name = %q, want raw type", info.Name)
	}
	if info.Title != "Agent" {
		t.Fatalf("title = %q, want %q", info.Title, "Agent")
	}
	if info.Icon == "" || info.Color == "" {
		t.Fatalf("fallback must carry icon and color, got %+v", info)
	}
}

func TestTypesStableOrder(t *testing.T) {
	a := Types()
	b := Types()
	if len(a) == 0 {
		t.Fatal("no known types")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order not stable at %d: %q vs %q", i, a[i], b[i])
		}
	}
	for i := 1; i < len(a); i++ {
		if a[i-1] >= a[i] {
			t.Fatalf("types not sorted: %q before %q", a[i-1], a[i])
		}
	}
}

func TestActionForFallback(t *testing.T) {
	if got := ActionFor("RUN_TESTS"); got.Category != "execution" {
		t.Fatalf("category = %q, want %q", got.Category, "execution")
	}
	got := ActionFor("UNHEARD_OF")
	if got.Label != "UNHEARD_OF" {
		t.Fatalf("label = %q, want raw action", got.Label)
	}
	if got.Category != "other" {
		t.Fatalf("category = %q, want %q", got.Category, "other")
	}
}
