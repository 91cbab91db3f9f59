package details

import (
	"testing"
	"time"
)

func TestSynthesize(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	d := Synthesize("1699999990000-ab12cd34", now)

	if d.ID != "1699999990000-ab12cd34" {
		t.Fatalf("id = %q, want request id echoed", d.ID)
	}
	if len(d.SessionLog) == 0 {
		t.Fatal("empty session log")
	}
	for i := 1; i < len(d.SessionLog); i++ {
		if d.SessionLog[i-1].Time > d.SessionLog[i].Time {
			t.Fatalf("session log not chronological at %d", i)
		}
	}
	last := d.SessionLog[len(d.SessionLog)-1]
	if last.Time > now.UnixMilli() {
		t.Fatalf("log entry in the future: %d > %d", last.Time, now.UnixMilli())
	}
	if d.TokensUsed <= 0 {
		t.Fatalf("tokensUsed = %d, want > 0", d.TokensUsed)
	}
	if len(d.FilesTouched) == 0 || len(d.ToolsUsed) == 0 {
		t.Fatal("files/tools must be populated")
	}
}

func TestSynthesizeUnknownIDStillAnswers(t *testing.T) {
	d := Synthesize("gone", time.Now())
	if d.ID != "gone" {
		t.Fatalf("id = %q, want %q", d.ID, "gone")
	}
}
