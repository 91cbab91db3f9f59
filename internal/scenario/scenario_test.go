package scenario

import (
	"context"
	"testing"
	"time"

	"swarmview/internal/broadcast"
	"swarmview/internal/emitter"
	"swarmview/internal/registry"
	"swarmview/pkg/protocol"
)

func runScenario(t *testing.T, run func(d *Driver, ctx context.Context)) []protocol.Event {
	t.Helper()

	b := broadcast.New()
	v := b.AddViewer("test")
	d := NewDriver(emitter.New(registry.New(), b))
	d.Pace = 0

	run(d, context.Background())
	b.RemoveViewer(v)

	var events []protocol.Event
	for ev := range v.Events() {
		events = append(events, ev)
	}
	return events
}

func checkBalanced(t *testing.T, events []protocol.Event) {
	t.Helper()

	spawned := make(map[string]string) // id -> parentId
	completed := make(map[string]struct{})
	for _, ev := range events {
		switch ev.Type {
		case protocol.EventAgentSpawn:
			data, err := protocol.DecodeData[protocol.SpawnData](ev)
			if err != nil {
				t.Fatalf("decode spawn: %v", err)
			}
			if _, dup := spawned[data.ID]; dup {
				t.Fatalf("id %q spawned twice", data.ID)
			}
			spawned[data.ID] = data.ParentID
		case protocol.EventAgentComplete:
			data, err := protocol.DecodeData[protocol.CompleteData](ev)
			if err != nil {
				t.Fatalf("decode complete: %v", err)
			}
			if _, ok := spawned[data.AgentID]; !ok {
				t.Fatalf("completion for unspawned id %q", data.AgentID)
			}
			completed[data.AgentID] = struct{}{}
		case protocol.EventAgentAction:
			data, err := protocol.DecodeData[protocol.ActionData](ev)
			if err != nil {
				t.Fatalf("decode action: %v", err)
			}
			if _, ok := spawned[data.AgentID]; !ok {
				t.Fatalf("action for unspawned id %q", data.AgentID)
			}
			if _, done := completed[data.AgentID]; done {
				t.Fatalf("action for already-completed id %q", data.AgentID)
			}
		}
	}

	if len(spawned) == 0 {
		t.Fatal("scenario spawned no agents")
	}
	if len(completed) != len(spawned) {
		t.Fatalf("completed %d of %d spawned agents", len(completed), len(spawned))
	}
	// Every non-root parent reference points at an agent from this run.
	for id, parent := range spawned {
		if parent == "" {
			continue
		}
		if _, ok := spawned[parent]; !ok {
			t.Fatalf("agent %q has unknown parent %q", id, parent)
		}
	}
}

func TestScenariosAreBalanced(t *testing.T) {
	scenarios := map[string]func(d *Driver, ctx context.Context){
		"featureImplementation": func(d *Driver, ctx context.Context) { d.featureImplementation(ctx) },
		"bugFix":                func(d *Driver, ctx context.Context) { d.bugFix(ctx) },
		"refactoring":           func(d *Driver, ctx context.Context) { d.refactoring(ctx) },
		"architectureDecision":  func(d *Driver, ctx context.Context) { d.architectureDecision(ctx) },
	}
	for name, run := range scenarios {
		t.Run(name, func(t *testing.T) {
			checkBalanced(t, runScenario(t, run))
		})
	}
}

func TestScenarioHasSingleRoot(t *testing.T) {
	events := runScenario(t, func(d *Driver, ctx context.Context) { d.featureImplementation(ctx) })

	roots := 0
	for _, ev := range events {
		if ev.Type != protocol.EventAgentSpawn {
			continue
		}
		data, _ := protocol.DecodeData[protocol.SpawnData](ev)
		if data.ParentID == "" {
			roots++
		}
	}
	if roots != 1 {
		t.Fatalf("roots = %d, want 1", roots)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	b := broadcast.New()
	d := NewDriver(emitter.New(registry.New(), b))
	d.Pace = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop after cancel")
	}
}
