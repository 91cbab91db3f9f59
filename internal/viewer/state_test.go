package viewer

import (
	"encoding/json"
	"testing"
	"time"

	"swarmview/pkg/protocol"
)

func mustEvent(t *testing.T, eventType string, payload any) protocol.Event {
	t.Helper()
	ev, err := protocol.NewEvent(eventType, time.Now(), payload)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	return ev
}

func spawnEvent(t *testing.T, id, agentType, parentID string) protocol.Event {
	return mustEvent(t, protocol.EventAgentSpawn, protocol.SpawnData{
		ID: id, AgentType: agentType, Description: "task", ParentID: parentID,
	})
}

func newTestState() (*SessionState, *time.Time) {
	s := NewSessionState()
	current := time.UnixMilli(1700000000000)
	s.SetClock(func() time.Time { return current })
	return s, &current
}

func TestSpawnInsertsActiveAgent(t *testing.T) {
	s, _ := newTestState()
	s.Apply(spawnEvent(t, "a1", "sisyphus", ""))

	agent, ok := s.Lookup("a1")
	if !ok {
		t.Fatal("a1 not resident")
	}
	if agent.Status != StatusActive {
		t.Fatalf("status = %q, want %q", agent.Status, StatusActive)
	}
	if agent.Info.Name != "Sisyphus" {
		t.Fatalf("info name = %q, want %q", agent.Info.Name, "Sisyphus")
	}
	if got := s.ActiveCount(); got != 1 {
		t.Fatalf("active count = %d, want 1", got)
	}
}

func TestDuplicateSpawnIgnored(t *testing.T) {
	s, _ := newTestState()
	s.Apply(spawnEvent(t, "a1", "sisyphus", ""))
	s.Apply(mustEvent(t, protocol.EventAgentAction, protocol.ActionData{AgentID: "a1", Action: "WRITE_CODE"}))
	s.Apply(spawnEvent(t, "a1", "oracle", ""))

	if got := s.ResidentCount(); got != 1 {
		t.Fatalf("resident = %d, want 1", got)
	}
	agent, _ := s.Lookup("a1")
	if agent.Type != "sisyphus" {
		t.Fatalf("type = %q, duplicate spawn must not overwrite", agent.Type)
	}
	if agent.Status != StatusWorking {
		t.Fatalf("status = %q, duplicate spawn must not reset progress", agent.Status)
	}
}

func TestActionForUnknownIDIsNoop(t *testing.T) {
	s, _ := newTestState()
	s.Apply(mustEvent(t, protocol.EventAgentAction, protocol.ActionData{AgentID: "ghost", Action: "WRITE_CODE"}))
	if got := s.ResidentCount(); got != 0 {
		t.Fatalf("resident = %d, want 0", got)
	}
}

func TestActionSetsWorkingAndCurrentAction(t *testing.T) {
	s, _ := newTestState()
	s.Apply(spawnEvent(t, "a1", "explore", ""))
	s.Apply(mustEvent(t, protocol.EventAgentAction, protocol.ActionData{
		AgentID: "a1", Action: "SEARCH_CODEBASE", Details: map[string]any{"query": "auth"},
	}))

	agent, _ := s.Lookup("a1")
	if agent.Status != StatusWorking {
		t.Fatalf("status = %q, want %q", agent.Status, StatusWorking)
	}
	if agent.Current == nil || agent.Current.Type != "SEARCH_CODEBASE" {
		t.Fatalf("current action = %+v, want SEARCH_CODEBASE", agent.Current)
	}
}

func TestCompleteThenGracePeriodExpiry(t *testing.T) {
	s, current := newTestState()
	s.Apply(spawnEvent(t, "a1", "librarian", ""))
	s.Apply(mustEvent(t, protocol.EventAgentComplete, protocol.CompleteData{AgentID: "a1", Duration: 2500}))

	agent, ok := s.Lookup("a1")
	if !ok {
		t.Fatal("completed agent must remain resident during grace period")
	}
	if agent.Status != StatusCompleted {
		t.Fatalf("status = %q, want %q", agent.Status, StatusCompleted)
	}
	if agent.Current != nil {
		t.Fatal("current action must be detached on completion")
	}
	if agent.Duration != 2500*time.Millisecond {
		t.Fatalf("duration = %v, want 2.5s", agent.Duration)
	}
	if got := s.ActiveCount(); got != 0 {
		t.Fatalf("active count = %d, completed agents are not active", got)
	}

	// Just inside the grace period: still resident.
	*current = current.Add(DefaultGracePeriod - time.Millisecond)
	if _, ok := s.Lookup("a1"); !ok {
		t.Fatal("agent pruned before grace period elapsed")
	}

	*current = current.Add(time.Millisecond)
	if _, ok := s.Lookup("a1"); ok {
		t.Fatal("agent resident past grace period")
	}
	if got := s.ResidentCount(); got != 0 {
		t.Fatalf("resident = %d, want 0", got)
	}
}

func TestStatusMonotonicAfterComplete(t *testing.T) {
	s, _ := newTestState()
	s.Apply(spawnEvent(t, "a1", "oracle", ""))
	s.Apply(mustEvent(t, protocol.EventAgentComplete, protocol.CompleteData{AgentID: "a1"}))
	s.Apply(mustEvent(t, protocol.EventAgentAction, protocol.ActionData{AgentID: "a1", Action: "WRITE_CODE"}))

	agent, _ := s.Lookup("a1")
	if agent.Status != StatusCompleted {
		t.Fatalf("status = %q, completed is terminal", agent.Status)
	}
	if agent.Current != nil {
		t.Fatal("completed agent must not regain an action")
	}
}

func TestParentCompletionDoesNotCascade(t *testing.T) {
	s, _ := newTestState()
	s.Apply(spawnEvent(t, "a1", "sisyphus", ""))
	s.Apply(spawnEvent(t, "b1", "explore", "a1"))
	s.Apply(mustEvent(t, protocol.EventAgentComplete, protocol.CompleteData{AgentID: "a1"}))

	child, ok := s.Lookup("b1")
	if !ok {
		t.Fatal("child evicted by parent completion")
	}
	if child.Status != StatusActive {
		t.Fatalf("child status = %q, want %q", child.Status, StatusActive)
	}
}

func TestResidentCountMatchesSpawnsMinusExpired(t *testing.T) {
	s, current := newTestState()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Apply(spawnEvent(t, id, "explore", ""))
	}
	s.Apply(mustEvent(t, protocol.EventAgentComplete, protocol.CompleteData{AgentID: "a"}))
	s.Apply(mustEvent(t, protocol.EventAgentComplete, protocol.CompleteData{AgentID: "b"}))

	if got := s.ResidentCount(); got != 4 {
		t.Fatalf("resident = %d, want 4 (grace period)", got)
	}
	*current = current.Add(DefaultGracePeriod)
	if got := s.ResidentCount(); got != 2 {
		t.Fatalf("resident = %d, want 2 after grace", got)
	}
	if got := s.ActiveCount(); got != 2 {
		t.Fatalf("active = %d, want 2", got)
	}
}

func TestUnknownEventTypeIgnored(t *testing.T) {
	s, _ := newTestState()
	s.Apply(protocol.Event{Type: "hologram_update", Timestamp: 1, Data: json.RawMessage(`{"x":1}`)})
	if got := s.ResidentCount(); got != 0 {
		t.Fatalf("resident = %d, want 0", got)
	}
}

func TestMalformedPayloadIgnored(t *testing.T) {
	s, _ := newTestState()
	s.Apply(protocol.Event{Type: protocol.EventAgentSpawn, Timestamp: 1, Data: json.RawMessage(`"not an object"`)})
	if got := s.ResidentCount(); got != 0 {
		t.Fatalf("resident = %d, want 0", got)
	}
}

func TestUnknownAgentTypeGetsFallbackInfo(t *testing.T) {
	s, _ := newTestState()
	s.Apply(spawnEvent(t, "a1", "quantum-debugger", ""))
	agent, _ := s.Lookup("a1")
	if agent.Info.Icon == "" {
		t.Fatal("fallback info missing icon")
	}
	if agent.Info.Name != "quantum-debugger" {
		t.Fatalf("fallback name = %q, want raw type", agent.Info.Name)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s, _ := newTestState()
	s.Apply(spawnEvent(t, "a1", "sisyphus", ""))
	s.Apply(mustEvent(t, protocol.EventSystem, protocol.SystemData{Message: "hello"}))

	s.Reset()
	if got := s.ResidentCount(); got != 0 {
		t.Fatalf("resident = %d, want 0 after reset", got)
	}
	if got := len(s.Feed()); got != 0 {
		t.Fatalf("feed length = %d, want 0 after reset", got)
	}
}

func TestSnapshotSortedBySpawnTime(t *testing.T) {
	s, current := newTestState()
	s.Apply(spawnEvent(t, "first", "sisyphus", ""))
	*current = current.Add(time.Second)
	s.Apply(spawnEvent(t, "second", "metis", "first"))

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snap))
	}
	if snap[0].ID != "first" || snap[1].ID != "second" {
		t.Fatalf("order = [%s %s], want [first second]", snap[0].ID, snap[1].ID)
	}
}

func TestFeedCapped(t *testing.T) {
	s, _ := newTestState()
	for i := 0; i < maxFeedEntries+50; i++ {
		s.Apply(mustEvent(t, protocol.EventSystem, protocol.SystemData{Message: "notice"}))
	}
	if got := len(s.Feed()); got != maxFeedEntries {
		t.Fatalf("feed length = %d, want %d", got, maxFeedEntries)
	}
}
