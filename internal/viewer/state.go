// Package viewer holds the client side of the dashboard: the per-connection
// session state rebuilt from the event stream, and the connection manager
// that feeds it.
package viewer

import (
	"sort"
	"sync"
	"time"

	"swarmview/internal/agentmeta"
	"swarmview/internal/debug"
	"swarmview/pkg/protocol"
)

// Agent lifecycle status. Monotonic per agent: active -> working ->
// completed, with working re-entered on every new action; completed is
// terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusWorking   Status = "working"
	StatusCompleted Status = "completed"
)

// DefaultGracePeriod is how long a completed agent stays resident so its
// completion is visible before it disappears.
const DefaultGracePeriod = 5 * time.Second

const maxFeedEntries = 100

// Action is the most recent thing an agent did. Present only while the
// agent is not completed.
type Action struct {
	Type    string
	Details map[string]any
	At      time.Time
}

// Agent is the view-state for one simulated agent.
type Agent struct {
	ID          string
	Type        string
	Description string
	ParentID    string
	Status      Status
	Current     *Action
	SpawnedAt   time.Time
	CompletedAt time.Time // zero until completed
	Duration    time.Duration
	Info        agentmeta.Info
}

// FeedEntry is one line of the textual activity feed.
type FeedEntry struct {
	At   time.Time
	Kind string
	Text string
}

// SessionState is the authoritative client-side view of the live stream.
// One instance per connection; Apply is the only mutator and must be called
// from a single goroutine (the connection's apply loop). Snapshot may be
// called concurrently from the render loop.
type SessionState struct {
	mu     sync.Mutex
	agents map[string]*Agent
	feed   []FeedEntry
	grace  time.Duration
	now    func() time.Time
}

// NewSessionState returns an empty session state with the default grace
// period.
func NewSessionState() *SessionState {
	return &SessionState{
		agents: make(map[string]*Agent),
		grace:  DefaultGracePeriod,
		now:    time.Now,
	}
}

// Reset discards all resident agents and the feed. Called on every
// (re)connect: a reconnecting viewer starts over rather than reconciling
// stale state with the new stream.
func (s *SessionState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents = make(map[string]*Agent)
	s.feed = nil
}

// Apply folds one event into the state. Unknown agent references and
// unrecognized event types are benign no-ops; nothing here can fail.
func (s *SessionState) Apply(ev protocol.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case protocol.EventAgentSpawn:
		data, err := protocol.DecodeData[protocol.SpawnData](ev)
		if err != nil {
			debug.LogKV("viewer", "bad spawn payload", "error", err)
			return
		}
		if _, exists := s.agents[data.ID]; exists {
			// Duplicate spawn for a known id: drop, never re-create.
			debug.LogKV("viewer", "duplicate spawn ignored", "id", data.ID)
			return
		}
		info := agentmeta.InfoFor(data.AgentType)
		s.agents[data.ID] = &Agent{
			ID:          data.ID,
			Type:        data.AgentType,
			Description: data.Description,
			ParentID:    data.ParentID,
			Status:      StatusActive,
			SpawnedAt:   s.now(),
			Info:        info,
		}
		s.addFeed("spawn", info.Icon+" "+info.Name+" spawned: "+data.Description)

	case protocol.EventAgentAction:
		data, err := protocol.DecodeData[protocol.ActionData](ev)
		if err != nil {
			debug.LogKV("viewer", "bad action payload", "error", err)
			return
		}
		agent, ok := s.agents[data.AgentID]
		if !ok || agent.Status == StatusCompleted {
			return
		}
		agent.Status = StatusWorking
		agent.Current = &Action{Type: data.Action, Details: data.Details, At: s.now()}
		s.addFeed("action", agent.Info.Name+": "+agentmeta.ActionFor(data.Action).Label)

	case protocol.EventAgentComplete:
		data, err := protocol.DecodeData[protocol.CompleteData](ev)
		if err != nil {
			debug.LogKV("viewer", "bad complete payload", "error", err)
			return
		}
		agent, ok := s.agents[data.AgentID]
		if !ok || agent.Status == StatusCompleted {
			return
		}
		agent.Status = StatusCompleted
		agent.Current = nil
		agent.CompletedAt = s.now()
		agent.Duration = time.Duration(data.Duration) * time.Millisecond
		s.addFeed("complete", agent.Info.Name+" completed")

	case protocol.EventSystem:
		data, err := protocol.DecodeData[protocol.SystemData](ev)
		if err != nil {
			debug.LogKV("viewer", "bad system payload", "error", err)
			return
		}
		s.addFeed("system", data.Message)

	case protocol.EventToolStart:
		data, err := protocol.DecodeData[protocol.ToolData](ev)
		if err != nil {
			return
		}
		if agent, ok := s.agents[data.AgentID]; ok && agent.Status != StatusCompleted {
			s.addFeed("tool", agent.Info.Name+" using "+data.Tool)
		}

	default:
		// Forward compatible: new server-side types are invisible, not fatal.
		debug.LogKV("viewer", "ignoring unknown event type", "type", ev.Type)
	}
}

// Snapshot returns resident agents sorted by spawn time. Completed agents
// past the grace period are pruned here, at read time, which keeps Apply
// the only writer during stream processing.
func (s *SessionState) Snapshot() []Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	out := make([]Agent, 0, len(s.agents))
	for _, a := range s.agents {
		cp := *a
		if a.Current != nil {
			action := *a.Current
			cp.Current = &action
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SpawnedAt.Equal(out[j].SpawnedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SpawnedAt.Before(out[j].SpawnedAt)
	})
	return out
}

// Feed returns the most recent activity lines, oldest first.
func (s *SessionState) Feed() []FeedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FeedEntry(nil), s.feed...)
}

// ActiveCount returns the number of resident agents that have not
// completed.
func (s *SessionState) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	n := 0
	for _, a := range s.agents {
		if a.Status != StatusCompleted {
			n++
		}
	}
	return n
}

// ResidentCount returns the number of agents still in the live view,
// including completed ones inside their grace period.
func (s *SessionState) ResidentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.agents)
}

// Lookup returns a copy of one resident agent.
func (s *SessionState) Lookup(id string) (Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	a, ok := s.agents[id]
	if !ok {
		return Agent{}, false
	}
	return *a, true
}

// SetGracePeriod overrides the completed-agent retention window.
func (s *SessionState) SetGracePeriod(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grace = d
}

// SetClock overrides the time source. Test use only.
func (s *SessionState) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *SessionState) pruneLocked() {
	cutoff := s.now()
	for id, a := range s.agents {
		if a.Status == StatusCompleted && cutoff.Sub(a.CompletedAt) >= s.grace {
			delete(s.agents, id)
		}
	}
}

func (s *SessionState) addFeed(kind, text string) {
	s.feed = append(s.feed, FeedEntry{At: s.now(), Kind: kind, Text: text})
	if len(s.feed) > maxFeedEntries {
		s.feed = s.feed[len(s.feed)-maxFeedEntries:]
	}
}
