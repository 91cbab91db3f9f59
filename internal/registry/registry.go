// Package registry tracks currently active simulated agents on the server.
//
// The registry is pure bookkeeping keyed by agent id: it exists so the
// emitter can stamp completion events with a duration. Entries live only
// for the process lifetime. Mutations come from the single scenario driver,
// but viewer connect callbacks read the count concurrently, so access is
// serialized.
package registry

import (
	"sort"
	"sync"
	"time"
)

// Entry is the per-agent bookkeeping record.
type Entry struct {
	AgentType string
	StartTime time.Time
}

// Registry holds active agent entries. Construct with New; the zero value
// is not usable.
type Registry struct {
	mu     sync.Mutex
	agents map[string]Entry
	now    func() time.Time
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		agents: make(map[string]Entry),
		now:    time.Now,
	}
}

// Register records an agent as active. Re-registering an id overwrites the
// entry; the emitter guarantees ids are never reused.
func (r *Registry) Register(id, agentType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[id] = Entry{AgentType: agentType, StartTime: r.now()}
}

// Unregister removes an agent and returns how long it was active.
// Unknown ids return zero: completion must never be blocked by
// bookkeeping errors.
func (r *Registry) Unregister(id string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.agents[id]
	if !ok {
		return 0
	}
	delete(r.agents, id)
	return r.now().Sub(entry.StartTime)
}

// Lookup returns the entry for an id, if present.
func (r *Registry) Lookup(id string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.agents[id]
	return entry, ok
}

// ActiveAgent pairs an agent id with its bookkeeping entry.
type ActiveAgent struct {
	ID string
	Entry
}

// Active returns all active agents ordered by start time, then id.
func (r *Registry) Active() []ActiveAgent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ActiveAgent, 0, len(r.agents))
	for id, entry := range r.agents {
		out = append(out, ActiveAgent{ID: id, Entry: entry})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// Count returns the number of active agents.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agents)
}

// SetClock overrides the time source. Test use only.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}
