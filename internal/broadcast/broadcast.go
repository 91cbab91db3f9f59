// Package broadcast fans emitted events out to connected viewers.
//
// The viewer set is mutated by connect/disconnect callbacks concurrently
// with publishes from the scenario driver, so the set is mutex-guarded and
// Publish iterates over a snapshot taken under the lock. Delivery to a
// viewer is a non-blocking send into its buffered channel: one slow or
// broken consumer never stalls emission or the other viewers. Events are
// not persisted or replayed; a viewer only sees events published after it
// was added.
package broadcast

import (
	"sync"

	"swarmview/internal/debug"
	"swarmview/pkg/protocol"
)

// DefaultBufferSize is the per-viewer event buffer.
const DefaultBufferSize = 256

// Viewer is one connected consumer. Events arrive in emission order.
// The channel is closed when the viewer is removed; after that the owner
// must stop using it.
type Viewer struct {
	events chan protocol.Event

	closeOnce sync.Once
	name      string
}

// Events returns the viewer's ordered event stream.
func (v *Viewer) Events() <-chan protocol.Event {
	return v.events
}

// offer performs a non-blocking send. It returns false when the buffer is
// full or the viewer was removed concurrently (the channel is closed, which
// a plain send would panic on).
func (v *Viewer) offer(ev protocol.Event) (sent bool) {
	defer func() {
		if recover() != nil {
			sent = false
		}
	}()
	select {
	case v.events <- ev:
		return true
	default:
		return false
	}
}

func (v *Viewer) close() {
	v.closeOnce.Do(func() { close(v.events) })
}

// Broadcaster owns the viewer set. Construct with New.
type Broadcaster struct {
	mu      sync.Mutex
	viewers map[*Viewer]struct{}
}

// New returns a broadcaster with no viewers.
func New() *Broadcaster {
	return &Broadcaster{viewers: make(map[*Viewer]struct{})}
}

// AddViewer registers a new viewer and returns it. The viewer receives
// every event published after this call; events published before it are
// gone (no history replay).
func (b *Broadcaster) AddViewer(name string) *Viewer {
	v := &Viewer{
		events: make(chan protocol.Event, DefaultBufferSize),
		name:   name,
	}
	b.mu.Lock()
	b.viewers[v] = struct{}{}
	count := len(b.viewers)
	b.mu.Unlock()

	debug.LogKV("broadcast", "viewer added", "viewer", name, "viewers", count)
	return v
}

// RemoveViewer drops a viewer and closes its event channel. Safe to call
// more than once.
func (b *Broadcaster) RemoveViewer(v *Viewer) {
	b.mu.Lock()
	_, present := b.viewers[v]
	delete(b.viewers, v)
	count := len(b.viewers)
	b.mu.Unlock()

	if present {
		v.close()
		debug.LogKV("broadcast", "viewer removed", "viewer", v.name, "viewers", count)
	}
}

// Publish delivers the event to every viewer present at the moment of the
// call. A viewer whose buffer is full is dropped: it has stopped draining
// its socket and at-least-once-from-subscription delivery is no longer
// possible for it.
func (b *Broadcaster) Publish(ev protocol.Event) {
	b.mu.Lock()
	targets := make([]*Viewer, 0, len(b.viewers))
	for v := range b.viewers {
		targets = append(targets, v)
	}
	b.mu.Unlock()

	for _, v := range targets {
		if !v.offer(ev) {
			debug.LogKV("broadcast", "dropping slow viewer", "viewer", v.name, "type", ev.Type)
			b.RemoveViewer(v)
		}
	}
}

// ViewerCount returns the current number of connected viewers.
func (b *Broadcaster) ViewerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.viewers)
}
