// Package emitter constructs well-formed lifecycle events and hands them to
// the broadcaster.
//
// Each operation builds the event record, updates the registry, and
// publishes, in that order and synchronously: when a call returns, the
// event has been queued for delivery to every connected viewer. Delivery
// itself is best-effort per viewer (a viewer may disconnect mid-flight and
// no acknowledgment is collected).
package emitter

import (
	"time"

	"swarmview/internal/broadcast"
	"swarmview/internal/debug"
	"swarmview/internal/ident"
	"swarmview/internal/registry"
	"swarmview/pkg/protocol"
)

// Emitter is the single event source for the process.
type Emitter struct {
	reg   *registry.Registry
	b     *broadcast.Broadcaster
	now   func() time.Time
	newID func() string
}

// New wires an emitter to its registry and broadcaster.
func New(reg *registry.Registry, b *broadcast.Broadcaster) *Emitter {
	return &Emitter{
		reg:   reg,
		b:     b,
		now:   time.Now,
		newID: ident.New,
	}
}

// Spawn emits an agent_spawn event and registers the new agent.
// Returns the assigned id; ids are unique for the process lifetime and
// never reused. parentID may be empty for root agents.
func (e *Emitter) Spawn(agentType, description, parentID string) string {
	id := e.newID()
	e.reg.Register(id, agentType)
	e.publish(protocol.EventAgentSpawn, protocol.SpawnData{
		ID:          id,
		AgentType:   agentType,
		Description: description,
		ParentID:    parentID,
	})
	return id
}

// Action emits an agent_action event. The agent does not need to be
// registered: stale ids are the consumer's problem to ignore, not ours to
// police.
func (e *Emitter) Action(agentID, action string, details map[string]any) {
	e.publish(protocol.EventAgentAction, protocol.ActionData{
		AgentID: agentID,
		Action:  action,
		Details: details,
	})
}

// Complete emits an agent_complete event carrying the agent's active
// duration and removes it from the registry. Completing an unknown id
// yields a zero duration rather than an error.
func (e *Emitter) Complete(agentID string, result map[string]any) {
	duration := e.reg.Unregister(agentID)
	e.publish(protocol.EventAgentComplete, protocol.CompleteData{
		AgentID:  agentID,
		Result:   result,
		Duration: duration.Milliseconds(),
	})
}

// ToolUse emits a tool_start event for an agent.
func (e *Emitter) ToolUse(agentID, tool string, params map[string]any) {
	e.publish(protocol.EventToolStart, protocol.ToolData{
		AgentID: agentID,
		Tool:    tool,
		Params:  params,
	})
}

// System emits a system notice.
func (e *Emitter) System(message string) {
	e.publish(protocol.EventSystem, protocol.SystemData{
		Message:      message,
		ActiveAgents: e.reg.Count(),
	})
}

// ActiveAgents returns the number of currently registered agents.
func (e *Emitter) ActiveAgents() int {
	return e.reg.Count()
}

func (e *Emitter) publish(eventType string, payload any) {
	ev, err := protocol.NewEvent(eventType, e.now(), payload)
	if err != nil {
		debug.LogKV("emitter", "failed to encode event", "type", eventType, "error", err)
		return
	}
	e.b.Publish(ev)
}

// SetClock overrides the time source. Test use only.
func (e *Emitter) SetClock(now func() time.Time) { e.now = now }

// SetIDFunc overrides id generation. Test use only.
func (e *Emitter) SetIDFunc(newID func() string) { e.newID = newID }
