// Package protocol defines the wire contract between the swarmview server
// and its viewers.
//
// Every message on the viewer socket is a JSON envelope with a type, a
// server-side emission timestamp in milliseconds, and a type-dependent data
// payload. Events are immutable once emitted; the server delivers them to
// each viewer in emission order. Unknown types must be ignored by receivers,
// never treated as fatal.
package protocol

import (
	"encoding/json"
	"time"
)

// Server -> viewer event types.
const (
	// Agent lifecycle.
	EventAgentSpawn    = "agent_spawn"
	EventAgentStart    = "agent_start"
	EventAgentComplete = "agent_complete"
	EventAgentError    = "agent_error"

	// Agent actions.
	EventAgentAction   = "agent_action"
	EventAgentThinking = "agent_thinking"
	EventAgentDelegate = "agent_delegate"

	// Tool usage.
	EventToolStart    = "tool_start"
	EventToolComplete = "tool_complete"
	EventToolError    = "tool_error"

	// Session scope.
	EventSessionStart = "session_start"
	EventSessionEnd   = "session_end"

	// Background tasks.
	EventBackgroundStart    = "background_start"
	EventBackgroundComplete = "background_complete"

	// Communication.
	EventMessage = "message"
	EventSystem  = "system"

	// Detail request/response exchange. Not part of the ordered event
	// stream's consistency guarantees; a point query answered out of band.
	EventGetAgentDetails = "get_agent_details"
	EventAgentDetails    = "agent_details"
)

// Event is the envelope for every message exchanged over the viewer socket.
type Event struct {
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"` // milliseconds since epoch
	Data      json.RawMessage `json:"data,omitempty"`
}

// SpawnData announces a new agent. ParentID is empty for root agents and
// advisory otherwise: nothing requires the parent to still be resident.
type SpawnData struct {
	ID          string `json:"id"`
	AgentType   string `json:"agentType"`
	Description string `json:"description"`
	ParentID    string `json:"parentId,omitempty"`
}

// ActionData reports what an agent is currently doing.
type ActionData struct {
	AgentID string         `json:"agentId"`
	Action  string         `json:"action"`
	Details map[string]any `json:"details,omitempty"`
}

// CompleteData marks an agent as finished. Duration is measured server-side
// from the spawn emission, in milliseconds.
type CompleteData struct {
	AgentID  string         `json:"agentId"`
	Result   map[string]any `json:"result,omitempty"`
	Duration int64          `json:"duration"`
}

// ToolData reports a tool invocation by an agent.
type ToolData struct {
	AgentID string         `json:"agentId"`
	Tool    string         `json:"tool"`
	Params  map[string]any `json:"params,omitempty"`
}

// SystemData carries server notices, including the synthetic connected
// message sent to every new viewer.
type SystemData struct {
	Message      string `json:"message"`
	ActiveAgents int    `json:"activeAgents,omitempty"`
}

// DetailsRequest is the only viewer -> server message.
type DetailsRequest struct {
	AgentID string `json:"agentId"`
}

// LogEntry is one line of an agent's narrative session log.
type LogEntry struct {
	Time    int64  `json:"time"` // milliseconds since epoch
	Type    string `json:"type"`
	Content string `json:"content"`
}

// AgentDetails is the out-of-band detail payload for a single agent.
type AgentDetails struct {
	ID               string     `json:"id"`
	SessionLog       []LogEntry `json:"sessionLog"`
	FilesTouched     []string   `json:"filesTouched"`
	TokensUsed       int        `json:"tokensUsed"`
	SubagentsSpawned int        `json:"subagentsSpawned"`
	ToolsUsed        []string   `json:"toolsUsed"`
}

// NewEvent builds an envelope from a type, an emission time, and a payload.
func NewEvent(eventType string, at time.Time, payload any) (Event, error) {
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
	}
	return Event{Type: eventType, Timestamp: at.UnixMilli(), Data: data}, nil
}

// Encode serializes an event for the wire.
func Encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// Decode parses a wire message into an envelope.
func Decode(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// DecodeData unmarshals an event's payload into the target struct.
func DecodeData[T any](ev Event) (*T, error) {
	var v T
	if err := json.Unmarshal(ev.Data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
