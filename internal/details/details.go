// Package details synthesizes the out-of-band detail payload for a single
// agent. The dashboard simulates agent work, so the session log is a
// plausible narrative rather than stored history; the response shape is
// what matters to viewers.
package details

import (
	"math/rand"
	"time"

	"swarmview/pkg/protocol"
)

var logTemplate = []struct {
	offset  time.Duration
	kind    string
	content string
}{
	{5000 * time.Millisecond, "system", "Agent initialized"},
	{4500 * time.Millisecond, "thought", "Analyzing request requirements..."},
	{4000 * time.Millisecond, "action", "Spawning exploration agents"},
	{3500 * time.Millisecond, "delegate", "Delegated to Explore agent #1"},
	{3000 * time.Millisecond, "result", "Received: Found 5 matching files"},
	{2500 * time.Millisecond, "thought", "Based on findings, I should..."},
	{2000 * time.Millisecond, "tool", "Reading file: src/auth.ts"},
	{1500 * time.Millisecond, "action", "Writing implementation"},
	{1000 * time.Millisecond, "verify", "Running tests..."},
	{500 * time.Millisecond, "complete", "Task completed successfully"},
}

// Synthesize builds a detail payload for the given agent id. The id is not
// validated: a request for an id the server no longer tracks still gets a
// well-formed response, per the protocol's benign-no-op rules.
func Synthesize(agentID string, now time.Time) protocol.AgentDetails {
	log := make([]protocol.LogEntry, 0, len(logTemplate))
	for _, entry := range logTemplate {
		log = append(log, protocol.LogEntry{
			Time:    now.Add(-entry.offset).UnixMilli(),
			Type:    entry.kind,
			Content: entry.content,
		})
	}
	return protocol.AgentDetails{
		ID:               agentID,
		SessionLog:       log,
		FilesTouched:     []string{"src/auth.ts", "src/middleware.ts", "tests/auth.test.ts"},
		TokensUsed:       12000 + rand.Intn(8000),
		SubagentsSpawned: rand.Intn(5),
		ToolsUsed:        []string{"read", "write", "task", "lsp_diagnostics"},
	}
}
