// Package agentmeta holds the static display catalog for agent and action
// types. Lookups are total: unrecognized keys return a generic fallback,
// never a failure, so new server-side types degrade gracefully on old
// viewers.
package agentmeta

import (
	"sort"
	"strings"
)

// Cost tiers, purely informational.
const (
	CostFree      = "FREE"
	CostCheap     = "CHEAP"
	CostExpensive = "EXPENSIVE"
)

// Categories group agent types for presentation.
const (
	CategoryOrchestrator = "orchestrator"
	CategoryPlanning     = "planning"
	CategorySpecialist   = "specialist"
)

// Info describes built-in display metadata for an agent type.
type Info struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"` // hex, e.g. "#3b82f6"
	Icon        string `json:"icon"`
	Cost        string `json:"cost"`
	Category    string `json:"category"`
	// Ring is a layout hint for renderers: 0 = center (orchestrators),
	// 1 = planning ring, 2 = specialist ring.
	Ring int `json:"ring"`
}

var builtin = map[string]Info{
	"sisyphus": {
		Type:        "sisyphus",
		Name:        "Sisyphus",
		Title:       "Primary Orchestrator",
		Description: "Main coordinator for user requests",
		Color:       "#3b82f6",
		Icon:        "🎯",
		Cost:        CostExpensive,
		Category:    CategoryOrchestrator,
		Ring:        0,
	},
	"atlas": {
		Type:        "atlas",
		Name:        "Atlas",
		Title:       "Master Orchestrator",
		Description: "High-level workflow coordination",
		Color:       "#8b5cf6",
		Icon:        "🗺️",
		Cost:        CostExpensive,
		Category:    CategoryOrchestrator,
		Ring:        0,
	},
	"prometheus": {
		Type:        "prometheus",
		Name:        "Prometheus",
		Title:       "Plan Builder",
		Description: "Creates detailed work plans",
		Color:       "#f59e0b",
		Icon:        "📋",
		Cost:        CostExpensive,
		Category:    CategoryPlanning,
		Ring:        1,
	},
	"metis": {
		Type:        "metis",
		Name:        "Metis",
		Title:       "Plan Consultant",
		Description: "Pre-planning analysis and risk detection",
		Color:       "#10b981",
		Icon:        "🔍",
		Cost:        CostExpensive,
		Category:    CategoryPlanning,
		Ring:        1,
	},
	"momus": {
		Type:        "momus",
		Name:        "Momus",
		Title:       "Plan Critic",
		Description: "Reviews plans for completeness",
		Color:       "#ef4444",
		Icon:        "✓",
		Cost:        CostExpensive,
		Category:    CategoryPlanning,
		Ring:        1,
	},
	"oracle": {
		Type:        "oracle",
		Name:        "Oracle",
		Title:       "Strategic Advisor",
		Description: "Architecture and complex debugging",
		Color:       "#6366f1",
		Icon:        "🔮",
		Cost:        CostExpensive,
		Category:    CategorySpecialist,
		Ring:        2,
	},
	"librarian": {
		Type:        "librarian",
		Name:        "Librarian",
		Title:       "Documentation Research",
		Description: "External docs and API research",
		Color:       "#14b8a6",
		Icon:        "📚",
		Cost:        CostCheap,
		Category:    CategorySpecialist,
		Ring:        2,
	},
	"explore": {
		Type:        "explore",
		Name:        "Explore",
		Title:       "Contextual Search",
		Description: "Codebase patterns and structure",
		Color:       "#22d3ee",
		Icon:        "🔎",
		Cost:        CostFree,
		Category:    CategorySpecialist,
		Ring:        2,
	},
	"hephaestus": {
		Type:        "hephaestus",
		Name:        "Hephaestus",
		Title:       "Deep Worker",
		Description: "Autonomous deep execution",
		Color:       "#f97316",
		Icon:        "⚒️",
		Cost:        CostExpensive,
		Category:    CategorySpecialist,
		Ring:        2,
	},
	"sisyphus-junior": {
		Type:        "sisyphus-junior",
		Name:        "Sisyphus Junior",
		Title:       "Task Executor",
		Description: "Scoped implementation work",
		Color:       "#60a5fa",
		Icon:        "🎯",
		Cost:        CostCheap,
		Category:    CategorySpecialist,
		Ring:        2,
	},
}

// InfoFor returns display metadata for an agent type. Unknown types get a
// generic entry carrying the raw type name.
func InfoFor(agentType string) Info {
	key := strings.ToLower(strings.TrimSpace(agentType))
	if info, ok := builtin[key]; ok {
		return info
	}
	return Info{
		Type:     agentType,
		Name:     agentType,
		Title:    "Agent",
		Color:    "#888888",
		Icon:     "🤖",
		Cost:     CostCheap,
		Category: CategorySpecialist,
		Ring:     2,
	}
}

// Known reports whether the agent type has a built-in catalog entry.
func Known(agentType string) bool {
	_, ok := builtin[strings.ToLower(strings.TrimSpace(agentType))]
	return ok
}

// Types returns the known agent types in stable order.
func Types() []string {
	types := make([]string, 0, len(builtin))
	for t := range builtin {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ActionInfo describes display metadata for an action type.
type ActionInfo struct {
	Icon     string `json:"icon"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

var actions = map[string]ActionInfo{
	"SEARCH_CODEBASE":      {Icon: "🔎", Label: "Searching codebase", Category: "research"},
	"SEARCH_DOCUMENTATION": {Icon: "📚", Label: "Reading documentation", Category: "research"},
	"ANALYZE_ARCHITECTURE": {Icon: "🏗️", Label: "Analyzing architecture", Category: "research"},
	"CREATE_PLAN":          {Icon: "📝", Label: "Creating plan", Category: "planning"},
	"REVIEW_PLAN":          {Icon: "👁️", Label: "Reviewing plan", Category: "planning"},
	"CONSULT_STRATEGY":     {Icon: "🎯", Label: "Consulting strategy", Category: "planning"},
	"WRITE_CODE":           {Icon: "✏️", Label: "Writing code", Category: "implementation"},
	"EDIT_FILE":            {Icon: "📄", Label: "Editing file", Category: "implementation"},
	"REFACTOR":             {Icon: "🔄", Label: "Refactoring", Category: "implementation"},
	"RUN_TESTS":            {Icon: "🧪", Label: "Running tests", Category: "execution"},
	"BUILD_PROJECT":        {Icon: "🔨", Label: "Building project", Category: "execution"},
	"DEPLOY":               {Icon: "🚀", Label: "Deploying", Category: "execution"},
	"DELEGATE_TASK":        {Icon: "↗️", Label: "Delegating task", Category: "delegation"},
	"SPAWN_AGENT":          {Icon: "👤", Label: "Spawning agent", Category: "delegation"},
	"SEND_MESSAGE":         {Icon: "💬", Label: "Sending message", Category: "communication"},
}

// ActionFor returns display metadata for an action type, falling back to a
// generic entry labeled with the raw action name.
func ActionFor(action string) ActionInfo {
	if info, ok := actions[strings.ToUpper(strings.TrimSpace(action))]; ok {
		return info
	}
	return ActionInfo{Icon: "⚙️", Label: action, Category: "other"}
}
