// Package scenario drives the event emitter through scripted collaboration
// narratives.
//
// A Driver is a cooperative task: it runs one scenario at a time and
// suspends between emissions via context-aware pauses, so cancelling the
// context is the only stop mechanism needed. Scenarios are sequential
// calls from one goroutine even when they depict "parallel" sub-agents;
// there is never more than one writer to the registry or broadcaster.
package scenario

import (
	"context"
	"math/rand"
	"time"

	"swarmview/internal/debug"
	"swarmview/internal/emitter"
)

// Driver cycles through collaboration scenarios until its context is
// cancelled.
type Driver struct {
	em *emitter.Emitter

	// Pace scales every pause; 1.0 is real-time, 0 makes scenarios run
	// without delay (used by tests).
	Pace float64

	rng       *rand.Rand
	scenarios []func(ctx context.Context)
}

// NewDriver returns a driver bound to the emitter.
func NewDriver(em *emitter.Emitter) *Driver {
	d := &Driver{
		em:   em,
		Pace: 1.0,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	d.scenarios = []func(ctx context.Context){
		d.featureImplementation,
		d.bugFix,
		d.refactoring,
		d.architectureDecision,
	}
	return d
}

// Run cycles random scenarios with randomized idle gaps in between.
// It returns when ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	debug.Log("scenario", "driver started")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		scenario := d.scenarios[d.rng.Intn(len(d.scenarios))]
		scenario(ctx)
		// Idle between narratives: 5-15s at full pace.
		d.pause(ctx, time.Duration(5000+d.rng.Intn(10000))*time.Millisecond)
	}
}

// pause sleeps for the scaled duration or until ctx is done.
func (d *Driver) pause(ctx context.Context, dur time.Duration) {
	scaled := time.Duration(float64(dur) * d.Pace)
	if scaled <= 0 {
		return
	}
	t := time.NewTimer(scaled)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (d *Driver) featureImplementation(ctx context.Context) {
	debug.Log("scenario", "feature implementation")

	orchestrator := d.em.Spawn("sisyphus", "Implement user authentication", "")
	d.pause(ctx, time.Second)

	d.em.Action(orchestrator, "CONSULT_STRATEGY", map[string]any{"topic": "auth implementation"})
	consultant := d.em.Spawn("metis", "Analyze auth requirements", orchestrator)
	d.pause(ctx, 1500*time.Millisecond)

	d.em.Action(consultant, "SEARCH_CODEBASE", map[string]any{"query": "auth patterns"})
	explorer := d.em.Spawn("explore", "Find auth implementations", consultant)
	d.pause(ctx, 2*time.Second)
	d.em.Complete(explorer, map[string]any{"files": []string{"src/auth.ts", "src/middleware.ts"}})

	d.em.Action(consultant, "SEARCH_DOCUMENTATION", map[string]any{"topic": "JWT best practices"})
	librarian := d.em.Spawn("librarian", "Research JWT security", consultant)
	d.pause(ctx, 2500*time.Millisecond)
	d.em.Complete(librarian, map[string]any{"findings": "OWASP guidelines"})

	d.pause(ctx, time.Second)
	d.em.Complete(consultant, map[string]any{"recommendation": "Use httpOnly cookies"})

	d.em.Action(orchestrator, "CREATE_PLAN", map[string]any{"scope": "auth feature"})
	planner := d.em.Spawn("prometheus", "Create auth implementation plan", orchestrator)
	d.pause(ctx, 3*time.Second)
	d.em.Complete(planner, map[string]any{"plan": "4-step implementation"})

	d.em.Action(orchestrator, "WRITE_CODE", map[string]any{"file": "src/auth.ts"})
	d.pause(ctx, 2*time.Second)
	d.em.Action(orchestrator, "EDIT_FILE", map[string]any{"file": "src/middleware.ts"})
	d.pause(ctx, 1500*time.Millisecond)
	d.em.Action(orchestrator, "RUN_TESTS", map[string]any{"suite": "auth"})
	d.pause(ctx, 2*time.Second)

	d.em.Complete(orchestrator, map[string]any{"status": "completed", "tests": "passed"})
}

func (d *Driver) bugFix(ctx context.Context) {
	debug.Log("scenario", "bug fix")

	orchestrator := d.em.Spawn("sisyphus", "Fix race condition in data sync", "")
	d.pause(ctx, 800*time.Millisecond)

	d.em.Action(orchestrator, "ANALYZE_ARCHITECTURE", map[string]any{"issue": "race condition"})
	advisor := d.em.Spawn("oracle", "Debug race condition", orchestrator)
	d.pause(ctx, 3*time.Second)

	explorer := d.em.Spawn("explore", "Find async patterns", advisor)
	d.pause(ctx, 2*time.Second)
	d.em.Complete(explorer, map[string]any{"patterns": []string{"errgroup", "sync.WaitGroup"}})

	d.em.Complete(advisor, map[string]any{"diagnosis": "Missing wait in cleanup"})

	d.em.Action(orchestrator, "EDIT_FILE", map[string]any{"file": "src/sync.ts", "change": "Add wait"})
	d.pause(ctx, 1500*time.Millisecond)
	d.em.Action(orchestrator, "RUN_TESTS", map[string]any{"suite": "sync"})
	d.pause(ctx, 2*time.Second)

	d.em.Complete(orchestrator, map[string]any{"status": "fixed", "tests": "passed"})
}

func (d *Driver) refactoring(ctx context.Context) {
	debug.Log("scenario", "refactoring")

	orchestrator := d.em.Spawn("sisyphus", "Refactor API endpoints", "")
	d.pause(ctx, time.Second)

	d.em.Action(orchestrator, "SEARCH_CODEBASE", map[string]any{"query": "API handlers"})
	explore1 := d.em.Spawn("explore", "Find REST patterns", orchestrator)
	explore2 := d.em.Spawn("explore", "Find error handling", orchestrator)

	d.pause(ctx, 2*time.Second)
	d.em.Complete(explore1, map[string]any{"patterns": []string{"Controller pattern"}})
	d.em.Complete(explore2, map[string]any{"patterns": []string{"Global error middleware"}})

	d.em.Action(orchestrator, "REFACTOR", map[string]any{"scope": "API layer"})
	d.pause(ctx, 2500*time.Millisecond)
	d.em.Action(orchestrator, "BUILD_PROJECT", nil)
	d.pause(ctx, 2*time.Second)

	d.em.Complete(orchestrator, map[string]any{"status": "refactored", "files": 12})
}

func (d *Driver) architectureDecision(ctx context.Context) {
	debug.Log("scenario", "architecture decision")

	orchestrator := d.em.Spawn("sisyphus", "Design caching strategy", "")
	d.pause(ctx, 800*time.Millisecond)

	d.em.Action(orchestrator, "CONSULT_STRATEGY", map[string]any{"topic": "caching architecture"})
	advisor := d.em.Spawn("oracle", "Design caching architecture", orchestrator)
	d.pause(ctx, 1500*time.Millisecond)

	lib1 := d.em.Spawn("librarian", "Research Redis patterns", advisor)
	lib2 := d.em.Spawn("librarian", "Research CDN caching", advisor)
	explorer := d.em.Spawn("explore", "Find existing cache usage", advisor)

	d.pause(ctx, 2500*time.Millisecond)
	d.em.Complete(lib1, map[string]any{"solution": "Redis with TTL"})
	d.em.Complete(lib2, map[string]any{"solution": "CloudFront"})
	d.em.Complete(explorer, map[string]any{"current": "In-memory only"})

	d.em.Complete(advisor, map[string]any{"decision": "Redis + CDN hybrid"})

	planner := d.em.Spawn("prometheus", "Plan caching implementation", orchestrator)
	d.pause(ctx, 2*time.Second)
	d.em.Complete(planner, map[string]any{"phases": 3})

	d.em.Complete(orchestrator, map[string]any{"status": "designed", "next": "implementation"})
}
