package graph

import (
	"context"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

// Trail records the states a run passes through so that they can be
// drawn as an overlay. It is not safe for concurrent use.
type Trail struct {
	visited []int
	current int
	running bool
}

// Hooks returns lifecycle hooks that feed the trail. A new run clears it.
func (t *Trail) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeChange: func(_ context.Context, e *domain.ModeEvent) {
			switch {
			case e.From == domain.ModeStopped && e.To == domain.ModePlaying:
				t.visited = append(t.visited[:0], runtime.StartStateID)
				t.current = runtime.StartStateID
				t.running = true
			case e.To == domain.ModeStopped:
				t.running = false
			}
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			t.visited = append(t.visited, e.Transition.To)
			t.current = e.Transition.To
		},
	}
}

// Visited returns the states entered so far, in order, repeats included.
func (t *Trail) Visited() []int {
	return append([]int(nil), t.visited...)
}

// Overlay returns the overlay for the recorded run, or nil before any run.
// The state the run ended in is marked current until the run is stopped.
func (t *Trail) Overlay() *GraphOverlay {
	if len(t.visited) == 0 {
		return nil
	}
	return &GraphOverlay{
		VisitedStates: t.Visited(),
		CurrentState:  t.current,
		Running:       t.running,
	}
}
