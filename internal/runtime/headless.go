package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

var (
	// ErrEmptyMachine is returned when a run is requested for a machine without states.
	ErrEmptyMachine = errors.New("machine has no states")
	// ErrStepLimit is returned when a run does not halt within the step budget.
	ErrStepLimit = errors.New("step limit reached before halt")
)

// RunResult summarizes a headless run.
type RunResult struct {
	RunID  string `json:"run_id"`
	Steps  int    `json:"steps"`
	State  int    `json:"state"`
	Head   int    `json:"head"`
	Halted bool   `json:"halted"`
}

// RunToHalt plays the controller and steps it without waiting for step
// deadlines until the machine halts, maxSteps transitions have been applied,
// or ctx is done. The controller is left paused so that the final tape can be
// inspected; call Stop to restore the initial tape.
func RunToHalt(ctx context.Context, c *Controller, maxSteps int) (RunResult, error) {
	if !c.Play(ctx) {
		return RunResult{}, ErrEmptyMachine
	}

	for {
		if err := ctx.Err(); err != nil {
			c.Pause(ctx)
			return c.Result(), err
		}
		if maxSteps > 0 && c.Steps() >= maxSteps {
			c.Pause(ctx)
			return c.Result(), fmt.Errorf("%w (%d steps)", ErrStepLimit, maxSteps)
		}
		if c.Step(ctx) == domain.TickHalted {
			return c.Result(), nil
		}
	}
}

// Result summarizes the current (or last) run.
func (c *Controller) Result() RunResult {
	return RunResult{
		RunID:  c.runID,
		Steps:  c.steps,
		State:  c.current,
		Head:   c.tape.Head(),
		Halted: c.halted,
	}
}
