package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/google/uuid"
)

// DefaultStepDelay is the minimum interval between two steps while playing.
const DefaultStepDelay = time.Second

// StartStateID is the state every run begins in.
const StartStateID = 0

// Controller drives a machine against a tape under the
// Stopped -> Playing -> {Paused, Stopped} run-mode state machine.
//
// It does not spawn goroutines: the host calls Tick from its own loop and a
// step fires once the step deadline has passed.
type Controller struct {
	machine *machine.Machine
	tape    *tape.Tape

	mode     domain.RunMode
	current  int
	deadline time.Time
	halted   bool
	steps    int
	runID    string

	delay  time.Duration
	now    func() time.Time
	newID  func() string
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithStepDelay sets the minimum delay between steps.
func WithStepDelay(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// WithRunIDGenerator replaces the uuid generator used for run identifiers.
func WithRunIDGenerator(gen func() string) ControllerOption {
	return func(c *Controller) {
		c.newID = gen
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ControllerOption {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a stopped controller for m and t.
func NewController(m *machine.Machine, t *tape.Tape, opts ...ControllerOption) *Controller {
	c := &Controller{
		machine: m,
		tape:    t,
		mode:    domain.ModeStopped,
		current: StartStateID,
		delay:   DefaultStepDelay,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Machine returns the machine being driven.
func (c *Controller) Machine() *machine.Machine { return c.machine }

// Tape returns the tape being driven.
func (c *Controller) Tape() *tape.Tape { return c.tape }

// Mode returns the current run mode.
func (c *Controller) Mode() domain.RunMode { return c.mode }

// CurrentState returns the id of the state the machine is in.
func (c *Controller) CurrentState() int { return c.current }

// Deadline returns the earliest time the next step may fire.
func (c *Controller) Deadline() time.Time { return c.deadline }

// StepDelay returns the configured delay between steps.
func (c *Controller) StepDelay() time.Duration { return c.delay }

// Steps returns the number of transitions applied in the current run.
func (c *Controller) Steps() int { return c.steps }

// RunID returns the identifier of the current (or last) run.
func (c *Controller) RunID() string { return c.runID }

// Halted reports whether the controller paused itself because no transition
// matched. It is cleared by Play and Stop.
func (c *Controller) Halted() bool { return c.halted }

// SetMachine replaces the machine. Only allowed while stopped.
func (c *Controller) SetMachine(m *machine.Machine) error {
	if c.mode != domain.ModeStopped {
		return domain.ErrNotStopped
	}
	c.machine = m
	return nil
}

// SetTape replaces the tape. Only allowed while stopped.
func (c *Controller) SetTape(t *tape.Tape) error {
	if c.mode != domain.ModeStopped {
		return domain.ErrNotStopped
	}
	c.tape = t
	return nil
}

// Play starts a run from Stopped or resumes one from Paused.
// Starting is refused when the machine has no states. It reports whether
// the controller is playing afterwards.
func (c *Controller) Play(ctx context.Context) bool {
	switch c.mode {
	case domain.ModePlaying:
		return true
	case domain.ModeStopped:
		if c.machine.StateCount() == 0 {
			c.logger.Debug("play ignored: machine has no states")
			return false
		}
		c.tape.StoreInitialState()
		c.current = StartStateID
		c.steps = 0
		c.runID = c.newID()
	}
	c.halted = false
	c.deadline = c.now().Add(c.delay)
	c.setMode(ctx, domain.ModePlaying)
	return true
}

// Pause suspends a playing run. It reports whether the mode changed.
func (c *Controller) Pause(ctx context.Context) bool {
	if c.mode != domain.ModePlaying {
		return false
	}
	c.setMode(ctx, domain.ModePaused)
	return true
}

// Stop ends the run: the tape contents are restored to what they were when
// the run started, the head returns to 0 and the machine to the start state.
// Stopping a stopped controller does nothing.
func (c *Controller) Stop(ctx context.Context) error {
	if c.mode == domain.ModeStopped {
		return nil
	}
	if err := c.tape.LoadInitialState(); err != nil {
		return err
	}
	c.tape.HeadTo(0)
	c.current = StartStateID
	c.halted = false
	c.setMode(ctx, domain.ModeStopped)
	return nil
}

// Tick advances the machine by one step if it is playing and the step
// deadline has passed. Call it once per iteration of the host loop.
func (c *Controller) Tick(ctx context.Context) domain.TickResult {
	if c.mode != domain.ModePlaying {
		return domain.TickIdle
	}
	if c.now().Before(c.deadline) {
		return domain.TickIdle
	}
	return c.Step(ctx)
}

// Step applies one transition immediately, ignoring the deadline.
// It does nothing unless the controller is playing.
func (c *Controller) Step(ctx context.Context) domain.TickResult {
	if c.mode != domain.ModePlaying {
		return domain.TickIdle
	}

	symbol := c.tape.GetAtHead()
	read := symbol
	out, ok := c.machine.DetermineOutput(c.current, symbol)
	if !ok && symbol == c.tape.DefaultSymbol() {
		// An empty read symbol matches a blank cell.
		read = ""
		out, ok = c.machine.DetermineOutput(c.current, read)
	}
	if !ok {
		c.halt(ctx, symbol)
		return domain.TickHalted
	}

	from := c.current
	write := out.Write
	if write == "" {
		write = c.tape.DefaultSymbol()
	}
	c.tape.SetAtHead(write)
	c.tape.HeadForward(out.Move)
	c.current = out.Next
	c.steps++
	c.deadline = c.now().Add(c.delay)

	if c.hooks.OnStep != nil {
		c.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: c.event(domain.EventStep),
			Step:      c.steps,
			Transition: domain.Transition{
				From:  from,
				To:    out.Next,
				Read:  read,
				Write: out.Write,
				Move:  out.Move,
			},
			Head: c.tape.Head(),
		})
	}
	return domain.TickStepped
}

func (c *Controller) halt(ctx context.Context, symbol string) {
	c.halted = true
	c.logger.Info("machine halted",
		"run_id", c.runID,
		"state", c.current,
		"symbol", symbol,
		"head", c.tape.Head(),
		"steps", c.steps,
	)
	if c.hooks.OnHalt != nil {
		c.hooks.OnHalt(ctx, &domain.HaltEvent{
			EventBase: c.event(domain.EventHalt),
			Steps:     c.steps,
			State:     c.current,
			Symbol:    symbol,
			Head:      c.tape.Head(),
		})
	}
	c.setMode(ctx, domain.ModePaused)
}

func (c *Controller) setMode(ctx context.Context, to domain.RunMode) {
	from := c.mode
	c.mode = to
	c.logger.Debug("run mode changed", "run_id", c.runID, "from", from.String(), "to", to.String())
	if c.hooks.OnModeChange != nil {
		c.hooks.OnModeChange(ctx, &domain.ModeEvent{
			EventBase: c.event(domain.EventModeChange),
			From:      from,
			To:        to,
		})
	}
}

func (c *Controller) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: c.now(), Type: t, RunID: c.runID}
}
