package turing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/tape"
)

// Session is the high-level entry point for the turing library.
// It owns one machine, one tape and the controller driving them.
type Session struct {
	controller    *runtime.Controller
	defaultSymbol string
	stepDelay     time.Duration
	hooks         domain.LifecycleHooks
	clock         func() time.Time
	logger        *slog.Logger
}

// Option defines a functional option for configuring the Session.
type Option func(*Session)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStepDelay sets the minimum delay between two steps while playing.
func WithStepDelay(d time.Duration) Option {
	return func(s *Session) {
		s.stepDelay = d
	}
}

// WithDefaultSymbol sets what unwritten tape cells read as (default "-").
func WithDefaultSymbol(symbol string) Option {
	return func(s *Session) {
		s.defaultSymbol = symbol
	}
}

// WithClock replaces time.Now for the controller.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.clock = now
	}
}

// New creates a session with an empty machine and an empty tape.
func New(opts ...Option) *Session {
	s := &Session{
		defaultSymbol: domain.DefaultSymbol,
		stepDelay:     runtime.DefaultStepDelay,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	ctrlOpts := []runtime.ControllerOption{
		runtime.WithStepDelay(s.stepDelay),
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithLogger(s.logger),
	}
	if s.clock != nil {
		ctrlOpts = append(ctrlOpts, runtime.WithClock(s.clock))
	}

	s.controller = runtime.NewController(machine.New(), tape.New(s.defaultSymbol), ctrlOpts...)
	return s
}

// Machine returns the machine model. Edit it only while stopped.
func (s *Session) Machine() *machine.Machine { return s.controller.Machine() }

// Tape returns the tape.
func (s *Session) Tape() *tape.Tape { return s.controller.Tape() }

// Controller exposes the underlying execution controller.
func (s *Session) Controller() *runtime.Controller { return s.controller }

// Mode returns the current run mode.
func (s *Session) Mode() domain.RunMode { return s.controller.Mode() }

// CurrentState returns the id of the state the machine is in.
func (s *Session) CurrentState() int { return s.controller.CurrentState() }

// Play starts or resumes a run. It reports whether the session is playing.
func (s *Session) Play(ctx context.Context) bool { return s.controller.Play(ctx) }

// Pause suspends a run.
func (s *Session) Pause(ctx context.Context) bool { return s.controller.Pause(ctx) }

// Stop ends a run and restores the tape.
func (s *Session) Stop(ctx context.Context) error { return s.controller.Stop(ctx) }

// Tick advances the machine if a step is due.
func (s *Session) Tick(ctx context.Context) domain.TickResult { return s.controller.Tick(ctx) }

// RunToHalt runs without step delays until the machine halts or maxSteps is reached.
func (s *Session) RunToHalt(ctx context.Context, maxSteps int) (runtime.RunResult, error) {
	return runtime.RunToHalt(ctx, s.controller, maxSteps)
}

// SetMachine replaces the machine. It fails with domain.ErrNotStopped during a run.
func (s *Session) SetMachine(m *machine.Machine) error {
	return s.controller.SetMachine(m)
}

// SaveMachine writes the machine in the binary machine format.
func (s *Session) SaveMachine(w io.Writer) error {
	if err := codec.Write(w, s.Machine()); err != nil {
		return fmt.Errorf("failed to save machine: %w", err)
	}
	s.logger.Debug("machine saved", "states", s.Machine().StateCount())
	return nil
}

// LoadMachine replaces the machine with one read from r. The current machine
// is kept when decoding fails.
func (s *Session) LoadMachine(r io.Reader) error {
	if s.Mode() != domain.ModeStopped {
		return domain.ErrNotStopped
	}
	m, err := codec.Read(r)
	if err != nil {
		return fmt.Errorf("failed to load machine: %w", err)
	}
	s.logger.Debug("machine loaded", "states", m.StateCount())
	return s.SetMachine(m)
}

// LoadTape replaces the tape with one parsed from the tape text format.
// The current tape is kept when parsing fails.
func (s *Session) LoadTape(r io.Reader) error {
	if s.Mode() != domain.ModeStopped {
		return domain.ErrNotStopped
	}
	t, err := tape.Parse(r, s.defaultSymbol)
	if err != nil {
		return fmt.Errorf("failed to load tape: %w", err)
	}
	return s.controller.SetTape(t)
}

// SaveTape writes the tape in the tape text format.
func (s *Session) SaveTape(w io.Writer) error {
	return tape.Format(w, s.Tape())
}
