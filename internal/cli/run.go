package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/muesli/termenv"
)

// maxPollInterval bounds how long the run loop sleeps between ticks.
const maxPollInterval = 50 * time.Millisecond

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Machine       string // path to a machine file or a stored machine name
	TapePath      string // optional; blank tape when empty
	DefaultSymbol string
	StepDelay     time.Duration
	MaxSteps      int
	Fast          bool // skip step delays entirely
	Quiet         bool // only print the final tape
	GraphPath     string // optional; Mermaid graph of the run is written here
	Out           io.Writer
	Logger        *slog.Logger
	Hooks         domain.LifecycleHooks
}

// Run loads a machine and a tape and drives the controller until it halts.
// Without Fast the controller is polled on a ticker so that the step delay
// is honoured, printing the tape strip after every step.
func Run(ctx context.Context, store ports.MachineStore, opts RunOptions) (runtime.RunResult, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.DefaultSymbol == "" {
		opts.DefaultSymbol = domain.DefaultSymbol
	}

	m, err := ResolveMachine(ctx, store, opts.Machine)
	if err != nil {
		return runtime.RunResult{}, err
	}

	trail := &graph.Trail{}
	hooks := observability.LoggingHooks(opts.Logger).Merge(opts.Hooks)
	if opts.GraphPath != "" {
		hooks = hooks.Merge(trail.Hooks())
	}
	session := turing.New(
		turing.WithDefaultSymbol(opts.DefaultSymbol),
		turing.WithStepDelay(opts.StepDelay),
		turing.WithLogger(opts.Logger),
		turing.WithLifecycleHooks(hooks),
	)
	if err := session.SetMachine(m); err != nil {
		return runtime.RunResult{}, err
	}
	if opts.TapePath != "" {
		f, err := os.Open(opts.TapePath)
		if err != nil {
			return runtime.RunResult{}, fmt.Errorf("failed to open tape: %w", err)
		}
		defer f.Close()
		if err := session.LoadTape(f); err != nil {
			return runtime.RunResult{}, err
		}
	}

	profile := termenv.Ascii
	if IsTerminal(opts.Out) {
		profile = termenv.ColorProfile()
	}
	view := tui.NewTapeView(profile)

	var res runtime.RunResult
	if opts.Fast {
		res, err = session.RunToHalt(ctx, opts.MaxSteps)
	} else {
		res, err = poll(ctx, session, opts, view)
	}

	fmt.Fprintln(opts.Out, view.Strip(session.Tape()))
	switch {
	case err != nil:
		printSystemMessage(opts.Out, "Stopped after %d steps: %v", res.Steps, err)
	case res.Halted:
		printSystemMessage(opts.Out, "Halted in state %d after %d steps.", res.State, res.Steps)
	}

	if opts.GraphPath != "" {
		if werr := writeRunGraph(opts.GraphPath, m, trail); werr != nil {
			return res, errors.Join(err, werr)
		}
		printSystemMessage(opts.Out, "Run graph written to %s.", opts.GraphPath)
	}
	return res, err
}

func writeRunGraph(path string, m *machine.Machine, trail *graph.Trail) error {
	if err := os.WriteFile(path, []byte(graph.GenerateMermaid(m, trail.Overlay())), 0644); err != nil {
		return fmt.Errorf("failed to write run graph: %w", err)
	}
	return nil
}

func poll(ctx context.Context, session *turing.Session, opts RunOptions, view *tui.TapeView) (runtime.RunResult, error) {
	c := session.Controller()
	if !session.Play(ctx) {
		return runtime.RunResult{}, runtime.ErrEmptyMachine
	}

	ticker := time.NewTicker(pollInterval(opts.StepDelay))
	defer ticker.Stop()

	for {
		switch session.Tick(ctx) {
		case domain.TickStepped:
			if !opts.Quiet {
				fmt.Fprintf(opts.Out, "%s  %s\n", view.Strip(session.Tape()), view.Status(c.Mode(), c.CurrentState(), c.Steps()))
			}
			if opts.MaxSteps > 0 && c.Steps() >= opts.MaxSteps {
				session.Pause(ctx)
				return c.Result(), fmt.Errorf("%w (%d steps)", runtime.ErrStepLimit, opts.MaxSteps)
			}
		case domain.TickHalted:
			return c.Result(), nil
		}

		select {
		case <-ctx.Done():
			session.Pause(ctx)
			return c.Result(), ctx.Err()
		case <-ticker.C:
		}
	}
}

func pollInterval(delay time.Duration) time.Duration {
	return min(max(delay/4, time.Millisecond), maxPollInterval)
}

// ResolveMachine loads ref as a machine file when one exists at that path,
// and from store otherwise.
func ResolveMachine(ctx context.Context, store ports.MachineStore, ref string) (*machine.Machine, error) {
	f, err := os.Open(ref)
	if err == nil {
		defer f.Close()
		m, err := codec.Read(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ref, err)
		}
		return m, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrMachineNotFound, ref)
	}
	m, err := store.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("machine %q: %w", ref, err)
	}
	return m, nil
}
