package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Editor applies edits to machines held in a MachineStore.
type Editor struct {
	store ports.MachineStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	logger *slog.Logger
}

// Option configures the Editor.
type Option func(*Editor)

// WithLogger configures a logger for the Editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Editor over store.
func New(store ports.MachineStore, opts ...Option) *Editor {
	e := &Editor{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) acquire(name string) *lockEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.locks[name]
	if !ok {
		entry = &lockEntry{}
		e.locks[name] = entry
	}
	entry.refs++
	return entry
}

func (e *Editor) release(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.locks[name]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(e.locks, name)
	}
}

func (e *Editor) withLock(name string, fn func() error) error {
	entry := e.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		e.release(name)
	}()
	return fn()
}

// Update loads the machine, applies fn and saves the result. Nothing is
// saved when fn fails.
func (e *Editor) Update(ctx context.Context, name string, fn func(*machine.Machine) error) error {
	return e.withLock(name, func() error {
		m, err := e.store.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("machine %q: %w", name, err)
		}
		if err := fn(m); err != nil {
			return err
		}
		return e.store.Save(ctx, name, m)
	})
}

// Create stores an empty machine under name.
// It fails with domain.ErrMachineExists if the name is taken.
func (e *Editor) Create(ctx context.Context, name string) error {
	return e.withLock(name, func() error {
		_, err := e.store.Load(ctx, name)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %q", domain.ErrMachineExists, name)
		case !errors.Is(err, domain.ErrMachineNotFound):
			return fmt.Errorf("failed to check machine %q: %w", name, err)
		}
		if err := e.store.Save(ctx, name, machine.New()); err != nil {
			return err
		}
		e.logger.Info("machine created", "name", name)
		return nil
	})
}

// AddState adds a state at pos and returns it with its allocated id.
func (e *Editor) AddState(ctx context.Context, name string, pos domain.Position) (domain.State, error) {
	var s domain.State
	err := e.Update(ctx, name, func(m *machine.Machine) error {
		s = m.AddState(pos)
		return nil
	})
	if err != nil {
		return domain.State{}, err
	}
	e.logger.Debug("state added", "name", name, "state", s.ID)
	return s, nil
}

// RemoveState removes a state together with every transition touching it
// and returns the transitions that went with it.
func (e *Editor) RemoveState(ctx context.Context, name string, id int) ([]domain.Transition, error) {
	var removed []domain.Transition
	err := e.Update(ctx, name, func(m *machine.Machine) error {
		for _, t := range m.Transitions() {
			if t.From == id || t.To == id {
				removed = append(removed, t)
			}
		}
		return m.RemoveState(id)
	})
	if err != nil {
		return nil, err
	}
	e.logger.Debug("state removed", "name", name, "state", id, "transitions", len(removed))
	return removed, nil
}

// AddTransition links from to to on read. move is parsed with
// domain.ParseHeadMove. Unknown endpoints fail with domain.ErrStateNotFound
// and a second transition reading the same symbol from the same state with
// domain.ErrTransitionConflict.
func (e *Editor) AddTransition(ctx context.Context, name string, from, to int, read, write, move string) (domain.Transition, error) {
	n, err := domain.ParseHeadMove(move)
	if err != nil {
		return domain.Transition{}, err
	}
	for _, sym := range []string{read, write} {
		if err := domain.ValidateSymbol(sym); err != nil {
			return domain.Transition{}, err
		}
	}

	t := domain.Transition{From: from, To: to, Read: read, Write: write, Move: n}
	err = e.Update(ctx, name, func(m *machine.Machine) error {
		for _, id := range []int{from, to} {
			if _, ok := m.State(id); !ok {
				return fmt.Errorf("%w: %d", domain.ErrStateNotFound, id)
			}
		}
		if !m.TryAddTransition(from, to, read, write, n) {
			return fmt.Errorf("%w: state %d already reads %q", domain.ErrTransitionConflict, from, read)
		}
		return nil
	})
	if err != nil {
		return domain.Transition{}, err
	}
	e.logger.Debug("transition added", "name", name, "transition", t.String())
	return t, nil
}
