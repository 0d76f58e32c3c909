package machine

import (
	"fmt"
	"slices"

	"github.com/aretw0/turing/pkg/domain"
)

// Machine is the core model of a single-tape Turing machine.
// It is not safe for concurrent use.
type Machine struct {
	states map[int]domain.State
	order  []int // state ids in insertion order

	transitions []domain.Transition
	keys        map[domain.TransitionKey]int // key -> index into transitions
}

// New creates an empty machine.
func New() *Machine {
	return &Machine{
		states: make(map[int]domain.State),
		keys:   make(map[domain.TransitionKey]int),
	}
}

// nextID returns the smallest non-negative id not used by any state.
func (m *Machine) nextID() int {
	for id := 0; ; id++ {
		if _, used := m.states[id]; !used {
			return id
		}
	}
}

// AddState allocates the smallest free id and appends a new state at pos.
func (m *Machine) AddState(pos domain.Position) domain.State {
	s := domain.State{ID: m.nextID(), Position: pos}
	m.states[s.ID] = s
	m.order = append(m.order, s.ID)
	return s
}

// RestoreState appends a state with an explicit id, as read back from storage.
func (m *Machine) RestoreState(s domain.State) error {
	if s.ID < 0 {
		return fmt.Errorf("invalid state id %d", s.ID)
	}
	if _, used := m.states[s.ID]; used {
		return fmt.Errorf("%w: %d", domain.ErrDuplicateState, s.ID)
	}
	m.states[s.ID] = s
	m.order = append(m.order, s.ID)
	return nil
}

// TryAddTransition appends a transition unless another transition already
// reads the same symbol from the same start state. It also refuses
// transitions whose endpoints are unknown or whose symbols are too long.
// The model is unchanged when it returns false.
func (m *Machine) TryAddTransition(from, to int, read, write string, move int) bool {
	t := domain.Transition{From: from, To: to, Read: read, Write: write, Move: move}

	if _, ok := m.states[from]; !ok {
		return false
	}
	if _, ok := m.states[to]; !ok {
		return false
	}
	if domain.ValidateSymbol(read) != nil || domain.ValidateSymbol(write) != nil {
		return false
	}
	if _, clash := m.keys[t.Key()]; clash {
		return false
	}

	m.keys[t.Key()] = len(m.transitions)
	m.transitions = append(m.transitions, t)
	return true
}

// RemoveState removes the state and every transition that starts or ends at it.
func (m *Machine) RemoveState(id int) error {
	if _, ok := m.states[id]; !ok {
		return fmt.Errorf("%w: %d", domain.ErrStateNotFound, id)
	}

	delete(m.states, id)
	m.order = slices.DeleteFunc(m.order, func(n int) bool { return n == id })

	kept := make([]domain.Transition, 0, len(m.transitions))
	for _, t := range m.transitions {
		if t.From != id && t.To != id {
			kept = append(kept, t)
		}
	}
	m.transitions = kept
	m.reindex()
	return nil
}

func (m *Machine) reindex() {
	clear(m.keys)
	for i, t := range m.transitions {
		m.keys[t.Key()] = i
	}
}

// State looks up a state by id.
func (m *Machine) State(id int) (domain.State, bool) {
	s, ok := m.states[id]
	return s, ok
}

// States returns a copy of the states in insertion order.
func (m *Machine) States() []domain.State {
	out := make([]domain.State, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.states[id])
	}
	return out
}

// StateCount returns the number of states.
func (m *Machine) StateCount() int {
	return len(m.order)
}

// Transitions returns a copy of the transitions in insertion order.
func (m *Machine) Transitions() []domain.Transition {
	return slices.Clone(m.transitions)
}

// TransitionsBetween returns the transitions joining a and b in either
// direction, in insertion order. Direction is not distinguished.
func (m *Machine) TransitionsBetween(a, b int) []domain.Transition {
	var out []domain.Transition
	for _, t := range m.transitions {
		if t.Connects(a, b) {
			out = append(out, t)
		}
	}
	return out
}

// DetermineOutput is the step function: it returns what the machine does when
// reading symbol in state id. ok is false when no transition applies (halt).
func (m *Machine) DetermineOutput(id int, symbol string) (out domain.Output, ok bool) {
	i, found := m.keys[domain.TransitionKey{From: id, Read: symbol}]
	if !found {
		return domain.Output{}, false
	}
	return m.transitions[i].Output(), true
}

// Clone returns a deep copy of the machine.
func (m *Machine) Clone() *Machine {
	c := New()
	for _, id := range m.order {
		c.states[id] = m.states[id]
	}
	c.order = slices.Clone(m.order)
	c.transitions = slices.Clone(m.transitions)
	c.reindex()
	return c
}

// Equal reports whether both machines hold the same states in the same order
// and the same set of transitions, regardless of transition order.
func (m *Machine) Equal(other *Machine) bool {
	if other == nil {
		return false
	}
	if !slices.Equal(m.States(), other.States()) {
		return false
	}
	if len(m.transitions) != len(other.transitions) {
		return false
	}
	for _, t := range m.transitions {
		i, ok := other.keys[t.Key()]
		if !ok || other.transitions[i] != t {
			return false
		}
	}
	return true
}
