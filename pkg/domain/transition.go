package domain

import "fmt"

// Transition defines a rule to move from one state to another.
//
// Reading Read while in state From writes Write at the head, moves the head
// by Move cells and continues in state To. An empty symbol denotes the
// tape's default symbol.
type Transition struct {
	From  int    `json:"from" yaml:"from"`
	To    int    `json:"to" yaml:"to"`
	Read  string `json:"read" yaml:"read"`
	Write string `json:"write" yaml:"write"`
	Move  int    `json:"move" yaml:"move"`
}

// TransitionKey identifies the (start, read symbol) pair that must be unique
// across a machine.
type TransitionKey struct {
	From int
	Read string
}

// Key returns the determinism key of the transition.
func (t Transition) Key() TransitionKey {
	return TransitionKey{From: t.From, Read: t.Read}
}

// Connects reports whether the transition joins a and b, in either direction.
func (t Transition) Connects(a, b int) bool {
	return (t.From == a && t.To == b) || (t.From == b && t.To == a)
}

// Output returns the step result produced by taking this transition.
func (t Transition) Output() Output {
	return Output{Next: t.To, Write: t.Write, Move: t.Move}
}

// String renders the transition as "from,read -> to,write,move".
func (t Transition) String() string {
	return fmt.Sprintf("%d,%s -> %d,%s,%d", t.From, SymbolLabel(t.Read), t.To, SymbolLabel(t.Write), t.Move)
}

// Output is the answer to "what happens next" for a (state, symbol) pair.
type Output struct {
	Next  int    `json:"next"`
	Write string `json:"write"`
	Move  int    `json:"move"`
}
