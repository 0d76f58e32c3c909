/*
Package machine implements the state/transition graph of a Turing machine.

A Machine owns an insertion-ordered set of states and transitions. Every
mutation preserves two invariants:

  - Determinism: no two transitions share the same (start, read symbol) pair,
    so DetermineOutput has at most one answer.
  - Closure: every transition's endpoints are states owned by the machine.
    Removing a state cascades to its incident transitions.

TryAddTransition is the only way to insert a transition.
*/
package machine
