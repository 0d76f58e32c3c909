/*
Package domain contains the core domain models of the turing engine.

It defines the fundamental entities of a single-tape Turing machine: States,
Transitions, Symbols and the run mode of an execution. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - State: A node in the control graph, identified by a unique integer id.
  - Transition: A directed rule (start, read) -> (end, write, move).
  - Output: The result of a step query (next state, symbol to write, head move).
  - RunMode: Stopped, Playing or Paused.
  - LifecycleHooks: Callbacks used by hosts for logging and metrics.
*/
package domain
