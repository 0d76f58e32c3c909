package domain

import "errors"

// ErrStateNotFound is returned when a state id is not owned by the machine.
var ErrStateNotFound = errors.New("state not found")

// ErrDuplicateState is returned when restoring a state whose id is already in use.
var ErrDuplicateState = errors.New("duplicate state id")

// ErrNoSnapshot is returned when restoring a tape that never stored an initial state.
var ErrNoSnapshot = errors.New("no initial tape state stored")

// ErrSymbolTooLong is returned when a symbol exceeds SymbolMaxLength characters.
var ErrSymbolTooLong = errors.New("symbol too long")

// ErrNotStopped is returned when the machine or tape is replaced during a run.
var ErrNotStopped = errors.New("machine is not stopped")

// ErrMachineNotFound is returned when a machine name cannot be found in the store.
var ErrMachineNotFound = errors.New("machine not found")

// ErrMachineExists is returned when creating a machine under a name already in use.
var ErrMachineExists = errors.New("machine already exists")

// ErrTransitionConflict is returned when a transition would read the same
// symbol from the same state as an existing one.
var ErrTransitionConflict = errors.New("transition conflicts with an existing one")

// ErrInvalidHeadMove is returned for head moves that are not integers.
var ErrInvalidHeadMove = errors.New("invalid head move")
