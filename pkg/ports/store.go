package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/machine"
)

// MachineStore defines the interface for persisting machine definitions.
// Implementations store the binary machine format produced by package codec.
type MachineStore interface {
	// Save persists the machine under name, replacing any previous version.
	Save(ctx context.Context, name string, m *machine.Machine) error

	// Load retrieves the machine stored under name.
	// Returns domain.ErrMachineNotFound if there is none.
	Load(ctx context.Context, name string) (*machine.Machine, error)

	// Delete removes the machine. Deleting a missing machine is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored machines in ascending order.
	List(ctx context.Context) ([]string, error)
}
