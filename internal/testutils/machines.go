// Package testutils holds machine fixtures shared by tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/stretchr/testify/require"
)

// Incrementer returns a unary incrementer for a tape whose default symbol is
// "-": state 0 walks right over the 1s and writes one more, then moves to
// state 1, which has no transitions.
func Incrementer() *machine.Machine {
	m := machine.New()
	m.AddState(domain.Position{})
	m.AddState(domain.Position{X: 120})
	m.TryAddTransition(0, 0, "1", "1", 1)
	m.TryAddTransition(0, 1, "-", "1", 0)
	return m
}

// Forever returns a machine that walks right over a blank tape and never halts.
func Forever() *machine.Machine {
	m := machine.New()
	m.AddState(domain.Position{})
	m.TryAddTransition(0, 0, "-", "-", 1)
	return m
}

// WriteFile writes data to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644), "Failed to write fixture")
	return path
}

// WriteMachine encodes m into a machine file named name and returns the path.
func WriteMachine(t *testing.T, name string, m *machine.Machine) string {
	t.Helper()
	data, err := codec.Encode(m)
	require.NoError(t, err, "Failed to encode fixture")
	return WriteFile(t, name+codec.FileExtension, data)
}
