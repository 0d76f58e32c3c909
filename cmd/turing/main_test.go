package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/internal/testutils"
	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCommands_ImportRunExport(t *testing.T) {
	dir := t.TempDir()

	data, err := codec.Encode(testutils.Incrementer())
	require.NoError(t, err)

	machinePath := filepath.Join(dir, "inc"+codec.FileExtension)
	require.NoError(t, os.WriteFile(machinePath, data, 0644))
	tapePath := filepath.Join(dir, "ones.tape")
	require.NoError(t, os.WriteFile(tapePath, []byte("1\n1\n"), 0644))

	assert.Contains(t, execute(t, "--dir", dir, "machine", "import", machinePath), "stored inc")
	assert.Equal(t, "inc\n", execute(t, "--dir", dir, "machine", "ls"))
	assert.Contains(t, execute(t, "--dir", dir, "graph", "inc"), "graph LR")
	assert.Contains(t, execute(t, "--dir", dir, "run", "--fast", "inc", tapePath), "Halted in state 1 after 3 steps.")

	exported := filepath.Join(dir, "copy"+codec.FileExtension)
	execute(t, "--dir", dir, "machine", "export", "inc", exported)
	got, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	execute(t, "--dir", dir, "machine", "rm", "inc")
	assert.Empty(t, execute(t, "--dir", dir, "machine", "ls"))
}

func TestCommands_TapeCheck(t *testing.T) {
	dir := t.TempDir()
	tapePath := filepath.Join(dir, "t.tape")
	require.NoError(t, os.WriteFile(tapePath, []byte("-2: x\ny\n"), 0644))

	out := execute(t, "--dir", dir, "tape", "check", tapePath)
	assert.Contains(t, out, "-2: x\n-1: y\n")
}

func TestCommands_EditMachine(t *testing.T) {
	dir := t.TempDir()
	tapePath := filepath.Join(dir, "ones.tape")
	require.NoError(t, os.WriteFile(tapePath, []byte("1\n1\n"), 0644))

	assert.Contains(t, execute(t, "--dir", dir, "machine", "new", "inc"), "stored inc")
	assert.Contains(t, execute(t, "--dir", dir, "machine", "add-state", "inc", "0", "0"), "added state 0")
	assert.Contains(t, execute(t, "--dir", dir, "machine", "add-state", "inc", "120", "0"), "added state 1")
	assert.Contains(t, execute(t, "--dir", dir, "machine", "add-transition", "inc", "0", "0", "1", "1", "1"), "added transition 0,1 -> 0,1,1")
	assert.Contains(t, execute(t, "--dir", dir, "machine", "add-transition", "inc", "0", "1", "_", "1"), "added transition 0,_ -> 1,1,0")

	assert.Contains(t, execute(t, "--dir", dir, "run", "--fast", "inc", tapePath), "Halted in state 1 after 3 steps.")

	t.Run("Conflicting transition is refused", func(t *testing.T) {
		rootCmd.SetArgs([]string{"--dir", dir, "machine", "add-transition", "inc", "0", "1", "1", "x", "-"})
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})
		assert.ErrorIs(t, rootCmd.Execute(), domain.ErrTransitionConflict)
	})

	t.Run("Removing a state cascades", func(t *testing.T) {
		out := execute(t, "--dir", dir, "machine", "rm-state", "inc", "1")
		assert.Contains(t, out, "removed state 1")
		assert.Contains(t, out, "removed transition 0,_ -> 1,1,0")
		assert.NotContains(t, out, "0,1 -> 0,1,1")
	})
}
