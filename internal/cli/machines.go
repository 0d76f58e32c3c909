package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/tape"
)

// ListMachines prints one stored machine name per line.
func ListMachines(ctx context.Context, store ports.MachineStore, w io.Writer) error {
	names, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

// InspectMachine prints a markdown description of a machine, rendered with
// render when it is not nil.
func InspectMachine(ctx context.Context, store ports.MachineStore, ref string, w io.Writer, render func(string) (string, error)) error {
	m, err := ResolveMachine(ctx, store, ref)
	if err != nil {
		return err
	}
	md := tui.MachineMarkdown(machineName(ref), m)
	if render != nil {
		if out, err := render(md); err == nil {
			md = out
		}
	}
	_, err = io.WriteString(w, md)
	return err
}

// PrintGraph writes the Mermaid flowchart of a machine.
func PrintGraph(ctx context.Context, store ports.MachineStore, ref string, w io.Writer) error {
	m, err := ResolveMachine(ctx, store, ref)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(m, nil))
	return err
}

// ImportMachine reads a machine file and stores it under name. An empty name
// is derived from the file name.
func ImportMachine(ctx context.Context, store ports.MachineStore, path, name string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	m, err := codec.Read(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if name == "" {
		name = machineName(path)
	}
	if err := store.Save(ctx, name, m); err != nil {
		return "", err
	}
	return name, nil
}

// ExportMachine writes a stored machine to path in the binary machine format.
func ExportMachine(ctx context.Context, store ports.MachineStore, name, path string) error {
	m, err := store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("machine %q: %w", name, err)
	}
	data, err := codec.Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CheckTape parses a tape file and echoes it in canonical form.
func CheckTape(path, defaultSymbol string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	t, err := tape.Parse(f, defaultSymbol)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	lo, hi := t.Bounds()
	printSystemMessage(w, "%d cells set, bounds [%d, %d]", len(t.Cells()), lo, hi)
	return tape.Format(w, t)
}

func machineName(ref string) string {
	return strings.TrimSuffix(filepath.Base(ref), codec.FileExtension)
}
