package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// When the renderer cannot be built the markdown is returned unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// MachineMarkdown describes m as a markdown document with a states table and
// a transitions table.
func MachineMarkdown(name string, m *machine.Machine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "%d states, %d transitions\n\n", m.StateCount(), len(m.Transitions()))

	if m.StateCount() > 0 {
		sb.WriteString("## States\n\n| id | x | y |\n|---|---|---|\n")
		for _, s := range m.States() {
			fmt.Fprintf(&sb, "| %d | %d | %d |\n", s.ID, s.Position.X, s.Position.Y)
		}
		sb.WriteString("\n")
	}

	if ts := m.Transitions(); len(ts) > 0 {
		sb.WriteString("## Transitions\n\n| from | read | to | write | move |\n|---|---|---|---|---|\n")
		for _, t := range ts {
			fmt.Fprintf(&sb, "| %d | `%s` | %d | `%s` | %d |\n",
				t.From, domain.SymbolLabel(t.Read), t.To, domain.SymbolLabel(t.Write), t.Move)
		}
	}
	return sb.String()
}
