package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
)

// GraphOverlay contains dynamic run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []int
	CurrentState  int
	// Running marks CurrentState as the state the machine is in.
	Running bool
}

// GenerateMermaid produces a Mermaid flowchart for m.
// The start state is drawn as a double circle and every other state as a
// circle. Transitions sharing the same direction between two states are
// collapsed into one edge whose label lists them, one per line.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(m *machine.Machine, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	states := m.States()
	for _, s := range states {
		opener, closer := "((", "))"
		if s.ID == runtime.StartStateID {
			opener, closer = "(((", ")))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%d\"%s\n", nodeID(s.ID), opener, s.ID, closer))
	}

	for i, a := range states {
		for _, b := range states[i:] {
			between := m.TransitionsBetween(a.ID, b.ID)
			writeEdge(&sb, a.ID, b.ID, between)
			if a.ID != b.ID {
				writeEdge(&sb, b.ID, a.ID, between)
			}
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, id := range overlay.VisitedStates {
			if _, ok := m.State(id); !ok || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(id)))
		}

		if overlay.Running {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func writeEdge(sb *strings.Builder, from, to int, between []domain.Transition) {
	var labels []string
	for _, t := range between {
		if t.From == from && t.To == to {
			labels = append(labels, edgeLabel(t))
		}
	}
	if len(labels) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", nodeID(from), strings.Join(labels, "<br/>"), nodeID(to)))
}

// edgeLabel renders "read/write,move" with blanks shown as "_".
func edgeLabel(t domain.Transition) string {
	label := fmt.Sprintf("%s/%s,%d", domain.SymbolLabel(t.Read), domain.SymbolLabel(t.Write), t.Move)
	return strings.ReplaceAll(label, "\"", "'")
}

func nodeID(id int) string {
	return fmt.Sprintf("q%d", id)
}
