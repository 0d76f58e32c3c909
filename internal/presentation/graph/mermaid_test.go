package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/stretchr/testify/assert"
)

func sample() *machine.Machine {
	m := machine.New()
	m.AddState(domain.Position{})
	m.AddState(domain.Position{X: 100})
	m.AddState(domain.Position{X: 200})
	m.TryAddTransition(0, 0, "a", "b", 1)
	m.TryAddTransition(0, 1, "", "x", -1)
	m.TryAddTransition(0, 1, "c", "c", 0)
	m.TryAddTransition(1, 0, "x", "", 2)
	return m
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "State Shapes",
			contains: []string{
				"graph LR",
				`q0((("0")))`,
				`q1(("1"))`,
				`q2(("2"))`,
			},
		},
		{
			name: "Grouped Edges",
			contains: []string{
				`q0 -- "a/b,1" --> q0`,
				`q0 -- "_/x,-1<br/>c/c,0" --> q1`,
				`q1 -- "x/_,2" --> q0`,
			},
			excludes: []string{"--> q2", "%% Overlay Styles"},
		},
		{
			name: "Overlay",
			overlay: &graph.GraphOverlay{
				VisitedStates: []int{0, 1, 0, 7},
				CurrentState:  1,
				Running:       true,
			},
			contains: []string{
				"class q0 visited;",
				"class q1 visited;",
				"class q1 current;",
			},
			excludes: []string{"class q7"},
		},
		{
			name:     "Overlay Not Running",
			overlay:  &graph.GraphOverlay{CurrentState: 0},
			contains: []string{"classDef current"},
			excludes: []string{"class q0 current;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sample(), tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_VisitedDeduplicated(t *testing.T) {
	got := graph.GenerateMermaid(sample(), &graph.GraphOverlay{VisitedStates: []int{2, 2, 2}})
	assert.Equal(t, 1, strings.Count(got, "class q2 visited;"))
}

func TestGenerateMermaid_Empty(t *testing.T) {
	assert.Equal(t, "graph LR\n", graph.GenerateMermaid(machine.New(), nil))
}
