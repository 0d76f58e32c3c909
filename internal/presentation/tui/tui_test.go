package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTapeView_Strip(t *testing.T) {
	tp := tape.New("-")
	tp.Set(0, "a")
	tp.Set(1, "")
	tp.HeadTo(1)

	got := tui.NewTapeView(termenv.Ascii).Strip(tp)
	assert.Equal(t, "| -   | -   | -   | a   |[_   | -   | -   | -   | -   |", got)
}

func TestTapeView_Status(t *testing.T) {
	got := tui.NewTapeView(termenv.Ascii).Status(domain.ModePaused, 3, 12)
	assert.Equal(t, "paused  state=3 steps=12", got)
}

func TestMachineMarkdown(t *testing.T) {
	m := machine.New()
	m.AddState(domain.Position{X: 5, Y: 6})
	m.AddState(domain.Position{})
	require.True(t, m.TryAddTransition(0, 1, "", "1", -1))

	md := tui.MachineMarkdown("inc", m)
	assert.Contains(t, md, "# inc")
	assert.Contains(t, md, "2 states, 1 transitions")
	assert.Contains(t, md, "| 0 | 5 | 6 |")
	assert.Contains(t, md, "| 0 | `_` | 1 | `1` | -1 |")

	assert.NotContains(t, tui.MachineMarkdown("empty", machine.New()), "## States")
}

func TestNewRenderer(t *testing.T) {
	out, err := tui.NewRenderer()("# Title")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
