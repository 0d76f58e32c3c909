package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/muesli/termenv"
)

// WindowRadius is how many cells either side of the head the strip shows.
const WindowRadius = 4

// TapeView renders a tape strip centred on the head.
type TapeView struct {
	profile termenv.Profile
}

// NewTapeView returns a view using the given color profile.
// termenv.Ascii disables styling, which is what tests and pipes want.
func NewTapeView(profile termenv.Profile) *TapeView {
	return &TapeView{profile: profile}
}

// Strip renders the cells around the head as "| a | b |[c]| d |".
// The head cell is bracketed and highlighted; default cells are dimmed.
func (v *TapeView) Strip(t *tape.Tape) string {
	var sb strings.Builder
	sb.WriteString("|")
	for _, cell := range t.Window(WindowRadius) {
		label := fmt.Sprintf(" %-4s", domain.SymbolLabel(cell.Symbol))
		styled := v.profile.String(label)
		switch {
		case cell.Index == t.Head():
			label = fmt.Sprintf("[%-4s", domain.SymbolLabel(cell.Symbol))
			styled = v.profile.String(label).Bold().Foreground(v.profile.Color("#fbbf24"))
		case cell.Symbol == t.DefaultSymbol():
			styled = styled.Faint()
		}
		sb.WriteString(styled.String())
		sb.WriteString("|")
	}
	return sb.String()
}

// Status renders one status line for the controller loop.
func (v *TapeView) Status(mode domain.RunMode, state, steps int) string {
	tag := v.profile.String(fmt.Sprintf("%-7s", mode.String())).Foreground(v.profile.Color(modeColor(mode)))
	return fmt.Sprintf("%s state=%d steps=%d", tag.String(), state, steps)
}

func modeColor(mode domain.RunMode) string {
	switch mode {
	case domain.ModePlaying:
		return "#34d399"
	case domain.ModePaused:
		return "#fbbf24"
	}
	return "#9ca3af"
}
