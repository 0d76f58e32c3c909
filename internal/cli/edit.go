package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/editor"
)

// AddState parses "x" and "y" and adds a state at that position.
func AddState(ctx context.Context, ed *editor.Editor, name, x, y string, w io.Writer) error {
	px, err := strconv.Atoi(x)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", x, err)
	}
	py, err := strconv.Atoi(y)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", y, err)
	}
	s, err := ed.AddState(ctx, name, domain.Position{X: px, Y: py})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "added state %d\n", s.ID)
	return nil
}

// RemoveState removes a state and reports the transitions removed with it.
func RemoveState(ctx context.Context, ed *editor.Editor, name, id string, w io.Writer) error {
	n, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("invalid state id %q: %w", id, err)
	}
	removed, err := ed.RemoveState(ctx, name, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "removed state %d\n", n)
	for _, t := range removed {
		fmt.Fprintf(w, "removed transition %s\n", t)
	}
	return nil
}

// AddTransition links two states. args are from, to, read, write and an
// optional head move; "_" stands for the blank symbol.
func AddTransition(ctx context.Context, ed *editor.Editor, name string, args []string, w io.Writer) error {
	if len(args) < 4 || len(args) > 5 {
		return fmt.Errorf("expected <from> <to> <read> <write> [move], got %d arguments", len(args))
	}
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid from state %q: %w", args[0], err)
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid to state %q: %w", args[1], err)
	}
	move := ""
	if len(args) == 5 {
		move = args[4]
	}
	t, err := ed.AddTransition(ctx, name, from, to, blank(args[2]), blank(args[3]), move)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "added transition %s\n", t)
	return nil
}

// blank maps the printed blank label back to the empty symbol.
func blank(s string) string {
	if s == domain.BlankLabel {
		return ""
	}
	return s
}
