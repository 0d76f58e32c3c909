package turing_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
)

// A unary incrementer: walk right over the 1s and append one more.
func Example() {
	s := turing.New(turing.WithDefaultSymbol("_"))

	m := s.Machine()
	scan := m.AddState(domain.Position{X: 0, Y: 0})
	done := m.AddState(domain.Position{X: 120, Y: 0})
	m.TryAddTransition(scan.ID, scan.ID, "1", "1", 1)
	m.TryAddTransition(scan.ID, done.ID, "_", "1", 0)

	if err := s.LoadTape(strings.NewReader("1\n1\n1\n")); err != nil {
		fmt.Println(err)
		return
	}

	res, err := s.RunToHalt(context.Background(), 100)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Steps, res.Halted, strings.Join(s.Tape().ReadAll(), ""))
	// Output: 4 true 1111
}
