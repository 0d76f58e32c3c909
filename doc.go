/*
Package turing is an engine for building and running single-tape Turing machines.

A Session bundles the three parts a host needs: the machine model (states and
deterministic transitions), the tape (sparse, unbounded in both directions)
and the controller that steps the machine against the tape under a
Stopped / Playing / Paused run mode.

# Concept

The engine is poll-driven. The host owns the loop (a UI frame loop, a CLI
ticker, an HTTP request) and calls Tick once per iteration; a step fires only
after the configured step delay has elapsed. Nothing runs in the background.

# Usage

	package main

	import (
		"context"
		"log"
		"time"

		"github.com/aretw0/turing"
		"github.com/aretw0/turing/pkg/domain"
	)

	func main() {
		s := turing.New(turing.WithStepDelay(100 * time.Millisecond))

		m := s.Machine()
		m.AddState(domain.Position{X: 0, Y: 0})
		m.AddState(domain.Position{X: 100, Y: 0})
		if !m.TryAddTransition(0, 1, "a", "x", 1) {
			log.Fatal("transition rejected")
		}
		s.Tape().Set(0, "a")

		ctx := context.Background()
		s.Play(ctx)
		for s.Mode() == domain.ModePlaying {
			s.Tick(ctx)
			time.Sleep(10 * time.Millisecond)
		}
		log.Println(s.Tape().ReadAll())
	}

Machines persist with SaveMachine/LoadMachine (see package codec for the
binary layout) and tapes load from the line-oriented text format with LoadTape.
*/
package turing
