package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModeChange EventType = "mode_change"
	EventStep       EventType = "step"
	EventHalt       EventType = "halt"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// ModeEvent is emitted whenever the run mode changes.
type ModeEvent struct {
	EventBase
	From RunMode `json:"from"`
	To   RunMode `json:"to"`
}

// StepEvent is emitted after a transition has been applied to the tape.
type StepEvent struct {
	EventBase
	Step       int        `json:"step"`
	Transition Transition `json:"transition"`
	Head       int        `json:"head"`
}

// HaltEvent is emitted when no transition matches the current state and symbol.
type HaltEvent struct {
	EventBase
	Steps  int    `json:"steps"`
	State  int    `json:"state"`
	Symbol string `json:"symbol"`
	Head   int    `json:"head"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnModeChange func(context.Context, *ModeEvent)
	OnStep       func(context.Context, *StepEvent)
	OnHalt       func(context.Context, *HaltEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnModeChange: chain(h.OnModeChange, other.OnModeChange),
		OnStep:       chain(h.OnStep, other.OnStep),
		OnHalt:       chain(h.OnHalt, other.OnHalt),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
