package domain

// RunMode defines whether the step function is being driven.
type RunMode int

const (
	ModeStopped RunMode = iota
	ModePlaying
	ModePaused
)

// String returns the lowercase name of the mode.
func (m RunMode) String() string {
	switch m {
	case ModeStopped:
		return "stopped"
	case ModePlaying:
		return "playing"
	case ModePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// TickResult describes what a single controller tick did.
type TickResult int

const (
	// TickIdle means no step was due (not playing, or deadline not reached).
	TickIdle TickResult = iota
	// TickStepped means one transition was applied.
	TickStepped
	// TickHalted means no transition matched and the controller paused.
	TickHalted
)

func (r TickResult) String() string {
	switch r {
	case TickIdle:
		return "idle"
	case TickStepped:
		return "stepped"
	case TickHalted:
		return "halted"
	default:
		return "unknown"
	}
}
