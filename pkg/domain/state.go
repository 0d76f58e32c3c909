package domain

// Position is the layout coordinate of a state.
// The engine only stores and round-trips it; hosts decide what it means.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// State represents a node in the machine's control graph.
type State struct {
	ID       int      `json:"id" yaml:"id"`
	Position Position `json:"position" yaml:"position"`
}
