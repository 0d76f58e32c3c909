package tape

import (
	"maps"
	"slices"

	"github.com/aretw0/turing/pkg/domain"
)

// Cell is a tape position together with the symbol it reads as.
type Cell struct {
	Index  int    `json:"index"`
	Symbol string `json:"symbol"`
}

// Tape is a sparse symbol store with a movable head.
// It is not safe for concurrent use.
type Tape struct {
	def      string
	cells    map[int]string
	head     int
	snapshot map[int]string // nil until StoreInitialState is called
}

// New creates an empty tape whose unwritten cells read as defaultSymbol.
func New(defaultSymbol string) *Tape {
	return &Tape{
		def:   defaultSymbol,
		cells: make(map[int]string),
	}
}

// DefaultSymbol returns the symbol read from unwritten cells.
func (t *Tape) DefaultSymbol() string {
	return t.def
}

// Get returns the symbol at index, or the default symbol if the cell is unset.
func (t *Tape) Get(index int) string {
	if v, ok := t.cells[index]; ok {
		return v
	}
	return t.def
}

// Set stores symbol at index.
func (t *Tape) Set(index int, symbol string) {
	t.cells[index] = symbol
}

// GetAtHead returns the symbol under the head.
func (t *Tape) GetAtHead() string {
	return t.Get(t.head)
}

// SetAtHead writes symbol under the head.
func (t *Tape) SetAtHead(symbol string) {
	t.Set(t.head, symbol)
}

// Head returns the current head position.
func (t *Tape) Head() int {
	return t.head
}

// HeadTo moves the head to index.
func (t *Tape) HeadTo(index int) {
	t.head = index
}

// HeadForward moves the head by amount cells (negative amounts move back).
func (t *Tape) HeadForward(amount int) {
	t.HeadTo(t.head + amount)
}

// HeadBack moves the head back by amount cells.
func (t *Tape) HeadBack(amount int) {
	t.HeadTo(t.head - amount)
}

// Bounds returns the smallest and largest index holding a non-default symbol.
// A tape without such cells is bounded to (0, 0).
func (t *Tape) Bounds() (lo, hi int) {
	found := false
	for i, v := range t.cells {
		if v == t.def {
			continue
		}
		if !found {
			lo, hi, found = i, i, true
			continue
		}
		lo = min(lo, i)
		hi = max(hi, i)
	}
	return lo, hi
}

// MaxReadSpan is the widest Bounds range ReadAll will materialize.
const MaxReadSpan = 1 << 20

// ReadAll returns the symbols of every cell within Bounds, inclusive.
// It is meant for display-sized tapes and returns nil when the bounds span
// more than MaxReadSpan cells; use Cells for sparse tapes.
func (t *Tape) ReadAll() []string {
	lo, hi := t.Bounds()
	if uint(hi)-uint(lo) >= MaxReadSpan {
		return nil
	}
	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, t.Get(i))
	}
	return out
}

// Window returns the 2*radius+1 cells centred on the head.
func (t *Tape) Window(radius int) []Cell {
	if radius < 0 {
		radius = 0
	}
	out := make([]Cell, 0, 2*radius+1)
	for i := t.head - radius; i <= t.head+radius; i++ {
		out = append(out, Cell{Index: i, Symbol: t.Get(i)})
	}
	return out
}

// Cells returns the stored non-default cells in ascending index order.
func (t *Tape) Cells() []Cell {
	indexes := slices.Sorted(maps.Keys(t.cells))
	out := make([]Cell, 0, len(indexes))
	for _, i := range indexes {
		if v := t.cells[i]; v != t.def {
			out = append(out, Cell{Index: i, Symbol: v})
		}
	}
	return out
}

// StoreInitialState saves a copy of the contents (not the head) as the checkpoint.
func (t *Tape) StoreInitialState() {
	t.snapshot = maps.Clone(t.cells)
}

// HasSnapshot reports whether StoreInitialState has been called.
func (t *Tape) HasSnapshot() bool {
	return t.snapshot != nil
}

// LoadInitialState replaces the contents with the stored checkpoint.
// The head is left where it is.
func (t *Tape) LoadInitialState() error {
	if t.snapshot == nil {
		return domain.ErrNoSnapshot
	}
	t.cells = maps.Clone(t.snapshot)
	return nil
}
