package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
)

// FileExtension is the conventional extension of machine files.
const FileExtension = ".turingmach"

const int32Size = 4

var order = binary.LittleEndian

var (
	// ErrTruncated is returned when the input ends before the layout does.
	ErrTruncated = errors.New("unexpected end of data")
	// ErrNegativeLength is returned for negative counts or string lengths.
	ErrNegativeLength = errors.New("negative length")
	// ErrInvalidUTF8 is returned for symbols that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 string")
	// ErrTrailingData is returned when bytes remain after the last transition.
	ErrTrailingData = errors.New("trailing data")
	// ErrRejectedTransition is returned for transitions the machine refuses
	// (determinism clash, unknown endpoint or over-long symbol).
	ErrRejectedTransition = errors.New("transition rejected by machine")
	// ErrOutOfRange is returned by Encode for values that do not fit in int32.
	ErrOutOfRange = errors.New("value out of int32 range")
)

// DecodeError describes where decoding failed.
type DecodeError struct {
	Offset int
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes m. It only fails when a value does not fit the int32 layout.
func Encode(m *machine.Machine) ([]byte, error) {
	var buf bytes.Buffer
	w := &writer{buf: &buf}

	states := m.States()
	w.int("state_count", len(states))
	for _, s := range states {
		w.int("state id", s.ID)
		w.int("pos_x", s.Position.X)
		w.int("pos_y", s.Position.Y)
	}

	transitions := m.Transitions()
	w.int("transition_count", len(transitions))
	for _, t := range transitions {
		w.int("start_id", t.From)
		w.int("end_id", t.To)
		w.str("read_symbol", t.Read)
		w.str("write_symbol", t.Write)
		w.int("head_move", t.Move)
	}

	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

// Write encodes m to dst.
func Write(dst io.Writer, m *machine.Machine) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	_, err = dst.Write(data)
	return err
}

// Decode parses a machine file. Transitions are inserted through the
// machine's determinism gate, so a decoded machine always satisfies its
// invariants.
func Decode(data []byte) (*machine.Machine, error) {
	r := &reader{data: data}
	m := machine.New()

	stateCount, err := r.count("state_count", 3*int32Size)
	if err != nil {
		return nil, err
	}
	for i := 0; i < stateCount; i++ {
		off := r.off
		s, err := r.state()
		if err != nil {
			return nil, err
		}
		if err := m.RestoreState(s); err != nil {
			return nil, &DecodeError{Offset: off, Field: "state id", Err: err}
		}
	}

	// start, end, two length prefixes and the move are the minimum per transition.
	transitionCount, err := r.count("transition_count", 5*int32Size)
	if err != nil {
		return nil, err
	}
	for i := 0; i < transitionCount; i++ {
		off := r.off
		from, err := r.int("start_id")
		if err != nil {
			return nil, err
		}
		to, err := r.int("end_id")
		if err != nil {
			return nil, err
		}
		read, err := r.str("read_symbol")
		if err != nil {
			return nil, err
		}
		write, err := r.str("write_symbol")
		if err != nil {
			return nil, err
		}
		move, err := r.int("head_move")
		if err != nil {
			return nil, err
		}
		if !m.TryAddTransition(from, to, read, write, move) {
			return nil, &DecodeError{Offset: off, Field: "transition", Err: ErrRejectedTransition}
		}
	}

	if r.off != len(r.data) {
		return nil, &DecodeError{Offset: r.off, Field: "end of file", Err: ErrTrailingData}
	}
	return m, nil
}

// Read decodes a machine from everything remaining in src.
func Read(src io.Reader) (*machine.Machine, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine: %w", err)
	}
	return Decode(data)
}

type writer struct {
	buf *bytes.Buffer
	err error
}

func (w *writer) int(field string, v int) {
	if w.err != nil {
		return
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		w.err = fmt.Errorf("encode %s: %w: %d", field, ErrOutOfRange, v)
		return
	}
	var b [int32Size]byte
	order.PutUint32(b[:], uint32(int32(v)))
	w.buf.Write(b[:])
}

func (w *writer) str(field string, s string) {
	w.int(field+" length", len(s))
	if w.err == nil {
		w.buf.WriteString(s)
	}
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) int(field string) (int, error) {
	if r.remaining() < int32Size {
		return 0, &DecodeError{Offset: r.off, Field: field, Err: ErrTruncated}
	}
	v := int32(order.Uint32(r.data[r.off:]))
	r.off += int32Size
	return int(v), nil
}

func (r *reader) state() (domain.State, error) {
	var s domain.State
	var err error
	if s.ID, err = r.int("state id"); err != nil {
		return s, err
	}
	if s.Position.X, err = r.int("pos_x"); err != nil {
		return s, err
	}
	if s.Position.Y, err = r.int("pos_y"); err != nil {
		return s, err
	}
	return s, nil
}

// count reads a record count and checks that the remaining input could hold
// that many records of at least minSize bytes each.
func (r *reader) count(field string, minSize int) (int, error) {
	off := r.off
	n, err := r.int(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &DecodeError{Offset: off, Field: field, Err: ErrNegativeLength}
	}
	if n > r.remaining()/minSize {
		return 0, &DecodeError{Offset: off, Field: field, Err: ErrTruncated}
	}
	return n, nil
}

func (r *reader) str(field string) (string, error) {
	off := r.off
	n, err := r.int(field + " length")
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", &DecodeError{Offset: off, Field: field, Err: ErrNegativeLength}
	}
	if n > r.remaining() {
		return "", &DecodeError{Offset: r.off, Field: field, Err: ErrTruncated}
	}
	b := r.data[r.off : r.off+n]
	if !utf8.Valid(b) {
		return "", &DecodeError{Offset: r.off, Field: field, Err: ErrInvalidUTF8}
	}
	r.off += n
	return string(b), nil
}
