package tape

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

var cellPattern = regexp.MustCompile(`^(?:(?P<index>-?[0-9]+)\s*:)?\s*(?P<symbol>[A-Za-z0-9]+)$`)

// ErrMalformedLine is returned for lines that do not match the tape grammar.
var ErrMalformedLine = errors.New("malformed tape line")

// ErrIndexOverflow is returned when an implicit index would pass math.MaxInt.
var ErrIndexOverflow = errors.New("implicit cell index overflows")

// ParseError reports the first offending line of a tape file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tape line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a tape in text format. Any invalid line aborts the whole load
// and no tape is returned.
func Parse(r io.Reader, defaultSymbol string) (*Tape, error) {
	t := New(defaultSymbol)
	next := 0
	exhausted := false // the previous cell sat at math.MaxInt

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		m := cellPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: ErrMalformedLine}
		}

		index := next
		if raw := m[cellPattern.SubexpIndex("index")]; raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Text: line, Err: err}
			}
			index = n
		} else if exhausted {
			return nil, &ParseError{Line: lineNo, Text: line, Err: ErrIndexOverflow}
		}

		symbol := m[cellPattern.SubexpIndex("symbol")]
		if err := domain.ValidateSymbol(symbol); err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}

		t.Set(index, symbol)
		exhausted = index == math.MaxInt
		if !exhausted {
			next = index + 1
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tape: %w", err)
	}

	return t, nil
}

// Format writes the stored non-default cells of t in text format, one
// "index: symbol" line per cell in ascending order.
func Format(w io.Writer, t *Tape) error {
	bw := bufio.NewWriter(w)
	for _, c := range t.Cells() {
		if _, err := fmt.Fprintf(bw, "%d: %s\n", c.Index, c.Symbol); err != nil {
			return err
		}
	}
	return bw.Flush()
}
