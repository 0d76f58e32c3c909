package tape_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Implicit indexes", func(t *testing.T) {
		tp, err := tape.Parse(strings.NewReader("a\nb\n\n  c  \n"), "-")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, tp.ReadAll())
	})

	t.Run("Explicit indexes", func(t *testing.T) {
		input := "-2: x\n y\n10 :abcd\nz\n"
		tp, err := tape.Parse(strings.NewReader(input), "-")
		require.NoError(t, err)

		assert.Equal(t, "x", tp.Get(-2))
		assert.Equal(t, "y", tp.Get(-1))
		assert.Equal(t, "abcd", tp.Get(10))
		assert.Equal(t, "z", tp.Get(11))
		assert.Equal(t, 0, tp.Head())
	})

	t.Run("Blank lines do not advance", func(t *testing.T) {
		tp, err := tape.Parse(strings.NewReader("a\n\n\nb"), "-")
		require.NoError(t, err)
		assert.Equal(t, "b", tp.Get(1))
	})

	t.Run("Empty input", func(t *testing.T) {
		tp, err := tape.Parse(strings.NewReader(""), "-")
		require.NoError(t, err)
		assert.Empty(t, tp.Cells())
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		want  error
	}{
		{"Symbol too long", "a\nabcde\n", 2, domain.ErrSymbolTooLong},
		{"Punctuation", "a\n\n#\n", 3, tape.ErrMalformedLine},
		{"Missing symbol", "3:\n", 1, tape.ErrMalformedLine},
		{"Two symbols", "a b\n", 1, tape.ErrMalformedLine},
		{"Bad index", "1.5: a\n", 1, tape.ErrMalformedLine},
		{"Implicit index past MaxInt", "9223372036854775807: a\nb\n", 2, tape.ErrIndexOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := tape.Parse(strings.NewReader(tt.input), "-")
			assert.Nil(t, tp)
			require.ErrorIs(t, err, tt.want)

			var perr *tape.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParse_MaxIndex(t *testing.T) {
	tp, err := tape.Parse(strings.NewReader("9223372036854775807: a\n0: b\n"), "-")
	require.NoError(t, err)
	assert.Equal(t, "a", tp.Get(math.MaxInt))
	assert.Equal(t, "b", tp.Get(0))
	assert.Equal(t, "-", tp.Get(math.MinInt))
}

func TestFormat(t *testing.T) {
	tp := tape.New("-")
	tp.Set(3, "c")
	tp.Set(-1, "a")
	tp.Set(0, "-")

	var buf bytes.Buffer
	require.NoError(t, tape.Format(&buf, tp))
	assert.Equal(t, "-1: a\n3: c\n", buf.String())

	back, err := tape.Parse(&buf, "-")
	require.NoError(t, err)
	assert.Equal(t, tp.Cells(), back.Cells())
}
