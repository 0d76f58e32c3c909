package codec_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMachine(t *testing.T) *machine.Machine {
	t.Helper()
	m := machine.New()
	require.NoError(t, m.RestoreState(domain.State{ID: 0, Position: domain.Position{X: 3, Y: 4}}))
	require.NoError(t, m.RestoreState(domain.State{ID: 2, Position: domain.Position{X: 9, Y: 1}}))
	require.True(t, m.TryAddTransition(0, 2, "a", "b", 1))
	return m
}

// le builds little-endian int32 words followed by raw strings.
func le(parts ...any) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		switch v := p.(type) {
		case int:
			_ = binary.Write(&buf, binary.LittleEndian, int32(v))
		case string:
			buf.WriteString(v)
		}
	}
	return buf.Bytes()
}

func TestEncode_Layout(t *testing.T) {
	data, err := codec.Encode(sampleMachine(t))
	require.NoError(t, err)

	want := le(
		2,
		0, 3, 4,
		2, 9, 1,
		1,
		0, 2, 1, "a", 1, "b", 1,
	)
	assert.Equal(t, want, data)
}

func TestEncode_Empty(t *testing.T) {
	data, err := codec.Encode(machine.New())
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), data)

	m, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 0, m.StateCount())
}

func TestRoundTrip(t *testing.T) {
	m := sampleMachine(t)
	data, err := codec.Encode(m)
	require.NoError(t, err)

	back, err := codec.Decode(data)
	require.NoError(t, err)
	assert.True(t, m.Equal(back))
	assert.Equal(t, m.States(), back.States())

	t.Run("Negative values and blank symbols", func(t *testing.T) {
		m := machine.New()
		m.AddState(domain.Position{X: -100, Y: -200})
		m.AddState(domain.Position{X: 0, Y: 0})
		require.True(t, m.TryAddTransition(0, 1, "", "ab", -3))
		require.True(t, m.TryAddTransition(1, 1, "ä", "", 0))

		var buf bytes.Buffer
		require.NoError(t, codec.Write(&buf, m))
		back, err := codec.Read(&buf)
		require.NoError(t, err)
		assert.True(t, m.Equal(back))
	})
}

func TestDecode_Truncated(t *testing.T) {
	data, err := codec.Encode(sampleMachine(t))
	require.NoError(t, err)

	m, err := codec.Decode(data[:len(data)-3])
	assert.Nil(t, m)
	assert.ErrorIs(t, err, codec.ErrTruncated)

	var derr *codec.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "transition_count", derr.Field, "count check runs before the records")

	t.Run("Every prefix fails", func(t *testing.T) {
		for n := 0; n < len(data); n++ {
			m, err := codec.Decode(data[:n])
			assert.Nil(t, m, "prefix %d", n)
			assert.Error(t, err, "prefix %d", n)
		}
	})
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Negative state count", le(-1, 0), codec.ErrNegativeLength},
		{"State count beyond input", le(1000, 0, 0, 0), codec.ErrTruncated},
		{"Transition count beyond input", le(1, 0, 0, 0, 3, 0, 0, 0, 0, 0), codec.ErrTruncated},
		{"Negative string length", le(1, 0, 0, 0, 1, 0, 0, -4, 0, 0), codec.ErrNegativeLength},
		{"String length beyond input", le(1, 0, 0, 0, 1, 0, 0, 90, 0, 0), codec.ErrTruncated},
		{"Invalid UTF-8", append(le(1, 0, 0, 0, 1, 0, 0, 1), append([]byte{0xff}, le(0, 0)...)...), codec.ErrInvalidUTF8},
		{"Trailing data", append(le(0, 0), 0x01), codec.ErrTrailingData},
		{"Duplicate state id", le(2, 0, 0, 0, 0, 1, 1, 0), domain.ErrDuplicateState},
		{"Unknown endpoint", le(1, 0, 0, 0, 1, 0, 5, 1, "a", 1, "a", 1), codec.ErrRejectedTransition},
		{"Symbol too long", le(1, 0, 0, 0, 1, 0, 0, 5, "abcde", 1, "a", 0), codec.ErrRejectedTransition},
		{"Determinism clash", le(1, 0, 0, 0, 2,
			0, 0, 1, "a", 1, "b", 1,
			0, 0, 1, "a", 1, "c", -1,
		), codec.ErrRejectedTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := codec.Decode(tt.data)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncode_OutOfRange(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int is 32 bits wide")
	}
	big := int64(math.MaxInt32) + 1
	m := machine.New()
	m.AddState(domain.Position{X: int(big)})

	_, err := codec.Encode(m)
	assert.ErrorIs(t, err, codec.ErrOutOfRange)
}
