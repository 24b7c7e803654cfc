package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairs(t *testing.T) {
	p := Program{
		JumpIfZero(0),
		Add(1),
		JumpIfZero(0),
		JumpIfNonZero(0),
		Output{},
		JumpIfNonZero(0),
	}

	pairs, err := p.Pairs()
	require.NoError(t, err)

	assert.Equal(t, []Pair{{Open: 2, Close: 3}, {Open: 0, Close: 5}}, pairs)
}

func TestPairsUnbalanced(t *testing.T) {
	_, err := Program{JumpIfNonZero(0)}.Pairs()
	assert.Error(t, err)

	_, err = Program{JumpIfZero(0), JumpIfZero(0), JumpIfNonZero(0)}.Pairs()
	assert.Error(t, err)

	pairs, err := Program{Add(1), MovePointer(2)}.Pairs()
	assert.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestName(t *testing.T) {
	for _, tc := range []struct {
		x   Instruction
		exp string
	}{
		{MovePointer(1), "move"},
		{Add(-1), "add"},
		{Input{}, "input"},
		{Output{}, "output"},
		{JumpIfZero(3), "jz"},
		{JumpIfNonZero(0), "jnz"},
	} {
		assert.Equal(t, tc.exp, Name(tc.x))
	}
}
