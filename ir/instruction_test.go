package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstructionString(t *testing.T) {
	require.Equal(t, "term", New(TERM).String())
	require.Equal(t, "fcall(function(foo))", With1(FCALL, FunctionRef{Name: "foo"}).String())
	require.Equal(t, "if(lb1,lb2)", With2(IF, Label{ID: 1}, Label{ID: 2}).String())
	require.Equal(t, "bb(3)", BlockHeader(3).String())
}

func TestLabelerMonotonic(t *testing.T) {
	var l Labeler
	a := l.NewLabel()
	b := l.NewLabel()
	require.Equal(t, 0, a.ID)
	require.Equal(t, 1, b.ID)
}

func TestOpenersClosersDisjoint(t *testing.T) {
	for op := range Openers {
		require.False(t, Closers[op], "opcode %v cannot be both an opener and a closer", op)
	}
}
