package dominance

import (
	"testing"

	"github.com/jskeetcode/ircfg/cfg"
	"github.com/jskeetcode/ircfg/ir"
	"github.com/stretchr/testify/require"
)

// buildIfElseThenMerge mirrors translate.Translator's output, minus the
// NOTHING the condition `c` lowers to right after the IF, for:
//
//	if (c) a(); else b();
//	c();
//
// (see translate.Translator.condition: the true branch falls straight into
// the false branch, there is no jump-over — preserved exactly per
// SPEC_FULL.md Design Note 9.3/E.4.3; it still produces a two-predecessor
// merge block, which is the property Scenario E actually tests.)
func buildIfElseThenMerge() []ir.Instruction {
	trueLb := ir.Label{ID: 0}
	falseLb := ir.Label{ID: 1}

	return []ir.Instruction{
		ir.With1(ir.FDECL, ir.FunctionRef{Name: "main"}),
		ir.With2(ir.IF, trueLb, falseLb),
		ir.With1(ir.MKLB, trueLb),
		ir.With1(ir.FCALL, ir.FunctionRef{Name: "a"}),
		ir.With1(ir.MKLB, falseLb),
		ir.With1(ir.FCALL, ir.FunctionRef{Name: "b"}),
		ir.With1(ir.FCALL, ir.FunctionRef{Name: "c"}),
		ir.New(ir.TERM),
		ir.New(ir.FEND),
	}
}

func TestMergeBlockHasTwoPredecessors(t *testing.T) {
	funcs := cfg.NewBuilder().Build(buildIfElseThenMerge())
	f := funcs[0]
	Compute(f)

	merge := f.Block(2) // third block: MKLB(false), b(), c(), TERM
	require.Len(t, merge.Pred, 2)
}

func TestDominatorFixedPointSatisfiesEquation(t *testing.T) {
	entry := ir.Label{ID: 0}
	body := ir.Label{ID: 1}
	exit := ir.Label{ID: 2}
	stream := []ir.Instruction{
		ir.With1(ir.FDECL, ir.FunctionRef{Name: "main"}),
		ir.With1(ir.MKLB, entry),
		ir.With2(ir.IF, body, exit),
		ir.With1(ir.MKLB, body),
		ir.With1(ir.FCALL, ir.FunctionRef{Name: "foo"}),
		ir.With1(ir.JMP, entry),
		ir.With1(ir.MKLB, exit),
		ir.New(ir.TERM),
		ir.New(ir.FEND),
	}

	f := cfg.NewBuilder().Build(stream)[0]
	Compute(f)

	e := f.Entry()
	require.Equal(t, map[int]bool{e.ID: true}, e.Dom)
	require.Nil(t, e.IDom)

	for _, b := range f.Blocks {
		if b.ID == e.ID {
			continue
		}
		var want map[int]bool
		first := true
		for predID := range b.Pred {
			pred := f.Block(predID)
			if first {
				want = cloneSet(pred.Dom)
				first = false
			} else {
				want = intersect(want, pred.Dom)
			}
		}
		if want == nil {
			want = map[int]bool{}
		}
		want[b.ID] = true
		require.True(t, setEqual(want, b.Dom), "dom(%d) must satisfy the fixed-point equation", b.ID)
	}
}

func TestImmediateDominatorIsStrictAndMinimal(t *testing.T) {
	funcs := cfg.NewBuilder().Build(buildIfElseThenMerge())
	f := funcs[0]
	Compute(f)

	merge := f.Block(2)
	require.NotNil(t, merge.IDom)
	require.NotEqual(t, merge.ID, *merge.IDom)

	// No other candidate in dom(merge)\{merge} may strictly dominate the
	// immediate dominator itself (SPEC_FULL.md §4.3).
	idomID := *merge.IDom
	for other := range merge.Dom {
		if other == merge.ID || other == idomID {
			continue
		}
		otherBlock := f.Block(other)
		require.False(t, otherBlock.Dom[idomID], "candidate %d must not dominate the chosen immediate dominator %d", other, idomID)
	}
}
