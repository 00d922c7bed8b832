package loopforest

import (
	"testing"

	"github.com/jskeetcode/ircfg/cfg"
	"github.com/jskeetcode/ircfg/dominance"
	"github.com/jskeetcode/ircfg/ir"
	"github.com/jskeetcode/ircfg/translate"
	"github.com/jskeetcode/ircfg/uast"
	"github.com/stretchr/testify/require"
)

// nestedWhileMain builds the UAST for:
//
//	function main() {
//	    while (1) {
//	        while (1) {
//	            foo();
//	        }
//	    }
//	}
func nestedWhileMain() *uast.Node {
	call := &uast.Node{Kind: uast.KindFunctionCall, Callee: "foo"}
	inner := &uast.Node{Kind: uast.KindLoop, Cond: &uast.Node{Kind: uast.KindOther}, Body: &uast.Node{Kind: uast.KindOther, Children: []*uast.Node{call}}}
	outer := &uast.Node{Kind: uast.KindLoop, Cond: &uast.Node{Kind: uast.KindOther}, Body: &uast.Node{Kind: uast.KindOther, Children: []*uast.Node{inner}}}
	return &uast.Node{Kind: uast.KindFunction, Name: "main", Body: outer}
}

func buildAnalyzedMain(t *testing.T) (*cfg.Function, []*Loop) {
	t.Helper()
	stream := translate.New().Translate(nestedWhileMain())
	f := cfg.NewBuilder().Build(stream)[0]
	dominance.Compute(f)
	return f, Discover(f)
}

func TestNestedLoopsDiscovered(t *testing.T) {
	f, loops := buildAnalyzedMain(t)
	require.Len(t, loops, 1, "exactly one root loop (the outer while)")

	outer := loops[0]
	require.Len(t, outer.Children, 1, "the inner while nests under the outer while")
	inner := outer.Children[0]

	require.True(t, inner.subsetOf(outer), "inner loop's blocks must be a strict subset of the outer loop's")

	// Find the block containing the FCALL and confirm its innermost loop is the inner one.
	var callBlock int
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			if inst.Op == ir.FCALL {
				callBlock = b.ID
			}
		}
	}
	found := Find(loops, callBlock)
	require.Same(t, inner, found)
	require.Equal(t, 1, Depth(loops, inner), "inner loop is depth 1 when the root is depth 0")
	require.Equal(t, 0, Depth(loops, outer))
}
