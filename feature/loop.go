package feature

import (
	"github.com/jskeetcode/ircfg/cfg"
	"github.com/jskeetcode/ircfg/ir"
	"github.com/jskeetcode/ircfg/loopforest"
)

// Loop holds the per-call loop attributes (SPEC_FULL.md §4.5). A call not
// enclosed by any loop has LoopSizeBB = LoopSizeIR = LoopNested = 0.
type Loop struct {
	LoopSizeBB int
	LoopSizeIR int
	LoopNested int
}

// ExtractCallLoop reports the innermost loop (if any) enclosing block
// blockID, the block containing the call, against the loop forest roots
// discovered for f.
func ExtractCallLoop(f *cfg.Function, roots []*loopforest.Loop, blockID int) Loop {
	found := loopforest.Find(roots, blockID)
	if found == nil {
		return Loop{}
	}

	return Loop{
		LoopSizeBB: found.BlockCount(),
		LoopSizeIR: loopIRCount(f, found),
		LoopNested: loopforest.Depth(roots, found),
	}
}

// loopIRCount sums real (non-BB) instructions across every block belonging
// to l.
func loopIRCount(f *cfg.Function, l *loopforest.Loop) int {
	n := 0
	for _, b := range f.Blocks {
		if !l.Contains(b.ID) {
			continue
		}
		for _, inst := range b.Instructions {
			if inst.Op != ir.BB {
				n++
			}
		}
	}
	return n
}
