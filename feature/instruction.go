package feature

import (
	"github.com/jskeetcode/ircfg/cfg"
	"github.com/jskeetcode/ircfg/ir"
)

// Instruction holds the per-instruction attributes computed over f's
// flattened linear view (SPEC_FULL.md §4.5).
type Instruction struct {
	// IsDominated is true when the instruction's containing block has more
	// than one predecessor — i.e. control reaches it from more than one path.
	IsDominated bool

	// SameInstBefore/SameInstAfter count the run of same-opcode instructions
	// immediately preceding/following this one in the flattened linear view.
	SameInstBefore int
	SameInstAfter  int

	// NearBreak is the distance, in the flattened linear view, to the nearest
	// BREAK instruction. -1 if the function contains no BREAK at all.
	NearBreak int
}

// ExtractInstructions computes Instruction features for every real (non-BB)
// instruction of f, in flattened linear order.
func ExtractInstructions(f *cfg.Function) []Instruction {
	flat := f.Flatten()
	dominated := dominatedFlags(f)

	out := make([]Instruction, len(flat))
	for i := range flat {
		out[i].IsDominated = dominated[i]
	}

	sameInstRuns(flat, out)
	nearBreaks(flat, out)

	return out
}

// dominatedFlags maps each flattened instruction index to whether its
// containing block has more than one predecessor.
func dominatedFlags(f *cfg.Function) []bool {
	var out []bool
	for _, b := range f.Blocks {
		multiPred := len(b.Pred) > 1
		for _, inst := range b.Instructions {
			if inst.Op == ir.BB {
				continue
			}
			out = append(out, multiPred)
		}
	}
	return out
}

// sameInstRuns fills SameInstBefore/SameInstAfter: the length of the run of
// same-opcode instructions immediately adjacent on each side, stopping at
// the first differing opcode (SPEC_FULL.md §4.5).
func sameInstRuns(flat []ir.Instruction, out []Instruction) {
	for i := range flat {
		run := 0
		for j := i - 1; j >= 0 && flat[j].Op == flat[i].Op; j-- {
			run++
		}
		out[i].SameInstBefore = run
	}
	for i := range flat {
		run := 0
		for j := i + 1; j < len(flat) && flat[j].Op == flat[i].Op; j++ {
			run++
		}
		out[i].SameInstAfter = run
	}
}

// nearBreaks fills NearBreak: the minimum index distance to any BREAK
// instruction in the flattened view, or -1 for every instruction if the
// function has no BREAK at all.
func nearBreaks(flat []ir.Instruction, out []Instruction) {
	var breaks []int
	for i, inst := range flat {
		if inst.Op == ir.BREAK {
			breaks = append(breaks, i)
		}
	}

	for i := range flat {
		if len(breaks) == 0 {
			out[i].NearBreak = -1
			continue
		}
		best := -1
		for _, b := range breaks {
			d := b - i
			if d < 0 {
				d = -d
			}
			if best == -1 || d < best {
				best = d
			}
		}
		out[i].NearBreak = best
	}
}
