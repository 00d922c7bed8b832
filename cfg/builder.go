package cfg

import "github.com/jskeetcode/ircfg/ir"

// Builder partitions a linear instruction stream into per-function CFGs.
// Block and function ids are allocated from Builder-local counters so that
// two Builders (i.e. two analyses) never collide — see SPEC_FULL.md §5/§9.
type Builder struct {
	nextBlockID int
	nextFuncID  int
}

// NewBuilder returns a Builder with fresh, analysis-local id counters.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build splits stream by FDECL, partitions each function's body into basic
// blocks, links jmp/lin edges by label resolution, completes succ/pred sets,
// and inserts the synthetic BB header instruction (SPEC_FULL.md §4.2,
// Open Question 1: the canonical cut-before-MKLB policy).
func (b *Builder) Build(stream []ir.Instruction) []*Function {
	bodies, order := splitByFunction(stream)

	funcs := make([]*Function, 0, len(order))
	for _, name := range order {
		f := &Function{ID: b.nextFuncID, Name: name}
		b.nextFuncID++
		f.Blocks = b.partition(bodies[name])
		linkBlocks(f)
		completeSuccessors(f)
		insertBlockHeaders(f)
		funcs = append(funcs, f)
	}
	return funcs
}

// splitByFunction groups instructions between one FDECL and the next under
// the name carried by the opening FDECL. FDECL itself is not retained in the
// body — it only names the function and resets the accumulator. order
// preserves first-seen function order.
func splitByFunction(stream []ir.Instruction) (map[string][]ir.Instruction, []string) {
	bodies := make(map[string][]ir.Instruction)
	var order []string

	var curName string
	var cur []ir.Instruction
	inFunc := false

	flush := func() {
		if inFunc {
			bodies[curName] = cur
		}
	}

	for _, inst := range stream {
		if inst.Op == ir.FDECL {
			flush()
			if ref, ok := inst.Operands[0].(ir.FunctionRef); ok {
				curName = ref.Name
			} else {
				curName = ""
			}
			if _, seen := bodies[curName]; !seen {
				order = append(order, curName)
			}
			cur = nil
			inFunc = true
			continue
		}
		cur = append(cur, inst)
	}
	flush()

	return bodies, order
}

// partition implements the canonical block-partition policy: start a new
// block at the beginning, whenever the current instruction is MKLB, or
// whenever the previous instruction closed a block with JMP/IF. Close the
// current block when about to start a new one or at end of function.
func (b *Builder) partition(instrs []ir.Instruction) []*Block {
	var blocks []*Block
	var cur []ir.Instruction

	closeBlock := func() {
		if len(cur) == 0 {
			return
		}
		blk := newBlock(b.nextBlockID)
		b.nextBlockID++
		blk.Instructions = cur
		blocks = append(blocks, blk)
		cur = nil
	}

	for _, inst := range instrs {
		startsNew := inst.Op == ir.MKLB
		if !startsNew && len(cur) > 0 {
			last := cur[len(cur)-1]
			if last.Op == ir.JMP || last.Op == ir.IF {
				startsNew = true
			}
		}
		if startsNew {
			closeBlock()
		}
		cur = append(cur, inst)
	}
	closeBlock()

	return blocks
}

// linkBlocks resolves each block's jmp/lin typed edges by label lookup.
func linkBlocks(f *Function) {
	for i, b := range f.Blocks {
		b.Jmp, b.Lin = nil, nil

		if len(b.Instructions) == 0 {
			if i+1 < len(f.Blocks) {
				b.Lin = idPtr(f.Blocks[i+1].ID)
			}
			continue
		}

		last := b.Instructions[len(b.Instructions)-1]
		switch last.Op {
		case ir.JMP:
			if target := findLabeledBlock(f, last.Operands[0]); target != nil {
				b.Jmp = idPtr(target.ID)
			}
		case ir.IF:
			if trueTarget := findLabeledBlock(f, last.Operands[0]); trueTarget != nil {
				b.Lin = idPtr(trueTarget.ID)
			}
			if falseTarget := findLabeledBlock(f, last.Operands[1]); falseTarget != nil {
				b.Jmp = idPtr(falseTarget.ID)
			}
		case ir.TERM, ir.FEND:
			// no successors
		default:
			if i+1 < len(f.Blocks) {
				b.Lin = idPtr(f.Blocks[i+1].ID)
			}
		}
	}
}

func findLabeledBlock(f *Function, operand ir.Operand) *Block {
	label, ok := operand.(ir.Label)
	if !ok {
		return nil
	}
	for _, b := range f.Blocks {
		if len(b.Instructions) == 0 {
			continue
		}
		first := b.Instructions[0]
		if first.Op != ir.MKLB {
			continue
		}
		if lbl, ok := first.Operands[0].(ir.Label); ok && lbl.ID == label.ID {
			return b
		}
	}
	return nil
}

// completeSuccessors derives succ/pred id sets from jmp/lin and mirrors every
// edge into its destination's predecessor set.
func completeSuccessors(f *Function) {
	for _, b := range f.Blocks {
		if b.Jmp != nil {
			b.Succ[*b.Jmp] = true
			if t := f.Block(*b.Jmp); t != nil {
				t.Pred[b.ID] = true
			}
		}
		if b.Lin != nil {
			b.Succ[*b.Lin] = true
			if t := f.Block(*b.Lin); t != nil {
				t.Pred[b.ID] = true
			}
		}
	}
}

// insertBlockHeaders prepends the synthetic BB(id) pseudo-instruction to
// every block, once linking is complete. It is display-only: IRCount and
// Flatten both skip it.
func insertBlockHeaders(f *Function) {
	for _, b := range f.Blocks {
		b.Instructions = append([]ir.Instruction{ir.BlockHeader(b.ID)}, b.Instructions...)
	}
}

func idPtr(id int) *int {
	v := id
	return &v
}
