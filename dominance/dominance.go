// Package dominance computes dominator sets and immediate dominators over a
// function's basic blocks, by the classical iterative dataflow fixed point.
package dominance

import "github.com/jskeetcode/ircfg/cfg"

// Compute fills in Dom and IDom for every block of f. dom(entry) = {entry};
// for every other block b, dom(b) = {b} ∪ ⋂_{p∈pred(b)} dom(p), iterated to
// a fixed point (SPEC_FULL.md §4.3). Safe to call on a function with zero
// blocks (no-op).
func Compute(f *cfg.Function) {
	entry := f.Entry()
	if entry == nil {
		return
	}

	allIDs := make(map[int]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		allIDs[b.ID] = true
	}

	for _, b := range f.Blocks {
		if b.ID == entry.ID {
			b.Dom = map[int]bool{entry.ID: true}
		} else {
			b.Dom = cloneSet(allIDs)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range f.Blocks {
			if b.ID == entry.ID {
				continue
			}

			var next map[int]bool
			first := true
			for predID := range b.Pred {
				pred := f.Block(predID)
				if pred == nil {
					continue
				}
				if first {
					next = cloneSet(pred.Dom)
					first = false
				} else {
					next = intersect(next, pred.Dom)
				}
			}
			if next == nil {
				next = map[int]bool{}
			}
			next[b.ID] = true

			if !setEqual(next, b.Dom) {
				b.Dom = next
				changed = true
			}
		}
	}

	computeImmediateDominators(f, entry)
}

// computeImmediateDominators derives, for each non-entry block b, the unique
// element of dom(b)\{b} not strictly dominated by another element of that
// set. Ties (possible only with unreachable predecessors) break by first
// encountered in Blocks order, per SPEC_FULL.md §4.3.
func computeImmediateDominators(f *cfg.Function, entry *cfg.Block) {
	entry.IDom = nil

	for _, b := range f.Blocks {
		if b.ID == entry.ID {
			continue
		}

		candidates := make([]int, 0, len(b.Dom))
		for id := range b.Dom {
			if id != b.ID {
				candidates = append(candidates, id)
			}
		}

		var idom *int
		for _, d := range orderedByBlocks(f, candidates) {
			dominatedByOther := false
			for _, other := range candidates {
				if other == d {
					continue
				}
				if otherBlock := f.Block(other); otherBlock != nil && otherBlock.Dom[d] {
					dominatedByOther = true
					break
				}
			}
			if !dominatedByOther {
				v := d
				idom = &v
				break
			}
		}
		b.IDom = idom
	}
}

// orderedByBlocks returns ids in the order their blocks appear in f.Blocks,
// giving computeImmediateDominators a deterministic tie-break.
func orderedByBlocks(f *cfg.Function, ids []int) []int {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	out := make([]int, 0, len(ids))
	for _, b := range f.Blocks {
		if set[b.ID] {
			out = append(out, b.ID)
		}
	}
	return out
}

func cloneSet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}

func intersect(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func setEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
