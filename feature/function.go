// Package feature derives per-function, per-instruction, and per-call-loop
// attributes from a built CFG, its dominator sets, and its loop forest.
package feature

import (
	"github.com/jskeetcode/ircfg/cfg"
	"github.com/jskeetcode/ircfg/ir"
)

// startFunctionNames are the names that mark a function as a program entry
// point (SPEC_FULL.md §4.5).
var startFunctionNames = map[string]bool{
	"main":   true,
	"_start": true,
	"start":  true,
}

// Function holds the per-function attributes computed directly from a
// built CFG.
type Function struct {
	BBCount   int
	IRCount   int
	IsStart   bool
	FuncCalls int
	// Syscalls is -1 when the source language has no syscall concept.
	Syscalls int
}

// ExtractFunction computes bb_count, ir_count, is_start, funccalls, and
// syscalls for f. hasSyscalls selects whether SCALL is counted (true) or
// reported as unsupported via the -1 sentinel (false).
func ExtractFunction(f *cfg.Function, hasSyscalls bool) Function {
	out := Function{
		BBCount: len(f.Blocks),
		IRCount: f.IRCount(),
		IsStart: startFunctionNames[f.Name],
	}

	syscalls := 0
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			switch inst.Op {
			case ir.FCALL:
				out.FuncCalls++
			case ir.SCALL:
				syscalls++
			}
		}
	}

	if hasSyscalls {
		out.Syscalls = syscalls
	} else {
		out.Syscalls = -1
	}

	return out
}
