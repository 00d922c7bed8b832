// Package analysis wires the front ends, the IR translator, the CFG
// builder, dominator computation, loop discovery, and feature extraction
// into a single entry point: Analyze.
package analysis

import (
	"context"

	"github.com/jskeetcode/ircfg/cfg"
	"github.com/jskeetcode/ircfg/dominance"
	"github.com/jskeetcode/ircfg/feature"
	"github.com/jskeetcode/ircfg/frontend/c"
	"github.com/jskeetcode/ircfg/frontend/cpl"
	"github.com/jskeetcode/ircfg/ir"
	"github.com/jskeetcode/ircfg/lang"
	"github.com/jskeetcode/ircfg/loopforest"
	"github.com/jskeetcode/ircfg/printer"
	"github.com/jskeetcode/ircfg/translate"
	"github.com/jskeetcode/ircfg/uast"
)

// FunctionAnalysis bundles one function's built CFG, loop forest, and
// derived features.
type FunctionAnalysis struct {
	CFG      *cfg.Function
	Loops    []*loopforest.Loop
	Features feature.Function
}

// InstructionAnalysis is one instruction's full attribute set, plus the
// bookkeeping needed to locate it: owning function, owning block, and its
// index in that function's flattened view.
type InstructionAnalysis struct {
	Function  string
	BlockID   int
	FlatIndex int
	Op        ir.Opcode
	// Callee is the called function's name. InstructionAnalysis values
	// only exist for FCALL sites (see AllCalls), so this is always set.
	Callee string

	feature.Instruction

	// Loop is nil when this instruction's block is not enclosed by any loop.
	Loop *feature.Loop
}

// Analysis is the result of analyzing one source unit: every function's
// CFG/loop/feature data, plus a flat, stably-ordered instruction index.
type Analysis struct {
	Language  lang.Language
	order     []string
	functions map[string]*FunctionAnalysis
	calls     []InstructionAnalysis
}

// Analyze parses source as language, lowers it to IR, builds each
// function's CFG, computes dominators and the loop forest, and extracts
// per-function/per-instruction/per-call-loop features. Returns
// ErrInvalidLanguage for the Unknown sentinel and ErrNoSource for empty
// input (SPEC_FULL.md §7).
func Analyze(ctx context.Context, source []byte, language lang.Language) (*Analysis, error) {
	if len(source) == 0 {
		return nil, ErrNoSource
	}
	if language == lang.Unknown {
		return nil, ErrInvalidLanguage
	}

	var root *uast.Node
	var err error
	switch language {
	case lang.C:
		root, err = c.Parse(ctx, source)
	case lang.CPL:
		root, err = cpl.Parse(string(source))
	default:
		return nil, ErrInvalidLanguage
	}
	if err != nil {
		return nil, err
	}

	stream := translate.New().Translate(root)
	funcs := cfg.NewBuilder().Build(stream)

	a := &Analysis{
		Language:  language,
		functions: make(map[string]*FunctionAnalysis, len(funcs)),
	}

	for _, f := range funcs {
		dominance.Compute(f)
		loops := loopforest.Discover(f)
		fa := &FunctionAnalysis{
			CFG:      f,
			Loops:    loops,
			Features: feature.ExtractFunction(f, language.HasSyscalls()),
		}
		a.order = append(a.order, f.Name)
		a.functions[f.Name] = fa
		a.collectCalls(f, loops)
	}

	return a, nil
}

// collectCalls walks f's flattened instructions once, appending an
// InstructionAnalysis for every FCALL instruction (SCALL is excluded; see
// DESIGN.md). flatIdx still advances over every non-BB instruction so it
// indexes instFeatures correctly, but only FCALL sites are recorded.
func (a *Analysis) collectCalls(f *cfg.Function, loops []*loopforest.Loop) {
	instFeatures := feature.ExtractInstructions(f)

	flatIdx := 0
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			if inst.Op == ir.BB {
				continue
			}

			if inst.Op == ir.FCALL {
				entry := InstructionAnalysis{
					Function:    f.Name,
					BlockID:     b.ID,
					FlatIndex:   flatIdx,
					Op:          inst.Op,
					Instruction: instFeatures[flatIdx],
				}
				if ref, ok := inst.Operands[0].(ir.FunctionRef); ok {
					entry.Callee = ref.Name
				}
				if loopforest.Find(loops, b.ID) != nil {
					lf := feature.ExtractCallLoop(f, loops, b.ID)
					entry.Loop = &lf
				}
				a.calls = append(a.calls, entry)
			}

			flatIdx++
		}
	}
}

// Functions returns every analyzed function's name, in first-seen order.
func (a *Analysis) Functions() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// GetFunction returns the named function's analysis, or UnknownFunctionError
// if no function by that name was found.
func (a *Analysis) GetFunction(name string) (*FunctionAnalysis, error) {
	fa, ok := a.functions[name]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}
	return fa, nil
}

// AllCalls returns every FCALL instruction analysis across every function,
// in stable function-insertion -> block -> instruction order. SCALL sites
// are not included (see DESIGN.md); per-function syscall counts are
// already available via Features.Syscalls.
func (a *Analysis) AllCalls() []InstructionAnalysis {
	out := make([]InstructionAnalysis, len(a.calls))
	copy(out, a.calls)
	return out
}

// PrintIR renders every function's IR with the default pretty-print style.
func (a *Analysis) PrintIR() string {
	funcs := make([]*cfg.Function, 0, len(a.order))
	for _, name := range a.order {
		funcs = append(funcs, a.functions[name].CFG)
	}
	return printer.PrintFunctions(funcs, printer.DefaultStyle)
}
