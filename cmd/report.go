package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jskeetcode/ircfg/analysis"
)

// functionReport is the JSON-serializable shape of one function's features,
// mirroring analysis.FunctionAnalysis.Features without exposing the full CFG.
type functionReport struct {
	Name      string `json:"name"`
	BBCount   int    `json:"bb_count"`
	IRCount   int    `json:"ir_count"`
	IsStart   bool   `json:"is_start"`
	FuncCalls int    `json:"funccalls"`
	Syscalls  int    `json:"syscalls"`
}

// callReport is the JSON-serializable shape of one FCALL site from
// analysis.AllCalls.
type callReport struct {
	Function       string `json:"function"`
	BlockID        int    `json:"block_id"`
	Opcode         string `json:"opcode"`
	Callee         string `json:"callee,omitempty"`
	IsDominated    bool   `json:"is_dominated"`
	SameInstBefore int    `json:"same_inst_before"`
	SameInstAfter  int    `json:"same_inst_after"`
	NearBreak      int    `json:"near_break"`
	LoopSizeBB     *int   `json:"loop_size_bb,omitempty"`
	LoopSizeIR     *int   `json:"loop_size_ir,omitempty"`
	LoopNested     *int   `json:"loop_nested,omitempty"`
}

func printReport(a *analysis.Analysis, format string) error {
	functions := make([]functionReport, 0, len(a.Functions()))
	for _, name := range a.Functions() {
		fa, err := a.GetFunction(name)
		if err != nil {
			return err
		}
		functions = append(functions, functionReport{
			Name:      name,
			BBCount:   fa.Features.BBCount,
			IRCount:   fa.Features.IRCount,
			IsStart:   fa.Features.IsStart,
			FuncCalls: fa.Features.FuncCalls,
			Syscalls:  fa.Features.Syscalls,
		})
	}

	var calls []callReport
	for _, c := range a.AllCalls() {
		entry := callReport{
			Function:       c.Function,
			BlockID:        c.BlockID,
			Opcode:         c.Op.String(),
			Callee:         c.Callee,
			IsDominated:    c.IsDominated,
			SameInstBefore: c.SameInstBefore,
			SameInstAfter:  c.SameInstAfter,
			NearBreak:      c.NearBreak,
		}
		if c.Loop != nil {
			bb, ir, nested := c.Loop.LoopSizeBB, c.Loop.LoopSizeIR, c.Loop.LoopNested
			entry.LoopSizeBB, entry.LoopSizeIR, entry.LoopNested = &bb, &ir, &nested
		}
		calls = append(calls, entry)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Functions []functionReport `json:"functions"`
			Calls     []callReport     `json:"calls"`
		}{functions, calls})
	case "text", "":
		return printTextReport(functions)
	default:
		return fmt.Errorf("analyze: unknown --format %q: expected text or json", format)
	}
}

func printTextReport(functions []functionReport) error {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FUNCTION\tBB\tIR\tSTART\tCALLS\tSYSCALLS")
	for _, f := range functions {
		fmt.Fprintf(w, "%s\t%d\t%d\t%t\t%d\t%d\n", f.Name, f.BBCount, f.IRCount, f.IsStart, f.FuncCalls, f.Syscalls)
	}
	return w.Flush()
}
