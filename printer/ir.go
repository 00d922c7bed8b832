// Package printer renders a built CFG back to human-readable text: an
// indented IR pretty-print and a Graphviz DOT export (SPEC_FULL.md E.3).
package printer

import (
	"fmt"
	"strings"

	"github.com/jskeetcode/ircfg/cfg"
	"github.com/jskeetcode/ircfg/ir"
)

// Style configures the IR pretty-printer's layout.
type Style struct {
	Indent        string
	BraceSameLine bool
	ShowIndex     bool
	ShowBBHeader  bool
}

// DefaultStyle matches the original debug dump's defaults.
var DefaultStyle = Style{Indent: "    ", BraceSameLine: true, ShowBBHeader: true}

// PrintFunctions renders every function's instructions (including synthetic
// BB headers, when style.ShowBBHeader) as an indented brace-structured
// listing, the way the original debug dump does.
func PrintFunctions(funcs []*cfg.Function, style Style) string {
	var out []string
	for _, f := range funcs {
		out = append(out, printFunction(f, style))
	}
	return strings.Join(out, "\n\n")
}

func printFunction(f *cfg.Function, style Style) string {
	var lines []string
	level := 0

	emit := func(line string) {
		lines = append(lines, strings.Repeat(style.Indent, level)+line)
	}

	// The CFG builder consumes each function's opening FDECL to name the
	// Function and does not retain it in any Block's instructions, so it is
	// synthesized back here purely for display.
	fdeclLine := fmt.Sprintf("define %s", ir.FunctionRef{Name: f.Name})
	if style.ShowIndex {
		fdeclLine = "[-] " + fdeclLine
	}
	if style.BraceSameLine {
		emit(fdeclLine + " {")
	} else {
		emit(fdeclLine)
		emit("{")
	}
	level++

	idx := 0
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			if inst.Op == ir.BB {
				if style.ShowBBHeader {
					if len(lines) > 0 {
						lines = append(lines, "")
					}
					emit(fmt.Sprintf("===== BB%d =====", inst.ID))
				}
				continue
			}

			line := actionFriendly(inst)
			if style.ShowIndex {
				line = fmt.Sprintf("[%d] %s", idx, line)
			}
			idx++

			switch {
			case ir.Closers[inst.Op]:
				if level > 0 {
					level--
					emit("}")
				}
				emit(line)
			case ir.Openers[inst.Op]:
				if style.BraceSameLine {
					emit(line + " {")
				} else {
					emit(line)
					emit("{")
				}
				level++
			default:
				emit(line)
			}
		}
	}

	for level > 0 {
		level--
		emit("}")
	}

	return strings.Join(lines, "\n")
}

// actionFriendly renders one instruction's human-readable summary, matching
// the original debug dump's per-opcode phrasing.
func actionFriendly(i ir.Instruction) string {
	switch i.Op {
	case ir.FDECL:
		return fmt.Sprintf("define %s", i.Operands[0])
	case ir.IF:
		return fmt.Sprintf("if, true: %s, else: %s", i.Operands[0], i.Operands[1])
	case ir.LOOP:
		return "loop untill"
	case ir.SWITCH:
		return "switch by"
	case ir.BINARY, ir.BINOP:
		return "binary_op"
	case ir.UNARY:
		return "unary_op"
	case ir.DECL:
		return fmt.Sprintf("declaration(%s)", i.Operands[0])
	case ir.FCALL:
		return fmt.Sprintf("call %s()", i.Operands[0])
	case ir.SCALL:
		return "syscall"
	case ir.JMP:
		return fmt.Sprintf("jump to %s", i.Operands[0])
	case ir.BREAK:
		return "break"
	case ir.DREF:
		return "dereference of something"
	case ir.REF:
		return "reference of something"
	case ir.MKLB:
		return fmt.Sprintf("%s:", i.Operands[0])
	case ir.TERM:
		return "stop"
	case ir.FEND:
		return "function_end"
	case ir.NOTHING:
		return "some operation"
	default:
		return i.Op.String()
	}
}
