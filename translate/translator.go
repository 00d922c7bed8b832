// Package translate lowers a uniform AST into the linear IR, collapsing
// structured control flow into labels and branches.
package translate

import (
	"github.com/jskeetcode/ircfg/ir"
	"github.com/jskeetcode/ircfg/uast"
)

// Translator walks a UAST tree and accumulates a flat, ordered instruction
// stream. One Translator lowers exactly one tree; construct a fresh one per
// analysis so that label ids stay analysis-local (see ir.Labeler).
type Translator struct {
	labels  ir.Labeler
	stream  []ir.Instruction
	breaks  []ir.Label // break-target stack: top is the label a BREAK jumps to
}

// New returns a Translator ready to lower root.
func New() *Translator {
	return &Translator{}
}

// Translate lowers root and everything reachable from it, returning the
// resulting instruction stream. The Translator is single-use.
func (t *Translator) Translate(root *uast.Node) []ir.Instruction {
	t.node(root)
	return t.stream
}

func (t *Translator) emit(i ir.Instruction) {
	t.stream = append(t.stream, i)
}

func (t *Translator) node(n *uast.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case uast.KindFunction:
		t.function(n)
	case uast.KindFunctionCall:
		t.call(n)
	case uast.KindSyscall:
		t.syscall(n)
	case uast.KindReturnExit:
		t.returnExit(n)
	case uast.KindBreak:
		t.breakNode()
	case uast.KindLoop:
		t.loop(n)
	case uast.KindSwitch:
		t.switchNode(n)
	case uast.KindCondition:
		t.condition(n)
	case uast.KindConditionElse:
		t.node(n.Inner)
	case uast.KindDeclaration:
		t.declaration(n)
	case uast.KindBinary:
		t.emit(ir.With1(ir.BINARY, ir.Operation{Op: n.Operator}))
	case uast.KindUnary:
		t.emit(ir.With1(ir.UNARY, ir.Operation{Op: n.Operator}))
	case uast.KindElse:
		t.node(n.Body)
	default:
		if len(n.Children) > 0 {
			for _, child := range n.Children {
				t.node(child)
			}
		} else {
			t.emit(ir.Instruction{Op: ir.NOTHING, Asm: n.Text})
		}
	}
}

func (t *Translator) function(n *uast.Node) {
	t.emit(ir.With1(ir.FDECL, ir.FunctionRef{Name: n.Name}))
	t.node(n.Body)
	t.emit(ir.New(ir.FEND))
}

func (t *Translator) call(n *uast.Node) {
	t.node(n.Args)
	t.emit(ir.With1(ir.FCALL, ir.FunctionRef{Name: n.Callee}))
}

// syscall lowers a direct system call the same way call lowers a user
// function call, except it emits SCALL rather than FCALL (SPEC_FULL.md §6).
func (t *Translator) syscall(n *uast.Node) {
	t.node(n.Args)
	t.emit(ir.With1(ir.SCALL, ir.FunctionRef{Name: n.Callee}))
}

func (t *Translator) returnExit(n *uast.Node) {
	t.node(n.Value)
	t.emit(ir.New(ir.TERM))
}

// breakNode desugars a source-level break into a marker and a jump to the
// innermost enclosing loop/case exit label. Each BREAK pops exactly one
// entry off the break-target stack; nested constructs without an
// intervening break leave the stack untouched (SPEC_FULL.md §4.1).
func (t *Translator) breakNode() {
	t.emit(ir.New(ir.BREAK))
	if len(t.breaks) == 0 {
		return
	}
	target := t.breaks[len(t.breaks)-1]
	t.breaks = t.breaks[:len(t.breaks)-1]
	t.emit(ir.With1(ir.JMP, target))
}

func (t *Translator) loop(n *uast.Node) {
	entry := t.labels.NewLabel()
	body := t.labels.NewLabel()
	exit := t.labels.NewLabel()

	t.emit(ir.With1(ir.MKLB, entry))
	t.node(n.Cond)
	t.emit(ir.With2(ir.IF, body, exit))

	t.emit(ir.With1(ir.MKLB, body))
	t.breaks = append(t.breaks, exit)
	t.node(n.Body)
	t.emit(ir.With1(ir.JMP, entry))

	t.emit(ir.With1(ir.MKLB, exit))
}

func (t *Translator) switchNode(n *uast.Node) {
	t.emit(ir.New(ir.SWITCH))
	t.node(n.Cond)

	for _, c := range n.Cases {
		trueLb := t.labels.NewLabel()
		falseLb := t.labels.NewLabel()

		t.emit(ir.With2(ir.IF, trueLb, falseLb))
		t.emit(ir.With1(ir.MKLB, trueLb))
		t.breaks = append(t.breaks, falseLb)
		t.node(c)
		t.emit(ir.With1(ir.MKLB, falseLb))
	}
}

// condition lowers an if/then/else. Per SPEC_FULL.md §4.1 (Design Note 9.3)
// the IF is emitted before the condition expression is lowered; this is
// preserved exactly even though it reverses the natural evaluate-then-branch
// order, because nothing downstream depends on it.
func (t *Translator) condition(n *uast.Node) {
	trueLb := t.labels.NewLabel()
	falseLb := t.labels.NewLabel()

	t.emit(ir.With2(ir.IF, trueLb, falseLb))
	t.node(n.Cond)

	if n.True != nil {
		t.emit(ir.With1(ir.MKLB, trueLb))
		t.node(n.True)
	}
	if n.False != nil {
		t.emit(ir.With1(ir.MKLB, falseLb))
		t.node(n.False)
	}
}

func (t *Translator) declaration(n *uast.Node) {
	t.emit(ir.With1(ir.DECL, ir.Declaration{Type: n.DeclType}))
	t.node(n.Init)
}
