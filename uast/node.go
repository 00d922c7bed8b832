// Package uast defines the uniform AST node contract that front-end parsers
// (the C-like parser, the CPL parser) produce and that the translator
// consumes. Building that tree is explicitly out of this repository's core
// scope — see SPEC_FULL.md §1 — so this package only fixes the shape of the
// contract. frontend/c implements one concrete producer against it.
package uast

// Kind tags which variant a Node is. The translator dispatches on Kind the
// same way the teacher's evaluator dispatches on expression/statement kind.
type Kind int

const (
	// KindOther covers scope nodes and anything without a recognized variant;
	// the translator recurses into its Children, or emits NOTHING if it has none.
	KindOther Kind = iota
	KindFunction
	KindFunctionCall
	KindReturnExit
	KindLoop
	KindSwitch
	KindDeclaration
	KindBinary
	KindUnary
	KindCondition
	KindConditionElse
	KindElse
	KindBreak
	// KindSyscall is a direct system call, lowered to SCALL rather than FCALL
	// (SPEC_FULL.md §6): CPL's explicit `syscall(...)` form, or a C call to a
	// recognized libc syscall wrapper name.
	KindSyscall
)

// Node is a uniform AST node. Only the fields relevant to its Kind are
// populated; the translator reads through the named accessors below rather
// than indexing into Children, which keeps lowering immune to the kind of
// child-count surprises flagged in SPEC_FULL.md E.4.4.
type Node struct {
	Kind Kind

	// Function: Name is the function identifier, Body its statement list.
	Name string
	Body *Node

	// FunctionCall: Callee is the called function's name, Args its argument list.
	Callee string
	Args   *Node

	// ReturnExit: Value is the returned expression, or nil for a bare return.
	Value *Node

	// Loop: Cond is the loop condition, Body (above) the loop body.
	Cond *Node

	// Switch: Cond (above) is the discriminant, Cases is the ordered case bodies.
	Cases []*Node

	// Declaration: DeclType is the declared type tag, Init the initializer (or nil).
	DeclType string
	Init     *Node

	// Binary / Unary: Operator is the operator tag.
	Operator string

	// Condition: Cond (above), True and False are the branch bodies (either may be nil).
	True  *Node
	False *Node

	// ConditionElse: Inner is the wrapped Condition node.
	Inner *Node

	// Children holds generic structure for KindOther nodes (scopes, statement
	// lists) and is walked in order when no specific accessor applies.
	Children []*Node

	// Text carries opaque source text for passthrough leaves, such as a CPL
	// `asm { ... }` block (see SPEC_FULL.md E.3); empty otherwise.
	Text string
}

// AddChild appends a child to a KindOther node, mirroring the teacher's
// TreeNode.AddChild helper.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// AddChildren appends several children at once.
func (n *Node) AddChildren(children ...*Node) {
	n.Children = append(n.Children, children...)
}
