// Package c is the bounded front-end collaborator for the C-like surface
// language: it walks a github.com/smacker/go-tree-sitter C parse tree into a
// uast.Node tree, the input contract translate.Translator consumes. Building
// this tree is deliberately the only place tree-sitter is used — the core
// analysis pipeline (translate/cfg/dominance/loopforest/feature) never
// touches a *sitter.Node (SPEC_FULL.md §1/§6).
package c

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/jskeetcode/ircfg/uast"
)

// Parse parses source as C and lowers its tree-sitter parse tree into a
// uast.Node rooted at a KindOther scope node holding one child per top-level
// function definition.
func Parse(ctx context.Context, source []byte) (*uast.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("frontend/c: parse: %w", err)
	}
	defer tree.Close()

	w := &walker{src: source}
	return w.translationUnit(tree.RootNode()), nil
}

type walker struct {
	src []byte
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

// translationUnit walks the root node's top-level function definitions.
func (w *walker) translationUnit(root *sitter.Node) *uast.Node {
	scope := &uast.Node{Kind: uast.KindOther}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "function_definition" {
			scope.AddChild(w.functionDefinition(child))
		}
	}
	return scope
}

func (w *walker) functionDefinition(n *sitter.Node) *uast.Node {
	declarator := n.ChildByFieldName("declarator")
	name := functionName(declarator, w.src)

	body := n.ChildByFieldName("body")
	return &uast.Node{Kind: uast.KindFunction, Name: name, Body: w.statement(body)}
}

// functionName digs through a (possibly pointer-wrapped) function_declarator
// for its identifier.
func functionName(n *sitter.Node, src []byte) string {
	for n != nil {
		switch n.Type() {
		case "function_declarator":
			if id := n.ChildByFieldName("declarator"); id != nil {
				return functionName(id, src)
			}
		case "identifier":
			return n.Content(src)
		}
		n = n.ChildByFieldName("declarator")
	}
	return ""
}

// statement dispatches on a tree-sitter statement node, returning the
// equivalent uast.Node. Unrecognized statement kinds fall through to a
// KindOther leaf, which the translator lowers to NOTHING.
func (w *walker) statement(n *sitter.Node) *uast.Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "compound_statement":
		return w.compoundStatement(n)
	case "expression_statement":
		return w.expressionStatement(n)
	case "if_statement":
		return w.ifStatement(n)
	case "while_statement":
		return w.whileStatement(n)
	case "for_statement":
		return w.forStatement(n)
	case "do_statement":
		return w.doStatement(n)
	case "switch_statement":
		return w.switchStatement(n)
	case "break_statement":
		return &uast.Node{Kind: uast.KindBreak}
	case "return_statement":
		return w.returnStatement(n)
	case "declaration":
		return w.declaration(n)
	default:
		return &uast.Node{Kind: uast.KindOther, Text: w.text(n)}
	}
}

func (w *walker) compoundStatement(n *sitter.Node) *uast.Node {
	scope := &uast.Node{Kind: uast.KindOther}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if stmt := w.statement(n.NamedChild(i)); stmt != nil {
			scope.AddChild(stmt)
		}
	}
	return scope
}

// expressionStatement unwraps to the inner expression; a bare call
// expression becomes a KindFunctionCall, anything else a generic leaf.
func (w *walker) expressionStatement(n *sitter.Node) *uast.Node {
	if n.NamedChildCount() == 0 {
		return &uast.Node{Kind: uast.KindOther}
	}
	return w.expression(n.NamedChild(0))
}

func (w *walker) expression(n *sitter.Node) *uast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "call_expression":
		return w.callExpression(n)
	case "binary_expression":
		return &uast.Node{Kind: uast.KindBinary, Operator: w.operatorOf(n)}
	case "unary_expression":
		return &uast.Node{Kind: uast.KindUnary, Operator: w.operatorOf(n)}
	case "assignment_expression":
		return &uast.Node{Kind: uast.KindBinary, Operator: "="}
	default:
		return &uast.Node{Kind: uast.KindOther, Text: w.text(n)}
	}
}

// operatorOf returns the text of the first anonymous (unnamed) child of a
// binary/unary expression, which is where tree-sitter places the operator
// token, or "" when there is none.
func (w *walker) operatorOf(n *sitter.Node) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			return child.Content(w.src)
		}
	}
	return ""
}

// syscallWrapperNames are libc syscall wrapper functions: a call to one of
// these lowers to SCALL rather than FCALL (SPEC_FULL.md §6 — "C exposes
// SCALL through recognized libc syscall-wrapper call names").
var syscallWrapperNames = map[string]bool{
	"read": true, "write": true, "open": true, "close": true,
	"execve": true, "fork": true, "_exit": true, "mmap": true,
	"munmap": true, "brk": true, "ioctl": true, "socket": true,
	"connect": true, "bind": true, "listen": true, "accept": true,
	"ptrace": true, "kill": true, "syscall": true,
}

func (w *walker) callExpression(n *sitter.Node) *uast.Node {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	callee := w.text(fn)

	var argsNode *uast.Node
	if args != nil && args.NamedChildCount() > 0 {
		argsNode = &uast.Node{Kind: uast.KindOther}
		for i := 0; i < int(args.NamedChildCount()); i++ {
			argsNode.AddChild(w.expression(args.NamedChild(i)))
		}
	}

	kind := uast.KindFunctionCall
	if syscallWrapperNames[callee] {
		kind = uast.KindSyscall
	}
	return &uast.Node{Kind: kind, Callee: callee, Args: argsNode}
}

func (w *walker) ifStatement(n *sitter.Node) *uast.Node {
	cond := w.expression(n.ChildByFieldName("condition"))
	trueBody := w.statement(n.ChildByFieldName("consequence"))

	node := &uast.Node{Kind: uast.KindCondition, Cond: cond, True: trueBody}

	if alt := n.ChildByFieldName("alternative"); alt != nil {
		node.False = w.statement(alt)
	}
	return node
}

func (w *walker) whileStatement(n *sitter.Node) *uast.Node {
	cond := w.expression(n.ChildByFieldName("condition"))
	body := w.statement(n.ChildByFieldName("body"))
	return &uast.Node{Kind: uast.KindLoop, Cond: cond, Body: body}
}

// doStatement lowers do/while the same as while: the condition-checked-first
// vs. checked-last distinction is not observable in the attributes this
// pipeline derives (SPEC_FULL.md §4.5 draws no distinction either), so it is
// not worth a dedicated UAST shape.
func (w *walker) doStatement(n *sitter.Node) *uast.Node {
	return w.whileStatement(n)
}

// forStatement folds the initializer/update into the loop body, since
// SPEC_FULL.md's loop model has no dedicated init/update slots: the
// initializer runs once before the loop proper and the update becomes the
// last statement of the body, matching how a for-loop actually executes.
func (w *walker) forStatement(n *sitter.Node) *uast.Node {
	cond := w.expression(n.ChildByFieldName("condition"))
	body := w.statement(n.ChildByFieldName("body"))

	if update := n.ChildByFieldName("update"); update != nil {
		withUpdate := &uast.Node{Kind: uast.KindOther}
		if body != nil {
			withUpdate.AddChild(body)
		}
		withUpdate.AddChild(w.expression(update))
		body = withUpdate
	}

	loop := &uast.Node{Kind: uast.KindLoop, Cond: cond, Body: body}

	init := n.ChildByFieldName("initializer")
	if init == nil {
		return loop
	}
	scope := &uast.Node{Kind: uast.KindOther}
	scope.AddChild(w.statement(init))
	scope.AddChild(loop)
	return scope
}

func (w *walker) switchStatement(n *sitter.Node) *uast.Node {
	cond := w.expression(n.ChildByFieldName("condition"))
	node := &uast.Node{Kind: uast.KindSwitch, Cond: cond}

	body := n.ChildByFieldName("body")
	if body == nil {
		return node
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		caseNode := body.NamedChild(i)
		if caseNode.Type() != "case_statement" {
			continue
		}
		value := caseNode.ChildByFieldName("value")
		scope := &uast.Node{Kind: uast.KindOther}
		for j := 0; j < int(caseNode.NamedChildCount()); j++ {
			child := caseNode.NamedChild(j)
			if value != nil && child.StartByte() == value.StartByte() && child.EndByte() == value.EndByte() {
				continue // the case's own value expression, not one of its statements
			}
			if stmt := w.statement(child); stmt != nil {
				scope.AddChild(stmt)
			}
		}
		node.Cases = append(node.Cases, scope)
	}
	return node
}

func (w *walker) returnStatement(n *sitter.Node) *uast.Node {
	if n.NamedChildCount() == 0 {
		return &uast.Node{Kind: uast.KindReturnExit}
	}
	return &uast.Node{Kind: uast.KindReturnExit, Value: w.expression(n.NamedChild(0))}
}

func (w *walker) declaration(n *sitter.Node) *uast.Node {
	declType := ""
	if t := n.ChildByFieldName("type"); t != nil {
		declType = w.text(t)
	}

	var init *uast.Node
	if declarator := n.ChildByFieldName("declarator"); declarator != nil && declarator.Type() == "init_declarator" {
		if value := declarator.ChildByFieldName("value"); value != nil {
			init = w.expression(value)
		}
	}

	return &uast.Node{Kind: uast.KindDeclaration, DeclType: declType, Init: init}
}
