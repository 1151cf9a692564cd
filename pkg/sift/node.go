package sift

// NodeKind names an AST node's shape, mirroring the analyzed language's
// own node-type tags 1:1 so the loader (pkg/sift/ast) can translate the
// wire format without inventing structure of its own.
type NodeKind string

const (
	KindModule        NodeKind = "module"
	KindBlock         NodeKind = "block"
	KindIdentifier     NodeKind = "identifier"
	KindAttribute      NodeKind = "attribute"
	KindIndex          NodeKind = "index"
	KindBinOp          NodeKind = "binop"
	KindBoolOp         NodeKind = "boolop"
	KindUnaryOp        NodeKind = "unaryop"
	KindConditional    NodeKind = "conditional"
	KindWhile          NodeKind = "while"
	KindForEach        NodeKind = "foreach"
	KindCall           NodeKind = "call"
	KindAssignment     NodeKind = "assignment"
	KindComprehension  NodeKind = "comprehension"
	KindFunctionDef    NodeKind = "function_def"
	KindReturn         NodeKind = "return"
	KindBreak          NodeKind = "break"
	KindContinue       NodeKind = "continue"
	KindIntLiteral     NodeKind = "int_literal"
	KindFloatLiteral   NodeKind = "float_literal"
	KindStringLiteral  NodeKind = "string_literal"
	KindBoolLiteral    NodeKind = "bool_literal"
	KindNoneLiteral    NodeKind = "none_literal"
	KindListLiteral    NodeKind = "list_literal"
	KindMapLiteral     NodeKind = "map_literal"
	KindSlice          NodeKind = "slice"
	KindGenerator      NodeKind = "generator"
	KindFilter         NodeKind = "filter"
	KindMap            NodeKind = "map"
	KindAndThen        NodeKind = "and_then"
)

// Node is the in-memory AST shape every Executor consumes. It is
// intentionally one generalized struct rather than one Go type per kind
// (the source language's grammar isn't Go's to model 1:1); Kind selects
// which fields are meaningful, the way pkg/graft/parser's token stream
// carries a TokenType alongside a flat value bag.
type Node struct {
	ID   int
	Kind NodeKind
	Loc  Location

	// Name carries an identifier/attribute/call name, a binop/boolop/
	// unaryop operator string, or a loop/comprehension bound variable.
	Name string

	// Value carries a literal's payload (int64, float64, string, bool).
	Value interface{}

	// Children holds ordered operands: block statements, call arguments,
	// list/map literal elements, comprehension clauses.
	Children []*Node

	// Left/Right/Target/Object/Index/Cond/Then/Else/Body/Iter name the
	// fixed-arity slots used by specific kinds; nil when not applicable
	// to this node's Kind.
	Left   *Node
	Right  *Node
	Target *Node
	Object *Node
	Index  *Node
	Cond   *Node
	Then   *Node
	Else   *Node
	Body   *Node
	Iter   *Node
}

// Walk visits n and every descendant reachable through its fixed slots
// and Children, depth-first, calling fn on each. Grounded on
// internal/utils/tree/cursor.go's recursive descent style.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range []*Node{n.Left, n.Right, n.Target, n.Object, n.Index, n.Cond, n.Then, n.Else, n.Body, n.Iter} {
		child.Walk(fn)
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
