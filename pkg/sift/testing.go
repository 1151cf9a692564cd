package sift

import "testing"

// TestHelper bundles a *testing.T with a driver for building small ASTs
// and running them through Analyze, the same convenience wrapper
// pkg/graft/testing.go's TestHelper provides around an EngineV2 - here
// generalized from parse-merge-evaluate to build-analyze-assert.
type TestHelper struct {
	t *testing.T
}

// NewTestHelper returns a TestHelper bound to t.
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// MustAnalyze runs Analyze over root and fails the test on error.
func (h *TestHelper) MustAnalyze(root *Node, opts Options) *Result {
	h.t.Helper()
	result, err := Analyze(root, opts)
	if err != nil {
		h.t.Fatalf("Analyze failed: %v", err)
	}
	return result
}

// AssertHasKind asserts that at least one diagnostic of the given kind
// was produced.
func (h *TestHelper) AssertHasKind(recs []Record, kind string) {
	h.t.Helper()
	for _, r := range recs {
		if r.Kind == kind {
			return
		}
	}
	h.t.Fatalf("expected a %s diagnostic, got none of %d diagnostics", kind, len(recs))
}

// AssertNoKind asserts that no diagnostic of the given kind was
// produced.
func (h *TestHelper) AssertNoKind(recs []Record, kind string) {
	h.t.Helper()
	for _, r := range recs {
		if r.Kind == kind {
			h.t.Fatalf("expected no %s diagnostic, got %+v", kind, r)
		}
	}
}

// AssertDiagnosticCount asserts the exact number of diagnostics
// produced, the bluntest check available when a scenario's shape is
// fully pinned down.
func (h *TestHelper) AssertDiagnosticCount(recs []Record, want int) {
	h.t.Helper()
	if len(recs) != want {
		h.t.Fatalf("expected %d diagnostics, got %d: %+v", want, len(recs), recs)
	}
}

// Node builder helpers, terse on purpose - real test fixtures construct
// ASTs by hand far more often than through the JSON loader, the same
// way pkg/graft/testing.go's CreateTestDocument shortcuts a full
// YAML/JSON parse for a literal map.

var nodeIDCounter int

func nextNodeID() int {
	nodeIDCounter++
	return nodeIDCounter
}

// IntLit builds an int_literal node.
func IntLit(v int64) *Node {
	return &Node{ID: nextNodeID(), Kind: KindIntLiteral, Value: v, Loc: Location{nodeIDCounter}}
}

// FloatLit builds a float_literal node.
func FloatLit(v float64) *Node {
	return &Node{ID: nextNodeID(), Kind: KindFloatLiteral, Value: v, Loc: Location{nodeIDCounter}}
}

// StrLit builds a string_literal node.
func StrLit(v string) *Node {
	return &Node{ID: nextNodeID(), Kind: KindStringLiteral, Value: v, Loc: Location{nodeIDCounter}}
}

// BoolLit builds a bool_literal node.
func BoolLit(v bool) *Node {
	return &Node{ID: nextNodeID(), Kind: KindBoolLiteral, Value: v, Loc: Location{nodeIDCounter}}
}

// NoneLit builds a none_literal node.
func NoneLit() *Node {
	return &Node{ID: nextNodeID(), Kind: KindNoneLiteral, Loc: Location{nodeIDCounter}}
}

// Ident builds an identifier node referencing name.
func Ident(name string) *Node {
	return &Node{ID: nextNodeID(), Kind: KindIdentifier, Name: name, Loc: Location{nodeIDCounter}}
}

// BinOp builds a binop node with the given operator and operands.
func BinOp(op string, left, right *Node) *Node {
	return &Node{ID: nextNodeID(), Kind: KindBinOp, Name: op, Left: left, Right: right, Loc: Location{nodeIDCounter}}
}

// Assign builds an assignment node.
func Assign(target, value *Node) *Node {
	return &Node{ID: nextNodeID(), Kind: KindAssignment, Target: target, Right: value, Loc: Location{nodeIDCounter}}
}

// Block builds a block node from statements.
func Block(stmts ...*Node) *Node {
	return &Node{ID: nextNodeID(), Kind: KindBlock, Children: stmts, Loc: Location{nodeIDCounter}}
}

// ListLit builds a list_literal node from elements.
func ListLit(elems ...*Node) *Node {
	return &Node{ID: nextNodeID(), Kind: KindListLiteral, Children: elems, Loc: Location{nodeIDCounter}}
}

// Call builds a call node invoking name with args.
func Call(name string, args ...*Node) *Node {
	callee := Ident(name)
	return &Node{ID: nextNodeID(), Kind: KindCall, Name: name, Target: callee, Children: args, Loc: Location{nodeIDCounter}}
}

// Attr builds an attribute-access node object.name.
func Attr(object *Node, name string) *Node {
	return &Node{ID: nextNodeID(), Kind: KindAttribute, Object: object, Name: name, Loc: Location{nodeIDCounter}}
}

// Idx builds an index node object[index].
func Idx(object, index *Node) *Node {
	return &Node{ID: nextNodeID(), Kind: KindIndex, Object: object, Index: index, Loc: Location{nodeIDCounter}}
}

// Cond builds a conditional node.
func Cond(cond, then, els *Node) *Node {
	return &Node{ID: nextNodeID(), Kind: KindConditional, Cond: cond, Then: then, Else: els, Loc: Location{nodeIDCounter}}
}

// While builds a while-loop node.
func While(cond, body *Node) *Node {
	return &Node{ID: nextNodeID(), Kind: KindWhile, Cond: cond, Body: body, Loc: Location{nodeIDCounter}}
}

// ForEach builds a for-each loop node binding name to each element of iter.
func ForEach(name string, iter, body *Node) *Node {
	return &Node{ID: nextNodeID(), Kind: KindForEach, Name: name, Iter: iter, Body: body, Loc: Location{nodeIDCounter}}
}
