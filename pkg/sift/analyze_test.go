package sift

import (
	"fmt"
	"strings"
	"testing"
)

// TestAnalyzeRejectsNegativeMaxLoopIterations covers Options validation:
// a negative cap is a config error, not a silently-clamped value.
func TestAnalyzeRejectsNegativeMaxLoopIterations(t *testing.T) {
	_, err := Analyze(Block(), Options{MaxLoopIterations: -1})
	if err == nil {
		t.Fatalf("expected an error for a negative MaxLoopIterations")
	}
	if !IsSiftError(err) {
		t.Fatalf("expected a *SiftError, got %T", err)
	}
	wrapped := fmt.Errorf("loading config: %w", err)
	if !IsSiftError(wrapped) {
		t.Fatalf("expected IsSiftError to see through fmt.Errorf wrapping")
	}
}

// TestAnalyzeIdentifierInvalidWhenNeverBound covers the end-to-end path
// through Analyze for a name that resolves to unbound under every
// world: it must be reported as the error-severity IDENTIFIER_INVALID,
// not the warning-severity IDENTIFIER_UNSAFE.
func TestAnalyzeIdentifierInvalidWhenNeverBound(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(Assign(Ident("y"), Ident("never_bound")))

	result := h.MustAnalyze(root, Options{})
	h.AssertHasKind(result.Diagnostics, KindIdentifierInvalid)
	h.AssertNoKind(result.Diagnostics, KindIdentifierUnsafe)
}

// TestAnalyzeIdentifierUnsafeAcrossConditionalBranches covers a name
// bound on one branch of an if-with-no-else and left unbound on the
// other: resolving it afterwards must report the warning-severity
// IDENTIFIER_UNSAFE (spec.md 4.7), since at least one world - the
// branch that assigned it - does have a value.
func TestAnalyzeIdentifierUnsafeAcrossConditionalBranches(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("cond"), BoolLit(true)),
		Cond(Ident("cond"), Block(Assign(Ident("x"), IntLit(1))), nil),
		Assign(Ident("y"), Ident("x")),
	)

	result := h.MustAnalyze(root, Options{})
	h.AssertHasKind(result.Diagnostics, KindIdentifierUnsafe)
	h.AssertNoKind(result.Diagnostics, KindIdentifierInvalid)
}

// TestAnalyzeTypeUnsafeAndBinOpInvalidCombo covers the explicit combo
// scenario: a name assigned an int on one branch and a string on the
// other produces a TYPE_UNSAFE warning at the merge point, and then
// using it in an operator the string side doesn't support produces a
// BINOP_INVALID error for that branch's world while the int branch's
// world evaluates cleanly.
func TestAnalyzeTypeUnsafeAndBinOpInvalidCombo(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("cond"), BoolLit(true)),
		Cond(Ident("cond"),
			Block(Assign(Ident("x"), IntLit(1))),
			Block(Assign(Ident("x"), StrLit("s"))),
		),
		Assign(Ident("y"), BinOp("-", Ident("x"), IntLit(1))),
	)

	result := h.MustAnalyze(root, Options{})
	h.AssertHasKind(result.Diagnostics, KindTypeUnsafe)
	h.AssertHasKind(result.Diagnostics, KindBinOpInvalid)
}

// TestAnalyzeTypeUnsafeNotesSharedAncestorWhenOneExists covers the
// richer TYPE_UNSAFE message: an int/float split still shares the
// "number" umbrella type, so the diagnostic should name it rather than
// reading as if the two branches had nothing in common.
func TestAnalyzeTypeUnsafeNotesSharedAncestorWhenOneExists(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("cond"), BoolLit(true)),
		Cond(Ident("cond"),
			Block(Assign(Ident("x"), IntLit(1))),
			Block(Assign(Ident("x"), FloatLit(1.5))),
		),
	)

	result := h.MustAnalyze(root, Options{})
	found := false
	for _, r := range result.Diagnostics {
		if r.Kind == KindTypeUnsafe {
			found = true
			if !strings.Contains(r.Message, "number") {
				t.Fatalf("expected the shared ancestor type named in the message, got %q", r.Message)
			}
		}
	}
	if !found {
		t.Fatalf("expected a TYPE_UNSAFE diagnostic")
	}
}

// TestAnalyzeForEachOverScalarIsIterationInvalid covers for-each over a
// value whose type was never marked iterable (int): this must be
// flagged rather than silently contributing nothing with no diagnostic
// at all.
func TestAnalyzeForEachOverScalarIsIterationInvalid(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("n"), IntLit(5)),
		ForEach("item", Ident("n"), Block(Assign(Ident("y"), Ident("item")))),
	)

	result := h.MustAnalyze(root, Options{})
	h.AssertHasKind(result.Diagnostics, KindIterationInvalid)
}

// TestAnalyzeForEachOverListIsClean covers the happy path: iterating a
// list produces no ITERATION_INVALID diagnostic.
func TestAnalyzeForEachOverListIsClean(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("xs"), ListLit(IntLit(1), IntLit(2))),
		ForEach("item", Ident("xs"), Block(Assign(Ident("y"), Ident("item")))),
	)

	result := h.MustAnalyze(root, Options{})
	h.AssertNoKind(result.Diagnostics, KindIterationInvalid)
}

// TestAnalyzeIndexingStringDoesNotFalselyReportIndexInvalid covers the
// index-executor fix: string is marked indexable in the type bootstrap
// even though it carries no chunked Elements, so indexing one must not
// report INDEX_INVALID.
func TestAnalyzeIndexingStringDoesNotFalselyReportIndexInvalid(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("s"), StrLit("hello")),
		Assign(Ident("c"), Idx(Ident("s"), IntLit(0))),
	)

	result := h.MustAnalyze(root, Options{})
	h.AssertNoKind(result.Diagnostics, KindIndexInvalid)
}

// TestAnalyzeIndexingIntIsIndexInvalid covers the negative case: int was
// never marked indexable, so indexing one is still flagged.
func TestAnalyzeIndexingIntIsIndexInvalid(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("n"), IntLit(5)),
		Assign(Ident("c"), Idx(Ident("n"), IntLit(0))),
	)

	result := h.MustAnalyze(root, Options{})
	h.AssertHasKind(result.Diagnostics, KindIndexInvalid)
}

// TestAnalyzeNoDiagnosticsOnCleanProgram covers the quiet path: a
// program with no unbound names and no unsupported operators produces
// no diagnostics at all.
func TestAnalyzeNoDiagnosticsOnCleanProgram(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("x"), IntLit(1)),
		Assign(Ident("y"), BinOp("+", Ident("x"), IntLit(2))),
	)

	result := h.MustAnalyze(root, Options{})
	h.AssertDiagnosticCount(result.Diagnostics, 0)
}

// TestAnalyzeWhileLoopHittingCapReportsLoopCapExceeded covers a loop
// whose body keeps reassigning its condition variable to a freshly
// allocated value every iteration - the Scope snapshot never repeats,
// so Watch only stops at the hard cap, and that must be reported
// rather than accepted as a silent fixed point.
func TestAnalyzeWhileLoopHittingCapReportsLoopCapExceeded(t *testing.T) {
	h := NewTestHelper(t)
	root := Block(
		Assign(Ident("x"), IntLit(0)),
		While(
			Ident("x"),
			Block(Assign(Ident("x"), BinOp("+", Ident("x"), IntLit(1)))),
		),
	)

	result := h.MustAnalyze(root, Options{MaxLoopIterations: 3})
	h.AssertHasKind(result.Diagnostics, KindLoopCapExceeded)
}
