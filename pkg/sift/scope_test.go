package sift

import "testing"

// TestScopeResolveClimbsToRoot covers the default-unbound contract: a
// name nobody ever bound resolves to DefaultUnbound() from any frame.
func TestScopeResolveClimbsToRoot(t *testing.T) {
	s := NewScope()
	child := s.PushFrame(NewLoop(Location{1}))
	s.SetActive(child)

	m := s.ResolveOptional("never_bound")
	if !m.IsAlwaysUnbound() {
		t.Fatalf("expected an unbound name to resolve to the default-unbound mapping")
	}
}

// TestScopeSetThenResolve covers the basic bind/resolve round trip.
func TestScopeSetThenResolve(t *testing.T) {
	s := NewScope()
	s.Set("x", EmptyPath(), SimpleOptional(EmptyPath(), Address(42)))

	mapping, unbound := s.ResolveOptional("x").Bound()
	if mapping.Len() != 1 || len(unbound) != 0 {
		t.Fatalf("expected x to resolve bound to address 42, got mapping=%d unbound=%d", mapping.Len(), len(unbound))
	}
	if mapping.Addresses()[0] != Address(42) {
		t.Fatalf("expected address 42, got %v", mapping.Addresses())
	}
}

// TestScopeMarkConstantRejectsRebinding covers spec.md 4.4's silent
// constant-rebind rejection (the diagnostic is emitted by the caller,
// not by Scope itself).
func TestScopeMarkConstantRejectsRebinding(t *testing.T) {
	s := NewScope()
	s.Set("PI", EmptyPath(), SimpleOptional(EmptyPath(), Address(1)))
	if s.IsConstant("PI") {
		t.Fatalf("expected PI to not be constant before MarkConstant")
	}
	s.MarkConstant("PI")
	if !s.IsConstant("PI") {
		t.Fatalf("expected PI to be constant after MarkConstant")
	}
	s.Set("PI", EmptyPath(), SimpleOptional(EmptyPath(), Address(2)))

	mapping, _ := s.ResolveOptional("PI").Bound()
	if mapping.Addresses()[0] != Address(1) {
		t.Fatalf("expected rebinding a constant to be silently rejected, got address %v", mapping.Addresses())
	}
}

// TestScopeBranchMergeIdentity covers spec.md 8 property 4
// (branch/merge identity): binding a name differently down two sibling
// branches and merging them back must yield exactly the union of both
// sides, each stamped with its own branch's cause marker, and resolving
// the name from the merged parent must recover both addresses.
func TestScopeBranchMergeIdentity(t *testing.T) {
	s := NewScope()
	root := s.Active()

	condA := NewCondition(Location{1}, 0, 2)
	condB := NewCondition(Location{1}, 1, 2)

	a := s.PushFrame(condA)
	s.Set("x", EmptyPath(), SimpleOptional(EmptyPath(), Address(10)))

	s.SetActive(root)
	b := s.PushFrame(condB)
	s.Set("x", EmptyPath(), SimpleOptional(EmptyPath(), Address(20)))

	parent := s.MergeBranches(a, b)
	s.SetActive(parent)

	mapping, unbound := s.ResolveOptional("x").Bound()
	if len(unbound) != 0 {
		t.Fatalf("expected both branches bound, got %d unbound alternatives", len(unbound))
	}
	addrs := mapping.Addresses()
	if len(addrs) != 2 {
		t.Fatalf("expected both branch addresses to survive the merge, got %v", addrs)
	}
	seen := map[Address]bool{}
	for _, a := range addrs {
		seen[a] = true
	}
	if !seen[Address(10)] || !seen[Address(20)] {
		t.Fatalf("expected addresses 10 and 20 in the merged mapping, got %v", addrs)
	}
}

// TestScopeMergeBranchesInheritsUnassignedSide covers the "names absent
// from one side inherit the pre-existing ancestor binding" rule: if only
// one branch assigns a name, the merged result still carries the
// possibility that the name remains whatever it resolved to before the
// branch (unbound, here), not just the assigning side's value.
func TestScopeMergeBranchesInheritsUnassignedSide(t *testing.T) {
	s := NewScope()
	root := s.Active()

	condA := NewCondition(Location{1}, 0, 2)
	condB := NewCondition(Location{1}, 1, 2)

	a := s.PushFrame(condA)
	s.Set("y", EmptyPath(), SimpleOptional(EmptyPath(), Address(99)))

	s.SetActive(root)
	b := s.PushFrame(condB)
	// branch b never assigns y

	parent := s.MergeBranches(a, b)
	s.SetActive(parent)

	mapping, unbound := s.ResolveOptional("y").Bound()
	if mapping.Len() != 1 {
		t.Fatalf("expected the assigning branch's value to survive, got %d bound alternatives", mapping.Len())
	}
	if len(unbound) != 1 {
		t.Fatalf("expected the non-assigning branch to contribute an unbound alternative, got %d", len(unbound))
	}
}

// TestScopeMergeUntilReachesCutoff covers the frame-popping loop used to
// keep Scope and Collection progressing in lockstep across a watched
// boundary.
func TestScopeMergeUntilReachesCutoff(t *testing.T) {
	s := NewScope()
	root := s.Active()

	a := s.PushFrame(NewCondition(Location{5}, 0, 2))
	s.SetActive(root)
	s.PushFrame(NewCondition(Location{5}, 1, 2))
	s.SetActive(a)

	s.MergeUntil(Location{1})
	if s.Depth() != 1 {
		t.Fatalf("expected MergeUntil to collapse back to the root frame, depth=%d", s.Depth())
	}
}
