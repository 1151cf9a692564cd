package sift

import "testing"

// TestPathMergeableReflexive covers spec.md 8 property 1: every path is
// mergeable with itself, since each of its own nodes trivially agrees
// with itself on BranchIndex.
func TestPathMergeableReflexive(t *testing.T) {
	p := EmptyPath().Add(NewCondition(Location{1}, 0, 2)).Add(NewLoop(Location{1, 2}))
	if !p.Mergeable(p) {
		t.Fatalf("expected a path to be mergeable with itself")
	}
}

// TestPathMergeableSymmetric covers spec.md 8 property 1: Mergeable is
// symmetric regardless of which side conflicts.
func TestPathMergeableSymmetric(t *testing.T) {
	agree := EmptyPath().Add(NewCondition(Location{1}, 0, 2))
	conflict := EmptyPath().Add(NewCondition(Location{1}, 1, 2))

	if agree.Mergeable(conflict) != conflict.Mergeable(agree) {
		t.Fatalf("Mergeable must be symmetric: %v vs %v", agree.Mergeable(conflict), conflict.Mergeable(agree))
	}
	if agree.Mergeable(conflict) {
		t.Fatalf("conflicting branch indices at the same location must not be mergeable")
	}

	same := EmptyPath().Add(NewCondition(Location{1}, 0, 2))
	if agree.Mergeable(same) != same.Mergeable(agree) {
		t.Fatalf("Mergeable must be symmetric for the agreeing case too")
	}
	if !agree.Mergeable(same) {
		t.Fatalf("paths agreeing on every shared location must be mergeable")
	}
}

// TestPathMergeableSubsetStable covers spec.md 8 property 1: once two
// paths conflict, growing either side (adding more nodes, i.e. moving to
// a narrower, more specific world) can never repair the conflict - a
// superset of a non-mergeable path is itself non-mergeable with the same
// other path.
func TestPathMergeableSubsetStable(t *testing.T) {
	other := EmptyPath().Add(NewCondition(Location{1}, 1, 2))
	base := EmptyPath().Add(NewCondition(Location{1}, 0, 2))
	if base.Mergeable(other) {
		t.Fatalf("expected base to already conflict with other")
	}

	grown := base.Add(NewLoop(Location{1, 5}))
	if !grown.Contains(base) {
		t.Fatalf("grown must remain a superset of base")
	}
	if grown.Mergeable(other) {
		t.Fatalf("a superset of a non-mergeable path must remain non-mergeable")
	}
}

// TestPathContainsSubset exercises the subset relation Mergeable's
// stability argument depends on.
func TestPathContainsSubset(t *testing.T) {
	base := EmptyPath().Add(NewCondition(Location{1}, 0, 2))
	grown := base.Add(NewLoop(Location{1, 5}))

	if !grown.Contains(base) {
		t.Fatalf("expected grown to contain base")
	}
	if base.Contains(grown) {
		t.Fatalf("base must not contain the strictly larger grown path")
	}
}

// TestPathElementNeverConflicts covers spec.md 4.1: distinct element
// indices at the same location are different, non-conflicting worlds,
// not contradictory branch choices.
func TestPathElementNeverConflicts(t *testing.T) {
	first := EmptyPath().Add(NewElement(Location{3}, 0, 2))
	second := EmptyPath().Add(NewElement(Location{3}, 1, 2))
	if !first.Mergeable(second) {
		t.Fatalf("distinct element indices must never conflict")
	}
}

// TestPathAddSupersedesSameSlot covers the "assignment watermark at a
// previously-assigned location" case described on Path.Add: adding a new
// node at an already-occupied slot replaces the old one rather than
// duplicating it.
func TestPathAddSupersedesSameSlot(t *testing.T) {
	p := EmptyPath().Add(NewAssignment(Location{4}, "x"))
	if p.Len() != 1 {
		t.Fatalf("expected a single node, got %d", p.Len())
	}
	p = p.Add(NewAssignment(Location{4}, "y"))
	if p.Len() != 1 {
		t.Fatalf("expected the later assignment to supersede the earlier one, got %d nodes", p.Len())
	}
	if p.Nodes()[0].TargetRepr != "y" {
		t.Fatalf("expected the superseding node's TargetRepr, got %q", p.Nodes()[0].TargetRepr)
	}
}

// TestPathReverseEnumeratesSiblings covers Reverse's contract: for each
// branch/frame marker in the path, it emits the sibling variants - the
// worlds this path is not - used to check a branch set for
// exhaustiveness.
func TestPathReverseEnumeratesSiblings(t *testing.T) {
	p := EmptyPath().Add(NewCondition(Location{1}, 0, 3))
	siblings := p.Reverse()
	if len(siblings) != 2 {
		t.Fatalf("expected 2 sibling worlds out of a 3-way branch, got %d", len(siblings))
	}
	seen := map[int]bool{}
	for _, s := range siblings {
		seen[s.Nodes()[0].BranchIndex] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("expected sibling branch indices 1 and 2, got %v", siblings)
	}
}

// TestPathMergeIntoUnion covers the set-union contract of MergeInto.
func TestPathMergeIntoUnion(t *testing.T) {
	a := EmptyPath().Add(NewLoop(Location{1}))
	b := EmptyPath().Add(NewLoop(Location{2}))
	merged := a.MergeInto(b)
	if !merged.Contains(a) || !merged.Contains(b) {
		t.Fatalf("merged path must contain both inputs")
	}
	if merged.Len() != 2 {
		t.Fatalf("expected 2 distinct nodes, got %d", merged.Len())
	}
}
