package sift

import "testing"

// TestMappingAugmentMonotone covers spec.md 8 property 2: Augment never
// changes the number of alternatives, it only extends every entry's path.
func TestMappingAugmentMonotone(t *testing.T) {
	m := SimpleMapping(EmptyPath(), Address(1)).AddMapping(EmptyPath(), Address(2))
	augmented := m.Augment(NewLoop(Location{1}))
	if augmented.Len() != m.Len() {
		t.Fatalf("Augment must preserve Len: before=%d after=%d", m.Len(), augmented.Len())
	}

	var paths []Path
	augmented.Each(func(p Path, _ Address) { paths = append(paths, p) })
	for _, p := range paths {
		if p.Len() == 0 {
			t.Fatalf("expected every augmented entry to carry the new marker")
		}
	}
}

// TestMappingUnionLen covers the disjunction contract: Union never drops
// or folds entries.
func TestMappingUnionLen(t *testing.T) {
	a := SimpleMapping(EmptyPath(), Address(1))
	b := SimpleMapping(EmptyPath(), Address(2))
	u := a.Union(b)
	if u.Len() != 2 {
		t.Fatalf("expected 2 entries after union, got %d", u.Len())
	}
}

// TestMappingAddresses covers de-duplication of Addresses() across
// entries reached by distinct paths.
func TestMappingAddresses(t *testing.T) {
	p1 := EmptyPath().Add(NewCondition(Location{1}, 0, 2))
	p2 := EmptyPath().Add(NewCondition(Location{1}, 1, 2))
	m := SimpleMapping(p1, Address(9)).AddMapping(p2, Address(9))
	addrs := m.Addresses()
	if len(addrs) != 1 || addrs[0] != Address(9) {
		t.Fatalf("expected a single deduplicated address, got %v", addrs)
	}
}

// TestOptionalMappingBoundSplitsByBound covers spec.md 4.4's
// bound/unbound split used to distinguish IDENTIFIER_UNSAFE from
// IDENTIFIER_INVALID.
func TestOptionalMappingBoundSplitsByBound(t *testing.T) {
	boundPath := EmptyPath().Add(NewCondition(Location{1}, 0, 2))
	unboundPath := EmptyPath().Add(NewCondition(Location{1}, 1, 2))
	om := SimpleOptional(boundPath, Address(5)).Union(SimpleUnbound(unboundPath))

	mapping, unbound := om.Bound()
	if mapping.Len() != 1 {
		t.Fatalf("expected exactly one bound alternative, got %d", mapping.Len())
	}
	if len(unbound) != 1 {
		t.Fatalf("expected exactly one unbound path, got %d", len(unbound))
	}
}

// TestOptionalMappingIsAlwaysUnbound covers the DefaultUnbound singleton
// and the all-unbound detection IDENTIFIER_UNSAFE relies on.
func TestOptionalMappingIsAlwaysUnbound(t *testing.T) {
	if !DefaultUnbound().IsAlwaysUnbound() {
		t.Fatalf("DefaultUnbound must always report unbound")
	}

	boundPath := EmptyPath().Add(NewCondition(Location{1}, 0, 2))
	mixed := DefaultUnbound().Union(SimpleOptional(boundPath, Address(1)))
	if mixed.IsAlwaysUnbound() {
		t.Fatalf("a mapping with at least one bound alternative must not report always-unbound")
	}
}

// TestOptionalMappingAugmentPreservesBound covers Augment's interaction
// with the bound flag: extending the path must never flip bound/unbound.
func TestOptionalMappingAugmentPreservesBound(t *testing.T) {
	om := SimpleOptional(EmptyPath(), Address(3)).Augment(NewLoop(Location{2}))
	mapping, unbound := om.Bound()
	if mapping.Len() != 1 || len(unbound) != 0 {
		t.Fatalf("Augment must not change boundness, got mapping=%d unbound=%d", mapping.Len(), len(unbound))
	}
}
