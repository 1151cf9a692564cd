package sift

import "testing"

func init() {
	RegisterBuiltin("__test_only_registry_probe__", func(h *Heap) *Object {
		return NewObject()
	})
}

// TestRegistryResolveIsLazyAndCached covers the laziness contract
// Registry.Resolve/IsResolved document: a registered builtin is visible
// (Names lists it) before it's ever instantiated, and only becomes
// IsResolved after the first Resolve call, which then caches the
// address for subsequent calls.
func TestRegistryResolveIsLazyAndCached(t *testing.T) {
	r := NewRegistry(NewHeap())

	found := false
	for _, n := range r.Names() {
		if n == "__test_only_registry_probe__" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Names to list the registered builtin before it's resolved")
	}
	if r.IsResolved("__test_only_registry_probe__") {
		t.Fatalf("expected the builtin to be unresolved before the first Resolve call")
	}

	addr1, ok := r.Resolve("__test_only_registry_probe__")
	if !ok {
		t.Fatalf("expected Resolve to find the registered builtin")
	}
	if !r.IsResolved("__test_only_registry_probe__") {
		t.Fatalf("expected the builtin to be resolved after Resolve")
	}

	addr2, ok := r.Resolve("__test_only_registry_probe__")
	if !ok || addr2 != addr1 {
		t.Fatalf("expected a second Resolve to return the cached address, got %v (ok=%v) vs %v", addr2, ok, addr1)
	}
}

// TestRegistryResolveUnknownName covers the miss path.
func TestRegistryResolveUnknownName(t *testing.T) {
	r := NewRegistry(NewHeap())
	if _, ok := r.Resolve("__definitely_not_registered__"); ok {
		t.Fatalf("expected resolving an unregistered name to fail")
	}
}
