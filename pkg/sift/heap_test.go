package sift

import "testing"

// TestHeapMustGetReturnsLiveObject covers the happy path invariant 1
// guarantees at every MustGet call site.
func TestHeapMustGetReturnsLiveObject(t *testing.T) {
	h := NewHeap()
	obj := NewObject()
	addr := h.Alloc(obj)

	got := h.MustGet(addr)
	if got != obj {
		t.Fatalf("expected MustGet to return the allocated object, got %v", got)
	}
}

// TestHeapMustGetPanicsOnDanglingAddress covers the analyzer-fault path:
// an address nothing ever allocated should panic rather than silently
// hand back a zero-value Object.
func TestHeapMustGetPanicsOnDanglingAddress(t *testing.T) {
	h := NewHeap()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected MustGet to panic on a dangling address")
		}
		se, ok := r.(*SiftError)
		if !ok || se.Kind != InvariantError {
			t.Fatalf("expected a SiftError with InvariantError kind, got %v", r)
		}
	}()
	h.MustGet(Address(999))
}
