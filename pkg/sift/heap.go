package sift

import "sync/atomic"

// Address is a monotonically assigned nonnegative integer identifying one
// object in the heap. Addresses are never reused (spec.md 3).
type Address uint64

// Heap is an address-keyed arena of Objects: the core's only owner of
// Object values, matching spec.md 9's "cyclic references... use an
// address-indexed heap (arena) and keep every inter-object link as an
// Address". Grounded on the teacher's address-free map[interface{}]interface{}
// tree (pkg/graft/document.go); sift needs addresses because distinct
// allocations under different paths must stay distinguishable.
type Heap struct {
	counter uint64
	objects map[Address]*Object

	// AliasingEnabled gates the pointer-chain equivalence mechanism
	// (spec.md 9, Open Question b): wired but, by default, not exercised
	// by any executor rule.
	AliasingEnabled bool
	chain           map[Address]Address
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{objects: map[Address]*Object{}, chain: map[Address]Address{}}
}

// Alloc allocates a fresh object and returns its address. Address
// monotonicity (invariant 4) is preserved: the counter never regresses.
func (h *Heap) Alloc(obj *Object) Address {
	a := Address(atomic.AddUint64(&h.counter, 1))
	obj.Addr = a
	h.objects[a] = obj
	return a
}

// Get resolves an address to its Object, following the pointer chain when
// aliasing is enabled. Panics with a SiftError-wrapped message is avoided;
// callers receive (nil, false) for a dangling address, which is always an
// analyzer fault (invariant 1) and should be surfaced as one, not silently
// swallowed.
func (h *Heap) Get(a Address) (*Object, bool) {
	a = h.resolve(a)
	obj, ok := h.objects[a]
	return obj, ok
}

// MustGet resolves an address or panics with an analyzer fault - used at
// call sites where invariant 1 guarantees the address is live.
func (h *Heap) MustGet(a Address) *Object {
	obj, ok := h.Get(a)
	if !ok {
		panic(&SiftError{Kind: InvariantError, Message: "dangling address", Path: Address(a).String()})
	}
	return obj
}

// Alias declares address b equivalent to the (necessarily smaller) address
// a. Lookups of b then follow the chain to a. The chain must be acyclic:
// Alias panics if it would create a cycle or regress monotonicity.
func (h *Heap) Alias(b, a Address) {
	if !h.AliasingEnabled {
		return
	}
	if a >= b {
		panic(&SiftError{Kind: InvariantError, Message: "pointer chain must strictly decrease"})
	}
	h.chain[b] = a
}

func (h *Heap) resolve(a Address) Address {
	if !h.AliasingEnabled {
		return a
	}
	seen := map[Address]bool{}
	for {
		next, ok := h.chain[a]
		if !ok {
			return a
		}
		if seen[next] {
			panic(&SiftError{Kind: InvariantError, Message: "cyclic pointer chain"})
		}
		seen[next] = true
		a = next
	}
}

// Len reports the number of live objects.
func (h *Heap) Len() int {
	return len(h.objects)
}

func (a Address) String() string {
	return uintToString(uint64(a))
}

func uintToString(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
