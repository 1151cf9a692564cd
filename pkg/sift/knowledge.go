package sift

// Knowledge is the registry populated once at startup by Bootstrap
// (knowledge_bootstrap.go): type-name <-> address bidirectional map,
// subsets for iterable/indexable types, per-type set of supported
// operator strings, and named constants. It keeps no callable subset;
// the builtin Registry (registry.go) does not write to it. Grounded on
// pkg/graft/operator_registry.go's OperatorInfoRegistry table, generalized
// from "operator X accepts N args" to "type T supports operator O" - the
// same per-key metadata-table shape, keyed by type instead of by operator.
type Knowledge struct {
	heap *Heap

	nameToAddr map[string]Address
	addrToName map[Address]string

	iterable  map[Address]bool
	indexable map[Address]bool

	// operators[typeAddr] is the set of operator strings that type
	// directly supports (ancestors are consulted separately via
	// CommonAncestor/Ancestors).
	operators map[Address]map[string]bool

	constants map[string]Address
}

// NewKnowledge returns an empty Knowledge base bound to heap.
func NewKnowledge(heap *Heap) *Knowledge {
	return &Knowledge{
		heap:       heap,
		nameToAddr: map[string]Address{},
		addrToName: map[Address]string{},
		iterable:   map[Address]bool{},
		indexable:  map[Address]bool{},
		operators:  map[Address]map[string]bool{},
		constants:  map[string]Address{},
	}
}

// RegisterType allocates (or returns the existing) address for a named
// type, remembering the bidirectional mapping.
func (k *Knowledge) RegisterType(name string, extensions ...Address) Address {
	if a, ok := k.nameToAddr[name]; ok {
		return a
	}
	a := k.heap.Alloc(NewType(name, extensions...))
	k.nameToAddr[name] = a
	k.addrToName[a] = name
	k.operators[a] = map[string]bool{}
	return a
}

// TypeAddress looks up a registered type's address by name.
func (k *Knowledge) TypeAddress(name string) (Address, bool) {
	a, ok := k.nameToAddr[name]
	return a, ok
}

// TypeNameOf looks up a registered type's name by address.
func (k *Knowledge) TypeNameOf(a Address) (string, bool) {
	n, ok := k.addrToName[a]
	return n, ok
}

// MarkIterable/MarkIndexable classify a type as supporting the
// corresponding protocol.
func (k *Knowledge) MarkIterable(a Address)  { k.iterable[a] = true }
func (k *Knowledge) MarkIndexable(a Address) { k.indexable[a] = true }

// IsIterable/IsIndexable report whether a is (or inherits) classification,
// checking the type itself and its Ancestors.
func (k *Knowledge) IsIterable(a Address) bool  { return k.protocolHolds(a, k.iterable) }
func (k *Knowledge) IsIndexable(a Address) bool { return k.protocolHolds(a, k.indexable) }

func (k *Knowledge) protocolHolds(a Address, set map[Address]bool) bool {
	if set[a] {
		return true
	}
	for _, anc := range Ancestors(k.heap, a) {
		if set[anc] {
			return true
		}
	}
	return false
}

// SupportsOperator registers that typeAddr directly supports op.
func (k *Knowledge) SupportsOperator(typeAddr Address, op string) {
	if k.operators[typeAddr] == nil {
		k.operators[typeAddr] = map[string]bool{}
	}
	k.operators[typeAddr][op] = true
}

// OperatorSupported reports whether typeAddr (or one of its ancestors)
// supports op.
func (k *Knowledge) OperatorSupported(typeAddr Address, op string) bool {
	if k.operators[typeAddr][op] {
		return true
	}
	for _, anc := range Ancestors(k.heap, typeAddr) {
		if k.operators[anc][op] {
			return true
		}
	}
	return false
}

// DeepestCommonSupporting finds the deepest (most specific) common
// ancestor of a and b that supports op, per spec.md 4.7's binary-op rule.
// Returns false if no shared ancestor supports it.
func (k *Knowledge) DeepestCommonSupporting(a, b Address, op string) (Address, bool) {
	leftChain := append([]Address{a}, Ancestors(k.heap, a)...)
	rightSet := map[Address]bool{b: true}
	for _, x := range Ancestors(k.heap, b) {
		rightSet[x] = true
	}
	for _, anc := range leftChain {
		if rightSet[anc] && k.OperatorSupported(anc, op) {
			return anc, true
		}
	}
	return 0, false
}

// DefineConstant registers a named constant's address (True, False, None, ...).
func (k *Knowledge) DefineConstant(name string, a Address) {
	k.constants[name] = a
}

// Constant looks up a named constant's address.
func (k *Knowledge) Constant(name string) (Address, bool) {
	a, ok := k.constants[name]
	return a, ok
}

// Promote implements the "number -> float" promotion rule from spec.md
// 4.7's binary-op rule: if either operand's common ancestor resolves to
// the "number" type, the result type promotes to "float".
func (k *Knowledge) Promote(ancestor Address) Address {
	if name, ok := k.addrToName[ancestor]; ok && name == "number" {
		if f, ok := k.nameToAddr["float"]; ok {
			return f
		}
	}
	return ancestor
}
