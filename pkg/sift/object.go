package sift

import "strings"

// Object is one heap entity: an ordered list of type-object addresses it
// extends, a Scope of attributes, a Collection of elements, and a flag
// marking it as itself a type object (spec.md 3).
type Object struct {
	Addr       Address
	Extensions []Address
	Attributes *Scope
	Elements   *Collection
	IsType     bool

	// Name is only meaningful when IsType is true: the type's own name,
	// used by TypeName/join(ext_names).
	Name string

	// FuncNode/Params are only meaningful on a callable object: the
	// function_def body to execute and the parameter names to bind
	// call-site arguments to, in order.
	FuncNode *Node
	Params   []string

	// Builtin names the stock function this object stands in for when it
	// has no FuncNode of its own (e.g. abs, round - core primitives with
	// no AST body to execute).
	Builtin string
}

// NewObject allocates an unaddressed object shell (Alloc on a Heap assigns
// the address); callers build it up before or after allocation.
func NewObject() *Object {
	return &Object{Attributes: NewScope(), Elements: NewCollection()}
}

// NewType builds a type object with the given name and ancestor extensions.
func NewType(name string, extensions ...Address) *Object {
	o := NewObject()
	o.IsType = true
	o.Name = name
	o.Extensions = extensions
	return o
}

// Ancestors performs a depth-first walk over obj's extensions, returning
// every reachable type address in MRO-like (declaration) order, used both
// for "common ancestor" queries on binary operations and for attribute
// lookup fallthrough.
func Ancestors(h *Heap, a Address) []Address {
	var out []Address
	seen := map[Address]bool{}
	var walk func(Address)
	walk = func(cur Address) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		out = append(out, cur)
		obj, ok := h.Get(cur)
		if !ok {
			return
		}
		for _, ext := range obj.Extensions {
			walk(ext)
		}
	}
	obj, ok := h.Get(a)
	if !ok {
		return nil
	}
	for _, ext := range obj.Extensions {
		walk(ext)
	}
	return out
}

// CommonAncestor returns the first address appearing in both ancestor
// lists (declaration order from the left operand), or false if the two
// objects share no extension. Used by binary-op resolution (spec.md 4.7).
func CommonAncestor(h *Heap, a, b Address) (Address, bool) {
	leftAncestors := append([]Address{a}, Ancestors(h, a)...)
	rightSet := map[Address]bool{b: true}
	for _, x := range Ancestors(h, b) {
		rightSet[x] = true
	}
	for _, anc := range leftAncestors {
		if rightSet[anc] {
			return anc, true
		}
	}
	return 0, false
}

// TypeName joins an object's extension names with " & "; for collection-
// like objects (non-string), element types are folded into
// name[t1, t2, ...] (spec.md 4.5).
func TypeName(h *Heap, a Address) string {
	obj, ok := h.Get(a)
	if !ok {
		return "?"
	}
	if obj.IsType {
		return obj.Name
	}
	obj.LiftBranches()
	names := make([]string, 0, len(obj.Extensions))
	isString := false
	for _, ext := range obj.Extensions {
		extObj, ok := h.Get(ext)
		name := "?"
		if ok {
			name = extObj.Name
		}
		names = append(names, name)
		if name == "string" {
			isString = true
		}
	}
	base := strings.Join(names, " & ")
	if isString || obj.Elements == nil {
		return base
	}
	elemNames := collectElementTypeNames(h, obj.Elements)
	if len(elemNames) == 0 {
		return base
	}
	return base + "[" + strings.Join(elemNames, ", ") + "]"
}

func collectElementTypeNames(h *Heap, c *Collection) []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range c.active() {
		for _, chunk := range b.Chunks {
			for _, r := range chunk.repsUnder(b.Path) {
				name := TypeName(h, r.KindAddr)
				if !seen[name] {
					seen[name] = true
					out = append(out, name)
				}
			}
		}
	}
	return out
}

// MergeUntil folds frames off both attributes and elements until each is
// back at cutoff depth. The two structures track independent cause
// chains (an object's attributes and elements can branch at different
// points), so each pops its own chain against the same cutoff rather
// than stepping in lockstep (spec.md 4.5, "Branch coordination").
func (o *Object) MergeUntil(cutoff Location) {
	o.Attributes.MergeUntil(cutoff)
	o.Elements.MergeUntil(cutoff)
}

// LiftBranches merges whichever of attributes/elements currently has the
// shallower frame stack up one level at a time, so neither runs ahead of
// the other by more than one branch point, until both are back at the
// root. Called by TypeName before reading Elements, so a type name
// computed mid-branch still reflects every world that's been resolved
// so far rather than a stale pre-merge snapshot.
func (o *Object) LiftBranches() {
	for o.Attributes.Depth() > 1 || o.Elements.Depth() > 1 {
		switch {
		case o.Attributes.Depth() > o.Elements.Depth():
			o.Attributes.mergeOneStep()
		case o.Elements.Depth() > 1:
			o.Elements.MergeBranches()
		default:
			o.Attributes.mergeOneStep()
		}
	}
}
