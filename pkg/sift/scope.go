package sift

// scopeFrame is one world-slot in the Scope tree: it carries the PathNode
// that caused it, an optional parent frame index, and a name -> binding
// table. Consumed by merge (spec.md 4.4).
type scopeFrame struct {
	cause    PathNode
	hasCause bool
	parent   int // -1 for the root frame
	bindings map[string]OptionalMapping
}

// Scope is a tree of Frames with a cursor selecting the active leaf.
// Identifier resolution climbs parents until a binding is found; the
// default is a singleton mapping to "unbound" (spec.md 4.4). Grounded on
// pkg/graft/evaluator.go's push/walk/pop discipline around a *tree.Cursor,
// generalized from one mutable cursor into a full frame tree so sibling
// branches can be merged back together instead of being overwritten.
type Scope struct {
	frames    []scopeFrame
	active    int
	constants map[string]bool
}

// NewScope returns a scope with a single root frame and no bindings.
func NewScope() *Scope {
	return &Scope{
		frames:    []scopeFrame{{parent: -1, bindings: map[string]OptionalMapping{}}},
		active:    0,
		constants: map[string]bool{},
	}
}

// MarkConstant rejects future rebinding of name (silently, per spec.md
// 4.4 - "a diagnostic is emitted at the call site of the constant
// registration, not inside Scope").
func (s *Scope) MarkConstant(name string) {
	s.constants[name] = true
}

// IsConstant reports whether name was registered constant.
func (s *Scope) IsConstant(name string) bool {
	return s.constants[name]
}

// ResolveOptional climbs the active frame's ancestors looking for name.
// The first frame that binds it wins; no binding anywhere yields the
// default unbound singleton.
func (s *Scope) ResolveOptional(name string) OptionalMapping {
	for f := s.active; f != -1; f = s.frames[f].parent {
		if m, ok := s.frames[f].bindings[name]; ok {
			return m
		}
	}
	return DefaultUnbound()
}

// Depth reports how many frames are active (unmerged) from the root along
// the current cursor, used by Object.LiftBranches to keep attributes and
// elements progressing in lockstep.
func (s *Scope) Depth() int {
	depth := 0
	for f := s.active; f != -1; f = s.frames[f].parent {
		depth++
	}
	return depth
}

// ensureFrame walks the Path from the active frame, creating sibling
// frames for any node not yet materialized in the chain, and returns the
// index of the leaf frame for that path.
func (s *Scope) ensureFrame(path Path) int {
	cur := s.active
	for _, n := range path.Nodes() {
		found := -1
		for f := cur; f != -1; f = s.frames[f].parent {
			if s.frames[f].hasCause && s.frames[f].cause.Equal(n) {
				found = f
				break
			}
			if s.frames[f].parent == -1 {
				break
			}
		}
		if found != -1 {
			cur = found
			continue
		}
		s.frames = append(s.frames, scopeFrame{
			cause:    n,
			hasCause: true,
			parent:   cur,
			bindings: map[string]OptionalMapping{},
		})
		cur = len(s.frames) - 1
	}
	return cur
}

// Set walks the incoming path, materializing sibling frames as needed, and
// writes mapping into the leaf for that path. Rebinding a name marked
// constant is rejected silently.
func (s *Scope) Set(name string, path Path, mapping OptionalMapping) {
	if s.constants[name] {
		return
	}
	leaf := s.ensureFrame(path)
	s.frames[leaf].bindings[name] = mapping
}

// PushFrame creates and activates a new child frame under cause, returning
// its index so the caller can ChangeBranch back to a sibling later.
func (s *Scope) PushFrame(cause PathNode) int {
	s.frames = append(s.frames, scopeFrame{
		cause:    cause,
		hasCause: true,
		parent:   s.active,
		bindings: map[string]OptionalMapping{},
	})
	s.active = len(s.frames) - 1
	return s.active
}

// MergeBranches folds the two deepest sibling frames (a, b) back into
// their shared parent: for every name either side binds, it builds a
// combined OptionalMapping by appending each side's cause node onto the
// existing path of that side's bindings, then writes the combination into
// the parent. Names absent from one side inherit the pre-existing
// ancestor binding under the unassigned branch's label, preserving the
// possibility that the name remains unbound after merge.
func (s *Scope) MergeBranches(a, b int) int {
	parent := s.frames[a].parent
	if s.frames[b].parent != parent {
		panic(&SiftError{Kind: InvariantError, Message: "merge_branches on non-siblings"})
	}

	names := map[string]bool{}
	for n := range s.frames[a].bindings {
		names[n] = true
	}
	for n := range s.frames[b].bindings {
		names[n] = true
	}

	s.active = parent
	for name := range names {
		aSide := s.bindingOrInherit(a, name)
		bSide := s.bindingOrInherit(b, name)
		combined := aSide.Augment(s.frames[a].cause).Union(bSide.Augment(s.frames[b].cause))
		s.frames[parent].bindings[name] = combined
	}
	return parent
}

// MergeSiblings folds an arbitrary number of sibling frames (all sharing
// one parent) back into that parent in a single pass, the N-ary
// generalization of MergeBranches - needed when a call site resolves to
// more than two distinct callables and each gets its own frame.
func (s *Scope) MergeSiblings(frames []int) int {
	if len(frames) == 0 {
		return s.active
	}
	parent := s.frames[frames[0]].parent
	for _, f := range frames[1:] {
		if s.frames[f].parent != parent {
			panic(&SiftError{Kind: InvariantError, Message: "merge_siblings on non-siblings"})
		}
	}

	names := map[string]bool{}
	for _, f := range frames {
		for n := range s.frames[f].bindings {
			names[n] = true
		}
	}

	s.active = parent
	for name := range names {
		var combined OptionalMapping
		for _, f := range frames {
			side := s.bindingOrInherit(f, name).Augment(s.frames[f].cause)
			combined = combined.Union(side)
		}
		s.frames[parent].bindings[name] = combined
	}
	return parent
}

// bindingOrInherit returns frame f's own binding for name if present,
// otherwise the ancestor binding (what the name resolves to from f's
// parent outward) - used so an unassigned branch still contributes its
// pre-existing possibility to a merge.
func (s *Scope) bindingOrInherit(f int, name string) OptionalMapping {
	if m, ok := s.frames[f].bindings[name]; ok {
		return m
	}
	saved := s.active
	s.active = s.frames[f].parent
	m := s.ResolveOptional(name)
	s.active = saved
	return m
}

// Siblings returns every frame directly parented by parent, in creation
// order. Frames pushed off the same branch point (Grow/PushFrame pairs)
// show up here together; a frame reused by ensureFrame for an unrelated
// cause at the same parent also counts, which is harmless since
// MergeBranches folds bindings regardless of how many sides contributed.
func (s *Scope) Siblings(parent int) []int {
	var out []int
	for i, f := range s.frames {
		if f.parent == parent && f.hasCause {
			out = append(out, i)
		}
	}
	return out
}

// mergeOneStep folds the active frame's sibling group into their shared
// parent and moves the cursor there, reducing Depth by one. With fewer
// than two siblings there is nothing to fold and the cursor simply moves
// to the parent. Only at the root is it a no-op (it returns false).
func (s *Scope) mergeOneStep() bool {
	f := s.active
	if !s.frames[f].hasCause {
		return false
	}
	parent := s.frames[f].parent
	sibs := s.Siblings(parent)
	if len(sibs) < 2 {
		s.active = parent
		return true
	}
	merged := sibs[0]
	for _, other := range sibs[1:] {
		merged = s.MergeBranches(merged, other)
	}
	s.active = merged
	return true
}

// MergeUntil pops frames along the active chain, merging sibling groups
// into their parents, until the active frame's cause sits at or above
// cutoff (or the root is reached). Mirrors Collection.MergeUntil so the
// two structures can be driven in lockstep by Object.MergeUntil.
func (s *Scope) MergeUntil(cutoff Location) {
	for {
		f := s.active
		if !s.frames[f].hasCause {
			return
		}
		if s.frames[f].cause.Loc.compare(cutoff) <= 0 {
			return
		}
		if !s.mergeOneStep() {
			return
		}
	}
}

// Active returns the index of the currently active frame.
func (s *Scope) Active() int {
	return s.active
}

// SetActive restores the cursor to a previously recorded frame index.
func (s *Scope) SetActive(f int) {
	s.active = f
}

// Snapshot captures every currently-resolvable name's binding, for the
// branch/merge-identity testable property (spec.md 8, property 4).
func (s *Scope) Snapshot(names []string) map[string]OptionalMapping {
	out := map[string]OptionalMapping{}
	for _, n := range names {
		out[n] = s.ResolveOptional(n)
	}
	return out
}
