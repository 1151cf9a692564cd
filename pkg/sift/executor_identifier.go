package sift

// identifierExecutor resolves a name against ctx.Globals under the
// current path; when the name is unbound on every path it falls back to
// the builtin of that name in ctx.Registry. Object attributes are not
// consulted. The OptionalMapping returned may include an unbound branch,
// per spec.md 4.4.
type identifierExecutor struct{}

func (e identifierExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	m := ctx.Globals.ResolveOptional(node.Name)
	m = m.Restrict(ctx.Path)
	ctx.Watch.StoreIdentifierDependency(node.Name, m)
	if m.IsAlwaysUnbound() && ctx.Registry != nil {
		if addr, ok := ctx.Registry.Resolve(node.Name); ok {
			return normalResult(SimpleMapping(ctx.Path, addr).ToOptional()), nil
		}
	}
	publishUnboundDiagnostic(ctx, node, KindIdentifierUnsafe, KindIdentifierInvalid,
		"\""+node.Name+"\" is not defined", m)
	return normalResult(m), nil
}

// publishUnboundDiagnostic inspects m's unbound alternatives and, if any
// exist, publishes unsafeKind (some paths unbound) or invalidKind (every
// path unbound), one record per unbound path - spec.md 4.7's "any path
// that resolves to unbound becomes an unsafe path (warning) or invalid
// (error, if present under every path)".
func publishUnboundDiagnostic(ctx *Context, node *Node, unsafeKind, invalidKind string, message string, m OptionalMapping) {
	_, unbound := m.Bound()
	if len(unbound) == 0 {
		return
	}
	kind := unsafeKind
	severity := SeverityWarning
	if m.IsAlwaysUnbound() {
		kind = invalidKind
		severity = SeverityError
	}
	for _, p := range unbound {
		ctx.Bus.Publish(Record{
			Kind:     kind,
			Severity: severity,
			Message:  message,
			Loc:      node.Loc,
			Path:     p,
		})
	}
}

// Restrict narrows an OptionalMapping to the entries Mergeable with the
// active path, matching Mapping.Restrict's semantics but operating over
// both the bound and always-unbound branches.
func (m OptionalMapping) Restrict(active Path) OptionalMapping {
	out := OptionalMapping{}
	for _, e := range m.entries {
		if active.Mergeable(e.path) {
			out.entries = append(out.entries, e)
		}
	}
	if len(out.entries) == 0 {
		return DefaultUnbound()
	}
	return out
}

// attributeExecutor evaluates node.Object, then for each path/address in
// its result looks up node.Name on that address's Attributes scope
// (climbing Ancestors on a miss), unioning the per-branch results back
// together.
type attributeExecutor struct{}

func (e attributeExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	objRes, err := Execute(ctx, node.Object)
	if err != nil {
		return ExecutionResult{}, err
	}
	if objRes.Flow != FlowNormal {
		return objRes, nil
	}

	out := OptionalMapping{}
	deps := append([]Address{}, objRes.Dependencies...)
	for _, be := range boundEntries(objRes.Result) {
		deps = append(deps, be.Addr)
		ctx.Watch.StoreObjectDependency(be.Addr)
		obj, ok := ctx.Heap.Get(be.Addr)
		if !ok {
			continue
		}
		sub := resolveAttribute(ctx.Heap, obj, node.Name)
		for _, e := range sub.Augment(NewAssignment(node.Loc, node.Name)).entries {
			e.path = be.Path.MergeInto(e.path)
			out.entries = append(out.entries, e)
		}
	}
	if len(out.entries) == 0 {
		out = DefaultUnbound()
	}
	publishUnboundDiagnostic(ctx, node, KindAttributeUnsafe, KindAttributeInvalid,
		"attribute \""+node.Name+"\" is not always defined on this object", out)
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Result: out}, nil
}

// resolveAttribute looks up name on obj's own Attributes, then on each
// ancestor's in declaration order, returning the first hit.
func resolveAttribute(h *Heap, obj *Object, name string) OptionalMapping {
	m := obj.Attributes.ResolveOptional(name)
	if !m.IsAlwaysUnbound() {
		return m
	}
	for _, anc := range obj.Extensions {
		ancObj, ok := h.Get(anc)
		if !ok {
			continue
		}
		m := resolveAttribute(h, ancObj, name)
		if !m.IsAlwaysUnbound() {
			return m
		}
	}
	return DefaultUnbound()
}

// boundEntry is one (path, address) pair of an OptionalMapping's bound
// side.
type boundEntry struct {
	Path Path
	Addr Address
}

// boundEntries yields the (path, address) pairs of an OptionalMapping's
// bound side, skipping unbound branches. Path isn't comparable (it wraps
// a slice), so these are returned as a slice rather than a map.
func boundEntries(m OptionalMapping) []boundEntry {
	var out []boundEntry
	bound, _ := m.Bound()
	bound.Each(func(p Path, a Address) {
		out = append(out, boundEntry{Path: p, Addr: a})
	})
	return out
}

func init() {
	RegisterExecutor(KindIdentifier, identifierExecutor{})
	RegisterExecutor(KindAttribute, attributeExecutor{})
}
