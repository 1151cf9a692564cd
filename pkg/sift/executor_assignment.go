package sift

// assignmentExecutor evaluates the right-hand side, then writes the
// result into the left-hand target: a plain identifier goes into
// ctx.Globals; an attribute target goes into the addressed object's own
// Attributes scope under every world the object resolves to.
type assignmentExecutor struct{}

func (e assignmentExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	rhs, err := Execute(ctx, node.Right)
	if err != nil {
		return ExecutionResult{}, err
	}
	if rhs.Flow != FlowNormal {
		return rhs, nil
	}

	watermark := NewAssignment(node.Loc, node.Target.Name)
	stamped := rhs.Result.Augment(watermark)

	switch node.Target.Kind {
	case KindIdentifier:
		ctx.Globals.Set(node.Target.Name, ctx.Path, stamped)
		ctx.Watch.StoreIdentifierChange(node.Target.Name, ctx.Path, stamped)
	case KindAttribute:
		objRes, err := Execute(ctx, node.Target.Object)
		if err != nil {
			return ExecutionResult{}, err
		}
		for _, be := range boundEntries(objRes.Result) {
			obj, ok := ctx.Heap.Get(be.Addr)
			if !ok {
				continue
			}
			obj.Attributes.Set(node.Target.Name, ctx.Path, stamped)
			ctx.Watch.StoreObjectChange(be.Addr, ctx.Path)
		}
	case KindIndex:
		objRes, err := Execute(ctx, node.Target.Object)
		if err != nil {
			return ExecutionResult{}, err
		}
		for _, be := range boundEntries(objRes.Result) {
			obj, ok := ctx.Heap.Get(be.Addr)
			if !ok {
				continue
			}
			if obj.Elements == nil {
				ctx.Bus.Publish(Record{
					Kind:     KindInsertInvalid,
					Severity: SeverityError,
					Message:  "target of index assignment does not support item insertion",
					Loc:      node.Loc,
					Path:     be.Path,
				})
				continue
			}
			before := TypeName(ctx.Heap, be.Addr)
			var reps []Representant
			for _, se := range boundEntries(stamped) {
				kind := se.Addr
				if sobj, ok := ctx.Heap.Get(se.Addr); ok && len(sobj.Extensions) > 0 {
					kind = sobj.Extensions[0]
				}
				reps = append(reps, boundedRepresentant(se.Addr, kind))
			}
			if len(reps) == 0 {
				continue
			}
			obj.Elements.Insert(NewChunk(reps...))
			ctx.Watch.StoreObjectChange(be.Addr, ctx.Path)
			if after := TypeName(ctx.Heap, be.Addr); after != before {
				ctx.Bus.Publish(Record{
					Kind:     KindHeteroCollection,
					Severity: SeverityWarning,
					Message:  "indexed insertion changes this collection's element type from " + before + " to " + after,
					Loc:      node.Loc,
					Path:     be.Path,
				})
			}
		}
	default:
		return ExecutionResult{}, NewLoadError("unsupported assignment target kind "+string(node.Target.Kind), nil)
	}

	return ExecutionResult{Flow: FlowNormal, Dependencies: rhs.Dependencies, Changes: stamped.Addresses(), Result: stamped}, nil
}

// Addresses returns the distinct bound addresses of an OptionalMapping,
// mirroring Mapping.Addresses for callers that only have the optional
// form in hand.
func (m OptionalMapping) Addresses() []Address {
	bound, _ := m.Bound()
	return bound.Addresses()
}

func init() {
	RegisterExecutor(KindAssignment, assignmentExecutor{})
}
