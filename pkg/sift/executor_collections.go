package sift

// listLiteralExecutor builds a collection object whose Elements has one
// chunk per source position, each chunk holding one Representant per
// world the corresponding element expression can evaluate to.
type listLiteralExecutor struct {
	typeName string
}

func (e listLiteralExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	typeAddr, ok := ctx.Knowledge.TypeAddress(e.typeName)
	if !ok {
		return ExecutionResult{}, NewInvariantError(ctx.Path.String(), "unregistered container type "+e.typeName)
	}

	var chunks []Chunk
	var deps []Address
	for _, child := range node.Children {
		res, err := Execute(ctx, child)
		if err != nil {
			return ExecutionResult{}, err
		}
		if res.Flow != FlowNormal {
			return res, nil
		}
		deps = append(deps, res.Dependencies...)

		var reps []Representant
		for _, be := range boundEntries(res.Result) {
			deps = append(deps, be.Addr)
			kind := be.Addr
			if obj, ok := ctx.Heap.Get(be.Addr); ok && len(obj.Extensions) > 0 {
				kind = obj.Extensions[0]
			}
			reps = append(reps, boundedRepresentant(be.Addr, kind))
		}
		if len(reps) > 0 {
			chunks = append(chunks, NewChunk(reps...))
		}
	}

	obj := NewObject()
	obj.Extensions = []Address{typeAddr}
	obj.Elements.Define(chunks)
	addr := ctx.Heap.Alloc(obj)

	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Result: SimpleMapping(ctx.Path, addr).ToOptional()}, nil
}

// indexExecutor reads node.Object[node.Index]. A literal integer index
// resolves precisely via Collection.GetElement; anything else falls back
// to GetAnyElement (spec.md 9, Open Question a - the same documented
// imprecision as Slice).
type indexExecutor struct{}

func (e indexExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	objRes, err := Execute(ctx, node.Object)
	if err != nil {
		return ExecutionResult{}, err
	}
	if objRes.Flow != FlowNormal {
		return objRes, nil
	}

	var out Mapping
	deps := append([]Address{}, objRes.Dependencies...)
	for _, be := range boundEntries(objRes.Result) {
		deps = append(deps, be.Addr)
		obj, ok := ctx.Heap.Get(be.Addr)
		if !ok {
			continue
		}
		if obj.Elements == nil || !indexableByType(ctx.Knowledge, obj) {
			if obj.Elements == nil && indexableByType(ctx.Knowledge, obj) {
				// Indexable by its type but with no Elements at all -
				// nothing to index into, so contribute nothing rather
				// than invent a result or flag an error.
				continue
			}
			ctx.Bus.Publish(Record{
				Kind:     KindIndexInvalid,
				Severity: SeverityError,
				Message:  "target of index expression does not support indexing",
				Loc:      node.Loc,
				Path:     be.Path,
			})
			continue
		}
		if node.Index != nil && node.Index.Kind == KindIntLiteral {
			if iv, ok := node.Index.Value.(int64); ok {
				idx := int(iv)
				if idx >= 0 {
					for _, br := range obj.Elements.Branches() {
						if !be.Path.Mergeable(br.Path) {
							continue
						}
						if _, max, known := br.MinMax(); known && idx >= max {
							ctx.Bus.Publish(Record{
								Kind:     KindOutOfBounds,
								Severity: SeverityWarning,
								Message:  "literal index is beyond this collection's maximum size",
								Loc:      node.Loc,
								Path:     be.Path,
							})
						}
					}
				}
				out = out.Union(obj.Elements.GetElement(idx, node.Loc))
				continue
			}
		}
		out = out.Union(obj.Elements.GetAnyElement(node.Loc))
	}

	result := out.ToOptional()
	if out.Len() == 0 {
		result = DefaultUnbound()
	}
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Result: result}, nil
}

// sliceExecutor computes node.Object[node.Left:node.Right]. Only literal
// integer bounds are resolved precisely; a dynamic bound falls back to
// returning the collection unchanged, the conservative (over-)approximation
// for an unknown cut point.
type sliceExecutor struct{}

func (e sliceExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	objRes, err := Execute(ctx, node.Object)
	if err != nil {
		return ExecutionResult{}, err
	}
	if objRes.Flow != FlowNormal {
		return objRes, nil
	}

	i, iKnown := literalInt(node.Left)
	j, jKnown := literalInt(node.Right)

	var out Mapping
	deps := append([]Address{}, objRes.Dependencies...)
	for _, be := range boundEntries(objRes.Result) {
		deps = append(deps, be.Addr)
		obj, ok := ctx.Heap.Get(be.Addr)
		if !ok || obj.Elements == nil {
			continue
		}
		result := obj.Elements
		if iKnown && jKnown {
			result = obj.Elements.Slice(i, j, node.Loc)
		}
		newObj := NewObject()
		newObj.Extensions = obj.Extensions
		newObj.Elements = result
		out = out.AddMapping(be.Path, ctx.Heap.Alloc(newObj))
	}

	res := out.ToOptional()
	if out.Len() == 0 {
		res = DefaultUnbound()
	}
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Result: res}, nil
}

// indexableByType reports whether obj's primary extension type was
// registered indexable (spec.md 6.1's string/list/map family), used to
// tell indexable objects from scalars such as ints, whose Elements are
// allocated but never filled.
func indexableByType(k *Knowledge, obj *Object) bool {
	if len(obj.Extensions) == 0 {
		return false
	}
	return k.IsIndexable(obj.Extensions[0])
}

func literalInt(n *Node) (int, bool) {
	if n == nil || n.Kind != KindIntLiteral {
		return 0, false
	}
	iv, ok := n.Value.(int64)
	return int(iv), ok
}

func init() {
	RegisterExecutor(KindListLiteral, listLiteralExecutor{typeName: "list"})
	RegisterExecutor(KindMapLiteral, listLiteralExecutor{typeName: "map"})
	RegisterExecutor(KindIndex, indexExecutor{})
	RegisterExecutor(KindSlice, sliceExecutor{})
}
