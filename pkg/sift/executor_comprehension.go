package sift

// comprehensionExecutor evaluates "[Body for Name in Iter if Cond]": it
// binds Name to the iterable's element mapping under a Loop marker,
// evaluates the optional Cond (for dependency tracking only - the
// comprehension's size is unknown regardless of which way Cond goes) and
// Body, then wraps Body's possible result kinds into a single unbounded
// chunk (spec.md 4.3 - a comprehension's length is never known
// precisely, so every produced element is modeled as "zero or more").
type comprehensionExecutor struct{}

func (e comprehensionExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	iterRes, err := Execute(ctx, node.Iter)
	if err != nil {
		return ExecutionResult{}, err
	}
	if iterRes.Flow != FlowNormal {
		return iterRes, nil
	}

	parent := ctx.Globals.Active()
	cause := NewLoop(node.Loc)
	frame := ctx.Globals.PushFrame(cause)
	loopCtx := ctx.WithPath(ctx.Path.Add(cause))

	var elemMapping OptionalMapping
	for _, be := range boundEntries(iterRes.Result) {
		obj, ok := ctx.Heap.Get(be.Addr)
		if !ok || obj.Elements == nil {
			continue
		}
		elemMapping = elemMapping.Union(obj.Elements.GetAnyElement(node.Loc).ToOptional())
	}
	loopCtx.Globals.Set(node.Name, loopCtx.Path, elemMapping)

	if node.Cond != nil {
		if _, err := Execute(loopCtx, node.Cond); err != nil {
			return ExecutionResult{}, err
		}
	}

	bodyRes, err := Execute(loopCtx, node.Body)
	if err != nil {
		return ExecutionResult{}, err
	}

	ctx.Globals.SetActive(frame)
	ctx.Globals.MergeUntil(cause.Loc)
	ctx.Globals.SetActive(parent)

	listType, ok := ctx.Knowledge.TypeAddress("list")
	if !ok {
		return ExecutionResult{}, NewInvariantError(ctx.Path.String(), "list type not registered")
	}

	var reps []Representant
	for _, be := range boundEntries(bodyRes.Result) {
		kind := be.Addr
		if obj, ok := ctx.Heap.Get(be.Addr); ok && len(obj.Extensions) > 0 {
			kind = obj.Extensions[0]
		}
		reps = append(reps, unboundedRepresentant(be.Addr, kind))
	}

	obj := NewObject()
	obj.Extensions = []Address{listType}
	if len(reps) > 0 {
		obj.Elements.Define([]Chunk{NewChunk(reps...)})
	}
	addr := ctx.Heap.Alloc(obj)

	deps := append(append([]Address{}, iterRes.Dependencies...), bodyRes.Dependencies...)
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Result: SimpleMapping(ctx.Path, addr).ToOptional()}, nil
}

func init() {
	RegisterExecutor(KindComprehension, comprehensionExecutor{})
}
