package sift

// callExecutor evaluates the callee and arguments, then for each
// distinct callable object the callee might resolve to, runs that
// function's body under its own Frame path marker with parameters bound
// to the call-site arguments, folding the per-callee results back
// together afterward. A non-callable callee (no FuncNode and no Builtin) is skipped
// with a diagnostic rather than aborting the whole call.
type callExecutor struct{}

// mutatorMethods names container methods handled directly against the
// receiver's Elements rather than resolved as an ordinary attribute -
// spec.md 6.1's `mutable_sequence` insert family has no Python-visible
// function object to call, so callExecutor special-cases them the way
// executor_assignment.go special-cases index-target writes.
var mutatorMethods = map[string]bool{"append": true, "insert": true, "prepend": true}

func (e callExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	if node.Target.Kind == KindAttribute && mutatorMethods[node.Target.Name] {
		if res, handled, err := executeMutatorCall(ctx, node); handled {
			return res, err
		}
	}

	calleeRes, err := Execute(ctx, node.Target)
	if err != nil {
		return ExecutionResult{}, err
	}
	if calleeRes.Flow != FlowNormal {
		return calleeRes, nil
	}

	argResults := make([]ExecutionResult, len(node.Children))
	deps := append([]Address{}, calleeRes.Dependencies...)
	for i, a := range node.Children {
		res, err := Execute(ctx, a)
		if err != nil {
			return ExecutionResult{}, err
		}
		if res.Flow != FlowNormal {
			return res, nil
		}
		argResults[i] = res
		deps = append(deps, res.Dependencies...)
	}

	callees := boundEntries(calleeRes.Result)
	if len(callees) == 0 {
		ctx.Bus.Publish(Record{
			Kind:     KindIdentifierInvalid,
			Severity: SeverityError,
			Message:  "call target is never bound to a value",
			Loc:      node.Loc,
			Path:     ctx.Path,
		})
		return normalResult(DefaultUnbound(), deps...), nil
	}

	parent := ctx.Globals.Active()
	var frames []int
	var returns OptionalMapping
	var changes []Address

	for i, callee := range callees {
		obj, ok := ctx.Heap.Get(callee.Addr)
		if !ok || (obj.FuncNode == nil && obj.Builtin == "") {
			ctx.Bus.Publish(Record{
				Kind:     KindArgumentInvalid,
				Severity: SeverityError,
				Message:  "called value is not a function",
				Loc:      node.Loc,
				Path:     callee.Path,
			})
			continue
		}

		if obj.FuncNode == nil {
			// Builtin primitive: no AST body to execute, so approximate
			// its result as a fresh "number" value rather than modeling
			// each stock function's own semantics.
			numType, ok := ctx.Knowledge.TypeAddress("number")
			if !ok {
				return ExecutionResult{}, NewInvariantError(ctx.Path.String(), "number type not registered")
			}
			resObj := NewObject()
			resObj.Extensions = []Address{numType}
			resAddr := ctx.Heap.Alloc(resObj)
			returns = returns.Union(SimpleMapping(ctx.Path, resAddr).ToOptional())
			continue
		}

		cause := NewFrame(node.Loc, obj.Name, i, len(callees))
		ctx.Globals.SetActive(parent)
		frame := ctx.Globals.PushFrame(cause)
		frames = append(frames, frame)
		callCtx := ctx.WithPath(ctx.Path.Add(cause)).PushCall(obj.Name)

		for pi, pname := range obj.Params {
			var argMapping OptionalMapping
			if pi < len(argResults) {
				argMapping = argResults[pi].Result
			} else {
				argMapping = DefaultUnbound()
			}
			callCtx.Globals.Set(pname, callCtx.Path, argMapping)
		}

		bodyRes, err := Execute(callCtx, obj.FuncNode)
		if err != nil {
			return ExecutionResult{}, err
		}
		changes = append(changes, bodyRes.Changes...)
		if bodyRes.Flow == FlowReturn {
			returns = returns.Union(bodyRes.Result)
		}
	}

	merged := parent
	if len(frames) > 0 {
		merged = ctx.Globals.MergeSiblings(frames)
	}
	ctx.Globals.SetActive(merged)

	if returns.Len() == 0 {
		returns = DefaultUnbound()
	}
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Changes: changes, Result: returns}, nil
}

// executeMutatorCall evaluates `recv.append(x)` / `recv.insert(x)` /
// `recv.prepend(x)` against every world recv's Object resolves to,
// mutating Elements directly and publishing HETERO_COLLECTION when the
// insertion changes the collection's type-name string (spec.md 4.7).
// handled is false when the target object isn't a collection at all, in
// which case the caller falls back to ordinary attribute/call
// resolution (e.g. a user-defined type that happens to have a method
// named "append").
func executeMutatorCall(ctx *Context, node *Node) (ExecutionResult, bool, error) {
	recvRes, err := Execute(ctx, node.Target.Object)
	if err != nil {
		return ExecutionResult{}, true, err
	}
	if recvRes.Flow != FlowNormal {
		return recvRes, true, nil
	}

	var argRes ExecutionResult
	if len(node.Children) > 0 {
		argRes, err = Execute(ctx, node.Children[0])
		if err != nil {
			return ExecutionResult{}, true, err
		}
	} else {
		argRes = normalResult(DefaultUnbound())
	}

	deps := append(append([]Address{}, recvRes.Dependencies...), argRes.Dependencies...)
	var changes []Address
	anyCollection := false

	for _, be := range boundEntries(recvRes.Result) {
		obj, ok := ctx.Heap.Get(be.Addr)
		if !ok || obj.Elements == nil {
			continue
		}
		anyCollection = true
		before := TypeName(ctx.Heap, be.Addr)

		var reps []Representant
		for _, ae := range boundEntries(argRes.Result) {
			kind := ae.Addr
			if aobj, ok := ctx.Heap.Get(ae.Addr); ok && len(aobj.Extensions) > 0 {
				kind = aobj.Extensions[0]
			}
			reps = append(reps, boundedRepresentant(ae.Addr, kind))
		}
		if len(reps) == 0 {
			continue
		}
		chunk := NewChunk(reps...)
		switch node.Target.Name {
		case "append":
			obj.Elements.Append(chunk)
		case "prepend":
			obj.Elements.Prepend(chunk)
		case "insert":
			obj.Elements.Insert(chunk)
		}
		changes = append(changes, be.Addr)
		ctx.Watch.StoreObjectChange(be.Addr, be.Path)

		after := TypeName(ctx.Heap, be.Addr)
		if after != before {
			ctx.Bus.Publish(Record{
				Kind:     KindHeteroCollection,
				Severity: SeverityWarning,
				Message:  "inserting into this collection changes its element type from " + before + " to " + after,
				Loc:      node.Loc,
				Path:     be.Path,
			})
		}
	}

	if !anyCollection {
		return ExecutionResult{}, false, nil
	}
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Changes: changes, Result: DefaultUnbound()}, true, nil
}

func init() {
	RegisterExecutor(KindCall, callExecutor{})
}
