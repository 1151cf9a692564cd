package sift

// binOpExecutor evaluates both operands, then for every pair of worlds
// that can coexist (Left's path Mergeable with Right's), resolves the
// operator against the deepest common ancestor type supporting it
// (spec.md 4.7). A pair with no supporting ancestor publishes an
// unsupported-operator diagnostic and contributes no alternative to the
// result rather than aborting the whole evaluation.
type binOpExecutor struct{}

func (e binOpExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	leftRes, err := Execute(ctx, node.Left)
	if err != nil {
		return ExecutionResult{}, err
	}
	rightRes, err := Execute(ctx, node.Right)
	if err != nil {
		return ExecutionResult{}, err
	}
	if leftRes.Flow != FlowNormal {
		return leftRes, nil
	}
	if rightRes.Flow != FlowNormal {
		return rightRes, nil
	}

	deps := append(append([]Address{}, leftRes.Dependencies...), rightRes.Dependencies...)
	out := Mapping{}
	lefts := boundEntries(leftRes.Result)
	rights := boundEntries(rightRes.Result)

	for _, l := range lefts {
		for _, r := range rights {
			if !l.Path.Mergeable(r.Path) {
				continue
			}
			world := l.Path.MergeInto(r.Path)
			deps = append(deps, l.Addr, r.Addr)

			ancestor, ok := ctx.Knowledge.DeepestCommonSupporting(l.Addr, r.Addr, node.Name)
			if !ok {
				ctx.Bus.Publish(Record{
					Kind:     KindBinOpInvalid,
					Severity: SeverityError,
					Message:  "operator " + node.Name + " is not supported between these operand types",
					Loc:      node.Loc,
					Path:     world,
				})
				continue
			}
			resultType := ctx.Knowledge.Promote(ancestor)
			resObj := NewObject()
			resObj.Extensions = []Address{resultType}
			addr := ctx.Heap.Alloc(resObj)
			out = out.AddMapping(world, addr)
		}
	}

	result := out.ToOptional()
	if out.Len() == 0 {
		result = DefaultUnbound()
	}
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Result: result}, nil
}

func init() {
	RegisterExecutor(KindBinOp, binOpExecutor{})
}
