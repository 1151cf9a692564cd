package sift

// boolOpExecutor evaluates "and"/"or": in a dynamically-typed language
// these return one of the operand values rather than coercing to a
// boolean, so the result is simply the union of both operands' worlds -
// there's no operator-support check the way binOpExecutor has, since
// and/or accept any type.
type boolOpExecutor struct{}

func (e boolOpExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	leftRes, err := Execute(ctx, node.Left)
	if err != nil {
		return ExecutionResult{}, err
	}
	if leftRes.Flow != FlowNormal {
		return leftRes, nil
	}
	rightRes, err := Execute(ctx, node.Right)
	if err != nil {
		return ExecutionResult{}, err
	}
	if rightRes.Flow != FlowNormal {
		return rightRes, nil
	}

	deps := append(append([]Address{}, leftRes.Dependencies...), rightRes.Dependencies...)
	result := leftRes.Result.Union(rightRes.Result)
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Result: result}, nil
}

// unaryOpExecutor evaluates a single operand against a unary operator,
// looking up support on the operand's own type chain (no second operand
// to find a common ancestor with).
type unaryOpExecutor struct{}

func (e unaryOpExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	res, err := Execute(ctx, node.Left)
	if err != nil {
		return ExecutionResult{}, err
	}
	if res.Flow != FlowNormal {
		return res, nil
	}

	out := Mapping{}
	deps := append([]Address{}, res.Dependencies...)
	for _, e := range boundEntries(res.Result) {
		deps = append(deps, e.Addr)
		obj, ok := ctx.Heap.Get(e.Addr)
		if !ok {
			continue
		}
		var typeAddr Address
		var supported bool
		for _, ext := range obj.Extensions {
			if ctx.Knowledge.OperatorSupported(ext, node.Name) {
				typeAddr, supported = ext, true
				break
			}
		}
		if !supported {
			ctx.Bus.Publish(Record{
				Kind:     KindBinOpInvalid,
				Severity: SeverityError,
				Message:  "unary operator " + node.Name + " is not supported on this operand type",
				Loc:      node.Loc,
				Path:     e.Path,
			})
			continue
		}
		resObj := NewObject()
		resObj.Extensions = []Address{ctx.Knowledge.Promote(typeAddr)}
		out = out.AddMapping(e.Path, ctx.Heap.Alloc(resObj))
	}

	result := out.ToOptional()
	if out.Len() == 0 {
		result = DefaultUnbound()
	}
	return ExecutionResult{Flow: FlowNormal, Dependencies: deps, Result: result}, nil
}

func init() {
	RegisterExecutor(KindBoolOp, boolOpExecutor{})
	RegisterExecutor(KindUnaryOp, unaryOpExecutor{})
}
