package sift

// functionDefExecutor allocates a callable Object carrying the
// function's body and parameter names, binds it under the function's
// own name in the enclosing Scope (so it can be called by name), and
// also returns the mapping as its Result (so an anonymous function
// expression can be assigned directly).
type functionDefExecutor struct{}

func (e functionDefExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	funcType, ok := ctx.Knowledge.TypeAddress("function")
	if !ok {
		return ExecutionResult{}, NewInvariantError(ctx.Path.String(), "function type not registered")
	}

	params := make([]string, 0, len(node.Children))
	for _, p := range node.Children {
		params = append(params, p.Name)
	}

	obj := NewObject()
	obj.Extensions = []Address{funcType}
	obj.FuncNode = node.Body
	obj.Params = params
	obj.Name = node.Name
	addr := ctx.Heap.Alloc(obj)

	result := SimpleMapping(ctx.Path, addr).ToOptional()
	if node.Name != "" {
		ctx.Globals.Set(node.Name, ctx.Path, result)
	}
	return normalResult(result), nil
}

func init() {
	RegisterExecutor(KindFunctionDef, functionDefExecutor{})
}
