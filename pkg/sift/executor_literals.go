package sift

// literalExecutor allocates a new Object of the matching scalar type for
// each literal node it executes and returns a single-path Mapping onto
// its address.
type literalExecutor struct {
	typeName string
}

func (e literalExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	typeAddr, ok := ctx.Knowledge.TypeAddress(e.typeName)
	if !ok {
		return ExecutionResult{}, NewInvariantError(ctx.Path.String(), "unregistered scalar type "+e.typeName)
	}
	obj := NewObject()
	obj.Extensions = []Address{typeAddr}
	addr := ctx.Heap.Alloc(obj)
	return normalResult(SimpleMapping(ctx.Path, addr).ToOptional()), nil
}

// noneExecutor resolves the shared None constant rather than allocating
// a fresh object per occurrence - None is a singleton in the analyzed
// language's data model.
type noneExecutor struct{}

func (e noneExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	addr, ok := ctx.Knowledge.Constant("None")
	if !ok {
		return ExecutionResult{}, NewInvariantError(ctx.Path.String(), "None constant not registered")
	}
	return normalResult(SimpleMapping(ctx.Path, addr).ToOptional()), nil
}

// boolLiteralExecutor resolves the shared True/False constants.
type boolLiteralExecutor struct{}

func (e boolLiteralExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	name := "False"
	if b, ok := node.Value.(bool); ok && b {
		name = "True"
	}
	addr, ok := ctx.Knowledge.Constant(name)
	if !ok {
		return ExecutionResult{}, NewInvariantError(ctx.Path.String(), name+" constant not registered")
	}
	return normalResult(SimpleMapping(ctx.Path, addr).ToOptional()), nil
}

func init() {
	RegisterExecutor(KindIntLiteral, literalExecutor{typeName: "int"})
	RegisterExecutor(KindFloatLiteral, literalExecutor{typeName: "float"})
	RegisterExecutor(KindStringLiteral, literalExecutor{typeName: "string"})
	RegisterExecutor(KindBoolLiteral, boolLiteralExecutor{})
	RegisterExecutor(KindNoneLiteral, noneExecutor{})
}
