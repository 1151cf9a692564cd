package sift

// blockExecutor runs node.Children in sequence via ExecuteAll, stopping
// at the first non-normal flow.
type blockExecutor struct{}

func (e blockExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	return ExecuteAll(ctx, node.Children)
}

func init() {
	RegisterExecutor(KindBlock, blockExecutor{})
	RegisterExecutor(KindModule, blockExecutor{})
}
