package sift

// breakExecutor/continueExecutor signal the enclosing loop to stop
// widening; they carry no value of their own.
type breakExecutor struct{}

func (e breakExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	return ExecutionResult{Flow: FlowBreak}, nil
}

type continueExecutor struct{}

func (e continueExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	return ExecutionResult{Flow: FlowContinue}, nil
}

// returnExecutor evaluates its (optional) operand and stamps the result
// with a Return path marker, so a value returned from one branch of a
// conditional stays distinguishable from one returned from the other
// after the branches merge.
type returnExecutor struct{}

func (e returnExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	if node.Left == nil {
		return ExecutionResult{Flow: FlowReturn}, nil
	}
	res, err := Execute(ctx, node.Left)
	if err != nil {
		return ExecutionResult{}, err
	}
	if res.Flow != FlowNormal {
		return res, nil
	}
	stamped := res.Result.Augment(NewReturn(node.Loc))
	return ExecutionResult{Flow: FlowReturn, Dependencies: res.Dependencies, Result: stamped}, nil
}

func init() {
	RegisterExecutor(KindBreak, breakExecutor{})
	RegisterExecutor(KindContinue, continueExecutor{})
	RegisterExecutor(KindReturn, returnExecutor{})
}
