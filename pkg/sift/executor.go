package sift

import "fmt"

// executors is the dispatch table from NodeKind to the Executor that
// handles it, populated by each executor_*.go file's init() via
// RegisterExecutor - the same self-registering-token-table idiom
// pkg/graft/operators uses for RegisterOp, generalized from operator
// tokens to AST node kinds.
var executors = map[NodeKind]Executor{}

// RegisterExecutor records the Executor responsible for kind. Panics on
// a duplicate registration.
func RegisterExecutor(kind NodeKind, e Executor) {
	if _, exists := executors[kind]; exists {
		panic("sift: executor already registered for kind: " + string(kind))
	}
	executors[kind] = e
}

// Execute dispatches node to its registered Executor. A node whose Kind
// has no registered Executor is a LoadError - the loader should have
// rejected it, so reaching Execute with an unknown kind means the AST
// and this build of the core have drifted apart.
func Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	if node == nil {
		return ExecutionResult{}, NewInvariantError(ctx.Path.String(), "Execute called on nil node")
	}
	ex, ok := executors[node.Kind]
	if !ok {
		return ExecutionResult{}, NewLoadError(fmt.Sprintf("no executor registered for node kind %q", node.Kind), nil)
	}
	return ex.Execute(ctx, node)
}

// ExecuteAll runs Execute over each node in order, stopping early (and
// returning its flow) at the first node whose Flow is not FlowNormal -
// the ordinary statement-sequence short-circuit for break/continue/
// return propagating out of a block.
func ExecuteAll(ctx *Context, nodes []*Node) (ExecutionResult, error) {
	last := ExecutionResult{Flow: FlowNormal}
	for _, n := range nodes {
		res, err := Execute(ctx, n)
		if err != nil {
			return ExecutionResult{}, err
		}
		last = res
		if res.Flow != FlowNormal {
			return last, nil
		}
	}
	return last, nil
}
