package sift

// structuralNoOpExecutor handles the Generator/Filter/Map/AndThen node
// kinds by evaluating their operand(s) for dependency tracking and
// passing the last evaluated result straight through, inventing no
// additional semantics of its own (spec.md 9, Open Question c - these
// kinds are carried structurally rather than modeled precisely).
type structuralNoOpExecutor struct{}

func (e structuralNoOpExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	operands := []*Node{node.Left, node.Right, node.Target, node.Body, node.Iter}
	var last ExecutionResult
	last.Flow = FlowNormal
	var deps []Address
	for _, o := range operands {
		if o == nil {
			continue
		}
		res, err := Execute(ctx, o)
		if err != nil {
			return ExecutionResult{}, err
		}
		if res.Flow != FlowNormal {
			return res, nil
		}
		deps = append(deps, res.Dependencies...)
		last = res
	}
	last.Dependencies = deps
	return last, nil
}

func init() {
	n := structuralNoOpExecutor{}
	RegisterExecutor(KindGenerator, n)
	RegisterExecutor(KindFilter, n)
	RegisterExecutor(KindMap, n)
	RegisterExecutor(KindAndThen, n)
}
