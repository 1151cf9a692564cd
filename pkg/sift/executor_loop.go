package sift

import "fmt"

// whileExecutor re-executes a loop body under a Loop path marker until
// the widening pass reaches a fixed point (the Scope snapshot stops
// changing) or the iteration cap is hit, then folds the accumulated
// branch back into the parent frame. The widening loop itself is
// grounded on internal/cache/hierarchical_cache.go's repeat-access
// tracking, generalized from cache hits to loop convergence; progress
// detection is a separate Watch recording (watch.go, spec.md 4.8) that
// brackets the condition's first evaluation (setup) and the body
// (tracked).
type whileExecutor struct{}

func (e whileExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	ctx.Watch.Enter(node.Loc)
	ctx.Watch.StartRecording(node.Loc)
	parent := ctx.Globals.Active()
	cause := NewLoop(node.Loc)
	frame := ctx.Globals.PushFrame(cause)
	loopCtx := ctx.WithPath(ctx.Path.Add(cause))

	var last ExecutionResult
	var deps []Address
	var changes []Address
	toggled := false
	for {
		condRes, err := Execute(loopCtx, node.Cond)
		if err != nil {
			return ExecutionResult{}, err
		}
		deps = append(deps, condRes.Dependencies...)
		if !toggled {
			// Only the first evaluation of the condition counts as the
			// "before the loop" read set; later re-evaluations belong
			// to widening iterations of the body itself.
			ctx.Watch.ToggleRecording()
			toggled = true
		}

		bodyRes, err := Execute(loopCtx, node.Body)
		if err != nil {
			return ExecutionResult{}, err
		}
		deps = append(deps, bodyRes.Dependencies...)
		changes = append(changes, bodyRes.Changes...)
		last = bodyRes
		if bodyRes.Flow == FlowReturn || bodyRes.Flow == FlowBreak {
			break
		}

		snapshot := fmt.Sprintf("%v", ctx.Globals.Snapshot(loopVariables(node.Body)))
		if ctx.Watch.Record(node.Loc, snapshot) {
			break
		}
	}

	ctx.Globals.SetActive(frame)
	ctx.Globals.MergeUntil(cause.Loc)
	ctx.Globals.SetActive(parent)

	rec := ctx.Watch.PopRecording()
	if problems, real := rec.whileProblems(); real {
		for _, p := range problems {
			ctx.Bus.Publish(Record{
				Kind:     KindWhileLoopChange,
				Severity: SeverityWarning,
				Message:  "loop body never reassigns a name the condition reads - this loop may not progress",
				Loc:      node.Loc,
				Path:     p,
			})
		}
	}
	if ctx.Watch.AtCap(node.Loc) {
		ctx.Bus.Publish(Record{
			Kind:     KindLoopCapExceeded,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("loop ran %d iterations without reaching a fixed point - analysis stopped at the cap", ctx.Watch.Iterations(node.Loc)),
			Loc:      node.Loc,
			Path:     EmptyPath(),
		})
	}

	flow := FlowNormal
	if last.Flow == FlowReturn {
		flow = FlowReturn
	}
	return ExecutionResult{Flow: flow, Dependencies: deps, Changes: changes}, nil
}

// forEachExecutor collects the iterable's declared element mappings
// (GetAnyElement - order is irrelevant since every element is assumed to
// execute the body once), binds node.Name once to the union of them all,
// and executes the body once under a Loop path marker the same way
// whileExecutor does. Progress tracking
// wraps the iterable evaluation (setup) and the body (tracked) the same
// way the while loop does - spec.md 4.8's "same machinery" fires both
// diagnostics off one Watch recording.
type forEachExecutor struct{}

func (e forEachExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	ctx.Watch.StartRecording(node.Loc)
	iterRes, err := Execute(ctx, node.Iter)
	if err != nil {
		return ExecutionResult{}, err
	}
	ctx.Watch.ToggleRecording()
	if iterRes.Flow != FlowNormal {
		ctx.Watch.PopRecording()
		return iterRes, nil
	}

	parent := ctx.Globals.Active()
	cause := NewLoop(node.Loc)
	frame := ctx.Globals.PushFrame(cause)
	loopCtx := ctx.WithPath(ctx.Path.Add(cause))

	elemMapping := OptionalMapping{}
	warnedNotIterable := false
	for _, e := range boundEntries(iterRes.Result) {
		obj, ok := ctx.Heap.Get(e.Addr)
		if !ok {
			continue
		}
		iterable := len(obj.Extensions) > 0 && ctx.Knowledge.IsIterable(obj.Extensions[0])
		if obj.Elements == nil || !iterable {
			if !iterable && !warnedNotIterable {
				ctx.Bus.Publish(Record{
					Kind:     KindIterationInvalid,
					Severity: SeverityError,
					Message:  "target of for-each is not iterable",
					Loc:      node.Loc,
					Path:     e.Path,
				})
				warnedNotIterable = true
			}
			continue
		}
		elemMapping = elemMapping.Union(obj.Elements.GetAnyElement(node.Loc).ToOptional())
	}
	loopCtx.Globals.Set(node.Name, loopCtx.Path, elemMapping)

	bodyRes, err := Execute(loopCtx, node.Body)
	if err != nil {
		return ExecutionResult{}, err
	}

	ctx.Globals.SetActive(frame)
	ctx.Globals.MergeUntil(cause.Loc)
	ctx.Globals.SetActive(parent)

	rec := ctx.Watch.PopRecording()
	for _, p := range rec.forProblems() {
		ctx.Bus.Publish(Record{
			Kind:     KindForLoopChange,
			Severity: SeverityWarning,
			Message:  "loop body mutates the collection it iterates over",
			Loc:      node.Loc,
			Path:     p,
		})
	}

	deps := append(append([]Address{}, iterRes.Dependencies...), bodyRes.Dependencies...)
	flow := FlowNormal
	if bodyRes.Flow == FlowReturn {
		flow = FlowReturn
	}
	return ExecutionResult{Flow: flow, Dependencies: deps, Changes: bodyRes.Changes}, nil
}

// loopVariables collects every identifier name assigned anywhere in
// body, the set the widening pass needs to snapshot to detect a fixed
// point - tracking only names the loop body can actually change keeps
// the snapshot from churning on unrelated scope growth.
func loopVariables(body *Node) []string {
	var names []string
	seen := map[string]bool{}
	body.Walk(func(n *Node) {
		if n.Kind == KindAssignment && n.Target != nil && n.Target.Kind == KindIdentifier {
			if !seen[n.Target.Name] {
				seen[n.Target.Name] = true
				names = append(names, n.Target.Name)
			}
		}
	})
	return names
}

func init() {
	RegisterExecutor(KindWhile, whileExecutor{})
	RegisterExecutor(KindForEach, forEachExecutor{})
}
