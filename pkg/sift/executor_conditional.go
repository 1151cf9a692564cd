package sift

// conditionalExecutor handles both the "if/else" statement form (Then/
// Else are blocks, Result is unused) and the ternary expression form
// (Then/Else are expressions whose Result feeds the enclosing
// expression). Both branches are always assumed reachable - a static
// analyzer without a concrete runtime value for Cond can't know which
// side will actually execute, so both are explored under sibling
// Condition markers and folded back together afterward (spec.md 4.1,
// branch/merge discipline).
type conditionalExecutor struct{}

func (e conditionalExecutor) Execute(ctx *Context, node *Node) (ExecutionResult, error) {
	condRes, err := Execute(ctx, node.Cond)
	if err != nil {
		return ExecutionResult{}, err
	}
	if condRes.Flow != FlowNormal {
		return condRes, nil
	}

	// Both sides always get a sibling frame, even when there's no written
	// else - an absent else is "else: pass", and the branch/merge
	// machinery needs the sibling to fold back against.
	parent := ctx.Globals.Active()

	thenCause := NewCondition(node.Loc, 0, 2)
	thenFrame := ctx.Globals.PushFrame(thenCause)
	thenCtx := ctx.WithPath(ctx.Path.Add(thenCause))
	thenRes, err := Execute(thenCtx, node.Then)
	if err != nil {
		return ExecutionResult{}, err
	}

	ctx.Globals.SetActive(parent)
	elseCause := NewCondition(node.Loc, 1, 2)
	elseFrame := ctx.Globals.PushFrame(elseCause)
	var elseRes ExecutionResult
	elseRes.Flow = FlowNormal
	if node.Else != nil {
		elseCtx := ctx.WithPath(ctx.Path.Add(elseCause))
		elseRes, err = Execute(elseCtx, node.Else)
		if err != nil {
			return ExecutionResult{}, err
		}
	}

	merged := ctx.Globals.MergeBranches(thenFrame, elseFrame)
	ctx.Globals.SetActive(merged)

	publishPolymorphicWarnings(ctx, node, changedNames(node.Then, node.Else))

	deps := append([]Address{}, condRes.Dependencies...)
	deps = append(deps, thenRes.Dependencies...)
	deps = append(deps, elseRes.Dependencies...)
	changes := append([]Address{}, thenRes.Changes...)
	changes = append(changes, elseRes.Changes...)

	flow := FlowNormal
	if thenRes.Flow == elseRes.Flow && thenRes.Flow != FlowNormal {
		flow = thenRes.Flow
	}

	result := thenRes.Result.Union(elseRes.Result)
	return ExecutionResult{Flow: flow, Dependencies: deps, Changes: changes, Result: result}, nil
}

// changedNames collects every identifier assigned anywhere in then or
// els (either may be nil for a bodyless else), the set whose post-merge
// binding is worth checking for a TYPE_UNSAFE split.
func changedNames(then, els *Node) []string {
	seen := map[string]bool{}
	var names []string
	collect := func(n *Node) {
		if n == nil {
			return
		}
		n.Walk(func(c *Node) {
			if c.Kind == KindAssignment && c.Target != nil && c.Target.Kind == KindIdentifier {
				if !seen[c.Target.Name] {
					seen[c.Target.Name] = true
					names = append(names, c.Target.Name)
				}
			}
		})
	}
	collect(then)
	collect(els)
	return names
}

// publishPolymorphicWarnings emits TYPE_UNSAFE for each name in names
// whose post-merge value now spans more than one distinct extension
// root across the branches it's bound in - spec.md 4.7's "After merge,
// emit a polymorphic-type warning per changed name whose post-merge
// object set spans more than one extension root."
func publishPolymorphicWarnings(ctx *Context, node *Node, names []string) {
	for _, name := range names {
		m := ctx.Globals.ResolveOptional(name)
		bound, _ := m.Bound()
		roots := map[Address]bool{}
		var addrs []Address
		bound.Each(func(_ Path, a Address) {
			addrs = append(addrs, a)
			if obj, ok := ctx.Heap.Get(a); ok && len(obj.Extensions) > 0 {
				roots[obj.Extensions[0]] = true
			}
		})
		if len(roots) > 1 {
			message := "\"" + name + "\" holds values of different types across branches"
			if ancestor, ok := commonAncestorAcross(ctx.Heap, addrs); ok {
				message += " (both extend " + TypeName(ctx.Heap, ancestor) + ")"
			}
			ctx.Bus.Publish(Record{
				Kind:     KindTypeUnsafe,
				Severity: SeverityWarning,
				Message:  message,
				Loc:      node.Loc,
				Path:     ctx.Path,
			})
		}
	}
}

// commonAncestorAcross folds CommonAncestor across every bound address,
// reporting a shared ancestor only if every address descends from it -
// e.g. an int/float split still shares "number" even though their
// immediate extension roots differ.
func commonAncestorAcross(h *Heap, addrs []Address) (Address, bool) {
	if len(addrs) < 2 {
		return 0, false
	}
	common, ok := addrs[0], true
	for _, a := range addrs[1:] {
		if !ok {
			return 0, false
		}
		common, ok = CommonAncestor(h, common, a)
	}
	return common, ok
}

func init() {
	RegisterExecutor(KindConditional, conditionalExecutor{})
}
