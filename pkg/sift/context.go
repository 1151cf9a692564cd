package sift

// Context bundles everything an Executor needs to evaluate one node:
// the Heap of objects, the Knowledge base of types/operators, the
// module-level Scope, the Watch loop-progress tracker, the diagnostics
// Bus, and the active Path the executor is currently reasoning under.
// Grounded on pkg/graft/engine.go's Engine, which thread a similar
// evaluation bag (tree, cache, operator state) through every operator
// call instead of having each Operator reach for package globals.
type Context struct {
	Heap      *Heap
	Knowledge *Knowledge
	Globals   *Scope
	Watch     *Watch
	Bus       *Bus
	Registry  *Registry

	Path Path

	// CallStack names the functions currently being analyzed, innermost
	// last. PushCall appends to it; nothing in the analyzer reads it.
	CallStack []string
}

// NewContext builds a fresh Context sharing one Heap/Knowledge/Bus
// across an entire analysis run, with Watch capped at the package
// default MaxLoopIterations.
func NewContext(heap *Heap, knowledge *Knowledge, bus *Bus, registry *Registry) *Context {
	return NewContextWithLoopCap(heap, knowledge, bus, registry, MaxLoopIterations)
}

// NewContextWithLoopCap is NewContext with an explicit Watch iteration
// cap, the hook Analyze uses to honor Options.MaxLoopIterations.
func NewContextWithLoopCap(heap *Heap, knowledge *Knowledge, bus *Bus, registry *Registry, loopCap int) *Context {
	return &Context{
		Heap:      heap,
		Knowledge: knowledge,
		Globals:   NewScope(),
		Watch:     NewWatchWithCap(loopCap),
		Bus:       bus,
		Registry:  registry,
		Path:      EmptyPath(),
	}
}

// WithPath returns a shallow copy of ctx active under path p, leaving
// the Heap/Scope/Watch/Bus shared - the same "clone the cursor, share
// the tree" discipline pkg/graft/evaluator.go uses when recursing into
// a subexpression under a different path.
func (c *Context) WithPath(p Path) *Context {
	cp := *c
	cp.Path = p
	return &cp
}

// PushCall returns a Context with fn appended to the call stack.
func (c *Context) PushCall(fn string) *Context {
	cp := *c
	cp.CallStack = append(append([]string{}, c.CallStack...), fn)
	return &cp
}
