package sift

// Options configures one analysis run. Its only setting is the Watch
// iteration cap; a loop that reaches the cap is reported as a
// LOOP_CAP_EXCEEDED warning and the run continues. Builtin visibility is
// not configurable: every registered builtin is visible.
type Options struct {
	// MaxLoopIterations overrides the package default (MaxLoopIterations)
	// when nonzero.
	MaxLoopIterations int
}

// Result is everything a caller gets back from one Analyze call: the
// deduplicated, sorted diagnostic records and the Heap/Knowledge the run
// built, for callers that want to inspect the final abstract state (e.g.
// `sift inspect`).
type Result struct {
	Diagnostics []Record
	Heap        *Heap
	Knowledge   *Knowledge
}

// Analyze runs the executor dispatch table over root once, the single
// entry point cmd/sift and any embedding caller drives: it wires a fresh
// Heap/Knowledge/Registry/Bus/Context, bootstraps the stock type
// library, executes the program, and drains the diagnostics bus before
// returning. Grounded on the teacher engine's top-level Evaluate entry
// point, which likewise owns build-evaluate-collect as one call rather
// than exposing each stage as a separate public entry point.
func Analyze(root *Node, opts Options) (*Result, error) {
	if opts.MaxLoopIterations < 0 {
		return nil, NewConfigError("MaxLoopIterations must not be negative")
	}

	heap := NewHeap()
	knowledge := Bootstrap(heap)
	bus := NewBus(256)
	registry := NewRegistry(heap)
	ctx := NewContextWithLoopCap(heap, knowledge, bus, registry, opts.MaxLoopIterations)

	drained := make(chan []Record, 1)
	go func() {
		drained <- bus.Drain()
	}()

	_, runErr := ExecuteAll(ctx, topLevelNodes(root))
	bus.Close()
	records := <-drained

	if runErr != nil {
		return nil, runErr
	}
	return &Result{Diagnostics: records, Heap: heap, Knowledge: knowledge}, nil
}

// topLevelNodes returns the statement sequence to execute: root's
// Children when it's a block/module node, or the single node otherwise
// (a fixture whose root is one bare expression/statement).
func topLevelNodes(root *Node) []*Node {
	if root == nil {
		return nil
	}
	if (root.Kind == KindBlock || root.Kind == KindModule) && len(root.Children) > 0 {
		return root.Children
	}
	return []*Node{root}
}
