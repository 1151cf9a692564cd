package sift

import "sync"

// Builtin is a lazily-instantiated module-level value: a stock function,
// a constant, or a small namespace object. Factory is only invoked the
// first time the name is resolved, and the Object it returns is cached
// on the Heap for the lifetime of the analysis run.
type Builtin struct {
	Name    string
	Factory func(*Heap) *Object
}

// builtinFactories is populated by each builtins package file's init(),
// the same self-registration idiom pkg/graft/operators uses for
// RegisterOp - one factory per builtin, declared next to its
// implementation rather than assembled by hand in one giant switch.
var builtinFactories = map[string]func(*Heap) *Object{}

// RegisterBuiltin records a builtin factory under name. Panics on a
// duplicate name, the same fail-fast discipline RegisterOp uses for
// operator tokens, since a silent overwrite here would mean two builtins
// packages are shadowing each other.
func RegisterBuiltin(name string, factory func(*Heap) *Object) {
	if _, exists := builtinFactories[name]; exists {
		panic("sift: builtin already registered: " + name)
	}
	builtinFactories[name] = factory
}

// Registry resolves builtin names to addresses on demand, caching the
// result so a name referenced many times across an analysis only pays
// the factory cost once.
type Registry struct {
	mu       sync.Mutex
	heap     *Heap
	resolved map[string]Address
}

// NewRegistry returns a Registry backed by heap, with every builtin
// registered via RegisterBuiltin visible but not yet instantiated.
func NewRegistry(heap *Heap) *Registry {
	return &Registry{heap: heap, resolved: map[string]Address{}}
}

// Resolve returns the address of the named builtin, instantiating it via
// its factory on first use.
func (r *Registry) Resolve(name string) (Address, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.resolved[name]; ok {
		return a, true
	}
	factory, ok := builtinFactories[name]
	if !ok {
		return 0, false
	}
	obj := factory(r.heap)
	a := r.heap.Alloc(obj)
	r.resolved[name] = a
	return a, true
}

// Names lists every builtin name registered, for completion/diagnostics
// ("did you mean ...").
func (r *Registry) Names() []string {
	out := make([]string, 0, len(builtinFactories))
	for n := range builtinFactories {
		out = append(out, n)
	}
	return out
}

// IsResolved reports whether name has already been instantiated (used by
// tests asserting laziness - a builtin nobody referenced should never
// allocate).
func (r *Registry) IsResolved(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.resolved[name]
	return ok
}
