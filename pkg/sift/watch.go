package sift

import (
	"sort"
	"sync"
)

// MaxLoopIterations is the hard cap on how many times a loop body may be
// re-executed while the engine widens toward a fixed point, independent
// of progress detection - a backstop against a body whose abstract state
// keeps drifting (e.g. an ever-growing accumulator) without ever
// repeating exactly.
const MaxLoopIterations = 64

// loopState tracks one loop site's widening history: every snapshot
// string seen so far (for fixed-point detection) and a running count (for
// the hard cap). This is a convergence aid for the executor's repeated
// re-execution of a loop body, a concern distinct from - and orthogonal
// to - the read/write progress tracking below.
type loopState struct {
	seen  map[string]bool
	order []string
	count int
}

// watchRecording is one loop's read/write/address record: the addresses
// every read identifier resolved to and every read object's address
// (captured during setup, before the body runs), and the writes -
// identifier rebindings and object mutations - recorded against paths
// while the body runs. Grounded on
// _examples/original_source/rust/fosite/src/core/watch.rs's Watch
// struct (identifiers_before/relevant_objects/identifiers_changed/
// objects_changed), spec.md 4.8.
type watchRecording struct {
	source  Location
	inSetup bool

	identifiersBefore  map[string]map[Address]bool
	relevantObjects    map[Address]bool
	identifiersChanged map[string]Mapping
	objectsChanged     map[Address][]Path
}

func newWatchRecording(source Location) *watchRecording {
	return &watchRecording{
		source:             source,
		inSetup:            true,
		identifiersBefore:  map[string]map[Address]bool{},
		relevantObjects:    map[Address]bool{},
		identifiersChanged: map[string]Mapping{},
		objectsChanged:     map[Address][]Path{},
	}
}

func (r *watchRecording) toggle() {
	r.inSetup = !r.inSetup
}

// storeIdentifierDependency records, during setup, that name was read and
// resolved to mapping's addresses - both against the identifier itself
// and (transitively) as relevant objects, matching watch.rs's
// store_identifier_dependency delegating into store_object_dependency.
func (r *watchRecording) storeIdentifierDependency(name string, m OptionalMapping) {
	if !r.inSetup {
		return
	}
	bound, _ := m.Bound()
	set := r.identifiersBefore[name]
	if set == nil {
		set = map[Address]bool{}
		r.identifiersBefore[name] = set
	}
	bound.Each(func(_ Path, a Address) {
		r.relevantObjects[a] = true
		set[a] = true
	})
}

// storeIdentifierChange records, once the body is running, that name was
// rebound to mapping under path - but only if name was actually read
// during setup (watch.rs only tracks changes to identifiers it already
// has a "before" picture of). Both the assignment path and the new
// mapping's own path are pruned past source first, so scaffolding
// outside the loop doesn't pollute the recorded change path, then merged
// - mirroring store_identifier_change's path.prune/merge_into pairing.
func (r *watchRecording) storeIdentifierChange(name string, path Path, m OptionalMapping) {
	if r.inSetup {
		return
	}
	if _, ok := r.identifiersBefore[name]; !ok {
		return
	}
	acc := r.identifiersChanged[name]
	bound, _ := m.Bound()
	p1 := path.Prune(r.source)
	bound.Prune(r.source).Each(func(p2 Path, a Address) {
		acc = acc.AddMapping(p1.MergeInto(p2), a)
	})
	r.identifiersChanged[name] = acc
}

// storeObjectChange records, once the body is running, that the object
// at addr was mutated under path - but only if addr was among the
// objects read during setup.
func (r *watchRecording) storeObjectChange(addr Address, path Path) {
	if r.inSetup {
		return
	}
	if !r.relevantObjects[addr] {
		return
	}
	r.objectsChanged[addr] = append(r.objectsChanged[addr], path.Prune(r.source))
}

// sortedIdentifierNames returns m's keys in a deterministic order, since
// Go map iteration order is not stable across runs and the problem-path
// computation below must be reproducible (spec.md 5's determinism
// guarantee).
func sortedIdentifierNames(m map[string]map[Address]bool) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func sortedAddresses(m map[Address]bool) []Address {
	out := make([]Address, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// pathSet is a deduplicated, deterministically ordered collection of
// Path values. Path wraps a slice and so isn't itself a valid map key;
// entries are keyed by their String() form instead, matching the
// ordering sortPaths already uses elsewhere for disjunctions.
type pathSet struct {
	byKey map[string]Path
}

func newPathSet() *pathSet {
	return &pathSet{byKey: map[string]Path{}}
}

func (s *pathSet) add(p Path) {
	s.byKey[p.String()] = p
}

func (s *pathSet) list() []Path {
	out := make([]Path, 0, len(s.byKey))
	for _, p := range s.byKey {
		out = append(out, p)
	}
	sortPaths(out)
	return out
}

// possibleIdentifierInvariants finds, per changed address, the paths
// under which that address might still be "the old value" despite the
// recorded changes - i.e. the worlds in which this identifier's read
// didn't actually progress. Ported from while_loop.rs's free function
// possible_identifier_invariants (module-level in the teacher source,
// not a Watch method - same split kept here).
func possibleIdentifierInvariants(old map[Address]bool, changes Mapping) map[Address][]Path {
	allChanges := newPathSet()
	allReversals := newPathSet()

	changes.Each(func(p Path, _ Address) {
		allChanges.add(p)
	})
	changes.Each(func(p Path, _ Address) {
		for _, rev := range p.Reverse() {
			allReversals.add(rev)
		}
	})

	relevant := map[Address]*pathSet{}
	changes.Each(func(p Path, addr Address) {
		reversals := p.Reverse()
		if old[addr] {
			reversals = append(reversals, p)
		}

	reversalLoop:
		for _, reversal := range reversals {
			for _, existing := range allReversals.list() {
				if existing.Contains(reversal) && !reversal.Contains(existing) {
					continue reversalLoop
				}
			}
			for _, change := range allChanges.list() {
				if reversal.Contains(change) {
					continue reversalLoop
				}
			}
			set, ok := relevant[addr]
			if !ok {
				set = newPathSet()
				relevant[addr] = set
			}
			set.add(reversal)
		}
	})

	out := map[Address][]Path{}
	for addr, set := range relevant {
		out[addr] = set.list()
	}
	return out
}

// possibleObjectInvariants finds the paths under which an object that
// changed along changes might still carry its pre-loop value from
// parent's perspective, merging each surviving reversal into parent.
// Ported from while_loop.rs's possible_object_invariants.
func possibleObjectInvariants(parent Path, changes []Path) []Path {
	allReversals := newPathSet()
	for _, c := range changes {
		for _, rev := range c.Reverse() {
			allReversals.add(rev)
		}
	}

	possibilities := newPathSet()
outer:
	for _, reversal := range allReversals.list() {
		for _, change := range changes {
			if reversal.Contains(change) {
				continue outer
			}
		}
		for _, existing := range allReversals.list() {
			if existing.Contains(reversal) && !reversal.Contains(existing) {
				continue outer
			}
		}
		if parent.Mergeable(reversal) {
			possibilities.add(parent.MergeInto(reversal))
		}
	}
	return possibilities.list()
}

// whileProblems computes the paths under which the loop made no progress
// at all: for every identifier read before the loop, narrow the
// candidate problem-path set to paths under which that identifier (or
// the object it points to) stayed put, short-circuiting to "no problem"
// the moment any identifier turns out to have changed on every path.
// Ported from while_loop.rs's check_changes. The returned bool is
// while_loop.rs's real_problem flag: problems may be a single empty Path
// (meaning "always") without that being an actual problem unless
// something was genuinely merged into it.
func (r *watchRecording) whileProblems() ([]Path, bool) {
	problems := []Path{EmptyPath()}
	realProblem := false

	for _, name := range sortedIdentifierNames(r.identifiersBefore) {
		addresses := r.identifiersBefore[name]

		var identifierInvariants map[Address][]Path
		if changed, ok := r.identifiersChanged[name]; ok {
			identifierInvariants = possibleIdentifierInvariants(addresses, changed)
		} else {
			identifierInvariants = map[Address][]Path{}
			for addr := range addresses {
				identifierInvariants[addr] = []Path{EmptyPath()}
			}
		}

		if len(identifierInvariants) == 0 {
			// This identifier changed on every path - no room left for
			// a non-progress problem, regardless of what other
			// identifiers did.
			return nil, false
		}

		invariantAddrs := make([]Address, 0, len(identifierInvariants))
		for addr := range identifierInvariants {
			invariantAddrs = append(invariantAddrs, addr)
		}
		sort.Slice(invariantAddrs, func(i, j int) bool { return invariantAddrs[i] < invariantAddrs[j] })

		same := newPathSet()
		for _, addr := range invariantAddrs {
			identifierPaths := identifierInvariants[addr]
			if objectPaths, ok := r.objectsChanged[addr]; ok {
				for _, idPath := range identifierPaths {
					invariants := possibleObjectInvariants(idPath, objectPaths)
					if len(invariants) > 0 {
						realProblem = true
					}
					for _, inv := range invariants {
						same.add(inv)
					}
				}
			} else {
				realProblem = true
				for _, idPath := range identifierPaths {
					same.add(idPath)
				}
			}
		}

		var newProblems []Path
		for _, problem := range problems {
			for _, np := range same.list() {
				if problem.Mergeable(np) {
					newProblems = append(newProblems, problem.MergeInto(np))
				}
			}
		}
		problems = newProblems
	}

	if !realProblem {
		return nil, false
	}
	return problems, true
}

// forProblems collects every path under which a for-loop's iterated
// identifiers or the objects they point to changed during the body -
// i.e. the paths under which the loop mutated what it's iterating over.
// Ported from for_loop.rs's check_changes (no invariant-narrowing pass -
// any recorded change under any path is reported).
func (r *watchRecording) forProblems() []Path {
	var problems []Path
	for _, name := range sortedIdentifierNames(r.identifiersBefore) {
		for _, addr := range sortedAddresses(r.identifiersBefore[name]) {
			problems = append(problems, r.objectsChanged[addr]...)
		}
		if mapping, ok := r.identifiersChanged[name]; ok {
			mapping.Each(func(p Path, _ Address) {
				problems = append(problems, p)
			})
		}
	}
	return problems
}

// Watch is the per-analysis loop-progress tracker: a stack of
// watchRecordings (nested loops each get their own, the way
// vm.start_watch/toggle_watch/pop_watch stack in the teacher source) plus
// the unrelated widening-cap bookkeeping in loopState. Grounded on
// _examples/original_source/rust/fosite/src/core/watch.rs.
type Watch struct {
	mu    sync.RWMutex
	loops map[string]*loopState
	max   int

	stack []*watchRecording
}

// NewWatch returns an empty Watch capped at the package default
// MaxLoopIterations.
func NewWatch() *Watch {
	return NewWatchWithCap(MaxLoopIterations)
}

// NewWatchWithCap returns an empty Watch capped at max iterations per
// loop site. A non-positive max falls back to the package default.
func NewWatchWithCap(max int) *Watch {
	if max <= 0 {
		max = MaxLoopIterations
	}
	return &Watch{loops: map[string]*loopState{}, max: max}
}

// key turns a loop's location into the map key identifying it.
func key(loc Location) string {
	return loc.String()
}

// Enter resets (or creates) the widening history for the loop at loc,
// called once when flow first reaches the loop node.
func (w *Watch) Enter(loc Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loops[key(loc)] = &loopState{seen: map[string]bool{}}
}

// Record reports whether the loop at loc has reached a fixed point: it
// records snapshot as this iteration's fingerprint and returns true if
// either the snapshot repeats one already seen, or the iteration count
// has hit the cap. A caller that gets true should stop iterating and
// fold the accumulated branches back together.
func (w *Watch) Record(loc Location, snapshot string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	k := key(loc)
	st, ok := w.loops[k]
	if !ok {
		st = &loopState{seen: map[string]bool{}}
		w.loops[k] = st
	}
	st.count++
	if st.count > w.max {
		return true
	}
	if st.seen[snapshot] {
		return true
	}
	st.seen[snapshot] = true
	st.order = append(st.order, snapshot)
	return false
}

// Iterations reports how many times the loop at loc has been recorded,
// for diagnostics (e.g. "loop ran to the iteration cap without a fixed
// point").
func (w *Watch) Iterations(loc Location) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if st, ok := w.loops[key(loc)]; ok {
		return st.count
	}
	return 0
}

// AtCap reports whether the loop at loc was stopped by the hard cap
// rather than a genuine fixed point.
func (w *Watch) AtCap(loc Location) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st, ok := w.loops[key(loc)]
	return ok && st.count > w.max
}

// StartRecording pushes a fresh watchRecording for a loop whose pruning
// cutoff is source, entering its setup phase - the equivalent of
// watch.rs's vm.start_watch(), called before the test/iterable
// expression runs.
func (w *Watch) StartRecording(source Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stack = append(w.stack, newWatchRecording(source))
}

// ToggleRecording flips the innermost active recording out of setup and
// into tracking, the equivalent of vm.toggle_watch(), called once the
// test/iterable expression has been evaluated and before the body runs.
func (w *Watch) ToggleRecording() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n := len(w.stack); n > 0 {
		w.stack[n-1].toggle()
	}
}

// PopRecording pops and returns the innermost recording, the equivalent
// of vm.pop_watch(), called once the body has finished executing. Returns
// nil if no recording is active.
func (w *Watch) PopRecording() *watchRecording {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.stack)
	if n == 0 {
		return nil
	}
	r := w.stack[n-1]
	w.stack = w.stack[:n-1]
	return r
}

// StoreIdentifierDependency records an identifier read against every
// recording still in its setup phase - ordinarily just the innermost one,
// but an outer loop's test expression can itself contain nested
// sub-evaluations, so every setup-phase recording on the stack is
// offered the read.
func (w *Watch) StoreIdentifierDependency(name string, m OptionalMapping) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.stack {
		r.storeIdentifierDependency(name, m)
	}
}

// StoreObjectDependency records a bare object read (e.g. via attribute
// access on an identifier already tracked) against every setup-phase
// recording on the stack.
func (w *Watch) StoreObjectDependency(addr Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.stack {
		if r.inSetup {
			r.relevantObjects[addr] = true
		}
	}
}

// StoreIdentifierChange records an identifier rebinding against every
// recording whose body is currently executing (i.e. every recording on
// the stack that has left setup) - a write inside a nested loop's body
// is also a write inside every enclosing loop's body.
func (w *Watch) StoreIdentifierChange(name string, path Path, m OptionalMapping) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.stack {
		r.storeIdentifierChange(name, path, m)
	}
}

// StoreObjectChange records an object mutation against every recording
// whose body is currently executing, the write-side counterpart to
// StoreIdentifierChange.
func (w *Watch) StoreObjectChange(addr Address, path Path) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.stack {
		r.storeObjectChange(addr, path)
	}
}
