package sift

// Representant is one alternative element kind present at a chunk
// position: an (address, kind-address, min, max) tuple. Min/Max are
// pointers because nil denotes "unknown/unbounded" (spec.md 3).
type Representant struct {
	Addr     Address
	KindAddr Address
	Min      *int
	Max      *int
}

func intPtr(v int) *int { return &v }

// boundedRepresentant is a convenience constructor for an exactly-one
// representant (the common case: a literal element).
func boundedRepresentant(addr, kind Address) Representant {
	return Representant{Addr: addr, KindAddr: kind, Min: intPtr(1), Max: intPtr(1)}
}

// unboundedRepresentant models "zero or more of this kind" - used by
// splats and comprehension results.
func unboundedRepresentant(addr, kind Address) Representant {
	return Representant{Addr: addr, KindAddr: kind, Min: intPtr(0), Max: nil}
}

// chunkPathSet is one (Path, []Representant) entry in a Chunk. Paths are
// compared with Mergeable, not exact equality, so a chunk built under one
// world can still answer queries from a more specific descendant world.
type chunkPathSet struct {
	path Path
	reps []Representant
}

// Chunk is one position in a container abstraction: an ordered
// concatenation models e.g. [a, *b, c] as three chunks.
type Chunk struct {
	sets []chunkPathSet
}

// NewChunk builds a chunk with a single representant set under the root path.
func NewChunk(reps ...Representant) Chunk {
	return Chunk{sets: []chunkPathSet{{path: EmptyPath(), reps: reps}}}
}

func (c Chunk) repsUnder(p Path) []Representant {
	var out []Representant
	for _, s := range c.sets {
		if s.path.Mergeable(p) {
			out = append(out, s.reps...)
		}
	}
	return out
}

// MinSize is the per-path minimum element count contributed by this
// chunk: the minimum across its representants' Min bounds (an unknown
// representant Min is treated as 0, the most conservative lower bound).
func (c Chunk) MinSize(p Path) int {
	reps := c.repsUnder(p)
	if len(reps) == 0 {
		return 0
	}
	min := -1
	for _, r := range reps {
		v := 0
		if r.Min != nil {
			v = *r.Min
		}
		if min == -1 || v < min {
			min = v
		}
	}
	return min
}

// MaxSize is the per-path maximum element count contributed by this chunk:
// the maximum across its representants' Max bounds. nil (unbounded)
// poisons the result.
func (c Chunk) MaxSize(p Path) (int, bool) {
	reps := c.repsUnder(p)
	if len(reps) == 0 {
		return 0, true
	}
	max := 0
	for _, r := range reps {
		if r.Max == nil {
			return 0, false
		}
		if *r.Max > max {
			max = *r.Max
		}
	}
	return max, true
}

// Branch is one possible content sequence: an ordered list of Chunks,
// tagged with the Path under which it is the active content.
type Branch struct {
	Path   Path
	Chunks []Chunk
}

// MinMax computes the branch's size range: min = sum of chunk mins, max =
// sum of chunk maxes with a nil bound poisoning the sum to unknown
// (spec.md 4.3, "Size aggregation").
func (b Branch) MinMax() (min int, max int, maxKnown bool) {
	maxKnown = true
	for _, c := range b.Chunks {
		min += c.MinSize(b.Path)
		if maxKnown {
			m, known := c.MaxSize(b.Path)
			if !known {
				maxKnown = false
			} else {
				max += m
			}
		}
	}
	return
}

// IsReliable reports whether both bounds of the branch are definite.
func (b Branch) IsReliable() bool {
	_, _, known := b.MinMax()
	return known
}

// Collection is a path-indexed, chunked abstraction of ordered/unordered
// container contents: a stack of Frames, each a vector of Branches.
// Grounded on spec.md 4.3; the stack-of-frames-consumed-on-merge shape
// mirrors how pkg/graft/evaluator.go pushes/pops a *tree.Cursor around
// recursive descent, generalized from one active cursor to a full history
// of not-yet-merged sibling worlds.
type Collection struct {
	frames []collectionFrame
}

type collectionFrame struct {
	cause    PathNode
	branches []Branch
}

// NewCollection returns an empty collection with one initial branch under
// the root path.
func NewCollection() *Collection {
	return &Collection{frames: []collectionFrame{{branches: []Branch{{Path: EmptyPath()}}}}}
}

// active returns the branches of the currently active (top) frame.
func (c *Collection) active() []Branch {
	return c.frames[len(c.frames)-1].branches
}

// Branches exposes the currently active frame's branches, for callers
// outside this package that need size-range information (e.g. an
// OUT_OF_BOUNDS check against a literal index).
func (c *Collection) Branches() []Branch {
	return c.active()
}

// Define replaces all content with a freshly built sequence of chunks -
// the initializer operation.
func (c *Collection) Define(chunks []Chunk) {
	top := &c.frames[len(c.frames)-1]
	for i := range top.branches {
		top.branches[i].Chunks = append([]Chunk{}, chunks...)
	}
}

// Append adds a chunk to the end of every active branch.
func (c *Collection) Append(chunk Chunk) {
	top := &c.frames[len(c.frames)-1]
	for i := range top.branches {
		top.branches[i].Chunks = append(top.branches[i].Chunks, chunk)
	}
}

// Prepend adds a chunk to the start of every active branch.
func (c *Collection) Prepend(chunk Chunk) {
	top := &c.frames[len(c.frames)-1]
	for i := range top.branches {
		top.branches[i].Chunks = append([]Chunk{chunk}, top.branches[i].Chunks...)
	}
}

// Insert inserts chunk between every pair of existing chunks and at both
// ends, modeling "inserted somewhere" (spec.md 4.3).
func (c *Collection) Insert(chunk Chunk) {
	top := &c.frames[len(c.frames)-1]
	for i := range top.branches {
		old := top.branches[i].Chunks
		next := make([]Chunk, 0, len(old)*2+1)
		next = append(next, chunk)
		for _, ch := range old {
			next = append(next, ch, chunk)
		}
		top.branches[i].Chunks = next
	}
}

// Grow pushes a new stack frame for a branch point, cloning existing
// content into every new sibling branch (spec.md 4.3, "Framing").
func (c *Collection) Grow(cause PathNode, siblingPaths []Path) {
	base := c.active()
	branches := make([]Branch, 0, len(siblingPaths))
	for _, p := range siblingPaths {
		for _, b := range base {
			branches = append(branches, Branch{Path: p, Chunks: append([]Chunk{}, b.Chunks...)})
		}
	}
	c.frames = append(c.frames, collectionFrame{cause: cause, branches: branches})
}

// MergeBranches pops one frame, augmenting every content entry's path with
// the frame's cause PathNode carrying the branch index, and folds the
// result back into the parent frame.
func (c *Collection) MergeBranches() {
	if len(c.frames) < 2 {
		panic(&SiftError{Kind: InvariantError, Message: "merge_branches with no pushed frame"})
	}
	top := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	parent := &c.frames[len(c.frames)-1]

	merged := make([]Branch, len(top.branches))
	for i, b := range top.branches {
		merged[i] = Branch{Path: b.Path.Add(top.cause), Chunks: b.Chunks}
	}
	parent.branches = merged
}

// MergeUntil pops frames while their cause location is deeper than cutoff.
func (c *Collection) MergeUntil(cutoff Location) {
	for len(c.frames) > 1 {
		cause := c.frames[len(c.frames)-1].cause
		if cause.Loc == nil || cause.Loc.compare(cutoff) <= 0 {
			return
		}
		c.MergeBranches()
	}
}

// Depth reports the number of active (unmerged) frames - used by
// Object.LiftBranches (object.go) to decide which of attributes/elements
// has the shallower stack and should drive synchronized progress.
func (c *Collection) Depth() int {
	return len(c.frames)
}

// firstCombinations enumerates at most n consecutive elements from the
// front of a branch by a depth-bounded search over its chunks (spec.md
// 4.3, "Linearization"). Each returned element is a Mapping to the
// representant chosen for that position, stamped with an Element marker.
func firstCombinations(b Branch, n int, loc Location) []Mapping {
	return combinations(b.Chunks, n, loc, false)
}

// lastCombinations is the mirror of firstCombinations, searching from the
// back of the branch.
func lastCombinations(b Branch, n int, loc Location) []Mapping {
	rev := make([]Chunk, len(b.Chunks))
	for i, c := range b.Chunks {
		rev[len(b.Chunks)-1-i] = c
	}
	out := combinations(rev, n, loc, true)
	// out[i] corresponds to position (len-1-i) from the front; reverse
	// the slice so callers see it in natural forward order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func combinations(chunks []Chunk, n int, loc Location, fromEnd bool) []Mapping {
	var out []Mapping
	total := n
	for _, chunk := range chunks {
		if len(out) >= n {
			break
		}
		reps := chunk.repsUnder(EmptyPath())
		if len(reps) == 0 {
			continue
		}
		min := chunk.MinSize(EmptyPath())
		max, known := chunk.MaxSize(EmptyPath())
		if !known || max > n {
			max = n
		}
		if min == 0 && len(out) >= n {
			continue
		}
		count := min
		if count == 0 && max > 0 {
			// A chunk with min=0 may be skipped entirely; emit one copy
			// only if room remains and the next chunks can't fill n.
			count = 0
		}
		for i := 0; i < count && len(out) < n; i++ {
			out = append(out, elementMapping(reps, loc, len(out), total, fromEnd))
		}
		for i := count; i < max && len(out) < n; i++ {
			out = append(out, elementMapping(reps, loc, len(out), total, fromEnd))
		}
	}
	return out
}

func elementMapping(reps []Representant, loc Location, idxSeen, totalSeen int, fromEnd bool) Mapping {
	var m Mapping
	for _, r := range reps {
		elemNode := NewElement(loc, idxSeen, totalSeen)
		m = m.Union(SimpleMapping(EmptyPath().Add(elemNode), r.Addr))
	}
	return m
}

// GetElement resolves a[i]: get_element(i) uses the first (i+1)-combination
// (last position) for i >= 0 and the last |i|-combination (first
// position) for i < 0.
func (c *Collection) GetElement(i int, loc Location) Mapping {
	var result Mapping
	for _, b := range c.active() {
		var seq []Mapping
		if i >= 0 {
			seq = firstCombinations(b, i+1, loc)
			if len(seq) <= i {
				continue
			}
			result = result.Union(seq[i])
		} else {
			seq = lastCombinations(b, -i, loc)
			if len(seq) < -i {
				continue
			}
			result = result.Union(seq[0])
		}
	}
	return result
}

// GetAnyElement yields the union across all chunks without ordering -
// get_any_element().
func (c *Collection) GetAnyElement(loc Location) Mapping {
	var result Mapping
	for _, b := range c.active() {
		for _, chunk := range b.Chunks {
			for _, r := range chunk.repsUnder(b.Path) {
				result = result.Union(SimpleMapping(EmptyPath().Add(NewElement(loc, 0, 0)), r.Addr))
			}
		}
	}
	return result
}

// Slice computes a[i:j] where j is given as a negative "from-end" count:
// every representant in the first i chunks and in the last fromEndJ
// chunks has its min and max reduced by one, and representants whose new
// max falls to zero are dropped. Occurrences are not counted through
// first/last combinations, so a chunk that can hold several elements
// loses at most one of them at each end. Known limitation
// (spec.md 4.3/9, Open Question a): accuracy degrades when a branch mixes
// a splat target with fixed targets - the slice is approximate, and that
// inaccuracy is intentionally preserved, not "fixed".
func (c *Collection) Slice(i, fromEndJ int, loc Location) *Collection {
	out := NewCollection()
	var chunks []Chunk
	for _, b := range c.active() {
		dropFront := i
		dropBack := fromEndJ
		newChunks := make([]Chunk, 0, len(b.Chunks))
		for idx, chunk := range b.Chunks {
			reps := chunk.repsUnder(b.Path)
			adjusted := make([]Representant, 0, len(reps))
			for _, r := range reps {
				min, max := r.Min, r.Max
				if dropFront > 0 && idx < dropFront {
					min = shrink(min, 1)
					max = shrink(max, 1)
				}
				if dropBack > 0 && idx >= len(b.Chunks)-dropBack {
					min = shrink(min, 1)
					max = shrink(max, 1)
				}
				if max != nil && *max <= 0 {
					continue // representant's contribution vanished
				}
				adjusted = append(adjusted, Representant{Addr: r.Addr, KindAddr: r.KindAddr, Min: min, Max: max})
			}
			if len(adjusted) > 0 {
				newChunks = append(newChunks, Chunk{sets: []chunkPathSet{{path: EmptyPath(), reps: adjusted}}})
			}
		}
		chunks = newChunks
	}
	out.Define(chunks)
	return out
}

func shrink(v *int, by int) *int {
	if v == nil {
		return nil
	}
	n := *v - by
	if n < 0 {
		n = 0
	}
	return &n
}
