package sift

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PathKind tags the variant carried by a PathNode, the same tagged-union
// shape the teacher uses for Expr/ExprType (pkg/graft/interfaces.go): one
// enum selects which of the node's fields are meaningful.
type PathKind int

const (
	// Condition marks a chosen branch of a two- or multi-way conditional.
	Condition PathKind = iota
	// Loop marks execution inside a loop body.
	Loop
	// Frame marks a callee- or comprehension-introduced world-slot.
	Frame
	// Element marks one element out of an abstract container.
	Element
	// Assignment is an assignment watermark disambiguating before/after
	// states at the same location.
	Assignment
	// Return marks a return-bearing subpath.
	Return
)

func (k PathKind) String() string {
	switch k {
	case Condition:
		return "Condition"
	case Loop:
		return "Loop"
	case Frame:
		return "Frame"
	case Element:
		return "Element"
	case Assignment:
		return "Assignment"
	case Return:
		return "Return"
	default:
		return "Unknown"
	}
}

// Location is a nonempty vector of AST node ids. It accumulates as analysis
// crosses call/frame boundaries, so the first id names the innermost node
// and later ids name the enclosing call sites.
type Location []int

// compare orders two locations lexicographically, shorter-is-less on a
// shared prefix (an outer frame's location is a proper prefix of an inner
// one's).
func (l Location) compare(o Location) int {
	for i := 0; i < len(l) && i < len(o); i++ {
		if l[i] != o[i] {
			if l[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(l) < len(o):
		return -1
	case len(l) > len(o):
		return 1
	default:
		return 0
	}
}

func (l Location) String() string {
	parts := make([]string, len(l))
	for i, n := range l {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "/")
}

// PathNode is one marker in a Path. Only the fields relevant to Kind are
// populated, mirroring the teacher's sparsely-populated Expr struct.
type PathNode struct {
	Kind         PathKind
	Loc          Location
	BranchIndex  int
	BranchCount  int
	Label        string // Frame
	Idx          int    // Element
	Total        int    // Element
	TargetRepr   string // Assignment
}

// NewCondition builds a Condition PathNode.
func NewCondition(loc Location, branchIndex, branchCount int) PathNode {
	return PathNode{Kind: Condition, Loc: loc, BranchIndex: branchIndex, BranchCount: branchCount}
}

// NewLoop builds a Loop PathNode.
func NewLoop(loc Location) PathNode {
	return PathNode{Kind: Loop, Loc: loc}
}

// NewFrame builds a Frame PathNode.
func NewFrame(loc Location, label string, branchIndex, branchCount int) PathNode {
	return PathNode{Kind: Frame, Loc: loc, Label: label, BranchIndex: branchIndex, BranchCount: branchCount}
}

// NewElement builds an Element PathNode.
func NewElement(loc Location, idx, total int) PathNode {
	return PathNode{Kind: Element, Loc: loc, Idx: idx, Total: total}
}

// NewAssignment builds an Assignment PathNode.
func NewAssignment(loc Location, targetRepr string) PathNode {
	return PathNode{Kind: Assignment, Loc: loc, TargetRepr: targetRepr}
}

// NewReturn builds a Return PathNode.
func NewReturn(loc Location) PathNode {
	return PathNode{Kind: Return, Loc: loc}
}

func (n PathNode) String() string {
	switch n.Kind {
	case Condition:
		return fmt.Sprintf("Condition(%s,%d/%d)", n.Loc, n.BranchIndex, n.BranchCount)
	case Loop:
		return fmt.Sprintf("Loop(%s)", n.Loc)
	case Frame:
		return fmt.Sprintf("Frame(%s,%s,%d/%d)", n.Loc, n.Label, n.BranchIndex, n.BranchCount)
	case Element:
		return fmt.Sprintf("Element(%s,%d/%d)", n.Loc, n.Idx, n.Total)
	case Assignment:
		return fmt.Sprintf("Assignment(%s,%s)", n.Loc, n.TargetRepr)
	case Return:
		return fmt.Sprintf("Return(%s)", n.Loc)
	default:
		return "?"
	}
}

// Equal reports whether n and o are identical markers (same Kind, Loc, and
// all Kind-specific fields). Needed because PathNode embeds Location, a
// slice, so it isn't comparable with ==.
func (n PathNode) Equal(o PathNode) bool {
	return n.Kind == o.Kind &&
		n.Loc.compare(o.Loc) == 0 &&
		n.BranchIndex == o.BranchIndex &&
		n.BranchCount == o.BranchCount &&
		n.Label == o.Label &&
		n.Idx == o.Idx &&
		n.Total == o.Total &&
		n.TargetRepr == o.TargetRepr
}

// sameSlot reports whether two nodes occupy the "same slot" for ordering
// and mergeability purposes: same location, and for Element nodes, the
// same index too (different-element worlds are distinct slots, never
// contradictory - spec.md 4.1).
func (n PathNode) sameSlot(o PathNode) bool {
	if n.Loc.compare(o.Loc) != 0 {
		return false
	}
	if n.Kind == Element || o.Kind == Element {
		return n.Kind == Element && o.Kind == Element && n.Idx == o.Idx
	}
	return true
}

// less implements the Path total order: primarily by location, with
// Assignment ordered after non-assignment nodes sharing its location
// prefix, and Element comparing on (location, idx).
func (n PathNode) less(o PathNode) bool {
	if c := n.Loc.compare(o.Loc); c != 0 {
		return c < 0
	}
	if n.Kind == Element || o.Kind == Element {
		if n.Kind != o.Kind {
			return n.Kind == Element
		}
		return n.Idx < o.Idx
	}
	if n.Kind == Assignment && o.Kind != Assignment {
		return false
	}
	if o.Kind == Assignment && n.Kind != Assignment {
		return true
	}
	if n.Kind != o.Kind {
		return n.Kind < o.Kind
	}
	return n.BranchIndex < o.BranchIndex
}

// Path is an ordered set of PathNodes identifying one abstract world.
// Kept as a sorted slice - the teacher's Cursor (internal/utils/tree/cursor.go)
// is likewise a thin ordered slice of string components with push/pop/
// contains/copy helpers; Path generalizes that shape to tagged markers with
// a domain-specific total order instead of plain string equality.
type Path struct {
	nodes []PathNode
}

// EmptyPath returns the root path (no markers): the single initial world.
func EmptyPath() Path {
	return Path{}
}

// Add returns a copy of the path with n inserted in sorted position. If a
// node of the same kind already occupies the same slot, it is replaced (an
// assignment watermark at a previously-assigned location, for example).
func (p Path) Add(n PathNode) Path {
	out := make([]PathNode, 0, len(p.nodes)+1)
	inserted := false
	for _, existing := range p.nodes {
		if !inserted && n.less(existing) {
			out = append(out, n)
			inserted = true
		}
		if existing.sameSlot(n) && existing.Kind == n.Kind {
			continue // superseded by n
		}
		out = append(out, existing)
	}
	if !inserted {
		out = append(out, n)
	}
	return Path{nodes: out}
}

// Nodes returns the underlying ordered node slice. Callers must not mutate it.
func (p Path) Nodes() []PathNode {
	return p.nodes
}

// Len returns the number of markers in the path.
func (p Path) Len() int {
	return len(p.nodes)
}

// Contains reports whether p is a superset of other-as-a-path: every node
// in other also appears in p (subset-as-path, spec.md 4.1).
func (p Path) Contains(other Path) bool {
	for _, want := range other.nodes {
		found := false
		for _, have := range p.nodes {
			if have.Equal(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MergeInto returns the set-union of p and other under the Path total order.
func (p Path) MergeInto(other Path) Path {
	out := p
	for _, n := range other.nodes {
		present := false
		for _, existing := range out.nodes {
			if existing.Equal(n) {
				present = true
				break
			}
		}
		if !present {
			out = out.Add(n)
		}
	}
	return out
}

// Mergeable reports whether p and other are mergeable: at every shared
// location they either agree on BranchIndex (for Condition/Loop/Frame) or
// one side is silent (has no node at that location). Element indices never
// contradict - they are always treated as distinct, non-conflicting worlds.
func (p Path) Mergeable(other Path) bool {
	for _, a := range p.nodes {
		if a.Kind == Element {
			continue
		}
		for _, b := range other.nodes {
			if b.Kind == Element {
				continue
			}
			if a.Loc.compare(b.Loc) == 0 && a.Kind == b.Kind {
				if a.BranchIndex != b.BranchIndex {
					return false
				}
			}
		}
	}
	return true
}

// Prune drops nodes whose location is at or below cutoff, used when
// crossing a watched boundary so inner subpaths survive but scaffolding
// does not.
func (p Path) Prune(cutoff Location) Path {
	out := make([]PathNode, 0, len(p.nodes))
	for _, n := range p.nodes {
		if n.Loc.compare(cutoff) > 0 {
			out = append(out, n)
		}
	}
	return Path{nodes: out}
}

// Reverse emits, for each branch node in the path, the sibling variants -
// used to enumerate "the worlds this path is not".
func (p Path) Reverse() []Path {
	var out []Path
	for i, n := range p.nodes {
		if n.Kind != Condition && n.Kind != Frame {
			continue
		}
		for b := 0; b < n.BranchCount; b++ {
			if b == n.BranchIndex {
				continue
			}
			sibling := n
			sibling.BranchIndex = b
			rest := make([]PathNode, len(p.nodes))
			copy(rest, p.nodes)
			rest[i] = sibling
			out = append(out, Path{nodes: rest})
		}
	}
	sortPaths(out)
	return out
}

func (p Path) String() string {
	parts := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " | ")
}

// sortPaths orders a slice of paths deterministically - used anywhere
// iteration order over a disjunction must be stable across runs (Mapping,
// spec.md 4.2).
func sortPaths(ps []Path) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].String() < ps[j].String()
	})
}
