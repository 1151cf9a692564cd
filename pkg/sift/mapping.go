package sift

// Mapping is a finite disjunction of (Path, Address) possibilities: "under
// path P, the value is at address A". Multiple entries represent
// disjunction across worlds. Grounded on the value-wrapper shape of
// pkg/graft/value_types.go, generalized from one concrete Go value per
// entry to one heap Address per world.
type Mapping struct {
	entries []mappingEntry
}

type mappingEntry struct {
	path Path
	addr Address
}

// OptionalMapping is a Mapping whose entries may lack an address, denoting
// "definitely unbound under P". It shares Mapping's iteration contract but
// is a distinct type, per spec.md 4.2/9.
type OptionalMapping struct {
	entries []optionalEntry
}

type optionalEntry struct {
	path  Path
	addr  Address
	bound bool
}

// SimpleMapping builds a single-entry Mapping.
func SimpleMapping(path Path, addr Address) Mapping {
	return Mapping{entries: []mappingEntry{{path: path, addr: addr}}}
}

// AddMapping returns a copy of m with (path, addr) unioned in.
func (m Mapping) AddMapping(path Path, addr Address) Mapping {
	out := Mapping{entries: append([]mappingEntry{}, m.entries...)}
	out.entries = append(out.entries, mappingEntry{path: path, addr: addr})
	return out
}

// Union returns the disjunction of m and other.
func (m Mapping) Union(other Mapping) Mapping {
	out := Mapping{entries: append([]mappingEntry{}, m.entries...)}
	out.entries = append(out.entries, other.entries...)
	return out
}

// Len reports the number of (path, addr) alternatives.
func (m Mapping) Len() int {
	return len(m.entries)
}

// Augment extends every key-path with n, used to stamp a result with the
// producing branch/assignment marker. Monotone: Len is unchanged and every
// entry's path gains exactly n (spec.md 8, property 2).
func (m Mapping) Augment(n PathNode) Mapping {
	out := Mapping{entries: make([]mappingEntry, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = mappingEntry{path: e.path.Add(n), addr: e.addr}
	}
	return out
}

// Prune drops markers at or below cutoff from every entry's path.
func (m Mapping) Prune(cutoff Location) Mapping {
	out := Mapping{entries: make([]mappingEntry, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = mappingEntry{path: e.path.Prune(cutoff), addr: e.addr}
	}
	return out
}

// Restrict keeps only entries whose path is contained in, or mergeable
// under, one of the given allowed paths - used when a conditional narrows
// the active world set.
func (m Mapping) Restrict(allowed []Path) Mapping {
	out := Mapping{}
	for _, e := range m.entries {
		for _, a := range allowed {
			if e.path.Mergeable(a) {
				out.entries = append(out.entries, e)
				break
			}
		}
	}
	return out
}

// Each iterates the (path, addr) pairs in a deterministic, path-sorted
// order (iteration order is not semantically observable, but must be
// reproducible across runs - spec.md 4.2).
func (m Mapping) Each(fn func(Path, Address)) {
	entries := append([]mappingEntry{}, m.entries...)
	sortMappingEntries(entries)
	for _, e := range entries {
		fn(e.path, e.addr)
	}
}

// Addresses returns the distinct addresses reachable under this mapping.
func (m Mapping) Addresses() []Address {
	seen := map[Address]bool{}
	var out []Address
	m.Each(func(_ Path, a Address) {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	})
	return out
}

func sortMappingEntries(entries []mappingEntry) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && entries[j-1].path.String() > entries[j].path.String() {
			entries[j-1], entries[j] = entries[j], entries[j-1]
			j--
		}
	}
}

// ToOptional lifts a Mapping to an OptionalMapping where every entry is bound.
func (m Mapping) ToOptional() OptionalMapping {
	out := OptionalMapping{entries: make([]optionalEntry, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = optionalEntry{path: e.path, addr: e.addr, bound: true}
	}
	return out
}

// DefaultUnbound is the canonical "unbound everywhere" OptionalMapping: a
// singleton mapping to "unbound" under the root path, per spec.md 4.4.
func DefaultUnbound() OptionalMapping {
	return OptionalMapping{entries: []optionalEntry{{path: EmptyPath(), bound: false}}}
}

// SimpleOptional builds a single bound entry.
func SimpleOptional(path Path, addr Address) OptionalMapping {
	return OptionalMapping{entries: []optionalEntry{{path: path, addr: addr, bound: true}}}
}

// SimpleUnbound builds a single unbound entry under path.
func SimpleUnbound(path Path) OptionalMapping {
	return OptionalMapping{entries: []optionalEntry{{path: path, bound: false}}}
}

// Len reports the number of alternatives.
func (m OptionalMapping) Len() int {
	return len(m.entries)
}

// Augment extends every key-path with n.
func (m OptionalMapping) Augment(n PathNode) OptionalMapping {
	out := OptionalMapping{entries: make([]optionalEntry, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = optionalEntry{path: e.path.Add(n), addr: e.addr, bound: e.bound}
	}
	return out
}

// Prune drops markers at or below cutoff from every entry's path.
func (m OptionalMapping) Prune(cutoff Location) OptionalMapping {
	out := OptionalMapping{entries: make([]optionalEntry, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = optionalEntry{path: e.path.Prune(cutoff), addr: e.addr, bound: e.bound}
	}
	return out
}

// Union returns the disjunction of m and other.
func (m OptionalMapping) Union(other OptionalMapping) OptionalMapping {
	out := OptionalMapping{entries: append([]optionalEntry{}, m.entries...)}
	out.entries = append(out.entries, other.entries...)
	return out
}

// Each iterates the (path, addr, bound) triples in deterministic order.
func (m OptionalMapping) Each(fn func(Path, Address, bool)) {
	entries := append([]optionalEntry{}, m.entries...)
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && entries[j-1].path.String() > entries[j].path.String() {
			entries[j-1], entries[j] = entries[j], entries[j-1]
			j--
		}
	}
	for _, e := range entries {
		fn(e.path, e.addr, e.bound)
	}
}

// Bound returns the Mapping formed from only the bound alternatives, and
// the set of paths under which the name resolved to unbound.
func (m OptionalMapping) Bound() (Mapping, []Path) {
	var mapping Mapping
	var unbound []Path
	m.Each(func(p Path, a Address, bound bool) {
		if bound {
			mapping.entries = append(mapping.entries, mappingEntry{path: p, addr: a})
		} else {
			unbound = append(unbound, p)
		}
	})
	return mapping, unbound
}

// IsAlwaysUnbound reports whether every alternative is unbound - used to
// classify an IDENTIFIER_UNSAFE vs IDENTIFIER_INVALID diagnostic.
func (m OptionalMapping) IsAlwaysUnbound() bool {
	for _, e := range m.entries {
		if e.bound {
			return false
		}
	}
	return len(m.entries) > 0
}
