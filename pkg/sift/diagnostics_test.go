package sift

import (
	"sort"
	"strings"
	"testing"
)

// TestRecordFingerprintStableAcrossPaths covers spec.md 8 property 7:
// two records that differ only in which Path produced them (not in
// Kind/Loc/Message) must collapse to the same fingerprint, so the same
// underlying fault reported from two branches folds into one diagnostic.
func TestRecordFingerprintStableAcrossPaths(t *testing.T) {
	a := Record{
		Kind: KindTypeUnsafe, Severity: SeverityWarning, Message: "x may not be a number",
		Loc: Location{3, 1}, Path: EmptyPath().Add(NewCondition(Location{1}, 0, 2)),
	}
	b := a
	b.Path = EmptyPath().Add(NewCondition(Location{1}, 1, 2))

	if a.computeFingerprint() != b.computeFingerprint() {
		t.Fatalf("fingerprint must not depend on Path: %s vs %s", a.computeFingerprint(), b.computeFingerprint())
	}
}

// TestRecordFingerprintDiffersOnKindOrLoc covers the flip side: changing
// Kind or Loc must change the fingerprint, or unrelated faults would
// wrongly collapse together.
func TestRecordFingerprintDiffersOnKindOrLoc(t *testing.T) {
	base := Record{Kind: KindTypeUnsafe, Message: "m", Loc: Location{1}}
	otherKind := base
	otherKind.Kind = KindBinOpInvalid
	if base.computeFingerprint() == otherKind.computeFingerprint() {
		t.Fatalf("expected different fingerprints for different Kinds")
	}

	otherLoc := base
	otherLoc.Loc = Location{2}
	if base.computeFingerprint() == otherLoc.computeFingerprint() {
		t.Fatalf("expected different fingerprints for different Locs")
	}
}

// TestBusDedupAcrossPublishers covers the Bus's duplicate-fingerprint
// folding: publishing the same underlying fault from two different
// worlds yields one Record out of Drain, and Drain only returns after
// Close (draining is started concurrently to avoid the producer
// blocking on a full buffered channel).
func TestBusDedupAcrossPublishers(t *testing.T) {
	bus := NewBus(4)
	drained := make(chan []Record, 1)
	go func() { drained <- bus.Drain() }()

	dup1 := Record{Kind: KindIdentifierUnsafe, Message: "x unbound", Loc: Location{5}, Path: EmptyPath().Add(NewCondition(Location{1}, 0, 2))}
	dup2 := dup1
	dup2.Path = EmptyPath().Add(NewCondition(Location{1}, 1, 2))
	distinct := Record{Kind: KindIdentifierUnsafe, Message: "y unbound", Loc: Location{6}}

	bus.Publish(dup1)
	bus.Publish(dup2)
	bus.Publish(distinct)
	bus.Close()

	recs := <-drained
	if len(recs) != 2 {
		t.Fatalf("expected 2 deduplicated records, got %d", len(recs))
	}
}

// TestBusDrainSortsByLocation covers Drain's documented output order:
// sorted by Loc, then by Fingerprint as a tiebreaker.
func TestBusDrainSortsByLocation(t *testing.T) {
	bus := NewBus(4)
	drained := make(chan []Record, 1)
	go func() { drained <- bus.Drain() }()

	bus.Publish(Record{Kind: KindTypeUnsafe, Message: "b", Loc: Location{9}})
	bus.Publish(Record{Kind: KindTypeUnsafe, Message: "a", Loc: Location{2}})
	bus.Close()

	recs := <-drained
	if !sort.SliceIsSorted(recs, func(i, j int) bool {
		return recs[i].Loc.compare(recs[j].Loc) < 0
	}) {
		t.Fatalf("expected Drain's output sorted by Loc, got %+v", recs)
	}
}

// TestRecordMarshalJSONRendersAlwaysForEmptyPath covers the required
// "Always" substitution for an unconditioned diagnostic's rendered path.
func TestRecordMarshalJSONRendersAlwaysForEmptyPath(t *testing.T) {
	r := Record{Kind: KindArgumentInvalid, Severity: SeverityError, Message: "wrong arity", Loc: Location{1}, Path: EmptyPath(), Fingerprint: "abc123"}
	data, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"path":"Always"`) {
		t.Fatalf("expected the empty path to render as \"Always\", got %s", data)
	}
}
