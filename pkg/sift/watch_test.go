package sift

import "testing"

// TestNewWatchUsesPackageDefaultCap covers the plain constructor: no
// explicit cap means the package default MaxLoopIterations applies.
func TestNewWatchUsesPackageDefaultCap(t *testing.T) {
	w := NewWatch()
	loc := Location{7}
	w.Enter(loc)

	for i := 0; i < MaxLoopIterations; i++ {
		if w.Record(loc, uintToString(uint64(i))) {
			t.Fatalf("expected no fixed point or cap before %d distinct snapshots", MaxLoopIterations)
		}
	}
	if !w.Record(loc, uintToString(uint64(MaxLoopIterations))) {
		t.Fatalf("expected the cap to trip on the iteration past MaxLoopIterations")
	}
	if !w.AtCap(loc) {
		t.Fatalf("expected AtCap to report true once the default cap is exceeded")
	}
	if w.Iterations(loc) != MaxLoopIterations+1 {
		t.Fatalf("expected Iterations to report %d, got %d", MaxLoopIterations+1, w.Iterations(loc))
	}
}

// TestWatchRecordDetectsFixedPoint covers the non-cap stop condition: a
// repeated snapshot signals convergence well before the hard cap.
func TestWatchRecordDetectsFixedPoint(t *testing.T) {
	w := NewWatchWithCap(10)
	loc := Location{3}
	w.Enter(loc)

	if w.Record(loc, "same") {
		t.Fatalf("expected the first snapshot to not trip a stop")
	}
	if !w.Record(loc, "same") {
		t.Fatalf("expected a repeated snapshot to report a fixed point")
	}
	if w.AtCap(loc) {
		t.Fatalf("expected AtCap to be false when the stop was a fixed point, not the cap")
	}
}

// TestWatchRecordingWhileProblemsFlagsUntouchedCondition covers spec.md
// 8's canonical scenario: `while x > 0: y = y + 1` never reassigns x, so
// every path the recording saw should come back as a real problem.
func TestWatchRecordingWhileProblemsFlagsUntouchedCondition(t *testing.T) {
	loc := Location{1}
	addr := Address(1)

	r := newWatchRecording(loc)
	r.storeIdentifierDependency("x", SimpleMapping(EmptyPath(), addr).ToOptional())
	r.toggle()

	problems, real := r.whileProblems()
	if !real {
		t.Fatalf("expected a real problem when x is never reassigned")
	}
	if len(problems) != 1 || problems[0].Len() != 0 {
		t.Fatalf("expected a single always-applicable problem path, got %v", problems)
	}
}

// TestWatchRecordingWhileProblemsClearsOnReassignment covers the paired
// positive case: once the condition's identifier is actually rebound to
// a fresh address, there is no non-progress problem left to report.
func TestWatchRecordingWhileProblemsClearsOnReassignment(t *testing.T) {
	loc := Location{1}
	before := Address(1)
	after := Address(2)

	r := newWatchRecording(loc)
	r.storeIdentifierDependency("x", SimpleMapping(EmptyPath(), before).ToOptional())
	r.toggle()
	r.storeIdentifierChange("x", EmptyPath(), SimpleMapping(EmptyPath(), after).ToOptional())

	if _, real := r.whileProblems(); real {
		t.Fatalf("expected no problem once x is reassigned on every path")
	}
}

// TestWatchRecordingForProblemsFlagsMutatedIteratee covers spec.md 8's
// for-loop counterpart: mutating an object read during setup is reported
// under the path the mutation happened on, via the same recording
// mechanics as the while-loop check.
func TestWatchRecordingForProblemsFlagsMutatedIteratee(t *testing.T) {
	loc := Location{1}
	addr := Address(1)
	mutated := EmptyPath().Add(NewCondition(Location{2}, 0, 2))

	r := newWatchRecording(loc)
	r.storeIdentifierDependency("items", SimpleMapping(EmptyPath(), addr).ToOptional())
	r.toggle()
	r.storeObjectChange(addr, mutated)

	problems := r.forProblems()
	if len(problems) != 1 {
		t.Fatalf("expected exactly one problem path, got %v", problems)
	}
}

// TestWatchRecordingForProblemsCleanOnUntouchedIteratee covers the
// negative case: an address read during setup but never mutated
// produces no problem path.
func TestWatchRecordingForProblemsCleanOnUntouchedIteratee(t *testing.T) {
	loc := Location{1}
	addr := Address(1)

	r := newWatchRecording(loc)
	r.storeIdentifierDependency("items", SimpleMapping(EmptyPath(), addr).ToOptional())
	r.toggle()

	if problems := r.forProblems(); len(problems) != 0 {
		t.Fatalf("expected no problems for an untouched iteratee, got %v", problems)
	}
}
