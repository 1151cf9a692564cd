package sift

import "testing"

// TestKnowledgeTypeNameOfRoundTripsWithTypeAddress covers the
// addrToName side of Knowledge's bidirectional type map, the half
// TypeAddress alone doesn't exercise.
func TestKnowledgeTypeNameOfRoundTripsWithTypeAddress(t *testing.T) {
	k := NewKnowledge(NewHeap())
	addr := k.RegisterType("widget")

	gotAddr, ok := k.TypeAddress("widget")
	if !ok || gotAddr != addr {
		t.Fatalf("expected TypeAddress to find the registered type")
	}

	gotName, ok := k.TypeNameOf(addr)
	if !ok || gotName != "widget" {
		t.Fatalf("expected TypeNameOf(%v) to return %q, got %q (ok=%v)", addr, "widget", gotName, ok)
	}

	if _, ok := k.TypeNameOf(Address(999)); ok {
		t.Fatalf("expected TypeNameOf to report false for an unregistered address")
	}
}
